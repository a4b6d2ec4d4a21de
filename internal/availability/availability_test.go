package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandyspetshop/petshop-scheduler/internal/domain/service"
	"github.com/sandyspetshop/petshop-scheduler/internal/timezone"
)

var zone = timezone.Default

// 2025-06-09 is a Monday; 2025-06-11 a Wednesday.
func at(day, hour int) time.Time {
	return zone.MustInstant(2025, time.June, day, hour, 0, 0)
}

func newCalc() *Calculator {
	return NewCalculator(zone, DefaultPolicy())
}

func storeBooking(id string, svc service.Type, day, hour int) Booked {
	return Booked{ID: id, Family: service.FamilyStore, Service: svc, Instant: at(day, hour)}
}

func TestComputeEmptyDayIsAvailable(t *testing.T) {
	slots, err := newCalc().Compute(Request{
		Date:    at(9, 12),
		Service: service.BathGrooming,
		Now:     at(1, 8),
	}, nil, nil)
	require.NoError(t, err)

	require.Len(t, slots, len(DefaultPolicy().StoreHours))
	for h, state := range slots {
		assert.Equal(t, Available, state, "hour %d", h)
	}
}

func TestComputeCapacityAndFamilySeparation(t *testing.T) {
	snapshot := []Booked{
		storeBooking("a", service.Grooming, 9, 10),
		storeBooking("b", service.BathGrooming, 9, 10),
		{ID: "m", Family: service.FamilyMobile, Service: service.MobileBath, Instant: at(9, 11)},
		{ID: "x", Family: service.FamilyStore, Service: service.Grooming, Instant: at(9, 11), Cancelled: true},
	}
	calc := newCalc()
	req := Request{Date: at(9, 12), Service: service.Grooming, Now: at(1, 8)}

	slots, err := calc.Compute(req, snapshot, nil)
	require.NoError(t, err)
	assert.Equal(t, Full, slots[10])
	assert.Equal(t, Available, slots[11])

	require.ErrorIs(t, calc.Check(req, 10, snapshot, nil), ErrSlotFull)
	require.NoError(t, calc.Check(req, 11, snapshot, nil))

	// Moving one of the two frees the slot for itself.
	req.ExcludeID = "a"
	require.NoError(t, calc.Check(req, 10, snapshot, nil))
}

func TestVisitsShareStoreCapacity(t *testing.T) {
	snapshot := []Booked{
		storeBooking("a", service.Grooming, 9, 10),
		storeBooking("b", service.Bath, 9, 10),
		storeBooking("v", service.DaycareVisit, 9, 14),
		storeBooking("w", service.HotelVisit, 9, 14),
	}
	calc := newCalc()

	visit, err := calc.Compute(Request{Date: at(9, 12), Service: service.HotelVisit, Now: at(1, 8)}, snapshot, nil)
	require.NoError(t, err)
	assert.Equal(t, Full, visit[10])
	assert.Equal(t, Available, visit[11])

	grooming, err := calc.Compute(Request{Date: at(9, 12), Service: service.Grooming, Now: at(1, 8)}, snapshot, nil)
	require.NoError(t, err)
	assert.Equal(t, Full, grooming[14])
	assert.Equal(t, Available, grooming[15])
}

func TestMobileIgnoresStoreLoad(t *testing.T) {
	snapshot := []Booked{
		storeBooking("a", service.Grooming, 11, 10),
		storeBooking("b", service.Grooming, 11, 10),
	}

	slots, err := newCalc().Compute(Request{
		Date:        at(11, 12),
		Service:     service.MobileGrooming,
		Condominium: "Vitta Parque",
		Now:         at(1, 8),
	}, snapshot, nil)
	require.NoError(t, err)
	assert.Equal(t, Available, slots[10])
}

func TestMobileIsExclusivePerHour(t *testing.T) {
	snapshot := []Booked{
		{ID: "m", Family: service.FamilyMobile, Service: service.MobileBath, Instant: at(11, 14)},
	}

	slots, err := newCalc().Compute(Request{
		Date:        at(11, 12),
		Service:     service.MobileBathGrooming,
		Condominium: "vitta parque ",
		Now:         at(1, 8),
	}, snapshot, nil)
	require.NoError(t, err)
	assert.Equal(t, Full, slots[14])
	assert.Equal(t, Available, slots[15])
}

func TestMobileBlockedBySubscriptionStoreBath(t *testing.T) {
	sub := storeBooking("s", service.Bath, 11, 9)
	sub.MonthlyClientID = "client-1"
	single := storeBooking("b", service.Bath, 11, 10)

	slots, err := newCalc().Compute(Request{
		Date:        at(11, 12),
		Service:     service.MobileBath,
		Condominium: "Vitta Parque",
		Now:         at(1, 8),
	}, []Booked{sub, single}, nil)
	require.NoError(t, err)
	assert.Equal(t, Full, slots[9])
	assert.Equal(t, Available, slots[10])
}

func TestCondominiumWeekdayRestriction(t *testing.T) {
	calc := newCalc()

	for day := 8; day <= 14; day++ {
		slots, err := calc.Compute(Request{
			Date:        at(day, 12),
			Service:     service.MobileBath,
			Condominium: "Vitta Parque",
			Now:         at(1, 8),
		}, nil, nil)
		require.NoError(t, err)

		want := Disallowed
		if zone.Parts(at(day, 12)).Weekday == time.Wednesday {
			want = Available
		}
		for h, state := range slots {
			assert.Equal(t, want, state, "day %d hour %d", day, h)
		}
	}

	_, err := calc.Compute(Request{Date: at(11, 12), Service: service.MobileBath, Now: at(1, 8)}, nil, nil)
	require.ErrorIs(t, err, ErrUnknownCondominium)
}

func TestStoreWeekdaysAndVisitWeekends(t *testing.T) {
	calc := newCalc()

	// Wednesday: store grooming closed, visits open.
	slots, err := calc.Compute(Request{Date: at(11, 12), Service: service.Bath, Now: at(1, 8)}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, Disallowed, slots[9])

	slots, err = calc.Compute(Request{Date: at(11, 12), Service: service.HotelVisit, Now: at(1, 8)}, nil, nil)
	require.NoError(t, err)
	assert.Len(t, slots, len(DefaultPolicy().VisitHours))
	assert.Equal(t, Available, slots[10])

	// Saturday: visits closed.
	slots, err = calc.Compute(Request{Date: at(14, 12), Service: service.DaycareVisit, Now: at(1, 8)}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, Disallowed, slots[10])
}

func TestPastTimeRule(t *testing.T) {
	calc := newCalc()
	now := at(9, 15)
	req := Request{Date: at(9, 8), Service: service.Bath, Now: now}

	slots, err := calc.Compute(req, nil, nil)
	require.NoError(t, err)
	for _, h := range []int{9, 10, 11, 13, 14, 15} {
		assert.Equal(t, Disallowed, slots[h], "hour %d", h)
	}
	assert.Equal(t, Available, slots[16])
	assert.Equal(t, Available, slots[17])

	tomorrow, err := calc.Compute(Request{Date: at(10, 8), Service: service.Bath, Now: now}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, Available, tomorrow[9])

	req.AllowPast = true
	slots, err = calc.Compute(req, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, Available, slots[9])

	lastWeek, err := calc.Compute(Request{Date: at(3, 8), Service: service.Bath, Now: now}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, Disallowed, lastWeek[17])
}

func TestDisabledDateBlocksOnlyItsFamily(t *testing.T) {
	calc := newCalc()
	disabled := []DisabledDate{{Date: "2025-06-09", Family: service.FamilyStore}}

	slots, err := calc.Compute(Request{Date: at(9, 12), Service: service.Bath, Now: at(1, 8)}, nil, disabled)
	require.NoError(t, err)
	for _, state := range slots {
		assert.Equal(t, Disallowed, state)
	}

	err = calc.Check(Request{Date: at(9, 12), Service: service.Bath, Now: at(1, 8)}, 9, nil, disabled)
	require.ErrorIs(t, err, ErrSlotDisallowed)

	slots, err = calc.Compute(Request{Date: at(9, 12), Service: service.Bath, Now: at(1, 8)}, nil,
		[]DisabledDate{{Date: "2025-06-09", Family: service.FamilyMobile}})
	require.NoError(t, err)
	assert.Equal(t, Available, slots[9])
}

func TestBathSpilloverFromBathGrooming(t *testing.T) {
	snapshot := []Booked{
		storeBooking("a", service.BathGrooming, 9, 13),
		storeBooking("b", service.Bath, 9, 14),
	}
	calc := newCalc()

	bath, err := calc.Compute(Request{Date: at(9, 12), Service: service.Bath, Now: at(1, 8)}, snapshot, nil)
	require.NoError(t, err)
	assert.Equal(t, Full, bath[14])

	grooming, err := calc.Compute(Request{Date: at(9, 12), Service: service.Grooming, Now: at(1, 8)}, snapshot, nil)
	require.NoError(t, err)
	assert.Equal(t, Available, grooming[14])
}

func TestBlockForwardOverlapPolicy(t *testing.T) {
	snapshot := []Booked{
		storeBooking("a", service.Grooming, 9, 15),
		storeBooking("b", service.Grooming, 9, 15),
	}
	req := Request{Date: at(9, 12), Service: service.BathGrooming, Now: at(1, 8)}

	relaxed, err := newCalc().Compute(req, snapshot, nil)
	require.NoError(t, err)
	assert.Equal(t, Available, relaxed[14])
	assert.Equal(t, Available, relaxed[11])

	policy := DefaultPolicy()
	policy.BlockForwardOverlap = true
	strict, err := NewCalculator(zone, policy).Compute(req, snapshot, nil)
	require.NoError(t, err)
	assert.Equal(t, Full, strict[14])
	assert.Equal(t, Disallowed, strict[11])
	assert.Equal(t, Disallowed, strict[17])
	assert.Equal(t, Available, strict[9])
}

func TestCheckRejectsHourOutsideWorkingHours(t *testing.T) {
	err := newCalc().Check(Request{Date: at(9, 12), Service: service.Bath, Now: at(1, 8)}, 12, nil, nil)
	require.ErrorIs(t, err, ErrNotWorkingHour)

	_, err = newCalc().Compute(Request{Date: at(9, 12), Service: "spa", Now: at(1, 8)}, nil, nil)
	require.ErrorIs(t, err, ErrUnknownService)
}
