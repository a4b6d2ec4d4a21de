package appointment

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/sandyspetshop/petshop-scheduler/internal/audit"
	"github.com/sandyspetshop/petshop-scheduler/internal/availability"
	"github.com/sandyspetshop/petshop-scheduler/internal/booking"
	domain "github.com/sandyspetshop/petshop-scheduler/internal/domain/appointment"
	"github.com/sandyspetshop/petshop-scheduler/internal/domain/service"
	"github.com/sandyspetshop/petshop-scheduler/internal/httperr"
	"github.com/sandyspetshop/petshop-scheduler/internal/infra/slotlock"
	"github.com/sandyspetshop/petshop-scheduler/internal/models"
	"github.com/sandyspetshop/petshop-scheduler/internal/pricing"
	"github.com/sandyspetshop/petshop-scheduler/internal/timezone"
	"github.com/sandyspetshop/petshop-scheduler/internal/webhook"
)

// Monday 2025-06-02 09:00 in the shop's civil time.
var now = time.Date(2025, time.June, 2, 12, 0, 0, 0, time.UTC)

var zone = timezone.Default

type recorder struct {
	mu     sync.Mutex
	events []audit.Event
}

func (r *recorder) Log(_ context.Context, ev audit.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

type delivery struct {
	event   webhook.Event
	payload any
}

type poster struct {
	mu   sync.Mutex
	sent []delivery
}

func (p *poster) Post(_ context.Context, event webhook.Event, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, delivery{event: event, payload: payload})
	return nil
}

type harness struct {
	repo     *fakeRepo
	sched    Schedule
	audit    *audit.Dispatcher
	webhooks *webhook.Dispatcher
	recorder *recorder
	poster   *poster
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{
		repo:     &fakeRepo{},
		sched:    NewSchedule(zone, availability.DefaultPolicy(), func() time.Time { return now }),
		recorder: &recorder{},
		poster:   &poster{},
	}
	h.audit = audit.NewDispatcher(h.recorder, nil)
	h.webhooks = webhook.NewDispatcher(h.poster, time.Second, nil)
	return h
}

// flush waits for the async dispatchers to drain.
func (h *harness) flush() {
	h.audit.Close()
	h.webhooks.Close()
}

func (h *harness) create(locker SlotLocker, log *zap.Logger) *CreateAppointment {
	return NewCreateAppointment(h.repo, h.sched, pricing.DefaultCatalog(), locker, h.audit, h.webhooks, nil, log)
}

func bathAndGrooming() CreateAppointmentInput {
	return CreateAppointmentInput{
		OwnerName:    "Ana Souza",
		OwnerPhone:   "+5511987654321",
		OwnerAddress: "Rua das Flores, 10",
		PetName:      "Thor",
		PetBreed:     "Shih-tzu",
		Service:      service.BathGrooming,
		WeightTier:   "ate_5kg",
		Date:         "2025-06-09",
		Hour:         9,
	}
}

func storeRow(id string, hour int) models.Appointment {
	return models.Appointment{
		ID:              id,
		Family:          service.FamilyStore,
		Service:         service.Bath,
		Status:          string(domain.StatusScheduled),
		AppointmentTime: zone.MustInstant(2025, time.June, 9, hour, 0, 0),
	}
}

func TestCustomerBooksBathAndGrooming(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	slots, err := NewGetAvailability(h.repo, h.sched, nil).Execute(ctx, AvailabilityInput{
		Date:    "2025-06-09",
		Service: service.BathGrooming,
	})
	require.NoError(t, err)
	require.NotEmpty(t, slots)
	assert.Equal(t, TimeSlot{Hour: 9, Time: "09:00", State: availability.Available}, slots[0])

	ap, err := h.create(nil, nil).Execute(ctx, bathAndGrooming())
	require.NoError(t, err)

	assert.Equal(t, 70.0, ap.Price)
	assert.Equal(t, string(domain.StatusScheduled), ap.Status)
	assert.Equal(t, zone.MustInstant(2025, time.June, 9, 9, 0, 0), ap.AppointmentTime)
	assert.Equal(t, service.FamilyStore, ap.Family)
	assert.Nil(t, ap.Condominium)
	require.Len(t, h.repo.rows, 1)
	require.Len(t, h.repo.clients, 1)

	h.flush()
	require.Len(t, h.poster.sent, 1)
	assert.Equal(t, webhook.EventStoreCreated, h.poster.sent[0].event)
	require.Len(t, h.recorder.events, 1)
	assert.Equal(t, "appointment_created", h.recorder.events[0].Action)
}

func TestCreateRejectsFullSlot(t *testing.T) {
	h := newHarness(t)
	h.repo.rows = []models.Appointment{storeRow("a", 9), storeRow("b", 9)}

	mobile := storeRow("m", 9)
	mobile.Family = service.FamilyMobile
	h.repo.rows = append(h.repo.rows, mobile)

	_, err := h.create(nil, nil).Execute(context.Background(), bathAndGrooming())
	assert.ErrorIs(t, err, ErrSlotUnavailable)
	assert.Len(t, h.repo.rows, 3)
}

func TestCreateIgnoresCancelledAppointments(t *testing.T) {
	h := newHarness(t)
	cancelled := storeRow("a", 9)
	cancelled.Status = string(domain.StatusCancelled)
	h.repo.rows = []models.Appointment{cancelled, storeRow("b", 9)}

	_, err := h.create(nil, nil).Execute(context.Background(), bathAndGrooming())
	assert.NoError(t, err)
}

func TestCreateSurfacesStorageConflict(t *testing.T) {
	h := newHarness(t)
	h.repo.createErr = domain.ErrSlotTaken

	_, err := h.create(nil, nil).Execute(context.Background(), bathAndGrooming())
	assert.True(t, httperr.IsBusiness(err, "slot_taken"))
}

func TestCreateClientFailureIsBestEffort(t *testing.T) {
	h := newHarness(t)
	h.repo.clientErr = errors.New("clients table offline")

	core, logs := observer.New(zapcore.WarnLevel)

	ap, err := h.create(nil, zap.New(core)).Execute(context.Background(), bathAndGrooming())
	require.NoError(t, err)
	assert.NotEmpty(t, ap.ID)

	require.Equal(t, 1, logs.FilterMessage("client auto-registration failed").Len())
}

func TestCreateMobileRules(t *testing.T) {
	h := newHarness(t)
	uc := h.create(nil, nil)
	ctx := context.Background()

	in := bathAndGrooming()
	in.Service = service.MobileBath

	_, err := uc.Execute(ctx, in)
	assert.ErrorIs(t, err, ErrCondoRequired)

	in.Condominium = "Nowhere Towers"
	_, err = uc.Execute(ctx, in)
	assert.ErrorIs(t, err, ErrUnknownCondominium)

	// Vitta Parque only books on Wednesdays.
	in.Condominium = "Vitta Parque"
	_, err = uc.Execute(ctx, in)
	assert.ErrorIs(t, err, ErrSlotUnavailable)

	in.Date = "2025-06-11"
	in.Hour = 10
	ap, err := uc.Execute(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, service.FamilyMobile, ap.Family)
	assert.Equal(t, models.MobileAppointmentsTable, ap.StoredIn())
	require.NotNil(t, ap.Condominium)
	assert.Equal(t, 40.0, ap.Price)

	h.flush()
	require.Len(t, h.poster.sent, 1)
	assert.Equal(t, webhook.EventMobileCreated, h.poster.sent[0].event)
}

func TestCreateRejectsPastHoursForCustomersOnly(t *testing.T) {
	h := newHarness(t)
	uc := h.create(nil, nil)

	in := bathAndGrooming()
	in.Date = "2025-06-02"
	in.Hour = 9

	_, err := uc.Execute(context.Background(), in)
	assert.ErrorIs(t, err, ErrSlotUnavailable)

	in.Admin = true
	_, err = uc.Execute(context.Background(), in)
	assert.NoError(t, err)
}

func TestCreateValidatesDateAndHour(t *testing.T) {
	h := newHarness(t)
	uc := h.create(nil, nil)

	in := bathAndGrooming()
	in.Date = "09/06/2025"
	_, err := uc.Execute(context.Background(), in)
	assert.ErrorIs(t, err, ErrInvalidDate)

	in = bathAndGrooming()
	in.Hour = 12
	_, err = uc.Execute(context.Background(), in)
	assert.ErrorIs(t, err, ErrInvalidHour)
}

func TestCreateHonoursDisabledDates(t *testing.T) {
	h := newHarness(t)
	h.repo.disabled = []models.DisabledDate{{Date: "2025-06-09", Family: service.FamilyStore}}

	_, err := h.create(nil, nil).Execute(context.Background(), bathAndGrooming())
	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestCreateRespectsSlotLock(t *testing.T) {
	h := newHarness(t)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	locker := slotlock.New(rdb, time.Second)

	instant := zone.MustInstant(2025, time.June, 9, 9, 0, 0)
	release, err := locker.Acquire(context.Background(), slotlock.Key("store", instant))
	require.NoError(t, err)

	uc := h.create(locker, nil)
	_, err = uc.Execute(context.Background(), bathAndGrooming())
	assert.ErrorIs(t, err, ErrSlotLocked)

	release()
	_, err = uc.Execute(context.Background(), bathAndGrooming())
	assert.NoError(t, err)
}

func TestSubmitAdapter(t *testing.T) {
	h := newHarness(t)

	receipt, err := h.create(nil, nil).Submit(context.Background(), booking.Submission{
		Customer: booking.Customer{
			OwnerName:  "Ana Souza",
			OwnerPhone: "+5511987654321",
			PetName:    "Thor",
			PetBreed:   "Shih-tzu",
		},
		Selection: booking.Selection{
			Service:    service.Bath,
			WeightTier: "ate_5kg",
			Addons:     []string{"hidratacao"},
		},
		Date: "2025-06-09",
		Hour: 10,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, receipt.AppointmentID)
	assert.Equal(t, 60.0, receipt.Price)
}

func TestCompleteVisitUsesVisitWebhook(t *testing.T) {
	h := newHarness(t)
	visit := storeRow("v", 10)
	visit.Service = service.DaycareVisit
	h.repo.rows = []models.Appointment{visit, storeRow("b", 9)}

	uc := NewCompleteAppointment(h.repo, h.sched, h.audit, h.webhooks)

	ap, err := uc.Execute(context.Background(), "admin", service.FamilyStore, "v")
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCompleted), ap.Status)
	require.NotNil(t, ap.CompletedAt)

	_, err = uc.Execute(context.Background(), "admin", service.FamilyStore, "b")
	require.NoError(t, err)

	_, err = uc.Execute(context.Background(), "admin", service.FamilyStore, "b")
	assert.True(t, httperr.IsBusiness(err, "invalid_state"))

	h.flush()
	require.Len(t, h.poster.sent, 2)
	assert.Equal(t, webhook.EventCompletedVisit, h.poster.sent[0].event)
	assert.Equal(t, webhook.EventCompleted, h.poster.sent[1].event)
}

func TestCancelFreesTheSlot(t *testing.T) {
	h := newHarness(t)
	h.repo.rows = []models.Appointment{storeRow("a", 9), storeRow("b", 9)}

	cancel := NewCancelAppointment(h.repo, h.sched, h.audit)
	ap, err := cancel.Execute(context.Background(), "admin", service.FamilyStore, "a")
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), ap.Status)

	_, err = cancel.Execute(context.Background(), "admin", service.FamilyStore, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = h.create(nil, nil).Execute(context.Background(), bathAndGrooming())
	assert.NoError(t, err)
}

func TestRescheduleExcludesTheMovedAppointment(t *testing.T) {
	h := newHarness(t)
	h.repo.rows = []models.Appointment{storeRow("a", 9), storeRow("b", 10)}

	uc := NewRescheduleAppointment(h.repo, h.sched, nil, h.audit, h.webhooks, nil)

	ap, err := uc.Execute(context.Background(), RescheduleInput{
		ActorID: "admin",
		Family:  service.FamilyStore,
		ID:      "a",
		Date:    "2025-06-09",
		Hour:    10,
	})
	require.NoError(t, err)
	assert.Equal(t, zone.MustInstant(2025, time.June, 9, 10, 0, 0), ap.AppointmentTime)

	// 10:00 now holds two rows; a third move is refused.
	h.repo.rows = append(h.repo.rows, storeRow("c", 11))
	_, err = uc.Execute(context.Background(), RescheduleInput{
		Family: service.FamilyStore,
		ID:     "c",
		Date:   "2025-06-09",
		Hour:   10,
	})
	assert.ErrorIs(t, err, ErrSlotUnavailable)

	h.flush()
	require.Len(t, h.poster.sent, 1)
	assert.Equal(t, webhook.EventRescheduled, h.poster.sent[0].event)
}

func TestDeleteAppointment(t *testing.T) {
	h := newHarness(t)
	h.repo.rows = []models.Appointment{storeRow("a", 9)}

	uc := NewDeleteAppointment(h.repo, h.audit)
	require.NoError(t, uc.Execute(context.Background(), "admin", service.FamilyStore, "a"))
	assert.ErrorIs(t, uc.Execute(context.Background(), "admin", service.FamilyStore, "a"), domain.ErrNotFound)
	assert.ErrorIs(t, uc.Execute(context.Background(), "admin", "boat", "a"), ErrInvalidFamily)
}

func TestListByDateAndMonth(t *testing.T) {
	h := newHarness(t)

	late := storeRow("late", 17)
	july := storeRow("july", 9)
	july.AppointmentTime = zone.MustInstant(2025, time.July, 1, 9, 0, 0)

	// Civil 2025-06-30 22:00 is already July in UTC.
	edge := storeRow("edge", 9)
	edge.AppointmentTime = zone.MustInstant(2025, time.June, 30, 22, 0, 0)

	h.repo.rows = []models.Appointment{storeRow("a", 9), late, july, edge}

	byDate, err := NewListAppointmentsByDate(h.repo, h.sched).Execute(context.Background(), service.FamilyStore, "2025-06-09")
	require.NoError(t, err)
	assert.Len(t, byDate, 2)
	assert.Equal(t, "17:00", byDate[1].Time)

	byMonth, err := NewListAppointmentsByMonth(h.repo, h.sched).Execute(context.Background(), service.FamilyStore, 2025, 6)
	require.NoError(t, err)
	assert.Len(t, byMonth, 3)

	_, err = NewListAppointmentsByMonth(h.repo, h.sched).Execute(context.Background(), service.FamilyStore, 2025, 13)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestAvailabilityUnknownService(t *testing.T) {
	h := newHarness(t)

	_, err := NewGetAvailability(h.repo, h.sched, nil).Execute(context.Background(), AvailabilityInput{
		Date:    "2025-06-09",
		Service: "spa",
	})
	assert.ErrorIs(t, err, ErrUnknownService)
}
