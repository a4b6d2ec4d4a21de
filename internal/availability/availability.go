package availability

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/sandyspetshop/petshop-scheduler/internal/domain/service"
	"github.com/sandyspetshop/petshop-scheduler/internal/timezone"
)

type SlotState string

const (
	Available  SlotState = "available"
	Full       SlotState = "full"
	Disallowed SlotState = "disallowed"
)

var (
	ErrUnknownService     = errors.New("unknown service")
	ErrUnknownCondominium = errors.New("unknown condominium")
	ErrNotWorkingHour     = errors.New("hour outside working hours")
	ErrSlotFull           = errors.New("slot full")
	ErrSlotDisallowed     = errors.New("slot not bookable")
)

// Booked is the part of an existing appointment the calculator looks at.
type Booked struct {
	ID              string
	Family          service.Family
	Service         service.Type
	Instant         time.Time
	Cancelled       bool
	MonthlyClientID string
}

// DisabledDate blocks a whole civil date for one family.
type DisabledDate struct {
	Date   string
	Family service.Family
}

type Request struct {
	Date        time.Time
	Service     service.Type
	Condominium string
	Now         time.Time

	// AllowPast turns off the past-time rule (admin bookings).
	AllowPast bool

	// ExcludeID leaves one appointment out of the counts, used when moving it.
	ExcludeID string
}

type Calculator struct {
	zone   timezone.Zone
	policy Policy
}

func NewCalculator(zone timezone.Zone, policy Policy) *Calculator {
	return &Calculator{zone: zone, policy: policy}
}

func (c *Calculator) Policy() Policy {
	return c.policy
}

// Compute derives the state of every working hour of the requested civil date.
func (c *Calculator) Compute(
	req Request,
	snapshot []Booked,
	disabled []DisabledDate,
) (map[int]SlotState, error) {

	def, ok := service.Lookup(req.Service)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownService, req.Service)
	}

	dayBlocked, err := c.dayBlocked(req, def, disabled)
	if err != nil {
		return nil, err
	}

	hours := c.policy.Hours(req.Service)
	capacity := c.policy.Capacity(def.Family)
	date := c.zone.DateString(req.Date)
	counts := c.countByHour(req, def, date, snapshot)

	out := make(map[int]SlotState, len(hours))
	for _, h := range hours {
		switch {
		case dayBlocked || c.isPast(req, h):
			out[h] = Disallowed
		case counts[h] >= capacity:
			out[h] = Full
		case def.Family == service.FamilyMobile && c.technicianBusy(req, date, h, snapshot):
			out[h] = Full
		default:
			out[h] = c.forwardState(def, h, hours, counts, capacity)
		}
	}

	return out, nil
}

// Check reports why a single hour cannot be booked, or nil when it can.
func (c *Calculator) Check(
	req Request,
	hour int,
	snapshot []Booked,
	disabled []DisabledDate,
) error {

	slots, err := c.Compute(req, snapshot, disabled)
	if err != nil {
		return err
	}

	state, ok := slots[hour]
	switch {
	case !ok:
		return fmt.Errorf("%w: %02d:00", ErrNotWorkingHour, hour)
	case state == Full:
		return ErrSlotFull
	case state == Disallowed:
		return ErrSlotDisallowed
	}
	return nil
}

func (c *Calculator) dayBlocked(
	req Request,
	def service.Definition,
	disabled []DisabledDate,
) (bool, error) {

	date := c.zone.DateString(req.Date)
	for _, d := range disabled {
		if d.Date == date && d.Family == def.Family {
			return true, nil
		}
	}

	wd := c.zone.Parts(req.Date).Weekday

	switch {
	case def.Family == service.FamilyMobile:
		allowed, ok := c.policy.CondominiumWeekday(req.Condominium)
		if !ok {
			return false, fmt.Errorf("%w: %q", ErrUnknownCondominium, req.Condominium)
		}
		return wd != allowed, nil

	case def.Kind == service.KindVisit:
		return c.zone.IsWeekend(req.Date), nil

	default:
		return !c.policy.storeDayAllowed(wd), nil
	}
}

func (c *Calculator) isPast(req Request, hour int) bool {
	if req.AllowPast {
		return false
	}
	if c.zone.IsPastDate(req.Date, req.Now) {
		return true
	}
	return c.zone.SameDay(req.Date, req.Now) && hour <= c.zone.Parts(req.Now).Hour
}

// countByHour counts live same-family appointments per civil hour. Visits belong to the
// store family and take from the same capacity as grooming. A bath candidate also
// counts multi-hour services still running into that hour.
func (c *Calculator) countByHour(
	req Request,
	def service.Definition,
	date string,
	snapshot []Booked,
) map[int]int {

	spill := def.Type == service.Bath
	counts := make(map[int]int)

	for _, b := range snapshot {
		if b.Cancelled || b.Family != def.Family || (req.ExcludeID != "" && b.ID == req.ExcludeID) {
			continue
		}
		if c.zone.DateString(b.Instant) != date {
			continue
		}

		start := c.zone.Parts(b.Instant).Hour
		counts[start]++

		if spill {
			for k := 1; k < b.Service.Duration(); k++ {
				counts[start+k]++
			}
		}
	}

	return counts
}

// technicianBusy reports a store subscription bath at the same instant, which takes
// the technician the mobile service would need.
func (c *Calculator) technicianBusy(req Request, date string, hour int, snapshot []Booked) bool {
	for _, b := range snapshot {
		if b.Cancelled || b.Family != service.FamilyStore || b.Service != service.Bath || b.MonthlyClientID == "" {
			continue
		}
		if req.ExcludeID != "" && b.ID == req.ExcludeID {
			continue
		}
		if c.zone.DateString(b.Instant) == date && c.zone.Parts(b.Instant).Hour == hour {
			return true
		}
	}
	return false
}

func (c *Calculator) forwardState(
	def service.Definition,
	hour int,
	hours []int,
	counts map[int]int,
	capacity int,
) SlotState {

	if !c.policy.BlockForwardOverlap {
		return Available
	}

	for k := 1; k < def.DurationHours; k++ {
		next := hour + k
		if !slices.Contains(hours, next) {
			return Disallowed
		}
		if counts[next] >= capacity {
			return Full
		}
	}
	return Available
}
