package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/sandyspetshop/petshop-scheduler/internal/availability"
	domain "github.com/sandyspetshop/petshop-scheduler/internal/domain/appointment"
	"github.com/sandyspetshop/petshop-scheduler/internal/httperr"
	"github.com/sandyspetshop/petshop-scheduler/internal/timezone"
)

var (
	ErrInvalidDate        = httperr.ErrBusiness("invalid_date")
	ErrSlotUnavailable    = httperr.ErrBusiness("slot_unavailable")
	ErrSlotLocked         = httperr.ErrBusiness("slot_locked")
	ErrInvalidHour        = httperr.ErrBusiness("invalid_hour")
	ErrUnknownService     = httperr.ErrBusiness("unknown_service")
	ErrUnknownCondominium = httperr.ErrBusiness("unknown_condominium")
	ErrUnknownTier        = httperr.ErrBusiness("unknown_weight_tier")
	ErrCondoRequired      = httperr.ErrBusiness("condominium_required")
	ErrInvalidFamily      = httperr.ErrBusiness("invalid_family")
)

// Schedule bundles what every use case needs to reason in civil time.
type Schedule struct {
	Zone  timezone.Zone
	Calc  *availability.Calculator
	Clock timezone.Clock
}

func NewSchedule(zone timezone.Zone, policy availability.Policy, clock timezone.Clock) Schedule {
	if clock == nil {
		clock = timezone.SystemClock
	}
	return Schedule{
		Zone:  zone,
		Calc:  availability.NewCalculator(zone, policy),
		Clock: clock,
	}
}

func (s Schedule) now() time.Time {
	return s.Clock()
}

// day parses a YYYY-MM-DD civil date into its noon instant and the [start, end) window
// of that day.
func (s Schedule) day(date string) (noon, start, end time.Time, err error) {
	noon, err = s.Zone.ParseDateNoon(date)
	if err != nil {
		return time.Time{}, time.Time{}, time.Time{}, ErrInvalidDate
	}
	start = s.Zone.StartOfDay(noon)
	end = s.Zone.AddDays(start, 1)
	return noon, start, end, nil
}

// loadDay reads the live snapshot and the disabled dates of one civil date.
func loadDay(
	ctx context.Context,
	repo domain.Repository,
	sched Schedule,
	date string,
) (time.Time, []availability.Booked, []availability.DisabledDate, error) {

	noon, start, end, err := sched.day(date)
	if err != nil {
		return time.Time{}, nil, nil, err
	}

	rows, err := repo.ListSnapshot(ctx, start, end)
	if err != nil {
		return time.Time{}, nil, nil, err
	}

	disabled, err := repo.ListDisabledDates(ctx, date, date)
	if err != nil {
		return time.Time{}, nil, nil, err
	}

	return noon, domain.ToBooked(rows), domain.ToDisabled(disabled), nil
}

// availabilityError turns calculator errors into business codes.
func availabilityError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, availability.ErrSlotFull), errors.Is(err, availability.ErrSlotDisallowed):
		return ErrSlotUnavailable
	case errors.Is(err, availability.ErrNotWorkingHour):
		return ErrInvalidHour
	case errors.Is(err, availability.ErrUnknownCondominium):
		return ErrUnknownCondominium
	case errors.Is(err, availability.ErrUnknownService):
		return ErrUnknownService
	}
	return err
}
