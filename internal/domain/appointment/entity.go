package appointment

import (
	"time"

	"github.com/sandyspetshop/petshop-scheduler/internal/availability"
	"github.com/sandyspetshop/petshop-scheduler/internal/models"
	"github.com/sandyspetshop/petshop-scheduler/internal/timezone"
)

// ===============================
// Domain Actions
// ===============================

func Cancel(ap *models.Appointment, now time.Time) error {
	if err := CanCancel(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCancelled)
	ap.CancelledAt = &now
	return nil
}

func Complete(ap *models.Appointment, now time.Time) error {
	if err := CanComplete(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCompleted)
	ap.CompletedAt = &now
	return nil
}

func Reschedule(ap *models.Appointment, to time.Time) error {
	if err := CanReschedule(Status(ap.Status)); err != nil {
		return err
	}

	ap.AppointmentTime = to
	return nil
}

// StatusAt is the status a generated occurrence starts with: completed when its civil
// date is already behind now.
func StatusAt(zone timezone.Zone, instant, now time.Time) Status {
	if zone.IsPastDate(instant, now) {
		return StatusCompleted
	}
	return StatusScheduled
}

// ToBooked projects stored rows for the availability calculator.
func ToBooked(rows []models.Appointment) []availability.Booked {
	out := make([]availability.Booked, 0, len(rows))
	for _, r := range rows {
		b := availability.Booked{
			ID:        r.ID,
			Family:    r.Family,
			Service:   r.Service,
			Instant:   r.AppointmentTime,
			Cancelled: Status(r.Status) == StatusCancelled,
		}
		if r.MonthlyClientID != nil {
			b.MonthlyClientID = *r.MonthlyClientID
		}
		out = append(out, b)
	}
	return out
}

func ToDisabled(rows []models.DisabledDate) []availability.DisabledDate {
	out := make([]availability.DisabledDate, 0, len(rows))
	for _, r := range rows {
		out = append(out, availability.DisabledDate{Date: r.Date, Family: r.Family})
	}
	return out
}
