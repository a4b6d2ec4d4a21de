package appointment

import (
	"context"
	"time"

	"github.com/sandyspetshop/petshop-scheduler/internal/domain/service"
	"github.com/sandyspetshop/petshop-scheduler/internal/httperr"
	"github.com/sandyspetshop/petshop-scheduler/internal/models"
)

// ErrSlotTaken is returned by CreateAppointment when the slot filled up between the
// availability check and the insert.
var ErrSlotTaken = httperr.ErrBusiness("slot_taken")

var ErrNotFound = httperr.ErrBusiness("appointment_not_found")

type Repository interface {
	// -------- Snapshot --------
	// ListSnapshot returns rows of both collections with instants in [start, end).
	// Mirror rows of the store collection are left out.
	ListSnapshot(
		ctx context.Context,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)

	ListDisabledDates(
		ctx context.Context,
		from string,
		to string,
	) ([]models.DisabledDate, error)

	// -------- Client --------
	GetOrCreateClient(
		ctx context.Context,
		client *models.Client,
	) (*models.Client, error)

	// -------- Appointment (create / conflict) --------
	// CreateAppointment inserts into the family's collection unless the exact slot
	// already holds capacity live rows, in which case it returns ErrSlotTaken.
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
		capacity int,
	) error

	// -------- Appointment (state change) --------
	GetAppointment(
		ctx context.Context,
		family service.Family,
		id string,
	) (*models.Appointment, error)

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	DeleteAppointment(
		ctx context.Context,
		family service.Family,
		id string,
	) error

	// -------- Listing --------
	ListAppointmentsForPeriod(
		ctx context.Context,
		family service.Family,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)
}
