package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/sandyspetshop/petshop-scheduler/internal/domain/appointment"
	"github.com/sandyspetshop/petshop-scheduler/internal/domain/service"
	"github.com/sandyspetshop/petshop-scheduler/internal/httperr"
	"github.com/sandyspetshop/petshop-scheduler/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Snapshot
// --------------------------------------------------

func (r *AppointmentGormRepository) ListSnapshot(
	ctx context.Context,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	var store []models.Appointment
	if err := r.db.WithContext(ctx).
		Table(models.StoreAppointmentsTable).
		Where(
			"family = ? AND appointment_time >= ? AND appointment_time < ?",
			service.FamilyStore, start, end,
		).
		Find(&store).Error; err != nil {
		return nil, err
	}

	var mobile []models.Appointment
	if err := r.db.WithContext(ctx).
		Table(models.MobileAppointmentsTable).
		Where("appointment_time >= ? AND appointment_time < ?", start, end).
		Find(&mobile).Error; err != nil {
		return nil, err
	}

	return append(store, mobile...), nil
}

func (r *AppointmentGormRepository) ListDisabledDates(
	ctx context.Context,
	from string,
	to string,
) ([]models.DisabledDate, error) {

	var out []models.DisabledDate
	if err := r.db.WithContext(ctx).
		Where("date >= ? AND date <= ?", from, to).
		Order("date ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// --------------------------------------------------
// Client
// --------------------------------------------------

func (r *AppointmentGormRepository) GetOrCreateClient(
	ctx context.Context,
	client *models.Client,
) (*models.Client, error) {

	var existing models.Client
	err := r.db.WithContext(ctx).
		Where("phone = ?", client.Phone).
		First(&existing).Error

	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := r.db.WithContext(ctx).Create(client).Error; err != nil {
		return nil, err
	}
	return client, nil
}

// --------------------------------------------------
// Appointment (create / conflict)
// --------------------------------------------------

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
	capacity int,
) error {

	table := ap.StoredIn()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		// Serializes writers of the same slot; row locks alone miss empty slots.
		if err := tx.Exec(
			"SELECT pg_advisory_xact_lock(hashtext(?))",
			slotKey(table, ap.AppointmentTime),
		).Error; err != nil {
			return err
		}

		var taken []models.Appointment
		if err := tx.
			Table(table).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			Where(
				"family = ? AND appointment_time = ? AND status <> ?",
				ap.Family, ap.AppointmentTime, domain.StatusCancelled,
			).
			Find(&taken).Error; err != nil {
			return err
		}

		if len(taken) >= capacity {
			return domain.ErrSlotTaken
		}

		return tx.Table(table).Create(ap).Error
	})

	if httperr.IsExclusionConflict(err) {
		return domain.ErrSlotTaken
	}
	return err
}

func slotKey(table string, instant time.Time) string {
	return table + ":" + instant.UTC().Format(time.RFC3339)
}

// --------------------------------------------------
// Appointment (state change)
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	family service.Family,
	id string,
) (*models.Appointment, error) {

	table := models.CollectionFor(family)

	var ap models.Appointment
	err := r.db.WithContext(ctx).
		Table(table).
		Where("id = ?", id).
		First(&ap).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	ap.Collection = table
	return &ap, nil
}

// UpdateAppointment saves the row and carries its schedule and status over to a
// paired mirror, if any.
func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Table(ap.StoredIn()).Save(ap).Error; err != nil {
			return err
		}
		if ap.OccurrenceKey == nil {
			return nil
		}

		return tx.
			Table(ap.PairedCollection()).
			Where("occurrence_key = ? AND id <> ?", *ap.OccurrenceKey, ap.ID).
			Updates(map[string]any{
				"appointment_time": ap.AppointmentTime,
				"status":           ap.Status,
				"completed_at":     ap.CompletedAt,
				"cancelled_at":     ap.CancelledAt,
				"observation":      ap.Observation,
				"updated_at":       ap.UpdatedAt,
			}).Error
	})
}

// DeleteAppointment removes the row and its paired mirror, if any.
func (r *AppointmentGormRepository) DeleteAppointment(
	ctx context.Context,
	family service.Family,
	id string,
) error {

	table := models.CollectionFor(family)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ap models.Appointment
		err := tx.Table(table).Where("id = ?", id).First(&ap).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrNotFound
		}
		if err != nil {
			return err
		}
		ap.Collection = table

		if err := tx.Table(table).Where("id = ?", id).Delete(&models.Appointment{}).Error; err != nil {
			return err
		}
		if ap.OccurrenceKey == nil {
			return nil
		}

		return tx.
			Table(ap.PairedCollection()).
			Where("occurrence_key = ?", *ap.OccurrenceKey).
			Delete(&models.Appointment{}).Error
	})
}

// --------------------------------------------------
// Listing
// --------------------------------------------------

func (r *AppointmentGormRepository) ListAppointmentsForPeriod(
	ctx context.Context,
	family service.Family,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	table := models.CollectionFor(family)

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Table(table).
		Where("appointment_time >= ? AND appointment_time < ?", start, end).
		Order("appointment_time ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}

	for i := range apps {
		apps[i].Collection = table
	}
	return apps, nil
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
