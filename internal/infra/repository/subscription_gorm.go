package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	appointment "github.com/sandyspetshop/petshop-scheduler/internal/domain/appointment"
	domain "github.com/sandyspetshop/petshop-scheduler/internal/domain/subscription"
	"github.com/sandyspetshop/petshop-scheduler/internal/models"
)

var appointmentCollections = []string{
	models.StoreAppointmentsTable,
	models.MobileAppointmentsTable,
}

type SubscriptionGormRepository struct {
	db *gorm.DB
}

func NewSubscriptionGormRepository(db *gorm.DB) *SubscriptionGormRepository {
	return &SubscriptionGormRepository{db: db}
}

// --------------------------------------------------
// Monthly client
// --------------------------------------------------

func (r *SubscriptionGormRepository) CreateMonthlyClient(
	ctx context.Context,
	mc *models.MonthlyClient,
	rows []models.Appointment,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(mc).Error; err != nil {
			return err
		}
		return insertOccurrences(tx, rows)
	})
}

func (r *SubscriptionGormRepository) GetMonthlyClient(
	ctx context.Context,
	id string,
) (*models.MonthlyClient, error) {

	var mc models.MonthlyClient
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&mc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &mc, nil
}

func (r *SubscriptionGormRepository) UpdateMonthlyClient(
	ctx context.Context,
	mc *models.MonthlyClient,
) error {
	return r.db.WithContext(ctx).Save(mc).Error
}

func (r *SubscriptionGormRepository) ListActive(
	ctx context.Context,
) ([]models.MonthlyClient, error) {

	var out []models.MonthlyClient
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("owner_name ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// --------------------------------------------------
// Occurrences
// --------------------------------------------------

func (r *SubscriptionGormRepository) ReplaceFutureOccurrences(
	ctx context.Context,
	mc *models.MonthlyClient,
	from time.Time,
	regen domain.Regenerate,
) (int64, error) {

	var removed int64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := deleteFutureOccurrences(tx, mc.ID, from)
		if err != nil {
			return err
		}

		if err := tx.Save(mc).Error; err != nil {
			return err
		}

		if regen != nil {
			kept, err := occurrenceInstants(tx, mc.ID)
			if err != nil {
				return err
			}
			rows, err := regen(kept)
			if err != nil {
				return err
			}
			if err := insertOccurrences(tx, rows); err != nil {
				return err
			}
		}

		removed = n
		return nil
	})
	if err != nil {
		return 0, err
	}

	return removed, nil
}

func deleteFutureOccurrences(tx *gorm.DB, clientID string, from time.Time) (int64, error) {
	var removed int64
	for _, table := range appointmentCollections {
		res := tx.
			Table(table).
			Where("monthly_client_id = ? AND appointment_time >= ?", clientID, from).
			Delete(&models.Appointment{})
		if res.Error != nil {
			return 0, res.Error
		}
		removed += res.RowsAffected
	}
	return removed, nil
}

func occurrenceInstants(tx *gorm.DB, clientID string) ([]time.Time, error) {
	var out []time.Time
	for _, table := range appointmentCollections {
		var instants []time.Time
		if err := tx.
			Table(table).
			Where("monthly_client_id = ?", clientID).
			Pluck("appointment_time", &instants).Error; err != nil {
			return nil, err
		}
		out = append(out, instants...)
	}
	return out, nil
}

// insertOccurrences writes every row to the collection it names.
func insertOccurrences(tx *gorm.DB, rows []models.Appointment) error {
	if len(rows) == 0 {
		return nil
	}

	byTable := make(map[string][]models.Appointment, len(appointmentCollections))
	for _, row := range rows {
		byTable[row.StoredIn()] = append(byTable[row.StoredIn()], row)
	}

	for _, table := range appointmentCollections {
		batch := byTable[table]
		if len(batch) == 0 {
			continue
		}
		if err := tx.Table(table).CreateInBatches(batch, 100).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *SubscriptionGormRepository) NextAppointment(
	ctx context.Context,
	clientID string,
	from time.Time,
) (*models.Appointment, error) {

	var next *models.Appointment
	for _, table := range appointmentCollections {
		var ap models.Appointment
		err := r.db.WithContext(ctx).
			Table(table).
			Where(
				"monthly_client_id = ? AND appointment_time >= ? AND status = ?",
				clientID, from, appointment.StatusScheduled,
			).
			Order("appointment_time ASC").
			First(&ap).Error

		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if next == nil || ap.AppointmentTime.Before(next.AppointmentTime) {
			ap.Collection = table
			next = &ap
		}
	}
	return next, nil
}

// Compile-time check
var _ domain.Repository = (*SubscriptionGormRepository)(nil)
