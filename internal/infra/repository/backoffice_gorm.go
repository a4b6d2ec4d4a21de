package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/sandyspetshop/petshop-scheduler/internal/httperr"
	"github.com/sandyspetshop/petshop-scheduler/internal/models"
)

var (
	ErrDisabledDateNotFound = httperr.ErrBusiness("disabled_date_not_found")
	ErrDisabledDateExists   = httperr.ErrBusiness("disabled_date_exists")
	ErrEnrollmentNotFound   = httperr.ErrBusiness("enrollment_not_found")
	ErrRegistrationNotFound = httperr.ErrBusiness("registration_not_found")
)

// BackofficeGormRepository serves the admin registers that carry no scheduling rules.
type BackofficeGormRepository struct {
	db *gorm.DB
}

func NewBackofficeGormRepository(db *gorm.DB) *BackofficeGormRepository {
	return &BackofficeGormRepository{db: db}
}

// --------------------------------------------------
// Disabled dates
// --------------------------------------------------

func (r *BackofficeGormRepository) CreateDisabledDate(
	ctx context.Context,
	d *models.DisabledDate,
) error {
	err := r.db.WithContext(ctx).Create(d).Error
	if httperr.IsExclusionConflict(err) {
		return ErrDisabledDateExists
	}
	return err
}

func (r *BackofficeGormRepository) ListDisabledDates(
	ctx context.Context,
	from string,
) ([]models.DisabledDate, error) {

	q := r.db.WithContext(ctx).Model(&models.DisabledDate{})
	if from != "" {
		q = q.Where("date >= ?", from)
	}

	var out []models.DisabledDate
	if err := q.Order("date ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *BackofficeGormRepository) DeleteDisabledDate(
	ctx context.Context,
	id uint,
) error {
	res := r.db.WithContext(ctx).Delete(&models.DisabledDate{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrDisabledDateNotFound
	}
	return nil
}

// --------------------------------------------------
// Clients
// --------------------------------------------------

func (r *BackofficeGormRepository) ListClients(
	ctx context.Context,
	query string,
) ([]models.Client, error) {

	q := r.db.WithContext(ctx).Model(&models.Client{})

	query = strings.ToLower(strings.TrimSpace(query))
	if query != "" {
		like := "%" + query + "%"
		q = q.Where(
			"LOWER(name) LIKE ? OR phone LIKE ? OR LOWER(pet_name) LIKE ?",
			like, like, like,
		)
	}

	var clients []models.Client
	if err := q.Order("created_at DESC").Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

// --------------------------------------------------
// Daycare / hotel
// --------------------------------------------------

func (r *BackofficeGormRepository) CreateDaycareEnrollment(
	ctx context.Context,
	e *models.DaycareEnrollment,
) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *BackofficeGormRepository) GetDaycareEnrollment(
	ctx context.Context,
	id string,
) (*models.DaycareEnrollment, error) {

	var e models.DaycareEnrollment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrEnrollmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *BackofficeGormRepository) CreateHotelRegistration(
	ctx context.Context,
	h *models.HotelRegistration,
) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *BackofficeGormRepository) GetHotelRegistration(
	ctx context.Context,
	id string,
) (*models.HotelRegistration, error) {

	var h models.HotelRegistration
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&h).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRegistrationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// --------------------------------------------------
// Audit logs
// --------------------------------------------------

type AuditLogFilter struct {
	Action string
	Entity string
	From   *time.Time
	To     *time.Time
	Page   int
	Limit  int
}

func (r *BackofficeGormRepository) ListAuditLogs(
	ctx context.Context,
	f AuditLogFilter,
) ([]models.AuditLog, int64, error) {

	q := r.db.WithContext(ctx).Model(&models.AuditLog{})

	if f.Action != "" {
		q = q.Where("action = ?", f.Action)
	}
	if f.Entity != "" {
		q = q.Where("entity = ?", f.Entity)
	}
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at < ?", *f.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []models.AuditLog
	if err := q.
		Order("created_at DESC").
		Limit(f.Limit).
		Offset((f.Page - 1) * f.Limit).
		Find(&logs).Error; err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}
