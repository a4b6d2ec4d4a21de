package appointment

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	domain "github.com/sandyspetshop/petshop-scheduler/internal/domain/appointment"
	"github.com/sandyspetshop/petshop-scheduler/internal/domain/service"
	"github.com/sandyspetshop/petshop-scheduler/internal/models"
)

// fakeRepo keeps both collections in memory and applies the same capacity rule as the
// gorm repository.
type fakeRepo struct {
	mu       sync.Mutex
	rows     []models.Appointment
	disabled []models.DisabledDate
	clients  []models.Client

	clientErr error
	createErr error
}

func (f *fakeRepo) ListSnapshot(_ context.Context, start, end time.Time) ([]models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []models.Appointment
	for _, r := range f.rows {
		if r.StoredIn() == models.StoreAppointmentsTable && r.Family != service.FamilyStore {
			continue
		}
		if !r.AppointmentTime.Before(start) && r.AppointmentTime.Before(end) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListDisabledDates(_ context.Context, from, to string) ([]models.DisabledDate, error) {
	var out []models.DisabledDate
	for _, d := range f.disabled {
		if d.Date >= from && d.Date <= to {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeRepo) GetOrCreateClient(_ context.Context, c *models.Client) (*models.Client, error) {
	if f.clientErr != nil {
		return nil, f.clientErr
	}
	for i := range f.clients {
		if f.clients[i].Phone == c.Phone {
			return &f.clients[i], nil
		}
	}
	f.clients = append(f.clients, *c)
	return c, nil
}

func (f *fakeRepo) CreateAppointment(_ context.Context, ap *models.Appointment, capacity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return f.createErr
	}

	taken := 0
	for _, r := range f.rows {
		if r.StoredIn() == ap.StoredIn() && r.Family == ap.Family &&
			r.AppointmentTime.Equal(ap.AppointmentTime) && r.Status != string(domain.StatusCancelled) {
			taken++
		}
	}
	if taken >= capacity {
		return domain.ErrSlotTaken
	}

	if ap.ID == "" {
		ap.ID = uuid.NewString()
	}
	f.rows = append(f.rows, *ap)
	return nil
}

func (f *fakeRepo) GetAppointment(_ context.Context, family service.Family, id string) (*models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	table := models.CollectionFor(family)
	for _, r := range f.rows {
		if r.ID == id && r.StoredIn() == table {
			r.Collection = table
			return &r, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRepo) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.rows {
		if f.rows[i].ID == ap.ID && f.rows[i].StoredIn() == ap.StoredIn() {
			f.rows[i] = *ap
			return nil
		}
	}
	return errors.New("row vanished")
}

func (f *fakeRepo) DeleteAppointment(_ context.Context, family service.Family, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	table := models.CollectionFor(family)
	for i := range f.rows {
		if f.rows[i].ID == id && f.rows[i].StoredIn() == table {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeRepo) ListAppointmentsForPeriod(
	_ context.Context,
	family service.Family,
	start, end time.Time,
) ([]models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	table := models.CollectionFor(family)
	var out []models.Appointment
	for _, r := range f.rows {
		if r.StoredIn() == table && !r.AppointmentTime.Before(start) && r.AppointmentTime.Before(end) {
			r.Collection = table
			out = append(out, r)
		}
	}
	return out, nil
}

var _ domain.Repository = (*fakeRepo)(nil)
