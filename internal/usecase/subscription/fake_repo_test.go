package subscription

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	appointment "github.com/sandyspetshop/petshop-scheduler/internal/domain/appointment"
	domain "github.com/sandyspetshop/petshop-scheduler/internal/domain/subscription"
	"github.com/sandyspetshop/petshop-scheduler/internal/models"
)

type fakeRepo struct {
	clients map[string]*models.MonthlyClient
	rows    []models.Appointment

	listErr   error
	insertErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{clients: map[string]*models.MonthlyClient{}}
}

func (f *fakeRepo) CreateMonthlyClient(_ context.Context, mc *models.MonthlyClient, rows []models.Appointment) error {
	if len(rows) > 0 && f.insertErr != nil {
		return f.insertErr
	}
	if mc.ID == "" {
		mc.ID = uuid.NewString()
	}
	cp := *mc
	f.clients[mc.ID] = &cp
	f.rows = append(f.rows, rows...)
	return nil
}

func (f *fakeRepo) GetMonthlyClient(_ context.Context, id string) (*models.MonthlyClient, error) {
	mc, ok := f.clients[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *mc
	return &cp, nil
}

func (f *fakeRepo) UpdateMonthlyClient(_ context.Context, mc *models.MonthlyClient) error {
	if _, ok := f.clients[mc.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *mc
	f.clients[mc.ID] = &cp
	return nil
}

func (f *fakeRepo) ListActive(_ context.Context) ([]models.MonthlyClient, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []models.MonthlyClient
	for _, mc := range f.clients {
		if mc.IsActive {
			out = append(out, *mc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OwnerName < out[j].OwnerName })
	return out, nil
}

// ReplaceFutureOccurrences works on copies and commits only when every step succeeds.
func (f *fakeRepo) ReplaceFutureOccurrences(
	_ context.Context,
	mc *models.MonthlyClient,
	from time.Time,
	regen domain.Regenerate,
) (int64, error) {

	if _, ok := f.clients[mc.ID]; !ok {
		return 0, domain.ErrNotFound
	}

	var kept []models.Appointment
	var removed int64
	for _, r := range f.rows {
		if r.MonthlyClientID != nil && *r.MonthlyClientID == mc.ID && !r.AppointmentTime.Before(from) {
			removed++
			continue
		}
		kept = append(kept, r)
	}

	if regen != nil {
		var instants []time.Time
		for _, r := range forClient(kept, mc.ID) {
			instants = append(instants, r.AppointmentTime)
		}
		rows, err := regen(instants)
		if err != nil {
			return 0, err
		}
		if len(rows) > 0 && f.insertErr != nil {
			return 0, f.insertErr
		}
		kept = append(kept, rows...)
	}

	cp := *mc
	f.clients[mc.ID] = &cp
	f.rows = kept
	return removed, nil
}

func (f *fakeRepo) NextAppointment(_ context.Context, clientID string, from time.Time) (*models.Appointment, error) {
	var next *models.Appointment
	for _, r := range f.forClient(clientID) {
		if r.AppointmentTime.Before(from) || r.Status == string(appointment.StatusCancelled) {
			continue
		}
		if next == nil || r.AppointmentTime.Before(next.AppointmentTime) {
			cp := r
			next = &cp
		}
	}
	return next, nil
}

func (f *fakeRepo) forClient(clientID string) []models.Appointment {
	return forClient(f.rows, clientID)
}

// forClient returns the client's rows in its own family's collection, oldest first.
func forClient(rows []models.Appointment, clientID string) []models.Appointment {
	var out []models.Appointment
	for _, r := range rows {
		if r.MonthlyClientID == nil || *r.MonthlyClientID != clientID {
			continue
		}
		if r.StoredIn() != models.CollectionFor(r.Family) {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AppointmentTime.Before(out[j].AppointmentTime) })
	return out
}

var _ domain.Repository = (*fakeRepo)(nil)
