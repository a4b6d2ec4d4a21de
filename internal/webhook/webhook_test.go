package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/sandyspetshop/petshop-scheduler/internal/domain/service"
	"github.com/sandyspetshop/petshop-scheduler/internal/models"
	"github.com/sandyspetshop/petshop-scheduler/internal/timezone"
)

func TestClientPostsJSON(t *testing.T) {
	var got AppointmentPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	zone := timezone.Default
	ap := &models.Appointment{
		ID:              "a1",
		Family:          service.FamilyStore,
		PetName:         "Thor",
		Service:         service.BathGrooming,
		WeightTier:      "ate_5kg",
		Price:           70,
		Status:          "AGENDADO",
		AppointmentTime: zone.MustInstant(2025, time.June, 9, 9, 0, 0),
	}

	c := NewClient(map[Event]string{EventStoreCreated: srv.URL}, time.Second, nil)
	require.NoError(t, c.Post(context.Background(), EventStoreCreated, NewAppointmentPayload(zone, ap)))

	assert.Equal(t, "a1", got.ID)
	assert.Equal(t, "2025-06-09", got.Date)
	assert.Equal(t, "09:00", got.Time)
	assert.Equal(t, "R$ 70,00", got.PriceFormatted)
	assert.Equal(t, "Banho & Tosa", got.ServiceLabel)
}

func TestClientSkipsUnconfiguredEvent(t *testing.T) {
	c := NewClient(map[Event]string{}, time.Second, nil)
	require.NoError(t, c.Post(context.Background(), EventCompleted, map[string]string{"id": "x"}))
}

func TestClientReportsNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(map[Event]string{EventCompleted: srv.URL}, time.Second, nil)
	err := c.Post(context.Background(), EventCompleted, map[string]string{"id": "x"})
	require.ErrorIs(t, err, ErrDeliveryFailed)
	assert.Contains(t, err.Error(), "502")
}

func TestClientTimesOut(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	c := NewClient(map[Event]string{EventRescheduled: srv.URL}, 50*time.Millisecond, nil)
	err := c.Post(context.Background(), EventRescheduled, map[string]string{})
	require.ErrorIs(t, err, ErrDeliveryFailed)
}

type recordingPoster struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (p *recordingPoster) Post(_ context.Context, event Event, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func TestDispatcherDeliversAndLogsFailures(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	poster := &recordingPoster{err: ErrDeliveryFailed}

	d := NewDispatcher(poster, time.Second, zap.New(core))
	d.Notify(EventStoreCreated, nil)
	d.Notify(EventMobileCreated, nil)
	d.Close()

	assert.Equal(t, []Event{EventStoreCreated, EventMobileCreated}, poster.events)
	assert.Equal(t, 2, logs.FilterMessage("webhook failed").Len())
}
