package billing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandyspetshop/petshop-scheduler/internal/infra/repository"
	"github.com/sandyspetshop/petshop-scheduler/internal/models"
	"github.com/sandyspetshop/petshop-scheduler/internal/pricing"
	"github.com/sandyspetshop/petshop-scheduler/internal/timezone"
)

type memRepo struct {
	daycare map[string]models.DaycareEnrollment
	hotel   map[string]models.HotelRegistration
}

func newMemRepo() *memRepo {
	return &memRepo{
		daycare: map[string]models.DaycareEnrollment{},
		hotel:   map[string]models.HotelRegistration{},
	}
}

func (m *memRepo) CreateDaycareEnrollment(_ context.Context, e *models.DaycareEnrollment) error {
	e.ID = uuid.NewString()
	m.daycare[e.ID] = *e
	return nil
}

func (m *memRepo) GetDaycareEnrollment(_ context.Context, id string) (*models.DaycareEnrollment, error) {
	e, ok := m.daycare[id]
	if !ok {
		return nil, repository.ErrEnrollmentNotFound
	}
	return &e, nil
}

func (m *memRepo) CreateHotelRegistration(_ context.Context, h *models.HotelRegistration) error {
	h.ID = uuid.NewString()
	m.hotel[h.ID] = *h
	return nil
}

func (m *memRepo) GetHotelRegistration(_ context.Context, id string) (*models.HotelRegistration, error) {
	h, ok := m.hotel[id]
	if !ok {
		return nil, repository.ErrRegistrationNotFound
	}
	return &h, nil
}

func TestDaycareEnrollmentAndInvoice(t *testing.T) {
	repo := newMemRepo()
	catalog := pricing.DefaultCatalog()
	ctx := context.Background()

	e, err := NewCreateDaycareEnrollment(repo, catalog, timezone.Default, nil).Execute(ctx, DaycareInput{
		PetName:    "Bolt",
		OwnerName:  "Rafael Costa",
		OwnerPhone: "11 91234-5678",
		Plan:       "3x_semana",
		StartDate:  "2025-06-02",
		Extras: pricing.ExtraServices{
			Trainer:   pricing.LineItem{Enabled: true, Value: 60},
			ExtraDays: pricing.QuantityItem{Enabled: true, Quantity: 2, Value: 45},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "+5511912345678", e.OwnerPhone)

	inv, err := NewDaycareInvoice(repo, catalog).Execute(ctx, e.ID)
	require.NoError(t, err)

	// 550 + 60 + 2 x 45
	assert.Equal(t, 700.0, inv.Total)
	assert.Equal(t, 150.0, inv.Extras)
	assert.Equal(t, "daycare", inv.Kind)
	assert.Equal(t, pricing.FormatBRL(700), inv.TotalFormatted)
}

func TestDaycareValidation(t *testing.T) {
	uc := NewCreateDaycareEnrollment(newMemRepo(), pricing.DefaultCatalog(), timezone.Default, nil)
	ctx := context.Background()

	_, err := uc.Execute(ctx, DaycareInput{OwnerName: "Rafael"})
	assert.ErrorIs(t, err, ErrPetRequired)

	_, err = uc.Execute(ctx, DaycareInput{PetName: "Bolt", OwnerName: "Rafael", Plan: "7x_semana"})
	assert.ErrorIs(t, err, ErrUnknownPlan)

	_, err = uc.Execute(ctx, DaycareInput{PetName: "Bolt", OwnerName: "Rafael", StartDate: "02/06"})
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = uc.Execute(ctx, DaycareInput{PetName: "Bolt", OwnerName: "Rafael", OwnerPhone: "999"})
	assert.ErrorIs(t, err, ErrInvalidPhone)
}

func TestDaycareInvoiceNotFound(t *testing.T) {
	_, err := NewDaycareInvoice(newMemRepo(), pricing.DefaultCatalog()).Execute(context.Background(), "nope")
	assert.ErrorIs(t, err, repository.ErrEnrollmentNotFound)
}

func TestHotelInvoiceUsesNightsAndDefaults(t *testing.T) {
	repo := newMemRepo()
	catalog := pricing.DefaultCatalog()
	ctx := context.Background()

	checkIn := time.Date(2025, time.June, 2, 13, 0, 0, 0, time.UTC)

	h, err := NewCreateHotelRegistration(repo, nil).Execute(ctx, HotelInput{
		PetName:   "Luna",
		OwnerName: "Júlia Prado",
		CheckIn:   checkIn,
		// 50 hours: three started days
		CheckOut:  checkIn.Add(50 * time.Hour),
		Extras:    pricing.ExtraServices{BathOnly: pricing.LineItem{Enabled: true}},
		Transport: true,
	})
	require.NoError(t, err)

	inv, err := NewHotelInvoice(repo, catalog).Execute(ctx, h.ID)
	require.NoError(t, err)

	// 3 x 90 + bath default 50 + transport 40
	assert.Equal(t, 3, inv.Nights)
	assert.Equal(t, 360.0, inv.Total)
	assert.Equal(t, 90.0, inv.Extras)
}

func TestHotelNegotiatedTotalWins(t *testing.T) {
	repo := newMemRepo()
	ctx := context.Background()

	checkIn := time.Date(2025, time.June, 2, 13, 0, 0, 0, time.UTC)
	deal := 250.0

	h, err := NewCreateHotelRegistration(repo, nil).Execute(ctx, HotelInput{
		PetName:            "Luna",
		OwnerName:          "Júlia Prado",
		CheckIn:            checkIn,
		CheckOut:           checkIn.Add(72 * time.Hour),
		Vet:                true,
		TotalServicesPrice: &deal,
	})
	require.NoError(t, err)

	inv, err := NewHotelInvoice(repo, pricing.DefaultCatalog()).Execute(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, 250.0, inv.Total)
	assert.Zero(t, inv.Extras)
}

func TestHotelRejectsInvertedStay(t *testing.T) {
	checkIn := time.Date(2025, time.June, 2, 13, 0, 0, 0, time.UTC)

	_, err := NewCreateHotelRegistration(newMemRepo(), nil).Execute(context.Background(), HotelInput{
		PetName:   "Luna",
		OwnerName: "Júlia Prado",
		CheckIn:   checkIn,
		CheckOut:  checkIn.Add(-time.Hour),
	})
	assert.ErrorIs(t, err, ErrInvalidStay)
}
