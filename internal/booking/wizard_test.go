package booking

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandyspetshop/petshop-scheduler/internal/domain/service"
	"github.com/sandyspetshop/petshop-scheduler/internal/httperr"
	"github.com/sandyspetshop/petshop-scheduler/internal/pricing"
)

var t0 = time.Date(2025, time.June, 2, 12, 0, 0, 0, time.UTC)

func customer() Customer {
	return Customer{
		OwnerName:    "Ana Souza",
		OwnerPhone:   "(11) 98765-4321",
		OwnerAddress: "Rua das Flores, 10",
		PetName:      "Thor",
		PetBreed:     "Shih-tzu",
	}
}

func atSummary(t *testing.T) *Wizard {
	t.Helper()

	w := New("w1", VariantCustomer, t0)
	require.NoError(t, w.SetCustomer(customer(), t0))
	require.NoError(t, w.SetSelection(Selection{
		Service:    service.BathGrooming,
		WeightTier: "ate_5kg",
	}, pricing.DefaultCatalog(), t0))

	hour := 9
	require.NoError(t, w.SetSlot("2025-06-09", &hour, "", t0))
	require.Equal(t, ReviewingSummary, w.State)
	return w
}

func TestWizardHappyPath(t *testing.T) {
	w := atSummary(t)

	assert.Equal(t, "+5511987654321", w.Customer.OwnerPhone)
	assert.Equal(t, 70.0, w.Quote)

	require.NoError(t, w.BeginSubmit(t0))
	require.NoError(t, w.Succeed("ap-1", 70, t0))
	assert.Equal(t, Succeeded, w.State)
	assert.Equal(t, "ap-1", w.AppointmentID)
}

func TestWizardStepValidation(t *testing.T) {
	catalog := pricing.DefaultCatalog()

	w := New("w1", VariantCustomer, t0)

	c := customer()
	c.PetBreed = " "
	assert.ErrorIs(t, w.SetCustomer(c, t0), ErrCustomerIncomplete)

	c = customer()
	c.OwnerPhone = "12345"
	assert.ErrorIs(t, w.SetCustomer(c, t0), ErrInvalidPhone)
	assert.Equal(t, CollectingCustomerInfo, w.State)

	require.NoError(t, w.SetCustomer(customer(), t0))

	assert.ErrorIs(t, w.SetSelection(Selection{}, catalog, t0), ErrServiceRequired)
	assert.ErrorIs(t, w.SetSelection(Selection{Service: "spa"}, catalog, t0), ErrUnknownService)
	assert.ErrorIs(t, w.SetSelection(Selection{Service: service.Bath}, catalog, t0), ErrTierRequired)
	assert.ErrorIs(t, w.SetSelection(Selection{Service: service.MobileBath, WeightTier: "ate_5kg"}, catalog, t0), ErrCondoRequired)
	assert.ErrorIs(t, w.SetSelection(Selection{
		Service:    service.Bath,
		WeightTier: "ate_5kg",
		Addons:     []string{"desembolo"},
	}, catalog, t0), ErrAddonNotAllowed)
	assert.Equal(t, SelectingService, w.State)

	require.NoError(t, w.SetSelection(Selection{Service: service.DaycareVisit}, catalog, t0))
	assert.Equal(t, service.TierNotApplicable, w.Selection.WeightTier)
	assert.Zero(t, w.Quote)

	assert.ErrorIs(t, w.SetSlot("2025-06-09", nil, "", t0), ErrHourRequired)
	assert.ErrorIs(t, w.SetSlot("", nil, "", t0), ErrDateRequired)
}

func TestWizardAddonsAreDeduplicatedAndPriced(t *testing.T) {
	w := New("w1", VariantCustomer, t0)
	require.NoError(t, w.SetCustomer(customer(), t0))
	require.NoError(t, w.SetSelection(Selection{
		Service:    service.Bath,
		WeightTier: "ate_5kg",
		Addons:     []string{"hidratacao", "corte_unhas", "hidratacao"},
	}, pricing.DefaultCatalog(), t0))

	assert.Equal(t, []string{"corte_unhas", "hidratacao"}, w.Selection.Addons)
	assert.Equal(t, 70.0, w.Quote)
}

func TestWizardBack(t *testing.T) {
	w := atSummary(t)

	require.NoError(t, w.Back(t0))
	assert.Equal(t, SelectingDateTime, w.State)
	require.NoError(t, w.Back(t0))
	assert.Equal(t, SelectingService, w.State)
	require.NoError(t, w.Back(t0))
	assert.Equal(t, CollectingCustomerInfo, w.State)
	assert.ErrorIs(t, w.Back(t0), ErrNoPreviousStep)

	// Data entered earlier survives the trip back.
	assert.Equal(t, "Thor", w.Customer.PetName)
}

func TestWizardBackBlockedWhileSubmitting(t *testing.T) {
	w := atSummary(t)
	require.NoError(t, w.BeginSubmit(t0))

	assert.ErrorIs(t, w.Back(t0), ErrInvalidTransition)

	require.NoError(t, w.Succeed("ap-1", 70, t0))
	assert.ErrorIs(t, w.Back(t0), ErrInvalidTransition)
}

func TestWizardFailureAndRecovery(t *testing.T) {
	t.Run("availability conflict returns to date selection", func(t *testing.T) {
		w := atSummary(t)
		require.NoError(t, w.BeginSubmit(t0))
		require.NoError(t, w.Fail(httperr.ErrBusiness("slot_taken"), t0))

		assert.Equal(t, Failed, w.State)
		assert.Equal(t, "slot_taken", w.ErrorCode)

		require.NoError(t, w.Recover(t0))
		assert.Equal(t, SelectingDateTime, w.State)
		assert.Empty(t, w.ErrorCode)
	})

	t.Run("persistence error returns to summary", func(t *testing.T) {
		w := atSummary(t)
		require.NoError(t, w.BeginSubmit(t0))
		require.NoError(t, w.Fail(errors.New("connection reset"), t0))

		assert.Equal(t, "persistence_error", w.ErrorCode)
		assert.Equal(t, "connection reset", w.ErrorMessage)

		require.NoError(t, w.Recover(t0))
		assert.Equal(t, ReviewingSummary, w.State)
	})

	t.Run("stranded submission returns to summary", func(t *testing.T) {
		w := atSummary(t)
		require.NoError(t, w.BeginSubmit(t0))

		require.NoError(t, w.Recover(t0))
		assert.Equal(t, ReviewingSummary, w.State)
		require.NoError(t, w.BeginSubmit(t0))
	})

	t.Run("nothing to recover from", func(t *testing.T) {
		w := atSummary(t)
		assert.ErrorIs(t, w.Recover(t0), ErrInvalidTransition)
	})
}

func TestWizardChangingServiceClearsSlot(t *testing.T) {
	w := atSummary(t)
	require.NoError(t, w.Back(t0))
	require.NoError(t, w.Back(t0))

	require.NoError(t, w.SetSelection(Selection{Service: service.HotelVisit}, pricing.DefaultCatalog(), t0))
	assert.Nil(t, w.Slot.Hour)
}

func TestNewDefaultsToCustomerVariant(t *testing.T) {
	assert.Equal(t, VariantCustomer, New("x", "", t0).Variant)
	assert.True(t, New("x", VariantAdmin, t0).IsAdmin())
}
