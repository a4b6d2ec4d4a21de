package booking

import (
	"slices"
	"strings"
	"time"

	"github.com/sandyspetshop/petshop-scheduler/internal/domain/service"
	"github.com/sandyspetshop/petshop-scheduler/internal/httperr"
	"github.com/sandyspetshop/petshop-scheduler/internal/pricing"
	"github.com/sandyspetshop/petshop-scheduler/internal/validators"
)

type State string

const (
	CollectingCustomerInfo State = "collecting_customer_info"
	SelectingService       State = "selecting_service"
	SelectingDateTime      State = "selecting_date_time"
	ReviewingSummary       State = "reviewing_summary"
	Submitting             State = "submitting"
	Succeeded              State = "succeeded"
	Failed                 State = "failed"
)

// Variant separates the public scheduler from the back-office one. Admin bookings skip
// the past-time rule.
type Variant string

const (
	VariantCustomer Variant = "customer"
	VariantAdmin    Variant = "admin"
)

var (
	ErrInvalidTransition = httperr.ErrBusiness("invalid_transition")
	ErrNoPreviousStep    = httperr.ErrBusiness("no_previous_step")

	ErrCustomerIncomplete = httperr.ErrBusiness("customer_incomplete")
	ErrInvalidPhone       = httperr.ErrBusiness("invalid_phone")
	ErrServiceRequired    = httperr.ErrBusiness("service_required")
	ErrUnknownService     = httperr.ErrBusiness("unknown_service")
	ErrTierRequired       = httperr.ErrBusiness("weight_tier_required")
	ErrUnknownTier        = httperr.ErrBusiness("unknown_weight_tier")
	ErrCondoRequired      = httperr.ErrBusiness("condominium_required")
	ErrAddonNotAllowed    = httperr.ErrBusiness("addon_not_allowed")
	ErrDateRequired       = httperr.ErrBusiness("date_required")
	ErrHourRequired       = httperr.ErrBusiness("hour_required")
)

type Customer struct {
	OwnerName    string `json:"owner_name"`
	OwnerPhone   string `json:"owner_phone"`
	OwnerAddress string `json:"owner_address"`
	PetName      string `json:"pet_name"`
	PetBreed     string `json:"pet_breed"`
}

type Selection struct {
	Service     service.Type       `json:"service"`
	WeightTier  service.WeightTier `json:"weight_tier"`
	Addons      []string           `json:"addons"`
	Condominium string             `json:"condominium,omitempty"`
}

type Slot struct {
	Date string `json:"date"`
	Hour *int   `json:"hour"`
}

// Wizard is one booking in progress. Nothing is persisted as an appointment until
// Submitting.
type Wizard struct {
	ID      string  `json:"id"`
	Variant Variant `json:"variant"`
	State   State   `json:"state"`

	Customer    Customer  `json:"customer"`
	Selection   Selection `json:"selection"`
	Slot        Slot      `json:"slot"`
	Observation string    `json:"observation,omitempty"`

	// Quote is the price shown on the summary; the stored price is recomputed on submit.
	Quote float64 `json:"quote"`

	AppointmentID string `json:"appointment_id,omitempty"`
	ErrorCode     string `json:"error_code,omitempty"`
	ErrorMessage  string `json:"error_message,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
}

func New(id string, variant Variant, now time.Time) *Wizard {
	if variant != VariantAdmin {
		variant = VariantCustomer
	}
	return &Wizard{
		ID:        id,
		Variant:   variant,
		State:     CollectingCustomerInfo,
		UpdatedAt: now,
	}
}

func (w *Wizard) IsAdmin() bool {
	return w.Variant == VariantAdmin
}

// -------- Step 1 --------

func (w *Wizard) SetCustomer(c Customer, now time.Time) error {
	if w.State != CollectingCustomerInfo {
		return ErrInvalidTransition
	}

	c.OwnerName = strings.TrimSpace(c.OwnerName)
	c.OwnerAddress = strings.TrimSpace(c.OwnerAddress)
	c.PetName = strings.TrimSpace(c.PetName)
	c.PetBreed = strings.TrimSpace(c.PetBreed)

	if c.OwnerName == "" || c.OwnerPhone == "" || c.PetName == "" || c.PetBreed == "" || c.OwnerAddress == "" {
		return ErrCustomerIncomplete
	}

	phone, ok := validators.NormalizeBRPhone(c.OwnerPhone)
	if !ok {
		return ErrInvalidPhone
	}
	c.OwnerPhone = phone

	w.Customer = c
	w.advance(SelectingService, now)
	return nil
}

// -------- Step 2 --------

func (w *Wizard) SetSelection(sel Selection, catalog pricing.Catalog, now time.Time) error {
	if w.State != SelectingService {
		return ErrInvalidTransition
	}

	if sel.Service == "" {
		return ErrServiceRequired
	}
	def, ok := service.Lookup(sel.Service)
	if !ok {
		return ErrUnknownService
	}

	if def.Kind == service.KindVisit {
		sel.WeightTier = service.TierNotApplicable
		sel.Addons = nil
	} else {
		if sel.WeightTier == "" || sel.WeightTier == service.TierNotApplicable {
			return ErrTierRequired
		}
		if _, ok := catalog.Tier(sel.WeightTier); !ok {
			return ErrUnknownTier
		}
		for _, id := range sel.Addons {
			a, ok := catalog.Addon(id)
			if !ok || !pricing.AddonAllowed(a, sel.WeightTier, sel.Service) {
				return ErrAddonNotAllowed
			}
		}
		addons := append([]string(nil), sel.Addons...)
		slices.Sort(addons)
		sel.Addons = slices.Compact(addons)
	}

	sel.Condominium = strings.TrimSpace(sel.Condominium)
	if def.Family == service.FamilyMobile {
		if sel.Condominium == "" {
			return ErrCondoRequired
		}
	} else {
		sel.Condominium = ""
	}

	quote, err := Quote(catalog, sel)
	if err != nil {
		return err
	}

	// A different service may have other working hours.
	if w.Selection.Service != sel.Service || w.Selection.Condominium != sel.Condominium {
		w.Slot = Slot{}
	}

	w.Selection = sel
	w.Quote = quote
	w.advance(SelectingDateTime, now)
	return nil
}

// -------- Step 3 --------

func (w *Wizard) SetSlot(date string, hour *int, observation string, now time.Time) error {
	if w.State != SelectingDateTime {
		return ErrInvalidTransition
	}
	if strings.TrimSpace(date) == "" {
		return ErrDateRequired
	}
	if hour == nil {
		return ErrHourRequired
	}

	h := *hour
	w.Slot = Slot{Date: strings.TrimSpace(date), Hour: &h}
	w.Observation = strings.TrimSpace(observation)
	w.advance(ReviewingSummary, now)
	return nil
}

// -------- Navigation --------

// Back returns to the previous step. A failed submission goes back to the summary.
func (w *Wizard) Back(now time.Time) error {
	prev := map[State]State{
		SelectingService:  CollectingCustomerInfo,
		SelectingDateTime: SelectingService,
		ReviewingSummary:  SelectingDateTime,
		Failed:            ReviewingSummary,
	}

	switch w.State {
	case Submitting, Succeeded:
		return ErrInvalidTransition
	case CollectingCustomerInfo:
		return ErrNoPreviousStep
	}

	w.clearError()
	w.advance(prev[w.State], now)
	return nil
}

// -------- Submission --------

func (w *Wizard) BeginSubmit(now time.Time) error {
	if w.State != ReviewingSummary {
		return ErrInvalidTransition
	}
	w.clearError()
	w.advance(Submitting, now)
	return nil
}

func (w *Wizard) Succeed(appointmentID string, price float64, now time.Time) error {
	if w.State != Submitting {
		return ErrInvalidTransition
	}
	w.AppointmentID = appointmentID
	w.Quote = price
	w.advance(Succeeded, now)
	return nil
}

func (w *Wizard) Fail(err error, now time.Time) error {
	if w.State != Submitting {
		return ErrInvalidTransition
	}

	w.ErrorCode = httperr.CodeOf(err)
	if w.ErrorCode == "" {
		w.ErrorCode = "persistence_error"
	}
	w.ErrorMessage = err.Error()
	w.advance(Failed, now)
	return nil
}

// Recover leaves Failed, or a Submitting state whose outcome was never recorded.
// Availability conflicts go straight to date/time selection so
// another hour can be picked.
func (w *Wizard) Recover(now time.Time) error {
	switch w.State {
	case Failed:
	case Submitting:
		// stranded without an outcome; back to the summary for a fresh attempt
		w.clearError()
		w.advance(ReviewingSummary, now)
		return nil
	default:
		return ErrInvalidTransition
	}

	next := ReviewingSummary
	if IsAvailabilityConflict(w.ErrorCode) {
		next = SelectingDateTime
	}

	w.clearError()
	w.advance(next, now)
	return nil
}

func IsAvailabilityConflict(code string) bool {
	switch code {
	case "slot_unavailable", "slot_taken", "slot_locked":
		return true
	}
	return false
}

func (w *Wizard) advance(s State, now time.Time) {
	w.State = s
	w.UpdatedAt = now
}

func (w *Wizard) clearError() {
	w.ErrorCode = ""
	w.ErrorMessage = ""
}

// Quote is the single-visit price of a selection: unit price plus add-ons.
func Quote(catalog pricing.Catalog, sel Selection) (float64, error) {
	unit, err := catalog.UnitPrice(sel.WeightTier, sel.Service)
	if err != nil {
		return 0, ErrUnknownTier
	}
	return unit + catalog.AddonsTotal(sel.Addons), nil
}
