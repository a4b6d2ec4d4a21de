package subscription

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sandyspetshop/petshop-scheduler/internal/availability"
	appointment "github.com/sandyspetshop/petshop-scheduler/internal/domain/appointment"
	"github.com/sandyspetshop/petshop-scheduler/internal/domain/service"
	"github.com/sandyspetshop/petshop-scheduler/internal/httperr"
	"github.com/sandyspetshop/petshop-scheduler/internal/models"
	"github.com/sandyspetshop/petshop-scheduler/internal/pricing"
	"github.com/sandyspetshop/petshop-scheduler/internal/recurrence"
	"github.com/sandyspetshop/petshop-scheduler/internal/timezone"
	"github.com/sandyspetshop/petshop-scheduler/internal/validators"
)

var (
	ErrCustomerIncomplete = httperr.ErrBusiness("customer_incomplete")
	ErrInvalidPhone       = httperr.ErrBusiness("invalid_phone")
	ErrServiceRequired    = httperr.ErrBusiness("service_required")
	ErrUnknownService     = httperr.ErrBusiness("unknown_service")
	ErrTierRequired       = httperr.ErrBusiness("weight_tier_required")
	ErrUnknownTier        = httperr.ErrBusiness("unknown_weight_tier")
	ErrInvalidRecurrence  = httperr.ErrBusiness("invalid_recurrence")
	ErrCondoRequired      = httperr.ErrBusiness("condominium_required")
	ErrUnknownCondominium = httperr.ErrBusiness("unknown_condominium")
	ErrInvalidDate        = httperr.ErrBusiness("invalid_date")
)

// Outcome tells the admin what happened to the occurrences.
type Outcome string

const (
	OutcomeCreated        Outcome = "created"
	OutcomeUpdated        Outcome = "updated"
	OutcomeNoAppointments Outcome = "no_appointments"
	OutcomeInactive       Outcome = "inactive"
)

type Result struct {
	Client    *models.MonthlyClient `json:"client"`
	Outcome   Outcome               `json:"outcome"`
	Generated int                   `json:"generated"`
	Removed   int64                 `json:"removed"`
}

// Input is shared by create and edit.
type Input struct {
	ActorID string

	OwnerName    string
	OwnerPhone   string
	OwnerAddress string
	PetName      string
	PetBreed     string
	Condominium  string

	Quantities map[service.Type]int
	WeightTier service.WeightTier
	Addons     []string

	Recurrence recurrence.Rule
	StartDate  string
}

// Planner turns a validated package into prices and appointment rows.
type Planner struct {
	Zone    timezone.Zone
	Catalog pricing.Catalog
	Policy  availability.Policy

	// Horizon is the fixed YYYY-MM-DD cutoff; empty means the end of next year.
	Horizon string
	Clock   timezone.Clock
}

func (p Planner) now() time.Time {
	if p.Clock == nil {
		return timezone.SystemClock()
	}
	return p.Clock()
}

// plan is the validated, priced form of an Input.
type plan struct {
	in        Input
	canonical service.Type
	pkg       float64
	unit      float64
	start     time.Time
}

func (p Planner) validate(in Input) (*plan, error) {
	in.OwnerName = strings.TrimSpace(in.OwnerName)
	in.PetName = strings.TrimSpace(in.PetName)
	in.PetBreed = strings.TrimSpace(in.PetBreed)
	in.OwnerAddress = strings.TrimSpace(in.OwnerAddress)
	in.Condominium = strings.TrimSpace(in.Condominium)

	if in.OwnerName == "" || in.PetName == "" || in.OwnerPhone == "" {
		return nil, ErrCustomerIncomplete
	}
	phone, ok := validators.NormalizeBRPhone(in.OwnerPhone)
	if !ok {
		return nil, ErrInvalidPhone
	}
	in.OwnerPhone = phone

	for svc, qty := range in.Quantities {
		if qty > 0 && !svc.Valid() {
			return nil, ErrUnknownService
		}
	}
	canonical, ok := service.Canonical(in.Quantities)
	if !ok {
		return nil, ErrServiceRequired
	}

	if in.WeightTier == "" {
		return nil, ErrTierRequired
	}
	if _, ok := p.Catalog.Tier(in.WeightTier); !ok {
		return nil, ErrUnknownTier
	}

	if err := in.Recurrence.Validate(); err != nil {
		return nil, ErrInvalidRecurrence
	}
	// the shop's hour grid, not just any hour of the day
	if !slices.Contains(p.Policy.Hours(canonical), in.Recurrence.Hour) {
		return nil, ErrInvalidRecurrence
	}

	if canonical.IsMobile() {
		if in.Condominium == "" {
			return nil, ErrCondoRequired
		}
		if _, ok := p.Policy.CondominiumWeekday(in.Condominium); !ok {
			return nil, ErrUnknownCondominium
		}
	} else {
		in.Condominium = ""
	}

	start := p.Zone.StartOfDay(p.now())
	if in.StartDate != "" {
		noon, err := p.Zone.ParseDateNoon(in.StartDate)
		if err != nil {
			return nil, ErrInvalidDate
		}
		start = p.Zone.StartOfDay(noon)
	} else {
		in.StartDate = p.Zone.DateString(start)
	}

	pkg, err := p.Catalog.PackagePrice(in.Quantities, in.WeightTier, in.Addons)
	if err != nil {
		return nil, ErrUnknownTier
	}
	unit, err := p.Catalog.DiscountedUnitPrice(in.WeightTier, canonical)
	if err != nil {
		return nil, ErrUnknownTier
	}

	return &plan{
		in:        in,
		canonical: canonical,
		pkg:       pkg,
		unit:      unit,
		start:     start,
	}, nil
}

// apply copies the plan onto a stored client.
func (pl *plan) apply(mc *models.MonthlyClient) {
	mc.OwnerName = pl.in.OwnerName
	mc.OwnerPhone = pl.in.OwnerPhone
	mc.OwnerAddress = pl.in.OwnerAddress
	mc.PetName = pl.in.PetName
	mc.PetBreed = pl.in.PetBreed
	mc.Condominium = nil
	if pl.in.Condominium != "" {
		condo := pl.in.Condominium
		mc.Condominium = &condo
	}

	mc.Service = pl.canonical
	mc.ServiceQuantities = models.Quantities(pl.in.Quantities)
	mc.WeightTier = pl.in.WeightTier
	mc.Addons = models.StringList(pl.in.Addons)
	mc.PackagePrice = pl.pkg
	mc.UnitPrice = pl.unit

	mc.RecurrenceType = string(pl.in.Recurrence.Type)
	mc.RecurrenceDay = pl.in.Recurrence.Day
	mc.RecurrenceHour = pl.in.Recurrence.Hour
	mc.StartDate = pl.in.StartDate
}

// instants expands the client's rule from ref up to the horizon.
func (p Planner) instants(mc *models.MonthlyClient, ref time.Time) ([]time.Time, error) {
	horizon, err := recurrence.Horizon(p.Zone, ref, p.Horizon)
	if err != nil {
		return nil, err
	}
	return recurrence.Generate(p.Zone, ruleOf(mc), ref, horizon)
}

// rows builds one appointment per instant. Mobile packages get a second row in the store
// collection so both admin views show them; the pair shares an OccurrenceKey.
func (p Planner) rows(mc *models.MonthlyClient, instants []time.Time) []models.Appointment {
	now := p.now()
	family := mc.Service.Family()

	out := make([]models.Appointment, 0, len(instants)*2)
	for _, at := range instants {
		row := models.Appointment{
			ID:              uuid.NewString(),
			Family:          family,
			PetName:         mc.PetName,
			PetBreed:        mc.PetBreed,
			OwnerName:       mc.OwnerName,
			OwnerAddress:    mc.OwnerAddress,
			OwnerPhone:      mc.OwnerPhone,
			Service:         mc.Service,
			WeightTier:      mc.WeightTier,
			Price:           mc.UnitPrice,
			Status:          string(appointment.StatusAt(p.Zone, at, now)),
			AppointmentTime: at,
			Condominium:     mc.Condominium,
			MonthlyClientID: &mc.ID,
		}
		if family == service.FamilyMobile {
			key := uuid.NewString()
			row.OccurrenceKey = &key
		}
		out = append(out, row)

		if family == service.FamilyMobile {
			mirror := row
			mirror.ID = uuid.NewString()
			mirror.Collection = models.StoreAppointmentsTable
			out = append(out, mirror)
		}
	}
	return out
}

func ruleOf(mc *models.MonthlyClient) recurrence.Rule {
	return recurrence.Rule{
		Type: recurrence.Type(mc.RecurrenceType),
		Day:  mc.RecurrenceDay,
		Hour: mc.RecurrenceHour,
	}
}

func laterOf(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}
