package billing

import (
	"context"
	"strings"

	"github.com/sandyspetshop/petshop-scheduler/internal/audit"
	"github.com/sandyspetshop/petshop-scheduler/internal/models"
	"github.com/sandyspetshop/petshop-scheduler/internal/pricing"
	"github.com/sandyspetshop/petshop-scheduler/internal/timezone"
	"github.com/sandyspetshop/petshop-scheduler/internal/validators"
)

type DaycareInput struct {
	ActorID string

	PetName    string
	OwnerName  string
	OwnerPhone string

	Plan       string
	TotalPrice float64
	Extras     pricing.ExtraServices
	StartDate  string
}

type CreateDaycareEnrollment struct {
	repo    Repository
	catalog pricing.Catalog
	zone    timezone.Zone
	audit   *audit.Dispatcher
}

func NewCreateDaycareEnrollment(
	repo Repository,
	catalog pricing.Catalog,
	zone timezone.Zone,
	audit *audit.Dispatcher,
) *CreateDaycareEnrollment {
	return &CreateDaycareEnrollment{repo: repo, catalog: catalog, zone: zone, audit: audit}
}

func (uc *CreateDaycareEnrollment) Execute(
	ctx context.Context,
	in DaycareInput,
) (*models.DaycareEnrollment, error) {

	e := &models.DaycareEnrollment{
		PetName:    strings.TrimSpace(in.PetName),
		OwnerName:  strings.TrimSpace(in.OwnerName),
		Plan:       strings.TrimSpace(in.Plan),
		TotalPrice: in.TotalPrice,
		StartDate:  in.StartDate,
	}
	e.ExtraServices.ExtraServices = in.Extras

	if e.PetName == "" || e.OwnerName == "" {
		return nil, ErrPetRequired
	}
	if in.OwnerPhone != "" {
		phone, ok := validators.NormalizeBRPhone(in.OwnerPhone)
		if !ok {
			return nil, ErrInvalidPhone
		}
		e.OwnerPhone = phone
	}
	if e.TotalPrice < 0 {
		return nil, ErrNegativeAmount
	}
	if e.Plan != "" {
		if _, ok := uc.catalog.DaycarePlans[e.Plan]; !ok {
			return nil, ErrUnknownPlan
		}
	}
	if e.StartDate != "" {
		if _, err := uc.zone.ParseDateNoon(e.StartDate); err != nil {
			return nil, ErrInvalidDate
		}
	}

	if err := uc.repo.CreateDaycareEnrollment(ctx, e); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  in.ActorID,
		Action:   "daycare_enrolled",
		Entity:   "daycare_enrollment",
		EntityID: e.ID,
		Metadata: map[string]any{"plan": e.Plan},
	})

	return e, nil
}

type DaycareInvoice struct {
	repo    Repository
	catalog pricing.Catalog
}

func NewDaycareInvoice(repo Repository, catalog pricing.Catalog) *DaycareInvoice {
	return &DaycareInvoice{repo: repo, catalog: catalog}
}

func (uc *DaycareInvoice) Execute(ctx context.Context, id string) (*Invoice, error) {
	e, err := uc.repo.GetDaycareEnrollment(ctx, id)
	if err != nil {
		return nil, err
	}

	total := uc.catalog.DaycareInvoiceTotal(pricing.DaycareEnrollment{
		TotalPrice: e.TotalPrice,
		Plan:       e.Plan,
		Extras:     e.ExtraServices.ExtraServices,
	})

	return &Invoice{
		ID:             e.ID,
		Kind:           "daycare",
		PetName:        e.PetName,
		OwnerName:      e.OwnerName,
		Extras:         e.ExtraServices.Sum(),
		Total:          total,
		TotalFormatted: pricing.FormatBRL(total),
	}, nil
}
