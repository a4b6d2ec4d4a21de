package billing

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/sandyspetshop/petshop-scheduler/internal/audit"
	"github.com/sandyspetshop/petshop-scheduler/internal/models"
	"github.com/sandyspetshop/petshop-scheduler/internal/pricing"
	"github.com/sandyspetshop/petshop-scheduler/internal/validators"
)

type HotelInput struct {
	ActorID string

	PetName    string
	OwnerName  string
	OwnerPhone string

	CheckIn  time.Time
	CheckOut time.Time
	Extras   pricing.ExtraServices

	Transport bool
	Vet       bool
	Training  bool
	Bath      bool

	TotalServicesPrice *float64
}

type CreateHotelRegistration struct {
	repo  Repository
	audit *audit.Dispatcher
}

func NewCreateHotelRegistration(repo Repository, audit *audit.Dispatcher) *CreateHotelRegistration {
	return &CreateHotelRegistration{repo: repo, audit: audit}
}

func (uc *CreateHotelRegistration) Execute(
	ctx context.Context,
	in HotelInput,
) (*models.HotelRegistration, error) {

	h := &models.HotelRegistration{
		PetName:            strings.TrimSpace(in.PetName),
		OwnerName:          strings.TrimSpace(in.OwnerName),
		CheckIn:            in.CheckIn,
		CheckOut:           in.CheckOut,
		Transport:          in.Transport,
		Vet:                in.Vet,
		Training:           in.Training,
		Bath:               in.Bath,
		TotalServicesPrice: in.TotalServicesPrice,
	}
	h.ExtraServices.ExtraServices = in.Extras

	if h.PetName == "" || h.OwnerName == "" {
		return nil, ErrPetRequired
	}
	if in.OwnerPhone != "" {
		phone, ok := validators.NormalizeBRPhone(in.OwnerPhone)
		if !ok {
			return nil, ErrInvalidPhone
		}
		h.OwnerPhone = phone
	}
	if h.CheckIn.IsZero() || h.CheckOut.IsZero() || !h.CheckOut.After(h.CheckIn) {
		return nil, ErrInvalidStay
	}
	if h.TotalServicesPrice != nil && *h.TotalServicesPrice < 0 {
		return nil, ErrNegativeAmount
	}

	if err := uc.repo.CreateHotelRegistration(ctx, h); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  in.ActorID,
		Action:   "hotel_registered",
		Entity:   "hotel_registration",
		EntityID: h.ID,
		Metadata: map[string]any{"nights": pricing.Nights(h.CheckIn, h.CheckOut)},
	})

	return h, nil
}

type HotelInvoice struct {
	repo    Repository
	catalog pricing.Catalog
}

func NewHotelInvoice(repo Repository, catalog pricing.Catalog) *HotelInvoice {
	return &HotelInvoice{repo: repo, catalog: catalog}
}

func (uc *HotelInvoice) Execute(ctx context.Context, id string) (*Invoice, error) {
	h, err := uc.repo.GetHotelRegistration(ctx, id)
	if err != nil {
		return nil, err
	}

	stay := pricing.HotelStay{
		CheckIn:   h.CheckIn,
		CheckOut:  h.CheckOut,
		Extras:    h.ExtraServices.ExtraServices,
		Transport: h.Transport,
		Vet:       h.Vet,
		Training:  h.Training,
		Bath:      h.Bath,
	}
	if h.TotalServicesPrice != nil {
		stay.TotalServicesPrice = *h.TotalServicesPrice
	}

	nights := pricing.Nights(h.CheckIn, h.CheckOut)
	total := uc.catalog.HotelInvoiceTotal(stay)

	// a negotiated total has no itemized extras
	extras := 0.0
	if stay.TotalServicesPrice <= 0 {
		extras = math.Round((total-uc.catalog.Hotel.Nightly*float64(nights))*100) / 100
	}

	return &Invoice{
		ID:             h.ID,
		Kind:           "hotel",
		PetName:        h.PetName,
		OwnerName:      h.OwnerName,
		Nights:         nights,
		Extras:         extras,
		Total:          total,
		TotalFormatted: pricing.FormatBRL(total),
	}, nil
}
