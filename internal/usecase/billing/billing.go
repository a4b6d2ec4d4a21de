package billing

import (
	"context"

	"github.com/sandyspetshop/petshop-scheduler/internal/httperr"
	"github.com/sandyspetshop/petshop-scheduler/internal/models"
)

var (
	ErrPetRequired    = httperr.ErrBusiness("customer_incomplete")
	ErrInvalidPhone   = httperr.ErrBusiness("invalid_phone")
	ErrUnknownPlan    = httperr.ErrBusiness("unknown_daycare_plan")
	ErrInvalidDate    = httperr.ErrBusiness("invalid_date")
	ErrInvalidStay    = httperr.ErrBusiness("invalid_stay")
	ErrNegativeAmount = httperr.ErrBusiness("invalid_amount")
)

type Repository interface {
	CreateDaycareEnrollment(ctx context.Context, e *models.DaycareEnrollment) error
	GetDaycareEnrollment(ctx context.Context, id string) (*models.DaycareEnrollment, error)
	CreateHotelRegistration(ctx context.Context, h *models.HotelRegistration) error
	GetHotelRegistration(ctx context.Context, id string) (*models.HotelRegistration, error)
}

// Invoice is the amount due for one enrollment or stay.
type Invoice struct {
	ID             string  `json:"id"`
	Kind           string  `json:"kind"`
	PetName        string  `json:"pet_name"`
	OwnerName      string  `json:"owner_name"`
	Nights         int     `json:"nights,omitempty"`
	Extras         float64 `json:"extras"`
	Total          float64 `json:"total"`
	TotalFormatted string  `json:"total_formatted"`
}
