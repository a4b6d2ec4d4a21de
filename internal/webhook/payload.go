package webhook

import (
	"time"

	"github.com/sandyspetshop/petshop-scheduler/internal/models"
	"github.com/sandyspetshop/petshop-scheduler/internal/pricing"
	"github.com/sandyspetshop/petshop-scheduler/internal/timezone"
)

type AppointmentPayload struct {
	ID             string    `json:"id"`
	Family         string    `json:"family"`
	PetName        string    `json:"pet_name"`
	PetBreed       string    `json:"pet_breed"`
	OwnerName      string    `json:"owner_name"`
	OwnerPhone     string    `json:"owner_phone"`
	OwnerAddress   string    `json:"owner_address"`
	Service        string    `json:"service"`
	ServiceLabel   string    `json:"service_label"`
	WeightTier     string    `json:"weight_tier"`
	Addons         []string  `json:"addons"`
	Price          float64   `json:"price"`
	PriceFormatted string    `json:"price_formatted"`
	Status         string    `json:"status"`
	Date           string    `json:"date"`
	Time           string    `json:"time"`
	Instant        time.Time `json:"appointment_time"`
	Condominium    string    `json:"condominium,omitempty"`
	Observation    string    `json:"observation,omitempty"`
}

func NewAppointmentPayload(zone timezone.Zone, ap *models.Appointment) AppointmentPayload {
	p := AppointmentPayload{
		ID:             ap.ID,
		Family:         string(ap.Family),
		PetName:        ap.PetName,
		PetBreed:       ap.PetBreed,
		OwnerName:      ap.OwnerName,
		OwnerPhone:     ap.OwnerPhone,
		OwnerAddress:   ap.OwnerAddress,
		Service:        string(ap.Service),
		ServiceLabel:   ap.Service.Label(),
		WeightTier:     string(ap.WeightTier),
		Addons:         ap.Addons,
		Price:          ap.Price,
		PriceFormatted: pricing.FormatBRL(ap.Price),
		Status:         ap.Status,
		Date:           zone.DateString(ap.AppointmentTime),
		Time:           zone.FormatOrPlaceholder(&ap.AppointmentTime, "15:04"),
		Instant:        ap.AppointmentTime,
		Observation:    ap.Observation,
	}
	if ap.Condominium != nil {
		p.Condominium = *ap.Condominium
	}
	return p
}
