package dto

import (
	"time"

	"github.com/sandyspetshop/petshop-scheduler/internal/models"
	"github.com/sandyspetshop/petshop-scheduler/internal/pricing"
	"github.com/sandyspetshop/petshop-scheduler/internal/timezone"
)

type AppointmentListDTO struct {
	ID              string    `json:"id"`
	Family          string    `json:"family"`
	Collection      string    `json:"collection"`
	AppointmentTime time.Time `json:"appointment_time"`
	Date            string    `json:"date"`
	Time            string    `json:"time"`
	Status          string    `json:"status"`
	Service         string    `json:"service"`
	ServiceLabel    string    `json:"service_label"`
	WeightTier      string    `json:"weight_tier"`
	PetName         string    `json:"pet_name"`
	PetBreed        string    `json:"pet_breed"`
	OwnerName       string    `json:"owner_name"`
	OwnerPhone      string    `json:"owner_phone"`
	Condominium     string    `json:"condominium,omitempty"`
	Price           float64   `json:"price"`
	PriceFormatted  string    `json:"price_formatted"`
	Subscription    bool      `json:"subscription"`
}

func NewAppointmentListDTO(zone timezone.Zone, ap models.Appointment) AppointmentListDTO {
	out := AppointmentListDTO{
		ID:              ap.ID,
		Family:          string(ap.Family),
		Collection:      ap.StoredIn(),
		AppointmentTime: ap.AppointmentTime.In(zone.Location()),
		Date:            zone.DateString(ap.AppointmentTime),
		Time:            zone.FormatOrPlaceholder(&ap.AppointmentTime, "15:04"),
		Status:          ap.Status,
		Service:         string(ap.Service),
		ServiceLabel:    ap.Service.Label(),
		WeightTier:      string(ap.WeightTier),
		PetName:         ap.PetName,
		PetBreed:        ap.PetBreed,
		OwnerName:       ap.OwnerName,
		OwnerPhone:      ap.OwnerPhone,
		Price:           ap.Price,
		PriceFormatted:  pricing.FormatBRL(ap.Price),
		Subscription:    ap.MonthlyClientID != nil,
	}
	if ap.Condominium != nil {
		out.Condominium = *ap.Condominium
	}
	return out
}
