package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DaycareEnrollment struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	PetName    string `gorm:"size:100;not null" json:"pet_name"`
	OwnerName  string `gorm:"size:100;not null" json:"owner_name"`
	OwnerPhone string `gorm:"size:20" json:"owner_phone"`

	Plan          string        `gorm:"size:30" json:"plan"`
	TotalPrice    float64       `gorm:"type:numeric(10,2)" json:"total_price"`
	ExtraServices ExtraServices `gorm:"type:jsonb" json:"extra_services"`
	StartDate     string        `gorm:"size:10" json:"start_date"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (d *DaycareEnrollment) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}

type HotelRegistration struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	PetName    string `gorm:"size:100;not null" json:"pet_name"`
	OwnerName  string `gorm:"size:100;not null" json:"owner_name"`
	OwnerPhone string `gorm:"size:20" json:"owner_phone"`

	CheckIn  time.Time `json:"check_in"`
	CheckOut time.Time `json:"check_out"`

	ExtraServices ExtraServices `gorm:"type:jsonb" json:"extra_services"`

	Transport bool `json:"transport"`
	Vet       bool `json:"vet"`
	Training  bool `json:"training"`
	Bath      bool `json:"bath"`

	TotalServicesPrice *float64 `gorm:"type:numeric(10,2)" json:"total_services_price"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (h *HotelRegistration) BeforeCreate(tx *gorm.DB) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	return nil
}
