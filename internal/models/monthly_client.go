package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sandyspetshop/petshop-scheduler/internal/domain/service"
)

// MonthlyClient is a subscription ("mensalista") with its recurrence rule.
type MonthlyClient struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	PetName      string  `gorm:"size:100;not null" json:"pet_name"`
	PetBreed     string  `gorm:"size:100" json:"pet_breed"`
	OwnerName    string  `gorm:"size:100;not null" json:"owner_name"`
	OwnerAddress string  `gorm:"size:255" json:"owner_address"`
	OwnerPhone   string  `gorm:"size:20;not null" json:"owner_phone"`
	Condominium  *string `gorm:"size:100" json:"condominium,omitempty"`

	Service           service.Type       `gorm:"size:40" json:"service"`
	ServiceQuantities Quantities         `gorm:"type:jsonb" json:"service_quantities"`
	WeightTier        service.WeightTier `gorm:"size:20" json:"weight_tier"`
	Addons            StringList         `gorm:"type:jsonb" json:"addons"`
	PackagePrice      float64            `gorm:"type:numeric(10,2)" json:"package_price"`
	UnitPrice         float64            `gorm:"type:numeric(10,2)" json:"unit_price"`

	RecurrenceType string `gorm:"size:20;not null" json:"recurrence_type"`
	RecurrenceDay  int    `json:"recurrence_day"`
	RecurrenceHour int    `json:"recurrence_hour"`
	StartDate      string `gorm:"size:10" json:"start_date"`

	IsActive bool `gorm:"default:true" json:"is_active"`

	PaymentStatus       string     `gorm:"size:20;default:'Pendente'" json:"payment_status"`
	PaymentDueDate      *time.Time `json:"payment_due_date"`
	PaymentLink         string     `gorm:"size:255" json:"payment_link,omitempty"`
	PaymentPreferenceID string     `gorm:"size:100" json:"payment_preference_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (m *MonthlyClient) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
