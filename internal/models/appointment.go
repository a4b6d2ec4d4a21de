package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sandyspetshop/petshop-scheduler/internal/domain/service"
)

// Physical collections. Both hold Appointment rows; the mobile one always carries a
// condominium.
const (
	StoreAppointmentsTable  = "appointments"
	MobileAppointmentsTable = "pet_movel_appointments"
)

type Appointment struct {
	ID     string         `gorm:"primaryKey;size:36" json:"id"`
	Family service.Family `gorm:"size:10;not null;index" json:"family"`

	PetName      string `gorm:"size:100;not null" json:"pet_name"`
	PetBreed     string `gorm:"size:100" json:"pet_breed"`
	OwnerName    string `gorm:"size:100;not null" json:"owner_name"`
	OwnerAddress string `gorm:"size:255" json:"owner_address"`
	OwnerPhone   string `gorm:"size:20;not null" json:"owner_phone"`

	Service    service.Type       `gorm:"size:40;not null" json:"service"`
	WeightTier service.WeightTier `gorm:"size:20" json:"weight_tier"`
	Addons     StringList         `gorm:"type:jsonb" json:"addons"`
	Price      float64            `gorm:"type:numeric(10,2)" json:"price"`

	Status          string    `gorm:"size:20;default:'AGENDADO'" json:"status"`
	AppointmentTime time.Time `gorm:"not null;index" json:"appointment_time"`

	Condominium     *string `gorm:"size:100" json:"condominium,omitempty"`
	MonthlyClientID *string `gorm:"size:36;index" json:"monthly_client_id,omitempty"`

	// OccurrenceKey is shared by a mobile subscription row and its store mirror.
	OccurrenceKey *string `gorm:"size:36;index" json:"occurrence_key,omitempty"`

	Observation   string        `gorm:"type:text" json:"observation"`
	ExtraServices ExtraServices `gorm:"type:jsonb" json:"extra_services"`

	CompletedAt *time.Time `json:"completed_at"`
	CancelledAt *time.Time `json:"cancelled_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Collection is the table the row was read from or is headed to. Empty means the
	// family's own collection.
	Collection string `gorm:"-" json:"collection,omitempty"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// CollectionFor maps a family to the table its rows live in.
func CollectionFor(f service.Family) string {
	if f == service.FamilyMobile {
		return MobileAppointmentsTable
	}
	return StoreAppointmentsTable
}

// PairedCollection is the table holding the other half of a keyed occurrence.
func (a *Appointment) PairedCollection() string {
	if a.StoredIn() == MobileAppointmentsTable {
		return StoreAppointmentsTable
	}
	return MobileAppointmentsTable
}

// StoredIn is the table holding this row. Mirror rows of mobile subscriptions keep
// family mobile while living in the store collection.
func (a *Appointment) StoredIn() string {
	if a.Collection != "" {
		return a.Collection
	}
	return CollectionFor(a.Family)
}
