package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Client is registered automatically the first time a phone number books.
type Client struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	Name    string `gorm:"size:100;not null" json:"name"`
	Phone   string `gorm:"size:20;uniqueIndex" json:"phone"`
	PetName string `gorm:"size:100" json:"pet_name"`
	Address string `gorm:"size:255" json:"address"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Client) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
