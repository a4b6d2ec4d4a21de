package models

import (
	"time"

	"github.com/sandyspetshop/petshop-scheduler/internal/domain/service"
)

// DisabledDate blocks every slot of a civil date for one family.
type DisabledDate struct {
	ID     uint           `gorm:"primaryKey" json:"id"`
	Date   string         `gorm:"size:10;not null;uniqueIndex:idx_disabled_date_family" json:"date"`
	Family service.Family `gorm:"size:10;not null;uniqueIndex:idx_disabled_date_family" json:"family"`
	Reason string         `gorm:"size:255" json:"reason"`

	CreatedAt time.Time `json:"created_at"`
}
