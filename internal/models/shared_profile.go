package models

import (
	"time"

	"gorm.io/gorm"
)

// SharedProfile groups employees that inherit a common set of geofences
// (e.g. all field technicians of one region).
type SharedProfile struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"uniqueIndex;size:128;not null" json:"name"`
	Description string         `gorm:"size:512" json:"description"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (SharedProfile) TableName() string {
	return "shared_profiles"
}
