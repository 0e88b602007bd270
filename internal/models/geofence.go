package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrGeofenceOwner  = errors.New("geofence must be owned by exactly one of employee or shared profile")
	ErrGeofenceRadius = errors.New("geofence radius must be greater than zero")
)

// Geofence is a named circular containment zone. It is owned either by one
// employee or by a shared profile, never both and never neither. Containment
// checks only consider active zones.
type Geofence struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	Name            string          `gorm:"size:128;not null" json:"name"`
	Latitude        decimal.Decimal `gorm:"type:decimal(10,8);not null" json:"latitude"`
	Longitude       decimal.Decimal `gorm:"type:decimal(11,8);not null" json:"longitude"`
	RadiusMeters    float64         `gorm:"type:decimal(8,2);not null" json:"radius_meters"`
	TaskType        string          `gorm:"size:32;not null" json:"task_type"`
	IsActive        bool            `gorm:"not null;default:true;index" json:"is_active"`
	EmployeeID      *uint           `gorm:"index" json:"employee_id,omitempty"`
	SharedProfileID *uint           `gorm:"index" json:"shared_profile_id,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	DeletedAt       gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (Geofence) TableName() string {
	return "geofences"
}

// BeforeSave enforces the owner invariant and the positive radius at the
// lowest layer, so no write path can slip past the handler checks.
func (g *Geofence) BeforeSave(tx *gorm.DB) error {
	if (g.EmployeeID == nil) == (g.SharedProfileID == nil) {
		return ErrGeofenceOwner
	}
	if g.RadiusMeters <= 0 {
		return ErrGeofenceRadius
	}
	return nil
}
