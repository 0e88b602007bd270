package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LocationSample is a single GPS fix uploaded by an employee's device.
// Rows are insert-only: samples are never updated or deleted by normal flow.
// ClientID is generated on the device and is the idempotency key; the
// composite unique index makes re-submission of an already-synced fix a
// duplicate-key error instead of a second row.
//
// Coordinates are stored as fixed-point decimals so a value survives any
// number of client/server round trips unchanged.
type LocationSample struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	EmployeeID     uint            `gorm:"not null;uniqueIndex:idx_sample_client;index:idx_sample_employee_time" json:"employee_id"`
	ClientID       string          `gorm:"size:64;not null;uniqueIndex:idx_sample_client" json:"client_id"`
	Latitude       decimal.Decimal `gorm:"type:decimal(10,8);not null" json:"latitude"`
	Longitude      decimal.Decimal `gorm:"type:decimal(11,8);not null" json:"longitude"`
	AccuracyMeters float64         `gorm:"type:decimal(8,2);not null" json:"accuracy_meters"`
	TimestampUTC   time.Time       `gorm:"not null;index:idx_sample_employee_time" json:"timestamp_utc"`
	BatteryPercent *float64        `gorm:"type:decimal(5,2)" json:"battery_percent,omitempty"`
	Speed          *float64        `gorm:"type:decimal(8,2)" json:"speed,omitempty"`
	Heading        *float64        `gorm:"type:decimal(6,2)" json:"heading,omitempty"`
	SyncedAt       time.Time       `gorm:"not null" json:"synced_at"`

	Employee User `gorm:"foreignKey:EmployeeID" json:"-"`
}

func (LocationSample) TableName() string {
	return "location_samples"
}

// SamplePayload is the JSON form of a fix held inside a conflict record:
// the incoming payload that was not persisted, and the snapshot of the
// colliding server row.
type SamplePayload struct {
	ClientID       string          `json:"client_id"`
	EmployeeID     uint            `json:"employee_id"`
	Latitude       decimal.Decimal `json:"latitude"`
	Longitude      decimal.Decimal `json:"longitude"`
	AccuracyMeters float64         `json:"accuracy_meters"`
	TimestampUTC   time.Time       `json:"timestamp_utc"`
	BatteryPercent *float64        `json:"battery_percent,omitempty"`
	Speed          *float64        `json:"speed,omitempty"`
	Heading        *float64        `json:"heading,omitempty"`
}

// PayloadFromSample snapshots a persisted sample.
func PayloadFromSample(s *LocationSample) SamplePayload {
	return SamplePayload{
		ClientID:       s.ClientID,
		EmployeeID:     s.EmployeeID,
		Latitude:       s.Latitude,
		Longitude:      s.Longitude,
		AccuracyMeters: s.AccuracyMeters,
		TimestampUTC:   s.TimestampUTC,
		BatteryPercent: s.BatteryPercent,
		Speed:          s.Speed,
		Heading:        s.Heading,
	}
}

// ToSample materializes the payload as a new, not-yet-persisted sample.
// SyncedAt is left to the caller (always server-assigned).
func (p SamplePayload) ToSample() *LocationSample {
	return &LocationSample{
		ClientID:       p.ClientID,
		EmployeeID:     p.EmployeeID,
		Latitude:       p.Latitude,
		Longitude:      p.Longitude,
		AccuracyMeters: p.AccuracyMeters,
		TimestampUTC:   p.TimestampUTC,
		BatteryPercent: p.BatteryPercent,
		Speed:          p.Speed,
		Heading:        p.Heading,
	}
}
