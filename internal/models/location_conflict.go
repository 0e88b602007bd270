package models

import (
	"encoding/json"
	"time"
)

// LocationConflict records that an incoming fix and an already-persisted fix
// describe the same moment for the same employee. The incoming payload is
// parked here instead of being inserted; an operator later resolves or
// rejects the conflict. RESOLVED and REJECTED are terminal.
type LocationConflict struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	EmployeeID       uint       `gorm:"not null;index" json:"employee_id"`
	ClientData       string     `gorm:"type:text;not null" json:"-"` // SamplePayload JSON, the incoming fix
	ServerData       string     `gorm:"type:text;not null" json:"-"` // SamplePayload JSON, snapshot of the colliding row
	Status           string     `gorm:"size:20;not null;default:'PENDING';index" json:"status"` // PENDING, RESOLVED, REJECTED
	ResolvedSampleID *uint      `json:"resolved_sample_id,omitempty"`
	ResolvedAt       *time.Time `json:"resolved_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	Employee User `gorm:"foreignKey:EmployeeID" json:"-"`
}

func (LocationConflict) TableName() string {
	return "location_conflicts"
}

func (c *LocationConflict) SetClientPayload(p SamplePayload) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	c.ClientData = string(data)
	return nil
}

func (c *LocationConflict) SetServerPayload(p SamplePayload) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	c.ServerData = string(data)
	return nil
}

func (c *LocationConflict) ClientPayload() (SamplePayload, error) {
	var p SamplePayload
	err := json.Unmarshal([]byte(c.ClientData), &p)
	return p, err
}

func (c *LocationConflict) ServerPayload() (SamplePayload, error) {
	var p SamplePayload
	err := json.Unmarshal([]byte(c.ServerData), &p)
	return p, err
}
