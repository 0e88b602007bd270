package service

import (
	"fmt"
	"time"

	"shiftsync/internal/models"

	"github.com/shopspring/decimal"
)

// RawSample is one fix as it arrives in a batch upload. Pointer fields
// distinguish "absent" from zero so the validator can report both.
type RawSample struct {
	ClientID       string           `json:"client_id"`
	EmployeeID     uint             `json:"employee_id"`
	Latitude       *decimal.Decimal `json:"latitude"`
	Longitude      *decimal.Decimal `json:"longitude"`
	AccuracyMeters *float64         `json:"accuracy_meters"`
	BatteryPercent *float64         `json:"battery_percent,omitempty"`
	Speed          *float64         `json:"speed,omitempty"`
	Heading        *float64         `json:"heading,omitempty"`
	TimestampUTC   string           `json:"timestamp_utc"`
}

type ValidationResult struct {
	Valid  bool
	Errors []string
}

var (
	latMin = decimal.NewFromInt(-90)
	latMax = decimal.NewFromInt(90)
	lngMin = decimal.NewFromInt(-180)
	lngMax = decimal.NewFromInt(180)
)

// ValidateBatch checks a batch structurally before anything is persisted.
// An empty batch and an oversized batch short-circuit with a single error;
// per-sample violations are all collected, tagged with the sample index.
// Any violation rejects the batch in full.
func ValidateBatch(batch []RawSample, maxSize int) ValidationResult {
	if len(batch) == 0 {
		return ValidationResult{Errors: []string{"batch is empty"}}
	}
	if len(batch) > maxSize {
		return ValidationResult{Errors: []string{
			fmt.Sprintf("batch size %d exceeds maximum of %d", len(batch), maxSize),
		}}
	}
	var errs []string
	add := func(i int, msg string) {
		errs = append(errs, fmt.Sprintf("sample %d: %s", i, msg))
	}
	for i, s := range batch {
		if s.ClientID == "" {
			add(i, "client_id is required")
		}
		if s.EmployeeID == 0 {
			add(i, "employee_id is required")
		}
		if s.Latitude == nil {
			add(i, "latitude is required")
		} else if s.Latitude.LessThan(latMin) || s.Latitude.GreaterThan(latMax) {
			add(i, "latitude must be between -90 and 90")
		}
		if s.Longitude == nil {
			add(i, "longitude is required")
		} else if s.Longitude.LessThan(lngMin) || s.Longitude.GreaterThan(lngMax) {
			add(i, "longitude must be between -180 and 180")
		}
		if s.AccuracyMeters == nil {
			add(i, "accuracy_meters is required")
		} else if *s.AccuracyMeters < 0 {
			add(i, "accuracy_meters must not be negative")
		}
		if s.BatteryPercent != nil && (*s.BatteryPercent < 0 || *s.BatteryPercent > 100) {
			add(i, "battery_percent must be between 0 and 100")
		}
		if s.TimestampUTC == "" {
			add(i, "timestamp_utc is required")
		} else if _, err := time.Parse(time.RFC3339, s.TimestampUTC); err != nil {
			add(i, "timestamp_utc is not a valid RFC3339 instant")
		}
	}
	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

// payload converts a validated raw sample. Must only be called after
// ValidateBatch accepted the batch.
func (s RawSample) payload() models.SamplePayload {
	ts, _ := time.Parse(time.RFC3339, s.TimestampUTC)
	return models.SamplePayload{
		ClientID:       s.ClientID,
		EmployeeID:     s.EmployeeID,
		Latitude:       *s.Latitude,
		Longitude:      *s.Longitude,
		AccuracyMeters: *s.AccuracyMeters,
		TimestampUTC:   ts.UTC(),
		BatteryPercent: s.BatteryPercent,
		Speed:          s.Speed,
		Heading:        s.Heading,
	}
}
