package service_test

import (
	"fmt"
	"testing"
	"time"

	"shiftsync/internal/domain"
	"shiftsync/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func validSample(clientID string, employeeID uint, ts time.Time) service.RawSample {
	lat := decimal.NewFromFloat(-1.2921)
	lng := decimal.NewFromFloat(36.8219)
	acc := 8.5
	return service.RawSample{
		ClientID:       clientID,
		EmployeeID:     employeeID,
		Latitude:       &lat,
		Longitude:      &lng,
		AccuracyMeters: &acc,
		TimestampUTC:   ts.UTC().Format(time.RFC3339),
	}
}

func TestValidateBatch_EmptyBatch(t *testing.T) {
	vr := service.ValidateBatch(nil, domain.MaxBatchSize)
	require.False(t, vr.Valid)
	require.Equal(t, []string{"batch is empty"}, vr.Errors)
}

func TestValidateBatch_OversizedBatch(t *testing.T) {
	batch := make([]service.RawSample, 101)
	for i := range batch {
		batch[i] = validSample(fmt.Sprintf("c-%d", i), 1, time.Now().Add(time.Duration(i)*time.Minute))
	}
	vr := service.ValidateBatch(batch, domain.MaxBatchSize)
	require.False(t, vr.Valid)
	require.Len(t, vr.Errors, 1)
	require.Contains(t, vr.Errors[0], "exceeds maximum of 100")
}

func TestValidateBatch_FullBatchIsValid(t *testing.T) {
	batch := make([]service.RawSample, 100)
	for i := range batch {
		batch[i] = validSample(fmt.Sprintf("c-%d", i), 1, time.Now().Add(time.Duration(i)*time.Minute))
	}
	vr := service.ValidateBatch(batch, domain.MaxBatchSize)
	require.True(t, vr.Valid)
	require.Empty(t, vr.Errors)
}

func TestValidateBatch_LatitudeOutOfRange(t *testing.T) {
	good := validSample("a", 1, time.Now())
	bad := validSample("b", 1, time.Now().Add(time.Minute))
	lat := decimal.NewFromInt(95)
	bad.Latitude = &lat

	vr := service.ValidateBatch([]service.RawSample{good, bad}, domain.MaxBatchSize)
	require.False(t, vr.Valid)
	require.Len(t, vr.Errors, 1)
	require.Contains(t, vr.Errors[0], "sample 1:")
	require.Contains(t, vr.Errors[0], "latitude")
}

func TestValidateBatch_BoundaryValuesAccepted(t *testing.T) {
	s := validSample("edge", 1, time.Now())
	lat := decimal.NewFromInt(-90)
	lng := decimal.NewFromInt(180)
	acc := 0.0
	battery := 100.0
	s.Latitude = &lat
	s.Longitude = &lng
	s.AccuracyMeters = &acc
	s.BatteryPercent = &battery

	vr := service.ValidateBatch([]service.RawSample{s}, domain.MaxBatchSize)
	require.True(t, vr.Valid)
}

func TestValidateBatch_CollectsAllViolations(t *testing.T) {
	s := service.RawSample{TimestampUTC: "not-a-timestamp"}
	battery := 120.0
	s.BatteryPercent = &battery

	vr := service.ValidateBatch([]service.RawSample{s}, domain.MaxBatchSize)
	require.False(t, vr.Valid)
	// client_id, employee_id, latitude, longitude, accuracy, battery, timestamp
	require.Len(t, vr.Errors, 7)
	for _, e := range vr.Errors {
		require.Contains(t, e, "sample 0:")
	}
}

func TestValidateBatch_NegativeAccuracyRejected(t *testing.T) {
	s := validSample("a", 1, time.Now())
	acc := -1.0
	s.AccuracyMeters = &acc
	vr := service.ValidateBatch([]service.RawSample{s}, domain.MaxBatchSize)
	require.False(t, vr.Valid)
	require.Len(t, vr.Errors, 1)
	require.Contains(t, vr.Errors[0], "accuracy_meters")
}
