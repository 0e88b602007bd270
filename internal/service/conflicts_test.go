package service_test

import (
	"testing"
	"time"

	"shiftsync/internal/domain"
	"shiftsync/internal/models"
	"shiftsync/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// seedConflict ingests a colliding pair and returns the pending conflict.
func seedConflict(t *testing.T) (*service.ConflictService, *fakeSampleStore, *fakeConflictStore, models.LocationConflict) {
	t.Helper()
	samples := newFakeSampleStore()
	conflicts := newFakeConflictStore(samples)
	ingest := service.NewIngestService(samples, conflicts, 5*time.Second, domain.MaxBatchSize, zap.NewNop())

	base := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	_, err := ingest.ProcessBatch([]service.RawSample{validSample("server-fix", 7, base)})
	require.NoError(t, err)
	_, err = ingest.ProcessBatch([]service.RawSample{validSample("client-fix", 7, base.Add(2*time.Second))})
	require.NoError(t, err)

	pending, err := conflicts.ListPendingByEmployee(7)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	return service.NewConflictService(conflicts, zap.NewNop()), samples, conflicts, pending[0]
}

func TestResolve_ClientChoicePersistsClientPayload(t *testing.T) {
	svc, samples, conflicts, pending := seedConflict(t)

	sample, err := svc.Resolve(pending.ID, domain.ResolutionClient, nil)
	require.NoError(t, err)
	require.Equal(t, "client-fix", sample.ClientID)
	require.EqualValues(t, 7, sample.EmployeeID)
	require.False(t, sample.SyncedAt.IsZero())
	require.Len(t, samples.samples, 2, "winning payload materialized as a new sample")

	settled, err := conflicts.GetByID(pending.ID)
	require.NoError(t, err)
	require.Equal(t, domain.ConflictStatusResolved, settled.Status)
	require.NotNil(t, settled.ResolvedAt)
	require.NotNil(t, settled.ResolvedSampleID)
	require.Equal(t, sample.ID, *settled.ResolvedSampleID)
}

func TestResolve_SecondAttemptFails(t *testing.T) {
	svc, samples, _, pending := seedConflict(t)

	_, err := svc.Resolve(pending.ID, domain.ResolutionClient, nil)
	require.NoError(t, err)

	_, err = svc.Resolve(pending.ID, domain.ResolutionClient, nil)
	require.ErrorIs(t, err, service.ErrConflictNotFound)
	require.Len(t, samples.samples, 2, "no second sample from double resolution")
}

func TestResolve_ServerChoiceReusesServerRow(t *testing.T) {
	svc, samples, conflicts, pending := seedConflict(t)

	sample, err := svc.Resolve(pending.ID, domain.ResolutionServer, nil)
	require.NoError(t, err)
	require.Equal(t, "server-fix", sample.ClientID)
	require.Len(t, samples.samples, 1, "server row already existed; nothing new inserted")

	settled, err := conflicts.GetByID(pending.ID)
	require.NoError(t, err)
	require.Equal(t, domain.ConflictStatusResolved, settled.Status)
	require.Equal(t, sample.ID, *settled.ResolvedSampleID)
}

func TestResolve_ManualChoice(t *testing.T) {
	svc, samples, _, pending := seedConflict(t)

	t.Run("without payload fails", func(t *testing.T) {
		_, err := svc.Resolve(pending.ID, domain.ResolutionManual, nil)
		require.ErrorIs(t, err, service.ErrManualDataRequired)
		require.Len(t, samples.samples, 1)
	})

	t.Run("with payload persists it", func(t *testing.T) {
		manual := &models.SamplePayload{
			ClientID:       "manual-fix",
			Latitude:       decimal.NewFromFloat(-1.30),
			Longitude:      decimal.NewFromFloat(36.80),
			AccuracyMeters: 4,
			TimestampUTC:   time.Date(2026, 8, 24, 12, 0, 1, 0, time.UTC),
		}
		sample, err := svc.Resolve(pending.ID, domain.ResolutionManual, manual)
		require.NoError(t, err)
		require.Equal(t, "manual-fix", sample.ClientID)
		require.EqualValues(t, 7, sample.EmployeeID, "employee inherited from the conflict")
	})
}

func TestResolve_InvalidChoice(t *testing.T) {
	svc, _, _, pending := seedConflict(t)
	_, err := svc.Resolve(pending.ID, "COIN_FLIP", nil)
	require.ErrorIs(t, err, service.ErrInvalidResolution)
}

func TestResolve_MissingConflict(t *testing.T) {
	svc, _, _, _ := seedConflict(t)
	_, err := svc.Resolve(9999, domain.ResolutionClient, nil)
	require.ErrorIs(t, err, service.ErrConflictNotFound)
}

func TestReject(t *testing.T) {
	svc, samples, conflicts, pending := seedConflict(t)

	require.NoError(t, svc.Reject(pending.ID))
	require.Len(t, samples.samples, 1, "rejection materializes nothing")

	settled, err := conflicts.GetByID(pending.ID)
	require.NoError(t, err)
	require.Equal(t, domain.ConflictStatusRejected, settled.Status)
	require.NotNil(t, settled.ResolvedAt)

	require.ErrorIs(t, svc.Reject(pending.ID), service.ErrConflictNotFound)
	require.ErrorIs(t, svc.Reject(9999), service.ErrConflictNotFound)
}

func TestListPending(t *testing.T) {
	svc, _, _, pending := seedConflict(t)

	list, err := svc.ListPending(7)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, pending.ID, list[0].ID)

	require.NoError(t, svc.Reject(pending.ID))
	list, err = svc.ListPending(7)
	require.NoError(t, err)
	require.Empty(t, list)
}
