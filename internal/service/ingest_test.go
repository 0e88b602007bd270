package service_test

import (
	"errors"
	"testing"
	"time"

	"shiftsync/internal/domain"
	"shiftsync/internal/repository"
	"shiftsync/internal/service"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newIngest(t *testing.T) (*service.IngestService, *fakeSampleStore, *fakeConflictStore) {
	t.Helper()
	samples := newFakeSampleStore()
	conflicts := newFakeConflictStore(samples)
	svc := service.NewIngestService(samples, conflicts, 5*time.Second, domain.MaxBatchSize, zap.NewNop())
	return svc, samples, conflicts
}

func TestProcessBatch_ValidationFailureWritesNothing(t *testing.T) {
	svc, samples, _ := newIngest(t)
	bad := validSample("a", 1, time.Now())
	bad.ClientID = ""

	result, err := svc.ProcessBatch([]service.RawSample{bad})
	require.ErrorIs(t, err, service.ErrInvalidBatch)
	require.NotEmpty(t, result.Errors)
	require.Zero(t, result.Created)
	require.Empty(t, samples.samples)
}

func TestProcessBatch_FreshSamplesPersisted(t *testing.T) {
	svc, samples, _ := newIngest(t)
	base := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	batch := []service.RawSample{
		validSample("a", 7, base),
		validSample("b", 7, base.Add(time.Minute)),
	}

	result, err := svc.ProcessBatch(batch)
	require.NoError(t, err)
	require.Equal(t, 2, result.Created)
	require.Zero(t, result.Duplicates)
	require.Zero(t, result.Conflicts)
	require.Equal(t, 2, result.Total)
	require.NotEmpty(t, result.BatchID)
	require.Len(t, samples.samples, 2)
	require.False(t, samples.samples[0].SyncedAt.IsZero())
}

func TestProcessBatch_ResubmissionIsIdempotent(t *testing.T) {
	svc, samples, _ := newIngest(t)
	base := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	batch := []service.RawSample{
		validSample("a", 7, base),
		validSample("b", 7, base.Add(time.Minute)),
		validSample("c", 7, base.Add(2*time.Minute)),
	}

	first, err := svc.ProcessBatch(batch)
	require.NoError(t, err)
	require.Equal(t, 3, first.Created)

	second, err := svc.ProcessBatch(batch)
	require.NoError(t, err)
	require.Zero(t, second.Created)
	require.Equal(t, 3, second.Duplicates)
	require.Zero(t, second.Conflicts)
	require.Len(t, samples.samples, 3, "no growth on re-submission")
}

func TestProcessBatch_CollisionWindow(t *testing.T) {
	base := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)

	t.Run("inside window conflicts", func(t *testing.T) {
		svc, samples, conflicts := newIngest(t)
		_, err := svc.ProcessBatch([]service.RawSample{validSample("a", 7, base)})
		require.NoError(t, err)

		result, err := svc.ProcessBatch([]service.RawSample{validSample("b", 7, base.Add(4*time.Second))})
		require.NoError(t, err)
		require.Zero(t, result.Created)
		require.Equal(t, 1, result.Conflicts)
		require.Len(t, samples.samples, 1, "colliding sample is parked, not persisted")

		pending, err := conflicts.ListPendingByEmployee(7)
		require.NoError(t, err)
		require.Len(t, pending, 1)
		client, err := pending[0].ClientPayload()
		require.NoError(t, err)
		require.Equal(t, "b", client.ClientID)
		server, err := pending[0].ServerPayload()
		require.NoError(t, err)
		require.Equal(t, "a", server.ClientID)
	})

	t.Run("outside window inserts", func(t *testing.T) {
		svc, samples, _ := newIngest(t)
		_, err := svc.ProcessBatch([]service.RawSample{validSample("a", 7, base)})
		require.NoError(t, err)

		result, err := svc.ProcessBatch([]service.RawSample{validSample("b", 7, base.Add(6*time.Second))})
		require.NoError(t, err)
		require.Equal(t, 1, result.Created)
		require.Zero(t, result.Conflicts)
		require.Len(t, samples.samples, 2)
	})

	t.Run("other employees never collide", func(t *testing.T) {
		svc, _, _ := newIngest(t)
		_, err := svc.ProcessBatch([]service.RawSample{validSample("a", 7, base)})
		require.NoError(t, err)

		result, err := svc.ProcessBatch([]service.RawSample{validSample("b", 8, base.Add(time.Second))})
		require.NoError(t, err)
		require.Equal(t, 1, result.Created)
		require.Zero(t, result.Conflicts)
	})
}

func TestProcessBatch_MixedBatchScenario(t *testing.T) {
	// One batch for employee E: A fresh, B collides with A, C re-sends A's
	// client id.
	svc, samples, _ := newIngest(t)
	base := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	batch := []service.RawSample{
		validSample("a", 7, base),
		validSample("b", 7, base.Add(3*time.Second)),
		validSample("a", 7, base),
	}

	result, err := svc.ProcessBatch(batch)
	require.NoError(t, err)
	require.Equal(t, 1, result.Created)
	require.Equal(t, 1, result.Duplicates)
	require.Equal(t, 1, result.Conflicts)
	require.Equal(t, 3, result.Total)
	require.Len(t, samples.samples, 1, "A inserted, B parked, C dropped")
}

func TestProcessBatch_PerSampleFailureSkipsOnlyThatSample(t *testing.T) {
	svc, samples, _ := newIngest(t)
	samples.insertErr["b"] = errors.New("connection reset")
	base := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	batch := []service.RawSample{
		validSample("a", 7, base),
		validSample("b", 7, base.Add(time.Minute)),
		validSample("c", 7, base.Add(2*time.Minute)),
	}

	result, err := svc.ProcessBatch(batch)
	require.NoError(t, err, "a single sample's failure never fails the batch")
	require.Equal(t, 2, result.Created)
	require.Len(t, result.Errors, 1)
	require.Contains(t, result.Errors[0], "sample 1:")
	require.Equal(t, result.Total,
		result.Created+result.Duplicates+result.Conflicts+len(result.Errors))
}

func TestProcessBatch_DuplicateInsertRaceCountsAsDuplicate(t *testing.T) {
	// The filter saw nothing, but the insert loses a race with a concurrent
	// retry: the unique-index error folds into the duplicate count.
	svc, samples, _ := newIngest(t)
	samples.insertErr["a"] = repository.ErrDuplicateClientID
	base := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)

	result, err := svc.ProcessBatch([]service.RawSample{validSample("a", 7, base)})
	require.NoError(t, err)
	require.Equal(t, 1, result.Duplicates)
	require.Zero(t, result.Created)
	require.Empty(t, result.Errors)
}

func TestStatus(t *testing.T) {
	svc, _, _ := newIngest(t)
	base := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	_, err := svc.ProcessBatch([]service.RawSample{
		validSample("a", 7, base),
		validSample("b", 7, base.Add(3*time.Second)), // parked as conflict
		validSample("c", 7, base.Add(time.Minute)),
	})
	require.NoError(t, err)

	status, err := svc.Status(7)
	require.NoError(t, err)
	require.EqualValues(t, 1, status.PendingConflicts)
	require.EqualValues(t, 2, status.TotalPoints)
	require.NotNil(t, status.LastSyncedAt)

	empty, err := svc.Status(99)
	require.NoError(t, err)
	require.Zero(t, empty.PendingConflicts)
	require.Zero(t, empty.TotalPoints)
	require.Nil(t, empty.LastSyncedAt)
}
