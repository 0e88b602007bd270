package service

import (
	"errors"
	"fmt"
	"time"

	"shiftsync/internal/domain"
	"shiftsync/internal/models"
	"shiftsync/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrInvalidBatch marks a batch rejected by validation; the BatchResult
// carries the itemized messages and nothing was persisted.
var ErrInvalidBatch = errors.New("batch failed validation")

// BatchResult summarizes one processed upload. After validation passes,
// Created + Duplicates + Conflicts + len(Errors) == Total.
type BatchResult struct {
	BatchID    string   `json:"batch_id"`
	Created    int      `json:"created"`
	Duplicates int      `json:"duplicates"`
	Conflicts  int      `json:"conflicts"`
	Total      int      `json:"total"`
	Errors     []string `json:"errors,omitempty"`
}

type SyncStatus struct {
	PendingConflicts int64      `json:"pending_conflicts"`
	LastSyncedAt     *time.Time `json:"last_synced_at"`
	TotalPoints      int64      `json:"total_points"`
}

// IngestService runs the offline-upload pipeline: validate, drop already
// synced fixes, detect temporal collisions, persist the rest. Processing is
// request-scoped and stateless; concurrent batches for the same employee can
// in principle each miss the other's not-yet-persisted samples, so collision
// detection is best-effort rather than serializable. The unique client-id
// index keeps retries safe regardless.
type IngestService struct {
	samples   SampleStore
	conflicts ConflictStore
	window    time.Duration
	maxBatch  int
	log       *zap.Logger
	now       func() time.Time
}

func NewIngestService(samples SampleStore, conflicts ConflictStore, window time.Duration, maxBatch int, log *zap.Logger) *IngestService {
	return &IngestService{
		samples:   samples,
		conflicts: conflicts,
		window:    window,
		maxBatch:  maxBatch,
		log:       log,
		now:       time.Now,
	}
}

type batchKey struct {
	employeeID uint
	clientID   string
}

// ProcessBatch ingests one upload. Validation failure aborts before any
// write and returns ErrInvalidBatch; after that, samples are processed in
// input order and a single sample's failure never aborts its siblings.
func (s *IngestService) ProcessBatch(batch []RawSample) (BatchResult, error) {
	result := BatchResult{BatchID: uuid.NewString(), Total: len(batch)}

	if vr := ValidateBatch(batch, s.maxBatch); !vr.Valid {
		result.Errors = vr.Errors
		return result, ErrInvalidBatch
	}

	known, err := s.knownClientIDs(batch)
	if err != nil {
		return result, err
	}

	seen := make(map[batchKey]struct{}, len(batch))
	for i, raw := range batch {
		key := batchKey{raw.EmployeeID, raw.ClientID}
		if _, dup := known[key]; dup {
			result.Duplicates++
			continue
		}
		if _, dup := seen[key]; dup {
			result.Duplicates++
			continue
		}
		seen[key] = struct{}{}

		p := raw.payload()
		collision, err := s.detect(p)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("sample %d: %v", i, err))
			continue
		}
		if collision != nil {
			if err := s.createConflict(p, collision); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("sample %d: %v", i, err))
				continue
			}
			result.Conflicts++
			continue
		}

		sample := p.ToSample()
		sample.SyncedAt = s.now().UTC()
		switch err := s.samples.Insert(sample); {
		case err == nil:
			result.Created++
		case errors.Is(err, repository.ErrDuplicateClientID):
			// Lost an insert race with a concurrent retry; converged anyway.
			result.Duplicates++
		default:
			result.Errors = append(result.Errors, fmt.Sprintf("sample %d: %v", i, err))
		}
	}

	s.log.Info("batch processed",
		zap.String("batch_id", result.BatchID),
		zap.Int("total", result.Total),
		zap.Int("created", result.Created),
		zap.Int("duplicates", result.Duplicates),
		zap.Int("conflicts", result.Conflicts),
		zap.Int("failed", len(result.Errors)),
	)
	return result, nil
}

// knownClientIDs runs the idempotency check: one IN query per employee in
// the batch (normally exactly one) against already-persisted samples.
func (s *IngestService) knownClientIDs(batch []RawSample) (map[batchKey]struct{}, error) {
	byEmployee := make(map[uint][]string)
	for _, raw := range batch {
		byEmployee[raw.EmployeeID] = append(byEmployee[raw.EmployeeID], raw.ClientID)
	}
	known := make(map[batchKey]struct{})
	for employeeID, ids := range byEmployee {
		existing, err := s.samples.ExistingClientIDs(employeeID, ids)
		if err != nil {
			return nil, err
		}
		for id := range existing {
			known[batchKey{employeeID, id}] = struct{}{}
		}
	}
	return known, nil
}

// detect returns the first persisted sample for the same employee within the
// symmetric collision window around the incoming timestamp. Rows with the
// same client id are excluded; the idempotency filter already dropped them.
func (s *IngestService) detect(p models.SamplePayload) (*models.LocationSample, error) {
	from := p.TimestampUTC.Add(-s.window)
	to := p.TimestampUTC.Add(s.window)
	return s.samples.FindOverlapping(p.EmployeeID, from, to, p.ClientID)
}

func (s *IngestService) createConflict(incoming models.SamplePayload, server *models.LocationSample) error {
	c := &models.LocationConflict{
		EmployeeID: incoming.EmployeeID,
		Status:     domain.ConflictStatusPending,
	}
	if err := c.SetClientPayload(incoming); err != nil {
		return err
	}
	if err := c.SetServerPayload(models.PayloadFromSample(server)); err != nil {
		return err
	}
	return s.conflicts.Create(c)
}

// Status reports an employee's sync state for the mobile client.
func (s *IngestService) Status(employeeID uint) (SyncStatus, error) {
	pending, err := s.conflicts.CountPendingByEmployee(employeeID)
	if err != nil {
		return SyncStatus{}, err
	}
	total, err := s.samples.CountByEmployee(employeeID)
	if err != nil {
		return SyncStatus{}, err
	}
	last, err := s.samples.LastSyncedAt(employeeID)
	if err != nil {
		return SyncStatus{}, err
	}
	return SyncStatus{PendingConflicts: pending, LastSyncedAt: last, TotalPoints: total}, nil
}
