package service

import (
	"errors"
	"time"

	"shiftsync/internal/domain"
	"shiftsync/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// ErrConflictNotFound covers both a missing id and an already-terminal
	// conflict: resolution is deliberately not idempotent, a second attempt
	// must error rather than silently succeed.
	ErrConflictNotFound   = errors.New("conflict not found or already settled")
	ErrManualDataRequired = errors.New("manual resolution requires manual_data")
	ErrInvalidResolution  = errors.New("invalid resolution choice")
)

// ConflictService drives the PENDING -> RESOLVED | REJECTED workflow. The
// store's conditional update is the concurrency guard: two concurrent calls
// on the same conflict cannot both materialize a winning sample.
type ConflictService struct {
	conflicts ConflictStore
	log       *zap.Logger
	now       func() time.Time
}

func NewConflictService(conflicts ConflictStore, log *zap.Logger) *ConflictService {
	return &ConflictService{conflicts: conflicts, log: log, now: time.Now}
}

func (s *ConflictService) ListPending(employeeID uint) ([]models.LocationConflict, error) {
	return s.conflicts.ListPendingByEmployee(employeeID)
}

// Resolve settles a PENDING conflict: the chosen payload is persisted as a
// new sample (server-assigned SyncedAt) and the conflict flips to RESOLVED.
// The returned sample is the materialized winner.
func (s *ConflictService) Resolve(id uint, choice string, manual *models.SamplePayload) (*models.LocationSample, error) {
	c, err := s.get(id)
	if err != nil {
		return nil, err
	}

	var winning models.SamplePayload
	switch choice {
	case domain.ResolutionClient:
		winning, err = c.ClientPayload()
	case domain.ResolutionServer:
		winning, err = c.ServerPayload()
	case domain.ResolutionManual:
		if manual == nil || manual.ClientID == "" {
			return nil, ErrManualDataRequired
		}
		winning = *manual
		if winning.EmployeeID == 0 {
			winning.EmployeeID = c.EmployeeID
		}
	default:
		return nil, ErrInvalidResolution
	}
	if err != nil {
		return nil, err
	}

	winner := winning.ToSample()
	winner.SyncedAt = s.now().UTC()
	ok, err := s.conflicts.Resolve(id, winner, s.now().UTC())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrConflictNotFound
	}
	s.log.Info("conflict resolved",
		zap.Uint("conflict_id", id),
		zap.String("choice", choice),
		zap.Uint("sample_id", winner.ID),
	)
	return winner, nil
}

// Reject settles a PENDING conflict without materializing a sample.
func (s *ConflictService) Reject(id uint) error {
	if _, err := s.get(id); err != nil {
		return err
	}
	ok, err := s.conflicts.Reject(id, s.now().UTC())
	if err != nil {
		return err
	}
	if !ok {
		return ErrConflictNotFound
	}
	s.log.Info("conflict rejected", zap.Uint("conflict_id", id))
	return nil
}

func (s *ConflictService) get(id uint) (*models.LocationConflict, error) {
	c, err := s.conflicts.GetByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrConflictNotFound
	}
	if err != nil {
		return nil, err
	}
	if c.Status != domain.ConflictStatusPending {
		return nil, ErrConflictNotFound
	}
	return c, nil
}
