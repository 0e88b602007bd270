package repository

import (
	"errors"
	"time"

	"shiftsync/internal/models"

	"gorm.io/gorm"
)

// ErrDuplicateClientID is returned when an insert hits the unique
// (employee_id, client_id) index. The pipeline folds this into the
// duplicate count; it is the backstop behind the idempotency filter.
var ErrDuplicateClientID = errors.New("client id already synced")

type SampleRepository struct {
	db *gorm.DB
}

func NewSampleRepository(db *gorm.DB) *SampleRepository {
	return &SampleRepository{db: db}
}

func (r *SampleRepository) Insert(s *models.LocationSample) error {
	if err := r.db.Create(s).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateClientID
		}
		return err
	}
	return nil
}

// ExistingClientIDs returns which of the given client ids are already
// persisted for the employee. One IN query per batch; the batch size cap
// bounds the clause.
func (r *SampleRepository) ExistingClientIDs(employeeID uint, clientIDs []string) (map[string]struct{}, error) {
	if len(clientIDs) == 0 {
		return map[string]struct{}{}, nil
	}
	var known []string
	err := r.db.Model(&models.LocationSample{}).
		Where("employee_id = ? AND client_id IN ?", employeeID, clientIDs).
		Pluck("client_id", &known).Error
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(known))
	for _, id := range known {
		set[id] = struct{}{}
	}
	return set, nil
}

// FindOverlapping returns the first persisted sample for the employee whose
// timestamp falls in [from, to], excluding the given client id. First match
// only; the detector wants at-least-one collision, not an enumeration.
func (r *SampleRepository) FindOverlapping(employeeID uint, from, to time.Time, excludeClientID string) (*models.LocationSample, error) {
	var s models.LocationSample
	err := r.db.
		Where("employee_id = ? AND timestamp_utc BETWEEN ? AND ? AND client_id <> ?",
			employeeID, from, to, excludeClientID).
		Order("timestamp_utc").
		First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SampleRepository) CountByEmployee(employeeID uint) (int64, error) {
	var c int64
	err := r.db.Model(&models.LocationSample{}).Where("employee_id = ?", employeeID).Count(&c).Error
	return c, err
}

// LastSyncedAt returns the most recent server receipt time for the employee,
// or nil when nothing has been synced yet.
func (r *SampleRepository) LastSyncedAt(employeeID uint) (*time.Time, error) {
	var s models.LocationSample
	err := r.db.Where("employee_id = ?", employeeID).
		Order("synced_at DESC").
		First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s.SyncedAt, nil
}
