package service

import (
	"time"

	"shiftsync/internal/models"
)

// Store interfaces consumed by the services. The GORM repositories in
// internal/repository implement them; tests substitute in-memory fakes.

type SampleStore interface {
	// Insert must fail with repository.ErrDuplicateClientID when the
	// (employee, client id) pair already exists.
	Insert(s *models.LocationSample) error
	ExistingClientIDs(employeeID uint, clientIDs []string) (map[string]struct{}, error)
	FindOverlapping(employeeID uint, from, to time.Time, excludeClientID string) (*models.LocationSample, error)
	CountByEmployee(employeeID uint) (int64, error)
	LastSyncedAt(employeeID uint) (*time.Time, error)
}

type ConflictStore interface {
	Create(c *models.LocationConflict) error
	GetByID(id uint) (*models.LocationConflict, error)
	ListPendingByEmployee(employeeID uint) ([]models.LocationConflict, error)
	CountPendingByEmployee(employeeID uint) (int64, error)
	// Resolve atomically claims a PENDING conflict and persists the winning
	// sample; it reports false, without writing, when the conflict is
	// already terminal.
	Resolve(id uint, winner *models.LocationSample, at time.Time) (bool, error)
	Reject(id uint, at time.Time) (bool, error)
}

type ZoneStore interface {
	FindActiveByEmployee(employeeID uint) ([]models.Geofence, error)
	FindActiveByProfile(profileID uint) ([]models.Geofence, error)
}

type EmployeeStore interface {
	GetByID(id uint) (*models.User, error)
}
