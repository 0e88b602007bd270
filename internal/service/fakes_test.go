package service_test

import (
	"time"

	"shiftsync/internal/domain"
	"shiftsync/internal/models"
	"shiftsync/internal/repository"

	"gorm.io/gorm"
)

// In-memory stand-ins for the GORM repositories. They mirror the repository
// contracts the services rely on: the unique (employee, client id) pair on
// insert, gorm.ErrRecordNotFound for missing rows, and the conditional
// claim inside Resolve/Reject.

type fakeSampleStore struct {
	samples   []*models.LocationSample
	nextID    uint
	insertErr map[string]error // clientID -> injected failure
}

func newFakeSampleStore() *fakeSampleStore {
	return &fakeSampleStore{insertErr: make(map[string]error)}
}

func (f *fakeSampleStore) Insert(s *models.LocationSample) error {
	if err := f.insertErr[s.ClientID]; err != nil {
		return err
	}
	for _, e := range f.samples {
		if e.EmployeeID == s.EmployeeID && e.ClientID == s.ClientID {
			return repository.ErrDuplicateClientID
		}
	}
	f.nextID++
	s.ID = f.nextID
	cp := *s
	f.samples = append(f.samples, &cp)
	return nil
}

func (f *fakeSampleStore) ExistingClientIDs(employeeID uint, clientIDs []string) (map[string]struct{}, error) {
	set := make(map[string]struct{})
	for _, e := range f.samples {
		if e.EmployeeID != employeeID {
			continue
		}
		for _, id := range clientIDs {
			if e.ClientID == id {
				set[id] = struct{}{}
			}
		}
	}
	return set, nil
}

func (f *fakeSampleStore) FindOverlapping(employeeID uint, from, to time.Time, excludeClientID string) (*models.LocationSample, error) {
	var found *models.LocationSample
	for _, e := range f.samples {
		if e.EmployeeID != employeeID || e.ClientID == excludeClientID {
			continue
		}
		if e.TimestampUTC.Before(from) || e.TimestampUTC.After(to) {
			continue
		}
		if found == nil || e.TimestampUTC.Before(found.TimestampUTC) {
			found = e
		}
	}
	if found == nil {
		return nil, nil
	}
	cp := *found
	return &cp, nil
}

func (f *fakeSampleStore) CountByEmployee(employeeID uint) (int64, error) {
	var c int64
	for _, e := range f.samples {
		if e.EmployeeID == employeeID {
			c++
		}
	}
	return c, nil
}

func (f *fakeSampleStore) LastSyncedAt(employeeID uint) (*time.Time, error) {
	var last *time.Time
	for _, e := range f.samples {
		if e.EmployeeID != employeeID {
			continue
		}
		if last == nil || e.SyncedAt.After(*last) {
			t := e.SyncedAt
			last = &t
		}
	}
	return last, nil
}

func (f *fakeSampleStore) find(employeeID uint, clientID string) *models.LocationSample {
	for _, e := range f.samples {
		if e.EmployeeID == employeeID && e.ClientID == clientID {
			return e
		}
	}
	return nil
}

type fakeConflictStore struct {
	conflicts map[uint]*models.LocationConflict
	nextID    uint
	samples   *fakeSampleStore
}

func newFakeConflictStore(samples *fakeSampleStore) *fakeConflictStore {
	return &fakeConflictStore{conflicts: make(map[uint]*models.LocationConflict), samples: samples}
}

func (f *fakeConflictStore) Create(c *models.LocationConflict) error {
	f.nextID++
	c.ID = f.nextID
	c.CreatedAt = time.Now()
	cp := *c
	f.conflicts[c.ID] = &cp
	return nil
}

func (f *fakeConflictStore) GetByID(id uint) (*models.LocationConflict, error) {
	c, ok := f.conflicts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeConflictStore) ListPendingByEmployee(employeeID uint) ([]models.LocationConflict, error) {
	var list []models.LocationConflict
	for _, c := range f.conflicts {
		if c.EmployeeID == employeeID && c.Status == domain.ConflictStatusPending {
			list = append(list, *c)
		}
	}
	return list, nil
}

func (f *fakeConflictStore) CountPendingByEmployee(employeeID uint) (int64, error) {
	list, _ := f.ListPendingByEmployee(employeeID)
	return int64(len(list)), nil
}

func (f *fakeConflictStore) Resolve(id uint, winner *models.LocationSample, at time.Time) (bool, error) {
	c, ok := f.conflicts[id]
	if !ok || c.Status != domain.ConflictStatusPending {
		return false, nil
	}
	if err := f.samples.Insert(winner); err != nil {
		if err != repository.ErrDuplicateClientID {
			return false, err
		}
		// Server-snapshot resolution: the winning row already exists.
		*winner = *f.samples.find(winner.EmployeeID, winner.ClientID)
	}
	c.Status = domain.ConflictStatusResolved
	c.ResolvedAt = &at
	sampleID := winner.ID
	c.ResolvedSampleID = &sampleID
	return true, nil
}

func (f *fakeConflictStore) Reject(id uint, at time.Time) (bool, error) {
	c, ok := f.conflicts[id]
	if !ok || c.Status != domain.ConflictStatusPending {
		return false, nil
	}
	c.Status = domain.ConflictStatusRejected
	c.ResolvedAt = &at
	return true, nil
}

type fakeZoneStore struct {
	zones []models.Geofence
}

func (f *fakeZoneStore) FindActiveByEmployee(employeeID uint) ([]models.Geofence, error) {
	var list []models.Geofence
	for _, z := range f.zones {
		if z.IsActive && z.EmployeeID != nil && *z.EmployeeID == employeeID {
			list = append(list, z)
		}
	}
	return list, nil
}

func (f *fakeZoneStore) FindActiveByProfile(profileID uint) ([]models.Geofence, error) {
	var list []models.Geofence
	for _, z := range f.zones {
		if z.IsActive && z.SharedProfileID != nil && *z.SharedProfileID == profileID {
			list = append(list, z)
		}
	}
	return list, nil
}

type fakeUserStore struct {
	users map[uint]*models.User
}

func (f *fakeUserStore) GetByID(id uint) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}
