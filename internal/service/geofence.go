package service

import (
	"shiftsync/pkg/geo"
)

// ZoneMatch is one containment hit for a live coordinate.
type ZoneMatch struct {
	ID             uint    `json:"id"`
	Name           string  `json:"name"`
	TaskType       string  `json:"task_type"`
	DistanceMeters float64 `json:"distance_meters"`
}

// GeofenceService answers which of an employee's active zones contain a
// point. Zones come from the union of the employee's own zones and the
// zones of the employee's shared profile, if any.
type GeofenceService struct {
	zones ZoneStore
	users EmployeeStore
}

func NewGeofenceService(zones ZoneStore, users EmployeeStore) *GeofenceService {
	return &GeofenceService{zones: zones, users: users}
}

// Matches returns every qualifying zone exactly once, in no particular
// order. A zone qualifies when the haversine distance from its center to
// the point is at most its radius — a point exactly on the boundary is
// inside. An employee with no zones and no profile gets an empty set.
func (s *GeofenceService) Matches(employeeID uint, lat, lng float64) ([]ZoneMatch, error) {
	employee, err := s.users.GetByID(employeeID)
	if err != nil {
		return nil, err
	}

	zones, err := s.zones.FindActiveByEmployee(employeeID)
	if err != nil {
		return nil, err
	}
	if employee.SharedProfileID != nil {
		inherited, err := s.zones.FindActiveByProfile(*employee.SharedProfileID)
		if err != nil {
			return nil, err
		}
		zones = append(zones, inherited...)
	}

	matches := make([]ZoneMatch, 0, len(zones))
	for _, z := range zones {
		d := geo.DistanceMeters(
			z.Latitude.InexactFloat64(), z.Longitude.InexactFloat64(),
			lat, lng,
		)
		if d <= z.RadiusMeters {
			matches = append(matches, ZoneMatch{
				ID:             z.ID,
				Name:           z.Name,
				TaskType:       z.TaskType,
				DistanceMeters: d,
			})
		}
	}
	return matches, nil
}
