package ws

import (
	"sync"
	"time"

	"shiftsync/internal/service"
)

// TrackMarker is one employee's latest synced position for the admin
// dashboard, together with the zones currently containing it.
type TrackMarker struct {
	EmployeeID uint                `json:"employee_id"`
	Lat        float64             `json:"lat"`
	Lng        float64             `json:"lng"`
	InZone     bool                `json:"in_zone"`
	Matches    []service.ZoneMatch `json:"matches"`
	UpdatedAt  int64               `json:"updated_at"`
}

// TrackHub streams employee positions to dashboard viewers. Positions are
// pushed by the sync pipeline after each successful batch.
type TrackHub struct {
	*Hub
	mu      sync.RWMutex
	markers map[uint]TrackMarker
}

func NewTrackHub() *TrackHub {
	return &TrackHub{
		Hub:     NewHub(),
		markers: make(map[uint]TrackMarker),
	}
}

// UpdatePosition records an employee's latest fix and broadcasts it.
func (t *TrackHub) UpdatePosition(employeeID uint, lat, lng float64, matches []service.ZoneMatch) {
	marker := TrackMarker{
		EmployeeID: employeeID,
		Lat:        lat,
		Lng:        lng,
		InZone:     len(matches) > 0,
		Matches:    matches,
		UpdatedAt:  time.Now().Unix(),
	}
	t.mu.Lock()
	t.markers[employeeID] = marker
	t.mu.Unlock()
	t.BroadcastAll(marker)
}

// Markers returns the current position of every tracked employee, for the
// initial dashboard load.
func (t *TrackHub) Markers() []TrackMarker {
	t.mu.RLock()
	defer t.mu.RUnlock()
	list := make([]TrackMarker, 0, len(t.markers))
	for _, m := range t.markers {
		list = append(list, m)
	}
	return list
}
