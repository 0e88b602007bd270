package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"shiftsync/internal/domain"
	"shiftsync/internal/middleware"
	"shiftsync/internal/models"
	"shiftsync/internal/service"

	"github.com/gin-gonic/gin"
)

// SyncHandler owns the offline-upload surface: batch ingestion, sync status,
// and the conflict resolution endpoints.
type SyncHandler struct {
	ingest    *service.IngestService
	conflicts *service.ConflictService
	geofences *service.GeofenceService
	trackHub  interface {
		UpdatePosition(employeeID uint, lat, lng float64, matches []service.ZoneMatch)
	}
}

func NewSyncHandler(
	ingest *service.IngestService,
	conflicts *service.ConflictService,
	geofences *service.GeofenceService,
	trackHub interface {
		UpdatePosition(uint, float64, float64, []service.ZoneMatch)
	},
) *SyncHandler {
	return &SyncHandler{ingest: ingest, conflicts: conflicts, geofences: geofences, trackHub: trackHub}
}

type batchUploadRequest struct {
	Data []service.RawSample `json:"data"`
}

// BatchUpload accepts a batch of offline-accumulated fixes. Employees may
// only upload their own samples; a missing employee_id defaults to the
// caller. Partial per-sample failures still return 200 with the failures
// itemized in the body.
func (h *SyncHandler) BatchUpload(c *gin.Context) {
	var req batchUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	callerID := middleware.GetUserID(c)
	callerRole, _ := c.Get("role")
	for i := range req.Data {
		if req.Data[i].EmployeeID == 0 {
			req.Data[i].EmployeeID = callerID
		}
		if callerRole == domain.RoleEmployee && req.Data[i].EmployeeID != callerID {
			c.JSON(http.StatusForbidden, gin.H{"error": "cannot upload samples for another employee"})
			return
		}
	}

	result, err := h.ingest.ProcessBatch(req.Data)
	if err != nil {
		if errors.Is(err, service.ErrInvalidBatch) {
			c.JSON(http.StatusBadRequest, gin.H{"errors": result.Errors})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "batch processing failed"})
		return
	}

	if result.Created > 0 {
		h.pushLatestPosition(req.Data)
	}
	c.JSON(http.StatusOK, result)
}

// pushLatestPosition feeds the live tracking hub with the newest fix of the
// batch and its current zone matches. Best-effort; upload success does not
// depend on it.
func (h *SyncHandler) pushLatestPosition(batch []service.RawSample) {
	if h.trackHub == nil || len(batch) == 0 {
		return
	}
	latest := batch[0]
	latestTS, _ := time.Parse(time.RFC3339, latest.TimestampUTC)
	for _, s := range batch[1:] {
		ts, err := time.Parse(time.RFC3339, s.TimestampUTC)
		if err == nil && ts.After(latestTS) {
			latest, latestTS = s, ts
		}
	}
	if latest.Latitude == nil || latest.Longitude == nil {
		return
	}
	lat := latest.Latitude.InexactFloat64()
	lng := latest.Longitude.InexactFloat64()
	matches, err := h.geofences.Matches(latest.EmployeeID, lat, lng)
	if err != nil {
		return
	}
	h.trackHub.UpdatePosition(latest.EmployeeID, lat, lng, matches)
}

// Status reports pending conflicts, last sync time and total points for an
// employee.
func (h *SyncHandler) Status(c *gin.Context) {
	employeeID, ok := h.employeeParam(c)
	if !ok {
		return
	}
	status, err := h.ingest.Status(employeeID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "status lookup failed"})
		return
	}
	c.JSON(http.StatusOK, status)
}

func (h *SyncHandler) ListConflicts(c *gin.Context) {
	employeeID, ok := h.employeeParam(c)
	if !ok {
		return
	}
	list, err := h.conflicts.ListPending(employeeID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "conflict lookup failed"})
		return
	}
	out := make([]gin.H, 0, len(list))
	for _, cf := range list {
		client, _ := cf.ClientPayload()
		server, _ := cf.ServerPayload()
		out = append(out, gin.H{
			"id":          cf.ID,
			"employee_id": cf.EmployeeID,
			"status":      cf.Status,
			"client_data": client,
			"server_data": server,
			"created_at":  cf.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"conflicts": out})
}

type resolveConflictRequest struct {
	Resolution string                `json:"resolution" binding:"required"`
	ManualData *models.SamplePayload `json:"manual_data"`
}

func (h *SyncHandler) ResolveConflict(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req resolveConflictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sample, err := h.conflicts.Resolve(id, req.Resolution, req.ManualData)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrConflictNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrManualDataRequired), errors.Is(err, service.ErrInvalidResolution):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "resolution failed"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "resolved", "sample": sample})
}

func (h *SyncHandler) RejectConflict(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.conflicts.Reject(id); err != nil {
		if errors.Is(err, service.ErrConflictNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "rejection failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "rejected"})
}

// employeeParam reads :employee_id and authorizes the caller: employees may
// only query themselves, admins anyone.
func (h *SyncHandler) employeeParam(c *gin.Context) (uint, bool) {
	raw, err := strconv.ParseUint(c.Param("employee_id"), 10, 64)
	if err != nil || raw == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid employee_id"})
		return 0, false
	}
	employeeID := uint(raw)
	role, _ := c.Get("role")
	if role == domain.RoleEmployee && employeeID != middleware.GetUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return 0, false
	}
	return employeeID, true
}

func idParam(c *gin.Context) (uint, bool) {
	raw, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || raw == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(raw), true
}
