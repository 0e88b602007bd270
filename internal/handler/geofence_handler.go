package handler

import (
	"errors"
	"net/http"

	"shiftsync/internal/models"
	"shiftsync/internal/repository"
	"shiftsync/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type GeofenceHandler struct {
	repo *repository.GeofenceRepository
	svc  *service.GeofenceService
}

func NewGeofenceHandler(repo *repository.GeofenceRepository, svc *service.GeofenceService) *GeofenceHandler {
	return &GeofenceHandler{repo: repo, svc: svc}
}

type geofenceRequest struct {
	Name            string          `json:"name" binding:"required,max=128"`
	Latitude        decimal.Decimal `json:"latitude" binding:"required"`
	Longitude       decimal.Decimal `json:"longitude" binding:"required"`
	RadiusMeters    float64         `json:"radius_meters" binding:"required,gt=0"`
	TaskType        string          `json:"task_type" binding:"required,max=32"`
	IsActive        *bool           `json:"is_active"`
	EmployeeID      *uint           `json:"employee_id"`
	SharedProfileID *uint           `json:"shared_profile_id"`
}

func (r geofenceRequest) toModel(g *models.Geofence) {
	g.Name = r.Name
	g.Latitude = r.Latitude
	g.Longitude = r.Longitude
	g.RadiusMeters = r.RadiusMeters
	g.TaskType = r.TaskType
	if r.IsActive != nil {
		g.IsActive = *r.IsActive
	}
	g.EmployeeID = r.EmployeeID
	g.SharedProfileID = r.SharedProfileID
}

func (h *GeofenceHandler) Create(c *gin.Context) {
	var req geofenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	g := models.Geofence{IsActive: true}
	req.toModel(&g)
	if err := h.repo.Create(&g); err != nil {
		if errors.Is(err, models.ErrGeofenceOwner) || errors.Is(err, models.ErrGeofenceRadius) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, g)
}

func (h *GeofenceHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	g, err := h.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "geofence not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	var req geofenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.toModel(g)
	if err := h.repo.Update(g); err != nil {
		if errors.Is(err, models.ErrGeofenceOwner) || errors.Is(err, models.ErrGeofenceRadius) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, g)
}

func (h *GeofenceHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.repo.Delete(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *GeofenceHandler) List(c *gin.Context) {
	list, err := h.repo.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"geofences": list})
}

type geofenceCheckRequest struct {
	EmployeeID uint    `json:"employee_id" binding:"required"`
	Latitude   float64 `json:"latitude" binding:"min=-90,max=90"`
	Longitude  float64 `json:"longitude" binding:"min=-180,max=180"`
}

// Check reports which of the employee's active zones (own plus inherited
// from the shared profile) contain the live coordinate.
func (h *GeofenceHandler) Check(c *gin.Context) {
	var req geofenceCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	matches, err := h.svc.Matches(req.EmployeeID, req.Latitude, req.Longitude)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "employee not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "check failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"is_in_zone": len(matches) > 0, "matches": matches})
}
