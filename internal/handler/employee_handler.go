package handler

import (
	"errors"
	"net/http"

	"shiftsync/internal/models"
	"shiftsync/internal/repository"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// EmployeeHandler is the admin surface for employees and the shared profiles
// they inherit geofences from.
type EmployeeHandler struct {
	userRepo    *repository.UserRepository
	profileRepo *repository.SharedProfileRepository
}

func NewEmployeeHandler(userRepo *repository.UserRepository, profileRepo *repository.SharedProfileRepository) *EmployeeHandler {
	return &EmployeeHandler{userRepo: userRepo, profileRepo: profileRepo}
}

func (h *EmployeeHandler) List(c *gin.Context) {
	list, err := h.userRepo.ListEmployees()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"employees": list})
}

type assignProfileRequest struct {
	SharedProfileID *uint `json:"shared_profile_id"` // null detaches
}

func (h *EmployeeHandler) AssignProfile(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req assignProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, err := h.userRepo.GetByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "employee not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	if req.SharedProfileID != nil {
		if _, err := h.profileRepo.GetByID(*req.SharedProfileID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "shared profile not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
			return
		}
	}
	if err := h.userRepo.AssignSharedProfile(id, req.SharedProfileID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "assignment failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type sharedProfileRequest struct {
	Name        string `json:"name" binding:"required,max=128"`
	Description string `json:"description" binding:"max=512"`
}

func (h *EmployeeHandler) CreateProfile(c *gin.Context) {
	var req sharedProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p := &models.SharedProfile{Name: req.Name, Description: req.Description}
	if err := h.profileRepo.Create(p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *EmployeeHandler) ListProfiles(c *gin.Context) {
	list, err := h.profileRepo.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"shared_profiles": list})
}
