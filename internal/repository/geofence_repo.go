package repository

import (
	"shiftsync/internal/models"

	"gorm.io/gorm"
)

type GeofenceRepository struct {
	db *gorm.DB
}

func NewGeofenceRepository(db *gorm.DB) *GeofenceRepository {
	return &GeofenceRepository{db: db}
}

func (r *GeofenceRepository) Create(g *models.Geofence) error {
	return r.db.Create(g).Error
}

func (r *GeofenceRepository) Update(g *models.Geofence) error {
	return r.db.Save(g).Error
}

func (r *GeofenceRepository) Delete(id uint) error {
	return r.db.Delete(&models.Geofence{}, id).Error
}

func (r *GeofenceRepository) GetByID(id uint) (*models.Geofence, error) {
	var g models.Geofence
	if err := r.db.First(&g, id).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *GeofenceRepository) List() ([]models.Geofence, error) {
	var list []models.Geofence
	err := r.db.Order("name").Find(&list).Error
	return list, err
}

func (r *GeofenceRepository) FindActiveByEmployee(employeeID uint) ([]models.Geofence, error) {
	var list []models.Geofence
	err := r.db.Where("employee_id = ? AND is_active = ?", employeeID, true).Find(&list).Error
	return list, err
}

func (r *GeofenceRepository) FindActiveByProfile(profileID uint) ([]models.Geofence, error) {
	var list []models.Geofence
	err := r.db.Where("shared_profile_id = ? AND is_active = ?", profileID, true).Find(&list).Error
	return list, err
}
