package repository

import (
	"shiftsync/internal/domain"
	"shiftsync/internal/models"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(u *models.User) error {
	return r.db.Create(u).Error
}

func (r *UserRepository) GetByID(id uint) (*models.User, error) {
	var u models.User
	if err := r.db.First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	var u models.User
	if err := r.db.Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByGoogleID(googleID string) (*models.User, error) {
	var u models.User
	if err := r.db.Where("google_id = ?", googleID).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Update(u *models.User) error {
	return r.db.Save(u).Error
}

func (r *UserRepository) ListEmployees() ([]models.User, error) {
	var list []models.User
	err := r.db.Where("role = ?", domain.RoleEmployee).Order("full_name").Find(&list).Error
	return list, err
}

func (r *UserRepository) AssignSharedProfile(userID uint, profileID *uint) error {
	return r.db.Model(&models.User{}).Where("id = ?", userID).
		Update("shared_profile_id", profileID).Error
}

type SharedProfileRepository struct {
	db *gorm.DB
}

func NewSharedProfileRepository(db *gorm.DB) *SharedProfileRepository {
	return &SharedProfileRepository{db: db}
}

func (r *SharedProfileRepository) Create(p *models.SharedProfile) error {
	return r.db.Create(p).Error
}

func (r *SharedProfileRepository) GetByID(id uint) (*models.SharedProfile, error) {
	var p models.SharedProfile
	if err := r.db.First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *SharedProfileRepository) List() ([]models.SharedProfile, error) {
	var list []models.SharedProfile
	err := r.db.Order("name").Find(&list).Error
	return list, err
}
