package models

import (
	"time"

	"shiftsync/internal/domain"

	"gorm.io/gorm"
)

type User struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Email           string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	FullName        string         `gorm:"size:128;not null" json:"full_name"`
	PasswordHash    string         `gorm:"size:255" json:"-"`
	Role            string         `gorm:"size:20;not null;index" json:"role"` // ADMIN | EMPLOYEE
	GoogleID        *string        `gorm:"uniqueIndex;size:255" json:"-"`      // nil unless the operator signed in with Google
	SharedProfileID *uint          `gorm:"index" json:"shared_profile_id"`
	HiredAt         *time.Time     `json:"hired_at"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	SharedProfile *SharedProfile `gorm:"foreignKey:SharedProfileID" json:"shared_profile,omitempty"`
}

func (u *User) IsAdmin() bool    { return u.Role == domain.RoleAdmin }
func (u *User) IsEmployee() bool { return u.Role == domain.RoleEmployee }

func (User) TableName() string {
	return "users"
}
