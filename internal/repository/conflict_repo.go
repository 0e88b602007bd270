package repository

import (
	"errors"
	"time"

	"shiftsync/internal/domain"
	"shiftsync/internal/models"

	"gorm.io/gorm"
)

type ConflictRepository struct {
	db *gorm.DB
}

func NewConflictRepository(db *gorm.DB) *ConflictRepository {
	return &ConflictRepository{db: db}
}

func (r *ConflictRepository) Create(c *models.LocationConflict) error {
	return r.db.Create(c).Error
}

func (r *ConflictRepository) GetByID(id uint) (*models.LocationConflict, error) {
	var c models.LocationConflict
	if err := r.db.First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ConflictRepository) ListPendingByEmployee(employeeID uint) ([]models.LocationConflict, error) {
	var list []models.LocationConflict
	err := r.db.Where("employee_id = ? AND status = ?", employeeID, domain.ConflictStatusPending).
		Order("created_at").
		Find(&list).Error
	return list, err
}

func (r *ConflictRepository) CountPendingByEmployee(employeeID uint) (int64, error) {
	var c int64
	err := r.db.Model(&models.LocationConflict{}).
		Where("employee_id = ? AND status = ?", employeeID, domain.ConflictStatusPending).
		Count(&c).Error
	return c, err
}

// Resolve claims the conflict with a conditional update on status=PENDING,
// then persists the winning sample, all in one transaction. Returns false
// when the conflict was already terminal (a concurrent resolve or reject won
// the race); nothing is written in that case. On success the winner carries
// its new ID.
func (r *ConflictRepository) Resolve(id uint, winner *models.LocationSample, at time.Time) (bool, error) {
	claimed := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.LocationConflict{}).
			Where("id = ? AND status = ?", id, domain.ConflictStatusPending).
			Updates(map[string]interface{}{
				"status":      domain.ConflictStatusResolved,
				"resolved_at": at,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		if err := tx.Create(winner).Error; err != nil {
			// Resolving in favor of the server snapshot re-inserts a client
			// id that is already persisted; the existing row is the winner.
			if !errors.Is(err, gorm.ErrDuplicatedKey) {
				return err
			}
			var existing models.LocationSample
			if err := tx.Where("employee_id = ? AND client_id = ?",
				winner.EmployeeID, winner.ClientID).First(&existing).Error; err != nil {
				return err
			}
			*winner = existing
		}
		if err := tx.Model(&models.LocationConflict{}).Where("id = ?", id).
			Update("resolved_sample_id", winner.ID).Error; err != nil {
			return err
		}
		claimed = true
		return nil
	})
	return claimed, err
}

// Reject flips a PENDING conflict to REJECTED. Returns false when the
// conflict was already terminal.
func (r *ConflictRepository) Reject(id uint, at time.Time) (bool, error) {
	res := r.db.Model(&models.LocationConflict{}).
		Where("id = ? AND status = ?", id, domain.ConflictStatusPending).
		Updates(map[string]interface{}{
			"status":      domain.ConflictStatusRejected,
			"resolved_at": at,
		})
	return res.RowsAffected > 0, res.Error
}
