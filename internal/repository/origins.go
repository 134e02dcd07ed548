package repository

import (
	"errors"
	"strings"

	"github.com/Flinmt/pinanca/internal/models"

	"gorm.io/gorm"
)

// OriginRepository persists debt origins (creditors).
type OriginRepository struct {
	db *gorm.DB
}

func NewOriginRepository(db *gorm.DB) *OriginRepository {
	return &OriginRepository{db: db}
}

func (r *OriginRepository) Create(origin *models.DebtOrigin) error {
	origin.Name = strings.TrimSpace(origin.Name)
	if origin.UserID == 0 {
		return validationErr("user is required")
	}
	if origin.Name == "" {
		return validationErr("origin name is required")
	}
	if len(origin.Name) > 64 {
		return validationErr("origin name too long (max 64)")
	}
	if err := userExists(r.db, origin.UserID); err != nil {
		return err
	}
	if err := r.db.Create(origin).Error; err != nil {
		return conflictErr("could not create origin", err)
	}
	return nil
}

func (r *OriginRepository) GetByID(userID, id uint) (*models.DebtOrigin, error) {
	var origin models.DebtOrigin
	if err := r.db.Where("id = ? AND user_id = ?", id, userID).
		First(&origin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundErr("origin not found")
		}
		return nil, err
	}
	return &origin, nil
}

func (r *OriginRepository) ListByUser(userID uint, limit, offset int) ([]models.DebtOrigin, error) {
	var origins []models.DebtOrigin
	err := r.db.Where("user_id = ?", userID).
		Order("id").
		Limit(normalizeLimit(limit)).
		Offset(offset).
		Find(&origins).Error
	return origins, err
}

func (r *OriginRepository) Update(origin *models.DebtOrigin) error {
	origin.Name = strings.TrimSpace(origin.Name)
	if origin.ID == 0 {
		return validationErr("origin id is required")
	}
	if origin.Name == "" {
		return validationErr("origin name is required")
	}
	existing, err := r.GetByID(origin.UserID, origin.ID)
	if err != nil {
		return err
	}
	existing.Name = origin.Name
	if err := r.db.Save(existing).Error; err != nil {
		return conflictErr("could not update origin", err)
	}
	*origin = *existing
	return nil
}

// Delete removes an origin unless a debt still references it.
func (r *OriginRepository) Delete(userID, id uint) error {
	if _, err := r.GetByID(userID, id); err != nil {
		return err
	}

	var debts int64
	if err := r.db.Model(&models.Debt{}).
		Where("origin_id = ?", id).
		Count(&debts).Error; err != nil {
		return err
	}
	if debts > 0 {
		return conflictErr("origin is in use and cannot be removed", nil)
	}

	return r.db.Delete(&models.DebtOrigin{}, id).Error
}
