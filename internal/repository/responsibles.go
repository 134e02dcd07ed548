package repository

import (
	"errors"
	"strings"

	"github.com/Flinmt/pinanca/internal/models"

	"gorm.io/gorm"
)

// ResponsibleRepository persists parties accountable for debts. Name is
// optional; a responsible may instead link to another registered user.
type ResponsibleRepository struct {
	db *gorm.DB
}

func NewResponsibleRepository(db *gorm.DB) *ResponsibleRepository {
	return &ResponsibleRepository{db: db}
}

func (r *ResponsibleRepository) Create(resp *models.Responsible) error {
	resp.Name = strings.TrimSpace(resp.Name)
	if resp.UserID == 0 {
		return validationErr("user is required")
	}
	if len(resp.Name) > 64 {
		return validationErr("responsible name too long (max 64)")
	}
	if err := userExists(r.db, resp.UserID); err != nil {
		return err
	}
	if resp.RelatedUserID != nil {
		if err := userExists(r.db, *resp.RelatedUserID); err != nil {
			return referenceErr("related user not found")
		}
	}
	if err := r.db.Create(resp).Error; err != nil {
		return conflictErr("could not create responsible", err)
	}
	return nil
}

func (r *ResponsibleRepository) GetByID(userID, id uint) (*models.Responsible, error) {
	var resp models.Responsible
	if err := r.db.Where("id = ? AND user_id = ?", id, userID).
		First(&resp).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundErr("responsible not found")
		}
		return nil, err
	}
	return &resp, nil
}

func (r *ResponsibleRepository) ListByUser(userID uint, limit, offset int) ([]models.Responsible, error) {
	var resps []models.Responsible
	err := r.db.Where("user_id = ?", userID).
		Order("id").
		Limit(normalizeLimit(limit)).
		Offset(offset).
		Find(&resps).Error
	return resps, err
}

func (r *ResponsibleRepository) Update(resp *models.Responsible) error {
	resp.Name = strings.TrimSpace(resp.Name)
	if resp.ID == 0 {
		return validationErr("responsible id is required")
	}
	existing, err := r.GetByID(resp.UserID, resp.ID)
	if err != nil {
		return err
	}
	if resp.RelatedUserID != nil {
		if err := userExists(r.db, *resp.RelatedUserID); err != nil {
			return referenceErr("related user not found")
		}
	}
	existing.Name = resp.Name
	existing.RelatedUserID = resp.RelatedUserID
	if err := r.db.Save(existing).Error; err != nil {
		return conflictErr("could not update responsible", err)
	}
	*resp = *existing
	return nil
}

// Delete removes a responsible unless a debt still references it.
func (r *ResponsibleRepository) Delete(userID, id uint) error {
	if _, err := r.GetByID(userID, id); err != nil {
		return err
	}

	var debts int64
	if err := r.db.Model(&models.Debt{}).
		Where("responsible_id = ?", id).
		Count(&debts).Error; err != nil {
		return err
	}
	if debts > 0 {
		return conflictErr("responsible is in use and cannot be removed", nil)
	}

	return r.db.Delete(&models.Responsible{}, id).Error
}
