package repository

import (
	"errors"
	"strings"

	"github.com/Flinmt/pinanca/internal/models"

	"gorm.io/gorm"
)

// CategoryRepository persists user-owned categories.
type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(cat *models.Category) error {
	cat.Name = strings.TrimSpace(cat.Name)
	if cat.UserID == 0 {
		return validationErr("user is required")
	}
	if cat.Name == "" {
		return validationErr("category name is required")
	}
	if len(cat.Name) > 64 {
		return validationErr("category name too long (max 64)")
	}
	if err := userExists(r.db, cat.UserID); err != nil {
		return err
	}
	if err := r.db.Create(cat).Error; err != nil {
		return conflictErr("could not create category", err)
	}
	return nil
}

func (r *CategoryRepository) GetByID(userID, id uint) (*models.Category, error) {
	var cat models.Category
	if err := r.db.Where("id = ? AND user_id = ?", id, userID).
		First(&cat).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundErr("category not found")
		}
		return nil, err
	}
	return &cat, nil
}

func (r *CategoryRepository) ListByUser(userID uint, limit, offset int) ([]models.Category, error) {
	var cats []models.Category
	err := r.db.Where("user_id = ?", userID).
		Order("id").
		Limit(normalizeLimit(limit)).
		Offset(offset).
		Find(&cats).Error
	return cats, err
}

func (r *CategoryRepository) Update(cat *models.Category) error {
	cat.Name = strings.TrimSpace(cat.Name)
	if cat.ID == 0 {
		return validationErr("category id is required")
	}
	if cat.Name == "" {
		return validationErr("category name is required")
	}
	existing, err := r.GetByID(cat.UserID, cat.ID)
	if err != nil {
		return err
	}
	existing.Name = cat.Name
	if err := r.db.Save(existing).Error; err != nil {
		return conflictErr("could not update category", err)
	}
	*cat = *existing
	return nil
}

// Delete removes a category unless a debt or transaction still uses it.
func (r *CategoryRepository) Delete(userID, id uint) error {
	if _, err := r.GetByID(userID, id); err != nil {
		return err
	}

	var debts int64
	if err := r.db.Model(&models.Debt{}).
		Where("category_id = ?", id).
		Count(&debts).Error; err != nil {
		return err
	}
	var txs int64
	if err := r.db.Model(&models.Transaction{}).
		Where("category_id = ?", id).
		Count(&txs).Error; err != nil {
		return err
	}
	if debts > 0 || txs > 0 {
		return conflictErr("category is in use and cannot be removed", nil)
	}

	return r.db.Delete(&models.Category{}, id).Error
}

// userExists reports a reference error when the owner row is missing.
func userExists(db *gorm.DB, userID uint) error {
	var count int64
	if err := db.Model(&models.User{}).
		Where("id = ?", userID).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return referenceErr("user not found")
	}
	return nil
}

// normalizeLimit applies the historical default page size.
func normalizeLimit(limit int) int {
	if limit <= 0 {
		return 100
	}
	return limit
}
