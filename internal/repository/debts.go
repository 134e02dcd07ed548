package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/Flinmt/pinanca/internal/models"

	"gorm.io/gorm"
)

// DebtRepository persists debts. Creating or updating a debt does NOT
// touch its installment schedule; callers go through service.DebtService
// when the schedule must stay consistent.
type DebtRepository struct {
	db *gorm.DB
}

func NewDebtRepository(db *gorm.DB) *DebtRepository {
	return &DebtRepository{db: db}
}

// DebtFilters are AND-composed; nil fields are ignored.
type DebtFilters struct {
	Paid            *bool
	OriginID        *uint
	CategoryID      *uint
	ResponsibleID   *uint
	StartDate       *time.Time
	EndDate         *time.Time
	InstallmentsMin *int
	InstallmentsMax *int
	Limit           int
	Offset          int
}

func (r *DebtRepository) validate(debt *models.Debt) error {
	if debt.UserID == 0 {
		return validationErr("user is required")
	}
	if debt.OriginID == 0 {
		return validationErr("origin is required")
	}
	if debt.DebtDate.IsZero() {
		return validationErr("debt date is required")
	}
	if debt.TotalAmount <= 0 {
		return validationErr("total amount must be positive")
	}
	if debt.Installments < 1 {
		return validationErr("installment count must be at least 1")
	}
	return nil
}

// validateRefs checks that referenced rows exist and belong to the same
// user as the debt.
func (r *DebtRepository) validateRefs(debt *models.Debt) error {
	if err := userExists(r.db, debt.UserID); err != nil {
		return err
	}

	var count int64
	if err := r.db.Model(&models.DebtOrigin{}).
		Where("id = ? AND user_id = ?", debt.OriginID, debt.UserID).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return referenceErr("origin not found")
	}

	if debt.CategoryID != nil {
		if err := r.db.Model(&models.Category{}).
			Where("id = ? AND user_id = ?", *debt.CategoryID, debt.UserID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return referenceErr("category not found")
		}
	}
	if debt.ResponsibleID != nil {
		if err := r.db.Model(&models.Responsible{}).
			Where("id = ? AND user_id = ?", *debt.ResponsibleID, debt.UserID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return referenceErr("responsible not found")
		}
	}
	return nil
}

func (r *DebtRepository) Create(debt *models.Debt) error {
	debt.Description = strings.TrimSpace(debt.Description)
	debt.Notes = strings.TrimSpace(debt.Notes)
	if err := r.validate(debt); err != nil {
		return err
	}
	if err := r.validateRefs(debt); err != nil {
		return err
	}
	if err := r.db.Create(debt).Error; err != nil {
		return conflictErr("could not create debt", err)
	}
	return nil
}

func (r *DebtRepository) GetByID(id uint) (*models.Debt, error) {
	var debt models.Debt
	if err := r.db.First(&debt, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundErr("debt not found")
		}
		return nil, err
	}
	return &debt, nil
}

// ListByFilters returns the user's debts matching every supplied filter,
// ordered by (debt_date, id) ascending.
func (r *DebtRepository) ListByFilters(userID uint, f DebtFilters) ([]models.Debt, error) {
	q := r.db.Where("user_id = ?", userID)
	if f.Paid != nil {
		q = q.Where("paid = ?", *f.Paid)
	}
	if f.OriginID != nil {
		q = q.Where("origin_id = ?", *f.OriginID)
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.ResponsibleID != nil {
		q = q.Where("responsible_id = ?", *f.ResponsibleID)
	}
	if f.StartDate != nil {
		q = q.Where("debt_date >= ?", *f.StartDate)
	}
	if f.EndDate != nil {
		q = q.Where("debt_date <= ?", *f.EndDate)
	}
	if f.InstallmentsMin != nil {
		q = q.Where("installments >= ?", *f.InstallmentsMin)
	}
	if f.InstallmentsMax != nil {
		q = q.Where("installments <= ?", *f.InstallmentsMax)
	}

	var debts []models.Debt
	err := q.Order("debt_date, id").
		Limit(normalizeLimit(f.Limit)).
		Offset(f.Offset).
		Find(&debts).Error
	return debts, err
}

// Update persists every mutable field, including the manual paid flag.
func (r *DebtRepository) Update(debt *models.Debt) error {
	if debt.ID == 0 {
		return validationErr("debt id is required")
	}
	debt.Description = strings.TrimSpace(debt.Description)
	debt.Notes = strings.TrimSpace(debt.Notes)
	if err := r.validate(debt); err != nil {
		return err
	}

	existing, err := r.GetByID(debt.ID)
	if err != nil {
		return err
	}
	if err := r.validateRefs(debt); err != nil {
		return err
	}

	existing.OriginID = debt.OriginID
	existing.CategoryID = debt.CategoryID
	existing.ResponsibleID = debt.ResponsibleID
	existing.DebtDate = debt.DebtDate
	existing.Description = debt.Description
	existing.TotalAmount = debt.TotalAmount
	existing.Installments = debt.Installments
	existing.Notes = debt.Notes
	existing.Paid = debt.Paid

	if err := r.db.Save(existing).Error; err != nil {
		return conflictErr("could not update debt", err)
	}
	*debt = *existing
	return nil
}

// Delete removes a debt. It fails with a conflict while installments (or
// transactions recording their payment) still reference it; cascading is
// the service layer's explicit job.
func (r *DebtRepository) Delete(id uint) error {
	if id == 0 {
		return validationErr("debt id is required")
	}
	if _, err := r.GetByID(id); err != nil {
		return err
	}

	var installments int64
	if err := r.db.Model(&models.DebtInstallment{}).
		Where("debt_id = ?", id).
		Count(&installments).Error; err != nil {
		return err
	}
	if installments > 0 {
		return conflictErr("debt still has installments and cannot be removed", nil)
	}

	return r.db.Delete(&models.Debt{}, id).Error
}
