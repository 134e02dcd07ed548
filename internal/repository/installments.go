package repository

import (
	"errors"
	"time"

	"github.com/Flinmt/pinanca/internal/models"

	"gorm.io/gorm"
)

// InstallmentRepository persists the generated installments of a debt.
type InstallmentRepository struct {
	db *gorm.DB
}

func NewInstallmentRepository(db *gorm.DB) *InstallmentRepository {
	return &InstallmentRepository{db: db}
}

func validateInstallment(inst *models.DebtInstallment) error {
	if inst.Number <= 0 {
		return validationErr("installment number must be positive")
	}
	if inst.Amount <= 0 {
		return validationErr("installment amount must be positive")
	}
	if inst.DueOn.IsZero() {
		return validationErr("installment due date is required")
	}
	return nil
}

func debtExists(db *gorm.DB, debtID uint) error {
	var count int64
	if err := db.Model(&models.Debt{}).
		Where("id = ?", debtID).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return referenceErr("debt not found")
	}
	return nil
}

func (r *InstallmentRepository) Create(inst *models.DebtInstallment) error {
	if inst.DebtID == 0 {
		return validationErr("debt is required")
	}
	if err := validateInstallment(inst); err != nil {
		return err
	}
	if err := debtExists(r.db, inst.DebtID); err != nil {
		return err
	}
	if err := r.db.Create(inst).Error; err != nil {
		return conflictErr("could not create installment", err)
	}
	return nil
}

func (r *InstallmentRepository) GetByID(id uint) (*models.DebtInstallment, error) {
	var inst models.DebtInstallment
	if err := r.db.First(&inst, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundErr("installment not found")
		}
		return nil, err
	}
	return &inst, nil
}

func (r *InstallmentRepository) ListByDebt(debtID uint, limit, offset int) ([]models.DebtInstallment, error) {
	var insts []models.DebtInstallment
	err := r.db.Where("debt_id = ?", debtID).
		Order("number").
		Limit(normalizeLimit(limit)).
		Offset(offset).
		Find(&insts).Error
	return insts, err
}

// Update persists an installment and re-derives paid_at: the timestamp is
// set when paid transitions to true (kept if already supplied) and
// cleared when paid is false.
func (r *InstallmentRepository) Update(inst *models.DebtInstallment) error {
	if inst.ID == 0 {
		return validationErr("installment id is required")
	}
	if err := validateInstallment(inst); err != nil {
		return err
	}

	existing, err := r.GetByID(inst.ID)
	if err != nil {
		return err
	}
	if inst.DebtID == 0 {
		return validationErr("debt is required")
	}
	if err := debtExists(r.db, inst.DebtID); err != nil {
		return err
	}

	existing.DebtID = inst.DebtID
	existing.Number = inst.Number
	existing.Amount = inst.Amount
	existing.DueOn = inst.DueOn
	existing.Paid = inst.Paid
	if inst.Paid {
		if inst.PaidAt != nil {
			existing.PaidAt = inst.PaidAt
		} else if existing.PaidAt == nil {
			now := time.Now().UTC()
			existing.PaidAt = &now
		}
	} else {
		existing.PaidAt = nil
	}

	if err := r.db.Save(existing).Error; err != nil {
		return conflictErr("could not update installment", err)
	}
	*inst = *existing
	return nil
}

func (r *InstallmentRepository) Delete(id uint) error {
	if id == 0 {
		return validationErr("installment id is required")
	}
	if _, err := r.GetByID(id); err != nil {
		return err
	}

	var txs int64
	if err := r.db.Model(&models.Transaction{}).
		Where("installment_id = ?", id).
		Count(&txs).Error; err != nil {
		return err
	}
	if txs > 0 {
		return conflictErr("installment has payment records and cannot be removed", nil)
	}

	return r.db.Delete(&models.DebtInstallment{}, id).Error
}
