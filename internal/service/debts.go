// Package service bundles debt writes with their schedule consequences.
// Repositories alone leave callers responsible for resyncing installments
// after every amount/date/count change; these composites do both sides in
// one transaction so no caller can forget the second step.
package service

import (
	"time"

	"github.com/Flinmt/pinanca/internal/models"
	"github.com/Flinmt/pinanca/internal/repository"
	"github.com/Flinmt/pinanca/internal/scheduler"

	"gorm.io/gorm"
)

type DebtService struct {
	db     *gorm.DB
	policy scheduler.AmountPolicy
}

func NewDebtService(db *gorm.DB, policy scheduler.AmountPolicy) *DebtService {
	return &DebtService{db: db, policy: policy}
}

// CreateWithSchedule validates and persists the debt, then generates its
// installment schedule, atomically.
func (s *DebtService) CreateWithSchedule(debt *models.Debt) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := repository.NewDebtRepository(tx).Create(debt); err != nil {
			return err
		}
		return scheduler.NewWithPolicy(tx, s.policy).Sync(debt)
	})
}

// UpdateWithSchedule persists the debt and regenerates the schedule when
// the amount, anchor date or installment count changed. Other edits
// (description, notes, the manual paid flag) leave installments alone.
func (s *DebtService) UpdateWithSchedule(debt *models.Debt) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		repo := repository.NewDebtRepository(tx)

		before, err := repo.GetByID(debt.ID)
		if err != nil {
			return err
		}
		needsSync := before.TotalAmount != debt.TotalAmount ||
			!before.DebtDate.Equal(debt.DebtDate) ||
			before.Installments != debt.Installments

		if err := repo.Update(debt); err != nil {
			return err
		}
		if !needsSync {
			return nil
		}
		return scheduler.NewWithPolicy(tx, s.policy).Sync(debt)
	})
}

// Delete removes a debt. Without cascade it fails with a conflict while
// installments remain; with cascade it detaches payment records, drops
// the installments and then the debt, atomically.
func (s *DebtService) Delete(debtID uint, cascade bool) error {
	if !cascade {
		return repository.NewDebtRepository(s.db).Delete(debtID)
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := repository.NewDebtRepository(tx).GetByID(debtID); err != nil {
			return err
		}

		instIDs := tx.Model(&models.DebtInstallment{}).
			Select("id").
			Where("debt_id = ?", debtID)
		if err := tx.Model(&models.Transaction{}).
			Where("installment_id IN (?)", instIDs).
			Update("installment_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("debt_id = ?", debtID).
			Delete(&models.DebtInstallment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Debt{}, debtID).Error
	})
}

// SetInstallmentPaid toggles one installment's paid state. The timestamp
// follows the transition; the parent debt's own flag is never touched.
func (s *DebtService) SetInstallmentPaid(installmentID uint, paid bool) (*models.DebtInstallment, error) {
	repo := repository.NewInstallmentRepository(s.db)
	inst, err := repo.GetByID(installmentID)
	if err != nil {
		return nil, err
	}
	inst.Paid = paid
	if !paid {
		inst.PaidAt = nil
	}
	if err := repo.Update(inst); err != nil {
		return nil, err
	}
	return inst, nil
}

// RecordInstallmentPayment marks the installment paid and creates the
// expense transaction that records the payment as cash flow, linked back
// through installment_id.
func (s *DebtService) RecordInstallmentPayment(userID, installmentID uint, categoryID *uint, description string) (*models.Transaction, error) {
	var payment *models.Transaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		instRepo := repository.NewInstallmentRepository(tx)
		inst, err := instRepo.GetByID(installmentID)
		if err != nil {
			return err
		}
		debt, err := repository.NewDebtRepository(tx).GetByID(inst.DebtID)
		if err != nil {
			return err
		}
		if debt.UserID != userID {
			return repository.NewNotFound("installment not found")
		}

		inst.Paid = true
		if err := instRepo.Update(inst); err != nil {
			return err
		}

		instID := inst.ID
		payment = &models.Transaction{
			UserID:        userID,
			CategoryID:    categoryID,
			Amount:        inst.Amount,
			Type:          models.TxExpense,
			Description:   description,
			OccurredAt:    time.Now().UTC(),
			InstallmentID: &instID,
		}
		return repository.NewTransactionRepository(tx).Create(payment)
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}
