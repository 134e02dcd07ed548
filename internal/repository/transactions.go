package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/Flinmt/pinanca/internal/models"

	"gorm.io/gorm"
)

// TransactionRepository persists income/expense events and fixed
// recurring templates.
type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// TxFilters are AND-composed; nil fields are ignored.
type TxFilters struct {
	Type          *string
	CategoryID    *uint
	Fixed         *bool
	Periodicity   *string
	Start         *time.Time
	End           *time.Time
	MinAmount     *int64
	MaxAmount     *int64
	InstallmentID *uint
	Limit         int
	Offset        int
}

func validTxType(t string) bool {
	return t == models.TxIncome || t == models.TxExpense
}

func validPeriodicity(p string) bool {
	switch p {
	case models.PeriodicityNone, models.PeriodicityMonthly,
		models.PeriodicityWeekly, models.PeriodicityYearly:
		return true
	}
	return false
}

func (r *TransactionRepository) validate(tx *models.Transaction) error {
	if tx.UserID == 0 {
		return validationErr("user is required")
	}
	if tx.Amount <= 0 {
		return validationErr("amount must be positive")
	}
	tx.Type = strings.ToLower(tx.Type)
	if !validTxType(tx.Type) {
		return validationErr("type must be 'income' or 'expense'")
	}
	if tx.Periodicity == "" {
		tx.Periodicity = models.PeriodicityNone
	}
	tx.Periodicity = strings.ToLower(tx.Periodicity)
	if !validPeriodicity(tx.Periodicity) {
		return validationErr("periodicity must be one of none, monthly, weekly, yearly")
	}
	// "none" is only meaningful for one-off rows; a fixed template must
	// carry a real periodicity and a one-off row must not.
	if tx.Fixed && tx.Periodicity == models.PeriodicityNone {
		return validationErr("fixed transactions require a periodicity")
	}
	if !tx.Fixed && tx.Periodicity != models.PeriodicityNone {
		return validationErr("one-off transactions cannot have a periodicity")
	}
	return nil
}

func (r *TransactionRepository) validateRefs(tx *models.Transaction) error {
	if err := userExists(r.db, tx.UserID); err != nil {
		return err
	}

	var count int64
	if tx.CategoryID != nil {
		if err := r.db.Model(&models.Category{}).
			Where("id = ? AND user_id = ?", *tx.CategoryID, tx.UserID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return referenceErr("category not found")
		}
	}
	if tx.InstallmentID != nil {
		if err := r.db.Model(&models.DebtInstallment{}).
			Where("id = ?", *tx.InstallmentID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return referenceErr("installment not found")
		}
	}
	return nil
}

func (r *TransactionRepository) Create(tx *models.Transaction) error {
	tx.Description = strings.TrimSpace(tx.Description)
	tx.Notes = strings.TrimSpace(tx.Notes)
	if err := r.validate(tx); err != nil {
		return err
	}
	if err := r.validateRefs(tx); err != nil {
		return err
	}
	if tx.OccurredAt.IsZero() {
		tx.OccurredAt = time.Now().UTC()
	}
	if err := r.db.Create(tx).Error; err != nil {
		return conflictErr("could not create transaction", err)
	}
	return nil
}

func (r *TransactionRepository) GetByID(id uint) (*models.Transaction, error) {
	var tx models.Transaction
	if err := r.db.First(&tx, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundErr("transaction not found")
		}
		return nil, err
	}
	return &tx, nil
}

// ListByFilters returns the user's transactions matching every supplied
// filter, newest first.
func (r *TransactionRepository) ListByFilters(userID uint, f TxFilters) ([]models.Transaction, error) {
	q := r.db.Where("user_id = ?", userID)
	if f.Type != nil {
		t := strings.ToLower(*f.Type)
		if !validTxType(t) {
			return nil, validationErr("type must be 'income' or 'expense'")
		}
		q = q.Where("type = ?", t)
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.Fixed != nil {
		q = q.Where("fixed = ?", *f.Fixed)
	}
	if f.Periodicity != nil {
		p := strings.ToLower(*f.Periodicity)
		if !validPeriodicity(p) {
			return nil, validationErr("periodicity must be one of none, monthly, weekly, yearly")
		}
		q = q.Where("periodicity = ?", p)
	}
	if f.Start != nil {
		q = q.Where("occurred_at >= ?", *f.Start)
	}
	if f.End != nil {
		q = q.Where("occurred_at <= ?", *f.End)
	}
	if f.MinAmount != nil {
		q = q.Where("amount >= ?", *f.MinAmount)
	}
	if f.MaxAmount != nil {
		q = q.Where("amount <= ?", *f.MaxAmount)
	}
	if f.InstallmentID != nil {
		q = q.Where("installment_id = ?", *f.InstallmentID)
	}

	var txs []models.Transaction
	err := q.Order("occurred_at DESC, id DESC").
		Limit(normalizeLimit(f.Limit)).
		Offset(f.Offset).
		Find(&txs).Error
	return txs, err
}

func (r *TransactionRepository) Update(tx *models.Transaction) error {
	if tx.ID == 0 {
		return validationErr("transaction id is required")
	}
	tx.Description = strings.TrimSpace(tx.Description)
	tx.Notes = strings.TrimSpace(tx.Notes)
	if err := r.validate(tx); err != nil {
		return err
	}

	existing, err := r.GetByID(tx.ID)
	if err != nil {
		return err
	}
	if err := r.validateRefs(tx); err != nil {
		return err
	}

	existing.CategoryID = tx.CategoryID
	existing.Amount = tx.Amount
	existing.Type = tx.Type
	existing.Fixed = tx.Fixed
	existing.Periodicity = tx.Periodicity
	existing.NextExecution = tx.NextExecution
	existing.Description = tx.Description
	existing.Notes = tx.Notes
	if !tx.OccurredAt.IsZero() {
		existing.OccurredAt = tx.OccurredAt
	}
	existing.InstallmentID = tx.InstallmentID

	if err := r.db.Save(existing).Error; err != nil {
		return conflictErr("could not update transaction", err)
	}
	*tx = *existing
	return nil
}

func (r *TransactionRepository) Delete(id uint) error {
	if id == 0 {
		return validationErr("transaction id is required")
	}
	if _, err := r.GetByID(id); err != nil {
		return err
	}
	return r.db.Delete(&models.Transaction{}, id).Error
}
