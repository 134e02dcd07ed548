// Package scheduler derives a debt's installment schedule and keeps the
// persisted set consistent with the debt's amount, date and count.
package scheduler

import (
	"time"

	"github.com/Flinmt/pinanca/internal/models"

	"gorm.io/gorm"
)

// AmountPolicy decides how much each generated installment carries.
type AmountPolicy int

const (
	// FullAmount gives every installment the debt's full total. This
	// mirrors the system's historical behavior and is the default.
	FullAmount AmountPolicy = iota
	// SplitEvenly divides the total in cents across the schedule; the
	// remainder lands on the last installment.
	SplitEvenly
)

// AddMonths returns base shifted forward by offset calendar months,
// clamping the day to the last day of the target month: one month after
// Jan 31 is Feb 28 (29 in a leap year), never an overflow into March.
func AddMonths(base time.Time, offset int) time.Time {
	monthIndex := int(base.Month()) - 1 + offset
	year := base.Year() + monthIndex/12
	month := time.Month(monthIndex%12 + 1)

	day := base.Day()
	if last := lastDayOfMonth(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, base.Location())
}

// lastDayOfMonth exploits the normalization of day zero: the zeroth day
// of the next month is the last day of this one.
func lastDayOfMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Scheduler generates and synchronizes installment schedules.
type Scheduler struct {
	db     *gorm.DB
	policy AmountPolicy
}

func New(db *gorm.DB) *Scheduler {
	return &Scheduler{db: db, policy: FullAmount}
}

func NewWithPolicy(db *gorm.DB, policy AmountPolicy) *Scheduler {
	return &Scheduler{db: db, policy: policy}
}

// Generate produces the debt's full schedule: numbers 1..n, due dates one
// calendar month apart starting at the debt date, paid state inherited
// from the debt's own flag at generation time. Pure; nothing is persisted.
func (s *Scheduler) Generate(debt *models.Debt, now time.Time) []models.DebtInstallment {
	n := debt.Installments
	if n < 1 {
		return nil
	}

	insts := make([]models.DebtInstallment, 0, n)
	for idx := 0; idx < n; idx++ {
		inst := models.DebtInstallment{
			DebtID: debt.ID,
			Number: idx + 1,
			Amount: s.installmentAmount(debt, idx),
			DueOn:  AddMonths(debt.DebtDate, idx),
			Paid:   debt.Paid,
		}
		if debt.Paid {
			paidAt := now
			inst.PaidAt = &paidAt
		}
		insts = append(insts, inst)
	}
	return insts
}

func (s *Scheduler) installmentAmount(debt *models.Debt, idx int) int64 {
	if s.policy == FullAmount {
		return debt.TotalAmount
	}
	n := int64(debt.Installments)
	base := debt.TotalAmount / n
	if idx == debt.Installments-1 {
		return base + debt.TotalAmount%n
	}
	return base
}

// Sync replaces the debt's persisted installment set with a freshly
// generated one. Prior per-installment paid state is deliberately
// discarded. The delete and the inserts run in a single transaction, so
// a failure leaves the previous schedule untouched.
//
// A non-positive total is treated as a transient invalid call and skipped
// silently; debts are validated to positive totals on every write path.
func (s *Scheduler) Sync(debt *models.Debt) error {
	if debt.TotalAmount <= 0 {
		return nil
	}

	insts := s.Generate(debt, time.Now().UTC())
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("debt_id = ?", debt.ID).
			Delete(&models.DebtInstallment{}).Error; err != nil {
			return err
		}
		return tx.Create(&insts).Error
	})
}
