package models

import "time"

// Transaction types.
const (
	TxIncome  = "income"
	TxExpense = "expense"
)

// Periodicity values for fixed transactions.
const (
	PeriodicityNone    = "none"
	PeriodicityMonthly = "monthly"
	PeriodicityWeekly  = "weekly"
	PeriodicityYearly  = "yearly"
)

// Transaction is an income/expense event. Fixed rows are recurring
// templates carrying a periodicity tag; one-off rows carry a date.
// NextExecution is stored but no automation advances it.
type Transaction struct {
	ID            uint       `gorm:"primaryKey"`
	UserID        uint       `gorm:"index;not null"`
	CategoryID    *uint      `gorm:"index"`
	Amount        int64      `gorm:"not null"` // cents
	Type          string     `gorm:"size:16;index;not null"`
	Fixed         bool       `gorm:"index;not null"`
	Periodicity   string     `gorm:"size:16;not null;default:none"`
	NextExecution *time.Time
	Description   string     `gorm:"size:255"`
	Notes         string     `gorm:"type:text"`
	OccurredAt    time.Time  `gorm:"index;not null"`
	InstallmentID *uint      `gorm:"index"` // set when this records an installment payment
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
