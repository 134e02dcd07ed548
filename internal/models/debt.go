package models

import "time"

// Debt is a financial obligation with a generated installment schedule.
// Amounts are stored in cents to avoid float drift.
type Debt struct {
	ID            uint      `gorm:"primaryKey"`
	UserID        uint      `gorm:"index;not null"`
	OriginID      uint      `gorm:"index;not null"`
	CategoryID    *uint     `gorm:"index"`
	ResponsibleID *uint     `gorm:"index"`
	DebtDate      time.Time `gorm:"index;not null"` // due date of installment #1
	Description   string    `gorm:"size:255"`
	TotalAmount   int64     `gorm:"not null"` // cents
	Installments  int       `gorm:"not null"`
	Notes         string    `gorm:"type:text"`
	// Paid is a manual summary flag. It is independent of the per
	// installment paid state and is never derived from it.
	Paid      bool `gorm:"index;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
