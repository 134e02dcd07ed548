package models

import "time"

// DebtInstallment is one scheduled due-date/amount unit of a debt. The
// whole set is regenerated whenever the owning debt's amount, date or
// installment count changes.
type DebtInstallment struct {
	ID        uint      `gorm:"primaryKey"`
	DebtID    uint      `gorm:"index;not null"`
	Number    int       `gorm:"not null"` // 1-based position
	Amount    int64     `gorm:"not null"` // cents
	DueOn     time.Time `gorm:"index;not null"`
	Paid      bool      `gorm:"index;not null"`
	PaidAt    *time.Time // set on false->true, cleared on true->false
	CreatedAt time.Time
	UpdatedAt time.Time
}
