package models

import "time"

// DebtOrigin is the source/creditor of a debt, e.g. "Credit Card".
type DebtOrigin struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"index;not null"`
	Name      string    `gorm:"size:64;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
