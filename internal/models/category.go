package models

import "time"

// Category labels debts and transactions. Owned by a single user.
type Category struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"index;not null"`
	Name      string    `gorm:"size:64;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
