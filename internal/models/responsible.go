package models

import "time"

// Responsible is an optional party accountable for a debt. It may point
// at another registered user through RelatedUserID.
type Responsible struct {
	ID            uint   `gorm:"primaryKey"`
	UserID        uint   `gorm:"index;not null"`
	Name          string `gorm:"size:64"`
	RelatedUserID *uint  `gorm:"index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
