package util

import (
	"fmt"
	"time"
)

// ValidateAmountCents checks that an amount is positive and under the
// application ceiling.
func ValidateAmountCents(cents int64) error {
	if cents <= 0 {
		return fmt.Errorf("amount must be positive, got %d", cents)
	}
	if cents >= 1_000_000_000_00 { // one billion units
		return fmt.Errorf("amount too large, got %d", cents)
	}
	return nil
}

// ValidateDate checks the YYYY-MM-DD format and returns the parsed date.
func ValidateDate(dateStr string) (time.Time, error) {
	if dateStr == "" {
		return time.Time{}, fmt.Errorf("date is empty")
	}
	t, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format: %w", err)
	}
	return t, nil
}

// ValidateName checks a reference-data name (category, origin).
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("name is empty")
	}
	if len(name) > 64 {
		return fmt.Errorf("name too long, max 64 characters")
	}
	return nil
}
