package util

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseAmount converts a decimal string ("300.00") to cents. Amounts are
// handled as int64 cents end to end to avoid float drift.
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("amount is empty")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount: %w", err)
	}
	if f < 0 {
		return int64(f*100 - 0.5), nil
	}
	return int64(f*100 + 0.5), nil
}

// FormatAmount renders cents as a two-decimal string.
func FormatAmount(cents int64) string {
	return strconv.FormatFloat(float64(cents)/100.0, 'f', 2, 64)
}
