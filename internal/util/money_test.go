package util

import (
	"testing"
)

func TestParseAmount_Valid(t *testing.T) {
	testCases := []struct {
		in   string
		want int64
	}{
		{"0.01", 1},
		{"1", 100},
		{"300.00", 30000},
		{"300.5", 30050},
		{"  42.10 ", 4210},
		{"1234567.89", 123456789},
		{"-3.50", -350},
	}

	for _, tc := range testCases {
		got, err := ParseAmount(tc.in)
		if err != nil {
			t.Errorf("ParseAmount(%q) error = %v, want nil", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseAmount(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestParseAmount_Invalid(t *testing.T) {
	testCases := []string{"", "   ", "abc", "1,50", "12.34.56"}

	for _, tc := range testCases {
		if _, err := ParseAmount(tc); err == nil {
			t.Errorf("ParseAmount(%q) error = nil, want error", tc)
		}
	}
}

func TestFormatAmount(t *testing.T) {
	testCases := []struct {
		in   int64
		want string
	}{
		{0, "0.00"},
		{1, "0.01"},
		{30000, "300.00"},
		{30050, "300.50"},
		{-350, "-3.50"},
	}

	for _, tc := range testCases {
		if got := FormatAmount(tc.in); got != tc.want {
			t.Errorf("FormatAmount(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestAmountRoundTrip(t *testing.T) {
	for _, cents := range []int64{1, 99, 100, 12345, 9999999} {
		got, err := ParseAmount(FormatAmount(cents))
		if err != nil {
			t.Errorf("round trip %d: %v", cents, err)
			continue
		}
		if got != cents {
			t.Errorf("round trip %d = %d", cents, got)
		}
	}
}
