package payroll

import (
	"errors"
	"testing"
)

func TestValidateRates(t *testing.T) {
	valid := [][2]float64{{12, 10}, {0, 0}, {50, 49.9}}
	for _, r := range valid {
		if err := ValidateRates(r[0], r[1]); err != nil {
			t.Fatalf("rates %v should be valid: %v", r, err)
		}
	}
	invalid := [][2]float64{{-1, 10}, {12, -0.1}, {101, 0}, {50, 50}, {60, 45}}
	for _, r := range invalid {
		if err := ValidateRates(r[0], r[1]); !errors.Is(err, ErrInvalidSettings) {
			t.Fatalf("rates %v should be rejected, got %v", r, err)
		}
	}
}
