package service

import (
	"fmt"
	"math"
	"strings"

	"artfoundation/internal/model"
)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// toMinorUnits converts a decimal amount to cents, rounding half away from zero.
func toMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func validationErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", model.ErrValidation, fmt.Sprintf(format, args...))
}

func validAmount(amount float64) bool {
	return !math.IsNaN(amount) && !math.IsInf(amount, 0) && amount >= 0
}
