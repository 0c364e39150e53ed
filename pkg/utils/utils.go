package utils

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthlyRate converts an annual percentage rate on the 0-100 scale to a
// monthly periodic rate: apr / 100 / 12.
func MonthlyRate(aprPercent decimal.Decimal) decimal.Decimal {
	return aprPercent.Div(decimal.NewFromInt(1200))
}

// NextDueDate steps a due date forward by one period of the given frequency.
// Unrecognized frequencies step by one calendar month.
func NextDueDate(current time.Time, frequency string) time.Time {
	switch frequency {
	case "weekly":
		return current.AddDate(0, 0, 7)
	case "biweekly":
		return current.AddDate(0, 0, 14)
	default:
		return current.AddDate(0, 1, 0)
	}
}

// ClampProgress bounds a payoff fraction to [0, 1] for display.
func ClampProgress(progress decimal.Decimal) decimal.Decimal {
	if progress.IsNegative() {
		return decimal.Zero
	}
	one := decimal.NewFromInt(1)
	if progress.GreaterThan(one) {
		return one
	}
	return progress
}

// Progress computes paidAmount / currentBalance, clamped to [0, 1].
// A non-positive balance reports zero progress rather than dividing by it.
func Progress(paidAmount, currentBalance decimal.Decimal) decimal.Decimal {
	if !currentBalance.IsPositive() {
		return decimal.Zero
	}
	return ClampProgress(paidAmount.Div(currentBalance))
}

// IsDateWithin reports whether due falls inside the window [now, now+lead].
func IsDateWithin(due, now time.Time, lead time.Duration) bool {
	return !due.Before(now) && !due.After(now.Add(lead))
}

// DecimalFromFloat converts float64 to decimal.Decimal
func DecimalFromFloat(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

// DecimalFromString converts string to decimal.Decimal
func DecimalFromString(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}
