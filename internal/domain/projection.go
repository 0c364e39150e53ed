package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayoffProjection is the closed-form amortization result for a debt.
type PayoffProjection struct {
	Periods    int       `json:"periods"`
	PayoffDate time.Time `json:"payoff_date"`
}

// CostBreakdown splits the lifetime cost of a debt into principal and
// interest. Unbounded is set when the minimum payment never covers accruing
// interest, in which case Interest holds the accumulated amount at the point
// the computation stopped.
type CostBreakdown struct {
	Principal decimal.Decimal `json:"principal"`
	Interest  decimal.Decimal `json:"interest"`
	Unbounded bool            `json:"unbounded"`
}

// MonthlyBreakdownEntry is one period of the principal/interest split used by
// reporting. RemainingBalance is the balance before that period's payment.
type MonthlyBreakdownEntry struct {
	Month            int             `json:"month"`
	Principal        decimal.Decimal `json:"principal"`
	Interest         decimal.Decimal `json:"interest"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
}

type ProgressResponse struct {
	DebtID     string          `json:"debt_id"`
	Progress   decimal.Decimal `json:"progress"`
	Milestones []string        `json:"milestones"`
}
