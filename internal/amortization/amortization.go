package amortization

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/debtfree/engine/internal/domain"
	customError "github.com/debtfree/engine/pkg/errors"
	"github.com/debtfree/engine/pkg/utils"
)

// Business logic constants
const (
	// DefaultMaxPeriods bounds every schedule loop (100 years of monthly
	// installments). Generation that has not reached zero balance by then
	// reports ErrScheduleNotConverged instead of spinning.
	DefaultMaxPeriods = 1200

	// interestSafetyMultiple stops the cost-breakdown accumulation once total
	// interest exceeds this multiple of the starting balance.
	interestSafetyMultiple = 10
)

// scheduleEpsilon is the residual balance below which a schedule is done:
// 0.01 currency units.
var scheduleEpsilon = decimal.New(1, -2)

// Milestones are the payoff-progress fractions that trigger a user-facing
// notification. A milestone counts as reached when progress >= threshold.
var Milestones = []decimal.Decimal{
	decimal.New(25, -2),
	decimal.New(50, -2),
	decimal.New(75, -2),
	decimal.New(1, 0),
}

// Terms carries the financial inputs for schedule generation.
type Terms struct {
	Balance    decimal.Decimal
	Payment    decimal.Decimal
	APRPercent decimal.Decimal
	Frequency  string
	StartDate  time.Time
}

// Installment is one generated schedule entry. Balance is the projected
// remaining balance before the installment's payment is applied.
type Installment struct {
	Sequence  int
	Balance   decimal.Decimal
	AmountDue decimal.Decimal
	DueDate   time.Time
}

func validateTerms(balance, payment, aprPercent decimal.Decimal) error {
	if !balance.IsPositive() {
		return customError.WrapInvalidDebtTerms("balance must be greater than zero")
	}
	if !payment.IsPositive() {
		return customError.WrapInvalidDebtTerms("minimum payment must be greater than zero")
	}
	if aprPercent.IsNegative() || aprPercent.GreaterThan(decimal.NewFromInt(100)) {
		return customError.WrapInvalidDebtTerms("apr must be between 0 and 100")
	}
	return nil
}

// Periods returns the whole number of monthly periods needed to amortize
// balance with the given payment, rounded up. A payment that does not cover
// one month's interest returns ErrUnpayableDebt.
func Periods(balance, payment, aprPercent decimal.Decimal) (int, error) {
	if err := validateTerms(balance, payment, aprPercent); err != nil {
		return 0, err
	}

	rate := utils.MonthlyRate(aprPercent)
	if rate.IsZero() {
		return int(balance.Div(payment).Ceil().IntPart()), nil
	}

	// r*balance/payment >= 1 makes the log argument non-positive: the balance
	// never reaches zero.
	monthlyInterest := rate.Mul(balance)
	if monthlyInterest.GreaterThanOrEqual(payment) {
		return 0, customError.ErrUnpayableDebt
	}

	// n = -ln(1 - r*B/P) / ln(1+r), the closed-form amortization period
	// count. decimal has no logarithm, so this one step runs in float64.
	r := rate.InexactFloat64()
	ratio := monthlyInterest.Div(payment).InexactFloat64()
	n := -math.Log(1-ratio) / math.Log(1+r)

	return int(math.Ceil(n)), nil
}

// PayoffProjection computes the period count and projected payoff date.
// The date steps whole calendar months from asOf regardless of the debt's
// payment frequency, matching how payoff dates are displayed.
func PayoffProjection(balance, payment, aprPercent decimal.Decimal, asOf time.Time) (*domain.PayoffProjection, error) {
	periods, err := Periods(balance, payment, aprPercent)
	if err != nil {
		return nil, err
	}

	return &domain.PayoffProjection{
		Periods:    periods,
		PayoffDate: asOf.AddDate(0, periods, 0),
	}, nil
}

// BuildSchedule generates the full installment sequence for the given terms:
// each period accrues one month of interest, the installment is the minimum
// payment capped at the remaining payoff amount, and generation stops once
// the projected balance falls to 0.01 or below. maxPeriods <= 0 uses
// DefaultMaxPeriods.
func BuildSchedule(terms Terms, maxPeriods int) ([]Installment, error) {
	if err := validateTerms(terms.Balance, terms.Payment, terms.APRPercent); err != nil {
		return nil, err
	}
	if maxPeriods <= 0 {
		maxPeriods = DefaultMaxPeriods
	}

	rate := utils.MonthlyRate(terms.APRPercent)
	balance := terms.Balance
	dueDate := terms.StartDate

	var schedule []Installment
	for seq := 1; balance.GreaterThan(scheduleEpsilon); seq++ {
		if seq > maxPeriods {
			return nil, customError.ErrScheduleNotConverged
		}

		interest := balance.Mul(rate).Round(2)
		payoff := balance.Add(interest)

		amountDue := terms.Payment
		if payoff.LessThan(amountDue) {
			amountDue = payoff
		}

		schedule = append(schedule, Installment{
			Sequence:  seq,
			Balance:   balance.Round(2),
			AmountDue: amountDue.Round(2),
			DueDate:   dueDate,
		})

		balance = payoff.Sub(amountDue)
		dueDate = utils.NextDueDate(dueDate, terms.Frequency)
	}

	return schedule, nil
}

// CostBreakdown splits the lifetime cost of the debt into principal and
// interest. Principal is always the input balance. When the payment cannot
// cover one period's interest, or accumulated interest blows past the safety
// bound, the breakdown is reported as unbounded rather than looping.
func CostBreakdown(balance, payment, aprPercent decimal.Decimal) (*domain.CostBreakdown, error) {
	if err := validateTerms(balance, payment, aprPercent); err != nil {
		return nil, err
	}

	rate := utils.MonthlyRate(aprPercent)
	guard := balance.Mul(decimal.NewFromInt(interestSafetyMultiple))

	remaining := balance
	totalInterest := decimal.Zero

	for i := 0; remaining.IsPositive(); i++ {
		if i >= DefaultMaxPeriods {
			return &domain.CostBreakdown{Principal: balance, Interest: totalInterest.Round(2), Unbounded: true}, nil
		}

		interest := remaining.Mul(rate)
		if !rate.IsZero() && interest.GreaterThanOrEqual(payment) {
			return &domain.CostBreakdown{Principal: balance, Interest: totalInterest.Round(2), Unbounded: true}, nil
		}

		totalInterest = totalInterest.Add(interest)
		if totalInterest.GreaterThan(guard) {
			return &domain.CostBreakdown{Principal: balance, Interest: totalInterest.Round(2), Unbounded: true}, nil
		}

		remaining = remaining.Sub(payment.Sub(interest))
	}

	return &domain.CostBreakdown{
		Principal: balance,
		Interest:  totalInterest.Round(2),
	}, nil
}

// MonthlyBreakdown returns the per-period principal/interest split for up to
// the first `periods` months. It stops early once the balance is cleared or
// once a period's interest meets the payment and no further progress is
// possible. Pure function: identical inputs yield identical sequences.
func MonthlyBreakdown(balance, payment, aprPercent decimal.Decimal, periods int) ([]domain.MonthlyBreakdownEntry, error) {
	if err := validateTerms(balance, payment, aprPercent); err != nil {
		return nil, err
	}

	rate := utils.MonthlyRate(aprPercent)
	remaining := balance

	entries := make([]domain.MonthlyBreakdownEntry, 0, periods)
	for month := 1; month <= periods && remaining.IsPositive(); month++ {
		interest := remaining.Mul(rate)
		if !rate.IsZero() && interest.GreaterThanOrEqual(payment) {
			break
		}

		principal := payment.Sub(interest)
		if principal.GreaterThan(remaining) {
			principal = remaining
		}

		entries = append(entries, domain.MonthlyBreakdownEntry{
			Month:            month,
			Principal:        principal.Round(2),
			Interest:         interest.Round(2),
			RemainingBalance: remaining.Round(2),
		})

		remaining = remaining.Sub(principal)
	}

	return entries, nil
}

// MilestonesReached returns every milestone threshold the given progress
// fraction has crossed (progress >= threshold).
func MilestonesReached(progress decimal.Decimal) []decimal.Decimal {
	var reached []decimal.Decimal
	for _, m := range Milestones {
		if progress.GreaterThanOrEqual(m) {
			reached = append(reached, m)
		}
	}
	return reached
}
