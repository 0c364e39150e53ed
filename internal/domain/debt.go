package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	DebtStatusActive  = "active"
	DebtStatusPaidOff = "paid_off"
)

// Payment frequencies accepted on debt terms. Anything else falls back to
// monthly stepping when the schedule is built.
const (
	FrequencyMonthly  = "monthly"
	FrequencyBiweekly = "biweekly"
	FrequencyWeekly   = "weekly"
)

const (
	MinPaymentCalcFixed      = "fixed"
	MinPaymentCalcPercentage = "percentage"
)

// Debt represents a tracked debt with its repayment terms
type Debt struct {
	ID               uuid.UUID       `json:"id" db:"id"`
	OwnerID          string          `json:"owner_id" db:"owner_id"`
	Name             string          `json:"name" db:"name"`
	DebtType         string          `json:"debt_type" db:"debt_type"`
	Lender           string          `json:"lender" db:"lender"`
	Notes            string          `json:"notes" db:"notes"`
	CurrentBalance   decimal.Decimal `json:"current_balance" db:"current_balance"`
	APR              decimal.Decimal `json:"apr" db:"apr"`
	MinimumPayment   decimal.Decimal `json:"minimum_payment" db:"minimum_payment"`
	MinPaymentCalc   string          `json:"min_payment_calc" db:"min_payment_calc"`
	PaymentFrequency string          `json:"payment_frequency" db:"payment_frequency"`
	NextPaymentDate  time.Time       `json:"next_payment_date" db:"next_payment_date"`
	PaidAmount       decimal.Decimal `json:"paid_amount" db:"paid_amount"`
	RemindersEnabled bool            `json:"reminders_enabled" db:"reminders_enabled"`
	Status           string          `json:"status" db:"status"`
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at" db:"updated_at"`
}

// DTOs for requests and responses

type CreateDebtRequest struct {
	OwnerID          string          `json:"owner_id" validate:"required"`
	Name             string          `json:"name" validate:"required"`
	DebtType         string          `json:"debt_type"`
	Lender           string          `json:"lender"`
	Notes            string          `json:"notes"`
	CurrentBalance   decimal.Decimal `json:"current_balance" validate:"required"`
	APR              decimal.Decimal `json:"apr"`
	MinimumPayment   decimal.Decimal `json:"minimum_payment" validate:"required"`
	MinPaymentCalc   string          `json:"min_payment_calc" validate:"omitempty,oneof=fixed percentage"`
	PaymentFrequency string          `json:"payment_frequency" validate:"omitempty,oneof=monthly biweekly weekly"`
	NextPaymentDate  time.Time       `json:"next_payment_date" validate:"required"`
	RemindersEnabled bool            `json:"reminders_enabled"`
}

type UpdateDebtTermsRequest struct {
	Name             string          `json:"name"`
	Lender           string          `json:"lender"`
	Notes            string          `json:"notes"`
	CurrentBalance   decimal.Decimal `json:"current_balance" validate:"required"`
	APR              decimal.Decimal `json:"apr"`
	MinimumPayment   decimal.Decimal `json:"minimum_payment" validate:"required"`
	PaymentFrequency string          `json:"payment_frequency" validate:"omitempty,oneof=monthly biweekly weekly"`
	NextPaymentDate  time.Time       `json:"next_payment_date" validate:"required"`
	RemindersEnabled bool            `json:"reminders_enabled"`
}

type CreateDebtResponse struct {
	Debt     *Debt      `json:"debt"`
	Schedule []*Payment `json:"schedule"`
}
