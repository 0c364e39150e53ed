package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	PaymentStatusUpcoming  = "upcoming"
	PaymentStatusCompleted = "completed"
)

// Payment is one installment of a debt's schedule. Balance holds the debt's
// projected remaining balance as of this installment, before the payment.
type Payment struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	DebtID     uuid.UUID       `json:"debt_id" db:"debt_id"`
	OwnerID    string          `json:"owner_id" db:"owner_id"`
	Sequence   int             `json:"sequence" db:"sequence"`
	Balance    decimal.Decimal `json:"balance" db:"balance"`
	AmountDue  decimal.Decimal `json:"amount_due" db:"amount_due"`
	AmountPaid decimal.Decimal `json:"amount_paid" db:"amount_paid"`
	DueDate    time.Time       `json:"due_date" db:"due_date"`
	PaidDate   *time.Time      `json:"paid_date,omitempty" db:"paid_date"`
	Status     string          `json:"status" db:"status"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
}

type CompletePaymentRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required"`
}

type ScheduleResponse struct {
	DebtID   uuid.UUID  `json:"debt_id"`
	Schedule []*Payment `json:"schedule"`
}
