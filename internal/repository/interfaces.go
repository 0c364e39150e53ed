package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/debtfree/engine/internal/domain"
)

// DebtRepository defines the interface for debt data operations
type DebtRepository interface {
	// CreateWithSchedule inserts a debt and its full payment schedule in one
	// transaction. Partial schedules are never visible to readers.
	CreateWithSchedule(ctx context.Context, debt *domain.Debt, schedule []*domain.Payment) error

	// GetByID retrieves a debt by its ID
	GetByID(ctx context.Context, debtID uuid.UUID) (*domain.Debt, error)

	// ListByOwner retrieves all debts belonging to an owner
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Debt, error)

	// Update persists edited debt fields
	Update(ctx context.Context, debt *domain.Debt) error

	// ReplaceSchedule updates the debt's terms, removes its upcoming
	// payments, and inserts the regenerated schedule in one transaction.
	// Completed payments are kept as history.
	ReplaceSchedule(ctx context.Context, debt *domain.Debt, schedule []*domain.Payment) error

	// Delete removes a debt and cascades to all of its payments
	Delete(ctx context.Context, debtID uuid.UUID) error
}

// PaymentRepository defines the interface for payment data operations
type PaymentRepository interface {
	// GetByID retrieves a single payment
	GetByID(ctx context.Context, paymentID uuid.UUID) (*domain.Payment, error)

	// GetByDebtID retrieves a debt's payments ordered by sequence
	GetByDebtID(ctx context.Context, debtID uuid.UUID) ([]*domain.Payment, error)

	// GetByOwnerAndStatus retrieves an owner's payments filtered by status
	GetByOwnerAndStatus(ctx context.Context, ownerID, status string) ([]*domain.Payment, error)

	// Complete marks a payment completed with the amount and paid date
	Complete(ctx context.Context, payment *domain.Payment) error

	// GetUpcomingDueBetween retrieves upcoming payments due inside the window,
	// restricted to debts with reminders enabled
	GetUpcomingDueBetween(ctx context.Context, from, to time.Time) ([]*domain.Payment, error)
}
