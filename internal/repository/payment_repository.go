package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/debtfree/engine/internal/domain"
)

type paymentRepository struct {
	db *sqlx.DB
}

func NewPaymentRepository(db *sqlx.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

const paymentColumns = `id, debt_id, owner_id, sequence, balance, amount_due, amount_paid, due_date, paid_date, status, created_at`

func (r *paymentRepository) GetByID(ctx context.Context, paymentID uuid.UUID) (*domain.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE id = $1
	`

	var payment domain.Payment
	err := r.db.GetContext(ctx, &payment, query, paymentID)
	if err != nil {
		return nil, err
	}

	return &payment, nil
}

func (r *paymentRepository) GetByDebtID(ctx context.Context, debtID uuid.UUID) ([]*domain.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE debt_id = $1
		ORDER BY sequence
	`

	var payments []*domain.Payment
	err := r.db.SelectContext(ctx, &payments, query, debtID)
	if err != nil {
		return nil, err
	}

	return payments, nil
}

func (r *paymentRepository) GetByOwnerAndStatus(ctx context.Context, ownerID, status string) ([]*domain.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE owner_id = $1 AND status = $2
		ORDER BY due_date
	`

	var payments []*domain.Payment
	err := r.db.SelectContext(ctx, &payments, query, ownerID, status)
	if err != nil {
		return nil, err
	}

	return payments, nil
}

func (r *paymentRepository) Complete(ctx context.Context, payment *domain.Payment) error {
	query := `
		UPDATE payments
		SET amount_paid = $2, paid_date = $3, status = $4
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query,
		payment.ID,
		payment.AmountPaid,
		payment.PaidDate,
		payment.Status,
	)

	return err
}

func (r *paymentRepository) GetUpcomingDueBetween(ctx context.Context, from, to time.Time) ([]*domain.Payment, error) {
	query := `
		SELECT p.id, p.debt_id, p.owner_id, p.sequence, p.balance, p.amount_due, p.amount_paid, p.due_date, p.paid_date, p.status, p.created_at
		FROM payments p
		JOIN debts d ON d.id = p.debt_id
		WHERE p.status = $1 AND p.due_date >= $2 AND p.due_date <= $3 AND d.reminders_enabled = TRUE
		ORDER BY p.due_date
	`

	var payments []*domain.Payment
	err := r.db.SelectContext(ctx, &payments, query, domain.PaymentStatusUpcoming, from, to)
	if err != nil {
		return nil, err
	}

	return payments, nil
}
