package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/debtfree/engine/internal/domain"
)

type debtRepository struct {
	db *sqlx.DB
}

func NewDebtRepository(db *sqlx.DB) DebtRepository {
	return &debtRepository{db: db}
}

const insertDebtQuery = `
	INSERT INTO debts (id, owner_id, name, debt_type, lender, notes, current_balance, apr, minimum_payment,
		min_payment_calc, payment_frequency, next_payment_date, paid_amount, reminders_enabled, status, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
`

const insertPaymentQuery = `
	INSERT INTO payments (id, debt_id, owner_id, sequence, balance, amount_due, amount_paid, due_date, paid_date, status, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
`

func (r *debtRepository) CreateWithSchedule(ctx context.Context, debt *domain.Debt, schedule []*domain.Payment) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, insertDebtQuery,
		debt.ID,
		debt.OwnerID,
		debt.Name,
		debt.DebtType,
		debt.Lender,
		debt.Notes,
		debt.CurrentBalance,
		debt.APR,
		debt.MinimumPayment,
		debt.MinPaymentCalc,
		debt.PaymentFrequency,
		debt.NextPaymentDate,
		debt.PaidAmount,
		debt.RemindersEnabled,
		debt.Status,
		debt.CreatedAt,
		debt.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if err = insertSchedule(ctx, tx, schedule); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *debtRepository) GetByID(ctx context.Context, debtID uuid.UUID) (*domain.Debt, error) {
	query := `
		SELECT id, owner_id, name, debt_type, lender, notes, current_balance, apr, minimum_payment,
			min_payment_calc, payment_frequency, next_payment_date, paid_amount, reminders_enabled, status, created_at, updated_at
		FROM debts
		WHERE id = $1
	`

	var debt domain.Debt
	err := r.db.GetContext(ctx, &debt, query, debtID)
	if err != nil {
		return nil, err
	}

	return &debt, nil
}

func (r *debtRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Debt, error) {
	query := `
		SELECT id, owner_id, name, debt_type, lender, notes, current_balance, apr, minimum_payment,
			min_payment_calc, payment_frequency, next_payment_date, paid_amount, reminders_enabled, status, created_at, updated_at
		FROM debts
		WHERE owner_id = $1
		ORDER BY created_at
	`

	var debts []*domain.Debt
	err := r.db.SelectContext(ctx, &debts, query, ownerID)
	if err != nil {
		return nil, err
	}

	return debts, nil
}

func (r *debtRepository) Update(ctx context.Context, debt *domain.Debt) error {
	query := `
		UPDATE debts
		SET name = $2, lender = $3, notes = $4, current_balance = $5, apr = $6, minimum_payment = $7,
			payment_frequency = $8, next_payment_date = $9, paid_amount = $10, reminders_enabled = $11,
			status = $12, updated_at = $13
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query,
		debt.ID,
		debt.Name,
		debt.Lender,
		debt.Notes,
		debt.CurrentBalance,
		debt.APR,
		debt.MinimumPayment,
		debt.PaymentFrequency,
		debt.NextPaymentDate,
		debt.PaidAmount,
		debt.RemindersEnabled,
		debt.Status,
		time.Now(),
	)

	return err
}

func (r *debtRepository) ReplaceSchedule(ctx context.Context, debt *domain.Debt, schedule []*domain.Payment) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	updateQuery := `
		UPDATE debts
		SET name = $2, lender = $3, notes = $4, current_balance = $5, apr = $6, minimum_payment = $7,
			payment_frequency = $8, next_payment_date = $9, reminders_enabled = $10, updated_at = $11
		WHERE id = $1
	`

	_, err = tx.ExecContext(ctx, updateQuery,
		debt.ID,
		debt.Name,
		debt.Lender,
		debt.Notes,
		debt.CurrentBalance,
		debt.APR,
		debt.MinimumPayment,
		debt.PaymentFrequency,
		debt.NextPaymentDate,
		debt.RemindersEnabled,
		time.Now(),
	)
	if err != nil {
		return err
	}

	// At most one live schedule per debt: drop the stale upcoming batch,
	// keep completed payments as history.
	_, err = tx.ExecContext(ctx,
		`DELETE FROM payments WHERE debt_id = $1 AND status = $2`,
		debt.ID, domain.PaymentStatusUpcoming,
	)
	if err != nil {
		return err
	}

	if err = insertSchedule(ctx, tx, schedule); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *debtRepository) Delete(ctx context.Context, debtID uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err = tx.ExecContext(ctx, `DELETE FROM payments WHERE debt_id = $1`, debtID); err != nil {
		return err
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM debts WHERE id = $1`, debtID); err != nil {
		return err
	}

	return tx.Commit()
}

func insertSchedule(ctx context.Context, tx *sqlx.Tx, schedule []*domain.Payment) error {
	for _, payment := range schedule {
		_, err := tx.ExecContext(ctx, insertPaymentQuery,
			payment.ID,
			payment.DebtID,
			payment.OwnerID,
			payment.Sequence,
			payment.Balance,
			payment.AmountDue,
			payment.AmountPaid,
			payment.DueDate,
			payment.PaidDate,
			payment.Status,
			payment.CreatedAt,
		)
		if err != nil {
			return err
		}
	}

	return nil
}
