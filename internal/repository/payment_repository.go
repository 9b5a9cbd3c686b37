package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/junta-app/junta-engine/internal/domain"
)

type paymentRepository struct {
	db sqlx.ExtContext
}

func NewPaymentRepository(db *sqlx.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

const paymentColumns = `
	id, loan_id, date, amount, principal_paid, interest_paid, remaining_amount,
	remaining_installments, first_installment, last_installment, different_payment, reversed_at, created_at
`

func (r *paymentRepository) Create(ctx context.Context, payment *domain.PaymentHistory) error {
	query := `
		INSERT INTO payment_history (id, loan_id, date, amount, principal_paid, interest_paid,
			remaining_amount, remaining_installments, first_installment, last_installment,
			different_payment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.ExecContext(ctx, query,
		payment.ID,
		payment.LoanID,
		payment.Date,
		payment.Amount,
		payment.PrincipalPaid,
		payment.InterestPaid,
		payment.RemainingAmount,
		payment.RemainingInstallments,
		payment.FirstInstallment,
		payment.LastInstallment,
		payment.DifferentPayment,
		payment.CreatedAt,
	)

	return err
}

func (r *paymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.PaymentHistory, error) {
	query := `SELECT ` + paymentColumns + ` FROM payment_history WHERE id = $1`

	var payment domain.PaymentHistory
	if err := sqlx.GetContext(ctx, r.db, &payment, query, id); err != nil {
		return nil, err
	}

	return &payment, nil
}

func (r *paymentRepository) GetByLoanID(ctx context.Context, loanID uuid.UUID) ([]*domain.PaymentHistory, error) {
	query := `SELECT ` + paymentColumns + `
		FROM payment_history
		WHERE loan_id = $1 AND reversed_at IS NULL
		ORDER BY date, created_at
	`

	var payments []*domain.PaymentHistory
	if err := sqlx.SelectContext(ctx, r.db, &payments, query, loanID); err != nil {
		return nil, err
	}

	return payments, nil
}

func (r *paymentRepository) MarkReversed(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `UPDATE payment_history SET reversed_at = $2 WHERE id = $1 AND reversed_at IS NULL`

	_, err := r.db.ExecContext(ctx, query, id, at)
	return err
}
