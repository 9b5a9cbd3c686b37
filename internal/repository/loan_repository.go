package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/junta-app/junta-engine/internal/domain"
)

type loanRepository struct {
	db sqlx.ExtContext
}

func NewLoanRepository(db *sqlx.DB) LoanRepository {
	return &loanRepository{db: db}
}

func (r *loanRepository) Create(ctx context.Context, loan *domain.Loan) error {
	query := `
		INSERT INTO loans (id, member_id, junta_id, code, amount, monthly_rate, installment_count,
			payment_type, request_date, status, remaining_amount, remaining_installments, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.db.ExecContext(ctx, query,
		loan.ID,
		loan.MemberID,
		loan.JuntaID,
		loan.Code,
		loan.Amount,
		loan.MonthlyRate,
		loan.InstallmentCount,
		loan.PaymentType,
		loan.RequestDate,
		loan.Status,
		loan.RemainingAmount,
		loan.RemainingInstallments,
		loan.CreatedAt,
		loan.UpdatedAt,
	)

	return err
}

const loanColumns = `
	id, member_id, junta_id, code, amount, monthly_rate, installment_count,
	payment_type, request_date, status, remaining_amount, remaining_installments, created_at, updated_at
`

func (r *loanRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1`

	var loan domain.Loan
	if err := sqlx.GetContext(ctx, r.db, &loan, query, id); err != nil {
		return nil, err
	}

	return &loan, nil
}

func (r *loanRepository) GetByMemberID(ctx context.Context, memberID uuid.UUID) ([]*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE member_id = $1 ORDER BY code`

	var loans []*domain.Loan
	if err := sqlx.SelectContext(ctx, r.db, &loans, query, memberID); err != nil {
		return nil, err
	}

	return loans, nil
}

// LockByID takes a row lock on the loan so concurrent payments against it
// serialize instead of allocating from the same installment snapshot.
func (r *loanRepository) LockByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1 FOR UPDATE`

	var loan domain.Loan
	if err := sqlx.GetContext(ctx, r.db, &loan, query, id); err != nil {
		return nil, err
	}

	return &loan, nil
}

func (r *loanRepository) Update(ctx context.Context, loan *domain.Loan) error {
	query := `
		UPDATE loans
		SET status = $2, remaining_amount = $3, remaining_installments = $4, updated_at = $5
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query,
		loan.ID,
		loan.Status,
		loan.RemainingAmount,
		loan.RemainingInstallments,
		time.Now(),
	)

	return err
}

func (r *loanRepository) NextCode(ctx context.Context, juntaID uuid.UUID) (int, error) {
	query := `SELECT COALESCE(MAX(code), 0) + 1 FROM loans WHERE junta_id = $1`

	var code int
	if err := sqlx.GetContext(ctx, r.db, &code, query, juntaID); err != nil {
		return 0, err
	}

	return code, nil
}

func (r *loanRepository) CreateInstallments(ctx context.Context, installments []*domain.Installment) error {
	query := `
		INSERT INTO installments (id, loan_id, number, due_date, expected_amount, principal, interest,
			paid_amount, principal_paid, interest_paid, status, balance_after, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	for _, inst := range installments {
		_, err := r.db.ExecContext(ctx, query,
			inst.ID,
			inst.LoanID,
			inst.Number,
			inst.DueDate,
			inst.ExpectedAmount,
			inst.Principal,
			inst.Interest,
			inst.PaidAmount,
			inst.PrincipalPaid,
			inst.InterestPaid,
			inst.Status,
			inst.BalanceAfter,
			inst.CreatedAt,
		)
		if err != nil {
			return err
		}
	}

	return nil
}

const installmentColumns = `
	id, loan_id, number, due_date, expected_amount, principal, interest,
	paid_amount, principal_paid, interest_paid, status, balance_after, created_at
`

func (r *loanRepository) GetInstallmentsByLoanID(ctx context.Context, loanID uuid.UUID) ([]*domain.Installment, error) {
	query := `SELECT ` + installmentColumns + ` FROM installments WHERE loan_id = $1 ORDER BY number`

	var installments []*domain.Installment
	if err := sqlx.SelectContext(ctx, r.db, &installments, query, loanID); err != nil {
		return nil, err
	}

	return installments, nil
}

func (r *loanRepository) UpdateInstallment(ctx context.Context, inst *domain.Installment) error {
	query := `
		UPDATE installments
		SET paid_amount = $2, principal_paid = $3, interest_paid = $4, status = $5
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query,
		inst.ID,
		inst.PaidAmount,
		inst.PrincipalPaid,
		inst.InterestPaid,
		inst.Status,
	)

	return err
}

func (r *loanRepository) GetOverdueInstallments(ctx context.Context, asOf time.Time) ([]*domain.Installment, error) {
	query := `SELECT ` + installmentColumns + `
		FROM installments
		WHERE status IN ('PENDING', 'PARTIAL') AND due_date < $1
		ORDER BY loan_id, number
	`

	var installments []*domain.Installment
	if err := sqlx.SelectContext(ctx, r.db, &installments, query, asOf); err != nil {
		return nil, err
	}

	return installments, nil
}
