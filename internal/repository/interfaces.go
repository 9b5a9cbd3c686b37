package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/junta-app/junta-engine/internal/domain"
)

// LoanRepository defines the interface for loan and installment data operations
type LoanRepository interface {
	// Create creates a new loan
	Create(ctx context.Context, loan *domain.Loan) error

	// GetByID retrieves a loan by id
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error)

	// GetByMemberID retrieves all loans owned by a member
	GetByMemberID(ctx context.Context, memberID uuid.UUID) ([]*domain.Loan, error)

	// LockByID retrieves a loan with a row lock, serializing concurrent
	// payment application against the same loan
	LockByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error)

	// Update updates a loan's mutable balance fields
	Update(ctx context.Context, loan *domain.Loan) error

	// NextCode returns the next loan sequence number for a junta
	NextCode(ctx context.Context, juntaID uuid.UUID) (int, error)

	// CreateInstallments creates installment entries for a loan
	CreateInstallments(ctx context.Context, installments []*domain.Installment) error

	// GetInstallmentsByLoanID retrieves installments ordered by number
	GetInstallmentsByLoanID(ctx context.Context, loanID uuid.UUID) ([]*domain.Installment, error)

	// UpdateInstallment updates an installment's paid state
	UpdateInstallment(ctx context.Context, installment *domain.Installment) error

	// GetOverdueInstallments retrieves unpaid installments due strictly
	// before asOf, across all loans
	GetOverdueInstallments(ctx context.Context, asOf time.Time) ([]*domain.Installment, error)
}

// PaymentRepository defines the interface for payment history operations.
// History rows are append-only; reversal stamps reversed_at.
type PaymentRepository interface {
	// Create creates a new payment history record
	Create(ctx context.Context, payment *domain.PaymentHistory) error

	// GetByID retrieves a payment by id
	GetByID(ctx context.Context, id uuid.UUID) (*domain.PaymentHistory, error)

	// GetByLoanID retrieves non-reversed payments for a loan ordered by date
	GetByLoanID(ctx context.Context, loanID uuid.UUID) ([]*domain.PaymentHistory, error)

	// MarkReversed stamps a payment as reversed
	MarkReversed(ctx context.Context, id uuid.UUID, at time.Time) error
}

// CapitalRepository defines the interface for capital movement operations.
// Movements are append-only; balances are always folded from them.
type CapitalRepository interface {
	// CreateMovement appends a capital movement
	CreateMovement(ctx context.Context, movement *domain.CapitalMovement) error

	// GetMovementsByJuntaID retrieves all movements for a junta in order
	GetMovementsByJuntaID(ctx context.Context, juntaID uuid.UUID) ([]*domain.CapitalMovement, error)
}

// MemberRepository defines the interface for member data operations
type MemberRepository interface {
	// Create creates a new member
	Create(ctx context.Context, member *domain.Member) error

	// GetByID retrieves a member by id
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Member, error)
}

// ShareRepository defines the interface for share transaction operations
type ShareRepository interface {
	// Create creates a new share transaction
	Create(ctx context.Context, share *domain.Share) error

	// GetByMemberID retrieves share transactions for a member in order
	GetByMemberID(ctx context.Context, memberID uuid.UUID) ([]*domain.Share, error)
}

// FineRepository defines the interface for fine operations
type FineRepository interface {
	// Create creates a new fine
	Create(ctx context.Context, fine *domain.Fine) error

	// GetByID retrieves a fine by id
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Fine, error)

	// GetByMemberID retrieves fines for a member
	GetByMemberID(ctx context.Context, memberID uuid.UUID) ([]*domain.Fine, error)

	// UpdateStatus transitions a fine's status
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error

	// ExistsForInstallment reports whether a late-payment fine was already
	// levied for an installment
	ExistsForInstallment(ctx context.Context, installmentID uuid.UUID) (bool, error)
}
