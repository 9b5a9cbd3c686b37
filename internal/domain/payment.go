package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentHistory is the append-only record of one payment applied to a loan.
// Rows are never mutated; a reversal stamps ReversedAt and replays the rest.
type PaymentHistory struct {
	ID                    uuid.UUID       `json:"id" db:"id"`
	LoanID                uuid.UUID       `json:"loan_id" db:"loan_id"`
	Date                  time.Time       `json:"date" db:"date"`
	Amount                decimal.Decimal `json:"amount" db:"amount"`
	PrincipalPaid         decimal.Decimal `json:"principal_paid" db:"principal_paid"`
	InterestPaid          decimal.Decimal `json:"interest_paid" db:"interest_paid"`
	RemainingAmount       decimal.Decimal `json:"remaining_amount" db:"remaining_amount"`
	RemainingInstallments int             `json:"remaining_installments" db:"remaining_installments"`
	FirstInstallment      int             `json:"first_installment" db:"first_installment"`
	LastInstallment       int             `json:"last_installment" db:"last_installment"`
	DifferentPayment      bool            `json:"different_payment" db:"different_payment"`
	ReversedAt            *time.Time      `json:"reversed_at,omitempty" db:"reversed_at"`
	CreatedAt             time.Time       `json:"created_at" db:"created_at"`
}

// IsReversed reports whether this payment has been backed out.
func (p *PaymentHistory) IsReversed() bool {
	return p.ReversedAt != nil
}

type ApplyPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required,decimal_gt=0"`
	Date   time.Time       `json:"date"`
	// DifferentPayment signals an explicit principal/interest split chosen
	// by the treasurer instead of the proportional one. The split must sum
	// to Amount exactly.
	DifferentPayment bool            `json:"is_different_payment"`
	PrincipalPaid    decimal.Decimal `json:"principal_paid"`
	InterestPaid     decimal.Decimal `json:"interest_paid"`
}
