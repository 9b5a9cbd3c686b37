package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Loan status follows the installment lifecycle: PENDING until the first
// payment lands, PARTIAL while some but not all installments are settled,
// PAID once every installment is settled.
const (
	LoanStatusPending = "PENDING"
	LoanStatusPartial = "PARTIAL"
	LoanStatusPaid    = "PAID"
)

// Payment type variants
const (
	PaymentTypeCuotaFija        = "CUOTA_FIJA"
	PaymentTypeCuotaRebatir     = "CUOTA_REBATIR"
	PaymentTypeCuotaVencimiento = "CUOTA_VENCIMIENTO"
	PaymentTypeCuotaVariable    = "CUOTA_VARIABLE"
)

// Loan represents a member loan (préstamo)
type Loan struct {
	ID                    uuid.UUID       `json:"id" db:"id"`
	MemberID              uuid.UUID       `json:"member_id" db:"member_id"`
	JuntaID               uuid.UUID       `json:"junta_id" db:"junta_id"`
	Code                  int             `json:"code" db:"code"`
	Amount                decimal.Decimal `json:"amount" db:"amount"`
	MonthlyRate           decimal.Decimal `json:"monthly_rate" db:"monthly_rate"`
	InstallmentCount      int             `json:"installment_count" db:"installment_count"`
	PaymentType           string          `json:"payment_type" db:"payment_type"`
	RequestDate           time.Time       `json:"request_date" db:"request_date"`
	Status                string          `json:"status" db:"status"`
	RemainingAmount       decimal.Decimal `json:"remaining_amount" db:"remaining_amount"`
	RemainingInstallments int             `json:"remaining_installments" db:"remaining_installments"`
	CreatedAt             time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at" db:"updated_at"`
}

// IsSettled reports whether the loan has no outstanding installments.
func (l *Loan) IsSettled() bool {
	return l.Status == LoanStatusPaid
}

// DTOs for requests and responses

type RequestLoanRequest struct {
	MemberID         uuid.UUID       `json:"member_id" validate:"required"`
	JuntaID          uuid.UUID       `json:"junta_id" validate:"required"`
	Amount           decimal.Decimal `json:"amount" validate:"required,decimal_gt=0"`
	MonthlyRate      decimal.Decimal `json:"monthly_rate" validate:"decimal_gte=0"`
	InstallmentCount int             `json:"installment_count" validate:"required,gt=0"`
	PaymentType      string          `json:"payment_type" validate:"required,oneof=CUOTA_FIJA CUOTA_REBATIR CUOTA_VENCIMIENTO CUOTA_VARIABLE"`
	RequestDate      time.Time       `json:"request_date"`
	// Weights is only consulted for CUOTA_VARIABLE loans: one fraction of
	// the principal per installment, summing to 1.
	Weights []decimal.Decimal `json:"weights,omitempty"`
}

type RequestLoanResponse struct {
	Loan         *Loan          `json:"loan"`
	Installments []*Installment `json:"installments"`
}

type LoanStatusResponse struct {
	LoanID                uuid.UUID       `json:"loan_id"`
	TotalPaid             decimal.Decimal `json:"total_paid"`
	RemainingAmount       decimal.Decimal `json:"remaining_amount"`
	RemainingInstallments int             `json:"remaining_installments"`
	NextPaymentDue        *time.Time      `json:"next_payment_due,omitempty"`
	NextPaymentAmount     decimal.Decimal `json:"next_payment_amount"`
	IsOverdue             bool            `json:"is_overdue"`
}
