package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Installment status is monotonic: PENDING -> PARTIAL -> PAID.
const (
	InstallmentStatusPending = "PENDING"
	InstallmentStatusPartial = "PARTIAL"
	InstallmentStatusPaid    = "PAID"
)

// Installment represents one scheduled repayment unit (cuota) of a loan.
// Principal + Interest always equals ExpectedAmount to the cent.
type Installment struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	LoanID         uuid.UUID       `json:"loan_id" db:"loan_id"`
	Number         int             `json:"number" db:"number"`
	DueDate        time.Time       `json:"due_date" db:"due_date"`
	ExpectedAmount decimal.Decimal `json:"expected_amount" db:"expected_amount"`
	Principal      decimal.Decimal `json:"principal" db:"principal"`
	Interest       decimal.Decimal `json:"interest" db:"interest"`
	PaidAmount     decimal.Decimal `json:"paid_amount" db:"paid_amount"`
	PrincipalPaid  decimal.Decimal `json:"principal_paid" db:"principal_paid"`
	InterestPaid   decimal.Decimal `json:"interest_paid" db:"interest_paid"`
	Status         string          `json:"status" db:"status"`
	BalanceAfter   decimal.Decimal `json:"balance_after" db:"balance_after"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
}

// Outstanding returns the amount still owed on this installment.
func (i *Installment) Outstanding() decimal.Decimal {
	return i.ExpectedAmount.Sub(i.PaidAmount)
}

// ResetPaid clears all paid state, returning the installment to its
// as-generated form. Used when replaying payment history.
func (i *Installment) ResetPaid() {
	i.PaidAmount = decimal.Zero
	i.PrincipalPaid = decimal.Zero
	i.InterestPaid = decimal.Zero
	i.Status = InstallmentStatusPending
}

type ScheduleResponse struct {
	LoanID       uuid.UUID      `json:"loan_id"`
	Installments []*Installment `json:"installments"`
}
