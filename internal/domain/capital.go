package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	MovementDirectionIn  = "IN"
	MovementDirectionOut = "OUT"
)

// Capital movement sources. Every change to the pool is one of these;
// balances are folded from movements and never written directly.
const (
	MovementSourceSharePurchase    = "SHARE_PURCHASE"
	MovementSourceShareSale        = "SHARE_SALE"
	MovementSourceLoanDisbursement = "LOAN_DISBURSEMENT"
	MovementSourceLoanRepayment    = "LOAN_REPAYMENT"
	MovementSourceFinePayment      = "FINE_PAYMENT"
	MovementSourceBaseContribution = "BASE_CONTRIBUTION"
)

// CapitalMovement is one append-only credit or debit against a junta's pool.
// ReferenceID points at the originating record (share, loan, payment, fine).
type CapitalMovement struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	JuntaID     uuid.UUID       `json:"junta_id" db:"junta_id"`
	Amount      decimal.Decimal `json:"amount" db:"amount"`
	Direction   string          `json:"direction" db:"direction"`
	Source      string          `json:"source" db:"source"`
	ReferenceID uuid.UUID       `json:"reference_id" db:"reference_id"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}

// CapitalBalances is the derived state of a junta's pool.
// CurrentCapital == BaseCapital + AvailableCapital always.
type CapitalBalances struct {
	JuntaID          uuid.UUID       `json:"junta_id"`
	BaseCapital      decimal.Decimal `json:"base_capital"`
	AvailableCapital decimal.Decimal `json:"available_capital"`
	CurrentCapital   decimal.Decimal `json:"current_capital"`
}

type ContributionRequest struct {
	MemberID uuid.UUID       `json:"member_id" validate:"required"`
	Amount   decimal.Decimal `json:"amount" validate:"required,decimal_gt=0"`
}
