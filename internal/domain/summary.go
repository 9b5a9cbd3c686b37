package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MemberSummary is the per-member aggregate consumed by reporting and the
// closing-of-session view. Always recomputed from persisted records.
type MemberSummary struct {
	MemberID              uuid.UUID       `json:"member_id"`
	ShareCount            int             `json:"share_count"`
	ShareValue            decimal.Decimal `json:"share_value"`
	LoansOutstandingCount int             `json:"loans_outstanding_count"`
	TotalOwed             decimal.Decimal `json:"total_owed"`
	PendingFines          decimal.Decimal `json:"pending_fines"`
	NextInstallmentDue    *time.Time      `json:"next_installment_due,omitempty"`
}
