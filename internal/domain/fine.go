package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	FineStatusPending   = "PENDING"
	FineStatusPaid      = "PAID"
	FineStatusCancelled = "CANCELLED"
)

// Fine reason codes
const (
	FineReasonTardanza     = "TARDANZA"
	FineReasonInasistencia = "INASISTENCIA"
	FineReasonPagoAtrasado = "PAGO_ATRASADO"
)

// Fine represents a flat fine (multa) levied against a member.
type Fine struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	MemberID  uuid.UUID       `json:"member_id" db:"member_id"`
	JuntaID   uuid.UUID       `json:"junta_id" db:"junta_id"`
	Reason    string          `json:"reason" db:"reason"`
	Amount    decimal.Decimal `json:"amount" db:"amount"`
	Status    string          `json:"status" db:"status"`
	// InstallmentID is set when the fine was levied by the late-payment
	// sweep, so the sweep never fines the same installment twice.
	InstallmentID *uuid.UUID `json:"installment_id,omitempty" db:"installment_id"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}

type LevyFineRequest struct {
	JuntaID uuid.UUID       `json:"junta_id" validate:"required"`
	Reason  string          `json:"reason" validate:"required,oneof=TARDANZA INASISTENCIA PAGO_ATRASADO"`
	Amount  decimal.Decimal `json:"amount" validate:"required,decimal_gt=0"`
}
