package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	ShareTypePurchase = "COMPRA"
	ShareTypeSale     = "VENTA"
)

// Share represents a share transaction (acción). UnitValue is frozen at
// creation time; later board price changes never touch historical rows.
type Share struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	MemberID    uuid.UUID       `json:"member_id" db:"member_id"`
	JuntaID     uuid.UUID       `json:"junta_id" db:"junta_id"`
	Type        string          `json:"type" db:"type"`
	Quantity    int             `json:"quantity" db:"quantity"`
	UnitValue   decimal.Decimal `json:"unit_value" db:"unit_value"`
	Description string          `json:"description" db:"description"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}

// TotalValue returns quantity times the frozen unit value.
func (s *Share) TotalValue() decimal.Decimal {
	return s.UnitValue.Mul(decimal.NewFromInt(int64(s.Quantity)))
}

type ShareRequest struct {
	JuntaID     uuid.UUID `json:"junta_id" validate:"required"`
	Type        string    `json:"type" validate:"required,oneof=COMPRA VENTA"`
	Quantity    int       `json:"quantity" validate:"required,gt=0"`
	Description string    `json:"description"`
}
