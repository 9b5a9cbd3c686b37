package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	MemberRoleSocio      = "socio"
	MemberRolePresidente = "presidente"
	MemberRoleTesorero   = "tesorero"
	MemberRoleSecretario = "secretario"

	MemberStatusActive   = "Activo"
	MemberStatusInactive = "Inactivo"
)

// Member represents a junta member
type Member struct {
	ID         uuid.UUID `json:"id" db:"id"`
	JuntaID    uuid.UUID `json:"junta_id" db:"junta_id"`
	FullName   string    `json:"full_name" db:"full_name"`
	DocumentID string    `json:"document_id" db:"document_id"`
	Role       string    `json:"role" db:"role"`
	Status     string    `json:"status" db:"status"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// IsActive reports whether the member may buy shares or request loans.
func (m *Member) IsActive() bool {
	return m.Status == MemberStatusActive
}
