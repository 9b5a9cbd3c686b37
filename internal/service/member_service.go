package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/junta-app/junta-engine/internal/clock"
	"github.com/junta-app/junta-engine/internal/domain"
	"github.com/junta-app/junta-engine/internal/repository"
	customError "github.com/junta-app/junta-engine/pkg/errors"
)

// MemberService manages junta membership records.
type MemberService struct {
	store *repository.Store
	clock clock.Clock
}

func NewMemberService(store *repository.Store, clk clock.Clock) *MemberService {
	return &MemberService{store: store, clock: clk}
}

type RegisterMemberRequest struct {
	JuntaID    uuid.UUID `json:"junta_id" validate:"required"`
	FullName   string    `json:"full_name" validate:"required"`
	DocumentID string    `json:"document_id" validate:"required"`
	Role       string    `json:"role" validate:"required,oneof=socio presidente tesorero secretario"`
}

// Register creates an active member.
func (s *MemberService) Register(ctx context.Context, req *RegisterMemberRequest) (*domain.Member, error) {
	now := s.clock.Now()
	member := &domain.Member{
		ID:         uuid.New(),
		JuntaID:    req.JuntaID,
		FullName:   req.FullName,
		DocumentID: req.DocumentID,
		Role:       req.Role,
		Status:     domain.MemberStatusActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.store.Members.Create(ctx, member); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return member, nil
}

// Get retrieves a member by id.
func (s *MemberService) Get(ctx context.Context, memberID uuid.UUID) (*domain.Member, error) {
	member, err := s.store.Members.GetByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapMemberNotFound(memberID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}
	return member, nil
}
