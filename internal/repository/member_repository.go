package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/junta-app/junta-engine/internal/domain"
)

type memberRepository struct {
	db sqlx.ExtContext
}

func NewMemberRepository(db *sqlx.DB) MemberRepository {
	return &memberRepository{db: db}
}

func (r *memberRepository) Create(ctx context.Context, member *domain.Member) error {
	query := `
		INSERT INTO members (id, junta_id, full_name, document_id, role, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		member.ID,
		member.JuntaID,
		member.FullName,
		member.DocumentID,
		member.Role,
		member.Status,
		member.CreatedAt,
		member.UpdatedAt,
	)

	return err
}

func (r *memberRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Member, error) {
	query := `
		SELECT id, junta_id, full_name, document_id, role, status, created_at, updated_at
		FROM members
		WHERE id = $1
	`

	var member domain.Member
	if err := sqlx.GetContext(ctx, r.db, &member, query, id); err != nil {
		return nil, err
	}

	return &member, nil
}
