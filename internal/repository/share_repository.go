package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/junta-app/junta-engine/internal/domain"
)

type shareRepository struct {
	db sqlx.ExtContext
}

func NewShareRepository(db *sqlx.DB) ShareRepository {
	return &shareRepository{db: db}
}

func (r *shareRepository) Create(ctx context.Context, share *domain.Share) error {
	query := `
		INSERT INTO shares (id, member_id, junta_id, type, quantity, unit_value, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		share.ID,
		share.MemberID,
		share.JuntaID,
		share.Type,
		share.Quantity,
		share.UnitValue,
		share.Description,
		share.CreatedAt,
	)

	return err
}

func (r *shareRepository) GetByMemberID(ctx context.Context, memberID uuid.UUID) ([]*domain.Share, error) {
	query := `
		SELECT id, member_id, junta_id, type, quantity, unit_value, description, created_at
		FROM shares
		WHERE member_id = $1
		ORDER BY created_at, id
	`

	var shares []*domain.Share
	if err := sqlx.SelectContext(ctx, r.db, &shares, query, memberID); err != nil {
		return nil, err
	}

	return shares, nil
}
