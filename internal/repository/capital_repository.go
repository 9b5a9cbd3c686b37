package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/junta-app/junta-engine/internal/domain"
)

type capitalRepository struct {
	db sqlx.ExtContext
}

func NewCapitalRepository(db *sqlx.DB) CapitalRepository {
	return &capitalRepository{db: db}
}

func (r *capitalRepository) CreateMovement(ctx context.Context, movement *domain.CapitalMovement) error {
	query := `
		INSERT INTO capital_movements (id, junta_id, amount, direction, source, reference_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		movement.ID,
		movement.JuntaID,
		movement.Amount,
		movement.Direction,
		movement.Source,
		movement.ReferenceID,
		movement.CreatedAt,
	)

	return err
}

func (r *capitalRepository) GetMovementsByJuntaID(ctx context.Context, juntaID uuid.UUID) ([]*domain.CapitalMovement, error) {
	query := `
		SELECT id, junta_id, amount, direction, source, reference_id, created_at
		FROM capital_movements
		WHERE junta_id = $1
		ORDER BY created_at, id
	`

	var movements []*domain.CapitalMovement
	if err := sqlx.SelectContext(ctx, r.db, &movements, query, juntaID); err != nil {
		return nil, err
	}

	return movements, nil
}
