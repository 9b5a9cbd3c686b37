package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/junta-app/junta-engine/internal/domain"
)

type fineRepository struct {
	db sqlx.ExtContext
}

func NewFineRepository(db *sqlx.DB) FineRepository {
	return &fineRepository{db: db}
}

const fineColumns = `
	id, member_id, junta_id, reason, amount, status, installment_id, created_at, updated_at
`

func (r *fineRepository) Create(ctx context.Context, fine *domain.Fine) error {
	query := `
		INSERT INTO fines (id, member_id, junta_id, reason, amount, status, installment_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		fine.ID,
		fine.MemberID,
		fine.JuntaID,
		fine.Reason,
		fine.Amount,
		fine.Status,
		fine.InstallmentID,
		fine.CreatedAt,
		fine.UpdatedAt,
	)

	return err
}

func (r *fineRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Fine, error) {
	query := `SELECT ` + fineColumns + ` FROM fines WHERE id = $1`

	var fine domain.Fine
	if err := sqlx.GetContext(ctx, r.db, &fine, query, id); err != nil {
		return nil, err
	}

	return &fine, nil
}

func (r *fineRepository) GetByMemberID(ctx context.Context, memberID uuid.UUID) ([]*domain.Fine, error) {
	query := `SELECT ` + fineColumns + ` FROM fines WHERE member_id = $1 ORDER BY created_at, id`

	var fines []*domain.Fine
	if err := sqlx.SelectContext(ctx, r.db, &fines, query, memberID); err != nil {
		return nil, err
	}

	return fines, nil
}

func (r *fineRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `UPDATE fines SET status = $2, updated_at = $3 WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, id, status, time.Now())
	return err
}

func (r *fineRepository) ExistsForInstallment(ctx context.Context, installmentID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM fines WHERE installment_id = $1 AND status <> 'CANCELLED')`

	var exists bool
	if err := sqlx.GetContext(ctx, r.db, &exists, query, installmentID); err != nil {
		return false, err
	}

	return exists, nil
}
