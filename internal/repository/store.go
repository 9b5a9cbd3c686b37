package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	customError "github.com/junta-app/junta-engine/pkg/errors"
)

// pq SQLSTATE codes signalling a transaction conflict.
const (
	pqSerializationFailure = "40001"
	pqDeadlockDetected     = "40P01"
)

// Store bundles the repositories over one database handle. RunInTx produces
// a transaction-bound view, so a service method can touch loans, payments
// and capital in a single unit of work.
type Store struct {
	db  *sqlx.DB
	ext sqlx.ExtContext

	Loans    LoanRepository
	Payments PaymentRepository
	Capital  CapitalRepository
	Members  MemberRepository
	Shares   ShareRepository
	Fines    FineRepository
}

func NewStore(db *sqlx.DB) *Store {
	return newStore(db, db)
}

func newStore(db *sqlx.DB, ext sqlx.ExtContext) *Store {
	return &Store{
		db:       db,
		ext:      ext,
		Loans:    &loanRepository{db: ext},
		Payments: &paymentRepository{db: ext},
		Capital:  &capitalRepository{db: ext},
		Members:  &memberRepository{db: ext},
		Shares:   &shareRepository{db: ext},
		Fines:    &fineRepository{db: ext},
	}
}

// NewStoreWithRepos assembles a Store from explicit repositories. RunInTx
// invokes fn directly instead of opening a transaction; unit tests use this
// to drive services over mock repositories.
func NewStoreWithRepos(loans LoanRepository, payments PaymentRepository, capital CapitalRepository, members MemberRepository, shares ShareRepository, fines FineRepository) *Store {
	return &Store{
		Loans:    loans,
		Payments: payments,
		Capital:  capital,
		Members:  members,
		Shares:   shares,
		Fines:    fines,
	}
}

// RunInTx runs fn inside a serializable transaction. Payment application,
// reversal and every capital write go through here so that read-modify-write
// on installment state never works from a stale snapshot. Serialization
// failures surface as a retryable ConcurrentModificationError.
func (s *Store) RunInTx(ctx context.Context, fn func(tx *Store) error) error {
	if s.db == nil {
		return mapConflict(fn(s))
	}

	tx, err := s.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return customError.WrapDatabaseError(err)
	}
	defer tx.Rollback()

	if err := fn(newStore(s.db, tx)); err != nil {
		return mapConflict(err)
	}

	if err := tx.Commit(); err != nil {
		return mapConflict(err)
	}

	return nil
}

// Ping verifies database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func mapConflict(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pqSerializationFailure, pqDeadlockDetected:
			return customError.WrapConcurrentModification(err)
		}
	}
	return err
}
