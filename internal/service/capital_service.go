package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/junta-app/junta-engine/internal/clock"
	"github.com/junta-app/junta-engine/internal/domain"
	"github.com/junta-app/junta-engine/internal/repository"
	customError "github.com/junta-app/junta-engine/pkg/errors"
)

// movementDirections maps each movement source to the direction it carries
// when applied through the public ledger API.
var movementDirections = map[string]string{
	domain.MovementSourceSharePurchase:    domain.MovementDirectionIn,
	domain.MovementSourceShareSale:        domain.MovementDirectionOut,
	domain.MovementSourceLoanDisbursement: domain.MovementDirectionOut,
	domain.MovementSourceLoanRepayment:    domain.MovementDirectionIn,
	domain.MovementSourceFinePayment:      domain.MovementDirectionIn,
	domain.MovementSourceBaseContribution: domain.MovementDirectionIn,
}

// CapitalService is the junta's capital ledger. Movements are append-only
// and balances are always folded from them; nothing writes a balance
// directly.
type CapitalService struct {
	store *repository.Store
	clock clock.Clock
	cache *SummaryCache
}

func NewCapitalService(store *repository.Store, clk clock.Clock, cache *SummaryCache) *CapitalService {
	return &CapitalService{store: store, clock: clk, cache: cache}
}

// ApplyMovement appends one capital movement for the junta. The direction
// must match the source's canonical direction and the resulting pool must
// stay consistent, otherwise the transaction rolls back.
func (s *CapitalService) ApplyMovement(ctx context.Context, juntaID uuid.UUID, amount decimal.Decimal, direction, source string, referenceID uuid.UUID) error {
	want, ok := movementDirections[source]
	if !ok {
		return customError.WrapInconsistentLedger(fmt.Sprintf("unknown movement source %q", source))
	}
	if direction != want {
		return customError.WrapInconsistentLedger(
			fmt.Sprintf("source %s requires direction %s, got %s", source, want, direction))
	}

	err := s.store.RunInTx(ctx, func(tx *repository.Store) error {
		return appendMovement(ctx, tx, s.clock, juntaID, amount, direction, source, referenceID)
	})
	if err != nil {
		return err
	}

	s.cache.InvalidateJunta(ctx, juntaID)
	return nil
}

// GetBalances folds every movement for the junta into the current pool
// state. current == base + available by construction.
func (s *CapitalService) GetBalances(ctx context.Context, juntaID uuid.UUID) (*domain.CapitalBalances, error) {
	movements, err := s.store.Capital.GetMovementsByJuntaID(ctx, juntaID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return foldBalances(juntaID, movements)
}

// appendMovement writes a movement and re-folds the junta's pool inside the
// caller's transaction. A fold failure (overdraw, unknown source) aborts the
// whole unit of work; the ledger never self-corrects.
func appendMovement(ctx context.Context, tx *repository.Store, clk clock.Clock, juntaID uuid.UUID, amount decimal.Decimal, direction, source string, referenceID uuid.UUID) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return customError.WrapInconsistentLedger("movement amount must be greater than zero")
	}

	movement := &domain.CapitalMovement{
		ID:          uuid.New(),
		JuntaID:     juntaID,
		Amount:      amount,
		Direction:   direction,
		Source:      source,
		ReferenceID: referenceID,
		CreatedAt:   clk.Now(),
	}

	if err := tx.Capital.CreateMovement(ctx, movement); err != nil {
		return customError.WrapDatabaseError(err)
	}

	movements, err := tx.Capital.GetMovementsByJuntaID(ctx, juntaID)
	if err != nil {
		return customError.WrapDatabaseError(err)
	}

	_, err = foldBalances(juntaID, movements)
	return err
}

// foldBalances replays the movement log into pool balances. Base capital
// only ever grows from fixed contributions; everything else moves the
// available fund.
func foldBalances(juntaID uuid.UUID, movements []*domain.CapitalMovement) (*domain.CapitalBalances, error) {
	base := decimal.Zero
	available := decimal.Zero

	for _, m := range movements {
		signed := m.Amount
		switch m.Direction {
		case domain.MovementDirectionIn:
		case domain.MovementDirectionOut:
			signed = signed.Neg()
		default:
			return nil, customError.WrapInconsistentLedger(
				fmt.Sprintf("movement %s has unknown direction %q", m.ID, m.Direction))
		}

		switch m.Source {
		case domain.MovementSourceBaseContribution:
			base = base.Add(signed)
		case domain.MovementSourceSharePurchase,
			domain.MovementSourceShareSale,
			domain.MovementSourceLoanDisbursement,
			domain.MovementSourceLoanRepayment,
			domain.MovementSourceFinePayment:
			available = available.Add(signed)
		default:
			return nil, customError.WrapInconsistentLedger(
				fmt.Sprintf("movement %s has unknown source %q", m.ID, m.Source))
		}
	}

	if available.IsNegative() {
		return nil, customError.WrapInconsistentLedger(
			fmt.Sprintf("available capital would be negative: %s", available))
	}
	if base.IsNegative() {
		return nil, customError.WrapInconsistentLedger(
			fmt.Sprintf("base capital would be negative: %s", base))
	}

	return &domain.CapitalBalances{
		JuntaID:          juntaID,
		BaseCapital:      base,
		AvailableCapital: available,
		CurrentCapital:   base.Add(available),
	}, nil
}
