package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/junta-app/junta-engine/internal/clock"
	"github.com/junta-app/junta-engine/internal/config"
	"github.com/junta-app/junta-engine/internal/domain"
	"github.com/junta-app/junta-engine/internal/repository"
	customError "github.com/junta-app/junta-engine/pkg/errors"
)

// ShareService records share purchases and sales. The unit value is frozen
// from the board configuration at transaction time, so later price changes
// never rewrite history.
type ShareService struct {
	store  *repository.Store
	clock  clock.Clock
	config *config.Config
	cache  *SummaryCache
}

func NewShareService(store *repository.Store, clk clock.Clock, cfg *config.Config, cache *SummaryCache) *ShareService {
	return &ShareService{store: store, clock: clk, config: cfg, cache: cache}
}

// Transact records a COMPRA or VENTA of shares for a member and moves the
// corresponding value through the capital pool.
func (s *ShareService) Transact(ctx context.Context, memberID uuid.UUID, req *domain.ShareRequest) (*domain.Share, error) {
	if req.Quantity <= 0 {
		return nil, customError.WrapInvalidPayment("share quantity must be greater than zero")
	}

	member, err := s.store.Members.GetByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapMemberNotFound(memberID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}
	if !member.IsActive() {
		return nil, customError.WrapInvalidPayment("member is not active")
	}

	share := &domain.Share{
		ID:          uuid.New(),
		MemberID:    memberID,
		JuntaID:     req.JuntaID,
		Type:        req.Type,
		Quantity:    req.Quantity,
		UnitValue:   s.config.GetShareValue(),
		Description: req.Description,
		CreatedAt:   s.clock.Now(),
	}

	direction := domain.MovementDirectionIn
	source := domain.MovementSourceSharePurchase
	if req.Type == domain.ShareTypeSale {
		direction = domain.MovementDirectionOut
		source = domain.MovementSourceShareSale
	}

	err = s.store.RunInTx(ctx, func(tx *repository.Store) error {
		if err := tx.Shares.Create(ctx, share); err != nil {
			return customError.WrapDatabaseError(err)
		}
		return appendMovement(ctx, tx, s.clock, req.JuntaID, share.TotalValue(), direction, source, share.ID)
	})
	if err != nil {
		return nil, err
	}

	s.cache.InvalidateMember(ctx, memberID)
	s.cache.InvalidateJunta(ctx, req.JuntaID)
	return share, nil
}
