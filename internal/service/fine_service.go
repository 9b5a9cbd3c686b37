package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/junta-app/junta-engine/internal/clock"
	"github.com/junta-app/junta-engine/internal/config"
	"github.com/junta-app/junta-engine/internal/domain"
	"github.com/junta-app/junta-engine/internal/repository"
	customError "github.com/junta-app/junta-engine/pkg/errors"
)

// FineService levies and settles flat fines. Only a paid fine touches the
// capital pool.
type FineService struct {
	store  *repository.Store
	clock  clock.Clock
	config *config.Config
	cache  *SummaryCache
}

func NewFineService(store *repository.Store, clk clock.Clock, cfg *config.Config, cache *SummaryCache) *FineService {
	return &FineService{store: store, clock: clk, config: cfg, cache: cache}
}

// Levy creates a PENDING fine against a member.
func (s *FineService) Levy(ctx context.Context, memberID uuid.UUID, req *domain.LevyFineRequest) (*domain.Fine, error) {
	if _, err := s.store.Members.GetByID(ctx, memberID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapMemberNotFound(memberID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}

	now := s.clock.Now()
	fine := &domain.Fine{
		ID:        uuid.New(),
		MemberID:  memberID,
		JuntaID:   req.JuntaID,
		Reason:    req.Reason,
		Amount:    req.Amount,
		Status:    domain.FineStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.Fines.Create(ctx, fine); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	s.cache.InvalidateMember(ctx, memberID)
	return fine, nil
}

// Pay settles a PENDING fine and moves its amount into the pool.
func (s *FineService) Pay(ctx context.Context, fineID uuid.UUID) (*domain.Fine, error) {
	var fine *domain.Fine

	err := s.store.RunInTx(ctx, func(tx *repository.Store) error {
		var err error
		fine, err = tx.Fines.GetByID(ctx, fineID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return customError.WrapFineNotFound(fineID.String())
			}
			return customError.WrapDatabaseError(err)
		}
		if fine.Status != domain.FineStatusPending {
			return customError.WrapInvalidPayment(
				fmt.Sprintf("fine %s is %s, only pending fines can be paid", fineID, fine.Status))
		}

		if err := tx.Fines.UpdateStatus(ctx, fineID, domain.FineStatusPaid); err != nil {
			return customError.WrapDatabaseError(err)
		}
		fine.Status = domain.FineStatusPaid

		return appendMovement(ctx, tx, s.clock, fine.JuntaID, fine.Amount,
			domain.MovementDirectionIn, domain.MovementSourceFinePayment, fine.ID)
	})
	if err != nil {
		return nil, err
	}

	s.cache.InvalidateMember(ctx, fine.MemberID)
	s.cache.InvalidateJunta(ctx, fine.JuntaID)
	return fine, nil
}

// Cancel voids a PENDING fine without touching the pool.
func (s *FineService) Cancel(ctx context.Context, fineID uuid.UUID) error {
	fine, err := s.store.Fines.GetByID(ctx, fineID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return customError.WrapFineNotFound(fineID.String())
		}
		return customError.WrapDatabaseError(err)
	}
	if fine.Status != domain.FineStatusPending {
		return customError.WrapInvalidPayment(
			fmt.Sprintf("fine %s is %s, only pending fines can be cancelled", fineID, fine.Status))
	}

	if err := s.store.Fines.UpdateStatus(ctx, fineID, domain.FineStatusCancelled); err != nil {
		return customError.WrapDatabaseError(err)
	}

	s.cache.InvalidateMember(ctx, fine.MemberID)
	return nil
}

// SweepLateFees levies the configured late-payment fee once per overdue
// installment. Run daily by the scheduler.
func (s *FineService) SweepLateFees(ctx context.Context) (int, error) {
	fee := s.config.GetLatePaymentFee()
	if !fee.IsPositive() {
		return 0, nil
	}

	overdue, err := s.store.Loans.GetOverdueInstallments(ctx, s.clock.Now())
	if err != nil {
		return 0, customError.WrapDatabaseError(err)
	}

	levied := 0
	for _, inst := range overdue {
		exists, err := s.store.Fines.ExistsForInstallment(ctx, inst.ID)
		if err != nil {
			return levied, customError.WrapDatabaseError(err)
		}
		if exists {
			continue
		}

		loan, err := s.store.Loans.GetByID(ctx, inst.LoanID)
		if err != nil {
			return levied, customError.WrapDatabaseError(err)
		}

		now := s.clock.Now()
		instID := inst.ID
		fine := &domain.Fine{
			ID:            uuid.New(),
			MemberID:      loan.MemberID,
			JuntaID:       loan.JuntaID,
			Reason:        domain.FineReasonPagoAtrasado,
			Amount:        fee,
			Status:        domain.FineStatusPending,
			InstallmentID: &instID,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := s.store.Fines.Create(ctx, fine); err != nil {
			return levied, customError.WrapDatabaseError(err)
		}

		s.cache.InvalidateMember(ctx, loan.MemberID)
		levied++
	}

	return levied, nil
}
