package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/junta-app/junta-engine/internal/clock"
	"github.com/junta-app/junta-engine/internal/domain"
	"github.com/junta-app/junta-engine/internal/repository"
	customError "github.com/junta-app/junta-engine/pkg/errors"
)

// SummaryService computes per-member and per-loan aggregates by replaying
// persisted records. It never mutates state; results may be served from the
// cache, which mutating services invalidate.
type SummaryService struct {
	store *repository.Store
	clock clock.Clock
	cache *SummaryCache
}

func NewSummaryService(store *repository.Store, clk clock.Clock, cache *SummaryCache) *SummaryService {
	return &SummaryService{store: store, clock: clk, cache: cache}
}

// MemberSummary folds the member's shares, open loans and pending fines.
func (s *SummaryService) MemberSummary(ctx context.Context, memberID uuid.UUID) (*domain.MemberSummary, error) {
	var cached domain.MemberSummary
	if s.cache.get(ctx, memberKey(memberID), &cached) {
		return &cached, nil
	}

	if _, err := s.store.Members.GetByID(ctx, memberID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapMemberNotFound(memberID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}

	summary := &domain.MemberSummary{
		MemberID:     memberID,
		ShareValue:   decimal.Zero,
		TotalOwed:    decimal.Zero,
		PendingFines: decimal.Zero,
	}

	shares, err := s.store.Shares.GetByMemberID(ctx, memberID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	for _, share := range shares {
		switch share.Type {
		case domain.ShareTypePurchase:
			summary.ShareCount += share.Quantity
			summary.ShareValue = summary.ShareValue.Add(share.TotalValue())
		case domain.ShareTypeSale:
			summary.ShareCount -= share.Quantity
			summary.ShareValue = summary.ShareValue.Sub(share.TotalValue())
		}
	}

	loans, err := s.store.Loans.GetByMemberID(ctx, memberID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	var nextDue *time.Time
	for _, loan := range loans {
		if loan.IsSettled() {
			continue
		}
		summary.LoansOutstandingCount++

		installments, err := s.store.Loans.GetInstallmentsByLoanID(ctx, loan.ID)
		if err != nil {
			return nil, customError.WrapDatabaseError(err)
		}
		for _, inst := range installments {
			if inst.Status == domain.InstallmentStatusPaid {
				continue
			}
			summary.TotalOwed = summary.TotalOwed.Add(inst.Outstanding())
			if nextDue == nil || inst.DueDate.Before(*nextDue) {
				due := inst.DueDate
				nextDue = &due
			}
		}
	}
	summary.NextInstallmentDue = nextDue

	fines, err := s.store.Fines.GetByMemberID(ctx, memberID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	for _, fine := range fines {
		if fine.Status == domain.FineStatusPending {
			summary.PendingFines = summary.PendingFines.Add(fine.Amount)
		}
	}

	s.cache.set(ctx, memberKey(memberID), summary)
	return summary, nil
}

// LoanStatus folds one loan's installments and payment history into its
// current standing.
func (s *SummaryService) LoanStatus(ctx context.Context, loanID uuid.UUID) (*domain.LoanStatusResponse, error) {
	var cached domain.LoanStatusResponse
	if s.cache.get(ctx, loanKey(loanID), &cached) {
		return &cached, nil
	}

	loan, err := s.store.Loans.GetByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapLoanNotFound(loanID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}

	installments, err := s.store.Loans.GetInstallmentsByLoanID(ctx, loanID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	payments, err := s.store.Payments.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	totalPaid := decimal.Zero
	for _, p := range payments {
		totalPaid = totalPaid.Add(p.Amount)
	}

	status := &domain.LoanStatusResponse{
		LoanID:                loanID,
		TotalPaid:             totalPaid,
		RemainingAmount:       loan.RemainingAmount,
		RemainingInstallments: loan.RemainingInstallments,
		NextPaymentAmount:     decimal.Zero,
	}

	now := s.clock.Now()
	for _, inst := range installments {
		if inst.Status == domain.InstallmentStatusPaid {
			continue
		}
		if inst.DueDate.Before(now) {
			status.IsOverdue = true
		}
		if status.NextPaymentDue == nil {
			due := inst.DueDate
			status.NextPaymentDue = &due
			status.NextPaymentAmount = inst.Outstanding()
		}
	}

	s.cache.set(ctx, loanKey(loanID), status)
	return status, nil
}

// JuntaBalances returns the junta's folded capital pool, served from cache
// when fresh.
func (s *SummaryService) JuntaBalances(ctx context.Context, juntaID uuid.UUID) (*domain.CapitalBalances, error) {
	var cached domain.CapitalBalances
	if s.cache.get(ctx, juntaKey(juntaID), &cached) {
		return &cached, nil
	}

	movements, err := s.store.Capital.GetMovementsByJuntaID(ctx, juntaID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	balances, err := foldBalances(juntaID, movements)
	if err != nil {
		return nil, err
	}

	s.cache.set(ctx, juntaKey(juntaID), balances)
	return balances, nil
}
