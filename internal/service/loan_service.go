package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/junta-app/junta-engine/internal/amortization"
	"github.com/junta-app/junta-engine/internal/clock"
	"github.com/junta-app/junta-engine/internal/config"
	"github.com/junta-app/junta-engine/internal/domain"
	"github.com/junta-app/junta-engine/internal/repository"
	customError "github.com/junta-app/junta-engine/pkg/errors"
)

// LoanService creates loans with their amortization schedules and disburses
// the principal from the junta's available capital.
type LoanService struct {
	store  *repository.Store
	clock  clock.Clock
	config *config.Config
	cache  *SummaryCache
}

func NewLoanService(store *repository.Store, clk clock.Clock, cfg *config.Config, cache *SummaryCache) *LoanService {
	return &LoanService{store: store, clock: clk, config: cfg, cache: cache}
}

// RequestLoan validates the member, generates the schedule and persists the
// loan, its installments and the disbursement movement in one transaction.
func (s *LoanService) RequestLoan(ctx context.Context, req *domain.RequestLoanRequest) (*domain.RequestLoanResponse, error) {
	member, err := s.store.Members.GetByID(ctx, req.MemberID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapMemberNotFound(req.MemberID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}
	if !member.IsActive() {
		return nil, customError.WrapInvalidLoanTerms("member is not active")
	}

	rate := req.MonthlyRate
	if rate.IsZero() {
		rate = s.config.GetDefaultMonthlyRate()
	}

	requestDate := req.RequestDate
	if requestDate.IsZero() {
		requestDate = s.clock.Now()
	}

	loanID := uuid.New()
	installments, err := amortization.Generate(amortization.Terms{
		LoanID:      loanID,
		Principal:   req.Amount,
		MonthlyRate: rate,
		Count:       req.InstallmentCount,
		PaymentType: req.PaymentType,
		StartDate:   requestDate,
		Weights:     req.Weights,
	})
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	loan := &domain.Loan{
		ID:                    loanID,
		MemberID:              req.MemberID,
		JuntaID:               req.JuntaID,
		Amount:                req.Amount,
		MonthlyRate:           rate,
		InstallmentCount:      req.InstallmentCount,
		PaymentType:           req.PaymentType,
		RequestDate:           requestDate,
		Status:                domain.LoanStatusPending,
		RemainingAmount:       req.Amount,
		RemainingInstallments: len(installments),
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	for _, inst := range installments {
		inst.CreatedAt = now
	}

	err = s.store.RunInTx(ctx, func(tx *repository.Store) error {
		code, err := tx.Loans.NextCode(ctx, req.JuntaID)
		if err != nil {
			return customError.WrapDatabaseError(err)
		}
		loan.Code = code

		if err := tx.Loans.Create(ctx, loan); err != nil {
			return customError.WrapDatabaseError(err)
		}
		if err := tx.Loans.CreateInstallments(ctx, installments); err != nil {
			return customError.WrapDatabaseError(err)
		}

		if err := appendMovement(ctx, tx, s.clock, req.JuntaID, req.Amount,
			domain.MovementDirectionOut, domain.MovementSourceLoanDisbursement, loan.ID); err != nil {
			return err
		}

		// The loan request form is sold at disbursement; the fee flows
		// straight back into the pool as one traceable movement.
		formCost := s.config.GetLoanFormCost()
		if formCost.IsPositive() {
			return appendMovement(ctx, tx, s.clock, req.JuntaID, formCost,
				domain.MovementDirectionIn, domain.MovementSourceFinePayment, loan.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.InvalidateMember(ctx, req.MemberID)
	s.cache.InvalidateJunta(ctx, req.JuntaID)

	return &domain.RequestLoanResponse{Loan: loan, Installments: installments}, nil
}

// GetLoan returns a loan together with its ordered installments.
func (s *LoanService) GetLoan(ctx context.Context, loanID uuid.UUID) (*domain.RequestLoanResponse, error) {
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

	return &domain.RequestLoanResponse{Loan: loan, Installments: installments}, nil
}
