package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/junta-app/junta-engine/internal/clock"
	"github.com/junta-app/junta-engine/internal/domain"
	"github.com/junta-app/junta-engine/internal/repository"
	customError "github.com/junta-app/junta-engine/pkg/errors"
	"github.com/junta-app/junta-engine/pkg/money"
)

// PaymentService allocates incoming payments across a loan's installments
// and reverses them by replay. Every mutation runs in one serializable
// transaction covering the installments, the loan totals and the capital
// movement, so a partial failure leaves the pre-call state intact.
type PaymentService struct {
	store *repository.Store
	clock clock.Clock
	cache *SummaryCache
}

func NewPaymentService(store *repository.Store, clk clock.Clock, cache *SummaryCache) *PaymentService {
	return &PaymentService{store: store, clock: clk, cache: cache}
}

// ApplyPayment splits the amount across the oldest unpaid installments and
// records one payment history row plus one capital inflow.
func (s *PaymentService) ApplyPayment(ctx context.Context, loanID uuid.UUID, req *domain.ApplyPaymentRequest) (*domain.PaymentHistory, error) {
	if err := validatePaymentRequest(req); err != nil {
		return nil, err
	}

	date := req.Date
	if date.IsZero() {
		date = s.clock.Now()
	}

	var payment *domain.PaymentHistory
	var memberID, juntaID uuid.UUID

	err := s.store.RunInTx(ctx, func(tx *repository.Store) error {
		loan, err := lockLoan(ctx, tx, loanID)
		if err != nil {
			return err
		}
		memberID, juntaID = loan.MemberID, loan.JuntaID

		if loan.IsSettled() {
			return customError.WrapLoanAlreadySettled(loan.ID.String())
		}

		installments, err := tx.Loans.GetInstallmentsByLoanID(ctx, loan.ID)
		if err != nil {
			return customError.WrapDatabaseError(err)
		}
		if err := verifySchedule(loan, installments); err != nil {
			return err
		}

		result, err := allocate(installments, req)
		if err != nil {
			return err
		}

		for _, inst := range result.touched {
			if err := tx.Loans.UpdateInstallment(ctx, inst); err != nil {
				return customError.WrapDatabaseError(err)
			}
		}

		syncLoanTotals(loan, installments)
		if err := tx.Loans.Update(ctx, loan); err != nil {
			return customError.WrapDatabaseError(err)
		}

		payment = &domain.PaymentHistory{
			ID:                    uuid.New(),
			LoanID:                loan.ID,
			Date:                  date,
			Amount:                req.Amount,
			PrincipalPaid:         result.principalPaid,
			InterestPaid:          result.interestPaid,
			RemainingAmount:       loan.RemainingAmount,
			RemainingInstallments: loan.RemainingInstallments,
			FirstInstallment:      result.firstNumber,
			LastInstallment:       result.lastNumber,
			DifferentPayment:      req.DifferentPayment,
			CreatedAt:             s.clock.Now(),
		}
		if err := tx.Payments.Create(ctx, payment); err != nil {
			return customError.WrapDatabaseError(err)
		}

		return appendMovement(ctx, tx, s.clock, loan.JuntaID, req.Amount,
			domain.MovementDirectionIn, domain.MovementSourceLoanRepayment, payment.ID)
	})
	if err != nil {
		return nil, err
	}

	s.cache.InvalidateLoan(ctx, loanID, memberID)
	s.cache.InvalidateJunta(ctx, juntaID)
	return payment, nil
}

// ReversePayment restores the exact pre-payment state. Subtracting the
// amount back out would drift because of the proportional splits, so the
// installments are reset to their as-generated form and the remaining
// history is replayed in order without the target payment.
func (s *PaymentService) ReversePayment(ctx context.Context, paymentID uuid.UUID) error {
	var loanID, memberID, juntaID uuid.UUID

	err := s.store.RunInTx(ctx, func(tx *repository.Store) error {
		target, err := tx.Payments.GetByID(ctx, paymentID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return customError.WrapPaymentNotFound(paymentID.String())
			}
			return customError.WrapDatabaseError(err)
		}
		if target.IsReversed() {
			return customError.WrapInvalidPayment(
				fmt.Sprintf("payment %s is already reversed", paymentID))
		}

		loan, err := lockLoan(ctx, tx, target.LoanID)
		if err != nil {
			return err
		}
		loanID, memberID, juntaID = loan.ID, loan.MemberID, loan.JuntaID

		installments, err := tx.Loans.GetInstallmentsByLoanID(ctx, loan.ID)
		if err != nil {
			return customError.WrapDatabaseError(err)
		}
		if err := verifySchedule(loan, installments); err != nil {
			return err
		}

		history, err := tx.Payments.GetByLoanID(ctx, loan.ID)
		if err != nil {
			return customError.WrapDatabaseError(err)
		}

		for _, inst := range installments {
			inst.ResetPaid()
		}

		for _, past := range history {
			if past.ID == target.ID {
				continue
			}
			if _, err := allocate(installments, replayRequest(past)); err != nil {
				return customError.WrapInconsistentLedger(
					fmt.Sprintf("replaying payment %s: %v", past.ID, err))
			}
		}

		for _, inst := range installments {
			if err := tx.Loans.UpdateInstallment(ctx, inst); err != nil {
				return customError.WrapDatabaseError(err)
			}
		}

		syncLoanTotals(loan, installments)
		if err := tx.Loans.Update(ctx, loan); err != nil {
			return customError.WrapDatabaseError(err)
		}

		if err := tx.Payments.MarkReversed(ctx, target.ID, s.clock.Now()); err != nil {
			return customError.WrapDatabaseError(err)
		}

		return appendMovement(ctx, tx, s.clock, loan.JuntaID, target.Amount,
			domain.MovementDirectionOut, domain.MovementSourceLoanRepayment, target.ID)
	})
	if err != nil {
		return err
	}

	s.cache.InvalidateLoan(ctx, loanID, memberID)
	s.cache.InvalidateJunta(ctx, juntaID)
	return nil
}

// GetHistory returns the loan's non-reversed payment records in order.
func (s *PaymentService) GetHistory(ctx context.Context, loanID uuid.UUID) ([]*domain.PaymentHistory, error) {
	history, err := s.store.Payments.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return history, nil
}

func validatePaymentRequest(req *domain.ApplyPaymentRequest) error {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return customError.WrapInvalidPayment("payment amount must be greater than zero")
	}
	if req.DifferentPayment {
		if req.PrincipalPaid.IsNegative() || req.InterestPaid.IsNegative() {
			return customError.WrapInvalidPayment("explicit split parts must not be negative")
		}
		if !req.PrincipalPaid.Add(req.InterestPaid).Equal(req.Amount) {
			return customError.WrapInvalidPayment(
				fmt.Sprintf("explicit split %s + %s does not sum to payment amount %s",
					req.PrincipalPaid, req.InterestPaid, req.Amount))
		}
	}
	return nil
}

func lockLoan(ctx context.Context, tx *repository.Store, loanID uuid.UUID) (*domain.Loan, error) {
	loan, err := tx.Loans.LockByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapLoanNotFound(loanID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}
	return loan, nil
}

// verifySchedule rejects a schedule whose principal portions no longer sum
// to the loan principal. This is an invariant violation, never corrected
// silently.
func verifySchedule(loan *domain.Loan, installments []*domain.Installment) error {
	if len(installments) == 0 {
		return customError.WrapInconsistentLedger(
			fmt.Sprintf("loan %s has no installments", loan.ID))
	}
	sum := decimal.Zero
	for _, inst := range installments {
		sum = sum.Add(inst.Principal)
	}
	if !money.WithinTolerance(sum, loan.Amount) {
		return customError.WrapInconsistentLedger(
			fmt.Sprintf("installment principal sum %s does not match loan principal %s", sum, loan.Amount))
	}
	return nil
}

// allocationResult captures what one payment did to the schedule.
type allocationResult struct {
	principalPaid decimal.Decimal
	interestPaid  decimal.Decimal
	firstNumber   int
	lastNumber    int
	touched       []*domain.Installment
}

// allocate walks the schedule forward from the first non-PAID installment
// and applies the payment, cascading into later installments until the
// amount is exhausted. Installments are mutated in place.
//
// The default split is proportional to the installment's original
// principal/interest ratio; settling an installment trues the cumulative
// split up to the original portions exactly. An explicit
// (is_different_payment) split applies to a single installment and never
// cascades.
func allocate(installments []*domain.Installment, req *domain.ApplyPaymentRequest) (*allocationResult, error) {
	remaining := req.Amount
	result := &allocationResult{
		principalPaid: decimal.Zero,
		interestPaid:  decimal.Zero,
	}

	for _, inst := range installments {
		if inst.Status == domain.InstallmentStatusPaid || remaining.LessThanOrEqual(decimal.Zero) {
			continue
		}

		outstanding := inst.Outstanding()
		pay := decimal.Min(remaining, outstanding)

		if req.DifferentPayment && pay.LessThan(remaining) {
			return nil, customError.WrapInvalidPayment(
				fmt.Sprintf("explicit split payment of %s exceeds installment %d outstanding %s",
					remaining, inst.Number, outstanding))
		}

		var principalPart, interestPart decimal.Decimal
		switch {
		case req.DifferentPayment:
			principalPart, interestPart = req.PrincipalPaid, req.InterestPaid
		case pay.Equal(outstanding):
			// Settling: true up to the original portions exactly.
			principalPart = inst.Principal.Sub(inst.PrincipalPaid)
			interestPart = inst.Interest.Sub(inst.InterestPaid)
		default:
			principalPart, interestPart = money.SplitProportional(pay, inst.Principal, inst.Interest)
		}

		inst.PaidAmount = inst.PaidAmount.Add(pay)
		inst.PrincipalPaid = inst.PrincipalPaid.Add(principalPart)
		inst.InterestPaid = inst.InterestPaid.Add(interestPart)
		if inst.PaidAmount.Equal(inst.ExpectedAmount) {
			inst.Status = domain.InstallmentStatusPaid
		} else {
			inst.Status = domain.InstallmentStatusPartial
		}

		result.principalPaid = result.principalPaid.Add(principalPart)
		result.interestPaid = result.interestPaid.Add(interestPart)
		if result.firstNumber == 0 {
			result.firstNumber = inst.Number
		}
		result.lastNumber = inst.Number
		result.touched = append(result.touched, inst)

		remaining = remaining.Sub(pay)

		// A payment only flows into the next installment once this one is
		// fully settled, which the cascade guarantees: pay < outstanding
		// leaves remaining at zero.
	}

	if remaining.GreaterThan(decimal.Zero) {
		return nil, customError.WrapInvalidPayment(
			fmt.Sprintf("payment exceeds total outstanding by %s", remaining))
	}

	return result, nil
}

// syncLoanTotals recomputes the loan's derived fields from its installments.
// remaining_amount is the unpaid principal so it always matches the sum of
// unpaid installment principal portions.
func syncLoanTotals(loan *domain.Loan, installments []*domain.Installment) {
	remaining := decimal.Zero
	open := 0
	anyPaid := false

	for _, inst := range installments {
		remaining = remaining.Add(inst.Principal.Sub(inst.PrincipalPaid))
		if inst.Status != domain.InstallmentStatusPaid {
			open++
		}
		if inst.Status != domain.InstallmentStatusPending {
			anyPaid = true
		}
	}

	loan.RemainingAmount = remaining
	loan.RemainingInstallments = open

	switch {
	case open == 0:
		loan.Status = domain.LoanStatusPaid
	case anyPaid:
		loan.Status = domain.LoanStatusPartial
	default:
		loan.Status = domain.LoanStatusPending
	}
}

// replayRequest reconstructs the allocation request a history row was
// created from.
func replayRequest(p *domain.PaymentHistory) *domain.ApplyPaymentRequest {
	req := &domain.ApplyPaymentRequest{
		Amount: p.Amount,
		Date:   p.Date,
	}
	if p.DifferentPayment {
		req.DifferentPayment = true
		req.PrincipalPaid = p.PrincipalPaid
		req.InterestPaid = p.InterestPaid
	}
	return req
}
