package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/junta-app/junta-engine/internal/clock"
	"github.com/junta-app/junta-engine/internal/domain"
	"github.com/junta-app/junta-engine/internal/repository"
	customError "github.com/junta-app/junta-engine/pkg/errors"
	"github.com/junta-app/junta-engine/tests/mocks"
)

type loanFixture struct {
	loans   *mocks.MockLoanRepository
	capital *mocks.MockCapitalRepository
	members *mocks.MockMemberRepository
	svc     *LoanService
}

func newLoanFixture(t *testing.T) *loanFixture {
	t.Helper()

	f := &loanFixture{
		loans:   &mocks.MockLoanRepository{},
		capital: &mocks.MockCapitalRepository{},
		members: &mocks.MockMemberRepository{},
	}
	store := repository.NewStoreWithRepos(
		f.loans, &mocks.MockPaymentRepository{}, f.capital,
		f.members, &mocks.MockShareRepository{}, &mocks.MockFineRepository{},
	)
	f.svc = NewLoanService(store, clock.Fixed(testNow), boardConfig(), nil)
	return f
}

func TestRequestLoan_GeneratesScheduleAndDisburses(t *testing.T) {
	f := newLoanFixture(t)

	juntaID := uuid.New()
	member := activeMember(juntaID)
	f.members.On("GetByID", mock.Anything, member.ID).Return(member, nil)
	f.loans.On("NextCode", mock.Anything, juntaID).Return(7, nil)
	f.loans.On("Create", mock.Anything, mock.MatchedBy(func(l *domain.Loan) bool {
		return l.Code == 7 && l.Status == domain.LoanStatusPending &&
			l.RemainingAmount.Equal(decimal.NewFromInt(1200)) &&
			l.RemainingInstallments == 12
	})).Return(nil)
	f.loans.On("CreateInstallments", mock.Anything, mock.MatchedBy(func(installments []*domain.Installment) bool {
		return len(installments) == 12
	})).Return(nil)

	// Disbursement OUT plus the loan form fee IN.
	f.capital.On("CreateMovement", mock.Anything, mock.MatchedBy(func(m *domain.CapitalMovement) bool {
		return m.Source == domain.MovementSourceLoanDisbursement &&
			m.Direction == domain.MovementDirectionOut &&
			m.Amount.Equal(decimal.NewFromInt(1200))
	})).Return(nil).Once()
	f.capital.On("CreateMovement", mock.Anything, mock.MatchedBy(func(m *domain.CapitalMovement) bool {
		return m.Source == domain.MovementSourceFinePayment &&
			m.Direction == domain.MovementDirectionIn &&
			m.Amount.Equal(decimal.NewFromInt(1))
	})).Return(nil).Once()
	f.capital.On("GetMovementsByJuntaID", mock.Anything, juntaID).
		Return([]*domain.CapitalMovement{
			movement(juntaID, 2000, domain.MovementDirectionIn, domain.MovementSourceSharePurchase),
			movement(juntaID, 1200, domain.MovementDirectionOut, domain.MovementSourceLoanDisbursement),
		}, nil)

	resp, err := f.svc.RequestLoan(context.Background(), &domain.RequestLoanRequest{
		MemberID:         member.ID,
		JuntaID:          juntaID,
		Amount:           decimal.NewFromInt(1200),
		MonthlyRate:      decimal.NewFromFloat(0.02),
		InstallmentCount: 12,
		PaymentType:      domain.PaymentTypeCuotaFija,
		RequestDate:      testNow,
	})
	require.NoError(t, err)

	assert.Equal(t, 7, resp.Loan.Code)
	assert.Len(t, resp.Installments, 12)

	sum := decimal.Zero
	for _, inst := range resp.Installments {
		sum = sum.Add(inst.Principal)
	}
	assert.True(t, sum.Equal(decimal.NewFromInt(1200)))

	f.loans.AssertExpectations(t)
	f.capital.AssertExpectations(t)
}

func TestRequestLoan_DefaultsRateFromBoardConfig(t *testing.T) {
	f := newLoanFixture(t)

	juntaID := uuid.New()
	member := activeMember(juntaID)
	f.members.On("GetByID", mock.Anything, member.ID).Return(member, nil)
	f.loans.On("NextCode", mock.Anything, juntaID).Return(1, nil)
	f.loans.On("Create", mock.Anything, mock.MatchedBy(func(l *domain.Loan) bool {
		return l.MonthlyRate.Equal(decimal.NewFromFloat(0.02))
	})).Return(nil)
	f.loans.On("CreateInstallments", mock.Anything, mock.Anything).Return(nil)
	f.capital.On("CreateMovement", mock.Anything, mock.Anything).Return(nil)
	f.capital.On("GetMovementsByJuntaID", mock.Anything, juntaID).
		Return([]*domain.CapitalMovement{
			movement(juntaID, 2000, domain.MovementDirectionIn, domain.MovementSourceSharePurchase),
		}, nil)

	_, err := f.svc.RequestLoan(context.Background(), &domain.RequestLoanRequest{
		MemberID:         member.ID,
		JuntaID:          juntaID,
		Amount:           decimal.NewFromInt(300),
		InstallmentCount: 3,
		PaymentType:      domain.PaymentTypeCuotaRebatir,
	})
	require.NoError(t, err)

	f.loans.AssertExpectations(t)
}

func TestRequestLoan_RejectsInactiveMember(t *testing.T) {
	f := newLoanFixture(t)

	juntaID := uuid.New()
	member := activeMember(juntaID)
	member.Status = domain.MemberStatusInactive
	f.members.On("GetByID", mock.Anything, member.ID).Return(member, nil)

	_, err := f.svc.RequestLoan(context.Background(), &domain.RequestLoanRequest{
		MemberID:         member.ID,
		JuntaID:          juntaID,
		Amount:           decimal.NewFromInt(100),
		InstallmentCount: 2,
		PaymentType:      domain.PaymentTypeCuotaFija,
	})
	assert.ErrorIs(t, err, customError.ErrInvalidLoanTerms)
}

func TestRequestLoan_InvalidTermsRejectedBeforePersistence(t *testing.T) {
	f := newLoanFixture(t)

	juntaID := uuid.New()
	member := activeMember(juntaID)
	f.members.On("GetByID", mock.Anything, member.ID).Return(member, nil)

	_, err := f.svc.RequestLoan(context.Background(), &domain.RequestLoanRequest{
		MemberID:         member.ID,
		JuntaID:          juntaID,
		Amount:           decimal.NewFromInt(100),
		InstallmentCount: 2,
		PaymentType:      "CUOTA_MAGICA",
	})
	assert.ErrorIs(t, err, customError.ErrInvalidLoanTerms)

	// Nothing reached the repositories.
	f.loans.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.capital.AssertNotCalled(t, "CreateMovement", mock.Anything, mock.Anything)
}
