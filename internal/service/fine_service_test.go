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

type fineFixture struct {
	loans   *mocks.MockLoanRepository
	capital *mocks.MockCapitalRepository
	members *mocks.MockMemberRepository
	fines   *mocks.MockFineRepository
	svc     *FineService
}

func newFineFixture(t *testing.T) *fineFixture {
	t.Helper()

	f := &fineFixture{
		loans:   &mocks.MockLoanRepository{},
		capital: &mocks.MockCapitalRepository{},
		members: &mocks.MockMemberRepository{},
		fines:   &mocks.MockFineRepository{},
	}
	store := repository.NewStoreWithRepos(
		f.loans, &mocks.MockPaymentRepository{}, f.capital,
		f.members, &mocks.MockShareRepository{}, f.fines,
	)
	f.svc = NewFineService(store, clock.Fixed(testNow), boardConfig(), nil)
	return f
}

func TestPayFine_MovesAmountIntoPool(t *testing.T) {
	f := newFineFixture(t)

	juntaID := uuid.New()
	fine := &domain.Fine{
		ID:       uuid.New(),
		MemberID: uuid.New(),
		JuntaID:  juntaID,
		Reason:   domain.FineReasonTardanza,
		Amount:   decimal.NewFromFloat(5.00),
		Status:   domain.FineStatusPending,
	}

	f.fines.On("GetByID", mock.Anything, fine.ID).Return(fine, nil)
	f.fines.On("UpdateStatus", mock.Anything, fine.ID, domain.FineStatusPaid).Return(nil)
	f.capital.On("CreateMovement", mock.Anything, mock.MatchedBy(func(m *domain.CapitalMovement) bool {
		return m.Source == domain.MovementSourceFinePayment &&
			m.Direction == domain.MovementDirectionIn &&
			m.Amount.Equal(decimal.NewFromFloat(5.00))
	})).Return(nil).Once()
	f.capital.On("GetMovementsByJuntaID", mock.Anything, juntaID).
		Return([]*domain.CapitalMovement{
			movement(juntaID, 5, domain.MovementDirectionIn, domain.MovementSourceFinePayment),
		}, nil)

	paid, err := f.svc.Pay(context.Background(), fine.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.FineStatusPaid, paid.Status)

	f.fines.AssertExpectations(t)
	f.capital.AssertExpectations(t)
}

func TestPayFine_RejectsNonPending(t *testing.T) {
	f := newFineFixture(t)

	fine := &domain.Fine{
		ID:     uuid.New(),
		Status: domain.FineStatusPaid,
	}
	f.fines.On("GetByID", mock.Anything, fine.ID).Return(fine, nil)

	_, err := f.svc.Pay(context.Background(), fine.ID)
	assert.ErrorIs(t, err, customError.ErrInvalidPayment)
}

func TestCancelFine(t *testing.T) {
	f := newFineFixture(t)

	fine := &domain.Fine{
		ID:       uuid.New(),
		MemberID: uuid.New(),
		Status:   domain.FineStatusPending,
	}
	f.fines.On("GetByID", mock.Anything, fine.ID).Return(fine, nil)
	f.fines.On("UpdateStatus", mock.Anything, fine.ID, domain.FineStatusCancelled).Return(nil)

	err := f.svc.Cancel(context.Background(), fine.ID)
	require.NoError(t, err)

	// Cancellation never touches the pool.
	f.capital.AssertNotCalled(t, "CreateMovement", mock.Anything, mock.Anything)
}

func TestSweepLateFees_LeviesOncePerOverdueInstallment(t *testing.T) {
	f := newFineFixture(t)

	loan, installments := twoInstallmentLoan()
	already := installments[0]
	fresh := installments[1]

	f.loans.On("GetOverdueInstallments", mock.Anything, testNow).
		Return([]*domain.Installment{already, fresh}, nil)
	f.fines.On("ExistsForInstallment", mock.Anything, already.ID).Return(true, nil)
	f.fines.On("ExistsForInstallment", mock.Anything, fresh.ID).Return(false, nil)
	f.loans.On("GetByID", mock.Anything, loan.ID).Return(loan, nil)
	f.fines.On("Create", mock.Anything, mock.MatchedBy(func(fine *domain.Fine) bool {
		return fine.Reason == domain.FineReasonPagoAtrasado &&
			fine.Amount.Equal(decimal.NewFromFloat(5.00)) &&
			fine.InstallmentID != nil && *fine.InstallmentID == fresh.ID
	})).Return(nil).Once()

	levied, err := f.svc.SweepLateFees(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, levied)

	f.fines.AssertExpectations(t)
}
