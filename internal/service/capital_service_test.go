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

func movement(juntaID uuid.UUID, amount float64, direction, source string) *domain.CapitalMovement {
	return &domain.CapitalMovement{
		ID:        uuid.New(),
		JuntaID:   juntaID,
		Amount:    decimal.NewFromFloat(amount),
		Direction: direction,
		Source:    source,
	}
}

func TestFoldBalances_CurrentIsBasePlusAvailable(t *testing.T) {
	juntaID := uuid.New()
	movements := []*domain.CapitalMovement{
		movement(juntaID, 100, domain.MovementDirectionIn, domain.MovementSourceBaseContribution),
		movement(juntaID, 30, domain.MovementDirectionIn, domain.MovementSourceSharePurchase),
		movement(juntaID, 5, domain.MovementDirectionIn, domain.MovementSourceFinePayment),
		movement(juntaID, 20, domain.MovementDirectionOut, domain.MovementSourceLoanDisbursement),
		movement(juntaID, 22.40, domain.MovementDirectionIn, domain.MovementSourceLoanRepayment),
		movement(juntaID, 6, domain.MovementDirectionOut, domain.MovementSourceShareSale),
	}

	// The invariant holds at every prefix of the movement log.
	for i := 1; i <= len(movements); i++ {
		balances, err := foldBalances(juntaID, movements[:i])
		require.NoError(t, err)
		assert.True(t, balances.CurrentCapital.Equal(balances.BaseCapital.Add(balances.AvailableCapital)),
			"prefix %d: current %s != base %s + available %s",
			i, balances.CurrentCapital, balances.BaseCapital, balances.AvailableCapital)
	}

	balances, err := foldBalances(juntaID, movements)
	require.NoError(t, err)
	assert.True(t, balances.BaseCapital.Equal(decimal.NewFromInt(100)))
	assert.True(t, balances.AvailableCapital.Equal(decimal.NewFromFloat(31.40)))
	assert.True(t, balances.CurrentCapital.Equal(decimal.NewFromFloat(131.40)))
}

func TestFoldBalances_OverdrawIsInconsistent(t *testing.T) {
	juntaID := uuid.New()
	movements := []*domain.CapitalMovement{
		movement(juntaID, 30, domain.MovementDirectionIn, domain.MovementSourceSharePurchase),
		movement(juntaID, 50, domain.MovementDirectionOut, domain.MovementSourceLoanDisbursement),
	}

	_, err := foldBalances(juntaID, movements)
	assert.ErrorIs(t, err, customError.ErrInconsistentLedger)
}

func TestFoldBalances_UnknownSourceIsInconsistent(t *testing.T) {
	juntaID := uuid.New()
	movements := []*domain.CapitalMovement{
		movement(juntaID, 10, domain.MovementDirectionIn, "DONATION"),
	}

	_, err := foldBalances(juntaID, movements)
	assert.ErrorIs(t, err, customError.ErrInconsistentLedger)
}

func newCapitalService(capital *mocks.MockCapitalRepository) *CapitalService {
	store := repository.NewStoreWithRepos(
		&mocks.MockLoanRepository{}, &mocks.MockPaymentRepository{}, capital,
		&mocks.MockMemberRepository{}, &mocks.MockShareRepository{}, &mocks.MockFineRepository{},
	)
	return NewCapitalService(store, clock.Fixed(testNow), nil)
}

func TestApplyMovement_DirectionMustMatchSource(t *testing.T) {
	svc := newCapitalService(&mocks.MockCapitalRepository{})

	err := svc.ApplyMovement(context.Background(), uuid.New(), decimal.NewFromInt(10),
		domain.MovementDirectionOut, domain.MovementSourceSharePurchase, uuid.New())
	assert.ErrorIs(t, err, customError.ErrInconsistentLedger)

	err = svc.ApplyMovement(context.Background(), uuid.New(), decimal.NewFromInt(10),
		domain.MovementDirectionIn, "UNKNOWN", uuid.New())
	assert.ErrorIs(t, err, customError.ErrInconsistentLedger)
}

func TestApplyMovement_AppendsAndRefolds(t *testing.T) {
	capital := &mocks.MockCapitalRepository{}
	svc := newCapitalService(capital)
	juntaID := uuid.New()

	capital.On("CreateMovement", mock.Anything, mock.MatchedBy(func(m *domain.CapitalMovement) bool {
		return m.JuntaID == juntaID &&
			m.Source == domain.MovementSourceBaseContribution &&
			m.Amount.Equal(decimal.NewFromInt(25))
	})).Return(nil)
	capital.On("GetMovementsByJuntaID", mock.Anything, juntaID).
		Return([]*domain.CapitalMovement{
			movement(juntaID, 25, domain.MovementDirectionIn, domain.MovementSourceBaseContribution),
		}, nil)

	err := svc.ApplyMovement(context.Background(), juntaID, decimal.NewFromInt(25),
		domain.MovementDirectionIn, domain.MovementSourceBaseContribution, uuid.New())
	require.NoError(t, err)

	capital.AssertExpectations(t)
}

func TestGetBalances(t *testing.T) {
	capital := &mocks.MockCapitalRepository{}
	svc := newCapitalService(capital)
	juntaID := uuid.New()

	capital.On("GetMovementsByJuntaID", mock.Anything, juntaID).
		Return([]*domain.CapitalMovement{
			movement(juntaID, 100, domain.MovementDirectionIn, domain.MovementSourceBaseContribution),
			movement(juntaID, 30, domain.MovementDirectionIn, domain.MovementSourceSharePurchase),
		}, nil)

	balances, err := svc.GetBalances(context.Background(), juntaID)
	require.NoError(t, err)
	assert.True(t, balances.BaseCapital.Equal(decimal.NewFromInt(100)))
	assert.True(t, balances.AvailableCapital.Equal(decimal.NewFromInt(30)))
	assert.True(t, balances.CurrentCapital.Equal(decimal.NewFromInt(130)))
}
