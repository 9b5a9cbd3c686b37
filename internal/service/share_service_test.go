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
	"github.com/junta-app/junta-engine/internal/config"
	"github.com/junta-app/junta-engine/internal/domain"
	"github.com/junta-app/junta-engine/internal/repository"
	customError "github.com/junta-app/junta-engine/pkg/errors"
	"github.com/junta-app/junta-engine/tests/mocks"
)

func boardConfig() *config.Config {
	return &config.Config{
		Board: config.BoardConfig{
			ShareValue:         "3.00",
			DefaultMonthlyRate: "0.02",
			LatePaymentFee:     "5.00",
			AbsenceFee:         "2.00",
			LoanFormCost:       "1.00",
		},
	}
}

func activeMember(juntaID uuid.UUID) *domain.Member {
	return &domain.Member{
		ID:      uuid.New(),
		JuntaID: juntaID,
		Role:    domain.MemberRoleSocio,
		Status:  domain.MemberStatusActive,
	}
}

func TestTransact_PurchaseMovesCapitalIn(t *testing.T) {
	shares := &mocks.MockShareRepository{}
	capital := &mocks.MockCapitalRepository{}
	members := &mocks.MockMemberRepository{}
	store := repository.NewStoreWithRepos(
		&mocks.MockLoanRepository{}, &mocks.MockPaymentRepository{}, capital,
		members, shares, &mocks.MockFineRepository{},
	)
	svc := NewShareService(store, clock.Fixed(testNow), boardConfig(), nil)

	juntaID := uuid.New()
	member := activeMember(juntaID)
	members.On("GetByID", mock.Anything, member.ID).Return(member, nil)

	shares.On("Create", mock.Anything, mock.MatchedBy(func(s *domain.Share) bool {
		return s.Quantity == 10 && s.UnitValue.Equal(decimal.NewFromFloat(3.00))
	})).Return(nil)

	// Exactly one SHARE_PURCHASE movement of 30.00 flowing IN.
	capital.On("CreateMovement", mock.Anything, mock.MatchedBy(func(m *domain.CapitalMovement) bool {
		return m.Source == domain.MovementSourceSharePurchase &&
			m.Direction == domain.MovementDirectionIn &&
			m.Amount.Equal(decimal.NewFromInt(30))
	})).Return(nil).Once()
	capital.On("GetMovementsByJuntaID", mock.Anything, juntaID).
		Return([]*domain.CapitalMovement{
			movement(juntaID, 30, domain.MovementDirectionIn, domain.MovementSourceSharePurchase),
		}, nil)

	share, err := svc.Transact(context.Background(), member.ID, &domain.ShareRequest{
		JuntaID:  juntaID,
		Type:     domain.ShareTypePurchase,
		Quantity: 10,
	})
	require.NoError(t, err)
	assert.True(t, share.TotalValue().Equal(decimal.NewFromInt(30)))

	shares.AssertExpectations(t)
	capital.AssertExpectations(t)
}

func TestTransact_SaleMovesCapitalOut(t *testing.T) {
	shares := &mocks.MockShareRepository{}
	capital := &mocks.MockCapitalRepository{}
	members := &mocks.MockMemberRepository{}
	store := repository.NewStoreWithRepos(
		&mocks.MockLoanRepository{}, &mocks.MockPaymentRepository{}, capital,
		members, shares, &mocks.MockFineRepository{},
	)
	svc := NewShareService(store, clock.Fixed(testNow), boardConfig(), nil)

	juntaID := uuid.New()
	member := activeMember(juntaID)
	members.On("GetByID", mock.Anything, member.ID).Return(member, nil)
	shares.On("Create", mock.Anything, mock.Anything).Return(nil)

	capital.On("CreateMovement", mock.Anything, mock.MatchedBy(func(m *domain.CapitalMovement) bool {
		return m.Source == domain.MovementSourceShareSale &&
			m.Direction == domain.MovementDirectionOut &&
			m.Amount.Equal(decimal.NewFromInt(6))
	})).Return(nil).Once()
	capital.On("GetMovementsByJuntaID", mock.Anything, juntaID).
		Return([]*domain.CapitalMovement{
			movement(juntaID, 30, domain.MovementDirectionIn, domain.MovementSourceSharePurchase),
			movement(juntaID, 6, domain.MovementDirectionOut, domain.MovementSourceShareSale),
		}, nil)

	_, err := svc.Transact(context.Background(), member.ID, &domain.ShareRequest{
		JuntaID:  juntaID,
		Type:     domain.ShareTypeSale,
		Quantity: 2,
	})
	require.NoError(t, err)

	capital.AssertExpectations(t)
}

func TestTransact_RejectsInactiveMember(t *testing.T) {
	members := &mocks.MockMemberRepository{}
	store := repository.NewStoreWithRepos(
		&mocks.MockLoanRepository{}, &mocks.MockPaymentRepository{}, &mocks.MockCapitalRepository{},
		members, &mocks.MockShareRepository{}, &mocks.MockFineRepository{},
	)
	svc := NewShareService(store, clock.Fixed(testNow), boardConfig(), nil)

	juntaID := uuid.New()
	member := activeMember(juntaID)
	member.Status = domain.MemberStatusInactive
	members.On("GetByID", mock.Anything, member.ID).Return(member, nil)

	_, err := svc.Transact(context.Background(), member.ID, &domain.ShareRequest{
		JuntaID:  juntaID,
		Type:     domain.ShareTypePurchase,
		Quantity: 5,
	})
	assert.ErrorIs(t, err, customError.ErrInvalidPayment)
}

func TestTransact_RejectsNonPositiveQuantity(t *testing.T) {
	store := repository.NewStoreWithRepos(
		&mocks.MockLoanRepository{}, &mocks.MockPaymentRepository{}, &mocks.MockCapitalRepository{},
		&mocks.MockMemberRepository{}, &mocks.MockShareRepository{}, &mocks.MockFineRepository{},
	)
	svc := NewShareService(store, clock.Fixed(testNow), boardConfig(), nil)

	_, err := svc.Transact(context.Background(), uuid.New(), &domain.ShareRequest{
		JuntaID:  uuid.New(),
		Type:     domain.ShareTypePurchase,
		Quantity: 0,
	})
	assert.ErrorIs(t, err, customError.ErrInvalidPayment)
}
