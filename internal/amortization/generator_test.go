package amortization

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junta-app/junta-engine/internal/domain"
	customError "github.com/junta-app/junta-engine/pkg/errors"
	"github.com/junta-app/junta-engine/pkg/money"
)

var startDate = time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)

func baseTerms(paymentType string) Terms {
	return Terms{
		LoanID:      uuid.New(),
		Principal:   decimal.NewFromInt(1200),
		MonthlyRate: decimal.NewFromFloat(0.02),
		Count:       12,
		PaymentType: paymentType,
		StartDate:   startDate,
	}
}

func sumPrincipals(installments []*domain.Installment) decimal.Decimal {
	sum := decimal.Zero
	for _, inst := range installments {
		sum = sum.Add(inst.Principal)
	}
	return sum
}

func TestGenerate_CuotaFija_AnnuityProperties(t *testing.T) {
	terms := baseTerms(domain.PaymentTypeCuotaFija)

	installments, err := Generate(terms)
	require.NoError(t, err)
	require.Len(t, installments, 12)

	// Principal portions sum to the principal exactly.
	assert.True(t, sumPrincipals(installments).Equal(terms.Principal),
		"principal sum = %s", sumPrincipals(installments))

	// Every expected amount equals the first within one céntimo, except the
	// last, which absorbs the accumulated rounding (at most half a céntimo
	// per period).
	first := installments[0].ExpectedAmount
	lastTolerance := decimal.NewFromFloat(0.01).Mul(decimal.NewFromInt(12))
	totalInterest := decimal.Zero
	for _, inst := range installments {
		diff := inst.ExpectedAmount.Sub(first).Abs()
		if inst.Number < 12 {
			assert.True(t, money.WithinTolerance(inst.ExpectedAmount, first),
				"installment %d expected %s vs %s", inst.Number, inst.ExpectedAmount, first)
		} else {
			assert.True(t, diff.LessThanOrEqual(lastTolerance),
				"last installment expected %s vs %s", inst.ExpectedAmount, first)
		}
		assert.True(t, inst.Principal.Add(inst.Interest).Equal(inst.ExpectedAmount))
		totalInterest = totalInterest.Add(inst.Interest)
	}

	// Annuity formula check: total interest = P*(payment*n/P... ) i.e.
	// payment*12 - 1200 with payment = P*r*(1.02^12)/(1.02^12-1).
	factor := decimal.NewFromFloat(1.02).Pow(decimal.NewFromInt(12))
	payment := terms.Principal.Mul(terms.MonthlyRate).Mul(factor).
		Div(factor.Sub(decimal.NewFromInt(1)))
	wantInterest := payment.Mul(decimal.NewFromInt(12)).Sub(terms.Principal)
	assert.True(t, totalInterest.Sub(wantInterest).Abs().LessThan(decimal.NewFromFloat(0.15)),
		"total interest %s, formula %s", totalInterest, wantInterest)

	// Balance reaches exactly zero.
	assert.True(t, installments[11].BalanceAfter.IsZero())
}

func TestGenerate_CuotaFija_ZeroRate(t *testing.T) {
	terms := baseTerms(domain.PaymentTypeCuotaFija)
	terms.MonthlyRate = decimal.Zero

	installments, err := Generate(terms)
	require.NoError(t, err)

	for _, inst := range installments {
		assert.True(t, inst.Interest.IsZero())
		assert.True(t, inst.Principal.Equal(decimal.NewFromInt(100)))
	}
}

func TestGenerate_CuotaRebatir_DecliningInterest(t *testing.T) {
	terms := baseTerms(domain.PaymentTypeCuotaRebatir)

	installments, err := Generate(terms)
	require.NoError(t, err)
	require.Len(t, installments, 12)

	assert.True(t, sumPrincipals(installments).Equal(terms.Principal))

	// Equal principal portions of 100.
	for _, inst := range installments {
		assert.True(t, inst.Principal.Equal(decimal.NewFromInt(100)))
	}

	// First period interest on the full balance, declining thereafter.
	assert.True(t, installments[0].Interest.Equal(decimal.NewFromInt(24)))
	assert.True(t, installments[1].Interest.Equal(decimal.NewFromInt(22)))
	assert.True(t, installments[11].Interest.Equal(decimal.NewFromInt(2)))
}

func TestGenerate_CuotaVencimiento_SingleBullet(t *testing.T) {
	terms := baseTerms(domain.PaymentTypeCuotaVencimiento)

	installments, err := Generate(terms)
	require.NoError(t, err)
	require.Len(t, installments, 1)

	bullet := installments[0]
	assert.Equal(t, 1, bullet.Number)
	assert.True(t, bullet.Principal.Equal(decimal.NewFromInt(1200)))
	// 1200 * 0.02 * 12 accumulated over the term.
	assert.True(t, bullet.Interest.Equal(decimal.NewFromInt(288)))
	assert.Equal(t, time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC), bullet.DueDate)
	assert.True(t, bullet.BalanceAfter.IsZero())
}

func TestGenerate_CuotaVariable_Weights(t *testing.T) {
	terms := baseTerms(domain.PaymentTypeCuotaVariable)
	terms.Count = 4
	terms.Weights = []decimal.Decimal{
		decimal.NewFromFloat(0.4),
		decimal.NewFromFloat(0.3),
		decimal.NewFromFloat(0.2),
		decimal.NewFromFloat(0.1),
	}

	installments, err := Generate(terms)
	require.NoError(t, err)
	require.Len(t, installments, 4)

	assert.True(t, installments[0].Principal.Equal(decimal.NewFromInt(480)))
	assert.True(t, installments[1].Principal.Equal(decimal.NewFromInt(360)))
	assert.True(t, installments[2].Principal.Equal(decimal.NewFromInt(240)))
	assert.True(t, installments[3].Principal.Equal(decimal.NewFromInt(120)))
	assert.True(t, sumPrincipals(installments).Equal(terms.Principal))

	// Interest on the declining balance.
	assert.True(t, installments[0].Interest.Equal(decimal.NewFromInt(24)))
	assert.True(t, installments[1].Interest.Equal(decimal.NewFromFloat(14.40)))
}

func TestGenerate_CuotaVariable_WeightValidation(t *testing.T) {
	terms := baseTerms(domain.PaymentTypeCuotaVariable)
	terms.Count = 2
	terms.Weights = []decimal.Decimal{
		decimal.NewFromFloat(0.5),
		decimal.NewFromFloat(0.4),
	}

	_, err := Generate(terms)
	assert.ErrorIs(t, err, customError.ErrInvalidLoanTerms)

	terms.Weights = []decimal.Decimal{decimal.NewFromFloat(0.5)}
	_, err = Generate(terms)
	assert.ErrorIs(t, err, customError.ErrInvalidLoanTerms)
}

func TestGenerate_DueDatesClampToMonthEnd(t *testing.T) {
	terms := baseTerms(domain.PaymentTypeCuotaRebatir)
	terms.Count = 3
	terms.StartDate = time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC)

	installments, err := Generate(terms)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC), installments[0].DueDate)
	assert.Equal(t, time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC), installments[1].DueDate)
	assert.Equal(t, time.Date(2025, time.April, 30, 0, 0, 0, 0, time.UTC), installments[2].DueDate)
}

func TestGenerate_InvalidTerms(t *testing.T) {
	terms := baseTerms(domain.PaymentTypeCuotaFija)
	terms.Count = 0
	_, err := Generate(terms)
	assert.ErrorIs(t, err, customError.ErrInvalidLoanTerms)

	terms = baseTerms(domain.PaymentTypeCuotaFija)
	terms.Principal = decimal.Zero
	_, err = Generate(terms)
	assert.ErrorIs(t, err, customError.ErrInvalidLoanTerms)

	terms = baseTerms("CUOTA_DESCONOCIDA")
	_, err = Generate(terms)
	assert.ErrorIs(t, err, customError.ErrInvalidLoanTerms)
}

func TestGenerate_NumbersContiguous(t *testing.T) {
	installments, err := Generate(baseTerms(domain.PaymentTypeCuotaFija))
	require.NoError(t, err)

	for i, inst := range installments {
		assert.Equal(t, i+1, inst.Number)
		if i > 0 {
			assert.True(t, inst.DueDate.After(installments[i-1].DueDate))
		}
	}
}
