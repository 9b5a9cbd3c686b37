package amortization

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/junta-app/junta-engine/internal/domain"
	customError "github.com/junta-app/junta-engine/pkg/errors"
	"github.com/junta-app/junta-engine/pkg/money"
	"github.com/junta-app/junta-engine/pkg/utils"
)

// weightTolerance bounds how far CUOTA_VARIABLE weights may drift from
// summing to exactly 1.
var weightTolerance = decimal.New(1, -4)

// Terms are the inputs to schedule generation. Weights is only consulted
// for CUOTA_VARIABLE loans.
type Terms struct {
	LoanID      uuid.UUID
	Principal   decimal.Decimal
	MonthlyRate decimal.Decimal
	Count       int
	PaymentType string
	StartDate   time.Time
	Weights     []decimal.Decimal
}

// Generate produces the ordered installment schedule for the given terms.
// It performs no I/O and never mutates its inputs. The sum of the principal
// portions always equals the principal exactly; the last installment absorbs
// any rounding remainder.
func Generate(terms Terms) ([]*domain.Installment, error) {
	if err := validate(terms); err != nil {
		return nil, err
	}

	principals, err := principalPortions(terms)
	if err != nil {
		return nil, err
	}

	installments := make([]*domain.Installment, 0, len(principals))
	remaining := terms.Principal

	for i, principal := range principals {
		number := i + 1
		interest := interestFor(terms, remaining, number)
		remaining = remaining.Sub(principal)

		installments = append(installments, &domain.Installment{
			ID:             uuid.New(),
			LoanID:         terms.LoanID,
			Number:         number,
			DueDate:        dueDate(terms, number),
			ExpectedAmount: principal.Add(interest),
			Principal:      principal,
			Interest:       interest,
			PaidAmount:     decimal.Zero,
			PrincipalPaid:  decimal.Zero,
			InterestPaid:   decimal.Zero,
			Status:         domain.InstallmentStatusPending,
			BalanceAfter:   remaining,
		})
	}

	return installments, nil
}

func validate(terms Terms) error {
	if terms.Count <= 0 {
		return customError.WrapInvalidLoanTerms("installment count must be greater than zero")
	}
	if terms.Principal.LessThanOrEqual(decimal.Zero) {
		return customError.WrapInvalidLoanTerms("principal must be greater than zero")
	}
	if terms.MonthlyRate.IsNegative() {
		return customError.WrapInvalidLoanTerms("monthly rate must not be negative")
	}

	switch terms.PaymentType {
	case domain.PaymentTypeCuotaFija, domain.PaymentTypeCuotaRebatir, domain.PaymentTypeCuotaVencimiento:
		return nil
	case domain.PaymentTypeCuotaVariable:
		return validateWeights(terms)
	default:
		return customError.WrapInvalidLoanTerms(fmt.Sprintf("unsupported payment type %q", terms.PaymentType))
	}
}

func validateWeights(terms Terms) error {
	if len(terms.Weights) != terms.Count {
		return customError.WrapInvalidLoanTerms(
			fmt.Sprintf("expected %d weights, got %d", terms.Count, len(terms.Weights)))
	}

	sum := decimal.Zero
	for _, w := range terms.Weights {
		if w.LessThanOrEqual(decimal.Zero) {
			return customError.WrapInvalidLoanTerms("weights must be greater than zero")
		}
		sum = sum.Add(w)
	}

	if sum.Sub(decimal.NewFromInt(1)).Abs().GreaterThan(weightTolerance) {
		return customError.WrapInvalidLoanTerms(
			fmt.Sprintf("weights must sum to 1, got %s", sum))
	}

	return nil
}

// principalPortions splits the principal across installments per the payment
// type. The last portion absorbs the rounding remainder so the portions sum
// to the principal exactly.
func principalPortions(terms Terms) ([]decimal.Decimal, error) {
	switch terms.PaymentType {
	case domain.PaymentTypeCuotaFija:
		return annuityPrincipals(terms), nil

	case domain.PaymentTypeCuotaRebatir:
		portions := make([]decimal.Decimal, terms.Count)
		base := money.Round(terms.Principal.Div(decimal.NewFromInt(int64(terms.Count))))
		allocated := decimal.Zero
		for i := 0; i < terms.Count-1; i++ {
			portions[i] = base
			allocated = allocated.Add(base)
		}
		portions[terms.Count-1] = terms.Principal.Sub(allocated)
		return portions, nil

	case domain.PaymentTypeCuotaVencimiento:
		return []decimal.Decimal{terms.Principal}, nil

	case domain.PaymentTypeCuotaVariable:
		portions := make([]decimal.Decimal, terms.Count)
		allocated := decimal.Zero
		for i := 0; i < terms.Count-1; i++ {
			portions[i] = money.Round(terms.Principal.Mul(terms.Weights[i]))
			allocated = allocated.Add(portions[i])
		}
		portions[terms.Count-1] = terms.Principal.Sub(allocated)
		return portions, nil
	}

	return nil, customError.WrapInvalidLoanTerms(fmt.Sprintf("unsupported payment type %q", terms.PaymentType))
}

// annuityPrincipals derives the principal portions of an equal-payment
// schedule: payment = P * r * (1+r)^n / ((1+r)^n - 1).
func annuityPrincipals(terms Terms) []decimal.Decimal {
	n := int64(terms.Count)
	portions := make([]decimal.Decimal, terms.Count)

	if terms.MonthlyRate.IsZero() {
		// Zero-interest: even split.
		base := money.Round(terms.Principal.Div(decimal.NewFromInt(n)))
		allocated := decimal.Zero
		for i := 0; i < terms.Count-1; i++ {
			portions[i] = base
			allocated = allocated.Add(base)
		}
		portions[terms.Count-1] = terms.Principal.Sub(allocated)
		return portions
	}

	factor := decimal.NewFromInt(1).Add(terms.MonthlyRate).Pow(decimal.NewFromInt(n))
	payment := money.Round(
		terms.Principal.Mul(terms.MonthlyRate).Mul(factor).Div(factor.Sub(decimal.NewFromInt(1))))

	remaining := terms.Principal
	for i := 0; i < terms.Count-1; i++ {
		interest := money.Round(remaining.Mul(terms.MonthlyRate))
		portions[i] = payment.Sub(interest)
		remaining = remaining.Sub(portions[i])
	}
	// Last period clears the balance exactly.
	portions[terms.Count-1] = remaining
	return portions
}

// interestFor computes the interest portion of installment number given the
// outstanding balance entering the period.
func interestFor(terms Terms, outstanding decimal.Decimal, number int) decimal.Decimal {
	if terms.PaymentType == domain.PaymentTypeCuotaVencimiento {
		// Bullet: all interest accrues to the single terminal installment.
		return money.Round(terms.Principal.Mul(terms.MonthlyRate).Mul(decimal.NewFromInt(int64(terms.Count))))
	}
	return money.Round(outstanding.Mul(terms.MonthlyRate))
}

// dueDate is startDate + number months, clamped to the last valid day of the
// target month. The bullet variant falls due at full term.
func dueDate(terms Terms, number int) time.Time {
	months := number
	if terms.PaymentType == domain.PaymentTypeCuotaVencimiento {
		months = terms.Count
	}
	return utils.AddMonthsClamped(terms.StartDate, months)
}
