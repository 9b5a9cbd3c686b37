package money

import (
	"github.com/shopspring/decimal"
)

// Tolerance is one minor currency unit (one céntimo). Sums that must match
// exactly are allowed to differ by at most this much before rounding
// adjustments are applied.
var Tolerance = decimal.New(1, -2)

// Round rounds an amount to 2 decimal places, the resolution of soles.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// WithinTolerance reports whether a and b differ by at most one minor unit.
func WithinTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(Tolerance)
}

// SplitProportional splits amount into a principal/interest pair in the same
// ratio as the reference split (refPrincipal : refInterest). The principal
// part is rounded to 2 dp and interest takes the remainder, so the parts
// always sum to amount exactly.
func SplitProportional(amount, refPrincipal, refInterest decimal.Decimal) (principal, interest decimal.Decimal) {
	total := refPrincipal.Add(refInterest)
	if total.IsZero() {
		return amount, decimal.Zero
	}
	principal = Round(amount.Mul(refPrincipal).Div(total))
	interest = amount.Sub(principal)
	return principal, interest
}
