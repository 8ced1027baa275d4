// Package limits validates requested ramp amounts against server-supplied
// bounds. The validator is pure: settings freshness and test-tag ceiling
// substitution are the callers' policy.
package limits

import "github.com/shopspring/decimal"

// Outcome classifies an amount against a bounds window.
type Outcome int

const (
	OutcomeWithinBounds Outcome = iota
	OutcomeBelowMinimum
	OutcomeAboveMaximum
)

// Tolerance widens the bounds window multiplicatively: the effective window
// is [min*Lower, max*Upper]. Converted amounts get a band to absorb price
// drift between quote and validation; direct fiat inputs get none.
type Tolerance struct {
	Lower decimal.Decimal
	Upper decimal.Decimal
}

var (
	// ToleranceNone is an exact-bounds check for caller-entered fiat amounts.
	ToleranceNone = Tolerance{Lower: decimal.NewFromInt(1), Upper: decimal.NewFromInt(1)}

	// ToleranceTopUp absorbs quote drift on converted top-up amounts: 1%
	// slack on both bounds.
	ToleranceTopUp = Tolerance{
		Lower: decimal.RequireFromString("0.99"),
		Upper: decimal.RequireFromString("1.01"),
	}
)

// Validate classifies amount against [min*tol.Lower, max*tol.Upper].
// Boundary values are within bounds.
func Validate(amount, min, max decimal.Decimal, tol Tolerance) Outcome {
	if amount.LessThan(min.Mul(tol.Lower)) {
		return OutcomeBelowMinimum
	}
	if amount.GreaterThan(max.Mul(tol.Upper)) {
		return OutcomeAboveMaximum
	}
	return OutcomeWithinBounds
}
