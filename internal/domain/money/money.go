// Package money centralizes the monetary arithmetic used by the
// reconciliation core. Every amount comparison routes through
// AmountsMatch and every sum through Total, so rounding behavior lives
// in exactly one place.
package money

import "math"

// Tolerance is the absolute difference under which two amounts are
// considered equal.
const Tolerance = 0.01

// AmountsMatch reports whether a and b are equal within Tolerance.
func AmountsMatch(a, b float64) bool {
	return math.Abs(a-b) < Tolerance
}

// Total sums the given amounts and rounds the result to cents.
func Total(amounts []float64) float64 {
	var sum float64
	for _, a := range amounts {
		sum += a
	}
	return RoundToCents(sum)
}

// RoundToCents rounds an amount to 2 decimal places.
func RoundToCents(amount float64) float64 {
	return math.Round(amount*100) / 100
}
