// Package tax computes sales tax for checkout totals.
package tax

import "math"

// Calculator computes the tax owed on a taxable amount in cents.
type Calculator interface {
	Calculate(taxableCents int64) int64
}

// PercentageCalculator applies a flat percentage rate and rounds
// half away from zero to the nearest cent.
type PercentageCalculator struct {
	Rate float64
}

func NewPercentageCalculator(rate float64) *PercentageCalculator {
	return &PercentageCalculator{Rate: rate}
}

func (c *PercentageCalculator) Calculate(taxableCents int64) int64 {
	if taxableCents <= 0 {
		return 0
	}
	return int64(math.Round(float64(taxableCents) * c.Rate))
}
