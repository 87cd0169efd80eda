// Package shipping computes shipping charges for checkout totals.
package shipping

// Calculator computes the shipping charge for a cart subtotal in cents.
type Calculator interface {
	Calculate(subtotalCents int64) int64
}

// FlatRateCalculator charges a fixed amount on every order regardless
// of subtotal.
type FlatRateCalculator struct {
	RateCents int64
}

func NewFlatRateCalculator(rateCents int64) *FlatRateCalculator {
	return &FlatRateCalculator{RateCents: rateCents}
}

func (c *FlatRateCalculator) Calculate(subtotalCents int64) int64 {
	return c.RateCents
}
