// Package billing abstracts the payment provider used at checkout.
package billing

import (
	"context"
	"time"
)

// Intent status values surfaced to the rest of the application. These
// mirror the provider's payment intent lifecycle.
const (
	IntentStatusRequiresPaymentMethod = "requires_payment_method"
	IntentStatusProcessing            = "processing"
	IntentStatusSucceeded             = "succeeded"
	IntentStatusCanceled              = "canceled"
)

// Provider defines the payment operations the checkout flow needs.
type Provider interface {
	// CreatePaymentIntent creates a payment intent for a one-time charge
	// and returns it with a client secret for frontend confirmation.
	CreatePaymentIntent(ctx context.Context, params CreatePaymentIntentParams) (*PaymentIntent, error)

	// GetPaymentIntent retrieves an existing payment intent. Order
	// finalization uses it to verify payment before writing the order.
	GetPaymentIntent(ctx context.Context, paymentIntentID string) (*PaymentIntent, error)

	// CancelPaymentIntent cancels an intent that has not been confirmed.
	CancelPaymentIntent(ctx context.Context, paymentIntentID string) error
}

// CreatePaymentIntentParams contains parameters for creating a payment intent.
type CreatePaymentIntentParams struct {
	// AmountCents is the charge in the smallest currency unit.
	AmountCents int64

	// Currency code (ISO 4217), e.g. "usd".
	Currency string

	// Description appears on the customer's statement.
	Description string

	// Metadata is echoed back on retrieval; checkout stores the cart
	// snapshot here so finalization can rebuild the order from it.
	Metadata map[string]string

	// IdempotencyKey prevents duplicate intents for the same checkout.
	IdempotencyKey string
}

// PaymentIntent represents a payment intent returned by the provider.
type PaymentIntent struct {
	ID           string
	ClientSecret string
	AmountCents  int64
	Currency     string
	Status       string
	Metadata     map[string]string
	CreatedAt    time.Time
}

// Succeeded reports whether the intent reached the terminal paid state.
func (pi *PaymentIntent) Succeeded() bool {
	return pi.Status == IntentStatusSucceeded
}
