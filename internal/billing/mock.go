package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MockProvider is a mock billing provider for testing. It simulates
// payment flows without calling the Stripe API.
type MockProvider struct {
	// CreatePaymentIntentFunc overrides payment intent creation behavior
	CreatePaymentIntentFunc func(ctx context.Context, params CreatePaymentIntentParams) (*PaymentIntent, error)

	// GetPaymentIntentFunc overrides payment intent retrieval behavior
	GetPaymentIntentFunc func(ctx context.Context, paymentIntentID string) (*PaymentIntent, error)

	// PaymentIntents stores created payment intents for retrieval
	PaymentIntents map[string]*PaymentIntent

	// CallLog tracks method calls for test assertions
	CallLog []string
}

// NewMockProvider creates a new mock billing provider.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		PaymentIntents: make(map[string]*PaymentIntent),
		CallLog:        []string{},
	}
}

func (m *MockProvider) CreatePaymentIntent(ctx context.Context, params CreatePaymentIntentParams) (*PaymentIntent, error) {
	m.CallLog = append(m.CallLog, fmt.Sprintf("CreatePaymentIntent(%d, %s)", params.AmountCents, params.Currency))

	if m.CreatePaymentIntentFunc != nil {
		return m.CreatePaymentIntentFunc(ctx, params)
	}

	if params.AmountCents < minimumChargeCents {
		return nil, ErrAmountTooSmall
	}

	pi := &PaymentIntent{
		ID:           "pi_" + uuid.NewString(),
		ClientSecret: "pi_secret_" + uuid.NewString(),
		AmountCents:  params.AmountCents,
		Currency:     params.Currency,
		Status:       IntentStatusRequiresPaymentMethod,
		Metadata:     params.Metadata,
		CreatedAt:    time.Now(),
	}
	m.PaymentIntents[pi.ID] = pi
	return pi, nil
}

func (m *MockProvider) GetPaymentIntent(ctx context.Context, paymentIntentID string) (*PaymentIntent, error) {
	m.CallLog = append(m.CallLog, fmt.Sprintf("GetPaymentIntent(%s)", paymentIntentID))

	if m.GetPaymentIntentFunc != nil {
		return m.GetPaymentIntentFunc(ctx, paymentIntentID)
	}

	pi, exists := m.PaymentIntents[paymentIntentID]
	if !exists {
		return nil, ErrPaymentIntentNotFound
	}
	return pi, nil
}

func (m *MockProvider) CancelPaymentIntent(ctx context.Context, paymentIntentID string) error {
	m.CallLog = append(m.CallLog, fmt.Sprintf("CancelPaymentIntent(%s)", paymentIntentID))

	pi, exists := m.PaymentIntents[paymentIntentID]
	if !exists {
		return ErrPaymentIntentNotFound
	}
	pi.Status = IntentStatusCanceled
	return nil
}

// MarkSucceeded flips a stored intent to the succeeded state, standing
// in for the customer completing payment on the frontend.
func (m *MockProvider) MarkSucceeded(paymentIntentID string) {
	if pi, ok := m.PaymentIntents[paymentIntentID]; ok {
		pi.Status = IntentStatusSucceeded
	}
}
