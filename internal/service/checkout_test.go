package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hallgrim/vanir/internal/billing"
	"github.com/hallgrim/vanir/internal/shipping"
	"github.com/hallgrim/vanir/internal/tax"
)

func newCheckoutFixture(repo *fakeRepo) (CheckoutService, *billing.MockProvider) {
	provider := billing.NewMockProvider()
	svc := NewCheckoutService(repo,
		provider,
		tax.NewPercentageCalculator(0.0675),
		shipping.NewFlatRateCalculator(999),
	)
	return svc, provider
}

func TestCalculateOrderTotal(t *testing.T) {
	tests := []struct {
		name         string
		lines        []struct{ price, qty int32 }
		wantCart     int64
		wantShipping int64
		wantTax      int64
		wantOrder    int64
	}{
		{
			name:         "reference example",
			lines:        []struct{ price, qty int32 }{{2500, 2}},
			wantCart:     5000,
			wantShipping: 999,
			wantTax:      405, // round((5000+999)*0.0675)
			wantOrder:    6404,
		},
		{
			name:         "multiple lines",
			lines:        []struct{ price, qty int32 }{{1000, 1}, {500, 4}},
			wantCart:     3000,
			wantShipping: 999,
			wantTax:      270, // round(3999*0.0675) = round(269.93)
			wantOrder:    4269,
		},
		{
			// The flat rate and tax apply even when nothing in the
			// cart costs anything.
			name:         "empty cart still charges shipping",
			lines:        nil,
			wantCart:     0,
			wantShipping: 999,
			wantTax:      67, // round(999*0.0675)
			wantOrder:    1066,
		},
		{
			name:         "zero-priced products still charge shipping",
			lines:        []struct{ price, qty int32 }{{0, 3}},
			wantCart:     0,
			wantShipping: 999,
			wantTax:      67,
			wantOrder:    1066,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeRepo()
			_, _, cart := repo.seedAccount("a@example.com")
			for i, line := range tt.lines {
				p := repo.seedProduct(string(rune('A'+i)), line.price)
				repo.seedCartItem(cart.ID, p.ID, line.qty)
			}

			svc, _ := newCheckoutFixture(repo)
			totals, err := svc.CalculateOrderTotal(context.Background(), uuidString(cart.ID))
			require.NoError(t, err)

			assert.Equal(t, tt.wantCart, totals.CartTotal)
			assert.Equal(t, tt.wantShipping, totals.ShippingTotal)
			assert.Equal(t, tt.wantTax, totals.TaxTotal)
			assert.Equal(t, tt.wantOrder, totals.OrderTotal)
		})
	}
}

func TestCreatePaymentIntent(t *testing.T) {
	repo := newFakeRepo()
	user, _, cart := repo.seedAccount("a@example.com")
	coffee := repo.seedProduct("Coffee", 2500)
	repo.seedCartItem(cart.ID, coffee.ID, 2)

	svc, provider := newCheckoutFixture(repo)

	session, err := svc.CreatePaymentIntent(context.Background(), uuidString(user.ID), uuidString(cart.ID))
	require.NoError(t, err)
	assert.NotEmpty(t, session.ClientSecret)
	assert.Equal(t, int64(6404), session.Totals.OrderTotal)

	// The intent carries the full metadata snapshot.
	pi := provider.PaymentIntents[session.PaymentIntentID]
	require.NotNil(t, pi)
	assert.Equal(t, int64(6404), pi.AmountCents)

	meta, err := DecodeIntentMetadata(pi.Metadata)
	require.NoError(t, err)
	assert.Equal(t, uuidString(user.ID), meta.UserID)
	assert.Equal(t, uuidString(cart.ID), meta.CartID)
	assert.Equal(t, int64(5000), meta.Totals.CartTotal)
	require.Len(t, meta.Items, 1)
	assert.Equal(t, uuidString(coffee.ID), meta.Items[0].ProductID)
	assert.Equal(t, int32(2), meta.Items[0].Quantity)
}

func TestCreatePaymentIntent_EmptyCart(t *testing.T) {
	repo := newFakeRepo()
	user, _, cart := repo.seedAccount("a@example.com")
	svc, _ := newCheckoutFixture(repo)

	_, err := svc.CreatePaymentIntent(context.Background(), uuidString(user.ID), uuidString(cart.ID))
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestIntentMetadata_RoundTrip(t *testing.T) {
	in := IntentMetadata{
		UserID: "3e5617a8-0d78-4f3f-9b63-6d7c2e8e1d11",
		CartID: "f1b3db0f-93f5-4f0f-8b34-58c7a8b4c111",
		Totals: OrderTotals{CartTotal: 5000, ShippingTotal: 999, TaxTotal: 405, OrderTotal: 6404},
		Items: []MetadataItem{
			{CartID: "f1b3db0f-93f5-4f0f-8b34-58c7a8b4c111", ProductID: "a", Quantity: 2},
		},
	}

	encoded, err := in.Encode()
	require.NoError(t, err)
	assert.Equal(t, "5000", encoded["cart_total"])
	assert.Equal(t, "999", encoded["shipping_total"])
	assert.Equal(t, "405", encoded["tax_total"])
	assert.Equal(t, "6404", encoded["order_total"])

	out, err := DecodeIntentMetadata(encoded)
	require.NoError(t, err)
	assert.Equal(t, in, *out)
}

func TestDecodeIntentMetadata_FailsClosed(t *testing.T) {
	valid := func() map[string]string {
		m, err := (IntentMetadata{
			UserID: "u", CartID: "c",
			Totals: OrderTotals{CartTotal: 1, ShippingTotal: 2, TaxTotal: 3, OrderTotal: 6},
		}).Encode()
		require.NoError(t, err)
		return m
	}

	tests := []struct {
		name   string
		mutate func(map[string]string)
	}{
		{"missing user_id", func(m map[string]string) { delete(m, "user_id") }},
		{"empty user_id", func(m map[string]string) { m["user_id"] = "" }},
		{"missing cart_id", func(m map[string]string) { delete(m, "cart_id") }},
		{"missing cart_total", func(m map[string]string) { delete(m, "cart_total") }},
		{"non-numeric order_total", func(m map[string]string) { m["order_total"] = "lots" }},
		{"negative tax_total", func(m map[string]string) { m["tax_total"] = "-1" }},
		{"cart_total past int32 range", func(m map[string]string) { m["cart_total"] = "2147483648" }},
		{"missing cart_items", func(m map[string]string) { delete(m, "cart_items") }},
		{"malformed cart_items", func(m map[string]string) { m["cart_items"] = "{not json" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := valid()
			tt.mutate(m)
			_, err := DecodeIntentMetadata(m)
			assert.ErrorIs(t, err, ErrInvalidMetadata)
		})
	}

	t.Run("nil map", func(t *testing.T) {
		_, err := DecodeIntentMetadata(nil)
		assert.ErrorIs(t, err, ErrInvalidMetadata)
	})
}
