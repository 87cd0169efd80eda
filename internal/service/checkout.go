package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/hallgrim/vanir/internal/billing"
	"github.com/hallgrim/vanir/internal/repository"
	"github.com/hallgrim/vanir/internal/shipping"
	"github.com/hallgrim/vanir/internal/tax"
)

// Metadata keys stored on the payment intent. Finalization rebuilds the
// order from these, never from the live cart.
const (
	metaUserID        = "user_id"
	metaCartID        = "cart_id"
	metaCartTotal     = "cart_total"
	metaShippingTotal = "shipping_total"
	metaTaxTotal      = "tax_total"
	metaOrderTotal    = "order_total"
	metaCartItems     = "cart_items"
)

// OrderTotals is the result of pricing a cart for checkout.
type OrderTotals struct {
	CartTotal     int64 `json:"cartTotal"`
	ShippingTotal int64 `json:"shippingTotal"`
	TaxTotal      int64 `json:"taxTotal"`
	OrderTotal    int64 `json:"orderTotal"`
}

// MetadataItem is one cart line snapshotted into intent metadata.
type MetadataItem struct {
	CartID    string `json:"cart_id"`
	ProductID string `json:"product_id"`
	Quantity  int32  `json:"quantity"`
}

// IntentMetadata is the typed view of the payment intent metadata map.
// Encode and DecodeIntentMetadata are the only places that touch the
// string-keyed wire format; decoding fails closed on any missing or
// malformed field.
type IntentMetadata struct {
	UserID string
	CartID string
	Totals OrderTotals
	Items  []MetadataItem
}

// Encode renders the metadata as the provider's string-only map.
func (m IntentMetadata) Encode() (map[string]string, error) {
	items, err := json.Marshal(m.Items)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cart items: %w", err)
	}
	return map[string]string{
		metaUserID:        m.UserID,
		metaCartID:        m.CartID,
		metaCartTotal:     strconv.FormatInt(m.Totals.CartTotal, 10),
		metaShippingTotal: strconv.FormatInt(m.Totals.ShippingTotal, 10),
		metaTaxTotal:      strconv.FormatInt(m.Totals.TaxTotal, 10),
		metaOrderTotal:    strconv.FormatInt(m.Totals.OrderTotal, 10),
		metaCartItems:     string(items),
	}, nil
}

// DecodeIntentMetadata parses a provider metadata map. Every field must
// be present and well-formed; anything else returns ErrInvalidMetadata.
func DecodeIntentMetadata(meta map[string]string) (*IntentMetadata, error) {
	if meta == nil {
		return nil, fmt.Errorf("%w: metadata map is nil", ErrInvalidMetadata)
	}

	out := &IntentMetadata{}

	var ok bool
	if out.UserID, ok = meta[metaUserID]; !ok || out.UserID == "" {
		return nil, fmt.Errorf("%w: missing %s", ErrInvalidMetadata, metaUserID)
	}
	if out.CartID, ok = meta[metaCartID]; !ok || out.CartID == "" {
		return nil, fmt.Errorf("%w: missing %s", ErrInvalidMetadata, metaCartID)
	}

	for _, f := range []struct {
		key string
		dst *int64
	}{
		{metaCartTotal, &out.Totals.CartTotal},
		{metaShippingTotal, &out.Totals.ShippingTotal},
		{metaTaxTotal, &out.Totals.TaxTotal},
		{metaOrderTotal, &out.Totals.OrderTotal},
	} {
		raw, ok := meta[f.key]
		if !ok {
			return nil, fmt.Errorf("%w: missing %s", ErrInvalidMetadata, f.key)
		}
		v, err := strconv.ParseInt(raw, 10, 64)
		// Totals end up in int32 order columns; values past MaxInt32
		// would wrap, so they fail closed like any other bad field.
		if err != nil || v < 0 || v > math.MaxInt32 {
			return nil, fmt.Errorf("%w: malformed %s %q", ErrInvalidMetadata, f.key, raw)
		}
		*f.dst = v
	}

	rawItems, ok := meta[metaCartItems]
	if !ok {
		return nil, fmt.Errorf("%w: missing %s", ErrInvalidMetadata, metaCartItems)
	}
	if err := json.Unmarshal([]byte(rawItems), &out.Items); err != nil {
		return nil, fmt.Errorf("%w: malformed %s: %v", ErrInvalidMetadata, metaCartItems, err)
	}

	return out, nil
}

// CheckoutSession is what the frontend needs to confirm a payment.
type CheckoutSession struct {
	PaymentIntentID string      `json:"paymentIntentId"`
	ClientSecret    string      `json:"clientSecret"`
	Totals          OrderTotals `json:"totals"`
}

// CheckoutService prices carts and opens payment intents for them.
type CheckoutService interface {
	CalculateOrderTotal(ctx context.Context, cartID string) (*OrderTotals, error)
	CreatePaymentIntent(ctx context.Context, userID, cartID string) (*CheckoutSession, error)
}

type checkoutService struct {
	repo     repository.Querier
	billing  billing.Provider
	tax      tax.Calculator
	shipping shipping.Calculator
}

// NewCheckoutService creates a CheckoutService instance.
func NewCheckoutService(repo repository.Querier, provider billing.Provider, taxCalc tax.Calculator, shipCalc shipping.Calculator) CheckoutService {
	return &checkoutService{
		repo:     repo,
		billing:  provider,
		tax:      taxCalc,
		shipping: shipCalc,
	}
}

// priceCart fetches the cart lines and prices them: subtotal from
// catalog prices, flat shipping on top, tax on subtotal plus shipping
// (the tax calculator performs the single float rounding step). Also
// returns the metadata snapshot of the lines so intent creation and
// total previews cannot drift apart.
func (s *checkoutService) priceCart(ctx context.Context, cartID string) (*OrderTotals, []MetadataItem, error) {
	cartUUID, err := parseUUID(cartID)
	if err != nil {
		return nil, nil, ErrInvalidID
	}

	rows, err := s.repo.GetCartItems(ctx, cartUUID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get cart items: %w", err)
	}

	totals := &OrderTotals{}
	items := make([]MetadataItem, 0, len(rows))
	for _, row := range rows {
		quantity := row.Quantity
		if quantity < 0 {
			quantity = 0
		}
		totals.CartTotal += int64(row.PriceInCents) * int64(quantity)
		items = append(items, MetadataItem{
			CartID:    cartID,
			ProductID: uuidString(row.ProductID),
			Quantity:  quantity,
		})
	}
	totals.ShippingTotal = s.shipping.Calculate(totals.CartTotal)
	totals.TaxTotal = s.tax.Calculate(totals.CartTotal + totals.ShippingTotal)
	totals.OrderTotal = totals.CartTotal + totals.ShippingTotal + totals.TaxTotal
	return totals, items, nil
}

// CalculateOrderTotal prices the cart from live catalog data.
func (s *checkoutService) CalculateOrderTotal(ctx context.Context, cartID string) (*OrderTotals, error) {
	totals, _, err := s.priceCart(ctx, cartID)
	return totals, err
}

// CreatePaymentIntent prices the cart, snapshots it into intent
// metadata and opens a payment intent for the order total.
func (s *checkoutService) CreatePaymentIntent(ctx context.Context, userID, cartID string) (*CheckoutSession, error) {
	totals, items, err := s.priceCart(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	meta, err := IntentMetadata{
		UserID: userID,
		CartID: cartID,
		Totals: *totals,
		Items:  items,
	}.Encode()
	if err != nil {
		return nil, err
	}

	pi, err := s.billing.CreatePaymentIntent(ctx, billing.CreatePaymentIntentParams{
		AmountCents:    totals.OrderTotal,
		Currency:       "usd",
		Description:    fmt.Sprintf("Order for cart %s", cartID),
		Metadata:       meta,
		IdempotencyKey: fmt.Sprintf("cart-%s-%d", cartID, totals.OrderTotal),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	return &CheckoutSession{
		PaymentIntentID: pi.ID,
		ClientSecret:    pi.ClientSecret,
		Totals:          *totals,
	}, nil
}
