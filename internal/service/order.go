package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/hallgrim/vanir/internal/billing"
	"github.com/hallgrim/vanir/internal/events"
	"github.com/hallgrim/vanir/internal/repository"
)

// OrderDetail is an order with its line items.
type OrderDetail struct {
	Order repository.Order
	Items []repository.GetOrderProductsRow
}

// OrderService turns succeeded payments into orders and serves order
// history.
type OrderService interface {
	// FinalizeFromPaymentIntent converts a succeeded payment intent
	// into an order. Safe to call repeatedly for the same intent.
	FinalizeFromPaymentIntent(ctx context.Context, paymentIntentID string) (*OrderDetail, error)
	ListOrdersByProfile(ctx context.Context, profileID string) ([]repository.Order, error)
	GetOrderDetail(ctx context.Context, orderID string) (*OrderDetail, error)

	// ListAllOrders returns every order in the system. Admin-only.
	ListAllOrders(ctx context.Context) ([]repository.Order, error)
	// SetFulfilled marks an order shipped or not. Admin-only.
	SetFulfilled(ctx context.Context, orderID string, fulfilled bool) (*repository.Order, error)
	// PurgeAllOrders deletes every order and order line. Admin-only.
	PurgeAllOrders(ctx context.Context) error
}

type orderService struct {
	repo    repository.Querier
	billing billing.Provider
	events  events.Publisher
	logger  *slog.Logger
}

// NewOrderService creates an OrderService instance.
func NewOrderService(repo repository.Querier, provider billing.Provider, publisher events.Publisher, logger *slog.Logger) OrderService {
	return &orderService{repo: repo, billing: provider, events: publisher, logger: logger}
}

// FinalizeFromPaymentIntent runs the post-payment state machine:
//
//   - retrieve the intent; anything but status "succeeded" writes
//     nothing and returns ErrPaymentNotSucceeded
//   - if an order already exists for the intent, return it unchanged
//     (orders carry a unique payment_intent_id)
//   - otherwise decode the metadata snapshot taken at intent creation
//     (never the live cart), write the order, fan out one order line
//     per snapshot line with a product and positive quantity, then
//     empty the cart
//
// Line fan-out is per-line independent: a failed line is logged and the
// remaining lines are still attempted.
func (s *orderService) FinalizeFromPaymentIntent(ctx context.Context, paymentIntentID string) (*OrderDetail, error) {
	pi, err := s.billing.GetPaymentIntent(ctx, paymentIntentID)
	if err != nil {
		if errors.Is(err, billing.ErrPaymentIntentNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to retrieve payment intent: %w", err)
	}
	if !pi.Succeeded() {
		return nil, ErrPaymentNotSucceeded
	}

	existing, err := s.repo.GetOrderByPaymentIntentID(ctx, paymentIntentID)
	if err == nil {
		return s.detailFor(ctx, existing)
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to check for existing order: %w", err)
	}

	meta, err := DecodeIntentMetadata(pi.Metadata)
	if err != nil {
		return nil, err
	}

	userUUID, err := parseUUID(meta.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: bad user_id", ErrInvalidMetadata)
	}
	profile, err := s.repo.GetProfileByUserID(ctx, userUUID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to resolve profile: %w", err)
	}

	order, err := s.repo.CreateOrder(ctx, repository.CreateOrderParams{
		ProfileID:            profile.ID,
		ProductTotalInCents:  int32(meta.Totals.CartTotal),
		ShippingTotalInCents: int32(meta.Totals.ShippingTotal),
		TaxTotalInCents:      int32(meta.Totals.TaxTotal),
		TotalInCents:         int32(meta.Totals.OrderTotal),
		PaymentIntentID:      paymentIntentID,
	})
	if err != nil {
		if isUniqueViolation(err) {
			// Lost a finalization race; the winner's order stands.
			won, getErr := s.repo.GetOrderByPaymentIntentID(ctx, paymentIntentID)
			if getErr != nil {
				return nil, fmt.Errorf("failed to load racing order: %w", getErr)
			}
			return s.detailFor(ctx, won)
		}
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	for _, item := range meta.Items {
		if item.ProductID == "" || item.Quantity <= 0 {
			continue
		}
		productUUID, err := parseUUID(item.ProductID)
		if err != nil {
			s.logOrderLineFailure(order, item, err)
			continue
		}
		product, err := s.repo.GetProductByID(ctx, productUUID)
		if err != nil {
			s.logOrderLineFailure(order, item, err)
			continue
		}
		if _, err := s.repo.CreateOrderProduct(ctx, repository.CreateOrderProductParams{
			OrderID:      order.ID,
			ProductID:    productUUID,
			Quantity:     item.Quantity,
			PriceInCents: product.PriceInCents,
		}); err != nil {
			s.logOrderLineFailure(order, item, err)
		}
	}

	if err := s.events.Publish(ctx, events.SubjectOrderFinalized, uuidString(order.ID)); err != nil {
		s.logger.Warn("failed to publish order event",
			slog.String("order_id", uuidString(order.ID)),
			slog.String("error", err.Error()))
	}

	if cartUUID, err := parseUUID(meta.CartID); err == nil {
		if err := s.repo.ClearCart(ctx, cartUUID); err != nil {
			s.logger.Error("failed to clear cart after finalization",
				slog.String("cart_id", meta.CartID),
				slog.String("order_id", uuidString(order.ID)),
				slog.String("error", err.Error()))
		}
	}

	return s.detailFor(ctx, order)
}

func (s *orderService) logOrderLineFailure(order repository.Order, item MetadataItem, err error) {
	s.logger.Error("failed to create order line",
		slog.String("order_id", uuidString(order.ID)),
		slog.String("product_id", item.ProductID),
		slog.Int("quantity", int(item.Quantity)),
		slog.String("error", err.Error()))
}

func (s *orderService) detailFor(ctx context.Context, order repository.Order) (*OrderDetail, error) {
	items, err := s.repo.GetOrderProducts(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order products: %w", err)
	}
	return &OrderDetail{Order: order, Items: items}, nil
}

func (s *orderService) ListOrdersByProfile(ctx context.Context, profileID string) ([]repository.Order, error) {
	profileUUID, err := parseUUID(profileID)
	if err != nil {
		return nil, ErrInvalidID
	}
	orders, err := s.repo.ListOrdersByProfileID(ctx, profileUUID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

func (s *orderService) GetOrderDetail(ctx context.Context, orderID string) (*OrderDetail, error) {
	orderUUID, err := parseUUID(orderID)
	if err != nil {
		return nil, ErrInvalidID
	}
	order, err := s.repo.GetOrderByID(ctx, orderUUID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return s.detailFor(ctx, order)
}

func (s *orderService) ListAllOrders(ctx context.Context) ([]repository.Order, error) {
	orders, err := s.repo.ListAllOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

func (s *orderService) SetFulfilled(ctx context.Context, orderID string, fulfilled bool) (*repository.Order, error) {
	orderUUID, err := parseUUID(orderID)
	if err != nil {
		return nil, ErrInvalidID
	}
	order, err := s.repo.UpdateOrderFulfilled(ctx, repository.UpdateOrderFulfilledParams{
		ID:        orderUUID,
		Fulfilled: fulfilled,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to update order: %w", err)
	}
	return &order, nil
}

func (s *orderService) PurgeAllOrders(ctx context.Context) error {
	if err := s.repo.DeleteAllOrderProducts(ctx); err != nil {
		return fmt.Errorf("failed to purge order products: %w", err)
	}
	if err := s.repo.DeleteAllOrders(ctx); err != nil {
		return fmt.Errorf("failed to purge orders: %w", err)
	}
	return nil
}
