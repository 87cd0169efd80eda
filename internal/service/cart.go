package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/hallgrim/vanir/internal"
	"github.com/hallgrim/vanir/internal/repository"
)

// CartService provides business logic for shopping cart operations,
// including the login-time reconciliation of a client-side cart with
// the server-side cart.
type CartService interface {
	GetCartSummary(ctx context.Context, cartID string) (*CartSummary, error)
	AddItem(ctx context.Context, cartID, productID string, quantity int32) (*CartSummary, error)
	UpdateItemQuantity(ctx context.Context, cartID, productID string, quantity int32) (*CartSummary, error)
	RemoveItem(ctx context.Context, cartID, productID string) (*CartSummary, error)
	ClearCart(ctx context.Context, cartID string) error
	MergeLocalCart(ctx context.Context, cartID string, localLines []LocalCartLine) ([]MergedLine, error)
}

// LocalCartLine is a client-side cart line submitted with the login
// form. Name and price are denormalized client copies and advisory
// only; the catalog is always the source of truth.
type LocalCartLine struct {
	ProductID    string `json:"productId"`
	Quantity     int32  `json:"quantity"`
	Name         string `json:"name,omitempty"`
	PriceInCents int32  `json:"price,omitempty"`
}

// MergedLine is a server-side cart line returned to the client after
// reconciliation, enriched with fresh catalog name and price.
type MergedLine struct {
	ProductID    string `json:"productId"`
	Name         string `json:"name"`
	PriceInCents int32  `json:"price"`
	Quantity     int32  `json:"quantity"`
}

// CartSummary aggregates cart lines with calculated totals.
type CartSummary struct {
	CartID    string     `json:"cartId"`
	Items     []CartItem `json:"items"`
	Subtotal  int64      `json:"subtotal"`
	ItemCount int32      `json:"itemCount"`
}

// CartItem is a cart line with product details and line total.
type CartItem struct {
	ProductID    string `json:"productId"`
	Name         string `json:"name"`
	PriceInCents int32  `json:"price"`
	Quantity     int32  `json:"quantity"`
	LineTotal    int64  `json:"lineTotal"`
	ImagePath    string `json:"imagePath"`
	IsAvailable  bool   `json:"isAvailable"`
}

type cartService struct {
	repo        repository.Querier
	mergePolicy string
	logger      *slog.Logger
}

// NewCartService creates a CartService instance. mergePolicy is one of
// internal.MergePolicyServerWins or internal.MergePolicySum.
func NewCartService(repo repository.Querier, mergePolicy string, logger *slog.Logger) CartService {
	if mergePolicy == "" {
		mergePolicy = internal.MergePolicyServerWins
	}
	return &cartService{repo: repo, mergePolicy: mergePolicy, logger: logger}
}

func (s *cartService) GetCartSummary(ctx context.Context, cartID string) (*CartSummary, error) {
	cartUUID, err := parseUUID(cartID)
	if err != nil {
		return nil, ErrInvalidID
	}

	rows, err := s.repo.GetCartItems(ctx, cartUUID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart items: %w", err)
	}

	summary := &CartSummary{CartID: cartID, Items: []CartItem{}}
	for _, row := range rows {
		lineTotal := int64(row.PriceInCents) * int64(row.Quantity)
		summary.Items = append(summary.Items, CartItem{
			ProductID:    uuidString(row.ProductID),
			Name:         row.Name,
			PriceInCents: row.PriceInCents,
			Quantity:     row.Quantity,
			LineTotal:    lineTotal,
			ImagePath:    row.ImagePath,
			IsAvailable:  row.IsAvailable,
		})
		summary.Subtotal += lineTotal
		summary.ItemCount += row.Quantity
	}
	return summary, nil
}

func (s *cartService) AddItem(ctx context.Context, cartID, productID string, quantity int32) (*CartSummary, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	cartUUID, err := parseUUID(cartID)
	if err != nil {
		return nil, ErrInvalidID
	}
	productUUID, err := parseUUID(productID)
	if err != nil {
		return nil, ErrInvalidID
	}

	if _, err := s.repo.GetProductByID(ctx, productUUID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	existing, err := s.repo.GetCartItem(ctx, repository.GetCartItemParams{
		CartID:    cartUUID,
		ProductID: productUUID,
	})
	switch {
	case err == nil:
		// Adding an already-carted product bumps its quantity.
		err = s.repo.UpdateCartItemQuantity(ctx, repository.UpdateCartItemQuantityParams{
			CartID:    cartUUID,
			ProductID: productUUID,
			Quantity:  existing.Quantity + quantity,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to update cart item: %w", err)
		}
	case errors.Is(err, pgx.ErrNoRows):
		_, err = s.repo.AddCartItem(ctx, repository.AddCartItemParams{
			CartID:    cartUUID,
			ProductID: productUUID,
			Quantity:  quantity,
		})
		if err != nil {
			if isUniqueViolation(err) {
				return nil, ErrDuplicateCartItem
			}
			return nil, fmt.Errorf("failed to add cart item: %w", err)
		}
	default:
		return nil, fmt.Errorf("failed to get cart item: %w", err)
	}

	return s.GetCartSummary(ctx, cartID)
}

func (s *cartService) UpdateItemQuantity(ctx context.Context, cartID, productID string, quantity int32) (*CartSummary, error) {
	cartUUID, err := parseUUID(cartID)
	if err != nil {
		return nil, ErrInvalidID
	}
	productUUID, err := parseUUID(productID)
	if err != nil {
		return nil, ErrInvalidID
	}

	// Quantity zero removes the line.
	if quantity <= 0 {
		if err := s.repo.RemoveCartItem(ctx, repository.RemoveCartItemParams{
			CartID:    cartUUID,
			ProductID: productUUID,
		}); err != nil {
			return nil, fmt.Errorf("failed to remove cart item: %w", err)
		}
		return s.GetCartSummary(ctx, cartID)
	}

	if _, err := s.repo.GetCartItem(ctx, repository.GetCartItemParams{
		CartID:    cartUUID,
		ProductID: productUUID,
	}); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCartItemNotFound
		}
		return nil, fmt.Errorf("failed to get cart item: %w", err)
	}

	if err := s.repo.UpdateCartItemQuantity(ctx, repository.UpdateCartItemQuantityParams{
		CartID:    cartUUID,
		ProductID: productUUID,
		Quantity:  quantity,
	}); err != nil {
		return nil, fmt.Errorf("failed to update cart item: %w", err)
	}
	return s.GetCartSummary(ctx, cartID)
}

func (s *cartService) RemoveItem(ctx context.Context, cartID, productID string) (*CartSummary, error) {
	cartUUID, err := parseUUID(cartID)
	if err != nil {
		return nil, ErrInvalidID
	}
	productUUID, err := parseUUID(productID)
	if err != nil {
		return nil, ErrInvalidID
	}

	if err := s.repo.RemoveCartItem(ctx, repository.RemoveCartItemParams{
		CartID:    cartUUID,
		ProductID: productUUID,
	}); err != nil {
		return nil, fmt.Errorf("failed to remove cart item: %w", err)
	}
	return s.GetCartSummary(ctx, cartID)
}

func (s *cartService) ClearCart(ctx context.Context, cartID string) error {
	cartUUID, err := parseUUID(cartID)
	if err != nil {
		return ErrInvalidID
	}
	if err := s.repo.ClearCart(ctx, cartUUID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// MergeLocalCart reconciles a client-side cart with the server-side
// cart at login. Two independent passes:
//
//  1. local→server: each local line whose product is absent server-side
//     is inserted (quantity defaults to 1). When the product already
//     exists server-side the outcome depends on the merge policy:
//     server-wins keeps the server quantity and drops the local line;
//     sum adds the local quantity onto the server line.
//  2. server→client: server lines with no local counterpart are
//     returned, enriched with fresh catalog name and price.
//
// No transaction spans the merge. A write failure in pass 1 is logged
// for that line and does not abort the rest of the merge.
func (s *cartService) MergeLocalCart(ctx context.Context, cartID string, localLines []LocalCartLine) ([]MergedLine, error) {
	cartUUID, err := parseUUID(cartID)
	if err != nil {
		return nil, ErrInvalidID
	}

	serverRows, err := s.repo.GetCartItems(ctx, cartUUID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart items: %w", err)
	}

	serverByProduct := make(map[string]repository.GetCartItemsRow, len(serverRows))
	for _, row := range serverRows {
		serverByProduct[uuidString(row.ProductID)] = row
	}

	// Pass 1: local → server.
	localSeen := make(map[string]bool, len(localLines))
	for _, line := range localLines {
		productUUID, err := parseUUID(line.ProductID)
		if err != nil {
			s.logger.Warn("skipping local cart line with invalid product id",
				slog.String("product_id", line.ProductID))
			continue
		}
		localSeen[line.ProductID] = true

		quantity := line.Quantity
		if quantity < 1 {
			quantity = 1
		}

		serverRow, onServer := serverByProduct[line.ProductID]
		if !onServer {
			if _, err := s.repo.AddCartItem(ctx, repository.AddCartItemParams{
				CartID:    cartUUID,
				ProductID: productUUID,
				Quantity:  quantity,
			}); err != nil {
				s.logger.Error("failed to merge local cart line",
					slog.String("cart_id", cartID),
					slog.String("product_id", line.ProductID),
					slog.String("error", err.Error()))
			}
			continue
		}

		if s.mergePolicy == internal.MergePolicySum {
			if err := s.repo.UpdateCartItemQuantity(ctx, repository.UpdateCartItemQuantityParams{
				CartID:    cartUUID,
				ProductID: productUUID,
				Quantity:  serverRow.Quantity + quantity,
			}); err != nil {
				s.logger.Error("failed to sum merged cart line",
					slog.String("cart_id", cartID),
					slog.String("product_id", line.ProductID),
					slog.String("error", err.Error()))
			}
		}
		// server-wins: the server quantity stands, local line dropped.
	}

	// Pass 2: server → client, enriched from the catalog join.
	merged := []MergedLine{}
	for _, row := range serverRows {
		productID := uuidString(row.ProductID)
		if localSeen[productID] {
			continue
		}
		merged = append(merged, MergedLine{
			ProductID:    productID,
			Name:         row.Name,
			PriceInCents: row.PriceInCents,
			Quantity:     row.Quantity,
		})
	}
	return merged, nil
}
