package storefront

import (
	"log/slog"
	"net/http"

	"github.com/hallgrim/vanir/internal/handler"
	"github.com/hallgrim/vanir/internal/service"
)

// CartHandler serves the authenticated user's cart.
type CartHandler struct {
	carts  service.CartService
	users  service.UserService
	logger *slog.Logger
}

// NewCartHandler creates a CartHandler instance.
func NewCartHandler(carts service.CartService, users service.UserService, logger *slog.Logger) *CartHandler {
	return &CartHandler{carts: carts, users: users, logger: logger}
}

type cartItemRequest struct {
	ProductID string `json:"productId" validate:"required,uuid"`
	Quantity  int32  `json:"quantity" validate:"gte=0"`
}

// Summary returns the cart with line details and totals.
// GET /cart
func (h *CartHandler) Summary(w http.ResponseWriter, r *http.Request) {
	account, err := currentAccount(r, h.users)
	if err != nil {
		handler.ErrorResponse(w, r, h.logger, err)
		return
	}

	summary, err := h.carts.GetCartSummary(r.Context(), account.CartID)
	if err != nil {
		handler.ErrorResponse(w, r, h.logger, err)
		return
	}
	handler.JSON(w, http.StatusOK, summary)
}

// AddItem adds a product to the cart or bumps its quantity.
// POST /cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	account, err := currentAccount(r, h.users)
	if err != nil {
		handler.ErrorResponse(w, r, h.logger, err)
		return
	}

	var req cartItemRequest
	if err := handler.Decode(r, &req); err != nil {
		handler.ErrorResponse(w, r, h.logger, err)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	summary, err := h.carts.AddItem(r.Context(), account.CartID, req.ProductID, req.Quantity)
	if err != nil {
		handler.ErrorResponse(w, r, h.logger, err)
		return
	}
	handler.JSON(w, http.StatusOK, summary)
}

// UpdateItem sets a line's quantity; zero removes the line.
// PUT /cart/items/{productId}
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	account, err := currentAccount(r, h.users)
	if err != nil {
		handler.ErrorResponse(w, r, h.logger, err)
		return
	}

	var req struct {
		Quantity int32 `json:"quantity" validate:"gte=0"`
	}
	if err := handler.Decode(r, &req); err != nil {
		handler.ErrorResponse(w, r, h.logger, err)
		return
	}

	summary, err := h.carts.UpdateItemQuantity(r.Context(), account.CartID, r.PathValue("productId"), req.Quantity)
	if err != nil {
		handler.ErrorResponse(w, r, h.logger, err)
		return
	}
	handler.JSON(w, http.StatusOK, summary)
}

// RemoveItem deletes a line from the cart.
// DELETE /cart/items/{productId}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	account, err := currentAccount(r, h.users)
	if err != nil {
		handler.ErrorResponse(w, r, h.logger, err)
		return
	}

	summary, err := h.carts.RemoveItem(r.Context(), account.CartID, r.PathValue("productId"))
	if err != nil {
		handler.ErrorResponse(w, r, h.logger, err)
		return
	}
	handler.JSON(w, http.StatusOK, summary)
}

// Clear empties the cart.
// DELETE /cart
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	account, err := currentAccount(r, h.users)
	if err != nil {
		handler.ErrorResponse(w, r, h.logger, err)
		return
	}

	if err := h.carts.ClearCart(r.Context(), account.CartID); err != nil {
		handler.ErrorResponse(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
