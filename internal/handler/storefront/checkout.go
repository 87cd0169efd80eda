package storefront

import (
	"log/slog"
	"net/http"

	"github.com/hallgrim/vanir/internal/handler"
	"github.com/hallgrim/vanir/internal/service"
)

// CheckoutHandler starts the payment flow for the current cart.
type CheckoutHandler struct {
	checkout service.CheckoutService
	users    service.UserService
	logger   *slog.Logger
}

// NewCheckoutHandler creates a CheckoutHandler instance.
func NewCheckoutHandler(checkout service.CheckoutService, users service.UserService, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout, users: users, logger: logger}
}

// Totals prices the current cart without creating a payment intent.
// GET /checkout/totals
func (h *CheckoutHandler) Totals(w http.ResponseWriter, r *http.Request) {
	account, err := currentAccount(r, h.users)
	if err != nil {
		handler.ErrorResponse(w, r, h.logger, err)
		return
	}

	totals, err := h.checkout.CalculateOrderTotal(r.Context(), account.CartID)
	if err != nil {
		handler.ErrorResponse(w, r, h.logger, err)
		return
	}
	handler.JSON(w, http.StatusOK, totals)
}

// Create prices the cart and creates a payment intent. The returned
// client secret is what the frontend confirms the payment with.
// POST /checkout
func (h *CheckoutHandler) Create(w http.ResponseWriter, r *http.Request) {
	account, err := currentAccount(r, h.users)
	if err != nil {
		handler.ErrorResponse(w, r, h.logger, err)
		return
	}

	session, err := h.checkout.CreatePaymentIntent(r.Context(), handler.UUIDString(account.User.ID), account.CartID)
	if err != nil {
		handler.ErrorResponse(w, r, h.logger, err)
		return
	}
	handler.JSON(w, http.StatusCreated, session)
}
