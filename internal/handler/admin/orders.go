package admin

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/hallgrim/vanir/internal/handler"
	"github.com/hallgrim/vanir/internal/repository"
	"github.com/hallgrim/vanir/internal/service"
)

// OrderHandler manages fulfillment.
type OrderHandler struct {
	orders service.OrderService
	logger *slog.Logger
}

// NewOrderHandler creates an OrderHandler instance.
func NewOrderHandler(orders service.OrderService, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{orders: orders, logger: logger}
}

type orderRow struct {
	ID              string    `json:"id"`
	ProfileID       string    `json:"profileId"`
	ProductTotal    int32     `json:"productTotal"`
	ShippingTotal   int32     `json:"shippingTotal"`
	TaxTotal        int32     `json:"taxTotal"`
	Total           int32     `json:"total"`
	PaymentIntentID string    `json:"paymentIntentId"`
	Fulfilled       bool      `json:"fulfilled"`
	CreatedAt       time.Time `json:"createdAt"`
}

func toOrderRow(o repository.Order) orderRow {
	return orderRow{
		ID:              handler.UUIDString(o.ID),
		ProfileID:       handler.UUIDString(o.ProfileID),
		ProductTotal:    o.ProductTotalInCents,
		ShippingTotal:   o.ShippingTotalInCents,
		TaxTotal:        o.TaxTotalInCents,
		Total:           o.TotalInCents,
		PaymentIntentID: o.PaymentIntentID,
		Fulfilled:       o.Fulfilled,
		CreatedAt:       o.CreatedAt.Time,
	}
}

// List returns every order, newest first.
// GET /admin/orders
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListAllOrders(r.Context())
	if err != nil {
		handler.ErrorResponse(w, r, h.logger, err)
		return
	}

	out := make([]orderRow, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderRow(o))
	}
	handler.JSON(w, http.StatusOK, map[string]any{"orders": out})
}

// SetFulfilled marks an order shipped or unshipped.
// PUT /admin/orders/{id}/fulfilled
func (h *OrderHandler) SetFulfilled(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Fulfilled bool `json:"fulfilled"`
	}
	if err := handler.Decode(r, &req); err != nil {
		handler.ErrorResponse(w, r, h.logger, err)
		return
	}

	order, err := h.orders.SetFulfilled(r.Context(), r.PathValue("id"), req.Fulfilled)
	if err != nil {
		handler.ErrorResponse(w, r, h.logger, err)
		return
	}
	handler.JSON(w, http.StatusOK, toOrderRow(*order))
}

// Purge deletes every order and order line. Intended for test and
// staging resets, not production use.
// DELETE /admin/orders
func (h *OrderHandler) Purge(w http.ResponseWriter, r *http.Request) {
	if err := h.orders.PurgeAllOrders(r.Context()); err != nil {
		handler.ErrorResponse(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
