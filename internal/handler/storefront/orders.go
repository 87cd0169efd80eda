package storefront

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/hallgrim/vanir/internal/domain"
	"github.com/hallgrim/vanir/internal/handler"
	"github.com/hallgrim/vanir/internal/repository"
	"github.com/hallgrim/vanir/internal/service"
)

// OrderHandler finalizes payments into orders and serves history.
type OrderHandler struct {
	orders service.OrderService
	users  service.UserService
	logger *slog.Logger
}

// NewOrderHandler creates an OrderHandler instance.
func NewOrderHandler(orders service.OrderService, users service.UserService, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{orders: orders, users: users, logger: logger}
}

type orderResponse struct {
	ID              string    `json:"id"`
	ProductTotal    int32     `json:"productTotal"`
	ShippingTotal   int32     `json:"shippingTotal"`
	TaxTotal        int32     `json:"taxTotal"`
	Total           int32     `json:"total"`
	PaymentIntentID string    `json:"paymentIntentId"`
	Fulfilled       bool      `json:"fulfilled"`
	CreatedAt       time.Time `json:"createdAt"`
}

type orderItemResponse struct {
	ProductID    string `json:"productId"`
	Name         string `json:"name"`
	PriceInCents int32  `json:"price"`
	Quantity     int32  `json:"quantity"`
}

type orderDetailResponse struct {
	orderResponse
	Items []orderItemResponse `json:"items"`
}

func toOrderResponse(o repository.Order) orderResponse {
	return orderResponse{
		ID:              handler.UUIDString(o.ID),
		ProductTotal:    o.ProductTotalInCents,
		ShippingTotal:   o.ShippingTotalInCents,
		TaxTotal:        o.TaxTotalInCents,
		Total:           o.TotalInCents,
		PaymentIntentID: o.PaymentIntentID,
		Fulfilled:       o.Fulfilled,
		CreatedAt:       o.CreatedAt.Time,
	}
}

func toOrderDetailResponse(d *service.OrderDetail) orderDetailResponse {
	items := make([]orderItemResponse, 0, len(d.Items))
	for _, it := range d.Items {
		items = append(items, orderItemResponse{
			ProductID:    handler.UUIDString(it.ProductID),
			Name:         it.Name,
			PriceInCents: it.PriceInCents,
			Quantity:     it.Quantity,
		})
	}
	return orderDetailResponse{orderResponse: toOrderResponse(d.Order), Items: items}
}

// Finalize converts a succeeded payment intent into an order. The
// frontend lands here after payment confirmation. Repeated calls for
// the same intent return the same order.
// GET /purchase-success?payment_intent={id}
func (h *OrderHandler) Finalize(w http.ResponseWriter, r *http.Request) {
	account, err := currentAccount(r, h.users)
	if err != nil {
		handler.ErrorResponse(w, r, h.logger, err)
		return
	}

	intentID := r.URL.Query().Get("payment_intent")
	if intentID == "" {
		handler.ErrorResponse(w, r, h.logger,
			domain.Invalid("order.finalize", "payment_intent is required"))
		return
	}

	detail, err := h.orders.FinalizeFromPaymentIntent(r.Context(), intentID)
	if err != nil {
		handler.ErrorResponse(w, r, h.logger, err)
		return
	}

	if detail.Order.ProfileID != account.Profile.ID {
		handler.ErrorResponse(w, r, h.logger,
			domain.Forbidden("order.finalize", "Order belongs to another account"))
		return
	}

	handler.JSON(w, http.StatusOK, toOrderDetailResponse(detail))
}

// History lists the account's orders, newest first.
// GET /orders
func (h *OrderHandler) History(w http.ResponseWriter, r *http.Request) {
	account, err := currentAccount(r, h.users)
	if err != nil {
		handler.ErrorResponse(w, r, h.logger, err)
		return
	}

	orders, err := h.orders.ListOrdersByProfile(r.Context(), handler.UUIDString(account.Profile.ID))
	if err != nil {
		handler.ErrorResponse(w, r, h.logger, err)
		return
	}

	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	handler.JSON(w, http.StatusOK, map[string]any{"orders": out})
}

// Detail returns one of the account's orders with its line items.
// GET /orders/{id}
func (h *OrderHandler) Detail(w http.ResponseWriter, r *http.Request) {
	account, err := currentAccount(r, h.users)
	if err != nil {
		handler.ErrorResponse(w, r, h.logger, err)
		return
	}

	detail, err := h.orders.GetOrderDetail(r.Context(), r.PathValue("id"))
	if err != nil {
		handler.ErrorResponse(w, r, h.logger, err)
		return
	}

	// Hide other accounts' orders rather than confirming they exist.
	if detail.Order.ProfileID != account.Profile.ID {
		handler.ErrorResponse(w, r, h.logger, service.ErrOrderNotFound)
		return
	}

	handler.JSON(w, http.StatusOK, toOrderDetailResponse(detail))
}
