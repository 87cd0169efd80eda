// Package routes wires handlers, middleware and the router together.
package routes

import (
	"log/slog"
	"net/http"

	"github.com/hallgrim/vanir/internal"
	"github.com/hallgrim/vanir/internal/handler/admin"
	"github.com/hallgrim/vanir/internal/handler/storefront"
	"github.com/hallgrim/vanir/internal/middleware"
	"github.com/hallgrim/vanir/internal/router"
	"github.com/hallgrim/vanir/internal/service"
)

// Deps carries everything the route table needs.
type Deps struct {
	Config   *internal.Config
	Logger   *slog.Logger
	Metrics  *middleware.Metrics
	Users    service.UserService
	Sessions service.SessionService
	Carts    service.CartService
	Checkout service.CheckoutService
	Orders   service.OrderService
	Products service.ProductService
	Categories service.CategoryService
}

// New builds the full route table.
func New(d Deps) http.Handler {
	r := router.New(
		middleware.RequestID,
		router.Logger(d.Logger),
		router.Recovery(d.Logger),
		d.Metrics.Middleware,
		middleware.WithUser(d.Sessions),
	)

	secure := d.Config.Env == "prod"

	auth := storefront.NewAuthHandler(d.Users, d.Carts, d.Sessions, secure, d.Logger)
	catalog := storefront.NewProductHandler(d.Products, d.Categories, d.Logger)
	cart := storefront.NewCartHandler(d.Carts, d.Users, d.Logger)
	checkout := storefront.NewCheckoutHandler(d.Checkout, d.Users, d.Logger)
	orders := storefront.NewOrderHandler(d.Orders, d.Users, d.Logger)

	// Public storefront.
	r.Get("/health", healthCheck)
	r.Get("/products", catalog.List)
	r.Get("/products/{id}", catalog.Detail)
	r.Get("/categories", catalog.Categories)
	r.Post("/auth/register", auth.Register)
	r.Post("/auth/login", auth.Login)
	r.Post("/auth/logout", auth.Logout)

	// Authenticated storefront.
	authed := r.Group(middleware.RequireAuth)
	authed.Get("/auth/me", auth.Me)
	authed.Put("/account/address", auth.UpdateAddress)
	authed.Get("/cart", cart.Summary)
	authed.Delete("/cart", cart.Clear)
	authed.Post("/cart/items", cart.AddItem)
	authed.Put("/cart/items/{productId}", cart.UpdateItem)
	authed.Delete("/cart/items/{productId}", cart.RemoveItem)
	authed.Get("/checkout/totals", checkout.Totals)
	authed.Post("/checkout", checkout.Create)
	authed.Get("/purchase-success", orders.Finalize)
	authed.Get("/orders", orders.History)
	authed.Get("/orders/{id}", orders.Detail)

	// Back office.
	adminProducts := admin.NewProductHandler(d.Products, d.Logger)
	adminCategories := admin.NewCategoryHandler(d.Categories, d.Logger)
	adminUsers := admin.NewUserHandler(d.Users, d.Logger)
	adminOrders := admin.NewOrderHandler(d.Orders, d.Logger)

	backoffice := r.Group(middleware.RequireAuth, middleware.RequireAdmin)
	backoffice.Get("/admin/products", adminProducts.List)
	backoffice.Post("/admin/products", adminProducts.Create)
	backoffice.Put("/admin/products/{id}", adminProducts.Update)
	backoffice.Put("/admin/products/{id}/availability", adminProducts.SetAvailability)
	backoffice.Delete("/admin/products/{id}", adminProducts.Delete)
	backoffice.Post("/admin/products/{id}/image", adminProducts.UploadImage)
	backoffice.Get("/admin/categories", adminCategories.List)
	backoffice.Post("/admin/categories", adminCategories.Create)
	backoffice.Put("/admin/categories/{id}", adminCategories.Rename)
	backoffice.Put("/admin/categories/{id}/active", adminCategories.SetActive)
	backoffice.Delete("/admin/categories/{id}", adminCategories.Delete)
	backoffice.Get("/admin/users", adminUsers.List)
	backoffice.Delete("/admin/users/{id}", adminUsers.Delete)
	backoffice.Get("/admin/orders", adminOrders.List)
	backoffice.Put("/admin/orders/{id}/fulfilled", adminOrders.SetFulfilled)
	backoffice.Delete("/admin/orders", adminOrders.Purge)

	// Operational endpoints.
	r.Handle(http.MethodGet, "/metrics", d.Metrics.Handler())

	// Locally stored product images.
	if d.Config.Storage.Provider == "" || d.Config.Storage.Provider == "local" {
		r.Static("/uploads", d.Config.Storage.LocalPath)
	}

	return r
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`)) //nolint:errcheck
}
