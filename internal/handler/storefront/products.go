package storefront

import (
	"log/slog"
	"net/http"

	"github.com/hallgrim/vanir/internal/handler"
	"github.com/hallgrim/vanir/internal/repository"
	"github.com/hallgrim/vanir/internal/service"
)

// ProductHandler serves the public catalog.
type ProductHandler struct {
	products   service.ProductService
	categories service.CategoryService
	logger     *slog.Logger
}

// NewProductHandler creates a ProductHandler instance.
func NewProductHandler(products service.ProductService, categories service.CategoryService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{products: products, categories: categories, logger: logger}
}

type productResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	PriceInCents int32  `json:"price"`
	Description  string `json:"description"`
	CategoryID   string `json:"categoryId"`
	Quantity     int32  `json:"quantity"`
	IsAvailable  bool   `json:"isAvailable"`
	ImagePath    string `json:"imagePath"`
}

type categoryResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"isActive"`
}

func toProductResponse(p repository.Product) productResponse {
	return productResponse{
		ID:           handler.UUIDString(p.ID),
		Name:         p.Name,
		PriceInCents: p.PriceInCents,
		Description:  p.Description,
		CategoryID:   handler.UUIDString(p.CategoryID),
		Quantity:     p.Quantity,
		IsAvailable:  p.IsAvailable,
		ImagePath:    p.ImagePath,
	}
}

func toProductResponses(products []repository.Product) []productResponse {
	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	return out
}

// List returns available products, optionally filtered by category.
// GET /products?category={id}
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.ListAvailable(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		handler.ErrorResponse(w, r, h.logger, err)
		return
	}
	handler.JSON(w, http.StatusOK, map[string]any{"products": toProductResponses(products)})
}

// Detail returns a single product.
// GET /products/{id}
func (h *ProductHandler) Detail(w http.ResponseWriter, r *http.Request) {
	product, err := h.products.GetProduct(r.Context(), r.PathValue("id"))
	if err != nil {
		handler.ErrorResponse(w, r, h.logger, err)
		return
	}
	handler.JSON(w, http.StatusOK, toProductResponse(*product))
}

// Categories returns all categories for storefront navigation.
// GET /categories
func (h *ProductHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.List(r.Context())
	if err != nil {
		handler.ErrorResponse(w, r, h.logger, err)
		return
	}

	out := make([]categoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, categoryResponse{
			ID:       handler.UUIDString(c.ID),
			Name:     c.Name,
			IsActive: c.IsActive,
		})
	}
	handler.JSON(w, http.StatusOK, map[string]any{"categories": out})
}
