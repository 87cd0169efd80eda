// Package admin holds the back-office HTTP handlers. Every route in
// this package sits behind the admin-role middleware.
package admin

import (
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/hallgrim/vanir/internal/domain"
	"github.com/hallgrim/vanir/internal/handler"
	"github.com/hallgrim/vanir/internal/repository"
	"github.com/hallgrim/vanir/internal/service"
)

// maxImageUploadBytes caps product image uploads at 10 MiB.
const maxImageUploadBytes = 10 << 20

// ProductHandler manages the catalog.
type ProductHandler struct {
	products service.ProductService
	logger   *slog.Logger
}

// NewProductHandler creates a ProductHandler instance.
func NewProductHandler(products service.ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{products: products, logger: logger}
}

type productRequest struct {
	Name         string `json:"name" validate:"required,max=200"`
	PriceInCents int32  `json:"price" validate:"gt=0"`
	Description  string `json:"description" validate:"max=2000"`
	CategoryID   string `json:"categoryId" validate:"required,uuid"`
	Quantity     int32  `json:"quantity" validate:"gte=0"`
	IsAvailable  bool   `json:"isAvailable"`
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

func (r productRequest) toParams() service.ProductParams {
	return service.ProductParams{
		Name:         r.Name,
		PriceInCents: r.PriceInCents,
		Description:  r.Description,
		CategoryID:   r.CategoryID,
		Quantity:     r.Quantity,
		IsAvailable:  r.IsAvailable,
	}
}

// List returns every product, available or not.
// GET /admin/products
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.ListAll(r.Context())
	if err != nil {
		handler.ErrorResponse(w, r, h.logger, err)
		return
	}

	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	handler.JSON(w, http.StatusOK, map[string]any{"products": out})
}

// Create adds a product to the catalog.
// POST /admin/products
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := handler.Decode(r, &req); err != nil {
		handler.ErrorResponse(w, r, h.logger, err)
		return
	}

	product, err := h.products.Create(r.Context(), req.toParams())
	if err != nil {
		handler.ErrorResponse(w, r, h.logger, err)
		return
	}
	handler.JSON(w, http.StatusCreated, toProductResponse(*product))
}

// Update replaces a product's editable fields. The image is managed
// separately through UploadImage.
// PUT /admin/products/{id}
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := handler.Decode(r, &req); err != nil {
		handler.ErrorResponse(w, r, h.logger, err)
		return
	}

	product, err := h.products.Update(r.Context(), r.PathValue("id"), req.toParams())
	if err != nil {
		handler.ErrorResponse(w, r, h.logger, err)
		return
	}
	handler.JSON(w, http.StatusOK, toProductResponse(*product))
}

// SetAvailability toggles whether the product shows in the storefront.
// PUT /admin/products/{id}/availability
func (h *ProductHandler) SetAvailability(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IsAvailable bool `json:"isAvailable"`
	}
	if err := handler.Decode(r, &req); err != nil {
		handler.ErrorResponse(w, r, h.logger, err)
		return
	}

	product, err := h.products.SetAvailability(r.Context(), r.PathValue("id"), req.IsAvailable)
	if err != nil {
		handler.ErrorResponse(w, r, h.logger, err)
		return
	}
	handler.JSON(w, http.StatusOK, toProductResponse(*product))
}

// Delete removes a product. Products referenced by carts or orders
// come back as a conflict.
// DELETE /admin/products/{id}
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.products.Delete(r.Context(), r.PathValue("id")); err != nil {
		handler.ErrorResponse(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UploadImage accepts a multipart upload and stores it as the
// product's image, replacing any previous one.
// POST /admin/products/{id}/image
func (h *ProductHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImageUploadBytes)
	if err := r.ParseMultipartForm(maxImageUploadBytes); err != nil {
		handler.ErrorResponse(w, r, h.logger,
			domain.Invalid("admin.product.upload", "Upload is not valid multipart form data or exceeds the size limit"))
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		handler.ErrorResponse(w, r, h.logger,
			domain.Invalid("admin.product.upload", "Missing image file field"))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	switch filepath.Ext(header.Filename) {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
	default:
		handler.ErrorResponse(w, r, h.logger,
			domain.Invalid("admin.product.upload", "Unsupported image format"))
		return
	}

	product, err := h.products.UploadImage(r.Context(), r.PathValue("id"), header.Filename, contentType, file)
	if err != nil {
		handler.ErrorResponse(w, r, h.logger, err)
		return
	}
	handler.JSON(w, http.StatusOK, toProductResponse(*product))
}
