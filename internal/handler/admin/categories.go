package admin

import (
	"log/slog"
	"net/http"

	"github.com/hallgrim/vanir/internal/handler"
	"github.com/hallgrim/vanir/internal/repository"
	"github.com/hallgrim/vanir/internal/service"
)

// CategoryHandler manages catalog categories.
type CategoryHandler struct {
	categories service.CategoryService
	logger     *slog.Logger
}

// NewCategoryHandler creates a CategoryHandler instance.
func NewCategoryHandler(categories service.CategoryService, logger *slog.Logger) *CategoryHandler {
	return &CategoryHandler{categories: categories, logger: logger}
}

type categoryRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type categoryResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"isActive"`
}

func toCategoryResponse(c repository.Category) categoryResponse {
	return categoryResponse{
		ID:       handler.UUIDString(c.ID),
		Name:     c.Name,
		IsActive: c.IsActive,
	}
}

// List returns all categories.
// GET /admin/categories
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.List(r.Context())
	if err != nil {
		handler.ErrorResponse(w, r, h.logger, err)
		return
	}

	out := make([]categoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, toCategoryResponse(c))
	}
	handler.JSON(w, http.StatusOK, map[string]any{"categories": out})
}

// Create adds a category. Names are unique, case-insensitively.
// POST /admin/categories
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := handler.Decode(r, &req); err != nil {
		handler.ErrorResponse(w, r, h.logger, err)
		return
	}

	category, err := h.categories.Create(r.Context(), req.Name)
	if err != nil {
		handler.ErrorResponse(w, r, h.logger, err)
		return
	}
	handler.JSON(w, http.StatusCreated, toCategoryResponse(*category))
}

// Rename changes a category's name.
// PUT /admin/categories/{id}
func (h *CategoryHandler) Rename(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := handler.Decode(r, &req); err != nil {
		handler.ErrorResponse(w, r, h.logger, err)
		return
	}

	category, err := h.categories.Rename(r.Context(), r.PathValue("id"), req.Name)
	if err != nil {
		handler.ErrorResponse(w, r, h.logger, err)
		return
	}
	handler.JSON(w, http.StatusOK, toCategoryResponse(*category))
}

// SetActive toggles storefront visibility for a category.
// PUT /admin/categories/{id}/active
func (h *CategoryHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IsActive bool `json:"isActive"`
	}
	if err := handler.Decode(r, &req); err != nil {
		handler.ErrorResponse(w, r, h.logger, err)
		return
	}

	category, err := h.categories.SetActive(r.Context(), r.PathValue("id"), req.IsActive)
	if err != nil {
		handler.ErrorResponse(w, r, h.logger, err)
		return
	}
	handler.JSON(w, http.StatusOK, toCategoryResponse(*category))
}

// Delete removes an empty category. Categories that still have
// products come back as a conflict.
// DELETE /admin/categories/{id}
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.categories.Delete(r.Context(), r.PathValue("id")); err != nil {
		handler.ErrorResponse(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
