package api

import (
	"net/http"

	"github.com/pagecart/bookstore/internal/domain"
)

// CategoryHandler serves categories over JSON.
type CategoryHandler struct {
	catalog domain.CatalogService
}

// NewCategoryHandler creates a new API category handler
func NewCategoryHandler(catalog domain.CatalogService) *CategoryHandler {
	return &CategoryHandler{catalog: catalog}
}

// List handles GET /api/categories
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		errorResponse(w, r, err)
		return
	}

	out := make([]CategoryResponse, len(categories))
	for i, c := range categories {
		out[i] = newCategoryResponse(c)
	}
	respondJSON(w, http.StatusOK, out)
}

type categoryRequest struct {
	Name string `json:"name"`
}

// Create handles POST /api/categories (admin)
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		errorResponse(w, r, err)
		return
	}

	category, err := h.catalog.CreateCategory(r.Context(), req.Name)
	if err != nil {
		errorResponse(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, newCategoryResponse(*category))
}

// Update handles PUT /api/categories/{id} (admin)
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		errorResponse(w, r, err)
		return
	}

	category, err := h.catalog.UpdateCategory(r.Context(), r.PathValue("id"), req.Name)
	if err != nil {
		errorResponse(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, newCategoryResponse(*category))
}

// Delete handles DELETE /api/categories/{id} (admin)
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteCategory(r.Context(), r.PathValue("id")); err != nil {
		errorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
