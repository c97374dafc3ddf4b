package api

import (
	"net/http"

	"github.com/pagecart/bookstore/internal/domain"
)

// BookHandler serves the catalog over JSON.
type BookHandler struct {
	catalog domain.CatalogService
}

// NewBookHandler creates a new API book handler
func NewBookHandler(catalog domain.CatalogService) *BookHandler {
	return &BookHandler{catalog: catalog}
}

// List handles GET /api/books
func (h *BookHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := domain.BookFilter{
		TitleQuery: r.URL.Query().Get("q"),
		CategoryID: r.URL.Query().Get("category"),
	}

	books, err := h.catalog.ListBooks(r.Context(), filter)
	if err != nil {
		errorResponse(w, r, err)
		return
	}

	out := make([]BookResponse, len(books))
	for i, b := range books {
		out[i] = newBookResponse(b)
	}
	respondJSON(w, http.StatusOK, out)
}

// Get handles GET /api/books/{id}
func (h *BookHandler) Get(w http.ResponseWriter, r *http.Request) {
	book, err := h.catalog.GetBook(r.Context(), r.PathValue("id"))
	if err != nil {
		errorResponse(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, newBookResponse(*book))
}

type bookRequest struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Description string `json:"description"`
	PriceCents  int32  `json:"price_cents"`
	Stock       int32  `json:"stock"`
	CoverImage  string `json:"cover_image"`
	CategoryID  string `json:"category_id"`
}

func (req bookRequest) params() domain.CreateBookParams {
	return domain.CreateBookParams{
		Title:       req.Title,
		Author:      req.Author,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Stock:       req.Stock,
		CoverImage:  req.CoverImage,
		CategoryID:  req.CategoryID,
	}
}

// Create handles POST /api/books (admin)
func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req bookRequest
	if err := decodeJSON(r, &req); err != nil {
		errorResponse(w, r, err)
		return
	}

	book, err := h.catalog.CreateBook(r.Context(), req.params())
	if err != nil {
		errorResponse(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, newBookResponse(*book))
}

// Update handles PUT /api/books/{id} (admin)
func (h *BookHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req bookRequest
	if err := decodeJSON(r, &req); err != nil {
		errorResponse(w, r, err)
		return
	}

	book, err := h.catalog.UpdateBook(r.Context(), r.PathValue("id"), req.params())
	if err != nil {
		errorResponse(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, newBookResponse(*book))
}

// Delete handles DELETE /api/books/{id} (admin)
func (h *BookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteBook(r.Context(), r.PathValue("id")); err != nil {
		errorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
