package storefront

import (
	"net/http"

	"github.com/pagecart/bookstore/internal/domain"
	"github.com/pagecart/bookstore/internal/handler"
)

// HomeHandler handles the storefront homepage
type HomeHandler struct {
	catalog  domain.CatalogService
	renderer *handler.Renderer
}

// NewHomeHandler creates a new home handler
func NewHomeHandler(catalog domain.CatalogService, renderer *handler.Renderer) *HomeHandler {
	return &HomeHandler{
		catalog:  catalog,
		renderer: renderer,
	}
}

// ServeHTTP handles GET /
func (h *HomeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Feature the newest arrivals (listing is newest first)
	books, err := h.catalog.ListBooks(ctx, domain.BookFilter{})
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	if len(books) > 6 {
		books = books[:6]
	}

	data := BaseTemplateData(r)
	data["Featured"] = books
	h.renderer.RenderHTTP(w, "home", data)
}
