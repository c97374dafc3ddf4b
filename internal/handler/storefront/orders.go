package storefront

import (
	"net/http"

	"github.com/pagecart/bookstore/internal/domain"
	"github.com/pagecart/bookstore/internal/handler"
)

// OrderHistoryHandler handles the account order history page
type OrderHistoryHandler struct {
	orders   domain.OrderService
	renderer *handler.Renderer
}

// NewOrderHistoryHandler creates a new order history handler
func NewOrderHistoryHandler(orders domain.OrderService, renderer *handler.Renderer) *OrderHistoryHandler {
	return &OrderHistoryHandler{
		orders:   orders,
		renderer: renderer,
	}
}

// ServeHTTP handles GET /account/orders
func (h *OrderHistoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	user := domain.UserFromContext(r.Context())
	if user == nil {
		http.Redirect(w, r, "/login?return_to=/account/orders", http.StatusSeeOther)
		return
	}

	orders, err := h.orders.ListOrdersForUser(r.Context(), user.ID.String())
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	data := BaseTemplateData(r)
	data["Orders"] = orders
	h.renderer.RenderHTTP(w, "orders", data)
}
