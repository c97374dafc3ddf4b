package api

import (
	"net/http"

	"github.com/pagecart/bookstore/internal/domain"
)

// OrderHandler serves a user's order history over JSON.
type OrderHandler struct {
	orders domain.OrderService
}

// NewOrderHandler creates a new API order handler
func NewOrderHandler(orders domain.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// List handles GET /api/orders (auth, own orders only)
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		errorResponse(w, r, err)
		return
	}

	orders, err := h.orders.ListOrdersForUser(r.Context(), userID)
	if err != nil {
		errorResponse(w, r, err)
		return
	}

	out := make([]OrderResponse, len(orders))
	for i, o := range orders {
		out[i] = newOrderResponse(o)
	}
	respondJSON(w, http.StatusOK, out)
}

// Get handles GET /api/orders/{id} (auth, own orders only)
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		errorResponse(w, r, err)
		return
	}

	detail, err := h.orders.GetOrderForUser(r.Context(), r.PathValue("id"), userID)
	if err != nil {
		errorResponse(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, newOrderDetailResponse(detail))
}
