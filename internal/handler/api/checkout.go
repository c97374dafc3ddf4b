package api

import (
	"net/http"

	"github.com/pagecart/bookstore/internal/domain"
)

// CheckoutHandler serves checkout over JSON.
type CheckoutHandler struct {
	carts    domain.CartService
	checkout domain.CheckoutService
}

// NewCheckoutHandler creates a new API checkout handler
func NewCheckoutHandler(carts domain.CartService, checkout domain.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{
		carts:    carts,
		checkout: checkout,
	}
}

type checkoutRequest struct {
	FullName string `json:"full_name"`
	Address  string `json:"address"`
	City     string `json:"city"`
	ZipCode  string `json:"zip_code"`
	Country  string `json:"country"`
}

// Submit handles POST /api/checkout (auth)
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		errorResponse(w, r, err)
		return
	}

	var req checkoutRequest
	if err := decodeJSON(r, &req); err != nil {
		errorResponse(w, r, err)
		return
	}

	cart, err := h.carts.GetCart(r.Context(), sessionToken(r))
	if err != nil {
		errorResponse(w, r, err)
		return
	}

	detail, err := h.checkout.Checkout(r.Context(), domain.UUIDString(cart.ID), userID, domain.ShippingDetails{
		FullName: req.FullName,
		Address:  req.Address,
		City:     req.City,
		ZipCode:  req.ZipCode,
		Country:  req.Country,
	})
	if err != nil {
		errorResponse(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, newOrderDetailResponse(detail))
}
