package api

import (
	"net/http"
	"time"

	"github.com/pagecart/bookstore/internal/domain"
)

// CartHandler serves the session cart over JSON.
type CartHandler struct {
	carts         domain.CartService
	sessionTTL    time.Duration
	secureCookies bool
}

// NewCartHandler creates a new API cart handler. secureCookies marks
// minted session cookies HTTPS-only.
func NewCartHandler(carts domain.CartService, sessionTTL time.Duration, secureCookies bool) *CartHandler {
	return &CartHandler{
		carts:         carts,
		sessionTTL:    sessionTTL,
		secureCookies: secureCookies,
	}
}

// resolve returns the request's cart, minting a session cookie if needed.
func (h *CartHandler) resolve(w http.ResponseWriter, r *http.Request) (*domain.Cart, error) {
	token := sessionToken(r)

	cart, newToken, err := h.carts.GetOrCreateCart(r.Context(), token)
	if err != nil {
		return nil, err
	}
	if newToken != token {
		setSessionCookie(w, newToken, h.sessionTTL, h.secureCookies)
	}

	return cart, nil
}

// Get handles GET /api/cart
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	cart, err := h.resolve(w, r)
	if err != nil {
		errorResponse(w, r, err)
		return
	}

	summary, err := h.carts.GetCartSummary(r.Context(), domain.UUIDString(cart.ID))
	if err != nil {
		errorResponse(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, newCartResponse(summary))
}

type cartItemRequest struct {
	BookID   string `json:"book_id"`
	Quantity int    `json:"quantity"`
}

// AddItem handles POST /api/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req cartItemRequest
	if err := decodeJSON(r, &req); err != nil {
		errorResponse(w, r, err)
		return
	}

	cart, err := h.resolve(w, r)
	if err != nil {
		errorResponse(w, r, err)
		return
	}

	summary, err := h.carts.AddItem(r.Context(), domain.UUIDString(cart.ID), req.BookID, req.Quantity, false)
	if err != nil {
		errorResponse(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, newCartResponse(summary))
}

type cartQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateItem handles PUT /api/cart/items/{bookID}
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var req cartQuantityRequest
	if err := decodeJSON(r, &req); err != nil {
		errorResponse(w, r, err)
		return
	}

	cart, err := h.resolve(w, r)
	if err != nil {
		errorResponse(w, r, err)
		return
	}

	summary, err := h.carts.AddItem(r.Context(), domain.UUIDString(cart.ID), r.PathValue("bookID"), req.Quantity, true)
	if err != nil {
		errorResponse(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, newCartResponse(summary))
}

// RemoveItem handles DELETE /api/cart/items/{bookID}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	cart, err := h.resolve(w, r)
	if err != nil {
		errorResponse(w, r, err)
		return
	}

	summary, err := h.carts.RemoveItem(r.Context(), domain.UUIDString(cart.ID), r.PathValue("bookID"))
	if err != nil {
		errorResponse(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, newCartResponse(summary))
}

// Clear handles DELETE /api/cart
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	cart, err := h.resolve(w, r)
	if err != nil {
		errorResponse(w, r, err)
		return
	}

	if err := h.carts.ClearCart(r.Context(), domain.UUIDString(cart.ID)); err != nil {
		errorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
