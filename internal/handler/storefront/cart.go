package storefront

import (
	"net/http"
	"strconv"
	"time"

	"github.com/pagecart/bookstore/internal/domain"
	"github.com/pagecart/bookstore/internal/handler"
)

// CartResolver resolves the request's cart from the session cookie,
// minting a fresh session and refreshing the cookie when needed.
type CartResolver struct {
	carts      domain.CartService
	sessionTTL time.Duration
	secure     bool
}

// NewCartResolver creates a cart resolver. secure marks minted session
// cookies HTTPS-only.
func NewCartResolver(carts domain.CartService, sessionTTL time.Duration, secure bool) *CartResolver {
	return &CartResolver{
		carts:      carts,
		sessionTTL: sessionTTL,
		secure:     secure,
	}
}

// Resolve returns the cart and session token for the current session,
// creating both if missing. A new or rotated token is written back as the
// session cookie.
func (cr *CartResolver) Resolve(w http.ResponseWriter, r *http.Request) (*domain.Cart, string, error) {
	token := SessionCookieFromRequest(r)

	cart, newToken, err := cr.carts.GetOrCreateCart(r.Context(), token)
	if err != nil {
		return nil, "", err
	}
	if newToken != token {
		SetSessionCookie(w, newToken, cr.sessionTTL, cr.secure)
	}

	return cart, newToken, nil
}

// CartViewHandler handles the cart page
type CartViewHandler struct {
	carts    domain.CartService
	resolver *CartResolver
	renderer *handler.Renderer
}

// NewCartViewHandler creates a new cart view handler
func NewCartViewHandler(carts domain.CartService, resolver *CartResolver, renderer *handler.Renderer) *CartViewHandler {
	return &CartViewHandler{
		carts:    carts,
		resolver: resolver,
		renderer: renderer,
	}
}

// ServeHTTP handles GET /cart
func (h *CartViewHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cart, _, err := h.resolver.Resolve(w, r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	summary, err := h.carts.GetCartSummary(r.Context(), domain.UUIDString(cart.ID))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	data := BaseTemplateData(r)
	data["Summary"] = summary
	h.renderer.RenderHTTP(w, "cart", data)
}

// CartAddHandler handles adding a book to the cart
type CartAddHandler struct {
	carts    domain.CartService
	resolver *CartResolver
}

// NewCartAddHandler creates a new cart add handler
func NewCartAddHandler(carts domain.CartService, resolver *CartResolver) *CartAddHandler {
	return &CartAddHandler{
		carts:    carts,
		resolver: resolver,
	}
}

// ServeHTTP handles POST /cart/add
func (h *CartAddHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		handler.ErrorResponse(w, r, domain.Invalid("cart.add", "Invalid form data"))
		return
	}

	bookID := r.FormValue("book_id")
	quantity, err := strconv.Atoi(r.FormValue("quantity"))
	if err != nil {
		quantity = 1
	}

	cart, _, err := h.resolver.Resolve(w, r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	if _, err := h.carts.AddItem(r.Context(), domain.UUIDString(cart.ID), bookID, quantity, false); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

// CartUpdateHandler handles replacing a line's quantity
type CartUpdateHandler struct {
	carts    domain.CartService
	resolver *CartResolver
}

// NewCartUpdateHandler creates a new cart update handler
func NewCartUpdateHandler(carts domain.CartService, resolver *CartResolver) *CartUpdateHandler {
	return &CartUpdateHandler{
		carts:    carts,
		resolver: resolver,
	}
}

// ServeHTTP handles POST /cart/update
func (h *CartUpdateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		handler.ErrorResponse(w, r, domain.Invalid("cart.update", "Invalid form data"))
		return
	}

	bookID := r.FormValue("book_id")
	quantity, err := strconv.Atoi(r.FormValue("quantity"))
	if err != nil {
		quantity = 1
	}

	cart, _, err := h.resolver.Resolve(w, r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	if _, err := h.carts.AddItem(r.Context(), domain.UUIDString(cart.ID), bookID, quantity, true); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

// CartRemoveHandler handles removing a line from the cart
type CartRemoveHandler struct {
	carts    domain.CartService
	resolver *CartResolver
}

// NewCartRemoveHandler creates a new cart remove handler
func NewCartRemoveHandler(carts domain.CartService, resolver *CartResolver) *CartRemoveHandler {
	return &CartRemoveHandler{
		carts:    carts,
		resolver: resolver,
	}
}

// ServeHTTP handles POST /cart/remove
func (h *CartRemoveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		handler.ErrorResponse(w, r, domain.Invalid("cart.remove", "Invalid form data"))
		return
	}

	cart, _, err := h.resolver.Resolve(w, r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	if _, err := h.carts.RemoveItem(r.Context(), domain.UUIDString(cart.ID), r.FormValue("book_id")); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

// CartClearHandler handles emptying the cart
type CartClearHandler struct {
	carts    domain.CartService
	resolver *CartResolver
}

// NewCartClearHandler creates a new cart clear handler
func NewCartClearHandler(carts domain.CartService, resolver *CartResolver) *CartClearHandler {
	return &CartClearHandler{
		carts:    carts,
		resolver: resolver,
	}
}

// ServeHTTP handles POST /cart/clear
func (h *CartClearHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cart, _, err := h.resolver.Resolve(w, r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	if err := h.carts.ClearCart(r.Context(), domain.UUIDString(cart.ID)); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}
