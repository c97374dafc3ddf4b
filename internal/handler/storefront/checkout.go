package storefront

import (
	"net/http"

	"github.com/pagecart/bookstore/internal/domain"
	"github.com/pagecart/bookstore/internal/handler"
)

// CheckoutHandler handles the checkout page and order submission
type CheckoutHandler struct {
	carts    domain.CartService
	checkout domain.CheckoutService
	resolver *CartResolver
	renderer *handler.Renderer
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(carts domain.CartService, checkout domain.CheckoutService, resolver *CartResolver, renderer *handler.Renderer) *CheckoutHandler {
	return &CheckoutHandler{
		carts:    carts,
		checkout: checkout,
		resolver: resolver,
		renderer: renderer,
	}
}

// ShowForm handles GET /checkout
func (h *CheckoutHandler) ShowForm(w http.ResponseWriter, r *http.Request) {
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
	if len(summary.Items) == 0 {
		http.Redirect(w, r, "/cart", http.StatusSeeOther)
		return
	}

	data := BaseTemplateData(r)
	data["Summary"] = summary
	h.renderer.RenderHTTP(w, "checkout", data)
}

// Submit handles POST /checkout
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	user := domain.UserFromContext(r.Context())
	if user == nil {
		http.Redirect(w, r, "/login?return_to=/checkout", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		handler.ErrorResponse(w, r, domain.Invalid("checkout.submit", "Invalid form data"))
		return
	}

	cart, _, err := h.resolver.Resolve(w, r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	details := domain.ShippingDetails{
		FullName: r.FormValue("full_name"),
		Address:  r.FormValue("address"),
		City:     r.FormValue("city"),
		ZipCode:  r.FormValue("zip_code"),
		Country:  r.FormValue("country"),
	}

	order, err := h.checkout.Checkout(r.Context(), domain.UUIDString(cart.ID), user.ID.String(), details)
	if err != nil {
		// Re-render the form with the cart and errors so nothing is lost.
		summary, sumErr := h.carts.GetCartSummary(r.Context(), domain.UUIDString(cart.ID))
		if sumErr != nil {
			handler.ErrorResponse(w, r, sumErr)
			return
		}

		data := BaseTemplateData(r)
		data["Summary"] = summary
		data["Shipping"] = details
		if fields := domain.GetValidationFields(err); fields != nil {
			data["FieldErrors"] = fields
		} else {
			data["Error"] = domain.ErrorMessage(err)
		}
		w.WriteHeader(handler.ErrorCodeToHTTPStatus(domain.ErrorCode(err)))
		h.renderer.RenderHTTP(w, "checkout", data)
		return
	}

	http.Redirect(w, r, "/order-success?order="+domain.UUIDString(order.Order.ID), http.StatusSeeOther)
}

// OrderSuccessHandler handles the post-checkout confirmation page
type OrderSuccessHandler struct {
	orders   domain.OrderService
	renderer *handler.Renderer
}

// NewOrderSuccessHandler creates a new order success handler
func NewOrderSuccessHandler(orders domain.OrderService, renderer *handler.Renderer) *OrderSuccessHandler {
	return &OrderSuccessHandler{
		orders:   orders,
		renderer: renderer,
	}
}

// ServeHTTP handles GET /order-success
func (h *OrderSuccessHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	user := domain.UserFromContext(r.Context())
	if user == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	detail, err := h.orders.GetOrderForUser(r.Context(), r.URL.Query().Get("order"), user.ID.String())
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	data := BaseTemplateData(r)
	data["Detail"] = detail
	h.renderer.RenderHTTP(w, "order_success", data)
}
