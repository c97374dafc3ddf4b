package routes

import (
	"github.com/pagecart/bookstore/internal/middleware"
	"github.com/pagecart/bookstore/internal/router"
)

// RegisterStorefrontRoutes registers all customer-facing storefront routes.
func RegisterStorefrontRoutes(r *router.Router, deps StorefrontDeps) {
	// Home page
	r.Get("/", deps.Home.ServeHTTP)

	// Catalog browsing
	r.Get("/books", deps.BookList.ServeHTTP)
	r.Get("/books/{id}", deps.BookDetail.ServeHTTP)
	r.Post("/books/{id}/review", deps.Review.ServeHTTP)

	// Shopping cart
	r.Get("/cart", deps.CartView.ServeHTTP)
	r.Post("/cart/add", deps.CartAdd.ServeHTTP)
	r.Post("/cart/update", deps.CartUpdate.ServeHTTP)
	r.Post("/cart/remove", deps.CartRemove.ServeHTTP)
	r.Post("/cart/clear", deps.CartClear.ServeHTTP)

	// Authentication; credential submissions are rate limited
	r.Get("/login", deps.Login.ShowForm)
	r.Post("/login", deps.Login.Submit, deps.LoginLimiter)
	r.Get("/register", deps.Register.ShowForm)
	r.Post("/register", deps.Register.Submit, deps.LoginLimiter)
	r.Post("/logout", deps.Logout.ServeHTTP)

	// Checkout flow (requires authentication)
	checkout := r.Group(middleware.RequireAuth)
	checkout.Get("/checkout", deps.Checkout.ShowForm)
	checkout.Post("/checkout", deps.Checkout.Submit)
	checkout.Get("/order-success", deps.OrderSuccess.ServeHTTP)

	// Account routes (require authentication)
	account := r.Group(middleware.RequireAuth)
	account.Get("/account/orders", deps.OrderHistory.ServeHTTP)
}
