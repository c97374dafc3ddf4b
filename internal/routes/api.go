package routes

import (
	"github.com/pagecart/bookstore/internal/middleware"
	"github.com/pagecart/bookstore/internal/router"
)

// RegisterAPIRoutes registers the JSON API routes under /api.
func RegisterAPIRoutes(r *router.Router, deps APIDeps) {
	// Auth; credential submissions are rate limited
	r.Post("/api/auth/register", deps.Auth.Register, deps.LoginLimiter)
	r.Post("/api/auth/login", deps.Auth.Login, deps.LoginLimiter)
	r.Post("/api/auth/logout", deps.Auth.Logout)

	// Catalog (reads are public, mutations admin only)
	r.Get("/api/books", deps.Books.List)
	r.Get("/api/books/{id}", deps.Books.Get)
	r.Get("/api/books/{id}/reviews", deps.Reviews.List)
	r.Get("/api/categories", deps.Categories.List)

	admin := r.Group(middleware.RequireAdmin)
	admin.Post("/api/books", deps.Books.Create)
	admin.Put("/api/books/{id}", deps.Books.Update)
	admin.Delete("/api/books/{id}", deps.Books.Delete)
	admin.Post("/api/categories", deps.Categories.Create)
	admin.Put("/api/categories/{id}", deps.Categories.Update)
	admin.Delete("/api/categories/{id}", deps.Categories.Delete)
	admin.Get("/api/users", deps.Users.List)

	// Cart (session-scoped, no login required)
	r.Get("/api/cart", deps.Cart.Get)
	r.Post("/api/cart/items", deps.Cart.AddItem)
	r.Put("/api/cart/items/{bookID}", deps.Cart.UpdateItem)
	r.Delete("/api/cart/items/{bookID}", deps.Cart.RemoveItem)
	r.Delete("/api/cart", deps.Cart.Clear)

	// Checkout and orders (require authentication)
	auth := r.Group(middleware.RequireAuth)
	auth.Post("/api/checkout", deps.Checkout.Submit)
	auth.Get("/api/orders", deps.Orders.List)
	auth.Get("/api/orders/{id}", deps.Orders.Get)
	auth.Post("/api/books/{id}/reviews", deps.Reviews.Create)
}
