// Package routes wires handlers onto the router. Route registration is kept
// separate from handler construction so main stays a thin assembly layer.
package routes

import (
	"github.com/pagecart/bookstore/internal/handler/api"
	"github.com/pagecart/bookstore/internal/handler/storefront"
	"github.com/pagecart/bookstore/internal/router"
)

// StorefrontDeps contains dependencies for the server-rendered storefront.
type StorefrontDeps struct {
	Home       *storefront.HomeHandler
	BookList   *storefront.BookListHandler
	BookDetail *storefront.BookDetailHandler
	Review     *storefront.ReviewSubmitHandler

	CartView   *storefront.CartViewHandler
	CartAdd    *storefront.CartAddHandler
	CartUpdate *storefront.CartUpdateHandler
	CartRemove *storefront.CartRemoveHandler
	CartClear  *storefront.CartClearHandler

	Checkout     *storefront.CheckoutHandler
	OrderSuccess *storefront.OrderSuccessHandler
	OrderHistory *storefront.OrderHistoryHandler

	Login    *storefront.LoginHandler
	Register *storefront.RegisterHandler
	Logout   *storefront.LogoutHandler

	// LoginLimiter throttles credential endpoints per client IP.
	LoginLimiter router.Middleware
}

// APIDeps contains dependencies for the JSON API.
type APIDeps struct {
	Auth       *api.AuthHandler
	Books      *api.BookHandler
	Categories *api.CategoryHandler
	Cart       *api.CartHandler
	Checkout   *api.CheckoutHandler
	Orders     *api.OrderHandler
	Reviews    *api.ReviewHandler
	Users      *api.UserHandler

	// LoginLimiter throttles credential endpoints per client IP.
	LoginLimiter router.Middleware
}
