package domain

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

// =============================================================================
// CART DOMAIN ERRORS
// =============================================================================

var (
	ErrCartNotFound    = &Error{Code: ENOTFOUND, Message: "Cart not found"}
	ErrSessionNotFound = &Error{Code: ENOTFOUND, Message: "Session not found"}
	ErrInvalidQuantity = &Error{Code: EINVALID, Message: "Quantity must be greater than 0"}
)

// CartService provides business logic for shopping cart operations.
// Carts are keyed by session: each browsing session owns at most one cart,
// and a cart holds at most one line per book.
type CartService interface {
	// GetOrCreateCart retrieves the cart for a session token, creating the
	// session and cart as needed. Returns the cart and the session token
	// (new or existing).
	GetOrCreateCart(ctx context.Context, sessionToken string) (*Cart, string, error)

	// GetCart retrieves an existing cart by session token.
	GetCart(ctx context.Context, sessionToken string) (*Cart, error)

	// AddItem adds a book to the cart, snapshotting the book's current price
	// on first add. When replace is false the quantity is added to any
	// existing line; when replace is true the line quantity is set to
	// max(1, quantity). Stock is not checked here - overselling is caught
	// at checkout.
	AddItem(ctx context.Context, cartID string, bookID string, quantity int, replace bool) (*CartSummary, error)

	// RemoveItem removes a book's line from the cart. Removing a book that
	// is not in the cart is a no-op, not an error.
	RemoveItem(ctx context.Context, cartID string, bookID string) (*CartSummary, error)

	// GetCartSummary retrieves the cart with resolved lines and totals.
	// Lines whose book has been deleted from the catalog are silently
	// skipped.
	GetCartSummary(ctx context.Context, cartID string) (*CartSummary, error)

	// ClearCart removes all lines from a cart.
	ClearCart(ctx context.Context, cartID string) error
}

// Session is a server-side browsing session. UserID is null until the
// session's owner logs in.
type Session struct {
	ID        pgtype.UUID
	Token     string
	UserID    pgtype.UUID
	ExpiresAt pgtype.Timestamptz
	CreatedAt pgtype.Timestamptz
}

// Cart represents a lightweight cart view model.
type Cart struct {
	ID        pgtype.UUID
	SessionID pgtype.UUID
	CreatedAt pgtype.Timestamptz
	UpdatedAt pgtype.Timestamptz
}

// CartSummary aggregates cart information with resolved lines and totals.
// TotalCents is the sum of line subtotals; with integer cents the sum is
// exact and needs no further rounding.
type CartSummary struct {
	Cart       Cart
	Items      []CartItem
	TotalCents int64
	ItemCount  int
}

// CartItem is one resolved cart line: the snapshotted unit price and
// quantity joined with the book's current display fields.
type CartItem struct {
	ID             pgtype.UUID
	BookID         pgtype.UUID
	Title          string
	Author         string
	CoverImage     string
	Quantity       int32
	UnitPriceCents int32
	LineSubtotal   int64
}
