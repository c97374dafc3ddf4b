package domain

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

// Order-related domain errors.
var (
	ErrOrderNotFound     = &Error{Code: ENOTFOUND, Message: "Order not found"}
	ErrCartEmpty         = &Error{Code: EINVALID, Message: "Cart is empty"}
	ErrInsufficientStock = &Error{Code: ECONFLICT, Message: "Insufficient stock for one or more items"}
)

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
)

// Order is a persisted checkout result. Immutable after creation except for
// Status.
type Order struct {
	ID         pgtype.UUID
	UserID     pgtype.UUID
	Status     OrderStatus
	TotalCents int64
	FullName   string
	Address    string
	City       string
	ZipCode    string
	Country    string
	CreatedAt  pgtype.Timestamptz
}

// OrderItem is one line of an order, snapshotting quantity and unit price
// at checkout time.
type OrderItem struct {
	ID             pgtype.UUID
	OrderID        pgtype.UUID
	BookID         pgtype.UUID
	Title          string
	Quantity       int32
	UnitPriceCents int32
}

// OrderDetail aggregates an order with its items.
type OrderDetail struct {
	Order Order
	Items []OrderItem
}

// OrderLine is one cart line handed to order creation: the book, the
// quantity, and the price snapshotted when the line was added.
type OrderLine struct {
	BookID         pgtype.UUID
	Title          string
	Quantity       int32
	UnitPriceCents int32
}

// CreateOrderParams carries everything the store needs to persist a
// checkout atomically.
type CreateOrderParams struct {
	UserID     pgtype.UUID
	CartID     pgtype.UUID
	TotalCents int64
	Shipping   ShippingDetails
	Lines      []OrderLine
}

// ShippingDetails is the checkout form input. All fields are required and
// ZipCode must contain digits only.
type ShippingDetails struct {
	FullName string `json:"full_name" validate:"required,max=100"`
	Address  string `json:"address" validate:"required"`
	City     string `json:"city" validate:"required,max=50"`
	ZipCode  string `json:"zip_code" validate:"required,max=10,digits"`
	Country  string `json:"country" validate:"required,max=50"`
}

// CheckoutService converts a non-empty cart plus shipping details into a
// persisted order, decrementing inventory. The whole conversion is one
// atomic unit: on any failure nothing is persisted and the cart is left
// untouched.
type CheckoutService interface {
	// Checkout validates the shipping details and the cart, then creates
	// the order with its items, decrements stock for every line, and clears
	// the cart, all in a single transaction. Returns ErrCartEmpty for an
	// empty cart, a ValidationError for bad shipping input, and
	// ErrInsufficientStock when any line exceeds current stock.
	Checkout(ctx context.Context, cartID string, userID string, details ShippingDetails) (*OrderDetail, error)
}

// OrderService provides read access to persisted orders.
type OrderService interface {
	// ListOrdersForUser returns the user's own orders, newest first.
	ListOrdersForUser(ctx context.Context, userID string) ([]Order, error)

	// GetOrderForUser retrieves one order with items, enforcing ownership.
	GetOrderForUser(ctx context.Context, orderID string, userID string) (*OrderDetail, error)
}
