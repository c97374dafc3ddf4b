package service

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pagecart/bookstore/internal/domain"
)

// OrderReader is the persistence surface the order service consumes.
type OrderReader interface {
	ListOrdersByUser(ctx context.Context, userID pgtype.UUID) ([]domain.Order, error)
	GetOrder(ctx context.Context, orderID pgtype.UUID) (*domain.OrderDetail, error)
}

type orderService struct {
	orders OrderReader
}

// Compile-time check that orderService implements domain.OrderService.
var _ domain.OrderService = (*orderService)(nil)

// NewOrderService creates a new OrderService instance.
func NewOrderService(orders OrderReader) domain.OrderService {
	return &orderService{orders: orders}
}

// ListOrdersForUser returns the user's own orders, newest first.
func (s *orderService) ListOrdersForUser(ctx context.Context, userID string) ([]domain.Order, error) {
	var userUUID pgtype.UUID
	if err := userUUID.Scan(userID); err != nil {
		return nil, domain.Unauthorized("order.list", "You must be logged in")
	}

	return s.orders.ListOrdersByUser(ctx, userUUID)
}

// GetOrderForUser retrieves one order with its items. An order belonging to
// a different user is reported as not found rather than forbidden, so order
// IDs cannot be probed.
func (s *orderService) GetOrderForUser(ctx context.Context, orderID string, userID string) (*domain.OrderDetail, error) {
	var orderUUID pgtype.UUID
	if err := orderUUID.Scan(orderID); err != nil {
		return nil, domain.ErrOrderNotFound
	}
	var userUUID pgtype.UUID
	if err := userUUID.Scan(userID); err != nil {
		return nil, domain.Unauthorized("order.get", "You must be logged in")
	}

	detail, err := s.orders.GetOrder(ctx, orderUUID)
	if err != nil {
		return nil, err
	}
	if detail.Order.UserID != userUUID {
		return nil, domain.ErrOrderNotFound
	}

	return detail, nil
}
