package service

import (
	"context"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pagecart/bookstore/internal/domain"
	"github.com/pagecart/bookstore/internal/events"
)

// OrderStore is the persistence surface the checkout service consumes.
// CreateOrder must be atomic: the order, its items, every stock decrement,
// and the cart clear either all commit or none do.
type OrderStore interface {
	CreateOrder(ctx context.Context, params domain.CreateOrderParams) (*domain.OrderDetail, error)
}

type checkoutService struct {
	orders    OrderStore
	cart      domain.CartService
	publisher events.Publisher
	validate  *validator.Validate
	logger    *slog.Logger
}

// Compile-time check that checkoutService implements domain.CheckoutService.
var _ domain.CheckoutService = (*checkoutService)(nil)

// NewCheckoutService creates a new CheckoutService instance.
func NewCheckoutService(orders OrderStore, cart domain.CartService, publisher events.Publisher, logger *slog.Logger) domain.CheckoutService {
	return &checkoutService{
		orders:    orders,
		cart:      cart,
		publisher: publisher,
		validate:  newValidate(),
		logger:    logger,
	}
}

// Checkout converts the session's cart into a persisted order.
//
// Order of checks: shipping details first (cheap, no storage), then the
// cart. The conversion itself is delegated to the store's single
// transaction, so an insufficient-stock failure on any line leaves no
// order rows behind and keeps the cart intact.
func (s *checkoutService) Checkout(ctx context.Context, cartID string, userID string, details domain.ShippingDetails) (*domain.OrderDetail, error) {
	if err := s.validate.Struct(details); err != nil {
		return nil, validationError("checkout.submit", err)
	}

	var userUUID pgtype.UUID
	if err := userUUID.Scan(userID); err != nil {
		return nil, domain.Unauthorized("checkout.submit", "authentication required")
	}

	summary, err := s.cart.GetCartSummary(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if len(summary.Items) == 0 {
		return nil, domain.ErrCartEmpty
	}

	lines := make([]domain.OrderLine, len(summary.Items))
	for i, item := range summary.Items {
		lines[i] = domain.OrderLine{
			BookID:         item.BookID,
			Title:          item.Title,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
		}
	}

	detail, err := s.orders.CreateOrder(ctx, domain.CreateOrderParams{
		UserID:     userUUID,
		CartID:     summary.Cart.ID,
		TotalCents: summary.TotalCents,
		Shipping:   details,
		Lines:      lines,
	})
	if err != nil {
		return nil, err
	}

	s.publishOrderCreated(ctx, detail)

	return detail, nil
}

// publishOrderCreated emits the order.created event. Failures are logged,
// not returned: the order is already committed.
func (s *checkoutService) publishOrderCreated(ctx context.Context, detail *domain.OrderDetail) {
	event := events.OrderCreatedEvent{
		OrderID:    domain.UUIDString(detail.Order.ID),
		UserID:     domain.UUIDString(detail.Order.UserID),
		TotalCents: detail.Order.TotalCents,
		Items:      make([]events.OrderItemEvent, len(detail.Items)),
	}
	for i, item := range detail.Items {
		event.Items[i] = events.OrderItemEvent{
			BookID:         domain.UUIDString(item.BookID),
			Title:          item.Title,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
		}
	}

	if err := s.publisher.PublishOrderCreated(ctx, event); err != nil {
		s.logger.Error("failed to publish order.created",
			"order_id", event.OrderID, "error", err)
	}
}
