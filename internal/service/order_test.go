package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pagecart/bookstore/internal/domain"
)

// mockOrderReader implements OrderReader for testing.
type mockOrderReader struct {
	ListOrdersByUserFunc func(ctx context.Context, userID pgtype.UUID) ([]domain.Order, error)
	GetOrderFunc         func(ctx context.Context, orderID pgtype.UUID) (*domain.OrderDetail, error)
}

func (m *mockOrderReader) ListOrdersByUser(ctx context.Context, userID pgtype.UUID) ([]domain.Order, error) {
	if m.ListOrdersByUserFunc != nil {
		return m.ListOrdersByUserFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockOrderReader) GetOrder(ctx context.Context, orderID pgtype.UUID) (*domain.OrderDetail, error) {
	if m.GetOrderFunc != nil {
		return m.GetOrderFunc(ctx, orderID)
	}
	return nil, domain.ErrOrderNotFound
}

func TestOrderService_GetOrderForUser(t *testing.T) {
	owner := mustUUID(t, uuid.NewString())
	stranger := uuid.NewString()
	orderID := mustUUID(t, uuid.NewString())

	reader := &mockOrderReader{
		GetOrderFunc: func(ctx context.Context, id pgtype.UUID) (*domain.OrderDetail, error) {
			if id != orderID {
				return nil, domain.ErrOrderNotFound
			}
			return &domain.OrderDetail{
				Order: domain.Order{ID: orderID, UserID: owner, TotalCents: 4200},
			}, nil
		},
	}
	svc := NewOrderService(reader)
	ctx := context.Background()

	detail, err := svc.GetOrderForUser(ctx, domain.UUIDString(orderID), domain.UUIDString(owner))
	if err != nil {
		t.Fatalf("GetOrderForUser as owner: %v", err)
	}
	if detail.Order.TotalCents != 4200 {
		t.Errorf("expected total 4200, got %d", detail.Order.TotalCents)
	}

	// Another user's order looks identical to one that does not exist.
	_, err = svc.GetOrderForUser(ctx, domain.UUIDString(orderID), stranger)
	if err != domain.ErrOrderNotFound {
		t.Fatalf("expected ErrOrderNotFound for a stranger, got %v", err)
	}

	_, err = svc.GetOrderForUser(ctx, "not-a-uuid", domain.UUIDString(owner))
	if err != domain.ErrOrderNotFound {
		t.Fatalf("expected ErrOrderNotFound for a malformed ID, got %v", err)
	}
}

func TestOrderService_ListOrdersForUser_RequiresUser(t *testing.T) {
	svc := NewOrderService(&mockOrderReader{})

	_, err := svc.ListOrdersForUser(context.Background(), "")
	if domain.ErrorCode(err) != domain.EUNAUTHORIZED {
		t.Fatalf("expected unauthorized without a user, got %v", err)
	}
}
