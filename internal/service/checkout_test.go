package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/pagecart/bookstore/internal/domain"
	"github.com/pagecart/bookstore/internal/events"
)

// mockOrderStore implements OrderStore for testing.
type mockOrderStore struct {
	CreateOrderFunc func(ctx context.Context, params domain.CreateOrderParams) (*domain.OrderDetail, error)
}

func (m *mockOrderStore) CreateOrder(ctx context.Context, params domain.CreateOrderParams) (*domain.OrderDetail, error) {
	if m.CreateOrderFunc != nil {
		return m.CreateOrderFunc(ctx, params)
	}
	return nil, errors.New("not implemented")
}

// capturePublisher records published events.
type capturePublisher struct {
	mu     sync.Mutex
	events []events.OrderCreatedEvent
}

func (p *capturePublisher) PublishOrderCreated(ctx context.Context, event events.OrderCreatedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *capturePublisher) Close() {}

func (p *capturePublisher) published() []events.OrderCreatedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.OrderCreatedEvent(nil), p.events...)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func validShipping() domain.ShippingDetails {
	return domain.ShippingDetails{
		FullName: "Margaret Hamilton",
		Address:  "17 Apollo Way",
		City:     "Cambridge",
		ZipCode:  "02139",
		Country:  "USA",
	}
}

// checkoutFixture wires a checkout service around a real cart service so
// cart state before and after checkout can be observed.
type checkoutFixture struct {
	checkout domain.CheckoutService
	cart     domain.CartService
	store    *mockOrderStore
	pub      *capturePublisher
	books    *fakeBookGetter
	cartID   string
	userID   string
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()

	cartStore := newFakeCartStore()
	sessions := newFakeSessionStore()
	books := &fakeBookGetter{books: make(map[string]domain.Book)}
	cartSvc := NewCartService(cartStore, sessions, books, time.Hour)

	cart, _, err := cartSvc.GetOrCreateCart(context.Background(), "")
	if err != nil {
		t.Fatalf("GetOrCreateCart: %v", err)
	}

	store := &mockOrderStore{}
	pub := &capturePublisher{}
	return &checkoutFixture{
		checkout: NewCheckoutService(store, cartSvc, pub, testLogger()),
		cart:     cartSvc,
		store:    store,
		pub:      pub,
		books:    books,
		cartID:   domain.UUIDString(cart.ID),
		userID:   uuid.NewString(),
	}
}

func TestCheckout_EmptyCartRejected(t *testing.T) {
	f := newCheckoutFixture(t)
	f.store.CreateOrderFunc = func(ctx context.Context, params domain.CreateOrderParams) (*domain.OrderDetail, error) {
		t.Fatal("CreateOrder must not be called for an empty cart")
		return nil, nil
	}

	_, err := f.checkout.Checkout(context.Background(), f.cartID, f.userID, validShipping())
	if err != domain.ErrCartEmpty {
		t.Fatalf("expected ErrCartEmpty, got %v", err)
	}
	if len(f.pub.published()) != 0 {
		t.Error("no event should be published for a rejected checkout")
	}
}

func TestCheckout_InvalidShipping(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*domain.ShippingDetails)
		wantField string
	}{
		{
			name:      "zip with letters",
			mutate:    func(d *domain.ShippingDetails) { d.ZipCode = "abc12" },
			wantField: "zip_code",
		},
		{
			name:      "zip with separator",
			mutate:    func(d *domain.ShippingDetails) { d.ZipCode = "02139-4307" },
			wantField: "zip_code",
		},
		{
			name:      "missing full name",
			mutate:    func(d *domain.ShippingDetails) { d.FullName = "" },
			wantField: "full_name",
		},
		{
			name:      "missing address",
			mutate:    func(d *domain.ShippingDetails) { d.Address = "" },
			wantField: "address",
		},
		{
			name:      "missing country",
			mutate:    func(d *domain.ShippingDetails) { d.Country = "" },
			wantField: "country",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCheckoutFixture(t)
			bookID := addBook(t, f.books, 1500, 5, "Structure and Interpretation")
			if _, err := f.cart.AddItem(context.Background(), f.cartID, bookID, 1, false); err != nil {
				t.Fatalf("AddItem: %v", err)
			}
			f.store.CreateOrderFunc = func(ctx context.Context, params domain.CreateOrderParams) (*domain.OrderDetail, error) {
				t.Fatal("CreateOrder must not be called with invalid shipping")
				return nil, nil
			}

			details := validShipping()
			tt.mutate(&details)

			_, err := f.checkout.Checkout(context.Background(), f.cartID, f.userID, details)
			if !domain.IsValidationError(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
			fields := domain.GetValidationFields(err)
			if _, ok := fields[tt.wantField]; !ok {
				t.Errorf("expected a %q field error, got %v", tt.wantField, fields)
			}

			// The cart must be untouched after a rejected checkout.
			summary, err := f.cart.GetCartSummary(context.Background(), f.cartID)
			if err != nil {
				t.Fatalf("GetCartSummary: %v", err)
			}
			if len(summary.Items) != 1 {
				t.Errorf("expected cart to survive rejected checkout, got %d lines", len(summary.Items))
			}
		})
	}
}

func TestCheckout_Success(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()
	first := addBook(t, f.books, 1500, 5, "The Mythical Man-Month")
	second := addBook(t, f.books, 2400, 3, "Peopleware")

	if _, err := f.cart.AddItem(ctx, f.cartID, first, 2, false); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if _, err := f.cart.AddItem(ctx, f.cartID, second, 1, false); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	var captured domain.CreateOrderParams
	f.store.CreateOrderFunc = func(ctx context.Context, params domain.CreateOrderParams) (*domain.OrderDetail, error) {
		captured = params
		detail := &domain.OrderDetail{
			Order: domain.Order{
				ID:         newUUID(t),
				UserID:     params.UserID,
				Status:     domain.OrderStatusPending,
				TotalCents: params.TotalCents,
			},
		}
		for _, line := range params.Lines {
			detail.Items = append(detail.Items, domain.OrderItem{
				BookID:         line.BookID,
				Title:          line.Title,
				Quantity:       line.Quantity,
				UnitPriceCents: line.UnitPriceCents,
			})
		}
		return detail, nil
	}

	detail, err := f.checkout.Checkout(ctx, f.cartID, f.userID, validShipping())
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}

	if got, want := captured.TotalCents, int64(2*1500+2400); got != want {
		t.Errorf("expected total %d, got %d", want, got)
	}
	if len(captured.Lines) != 2 {
		t.Errorf("expected 2 order lines, got %d", len(captured.Lines))
	}
	if domain.UUIDString(captured.UserID) != f.userID {
		t.Errorf("expected user %s on order, got %s", f.userID, domain.UUIDString(captured.UserID))
	}
	if captured.Shipping != validShipping() {
		t.Errorf("shipping details not passed through: %+v", captured.Shipping)
	}
	if detail.Order.TotalCents != captured.TotalCents {
		t.Errorf("returned detail total %d does not match order %d", detail.Order.TotalCents, captured.TotalCents)
	}

	published := f.pub.published()
	if len(published) != 1 {
		t.Fatalf("expected one order.created event, got %d", len(published))
	}
	if published[0].OrderID != domain.UUIDString(detail.Order.ID) {
		t.Errorf("event order ID %s does not match order %s", published[0].OrderID, domain.UUIDString(detail.Order.ID))
	}
	if len(published[0].Items) != 2 {
		t.Errorf("expected 2 event items, got %d", len(published[0].Items))
	}
}

func TestCheckout_InsufficientStock(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()
	bookID := addBook(t, f.books, 1000, 1, "Site Reliability Engineering")
	if _, err := f.cart.AddItem(ctx, f.cartID, bookID, 3, false); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	f.store.CreateOrderFunc = func(ctx context.Context, params domain.CreateOrderParams) (*domain.OrderDetail, error) {
		return nil, domain.ErrInsufficientStock
	}

	_, err := f.checkout.Checkout(ctx, f.cartID, f.userID, validShipping())
	if domain.ErrorCode(err) != domain.ECONFLICT {
		t.Fatalf("expected conflict for insufficient stock, got %v", err)
	}
	if len(f.pub.published()) != 0 {
		t.Error("no event should be published for a failed checkout")
	}

	// Cart survives because the store rolled back.
	summary, err := f.cart.GetCartSummary(ctx, f.cartID)
	if err != nil {
		t.Fatalf("GetCartSummary: %v", err)
	}
	if len(summary.Items) != 1 || summary.Items[0].Quantity != 3 {
		t.Errorf("expected cart untouched after stock failure, got %+v", summary.Items)
	}
}

func TestCheckout_BadUserID(t *testing.T) {
	f := newCheckoutFixture(t)

	_, err := f.checkout.Checkout(context.Background(), f.cartID, "not-a-uuid", validShipping())
	if domain.ErrorCode(err) != domain.EUNAUTHORIZED {
		t.Fatalf("expected unauthorized for bad user ID, got %v", err)
	}
}

// TestCheckout_ConcurrentLastCopy races two checkouts for the last copy of
// a book against a store that enforces the guarded decrement. Exactly one
// must win.
func TestCheckout_ConcurrentLastCopy(t *testing.T) {
	cartStore := newFakeCartStore()
	sessions := newFakeSessionStore()
	books := &fakeBookGetter{books: make(map[string]domain.Book)}
	cartSvc := NewCartService(cartStore, sessions, books, time.Hour)
	ctx := context.Background()

	bookID := addBook(t, books, 1800, 1, "Last Copy on the Shelf")

	// Two shoppers, two sessions, two carts, each wanting the one copy.
	cartIDs := make([]string, 2)
	for i := range cartIDs {
		cart, _, err := cartSvc.GetOrCreateCart(ctx, "")
		if err != nil {
			t.Fatalf("GetOrCreateCart: %v", err)
		}
		cartIDs[i] = domain.UUIDString(cart.ID)
		if _, err := cartSvc.AddItem(ctx, cartIDs[i], bookID, 1, false); err != nil {
			t.Fatalf("AddItem: %v", err)
		}
	}

	var mu sync.Mutex
	stock := int32(1)
	store := &mockOrderStore{
		CreateOrderFunc: func(ctx context.Context, params domain.CreateOrderParams) (*domain.OrderDetail, error) {
			mu.Lock()
			defer mu.Unlock()
			for _, line := range params.Lines {
				if stock < line.Quantity {
					return nil, domain.ErrInsufficientStock
				}
			}
			for _, line := range params.Lines {
				stock -= line.Quantity
			}
			return &domain.OrderDetail{
				Order: domain.Order{UserID: params.UserID, TotalCents: params.TotalCents},
			}, nil
		},
	}
	checkout := NewCheckoutService(store, cartSvc, &capturePublisher{}, testLogger())

	results := make(chan error, len(cartIDs))
	var wg sync.WaitGroup
	for _, cartID := range cartIDs {
		wg.Add(1)
		go func(cartID string) {
			defer wg.Done()
			_, err := checkout.Checkout(ctx, cartID, uuid.NewString(), validShipping())
			results <- err
		}(cartID)
	}
	wg.Wait()
	close(results)

	var won, lost int
	for err := range results {
		switch {
		case err == nil:
			won++
		case domain.ErrorCode(err) == domain.ECONFLICT:
			lost++
		default:
			t.Errorf("unexpected checkout error: %v", err)
		}
	}
	if won != 1 || lost != 1 {
		t.Fatalf("expected exactly one winner and one conflict, got %d winners and %d conflicts", won, lost)
	}
	if stock != 0 {
		t.Errorf("expected stock 0 after the race, got %d", stock)
	}
}
