package service

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pagecart/bookstore/internal/domain"
)

func mustUUID(t *testing.T, s string) pgtype.UUID {
	t.Helper()
	var id pgtype.UUID
	if err := id.Scan(s); err != nil {
		t.Fatalf("invalid test UUID %q: %v", s, err)
	}
	return id
}

func newUUID(t *testing.T) pgtype.UUID {
	t.Helper()
	return mustUUID(t, uuid.NewString())
}

// fakeCartStore is an in-memory CartStore with the same line semantics as
// the SQL layer: one line per book, upsert increments quantity but keeps
// the first-add price snapshot.
type fakeCartStore struct {
	carts  map[string]domain.Cart         // cart ID -> cart
	lines  map[string]map[string]cartLine // cart ID -> book ID -> line
	titles map[string]string
}

type cartLine struct {
	quantity       int32
	unitPriceCents int32
}

func newFakeCartStore() *fakeCartStore {
	return &fakeCartStore{
		carts:  make(map[string]domain.Cart),
		lines:  make(map[string]map[string]cartLine),
		titles: make(map[string]string),
	}
}

func (f *fakeCartStore) GetCartBySessionID(ctx context.Context, sessionID pgtype.UUID) (domain.Cart, error) {
	for _, cart := range f.carts {
		if cart.SessionID == sessionID {
			return cart, nil
		}
	}
	return domain.Cart{}, domain.ErrCartNotFound
}

func (f *fakeCartStore) GetCartByID(ctx context.Context, cartID pgtype.UUID) (domain.Cart, error) {
	cart, ok := f.carts[domain.UUIDString(cartID)]
	if !ok {
		return domain.Cart{}, domain.ErrCartNotFound
	}
	return cart, nil
}

func (f *fakeCartStore) CreateCart(ctx context.Context, sessionID pgtype.UUID) (domain.Cart, error) {
	var id pgtype.UUID
	if err := id.Scan(uuid.NewString()); err != nil {
		return domain.Cart{}, err
	}
	cart := domain.Cart{ID: id, SessionID: sessionID}
	f.carts[domain.UUIDString(id)] = cart
	f.lines[domain.UUIDString(id)] = make(map[string]cartLine)
	return cart, nil
}

func (f *fakeCartStore) AddCartItem(ctx context.Context, cartID, bookID pgtype.UUID, quantity, unitPriceCents int32) error {
	lines := f.lines[domain.UUIDString(cartID)]
	key := domain.UUIDString(bookID)
	if existing, ok := lines[key]; ok {
		// Upsert keeps the snapshotted price from the first add.
		lines[key] = cartLine{quantity: existing.quantity + quantity, unitPriceCents: existing.unitPriceCents}
		return nil
	}
	lines[key] = cartLine{quantity: quantity, unitPriceCents: unitPriceCents}
	return nil
}

func (f *fakeCartStore) SetCartItemQuantity(ctx context.Context, cartID, bookID pgtype.UUID, quantity, unitPriceCents int32) error {
	lines := f.lines[domain.UUIDString(cartID)]
	key := domain.UUIDString(bookID)
	if existing, ok := lines[key]; ok {
		lines[key] = cartLine{quantity: quantity, unitPriceCents: existing.unitPriceCents}
		return nil
	}
	lines[key] = cartLine{quantity: quantity, unitPriceCents: unitPriceCents}
	return nil
}

func (f *fakeCartStore) RemoveCartItem(ctx context.Context, cartID, bookID pgtype.UUID) error {
	delete(f.lines[domain.UUIDString(cartID)], domain.UUIDString(bookID))
	return nil
}

func (f *fakeCartStore) ClearCart(ctx context.Context, cartID pgtype.UUID) error {
	f.lines[domain.UUIDString(cartID)] = make(map[string]cartLine)
	return nil
}

func (f *fakeCartStore) GetCartItems(ctx context.Context, cartID pgtype.UUID) ([]domain.CartItem, error) {
	var items []domain.CartItem
	for bookKey, line := range f.lines[domain.UUIDString(cartID)] {
		items = append(items, domain.CartItem{
			BookID:         mustUUIDValue(bookKey),
			Title:          f.titles[bookKey],
			Quantity:       line.quantity,
			UnitPriceCents: line.unitPriceCents,
			LineSubtotal:   int64(line.quantity) * int64(line.unitPriceCents),
		})
	}
	return items, nil
}

func mustUUIDValue(s string) pgtype.UUID {
	var id pgtype.UUID
	_ = id.Scan(s)
	return id
}

// fakeSessionStore is an in-memory SessionStore keyed by token.
type fakeSessionStore struct {
	sessions map[string]domain.Session
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]domain.Session)}
}

func (f *fakeSessionStore) CreateSession(ctx context.Context, token string, ttl time.Duration) (domain.Session, error) {
	var id pgtype.UUID
	if err := id.Scan(uuid.NewString()); err != nil {
		return domain.Session{}, err
	}
	sess := domain.Session{ID: id, Token: token}
	f.sessions[token] = sess
	return sess, nil
}

func (f *fakeSessionStore) GetSessionByToken(ctx context.Context, token string) (domain.Session, error) {
	sess, ok := f.sessions[token]
	if !ok {
		return domain.Session{}, domain.ErrSessionNotFound
	}
	return sess, nil
}

// fakeBookGetter serves books from a map.
type fakeBookGetter struct {
	books map[string]domain.Book
}

func (f *fakeBookGetter) GetBook(ctx context.Context, bookID pgtype.UUID) (domain.Book, error) {
	book, ok := f.books[domain.UUIDString(bookID)]
	if !ok {
		return domain.Book{}, domain.ErrBookNotFound
	}
	return book, nil
}

func newCartFixture(t *testing.T) (domain.CartService, *fakeCartStore, *fakeBookGetter, string) {
	t.Helper()

	store := newFakeCartStore()
	sessions := newFakeSessionStore()
	books := &fakeBookGetter{books: make(map[string]domain.Book)}
	svc := NewCartService(store, sessions, books, time.Hour)

	cart, _, err := svc.GetOrCreateCart(context.Background(), "")
	if err != nil {
		t.Fatalf("GetOrCreateCart: %v", err)
	}
	return svc, store, books, domain.UUIDString(cart.ID)
}

func addBook(t *testing.T, books *fakeBookGetter, priceCents, stock int32, title string) string {
	t.Helper()
	id := newUUID(t)
	books.books[domain.UUIDString(id)] = domain.Book{
		ID:         id,
		Title:      title,
		PriceCents: priceCents,
		Stock:      stock,
	}
	return domain.UUIDString(id)
}

func TestCartService_AddItem_IncrementsExistingLine(t *testing.T) {
	svc, _, books, cartID := newCartFixture(t)
	bookID := addBook(t, books, 1500, 10, "The Go Programming Language")
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, cartID, bookID, 3, false); err != nil {
		t.Fatalf("first AddItem: %v", err)
	}
	summary, err := svc.AddItem(ctx, cartID, bookID, 3, false)
	if err != nil {
		t.Fatalf("second AddItem: %v", err)
	}

	if len(summary.Items) != 1 {
		t.Fatalf("expected one line per book, got %d lines", len(summary.Items))
	}
	if got := summary.Items[0].Quantity; got != 6 {
		t.Errorf("expected quantity 6 after two adds of 3, got %d", got)
	}
	if got := summary.TotalCents; got != 9000 {
		t.Errorf("expected total 9000, got %d", got)
	}
	if got := summary.ItemCount; got != 6 {
		t.Errorf("expected item count 6, got %d", got)
	}
}

func TestCartService_AddItem_ReplaceSetsQuantity(t *testing.T) {
	svc, _, books, cartID := newCartFixture(t)
	bookID := addBook(t, books, 1200, 10, "Learning Go")
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, cartID, bookID, 5, false); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	summary, err := svc.AddItem(ctx, cartID, bookID, 2, true)
	if err != nil {
		t.Fatalf("AddItem replace: %v", err)
	}
	if got := summary.Items[0].Quantity; got != 2 {
		t.Errorf("expected replaced quantity 2, got %d", got)
	}

	// Replacing with zero clamps to 1 rather than silently removing the line.
	summary, err = svc.AddItem(ctx, cartID, bookID, 0, true)
	if err != nil {
		t.Fatalf("AddItem replace zero: %v", err)
	}
	if got := summary.Items[0].Quantity; got != 1 {
		t.Errorf("expected clamped quantity 1, got %d", got)
	}
}

func TestCartService_AddItem_RejectsNonPositiveQuantity(t *testing.T) {
	svc, _, books, cartID := newCartFixture(t)
	bookID := addBook(t, books, 1000, 5, "Go in Action")

	for _, qty := range []int{0, -1} {
		if _, err := svc.AddItem(context.Background(), cartID, bookID, qty, false); err != domain.ErrInvalidQuantity {
			t.Errorf("quantity %d: expected ErrInvalidQuantity, got %v", qty, err)
		}
	}
}

func TestCartService_AddItem_RejectsOversizedQuantity(t *testing.T) {
	svc, store, books, cartID := newCartFixture(t)
	bookID := addBook(t, books, 1000, 5, "Go in Action")

	// Values past int32 would wrap when the line quantity is stored.
	qty := int(int64(math.MaxInt32) + 1)
	if qty < 0 {
		t.Skip("int is 32 bits, oversized quantities cannot be represented")
	}

	for _, replace := range []bool{false, true} {
		if _, err := svc.AddItem(context.Background(), cartID, bookID, qty, replace); err != domain.ErrInvalidQuantity {
			t.Errorf("replace=%v: expected ErrInvalidQuantity, got %v", replace, err)
		}
	}
	if len(store.lines[cartID]) != 0 {
		t.Errorf("expected no cart lines, got %d", len(store.lines[cartID]))
	}
}

func TestCartService_AddItem_UnknownBook(t *testing.T) {
	svc, _, _, cartID := newCartFixture(t)

	_, err := svc.AddItem(context.Background(), cartID, uuid.NewString(), 1, false)
	if domain.ErrorCode(err) != domain.ENOTFOUND {
		t.Fatalf("expected not found for unknown book, got %v", err)
	}
}

func TestCartService_AddItem_SnapshotsPriceAtFirstAdd(t *testing.T) {
	svc, _, books, cartID := newCartFixture(t)
	bookID := addBook(t, books, 1500, 10, "Designing Data-Intensive Applications")
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, cartID, bookID, 1, false); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	// Catalog price change after the line exists must not reprice the cart.
	book := books.books[bookID]
	book.PriceCents = 9900
	books.books[bookID] = book

	summary, err := svc.AddItem(ctx, cartID, bookID, 1, false)
	if err != nil {
		t.Fatalf("AddItem after price change: %v", err)
	}
	if got := summary.Items[0].UnitPriceCents; got != 1500 {
		t.Errorf("expected snapshotted unit price 1500, got %d", got)
	}
	if got := summary.TotalCents; got != 3000 {
		t.Errorf("expected total 3000 at snapshotted price, got %d", got)
	}
}

func TestCartService_RemoveItem_AbsentBookIsNoOp(t *testing.T) {
	svc, _, books, cartID := newCartFixture(t)
	bookID := addBook(t, books, 2000, 5, "The Pragmatic Programmer")
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, cartID, bookID, 2, false); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	summary, err := svc.RemoveItem(ctx, cartID, uuid.NewString())
	if err != nil {
		t.Fatalf("RemoveItem of absent book: %v", err)
	}
	if len(summary.Items) != 1 || summary.Items[0].Quantity != 2 {
		t.Errorf("expected cart unchanged after absent removal, got %+v", summary.Items)
	}

	summary, err = svc.RemoveItem(ctx, cartID, bookID)
	if err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}
	if len(summary.Items) != 0 {
		t.Errorf("expected empty cart after removal, got %d lines", len(summary.Items))
	}
}

func TestCartService_EmptyCartSummary(t *testing.T) {
	svc, _, _, cartID := newCartFixture(t)

	summary, err := svc.GetCartSummary(context.Background(), cartID)
	if err != nil {
		t.Fatalf("GetCartSummary: %v", err)
	}
	if summary.TotalCents != 0 || summary.ItemCount != 0 || len(summary.Items) != 0 {
		t.Errorf("expected zeroed summary for empty cart, got %+v", summary)
	}
}

func TestCartService_ClearCart(t *testing.T) {
	svc, _, books, cartID := newCartFixture(t)
	ctx := context.Background()
	first := addBook(t, books, 1000, 5, "Clean Code")
	second := addBook(t, books, 2500, 5, "Refactoring")

	if _, err := svc.AddItem(ctx, cartID, first, 1, false); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if _, err := svc.AddItem(ctx, cartID, second, 2, false); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	if err := svc.ClearCart(ctx, cartID); err != nil {
		t.Fatalf("ClearCart: %v", err)
	}
	summary, err := svc.GetCartSummary(ctx, cartID)
	if err != nil {
		t.Fatalf("GetCartSummary: %v", err)
	}
	if len(summary.Items) != 0 || summary.TotalCents != 0 {
		t.Errorf("expected empty cart after clear, got %+v", summary)
	}
}

func TestCartService_GetOrCreateCart_ReusesSession(t *testing.T) {
	store := newFakeCartStore()
	sessions := newFakeSessionStore()
	books := &fakeBookGetter{books: make(map[string]domain.Book)}
	svc := NewCartService(store, sessions, books, time.Hour)
	ctx := context.Background()

	cart, token, err := svc.GetOrCreateCart(ctx, "")
	if err != nil {
		t.Fatalf("GetOrCreateCart: %v", err)
	}
	if token == "" {
		t.Fatal("expected a minted session token")
	}

	again, sameToken, err := svc.GetOrCreateCart(ctx, token)
	if err != nil {
		t.Fatalf("GetOrCreateCart with token: %v", err)
	}
	if sameToken != token {
		t.Errorf("expected token to be reused, got %q", sameToken)
	}
	if domain.UUIDString(again.ID) != domain.UUIDString(cart.ID) {
		t.Errorf("expected the same cart for the same session, got %s and %s",
			domain.UUIDString(cart.ID), domain.UUIDString(again.ID))
	}
}

func TestCartService_GetOrCreateCart_UnknownTokenMintsFreshSession(t *testing.T) {
	store := newFakeCartStore()
	sessions := newFakeSessionStore()
	books := &fakeBookGetter{books: make(map[string]domain.Book)}
	svc := NewCartService(store, sessions, books, time.Hour)

	cart, token, err := svc.GetOrCreateCart(context.Background(), "expired-or-forged")
	if err != nil {
		t.Fatalf("GetOrCreateCart: %v", err)
	}
	if token == "" || token == "expired-or-forged" {
		t.Errorf("expected a fresh token, got %q", token)
	}
	if cart == nil {
		t.Fatal("expected a cart")
	}
}
