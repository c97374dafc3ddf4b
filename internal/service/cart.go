package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pagecart/bookstore/internal/domain"
)

// CartStore is the persistence surface the cart service consumes.
type CartStore interface {
	GetCartBySessionID(ctx context.Context, sessionID pgtype.UUID) (domain.Cart, error)
	GetCartByID(ctx context.Context, cartID pgtype.UUID) (domain.Cart, error)
	CreateCart(ctx context.Context, sessionID pgtype.UUID) (domain.Cart, error)
	AddCartItem(ctx context.Context, cartID, bookID pgtype.UUID, quantity, unitPriceCents int32) error
	SetCartItemQuantity(ctx context.Context, cartID, bookID pgtype.UUID, quantity, unitPriceCents int32) error
	RemoveCartItem(ctx context.Context, cartID, bookID pgtype.UUID) error
	ClearCart(ctx context.Context, cartID pgtype.UUID) error
	GetCartItems(ctx context.Context, cartID pgtype.UUID) ([]domain.CartItem, error)
}

// SessionStore is the session surface the cart service consumes.
type SessionStore interface {
	CreateSession(ctx context.Context, token string, ttl time.Duration) (domain.Session, error)
	GetSessionByToken(ctx context.Context, token string) (domain.Session, error)
}

// BookGetter resolves books for price snapshots.
type BookGetter interface {
	GetBook(ctx context.Context, bookID pgtype.UUID) (domain.Book, error)
}

type cartService struct {
	carts      CartStore
	sessions   SessionStore
	books      BookGetter
	sessionTTL time.Duration
}

// Compile-time check that cartService implements domain.CartService.
var _ domain.CartService = (*cartService)(nil)

// NewCartService creates a new CartService instance.
func NewCartService(carts CartStore, sessions SessionStore, books BookGetter, sessionTTL time.Duration) domain.CartService {
	return &cartService{
		carts:      carts,
		sessions:   sessions,
		books:      books,
		sessionTTL: sessionTTL,
	}
}

// GetOrCreateCart retrieves the session's cart, creating the session and
// cart as needed. Returns the cart and the session token (new or existing).
func (s *cartService) GetOrCreateCart(ctx context.Context, sessionToken string) (*domain.Cart, string, error) {
	var session domain.Session

	if sessionToken == "" {
		token, err := GenerateSessionID()
		if err != nil {
			return nil, "", fmt.Errorf("failed to generate session token: %w", err)
		}
		session, err = s.sessions.CreateSession(ctx, token, s.sessionTTL)
		if err != nil {
			return nil, "", err
		}
		sessionToken = token
	} else {
		var err error
		session, err = s.sessions.GetSessionByToken(ctx, sessionToken)
		if domain.IsCode(err, domain.ENOTFOUND) {
			// Expired or unknown token: start a fresh session.
			token, genErr := GenerateSessionID()
			if genErr != nil {
				return nil, "", fmt.Errorf("failed to generate session token: %w", genErr)
			}
			session, err = s.sessions.CreateSession(ctx, token, s.sessionTTL)
			if err != nil {
				return nil, "", err
			}
			sessionToken = token
		} else if err != nil {
			return nil, "", err
		} else {
			cart, err := s.carts.GetCartBySessionID(ctx, session.ID)
			if err == nil {
				return &cart, sessionToken, nil
			}
			if !domain.IsCode(err, domain.ENOTFOUND) {
				return nil, "", err
			}
		}
	}

	cart, err := s.carts.CreateCart(ctx, session.ID)
	if err != nil {
		return nil, "", err
	}

	return &cart, sessionToken, nil
}

// GetCart retrieves an existing cart by session token.
func (s *cartService) GetCart(ctx context.Context, sessionToken string) (*domain.Cart, error) {
	session, err := s.sessions.GetSessionByToken(ctx, sessionToken)
	if err != nil {
		return nil, err
	}

	cart, err := s.carts.GetCartBySessionID(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	return &cart, nil
}

// AddItem adds a book to the cart, snapshotting the current price on first
// add. replace=false increments the existing line; replace=true sets the
// quantity to max(1, quantity).
func (s *cartService) AddItem(ctx context.Context, cartID string, bookID string, quantity int, replace bool) (*domain.CartSummary, error) {
	if quantity <= 0 && !replace {
		return nil, domain.ErrInvalidQuantity
	}
	// Quantity is stored as int32. Reject anything that would wrap.
	if quantity > math.MaxInt32 {
		return nil, domain.ErrInvalidQuantity
	}

	var cartUUID pgtype.UUID
	if err := cartUUID.Scan(cartID); err != nil {
		return nil, domain.Invalid("cart.add_item", "invalid cart ID")
	}

	var bookUUID pgtype.UUID
	if err := bookUUID.Scan(bookID); err != nil {
		return nil, domain.ErrBookNotFound
	}

	book, err := s.books.GetBook(ctx, bookUUID)
	if err != nil {
		return nil, err
	}

	if replace {
		if quantity < 1 {
			quantity = 1
		}
		err = s.carts.SetCartItemQuantity(ctx, cartUUID, bookUUID, int32(quantity), book.PriceCents)
	} else {
		err = s.carts.AddCartItem(ctx, cartUUID, bookUUID, int32(quantity), book.PriceCents)
	}
	if err != nil {
		return nil, err
	}

	return s.GetCartSummary(ctx, cartID)
}

// RemoveItem removes a book's line from the cart. Removing an absent book
// is a no-op.
func (s *cartService) RemoveItem(ctx context.Context, cartID string, bookID string) (*domain.CartSummary, error) {
	var cartUUID pgtype.UUID
	if err := cartUUID.Scan(cartID); err != nil {
		return nil, domain.Invalid("cart.remove_item", "invalid cart ID")
	}

	var bookUUID pgtype.UUID
	if err := bookUUID.Scan(bookID); err != nil {
		// An unparseable book ID can't be in the cart; same no-op contract.
		return s.GetCartSummary(ctx, cartID)
	}

	if err := s.carts.RemoveCartItem(ctx, cartUUID, bookUUID); err != nil {
		return nil, err
	}

	return s.GetCartSummary(ctx, cartID)
}

// GetCartSummary retrieves the cart with resolved lines and totals.
func (s *cartService) GetCartSummary(ctx context.Context, cartID string) (*domain.CartSummary, error) {
	var cartUUID pgtype.UUID
	if err := cartUUID.Scan(cartID); err != nil {
		return nil, domain.Invalid("cart.summary", "invalid cart ID")
	}

	cart, err := s.carts.GetCartByID(ctx, cartUUID)
	if err != nil {
		return nil, err
	}

	items, err := s.carts.GetCartItems(ctx, cartUUID)
	if err != nil {
		return nil, err
	}

	var total int64
	var itemCount int
	for _, item := range items {
		total += item.LineSubtotal
		itemCount += int(item.Quantity)
	}

	return &domain.CartSummary{
		Cart:       cart,
		Items:      items,
		TotalCents: total,
		ItemCount:  itemCount,
	}, nil
}

// ClearCart removes all lines from a cart.
func (s *cartService) ClearCart(ctx context.Context, cartID string) error {
	var cartUUID pgtype.UUID
	if err := cartUUID.Scan(cartID); err != nil {
		return domain.Invalid("cart.clear", "invalid cart ID")
	}

	return s.carts.ClearCart(ctx, cartUUID)
}
