package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pagecart/bookstore/internal/domain"
)

// CartStore persists session-scoped carts and their lines. The
// UNIQUE(cart_id, book_id) constraint keeps at most one line per book; add
// and replace are both upserts against it.
type CartStore struct {
	pool *pgxpool.Pool
}

// NewCartStore creates a PostgreSQL-backed cart store.
func NewCartStore(pool *pgxpool.Pool) *CartStore {
	return &CartStore{pool: pool}
}

const cartColumns = `id, session_id, created_at, updated_at`

// GetCartBySessionID retrieves the cart owned by a session.
func (s *CartStore) GetCartBySessionID(ctx context.Context, sessionID pgtype.UUID) (domain.Cart, error) {
	var c domain.Cart
	err := s.pool.QueryRow(ctx,
		`SELECT `+cartColumns+` FROM carts WHERE session_id = $1`,
		sessionID).Scan(&c.ID, &c.SessionID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Cart{}, domain.ErrCartNotFound
		}
		return domain.Cart{}, domain.Internal(err, "cart.get_by_session", "failed to get cart")
	}
	return c, nil
}

// GetCartByID retrieves a cart by its ID.
func (s *CartStore) GetCartByID(ctx context.Context, cartID pgtype.UUID) (domain.Cart, error) {
	var c domain.Cart
	err := s.pool.QueryRow(ctx,
		`SELECT `+cartColumns+` FROM carts WHERE id = $1`,
		cartID).Scan(&c.ID, &c.SessionID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Cart{}, domain.ErrCartNotFound
		}
		return domain.Cart{}, domain.Internal(err, "cart.get", "failed to get cart")
	}
	return c, nil
}

// CreateCart inserts a cart for a session.
func (s *CartStore) CreateCart(ctx context.Context, sessionID pgtype.UUID) (domain.Cart, error) {
	var c domain.Cart
	err := s.pool.QueryRow(ctx,
		`INSERT INTO carts (session_id) VALUES ($1) RETURNING `+cartColumns,
		sessionID).Scan(&c.ID, &c.SessionID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return domain.Cart{}, domain.Internal(err, "cart.create", "failed to create cart")
	}
	return c, nil
}

// AddCartItem adds quantity to the book's line, creating the line with the
// snapshotted unit price if it does not exist. The snapshot is taken on
// first add only; repeat adds keep the original price.
func (s *CartStore) AddCartItem(ctx context.Context, cartID, bookID pgtype.UUID, quantity, unitPriceCents int32) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO cart_items (cart_id, book_id, quantity, unit_price_cents)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (cart_id, book_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity`,
		cartID, bookID, quantity, unitPriceCents)
	if err != nil {
		return domain.Internal(err, "cart.add_item", "failed to add cart item")
	}
	return s.touch(ctx, cartID)
}

// SetCartItemQuantity sets the book's line to an absolute quantity,
// creating the line with the snapshotted unit price if it does not exist.
func (s *CartStore) SetCartItemQuantity(ctx context.Context, cartID, bookID pgtype.UUID, quantity, unitPriceCents int32) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO cart_items (cart_id, book_id, quantity, unit_price_cents)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (cart_id, book_id)
		DO UPDATE SET quantity = EXCLUDED.quantity`,
		cartID, bookID, quantity, unitPriceCents)
	if err != nil {
		return domain.Internal(err, "cart.set_quantity", "failed to set cart item quantity")
	}
	return s.touch(ctx, cartID)
}

// RemoveCartItem deletes the book's line. Absent lines are a no-op.
func (s *CartStore) RemoveCartItem(ctx context.Context, cartID, bookID pgtype.UUID) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM cart_items WHERE cart_id = $1 AND book_id = $2`, cartID, bookID)
	if err != nil {
		return domain.Internal(err, "cart.remove_item", "failed to remove cart item")
	}
	return s.touch(ctx, cartID)
}

// ClearCart deletes all lines of a cart.
func (s *CartStore) ClearCart(ctx context.Context, cartID pgtype.UUID) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID)
	if err != nil {
		return domain.Internal(err, "cart.clear", "failed to clear cart")
	}
	return s.touch(ctx, cartID)
}

// GetCartItems returns the cart's lines joined with current book display
// fields. The inner join drops lines whose book was deleted from the
// catalog, matching the silent-skip contract.
func (s *CartStore) GetCartItems(ctx context.Context, cartID pgtype.UUID) ([]domain.CartItem, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT ci.id, ci.book_id, b.title, b.author,
		       COALESCE(b.cover_image, ''), ci.quantity, ci.unit_price_cents
		FROM cart_items ci
		JOIN books b ON b.id = ci.book_id
		WHERE ci.cart_id = $1
		ORDER BY ci.created_at, ci.id`,
		cartID)
	if err != nil {
		return nil, domain.Internal(err, "cart.get_items", "failed to get cart items")
	}
	defer rows.Close()

	items := []domain.CartItem{}
	for rows.Next() {
		var item domain.CartItem
		if err := rows.Scan(&item.ID, &item.BookID, &item.Title, &item.Author,
			&item.CoverImage, &item.Quantity, &item.UnitPriceCents); err != nil {
			return nil, domain.Internal(err, "cart.get_items", "failed to scan cart item")
		}
		item.LineSubtotal = int64(item.Quantity) * int64(item.UnitPriceCents)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, "cart.get_items", "failed to read cart items")
	}

	return items, nil
}

// touch bumps the cart's updated_at after a mutation.
func (s *CartStore) touch(ctx context.Context, cartID pgtype.UUID) error {
	if _, err := s.pool.Exec(ctx,
		`UPDATE carts SET updated_at = now() WHERE id = $1`, cartID); err != nil {
		return domain.Internal(err, "cart.touch", "failed to update cart timestamp")
	}
	return nil
}
