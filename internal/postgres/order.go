package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pagecart/bookstore/internal/domain"
)

// OrderStore persists orders and their items. CreateOrder is the one write
// path: a single transaction covering the order row, its items, the stock
// decrements, and the cart clear, so a failed checkout leaves no residue.
type OrderStore struct {
	pool *pgxpool.Pool
}

// NewOrderStore creates a PostgreSQL-backed order store.
func NewOrderStore(pool *pgxpool.Pool) *OrderStore {
	return &OrderStore{pool: pool}
}

const orderColumns = `id, user_id, status, total_cents, full_name, address, city, zip_code, country, created_at`

func scanOrder(row pgx.Row) (domain.Order, error) {
	var o domain.Order
	err := row.Scan(&o.ID, &o.UserID, &o.Status, &o.TotalCents, &o.FullName,
		&o.Address, &o.City, &o.ZipCode, &o.Country, &o.CreatedAt)
	return o, err
}

// CreateOrder converts a cart into an order inside one transaction.
//
// Each line's stock decrement is guarded by `stock >= quantity` in the
// UPDATE itself, so two concurrent checkouts against the last copy of a
// book cannot both pass: the second one sees zero rows affected, returns
// ErrInsufficientStock, and the whole transaction rolls back.
func (s *OrderStore) CreateOrder(ctx context.Context, params domain.CreateOrderParams) (*domain.OrderDetail, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.Internal(err, "order.create", "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	order, err := scanOrder(tx.QueryRow(ctx, `
		INSERT INTO orders (user_id, total_cents, full_name, address, city, zip_code, country)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+orderColumns,
		params.UserID, params.TotalCents, params.Shipping.FullName, params.Shipping.Address,
		params.Shipping.City, params.Shipping.ZipCode, params.Shipping.Country))
	if err != nil {
		return nil, domain.Internal(err, "order.create", "failed to create order")
	}

	items := make([]domain.OrderItem, 0, len(params.Lines))
	for _, line := range params.Lines {
		tag, err := tx.Exec(ctx, `
			UPDATE books SET stock = stock - $2
			WHERE id = $1 AND stock >= $2`,
			line.BookID, line.Quantity)
		if err != nil {
			return nil, domain.Internal(err, "order.create", "failed to decrement stock")
		}
		if tag.RowsAffected() == 0 {
			return nil, domain.ErrInsufficientStock
		}

		var item domain.OrderItem
		err = tx.QueryRow(ctx, `
			INSERT INTO order_items (order_id, book_id, quantity, unit_price_cents)
			VALUES ($1, $2, $3, $4)
			RETURNING id, order_id, book_id, quantity, unit_price_cents`,
			order.ID, line.BookID, line.Quantity, line.UnitPriceCents).
			Scan(&item.ID, &item.OrderID, &item.BookID, &item.Quantity, &item.UnitPriceCents)
		if err != nil {
			return nil, domain.Internal(err, "order.create", "failed to create order item")
		}
		item.Title = line.Title
		items = append(items, item)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, params.CartID); err != nil {
		return nil, domain.Internal(err, "order.create", "failed to clear cart")
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.Internal(err, "order.create", "failed to commit order")
	}

	return &domain.OrderDetail{Order: order, Items: items}, nil
}

// ListOrdersByUser returns a user's orders, newest first.
func (s *OrderStore) ListOrdersByUser(ctx context.Context, userID pgtype.UUID) ([]domain.Order, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC, id`,
		userID)
	if err != nil {
		return nil, domain.Internal(err, "order.list", "failed to list orders")
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, domain.Internal(err, "order.list", "failed to scan order")
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, "order.list", "failed to read orders")
	}

	return orders, nil
}

// GetOrder retrieves one order with its items.
func (s *OrderStore) GetOrder(ctx context.Context, orderID pgtype.UUID) (*domain.OrderDetail, error) {
	order, err := scanOrder(s.pool.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, orderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, domain.Internal(err, "order.get", "failed to get order")
	}

	rows, err := s.pool.Query(ctx, `
		SELECT oi.id, oi.order_id, oi.book_id, COALESCE(b.title, ''),
		       oi.quantity, oi.unit_price_cents
		FROM order_items oi
		LEFT JOIN books b ON b.id = oi.book_id
		WHERE oi.order_id = $1
		ORDER BY oi.id`,
		orderID)
	if err != nil {
		return nil, domain.Internal(err, "order.get", "failed to get order items")
	}
	defer rows.Close()

	items := []domain.OrderItem{}
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.BookID, &item.Title,
			&item.Quantity, &item.UnitPriceCents); err != nil {
			return nil, domain.Internal(err, "order.get", "failed to scan order item")
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, "order.get", "failed to read order items")
	}

	return &domain.OrderDetail{Order: order, Items: items}, nil
}
