package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pagecart/bookstore/internal/domain"
)

// CatalogStore persists books and categories.
type CatalogStore struct {
	pool *pgxpool.Pool
}

// NewCatalogStore creates a PostgreSQL-backed catalog store.
func NewCatalogStore(pool *pgxpool.Pool) *CatalogStore {
	return &CatalogStore{pool: pool}
}

const bookColumns = `id, title, author, description, price_cents, stock, cover_image, category_id, created_at`

func scanBook(row pgx.Row) (domain.Book, error) {
	var b domain.Book
	err := row.Scan(&b.ID, &b.Title, &b.Author, &b.Description, &b.PriceCents,
		&b.Stock, &b.CoverImage, &b.CategoryID, &b.CreatedAt)
	return b, err
}

// ListBooks returns books matching the filter, newest first.
func (s *CatalogStore) ListBooks(ctx context.Context, filter domain.BookFilter) ([]domain.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE 1=1`
	args := []any{}

	if filter.TitleQuery != "" {
		args = append(args, "%"+filter.TitleQuery+"%")
		query += fmt.Sprintf(" AND title ILIKE $%d", len(args))
	}
	if filter.CategoryID != "" {
		var categoryID pgtype.UUID
		if err := categoryID.Scan(filter.CategoryID); err != nil {
			return nil, domain.ErrCategoryNotFound
		}
		args = append(args, categoryID)
		query += fmt.Sprintf(" AND category_id = $%d", len(args))
	}
	query += " ORDER BY created_at DESC, id"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.Internal(err, "catalog.list_books", "failed to list books")
	}
	defer rows.Close()

	books := []domain.Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, domain.Internal(err, "catalog.list_books", "failed to scan book")
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, "catalog.list_books", "failed to read books")
	}

	return books, nil
}

// GetBook retrieves one book by ID.
func (s *CatalogStore) GetBook(ctx context.Context, bookID pgtype.UUID) (domain.Book, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+bookColumns+` FROM books WHERE id = $1`, bookID)
	b, err := scanBook(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Book{}, domain.ErrBookNotFound
		}
		return domain.Book{}, domain.Internal(err, "catalog.get_book", "failed to get book")
	}
	return b, nil
}

// CreateBook inserts a book.
func (s *CatalogStore) CreateBook(ctx context.Context, params domain.CreateBookParams, categoryID pgtype.UUID) (domain.Book, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO books (title, author, description, price_cents, stock, cover_image, category_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+bookColumns,
		params.Title, params.Author, pgText(params.Description), params.PriceCents,
		params.Stock, pgText(params.CoverImage), categoryID)

	b, err := scanBook(row)
	if err != nil {
		return domain.Book{}, domain.Internal(err, "catalog.create_book", "failed to create book")
	}
	return b, nil
}

// UpdateBook replaces a book's fields.
func (s *CatalogStore) UpdateBook(ctx context.Context, bookID pgtype.UUID, params domain.CreateBookParams, categoryID pgtype.UUID) (domain.Book, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE books
		SET title = $2, author = $3, description = $4, price_cents = $5,
		    stock = $6, cover_image = $7, category_id = $8
		WHERE id = $1
		RETURNING `+bookColumns,
		bookID, params.Title, params.Author, pgText(params.Description),
		params.PriceCents, params.Stock, pgText(params.CoverImage), categoryID)

	b, err := scanBook(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Book{}, domain.ErrBookNotFound
		}
		return domain.Book{}, domain.Internal(err, "catalog.update_book", "failed to update book")
	}
	return b, nil
}

// DeleteBook removes a book. Cart lines referencing it cascade away; order
// items keep their snapshot.
func (s *CatalogStore) DeleteBook(ctx context.Context, bookID pgtype.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM books WHERE id = $1`, bookID)
	if err != nil {
		return domain.Internal(err, "catalog.delete_book", "failed to delete book")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBookNotFound
	}
	return nil
}

// ListCategories returns all categories ordered by name.
func (s *CatalogStore) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name, created_at FROM categories ORDER BY name`)
	if err != nil {
		return nil, domain.Internal(err, "catalog.list_categories", "failed to list categories")
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, domain.Internal(err, "catalog.list_categories", "failed to scan category")
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, "catalog.list_categories", "failed to read categories")
	}

	return categories, nil
}

// CreateCategory inserts a category with a unique name.
func (s *CatalogStore) CreateCategory(ctx context.Context, name string) (domain.Category, error) {
	var c domain.Category
	err := s.pool.QueryRow(ctx,
		`INSERT INTO categories (name) VALUES ($1) RETURNING id, name, created_at`,
		name).Scan(&c.ID, &c.Name, &c.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, "") {
			return domain.Category{}, domain.ErrCategoryExists
		}
		return domain.Category{}, domain.Internal(err, "catalog.create_category", "failed to create category")
	}
	return c, nil
}

// UpdateCategory renames a category.
func (s *CatalogStore) UpdateCategory(ctx context.Context, categoryID pgtype.UUID, name string) (domain.Category, error) {
	var c domain.Category
	err := s.pool.QueryRow(ctx,
		`UPDATE categories SET name = $2 WHERE id = $1 RETURNING id, name, created_at`,
		categoryID, name).Scan(&c.ID, &c.Name, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Category{}, domain.ErrCategoryNotFound
		}
		if isUniqueViolation(err, "") {
			return domain.Category{}, domain.ErrCategoryExists
		}
		return domain.Category{}, domain.Internal(err, "catalog.update_category", "failed to update category")
	}
	return c, nil
}

// DeleteCategory removes a category; books in it fall back to NULL category.
func (s *CatalogStore) DeleteCategory(ctx context.Context, categoryID pgtype.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, categoryID)
	if err != nil {
		return domain.Internal(err, "catalog.delete_category", "failed to delete category")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}
