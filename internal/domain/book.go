package domain

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

// =============================================================================
// CATALOG DOMAIN ERRORS
// =============================================================================

var (
	ErrBookNotFound     = &Error{Code: ENOTFOUND, Message: "Book not found"}
	ErrCategoryNotFound = &Error{Code: ENOTFOUND, Message: "Category not found"}
	ErrCategoryExists   = &Error{Code: ECONFLICT, Message: "Category name already exists"}
)

// Book represents a book in the catalog.
// PriceCents is the list price in cents; Stock is the remaining purchasable
// quantity, decremented by checkout and never replenished by this service.
type Book struct {
	ID          pgtype.UUID
	Title       string
	Author      string
	Description pgtype.Text
	PriceCents  int32
	Stock       int32
	CoverImage  pgtype.Text
	CategoryID  pgtype.UUID
	CreatedAt   pgtype.Timestamptz
}

// Category groups books for browsing.
type Category struct {
	ID        pgtype.UUID
	Name      string
	CreatedAt pgtype.Timestamptz
}

// BookFilter narrows ListBooks results. Zero values match everything.
type BookFilter struct {
	// TitleQuery is a case-insensitive substring match on the title.
	TitleQuery string

	// CategoryID restricts results to one category when set.
	CategoryID string
}

// CreateBookParams contains the fields for creating or replacing a book.
type CreateBookParams struct {
	Title       string
	Author      string
	Description string
	PriceCents  int32
	Stock       int32
	CoverImage  string
	CategoryID  string
}

// CatalogService provides catalog browsing and admin catalog management.
type CatalogService interface {
	// ListBooks returns books matching the filter, newest first.
	ListBooks(ctx context.Context, filter BookFilter) ([]Book, error)

	// GetBook retrieves a single book by ID.
	GetBook(ctx context.Context, bookID string) (*Book, error)

	// CreateBook adds a book to the catalog. Admin only at the route level.
	CreateBook(ctx context.Context, params CreateBookParams) (*Book, error)

	// UpdateBook replaces a book's fields.
	UpdateBook(ctx context.Context, bookID string, params CreateBookParams) (*Book, error)

	// DeleteBook removes a book from the catalog. Cart lines referencing it
	// are skipped on iteration rather than failing.
	DeleteBook(ctx context.Context, bookID string) error

	// ListCategories returns all categories ordered by name.
	ListCategories(ctx context.Context) ([]Category, error)

	// CreateCategory adds a category with a unique name.
	CreateCategory(ctx context.Context, name string) (*Category, error)

	// UpdateCategory renames a category.
	UpdateCategory(ctx context.Context, categoryID string, name string) (*Category, error)

	// DeleteCategory removes a category; its books keep a null category.
	DeleteCategory(ctx context.Context, categoryID string) error
}
