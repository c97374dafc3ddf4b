package service

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pagecart/bookstore/internal/domain"
)

// CatalogStore is the persistence surface the catalog service consumes.
type CatalogStore interface {
	ListBooks(ctx context.Context, filter domain.BookFilter) ([]domain.Book, error)
	GetBook(ctx context.Context, bookID pgtype.UUID) (domain.Book, error)
	CreateBook(ctx context.Context, params domain.CreateBookParams, categoryID pgtype.UUID) (domain.Book, error)
	UpdateBook(ctx context.Context, bookID pgtype.UUID, params domain.CreateBookParams, categoryID pgtype.UUID) (domain.Book, error)
	DeleteBook(ctx context.Context, bookID pgtype.UUID) error
	ListCategories(ctx context.Context) ([]domain.Category, error)
	CreateCategory(ctx context.Context, name string) (domain.Category, error)
	UpdateCategory(ctx context.Context, categoryID pgtype.UUID, name string) (domain.Category, error)
	DeleteCategory(ctx context.Context, categoryID pgtype.UUID) error
}

type catalogService struct {
	store CatalogStore
}

// Compile-time check that catalogService implements domain.CatalogService.
var _ domain.CatalogService = (*catalogService)(nil)

// NewCatalogService creates a new CatalogService instance.
func NewCatalogService(store CatalogStore) domain.CatalogService {
	return &catalogService{store: store}
}

// ListBooks returns books matching the filter, newest first.
func (s *catalogService) ListBooks(ctx context.Context, filter domain.BookFilter) ([]domain.Book, error) {
	filter.TitleQuery = strings.TrimSpace(filter.TitleQuery)
	return s.store.ListBooks(ctx, filter)
}

// GetBook retrieves a single book by ID.
func (s *catalogService) GetBook(ctx context.Context, bookID string) (*domain.Book, error) {
	var bookUUID pgtype.UUID
	if err := bookUUID.Scan(bookID); err != nil {
		return nil, domain.ErrBookNotFound
	}

	book, err := s.store.GetBook(ctx, bookUUID)
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// CreateBook adds a book to the catalog.
func (s *catalogService) CreateBook(ctx context.Context, params domain.CreateBookParams) (*domain.Book, error) {
	if err := validateBookParams(params); err != nil {
		return nil, err
	}

	categoryID, err := s.resolveCategory(ctx, params.CategoryID)
	if err != nil {
		return nil, err
	}

	book, err := s.store.CreateBook(ctx, params, categoryID)
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// UpdateBook replaces a book's fields.
func (s *catalogService) UpdateBook(ctx context.Context, bookID string, params domain.CreateBookParams) (*domain.Book, error) {
	var bookUUID pgtype.UUID
	if err := bookUUID.Scan(bookID); err != nil {
		return nil, domain.ErrBookNotFound
	}

	if err := validateBookParams(params); err != nil {
		return nil, err
	}

	categoryID, err := s.resolveCategory(ctx, params.CategoryID)
	if err != nil {
		return nil, err
	}

	book, err := s.store.UpdateBook(ctx, bookUUID, params, categoryID)
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// DeleteBook removes a book from the catalog.
func (s *catalogService) DeleteBook(ctx context.Context, bookID string) error {
	var bookUUID pgtype.UUID
	if err := bookUUID.Scan(bookID); err != nil {
		return domain.ErrBookNotFound
	}

	return s.store.DeleteBook(ctx, bookUUID)
}

// ListCategories returns all categories ordered by name.
func (s *catalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.store.ListCategories(ctx)
}

// CreateCategory adds a category with a unique name.
func (s *catalogService) CreateCategory(ctx context.Context, name string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewValidationError("category.create", "name", "This field is required")
	}

	category, err := s.store.CreateCategory(ctx, name)
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// UpdateCategory renames a category.
func (s *catalogService) UpdateCategory(ctx context.Context, categoryID string, name string) (*domain.Category, error) {
	var categoryUUID pgtype.UUID
	if err := categoryUUID.Scan(categoryID); err != nil {
		return nil, domain.ErrCategoryNotFound
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewValidationError("category.update", "name", "This field is required")
	}

	category, err := s.store.UpdateCategory(ctx, categoryUUID, name)
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// DeleteCategory removes a category; its books keep a null category.
func (s *catalogService) DeleteCategory(ctx context.Context, categoryID string) error {
	var categoryUUID pgtype.UUID
	if err := categoryUUID.Scan(categoryID); err != nil {
		return domain.ErrCategoryNotFound
	}

	return s.store.DeleteCategory(ctx, categoryUUID)
}

// resolveCategory parses an optional category ID. Empty means no category.
func (s *catalogService) resolveCategory(ctx context.Context, categoryID string) (pgtype.UUID, error) {
	var categoryUUID pgtype.UUID
	if categoryID == "" {
		return categoryUUID, nil
	}
	if err := categoryUUID.Scan(categoryID); err != nil {
		return pgtype.UUID{}, domain.ErrCategoryNotFound
	}
	return categoryUUID, nil
}

func validateBookParams(params domain.CreateBookParams) error {
	var err error
	if strings.TrimSpace(params.Title) == "" {
		err = domain.AddFieldError(err, "title", "This field is required")
	}
	if strings.TrimSpace(params.Author) == "" {
		err = domain.AddFieldError(err, "author", "This field is required")
	}
	if params.PriceCents < 0 {
		err = domain.AddFieldError(err, "price_cents", "Must be at least 0")
	}
	if params.Stock < 0 {
		err = domain.AddFieldError(err, "stock", "Must be at least 0")
	}
	return err
}
