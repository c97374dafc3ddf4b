package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pagecart/bookstore/internal/domain"
)

// ReviewStore is the persistence surface the review service consumes.
type ReviewStore interface {
	CreateReview(ctx context.Context, bookID, userID pgtype.UUID, rating int32, comment string) (domain.Review, error)
	ListReviewsByBook(ctx context.Context, bookID pgtype.UUID) ([]domain.Review, error)
}

type reviewService struct {
	reviews  ReviewStore
	books    BookGetter
	validate *validator.Validate
}

// Compile-time check that reviewService implements domain.ReviewService.
var _ domain.ReviewService = (*reviewService)(nil)

// NewReviewService creates a new ReviewService instance.
func NewReviewService(reviews ReviewStore, books BookGetter) domain.ReviewService {
	return &reviewService{
		reviews:  reviews,
		books:    books,
		validate: newValidate(),
	}
}

// CreateReview validates and stores a review against an existing book.
func (s *reviewService) CreateReview(ctx context.Context, params domain.CreateReviewParams) (*domain.Review, error) {
	params.Comment = strings.TrimSpace(params.Comment)
	if err := s.validate.Struct(params); err != nil {
		return nil, validationError("review.create", err)
	}

	var bookUUID pgtype.UUID
	if err := bookUUID.Scan(params.BookID); err != nil {
		return nil, domain.ErrBookNotFound
	}
	var userUUID pgtype.UUID
	if err := userUUID.Scan(params.UserID); err != nil {
		return nil, domain.Unauthorized("review.create", "You must be logged in")
	}

	// Reviews hang off a real book. Fetch it first so a bad book ID fails as
	// not found instead of a foreign key violation.
	if _, err := s.books.GetBook(ctx, bookUUID); err != nil {
		return nil, err
	}

	review, err := s.reviews.CreateReview(ctx, bookUUID, userUUID, int32(params.Rating), params.Comment)
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// ListReviewsForBook returns a book's reviews, newest first.
func (s *reviewService) ListReviewsForBook(ctx context.Context, bookID string) ([]domain.Review, error) {
	var bookUUID pgtype.UUID
	if err := bookUUID.Scan(bookID); err != nil {
		return nil, domain.ErrBookNotFound
	}

	return s.reviews.ListReviewsByBook(ctx, bookUUID)
}
