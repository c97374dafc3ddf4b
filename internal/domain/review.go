package domain

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

var ErrReviewNotFound = &Error{Code: ENOTFOUND, Message: "Review not found"}

// Review is a user's rating and comment on a book.
type Review struct {
	ID        pgtype.UUID
	BookID    pgtype.UUID
	UserID    pgtype.UUID
	Username  string
	Rating    int32
	Comment   string
	CreatedAt pgtype.Timestamptz
}

// CreateReviewParams contains review submission input.
type CreateReviewParams struct {
	BookID  string
	UserID  string
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"required"`
}

// ReviewService captures and lists book reviews.
type ReviewService interface {
	// CreateReview stores a review. Rating must be 1..5 and the comment
	// non-empty; violations surface as a ValidationError.
	CreateReview(ctx context.Context, params CreateReviewParams) (*Review, error)

	// ListReviewsForBook returns a book's reviews, newest first.
	ListReviewsForBook(ctx context.Context, bookID string) ([]Review, error)
}
