package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pagecart/bookstore/internal/domain"
)

// ReviewStore persists book reviews.
type ReviewStore struct {
	pool *pgxpool.Pool
}

// NewReviewStore creates a PostgreSQL-backed review store.
func NewReviewStore(pool *pgxpool.Pool) *ReviewStore {
	return &ReviewStore{pool: pool}
}

// CreateReview inserts a review.
func (s *ReviewStore) CreateReview(ctx context.Context, bookID, userID pgtype.UUID, rating int32, comment string) (domain.Review, error) {
	var r domain.Review
	err := s.pool.QueryRow(ctx, `
		INSERT INTO reviews (book_id, user_id, rating, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING id, book_id, user_id, rating, comment, created_at`,
		bookID, userID, rating, comment).
		Scan(&r.ID, &r.BookID, &r.UserID, &r.Rating, &r.Comment, &r.CreatedAt)
	if err != nil {
		return domain.Review{}, domain.Internal(err, "review.create", "failed to create review")
	}
	return r, nil
}

// ListReviewsByBook returns a book's reviews with usernames, newest first.
func (s *ReviewStore) ListReviewsByBook(ctx context.Context, bookID pgtype.UUID) ([]domain.Review, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT r.id, r.book_id, r.user_id, u.username, r.rating, r.comment, r.created_at
		FROM reviews r
		JOIN users u ON u.id = r.user_id
		WHERE r.book_id = $1
		ORDER BY r.created_at DESC, r.id`,
		bookID)
	if err != nil {
		return nil, domain.Internal(err, "review.list", "failed to list reviews")
	}
	defer rows.Close()

	reviews := []domain.Review{}
	for rows.Next() {
		var r domain.Review
		if err := rows.Scan(&r.ID, &r.BookID, &r.UserID, &r.Username,
			&r.Rating, &r.Comment, &r.CreatedAt); err != nil {
			return nil, domain.Internal(err, "review.list", "failed to scan review")
		}
		reviews = append(reviews, r)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, "review.list", "failed to read reviews")
	}

	return reviews, nil
}
