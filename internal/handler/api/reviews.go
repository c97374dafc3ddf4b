package api

import (
	"net/http"

	"github.com/pagecart/bookstore/internal/domain"
)

// ReviewHandler serves book reviews over JSON.
type ReviewHandler struct {
	reviews domain.ReviewService
}

// NewReviewHandler creates a new API review handler
func NewReviewHandler(reviews domain.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// List handles GET /api/books/{id}/reviews
func (h *ReviewHandler) List(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.reviews.ListReviewsForBook(r.Context(), r.PathValue("id"))
	if err != nil {
		errorResponse(w, r, err)
		return
	}

	out := make([]ReviewResponse, len(reviews))
	for i, rev := range reviews {
		out[i] = newReviewResponse(rev)
	}
	respondJSON(w, http.StatusOK, out)
}

type reviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// Create handles POST /api/books/{id}/reviews (auth)
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		errorResponse(w, r, err)
		return
	}

	var req reviewRequest
	if err := decodeJSON(r, &req); err != nil {
		errorResponse(w, r, err)
		return
	}

	review, err := h.reviews.CreateReview(r.Context(), domain.CreateReviewParams{
		BookID:  r.PathValue("id"),
		UserID:  userID,
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		errorResponse(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, newReviewResponse(*review))
}
