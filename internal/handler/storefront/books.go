package storefront

import (
	"net/http"
	"strconv"

	"github.com/pagecart/bookstore/internal/domain"
	"github.com/pagecart/bookstore/internal/handler"
)

// BookListHandler handles the catalog listing page
type BookListHandler struct {
	catalog  domain.CatalogService
	renderer *handler.Renderer
}

// NewBookListHandler creates a new book list handler
func NewBookListHandler(catalog domain.CatalogService, renderer *handler.Renderer) *BookListHandler {
	return &BookListHandler{
		catalog:  catalog,
		renderer: renderer,
	}
}

// ServeHTTP handles GET /books
func (h *BookListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filter := domain.BookFilter{
		TitleQuery: r.URL.Query().Get("q"),
		CategoryID: r.URL.Query().Get("category"),
	}

	books, err := h.catalog.ListBooks(ctx, filter)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	categories, err := h.catalog.ListCategories(ctx)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	data := BaseTemplateData(r)
	data["Books"] = books
	data["Categories"] = categories
	data["Query"] = filter.TitleQuery
	data["CategoryID"] = filter.CategoryID
	h.renderer.RenderHTTP(w, "books", data)
}

// BookDetailHandler handles the book detail page with its reviews
type BookDetailHandler struct {
	catalog  domain.CatalogService
	reviews  domain.ReviewService
	renderer *handler.Renderer
}

// NewBookDetailHandler creates a new book detail handler
func NewBookDetailHandler(catalog domain.CatalogService, reviews domain.ReviewService, renderer *handler.Renderer) *BookDetailHandler {
	return &BookDetailHandler{
		catalog:  catalog,
		reviews:  reviews,
		renderer: renderer,
	}
}

// ServeHTTP handles GET /books/{id}
func (h *BookDetailHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	book, err := h.catalog.GetBook(ctx, r.PathValue("id"))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	reviews, err := h.reviews.ListReviewsForBook(ctx, r.PathValue("id"))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	data := BaseTemplateData(r)
	data["Book"] = book
	data["Reviews"] = reviews
	h.renderer.RenderHTTP(w, "book_detail", data)
}

// ReviewSubmitHandler handles posting a review from the book page
type ReviewSubmitHandler struct {
	reviews domain.ReviewService
}

// NewReviewSubmitHandler creates a new review submit handler
func NewReviewSubmitHandler(reviews domain.ReviewService) *ReviewSubmitHandler {
	return &ReviewSubmitHandler{reviews: reviews}
}

// ServeHTTP handles POST /books/{id}/review
func (h *ReviewSubmitHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	user := domain.UserFromContext(r.Context())
	if user == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		handler.ErrorResponse(w, r, domain.Invalid("review.create", "Invalid form data"))
		return
	}

	rating, _ := strconv.Atoi(r.FormValue("rating"))
	bookID := r.PathValue("id")

	_, err := h.reviews.CreateReview(r.Context(), domain.CreateReviewParams{
		BookID:  bookID,
		UserID:  user.ID.String(),
		Rating:  rating,
		Comment: r.FormValue("comment"),
	})
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	http.Redirect(w, r, "/books/"+bookID, http.StatusSeeOther)
}
