package api

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pagecart/bookstore/internal/domain"
)

// BookResponse is the wire shape of a catalog book.
type BookResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	Description string `json:"description,omitempty"`
	PriceCents  int32  `json:"price_cents"`
	Stock       int32  `json:"stock"`
	CoverImage  string `json:"cover_image,omitempty"`
	CategoryID  string `json:"category_id,omitempty"`
	CreatedAt   string `json:"created_at"`
}

func newBookResponse(b domain.Book) BookResponse {
	return BookResponse{
		ID:          domain.UUIDString(b.ID),
		Title:       b.Title,
		Author:      b.Author,
		Description: b.Description.String,
		PriceCents:  b.PriceCents,
		Stock:       b.Stock,
		CoverImage:  b.CoverImage.String,
		CategoryID:  domain.UUIDString(b.CategoryID),
		CreatedAt:   formatTime(b.CreatedAt),
	}
}

// CategoryResponse is the wire shape of a category.
type CategoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func newCategoryResponse(c domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:   domain.UUIDString(c.ID),
		Name: c.Name,
	}
}

// CartItemResponse is one resolved cart line.
type CartItemResponse struct {
	BookID         string `json:"book_id"`
	Title          string `json:"title"`
	Author         string `json:"author"`
	Quantity       int32  `json:"quantity"`
	UnitPriceCents int32  `json:"unit_price_cents"`
	SubtotalCents  int64  `json:"subtotal_cents"`
}

// CartResponse is the wire shape of the session's cart.
type CartResponse struct {
	ID         string             `json:"id"`
	Items      []CartItemResponse `json:"items"`
	TotalCents int64              `json:"total_cents"`
	ItemCount  int                `json:"item_count"`
}

func newCartResponse(s *domain.CartSummary) CartResponse {
	items := make([]CartItemResponse, len(s.Items))
	for i, item := range s.Items {
		items[i] = CartItemResponse{
			BookID:         domain.UUIDString(item.BookID),
			Title:          item.Title,
			Author:         item.Author,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
			SubtotalCents:  item.LineSubtotal,
		}
	}
	return CartResponse{
		ID:         domain.UUIDString(s.Cart.ID),
		Items:      items,
		TotalCents: s.TotalCents,
		ItemCount:  s.ItemCount,
	}
}

// OrderItemResponse is one order line.
type OrderItemResponse struct {
	BookID         string `json:"book_id"`
	Title          string `json:"title"`
	Quantity       int32  `json:"quantity"`
	UnitPriceCents int32  `json:"unit_price_cents"`
}

// OrderResponse is the wire shape of an order header.
type OrderResponse struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	TotalCents int64  `json:"total_cents"`
	FullName   string `json:"full_name"`
	Address    string `json:"address"`
	City       string `json:"city"`
	ZipCode    string `json:"zip_code"`
	Country    string `json:"country"`
	CreatedAt  string `json:"created_at"`
}

// OrderDetailResponse is an order with its items.
type OrderDetailResponse struct {
	OrderResponse
	Items []OrderItemResponse `json:"items"`
}

func newOrderResponse(o domain.Order) OrderResponse {
	return OrderResponse{
		ID:         domain.UUIDString(o.ID),
		Status:     string(o.Status),
		TotalCents: o.TotalCents,
		FullName:   o.FullName,
		Address:    o.Address,
		City:       o.City,
		ZipCode:    o.ZipCode,
		Country:    o.Country,
		CreatedAt:  formatTime(o.CreatedAt),
	}
}

func newOrderDetailResponse(d *domain.OrderDetail) OrderDetailResponse {
	items := make([]OrderItemResponse, len(d.Items))
	for i, item := range d.Items {
		items[i] = OrderItemResponse{
			BookID:         domain.UUIDString(item.BookID),
			Title:          item.Title,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
		}
	}
	return OrderDetailResponse{
		OrderResponse: newOrderResponse(d.Order),
		Items:         items,
	}
}

// ReviewResponse is the wire shape of a review.
type ReviewResponse struct {
	ID        string `json:"id"`
	BookID    string `json:"book_id"`
	Username  string `json:"username"`
	Rating    int32  `json:"rating"`
	Comment   string `json:"comment"`
	CreatedAt string `json:"created_at"`
}

func newReviewResponse(rev domain.Review) ReviewResponse {
	return ReviewResponse{
		ID:        domain.UUIDString(rev.ID),
		BookID:    domain.UUIDString(rev.BookID),
		Username:  rev.Username,
		Rating:    rev.Rating,
		Comment:   rev.Comment,
		CreatedAt: formatTime(rev.CreatedAt),
	}
}

// UserResponse is the wire shape of a user account. The password hash is
// deliberately absent.
type UserResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	IsAdmin   bool   `json:"is_admin"`
	CreatedAt string `json:"created_at"`
}

func newUserResponse(u domain.User) UserResponse {
	return UserResponse{
		ID:        domain.UUIDString(u.ID),
		Username:  u.Username,
		Email:     u.Email,
		IsAdmin:   u.IsAdmin,
		CreatedAt: formatTime(u.CreatedAt),
	}
}

func formatTime(ts pgtype.Timestamptz) string {
	if !ts.Valid {
		return ""
	}
	return ts.Time.UTC().Format(time.RFC3339)
}
