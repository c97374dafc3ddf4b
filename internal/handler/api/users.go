package api

import (
	"net/http"

	"github.com/pagecart/bookstore/internal/domain"
)

// UserHandler serves account listings over JSON.
type UserHandler struct {
	users domain.UserService
}

// NewUserHandler creates a new API user handler
func NewUserHandler(users domain.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// List handles GET /api/users (admin)
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListUsers(r.Context())
	if err != nil {
		errorResponse(w, r, err)
		return
	}

	out := make([]UserResponse, len(users))
	for i, u := range users {
		out[i] = newUserResponse(u)
	}
	respondJSON(w, http.StatusOK, out)
}
