// Package api implements the JSON REST surface. Responses use explicit
// DTOs with fixed field lists so storage types never leak onto the wire.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/pagecart/bookstore/internal/domain"
	"github.com/pagecart/bookstore/internal/handler"
)

// respondJSON writes data as a JSON response with the given status.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// decodeJSON decodes the request body into v, rejecting unknown fields.
func decodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return domain.Invalid("api.decode", "Invalid JSON body")
	}
	return nil
}

// errorResponse delegates to the shared handler error mapping.
func errorResponse(w http.ResponseWriter, r *http.Request, err error) {
	handler.ErrorResponse(w, r, err)
}

// currentUserID returns the authenticated user's ID, or an unauthorized
// error. Routes behind RequireAuth always have one; this guards direct use.
func currentUserID(r *http.Request) (string, error) {
	user := domain.UserFromContext(r.Context())
	if user == nil {
		return "", domain.Unauthorized("api.auth", "Authentication required")
	}
	return user.ID.String(), nil
}
