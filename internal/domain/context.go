// Package domain provides core business types, service interfaces, and
// context helpers for the bookstore.
//
// Context helpers centralize request-scoped data access so handlers and
// middleware share one way of resolving the current user.
package domain

import (
	"context"

	"github.com/google/uuid"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey int

const (
	// userContextKey stores user information in context.
	userContextKey contextKey = iota

	// requestIDContextKey stores the request ID for tracing.
	requestIDContextKey
)

// CurrentUser represents user information stored in context.
// This is a minimal struct for context storage - the full user
// record can be fetched from the database if needed.
type CurrentUser struct {
	ID       uuid.UUID
	Username string
	Email    string
	IsAdmin  bool
}

// NewContextWithUser returns a new context with the user attached.
func NewContextWithUser(ctx context.Context, user *CurrentUser) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext retrieves the user from context.
// Returns nil if no user is present (anonymous request).
func UserFromContext(ctx context.Context) *CurrentUser {
	user, _ := ctx.Value(userContextKey).(*CurrentUser)
	return user
}

// UserIDFromContext retrieves the user ID from context.
// Returns uuid.Nil if no user is present.
func UserIDFromContext(ctx context.Context) uuid.UUID {
	if user := UserFromContext(ctx); user != nil {
		return user.ID
	}
	return uuid.Nil
}

// NewContextWithRequestID returns a new context with the request ID attached.
func NewContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDContextKey, requestID)
}

// RequestIDFromContext retrieves the request ID from context.
// Returns empty string if no request ID is present.
func RequestIDFromContext(ctx context.Context) string {
	requestID, _ := ctx.Value(requestIDContextKey).(string)
	return requestID
}
