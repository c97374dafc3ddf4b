package domain

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

// =============================================================================
// USER DOMAIN ERRORS
// =============================================================================

var (
	ErrUserNotFound       = &Error{Code: ENOTFOUND, Message: "User not found"}
	ErrUsernameTaken      = &Error{Code: ECONFLICT, Message: "Username is already taken"}
	ErrEmailTaken         = &Error{Code: ECONFLICT, Message: "This email is already in use"}
	ErrInvalidCredentials = &Error{Code: EUNAUTHORIZED, Message: "Invalid username or password"}
)

// User is a registered account. PasswordHash is a bcrypt hash and never
// leaves the service layer.
type User struct {
	ID           pgtype.UUID
	Username     string
	Email        string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    pgtype.Timestamptz
}

// RegisterParams contains registration input.
type RegisterParams struct {
	Username string `json:"username" validate:"required,min=3,max=150"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// UserService provides registration, authentication, and session handling.
type UserService interface {
	// Register creates a new user with a hashed password. Username and
	// email must be unique.
	Register(ctx context.Context, params RegisterParams) (*User, error)

	// Login verifies credentials and attaches the given session (and with
	// it the session's cart) to the user. Returns the authenticated user.
	Login(ctx context.Context, username, password, sessionToken string) (*User, error)

	// Logout detaches and deletes the session.
	Logout(ctx context.Context, sessionToken string) error

	// GetBySessionToken resolves the user owning an unexpired session.
	// Returns ErrSessionNotFound for unknown or expired tokens and nil user
	// for anonymous sessions.
	GetBySessionToken(ctx context.Context, sessionToken string) (*User, error)

	// ListUsers returns all users. Admin only at the route level.
	ListUsers(ctx context.Context) ([]User, error)
}
