package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pagecart/bookstore/internal/auth"
	"github.com/pagecart/bookstore/internal/domain"
)

// UserStore is the persistence surface the user service consumes.
type UserStore interface {
	CreateUser(ctx context.Context, username, email, passwordHash string, isAdmin bool) (domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)
	GetUserByID(ctx context.Context, userID pgtype.UUID) (domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
}

// UserSessionStore is the session surface the user service needs for login
// and logout.
type UserSessionStore interface {
	GetSessionByToken(ctx context.Context, token string) (domain.Session, error)
	AttachUser(ctx context.Context, sessionID, userID pgtype.UUID) error
	DeleteSessionByToken(ctx context.Context, token string) error
}

type userService struct {
	users    UserStore
	sessions UserSessionStore
	validate *validator.Validate
}

// Compile-time check that userService implements domain.UserService.
var _ domain.UserService = (*userService)(nil)

// NewUserService creates a new UserService instance.
func NewUserService(users UserStore, sessions UserSessionStore) domain.UserService {
	return &userService{
		users:    users,
		sessions: sessions,
		validate: newValidate(),
	}
}

// Register creates a new account with a bcrypt-hashed password.
func (s *userService) Register(ctx context.Context, params domain.RegisterParams) (*domain.User, error) {
	params.Username = strings.TrimSpace(params.Username)
	params.Email = strings.TrimSpace(params.Email)

	if err := s.validate.Struct(params); err != nil {
		return nil, validationError("user.register", err)
	}

	hash, err := auth.HashPassword(params.Password)
	if err != nil {
		return nil, domain.Internal(err, "user.register", "failed to hash password")
	}

	user, err := s.users.CreateUser(ctx, params.Username, params.Email, hash, false)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Login verifies credentials and attaches the caller's session to the user
// so the anonymous cart carries over. Unknown usernames and wrong passwords
// both return ErrInvalidCredentials.
func (s *userService) Login(ctx context.Context, username, password, sessionToken string) (*domain.User, error) {
	user, err := s.users.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if domain.ErrorCode(err) == domain.ENOTFOUND {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := auth.VerifyPassword(password, user.PasswordHash); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	sess, err := s.sessions.GetSessionByToken(ctx, sessionToken)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.AttachUser(ctx, sess.ID, user.ID); err != nil {
		return nil, err
	}

	return &user, nil
}

// Logout deletes the session, discarding its cart association.
func (s *userService) Logout(ctx context.Context, sessionToken string) error {
	return s.sessions.DeleteSessionByToken(ctx, sessionToken)
}

// GetBySessionToken resolves the user behind an unexpired session token.
// Anonymous sessions resolve to a nil user with no error.
func (s *userService) GetBySessionToken(ctx context.Context, sessionToken string) (*domain.User, error) {
	sess, err := s.sessions.GetSessionByToken(ctx, sessionToken)
	if err != nil {
		return nil, err
	}
	if !sess.UserID.Valid {
		return nil, nil
	}

	user, err := s.users.GetUserByID(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ListUsers returns all registered users.
func (s *userService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.ListUsers(ctx)
}
