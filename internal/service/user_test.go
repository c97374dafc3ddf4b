package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagecart/bookstore/internal/auth"
	"github.com/pagecart/bookstore/internal/domain"
)

// mockUserStore implements UserStore for testing.
type mockUserStore struct {
	CreateUserFunc        func(ctx context.Context, username, email, passwordHash string, isAdmin bool) (domain.User, error)
	GetUserByUsernameFunc func(ctx context.Context, username string) (domain.User, error)
	GetUserByIDFunc       func(ctx context.Context, userID pgtype.UUID) (domain.User, error)
	ListUsersFunc         func(ctx context.Context) ([]domain.User, error)
}

func (m *mockUserStore) CreateUser(ctx context.Context, username, email, passwordHash string, isAdmin bool) (domain.User, error) {
	if m.CreateUserFunc != nil {
		return m.CreateUserFunc(ctx, username, email, passwordHash, isAdmin)
	}
	return domain.User{Username: username, Email: email, PasswordHash: passwordHash, IsAdmin: isAdmin}, nil
}

func (m *mockUserStore) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	if m.GetUserByUsernameFunc != nil {
		return m.GetUserByUsernameFunc(ctx, username)
	}
	return domain.User{}, domain.ErrUserNotFound
}

func (m *mockUserStore) GetUserByID(ctx context.Context, userID pgtype.UUID) (domain.User, error) {
	if m.GetUserByIDFunc != nil {
		return m.GetUserByIDFunc(ctx, userID)
	}
	return domain.User{}, domain.ErrUserNotFound
}

func (m *mockUserStore) ListUsers(ctx context.Context) ([]domain.User, error) {
	if m.ListUsersFunc != nil {
		return m.ListUsersFunc(ctx)
	}
	return nil, nil
}

// mockUserSessionStore implements UserSessionStore for testing.
type mockUserSessionStore struct {
	GetSessionByTokenFunc    func(ctx context.Context, token string) (domain.Session, error)
	AttachUserFunc           func(ctx context.Context, sessionID, userID pgtype.UUID) error
	DeleteSessionByTokenFunc func(ctx context.Context, token string) error
}

func (m *mockUserSessionStore) GetSessionByToken(ctx context.Context, token string) (domain.Session, error) {
	if m.GetSessionByTokenFunc != nil {
		return m.GetSessionByTokenFunc(ctx, token)
	}
	return domain.Session{}, domain.ErrSessionNotFound
}

func (m *mockUserSessionStore) AttachUser(ctx context.Context, sessionID, userID pgtype.UUID) error {
	if m.AttachUserFunc != nil {
		return m.AttachUserFunc(ctx, sessionID, userID)
	}
	return nil
}

func (m *mockUserSessionStore) DeleteSessionByToken(ctx context.Context, token string) error {
	if m.DeleteSessionByTokenFunc != nil {
		return m.DeleteSessionByTokenFunc(ctx, token)
	}
	return nil
}

func TestUserService_Register(t *testing.T) {
	var storedHash string
	users := &mockUserStore{
		CreateUserFunc: func(ctx context.Context, username, email, passwordHash string, isAdmin bool) (domain.User, error) {
			storedHash = passwordHash
			assert.False(t, isAdmin, "self-registration must never create admins")
			return domain.User{Username: username, Email: email, PasswordHash: passwordHash}, nil
		},
	}
	svc := NewUserService(users, &mockUserSessionStore{})

	user, err := svc.Register(context.Background(), domain.RegisterParams{
		Username: "  gopher  ",
		Email:    " gopher@example.com ",
		Password: "correct horse battery",
	})
	require.NoError(t, err)
	assert.Equal(t, "gopher", user.Username, "username should be trimmed")
	assert.Equal(t, "gopher@example.com", user.Email, "email should be trimmed")

	require.NotEqual(t, "correct horse battery", storedHash, "password must never be stored in the clear")
	assert.NoError(t, auth.VerifyPassword("correct horse battery", storedHash))
}

func TestUserService_Register_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		params    domain.RegisterParams
		wantField string
	}{
		{
			name:      "username too short",
			params:    domain.RegisterParams{Username: "ab", Email: "a@example.com", Password: "longenough"},
			wantField: "username",
		},
		{
			name:      "bad email",
			params:    domain.RegisterParams{Username: "gopher", Email: "not-an-email", Password: "longenough"},
			wantField: "email",
		},
		{
			name:      "password too short",
			params:    domain.RegisterParams{Username: "gopher", Email: "a@example.com", Password: "short"},
			wantField: "password",
		},
	}

	svc := NewUserService(&mockUserStore{}, &mockUserSessionStore{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.params)
			require.True(t, domain.IsValidationError(err), "expected validation error, got %v", err)
			assert.Contains(t, domain.GetValidationFields(err), tt.wantField)
		})
	}
}

func TestUserService_Login(t *testing.T) {
	hash, err := auth.HashPassword("opensesame1")
	require.NoError(t, err)

	userID := mustUUID(t, uuid.NewString())
	sessionID := mustUUID(t, uuid.NewString())

	users := &mockUserStore{
		GetUserByUsernameFunc: func(ctx context.Context, username string) (domain.User, error) {
			if username != "gopher" {
				return domain.User{}, domain.ErrUserNotFound
			}
			return domain.User{ID: userID, Username: "gopher", PasswordHash: hash}, nil
		},
	}

	var attachedSession, attachedUser pgtype.UUID
	sessions := &mockUserSessionStore{
		GetSessionByTokenFunc: func(ctx context.Context, token string) (domain.Session, error) {
			return domain.Session{ID: sessionID, Token: token}, nil
		},
		AttachUserFunc: func(ctx context.Context, sid, uid pgtype.UUID) error {
			attachedSession, attachedUser = sid, uid
			return nil
		},
	}
	svc := NewUserService(users, sessions)
	ctx := context.Background()

	user, err := svc.Login(ctx, "gopher", "opensesame1", "session-token")
	require.NoError(t, err)
	assert.Equal(t, "gopher", user.Username)
	assert.Equal(t, sessionID, attachedSession, "login must attach the caller's session")
	assert.Equal(t, userID, attachedUser)

	_, err = svc.Login(ctx, "gopher", "wrong-password", "session-token")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials, "wrong password")

	_, err = svc.Login(ctx, "nobody", "opensesame1", "session-token")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials,
		"unknown usernames must be indistinguishable from wrong passwords")
}

func TestUserService_GetBySessionToken_Anonymous(t *testing.T) {
	sessions := &mockUserSessionStore{
		GetSessionByTokenFunc: func(ctx context.Context, token string) (domain.Session, error) {
			// No UserID: the session exists but nobody has logged in.
			return domain.Session{ID: mustUUID(t, uuid.NewString()), Token: token}, nil
		},
	}
	svc := NewUserService(&mockUserStore{}, sessions)

	user, err := svc.GetBySessionToken(context.Background(), "anon-token")
	require.NoError(t, err)
	assert.Nil(t, user, "anonymous sessions resolve to no user, not an error")
}

func TestUserService_Logout(t *testing.T) {
	var deleted string
	sessions := &mockUserSessionStore{
		DeleteSessionByTokenFunc: func(ctx context.Context, token string) error {
			deleted = token
			return nil
		},
	}
	svc := NewUserService(&mockUserStore{}, sessions)

	require.NoError(t, svc.Logout(context.Background(), "session-token"))
	assert.Equal(t, "session-token", deleted)
}
