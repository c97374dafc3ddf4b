package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pagecart/bookstore/internal/domain"
)

// SessionStore persists server-side browsing sessions.
type SessionStore struct {
	pool *pgxpool.Pool
}

// NewSessionStore creates a PostgreSQL-backed session store.
func NewSessionStore(pool *pgxpool.Pool) *SessionStore {
	return &SessionStore{pool: pool}
}

const sessionColumns = `id, token, user_id, expires_at, created_at`

// CreateSession inserts a new anonymous session with the given token and TTL.
func (s *SessionStore) CreateSession(ctx context.Context, token string, ttl time.Duration) (domain.Session, error) {
	var sess domain.Session
	err := s.pool.QueryRow(ctx, `
		INSERT INTO sessions (token, expires_at)
		VALUES ($1, $2)
		RETURNING `+sessionColumns,
		token, time.Now().Add(ttl)).Scan(&sess.ID, &sess.Token, &sess.UserID, &sess.ExpiresAt, &sess.CreatedAt)
	if err != nil {
		return domain.Session{}, domain.Internal(err, "session.create", "failed to create session")
	}
	return sess, nil
}

// GetSessionByToken retrieves an unexpired session by its token.
func (s *SessionStore) GetSessionByToken(ctx context.Context, token string) (domain.Session, error) {
	var sess domain.Session
	err := s.pool.QueryRow(ctx, `
		SELECT `+sessionColumns+`
		FROM sessions
		WHERE token = $1 AND expires_at > now()`,
		token).Scan(&sess.ID, &sess.Token, &sess.UserID, &sess.ExpiresAt, &sess.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Session{}, domain.ErrSessionNotFound
		}
		return domain.Session{}, domain.Internal(err, "session.get", "failed to get session")
	}
	return sess, nil
}

// AttachUser binds a session (and with it the session's cart) to a user
// after login.
func (s *SessionStore) AttachUser(ctx context.Context, sessionID, userID pgtype.UUID) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE sessions SET user_id = $2 WHERE id = $1`, sessionID, userID)
	if err != nil {
		return domain.Internal(err, "session.attach_user", "failed to attach user to session")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

// DeleteSessionByToken removes a session. Deleting an unknown token is a
// no-op.
func (s *SessionStore) DeleteSessionByToken(ctx context.Context, token string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE token = $1`, token); err != nil {
		return domain.Internal(err, "session.delete", "failed to delete session")
	}
	return nil
}

// DeleteExpiredSessions removes sessions past their expiry, returning the
// number deleted. Carts hanging off the sessions cascade away with them.
func (s *SessionStore) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= now()`)
	if err != nil {
		return 0, domain.Internal(err, "session.cleanup", "failed to delete expired sessions")
	}
	return tag.RowsAffected(), nil
}
