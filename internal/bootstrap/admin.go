// Package bootstrap handles one-time initialization tasks for the application.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pagecart/bookstore/internal/auth"
	"github.com/pagecart/bookstore/internal/domain"
)

// AdminStore is the persistence surface admin bootstrap needs.
type AdminStore interface {
	CountAdmins(ctx context.Context) (int64, error)
	CreateUser(ctx context.Context, username, email, passwordHash string, isAdmin bool) (domain.User, error)
}

// AdminConfig contains configuration for the initial admin user.
type AdminConfig struct {
	Username string
	Email    string
	Password string
}

// Validate checks that the admin configuration is valid.
func (c *AdminConfig) Validate() error {
	if c.Username == "" {
		return errors.New("admin username is required")
	}
	if c.Email == "" {
		return errors.New("admin email is required")
	}
	if c.Password == "" {
		return errors.New("admin password is required")
	}
	if len(c.Password) < 12 {
		return errors.New("admin password must be at least 12 characters")
	}
	return nil
}

// EnsureAdmin creates the initial admin user when no admin exists yet.
// Idempotent - safe to call on every startup.
//
// With no config (empty username or password) it logs a warning and skips,
// which allows running without an admin in dev.
func EnsureAdmin(ctx context.Context, store AdminStore, cfg *AdminConfig, logger *slog.Logger) error {
	if cfg == nil || cfg.Username == "" || cfg.Password == "" {
		logger.Warn("bootstrap: skipping admin creation - BOOKSTORE_ADMIN_USERNAME or BOOKSTORE_ADMIN_PASSWORD not set",
			"hint", "Set these environment variables to create an admin user on first startup",
		)
		return nil
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid admin configuration: %w", err)
	}

	count, err := store.CountAdmins(ctx)
	if err != nil {
		return fmt.Errorf("failed to check for existing admin: %w", err)
	}
	if count > 0 {
		logger.Info("bootstrap: admin user already exists")
		return nil
	}

	passwordHash, err := auth.HashPassword(cfg.Password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	user, err := store.CreateUser(ctx, cfg.Username, cfg.Email, passwordHash, true)
	if err != nil {
		// A concurrent instance may have won the race.
		if domain.ErrorCode(err) == domain.ECONFLICT {
			logger.Info("bootstrap: admin user already exists (concurrent creation)",
				"username", cfg.Username,
			)
			return nil
		}
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	logger.Info("bootstrap: admin user created successfully",
		"username", user.Username,
		"user_id", domain.UUIDString(user.ID),
	)

	return nil
}
