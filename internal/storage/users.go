package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/earlystart/spendcast/internal/common"
)

// CreateUser registers a new user with a bcrypt-hashed password.
func (s *SQLiteStorage) CreateUser(ctx context.Context, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return fmt.Errorf("%w: email and password required", common.ErrInvalidConfig)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO users (email, password_hash) VALUES (?, ?)`,
		email, string(hash))
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: user %s", common.ErrDuplicateEntry, email)
	}
	return nil
}

// AuthenticateUser verifies a user's credentials.
func (s *SQLiteStorage) AuthenticateUser(ctx context.Context, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	var hash string
	err := s.db.QueryRowContext(ctx,
		`SELECT password_hash FROM users WHERE email = ?`, email).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: user %s", common.ErrNotFound, email)
	}
	if err != nil {
		return fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return fmt.Errorf("invalid credentials for %s", email)
	}
	return nil
}

// UpdatePassword replaces a user's password.
func (s *SQLiteStorage) UpdatePassword(ctx context.Context, email, newPassword string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if newPassword == "" {
		return fmt.Errorf("%w: new password required", common.ErrInvalidConfig)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE email = ?`,
		string(hash), time.Now().UTC(), email)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: user %s", common.ErrNotFound, email)
	}
	return nil
}
