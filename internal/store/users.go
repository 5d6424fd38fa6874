package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

// CreateUser inserts a user and reports false when the username is taken.
func (s *Store) CreateUser(ctx context.Context, username, passwordHash string) (bool, error) {
	const op = "create user"
	if strings.TrimSpace(username) == "" {
		return false, missingField(op, "username")
	}
	if passwordHash == "" {
		return false, missingField(op, "password_hash")
	}
	res, err := s.execWithRetry(ctx,
		`INSERT INTO users (username, password_hash, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(username) DO NOTHING`,
		username, passwordHash, s.timestamp(),
	)
	if err != nil {
		return false, storageErr("insert user", err)
	}
	return affected(res), nil
}

// GetUser returns the named user or nil when absent.
func (s *Store) GetUser(ctx context.Context, username string) (*User, error) {
	var (
		user    User
		created string
	)
	err := s.db.QueryRowContext(ensureContext(ctx),
		`SELECT username, password_hash, created_at FROM users WHERE username = ?`, username,
	).Scan(&user.Username, &user.PasswordHash, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("get user", err)
	}
	user.CreatedAt = parseTime(created)
	return &user, nil
}
