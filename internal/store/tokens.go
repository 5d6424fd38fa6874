package store

import (
	"context"
	"strings"
	"time"
)

// RevokeToken records a token identifier as revoked until expiresAt. Revoking
// the same identifier twice keeps the later expiry.
func (s *Store) RevokeToken(ctx context.Context, jti string, expiresAt time.Time) error {
	if strings.TrimSpace(jti) == "" {
		return missingField("revoke token", "jti")
	}
	_, err := s.execWithRetry(ctx,
		`INSERT INTO blacklisted_tokens (jti, expires_at, revoked_at) VALUES (?, ?, ?)
		 ON CONFLICT(jti) DO UPDATE SET expires_at = MAX(expires_at, excluded.expires_at)`,
		jti, expiresAt.Unix(), s.now().Unix(),
	)
	if err != nil {
		return storageErr("revoke token", err)
	}
	return nil
}

// IsTokenRevoked reports whether jti has been revoked.
func (s *Store) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ensureContext(ctx),
		`SELECT COUNT(1) FROM blacklisted_tokens WHERE jti = ?`, jti,
	).Scan(&count)
	if err != nil {
		return false, storageErr("check revoked token", err)
	}
	return count > 0, nil
}

// PurgeExpiredTokens deletes revocations whose token expired at or before now.
// Such tokens fail signature validation on their own, so the entries are dead
// weight.
func (s *Store) PurgeExpiredTokens(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM blacklisted_tokens WHERE expires_at <= ?`, now.Unix())
	if err != nil {
		return 0, storageErr("purge revoked tokens", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, storageErr("purge revoked tokens", err)
	}
	return n, nil
}
