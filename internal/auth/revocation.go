package auth

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"

	"studivio/internal/logging"
	"studivio/internal/services"
)

// Revocations records logged-out token identifiers until the tokens expire.
type Revocations interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// TokenStore is the slice of store.Store the SQLite backend needs.
type TokenStore interface {
	RevokeToken(ctx context.Context, jti string, expiresAt time.Time) error
	IsTokenRevoked(ctx context.Context, jti string) (bool, error)
	PurgeExpiredTokens(ctx context.Context, now time.Time) (int64, error)
}

// SQLiteRevocations keeps revocations in the note database.
type SQLiteRevocations struct {
	store TokenStore
}

// NewSQLiteRevocations wraps st.
func NewSQLiteRevocations(st TokenStore) *SQLiteRevocations {
	return &SQLiteRevocations{store: st}
}

func (s *SQLiteRevocations) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	return s.store.RevokeToken(ctx, jti, expiresAt)
}

func (s *SQLiteRevocations) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return s.store.IsTokenRevoked(ctx, jti)
}

// Purge drops revocations whose tokens have expired.
func (s *SQLiteRevocations) Purge(ctx context.Context, now time.Time) (int64, error) {
	return s.store.PurgeExpiredTokens(ctx, now)
}

// RedisClient is the subset of *redis.Client the Redis backend uses.
type RedisClient interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
}

const redisKeyPrefix = "revoked:"

// RedisRevocations stores each revocation as a key that expires with its token.
type RedisRevocations struct {
	client RedisClient
	now    func() time.Time
}

// NewRedisRevocations wraps client.
func NewRedisRevocations(client RedisClient) *RedisRevocations {
	return &RedisRevocations{client: client, now: time.Now}
}

// NewRedisClient opens a client for addr.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func (r *RedisRevocations) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(r.now())
	if ttl <= 0 {
		// Already expired; signature checks reject it.
		return nil
	}
	if err := r.client.Set(ctx, redisKeyPrefix+jti, "1", ttl).Err(); err != nil {
		return services.Wrap(services.ErrStorage, "auth", "revoke token", "redis", err)
	}
	return nil
}

func (r *RedisRevocations) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.client.Exists(ctx, redisKeyPrefix+jti).Result()
	if err != nil {
		return false, services.Wrap(services.ErrStorage, "auth", "check revoked token", "redis", err)
	}
	return n > 0, nil
}

// Purger drops expired revocations.
type Purger interface {
	Purge(ctx context.Context, now time.Time) (int64, error)
}

// RunPurger purges expired revocations every interval until ctx ends.
func RunPurger(ctx context.Context, purger Purger, interval time.Duration, logger *slog.Logger) {
	if purger == nil || interval <= 0 {
		return
	}
	logger = logging.NewComponentLogger(logger, "auth")

	purge := func() {
		n, err := purger.Purge(ctx, time.Now())
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logging.WarnWithContext(logger, "revoked token purge failed", "token_purge_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check database health"),
				logging.String(logging.FieldImpact, "expired revocations remain until the next run"),
			)
			return
		}
		if n > 0 {
			logger.Debug("purged expired revocations", logging.Int64("count", n))
		}
	}

	purge()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			purge()
		}
	}
}
