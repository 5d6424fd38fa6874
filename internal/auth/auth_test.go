package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v5"

	"studivio/internal/services"
	"studivio/internal/testsupport"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if hash == "s3cret" {
		t.Fatal("expected password to be hashed")
	}
	if !CheckPassword(hash, "s3cret") {
		t.Fatal("expected matching password to verify")
	}
	if CheckPassword(hash, "wrong") {
		t.Fatal("expected wrong password to fail")
	}
	if CheckPassword("not-a-hash", "s3cret") {
		t.Fatal("expected malformed hash to fail")
	}
}

func TestIssueAndParseRoundTrip(t *testing.T) {
	issuer := NewIssuer("secret", 0)
	token, claims, err := issuer.Issue("alice")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if claims.ID == "" {
		t.Fatal("expected a jti")
	}
	if got := claims.Expiry().Sub(claims.IssuedAt.Time); got != DefaultAccessTTL {
		t.Fatalf("expected %s lifetime, got %s", DefaultAccessTTL, got)
	}

	parsed, err := issuer.Parse(token)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if parsed.Username() != "alice" || parsed.ID != claims.ID {
		t.Fatalf("unexpected claims %#v", parsed)
	}
}

func TestParseRejectsBadTokens(t *testing.T) {
	issuer := NewIssuer("secret", time.Minute)
	token, _, err := issuer.Issue("alice")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	other := NewIssuer("different", time.Minute)
	if _, err := other.Parse(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected wrong secret to fail, got %v", err)
	}

	expired := NewIssuer("secret", time.Minute)
	expired.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	if _, err := expired.Parse(token); !errors.Is(err, services.ErrAuth) || !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected expired token to fail auth, got %v", err)
	}

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "alice"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none token: %v", err)
	}
	if _, err := issuer.Parse(unsigned); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected alg=none to fail, got %v", err)
	}

	if _, err := issuer.Parse(""); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected empty token to fail, got %v", err)
	}
}

func TestBearerToken(t *testing.T) {
	if tok, ok := BearerToken("Bearer abc.def"); !ok || tok != "abc.def" {
		t.Fatalf("unexpected result %q %v", tok, ok)
	}
	for _, header := range []string{"", "Bearer", "Bearer   ", "Basic abc", "abc"} {
		if _, ok := BearerToken(header); ok {
			t.Fatalf("expected %q to be rejected", header)
		}
	}
}

func TestServiceLogoutRevokesToken(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	svc := NewService(NewIssuer("secret", time.Minute), NewSQLiteRevocations(st))
	ctx := context.Background()

	token, _, err := svc.Issuer().Issue("alice")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	claims, err := svc.Authenticate(ctx, token)
	if err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}
	if err := svc.Logout(ctx, claims); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}
	_, err = svc.Authenticate(ctx, token)
	if !errors.Is(err, ErrRevoked) {
		t.Fatalf("expected revoked token to be rejected, got %v", err)
	}
	if status := services.HTTPStatus(err); status != 401 {
		t.Fatalf("expected 401 for revoked token, got %d", status)
	}
}

type fakeRedis struct {
	mu   sync.Mutex
	keys map[string]time.Duration
}

func (f *fakeRedis) Set(_ context.Context, key string, _ any, expiration time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Exists(_ context.Context, keys ...string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, key := range keys {
		if _, ok := f.keys[key]; ok {
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func TestRedisRevocationsExpireWithToken(t *testing.T) {
	fake := &fakeRedis{keys: map[string]time.Duration{}}
	revs := NewRedisRevocations(fake)
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	revs.now = func() time.Time { return now }
	ctx := context.Background()

	if err := revs.Revoke(ctx, "jti-1", now.Add(10*time.Minute)); err != nil {
		t.Fatalf("Revoke returned error: %v", err)
	}
	if ttl := fake.keys["revoked:jti-1"]; ttl != 10*time.Minute {
		t.Fatalf("expected ttl to match token expiry, got %s", ttl)
	}
	if err := revs.Revoke(ctx, "jti-old", now.Add(-time.Second)); err != nil {
		t.Fatalf("Revoke expired returned error: %v", err)
	}
	if _, ok := fake.keys["revoked:jti-old"]; ok {
		t.Fatal("expected already-expired token not to be stored")
	}

	revoked, err := revs.IsRevoked(ctx, "jti-1")
	if err != nil || !revoked {
		t.Fatalf("expected jti-1 revoked, got %v %v", revoked, err)
	}
	revoked, err = revs.IsRevoked(ctx, "jti-2")
	if err != nil || revoked {
		t.Fatalf("expected jti-2 not revoked, got %v %v", revoked, err)
	}
}

type countingPurger struct {
	mu    sync.Mutex
	calls int
}

func (c *countingPurger) Purge(context.Context, time.Time) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return 1, nil
}

func (c *countingPurger) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func TestRunPurgerStopsWithContext(t *testing.T) {
	purger := &countingPurger{}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		RunPurger(ctx, purger, 5*time.Millisecond, nil)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for purger.count() < 2 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("purger did not stop after cancel")
	}
	if purger.count() < 2 {
		t.Fatalf("expected at least 2 purges, got %d", purger.count())
	}
}
