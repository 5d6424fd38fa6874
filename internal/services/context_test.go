package services_test

import (
	"context"
	"testing"

	"studivio/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithUser(ctx, "alice")
	ctx = services.WithIngestState(ctx, "validated")
	ctx = services.WithRequestID(ctx, "req-123")

	if user, ok := services.UserFromContext(ctx); !ok || user != "alice" {
		t.Fatalf("unexpected user: %v %v", user, ok)
	}
	if state, ok := services.IngestStateFromContext(ctx); !ok || state != "validated" {
		t.Fatalf("unexpected state: %v %v", state, ok)
	}
	if rid, ok := services.RequestIDFromContext(ctx); !ok || rid != "req-123" {
		t.Fatalf("unexpected request id: %v %v", rid, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithIngestState(ctx, "")
	ctx = services.WithUser(ctx, "")
	if _, ok := services.IngestStateFromContext(ctx); ok {
		t.Fatal("expected no state value")
	}
	if _, ok := services.UserFromContext(ctx); ok {
		t.Fatal("expected no user value")
	}
}
