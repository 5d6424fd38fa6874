package preflight

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-redis/redis/v8"

	"studivio/internal/config"
	"studivio/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckJWTSecret(t *testing.T) {
	if CheckJWTSecret("").Passed {
		t.Fatal("expected failure for missing secret")
	}
	if CheckJWTSecret("short").Passed {
		t.Fatal("expected failure for short secret")
	}
	if !CheckJWTSecret(testsupport.TestJWTSecret).Passed {
		t.Fatal("expected pass for test secret")
	}
}

func TestCheckDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "studivio.db")
	result := CheckDatabase(context.Background(), path)
	if !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected database file to exist: %v", err)
	}
}

func llmServer(t *testing.T, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"OK"},"finish_reason":"stop"}]}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCheckLLM(t *testing.T) {
	ok := CheckLLM(context.Background(), "LLM", config.LLMConfig{APIKey: "k", BaseURL: llmServer(t, http.StatusOK).URL})
	if !ok.Passed {
		t.Fatalf("expected pass, got: %s", ok.Detail)
	}
	bad := CheckLLM(context.Background(), "LLM", config.LLMConfig{APIKey: "k", BaseURL: llmServer(t, http.StatusUnauthorized).URL})
	if bad.Passed {
		t.Fatal("expected failure for rejected key")
	}
	missing := CheckLLM(context.Background(), "LLM", config.LLMConfig{})
	if missing.Passed || missing.Detail != "API key missing" {
		t.Fatalf("unexpected result for missing key: %+v", missing)
	}
}

func assemblyServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "good-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"transcripts":[]}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCheckAssemblyAI(t *testing.T) {
	srv := assemblyServer(t)
	if result := CheckAssemblyAI(context.Background(), config.AssemblyAI{APIKey: "good-key", BaseURL: srv.URL}); !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
	if result := CheckAssemblyAI(context.Background(), config.AssemblyAI{APIKey: "bad-key", BaseURL: srv.URL}); result.Passed {
		t.Fatal("expected failure for bad key")
	}
	if result := CheckAssemblyAI(context.Background(), config.AssemblyAI{}); result.Passed {
		t.Fatal("expected failure for missing key")
	}
}

type pingerStub struct{ err error }

func (p pingerStub) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", p.err)
}

func TestCheckRedis(t *testing.T) {
	if result := CheckRedis(context.Background(), "localhost:6379", pingerStub{}); !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
	result := CheckRedis(context.Background(), "localhost:6379", pingerStub{err: errors.New("connection refused")})
	if result.Passed || !strings.Contains(result.Detail, "connection refused") {
		t.Fatalf("unexpected result: %+v", result)
	}
}

type checkerStub struct{ err error }

func (c checkerStub) Check(context.Context) error { return c.err }

func TestCheckArchiveIsOptional(t *testing.T) {
	result := CheckArchive(context.Background(), "notes", checkerStub{err: errors.New("no such bucket")})
	if result.Passed || !result.Optional {
		t.Fatalf("expected optional failure, got %+v", result)
	}
	if Failed([]Result{result}) {
		t.Fatal("optional failures must not fail preflight")
	}
}

func TestCheckNotificationsFromConfig(t *testing.T) {
	cfg := config.Default()
	if detail := CheckNotificationsFromConfig(&cfg).Detail; detail != "Disabled" {
		t.Fatalf("detail = %q", detail)
	}
	cfg.Notifications.NtfyTopic = "https://ntfy.sh/studivio"
	detail := CheckNotificationsFromConfig(&cfg).Detail
	if !strings.Contains(detail, "note ready") || !strings.Contains(detail, "failures") {
		t.Fatalf("detail = %q", detail)
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	if results := RunAll(context.Background(), nil); results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAll_HealthyConfig(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.LLM.BaseURL = llmServer(t, http.StatusOK).URL
	cfg.AssemblyAI.BaseURL = assemblyServer(t).URL
	cfg.AssemblyAI.APIKey = "good-key"

	results := RunAll(context.Background(), cfg)
	for _, r := range results {
		if !r.Passed {
			t.Errorf("check %q failed: %s", r.Name, r.Detail)
		}
		if r.Name == "Redis revocations" || r.Name == "Artifact archive" {
			t.Errorf("disabled check %q should be skipped", r.Name)
		}
	}
	if Failed(results) {
		t.Fatal("expected no required failures")
	}
}

func TestRunAll_MissingKeysFail(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithoutCredentials())
	results := RunAll(context.Background(), cfg)
	if !Failed(results) {
		t.Fatal("expected missing API keys to fail preflight")
	}
}
