package assemblyai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"studivio/internal/services"
)

func writeAudio(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "memo.mp3")
	if err := os.WriteFile(path, []byte("ID3 fake audio"), 0o644); err != nil {
		t.Fatalf("write audio: %v", err)
	}
	return path
}

func newFakeService(t *testing.T, final transcriptJob) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var polls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v2/upload", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != "ID3 fake audio" {
			t.Errorf("unexpected upload body %q", body)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"upload_url": "https://cdn.example/abc"})
	})
	mux.HandleFunc("POST /v2/transcript", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req["audio_url"] != "https://cdn.example/abc" {
			t.Errorf("unexpected audio_url %q", req["audio_url"])
		}
		_ = json.NewEncoder(w).Encode(transcriptJob{ID: "job-1", Status: "queued"})
	})
	mux.HandleFunc("GET /v2/transcript/job-1", func(w http.ResponseWriter, r *http.Request) {
		if polls.Add(1) < 3 {
			_ = json.NewEncoder(w).Encode(transcriptJob{ID: "job-1", Status: "processing"})
			return
		}
		_ = json.NewEncoder(w).Encode(final)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, &polls
}

func TestTranscribePollsUntilCompleted(t *testing.T) {
	server, polls := newFakeService(t, transcriptJob{ID: "job-1", Status: "completed", Text: "  Today we cover cell biology.  "})
	client := NewClient(Config{APIKey: "key", BaseURL: server.URL})

	text, err := client.Transcribe(context.Background(), writeAudio(t))
	if err != nil {
		t.Fatalf("Transcribe returned error: %v", err)
	}
	if text != "Today we cover cell biology." {
		t.Fatalf("unexpected transcript %q", text)
	}
	if polls.Load() != 3 {
		t.Fatalf("expected 3 polls, got %d", polls.Load())
	}
}

func TestTranscribeShortTranscriptIsNoSpeech(t *testing.T) {
	server, _ := newFakeService(t, transcriptJob{ID: "job-1", Status: "completed", Text: " uh hm  "})
	client := NewClient(Config{APIKey: "key", BaseURL: server.URL})

	_, err := client.Transcribe(context.Background(), writeAudio(t))
	if !errors.Is(err, ErrNoSpeechDetected) {
		t.Fatalf("expected ErrNoSpeechDetected, got %v", err)
	}
}

func TestTranscribeErrorStatusFails(t *testing.T) {
	server, _ := newFakeService(t, transcriptJob{ID: "job-1", Status: "error", Error: "unsupported codec"})
	client := NewClient(Config{APIKey: "key", BaseURL: server.URL})

	_, err := client.Transcribe(context.Background(), writeAudio(t))
	if !errors.Is(err, ErrTranscriptionFailed) {
		t.Fatalf("expected ErrTranscriptionFailed, got %v", err)
	}
}

func TestTranscribeUploadFailureIsUpstream(t *testing.T) {
	server, _ := newFakeService(t, transcriptJob{})
	client := NewClient(Config{APIKey: "wrong", BaseURL: server.URL})

	_, err := client.Transcribe(context.Background(), writeAudio(t))
	if !errors.Is(err, services.ErrUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if errors.Is(err, ErrTranscriptionFailed) || errors.Is(err, ErrNoSpeechDetected) {
		t.Fatalf("transport failure should not look like a transcription verdict: %v", err)
	}
}

func TestTranscribeTimesOut(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v2/upload", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"upload_url": "u"})
	})
	mux.HandleFunc("POST /v2/transcript", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(transcriptJob{ID: "slow", Status: "queued"})
	})
	mux.HandleFunc("GET /v2/transcript/slow", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(transcriptJob{ID: "slow", Status: "processing"})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := NewClient(Config{APIKey: "key", BaseURL: server.URL, PollInterval: 10 * time.Millisecond, Timeout: 100 * time.Millisecond})
	_, err := client.Transcribe(context.Background(), writeAudio(t))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestTranscribeRequiresAPIKey(t *testing.T) {
	client := NewClient(Config{})
	if _, err := client.Transcribe(context.Background(), "missing.mp3"); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestHealthCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/transcript" || r.URL.Query().Get("limit") != "1" {
			t.Errorf("unexpected request %s", r.URL.String())
		}
		if r.Header.Get("Authorization") != "key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"transcripts":[]}`))
	}))
	defer server.Close()

	if err := NewClient(Config{APIKey: "key", BaseURL: server.URL}).HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck: %v", err)
	}
	err := NewClient(Config{APIKey: "wrong", BaseURL: server.URL}).HealthCheck(context.Background())
	if !errors.Is(err, services.ErrUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
}
