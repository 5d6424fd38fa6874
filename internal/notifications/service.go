package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"studivio/internal/config"
)

const userAgent = "Studivio-Go/1.0"

// Service defines the notification surface exposed to ingestion.
type Service interface {
	NotifyNoteReady(ctx context.Context, user, title string) error
	NotifyIngestFailed(ctx context.Context, source, reason string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint:  topic,
		client:    &http.Client{Timeout: timeout},
		noteReady: cfg.Notifications.NoteReady,
		failures:  cfg.Notifications.Failures,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint  string
	client    *http.Client
	noteReady bool
	failures  bool
}

func (n *ntfyService) NotifyNoteReady(ctx context.Context, user, title string) error {
	if !n.noteReady {
		return nil
	}
	title = strings.TrimSpace(title)
	message := fmt.Sprintf("📝 Note ready: %s", title)
	if user = strings.TrimSpace(user); user != "" {
		message = fmt.Sprintf("%s\nOwner: %s", message, user)
	}
	return n.send(ctx, payload{
		title:   "Studivio - Note Ready",
		message: message,
		tags:    []string{"studivio", "note", "ready"},
	})
}

func (n *ntfyService) NotifyIngestFailed(ctx context.Context, source, reason string) error {
	if !n.failures {
		return nil
	}
	var builder strings.Builder
	builder.WriteString("❌ Processing failed")
	if source = strings.TrimSpace(source); source != "" {
		builder.WriteString(" for ")
		builder.WriteString(source)
	}
	builder.WriteString(": ")
	if reason = strings.TrimSpace(reason); reason != "" {
		builder.WriteString(reason)
	} else {
		builder.WriteString("unknown")
	}
	return n.send(ctx, payload{
		title:    "Studivio - Error",
		message:  builder.String(),
		tags:     []string{"studivio", "error", "alert"},
		priority: "high",
	})
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	return n.send(ctx, payload{
		title:    "Studivio - Test",
		message:  "🧪 Notification system test",
		tags:     []string{"studivio", "test"},
		priority: "low",
	})
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyNoteReady(context.Context, string, string) error    { return nil }
func (noopService) NotifyIngestFailed(context.Context, string, string) error { return nil }
func (noopService) TestNotification(context.Context) error                   { return nil }
