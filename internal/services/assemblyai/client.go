// Package assemblyai is the transcription gateway. It uploads an audio file,
// requests a transcript, and polls until the job finishes.
package assemblyai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"studivio/internal/config"
	"studivio/internal/services"
)

const (
	defaultBaseURL      = "https://api.assemblyai.com"
	defaultPollInterval = 3 * time.Second
	defaultTimeout      = 15 * time.Minute

	// MinTranscriptChars is the shortest trimmed transcript treated as speech.
	MinTranscriptChars = 10
)

var (
	// ErrTranscriptionFailed reports a job the service finished with status error.
	ErrTranscriptionFailed = errors.New("transcription failed")
	// ErrNoSpeechDetected reports a transcript too short to hold speech.
	ErrNoSpeechDetected = errors.New("no speech detected")
)

// Transcriber converts an audio file on disk into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// Config captures the transcription service settings.
type Config struct {
	APIKey       string
	BaseURL      string
	PollInterval time.Duration
	Timeout      time.Duration
}

// ConfigFrom converts the loaded settings into a client Config.
func ConfigFrom(cfg config.AssemblyAI) Config {
	return Config{
		APIKey:       cfg.APIKey,
		BaseURL:      cfg.BaseURL,
		PollInterval: time.Duration(cfg.PollIntervalSeconds) * time.Second,
		Timeout:      time.Duration(cfg.TimeoutSeconds) * time.Second,
	}
}

// Client talks to the AssemblyAI v2 REST API.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient constructs a transcription client.
func NewClient(cfg Config, opts ...Option) *Client {
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.PollInterval < 0 {
		cfg.PollInterval = defaultPollInterval
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	client := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 5 * time.Minute},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

type transcriptJob struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Text   string `json:"text"`
	Error  string `json:"error"`
}

// Transcribe uploads audioPath and waits for its transcript. A transcript
// shorter than MinTranscriptChars after trimming yields ErrNoSpeechDetected.
func (c *Client) Transcribe(ctx context.Context, audioPath string) (string, error) {
	const op = "transcribe"
	if c.cfg.APIKey == "" {
		return "", services.Wrap(services.ErrConfiguration, "assemblyai", op, "api key required", nil)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	uploadURL, err := c.upload(ctx, audioPath)
	if err != nil {
		return "", services.Wrap(services.ErrUpstream, "assemblyai", "upload", "", err)
	}
	job, err := c.submit(ctx, uploadURL)
	if err != nil {
		return "", services.Wrap(services.ErrUpstream, "assemblyai", "submit", "", err)
	}
	job, err = c.poll(ctx, job.ID)
	if err != nil {
		return "", services.Wrap(services.ErrUpstream, "assemblyai", "poll", "", err)
	}

	if job.Status == "error" {
		return "", services.Wrap(services.ErrUpstream, "assemblyai", op, job.Error, ErrTranscriptionFailed)
	}
	text := strings.TrimSpace(job.Text)
	if len([]rune(text)) < MinTranscriptChars {
		return "", services.Wrap(services.ErrValidation, "assemblyai", op, "", ErrNoSpeechDetected)
	}
	return text, nil
}

// HealthCheck lists at most one transcript to confirm the key is accepted.
func (c *Client) HealthCheck(ctx context.Context) error {
	if c.cfg.APIKey == "" {
		return services.Wrap(services.ErrConfiguration, "assemblyai", "health check", "api key required", nil)
	}
	var page struct {
		Transcripts []transcriptJob `json:"transcripts"`
	}
	if err := c.do(ctx, http.MethodGet, "/v2/transcript?limit=1", "", nil, &page); err != nil {
		return services.Wrap(services.ErrUpstream, "assemblyai", "health check", "", err)
	}
	return nil
}

func (c *Client) upload(ctx context.Context, audioPath string) (string, error) {
	data, err := os.ReadFile(audioPath)
	if err != nil {
		return "", fmt.Errorf("read audio: %w", err)
	}
	var resp struct {
		UploadURL string `json:"upload_url"`
	}
	if err := c.do(ctx, http.MethodPost, "/v2/upload", "application/octet-stream", bytes.NewReader(data), &resp); err != nil {
		return "", err
	}
	if resp.UploadURL == "" {
		return "", errors.New("upload response missing upload_url")
	}
	return resp.UploadURL, nil
}

func (c *Client) submit(ctx context.Context, audioURL string) (transcriptJob, error) {
	var job transcriptJob
	body, err := json.Marshal(map[string]string{"audio_url": audioURL})
	if err != nil {
		return job, fmt.Errorf("encode request: %w", err)
	}
	if err := c.do(ctx, http.MethodPost, "/v2/transcript", "application/json", bytes.NewReader(body), &job); err != nil {
		return job, err
	}
	if job.ID == "" {
		return job, errors.New("transcript response missing id")
	}
	return job, nil
}

// poll fetches the job until it reaches a terminal status or ctx ends.
func (c *Client) poll(ctx context.Context, id string) (transcriptJob, error) {
	path := "/v2/transcript/" + url.PathEscape(id)
	for {
		var job transcriptJob
		if err := c.do(ctx, http.MethodGet, path, "", nil, &job); err != nil {
			return job, err
		}
		switch job.Status {
		case "completed", "error":
			return job, nil
		}

		timer := time.NewTimer(c.cfg.PollInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return job, fmt.Errorf("waiting for transcript %s: %w", id, ctx.Err())
		case <-timer.C:
		}
	}
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", c.cfg.APIKey)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: read body: %w", method, path, err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%s %s: http %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(payload)))
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}
