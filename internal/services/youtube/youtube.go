// Package youtube fetches caption transcripts for YouTube videos.
package youtube

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"studivio/internal/config"
	"studivio/internal/services"
)

const defaultTranscriptURL = "https://www.youtube.com/api/timedtext"

var (
	// ErrInvalidURL reports a URL without a recognisable video id.
	ErrInvalidURL = errors.New("invalid youtube url")
	// ErrNoTranscript reports a video with no captions in any accepted language.
	ErrNoTranscript = errors.New("no transcript available")
)

var (
	watchIDPattern = regexp.MustCompile(`v=([a-zA-Z0-9_-]+)`)
	shortIDPattern = regexp.MustCompile(`youtu\.be/([a-zA-Z0-9_-]+)`)
	bareIDPattern  = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
)

// TranscriptSource returns the caption text for a video.
type TranscriptSource interface {
	Transcript(ctx context.Context, videoID string) (string, error)
}

// VideoID extracts the video id from a watch or short-link URL.
func VideoID(rawURL string) (string, error) {
	if m := watchIDPattern.FindStringSubmatch(rawURL); m != nil {
		return m[1], nil
	}
	if m := shortIDPattern.FindStringSubmatch(rawURL); m != nil {
		return m[1], nil
	}
	return "", services.Wrap(services.ErrValidation, "youtube", "video id", rawURL, ErrInvalidURL)
}

// BareVideoID accepts a reference that is already a video id.
func BareVideoID(ref string) (string, error) {
	if !bareIDPattern.MatchString(ref) {
		return "", services.Wrap(services.ErrValidation, "youtube", "video id", ref, ErrInvalidURL)
	}
	return ref, nil
}

// Client fetches timed-text captions.
type Client struct {
	baseURL    string
	languages  []string
	httpClient *http.Client
}

// NewClient constructs a caption client from the loaded settings.
func NewClient(cfg config.YouTube) *Client {
	base := strings.TrimSpace(cfg.TranscriptURL)
	if base == "" {
		base = defaultTranscriptURL
	}
	languages := cfg.Languages
	if len(languages) == 0 {
		languages = []string{"en"}
	}
	timeout := 30 * time.Second
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	return &Client{
		baseURL:    base,
		languages:  languages,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type timedText struct {
	Lines []struct {
		Text string `xml:",chardata"`
	} `xml:"text"`
}

// Transcript returns the captions of the first accepted language that has
// any, with segments joined by a single space.
func (c *Client) Transcript(ctx context.Context, videoID string) (string, error) {
	const op = "transcript"
	for _, lang := range c.languages {
		text, err := c.fetch(ctx, videoID, lang)
		if err != nil {
			return "", services.Wrap(services.ErrUpstream, "youtube", op, videoID, err)
		}
		if text != "" {
			return text, nil
		}
	}
	return "", services.Wrap(services.ErrValidation, "youtube", op, videoID, ErrNoTranscript)
}

func (c *Client) fetch(ctx context.Context, videoID, lang string) (string, error) {
	query := url.Values{"v": {videoID}, "lang": {lang}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch captions: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return "", nil
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("fetch captions: http %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read captions: %w", err)
	}
	if strings.TrimSpace(string(body)) == "" {
		return "", nil
	}

	var doc timedText
	if err := xml.Unmarshal(body, &doc); err != nil {
		return "", fmt.Errorf("decode captions: %w", err)
	}
	segments := make([]string, 0, len(doc.Lines))
	for _, line := range doc.Lines {
		// Caption bodies are HTML escaped a second time inside the XML.
		segment := strings.Join(strings.Fields(html.UnescapeString(line.Text)), " ")
		if segment != "" {
			segments = append(segments, segment)
		}
	}
	return strings.Join(segments, " "), nil
}
