package llm

import (
	"context"
	"errors"
	"strings"

	"studivio/internal/services"
	"studivio/internal/textutil"
)

const defaultMaxChunkWords = 1024

// Summariser turns text into notes for a content type.
type Summariser interface {
	Summarise(ctx context.Context, text, contentType string) (string, error)
}

var (
	// ErrEmptyInput reports text with nothing to summarise.
	ErrEmptyInput = errors.New("no text to summarise")
	// ErrEmptySummary reports a model that kept answering with no content.
	ErrEmptySummary = errors.New("model returned an empty summary")
)

// Summarise produces notes for text. Long input is chunked by words and the
// per-chunk summaries are joined with a single space.
func (c *Client) Summarise(ctx context.Context, text, contentType string) (string, error) {
	const op = "summarise"
	if strings.TrimSpace(text) == "" {
		return "", services.Wrap(services.ErrValidation, "llm", op, "", ErrEmptyInput)
	}
	if c.cfg.APIKey == "" {
		return "", services.Wrap(services.ErrConfiguration, "llm", op, "api key required", nil)
	}

	maxWords := c.cfg.MaxChunkWords
	if maxWords <= 0 {
		maxWords = defaultMaxChunkWords
	}
	chunks := textutil.ChunkWords(text, maxWords)
	summaries := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		summary, err := c.complete(ctx, BuildPrompt(contentType, chunk), c.cfg.MaxTokens, op)
		if err != nil {
			return "", services.Wrap(services.ErrUpstream, "llm", op, "", err)
		}
		summaries = append(summaries, summary)
	}
	return strings.Join(summaries, " "), nil
}
