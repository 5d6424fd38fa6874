package extract

import (
	"errors"
	"fmt"
	"strings"

	"studivio/internal/config"
	"studivio/internal/services"
)

var (
	// ErrMissingFilename reports an upload with a blank filename.
	ErrMissingFilename = errors.New("missing filename")
	// ErrUnsupportedFormat reports a filename extension outside the allow-list.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrFileTooLarge reports an upload over the configured ceiling.
	ErrFileTooLarge = errors.New("file too large")
)

const mib = 1024 * 1024

// Limits bounds what uploads are accepted.
type Limits struct {
	MaxPDFBytes     int64
	MaxAudioBytes   int64
	AudioExtensions []string
}

// DefaultLimits returns the stock 25 MiB PDF and 50 MiB audio ceilings.
func DefaultLimits() Limits {
	return Limits{
		MaxPDFBytes:     25 * mib,
		MaxAudioBytes:   50 * mib,
		AudioExtensions: []string{"mp3", "wav", "m4a", "mp4", "webm"},
	}
}

// LimitsFrom derives limits from the loaded configuration.
func LimitsFrom(cfg *config.Config) Limits {
	limits := DefaultLimits()
	if cfg == nil {
		return limits
	}
	if n := cfg.MaxPDFBytes(); n > 0 {
		limits.MaxPDFBytes = n
	}
	if n := cfg.MaxAudioBytes(); n > 0 {
		limits.MaxAudioBytes = n
	}
	if len(cfg.Uploads.AudioExtensions) > 0 {
		limits.AudioExtensions = cfg.Uploads.AudioExtensions
	}
	return limits
}

// MaxPDFMB returns the PDF ceiling in whole mebibytes, for messages.
func (l Limits) MaxPDFMB() int64 { return l.MaxPDFBytes / mib }

// MaxAudioMB returns the audio ceiling in whole mebibytes, for messages.
func (l Limits) MaxAudioMB() int64 { return l.MaxAudioBytes / mib }

// Extension returns the lower-cased text after the last dot in name, or ""
// when name has no dot.
func Extension(name string) string {
	idx := strings.LastIndex(name, ".")
	if idx < 0 {
		return ""
	}
	return strings.ToLower(name[idx+1:])
}

// ValidatePDF checks a PDF upload's name and size.
func (l Limits) ValidatePDF(name string, size int64) error {
	const op = "validate pdf"
	if strings.TrimSpace(name) == "" {
		return services.Wrap(services.ErrValidation, "extract", op, "", ErrMissingFilename)
	}
	if Extension(name) != "pdf" {
		return services.Wrap(services.ErrValidation, "extract", op, name, ErrUnsupportedFormat)
	}
	if size > l.MaxPDFBytes {
		return services.Wrap(services.ErrValidation, "extract", op,
			fmt.Sprintf("%d bytes exceeds %d", size, l.MaxPDFBytes), ErrFileTooLarge)
	}
	return nil
}

// ValidateAudio checks an audio upload's name and size against the allow-list.
func (l Limits) ValidateAudio(name string, size int64) error {
	const op = "validate audio"
	if strings.TrimSpace(name) == "" {
		return services.Wrap(services.ErrValidation, "extract", op, "", ErrMissingFilename)
	}
	ext := Extension(name)
	allowed := false
	for _, candidate := range l.AudioExtensions {
		if ext != "" && ext == candidate {
			allowed = true
			break
		}
	}
	if !allowed {
		return services.Wrap(services.ErrValidation, "extract", op, name, ErrUnsupportedFormat)
	}
	if size > l.MaxAudioBytes {
		return services.Wrap(services.ErrValidation, "extract", op,
			fmt.Sprintf("%d bytes exceeds %d", size, l.MaxAudioBytes), ErrFileTooLarge)
	}
	return nil
}
