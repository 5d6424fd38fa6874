// Package staging maintains the scratch directory uploads pass through on
// their way to the transcription service.
package staging

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"studivio/internal/fileutil"
	"studivio/internal/logging"
)

// DefaultMaxAge is how old a scratch upload must be before a sweep removes it.
// Live transcriptions finish well inside this window.
const DefaultMaxAge = time.Hour

// CleanupResult contains the outcome of a sweep.
type CleanupResult struct {
	Removed []string
	Errors  []CleanupError
}

// CleanupError pairs a path with its cleanup error.
type CleanupError struct {
	Path  string
	Error error
}

// CleanStale removes scratch uploads older than maxAge. Such files are left
// behind only when a process died mid-request.
func CleanStale(ctx context.Context, dir string, maxAge time.Duration, logger *slog.Logger) CleanupResult {
	result := CleanupResult{}
	uploads, err := ListUploads(dir)
	if err != nil {
		result.Errors = append(result.Errors, CleanupError{Path: dir, Error: err})
		return result
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	cutoff := time.Now().Add(-maxAge)
	for _, upload := range uploads {
		if ctx.Err() != nil {
			break
		}
		if !upload.ModTime.Before(cutoff) {
			continue
		}
		if err := os.Remove(upload.Path); err != nil && !os.IsNotExist(err) {
			result.Errors = append(result.Errors, CleanupError{Path: upload.Path, Error: err})
			logging.WarnWithContext(logger, "failed to remove stale upload", "staging_cleanup_failed",
				logging.String("path", upload.Path),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check temp_dir permissions"),
				logging.String(logging.FieldImpact, "disk space not reclaimed"),
			)
			continue
		}
		result.Removed = append(result.Removed, upload.Path)
		logger.Info("removed stale upload",
			logging.String("path", upload.Path),
			logging.Duration("age", time.Since(upload.ModTime)),
			logging.String(logging.FieldEventType, "staging_cleanup"),
		)
	}
	return result
}

// Upload describes one scratch file.
type Upload struct {
	Name    string
	Path    string
	ModTime time.Time
	Size    int64
}

// ListUploads returns the scratch uploads in dir. A missing directory holds
// no uploads.
func ListUploads(dir string) ([]Upload, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var uploads []Upload
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), fileutil.TempFilePrefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		uploads = append(uploads, Upload{
			Name:    entry.Name(),
			Path:    filepath.Join(dir, entry.Name()),
			ModTime: info.ModTime(),
			Size:    info.Size(),
		})
	}
	return uploads, nil
}
