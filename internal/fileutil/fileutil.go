package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// TempFilePrefix starts the name of every file WithTempFile creates.
const TempFilePrefix = "upload-"

// WithTempFile writes data to a uniquely named file inside dir, passes the path
// to fn, and removes the file on every exit path, including when fn fails or
// panics. The original extension of name is kept so tools that sniff formats
// by suffix still work.
func WithTempFile(dir, name string, data []byte, fn func(path string) error) (err error) {
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create temp directory: %w", err)
	}
	pattern := TempFilePrefix + "*" + strings.ToLower(filepath.Ext(name))
	file, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	path := file.Name()
	defer func() {
		if removeErr := os.Remove(path); removeErr != nil && !os.IsNotExist(removeErr) && err == nil {
			err = fmt.Errorf("remove temp file: %w", removeErr)
		}
	}()

	if _, err := file.Write(data); err != nil {
		_ = file.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	return fn(path)
}
