package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateAuth(); err != nil {
		return err
	}
	if err := c.validateUploads(); err != nil {
		return err
	}
	if err := c.validateArchive(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateAuth() error {
	if c.Auth.JWTSecret == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/studivio/config.toml"
		}
		return fmt.Errorf("auth.jwt_secret is required. Set JWT_SECRET_KEY env var or edit %s (create with 'studivio config init')", defaultPath)
	}
	switch c.Auth.RevocationBackend {
	case "sqlite":
	case "redis":
		if strings.TrimSpace(c.Redis.Addr) == "" {
			return errors.New("redis.addr is required when auth.revocation_backend is redis")
		}
	default:
		return fmt.Errorf("auth.revocation_backend: unsupported value %q (use sqlite or redis)", c.Auth.RevocationBackend)
	}
	return nil
}

func (c *Config) validateUploads() error {
	if c.Uploads.MaxPDFMB <= 0 {
		return errors.New("uploads.max_pdf_mb must be positive")
	}
	if c.Uploads.MaxAudioMB <= 0 {
		return errors.New("uploads.max_audio_mb must be positive")
	}
	return nil
}

func (c *Config) validateArchive() error {
	if !c.Archive.Enabled {
		return nil
	}
	if c.Archive.Endpoint == "" {
		return errors.New("archive.endpoint is required when archive is enabled")
	}
	if c.Archive.Bucket == "" {
		return errors.New("archive.bucket is required when archive is enabled")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
