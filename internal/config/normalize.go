package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeAPI()
	c.normalizeAuth()
	c.normalizeLLM()
	c.normalizeAssemblyAI()
	c.normalizeYouTube()
	c.normalizeUploads()
	c.normalizeRedis()
	c.normalizeArchive()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := lookupEnv("STUDIVIO_DATA_DIR"); ok {
		c.Paths.DataDir = value
	}
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if strings.TrimSpace(c.Paths.TempDir) == "" {
		c.Paths.TempDir = defaultTempDir
	}
	var err error
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.TempDir, err = expandPath(c.Paths.TempDir); err != nil {
		return fmt.Errorf("paths.temp_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeAPI() {
	c.API.Bind = strings.TrimSpace(c.API.Bind)
	if c.API.Bind == "" {
		c.API.Bind = defaultAPIBind
	}
	c.API.AllowedOrigins = normalizeList(c.API.AllowedOrigins, false)
	if len(c.API.AllowedOrigins) == 0 {
		c.API.AllowedOrigins = []string{defaultAllowedOrigin}
	}
	if c.API.ReadTimeoutSeconds <= 0 {
		c.API.ReadTimeoutSeconds = defaultAPIReadTimeout
	}
	if c.API.WriteTimeoutSeconds <= 0 {
		c.API.WriteTimeoutSeconds = defaultAPIWriteTimeout
	}
}

func (c *Config) normalizeAuth() {
	c.Auth.JWTSecret = strings.TrimSpace(c.Auth.JWTSecret)
	if c.Auth.JWTSecret == "" {
		if value, ok := lookupEnv("JWT_SECRET_KEY"); ok {
			c.Auth.JWTSecret = value
		}
	}
	if c.Auth.AccessTokenMinutes <= 0 {
		c.Auth.AccessTokenMinutes = defaultAccessTokenMinutes
	}
	c.Auth.RevocationBackend = strings.ToLower(strings.TrimSpace(c.Auth.RevocationBackend))
	if c.Auth.RevocationBackend == "" {
		c.Auth.RevocationBackend = defaultRevocationBackend
	}
	if c.Auth.PurgeIntervalMinutes <= 0 {
		c.Auth.PurgeIntervalMinutes = defaultPurgeIntervalMinutes
	}
}

func (c *Config) normalizeLLM() {
	c.LLM.APIKey = strings.TrimSpace(c.LLM.APIKey)
	if c.LLM.APIKey == "" {
		if value, ok := lookupEnv("STUDIVIO_SECRET_KEY"); ok {
			c.LLM.APIKey = value
		} else if value, ok := lookupEnv("OPENAI_API_KEY"); ok {
			c.LLM.APIKey = value
		}
	}
	c.LLM.BaseURL = strings.TrimSpace(c.LLM.BaseURL)
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = defaultLLMBaseURL
	}
	c.LLM.Model = strings.TrimSpace(c.LLM.Model)
	if c.LLM.Model == "" {
		c.LLM.Model = defaultLLMModel
	}
	if c.LLM.TimeoutSeconds <= 0 {
		c.LLM.TimeoutSeconds = defaultLLMTimeoutSeconds
	}
	if c.LLM.MaxTokens <= 0 {
		c.LLM.MaxTokens = defaultLLMMaxTokens
	}
	if c.LLM.MaxChunkWords <= 0 {
		c.LLM.MaxChunkWords = defaultLLMMaxChunkWords
	}
}

func (c *Config) normalizeAssemblyAI() {
	c.AssemblyAI.APIKey = strings.TrimSpace(c.AssemblyAI.APIKey)
	if c.AssemblyAI.APIKey == "" {
		if value, ok := lookupEnv("ASSEMBLY_API_KEY"); ok {
			c.AssemblyAI.APIKey = value
		}
	}
	c.AssemblyAI.BaseURL = strings.TrimRight(strings.TrimSpace(c.AssemblyAI.BaseURL), "/")
	if c.AssemblyAI.BaseURL == "" {
		c.AssemblyAI.BaseURL = defaultAssemblyAIBaseURL
	}
	if c.AssemblyAI.PollIntervalSeconds <= 0 {
		c.AssemblyAI.PollIntervalSeconds = defaultAssemblyAIPoll
	}
	if c.AssemblyAI.TimeoutSeconds <= 0 {
		c.AssemblyAI.TimeoutSeconds = defaultAssemblyAITimeout
	}
}

func (c *Config) normalizeYouTube() {
	c.YouTube.TranscriptURL = strings.TrimSpace(c.YouTube.TranscriptURL)
	if c.YouTube.TranscriptURL == "" {
		c.YouTube.TranscriptURL = defaultYouTubeTranscriptURL
	}
	c.YouTube.Languages = normalizeList(c.YouTube.Languages, true)
	if len(c.YouTube.Languages) == 0 {
		c.YouTube.Languages = append([]string(nil), defaultYouTubeLanguages...)
	}
	if c.YouTube.TimeoutSeconds <= 0 {
		c.YouTube.TimeoutSeconds = defaultYouTubeTimeout
	}
}

func (c *Config) normalizeUploads() {
	raw := make([]string, 0, len(c.Uploads.AudioExtensions))
	for _, ext := range c.Uploads.AudioExtensions {
		raw = append(raw, strings.TrimPrefix(strings.TrimSpace(ext), "."))
	}
	exts := normalizeList(raw, true)
	if len(exts) == 0 {
		exts = append(exts, defaultAudioExtensions...)
	}
	c.Uploads.AudioExtensions = exts
}

func (c *Config) normalizeRedis() {
	if value, ok := lookupEnv("REDIS_ADDR"); ok && strings.TrimSpace(c.Redis.Addr) == "" {
		c.Redis.Addr = value
	}
	c.Redis.Addr = strings.TrimSpace(c.Redis.Addr)
	if c.Redis.Addr == "" {
		c.Redis.Addr = defaultRedisAddr
	}
	if c.Redis.Password == "" {
		if value, ok := lookupEnv("REDIS_PASSWORD"); ok {
			c.Redis.Password = value
		}
	}
}

func (c *Config) normalizeArchive() {
	fallbacks := []struct {
		target *string
		env    string
	}{
		{&c.Archive.Endpoint, "MINIO_ENDPOINT"},
		{&c.Archive.AccessKey, "MINIO_ACCESS_KEY"},
		{&c.Archive.SecretKey, "MINIO_SECRET_KEY"},
		{&c.Archive.Bucket, "MINIO_BUCKET"},
	}
	for _, fb := range fallbacks {
		*fb.target = strings.TrimSpace(*fb.target)
		if *fb.target != "" {
			continue
		}
		if value, ok := lookupEnv(fb.env); ok {
			*fb.target = value
		}
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.NtfyTopic == "" {
		if value, ok := lookupEnv("NTFY_TOPIC"); ok {
			c.Notifications.NtfyTopic = value
		}
	}
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

// lookupEnv returns a trimmed environment value, treating blank values as unset.
func lookupEnv(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	return value, true
}

func normalizeList(values []string, lower bool) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		normalized := strings.TrimSpace(value)
		if lower {
			normalized = strings.ToLower(normalized)
		}
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		out = append(out, normalized)
	}
	return out
}
