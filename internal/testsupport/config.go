package testsupport

import (
	"path/filepath"
	"testing"

	"studivio/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// TestJWTSecret is the signing secret every generated config carries.
const TestJWTSecret = "test-secret-key-0123456789"

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.TempDir = filepath.Join(base, "tmp")
	cfgVal.API.Bind = "127.0.0.1:0"
	cfgVal.Auth.JWTSecret = TestJWTSecret
	cfgVal.LLM.APIKey = "test-openai-key"
	cfgVal.AssemblyAI.APIKey = "test-assembly-key"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return builder.cfg
}

// WithLLMServer points the summarisation gateway at a test server.
func WithLLMServer(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.LLM.BaseURL = url
	}
}

// WithAssemblyAIServer points the transcription gateway at a test server.
func WithAssemblyAIServer(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.AssemblyAI.BaseURL = url
		b.cfg.AssemblyAI.PollIntervalSeconds = 0
	}
}

// WithTodosRequireAuth toggles owner checks on the todo routes.
func WithTodosRequireAuth(enabled bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.API.TodosRequireAuth = enabled
	}
}

// WithoutCredentials clears the upstream API keys.
func WithoutCredentials() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.LLM.APIKey = ""
		b.cfg.AssemblyAI.APIKey = ""
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
