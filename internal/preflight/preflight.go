package preflight

import (
	"context"
	"strings"

	"studivio/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name     string
	Passed   bool
	Optional bool
	Detail   string
}

// RunAll executes every applicable check for the given config. Checks for
// disabled features are skipped.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Data directory", cfg.Paths.DataDir),
		CheckDirectoryAccess("Temp directory", cfg.Paths.TempDir),
	}
	if strings.TrimSpace(cfg.Paths.LogDir) != "" {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	}
	results = append(results,
		CheckDatabase(ctx, cfg.DatabasePath()),
		CheckJWTSecret(cfg.Auth.JWTSecret),
		CheckLLM(ctx, "Summarisation LLM", cfg.GetLLM()),
		CheckAssemblyAI(ctx, cfg.AssemblyAI),
	)
	if strings.EqualFold(cfg.Auth.RevocationBackend, "redis") {
		results = append(results, CheckRedisFromConfig(ctx, cfg.Redis))
	}
	if cfg.Archive.Enabled {
		results = append(results, CheckArchiveFromConfig(ctx, cfg))
	}
	results = append(results, CheckNotificationsFromConfig(cfg))
	return results
}

// Failed reports whether any required check failed.
func Failed(results []Result) bool {
	for _, r := range results {
		if !r.Passed && !r.Optional {
			return true
		}
	}
	return false
}
