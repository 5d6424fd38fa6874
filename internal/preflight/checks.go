package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"golang.org/x/sys/unix"

	"studivio/internal/archive"
	"studivio/internal/auth"
	"studivio/internal/config"
	"studivio/internal/services"
	"studivio/internal/services/assemblyai"
	"studivio/internal/services/llm"
	"studivio/internal/store"
)

// CheckLLM verifies that the LLM API is reachable and the key is valid.
// It uses a 30-second timeout and a single attempt (no retries).
func CheckLLM(ctx context.Context, name string, cfg config.LLMConfig) Result {
	if cfg.APIKey == "" {
		return Result{Name: name, Detail: "API key missing"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	client := llm.NewClient(llm.ConfigFrom(cfg), llm.WithRetryMaxAttempts(1))
	if err := client.HealthCheck(checkCtx); err != nil {
		return Result{Name: name, Detail: summarizeServiceError("LLM API", err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("API reachable (%s)", client.Model())}
}

// CheckAssemblyAI verifies the transcription key against the service.
func CheckAssemblyAI(ctx context.Context, cfg config.AssemblyAI) Result {
	const name = "AssemblyAI"
	if strings.TrimSpace(cfg.APIKey) == "" {
		return Result{Name: name, Detail: "API key missing"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	client := assemblyai.NewClient(assemblyai.ConfigFrom(cfg))
	if err := client.HealthCheck(checkCtx); err != nil {
		return Result{Name: name, Detail: summarizeServiceError("AssemblyAI", err)}
	}
	return Result{Name: name, Passed: true, Detail: "API reachable"}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckDatabase opens the SQLite database, applying the schema if needed.
func CheckDatabase(ctx context.Context, path string) Result {
	const name = "Database"
	st, err := store.OpenPath(path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	defer st.Close()
	if err := st.Ping(ctx); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: path}
}

// CheckJWTSecret rejects blank and trivially short signing secrets.
func CheckJWTSecret(secret string) Result {
	const name = "JWT secret"
	switch n := len(strings.TrimSpace(secret)); {
	case n == 0:
		return Result{Name: name, Detail: "missing (set [auth] jwt_secret or JWT_SECRET_KEY)"}
	case n < 16:
		return Result{Name: name, Detail: fmt.Sprintf("too short (%d chars, want at least 16)", n)}
	default:
		return Result{Name: name, Passed: true, Detail: "configured"}
	}
}

// Pinger is the subset of *redis.Client used for the reachability check.
type Pinger interface {
	Ping(ctx context.Context) *redis.StatusCmd
}

// CheckRedis pings the revocation backend.
func CheckRedis(ctx context.Context, addr string, client Pinger) Result {
	const name = "Redis revocations"
	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(checkCtx).Err(); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", addr, err)}
	}
	return Result{Name: name, Passed: true, Detail: addr}
}

// CheckRedisFromConfig connects to the configured redis and pings it.
func CheckRedisFromConfig(ctx context.Context, cfg config.Redis) Result {
	if strings.TrimSpace(cfg.Addr) == "" {
		return Result{Name: "Redis revocations", Detail: "missing addr"}
	}
	client := auth.NewRedisClient(cfg.Addr, cfg.Password, cfg.DB)
	defer client.Close()
	return CheckRedis(ctx, cfg.Addr, client)
}

// BucketChecker is implemented by archives that can verify their bucket.
type BucketChecker interface {
	Check(ctx context.Context) error
}

// CheckArchive verifies the archive bucket exists. The archive is optional,
// so a failure does not block serving.
func CheckArchive(ctx context.Context, bucket string, checker BucketChecker) Result {
	const name = "Artifact archive"
	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := checker.Check(checkCtx); err != nil {
		return Result{Name: name, Optional: true, Detail: fmt.Sprintf("%s (error: %v)", bucket, err)}
	}
	return Result{Name: name, Optional: true, Passed: true, Detail: bucket}
}

// CheckArchiveFromConfig builds the configured archive and checks it.
func CheckArchiveFromConfig(ctx context.Context, cfg *config.Config) Result {
	const name = "Artifact archive"
	if !cfg.Archive.Enabled {
		return Result{Name: name, Optional: true, Passed: true, Detail: "Disabled"}
	}
	archiver, err := archive.New(cfg)
	if err != nil {
		return Result{Name: name, Optional: true, Detail: err.Error()}
	}
	checker, ok := archiver.(BucketChecker)
	if !ok {
		return Result{Name: name, Optional: true, Passed: true, Detail: "Disabled"}
	}
	return CheckArchive(ctx, cfg.Archive.Bucket, checker)
}

// CheckNotificationsFromConfig reports the ntfy setup without sending.
func CheckNotificationsFromConfig(cfg *config.Config) Result {
	const name = "Notifications"
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return Result{Name: name, Optional: true, Passed: true, Detail: "Disabled"}
	}
	var events []string
	if cfg.Notifications.NoteReady {
		events = append(events, "note ready")
	}
	if cfg.Notifications.Failures {
		events = append(events, "failures")
	}
	if len(events) == 0 {
		return Result{Name: name, Optional: true, Passed: true, Detail: topic + " (all events muted)"}
	}
	return Result{Name: name, Optional: true, Passed: true, Detail: fmt.Sprintf("%s (%s)", topic, strings.Join(events, ", "))}
}

// summarizeServiceError produces a human-readable summary for health check failures.
func summarizeServiceError(service string, err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Sprintf("health check timed out (%s unresponsive)", service)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Sprintf("health check timed out (%s unreachable)", service)
	}
	if errors.Is(err, services.ErrConfiguration) {
		return "not configured"
	}
	return err.Error()
}
