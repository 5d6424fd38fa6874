package daemon

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"studivio/internal/api"
	"studivio/internal/auth"
	"studivio/internal/config"
	"studivio/internal/logging"
	"studivio/internal/staging"
	"studivio/internal/store"
)

// Daemon runs the API server and its background maintenance under a
// single-instance lock.
type Daemon struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *store.Store
	server *api.Server
	extras []io.Closer

	purger        auth.Purger
	purgeInterval time.Duration

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	Address      string
	DatabasePath string
	LockFilePath string
}

// New assembles a daemon from an open store. Every other dependency is
// built from cfg.
func New(cfg *config.Config, st *store.Store, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || st == nil || logger == nil {
		return nil, errors.New("daemon requires config, store, and logger")
	}
	deps, err := build(cfg, st, logger)
	if err != nil {
		return nil, err
	}

	lockPath := cfg.LockPath()
	return &Daemon{
		cfg:           cfg,
		logger:        logging.NewComponentLogger(logger, "daemon"),
		store:         st,
		server:        deps.server,
		extras:        deps.closers,
		purger:        deps.purger,
		purgeInterval: time.Duration(cfg.Auth.PurgeIntervalMinutes) * time.Minute,
		lockPath:      lockPath,
		lock:          flock.New(lockPath),
	}, nil
}

// Start acquires the data directory lock, sweeps stale scratch uploads,
// starts listening, and launches the purger.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another studivio server is already using this data directory")
	}

	staging.CleanStale(ctx, d.cfg.Paths.TempDir, staging.DefaultMaxAge, d.logger)

	runCtx, cancel := context.WithCancel(ctx)
	if err := d.server.Start(runCtx); err != nil {
		cancel()
		_ = d.lock.Unlock()
		return fmt.Errorf("start api: %w", err)
	}
	d.cancel = cancel

	if d.purger != nil {
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			auth.RunPurger(runCtx, d.purger, d.purgeInterval, d.logger)
		}()
	}

	d.running.Store(true)
	d.logger.Info("studivio server started",
		logging.String("address", d.server.Addr()),
		logging.String("lock", d.lockPath),
		logging.String("revocation_backend", d.cfg.Auth.RevocationBackend),
	)
	return nil
}

// Stop shuts the server down and releases the lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.server.Stop()
	d.wg.Wait()
	if err := d.lock.Unlock(); err != nil {
		logging.WarnWithContext(d.logger, "failed to release daemon lock", "lock_release_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "remove "+d.lockPath+" if no server is running"),
			logging.String(logging.FieldImpact, "the next start may report a running instance"),
		)
	}
	d.running.Store(false)
	d.logger.Info("studivio server stopped")
}

// Close stops the daemon and closes the store and any backend clients.
func (d *Daemon) Close() error {
	d.Stop()
	var errs []error
	for _, c := range d.extras {
		errs = append(errs, c.Close())
	}
	if d.store != nil {
		errs = append(errs, d.store.Close())
	}
	return errors.Join(errs...)
}

// Status reports whether the daemon is serving and where.
func (d *Daemon) Status() Status {
	return Status{
		Running:      d.running.Load(),
		Address:      d.server.Addr(),
		DatabasePath: d.store.Path(),
		LockFilePath: d.lockPath,
	}
}
