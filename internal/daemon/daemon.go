package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/gofrs/flock"

	"hopper/internal/config"
	"hopper/internal/queue"
	"hopper/internal/server"
	"hopper/internal/worker"
)

// Daemon coordinates the worker loop and the API server and enforces
// single-instance execution.
type Daemon struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *queue.Store
	worker *worker.Worker
	api    *server.Server

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	QueueRoot    string
	APIAddress   string
	LockFilePath string
}

// New constructs a daemon with initialized dependencies. api may be nil when
// the control plane is disabled.
func New(cfg *config.Config, store *queue.Store, logger *slog.Logger, w *worker.Worker, api *server.Server) (*Daemon, error) {
	if cfg == nil || store == nil || logger == nil || w == nil {
		return nil, errors.New("daemon requires config, store, logger, and worker")
	}

	lockPath := filepath.Join(cfg.Paths.LogDir, "hopperd.lock")
	return &Daemon{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		worker:   w,
		api:      api,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Start acquires the daemon lock, launches the worker loop, and brings up the
// API server.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another hopper daemon instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	if d.api != nil {
		if err := d.api.Start(runCtx); err != nil {
			cancel()
			d.cancel = nil
			_ = d.lock.Unlock()
			return fmt.Errorf("start api server: %w", err)
		}
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		if err := d.worker.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
			d.logger.Error("worker loop exited", slog.String("error", err.Error()))
		}
	}()

	d.running.Store(true)
	d.logger.Info("hopper daemon started",
		slog.String("lock", d.lockPath),
		slog.String("queue_root", d.store.Root()))
	return nil
}

// Stop stops background processing and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.wg.Wait()
	if d.api != nil {
		d.api.Stop()
	}
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", slog.String("error", err.Error()))
	}
	d.running.Store(false)
	d.logger.Info("hopper daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	return nil
}

// Status returns the current daemon status.
func (d *Daemon) Status() Status {
	status := Status{
		Running:      d.running.Load(),
		QueueRoot:    d.store.Root(),
		LockFilePath: d.lockPath,
	}
	if d.api != nil {
		status.APIAddress = d.api.Addr()
	}
	return status
}
