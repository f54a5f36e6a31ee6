package daemon_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"hopper/internal/config"
	"hopper/internal/daemon"
	"hopper/internal/queue"
	"hopper/internal/testsupport"
	"hopper/internal/worker"
)

func newDaemon(t *testing.T, cfg *config.Config) (*daemon.Daemon, *queue.Store) {
	t.Helper()

	if err := os.MkdirAll(cfg.Paths.LogDir, 0o755); err != nil {
		t.Fatalf("mkdir log dir: %v", err)
	}
	store, err := queue.NewStore(cfg.Paths.QueueRoot)
	if err != nil {
		t.Fatalf("queue.NewStore: %v", err)
	}
	if err := store.Init(); err != nil {
		t.Fatalf("store.Init: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	w, err := worker.New(cfg, store, logger, nil)
	if err != nil {
		t.Fatalf("worker.New: %v", err)
	}
	d, err := daemon.New(cfg, store, logger, w, nil)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return d, store
}

func TestDaemonStartStop(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	d, _ := newDaemon(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if !d.Status().Running {
		t.Fatal("daemon not reported running after Start")
	}
	if err := d.Start(ctx); err == nil {
		t.Fatal("expected error starting an already-running daemon")
	}

	d.Stop()
	if d.Status().Running {
		t.Fatal("daemon still reported running after Stop")
	}
}

func TestDaemonSingleInstanceLock(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	first, _ := newDaemon(t, cfg)
	second, _ := newDaemon(t, cfg)

	ctx := context.Background()
	if err := first.Start(ctx); err != nil {
		t.Fatalf("first Start failed: %v", err)
	}
	if err := second.Start(ctx); err == nil {
		t.Fatal("expected second daemon to fail acquiring the lock")
	}

	first.Stop()
	if err := second.Start(ctx); err != nil {
		t.Fatalf("second Start after release failed: %v", err)
	}
	second.Stop()
}

func TestDaemonProcessesSubmittedJob(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Worker.PollInterval = 1
	d, store := newDaemon(t, cfg)

	testsupport.SubmitJob(t, store, "job-d", false)

	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer d.Stop()

	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		status, err := store.Status("job-d")
		if err == nil && status.State.Terminal() {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatal("job never reached a terminal state")
}
