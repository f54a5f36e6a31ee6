// Command hopperd runs the queue worker and the HTTP control plane as a
// long-lived daemon.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"hopper/internal/config"
	"hopper/internal/daemon"
	"hopper/internal/logging"
	"hopper/internal/observability"
	"hopper/internal/preflight"
	"hopper/internal/queue"
	"hopper/internal/server"
	"hopper/internal/worker"
)

func main() {
	configPath := flag.String("config", "", "configuration file path")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		log.Fatalf("ensure directories: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	store, err := queue.NewStore(cfg.Paths.QueueRoot)
	if err != nil {
		fatal(logger, "open queue store", err)
	}
	if err := store.Init(); err != nil {
		fatal(logger, "initialize queue root", err)
	}

	if failed := preflight.Failures(preflight.RunAll(cfg)); len(failed) > 0 {
		for _, result := range failed {
			logger.Error("preflight check failed",
				slog.String("check", result.Name),
				slog.String("detail", result.Detail))
		}
		fatal(logger, "preflight", nil)
	}

	metrics := observability.New()
	metrics.RegisterQueueDepth(store)

	w, err := worker.New(cfg, store, logger, metrics)
	if err != nil {
		fatal(logger, "create worker", err)
	}

	api, err := server.New(cfg, store, logger, metrics)
	if err != nil {
		fatal(logger, "create api server", err)
	}

	d, err := daemon.New(cfg, store, logger, w, api)
	if err != nil {
		fatal(logger, "create daemon", err)
	}
	defer d.Close()

	if err := d.Start(ctx); err != nil {
		fatal(logger, "start daemon", err)
	}

	<-ctx.Done()
	logger.Info("hopperd shutting down")
}

func fatal(logger *slog.Logger, msg string, err error) {
	if err != nil {
		logger.Error(msg, slog.String("error", err.Error()))
	} else {
		logger.Error(msg)
	}
	os.Exit(1)
}
