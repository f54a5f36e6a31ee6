// Package worker drives the claim/process/finalize lifecycle: it polls the
// queue, hands claimed documents to the processing pipeline, writes the
// structured result into the locked metadata sidecar, and finalizes into
// complete or error.
package worker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"hopper/internal/config"
	"hopper/internal/fileutil"
	"hopper/internal/observability"
	"hopper/internal/processing"
	"hopper/internal/queue"
)

// Worker owns one processing pipeline over one queue store. Safe to run
// alongside workers in other processes; the queue's rename protocol is the
// only coordination.
type Worker struct {
	store          *queue.Store
	pipeline       *processing.Pipeline
	logger         *slog.Logger
	metrics        *observability.Metrics
	pollInterval   time.Duration
	preferPriority bool
	writeReports   bool
}

// New constructs a worker from configuration. metrics may be nil.
func New(cfg *config.Config, store *queue.Store, logger *slog.Logger, metrics *observability.Metrics) (*Worker, error) {
	if cfg == nil || store == nil || logger == nil {
		return nil, errors.New("worker requires config, store, and logger")
	}
	pipeline, err := processing.NewPipeline(cfg.Processing)
	if err != nil {
		return nil, err
	}
	return &Worker{
		store:          store,
		pipeline:       pipeline,
		logger:         logger,
		metrics:        metrics,
		pollInterval:   time.Duration(cfg.Worker.PollInterval) * time.Second,
		preferPriority: cfg.Worker.PreferPriority,
		writeReports:   cfg.Processing.WriteReports,
	}, nil
}

// RunOnce claims and processes a single job. It returns the claimed
// identifier together with any processing error; ErrNotFound means the queue
// was empty.
func (w *Worker) RunOnce(ctx context.Context) (string, error) {
	id, state, err := w.store.ClaimNext(w.preferPriority)
	if err != nil {
		if errors.Is(err, queue.ErrNotFound) {
			w.metrics.ObserveClaim(observability.ClaimResultEmpty)
		} else {
			w.metrics.ObserveClaim(observability.ClaimResultError)
		}
		return "", err
	}
	w.metrics.ObserveClaim(observability.ClaimResultClaimed)
	w.logger.Info("claimed job", slog.String("job_id", id), slog.String("state", string(state)))

	started := time.Now()
	err = w.process(ctx, id, state)
	elapsed := time.Since(started).Seconds()
	if err != nil {
		w.metrics.ObserveJob(observability.OutcomeError, elapsed)
		return id, err
	}
	w.metrics.ObserveJob(observability.OutcomeComplete, elapsed)
	return id, nil
}

// process runs the pipeline against a claimed job and commits the outcome.
func (w *Worker) process(ctx context.Context, id string, state queue.State) error {
	lockedPrimary, lockedMetadata, err := queue.PairPaths(w.store.Root(), id, state, true)
	if err != nil {
		return w.abandon(id, state, err)
	}

	result, procErr := w.pipeline.Run(ctx, lockedPrimary)
	if procErr != nil {
		return w.commitFailure(id, state, lockedMetadata, procErr)
	}

	doc, err := result.Marshal()
	if err != nil {
		return w.commitFailure(id, state, lockedMetadata, err)
	}
	if err := fileutil.WriteFileAtomic(lockedMetadata, doc, 0o644); err != nil {
		return w.abandon(id, state, err)
	}

	if w.writeReports {
		if err := w.writeReport(id, result); err != nil {
			// The report is a derived artifact; its failure must not
			// fail the job.
			w.logger.Warn("write report", slog.String("job_id", id), slog.String("error", err.Error()))
		}
	}

	if err := w.store.Finalize(id, state, queue.StateComplete); err != nil {
		return err
	}
	w.logger.Info("job complete", slog.String("job_id", id))
	return nil
}

// commitFailure records a processing failure in the metadata sidecar and
// finalizes the job into the error state. The original processing error is
// returned so callers can report it.
func (w *Worker) commitFailure(id string, state queue.State, lockedMetadata string, procErr error) error {
	w.logger.Error("processing failed",
		slog.String("job_id", id),
		slog.String("error", procErr.Error()))

	doc := processing.FailureDoc(queue.KindLabel(procErr), procErr.Error())
	if err := fileutil.WriteFileAtomic(lockedMetadata, doc, 0o644); err != nil {
		return w.abandon(id, state, err)
	}
	if err := w.store.Finalize(id, state, queue.StateError); err != nil {
		return err
	}
	return procErr
}

// abandon releases a claim that could not be committed either way, so the
// job becomes claimable again instead of staying locked forever.
func (w *Worker) abandon(id string, state queue.State, cause error) error {
	if err := w.store.Release(id, state); err != nil {
		w.logger.Error("release after failure",
			slog.String("job_id", id),
			slog.String("error", err.Error()))
	}
	return cause
}

func (w *Worker) writeReport(id string, result *processing.Result) error {
	html, err := processing.RenderReport(id, result)
	if err != nil {
		return err
	}
	// The report lands in the destination state ahead of the finalize, per
	// the processor contract. It carries no lock semantics.
	reportPath, err := queue.ArtifactPath(w.store.Root(), id, queue.StateComplete, queue.KindReport, false)
	if err != nil {
		return err
	}
	return fileutil.WriteFileAtomic(reportPath, html, 0o644)
}

// Run polls until the context is canceled. Claims are attempted back to back
// while the queue has work; the interval only gates the empty-queue case.
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info("worker started",
		slog.Duration("poll_interval", w.pollInterval),
		slog.Bool("prefer_priority", w.preferPriority))

	timer := time.NewTimer(0)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("worker stopped")
			return ctx.Err()
		case <-timer.C:
		}

		_, err := w.RunOnce(ctx)
		switch {
		case err == nil:
			timer.Reset(0)
		case errors.Is(err, queue.ErrNotFound):
			timer.Reset(w.pollInterval)
		case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
			return err
		default:
			// Processing failures are already committed to the error
			// state; IO errors back off like an empty queue.
			timer.Reset(w.pollInterval)
		}
	}
}

// ExitCode maps a RunOnce outcome to the scheduler exit-code convention:
// 0 success, 1 failure, 2 empty queue.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, queue.ErrNotFound):
		return 2
	default:
		return 1
	}
}
