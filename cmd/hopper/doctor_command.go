package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"hopper/internal/preflight"
	"hopper/internal/queue"
)

// staleLockAge is how long the newest artifact may sit untouched before a
// locked job is worth flagging as a possible abandoned claim.
const staleLockAge = time.Hour

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Run readiness checks against the queue root",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			for _, line := range renderSectionHeader("Readiness", colorize) {
				fmt.Fprintln(out, line)
			}
			results := preflight.RunAll(cfg)
			for _, result := range results {
				kind := statusError
				if result.Passed {
					kind = statusOK
				}
				fmt.Fprintln(out, renderStatusLine(result.Name, kind, result.Detail, colorize))
			}

			for _, line := range renderSectionHeader("Queue", colorize) {
				fmt.Fprintln(out, line)
			}
			renderQueueFindings(cmd, ctx, colorize)

			if !preflight.AllPassed(results) {
				return &exitCodeError{code: 1, message: fmt.Sprintf("%d check(s) failed", len(preflight.Failures(results)))}
			}
			return nil
		},
	}
}

// renderQueueFindings surfaces advisory queue conditions: orphaned metadata,
// locked jobs older than staleLockAge, and jobs parked in error. Advisory
// only; doctor's exit code reflects the readiness checks alone.
func renderQueueFindings(cmd *cobra.Command, ctx *commandContext, colorize bool) {
	out := cmd.OutOrStdout()
	store, err := ctx.ensureStore()
	if err != nil {
		fmt.Fprintln(out, renderStatusLine("Queue scan", statusError, err.Error(), colorize))
		return
	}
	stats, err := store.CollectStats()
	if err != nil {
		fmt.Fprintln(out, renderStatusLine("Queue scan", statusError, err.Error(), colorize))
		return
	}

	var jobs, locked, orphans int
	for _, perState := range stats.States {
		jobs += perState.Jobs
		locked += perState.LockedJobs
		orphans += perState.Orphans
	}
	fmt.Fprintln(out, renderStatusLine("Jobs", statusInfo, fmt.Sprintf("%d total, %d locked", jobs, locked), colorize))

	if orphans > 0 {
		fmt.Fprintln(out, renderStatusLine("Orphans", statusWarn, fmt.Sprintf("%d unpaired artifact(s); inspect before deleting", orphans), colorize))
	} else {
		fmt.Fprintln(out, renderStatusLine("Orphans", statusOK, "none", colorize))
	}

	if locked > 0 && !stats.Newest.IsZero() && time.Since(stats.Newest) > staleLockAge {
		age := time.Since(stats.Newest).Round(time.Minute)
		fmt.Fprintln(out, renderStatusLine("Stale claims", statusWarn, fmt.Sprintf("%d locked job(s), newest artifact %s old; a worker may have crashed mid-claim", locked, age), colorize))
	}

	if failed := stats.States[queue.StateError]; failed.Jobs+failed.LockedJobs > 0 {
		fmt.Fprintln(out, renderStatusLine("Failed jobs", statusWarn, fmt.Sprintf("%d in error; retry with `hopper move ID error jobs`", failed.Jobs+failed.LockedJobs), colorize))
	}
}
