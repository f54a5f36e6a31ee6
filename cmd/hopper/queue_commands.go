package main

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"hopper/internal/api"
	"hopper/internal/queue"
)

func newInitCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the queue root and its state directories",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.ensureStore()
			if err != nil {
				return err
			}
			if err := store.Init(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Queue initialized at %s\n", store.Root())
			return nil
		},
	}
}

func newSubmitCommand(ctx *commandContext) *cobra.Command {
	var id string
	var priority bool

	cmd := &cobra.Command{
		Use:   "submit PRIMARY METADATA",
		Short: "Enqueue a job from a primary file and its metadata sidecar",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.ensureStore()
			if err != nil {
				return err
			}
			if id == "" {
				id = uuid.NewString()
			}
			state, err := store.Submit(id, args[0], args[1], priority)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Submitted %s to %s\n", id, state)
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Job identifier (generated when omitted)")
	cmd.Flags().BoolVar(&priority, "priority", false, "Enqueue into the priority lane")
	return cmd
}

func newClaimCommand(ctx *commandContext) *cobra.Command {
	var preferPriority bool

	cmd := &cobra.Command{
		Use:   "claim",
		Short: "Claim the next available job, locking it for this caller",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.ensureStore()
			if err != nil {
				return err
			}
			id, state, err := store.ClaimNext(preferPriority)
			if errors.Is(err, queue.ErrNotFound) {
				return &exitCodeError{code: 2, message: "no jobs available"}
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Claimed %s from %s\n", id, state)
			return nil
		},
	}

	cmd.Flags().BoolVar(&preferPriority, "prefer-priority", true, "Scan the priority lane first")
	return cmd
}

func newReleaseCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "release ID STATE",
		Short: "Unlock a claimed job in place without processing it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.ensureStore()
			if err != nil {
				return err
			}
			state, err := parseStateArg(args[1])
			if err != nil {
				return err
			}
			if err := store.Release(args[0], state); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Released %s in %s\n", args[0], state)
			return nil
		},
	}
}

func newFinalizeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "finalize ID FROM TO",
		Short: "Move a claimed job into a destination state, unlocking it",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransition(cmd, ctx, args, "Finalized", (*queue.Store).Finalize)
		},
	}
}

func newMoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "move ID FROM TO",
		Short: "Move an unclaimed job between states (requeue, retry)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransition(cmd, ctx, args, "Moved", (*queue.Store).Move)
		},
	}
}

func runTransition(cmd *cobra.Command, ctx *commandContext, args []string, verb string, transition func(*queue.Store, string, queue.State, queue.State) error) error {
	store, err := ctx.ensureStore()
	if err != nil {
		return err
	}
	from, err := parseStateArg(args[1])
	if err != nil {
		return err
	}
	to, err := parseStateArg(args[2])
	if err != nil {
		return err
	}
	if err := transition(store, args[0], from, to); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s -> %s\n", verb, args[0], from, to)
	return nil
}

func parseStateArg(value string) (queue.State, error) {
	state, ok := queue.ParseState(value)
	if !ok {
		return "", fmt.Errorf("unknown state %q (one of: jobs, priority_jobs, complete, error)", value)
	}
	return state, nil
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "status ID",
		Short: "Report a job's current state and lock condition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.ensureStore()
			if err != nil {
				return err
			}
			status, err := store.Status(args[0])
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd, api.FromJobStatus(args[0], status))
			}
			locked := "unlocked"
			if status.Locked {
				locked = "locked"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (%s)\n", args[0], status.State, locked)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of text")
	return cmd
}
