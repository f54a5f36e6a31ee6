package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"hopper/internal/logging"
	"hopper/internal/worker"
)

func newProcessCommand(ctx *commandContext) *cobra.Command {
	var once bool

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Claim and process jobs through the document pipeline",
		Long: "Process claims jobs, runs the structure, OCR-triage, and redaction passes,\n" +
			"and finalizes each job into complete or error. With --once it handles a\n" +
			"single job and exits; otherwise it polls until interrupted.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := ctx.ensureStore()
			if err != nil {
				return err
			}
			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("configure logging: %w", err)
			}
			w, err := worker.New(cfg, store, logger, nil)
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if once {
				id, err := w.RunOnce(runCtx)
				switch worker.ExitCode(err) {
				case 0:
					fmt.Fprintf(cmd.OutOrStdout(), "Processed %s\n", id)
					return nil
				case 2:
					return &exitCodeError{code: 2, message: "no jobs available"}
				default:
					if id != "" {
						return fmt.Errorf("processing %s: %w", id, err)
					}
					return err
				}
			}
			return w.Run(runCtx)
		},
	}

	cmd.Flags().BoolVar(&once, "once", false, "Process a single job and exit")
	return cmd
}
