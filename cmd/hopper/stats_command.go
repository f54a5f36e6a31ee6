package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"hopper/internal/api"
	"hopper/internal/queue"
)

func newStatsCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize queue contents across all states",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.ensureStore()
			if err != nil {
				return err
			}
			stats, err := store.CollectStats()
			if err != nil {
				return err
			}
			view := api.FromStats(stats)
			if jsonOut {
				return writeJSON(cmd, view)
			}

			headers := []string{"State", "Jobs", "Locked", "Orphans", "Reports", "Bytes"}
			aligns := []columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight}
			rows := make([][]string, 0, len(queue.AllStates())+1)
			for _, state := range queue.AllStates() {
				perState := view.States[string(state)]
				rows = append(rows, []string{
					string(state),
					strconv.Itoa(perState.Jobs),
					strconv.Itoa(perState.LockedJobs),
					strconv.Itoa(perState.Orphans),
					strconv.Itoa(perState.Reports),
					strconv.FormatInt(perState.Bytes, 10),
				})
			}
			rows = append(rows, []string{
				"total",
				strconv.Itoa(view.TotalJobs),
				strconv.Itoa(view.TotalLocked),
				strconv.Itoa(view.TotalOrphans),
				"",
				strconv.FormatInt(view.TotalBytes, 10),
			})

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(headers, rows, aligns))
			if view.Oldest != "" {
				fmt.Fprintf(out, "Oldest job: %s\n", view.Oldest)
			}
			if view.Newest != "" {
				fmt.Fprintf(out, "Newest job: %s\n", view.Newest)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of a table")
	return cmd
}
