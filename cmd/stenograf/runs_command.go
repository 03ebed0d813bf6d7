package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"stenograf/internal/store"
)

func newRunsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "runs",
		Short: "List recorded harvest runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			st, err := store.Open(cfg.Paths.StorePath)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer st.Close()

			runs, err := st.Runs(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No harvest runs recorded yet.")
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				completed := "-"
				if !run.CompletedAt.IsZero() {
					completed = run.CompletedAt.Local().Format(time.DateTime)
				}
				rows = append(rows, []string{
					shortID(run.ID),
					strconv.Itoa(run.Year),
					run.StartedAt.Local().Format(time.DateTime),
					completed,
					strconv.Itoa(run.Sessions),
					strconv.Itoa(run.Files),
					strconv.Itoa(run.Requests),
				})
			}
			headers := []string{"Run", "Year", "Started", "Completed", "Sessions", "Files", "Requests"}
			aligns := []columnAlignment{alignLeft, alignRight, alignLeft, alignLeft, alignRight, alignRight, alignRight}
			fmt.Fprintln(out, renderTable(out, headers, rows, aligns))
			return nil
		},
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
