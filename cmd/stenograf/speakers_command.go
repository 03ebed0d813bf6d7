package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"stenograf/internal/store"
)

func newSpeakersCommand(ctx *commandContext) *cobra.Command {
	var tsv bool

	cmd := &cobra.Command{
		Use:   "speakers",
		Short: "List the speakers collected by previous harvests",
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

			_, speakers, err := st.Speakers(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(speakers) == 0 {
				fmt.Fprintln(out, "No speakers recorded yet; run a harvest first.")
				return nil
			}

			if tsv {
				fmt.Fprintln(out, "name\ttitles\tfunction\tsteno_name\tsex\tparty\tbirthdate\tweb_page")
				for _, sp := range speakers {
					row := strings.Join([]string{
						sp.Name, sp.Titles, sp.Function, sp.StenoName,
						sp.Sex, sp.Party, sp.BirthDate, sp.Link,
					}, "\t")
					fmt.Fprintln(out, row)
				}
				return nil
			}

			rows := make([][]string, 0, len(speakers))
			for _, sp := range speakers {
				rows = append(rows, []string{
					sp.Name, sp.Titles, sp.Function, sp.Party, sp.BirthDate, sp.Sex,
				})
			}
			headers := []string{"Name", "Titles", "Function", "Party", "Born", "Sex"}
			fmt.Fprintln(out, renderTable(out, headers, rows, nil))
			fmt.Fprintf(out, "%d speakers\n", len(speakers))
			return nil
		},
	}

	cmd.Flags().BoolVar(&tsv, "tsv", false, "Emit tab-separated output instead of a table")
	return cmd
}
