package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"stenograf/internal/config"
	"stenograf/internal/fetch"
	"stenograf/internal/harvest"
	"stenograf/internal/logging"
	"stenograf/internal/psp"
	"stenograf/internal/store"
)

func newHarvestCommand(ctx *commandContext) *cobra.Command {
	var newReport bool
	var yearFlag int
	var sessionFlag int
	var outputDir string

	cmd := &cobra.Command{
		Use:   "harvest",
		Short: "Download and segment the term's floor speeches",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if yearFlag != 0 {
				if !psp.IsValidYear(yearFlag) {
					return fmt.Errorf("year %d is not an election year, expected one of %v", yearFlag, psp.ValidYears())
				}
				cfg.Source.Year = yearFlag
			}
			if sessionFlag < 0 {
				return fmt.Errorf("session %d is not a session number", sessionFlag)
			}
			if outputDir != "" {
				expanded, err := config.ExpandPath(outputDir)
				if err != nil {
					return fmt.Errorf("resolve output dir: %w", err)
				}
				cfg.Paths.OutputDir = expanded
			}

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("configure logging: %w", err)
			}

			st, err := store.Open(cfg.Paths.StorePath)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer st.Close()

			httpClient := &http.Client{Timeout: time.Duration(cfg.Source.RequestTimeout) * time.Second}
			fetcher := fetch.New(cfg.Paths.CacheDir, cfg.Source.UserAgent, httpClient, logger)

			result, err := harvest.New(cfg, st, fetcher, logger).Run(cmd.Context(), harvest.Options{NewReport: newReport, Session: sessionFlag})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Harvested term %d: %d sessions, %d files, %d speakers (%d requests)\n",
				result.Year, result.Sessions, result.Files, result.Speakers, result.Requests)
			fmt.Fprintf(out, "Output written to %s\n", cfg.Paths.OutputDir)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&newReport, "new-report", "n", false, "Truncate existing summary tables before the first session")
	cmd.Flags().IntVarP(&yearFlag, "year", "y", 0, "Election year to harvest (overrides config)")
	cmd.Flags().IntVarP(&sessionFlag, "session", "s", 0, "Harvest only this session number (0 = all)")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Output directory (overrides config)")
	return cmd
}
