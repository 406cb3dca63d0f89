package main

import (
	"github.com/spf13/cobra"

	"vacuumclean/internal/pipeline"
)

func newReportCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Append a report built from an existing cleaned table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := setup(cmd, opts)
			if err != nil {
				return err
			}

			runID := newRunID()

			products, err := pipeline.NewRunner(cfg, log).Report(runID)
			if err != nil {
				return err
			}

			cmd.Printf("Run %s: report for %d products appended to %s\n", runID, len(products), cfg.Cleaner.Report)

			return nil
		},
	}
}
