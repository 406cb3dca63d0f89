package main

import (
	"github.com/spf13/cobra"

	"vacuumclean/internal/normalizer"
	"vacuumclean/internal/pipeline"
)

func newCleanCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Clean the input table and append a report",
		Long: `Read the collector export, write the cleaned table, append a signed report
and write the optional SQLite and metrics exports. A missing input column
aborts the run before anything is written.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := setup(cmd, opts)
			if err != nil {
				return err
			}

			runID := newRunID()

			out, err := pipeline.NewRunner(cfg, log).Clean(runID)
			if err != nil {
				log.Error("cleaning failed", "run_id", runID, "error", err)
				return err
			}

			s := out.Result.Stats
			cmd.Printf("Run %s: %d rows read, %d written, %d dropped (price %d, name %d), %d duplicates removed\n",
				runID, s.RowsRead, s.RowsWritten, len(s.Dropped),
				s.DroppedCount(normalizer.DropMissingPrice), s.DroppedCount(normalizer.DropMissingName),
				s.DuplicatesRemoved)
			cmd.Printf("Cleaned table: %s\n", cfg.Cleaner.Output)
			cmd.Printf("Report: %s\n", cfg.Cleaner.Report)

			return nil
		},
	}
}
