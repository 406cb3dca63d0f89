package main

import (
	"github.com/spf13/cobra"

	"vacuumclean/internal/pipeline"
)

func newVerifyCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check the last report signature against the cleaned table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := setup(cmd, opts)
			if err != nil {
				return err
			}

			meta, err := pipeline.NewRunner(cfg, log).Verify()
			if err != nil {
				return err
			}

			cmd.Printf("OK: %s matches run %s (%d rows, %s)\n",
				cfg.Cleaner.Output, meta.RunID, meta.Rows, meta.LastModify.Format("2006-01-02 15:04:05"))

			return nil
		},
	}
}
