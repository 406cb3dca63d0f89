package main

import (
	"github.com/spf13/cobra"

	"vacuumclean/internal/config"
)

func newConfigCmd(opts *options) *cobra.Command {
	var (
		defaults bool
		write    string
	)

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Default()

			if !defaults {
				loaded, err := opts.load()
				if err != nil {
					return err
				}

				cfg = loaded
			}

			if write != "" {
				if err := cfg.SaveConfig(write); err != nil {
					return err
				}

				cmd.Printf("Configuration written to %s\n", write)

				return nil
			}

			return cfg.Write(cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&defaults, "defaults", false, "print the built-in defaults only")
	cmd.Flags().StringVar(&write, "write", "", "write the configuration to this file instead of printing it")

	return cmd
}
