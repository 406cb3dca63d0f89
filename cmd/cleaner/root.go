package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"vacuumclean/internal/config"
	"vacuumclean/internal/logger"
)

type options struct {
	configPath string
	envFile    string
	input      string
	output     string
	report     string
	sqlite     string
	metrics    string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "cleaner",
		Short: "Clean scraped robot vacuum listings",
		Long: `Clean a collector export of robot vacuum listings into a normalized table,
append a signed summary report and optionally export SQLite and metrics.`,
		SilenceUsage: true,
	}

	f := root.PersistentFlags()
	f.StringVar(&opts.configPath, "config", "", "YAML config file (defaults apply when empty)")
	f.StringVar(&opts.envFile, "env-file", ".env", "dotenv file loaded before CLEANER_* variables")
	f.StringVar(&opts.input, "input", "", "collector export CSV")
	f.StringVar(&opts.output, "output", "", "cleaned table CSV")
	f.StringVar(&opts.report, "report", "", "summary report file (appended)")
	f.StringVar(&opts.sqlite, "sqlite", "", "SQLite export path")
	f.StringVar(&opts.metrics, "metrics", "", "prometheus textfile path")
	f.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(newCleanCmd(opts))
	root.AddCommand(newReportCmd(opts))
	root.AddCommand(newVerifyCmd(opts))
	root.AddCommand(newConfigCmd(opts))

	return root
}

// load resolves defaults, the config file, the environment and flags, in
// that order, then validates the result.
func (o *options) load() (*config.Config, error) {
	cfg := config.Default()

	if o.configPath != "" {
		loaded, err := config.LoadConfig(o.configPath)
		if err != nil {
			return nil, err
		}

		cfg = loaded
	}

	if err := cfg.ApplyEnv(o.envFile); err != nil {
		return nil, err
	}

	flags := []struct {
		val string
		dst *string
	}{
		{o.input, &cfg.Cleaner.Input},
		{o.output, &cfg.Cleaner.Output},
		{o.report, &cfg.Cleaner.Report},
		{o.sqlite, &cfg.Cleaner.SQLite},
		{o.metrics, &cfg.Cleaner.Metrics},
		{o.logLevel, &cfg.Cleaner.Logging.Level},
	}

	for _, fl := range flags {
		if fl.val != "" {
			*fl.dst = fl.val
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func setup(cmd *cobra.Command, opts *options) (*config.Config, *logger.Logger, error) {
	cfg, err := opts.load()
	if err != nil {
		return nil, nil, err
	}

	log := logger.NewLoggerWithWriter(cfg.Cleaner.Logging.Level, cmd.ErrOrStderr())
	log.Debug("configuration loaded", "config", cfg.String())

	return cfg, log, nil
}

func newRunID() string {
	return uuid.NewString()
}
