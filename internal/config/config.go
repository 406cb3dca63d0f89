// Package config provides configuration management for the cleaner.
package config

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"vacuumclean/internal/models"
)

// Configuration validation errors.
var (
	ErrMissingInput          = errors.New("cleaner.input is required")
	ErrMissingOutput         = errors.New("cleaner.output is required")
	ErrMissingReport         = errors.New("cleaner.report is required")
	ErrUnknownBoundsColumn   = errors.New("bounds column is not a numeric column")
	ErrInvalidBounds         = errors.New("bounds min cannot exceed max")
	ErrInvalidDivisor        = errors.New("bounds divisors must be greater than 1")
	ErrUnknownOverrideColumn = errors.New("override column is not a numeric column")
	ErrOverrideOutOfRange    = errors.New("override value is outside the column bounds")
	ErrInvalidTopN           = errors.New("report_options.top_n must be at least 1")
	ErrInvalidTopMakers      = errors.New("report_options.top_manufacturers must be at least 1")
	ErrInvalidLogLevel       = errors.New("logging.level must be one of: debug, info, warn, error")
)

// Environment variables that override file settings.
const (
	EnvInput    = "CLEANER_INPUT"
	EnvOutput   = "CLEANER_OUTPUT"
	EnvReport   = "CLEANER_REPORT"
	EnvSQLite   = "CLEANER_SQLITE"
	EnvMetrics  = "CLEANER_METRICS"
	EnvLogLevel = "CLEANER_LOG_LEVEL"
)

// Config represents the complete cleaner configuration.
type Config struct {
	Cleaner CleanerConfig `yaml:"cleaner"`
}

// CleanerConfig contains pipeline settings.
type CleanerConfig struct {
	Bounds        map[string]BoundsConfig       `yaml:"bounds"`
	Overrides     map[string]map[string]float64 `yaml:"overrides"`
	Input         string                        `yaml:"input"`
	Output        string                        `yaml:"output"`
	Report        string                        `yaml:"report"`
	SQLite        string                        `yaml:"sqlite"`
	Metrics       string                        `yaml:"metrics"`
	Logging       LoggingConfig                 `yaml:"logging"`
	ReportOptions ReportOptions                 `yaml:"report_options"`
}

// BoundsConfig is the plausible range of a numeric column and the divisors
// tried, in order, when a value lies above Max.
type BoundsConfig struct {
	Divisors []float64 `yaml:"divisors,omitempty"`
	Min      float64   `yaml:"min"`
	Max      float64   `yaml:"max"`
}

// Contains reports whether v lies in [Min, Max].
func (b BoundsConfig) Contains(v float64) bool {
	return models.InRange(v, b.Min, b.Max)
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// ReportOptions controls the summary report.
type ReportOptions struct {
	TopN             int `yaml:"top_n"`
	TopManufacturers int `yaml:"top_manufacturers"`
}

// Default returns the built-in configuration: file names, plausible ranges and
// the known-value correction tables collected from the listing data.
func Default() *Config {
	return &Config{
		Cleaner: CleanerConfig{
			Input:   "robot_vacuums.csv",
			Output:  "robot_vacuums_cleaned.csv",
			Report:  "Vacuum robots info summary.txt",
			Logging: LoggingConfig{Level: "info"},
			ReportOptions: ReportOptions{
				TopN:             10,
				TopManufacturers: 5,
			},
			Bounds: map[string]BoundsConfig{
				models.ColPrice:           {Min: 50, Max: 3000, Divisors: []float64{10, 100}},
				models.ColBatteryCapacity: {Min: 1000, Max: 10000, Divisors: []float64{1000, 100, 10}},
				models.ColRating:          {Min: 0, Max: 5},
				models.ColRatingCount:     {Min: 0, Max: math.Inf(1)},
			},
			Overrides: map[string]map[string]float64{
				models.ColPrice: {
					"Samsung Jet Bot Combo AI Steam+ (VR9700)":                       1440.05,
					"Powerology Smart Robotic":                                       999.00,
					"Neatron Robot hoover":                                           989.00,
					"Aeco Vacubot X3":                                                979.50,
					"Blaupunkt Vacuum cleaner - robot vacuum cleaner RVC201, White": 919.00,
					"Severin RB7023 Robot Vacuum Cleaner Chill black / grey":         919.00,
				},
				models.ColBatteryCapacity: {
					"Mova P50 Pro Ultra": 5200,
					"Liectroux V3SPro":   4400,
					"Liectroux L200":     2600,
				},
			},
		},
	}
}

// LoadConfig loads configuration from a YAML file layered over Default.
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// ApplyEnv loads the given .env files, skipping missing ones, then overrides
// paths and the log level from CLEANER_* variables.
func (c *Config) ApplyEnv(envFiles ...string) error {
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}

		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", f, err)
		}
	}

	overrides := []struct {
		key string
		dst *string
	}{
		{EnvInput, &c.Cleaner.Input},
		{EnvOutput, &c.Cleaner.Output},
		{EnvReport, &c.Cleaner.Report},
		{EnvSQLite, &c.Cleaner.SQLite},
		{EnvMetrics, &c.Cleaner.Metrics},
		{EnvLogLevel, &c.Cleaner.Logging.Level},
	}

	for _, o := range overrides {
		if v := os.Getenv(o.key); v != "" {
			*o.dst = v
		}
	}

	return nil
}

// SaveConfig saves configuration to YAML file.
func (c *Config) SaveConfig(filepath string) error {
	f, err := os.Create(filepath)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	defer f.Close()

	return c.Write(f)
}

// Write encodes the configuration as YAML.
func (c *Config) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return enc.Close()
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	cl := c.Cleaner

	if cl.Input == "" {
		return ErrMissingInput
	}

	if cl.Output == "" {
		return ErrMissingOutput
	}

	if cl.Report == "" {
		return ErrMissingReport
	}

	var probe models.Product

	for _, col := range sortedKeys(cl.Bounds) {
		b := cl.Bounds[col]
		if _, ok := probe.NumberField(col); !ok {
			return fmt.Errorf("%w: %s", ErrUnknownBoundsColumn, col)
		}

		if b.Min > b.Max {
			return fmt.Errorf("%w: %s", ErrInvalidBounds, col)
		}

		for _, d := range b.Divisors {
			if d <= 1 {
				return fmt.Errorf("%w: %s", ErrInvalidDivisor, col)
			}
		}
	}

	for _, col := range sortedKeys(cl.Overrides) {
		if _, ok := probe.NumberField(col); !ok {
			return fmt.Errorf("%w: %s", ErrUnknownOverrideColumn, col)
		}

		b, bounded := cl.Bounds[col]
		if !bounded {
			continue
		}

		table := cl.Overrides[col]
		for _, name := range sortedKeys(table) {
			if !b.Contains(table[name]) {
				return fmt.Errorf("%w: %s[%q] = %v", ErrOverrideOutOfRange, col, name, table[name])
			}
		}
	}

	if cl.ReportOptions.TopN < 1 {
		return ErrInvalidTopN
	}

	if cl.ReportOptions.TopManufacturers < 1 {
		return ErrInvalidTopMakers
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cl.Logging.Level] {
		return ErrInvalidLogLevel
	}

	return nil
}

// OverrideCount returns the number of known-value corrections configured.
func (c *Config) OverrideCount() int {
	n := 0
	for _, table := range c.Cleaner.Overrides {
		n += len(table)
	}

	return n
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Input: %s, Output: %s, Bounds: %d, Overrides: %d}",
		c.Cleaner.Input,
		c.Cleaner.Output,
		len(c.Cleaner.Bounds),
		c.OverrideCount(),
	)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}
