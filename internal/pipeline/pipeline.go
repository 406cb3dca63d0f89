// Package pipeline wires reading, cleaning, export and reporting into runs.
package pipeline

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"vacuumclean/internal/config"
	"vacuumclean/internal/formatter"
	"vacuumclean/internal/logger"
	"vacuumclean/internal/models"
	"vacuumclean/internal/normalizer"
	"vacuumclean/internal/observability"
	"vacuumclean/internal/storage"
	"vacuumclean/pkg/metadata"
)

// Collector yields the raw table to clean. Live scrapers implement it with
// the same column schema as the collector export file.
type Collector interface {
	Collect() (*models.RawTable, error)
}

// Runner executes cleaning and reporting runs for one configuration.
type Runner struct {
	cfg    *config.Config
	log    *logger.Logger
	source Collector
	now    func() time.Time
}

// NewRunner creates a runner reading the configured input file. A nil logger
// discards output.
func NewRunner(cfg *config.Config, log *logger.Logger) *Runner {
	if log == nil {
		log = logger.Discard()
	}

	return &Runner{
		cfg:    cfg,
		log:    log,
		source: storage.FileSource{Path: cfg.Cleaner.Input},
		now:    time.Now,
	}
}

// WithCollector replaces the input file with c.
func (r *Runner) WithCollector(c Collector) *Runner {
	r.source = c
	return r
}

// Outcome describes a finished cleaning run.
type Outcome struct {
	Result *normalizer.Result
	Table  []byte
	RunID  string
}

// Clean reads the input, writes the cleaned table and its exports, then
// appends a signed report. Nothing is written when the input is rejected.
func (r *Runner) Clean(runID string) (*Outcome, error) {
	c := r.cfg.Cleaner
	log := r.log.With("run_id", runID)
	now := r.now()

	table, err := r.source.Collect()
	if err != nil {
		return nil, err
	}

	log.Info("input loaded", "rows", len(table.Records), "columns", len(table.Header))

	result, err := normalizer.NewProcessor(normalizer.RulesFromConfig(r.cfg), log).Process(table)
	if err != nil {
		return nil, err
	}

	if len(result.Products) == 0 {
		log.Warn("cleaned table is empty", "rows_read", result.Stats.RowsRead)
	}

	data, err := storage.EncodeCleaned(result.Products)
	if err != nil {
		return nil, fmt.Errorf("failed to encode cleaned table: %w", err)
	}

	if err := storage.WriteFile(c.Output, data); err != nil {
		return nil, err
	}

	log.Info("cleaned table written", "path", c.Output, "rows", len(result.Products))

	if c.SQLite != "" {
		if err := storage.WriteSQLite(c.SQLite, result.Products); err != nil {
			return nil, err
		}

		log.Info("sqlite export written", "path", c.SQLite, "table", storage.SQLiteTable)
	}

	if err := r.appendReport(result.Products, &result.Stats, data, runID, now); err != nil {
		return nil, err
	}

	log.Info("report appended", "path", c.Report)

	if c.Metrics != "" {
		m := observability.New()
		m.Record(&result.Stats, now)

		if err := m.WriteTextfile(c.Metrics); err != nil {
			return nil, err
		}

		log.Info("metrics written", "path", c.Metrics)
	}

	return &Outcome{Result: result, Table: data, RunID: runID}, nil
}

// Report appends a signed report built from the existing cleaned table.
func (r *Runner) Report(runID string) ([]models.Product, error) {
	c := r.cfg.Cleaner

	data, err := os.ReadFile(c.Output)
	if err != nil {
		return nil, fmt.Errorf("failed to read cleaned table: %w", err)
	}

	products, err := storage.DecodeCleaned(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", c.Output, err)
	}

	if err := r.appendReport(products, nil, data, runID, r.now()); err != nil {
		return nil, err
	}

	r.log.Info("report appended", "run_id", runID, "path", c.Report, "rows", len(products))

	return products, nil
}

// Verify checks the last report signature against the cleaned table on disk.
func (r *Runner) Verify() (*metadata.Metadata, error) {
	c := r.cfg.Cleaner

	report, err := os.ReadFile(c.Report)
	if err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}

	data, err := os.ReadFile(c.Output)
	if err != nil {
		return nil, fmt.Errorf("failed to read cleaned table: %w", err)
	}

	return metadata.Verify(string(report), data)
}

func (r *Runner) appendReport(products []models.Product, stats *normalizer.Stats, data []byte, runID string, now time.Time) error {
	opts := r.cfg.Cleaner.ReportOptions

	text := formatter.BuildReport(products, formatter.ReportOptions{
		TopN:             opts.TopN,
		TopManufacturers: opts.TopManufacturers,
	}, formatter.Run{ID: runID, Generated: now, Stats: stats})

	signed := metadata.Sign(text, data, len(products), runID, now)

	return storage.AppendFile(r.cfg.Cleaner.Report, signed+"\n")
}
