package pipeline

import (
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vacuumclean/internal/config"
	"vacuumclean/internal/formatter"
	"vacuumclean/internal/models"
	"vacuumclean/internal/normalizer"
	"vacuumclean/pkg/metadata"
)

func writeRaw(t *testing.T, path string, skip string, rows ...map[string]string) {
	t.Helper()

	var header []string
	for _, m := range normalizer.DefaultColumns {
		if m.Source != skip {
			header = append(header, m.Source)
		}
	}

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := csv.NewWriter(f)
	require.NoError(t, w.Write(header))

	for _, row := range rows {
		rec := make([]string, len(header))
		for i, src := range header {
			for _, m := range normalizer.DefaultColumns {
				if m.Source == src {
					rec[i] = row[m.Target]
				}
			}
		}

		require.NoError(t, w.Write(rec))
	}

	w.Flush()
	require.NoError(t, w.Error())
}

func testConfig(dir string) *config.Config {
	cfg := config.Default()
	cfg.Cleaner.Input = filepath.Join(dir, "raw.csv")
	cfg.Cleaner.Output = filepath.Join(dir, "out", "cleaned.csv")
	cfg.Cleaner.Report = filepath.Join(dir, "out", "summary.txt")
	cfg.Cleaner.SQLite = filepath.Join(dir, "out", "cleaned.db")
	cfg.Cleaner.Metrics = filepath.Join(dir, "out", "cleaner.prom")

	return cfg
}

func fixedRunner(cfg *config.Config) *Runner {
	r := NewRunner(cfg, nil)
	r.now = func() time.Time { return time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC) }

	return r
}

var sampleRows = []map[string]string{
	{models.ColProductName: "Roborock S8", models.ColPrice: "1299.00", models.ColManufacturer: "Roborock", models.ColBatteryCapacity: "5200 mAh"},
	{models.ColProductName: "Shifted Bot", models.ColPrice: "14400.50", models.ColManufacturer: "Acme"},
	{models.ColProductName: "Broken Bot", models.ColPrice: "9999999"},
}

func TestRunner_Clean(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	writeRaw(t, cfg.Cleaner.Input, "", sampleRows...)

	out, err := fixedRunner(cfg).Clean("run-1")
	require.NoError(t, err)

	assert.Len(t, out.Result.Products, 2)
	assert.Equal(t, 1, out.Result.Stats.DroppedCount(normalizer.DropMissingPrice))

	data, err := os.ReadFile(cfg.Cleaner.Output)
	require.NoError(t, err)
	assert.Equal(t, out.Table, data)

	for _, p := range []string{cfg.Cleaner.SQLite, cfg.Cleaner.Metrics} {
		_, err := os.Stat(p)
		assert.NoError(t, err, p)
	}

	report, err := os.ReadFile(cfg.Cleaner.Report)
	require.NoError(t, err)
	assert.Contains(t, string(report), formatter.ReportTitle)
	assert.Contains(t, string(report), "0. CLEANING LOG")
	assert.Contains(t, string(report), "Run: run-1")

	meta, err := fixedRunner(cfg).Verify()
	require.NoError(t, err)
	assert.Equal(t, "run-1", meta.RunID)
	assert.Equal(t, 2, meta.Rows)
}

func TestRunner_Clean_MissingColumnWritesNothing(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	writeRaw(t, cfg.Cleaner.Input, "Battery properties  Capacity", sampleRows...)

	_, err := fixedRunner(cfg).Clean("run-1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, normalizer.ErrMissingColumn))
	assert.Contains(t, err.Error(), "Battery properties  Capacity")

	for _, p := range []string{cfg.Cleaner.Output, cfg.Cleaner.Report, cfg.Cleaner.SQLite, cfg.Cleaner.Metrics} {
		_, err := os.Stat(p)
		assert.True(t, os.IsNotExist(err), p)
	}
}

func TestRunner_Clean_OptionalExports(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	cfg.Cleaner.SQLite = ""
	cfg.Cleaner.Metrics = ""
	writeRaw(t, cfg.Cleaner.Input, "", sampleRows...)

	_, err := fixedRunner(cfg).Clean("run-1")
	require.NoError(t, err)

	entries, err := os.ReadDir(filepath.Dir(cfg.Cleaner.Output))
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestRunner_Report_Appends(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	writeRaw(t, cfg.Cleaner.Input, "", sampleRows...)

	r := fixedRunner(cfg)

	_, err := r.Clean("run-1")
	require.NoError(t, err)

	products, err := r.Report("run-2")
	require.NoError(t, err)
	assert.Len(t, products, 2)

	report, err := os.ReadFile(cfg.Cleaner.Report)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(report), formatter.ReportTitle))
	assert.Equal(t, 1, strings.Count(string(report), "0. CLEANING LOG"))

	meta, err := r.Verify()
	require.NoError(t, err)
	assert.Equal(t, "run-2", meta.RunID)
}

func TestRunner_Verify_DetectsChangedTable(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	writeRaw(t, cfg.Cleaner.Input, "", sampleRows...)

	r := fixedRunner(cfg)

	_, err := r.Clean("run-1")
	require.NoError(t, err)

	f, err := os.OpenFile(cfg.Cleaner.Output, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("Extra Bot,100\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, err = r.Verify()
	assert.ErrorIs(t, err, metadata.ErrHashMismatch)
}

func TestRunner_Clean_MissingInput(t *testing.T) {
	cfg := testConfig(t.TempDir())

	_, err := fixedRunner(cfg).Clean("run-1")
	assert.Error(t, err)
}

type staticCollector struct {
	table *models.RawTable
}

func (c staticCollector) Collect() (*models.RawTable, error) {
	return c.table, nil
}

func TestRunner_WithCollector(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)

	header := make([]string, len(normalizer.DefaultColumns))
	rec := models.RawRecord{}

	for i, m := range normalizer.DefaultColumns {
		header[i] = m.Source
		rec[m.Source] = ""
	}

	rec["product_name"] = "Collected Bot"
	rec["price"] = "349"

	out, err := fixedRunner(cfg).WithCollector(staticCollector{
		table: &models.RawTable{Header: header, Records: []models.RawRecord{rec}},
	}).Clean("run-1")
	require.NoError(t, err)

	require.Len(t, out.Result.Products, 1)
	assert.Equal(t, "Collected Bot", out.Result.Products[0].ProductName)
	assert.Equal(t, models.Some(349), out.Result.Products[0].Price)
}
