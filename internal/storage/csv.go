// Package storage reads collector exports and writes the cleaned table.
package storage

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"vacuumclean/internal/models"
)

// Storage errors.
var (
	ErrEmptyInput      = errors.New("input has no header row")
	ErrNotCleanedTable = errors.New("input is not a cleaned table")
	ErrBadNumber       = errors.New("invalid number in cleaned table")
)

const utf8BOM = "\ufeff"

// FileSource reads a collector export file.
type FileSource struct {
	Path string
}

// Collect reads the file at Path.
func (s FileSource) Collect() (*models.RawTable, error) {
	return ReadRaw(s.Path)
}

// ReadRaw loads a collector export from path.
func ReadRaw(path string) (*models.RawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()

	table, err := DecodeRaw(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return table, nil
}

// DecodeRaw parses a delimited table with a header row. Short rows are padded
// with empty cells and extra cells are ignored.
func DecodeRaw(r io.Reader) (*models.RawTable, error) {
	header, rows, err := readAll(r)
	if err != nil {
		return nil, err
	}

	table := &models.RawTable{
		Header:  header,
		Records: make([]models.RawRecord, 0, len(rows)),
	}

	for _, row := range rows {
		rec := make(models.RawRecord, len(header))
		for i, col := range header {
			if i < len(row) {
				rec[col] = row[i]
			} else {
				rec[col] = ""
			}
		}

		table.Records = append(table.Records, rec)
	}

	return table, nil
}

// EncodeCleaned serializes products as the cleaned table.
func EncodeCleaned(products []models.Product) ([]byte, error) {
	var buf bytes.Buffer

	w := csv.NewWriter(&buf)
	if err := w.Write(models.Columns); err != nil {
		return nil, err
	}

	for i := range products {
		if err := w.Write(products[i].Record()); err != nil {
			return nil, err
		}
	}

	w.Flush()

	if err := w.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// WriteFile replaces path with data, creating parent directories.
func WriteFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}

// AppendFile appends content to path, creating it when missing.
func AppendFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.WriteString(content); err != nil {
		return fmt.Errorf("failed to append to %s: %w", path, err)
	}

	return nil
}

// ReadCleaned loads a table previously written by EncodeCleaned.
func ReadCleaned(path string) ([]models.Product, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cleaned table: %w", err)
	}
	defer f.Close()

	products, err := DecodeCleaned(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return products, nil
}

// DecodeCleaned parses a cleaned table. Every canonical column must be present.
func DecodeCleaned(r io.Reader) ([]models.Product, error) {
	header, rows, err := readAll(r)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		index[h] = i
	}

	var missing []string

	for _, col := range models.Columns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %s", ErrNotCleanedTable, strings.Join(missing, ", "))
	}

	products := make([]models.Product, 0, len(rows))

	for n, row := range rows {
		var p models.Product

		for _, col := range models.Columns {
			cell := ""
			if i := index[col]; i < len(row) {
				cell = row[i]
			}

			if err := setField(&p, col, cell); err != nil {
				return nil, fmt.Errorf("row %d: %w", n+1, err)
			}
		}

		products = append(products, p)
	}

	return products, nil
}

func setField(p *models.Product, col, cell string) error {
	if dst, ok := p.NumberField(col); ok {
		if cell == "" {
			*dst = models.Number{}
			return nil
		}

		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrBadNumber, col, cell)
		}

		*dst = models.Some(v)

		return nil
	}

	if dst, ok := p.TextField(col); ok {
		*dst = cell
		return nil
	}

	if dst, ok := p.ListField(col); ok && cell != "" {
		*dst = strings.Split(cell, models.ListSeparator)
	}

	return nil
}

func readAll(r io.Reader) ([]string, [][]string, error) {
	cr := csv.NewReader(r)
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, ErrEmptyInput
	}

	if err != nil {
		return nil, nil, fmt.Errorf("failed to read header: %w", err)
	}

	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read rows: %w", err)
	}

	return header, rows, nil
}
