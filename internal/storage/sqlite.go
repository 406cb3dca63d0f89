package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"vacuumclean/internal/models"
)

// SQLiteTable is the table the cleaned products are exported to.
const SQLiteTable = "robot_vacuums_cleaned"

// WriteSQLite recreates the database at path holding one row per product.
// Numeric fields are REAL (rating_count INTEGER) and NULL when absent;
// multi-valued fields are stored joined by the list separator.
func WriteSQLite(path string, products []models.Product) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove old database: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	var probe models.Product

	defs := make([]string, 0, len(models.Columns))
	quoted := make([]string, 0, len(models.Columns))

	for _, col := range models.Columns {
		typ := "TEXT"
		if _, ok := probe.NumberField(col); ok {
			typ = "REAL"
		}

		if col == models.ColRatingCount {
			typ = "INTEGER"
		}

		defs = append(defs, fmt.Sprintf("%q %s", col, typ))
		quoted = append(quoted, fmt.Sprintf("%q", col))
	}

	if _, err := db.Exec(fmt.Sprintf(`CREATE TABLE %q (%s)`, SQLiteTable, strings.Join(defs, ","))); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	ph := strings.TrimRight(strings.Repeat("?,", len(models.Columns)), ",")

	stmt, err := tx.Prepare(fmt.Sprintf(`INSERT INTO %q (%s) VALUES (%s)`, SQLiteTable, strings.Join(quoted, ","), ph))
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i := range products {
		if _, err := stmt.Exec(sqliteArgs(&products[i])...); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to insert %q: %w", products[i].ProductName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	idx := fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_manufacturer ON %q(%q)`, SQLiteTable, SQLiteTable, models.ColManufacturer)
	if _, err := db.Exec(idx); err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}

	return nil
}

func sqliteArgs(p *models.Product) []any {
	args := make([]any, 0, len(models.Columns))

	for _, col := range models.Columns {
		if n, ok := p.NumberField(col); ok {
			switch {
			case !n.Valid:
				args = append(args, nil)
			case col == models.ColRatingCount:
				args = append(args, int64(n.Value))
			default:
				args = append(args, n.Value)
			}

			continue
		}

		if s, ok := p.TextField(col); ok {
			args = append(args, *s)
			continue
		}

		if l, ok := p.ListField(col); ok {
			args = append(args, strings.Join(*l, models.ListSeparator))
		}
	}

	return args
}
