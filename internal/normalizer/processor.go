// Package normalizer turns raw scraped product rows into the cleaned product table.
package normalizer

import (
	"fmt"
	"sort"

	"vacuumclean/internal/logger"
	"vacuumclean/internal/models"
)

// Reasons a row is excluded from the cleaned table.
const (
	DropMissingPrice = "missing_price"
	DropMissingName  = "missing_name"
)

// DroppedRow identifies an excluded input row by its 1-based data row number.
type DroppedRow struct {
	ProductName string
	Reason      string
	Row         int
}

// ColumnStats counts the field events of one column.
type ColumnStats struct {
	Overrides   int
	Corrected   int
	Rejected    int
	Unparseable int
}

// Stats is the log of a pipeline run.
type Stats struct {
	Columns           map[string]*ColumnStats
	Dropped           []DroppedRow
	RowsRead          int
	RowsWritten       int
	DuplicatesRemoved int
}

// DroppedCount returns the number of rows dropped for reason.
func (s *Stats) DroppedCount(reason string) int {
	n := 0
	for _, d := range s.Dropped {
		if d.Reason == reason {
			n++
		}
	}

	return n
}

// ColumnNames returns the columns with recorded events, sorted.
func (s *Stats) ColumnNames() []string {
	names := make([]string, 0, len(s.Columns))
	for col := range s.Columns {
		names = append(names, col)
	}

	sort.Strings(names)

	return names
}

func (s *Stats) record(ev Event) {
	cs, ok := s.Columns[ev.Column]
	if !ok {
		cs = &ColumnStats{}
		s.Columns[ev.Column] = cs
	}

	switch ev.Kind {
	case EventOverride:
		cs.Overrides++
	case EventCorrected:
		cs.Corrected++
	case EventRejected:
		cs.Rejected++
	case EventUnparseable:
		cs.Unparseable++
	}
}

// Result is the cleaned table and the log of how it was produced.
type Result struct {
	Products []models.Product
	Stats    Stats
}

// Processor handles data processing and transformation.
type Processor struct {
	validator   *Validator
	transformer *Transformer
	log         *logger.Logger
}

// NewProcessor creates a new processor instance.
func NewProcessor(rules Rules, log *logger.Logger) *Processor {
	if log == nil {
		log = logger.Discard()
	}

	return &Processor{
		validator:   NewValidator(rules.SourceColumns()),
		transformer: NewTransformer(rules),
		log:         log,
	}
}

// Process transforms the raw table into the cleaned table. A header missing
// a required column fails the whole run before any row is processed.
func (p *Processor) Process(table *models.RawTable) (*Result, error) {
	// 1. Validate the input header
	if table == nil {
		return nil, ErrNilTable
	}

	if err := p.validator.ValidateHeader(table.Header); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	// 2. Transform each row
	res := &Result{
		Stats: Stats{
			Columns:  map[string]*ColumnStats{},
			RowsRead: len(table.Records),
		},
	}

	kept := make([]models.Product, 0, len(table.Records))

	for i, rec := range table.Records {
		product, events := p.transformer.Transform(rec)

		for _, ev := range events {
			res.Stats.record(ev)
			p.log.Debug("field event",
				"row", i+1,
				"product", product.ProductName,
				"column", ev.Column,
				"kind", string(ev.Kind),
				"raw", ev.Raw,
				"from", ev.From,
				"to", ev.To,
			)
		}

		reason := ""

		switch {
		case product.ProductName == "":
			reason = DropMissingName
		case !product.Price.Valid:
			reason = DropMissingPrice
		}

		if reason != "" {
			res.Stats.Dropped = append(res.Stats.Dropped, DroppedRow{Row: i + 1, ProductName: product.ProductName, Reason: reason})
			p.log.Debug("row dropped", "row", i+1, "product", product.ProductName, "reason", reason)

			continue
		}

		kept = append(kept, product)
	}

	// 3. Remove exact duplicates
	res.Products, res.Stats.DuplicatesRemoved = Deduplicate(kept)
	res.Stats.RowsWritten = len(res.Products)

	p.log.Info("cleaning finished",
		"rows_read", res.Stats.RowsRead,
		"rows_written", res.Stats.RowsWritten,
		"dropped_price", res.Stats.DroppedCount(DropMissingPrice),
		"dropped_name", res.Stats.DroppedCount(DropMissingName),
		"duplicates", res.Stats.DuplicatesRemoved,
	)

	return res, nil
}

// Deduplicate removes rows whose serialized content repeats an earlier row,
// keeping first-occurrence order.
func Deduplicate(products []models.Product) ([]models.Product, int) {
	seen := make(map[string]bool, len(products))
	out := make([]models.Product, 0, len(products))

	for i := range products {
		key := products[i].Key()
		if seen[key] {
			continue
		}

		seen[key] = true
		out = append(out, products[i])
	}

	return out, len(products) - len(out)
}
