package formatter

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"vacuumclean/internal/models"
	"vacuumclean/internal/normalizer"
	"vacuumclean/pkg/utils"
)

// ReportTitle heads every report run.
const ReportTitle = "VACUUM ROBOTS INFORMATION SUMMARY"

const (
	currency      = "CHF"
	noData        = "n/a"
	maxValueWidth = 60
)

// ReportOptions controls list lengths in the report.
type ReportOptions struct {
	TopN             int
	TopManufacturers int
}

// Run identifies the pipeline run a report belongs to. Stats is nil when the
// report is built from an existing cleaned table.
type Run struct {
	ID        string
	Generated time.Time
	Stats     *normalizer.Stats
}

type bucket struct {
	label string
	lo    float64
	hi    float64
}

// Price categories and rating bins are right-closed intervals (lo, hi].
var (
	priceBuckets = []bucket{
		{label: "Budget (< 200)", lo: 0, hi: 200},
		{label: "Mid-range (200-500)", lo: 200, hi: 500},
		{label: "Premium (500-1000)", lo: 500, hi: 1000},
		{label: "Luxury (> 1000)", lo: 1000, hi: math.Inf(1)},
	}

	ratingBuckets = []bucket{
		{label: "Below Average (< 3)", lo: 0, hi: 3},
		{label: "Good (3-4)", lo: 3, hi: 4},
		{label: "Very Good (4-4.5)", lo: 4, hi: 4.5},
		{label: "Excellent (4.5-5)", lo: 4.5, hi: 5},
	}
)

// BuildReport renders the summary of a cleaned table.
func BuildReport(products []models.Product, opts ReportOptions, run Run) string {
	var r report

	r.line(ReportTitle)
	r.line(strings.Repeat("=", 40))

	if run.ID != "" {
		r.line("Run: " + run.ID)
	}

	if !run.Generated.IsZero() {
		r.line("Generated: " + run.Generated.UTC().Format(time.RFC3339))
	}

	r.blank()

	if run.Stats != nil {
		r.cleaningLog(run.Stats)
	}

	total := len(products)

	r.section("1. GENERAL OVERVIEW")
	r.line(fmt.Sprintf("Total number of robot models analyzed: %d", total))

	makers := countValues(products, func(p *models.Product) []string {
		if p.Manufacturer == "" {
			return nil
		}

		return []string{p.Manufacturer}
	})

	r.line(fmt.Sprintf("Number of unique manufacturers: %d", len(makers)))
	r.line(fmt.Sprintf("Top %d manufacturers by number of models:", opts.TopManufacturers))

	for _, c := range top(makers, opts.TopManufacturers) {
		r.line(fmt.Sprintf("  - %s: %d models", utils.TruncateString(c.value, maxValueWidth), c.count))
	}

	r.blank()

	prices := values(products, func(p *models.Product) models.Number { return p.Price })

	r.section("2. PRICE ANALYSIS")
	r.line(fmt.Sprintf("Price range: %s - %s", money(minOf(prices)), money(maxOf(prices))))
	r.line("Average price: " + money(mean(prices)))
	r.line("Median price: " + money(median(prices)))
	r.blank()
	r.line("Price Categories:")
	r.buckets(priceBuckets, prices, total)
	r.blank()

	r.section("3. BATTERY AND PERFORMANCE")

	capacity := values(products, func(p *models.Product) models.Number { return p.BatteryCapacity })
	life := values(products, func(p *models.Product) models.Number { return p.BatteryLife })
	charging := values(products, func(p *models.Product) models.Number { return p.ChargingTime })
	suction := values(products, func(p *models.Product) models.Number { return p.SuctionPower })

	r.line(fmt.Sprintf("Battery Capacity Range: %s - %s mAh", whole(minOf(capacity)), whole(maxOf(capacity))))
	r.line(fmt.Sprintf("Average Battery Life: %s minutes", whole(mean(life))))
	r.line(fmt.Sprintf("Average Charging Time: %s minutes", whole(mean(charging))))
	r.line(fmt.Sprintf("Suction Power Range: %s - %s Pa", whole(minOf(suction)), whole(maxOf(suction))))
	r.blank()

	r.section("4. FEATURES ANALYSIS")
	r.line("Most Common Features:")
	r.counts(top(countValues(products, func(p *models.Product) []string { return p.Features }), opts.TopN), total)
	r.blank()

	r.section("5. SMART HOME INTEGRATION")
	r.line("Supported Smart Home Ecosystems:")
	r.counts(top(countValues(products, func(p *models.Product) []string { return p.SmartHomeEcosystem }), 0), total)
	r.blank()

	r.section("6. SURFACE COMPATIBILITY")
	r.line("Compatible Surfaces:")
	r.counts(top(countValues(products, func(p *models.Product) []string { return p.SuitableSurfaces }), opts.TopN), total)
	r.blank()

	ratings := values(products, func(p *models.Product) models.Number { return p.Rating })

	r.section("7. CUSTOMER SATISFACTION")
	r.line(fmt.Sprintf("Average Rating: %s out of 5", decimal(mean(ratings))))
	r.blank()
	r.line("Rating Distribution:")
	r.buckets(ratingBuckets, ratings, total)

	return r.String()
}

type report struct {
	lines []string
}

func (r *report) line(s string) {
	r.lines = append(r.lines, s)
}

func (r *report) blank() {
	r.lines = append(r.lines, "")
}

func (r *report) section(title string) {
	r.line(title)
	r.line(strings.Repeat("-", 20))
}

func (r *report) cleaningLog(s *normalizer.Stats) {
	r.section("0. CLEANING LOG")
	r.line(fmt.Sprintf("Rows read: %d", s.RowsRead))
	r.line(fmt.Sprintf("Rows written: %d", s.RowsWritten))
	r.line(fmt.Sprintf("Dropped (missing price): %d", s.DroppedCount(normalizer.DropMissingPrice)))
	r.line(fmt.Sprintf("Dropped (missing name): %d", s.DroppedCount(normalizer.DropMissingName)))
	r.line(fmt.Sprintf("Duplicates removed: %d", s.DuplicatesRemoved))

	if names := s.ColumnNames(); len(names) > 0 {
		units := normalizer.Units(normalizer.DefaultExtractRules)
		rows := make([][]string, 0, len(names))

		for _, col := range names {
			cs := s.Columns[col]
			rows = append(rows, []string{
				col,
				units[col],
				strconv.Itoa(cs.Overrides),
				strconv.Itoa(cs.Corrected),
				strconv.Itoa(cs.Rejected),
				strconv.Itoa(cs.Unparseable),
			})
		}

		r.blank()
		r.lines = append(r.lines, Table([]string{"Column", "Unit", "Overrides", "Corrected", "Rejected", "Unparseable"}, rows)...)
	}

	r.blank()
}

func (r *report) buckets(bs []bucket, vals []float64, total int) {
	for _, b := range bs {
		n := 0

		for _, v := range vals {
			if v > b.lo && v <= b.hi {
				n++
			}
		}

		r.line(fmt.Sprintf("  - %s: %d models (%s)", b.label, n, percent(n, total)))
	}
}

func (r *report) counts(cs []valueCount, total int) {
	for _, c := range cs {
		r.line(fmt.Sprintf("  - %s: %d models (%s)", utils.TruncateString(c.value, maxValueWidth), c.count, percent(c.count, total)))
	}
}

func (r *report) String() string {
	return strings.Join(r.lines, "\n") + "\n"
}

type valueCount struct {
	value string
	count int
}

func countValues(products []models.Product, field func(*models.Product) []string) map[string]int {
	counts := map[string]int{}

	for i := range products {
		for _, v := range field(&products[i]) {
			if v != "" {
				counts[v]++
			}
		}
	}

	return counts
}

// top orders by count descending then value ascending; n <= 0 keeps all.
func top(counts map[string]int, n int) []valueCount {
	out := make([]valueCount, 0, len(counts))
	for v, c := range counts {
		out = append(out, valueCount{value: v, count: c})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}

		return out[i].value < out[j].value
	})

	if n > 0 && len(out) > n {
		out = out[:n]
	}

	return out
}

func values(products []models.Product, field func(*models.Product) models.Number) []float64 {
	var out []float64

	for i := range products {
		if n := field(&products[i]); n.Valid {
			out = append(out, n.Value)
		}
	}

	return out
}

func minOf(vals []float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}

	m := vals[0]
	for _, v := range vals[1:] {
		m = math.Min(m, v)
	}

	return m
}

func maxOf(vals []float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}

	m := vals[0]
	for _, v := range vals[1:] {
		m = math.Max(m, v)
	}

	return m
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}

	sum := 0.0
	for _, v := range vals {
		sum += v
	}

	return sum / float64(len(vals))
}

func median(vals []float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}

	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}

	return (sorted[mid-1] + sorted[mid]) / 2
}

func money(v float64) string {
	if math.IsNaN(v) {
		return noData
	}

	return fmt.Sprintf("%s %.2f", currency, v)
}

func whole(v float64) string {
	if math.IsNaN(v) {
		return noData
	}

	return fmt.Sprintf("%.0f", v)
}

func decimal(v float64) string {
	if math.IsNaN(v) {
		return noData
	}

	return fmt.Sprintf("%.2f", v)
}

func percent(n, total int) string {
	if total == 0 {
		return "0.0%"
	}

	return fmt.Sprintf("%.1f%%", float64(n)/float64(total)*100)
}
