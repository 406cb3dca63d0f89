package normalizer

import (
	"vacuumclean/internal/models"
	"vacuumclean/pkg/utils"
)

// EventKind classifies a change the transformer made to a field.
type EventKind string

// Field events recorded per row.
const (
	EventOverride    EventKind = "override"
	EventCorrected   EventKind = "corrected"
	EventRejected    EventKind = "rejected"
	EventUnparseable EventKind = "unparseable"
)

// Event records one silent correction or degradation of a field.
type Event struct {
	Column string
	Kind   EventKind
	Raw    string
	From   float64
	To     float64
}

// Transformer converts one raw record into a cleaned product.
type Transformer struct {
	rules Rules
}

// NewTransformer creates a new transformer instance.
func NewTransformer(rules Rules) *Transformer {
	return &Transformer{rules: rules}
}

// Project selects the configured source columns of rec under their canonical
// names. Unknown columns are discarded.
func (t *Transformer) Project(rec models.RawRecord) map[string]string {
	out := make(map[string]string, len(t.rules.Columns))
	for _, m := range t.rules.Columns {
		out[m.Target] = rec[m.Source]
	}

	return out
}

// Transform converts rec into a product and returns the field events applied
// on the way. rec is not modified.
func (t *Transformer) Transform(rec models.RawRecord) (models.Product, []Event) {
	row := t.Project(rec)

	var (
		p      models.Product
		events []Event
	)

	for col, raw := range row {
		if dst, ok := p.TextField(col); ok {
			*dst = utils.CleanText(raw)
		}
	}

	for _, rule := range t.rules.Extractors {
		dst, ok := p.NumberField(rule.Column)
		if !ok {
			continue
		}

		raw := row[rule.Column]

		if v, ok := t.rules.Overrides[rule.Column][p.ProductName]; ok {
			events = append(events, Event{Column: rule.Column, Kind: EventOverride, Raw: raw, To: v})
			*dst = models.Some(v)

			continue
		}

		n, parsed := rule.Extract(raw)
		if !parsed {
			events = append(events, Event{Column: rule.Column, Kind: EventUnparseable, Raw: raw})
		}

		if b, bounded := t.rules.Bounds[rule.Column]; bounded && n.Valid {
			v, outcome := b.Heal(n.Value)

			switch outcome {
			case Corrected:
				events = append(events, Event{Column: rule.Column, Kind: EventCorrected, Raw: raw, From: n.Value, To: v})
				n = models.Some(v)
			case Rejected:
				events = append(events, Event{Column: rule.Column, Kind: EventRejected, Raw: raw, From: n.Value})
				n = models.Number{}
			}
		} else if n.Valid && n.Value < 0 {
			events = append(events, Event{Column: rule.Column, Kind: EventRejected, Raw: raw, From: n.Value})
			n = models.Number{}
		}

		*dst = n
	}

	for _, col := range []string{models.ColFeatures, models.ColSmartHomeEcosystem, models.ColSuitableSurfaces} {
		if dst, ok := p.ListField(col); ok {
			*dst = SplitList(row[col])
		}
	}

	p.Color = MergeColors(SplitList(row[models.ColColorBasic]), SplitList(row[models.ColColorExact]))

	return p, events
}
