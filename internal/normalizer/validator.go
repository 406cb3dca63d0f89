package normalizer

import (
	"errors"
	"fmt"
	"strings"

	"vacuumclean/internal/models"
)

// Validation errors.
var (
	ErrNilTable      = errors.New("raw table is nil")
	ErrMissingColumn = errors.New("required source column missing from input header")
)

// Outcome is the result of checking a value against its Bounds.
type Outcome int

// Range validation outcomes.
const (
	Accepted Outcome = iota
	Corrected
	Rejected
)

func (o Outcome) String() string {
	switch o {
	case Accepted:
		return "accepted"
	case Corrected:
		return "corrected"
	default:
		return "rejected"
	}
}

// Bounds is the plausible [Min, Max] range of a numeric column. Divisors are
// tried in order on values above Max; the first quotient that lands in range
// is accepted.
type Bounds struct {
	Divisors []float64
	Min      float64
	Max      float64
}

// Contains reports whether v lies in [Min, Max].
func (b Bounds) Contains(v float64) bool {
	return models.InRange(v, b.Min, b.Max)
}

// Heal checks v against the bounds and applies the first divisor that brings
// an oversized value into range. Rejected values return 0.
func (b Bounds) Heal(v float64) (float64, Outcome) {
	if b.Contains(v) {
		return v, Accepted
	}

	if v > b.Max {
		for _, d := range b.Divisors {
			if c := v / d; b.Contains(c) {
				return c, Corrected
			}
		}
	}

	return 0, Rejected
}

// Validator checks pipeline preconditions.
type Validator struct {
	required []string
}

// NewValidator creates a validator requiring the given source columns.
func NewValidator(required []string) *Validator {
	return &Validator{required: required}
}

// ValidateHeader fails when any required source column is absent from header.
func (v *Validator) ValidateHeader(header []string) error {
	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[h] = true
	}

	var missing []string

	for _, col := range v.required {
		if !present[col] {
			missing = append(missing, col)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}

	return nil
}
