package normalizer

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"vacuumclean/internal/models"
	"vacuumclean/pkg/utils"
)

var (
	decimalPattern = regexp.MustCompile(`(\d+\.?\d*)`)
	integerPattern = regexp.MustCompile(`(\d+)`)
	minutesPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*min`)
	plainNumber    = regexp.MustCompile(`^\d+(?:\.\d+)?$`)

	nonPriceChars = regexp.MustCompile(`[^\d.]`)
	thousandMarks = regexp.MustCompile(`[,'’\s]`)
)

// ExtractRule turns the free text of one column into a number. Strip, when
// set, removes matching characters before Pattern runs; the first capture
// group of Pattern is the value. Text that is already a plain number passes
// through unchanged. A leading minus sign is kept. Whole rules reject
// values with a fractional part.
type ExtractRule struct {
	Pattern *regexp.Regexp
	Strip   *regexp.Regexp
	Column  string
	Unit    string
	Whole   bool
}

// DefaultExtractRules is the rule table for every numeric column.
var DefaultExtractRules = []ExtractRule{
	{Column: models.ColPrice, Pattern: decimalPattern, Strip: nonPriceChars, Unit: "CHF"},
	{Column: models.ColRating, Pattern: decimalPattern},
	{Column: models.ColRatingCount, Pattern: integerPattern, Strip: thousandMarks, Whole: true},
	{Column: models.ColNoiseLevel, Pattern: decimalPattern, Unit: "dB"},
	{Column: models.ColSuctionPower, Pattern: integerPattern, Unit: "Pa"},
	{Column: models.ColRoomArea, Pattern: integerPattern, Unit: "m²"},
	{Column: models.ColBatteryCapacity, Pattern: integerPattern, Unit: "mAh"},
	{Column: models.ColHeight, Pattern: decimalPattern, Unit: "cm"},
	{Column: models.ColMaxThreshold, Pattern: integerPattern, Unit: "cm"},
	{Column: models.ColDustCapacity, Pattern: decimalPattern, Unit: "l"},
	{Column: models.ColWaterCapacity, Pattern: decimalPattern, Unit: "l"},
	{Column: models.ColBatteryLife, Pattern: minutesPattern, Unit: "min"},
	{Column: models.ColBatteryLifeSpec, Pattern: minutesPattern, Unit: "min"},
	{Column: models.ColChargingTime, Pattern: minutesPattern, Unit: "min"},
}

// Units maps each numeric column of rules to its unit label.
func Units(rules []ExtractRule) map[string]string {
	units := make(map[string]string, len(rules))
	for _, r := range rules {
		units[r.Column] = r.Unit
	}

	return units
}

// Extract parses raw with the rule. The second result is false only when raw
// carried text that could not be parsed; missing cells return (absent, true).
func (r ExtractRule) Extract(raw string) (models.Number, bool) {
	if utils.IsMissing(raw) {
		return models.Number{}, true
	}

	s := strings.TrimSpace(raw)

	neg := strings.HasPrefix(s, "-")
	if neg {
		s = strings.TrimSpace(s[1:])
	}

	if r.Strip != nil {
		s = r.Strip.ReplaceAllString(s, "")
	}

	if !plainNumber.MatchString(s) {
		m := r.Pattern.FindStringSubmatch(s)
		if len(m) < 2 {
			return models.Number{}, false
		}

		s = m[1]
	}

	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "."), 64)
	if err != nil {
		return models.Number{}, false
	}

	if r.Whole && v != math.Trunc(v) {
		return models.Number{}, false
	}

	if neg {
		v = -v
	}

	return models.Some(v), true
}
