package normalizer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"vacuumclean/internal/models"
)

func TestExtractRule_Extract(t *testing.T) {
	tests := []struct {
		column string
		raw    string
		want   models.Number
		parsed bool
	}{
		{column: models.ColNoiseLevel, raw: "65 dB", want: models.Some(65), parsed: true},
		{column: models.ColNoiseLevel, raw: "65.5dB", want: models.Some(65.5), parsed: true},
		{column: models.ColSuctionPower, raw: "2600 Pa", want: models.Some(2600), parsed: true},
		{column: models.ColBatteryCapacity, raw: "2600mAh", want: models.Some(2600), parsed: true},
		{column: models.ColRoomArea, raw: "120 m²", want: models.Some(120), parsed: true},
		{column: models.ColHeight, raw: "9.7 cm", want: models.Some(9.7), parsed: true},
		{column: models.ColMaxThreshold, raw: "2 cm", want: models.Some(2), parsed: true},
		{column: models.ColDustCapacity, raw: "0.45 l", want: models.Some(0.45), parsed: true},
		{column: models.ColWaterCapacity, raw: "nan", want: models.Number{}, parsed: true},
		{column: models.ColWaterCapacity, raw: "", want: models.Number{}, parsed: true},
		{column: models.ColNoiseLevel, raw: "quiet", want: models.Number{}, parsed: false},
		{column: models.ColBatteryLife, raw: "45 min", want: models.Some(45), parsed: true},
		{column: models.ColBatteryLife, raw: "180min", want: models.Some(180), parsed: true},
		{column: models.ColBatteryLife, raw: "120", want: models.Some(120), parsed: true},
		{column: models.ColChargingTime, raw: "1 h 30 min", want: models.Some(30), parsed: true},
		{column: models.ColChargingTime, raw: "2 h", want: models.Number{}, parsed: false},
		{column: models.ColBatteryLifeSpec, raw: "about an hour", want: models.Number{}, parsed: false},
		{column: models.ColPrice, raw: "CHF 1'440.05", want: models.Some(1440.05), parsed: true},
		{column: models.ColPrice, raw: "1440.-", want: models.Some(1440), parsed: true},
		{column: models.ColPrice, raw: "1,199.00", want: models.Some(1199), parsed: true},
		{column: models.ColPrice, raw: "14400.50", want: models.Some(14400.5), parsed: true},
		{column: models.ColPrice, raw: "sold out", want: models.Number{}, parsed: false},
		{column: models.ColRating, raw: "4.5", want: models.Some(4.5), parsed: true},
		{column: models.ColRatingCount, raw: "1,234", want: models.Some(1234), parsed: true},
		{column: models.ColRatingCount, raw: "(87)", want: models.Some(87), parsed: true},
		{column: models.ColRatingCount, raw: "12.5", want: models.Number{}, parsed: false},
		{column: models.ColRatingCount, raw: "1.024", want: models.Number{}, parsed: false},
		{column: models.ColRatingCount, raw: "12.0", want: models.Some(12), parsed: true},
		{column: models.ColPrice, raw: "-899", want: models.Some(-899), parsed: true},
		{column: models.ColPrice, raw: "- CHF 1'440.05", want: models.Some(-1440.05), parsed: true},
		{column: models.ColRating, raw: "-1", want: models.Some(-1), parsed: true},
		{column: models.ColNoiseLevel, raw: "-65 dB", want: models.Some(-65), parsed: true},
	}

	for _, tt := range tests {
		t.Run(tt.column+"/"+tt.raw, func(t *testing.T) {
			got, parsed := ruleFor(tt.column).Extract(tt.raw)
			assert.Equal(t, tt.parsed, parsed)
			assert.Equal(t, tt.want.Valid, got.Valid)
			assert.InDelta(t, tt.want.Value, got.Value, 1e-9)
		})
	}
}

func TestDefaultExtractRules_CoverNumericColumns(t *testing.T) {
	var p models.Product

	covered := map[string]bool{}
	for _, r := range DefaultExtractRules {
		_, ok := p.NumberField(r.Column)
		assert.True(t, ok, "rule column %q is not numeric", r.Column)
		covered[r.Column] = true
	}

	for _, col := range models.Columns {
		if _, ok := p.NumberField(col); ok {
			assert.True(t, covered[col], "numeric column %q has no extract rule", col)
		}
	}
}

func TestUnits(t *testing.T) {
	units := Units(DefaultExtractRules)
	assert.Equal(t, "mAh", units[models.ColBatteryCapacity])
	assert.Equal(t, "Pa", units[models.ColSuctionPower])
	assert.Equal(t, "min", units[models.ColChargingTime])
}
