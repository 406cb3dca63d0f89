package normalizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vacuumclean/internal/models"
)

func TestNewTransformer(t *testing.T) {
	tr := NewTransformer(DefaultRules())
	require.NotNil(t, tr)
}

func TestTransformer_Project(t *testing.T) {
	tr := NewTransformer(DefaultRules())

	rec := rawRecord(map[string]string{
		models.ColProductName:  "Roborock S8",
		models.ColManufacturer: "Roborock",
	})

	row := tr.Project(rec)
	assert.Equal(t, "Roborock S8", row[models.ColProductName])
	assert.Equal(t, "Roborock", row[models.ColManufacturer])
	assert.NotContains(t, row, "Product URL")
	assert.Len(t, row, len(DefaultColumns))
}

func TestTransformer_Transform(t *testing.T) {
	tr := NewTransformer(DefaultRules())

	rec := rawRecord(map[string]string{
		models.ColProductName:        "  Roborock   S8 MaxV Ultra ",
		models.ColPrice:              "1299.00",
		models.ColRating:             "4.6",
		models.ColRatingCount:        "1,024",
		models.ColRobotType:          "Vacuum and mopping robot",
		models.ColHeight:             "10.3 cm",
		models.ColBatteryLife:        "180 min",
		models.ColNoiseLevel:         "67 dB",
		models.ColFeatures:           "Laser navigation, Base station, Carpet detection",
		models.ColSmartHomeEcosystem: "Amazon Alexa, Google Home",
		models.ColManufacturer:       "Roborock",
		models.ColSuctionPower:       "10000 Pa",
		models.ColDustCapacity:       "0.35 l",
		models.ColWaterCapacity:      "nan",
		models.ColSuitableSurfaces:   "Carpet, Hard floor",
		models.ColMaxThreshold:       "2 cm",
		models.ColRoomArea:           "300 m²",
		models.ColBatteryLifeSpec:    "180 min",
		models.ColChargingTime:       "390 min",
		models.ColBatteryType:        "Lithium-ion",
		models.ColBatteryCapacity:    "52000 mAh",
		models.ColColorBasic:         "Black",
		models.ColColorExact:         "",
		models.ColModelName:          "S8 MaxV Ultra",
		models.ColWeight:             "4.9 kg",
	})

	p, events := tr.Transform(rec)

	assert.Equal(t, "Roborock S8 MaxV Ultra", p.ProductName)
	assert.Equal(t, models.Some(1299), p.Price)
	assert.Equal(t, models.Some(4.6), p.Rating)
	assert.Equal(t, models.Some(1024), p.RatingCount)
	assert.Equal(t, models.Some(10.3), p.Height)
	assert.Equal(t, models.Some(180), p.BatteryLife)
	assert.Equal(t, models.Some(67), p.NoiseLevel)
	assert.Equal(t, models.Some(10000), p.SuctionPower)
	assert.Equal(t, models.Some(0.35), p.DustCapacity)
	assert.False(t, p.WaterCapacity.Valid)
	assert.Equal(t, models.Some(390), p.ChargingTime)
	assert.Equal(t, models.Some(5200), p.BatteryCapacity)
	assert.Equal(t, []string{"Laser navigation", "Base station", "Carpet detection"}, p.Features)
	assert.Equal(t, []string{"Amazon Alexa", "Google Home"}, p.SmartHomeEcosystem)
	assert.Equal(t, []string{"Carpet", "Hard floor"}, p.SuitableSurfaces)
	assert.Equal(t, []string{"Black"}, p.Color)
	assert.Equal(t, "Lithium-ion", p.BatteryType)
	assert.Equal(t, "4.9 kg", p.Weight)
	assert.Equal(t, "", p.SmartHome)

	require.Len(t, events, 1)
	assert.Equal(t, Event{
		Column: models.ColBatteryCapacity,
		Kind:   EventCorrected,
		Raw:    "52000 mAh",
		From:   52000,
		To:     5200,
	}, events[0])
}

func TestTransformer_Transform_PriceOverride(t *testing.T) {
	tr := NewTransformer(DefaultRules())

	rec := rawRecord(map[string]string{
		models.ColProductName: "Samsung Jet Bot Combo AI Steam+ (VR9700)",
		models.ColPrice:       "144005",
	})

	p, events := tr.Transform(rec)

	assert.Equal(t, models.Some(1440.05), p.Price)
	require.Len(t, events, 1)
	assert.Equal(t, EventOverride, events[0].Kind)
	assert.Equal(t, models.ColPrice, events[0].Column)
}

func TestTransformer_Transform_BatteryOverrideBeatsHealing(t *testing.T) {
	tr := NewTransformer(DefaultRules())

	// The raw value is beyond every divisor; the override applies regardless.
	rec := rawRecord(map[string]string{
		models.ColProductName:     "Liectroux V3SPro",
		models.ColPrice:           "299",
		models.ColBatteryCapacity: "440000000 mAh",
	})

	p, events := tr.Transform(rec)

	assert.Equal(t, models.Some(4400), p.BatteryCapacity)
	require.Len(t, events, 1)
	assert.Equal(t, EventOverride, events[0].Kind)
}

func TestTransformer_Transform_InjectedOverrides(t *testing.T) {
	rules := DefaultRules()
	rules.Overrides = map[string]map[string]float64{
		models.ColNoiseLevel: {"Quiet Bot": 48},
	}

	tr := NewTransformer(rules)

	p, _ := tr.Transform(rawRecord(map[string]string{
		models.ColProductName: "Quiet Bot",
		models.ColPrice:       "14400.50",
		models.ColNoiseLevel:  "very quiet",
	}))

	assert.Equal(t, models.Some(48), p.NoiseLevel)
	assert.True(t, p.Price.Valid)
	assert.InDelta(t, 1440.05, p.Price.Value, 1e-9)
}

func TestTransformer_Transform_Degradation(t *testing.T) {
	tr := NewTransformer(DefaultRules())

	rec := rawRecord(map[string]string{
		models.ColProductName:     "Budget Bot",
		models.ColPrice:           "9999999",
		models.ColNoiseLevel:      "quiet",
		models.ColBatteryCapacity: "500 mAh",
		models.ColRating:          "7.5",
	})

	p, events := tr.Transform(rec)

	assert.False(t, p.Price.Valid)
	assert.False(t, p.NoiseLevel.Valid)
	assert.False(t, p.BatteryCapacity.Valid)
	assert.False(t, p.Rating.Valid)

	kinds := map[string]EventKind{}
	for _, ev := range events {
		kinds[ev.Column] = ev.Kind
	}

	assert.Equal(t, map[string]EventKind{
		models.ColPrice:           EventRejected,
		models.ColNoiseLevel:      EventUnparseable,
		models.ColBatteryCapacity: EventRejected,
		models.ColRating:          EventRejected,
	}, kinds)
}

func TestTransformer_Transform_SignAndWholeCounts(t *testing.T) {
	tr := NewTransformer(DefaultRules())

	p, events := tr.Transform(rawRecord(map[string]string{
		models.ColProductName:  "Odd Bot",
		models.ColPrice:        "-899",
		models.ColRating:       "-1",
		models.ColRatingCount:  "12.5",
		models.ColSuctionPower: "-2600 Pa",
	}))

	assert.False(t, p.Price.Valid)
	assert.False(t, p.Rating.Valid)
	assert.False(t, p.RatingCount.Valid)
	assert.False(t, p.SuctionPower.Valid)

	require.Len(t, events, 4)
	assert.Equal(t, Event{Column: models.ColPrice, Kind: EventRejected, Raw: "-899", From: -899}, events[0])
	assert.Equal(t, Event{Column: models.ColRating, Kind: EventRejected, Raw: "-1", From: -1}, events[1])
	assert.Equal(t, Event{Column: models.ColRatingCount, Kind: EventUnparseable, Raw: "12.5"}, events[2])
	assert.Equal(t, Event{Column: models.ColSuctionPower, Kind: EventRejected, Raw: "-2600 Pa", From: -2600}, events[3])
}

func TestTransformer_Transform_DoesNotMutateInput(t *testing.T) {
	tr := NewTransformer(DefaultRules())

	rec := rawRecord(map[string]string{
		models.ColProductName: " Spaced  Name ",
		models.ColPrice:       "14400.50",
	})

	before := map[string]string{}
	for k, v := range rec {
		before[k] = v
	}

	tr.Transform(rec)

	assert.Equal(t, before, map[string]string(rec))
}
