package normalizer

import (
	"vacuumclean/internal/config"
	"vacuumclean/internal/models"
)

// ColumnMapping renames one source column of the collector export.
type ColumnMapping struct {
	Source string
	Target string
}

// DefaultColumns is the projection applied to every collector export. Every
// source column listed here must be present in the input header.
var DefaultColumns = []ColumnMapping{
	{Source: "product_name", Target: models.ColProductName},
	{Source: "price", Target: models.ColPrice},
	{Source: "rating", Target: models.ColRating},
	{Source: "rating_count", Target: models.ColRatingCount},
	{Source: "Key specifications  Robot type", Target: models.ColRobotType},
	{Source: "Key specifications  Robot vacuum cleaner height i", Target: models.ColHeight},
	{Source: "Key specifications  Battery life", Target: models.ColBatteryLife},
	{Source: "Key specifications  Max. noise level", Target: models.ColNoiseLevel},
	{Source: "Key specifications  Robot vacuum cleaner features", Target: models.ColFeatures},
	{Source: "Key specifications  Smart home ecosystem", Target: models.ColSmartHomeEcosystem},
	{Source: "General information  Manufacturer", Target: models.ColManufacturer},
	{Source: "Robot vacuum cleaner properties  Max. Suction power i", Target: models.ColSuctionPower},
	{Source: "Robot vacuum cleaner properties  Filter + Dust bag volume", Target: models.ColDustCapacity},
	{Source: "Robot vacuum cleaner properties  Water tank capacity", Target: models.ColWaterCapacity},
	{Source: "Robot vacuum cleaner properties  Suitable surfaces", Target: models.ColSuitableSurfaces},
	{Source: "Robot vacuum cleaner properties  Max. Height door sill", Target: models.ColMaxThreshold},
	{Source: "Robot vacuum cleaner properties  Room area i", Target: models.ColRoomArea},
	{Source: "Battery properties  Battery life", Target: models.ColBatteryLifeSpec},
	{Source: "Battery properties  Charging time", Target: models.ColChargingTime},
	{Source: "Battery properties  Battery type", Target: models.ColBatteryType},
	{Source: "Battery properties  Capacity", Target: models.ColBatteryCapacity},
	{Source: "Colour  Colour", Target: models.ColColorBasic},
	{Source: "Colour  Exact colour description", Target: models.ColColorExact},
	{Source: "Model  Model name", Target: models.ColModelName},
	{Source: "Smart home features  Smart Home", Target: models.ColSmartHome},
	{Source: "Product dimensions  Weight", Target: models.ColWeight},
}

// Rules is the full, injectable configuration of the cleaning pipeline.
type Rules struct {
	Bounds     map[string]Bounds
	Overrides  map[string]map[string]float64 // column -> product name -> value
	Columns    []ColumnMapping
	Extractors []ExtractRule
}

// SourceColumns lists the source names the projection requires.
func (r Rules) SourceColumns() []string {
	cols := make([]string, len(r.Columns))
	for i, m := range r.Columns {
		cols[i] = m.Source
	}

	return cols
}

// DefaultRules builds rules from the built-in configuration.
func DefaultRules() Rules {
	return RulesFromConfig(config.Default())
}

// RulesFromConfig builds rules from a loaded configuration.
func RulesFromConfig(cfg *config.Config) Rules {
	bounds := make(map[string]Bounds, len(cfg.Cleaner.Bounds))
	for col, b := range cfg.Cleaner.Bounds {
		bounds[col] = Bounds{
			Min:      b.Min,
			Max:      b.Max,
			Divisors: append([]float64(nil), b.Divisors...),
		}
	}

	overrides := make(map[string]map[string]float64, len(cfg.Cleaner.Overrides))
	for col, table := range cfg.Cleaner.Overrides {
		cp := make(map[string]float64, len(table))
		for name, v := range table {
			cp[name] = v
		}

		overrides[col] = cp
	}

	return Rules{
		Columns:    DefaultColumns,
		Extractors: DefaultExtractRules,
		Bounds:     bounds,
		Overrides:  overrides,
	}
}
