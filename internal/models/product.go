// Package models defines the raw and cleaned product records handled by the cleaner.
package models

import (
	"strconv"
	"strings"
)

// ListSeparator joins multi-valued fields in the cleaned table.
const ListSeparator = "|"

// Canonical column names of the cleaned table.
const (
	ColProductName        = "product_name"
	ColPrice              = "price"
	ColRating             = "rating"
	ColRatingCount        = "rating_count"
	ColRobotType          = "robot_type"
	ColHeight             = "height"
	ColBatteryLife        = "battery_life"
	ColNoiseLevel         = "noise_level"
	ColFeatures           = "features"
	ColSmartHomeEcosystem = "smart_home_ecosystem"
	ColManufacturer       = "manufacturer"
	ColSuctionPower       = "suction_power"
	ColDustCapacity       = "dust_capacity"
	ColWaterCapacity      = "water_capacity"
	ColSuitableSurfaces   = "suitable_surfaces"
	ColMaxThreshold       = "max_threshold"
	ColRoomArea           = "room_area"
	ColBatteryLifeSpec    = "battery_life_spec"
	ColChargingTime       = "charging_time"
	ColBatteryType        = "battery_type"
	ColBatteryCapacity    = "battery_capacity"
	ColModelName          = "model_name"
	ColSmartHome          = "smart_home"
	ColWeight             = "weight"
	ColColor              = "color"

	// Intermediate colour columns, merged into ColColor.
	ColColorBasic = "color_basic"
	ColColorExact = "color_exact"
)

// Columns is the cleaned table header in output order.
var Columns = []string{
	ColProductName, ColPrice, ColRating, ColRatingCount, ColRobotType, ColHeight,
	ColBatteryLife, ColNoiseLevel, ColFeatures, ColSmartHomeEcosystem, ColManufacturer,
	ColSuctionPower, ColDustCapacity, ColWaterCapacity, ColSuitableSurfaces,
	ColMaxThreshold, ColRoomArea, ColBatteryLifeSpec, ColChargingTime, ColBatteryType,
	ColBatteryCapacity, ColModelName, ColSmartHome, ColWeight, ColColor,
}

// RawRecord is one scraped product row keyed by source column name.
type RawRecord map[string]string

// RawTable is a collector export: the header in file order and one record per row.
type RawTable struct {
	Header  []string
	Records []RawRecord
}

// Number is an optional numeric field. The zero value is absent.
type Number struct {
	Value float64
	Valid bool
}

// Some returns a present Number.
func Some(v float64) Number {
	return Number{Value: v, Valid: true}
}

// String formats the number as plain decimal, or "" when absent.
func (n Number) String() string {
	if !n.Valid {
		return ""
	}

	return strconv.FormatFloat(n.Value, 'f', -1, 64)
}

// InRange reports whether v lies in the closed interval [lo, hi].
func InRange(v, lo, hi float64) bool {
	return v >= lo && v <= hi
}

// Product is one cleaned product row.
type Product struct {
	ProductName  string
	RobotType    string
	Manufacturer string
	BatteryType  string
	ModelName    string
	SmartHome    string
	Weight       string

	Price           Number
	Rating          Number
	RatingCount     Number
	Height          Number
	BatteryLife     Number
	NoiseLevel      Number
	SuctionPower    Number
	DustCapacity    Number
	WaterCapacity   Number
	MaxThreshold    Number
	RoomArea        Number
	BatteryLifeSpec Number
	ChargingTime    Number
	BatteryCapacity Number

	Features           []string
	SmartHomeEcosystem []string
	SuitableSurfaces   []string
	Color              []string
}

// NumberField returns a pointer to the numeric field stored under col.
func (p *Product) NumberField(col string) (*Number, bool) {
	switch col {
	case ColPrice:
		return &p.Price, true
	case ColRating:
		return &p.Rating, true
	case ColRatingCount:
		return &p.RatingCount, true
	case ColHeight:
		return &p.Height, true
	case ColBatteryLife:
		return &p.BatteryLife, true
	case ColNoiseLevel:
		return &p.NoiseLevel, true
	case ColSuctionPower:
		return &p.SuctionPower, true
	case ColDustCapacity:
		return &p.DustCapacity, true
	case ColWaterCapacity:
		return &p.WaterCapacity, true
	case ColMaxThreshold:
		return &p.MaxThreshold, true
	case ColRoomArea:
		return &p.RoomArea, true
	case ColBatteryLifeSpec:
		return &p.BatteryLifeSpec, true
	case ColChargingTime:
		return &p.ChargingTime, true
	case ColBatteryCapacity:
		return &p.BatteryCapacity, true
	}

	return nil, false
}

// TextField returns a pointer to the text field stored under col.
func (p *Product) TextField(col string) (*string, bool) {
	switch col {
	case ColProductName:
		return &p.ProductName, true
	case ColRobotType:
		return &p.RobotType, true
	case ColManufacturer:
		return &p.Manufacturer, true
	case ColBatteryType:
		return &p.BatteryType, true
	case ColModelName:
		return &p.ModelName, true
	case ColSmartHome:
		return &p.SmartHome, true
	case ColWeight:
		return &p.Weight, true
	}

	return nil, false
}

// ListField returns a pointer to the multi-valued field stored under col.
func (p *Product) ListField(col string) (*[]string, bool) {
	switch col {
	case ColFeatures:
		return &p.Features, true
	case ColSmartHomeEcosystem:
		return &p.SmartHomeEcosystem, true
	case ColSuitableSurfaces:
		return &p.SuitableSurfaces, true
	case ColColor:
		return &p.Color, true
	}

	return nil, false
}

// Record serializes the product in Columns order.
func (p *Product) Record() []string {
	rec := make([]string, len(Columns))

	for i, col := range Columns {
		if n, ok := p.NumberField(col); ok {
			rec[i] = n.String()
			continue
		}

		if s, ok := p.TextField(col); ok {
			rec[i] = *s
			continue
		}

		if l, ok := p.ListField(col); ok {
			rec[i] = strings.Join(*l, ListSeparator)
		}
	}

	return rec
}

// Key identifies a product by the full content of its serialized row.
func (p *Product) Key() string {
	return strings.Join(p.Record(), "\x1f")
}
