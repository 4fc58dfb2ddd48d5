// Package units converts the physical quantities found in project documents
// into the canonical units the heat-load calculation works in.
//
// Every dimension has one canonical unit (degC, m2, m3/h, W, ...). Document
// fields may carry a bare number, which is taken to already be in the
// canonical unit, or a quantity string such as "68 degF" or "250 cfm", which
// is converted on parse. Unit spellings are normalized before lookup, so
// "m³/h", "m**3/hr" and "m3/h" are the same unit.
package units

import (
	"fmt"
	"strings"
)

// conversion maps a value to the canonical unit: canonical = value*factor + offset.
// Offsets only occur for absolute temperature scales.
type conversion struct {
	factor float64
	offset float64
}

// Dimension describes one physical dimension and the unit spellings it accepts.
type Dimension struct {
	name      string
	canonical string
	units     map[string]conversion
}

// Name returns the human-readable dimension name used in error messages.
func (d Dimension) Name() string { return d.name }

// Canonical returns the unit bare numbers are assumed to be in.
func (d Dimension) Canonical() string { return d.canonical }

var (
	// Temperature is an absolute temperature in degC.
	Temperature = Dimension{
		name:      "temperature",
		canonical: "degC",
		units: map[string]conversion{
			"degC": {factor: 1},
			"degF": {factor: 5.0 / 9.0, offset: -160.0 / 9.0},
			"K":    {factor: 1, offset: -273.15},
		},
	}

	// TemperatureDelta is a temperature difference or correction in K.
	TemperatureDelta = Dimension{
		name:      "temperature difference",
		canonical: "K",
		units: map[string]conversion{
			"K":    {factor: 1},
			"degC": {factor: 1},
			"degF": {factor: 5.0 / 9.0},
		},
	}

	// Length is a length or height in m.
	Length = Dimension{
		name:      "length",
		canonical: "m",
		units: map[string]conversion{
			"m":  {factor: 1},
			"cm": {factor: 0.01},
			"mm": {factor: 0.001},
			"ft": {factor: 0.3048},
			"in": {factor: 0.0254},
		},
	}

	// Area is a surface area in m2.
	Area = Dimension{
		name:      "area",
		canonical: "m2",
		units: map[string]conversion{
			"m2":  {factor: 1},
			"cm2": {factor: 1e-4},
			"ft2": {factor: 0.09290304},
		},
	}

	// Volume is an air or room volume in m3.
	Volume = Dimension{
		name:      "volume",
		canonical: "m3",
		units: map[string]conversion{
			"m3":  {factor: 1},
			"dm3": {factor: 0.001},
			"L":   {factor: 0.001},
			"l":   {factor: 0.001},
			"ft3": {factor: 0.028316846592},
		},
	}

	// Airflow is a volume flow in m3/h.
	Airflow = Dimension{
		name:      "airflow",
		canonical: "m3/h",
		units: map[string]conversion{
			"m3/h": {factor: 1},
			"L/s":  {factor: 3.6},
			"l/s":  {factor: 3.6},
			"m3/s": {factor: 3600},
			"cfm":  {factor: 1.69901079552},
		},
	}

	// Power is a heat flow in W.
	Power = Dimension{
		name:      "power",
		canonical: "W",
		units: map[string]conversion{
			"W":     {factor: 1},
			"kW":    {factor: 1000},
			"BTU/h": {factor: 0.29307107},
		},
	}

	// PowerDensity is a floor-area related power in W/m2.
	PowerDensity = Dimension{
		name:      "power density",
		canonical: "W/m2",
		units: map[string]conversion{
			"W/m2":  {factor: 1},
			"kW/m2": {factor: 1000},
		},
	}

	// Transmittance is a thermal transmittance (U-value) in W/(m2*K).
	Transmittance = Dimension{
		name:      "transmittance",
		canonical: "W/(m2*K)",
		units: map[string]conversion{
			"W/(m2*K)":         {factor: 1},
			"W/m2K":            {factor: 1},
			"W/(m2K)":          {factor: 1},
			"BTU/(h*ft2*degF)": {factor: 5.678263},
		},
	}

	// TemperatureGradient is a vertical temperature gradient in K/m.
	TemperatureGradient = Dimension{
		name:      "temperature gradient",
		canonical: "K/m",
		units: map[string]conversion{
			"K/m":    {factor: 1},
			"degC/m": {factor: 1},
		},
	}

	// AirChangeRate is an air change rate in 1/h.
	AirChangeRate = Dimension{
		name:      "air change rate",
		canonical: "1/h",
		units: map[string]conversion{
			"1/h": {factor: 1},
			"ach": {factor: 1},
		},
	}

	// Pressure is a pressure difference in Pa.
	Pressure = Dimension{
		name:      "pressure",
		canonical: "Pa",
		units: map[string]conversion{
			"Pa":   {factor: 1},
			"hPa":  {factor: 100},
			"kPa":  {factor: 1000},
			"mbar": {factor: 100},
			"bar":  {factor: 100000},
		},
	}

	// AirPermeability is an envelope air permeability in m3/(m2*h).
	AirPermeability = Dimension{
		name:      "air permeability",
		canonical: "m3/(m2*h)",
		units: map[string]conversion{
			"m3/(m2*h)": {factor: 1},
			"m3/m2h":    {factor: 1},
			"m/h":       {factor: 1},
		},
	}

	// HeatCapacity is a volume-specific heat storage capacity in Wh/(m3*K).
	HeatCapacity = Dimension{
		name:      "heat capacity",
		canonical: "Wh/(m3*K)",
		units: map[string]conversion{
			"Wh/(m3*K)":  {factor: 1},
			"Wh/m3K":     {factor: 1},
			"kWh/(m3*K)": {factor: 1000},
			"kJ/(m3*K)":  {factor: 1.0 / 3.6},
		},
	}

	// Duration is a time span in h.
	Duration = Dimension{
		name:      "duration",
		canonical: "h",
		units: map[string]conversion{
			"h":   {factor: 1},
			"min": {factor: 1.0 / 60.0},
			"s":   {factor: 1.0 / 3600.0},
			"d":   {factor: 24},
		},
	}

	// Dimensionless covers bare factors and exponents.
	Dimensionless = Dimension{
		name:      "dimensionless",
		canonical: "",
		units: map[string]conversion{
			"": {factor: 1},
		},
	}
)

// Convert converts a value from the given unit to the canonical unit of d.
// An empty unit means the value is already canonical.
func Convert(value float64, unit string, d Dimension) (float64, error) {
	if unit == "" {
		return value, nil
	}
	conv, ok := d.units[normalizeUnit(unit)]
	if !ok {
		return 0, fmt.Errorf("unknown %s unit %q (canonical unit is %q)", d.name, unit, d.canonical)
	}
	return value*conv.factor + conv.offset, nil
}

// unitReplacer folds common spelling variants into the table spellings:
// unicode signs, Python-style exponents and the "hr" hour token.
var unitReplacer = strings.NewReplacer(
	" ", "",
	"**", "",
	"^", "",
	"²", "2",
	"³", "3",
	"°", "deg",
	"·", "*",
	"hr", "h",
)

func normalizeUnit(unit string) string {
	return unitReplacer.Replace(strings.TrimSpace(unit))
}
