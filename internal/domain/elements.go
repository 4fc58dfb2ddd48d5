package domain

import "math"

// ElementCategory classifies a building element by what lies on its far
// side, which selects the heat-loss formula for the element.
type ElementCategory string

const (
	// CategoryExterior faces external air directly.
	CategoryExterior ElementCategory = "exterior"
	// CategoryAdjacentHeated faces another heated space of the same entity.
	CategoryAdjacentHeated ElementCategory = "adjacent_heated"
	// CategoryAdjacentEntity faces a space in another building entity.
	CategoryAdjacentEntity ElementCategory = "adjacent_entity"
	// CategoryAdjacentUnheated faces an unheated space or a neighbouring
	// building, i.e. loses heat to the exterior indirectly.
	CategoryAdjacentUnheated ElementCategory = "adjacent_unheated"
	// CategoryGround faces the ground through a floor slab.
	CategoryGround ElementCategory = "ground"
)

func knownCategory(c ElementCategory) bool {
	switch c {
	case CategoryExterior, CategoryAdjacentHeated, CategoryAdjacentEntity, CategoryAdjacentUnheated, CategoryGround:
		return true
	}
	return false
}

// Default factors for element heat-loss coefficients, EN 12831-1 Annex B.2.
const (
	defaultThermalBridge = 0.1  // dU_tb, W/(m2*K), blanket thermal bridge surcharge
	defaultUCorrection   = 1.0  // f_U
	defaultAnnualFactor  = 1.45 // f_dT_an, annual variation of the external temperature
	defaultGroundWater   = 1.0  // f_gw
)

// BuildingElement is one compiled surface of a heated space. All values are
// in canonical units; TempFactor and Coefficient are filled in once the
// effective external design temperature is known.
type BuildingElement struct {
	Name     string
	Category ElementCategory
	Area     float64 // m2
	UValue   float64 // W/(m2*K)

	ThermalBridge float64 // dU_tb, exterior and ground only
	UCorrection   float64 // f_U, exterior only
	AdjacentTemp  float64 // T_adj, adjacent categories only

	SlabArea     float64 // A_g, ground only
	Perimeter    float64 // P, ground only
	Depth        float64 // z, ground only
	AnnualFactor float64 // f_dT_an, ground only
	GroundWater  float64 // f_gw, ground only
	EquivalentU  float64 // U_equiv, ground only

	TempFactor  float64 // f_T
	Coefficient float64 // H, W/K

	// f1 override from the document; nil selects the default
	// (T_i_d - T_adj) / (T_i_d - T_e_d).
	f1 *float64

	// Coefficient before the temperature adjustment factor. Summed over the
	// building it gives the untempered transfer coefficient used for the
	// building time constant.
	untempered float64
}

// untemperedCoefficient returns the element's A*U product with the
// category-specific surcharges but without f_T.
func (el *BuildingElement) untemperedCoefficient() float64 {
	switch el.Category {
	case CategoryExterior:
		return el.Area * (el.UValue + el.ThermalBridge) * el.UCorrection
	case CategoryGround:
		return el.AnnualFactor * el.Area * el.EquivalentU * el.GroundWater
	default:
		return el.Area * el.UValue
	}
}

// temper computes the temperature adjustment factor f_T = f1 + f2 and the
// final heat-loss coefficient H. The far-side temperature is the external
// design temperature for exterior elements, the annual mean external
// temperature for ground elements, and T_adj otherwise. f2 corrects for
// elevated surface temperatures in tall rooms and vanishes when the surface
// temperature equals the design temperature.
//
// Callers guarantee designTemp > externalTemp.
func (el *BuildingElement) temper(designTemp, surfaceTemp, externalTemp, annualMean float64) {
	farSide := el.AdjacentTemp
	switch el.Category {
	case CategoryExterior:
		farSide = externalTemp
	case CategoryGround:
		farSide = annualMean
	}

	f1 := (designTemp - farSide) / (designTemp - externalTemp)
	if el.f1 != nil {
		f1 = *el.f1
	}
	f2 := (surfaceTemp - designTemp) / (designTemp - externalTemp)

	el.TempFactor = f1 + f2
	el.Coefficient = el.untempered * el.TempFactor
}

// groundRegression holds one parameter set of the EN 12831-1 Annex E curve
// fit for the equivalent thermal transmittance of floor slabs.
type groundRegression struct {
	a, b, d float64
	c       [3]float64
	n       [3]float64
}

var (
	// Slab top edge at ground level (z = 0).
	groundAtGrade = groundRegression{
		a: 0.9671,
		b: -7.455,
		c: [3]float64{10.76, 9.773, 0.0265},
		d: -0.0203,
		n: [3]float64{0.5532, 0.6027, -0.9296},
	}
	// Slab top edge below ground level (z > 0).
	groundBuried = groundRegression{
		a: 0.93328,
		b: -2.1552,
		c: [3]float64{0, 1.466, 0.1006},
		d: -0.0692,
		n: [3]float64{0, 0.45325, -1.0068},
	}
)

// equivalentGroundU evaluates the Annex E regression
//
//	U_equiv = a / (b + (c0+B')^n0 + (c1+z)^n1 + (c2+U+dU_tb)^n2) + d
//
// with the characteristic floor dimension B' = A_g / (0.5 * P).
func equivalentGroundU(slabArea, perimeter, depth, uValue, thermalBridge float64) float64 {
	reg := groundAtGrade
	if depth > 0 {
		reg = groundBuried
	}

	b := slabArea / (0.5 * perimeter)
	tB := math.Pow(reg.c[0]+b, reg.n[0])
	tZ := math.Pow(reg.c[1]+depth, reg.n[1])
	tU := math.Pow(reg.c[2]+uValue+thermalBridge, reg.n[2])
	return reg.a/(reg.b+tB+tZ+tU) + reg.d
}

// CoefficientSet groups a space's transmission heat-loss coefficients by
// element category, in W/K.
type CoefficientSet struct {
	Exterior         float64 `json:"exterior"`          // HT_ie
	AdjacentHeated   float64 `json:"adjacent_heated"`   // HT_ia
	AdjacentEntity   float64 `json:"adjacent_entity"`   // HT_iaBE
	AdjacentUnheated float64 `json:"adjacent_unheated"` // HT_iae
	Ground           float64 `json:"ground"`            // HT_ig
}

// Total sums all five coefficients.
func (c CoefficientSet) Total() float64 {
	return c.Exterior + c.AdjacentHeated + c.AdjacentEntity + c.AdjacentUnheated + c.Ground
}
