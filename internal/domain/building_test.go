package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// goldenHouse is a two-room single-zone project exercising every element
// category except adjacent_entity, an exhaust imbalance and ATDs. The
// expected figures below were worked out by hand from the formulas.
func goldenHouse() ProjectDocument {
	return ProjectDocument{
		Name: "demo-house",
		Climate: &ClimateDocument{
			DesignTemp: Qty(-10, ""),
			AnnualMean: Qty(10, ""),
		},
		Building: BuildingDocument{
			Name: "House",
			Entities: []EntityDocument{{
				Name: "main",
				Zones: []ZoneDocument{{
					Name:           "envelope",
					Permeability50: Qty(3, ""),
					ATDDesignFlow:  Qty(30, ""),
					Spaces: []SpaceDocument{
						{
							Name:             "living",
							DesignTemp:       Qty(20, ""),
							FloorArea:        Qty(20, ""),
							Volume:           Qty(54, ""),
							ATDDesignFlow:    Qty(20, ""),
							HeatingUpDensity: Qty(12, ""),
							HeatGains:        Qty(100, ""),
							Elements: []ElementDocument{
								{Name: "south wall", Category: "exterior", Area: Qty(12, ""), UValue: Qty(0.28, "")},
								// dU_tb: 0 is explicit, the 0.1 default must not apply.
								{Name: "window", Category: "exterior", Area: Qty(4, ""), UValue: Qty(1.3, ""), ThermalBridge: Qty(0, "")},
								{Name: "slab", Category: "ground", Area: Qty(20, ""), UValue: Qty(0.35, ""), SlabArea: Qty(48, ""), Perimeter: Qty(28, "")},
								{Name: "bath wall", Category: "adjacent_heated", Area: Qty(8, ""), UValue: Qty(1.2, ""), AdjacentTemp: Qty(24, "")},
							},
						},
						{
							Name:          "bath",
							DesignTemp:    Qty(24, ""),
							FloorArea:     Qty(6, ""),
							Volume:        Qty(16.2, ""),
							MinAirChange:  Qty(1.5, ""),
							ExhaustFlow:   Qty(40, ""),
							ATDDesignFlow: Qty(10, ""),
							Elements: []ElementDocument{
								{Name: "north wall", Category: "exterior", Area: Qty(6, ""), UValue: Qty(0.28, "")},
								{Name: "living wall", Category: "adjacent_heated", Area: Qty(8, ""), UValue: Qty(1.2, ""), AdjacentTemp: Qty(20, "")},
							},
						},
					},
				}},
			}},
		},
	}
}

func compileGoldenHouse(t *testing.T) *Building {
	t.Helper()
	b, err := CompileBuilding(goldenHouse(), ClimateRecord{DesignTemp: -10, AnnualMean: 10})
	require.NoError(t, err)
	return b
}

func TestCompileBuilding_GoldenHouse(t *testing.T) {
	b := compileGoldenHouse(t)
	require.Len(t, b.Entities, 1)
	require.Len(t, b.Entities[0].Zones, 1)

	zone := b.Entities[0].Zones[0]
	require.Len(t, zone.Spaces, 2)
	living, bath := zone.Spaces[0], zone.Spaces[1]

	t.Run("climate passes through without a correction block", func(t *testing.T) {
		assert.Equal(t, -10.0, b.Climate.DesignTemp)
		assert.Equal(t, 10.0, b.Climate.AnnualMean)
	})

	t.Run("normal rooms keep the design temperature", func(t *testing.T) {
		assert.Equal(t, 20.0, living.SurfaceTemp())
		assert.Equal(t, 20.0, living.AirTemp())
		assert.Equal(t, 24.0, bath.AirTemp())
	})

	t.Run("coefficients", func(t *testing.T) {
		c := living.Coefficients()
		assert.InEpsilon(t, 9.76, c.Exterior, 1e-9) // 4.56 wall + 5.2 window
		assert.InEpsilon(t, 3.112552546092063, c.Ground, 1e-9)
		assert.InEpsilon(t, -1.28, c.AdjacentHeated, 1e-9)
		assert.Equal(t, 0.0, c.AdjacentEntity)

		c = bath.Coefficients()
		assert.InEpsilon(t, 2.28, c.Exterior, 1e-9)
		assert.InEpsilon(t, 1.1294117647058823, c.AdjacentHeated, 1e-9)
	})

	t.Run("envelope areas skip ground and internal walls", func(t *testing.T) {
		assert.InEpsilon(t, 16.0, living.EnvelopeArea(), 1e-9)
		assert.InEpsilon(t, 6.0, bath.EnvelopeArea(), 1e-9)
		assert.InEpsilon(t, 22.0, zone.EnvelopeArea(), 1e-9)
	})

	t.Run("zone airflow chain", func(t *testing.T) {
		assert.InEpsilon(t, 162.94872379120827, zone.ATDFlow50(), 1e-9)
		assert.InEpsilon(t, 0.12010864813757219, zone.InfiltrationFactor(), 1e-9)
		assert.InEpsilon(t, 1.3749360853692218, zone.AdditionalInfiltration(), 1e-9)
		assert.InEpsilon(t, 41.37493608536922, zone.EnvelopeFlow(), 1e-9)
		assert.InEpsilon(t, 11.927324758205227, zone.LeakFlow(), 1e-9)
		assert.InEpsilon(t, 29.447611327163994, zone.ATDFlow(), 1e-9)
	})

	t.Run("space airflow distribution", func(t *testing.T) {
		assert.InEpsilon(t, 27.0, living.MinFlow(), 1e-9)
		assert.InEpsilon(t, 24.3, bath.MinFlow(), 1e-9)
		assert.Equal(t, 0.0, living.TechFlow())
		assert.InEpsilon(t, 40.0, bath.TechFlow(), 1e-9)

		assert.InEpsilon(t, 28.306158890743433, living.LeakATDFlow(), 1e-9)
		assert.InEpsilon(t, 13.068777194625785, bath.LeakATDFlow(), 1e-9)
		assert.InEpsilon(t, 28.740449189572328, living.EnvelopeFlow(), 1e-9)
		assert.InEpsilon(t, 13.503067493454678, bath.EnvelopeFlow(), 1e-9)
	})

	t.Run("space losses", func(t *testing.T) {
		assert.InEpsilon(t, 347.77657638276196, living.TransmissionLoss(), 1e-9)
		assert.InEpsilon(t, 115.92, bath.TransmissionLoss(), 1e-9)
		assert.InEpsilon(t, 293.15258173363776, living.VentilationLoss(), 1e-9)
		assert.InEpsilon(t, 156.09546022433608, bath.VentilationLoss(), 1e-9)
		assert.InEpsilon(t, 240.0, living.HeatingUpPower(), 1e-9)
		assert.InEpsilon(t, 780.9291581163998, living.HeatLoad(), 1e-9)
		assert.InEpsilon(t, 272.0154602243361, bath.HeatLoad(), 1e-9)
	})

	t.Run("zone ventilation uses the interzonal share", func(t *testing.T) {
		assert.InEpsilon(t, 439.79788505545713, zone.VentilationLoss(), 1e-9)
	})

	t.Run("entity drops internal walls", func(t *testing.T) {
		e := b.Entities[0]
		assert.InEpsilon(t, 463.6965763827619, e.TransmissionLoss(), 1e-9)
		assert.InEpsilon(t, 439.79788505545713, e.VentilationLoss(), 1e-9)
		assert.InEpsilon(t, 240.0, e.HeatingUpPower(), 1e-9)
		assert.InEpsilon(t, 100.0, e.HeatGains(), 1e-9)
	})

	t.Run("building totals", func(t *testing.T) {
		assert.InEpsilon(t, 463.6965763827619, b.TransmissionLoss(), 1e-9)
		assert.InEpsilon(t, 439.79788505545713, b.VentilationLoss(), 1e-9)
		assert.InEpsilon(t, 1043.494461438219, b.HeatLoad(), 1e-9)
		assert.InEpsilon(t, 21.37765763827619, b.UntemperedCoefficient(), 1e-9)
	})
}

func TestCompileBuilding_AdjacentEntity(t *testing.T) {
	doc := ProjectDocument{
		Name:    "row-house",
		Climate: &ClimateDocument{DesignTemp: Qty(-10, ""), AnnualMean: Qty(10, "")},
		Building: BuildingDocument{
			Name: "Row",
			Entities: []EntityDocument{{
				Name: "left",
				Zones: []ZoneDocument{{
					Name: "all",
					Spaces: []SpaceDocument{{
						Name:       "room",
						DesignTemp: Qty(20, ""),
						FloorArea:  Qty(10, ""),
						Volume:     Qty(27, ""),
						Elements: []ElementDocument{
							{Name: "facade", Category: "exterior", Area: Qty(5, ""), UValue: Qty(0.4, "")},
							{Name: "party wall", Category: "adjacent_entity", Area: Qty(10, ""), UValue: Qty(0.5, ""), AdjacentTemp: Qty(15, "")},
						},
					}},
				}},
			}},
		},
	}
	b, err := CompileBuilding(doc, ClimateRecord{DesignTemp: -10, AnnualMean: 10})
	require.NoError(t, err)

	space := b.Entities[0].Zones[0].Spaces[0]
	require.Len(t, space.Elements, 2)

	// The party wall counts for the space and the entity but cancels out at
	// the building boundary.
	assert.InEpsilon(t, 0.8333333333333333, space.Coefficients().AdjacentEntity, 1e-9)
	assert.InEpsilon(t, 100.0, b.Entities[0].TransmissionLoss(), 1e-9)
	assert.InEpsilon(t, 75.0, b.TransmissionLoss(), 1e-9)

	t.Run("tight envelope falls back to the hygienic minimum", func(t *testing.T) {
		zone := b.Entities[0].Zones[0]
		assert.Equal(t, 0.0, zone.EnvelopeFlow())
		assert.Equal(t, 0.0, space.EnvelopeFlow())
		assert.InEpsilon(t, 13.5, space.MinFlow(), 1e-9)
		assert.InEpsilon(t, 137.70000000000002, space.VentilationLoss(), 1e-9)
		assert.InEpsilon(t, 68.85000000000001, zone.VentilationLoss(), 1e-9)
	})
}

func TestCompileBuilding_TallRoom(t *testing.T) {
	doc := ProjectDocument{
		Name:    "workshop",
		Climate: &ClimateDocument{DesignTemp: Qty(-10, ""), AnnualMean: Qty(10, "")},
		Building: BuildingDocument{
			Name: "Hall",
			Entities: []EntityDocument{{
				Name: "main",
				Zones: []ZoneDocument{{
					Name: "hall",
					Spaces: []SpaceDocument{{
						Name:        "workshop",
						DesignTemp:  Qty(20, ""),
						FloorArea:   Qty(10, ""),
						Volume:      Qty(50, ""),
						Height:      Qty(5, ""),
						SurfaceCorr: Qty(1, ""),
						RadiantCorr: Qty(0.5, ""),
						Elements: []ElementDocument{
							{Name: "wall", Category: "exterior", Area: Qty(10, ""), UValue: Qty(0.3, "")},
						},
					}},
				}},
			}},
		},
	}
	b, err := CompileBuilding(doc, ClimateRecord{DesignTemp: -10, AnnualMean: 10})
	require.NoError(t, err)

	space := b.Entities[0].Zones[0].Spaces[0]
	assert.InEpsilon(t, 25.0, space.SurfaceTemp(), 1e-9)
	assert.InEpsilon(t, 21.0, space.AirTemp(), 1e-9)

	// f_T = 1 + (T_sm - T_i_d) / (T_i_d - T_e_d) = 1 + 5/30
	wall := space.Elements[0]
	assert.InEpsilon(t, 1.1666666666666667, wall.TempFactor, 1e-9)
	assert.InEpsilon(t, 140.0, space.TransmissionLoss(), 1e-9)

	// The ventilation loss works against T_ia, not T_i_d.
	assert.InEpsilon(t, 263.5, space.VentilationLoss(), 1e-9)
	assert.InEpsilon(t, 131.75, b.Entities[0].Zones[0].VentilationLoss(), 1e-9)
}

func TestCompileBuilding_SiteCorrection(t *testing.T) {
	record := ClimateRecord{Site: "uccle", DesignTemp: -8, AnnualMean: 10, Elevation: 50, Gradient: -0.005}

	base := func() ProjectDocument {
		doc := goldenHouse()
		doc.Climate = nil
		doc.Site = "uccle"
		return doc
	}

	t.Run("explicit time constant", func(t *testing.T) {
		doc := base()
		doc.Building.Correction = &CorrectionDocument{
			Elevation:    Qty(600, ""),
			TimeConstant: Qty(200, ""),
		}
		b, err := CompileBuilding(doc, record)
		require.NoError(t, err)

		// -8 - 0.005*550 = -10.75, plus min(0.016*200 - 0.8, 4) = 2.4.
		assert.InEpsilon(t, -8.35, b.Climate.DesignTemp, 1e-9)
	})

	t.Run("time constant derived from c_eff and V_ext", func(t *testing.T) {
		doc := base()
		doc.Building.Correction = &CorrectionDocument{
			Elevation:      Qty(600, ""),
			ExternalVolume: Qty(50, ""),
		}
		b, err := CompileBuilding(doc, record)
		require.NoError(t, err)

		// tau = 50 * 50 / 21.3777 = 116.94 h, correction 1.0711 K.
		assert.InEpsilon(t, -10.75+1.0711123864375556, b.Climate.DesignTemp, 1e-9)
	})

	t.Run("altitude only", func(t *testing.T) {
		doc := base()
		doc.Building.Correction = &CorrectionDocument{Elevation: Qty(600, "")}
		b, err := CompileBuilding(doc, record)
		require.NoError(t, err)

		assert.InEpsilon(t, -10.75, b.Climate.DesignTemp, 1e-9)
	})

	t.Run("embedded climate keeps the inertia term", func(t *testing.T) {
		doc := goldenHouse()
		doc.Building.Correction = &CorrectionDocument{
			Elevation:    Qty(600, ""),
			TimeConstant: Qty(200, ""),
		}
		// Embedded records carry no reference elevation or gradient, so only
		// the time-constant term shifts the design temperature.
		b, err := CompileBuilding(doc, ClimateRecord{DesignTemp: -10, AnnualMean: 10})
		require.NoError(t, err)

		assert.InEpsilon(t, -7.6, b.Climate.DesignTemp, 1e-9)
	})
}

func TestCompileBuilding_RejectsColdSpaces(t *testing.T) {
	doc := goldenHouse()
	_, err := CompileBuilding(doc, ClimateRecord{DesignTemp: 22, AnnualMean: 10})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Problems, 1)
	assert.Contains(t, verr.Problems[0], `space "living"`)
	assert.Contains(t, verr.Problems[0], "external design temperature")
}
