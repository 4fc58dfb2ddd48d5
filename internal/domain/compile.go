package domain

import (
	"fmt"
	"strings"

	"github.com/thermaldesk/heatload-service/internal/units"
)

// compiler walks a project document, converts every quantity to canonical
// units and collects all problems instead of stopping at the first one, so
// a rejected document names everything that needs fixing.
type compiler struct {
	problems []string
}

func (c *compiler) errorf(format string, args ...any) {
	c.problems = append(c.problems, fmt.Sprintf(format, args...))
}

// optional converts a field, substituting def when the field is unset.
func (c *compiler) optional(path, field string, q Quantity, d units.Dimension, def float64) float64 {
	v, err := q.InOr(d, def)
	if err != nil {
		c.errorf("%s: %s: %v", path, field, err)
		return def
	}
	return v
}

// optionalNonNegative converts like optional and flags negative values.
func (c *compiler) optionalNonNegative(path, field string, q Quantity, d units.Dimension, def float64) float64 {
	v := c.optional(path, field, q, d, def)
	if v < 0 {
		c.errorf("%s: %s must not be negative, got %g", path, field, v)
	}
	return v
}

// optionalPositive converts like optional and flags values that are not
// strictly positive.
func (c *compiler) optionalPositive(path, field string, q Quantity, d units.Dimension, def float64) float64 {
	v := c.optional(path, field, q, d, def)
	if v <= 0 {
		c.errorf("%s: %s must be positive, got %g", path, field, v)
	}
	return v
}

// required converts a field that must be present in the document.
func (c *compiler) required(path, field string, q Quantity, d units.Dimension) float64 {
	if !q.IsSet() {
		c.errorf("%s: %s is required", path, field)
		return 0
	}
	v, err := q.In(d)
	if err != nil {
		c.errorf("%s: %s: %v", path, field, err)
		return 0
	}
	return v
}

// requiredPositive converts a field that must be present and > 0.
func (c *compiler) requiredPositive(path, field string, q Quantity, d units.Dimension) float64 {
	if !q.IsSet() {
		c.errorf("%s: %s is required", path, field)
		return 0
	}
	v, err := q.In(d)
	if err != nil {
		c.errorf("%s: %s: %v", path, field, err)
		return 0
	}
	if v <= 0 {
		c.errorf("%s: %s must be positive, got %g", path, field, v)
	}
	return v
}

// ValidateProjectDocument checks a document's structure, quantities and
// references without climate data. The climate-dependent checks, such as
// design temperatures against the external design temperature, run during
// compilation. A non-nil result is a *ValidationError listing every
// problem found.
func ValidateProjectDocument(doc ProjectDocument) error {
	c := &compiler{}
	c.compileDocument(doc)
	if len(c.problems) > 0 {
		return &ValidationError{Problems: c.problems}
	}
	return nil
}

// CompileBuilding turns a project document and a resolved climate record
// into a calculable building model. The returned error, if any, is a
// *ValidationError listing every defect found.
func CompileBuilding(doc ProjectDocument, climate ClimateRecord) (*Building, error) {
	c := &compiler{}
	b := c.compileDocument(doc)
	if len(c.problems) > 0 {
		return nil, &ValidationError{Problems: c.problems}
	}

	b.Climate = climate
	b.Climate.DesignTemp = b.effectiveDesignTemp(climate)

	// The temperature adjustment factors divide by T_i_d - T_e_d, so every
	// space must be warmer than the effective external design temperature.
	for _, s := range b.Spaces() {
		if s.DesignTemp <= b.Climate.DesignTemp {
			c.errorf("space %q: T_i_d (%g) must be above the external design temperature (%g)",
				s.Name, s.DesignTemp, b.Climate.DesignTemp)
		}
	}
	if len(c.problems) > 0 {
		return nil, &ValidationError{Problems: c.problems}
	}

	for _, s := range b.Spaces() {
		tSurf := s.SurfaceTemp()
		for _, el := range s.Elements {
			el.temper(s.DesignTemp, tSurf, b.Climate.DesignTemp, b.Climate.AnnualMean)
		}
	}
	return b, nil
}

func (c *compiler) compileDocument(doc ProjectDocument) *Building {
	if strings.TrimSpace(doc.Name) == "" {
		c.errorf("project name is required")
	}
	if doc.Climate == nil && doc.Site == "" {
		c.errorf("project needs embedded climate data or a site reference")
	}
	if doc.Climate != nil {
		if _, err := embeddedClimate(*doc.Climate); err != nil {
			c.errorf("%v", err)
		}
	}

	b := &Building{Name: doc.Building.Name}
	if corr := doc.Building.Correction; corr != nil {
		b.correction = c.compileCorrection(*corr)
	}

	if len(doc.Building.Entities) == 0 {
		c.errorf("building has no entities")
	}
	seen := make(map[string]bool)
	for i, entDoc := range doc.Building.Entities {
		if entDoc.Name == "" {
			c.errorf("building: entity %d has no name", i+1)
		} else if seen[entDoc.Name] {
			c.errorf("building: duplicate entity name %q", entDoc.Name)
		}
		seen[entDoc.Name] = true
		b.Entities = append(b.Entities, c.compileEntity(entDoc, b))
	}
	return b
}

func (c *compiler) compileCorrection(doc CorrectionDocument) *siteCorrection {
	const path = "site_correction"
	corr := &siteCorrection{}
	corr.elevation = c.required(path, "h_build", doc.Elevation, units.Length)
	if doc.TimeConstant.IsSet() {
		corr.timeConstant = c.optionalNonNegative(path, "tau", doc.TimeConstant, units.Duration, 0)
		corr.hasTimeConstant = true
	}
	if doc.ExternalVolume.IsSet() {
		corr.externalVolume = c.requiredPositive(path, "V_ext", doc.ExternalVolume, units.Volume)
		corr.hasVolume = true
	}
	corr.heatCapacity = c.optionalPositive(path, "c_eff", doc.HeatCapacity, units.HeatCapacity, defaultHeatCapacity)
	if doc.HeatCapacity.IsSet() && !corr.hasVolume {
		c.errorf("%s: c_eff is only meaningful together with V_ext", path)
	}
	return corr
}

func (c *compiler) compileEntity(doc EntityDocument, b *Building) *BuildingEntity {
	path := fmt.Sprintf("entity %q", doc.Name)
	e := &BuildingEntity{Name: doc.Name, building: b}

	if len(doc.Zones) == 0 {
		c.errorf("%s: no ventilation zones", path)
	}
	seen := make(map[string]bool)
	for i, zoneDoc := range doc.Zones {
		if zoneDoc.Name == "" {
			c.errorf("%s: zone %d has no name", path, i+1)
		} else if seen[zoneDoc.Name] {
			c.errorf("%s: duplicate zone name %q", path, zoneDoc.Name)
		}
		seen[zoneDoc.Name] = true
		e.Zones = append(e.Zones, c.compileZone(zoneDoc, path, e))
	}
	return e
}

func (c *compiler) compileZone(doc ZoneDocument, parent string, e *BuildingEntity) *VentilationZone {
	path := fmt.Sprintf("%s: zone %q", parent, doc.Name)
	z := &VentilationZone{
		Name:            doc.Name,
		Permeability50:  c.optionalNonNegative(path, "q_env_50", doc.Permeability50, units.AirPermeability, 0),
		ATDDesignFlow:   c.optionalNonNegative(path, "V_ATD_d", doc.ATDDesignFlow, units.Airflow, 0),
		ATDPressure:     c.optionalPositive(path, "dP_ATD_d", doc.ATDPressure, units.Pressure, defaultATDPressure),
		PressureExp:     c.optionalPositive(path, "v_leak", doc.PressureExp, units.Dimensionless, defaultPressureExp),
		FacadeFactor:    c.optionalNonNegative(path, "f_fac", doc.FacadeFactor, units.Dimensionless, defaultFacadeFactor),
		VolumeFactor:    c.optionalNonNegative(path, "f_V", doc.VolumeFactor, units.Dimensionless, defaultVolumeFactor),
		DirectionFactor: c.optionalNonNegative(path, "f_dir", doc.DirectionFactor, units.Dimensionless, defaultDirectionFactor),
		InterzonalRatio: c.optionalNonNegative(path, "f_iz", doc.InterzonalRatio, units.Dimensionless, defaultInterzonalRatio),
		entity:          e,
	}
	// The pressure exponent runs from 0.5 (turbulent) to 1 (laminar leaks).
	if z.PressureExp > 1 {
		c.errorf("%s: v_leak must be in (0, 1], got %g", path, z.PressureExp)
	}

	if len(doc.Spaces) == 0 {
		c.errorf("%s: no heated spaces", path)
	}
	seen := make(map[string]bool)
	for i, spaceDoc := range doc.Spaces {
		if spaceDoc.Name == "" {
			c.errorf("%s: space %d has no name", path, i+1)
		} else if seen[spaceDoc.Name] {
			c.errorf("%s: duplicate space name %q", path, spaceDoc.Name)
		}
		seen[spaceDoc.Name] = true
		z.Spaces = append(z.Spaces, c.compileSpace(spaceDoc, path, z))
	}

	if doc.BlowerDoor != nil {
		if doc.Permeability50.IsSet() {
			c.errorf("%s: q_env_50 and blower_door are mutually exclusive", path)
		}
		z.Permeability50 = c.compileBlowerDoor(*doc.BlowerDoor, path, z)
	}
	return z
}

// compileBlowerDoor derives q_env_50 from a pressurization test. The air
// volume defaults to the sum of the zone's room volumes.
func (c *compiler) compileBlowerDoor(doc BlowerDoorDocument, parent string, z *VentilationZone) float64 {
	path := parent + ": blower_door"

	var roomVolume float64
	for _, s := range z.Spaces {
		roomVolume += s.Volume
	}

	n50 := c.required(path, "n_50", doc.MeasuredN50, units.AirChangeRate)
	if n50 < 0 {
		c.errorf("%s: n_50 must not be negative, got %g", path, n50)
	}
	small := c.optionalNonNegative(path, "A_small", doc.SmallOpenings, units.Area, 0)
	volume := c.optionalPositive(path, "V_build", doc.AirVolume, units.Volume, roomVolume)

	return AirPermeability50(n50, small, volume, z.EnvelopeArea())
}

func (c *compiler) compileSpace(doc SpaceDocument, parent string, z *VentilationZone) *HeatedSpace {
	path := fmt.Sprintf("%s: space %q", parent, doc.Name)
	s := &HeatedSpace{
		Name:        doc.Name,
		DesignTemp:  c.required(path, "T_i_d", doc.DesignTemp, units.Temperature),
		FloorArea:   c.requiredPositive(path, "A_fl", doc.FloorArea, units.Area),
		Volume:      c.requiredPositive(path, "V_r", doc.Volume, units.Volume),
		Height:      c.optionalPositive(path, "h_r", doc.Height, units.Length, defaultRoomHeight),
		OccupiedH:   c.optionalNonNegative(path, "h_occ", doc.OccupiedH, units.Length, defaultOccupiedH),
		AirGradient: c.optionalNonNegative(path, "gT_a", doc.AirGradient, units.TemperatureGradient, defaultAirGradient),
		SurfaceCorr: c.optional(path, "dT_s", doc.SurfaceCorr, units.TemperatureDelta, 0),
		RadiantCorr: c.optional(path, "dT_rad", doc.RadiantCorr, units.TemperatureDelta, 0),

		MinAirChange:   c.optionalNonNegative(path, "n_min", doc.MinAirChange, units.AirChangeRate, defaultMinAirChange),
		OpeningFlow:    c.optionalNonNegative(path, "V_open", doc.OpeningFlow, units.Airflow, 0),
		ATDDesignFlow:  c.optionalNonNegative(path, "V_ATD_d", doc.ATDDesignFlow, units.Airflow, 0),
		SupplyFlow:     c.optionalNonNegative(path, "V_sup", doc.SupplyFlow, units.Airflow, 0),
		TransferFlow:   c.optionalNonNegative(path, "V_trf", doc.TransferFlow, units.Airflow, 0),
		ExhaustFlow:    c.optionalNonNegative(path, "V_exh", doc.ExhaustFlow, units.Airflow, 0),
		CombustionFlow: c.optionalNonNegative(path, "V_comb", doc.CombustionFlow, units.Airflow, 0),

		HeatingUpDensity: c.optionalNonNegative(path, "q_hu", doc.HeatingUpDensity, units.PowerDensity, 0),
		HeatGains:        c.optionalNonNegative(path, "Q_gain", doc.HeatGains, units.Power, 0),

		zone: z,
	}

	// Supply and transfer temperatures only matter when the matching flow
	// is present, but then the loss depends on them directly.
	if s.SupplyFlow > 0 {
		s.SupplyTemp = c.required(path, "T_sup", doc.SupplyTemp, units.Temperature)
	} else {
		s.SupplyTemp = c.optional(path, "T_sup", doc.SupplyTemp, units.Temperature, 0)
	}
	if s.TransferFlow > 0 {
		s.TransferTemp = c.required(path, "T_trf", doc.TransferTemp, units.Temperature)
	} else {
		s.TransferTemp = c.optional(path, "T_trf", doc.TransferTemp, units.Temperature, 0)
	}

	for i, elDoc := range doc.Elements {
		s.Elements = append(s.Elements, c.compileElement(elDoc, elementPath(path, i, elDoc.Name)))
	}
	return s
}

func elementPath(parent string, i int, name string) string {
	if name == "" {
		return fmt.Sprintf("%s: element %d", parent, i+1)
	}
	return fmt.Sprintf("%s: element %q", parent, name)
}

func (c *compiler) compileElement(doc ElementDocument, path string) *BuildingElement {
	cat := ElementCategory(doc.Category)
	if !knownCategory(cat) {
		c.errorf("%s: unknown category %q", path, doc.Category)
		return &BuildingElement{Name: doc.Name, Category: cat}
	}

	el := &BuildingElement{
		Name:     doc.Name,
		Category: cat,
		Area:     c.requiredPositive(path, "A", doc.Area, units.Area),
		UValue:   c.requiredPositive(path, "U", doc.UValue, units.Transmittance),
	}
	if doc.F1.IsSet() {
		f1 := c.optional(path, "f1", doc.F1, units.Dimensionless, 0)
		el.f1 = &f1
	}

	switch cat {
	case CategoryExterior:
		el.ThermalBridge = c.optionalNonNegative(path, "dU_tb", doc.ThermalBridge, units.Transmittance, defaultThermalBridge)
		el.UCorrection = c.optionalPositive(path, "f_U", doc.UCorrection, units.Dimensionless, defaultUCorrection)
	case CategoryGround:
		el.ThermalBridge = c.optionalNonNegative(path, "dU_tb", doc.ThermalBridge, units.Transmittance, defaultThermalBridge)
		el.SlabArea = c.requiredPositive(path, "A_g", doc.SlabArea, units.Area)
		el.Perimeter = c.requiredPositive(path, "P", doc.Perimeter, units.Length)
		el.Depth = c.optionalNonNegative(path, "z", doc.Depth, units.Length, 0)
		el.AnnualFactor = c.optionalPositive(path, "f_dT_an", doc.AnnualFactor, units.Dimensionless, defaultAnnualFactor)
		el.GroundWater = c.optionalPositive(path, "f_gw", doc.GroundWater, units.Dimensionless, defaultGroundWater)
		el.EquivalentU = equivalentGroundU(el.SlabArea, el.Perimeter, el.Depth, el.UValue, el.ThermalBridge)
	default:
		// An f1 override replaces the (T_i_d - T_adj) / (T_i_d - T_e_d)
		// default, so T_adj is only needed without one.
		if doc.F1.IsSet() {
			el.AdjacentTemp = c.optional(path, "T_adj", doc.AdjacentTemp, units.Temperature, 0)
		} else {
			el.AdjacentTemp = c.required(path, "T_adj", doc.AdjacentTemp, units.Temperature)
		}
	}

	el.untempered = el.untemperedCoefficient()
	return el
}
