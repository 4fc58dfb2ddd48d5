package domain

import "math"

// airHeatCoefficient is the heat capacity of air per unit volume flow,
// Wh/(m3*K): multiplying an airflow in m3/h by a temperature difference in K
// gives a heat flow in W.
const airHeatCoefficient = 0.34

// tallRoomHeight is the room height from which the vertical temperature
// corrections of EN 12831-1 Annex B.2.6 apply.
const tallRoomHeight = 4.0 // m

// Default space parameters, EN 12831-1 Annex B tables B.3 and B.7.
const (
	defaultRoomHeight   = 2.7 // h_r, m
	defaultOccupiedH    = 1.0 // h_occ, m
	defaultAirGradient  = 1.0 // gT_a, K/m
	defaultMinAirChange = 0.5 // n_min, 1/h
)

// Default ventilation zone parameters, EN 12831-1 Annex B tables B.8, B.9
// and the ATD clauses B.2.12 through B.2.15.
const (
	defaultATDPressure     = 4.0 // dP_ATD_d, Pa
	defaultPressureExp     = 0.67
	defaultFacadeFactor    = 12.0
	defaultVolumeFactor    = 0.05
	defaultDirectionFactor = 2.0
	defaultInterzonalRatio = 0.5
)

// defaultHeatCapacity is the volume-specific effective heat storage capacity
// c_eff assumed when a correction block gives V_ext without c_eff,
// EN 12831-1 Annex B.2.7 table B.4.
const defaultHeatCapacity = 50.0 // Wh/(m3*K)

// referencePressure is the pressure difference leakage figures refer to.
const referencePressure = 50.0 // Pa

// Building is the compiled model a load report is computed from. Its
// Climate holds the effective record: DesignTemp includes the altitude and
// thermal-inertia correction when the document requested one.
type Building struct {
	Name     string
	Climate  ClimateRecord
	Entities []*BuildingEntity

	correction *siteCorrection
}

// siteCorrection carries the compiled inputs of the external design
// temperature adjustment.
type siteCorrection struct {
	elevation       float64
	timeConstant    float64
	heatCapacity    float64
	externalVolume  float64
	hasTimeConstant bool
	hasVolume       bool
}

// BuildingEntity is a self-contained part of a building, e.g. one apartment.
type BuildingEntity struct {
	Name  string
	Zones []*VentilationZone

	building *Building
}

// VentilationZone is a set of heated spaces that share air internally.
// Infiltration is resolved on zone level from the pressure balance and then
// distributed over the spaces.
type VentilationZone struct {
	Name            string
	Permeability50  float64 // q_env_50, m3/(m2*h)
	ATDDesignFlow   float64 // V_ATD_d, m3/h
	ATDPressure     float64 // dP_ATD_d, Pa
	PressureExp     float64 // v_leak
	FacadeFactor    float64 // f_fac
	VolumeFactor    float64 // f_V
	DirectionFactor float64 // f_dir
	InterzonalRatio float64 // f_iz
	Spaces          []*HeatedSpace

	entity *BuildingEntity
}

// HeatedSpace is one compiled room. All values are canonical: temperatures
// in degC, areas in m2, airflows in m3/h, powers in W.
type HeatedSpace struct {
	Name        string
	DesignTemp  float64 // T_i_d
	FloorArea   float64 // A_fl
	Volume      float64 // V_r
	Height      float64 // h_r
	OccupiedH   float64 // h_occ
	AirGradient float64 // gT_a
	SurfaceCorr float64 // dT_s
	RadiantCorr float64 // dT_rad

	MinAirChange   float64 // n_min
	OpeningFlow    float64 // V_open
	ATDDesignFlow  float64 // V_ATD_d
	SupplyFlow     float64 // V_sup
	TransferFlow   float64 // V_trf
	ExhaustFlow    float64 // V_exh
	CombustionFlow float64 // V_comb
	SupplyTemp     float64 // T_sup
	TransferTemp   float64 // T_trf

	HeatingUpDensity float64 // q_hu
	HeatGains        float64 // Q_gain

	Elements []*BuildingElement

	zone *VentilationZone
}

// ── heated space ──

func (s *HeatedSpace) externalDesignTemp() float64 {
	return s.zone.entity.building.Climate.DesignTemp
}

// SurfaceTemp returns T_sm, the mean internal surface temperature used for
// the transmission temperature adjustment. Below the tall-room threshold it
// equals the design temperature.
func (s *HeatedSpace) SurfaceTemp() float64 {
	if s.Height < tallRoomHeight {
		return s.DesignTemp
	}
	return MeanSurfaceTemp(s.DesignTemp, s.AirGradient, s.Height, s.OccupiedH, s.SurfaceCorr)
}

// AirTemp returns T_ia, the mean internal air temperature the ventilation
// loss works against. Below the tall-room threshold it equals the design
// temperature.
func (s *HeatedSpace) AirTemp() float64 {
	if s.Height < tallRoomHeight {
		return s.DesignTemp
	}
	return MeanAirTemp(s.DesignTemp, s.AirGradient, s.Height, s.OccupiedH, s.RadiantCorr)
}

// Coefficients sums the element heat-loss coefficients by category.
func (s *HeatedSpace) Coefficients() CoefficientSet {
	var c CoefficientSet
	for _, el := range s.Elements {
		switch el.Category {
		case CategoryExterior:
			c.Exterior += el.Coefficient
		case CategoryAdjacentHeated:
			c.AdjacentHeated += el.Coefficient
		case CategoryAdjacentEntity:
			c.AdjacentEntity += el.Coefficient
		case CategoryAdjacentUnheated:
			c.AdjacentUnheated += el.Coefficient
		case CategoryGround:
			c.Ground += el.Coefficient
		}
	}
	return c
}

// EnvelopeArea returns A_env: the area in contact with external air, either
// directly or through unheated spaces. Ground elements do not count.
func (s *HeatedSpace) EnvelopeArea() float64 {
	var a float64
	for _, el := range s.Elements {
		if el.Category == CategoryExterior || el.Category == CategoryAdjacentUnheated {
			a += el.Area
		}
	}
	return a
}

// MinFlow returns V_min, the hygienic minimum airflow n_min * V_r.
func (s *HeatedSpace) MinFlow() float64 {
	return s.MinAirChange * s.Volume
}

// TechFlow returns V_tech, the airflow moved through the space by technical
// systems: the larger of the incoming and the outgoing side.
func (s *HeatedSpace) TechFlow() float64 {
	return math.Max(s.SupplyFlow+s.TransferFlow, s.ExhaustFlow+s.CombustionFlow)
}

// LeakATDFlow returns V_leak_ATD: the space's share of the zone leakage and
// ATD flows. The leakage share follows envelope area, the ATD share follows
// the ATD design flows. A share whose zone total is zero contributes
// nothing, so a zone without ATDs still distributes its leakage.
func (s *HeatedSpace) LeakATDFlow() float64 {
	z := s.zone
	var flow float64
	if aEnv := z.EnvelopeArea(); aEnv > 0 {
		flow += z.LeakFlow() * (s.EnvelopeArea() / aEnv)
	}
	if atd := z.ATDDesignFlow; atd > 0 {
		flow += z.ATDFlow() * (s.ATDDesignFlow / atd)
	}
	return flow
}

// EnvelopeFlow returns V_env: the external air volume flow into the space
// through leaks and ATDs. The additional-infiltration part of the zone flow
// is weighted with the wind direction factor, the rest enters in proportion
// to the space's leak and ATD share.
func (s *HeatedSpace) EnvelopeFlow() float64 {
	z := s.zone
	zoneFlow := z.EnvelopeFlow()
	if zoneFlow == 0 {
		return 0
	}
	leakATD := s.LeakATDFlow()
	infAdd := z.AdditionalInfiltration()
	flow := (infAdd / zoneFlow) * math.Min(zoneFlow, leakATD*z.DirectionFactor)
	flow += (zoneFlow - infAdd) / zoneFlow * leakATD
	return flow
}

// TransmissionLoss returns Q_trm of the space over all element categories.
func (s *HeatedSpace) TransmissionLoss() float64 {
	return s.Coefficients().Total() * (s.DesignTemp - s.externalDesignTemp())
}

// VentilationLoss returns Q_ven of the space: envelope and opening flows
// compete against the hygienic minimum not covered by technical ventilation,
// supply and transfer flows enter at their own temperatures.
func (s *HeatedSpace) VentilationLoss() float64 {
	tAir := s.AirTemp()
	vt := math.Max(s.EnvelopeFlow()+s.OpeningFlow, s.MinFlow()-s.TechFlow()) * (tAir - s.externalDesignTemp())
	vt += s.SupplyFlow * (tAir - s.SupplyTemp)
	vt += s.TransferFlow * (tAir - s.TransferTemp)
	return airHeatCoefficient * vt
}

// HeatingUpPower returns Q_hu, the additional power to recover from
// temperature setback: floor area times the specific heating-up power.
func (s *HeatedSpace) HeatingUpPower() float64 {
	return s.FloorArea * s.HeatingUpDensity
}

// HeatLoad returns the design heat load of the space.
func (s *HeatedSpace) HeatLoad() float64 {
	return s.TransmissionLoss() + s.VentilationLoss() + s.HeatingUpPower() - s.HeatGains
}

// ── ventilation zone ──

// EnvelopeArea returns A_env of the zone: the sum over its spaces.
func (z *VentilationZone) EnvelopeArea() float64 {
	var a float64
	for _, s := range z.Spaces {
		a += s.EnvelopeArea()
	}
	return a
}

// ATDFlow50 returns V_ATD_50: the ATD design flow extrapolated from the
// design pressure difference to 50 Pa with the pressure exponent.
func (z *VentilationZone) ATDFlow50() float64 {
	return z.ATDDesignFlow * math.Pow(referencePressure/z.ATDPressure, z.PressureExp)
}

// SupplyFlow returns V_sup of the zone.
func (z *VentilationZone) SupplyFlow() float64 {
	var v float64
	for _, s := range z.Spaces {
		v += s.SupplyFlow
	}
	return v
}

// ExhaustFlow returns V_exh of the zone.
func (z *VentilationZone) ExhaustFlow() float64 {
	var v float64
	for _, s := range z.Spaces {
		v += s.ExhaustFlow
	}
	return v
}

// CombustionFlow returns V_comb of the zone.
func (z *VentilationZone) CombustionFlow() float64 {
	var v float64
	for _, s := range z.Spaces {
		v += s.CombustionFlow
	}
	return v
}

// imbalance returns the mechanical flow imbalance V_exh + V_comb - V_sup.
// A positive imbalance means the zone runs at under-pressure and draws
// external air through its envelope.
func (z *VentilationZone) imbalance() float64 {
	return z.ExhaustFlow() + z.CombustionFlow() - z.SupplyFlow()
}

// leakageAt50 returns the envelope flow capacity of the zone at 50 Pa:
// leakage over the envelope area plus the ATD flow.
func (z *VentilationZone) leakageAt50() float64 {
	return z.Permeability50*z.EnvelopeArea() + z.ATDFlow50()
}

// InfiltrationFactor returns f_e, which damps the additional infiltration
// in zones whose mechanical ventilation is roughly balanced. A zone without
// leakage capacity gets 1.
func (z *VentilationZone) InfiltrationFactor() float64 {
	cap50 := z.leakageAt50()
	if cap50 == 0 || z.VolumeFactor == 0 {
		return 1
	}
	ratio := z.imbalance() / cap50
	return 1 / (1 + (z.FacadeFactor/z.VolumeFactor)*ratio*ratio)
}

// AdditionalInfiltration returns V_inf_add, the wind-driven infiltration on
// top of the mechanical imbalance.
func (z *VentilationZone) AdditionalInfiltration() float64 {
	return z.leakageAt50() * z.VolumeFactor * z.InfiltrationFactor()
}

// EnvelopeFlow returns V_env of the zone: the exhaust surplus drawn in at
// under-pressure plus the additional infiltration.
func (z *VentilationZone) EnvelopeFlow() float64 {
	return math.Max(z.imbalance(), 0) + z.AdditionalInfiltration()
}

// atdShare returns a_ATD: the fraction of the envelope flow that enters
// through air terminal devices rather than leaks.
func (z *VentilationZone) atdShare() float64 {
	atd50 := z.ATDFlow50()
	den := atd50 + z.Permeability50*z.EnvelopeArea()
	if den == 0 {
		return 0
	}
	return atd50 / den
}

// LeakFlow returns V_leak, the leakage part of the zone envelope flow.
func (z *VentilationZone) LeakFlow() float64 {
	return (1 - z.atdShare()) * z.EnvelopeFlow()
}

// ATDFlow returns V_ATD, the ATD part of the zone envelope flow.
func (z *VentilationZone) ATDFlow() float64 {
	return z.atdShare() * z.EnvelopeFlow()
}

// VentilationLoss returns Q_ven of the zone. Air moving between spaces of
// the same zone is no loss for the zone as a whole, so only the interzonal
// share f_iz of each space's hygienic minimum competes against its envelope
// flows.
func (z *VentilationZone) VentilationLoss() float64 {
	tExt := z.entity.building.Climate.DesignTemp
	var vt float64
	for _, s := range z.Spaces {
		tAir := s.AirTemp()
		vt += math.Max(s.LeakATDFlow()+s.OpeningFlow, z.InterzonalRatio*s.MinFlow()-s.TechFlow()) * (tAir - tExt)
		vt += s.SupplyFlow * (tAir - s.SupplyTemp)
		vt += s.TransferFlow * (tAir - s.TransferTemp)
	}
	return airHeatCoefficient * vt
}

// ── building entity ──

// Spaces returns all heated spaces of the entity across its zones.
func (e *BuildingEntity) Spaces() []*HeatedSpace {
	var spaces []*HeatedSpace
	for _, z := range e.Zones {
		spaces = append(spaces, z.Spaces...)
	}
	return spaces
}

// TransmissionLoss returns Q_trm of the entity. Heat flowing between heated
// spaces of the same entity stays inside it, so the adjacent-heated
// coefficients are excluded.
func (e *BuildingEntity) TransmissionLoss() float64 {
	tExt := e.building.Climate.DesignTemp
	var q float64
	for _, s := range e.Spaces() {
		c := s.Coefficients()
		q += (c.Exterior + c.AdjacentEntity + c.AdjacentUnheated + c.Ground) * (s.DesignTemp - tExt)
	}
	return q
}

// VentilationLoss returns Q_ven of the entity.
func (e *BuildingEntity) VentilationLoss() float64 {
	var q float64
	for _, z := range e.Zones {
		q += z.VentilationLoss()
	}
	return q
}

// HeatingUpPower returns Q_hu of the entity.
func (e *BuildingEntity) HeatingUpPower() float64 {
	var q float64
	for _, s := range e.Spaces() {
		q += s.HeatingUpPower()
	}
	return q
}

// HeatGains returns Q_gain of the entity.
func (e *BuildingEntity) HeatGains() float64 {
	var q float64
	for _, s := range e.Spaces() {
		q += s.HeatGains
	}
	return q
}

// HeatLoad returns the design heat load of the entity.
func (e *BuildingEntity) HeatLoad() float64 {
	return e.TransmissionLoss() + e.VentilationLoss() + e.HeatingUpPower() - e.HeatGains()
}

// ── building ──

// Spaces returns all heated spaces of the building.
func (b *Building) Spaces() []*HeatedSpace {
	var spaces []*HeatedSpace
	for _, e := range b.Entities {
		spaces = append(spaces, e.Spaces()...)
	}
	return spaces
}

// TransmissionLoss returns Q_trm of the building. Heat flowing between
// heated spaces and between entities stays inside the building, so both the
// adjacent-heated and the adjacent-entity coefficients are excluded.
func (b *Building) TransmissionLoss() float64 {
	tExt := b.Climate.DesignTemp
	var q float64
	for _, s := range b.Spaces() {
		c := s.Coefficients()
		q += (c.Exterior + c.AdjacentUnheated + c.Ground) * (s.DesignTemp - tExt)
	}
	return q
}

// VentilationLoss returns Q_ven of the building.
func (b *Building) VentilationLoss() float64 {
	var q float64
	for _, e := range b.Entities {
		q += e.VentilationLoss()
	}
	return q
}

// HeatingUpPower returns Q_hu of the building.
func (b *Building) HeatingUpPower() float64 {
	var q float64
	for _, e := range b.Entities {
		q += e.HeatingUpPower()
	}
	return q
}

// HeatGains returns Q_gain of the building.
func (b *Building) HeatGains() float64 {
	var q float64
	for _, e := range b.Entities {
		q += e.HeatGains()
	}
	return q
}

// HeatLoad returns the design heat load of the building.
func (b *Building) HeatLoad() float64 {
	return b.TransmissionLoss() + b.VentilationLoss() + b.HeatingUpPower() - b.HeatGains()
}

// UntemperedCoefficient returns the whole-building heat transfer coefficient
// without temperature adjustment, the H_T that feeds the building time
// constant. Only losses leaving the building count: exterior, unheated and
// ground elements.
func (b *Building) UntemperedCoefficient() float64 {
	var h float64
	for _, s := range b.Spaces() {
		for _, el := range s.Elements {
			switch el.Category {
			case CategoryExterior, CategoryAdjacentUnheated, CategoryGround:
				h += el.untempered
			}
		}
	}
	return h
}

// effectiveDesignTemp applies the requested external design temperature
// adjustment to a resolved climate record: the altitude shift between the
// reference site and the building, plus the thermal-inertia allowance from
// the building time constant. Without a correction block the record's value
// passes through unchanged.
func (b *Building) effectiveDesignTemp(rec ClimateRecord) float64 {
	corr := b.correction
	if corr == nil {
		return rec.DesignTemp
	}

	base := AltitudeDesignTemp(rec.DesignTemp, rec.Gradient, corr.elevation, rec.Elevation)

	var tau float64
	switch {
	case corr.hasTimeConstant:
		tau = corr.timeConstant
	case corr.hasVolume:
		tau = BuildingTimeConstant(corr.heatCapacity, corr.externalVolume, b.UntemperedCoefficient())
	}
	return base + TimeConstantCorrection(tau)
}
