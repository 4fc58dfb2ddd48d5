package domain

import (
	"context"
	"time"
)

// RawDocument represents an unprocessed message from the source topic.
type RawDocument struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// ProjectDocument is the wire form of a heat-load project as submitted by
// planning tools. Field names follow the symbols of EN 12831-1 so documents
// read like the worked examples in the standard.
//
// Climate data comes either embedded (Climate) or by naming a reference
// site (Site) that is resolved against the climate service. Embedded data
// wins when both are present.
type ProjectDocument struct {
	Name     string           `json:"name" yaml:"name"`
	Site     string           `json:"site,omitempty" yaml:"site,omitempty"`
	Climate  *ClimateDocument `json:"climate,omitempty" yaml:"climate,omitempty"`
	Building BuildingDocument `json:"building" yaml:"building"`
}

// ClimateDocument carries embedded reference climate values.
type ClimateDocument struct {
	DesignTemp     Quantity `json:"T_e_d" yaml:"T_e_d"`                         // external design temperature
	AnnualMean     Quantity `json:"T_e_an" yaml:"T_e_an"`                       // annual mean external temperature
	MinMonthlyMean Quantity `json:"T_e_min,omitempty" yaml:"T_e_min,omitempty"` // average minimum of the coldest month
}

// BuildingDocument is the root of the building hierarchy.
type BuildingDocument struct {
	Name       string              `json:"name" yaml:"name"`
	Correction *CorrectionDocument `json:"site_correction,omitempty" yaml:"site_correction,omitempty"`
	Entities   []EntityDocument    `json:"entities" yaml:"entities"`
}

// CorrectionDocument requests the external design temperature adjustment of
// EN 12831-1 Annex B.4.1: an altitude term derived from the building
// elevation and the reference site, plus a thermal-inertia term derived
// from the building time constant. The time constant may be given directly
// (tau) or estimated from the effective heat storage capacity and the gross
// building volume (c_eff, V_ext).
type CorrectionDocument struct {
	Elevation      Quantity `json:"h_build" yaml:"h_build"`
	TimeConstant   Quantity `json:"tau,omitempty" yaml:"tau,omitempty"`
	HeatCapacity   Quantity `json:"c_eff,omitempty" yaml:"c_eff,omitempty"`
	ExternalVolume Quantity `json:"V_ext,omitempty" yaml:"V_ext,omitempty"`
}

// EntityDocument is one building entity, e.g. an apartment in a multi-family
// building. Heat flows between entities of the same building cancel out at
// the building level.
type EntityDocument struct {
	Name  string         `json:"name" yaml:"name"`
	Zones []ZoneDocument `json:"zones" yaml:"zones"`
}

// ZoneDocument is a ventilation zone: a set of spaces that share air
// internally. Leakage and air terminal device (ATD) parameters live here
// because infiltration is driven by the pressure balance of the zone as a
// whole, not of single rooms.
type ZoneDocument struct {
	Name            string              `json:"name" yaml:"name"`
	Permeability50  Quantity            `json:"q_env_50,omitempty" yaml:"q_env_50,omitempty"` // air permeability at 50 Pa
	BlowerDoor      *BlowerDoorDocument `json:"blower_door,omitempty" yaml:"blower_door,omitempty"`
	ATDDesignFlow   Quantity            `json:"V_ATD_d,omitempty" yaml:"V_ATD_d,omitempty"`   // design flow of all ATDs in the zone
	ATDPressure     Quantity            `json:"dP_ATD_d,omitempty" yaml:"dP_ATD_d,omitempty"` // design pressure difference of the ATDs
	PressureExp     Quantity            `json:"v_leak,omitempty" yaml:"v_leak,omitempty"`     // pressure exponent
	FacadeFactor    Quantity            `json:"f_fac,omitempty" yaml:"f_fac,omitempty"`       // exposed facades adjustment
	VolumeFactor    Quantity            `json:"f_V,omitempty" yaml:"f_V,omitempty"`           // volume flow factor
	DirectionFactor Quantity            `json:"f_dir,omitempty" yaml:"f_dir,omitempty"`       // wind orientation adjustment
	InterzonalRatio Quantity            `json:"f_iz,omitempty" yaml:"f_iz,omitempty"`         // room-to-zone airflow ratio
	Spaces          []SpaceDocument     `json:"spaces" yaml:"spaces"`
}

// BlowerDoorDocument derives the zone air permeability from a pressurization
// test instead of a tabulated q_env_50 value. Small openings that were
// sealed during the test are added back as a surcharge on the measured air
// change rate. The air volume defaults to the sum of the zone's room
// volumes when omitted.
type BlowerDoorDocument struct {
	MeasuredN50   Quantity `json:"n_50,omitempty" yaml:"n_50,omitempty"`
	SmallOpenings Quantity `json:"A_small,omitempty" yaml:"A_small,omitempty"`
	AirVolume     Quantity `json:"V_build,omitempty" yaml:"V_build,omitempty"`
}

// SpaceDocument is one heated space (room) with its design temperature,
// geometry, airflows and envelope elements.
type SpaceDocument struct {
	Name        string   `json:"name" yaml:"name"`
	DesignTemp  Quantity `json:"T_i_d" yaml:"T_i_d"` // internal design temperature
	FloorArea   Quantity `json:"A_fl" yaml:"A_fl"`
	Volume      Quantity `json:"V_r" yaml:"V_r"` // internal air volume
	Height      Quantity `json:"h_r,omitempty" yaml:"h_r,omitempty"`
	OccupiedH   Quantity `json:"h_occ,omitempty" yaml:"h_occ,omitempty"`   // height of the occupied zone
	AirGradient Quantity `json:"gT_a,omitempty" yaml:"gT_a,omitempty"`     // vertical air temperature gradient
	SurfaceCorr Quantity `json:"dT_s,omitempty" yaml:"dT_s,omitempty"`     // air-to-surface temperature correction
	RadiantCorr Quantity `json:"dT_rad,omitempty" yaml:"dT_rad,omitempty"` // air-to-operative temperature correction

	MinAirChange   Quantity `json:"n_min,omitempty" yaml:"n_min,omitempty"`
	OpeningFlow    Quantity `json:"V_open,omitempty" yaml:"V_open,omitempty"`   // flow through large envelope openings
	ATDDesignFlow  Quantity `json:"V_ATD_d,omitempty" yaml:"V_ATD_d,omitempty"` // this space's share of the zone ATD flow
	SupplyFlow     Quantity `json:"V_sup,omitempty" yaml:"V_sup,omitempty"`
	TransferFlow   Quantity `json:"V_trf,omitempty" yaml:"V_trf,omitempty"`
	ExhaustFlow    Quantity `json:"V_exh,omitempty" yaml:"V_exh,omitempty"`
	CombustionFlow Quantity `json:"V_comb,omitempty" yaml:"V_comb,omitempty"`
	SupplyTemp     Quantity `json:"T_sup,omitempty" yaml:"T_sup,omitempty"`
	TransferTemp   Quantity `json:"T_trf,omitempty" yaml:"T_trf,omitempty"`

	HeatingUpDensity Quantity `json:"q_hu,omitempty" yaml:"q_hu,omitempty"`     // heating-up power per floor area
	HeatGains        Quantity `json:"Q_gain,omitempty" yaml:"Q_gain,omitempty"` // gains present under design conditions

	Elements []ElementDocument `json:"elements,omitempty" yaml:"elements,omitempty"`
}

// ElementDocument is one surface of a heated space. The category states what
// lies on the far side and selects the heat-loss formula; the remaining
// fields are category-specific.
type ElementDocument struct {
	Name     string   `json:"name" yaml:"name"`
	Category string   `json:"category" yaml:"category"`
	Area     Quantity `json:"A" yaml:"A"`
	UValue   Quantity `json:"U" yaml:"U"`
	F1       Quantity `json:"f1,omitempty" yaml:"f1,omitempty"` // overrides the default temperature adjustment

	// Exterior and ground elements.
	ThermalBridge Quantity `json:"dU_tb,omitempty" yaml:"dU_tb,omitempty"`
	UCorrection   Quantity `json:"f_U,omitempty" yaml:"f_U,omitempty"`

	// Adjacent categories.
	AdjacentTemp Quantity `json:"T_adj,omitempty" yaml:"T_adj,omitempty"`

	// Ground elements.
	SlabArea     Quantity `json:"A_g,omitempty" yaml:"A_g,omitempty"`
	Perimeter    Quantity `json:"P,omitempty" yaml:"P,omitempty"` // exposed periphery of the floor slab
	Depth        Quantity `json:"z,omitempty" yaml:"z,omitempty"` // slab top edge below ground level
	AnnualFactor Quantity `json:"f_dT_an,omitempty" yaml:"f_dT_an,omitempty"`
	GroundWater  Quantity `json:"f_gw,omitempty" yaml:"f_gw,omitempty"`
}

// OutputReport is the serialized form destined for the sink topic.
type OutputReport struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}
