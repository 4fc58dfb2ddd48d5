package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// AirflowSet reports the design airflows of a heated space, in m3/h.
type AirflowSet struct {
	MinFlow      float64 `json:"min_flow"`      // V_min
	TechFlow     float64 `json:"tech_flow"`     // V_tech
	LeakATDFlow  float64 `json:"leak_atd_flow"` // V_leak_ATD
	EnvelopeFlow float64 `json:"envelope_flow"` // V_env
}

// SpaceResult carries the calculated figures of one heated space. Losses
// and loads are in W, coefficients in W/K.
type SpaceResult struct {
	Name         string         `json:"name"`
	DesignTemp   float64        `json:"design_temp"`
	AirTemp      float64        `json:"air_temp"`
	Transmission float64        `json:"transmission_loss"`
	Ventilation  float64        `json:"ventilation_loss"`
	HeatingUp    float64        `json:"heating_up_power"`
	Gains        float64        `json:"heat_gains"`
	Load         float64        `json:"heat_load"`
	Coefficients CoefficientSet `json:"coefficients"`
	Airflows     AirflowSet     `json:"airflows"`
}

// ZoneResult carries the zone-level ventilation loss. There is no zone
// transmission figure: elements belong to spaces, and zone membership only
// matters for air.
type ZoneResult struct {
	Name        string        `json:"name"`
	Ventilation float64       `json:"ventilation_loss"`
	Spaces      []SpaceResult `json:"spaces"`
}

// EntityResult aggregates one building entity.
type EntityResult struct {
	Name         string       `json:"name"`
	Transmission float64      `json:"transmission_loss"`
	Ventilation  float64      `json:"ventilation_loss"`
	HeatingUp    float64      `json:"heating_up_power"`
	Gains        float64      `json:"heat_gains"`
	Load         float64      `json:"heat_load"`
	Zones        []ZoneResult `json:"zones"`
}

// BuildingResult aggregates the whole building.
type BuildingResult struct {
	Name         string         `json:"name"`
	Transmission float64        `json:"transmission_loss"`
	Ventilation  float64        `json:"ventilation_loss"`
	HeatingUp    float64        `json:"heating_up_power"`
	Gains        float64        `json:"heat_gains"`
	Load         float64        `json:"heat_load"`
	Entities     []EntityResult `json:"entities"`
}

// LoadReport is the full calculation result for one project document. The
// climate record is the effective one: its design temperature includes the
// altitude and thermal-inertia correction when the document requested one.
type LoadReport struct {
	Project      string         `json:"project"`
	Climate      ClimateRecord  `json:"climate"`
	Building     BuildingResult `json:"building"`
	CalculatedAt time.Time      `json:"calculated_at"`
}

// BuildLoadReport walks a compiled building and assembles the report,
// space by space upward.
func BuildLoadReport(project string, b *Building) LoadReport {
	result := BuildingResult{
		Name:         b.Name,
		Transmission: b.TransmissionLoss(),
		Ventilation:  b.VentilationLoss(),
		HeatingUp:    b.HeatingUpPower(),
		Gains:        b.HeatGains(),
		Load:         b.HeatLoad(),
	}

	for _, e := range b.Entities {
		entRes := EntityResult{
			Name:         e.Name,
			Transmission: e.TransmissionLoss(),
			Ventilation:  e.VentilationLoss(),
			HeatingUp:    e.HeatingUpPower(),
			Gains:        e.HeatGains(),
			Load:         e.HeatLoad(),
		}
		for _, z := range e.Zones {
			zoneRes := ZoneResult{Name: z.Name, Ventilation: z.VentilationLoss()}
			for _, s := range z.Spaces {
				zoneRes.Spaces = append(zoneRes.Spaces, SpaceResult{
					Name:         s.Name,
					DesignTemp:   s.DesignTemp,
					AirTemp:      s.AirTemp(),
					Transmission: s.TransmissionLoss(),
					Ventilation:  s.VentilationLoss(),
					HeatingUp:    s.HeatingUpPower(),
					Gains:        s.HeatGains,
					Load:         s.HeatLoad(),
					Coefficients: s.Coefficients(),
					Airflows: AirflowSet{
						MinFlow:      s.MinFlow(),
						TechFlow:     s.TechFlow(),
						LeakATDFlow:  s.LeakATDFlow(),
						EnvelopeFlow: s.EnvelopeFlow(),
					},
				})
			}
			entRes.Zones = append(entRes.Zones, zoneRes)
		}
		result.Entities = append(result.Entities, entRes)
	}

	return LoadReport{
		Project:      project,
		Climate:      b.Climate,
		Building:     result,
		CalculatedAt: clock.Now().UTC(),
	}
}

// SerializeLoadReport converts a report to its sink-topic form. The key is
// the project name so all reports of a project land in one partition and
// compact down to the latest calculation.
func SerializeLoadReport(rep LoadReport) (OutputReport, error) {
	value, err := json.Marshal(rep)
	if err != nil {
		return OutputReport{}, fmt.Errorf("serialize load report: %w", err)
	}

	return OutputReport{
		Key:   []byte(rep.Project),
		Value: value,
		Headers: map[string]string{
			"project":       rep.Project,
			"calculated_at": rep.CalculatedAt.Format(time.RFC3339),
		},
	}, nil
}
