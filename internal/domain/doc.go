// Package domain models building design heat-load projects and their
// calculation after EN 12831-1 §6.
//
// # Data Source
//
// Project documents originate from planning tools that publish them as JSON
// to the Kafka source topic, or submit them directly over HTTP. On disk the
// same documents are written as YAML; both forms decode into the same
// structures.
//
// # Document Conventions
//
// Field names follow the symbols of EN 12831-1, so a document reads like
// the worked examples of the standard: T_i_d is the internal design
// temperature, A_fl the floor area, V_exh the exhaust airflow, q_env_50
// the air permeability at 50 Pa.
//
// Quantity fields accept a bare number in the field's canonical unit
// (degC, m2, m3, m3/h, W, ...) or a "value unit" string that is converted
// on compilation:
//
//	T_i_d: 20
//	T_i_d: "68 degF"
//	V_sup: "25 L/s"
//
// Omitted optional fields take the defaults of EN 12831-1 Annex B (room
// height 2.7 m, minimum air change 0.5/h, thermal bridge surcharge
// 0.1 W/(m2*K), ...). An explicit zero is kept as zero.
//
// # Hierarchy
//
// A building is made of building entities (e.g. the apartments of a
// multi-family house), an entity of ventilation zones (sets of spaces
// sharing air), a zone of heated spaces, and a space of building elements
// (its walls, windows, floors). Each element's category states what lies on
// the far side: external air, another heated space, another entity, an
// unheated space or the ground.
//
// # Calculation
//
// Per space, three parts add up to the design heat load:
//
//	transmission: element areas times transmittances, adjusted per category
//	  (thermal bridges and exposure for exterior, the Annex E ground
//	  regression for slabs, temperature ratios for adjacent spaces)
//	ventilation: infiltration resolved on zone level from the pressure
//	  balance and distributed over the spaces, competing against the
//	  hygienic minimum; mechanical flows enter at their own temperatures
//	heating up: an area-specific allowance for recovery after setback
//
// Aggregation drops flows that cancel at the wider scope: entity totals
// exclude transfers between their own spaces, building totals also exclude
// transfers between entities.
//
// # Climate Resolution
//
// A document either embeds its climate record (T_e_d, T_e_an) or names a
// reference site which is resolved against the climate service; see
// [ResolveClimate]. A site_correction block shifts the resolved design
// temperature to the building altitude and grants heavy buildings a
// thermal-inertia allowance of up to 4 K, following Annex B.4.1.
package domain
