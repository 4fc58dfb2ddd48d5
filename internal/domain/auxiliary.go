package domain

import "math"

// Constants of the external design temperature adjustment, EN 12831-1
// Annex B.4.1 table B.13.
const (
	tauSlope      = 0.016 // k_tau, K/h
	tauBase       = -0.8  // dT_e_0, K
	tauCorrectMin = 0.0   // K
	tauCorrectMax = 4.0   // K
)

// Surcharge on the measured air change rate per cm2 of small openings that
// were sealed during a pressurization test, EN 12831-1 Annex B.2.10.
const smallOpeningSurcharge = 2.0 // (m3/h)/cm2

// MeanSurfaceTemp returns the mean internal surface temperature T_sm used in
// the temperature adjustment of tall rooms: the design temperature shifted
// by the vertical air gradient over the full room height, plus a correction
// for surfaces warmer than the air (floor heating, radiant heaters).
//
// Callers apply this only for room heights of 4 m or more; below that the
// adjustment is defined to vanish.
func MeanSurfaceTemp(designTemp, airGradient, height, occupiedHeight, surfaceCorr float64) float64 {
	return designTemp + airGradient*(height-occupiedHeight) + surfaceCorr
}

// MeanAirTemp returns the mean internal air temperature T_ia used in the
// ventilation loss of tall rooms. The gradient acts over half the room
// height, and the radiant correction accounts for the difference between
// operative and air temperature.
func MeanAirTemp(designTemp, airGradient, height, occupiedHeight, radiantCorr float64) float64 {
	return designTemp + airGradient*(0.5*height-occupiedHeight) - radiantCorr
}

// BuildingTimeConstant estimates the thermal time constant tau = c_eff *
// V_ext / H_T in hours. The heat transfer coefficient is the untempered
// whole-building value (no temperature adjustment factors), covering losses
// to the exterior, to the ground and to adjacent buildings. Returns 0 when
// the coefficient is not positive.
func BuildingTimeConstant(heatCapacity, externalVolume, transferCoefficient float64) float64 {
	if transferCoefficient <= 0 {
		return 0
	}
	return heatCapacity * externalVolume / transferCoefficient
}

// AltitudeDesignTemp shifts a reference site's external design temperature
// to the building elevation: T_e_0 = T_e_ref + gT_ref * (h_build - h_ref).
// Gradients are negative for sites where temperature falls with altitude.
func AltitudeDesignTemp(refTemp, gradient, buildingElevation, refElevation float64) float64 {
	return refTemp + gradient*(buildingElevation-refElevation)
}

// TimeConstantCorrection returns the thermal-inertia term dT_e_tau of the
// external design temperature: heavy buildings ride out short cold spells,
// so their effective design temperature is allowed to rise by up to 4 K.
// A zero time constant yields no correction.
func TimeConstantCorrection(timeConstant float64) float64 {
	return math.Min(math.Max(tauSlope*timeConstant+tauBase, tauCorrectMin), tauCorrectMax)
}

// AirPermeability50 derives the envelope air permeability q_env_50 in
// m3/(m2*h) from a pressurization test: the measured air change rate at
// 50 Pa plus a surcharge for sealed small openings, scaled from the air
// volume to the envelope area. Small openings are given in m2. Returns 0
// when the air volume or the envelope area is not positive.
func AirPermeability50(measuredN50, smallOpenings, airVolume, envelopeArea float64) float64 {
	if airVolume <= 0 || envelopeArea <= 0 {
		return 0
	}
	n50 := measuredN50 + smallOpeningSurcharge*(smallOpenings*1e4)/airVolume
	return n50 * airVolume / envelopeArea
}

// SetbackTemperatureDrop estimates how far the internal temperature falls
// during a thermostat setback of the given duration: the room decays toward
// the external temperature with the building time constant. A non-positive
// time constant yields the full temperature difference.
func SetbackTemperatureDrop(designTemp, externalTemp, setbackHours, timeConstant float64) float64 {
	if timeConstant <= 0 {
		return designTemp - externalTemp
	}
	return (designTemp - externalTemp) * (1 - math.Exp(-setbackHours/timeConstant))
}
