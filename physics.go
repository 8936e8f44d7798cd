package reactor

import (
	"math"

	"github.com/synaptecltd/reactor/mathfuncs"
)

// Coefficients of the per-tick model
const (
	rodReactivityGain   = 10.0 // temperature drive per percent of withdrawn rod
	coolantCoolingGain  = 5.0  // temperature relief per percent of coolant flow
	temperatureRate     = 0.05 // fraction of the net drive applied per tick
	pressureTempGain    = 0.01
	pressureCoolantGain = 0.05
	pressureScale       = 0.1
	powerScale          = 0.1
	minDerating         = 0.1  // power never derates below this fraction
	radiationPowerGain  = 0.05 // mSv/h per MW
	radiationTempGain   = 0.1  // mSv/h per degree above radiationTempOnset
	radiationTempOnset  = 600.0
)

// Transition advances a running state by one tick and returns the new state with
// its snapshot. noise is added to the temperature change. The input state is not
// modified; a state that is not running is returned unchanged with ok false.
func Transition(s State, noise float64) (next State, snap Snapshot, ok bool) {
	if !s.Running() {
		return s, Snapshot{}, false
	}

	next = s
	next.Tick++

	// Update order is significant: pressure uses the new temperature, and
	// radiation uses the new power and temperature.
	next.Temperature = nextTemperature(s.Temperature, s.Controls, noise)
	next.Pressure = pressureFor(next.Temperature, s.CoolantFlow)
	next.Power = powerFor(s.Controls, next.Temperature)
	next.Radiation = radiationFor(next.Power, next.Temperature)

	next.Faults = ClassifyFaults(next.Readings)

	if next.Phase == Scramming {
		next.Readings = decay(next.Readings)
		if scramComplete(next.Readings) {
			next.Phase = Shutdown
		}
	}

	return next, next.Snapshot(), true
}

// nextTemperature integrates the temperature change from rod withdrawal and coolant flow.
func nextTemperature(temperature float64, c Controls, noise float64) float64 {
	controlRodEffect := (MaxPercent - c.ControlRods) * rodReactivityGain
	coolantEffect := c.CoolantFlow * coolantCoolingGain
	change := (controlRodEffect-coolantEffect)*temperatureRate + noise
	return mathfuncs.Clamp(temperature+change, MinTemperature, TemperatureCeiling)
}

// pressureFor returns the pressure implied by the temperature and coolant flow.
func pressureFor(temperature, coolantFlow float64) float64 {
	p := (temperature*pressureTempGain - coolantFlow*pressureCoolantGain) * pressureScale
	return mathfuncs.Clamp(p, MinPressure, PressureCeiling)
}

// powerFor returns the extracted power, derated when the core runs hot.
func powerFor(c Controls, temperature float64) float64 {
	reactorOutput := (MaxPercent - c.ControlRods) * rodReactivityGain
	power := reactorOutput * (c.TurbineSpeed / MaxPercent) * powerScale

	deratingOnset := MaxTemperature * WarningFraction
	if temperature > deratingOnset {
		reduction := 1 - (temperature-deratingOnset)/(MaxTemperature*(1-WarningFraction))
		power *= math.Max(minDerating, reduction)
	}
	return power
}

// radiationFor returns the radiation level from power and excess temperature.
func radiationFor(power, temperature float64) float64 {
	tempExcess := math.Max(0, temperature-radiationTempOnset)
	r := MinRadiation + power*radiationPowerGain + tempExcess*radiationTempGain
	return mathfuncs.Clamp(r, MinRadiation, RadiationCeiling)
}
