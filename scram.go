package reactor

import "math"

// Per-tick decay factors applied while scramming
const (
	temperatureDecay = 0.99
	pressureDecay    = 0.98
	radiationDecay   = 0.97
)

// Cold shutdown thresholds ending a SCRAM
const (
	ShutdownTemperature = 50.0
	ShutdownPressure    = 0.5
	ShutdownRadiation   = 0.5
)

// decay applies one step of the SCRAM cooldown on top of the physics update.
func decay(r Readings) Readings {
	r.Temperature = math.Max(MinTemperature, r.Temperature*temperatureDecay)
	r.Pressure = math.Max(MinPressure, r.Pressure*pressureDecay)
	r.Radiation = math.Max(MinRadiation, r.Radiation*radiationDecay)
	return r
}

// scramComplete reports whether the readings have reached cold shutdown.
func scramComplete(r Readings) bool {
	return r.Temperature <= ShutdownTemperature &&
		r.Pressure <= ShutdownPressure &&
		r.Radiation <= ShutdownRadiation
}
