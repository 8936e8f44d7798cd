package disturbance

import (
	"errors"
	"math"
	"math/rand/v2"
)

// Defaults taken when the corresponding earthquake parameter is zero.
const (
	DefaultQuakeMagnitude     = 15.0 // maximum rod displacement in percent
	DefaultQuakeCoolantDamage = 20.0 // coolant flow lost to damage in percent
	DefaultQuakeCoolantFloor  = 20.0 // coolant flow the damage settles at, at least
)

// Shakes the control rods by a random offset, then damages the coolant system
// once the aftershock delay has passed.
type earthquakeDisturbance struct {
	DisturbanceBase

	Magnitude     float64 // maximum rod displacement in either direction, in percent
	CoolantDamage float64 // coolant flow lost to damage, in percent
	CoolantFloor  float64 // the damaged coolant flow is set no lower than this
}

// Parameters used to request an earthquake. The Delay maps onto the duration of the cycle.
type EarthquakeParams struct {
	Name          string  `mapstructure:"name"`
	Repeats       uint64  `mapstructure:"repeats"`        // the number of earthquakes, 0 for infinite
	Off           bool    `mapstructure:"off"`            // true: disturbance deactivated, false: activated
	StartDelay    float64 `mapstructure:"start_delay"`    // seconds before an earthquake can occur (and between earthquakes)
	Probability   float64 `mapstructure:"probability"`    // probability of an earthquake each step once armed, 0 for certain
	Delay         float64 `mapstructure:"delay"`          // seconds between the shaking and the coolant damage
	Magnitude     float64 `mapstructure:"magnitude"`      // maximum rod displacement, 0 for DefaultQuakeMagnitude
	CoolantDamage float64 `mapstructure:"coolant_damage"` // coolant loss, 0 for DefaultQuakeCoolantDamage
	CoolantFloor  float64 `mapstructure:"coolant_floor"`  // coolant floor after damage, 0 for DefaultQuakeCoolantFloor
}

// Returns an earthquakeDisturbance pointer with the requested parameters, checking for invalid values.
func NewEarthquakeDisturbance(params EarthquakeParams) (*earthquakeDisturbance, error) {
	quake := &earthquakeDisturbance{}

	if err := quake.SetStartDelay(params.StartDelay); err != nil {
		return nil, err
	}
	if err := quake.SetDuration(params.Delay); err != nil {
		return nil, err
	}
	if err := quake.SetProbability(params.Probability); err != nil {
		return nil, err
	}
	if params.Magnitude < 0 || params.CoolantDamage < 0 || params.CoolantFloor < 0 {
		return nil, errors.New("magnitude, coolant damage and coolant floor must be greater than or equal to 0")
	}

	quake.initBase("earthquake")
	quake.Name = params.Name
	quake.Repeats = params.Repeats
	quake.Off = params.Off
	quake.Magnitude = orDefault(params.Magnitude, DefaultQuakeMagnitude)
	quake.CoolantDamage = orDefault(params.CoolantDamage, DefaultQuakeCoolantDamage)
	quake.CoolantFloor = orDefault(params.CoolantFloor, DefaultQuakeCoolantFloor)

	return quake, nil
}

func (q *earthquakeDisturbance) stepDisturbance(r *rand.Rand, Ts float64, plant Plant) []Event {
	return q.step(r, Ts, plant, q)
}

func (q *earthquakeDisturbance) begin(r *rand.Rand, plant Plant) []Event {
	offset := (r.Float64()*2 - 1) * q.Magnitude // uniform in [-Magnitude, Magnitude)
	plant.SetControlRods(plant.State().ControlRods + offset)

	events := []Event{q.event(Critical, "Seismic activity detected")}
	if q.duration == 0 {
		events = append(events, q.damageCoolant(plant))
	}
	return events
}

func (q *earthquakeDisturbance) hold(elapsed float64, plant Plant) ([]Event, bool) {
	if elapsed < q.duration {
		return nil, false
	}
	return []Event{q.damageCoolant(plant)}, true
}

func (q *earthquakeDisturbance) damageCoolant(plant Plant) Event {
	coolant := plant.State().CoolantFlow
	plant.SetCoolantFlow(math.Max(q.CoolantFloor, coolant-q.CoolantDamage))
	return q.event(Warning, "Coolant system damaged by seismic activity")
}

func orDefault(value, fallback float64) float64 {
	if value == 0 {
		return fallback
	}
	return value
}
