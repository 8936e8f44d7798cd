package disturbance

import "math/rand/v2"

// DefaultRodStuckDuration is how long the rod mechanism stays stuck, in seconds.
const DefaultRodStuckDuration = 10.0

// Latches the control rods at their current insertion until the mechanism is repaired.
type rodStuckDisturbance struct {
	DisturbanceBase

	// internal state
	latchedLevel float64 // rod insertion when the mechanism stuck
}

// Parameters used to request a stuck rod disturbance.
type RodStuckParams struct {
	Name        string  `mapstructure:"name"`
	Repeats     uint64  `mapstructure:"repeats"`     // the number of times the mechanism sticks, 0 for infinite
	Off         bool    `mapstructure:"off"`         // true: disturbance deactivated, false: activated
	StartDelay  float64 `mapstructure:"start_delay"` // the delay before the mechanism can stick (and between repairs) in seconds
	Duration    float64 `mapstructure:"duration"`    // how long the mechanism stays stuck in seconds, 0 for DefaultRodStuckDuration
	Probability float64 `mapstructure:"probability"` // probability of sticking each step, 0 for certain
}

// Returns a rodStuckDisturbance pointer with the requested parameters, checking for invalid values.
func NewRodStuckDisturbance(params RodStuckParams) (*rodStuckDisturbance, error) {
	stuck := &rodStuckDisturbance{}

	if params.Duration == 0 {
		params.Duration = DefaultRodStuckDuration
	}

	if err := stuck.SetStartDelay(params.StartDelay); err != nil {
		return nil, err
	}
	if err := stuck.SetDuration(params.Duration); err != nil {
		return nil, err
	}
	if err := stuck.SetProbability(params.Probability); err != nil {
		return nil, err
	}

	stuck.initBase("rodstuck")
	stuck.Name = params.Name
	stuck.Repeats = params.Repeats
	stuck.Off = params.Off

	return stuck, nil
}

// Returns the rod insertion the mechanism is stuck at.
func (s *rodStuckDisturbance) GetLatchedLevel() float64 {
	return s.latchedLevel
}

func (s *rodStuckDisturbance) stepDisturbance(r *rand.Rand, Ts float64, plant Plant) []Event {
	return s.step(r, Ts, plant, s)
}

func (s *rodStuckDisturbance) begin(_ *rand.Rand, plant Plant) []Event {
	s.latchedLevel = plant.State().ControlRods
	return []Event{s.event(Warning, "Control rod mechanism stuck")}
}

// Holds the rods at the latched level, overriding operator changes, until repaired.
func (s *rodStuckDisturbance) hold(elapsed float64, plant Plant) ([]Event, bool) {
	plant.SetControlRods(s.latchedLevel)
	if elapsed < s.duration {
		return nil, false
	}
	return []Event{s.event(Info, "Control rod mechanism repaired")}, true
}
