package disturbance

import (
	"errors"
	"math"
	"math/rand/v2"
)

// DefaultPumpMagnitude is the coolant flow lost per pump fluctuation, in percent.
const DefaultPumpMagnitude = 10.0

// Drops the coolant flow in steps, as a failing coolant pump would.
type pumpDisturbance struct {
	DisturbanceBase

	Magnitude float64 // coolant flow lost per fluctuation in percent
}

// Parameters used to request a pump disturbance. These map onto the fields of pumpDisturbance.
type PumpParams struct {
	Name        string  `mapstructure:"name"`        // name of the disturbance, used for identification
	Repeats     uint64  `mapstructure:"repeats"`     // the number of fluctuations, 0 for infinite
	Off         bool    `mapstructure:"off"`         // true: disturbance deactivated, false: activated
	StartDelay  float64 `mapstructure:"start_delay"` // the delay before fluctuations are possible (and between them) in seconds
	Probability float64 `mapstructure:"probability"` // probability of a fluctuation each step, 0 for every step
	Magnitude   float64 `mapstructure:"magnitude"`   // coolant flow lost per fluctuation in percent, 0 for DefaultPumpMagnitude
}

// Returns a pumpDisturbance pointer with the requested parameters, checking for invalid values.
func NewPumpDisturbance(params PumpParams) (*pumpDisturbance, error) {
	pump := &pumpDisturbance{}

	// Invalid values checked by setters
	if err := pump.SetStartDelay(params.StartDelay); err != nil {
		return nil, err
	}
	if err := pump.SetProbability(params.Probability); err != nil {
		return nil, err
	}
	if err := pump.SetMagnitude(params.Magnitude); err != nil {
		return nil, err
	}

	// Fields that can never be invalid set directly
	pump.initBase("pump")
	pump.Name = params.Name
	pump.Repeats = params.Repeats
	pump.Off = params.Off

	return pump, nil
}

// Sets the coolant loss per fluctuation. Zero selects DefaultPumpMagnitude.
func (p *pumpDisturbance) SetMagnitude(magnitude float64) error {
	if magnitude < 0 {
		return errors.New("magnitude must be greater than or equal to 0")
	}
	if magnitude == 0 {
		magnitude = DefaultPumpMagnitude
	}
	p.Magnitude = magnitude
	return nil
}

func (p *pumpDisturbance) stepDisturbance(r *rand.Rand, Ts float64, plant Plant) []Event {
	return p.step(r, Ts, plant, p)
}

func (p *pumpDisturbance) begin(_ *rand.Rand, plant Plant) []Event {
	coolant := plant.State().CoolantFlow
	plant.SetCoolantFlow(math.Max(0, coolant-p.Magnitude))
	return []Event{p.event(Warning, "Coolant pump fluctuation detected")}
}

// Fluctuations are instantaneous, so a cycle never lasts beyond its first step.
func (p *pumpDisturbance) hold(_ float64, _ Plant) ([]Event, bool) {
	return nil, true
}
