package disturbance

import (
	"fmt"

	"github.com/synaptecltd/reactor"
)

// Input names one of the operator control inputs.
type Input string

const (
	ControlRods  Input = "rods"
	CoolantFlow  Input = "coolant"
	TurbineSpeed Input = "turbine"
)

// ParseInput validates an input name.
func ParseInput(name string) (Input, error) {
	switch Input(name) {
	case ControlRods, CoolantFlow, TurbineSpeed:
		return Input(name), nil
	default:
		return "", fmt.Errorf("unknown control input: %q", name)
	}
}

// Returns the current value of the input.
func (i Input) read(s reactor.State) float64 {
	switch i {
	case ControlRods:
		return s.ControlRods
	case CoolantFlow:
		return s.CoolantFlow
	default:
		return s.TurbineSpeed
	}
}

// Sets the input through the plant's operator setter.
func (i Input) apply(plant Plant, value float64) {
	switch i {
	case ControlRods:
		plant.SetControlRods(value)
	case CoolantFlow:
		plant.SetCoolantFlow(value)
	default:
		plant.SetTurbineSpeed(value)
	}
}
