package disturbance

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/synaptecltd/reactor/mathfuncs"
)

// Drives one control input along a shape function, relative to its value when
// the trend started. The input keeps its final value after the trend completes.
type trendDisturbance struct {
	DisturbanceBase

	Target    Input   // control input the trend acts on
	Magnitude float64 // amplitude of the shape function in percent

	magFuncName string                  // name of the shape function, defaults to "linear" if empty
	magFunction mathfuncs.MathsFunction // set internally from magFuncName

	// internal state
	baseline float64 // input value when the active trend started
}

// Parameters to use for the trend disturbance.
type TrendParams struct {
	Name        string  `mapstructure:"name"`
	Repeats     uint64  `mapstructure:"repeats"`     // the number of trends, 0 for infinite
	Off         bool    `mapstructure:"off"`         // true: disturbance deactivated, false: activated
	StartDelay  float64 `mapstructure:"start_delay"` // the delay before trends begin (and between repeats) in seconds
	Duration    float64 `mapstructure:"duration"`    // the duration of each trend in seconds, must be positive
	Probability float64 `mapstructure:"probability"` // probability of a trend starting each step once armed, 0 for certain
	Target      string  `mapstructure:"target"`      // rods, coolant or turbine
	Magnitude   float64 `mapstructure:"magnitude"`   // amplitude of the trend in percent, may be negative
	MagFuncName string  `mapstructure:"func"`        // name of the shape function, empty defaults to "linear"
}

// Returns a trendDisturbance pointer with the requested parameters, checking for invalid values.
func NewTrendDisturbance(params TrendParams) (*trendDisturbance, error) {
	trend := &trendDisturbance{}

	if params.Duration <= 0 {
		return nil, errors.New("trend duration must be greater than 0")
	}
	if err := trend.SetStartDelay(params.StartDelay); err != nil {
		return nil, err
	}
	if err := trend.SetDuration(params.Duration); err != nil {
		return nil, err
	}
	if err := trend.SetProbability(params.Probability); err != nil {
		return nil, err
	}
	if err := trend.SetMagFunctionByName(params.MagFuncName); err != nil {
		return nil, err
	}
	target, err := ParseInput(params.Target)
	if err != nil {
		return nil, err
	}

	trend.initBase("trend")
	trend.Name = params.Name
	trend.Repeats = params.Repeats
	trend.Off = params.Off
	trend.Target = target
	trend.Magnitude = params.Magnitude

	return trend, nil
}

// Sets the shape function by name. An empty name selects the linear ramp.
func (t *trendDisturbance) SetMagFunctionByName(name string) error {
	magFunction, err := mathfuncs.GetTrendFunctionFromName(name)
	if err != nil {
		return fmt.Errorf("trend function %q: %w", name, err)
	}
	t.magFuncName = name
	t.magFunction = magFunction
	return nil
}

// Returns the name of the shape function.
func (t *trendDisturbance) GetMagFunctionName() string {
	return t.magFuncName
}

func (t *trendDisturbance) stepDisturbance(r *rand.Rand, Ts float64, plant Plant) []Event {
	return t.step(r, Ts, plant, t)
}

func (t *trendDisturbance) begin(_ *rand.Rand, plant Plant) []Event {
	t.baseline = t.Target.read(plant.State())
	t.Target.apply(plant, t.baseline+t.magFunction(0, t.Magnitude, t.duration))
	return []Event{t.event(Info, fmt.Sprintf("%s trend started", t.Target))}
}

func (t *trendDisturbance) hold(elapsed float64, plant Plant) ([]Event, bool) {
	progress := math.Min(elapsed, t.duration)
	t.Target.apply(plant, t.baseline+t.magFunction(progress, t.Magnitude, t.duration))
	if elapsed < t.duration {
		return nil, false
	}
	return []Event{t.event(Info, fmt.Sprintf("%s trend complete", t.Target))}, true
}
