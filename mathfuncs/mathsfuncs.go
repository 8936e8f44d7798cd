package mathfuncs

import (
	"errors"
	"math"
	"sort"

	"github.com/stevenblair/sigourney/fast"
)

// A shape function y=f(t,A,T). Takes amplitude, A, and period or duration, T,
// as inputs and returns the value of the function at elapsed time, t.
type MathsFunction func(t, A, T float64) float64

// A map between string name and shape function pairs
var mathsFunctions = map[string]MathsFunction{
	"linear":                 linearRamp,
	"sine":                   Sine,
	"cosine":                 cosineWave,
	"exponential":            exponentialRamp,
	"exponential_decay":      exponentialDecay,
	"exponential_decay_full": exponentialDecaySaturated,
	"parabolic":              parabolicRamp,
	"step":                   stepFunction,
	"square":                 squareWave,
	"sawtooth":               sawtoothWave,
	"flat":                   flat,
}

// Returns the names of all registered shape functions in sorted order.
func GetMathsFunctionNames() []string {
	names := make([]string, 0, len(mathsFunctions))
	for name := range mathsFunctions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Returns the named shape function. Defaults to linear if name is empty.
func GetTrendFunctionFromName(name string) (MathsFunction, error) {
	if name == "" {
		return linearRamp, nil
	}

	trendFunc, ok := mathsFunctions[name]
	if !ok {
		return nil, errors.New("trend function not found")
	}

	return trendFunc, nil
}

// Clamp limits v to the closed interval [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

// Returns a linear ramp y=(A/T)*t where A is the magnitude of the ramp, T is
// its duration, and t is elapsed time.
func linearRamp(t, A, T float64) float64 {
	m := A / T // slope of the ramp
	return m * t
}

// Returns a sine wave y = A*sin(2π * t / PeriodDuration)
// PeriodDuration defines the cycle length in seconds.
func Sine(t, A, PeriodDuration float64) float64 {
	if PeriodDuration <= 0 {
		PeriodDuration = 86400.0 // default to 1 day
	}
	return A * math.Sin(2*math.Pi*t/PeriodDuration)
}

// Returns a cosine wave y=A*cos(2*pi*t/T) where A is the amplitude,
// T is the period, and t is elapsed time.
func cosineWave(t, A, T float64) float64 {
	return A * fast.Cos(2*math.Pi*t/T)
}

// Returns an exponential ramp y=A*exp(t/T) - A where A is the amplitude,
// T is the time constant, and t is elapsed time.
func exponentialRamp(t, A, T float64) float64 {
	return A*math.Exp(t/T) - A
}

// Returns an exponential decay y=A*exp(-t/T).
func exponentialDecay(t, A, T float64) float64 {
	return A * math.Exp(-t/T)
}

// Returns a saturating rise y=A*(1-exp(-t/T)).
func exponentialDecaySaturated(t, A, T float64) float64 {
	return A * (1 - math.Exp(-t/T))
}

// Returns a parabolic ramp of amplitude A every period T.
func parabolicRamp(t, A, T float64) float64 {
	return A * (t / T) * (t / T)
}

// Returns a step function of amplitude A every period T.
func stepFunction(t, A, T float64) float64 {
	if math.Mod(t, T) < T/2 {
		return 0
	}
	return A
}

// Returns a square wave y=A if sin(2*pi*t/T) >= 0, else -A.
func squareWave(t, A, T float64) float64 {
	if fast.Sin(2*math.Pi*t/T) >= 0 {
		return A
	}
	return -A
}

// Returns a sawtooth wave y=(2*A/pi)*atan(tan(pi*t/T)),
// where A is the amplitude, T is the period, and t is elapsed time.
func sawtoothWave(t, A, T float64) float64 {
	return (2 * A / math.Pi) * math.Atan(math.Tan(math.Pi*t/T))
}

// flat returns a constant value equal to A.
func flat(_, A, _ float64) float64 {
	return A
}
