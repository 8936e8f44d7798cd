package reactor

import (
	"math"

	"github.com/synaptecltd/reactor/mathfuncs"
)

// Engine owns the reactor state and applies operator commands to it.
// It is not safe for concurrent use; callers serialise access.
type Engine struct {
	state State
	noise NoiseSource
}

// NewEngine returns an engine in its default standby state. A nil noise source
// disables fluctuations.
func NewEngine(noise NoiseSource) *Engine {
	if noise == nil {
		noise = FixedNoise(0)
	}
	e := &Engine{noise: noise}
	e.Reset()
	return e
}

// State returns a copy of the full reactor state.
func (e *Engine) State() State {
	s := e.state
	s.Faults = make([]Fault, len(e.state.Faults))
	copy(s.Faults, e.state.Faults)
	return s
}

// Start begins or resumes the simulation. Readings and SCRAM progress are kept;
// a SCRAM latched while stopped starts the shutdown sequence.
func (e *Engine) Start() {
	switch e.state.Phase {
	case Standby, Shutdown:
		e.state.Phase = Running
	case ScramPending:
		e.state.Phase = Scramming
	}
}

// Scram fully inserts the control rods and maximises coolant flow. A running
// reactor enters the SCRAM sequence. A stopped reactor latches the SCRAM until
// Start or Reset. Calling it again re-asserts the settings.
func (e *Engine) Scram() {
	e.state.ControlRods = MaxPercent
	e.state.CoolantFlow = MaxPercent
	switch e.state.Phase {
	case Running:
		e.state.Phase = Scramming
	case Standby, Shutdown:
		e.state.Phase = ScramPending
	}
}

// Reset restores every field to its construction default.
func (e *Engine) Reset() {
	e.state = DefaultState()
}

// SetControlRods sets the rod insertion, clamped to [0, 100]. Ignored during SCRAM.
func (e *Engine) SetControlRods(level float64) {
	if e.state.ScramInitiated() || math.IsNaN(level) {
		return
	}
	e.state.ControlRods = clampPercent(level)
}

// SetCoolantFlow sets the coolant flow, clamped to [0, 100]. Ignored during SCRAM.
func (e *Engine) SetCoolantFlow(level float64) {
	if e.state.ScramInitiated() || math.IsNaN(level) {
		return
	}
	e.state.CoolantFlow = clampPercent(level)
}

// SetTurbineSpeed sets the turbine speed, clamped to [0, 100]. NaN is ignored by
// every setter.
func (e *Engine) SetTurbineSpeed(level float64) {
	if math.IsNaN(level) {
		return
	}
	e.state.TurbineSpeed = clampPercent(level)
}

// Advance performs one tick. It returns false without touching the state or
// drawing noise when the reactor is not running.
func (e *Engine) Advance() (Snapshot, bool) {
	if !e.state.Running() {
		return Snapshot{}, false
	}
	next, snap, ok := Transition(e.state, e.noise.Sample())
	e.state = next
	return snap, ok
}

func clampPercent(level float64) float64 {
	return mathfuncs.Clamp(level, MinPercent, MaxPercent)
}
