package disturbance

import (
	"errors"
	"math/rand/v2"

	"github.com/google/uuid"
)

// DisturbanceBase is the base struct for all disturbance types.
type DisturbanceBase struct {
	// Setters and getters are provided for private fields below to allow for error checking
	id          uuid.UUID // assigned when the disturbance is created
	typeName    string    // the type of disturbance
	Name        string    // name used in logs and events
	startDelay  float64   // how many seconds before the disturbance is armed, and between repeats
	duration    float64   // how long each cycle lasts in seconds, 0 for instantaneous
	probability float64   // probability of triggering per step once armed, 0 triggers deterministically
	Repeats     uint64    // the number of cycles, 0 for infinite
	Off         bool      // true: disturbance deactivated, false: activated

	// internal state
	isDisturbanceActive  bool    // whether a cycle is in progress
	startDelayIndex      int     // time steps waited since the last cycle ended
	elapsedActivatedTime float64 // time elapsed since the start of the active cycle
	countRepeats         uint64  // number of completed cycles
}

// cycle supplies the type specific effects of a disturbance cycle.
type cycle interface {
	begin(r *rand.Rand, plant Plant) []Event                       // called on the step the cycle triggers
	hold(elapsed float64, plant Plant) (events []Event, done bool) // called on every later step of the cycle
}

// Returns the identifier of the disturbance.
func (d *DisturbanceBase) GetID() uuid.UUID {
	return d.id
}

// Returns the type of disturbance as a string.
func (d *DisturbanceBase) GetTypeAsString() string {
	return d.typeName
}

// Returns the name of the disturbance, falling back to its type.
func (d *DisturbanceBase) GetName() string {
	if d.Name == "" {
		return d.typeName
	}
	return d.Name
}

// Returns the delay before each cycle in seconds.
func (d *DisturbanceBase) GetStartDelay() float64 {
	return d.startDelay
}

// Returns the duration of each cycle in seconds.
func (d *DisturbanceBase) GetDuration() float64 {
	return d.duration
}

// Returns the probability of a cycle triggering each step once armed.
func (d *DisturbanceBase) GetProbability() float64 {
	return d.probability
}

// Returns whether a cycle is in progress this timestep.
func (d *DisturbanceBase) GetIsDisturbanceActive() bool {
	return d.isDisturbanceActive
}

// Returns the number of completed cycles.
func (d *DisturbanceBase) GetCountRepeats() uint64 {
	return d.countRepeats
}

// Returns the time elapsed since the start of the active cycle.
func (d *DisturbanceBase) GetElapsedActivatedTime() float64 {
	return d.elapsedActivatedTime
}

// Sets the type name and assigns a fresh identifier.
func (d *DisturbanceBase) initBase(typeName string) {
	d.typeName = typeName
	d.id = uuid.New()
}

// Sets the delay before cycles in seconds if startDelay >= 0.
func (d *DisturbanceBase) SetStartDelay(startDelay float64) error {
	if startDelay < 0 {
		return errors.New("startDelay must be greater than or equal to 0")
	}
	d.startDelay = startDelay
	return nil
}

// Sets the duration of each cycle in seconds if duration >= 0.
func (d *DisturbanceBase) SetDuration(duration float64) error {
	if duration < 0 {
		return errors.New("duration must be greater than or equal to 0")
	}
	d.duration = duration
	return nil
}

// Sets the per step trigger probability if it lies within [0, 1].
func (d *DisturbanceBase) SetProbability(probability float64) error {
	if probability < 0 || probability > 1 {
		return errors.New("probability must be between 0 and 1")
	}
	d.probability = probability
	return nil
}

// Drives the shared delay, trigger and repeat cycle, delegating effects to c.
// Ts is the simulated time per step in seconds.
func (d *DisturbanceBase) step(r *rand.Rand, Ts float64, plant Plant, c cycle) []Event {
	if d.Off {
		d.isDisturbanceActive = false
		return nil
	}

	if d.isDisturbanceActive {
		d.elapsedActivatedTime += Ts
		events, done := c.hold(d.elapsedActivatedTime, plant)
		if done {
			d.completeCycle()
		}
		return events
	}

	// Wait out the start delay before arming
	if float64(d.startDelayIndex)*Ts < d.startDelay {
		d.startDelayIndex += 1
		return nil
	}

	if !d.triggered(r) {
		return nil
	}

	d.isDisturbanceActive = true
	d.elapsedActivatedTime = 0
	events := c.begin(r, plant)
	if d.duration == 0 {
		d.completeCycle()
	}
	return events
}

// Returns whether an armed disturbance triggers this step.
func (d *DisturbanceBase) triggered(r *rand.Rand) bool {
	if d.probability == 0 {
		return true
	}
	return r.Float64() < d.probability
}

// Ends the active cycle and switches the disturbance off once all repeats are done.
func (d *DisturbanceBase) completeCycle() {
	d.isDisturbanceActive = false
	d.startDelayIndex = 0
	d.countRepeats += 1
	if d.Repeats != 0 && d.countRepeats >= d.Repeats {
		d.Off = true // switch off to save future computation
	}
}

// Creates an event attributed to this disturbance.
func (d *DisturbanceBase) event(severity Severity, message string) Event {
	return Event{
		ID:       d.id,
		Name:     d.GetName(),
		Type:     d.typeName,
		Severity: severity,
		Message:  message,
	}
}
