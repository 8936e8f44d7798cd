package disturbance

import (
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/synaptecltd/reactor"
)

// Plant is the control surface disturbances act on. Disturbances never touch
// readings directly; every effect goes through the operator setters.
type Plant interface {
	State() reactor.State
	SetControlRods(level float64)
	SetCoolantFlow(level float64)
	SetTurbineSpeed(level float64)
}

// DisturbanceInterface is the interface for all disturbance types (pump, rodstuck, earthquake, trend).
type DisturbanceInterface interface {
	GetID() uuid.UUID                                              // Returns the identifier assigned at construction
	GetTypeAsString() string                                       // Returns the disturbance type as a string
	GetName() string                                               // Returns the name used in logs
	GetIsDisturbanceActive() bool                                  // Returns whether a disturbance cycle is in progress
	GetDuration() float64                                          // Returns the duration of each cycle in seconds
	GetStartDelay() float64                                        // Returns the delay before (and between) cycles in seconds
	stepDisturbance(r *rand.Rand, Ts float64, plant Plant) []Event // Steps the disturbance and applies its effect to the plant
}

// Severity of a disturbance event, mirrors how the driver logs it.
type Severity string

const (
	Info     Severity = "info"
	Warning  Severity = "warning"
	Critical Severity = "critical"
)

// Event is a notable change made by a disturbance.
type Event struct {
	ID       uuid.UUID
	Name     string   // name of the disturbance
	Type     string   // type of the disturbance
	Severity Severity // how the event should be surfaced
	Message  string
}

// Container is an ordered collection of disturbances.
type Container []DisturbanceInterface

// Add disturbance to container and returns its UUID.
func (c *Container) AddDisturbance(d DisturbanceInterface) uuid.UUID {
	*c = append(*c, d)
	return d.GetID()
}

// Removes the disturbance with the given UUID, reporting whether it was found.
func (c *Container) RemoveDisturbance(id uuid.UUID) bool {
	for i, d := range *c {
		if d.GetID() == id {
			*c = append((*c)[:i], (*c)[i+1:]...)
			return true
		}
	}
	return false
}

// Steps all disturbances in insertion order, so a seeded generator gives a
// reproducible sequence, and returns the events they raised.
func (c Container) StepAll(r *rand.Rand, Ts float64, plant Plant) []Event {
	var events []Event
	for i := range c {
		events = append(events, c[i].stepDisturbance(r, Ts, plant)...)
	}
	return events
}
