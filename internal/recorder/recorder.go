package recorder

import (
	"github.com/synaptecltd/reactor"
	"github.com/synaptecltd/reactor/disturbance"
)

// TickRecord holds the outcome of one simulation tick.
type TickRecord struct {
	Snapshot      reactor.Snapshot
	Controls      reactor.Controls
	SimulatedTime float64 // simulated seconds at the end of the tick
	SafetyRating  float64
}

// FaultRecord holds one fault raised on a tick.
type FaultRecord struct {
	Tick  uint64
	Fault reactor.Fault
}

// EventRecord holds a disturbance event or an operator action.
type EventRecord struct {
	Tick     uint64
	Source   string // "disturbance" or "operator"
	Name     string
	Severity disturbance.Severity
	Message  string
}

// Recorder persists the history of a run for analysis.
type Recorder interface {
	RecordTick(rec *TickRecord) error
	RecordFault(rec *FaultRecord) error
	RecordEvent(rec *EventRecord) error
	Close() error
}
