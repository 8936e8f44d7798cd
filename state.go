package reactor

// Operational limits
const (
	MaxTemperature = 1000.0 // degrees Celsius
	MaxPressure    = 15.0   // MPa
	MaxRadiation   = 50.0   // mSv/h
)

// Physical floors of the readings
const (
	MinTemperature = 20.0
	MinPressure    = 0.1
	MinRadiation   = 0.1
)

// Ceilings of the readings, as headroom multiples of the operational limits
const (
	TemperatureCeiling = MaxTemperature * 1.5
	PressureCeiling    = MaxPressure * 1.5
	RadiationCeiling   = MaxRadiation * 3
)

// Fractions of a limit at which warnings are raised.
const WarningFraction = 0.8

// Control inputs are percentages in [0, 100].
const (
	MinPercent = 0.0
	MaxPercent = 100.0
)

// Default control input settings after reset.
const (
	DefaultControlRods  = 50.0
	DefaultCoolantFlow  = 50.0
	DefaultTurbineSpeed = 50.0
)

// Phase is the lifecycle state of the reactor.
type Phase int

const (
	Standby     Phase = iota // constructed or reset, not running
	Running                  // normal operation
	Scramming                // emergency shutdown in progress, still running
	Shutdown                 // SCRAM completed, not running
	ScramPending             // SCRAM pressed while stopped, sequence begins on Start
)

func (p Phase) String() string {
	switch p {
	case Standby:
		return "standby"
	case Running:
		return "running"
	case Scramming:
		return "scramming"
	case Shutdown:
		return "shutdown"
	case ScramPending:
		return "scram-pending"
	default:
		return "unknown"
	}
}

// MarshalText renders the phase by name in JSON output.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Controls holds the operator-set inputs, each a percentage.
type Controls struct {
	ControlRods  float64 `json:"controlRods"`  // insertion, higher means less reactivity
	CoolantFlow  float64 `json:"coolantFlow"`  // higher means more cooling
	TurbineSpeed float64 `json:"turbineSpeed"` // affects power extraction only
}

// Readings holds the derived physical quantities.
type Readings struct {
	Temperature float64 `json:"temperature"` // degrees Celsius
	Pressure    float64 `json:"pressure"`    // MPa
	Radiation   float64 `json:"radiation"`   // mSv/h
	Power       float64 `json:"power"`       // MW
}

// State is the complete reactor state.
type State struct {
	Readings
	Controls

	Phase  Phase
	Tick   uint64
	Faults []Fault
}

// Snapshot is the read-only projection of the state returned after each tick.
type Snapshot struct {
	Tick  uint64 `json:"tick"`
	Phase Phase  `json:"phase"`
	Readings
	Faults []Fault `json:"faults"`
}

// DefaultState returns the state of a freshly constructed or reset reactor.
func DefaultState() State {
	return State{
		Readings: Readings{
			Temperature: MinTemperature,
			Pressure:    MinPressure,
			Radiation:   MinRadiation,
			Power:       0,
		},
		Controls: Controls{
			ControlRods:  DefaultControlRods,
			CoolantFlow:  DefaultCoolantFlow,
			TurbineSpeed: DefaultTurbineSpeed,
		},
		Phase:  Standby,
		Tick:   0,
		Faults: []Fault{},
	}
}

// Running reports whether ticks advance the simulation.
func (s State) Running() bool {
	return s.Phase == Running || s.Phase == Scramming
}

// ScramInitiated reports whether an emergency shutdown is in progress or latched
// while stopped. The rod and coolant setters are locked while it holds.
func (s State) ScramInitiated() bool {
	return s.Phase == Scramming || s.Phase == ScramPending
}

// Snapshot projects the state for callers.
func (s State) Snapshot() Snapshot {
	faults := make([]Fault, len(s.Faults))
	copy(faults, s.Faults)
	return Snapshot{
		Tick:     s.Tick,
		Phase:    s.Phase,
		Readings: s.Readings,
		Faults:   faults,
	}
}
