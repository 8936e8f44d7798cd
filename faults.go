package reactor

import "fmt"

// FaultKind is the severity of a fault.
type FaultKind string

const (
	Warning  FaultKind = "warning"
	Critical FaultKind = "critical"
)

// System names the reading a fault was raised for.
type System string

const (
	TemperatureSystem System = "temperature"
	PressureSystem    System = "pressure"
	RadiationSystem   System = "radiation"
)

// Fault is a threshold violation of one reading.
type Fault struct {
	Kind    FaultKind `json:"type"`
	System  System    `json:"system"`
	Message string    `json:"message"`
	Value   float64   `json:"value"`
}

func (f Fault) String() string {
	return fmt.Sprintf("%s (%.2f)", f.Message, f.Value)
}

// monitored pairs a reading with the limit it is checked against.
type monitored struct {
	system System
	value  float64
	limit  float64
}

// ClassifyFaults returns the faults implied by the readings. Warning and critical
// thresholds are evaluated independently, so a value above its limit yields both.
func ClassifyFaults(r Readings) []Fault {
	checks := []monitored{
		{system: TemperatureSystem, value: r.Temperature, limit: MaxTemperature},
		{system: PressureSystem, value: r.Pressure, limit: MaxPressure},
		{system: RadiationSystem, value: r.Radiation, limit: MaxRadiation},
	}

	faults := []Fault{}
	for _, c := range checks {
		if c.value > c.limit*WarningFraction {
			faults = append(faults, Fault{
				Kind:    Warning,
				System:  c.system,
				Message: fmt.Sprintf("High %s warning", c.system),
				Value:   c.value,
			})
		}
		if c.value > c.limit {
			faults = append(faults, Fault{
				Kind:    Critical,
				System:  c.system,
				Message: fmt.Sprintf("CRITICAL: %s exceeds maximum safe level", c.system.title()),
				Value:   c.value,
			})
		}
	}
	return faults
}

// HasCritical reports whether any fault is critical.
func HasCritical(faults []Fault) bool {
	for _, f := range faults {
		if f.Kind == Critical {
			return true
		}
	}
	return false
}

func (s System) title() string {
	switch s {
	case TemperatureSystem:
		return "Temperature"
	case PressureSystem:
		return "Pressure"
	case RadiationSystem:
		return "Radiation"
	default:
		return string(s)
	}
}
