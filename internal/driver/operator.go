package driver

import (
	"fmt"

	"github.com/synaptecltd/reactor"
	"github.com/synaptecltd/reactor/disturbance"
)

// Start begins or resumes the simulation.
func (d *Driver) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.engine.Start()
	d.operatorAction(disturbance.Info, "Reactor started")
}

// Scram initiates the emergency shutdown.
func (d *Driver) Scram() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.engine.Scram()
	d.operatorAction(disturbance.Critical, "Emergency SCRAM initiated, control rods fully inserted and coolant flow maximised")
}

// Reset restores the engine defaults and the simulated clock. Disturbances keep
// their progress.
func (d *Driver) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.engine.Reset()
	d.simulatedTime = 0
	d.operatorAction(disturbance.Info, "Reactor reset to initial state")
}

func (d *Driver) SetControlRods(level float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.engine.SetControlRods(level)
	d.logger.Debug("control rods set", "requested", level, "actual", d.engine.State().ControlRods)
}

func (d *Driver) SetCoolantFlow(level float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.engine.SetCoolantFlow(level)
	d.logger.Debug("coolant flow set", "requested", level, "actual", d.engine.State().CoolantFlow)
}

func (d *Driver) SetTurbineSpeed(level float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.engine.SetTurbineSpeed(level)
	d.logger.Debug("turbine speed set", "requested", level, "actual", d.engine.State().TurbineSpeed)
}

func (d *Driver) operatorAction(severity disturbance.Severity, message string) {
	tick := d.engine.State().Tick
	d.logger.Info(message, "tick", tick, "phase", d.engine.State().Phase)
	d.recordEvent(tick, "operator", "operator", severity, message)
}

// Status is a summary of the simulation for display.
type Status struct {
	Tick               uint64
	Clock              string // simulated time as HH:MM
	Phase              reactor.Phase
	Running            bool
	Readings           reactor.Readings
	Controls           reactor.Controls
	SafetyRating       float64
	Faults             []reactor.Fault
	ActiveDisturbances []string
}

// Status returns the current summary.
func (d *Driver) Status() Status {
	d.mu.Lock()
	defer d.mu.Unlock()

	s := d.engine.State()
	var active []string
	for _, dist := range d.disturbances {
		if dist.GetIsDisturbanceActive() {
			active = append(active, dist.GetName())
		}
	}
	return Status{
		Tick:               s.Tick,
		Clock:              FormatClock(d.simulatedTime),
		Phase:              s.Phase,
		Running:            s.Running(),
		Readings:           s.Readings,
		Controls:           s.Controls,
		SafetyRating:       reactor.SafetyRating(s.Readings),
		Faults:             s.Faults,
		ActiveDisturbances: active,
	}
}

func (d *Driver) report() {
	s := d.Status()
	d.logger.Info("status",
		"clock", s.Clock,
		"phase", s.Phase,
		"temperature", fmt.Sprintf("%.1f", s.Readings.Temperature),
		"temperature_band", band(s.Readings.Temperature, reactor.MaxTemperature),
		"pressure", fmt.Sprintf("%.2f", s.Readings.Pressure),
		"pressure_band", band(s.Readings.Pressure, reactor.MaxPressure),
		"radiation", fmt.Sprintf("%.2f", s.Readings.Radiation),
		"radiation_band", band(s.Readings.Radiation, reactor.MaxRadiation),
		"power", fmt.Sprintf("%.0f", s.Readings.Power),
		"safety", fmt.Sprintf("%.1f", s.SafetyRating),
		"faults", len(s.Faults),
		"disturbances", s.ActiveDisturbances,
	)
}

func band(value, limit float64) reactor.GaugeBand {
	return reactor.BandFor(reactor.GaugePercent(value, limit))
}

// FormatClock renders simulated seconds as HH:MM. Hours do not wrap.
func FormatClock(seconds float64) string {
	total := int64(seconds)
	return fmt.Sprintf("%02d:%02d", total/3600, (total%3600)/60)
}
