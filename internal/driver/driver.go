package driver

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/synaptecltd/reactor"
	"github.com/synaptecltd/reactor/disturbance"
	"github.com/synaptecltd/reactor/internal/recorder"
)

// DefaultSecondsPerTick is the simulated time covered by one tick.
const DefaultSecondsPerTick = 10.0

// Options configures a Driver.
type Options struct {
	Seed           uint64                // seeds the sensor noise and the disturbances
	Noise          bool                  // false runs without sensor noise
	SecondsPerTick float64               // simulated seconds per tick, 0 for DefaultSecondsPerTick
	Controls       *reactor.Controls     // initial control settings, nil for the engine defaults
	Disturbances   disturbance.Container // stepped before every tick while running
	Recorder       recorder.Recorder     // nil records nothing
	Logger         *slog.Logger          // nil uses slog.Default()
	MaxTicks       uint64                // Run returns after this many ticks, 0 for no limit
}

// Driver owns an engine and advances it on a schedule. All engine access goes
// through the driver's mutex, so operator commands may arrive from any goroutine.
type Driver struct {
	mu             sync.Mutex
	engine         *reactor.Engine
	disturbances   disturbance.Container
	rng            *rand.Rand
	recorder       recorder.Recorder
	logger         *slog.Logger
	cron           *cron.Cron
	secondsPerTick float64
	simulatedTime  float64 // seconds since the last reset
	ticks          uint64  // ticks advanced by this driver, kept across resets
	maxTicks       uint64

	done     chan struct{}
	doneOnce sync.Once
}

// New creates a driver with the engine in standby.
func New(opts Options) *Driver {
	var noise reactor.NoiseSource = reactor.FixedNoise(0)
	if opts.Noise {
		noise = reactor.NewUniformNoiseFrom(rand.New(rand.NewPCG(opts.Seed, 0)))
	}
	if opts.SecondsPerTick == 0 {
		opts.SecondsPerTick = DefaultSecondsPerTick
	}
	if opts.Recorder == nil {
		opts.Recorder = recorder.NewNoopRecorder()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	engine := reactor.NewEngine(noise)
	if opts.Controls != nil {
		engine.SetControlRods(opts.Controls.ControlRods)
		engine.SetCoolantFlow(opts.Controls.CoolantFlow)
		engine.SetTurbineSpeed(opts.Controls.TurbineSpeed)
	}

	return &Driver{
		engine:       engine,
		disturbances: opts.Disturbances,
		// separate stream from the noise so adding a disturbance leaves the noise unchanged
		rng:            rand.New(rand.NewPCG(opts.Seed, 1)),
		recorder:       opts.Recorder,
		logger:         opts.Logger,
		cron:           cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		secondsPerTick: opts.SecondsPerTick,
		maxTicks:       opts.MaxTicks,
		done:           make(chan struct{}),
	}
}

// Run schedules a tick on tickSpec and, if reportSpec is not empty, a status
// report on reportSpec. It blocks until ctx is cancelled or MaxTicks ticks
// have been advanced. Run must be called at most once.
func (d *Driver) Run(ctx context.Context, tickSpec, reportSpec string) error {
	if _, err := d.cron.AddFunc(tickSpec, func() { d.Tick() }); err != nil {
		return fmt.Errorf("register tick: %w", err)
	}
	if reportSpec != "" {
		if _, err := d.cron.AddFunc(reportSpec, d.report); err != nil {
			return fmt.Errorf("register report: %w", err)
		}
	}

	d.cron.Start()
	d.logger.Info("driver started", "tick", tickSpec, "report", reportSpec)

	select {
	case <-ctx.Done():
	case <-d.done:
	}

	<-d.cron.Stop().Done()
	d.logger.Info("driver stopped", "ticks", d.Ticks())
	return nil
}

// Done is closed once MaxTicks ticks have been advanced.
func (d *Driver) Done() <-chan struct{} {
	return d.done
}

// Tick steps the disturbances and advances the engine once. It does nothing
// and returns false when the reactor is not running.
func (d *Driver) Tick() (reactor.Snapshot, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	before := d.engine.State()
	if !before.Running() {
		return reactor.Snapshot{}, false
	}
	tick := before.Tick + 1

	for _, ev := range d.disturbances.StepAll(d.rng, d.secondsPerTick, d.engine) {
		d.logDisturbance(tick, ev)
	}

	snap, ok := d.engine.Advance()
	if !ok {
		return snap, false
	}
	d.simulatedTime += d.secondsPerTick
	d.ticks++

	d.logger.Debug("tick",
		"tick", snap.Tick,
		"clock", FormatClock(d.simulatedTime),
		"phase", snap.Phase,
		"temperature", snap.Temperature,
		"pressure", snap.Pressure,
		"radiation", snap.Radiation,
		"power", snap.Power,
	)
	for _, f := range snap.Faults {
		d.logFault(snap.Tick, f)
	}

	after := d.engine.State()
	if err := d.recorder.RecordTick(&recorder.TickRecord{
		Snapshot:      snap,
		Controls:      after.Controls,
		SimulatedTime: d.simulatedTime,
		SafetyRating:  reactor.SafetyRating(snap.Readings),
	}); err != nil {
		d.logger.Error("record tick", "error", err)
	}

	if before.Phase == reactor.Scramming && snap.Phase == reactor.Shutdown {
		d.logger.Info("SCRAM procedure completed, reactor in cold shutdown",
			"tick", snap.Tick, "clock", FormatClock(d.simulatedTime))
		d.recordEvent(snap.Tick, "engine", "scram", disturbance.Info, "SCRAM procedure completed")
	}

	if d.maxTicks > 0 && d.ticks >= d.maxTicks {
		d.doneOnce.Do(func() { close(d.done) })
	}
	return snap, true
}

func (d *Driver) logFault(tick uint64, f reactor.Fault) {
	level := slog.LevelWarn
	if f.Kind == reactor.Critical {
		level = slog.LevelError
	}
	d.logger.Log(context.Background(), level, f.String(), "tick", tick, "system", f.System)

	if err := d.recorder.RecordFault(&recorder.FaultRecord{Tick: tick, Fault: f}); err != nil {
		d.logger.Error("record fault", "error", err)
	}
}

func (d *Driver) logDisturbance(tick uint64, ev disturbance.Event) {
	level := slog.LevelInfo
	switch ev.Severity {
	case disturbance.Warning:
		level = slog.LevelWarn
	case disturbance.Critical:
		level = slog.LevelError
	}
	d.logger.Log(context.Background(), level, ev.Message, "tick", tick, "disturbance", ev.Name, "id", ev.ID)
	d.recordEvent(tick, "disturbance", ev.Name, ev.Severity, ev.Message)
}

func (d *Driver) recordEvent(tick uint64, source, name string, severity disturbance.Severity, message string) {
	if err := d.recorder.RecordEvent(&recorder.EventRecord{
		Tick:     tick,
		Source:   source,
		Name:     name,
		Severity: severity,
		Message:  message,
	}); err != nil {
		d.logger.Error("record event", "error", err)
	}
}

// Ticks returns the number of ticks advanced since the driver was created.
func (d *Driver) Ticks() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.ticks
}

// Inject adds a disturbance to the running simulation and returns its UUID.
func (d *Driver) Inject(dist disturbance.DisturbanceInterface) uuid.UUID {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.logger.Info("disturbance injected", "type", dist.GetTypeAsString(), "name", dist.GetName(), "id", dist.GetID())
	return d.disturbances.AddDisturbance(dist)
}

// Remove withdraws a disturbance, reporting whether it was found.
func (d *Driver) Remove(id uuid.UUID) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.disturbances.RemoveDisturbance(id)
}
