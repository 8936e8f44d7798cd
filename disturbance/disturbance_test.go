package disturbance

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/synaptecltd/reactor"
)

const Ts = 10.0 // simulated seconds per tick

func newPlant() *reactor.Engine {
	e := reactor.NewEngine(reactor.FixedNoise(0))
	e.Start()
	return e
}

func TestPumpDisturbance_DropsCoolant(t *testing.T) {
	plant := newPlant()
	rng := rand.New(rand.NewPCG(42, 0))
	pump, err := NewPumpDisturbance(PumpParams{Name: "pump-a", Repeats: 2})
	require.NoError(t, err)

	events := pump.stepDisturbance(rng, Ts, plant)
	require.Len(t, events, 1)
	assert.Equal(t, "pump-a", events[0].Name)
	assert.Equal(t, "pump", events[0].Type)
	assert.Equal(t, Warning, events[0].Severity)
	assert.Equal(t, pump.GetID(), events[0].ID)
	assert.Equal(t, 40.0, plant.State().CoolantFlow)

	pump.stepDisturbance(rng, Ts, plant)
	assert.Equal(t, 30.0, plant.State().CoolantFlow)
	assert.True(t, pump.Off)

	// all repeats done
	assert.Empty(t, pump.stepDisturbance(rng, Ts, plant))
	assert.Equal(t, 30.0, plant.State().CoolantFlow)
	assert.Equal(t, uint64(2), pump.GetCountRepeats())
}

func TestPumpDisturbance_FloorsAtZero(t *testing.T) {
	plant := newPlant()
	plant.SetCoolantFlow(5)
	pump, err := NewPumpDisturbance(PumpParams{Magnitude: 25})
	require.NoError(t, err)

	pump.stepDisturbance(rand.New(rand.NewPCG(1, 0)), Ts, plant)

	assert.Equal(t, 0.0, plant.State().CoolantFlow)
	assert.Equal(t, "pump", pump.GetName())
}

func TestDisturbance_StartDelay(t *testing.T) {
	plant := newPlant()
	rng := rand.New(rand.NewPCG(42, 0))
	pump, err := NewPumpDisturbance(PumpParams{StartDelay: 30, Repeats: 1})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		assert.Empty(t, pump.stepDisturbance(rng, Ts, plant), "step %d", i)
		assert.Equal(t, 50.0, plant.State().CoolantFlow)
	}
	assert.Len(t, pump.stepDisturbance(rng, Ts, plant), 1)
	assert.Equal(t, 40.0, plant.State().CoolantFlow)
}

func TestDisturbance_Probability(t *testing.T) {
	plant := newPlant()
	plant.SetCoolantFlow(100)
	rng := rand.New(rand.NewPCG(42, 0))
	pump, err := NewPumpDisturbance(PumpParams{Probability: 0.5, Magnitude: 0.001})
	require.NoError(t, err)

	triggered := 0
	for i := 0; i < 10000; i++ {
		triggered += len(pump.stepDisturbance(rng, Ts, plant))
	}

	assert.InDelta(t, 0.5, float64(triggered)/10000, 0.05)
}

func TestDisturbance_InvalidParams(t *testing.T) {
	_, err := NewPumpDisturbance(PumpParams{StartDelay: -1})
	assert.Error(t, err)
	_, err = NewPumpDisturbance(PumpParams{Probability: 1.5})
	assert.Error(t, err)
	_, err = NewPumpDisturbance(PumpParams{Magnitude: -3})
	assert.Error(t, err)
	_, err = NewRodStuckDisturbance(RodStuckParams{Duration: -10})
	assert.Error(t, err)
	_, err = NewEarthquakeDisturbance(EarthquakeParams{Magnitude: -1})
	assert.Error(t, err)
	_, err = NewTrendDisturbance(TrendParams{Target: "rods"})
	assert.Error(t, err, "zero duration")
	_, err = NewTrendDisturbance(TrendParams{Target: "reactivity", Duration: 10})
	assert.Error(t, err)
	_, err = NewTrendDisturbance(TrendParams{Target: "rods", Duration: 10, MagFuncName: "not_a_function"})
	assert.Error(t, err)
}

func TestRodStuckDisturbance_HoldsThenReleases(t *testing.T) {
	plant := newPlant()
	rng := rand.New(rand.NewPCG(42, 0))
	stuck, err := NewRodStuckDisturbance(RodStuckParams{Duration: 20, Repeats: 1})
	require.NoError(t, err)

	events := stuck.stepDisturbance(rng, Ts, plant)
	require.Len(t, events, 1)
	assert.Equal(t, "Control rod mechanism stuck", events[0].Message)
	assert.True(t, stuck.GetIsDisturbanceActive())
	assert.Equal(t, 50.0, stuck.GetLatchedLevel())

	plant.SetControlRods(70)
	assert.Empty(t, stuck.stepDisturbance(rng, Ts, plant))
	assert.Equal(t, 50.0, plant.State().ControlRods)

	plant.SetControlRods(80)
	events = stuck.stepDisturbance(rng, Ts, plant)
	require.Len(t, events, 1)
	assert.Equal(t, "Control rod mechanism repaired", events[0].Message)
	assert.Equal(t, Info, events[0].Severity)
	assert.Equal(t, 50.0, plant.State().ControlRods)
	assert.False(t, stuck.GetIsDisturbanceActive())

	// released: operator has control again
	plant.SetControlRods(80)
	assert.Empty(t, stuck.stepDisturbance(rng, Ts, plant))
	assert.Equal(t, 80.0, plant.State().ControlRods)
}

func TestRodStuckDisturbance_DefaultDuration(t *testing.T) {
	stuck, err := NewRodStuckDisturbance(RodStuckParams{})
	require.NoError(t, err)
	assert.Equal(t, DefaultRodStuckDuration, stuck.GetDuration())
}

func TestEarthquakeDisturbance(t *testing.T) {
	plant := newPlant()
	rng := rand.New(rand.NewPCG(7, 0))
	expectedOffset := (rand.New(rand.NewPCG(7, 0)).Float64()*2 - 1) * DefaultQuakeMagnitude

	quake, err := NewEarthquakeDisturbance(EarthquakeParams{Delay: 10, Repeats: 1})
	require.NoError(t, err)

	events := quake.stepDisturbance(rng, Ts, plant)
	require.Len(t, events, 1)
	assert.Equal(t, Critical, events[0].Severity)
	assert.InDelta(t, 50+expectedOffset, plant.State().ControlRods, 1e-9)
	assert.Equal(t, 50.0, plant.State().CoolantFlow)

	events = quake.stepDisturbance(rng, Ts, plant)
	require.Len(t, events, 1)
	assert.Equal(t, "Coolant system damaged by seismic activity", events[0].Message)
	assert.Equal(t, 30.0, plant.State().CoolantFlow)
	assert.True(t, quake.Off)
}

func TestEarthquakeDisturbance_ImmediateDamageAndFloor(t *testing.T) {
	plant := newPlant()
	plant.SetCoolantFlow(30)
	quake, err := NewEarthquakeDisturbance(EarthquakeParams{Repeats: 1})
	require.NoError(t, err)

	events := quake.stepDisturbance(rand.New(rand.NewPCG(3, 0)), Ts, plant)

	require.Len(t, events, 2)
	assert.Equal(t, DefaultQuakeCoolantFloor, plant.State().CoolantFlow) // max(20, 30-20)
}

func TestEarthquakeDisturbance_CannotOverrideScram(t *testing.T) {
	plant := newPlant()
	plant.Scram()
	quake, err := NewEarthquakeDisturbance(EarthquakeParams{Repeats: 1})
	require.NoError(t, err)

	quake.stepDisturbance(rand.New(rand.NewPCG(3, 0)), Ts, plant)

	assert.Equal(t, 100.0, plant.State().ControlRods)
	assert.Equal(t, 100.0, plant.State().CoolantFlow)
}

func TestTrendDisturbance_LinearRamp(t *testing.T) {
	plant := newPlant()
	rng := rand.New(rand.NewPCG(42, 0))
	trend, err := NewTrendDisturbance(TrendParams{
		Target:    "turbine",
		Magnitude: 40,
		Duration:  40,
		Repeats:   1,
	})
	require.NoError(t, err)

	expected := []float64{50, 60, 70, 80, 90}
	for i, value := range expected {
		trend.stepDisturbance(rng, Ts, plant)
		assert.InDelta(t, value, plant.State().TurbineSpeed, 1e-9, "step %d", i)
	}
	assert.True(t, trend.Off)

	// the input keeps its final value
	trend.stepDisturbance(rng, Ts, plant)
	assert.InDelta(t, 90.0, plant.State().TurbineSpeed, 1e-9)
}

func TestTrendDisturbance_NegativeMagnitudeClamps(t *testing.T) {
	plant := newPlant()
	rng := rand.New(rand.NewPCG(42, 0))
	trend, err := NewTrendDisturbance(TrendParams{
		Target:      "coolant",
		Magnitude:   -80,
		Duration:    20,
		MagFuncName: "linear",
		Repeats:     1,
	})
	require.NoError(t, err)
	assert.Equal(t, "linear", trend.GetMagFunctionName())

	for i := 0; i < 3; i++ {
		trend.stepDisturbance(rng, Ts, plant)
	}

	assert.Equal(t, 0.0, plant.State().CoolantFlow) // 50 - 80 clamps to 0
}

func TestContainer_StepAllInOrder(t *testing.T) {
	plant := newPlant()
	rng := rand.New(rand.NewPCG(42, 0))

	var c Container
	pump, _ := NewPumpDisturbance(PumpParams{Name: "first", Repeats: 1})
	trend, _ := NewTrendDisturbance(TrendParams{Name: "second", Target: "coolant", Magnitude: 10, Duration: 10, Repeats: 1})
	pumpID := c.AddDisturbance(pump)
	c.AddDisturbance(trend)

	events := c.StepAll(rng, Ts, plant)

	require.Len(t, events, 2)
	assert.Equal(t, "first", events[0].Name)
	assert.Equal(t, "second", events[1].Name)
	// the trend baseline is taken after the pump fluctuation
	assert.Equal(t, 40.0, plant.State().CoolantFlow)

	assert.True(t, c.RemoveDisturbance(pumpID))
	assert.False(t, c.RemoveDisturbance(pumpID))
	assert.Len(t, c, 1)
}
