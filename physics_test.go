package reactor

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPowerFor(t *testing.T) {
	testCases := []struct {
		controls    Controls
		temperature float64
		expected    float64
	}{
		{controls: Controls{ControlRods: 50, TurbineSpeed: 50}, temperature: 20, expected: 25},
		{controls: Controls{ControlRods: 100, TurbineSpeed: 100}, temperature: 20, expected: 0},
		{controls: Controls{ControlRods: 0, TurbineSpeed: 100}, temperature: 800, expected: 100}, // derating starts above 800
		{controls: Controls{ControlRods: 0, TurbineSpeed: 100}, temperature: 900, expected: 50},
		{controls: Controls{ControlRods: 0, TurbineSpeed: 100}, temperature: 1000, expected: 10}, // derating floor
		{controls: Controls{ControlRods: 0, TurbineSpeed: 100}, temperature: 1500, expected: 10},
		{controls: Controls{ControlRods: 0, TurbineSpeed: 0}, temperature: 500, expected: 0},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("rods:%v-turbine:%v-T:%v", tc.controls.ControlRods, tc.controls.TurbineSpeed, tc.temperature), func(t *testing.T) {
			assert.InDelta(t, tc.expected, powerFor(tc.controls, tc.temperature), 1e-9)
		})
	}
}

func TestPressureFor(t *testing.T) {
	assert.InDelta(t, 0.1, pressureFor(20, 50), 1e-9)
	assert.InDelta(t, 1.5, pressureFor(1500, 0), 1e-9)
	assert.InDelta(t, 0.5, pressureFor(500, 0), 1e-9)
	assert.InDelta(t, 1.0, pressureFor(1500, 100), 1e-9)
	assert.Equal(t, MinPressure, pressureFor(400, 100))
}

func TestRadiationFor(t *testing.T) {
	assert.InDelta(t, 0.1, radiationFor(0, 20), 1e-9)
	assert.InDelta(t, 1.35, radiationFor(25, 20), 1e-9)
	assert.InDelta(t, 10.1, radiationFor(0, 700), 1e-9)
	assert.InDelta(t, 95.1, radiationFor(100, 1500), 1e-9)
	assert.Equal(t, RadiationCeiling, radiationFor(2000, 1500))
}

func TestTransition_DoesNotModifyInput(t *testing.T) {
	s := DefaultState()
	s.Phase = Running
	s.ControlRods = 0
	s.CoolantFlow = 0
	s.Temperature = 900
	s.Faults = ClassifyFaults(s.Readings)
	before := s
	beforeFaults := append([]Fault(nil), s.Faults...)

	next, snap, ok := Transition(s, 1.0)

	require.True(t, ok)
	assert.Equal(t, before.Readings, s.Readings)
	assert.Equal(t, before.Tick, s.Tick)
	assert.Equal(t, beforeFaults, s.Faults)
	assert.Equal(t, uint64(1), next.Tick)
	assert.InDelta(t, 951.0, next.Temperature, 1e-9)
	assert.Equal(t, next.Snapshot(), snap)
}

func TestTransition_NotRunning(t *testing.T) {
	for _, phase := range []Phase{Standby, Shutdown, ScramPending} {
		s := DefaultState()
		s.Phase = phase

		next, snap, ok := Transition(s, 2.0)

		assert.False(t, ok, phase.String())
		assert.Equal(t, s, next)
		assert.Equal(t, Snapshot{}, snap)
	}
}

func TestTransition_ScramDecayFollowsPhysics(t *testing.T) {
	s := DefaultState()
	s.Phase = Scramming
	s.ControlRods = 100
	s.CoolantFlow = 100
	s.Temperature = 1000

	next, snap, ok := Transition(s, 0)
	require.True(t, ok)

	// physics first: 1000 - 25 = 975, then decay by 0.99
	assert.InDelta(t, 975*0.99, next.Temperature, 1e-9)
	// pressure 0.1*(9.75-5) = 0.475, then decay by 0.98
	assert.InDelta(t, 0.475*0.98, next.Pressure, 1e-9)
	// radiation 0.1 + 0.1*375 = 37.6, then decay by 0.97
	assert.InDelta(t, 37.6*0.97, next.Radiation, 1e-9)
	assert.Equal(t, Scramming, next.Phase)

	// faults are classified before the decay step
	assert.Equal(t, ClassifyFaults(Readings{Temperature: 975, Pressure: 0.475, Radiation: 37.6}), snap.Faults)
	require.Len(t, snap.Faults, 1)
	assert.Equal(t, TemperatureSystem, snap.Faults[0].System)
}

func TestDecay_RespectsFloors(t *testing.T) {
	r := decay(Readings{Temperature: 20, Pressure: 0.1, Radiation: 0.1})

	assert.Equal(t, MinTemperature, r.Temperature)
	assert.Equal(t, MinPressure, r.Pressure)
	assert.Equal(t, MinRadiation, r.Radiation)
	assert.True(t, scramComplete(r))
	assert.False(t, scramComplete(Readings{Temperature: 50, Pressure: 0.5, Radiation: 0.51}))
	assert.True(t, scramComplete(Readings{Temperature: 50, Pressure: 0.5, Radiation: 0.5}))
}
