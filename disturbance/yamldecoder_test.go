package disturbance_test

import (
	"testing"

	"github.com/mitchellh/mapstructure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/synaptecltd/reactor/disturbance"
	"gopkg.in/yaml.v2"
)

func TestUnmarshalYAML(t *testing.T) {
	yamlStr := `
- type: pump
  name: primary pump
  start_delay: 60
  probability: 0.05
  magnitude: 12
- type: rodstuck
  duration: 30
  repeats: 1
- Type: earthquake
  probability: 0.001
  delay: 10
- type: trend
  target: turbine
  magnitude: -20
  duration: 120
  func: exponential_decay_full
`

	var container disturbance.Container
	err := yaml.Unmarshal([]byte(yamlStr), &container)
	require.NoError(t, err)
	require.Len(t, container, 4)

	types := make([]string, 0, len(container))
	for _, d := range container {
		types = append(types, d.GetTypeAsString())
	}
	assert.Equal(t, []string{"pump", "rodstuck", "earthquake", "trend"}, types)

	assert.Equal(t, "primary pump", container[0].GetName())
	assert.Equal(t, 60.0, container[0].GetStartDelay())
	assert.Equal(t, 30.0, container[1].GetDuration())
	assert.Equal(t, "earthquake", container[2].GetName())
	assert.Equal(t, 10.0, container[2].GetDuration())
	assert.Equal(t, 120.0, container[3].GetDuration())
	assert.NotEqual(t, container[0].GetID(), container[1].GetID())
}

func TestUnmarshalYAML_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		yamlStr string
	}{
		{
			name:    "unknown type",
			yamlStr: "- type: meltdown\n",
		},
		{
			name:    "missing type",
			yamlStr: "- magnitude: 10\n",
		},
		{
			name:    "unknown field",
			yamlStr: "- type: pump\n  magnitud: 10\n",
		},
		{
			name:    "invalid value",
			yamlStr: "- type: pump\n  probability: 2\n",
		},
		{
			name:    "invalid target",
			yamlStr: "- type: trend\n  target: reactivity\n  duration: 10\n",
		},
		{
			name:    "not a list",
			yamlStr: "type: pump\n",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var container disturbance.Container
			err := yaml.Unmarshal([]byte(tc.yamlStr), &container)
			assert.Error(t, err)
		})
	}
}

func TestParseInput(t *testing.T) {
	for _, name := range []string{"rods", "coolant", "turbine"} {
		input, err := disturbance.ParseInput(name)
		assert.NoError(t, err)
		assert.Equal(t, disturbance.Input(name), input)
	}

	_, err := disturbance.ParseInput("Rods")
	assert.Error(t, err)
}

func TestGetDecodeHook(t *testing.T) {
	var out struct {
		Disturbances []disturbance.DisturbanceInterface `mapstructure:"disturbances"`
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: disturbance.GetDecodeHook(),
		Result:     &out,
	})
	require.NoError(t, err)

	err = decoder.Decode(map[string]interface{}{
		"disturbances": []interface{}{
			map[string]interface{}{"type": "pump", "magnitude": 5},
			map[string]interface{}{"type": "trend", "target": "rods", "duration": 60},
		},
	})
	require.NoError(t, err)
	require.Len(t, out.Disturbances, 2)
	assert.Equal(t, "pump", out.Disturbances[0].GetTypeAsString())
	assert.Equal(t, 60.0, out.Disturbances[1].GetDuration())

	err = decoder.Decode(map[string]interface{}{
		"disturbances": []interface{}{"pump"},
	})
	assert.Error(t, err)
}
