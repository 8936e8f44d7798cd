package disturbance

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/mitchellh/mapstructure"
)

// Unmarshals a yaml list of disturbances into the container.
func (c *Container) UnmarshalYAML(unmarshal func(interface{}) error) error {
	// Temporary structure to unmarshal the yaml file
	var unmarshaledYaml []map[string]interface{}
	if err := unmarshal(&unmarshaledYaml); err != nil {
		return err
	}

	for i, yamlEntry := range unmarshaledYaml {
		d, err := createDisturbanceFromYamlEntry(yamlEntry)
		if err != nil {
			return fmt.Errorf("disturbance %d: %w", i, err)
		}
		c.AddDisturbance(d)
	}

	return nil
}

// Returns a decodeHook function that can be used to decode disturbances with mapstructure.
// This supports configuration loaders that decode yaml into generic maps first.
func GetDecodeHook() mapstructure.DecodeHookFuncType {
	return func(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
		if t != reflect.TypeOf((*DisturbanceInterface)(nil)).Elem() {
			// Otherwise, return the data as is (default behaviour)
			return data, nil
		}
		m, ok := data.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("disturbance entry cannot be parsed to map[string]interface{}: %v", data)
		}
		return createDisturbanceFromYamlEntry(m)
	}
}

// Creates a disturbance from a yaml entry based on its "type" (or "Type") field.
func createDisturbanceFromYamlEntry(yamlEntry map[string]interface{}) (DisturbanceInterface, error) {
	// must check both m["type"] and m["Type"] because some yaml parsers convert to lower case and some don't
	typeStr, ok := yamlEntry["type"].(string)
	if !ok {
		typeStr, ok = yamlEntry["Type"].(string)
		if !ok {
			return nil, errors.New("disturbance type field is missing or not a string")
		}
	}

	// The remaining fields are the parameters of the disturbance
	params := make(map[string]interface{}, len(yamlEntry))
	for key, value := range yamlEntry {
		if key != "type" && key != "Type" {
			params[key] = value
		}
	}

	switch typeStr {
	case "pump":
		p, err := decodeParams[PumpParams](params)
		if err != nil {
			return nil, err
		}
		d, err := NewPumpDisturbance(p)
		if err != nil {
			return nil, err
		}
		return d, nil
	case "rodstuck":
		p, err := decodeParams[RodStuckParams](params)
		if err != nil {
			return nil, err
		}
		d, err := NewRodStuckDisturbance(p)
		if err != nil {
			return nil, err
		}
		return d, nil
	case "earthquake":
		p, err := decodeParams[EarthquakeParams](params)
		if err != nil {
			return nil, err
		}
		d, err := NewEarthquakeDisturbance(p)
		if err != nil {
			return nil, err
		}
		return d, nil
	case "trend":
		p, err := decodeParams[TrendParams](params)
		if err != nil {
			return nil, err
		}
		d, err := NewTrendDisturbance(p)
		if err != nil {
			return nil, err
		}
		return d, nil
	default:
		return nil, fmt.Errorf("unknown disturbance type: %s", typeStr)
	}
}

// Use mapstructure to decode a yaml entry into the parameters of a disturbance.
// Unknown fields are rejected so that misspelt parameters do not pass silently.
func decodeParams[T any](m map[string]interface{}) (T, error) {
	var params T
	decoderConfig := &mapstructure.DecoderConfig{
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           &params,
	}
	decoder, err := mapstructure.NewDecoder(decoderConfig)
	if err != nil {
		return params, err
	}
	if err := decoder.Decode(m); err != nil {
		return params, err
	}
	return params, nil
}
