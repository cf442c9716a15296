package story

import (
	"fmt"
	"os"
	"reflect"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// LoadProject reads an authored project document from disk. Both YAML and
// JSON are accepted; JSON is a YAML subset so a single decode path covers
// both.
func LoadProject(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read project file: %w", err)
	}
	p, err := DecodeProject(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return p, nil
}

// DecodeProject parses a project document. The document is either a full
// project (title, nodes, ...) or a bare top-level node list; authoring
// tools emit both.
func DecodeProject(data []byte) (*Project, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	// Bare node list: wrap it so one decode path remains.
	if list, ok := raw.([]any); ok {
		raw = map[string]any{"nodes": list}
	}

	var p Project
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &p,
		TagName:          "json",
		WeaklyTypedInput: false,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			valueDecodeHook,
			stateChangeDecodeHook,
			mapstructure.TextUnmarshallerHookFunc(),
		),
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, err
	}
	return &p, nil
}

var (
	valueType       = reflect.TypeOf(Value{})
	stateChangeType = reflect.TypeOf(StateChange{})
)

// valueDecodeHook turns dynamically typed scalars and lists into tagged
// Values wherever the target field is a Value.
func valueDecodeHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != valueType || from == valueType {
		return data, nil
	}
	return FromAny(data)
}

// stateChangeDecodeHook accepts the two authored forms of a state change:
// a bare scalar (absolute set) or an explicit {op|operation, value} map.
func stateChangeDecodeHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != stateChangeType || from == stateChangeType {
		return data, nil
	}
	if m, ok := data.(map[string]any); ok {
		name, _ := m["op"].(string)
		if name == "" {
			name, _ = m["operation"].(string)
		}
		if name != "" {
			var op ChangeOp
			if err := op.UnmarshalText([]byte(name)); err != nil {
				return nil, err
			}
			v, err := FromAny(m["value"])
			if err != nil {
				return nil, fmt.Errorf("state change value: %w", err)
			}
			return StateChange{Op: op, Value: v}, nil
		}
	}
	v, err := FromAny(data)
	if err != nil {
		return nil, fmt.Errorf("state change value: %w", err)
	}
	return Set(v), nil
}
