package story

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ChangeOp names the mutation a state change applies to its variable.
type ChangeOp string

const (
	// ChangeSet assigns the value, replacing whatever was there.
	ChangeSet ChangeOp = "set"
	// ChangeAdd adds a numeric delta (missing variables start at 0).
	ChangeAdd ChangeOp = "add"
	// ChangeSubtract subtracts a numeric delta.
	ChangeSubtract ChangeOp = "subtract"
	// ChangeMultiply multiplies by a numeric factor.
	ChangeMultiply ChangeOp = "multiply"
	// ChangeAppend appends to a list (missing variables start empty).
	ChangeAppend ChangeOp = "append"
	// ChangeRemove removes the first matching element from a list.
	ChangeRemove ChangeOp = "remove"
)

// UnmarshalText validates the operation name.
func (c *ChangeOp) UnmarshalText(text []byte) error {
	switch op := ChangeOp(text); op {
	case ChangeSet, ChangeAdd, ChangeSubtract, ChangeMultiply, ChangeAppend, ChangeRemove:
		*c = op
		return nil
	case "":
		*c = ChangeSet
		return nil
	default:
		return fmt.Errorf("unknown state change operation %q", string(text))
	}
}

// StateChange is one entry in a choice's stateChanges map. The authored
// form is either a bare scalar (shorthand for an absolute set) or an
// explicit {op, value} object for deltas and list mutations.
type StateChange struct {
	Op    ChangeOp `json:"op" yaml:"op"`
	Value Value    `json:"value" yaml:"value"`
}

// Set builds an absolute-set change.
func Set(v Value) StateChange { return StateChange{Op: ChangeSet, Value: v} }

// Add builds a numeric increment change.
func Add(delta float64) StateChange {
	return StateChange{Op: ChangeAdd, Value: Number(delta)}
}

// changeDoc is the explicit wire form. "operation" is the legacy key.
type changeDoc struct {
	Op        string `json:"op" yaml:"op"`
	Operation string `json:"operation" yaml:"operation"`
	Value     Value  `json:"value" yaml:"value"`
}

func (c *StateChange) fromDoc(doc changeDoc) error {
	name := doc.Op
	if name == "" {
		name = doc.Operation
	}
	var op ChangeOp
	if err := op.UnmarshalText([]byte(name)); err != nil {
		return err
	}
	c.Op = op
	c.Value = doc.Value
	return nil
}

// UnmarshalJSON accepts a bare scalar (absolute set) or an {op, value}
// object.
func (c *StateChange) UnmarshalJSON(data []byte) error {
	var doc changeDoc
	if err := json.Unmarshal(data, &doc); err == nil && (doc.Op != "" || doc.Operation != "") {
		return c.fromDoc(doc)
	}
	var v Value
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*c = Set(v)
	return nil
}

// MarshalJSON writes the shorthand for sets and the explicit form otherwise.
func (c StateChange) MarshalJSON() ([]byte, error) {
	if c.Op == ChangeSet || c.Op == "" {
		return json.Marshal(c.Value)
	}
	return json.Marshal(changeDoc{Op: string(c.Op), Value: c.Value})
}

// UnmarshalYAML accepts the same two forms as UnmarshalJSON.
func (c *StateChange) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.MappingNode {
		var doc changeDoc
		if err := node.Decode(&doc); err == nil && (doc.Op != "" || doc.Operation != "") {
			return c.fromDoc(doc)
		}
	}
	var v Value
	if err := node.Decode(&v); err != nil {
		return err
	}
	*c = Set(v)
	return nil
}

// MarshalYAML mirrors MarshalJSON.
func (c StateChange) MarshalYAML() (any, error) {
	if c.Op == ChangeSet || c.Op == "" {
		return c.Value.Interface(), nil
	}
	return map[string]any{"op": string(c.Op), "value": c.Value.Interface()}, nil
}
