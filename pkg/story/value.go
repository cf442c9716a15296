package story

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind discriminates the runtime type of a Value.
type Kind int

const (
	KindNil Kind = iota
	KindNumber
	KindString
	KindBool
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindList:
		return "list"
	default:
		return "nil"
	}
}

// Value is a tagged union over the scalar types a game variable can hold:
// number, string, bool, or a list of values. The zero Value is nil.
//
// Values are compared structurally and never coerced across kinds; the
// evaluator relies on that to stay fail-closed on type mismatches.
type Value struct {
	kind Kind
	num  float64
	str  string
	b    bool
	list []Value
}

// Number wraps a float64.
func Number(n float64) Value { return Value{kind: KindNumber, num: n} }

// Text wraps a string.
func Text(s string) Value { return Value{kind: KindString, str: s} }

// Bool wraps a bool.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// List wraps a sequence of values.
func List(vs ...Value) Value { return Value{kind: KindList, list: vs} }

// FromAny converts a dynamically typed value (as produced by encoding/json
// or yaml.v3) into a Value. Maps and other unsupported types are rejected.
func FromAny(v any) (Value, error) {
	switch t := v.(type) {
	case nil:
		return Value{}, nil
	case Value:
		return t, nil
	case bool:
		return Bool(t), nil
	case string:
		return Text(t), nil
	case float64:
		return Number(t), nil
	case float32:
		return Number(float64(t)), nil
	case int:
		return Number(float64(t)), nil
	case int32:
		return Number(float64(t)), nil
	case int64:
		return Number(float64(t)), nil
	case uint64:
		return Number(float64(t)), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("invalid number %q: %w", t.String(), err)
		}
		return Number(f), nil
	case []any:
		list := make([]Value, 0, len(t))
		for i, elem := range t {
			ev, err := FromAny(elem)
			if err != nil {
				return Value{}, fmt.Errorf("element %d: %w", i, err)
			}
			list = append(list, ev)
		}
		return Value{kind: KindList, list: list}, nil
	case []Value:
		return List(t...), nil
	default:
		return Value{}, fmt.Errorf("unsupported variable type %T", v)
	}
}

// Kind returns the discriminator.
func (v Value) Kind() Kind { return v.kind }

// IsNil reports whether the value is the zero (absent) value.
func (v Value) IsNil() bool { return v.kind == KindNil }

// Number returns the numeric payload, if the value is a number.
func (v Value) Number() (float64, bool) { return v.num, v.kind == KindNumber }

// Text returns the string payload, if the value is a string.
func (v Value) Text() (string, bool) { return v.str, v.kind == KindString }

// Bool returns the boolean payload, if the value is a bool.
func (v Value) Bool() (bool, bool) { return v.b, v.kind == KindBool }

// List returns the list payload, if the value is a list.
func (v Value) List() ([]Value, bool) { return v.list, v.kind == KindList }

// Equal reports strict same-kind equality. Values of different kinds are
// never equal, lists compare element-wise in order.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNumber:
		return v.num == other.num
	case KindString:
		return v.str == other.str
	case KindBool:
		return v.b == other.b
	case KindList:
		if len(v.list) != len(other.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(other.list[i]) {
				return false
			}
		}
		return true
	default:
		return true // both nil
	}
}

// Contains reports membership: substring for string values, element
// equality for list values. Any other kind cannot contain anything.
func (v Value) Contains(needle Value) bool {
	switch v.kind {
	case KindString:
		s, ok := needle.Text()
		return ok && strings.Contains(v.str, s)
	case KindList:
		for _, elem := range v.list {
			if elem.Equal(needle) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// Interface returns the natural dynamic representation, suitable for
// serialization.
func (v Value) Interface() any {
	switch v.kind {
	case KindNumber:
		return v.num
	case KindString:
		return v.str
	case KindBool:
		return v.b
	case KindList:
		out := make([]any, len(v.list))
		for i, elem := range v.list {
			out[i] = elem.Interface()
		}
		return out
	default:
		return nil
	}
}

// String renders a display form for logs and the CLI.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindString:
		return v.str
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindList:
		parts := make([]string, len(v.list))
		for i, elem := range v.list {
			parts[i] = elem.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return "<nil>"
	}
}

// MarshalJSON emits the natural scalar form.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// UnmarshalJSON sniffs the JSON type and tags the value accordingly.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	parsed, err := FromAny(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// MarshalYAML emits the natural scalar form.
func (v Value) MarshalYAML() (any, error) {
	return v.Interface(), nil
}

// UnmarshalYAML sniffs the YAML node type and tags the value accordingly.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	var raw any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := FromAny(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
