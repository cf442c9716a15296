package story

import "fmt"

// Operator is a comparison applied between a state variable and the
// condition's authored value.
type Operator string

const (
	OpEq          Operator = "eq"
	OpNeq         Operator = "neq"
	OpGt          Operator = "gt"
	OpGte         Operator = "gte"
	OpLt          Operator = "lt"
	OpLte         Operator = "lte"
	OpContains    Operator = "contains"
	OpNotContains Operator = "notContains"
	OpIn          Operator = "in"
	OpNotIn       Operator = "notIn"
	OpExists      Operator = "exists"
	OpNotExists   Operator = "notExists"
)

// operatorAliases maps legacy spellings still found in older authored
// documents to their canonical form.
var operatorAliases = map[string]Operator{
	"ne":           OpNeq,
	"not_contains": OpNotContains,
	"not_in":       OpNotIn,
	"not_exists":   OpNotExists,
}

// ParseOperator normalizes an authored operator string.
func ParseOperator(s string) (Operator, error) {
	switch op := Operator(s); op {
	case OpEq, OpNeq, OpGt, OpGte, OpLt, OpLte,
		OpContains, OpNotContains, OpIn, OpNotIn, OpExists, OpNotExists:
		return op, nil
	}
	if op, ok := operatorAliases[s]; ok {
		return op, nil
	}
	return "", fmt.Errorf("unknown condition operator %q", s)
}

// UnmarshalText accepts canonical operators and legacy aliases.
// An unknown operator is preserved as-is rather than rejected: the
// evaluator degrades unknown operators to false, and the authoring
// surface reports them, so a bad clause must not make a whole graph
// undecodable.
func (o *Operator) UnmarshalText(text []byte) error {
	op, err := ParseOperator(string(text))
	if err != nil {
		*o = Operator(text)
		return nil
	}
	*o = op
	return nil
}

// LogicOp combines a condition's own truth value with the running
// accumulator of the conditions evaluated before it.
type LogicOp string

const (
	LogicAnd LogicOp = "AND"
	LogicOr  LogicOp = "OR"
)

// UnmarshalText accepts AND/OR case-insensitively; empty defaults to AND.
func (l *LogicOp) UnmarshalText(text []byte) error {
	switch string(text) {
	case "", "AND", "and", "And":
		*l = LogicAnd
	case "OR", "or", "Or":
		*l = LogicOr
	default:
		return fmt.Errorf("unknown logic operator %q", string(text))
	}
	return nil
}

// Condition is one guard clause on a choice. Conditions are evaluated in
// authored order as a strict left-to-right fold: the first condition seeds
// the accumulator and each subsequent one merges into it with its own
// Logic operator. There is no precedence and no grouping.
type Condition struct {
	Variable string   `json:"variable" yaml:"variable"`
	Operator Operator `json:"operator" yaml:"operator"`
	Value    Value    `json:"value,omitempty" yaml:"value,omitempty"`
	Logic    LogicOp  `json:"logicOperator,omitempty" yaml:"logicOperator,omitempty"`
}
