package runtime

import (
	"fmt"

	"github.com/fablegraph/fable/pkg/story"
)

// Diagnostic records a condition clause that degraded to false instead of
// evaluating normally: missing variable, type mismatch, unknown operator.
// Degradation is not an error — a bad authored clause must never halt
// play — but the diagnostics are surfaced so authoring-time linting can
// show them.
type Diagnostic struct {
	Variable string
	Operator story.Operator
	Reason   string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("condition %s %s degraded: %s", d.Variable, d.Operator, d.Reason)
}

// Evaluate folds a choice's condition list against the state. An empty
// list is true: an unconditioned choice is always available.
//
// The fold is strictly left-to-right with no precedence: the first
// condition seeds the accumulator, and each later condition merges with
// its own AND/OR logic operator. Missing variables and malformed clauses
// are fail-closed: the clause is false, evaluation continues.
func Evaluate(state *story.GameState, conds []story.Condition) bool {
	ok, _ := EvaluateDetailed(state, conds)
	return ok
}

// EvaluateDetailed is Evaluate plus the degraded-clause diagnostics.
func EvaluateDetailed(state *story.GameState, conds []story.Condition) (bool, []Diagnostic) {
	if len(conds) == 0 {
		return true, nil
	}

	var diags []Diagnostic
	acc := false
	for i, c := range conds {
		result, diag := evalOne(state, c)
		if diag != nil {
			diags = append(diags, *diag)
		}
		if i == 0 {
			acc = result
			continue
		}
		if c.Logic == story.LogicOr {
			acc = acc || result
		} else {
			acc = acc && result
		}
	}
	return acc, diags
}

// evalOne evaluates a single clause. The second result is non-nil when
// the clause degraded rather than evaluated.
func evalOne(state *story.GameState, c story.Condition) (bool, *Diagnostic) {
	current, present := state.Variables[c.Variable]

	switch c.Operator {
	case story.OpExists:
		return present, nil
	case story.OpNotExists:
		return !present, nil
	}

	// Every remaining operator needs the variable. Missing state never
	// satisfies a guard.
	if !present {
		return false, &Diagnostic{c.Variable, c.Operator, "variable not set"}
	}

	switch c.Operator {
	case story.OpEq:
		return current.Equal(c.Value), nil

	case story.OpNeq:
		return !current.Equal(c.Value), nil

	case story.OpGt, story.OpGte, story.OpLt, story.OpLte:
		a, aok := current.Number()
		b, bok := c.Value.Number()
		if !aok || !bok {
			return false, &Diagnostic{c.Variable, c.Operator, "ordering requires numeric operands"}
		}
		switch c.Operator {
		case story.OpGt:
			return a > b, nil
		case story.OpGte:
			return a >= b, nil
		case story.OpLt:
			return a < b, nil
		default:
			return a <= b, nil
		}

	case story.OpContains, story.OpNotContains:
		if k := current.Kind(); k != story.KindString && k != story.KindList {
			return false, &Diagnostic{c.Variable, c.Operator, "containment requires a string or list variable"}
		}
		if c.Operator == story.OpContains {
			return current.Contains(c.Value), nil
		}
		return !current.Contains(c.Value), nil

	case story.OpIn, story.OpNotIn:
		if c.Value.Kind() != story.KindList {
			return false, &Diagnostic{c.Variable, c.Operator, "membership requires a list value"}
		}
		if c.Operator == story.OpIn {
			return c.Value.Contains(current), nil
		}
		return !c.Value.Contains(current), nil

	default:
		return false, &Diagnostic{c.Variable, c.Operator, "unknown operator"}
	}
}
