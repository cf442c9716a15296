package story

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOperator(t *testing.T) {
	canonical := []string{
		"eq", "neq", "gt", "gte", "lt", "lte",
		"contains", "notContains", "in", "notIn", "exists", "notExists",
	}
	for _, s := range canonical {
		op, err := ParseOperator(s)
		require.NoError(t, err, s)
		assert.Equal(t, Operator(s), op)
	}
}

func TestParseOperatorAliases(t *testing.T) {
	tests := map[string]Operator{
		"ne":           OpNeq,
		"not_contains": OpNotContains,
		"not_in":       OpNotIn,
		"not_exists":   OpNotExists,
	}
	for alias, want := range tests {
		op, err := ParseOperator(alias)
		require.NoError(t, err, alias)
		assert.Equal(t, want, op)
	}
}

func TestOperatorUnmarshalPreservesUnknown(t *testing.T) {
	// Unknown operators must survive decoding: the evaluator degrades
	// them to false and the authoring surface reports them.
	var op Operator
	require.NoError(t, op.UnmarshalText([]byte("approximately")))
	assert.Equal(t, Operator("approximately"), op)
}

func TestLogicOpUnmarshal(t *testing.T) {
	tests := map[string]LogicOp{
		"":    LogicAnd,
		"AND": LogicAnd,
		"and": LogicAnd,
		"OR":  LogicOr,
		"or":  LogicOr,
	}
	for in, want := range tests {
		var l LogicOp
		require.NoError(t, l.UnmarshalText([]byte(in)))
		assert.Equal(t, want, l, "input %q", in)
	}

	var l LogicOp
	assert.Error(t, l.UnmarshalText([]byte("XOR")))
}
