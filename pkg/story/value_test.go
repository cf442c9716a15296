package story

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromAny(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want Value
	}{
		{"nil", nil, Value{}},
		{"bool", true, Bool(true)},
		{"string", "sword", Text("sword")},
		{"float", 3.5, Number(3.5)},
		{"int", 7, Number(7)},
		{"json number", json.Number("42"), Number(42)},
		{"list", []any{"a", 1.0}, List(Text("a"), Number(1))},
		{"already a value", Text("x"), Text("x")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromAny(tt.in)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %s, want %s", got, tt.want)
		})
	}
}

func TestFromAnyRejectsMaps(t *testing.T) {
	_, err := FromAny(map[string]any{"nested": true})
	assert.ErrorContains(t, err, "unsupported variable type")
}

func TestEqualIsStrictAcrossKinds(t *testing.T) {
	// No coercion: the number 1 is not the string "1" and not true.
	assert.False(t, Number(1).Equal(Text("1")))
	assert.False(t, Number(1).Equal(Bool(true)))
	assert.False(t, Text("true").Equal(Bool(true)))
	assert.False(t, Number(0).Equal(Value{}))

	assert.True(t, Number(2).Equal(Number(2)))
	assert.True(t, Value{}.Equal(Value{}))
	assert.True(t, List(Number(1), Text("a")).Equal(List(Number(1), Text("a"))))
	assert.False(t, List(Number(1)).Equal(List(Number(1), Number(2))))
}

func TestContains(t *testing.T) {
	assert.True(t, Text("golden key").Contains(Text("key")))
	assert.False(t, Text("golden key").Contains(Text("sword")))
	assert.False(t, Text("12").Contains(Number(1)), "substring needs a string needle")

	inventory := List(Text("torch"), Number(3))
	assert.True(t, inventory.Contains(Text("torch")))
	assert.True(t, inventory.Contains(Number(3)))
	assert.False(t, inventory.Contains(Text("3")), "list membership is strict equality")

	assert.False(t, Number(12).Contains(Number(1)), "scalars contain nothing")
}

func TestValueJSONRoundTrip(t *testing.T) {
	tests := []Value{
		Number(3.25),
		Text("hello"),
		Bool(false),
		List(Number(1), Text("two"), Bool(true)),
		{},
	}
	for _, v := range tests {
		data, err := json.Marshal(v)
		require.NoError(t, err)

		var back Value
		require.NoError(t, json.Unmarshal(data, &back))
		assert.True(t, v.Equal(back), "round trip of %s gave %s", v, back)
	}
}

func TestValueString(t *testing.T) {
	assert.Equal(t, "3", Number(3).String())
	assert.Equal(t, "3.5", Number(3.5).String())
	assert.Equal(t, "[1, a, true]", List(Number(1), Text("a"), Bool(true)).String())
	assert.Equal(t, "<nil>", Value{}.String())
}
