/*
Package story contains the core vocabulary of the engine: the authored
Story Graph (nodes, choices, conditions, state changes) and the per-player
GameState.

This package is kept pure and free of I/O. A Graph is an immutable
snapshot: authoring edits produce a new Graph value, so sessions started
against an older snapshot are unaffected. Structural soundness is not
checked here; that is the validator's job.

# Key entities

  - Graph / Node / Choice: the directed story graph.
  - Condition: one guard clause over a named state variable.
  - StateChange: one declared effect of taking a choice.
  - Value: tagged-union variable value (number, string, bool, list).
  - GameState: a player's progress (current node, variables, history).
*/
package story
