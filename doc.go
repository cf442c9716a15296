// Package fable is an engine for branching interactive narratives.
//
// A story is a directed graph of nodes connected by choices. Choices can
// be guarded by conditions over playthrough variables and can mutate
// those variables when taken. The engine validates the graph's structure
// up front, then drives playthroughs deterministically: the same graph,
// state, and choice always produce the same successor state.
//
// The top-level Engine is the simplified entry point:
//
//	eng, err := fable.New("story.yaml")
//	if err != nil { ... }
//	state, _ := eng.NewPlaythrough("player-1")
//	for _, c := range eng.AvailableChoices(state) {
//		fmt.Println(c.ID, c.Text)
//	}
//	state, err = eng.Advance(state, "open-door")
//
// Persistence lives behind the ports.StateStore interface with file,
// Redis, and SQLite adapters; pkg/session serializes concurrent access
// per playthrough. The fable CLI wraps all of it for authors.
package fable
