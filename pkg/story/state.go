package story

// Status is the session lifecycle state. A playthrough is a two-state
// machine: Active until a terminal choice is taken, then Finished forever.
type Status string

const (
	StatusActive   Status = "active"
	StatusFinished Status = "finished"
)

// GameState is one player's progress through a graph. It is mutated only
// by the transition engine, which works on copies; callers holding a
// *GameState can serialize it at any point to pause and resume.
type GameState struct {
	SessionID     string           `json:"session_id"`
	CurrentNodeID string           `json:"current_node_id"`
	Status        Status           `json:"status"`
	Variables     map[string]Value `json:"variables"`
	VisitedNodes  []string         `json:"visited_nodes,omitempty"`
	ChoiceHistory []string         `json:"choice_history,omitempty"`
}

// NewState creates a fresh playthrough state positioned at startNodeID.
// Seed variables are copied, not referenced.
func NewState(sessionID, startNodeID string, seed map[string]Value) *GameState {
	vars := make(map[string]Value, len(seed))
	for k, v := range seed {
		vars[k] = v
	}
	return &GameState{
		SessionID:     sessionID,
		CurrentNodeID: startNodeID,
		Status:        StatusActive,
		Variables:     vars,
	}
}

// Finished reports whether the playthrough has reached its terminal state.
func (s *GameState) Finished() bool { return s.Status == StatusFinished }

// Clone returns a deep copy. Value is immutable by construction (list
// payloads are never mutated in place), so copying the map and slices is
// enough.
func (s *GameState) Clone() *GameState {
	if s == nil {
		return nil
	}
	next := *s
	next.Variables = make(map[string]Value, len(s.Variables))
	for k, v := range s.Variables {
		next.Variables[k] = v
	}
	next.VisitedNodes = append([]string(nil), s.VisitedNodes...)
	next.ChoiceHistory = append([]string(nil), s.ChoiceHistory...)
	return &next
}
