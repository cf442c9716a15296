package story

import "errors"

// ErrSessionNotFound is returned by state stores when a session ID has no
// saved playthrough.
var ErrSessionNotFound = errors.New("session not found")

// ErrNoStartNode is returned when a playthrough is started on a graph
// without exactly one start node.
var ErrNoStartNode = errors.New("graph has no unique start node")
