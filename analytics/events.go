package analytics

import "simas/model"

// State of the cache: Idle -> Loading -> {Ready, Error}; Ready and Error go
// back to Loading on a forced or TTL-expired fetch.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateError   State = "error"
)

type EventType string

const EventStateChanged EventType = "state-changed"

// Event is delivered synchronously to every subscriber on each state
// transition.
type Event struct {
	Type  EventType
	State State
	Data  *model.PSBAnalytics
	Err   error
}
