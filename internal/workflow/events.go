package workflow

import "time"

// EventType enumerates signals emitted to listeners.
type EventType string

const (
	// EventPhaseChanged fires on every phase transition, including resets.
	EventPhaseChanged EventType = "phase_changed"
	// EventSelectionChanged fires after an accepted move or profile edit.
	EventSelectionChanged EventType = "selection_changed"
	// EventAnswered fires after a quiz answer is recorded.
	EventAnswered EventType = "answered"
	// EventFailed fires when a collaborator failure was applied.
	EventFailed EventType = "failed"
)

// Event is a machine notification. From and To are equal for events that do
// not change phase.
type Event struct {
	Type      EventType
	From      Phase
	To        Phase
	Epoch     uint64
	Err       error
	Timestamp time.Time
}

// Listener receives machine events. Listeners run synchronously on the
// goroutine that caused the event, after the machine lock is released.
type Listener interface {
	OnWorkflowEvent(Event)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(Event)

// OnWorkflowEvent calls f.
func (f ListenerFunc) OnWorkflowEvent(e Event) {
	f(e)
}
