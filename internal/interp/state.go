package interp

// State is the interpreter's execution state machine (spec §4.3.1).
type State int

const (
	StateIdle State = iota
	StateRunning
	StateWaitingForResponse
	StatePaused
	StateComplete
	StateError
	// StateStopped is an absorbing state entered by Stop() that isn't in
	// the spec's enumerated list but is needed to make Stop() idempotent
	// and distinguishable from a program that completed normally (§5
	// "stop() is idempotent ... transitions to an absorbing stopped
	// state").
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateRunning:
		return "RUNNING"
	case StateWaitingForResponse:
		return "WAITING_FOR_RESPONSE"
	case StatePaused:
		return "PAUSED"
	case StateComplete:
		return "COMPLETE"
	case StateError:
		return "ERROR"
	case StateStopped:
		return "STOPPED"
	default:
		return "UNKNOWN"
	}
}
