package interp

import "github.com/google/uuid"

// Request is the record created when the evaluator needs a value it can't
// compute locally — an analog/digital read, a time query, a library method
// call (spec §3.2, §4.3.4). It lives from emission until matched by a
// ResumeWithValue call or until the interpreter is stopped.
//
// The worker goroutine blocks receiving on resp after emitting the
// corresponding *_REQUEST command; ResumeWithValue sends the host-supplied
// value on it. This is what makes suspend/resume an exact evaluation
// continuation (§4.3.4) rather than a re-entrant re-evaluation: the Go
// call stack of the in-flight Visit* chain is genuinely parked mid-
// expression, not torn down and rebuilt.
type Request struct {
	ID        string
	Operation string
	resp      chan Value
}

func newRequest(operation string) *Request {
	return &Request{ID: newRequestID(), Operation: operation, resp: make(chan Value, 1)}
}

// newRequestID allocates a fresh, unique-per-process request identifier.
// The spec only requires "monotonic or UUID-like; unique per interpreter
// lifetime" (§4.3.4) — a random UUID satisfies that without the
// interpreter needing to track a counter across restarts.
func newRequestID() string {
	return uuid.NewString()
}
