package command

import (
	"fmt"
	"sync"
)

// Listener receives commands as the interpreter emits them. A host sets one
// via the interpreter's SetCommandListener (spec §6.3).
type Listener interface {
	OnCommand(Command)
}

// ListenerFunc adapts a plain function to a Listener.
type ListenerFunc func(Command)

func (f ListenerFunc) OnCommand(c Command) { f(c) }

// terminalTypes are the two commands after which nothing more may be
// emitted (spec §7's "no command can be emitted after a terminal command").
// LOOP_LIMIT_REACHED is not terminal: PROGRAM_END still follows it.
var terminalTypes = map[Type]bool{
	ProgramEnd: true,
	Error:      true,
}

// Emitter is the interpreter's sole I/O surface: every observable effect is
// a Command routed through here (spec §4.3.5). It enforces emission order
// and the no-emission-after-terminal invariant; it holds no execution
// semantics of its own.
type Emitter struct {
	mu       sync.Mutex
	listener Listener
	seq      int64
	terminal bool
	history  []Command // retained for equivalence checks and tests
}

func NewEmitter(listener Listener) *Emitter {
	return &Emitter{listener: listener}
}

// SetListener replaces the listener. A nil listener silently drops commands
// (useful for synchronous/headless test runs that only inspect History).
func (e *Emitter) SetListener(l Listener) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listener = l
}

// Emit records and dispatches one command. It panics on an attempt to emit
// after a terminal command — that is a bug in the evaluator driving this
// emitter, not a recoverable runtime condition, since §7 makes the
// invariant absolute.
func (e *Emitter) Emit(t Type, payload interface{}) Command {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.terminal {
		panic(fmt.Sprintf("command: emit %s after a terminal command", t))
	}

	e.seq++
	cmd := Command{Type: t, Timestamp: e.seq, Payload: payload}
	e.history = append(e.history, cmd)
	if terminalTypes[t] {
		e.terminal = true
	}
	if e.listener != nil {
		e.listener.OnCommand(cmd)
	}
	return cmd
}

// History returns every command emitted so far, in emission order.
func (e *Emitter) History() []Command {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Command, len(e.history))
	copy(out, e.history)
	return out
}

// Terminal reports whether a terminal command (PROGRAM_END or ERROR) has
// already been emitted.
func (e *Emitter) Terminal() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.terminal
}
