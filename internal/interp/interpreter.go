// Package interp implements the tree-walking evaluator: Arduino C/C++
// semantics, loop-bound safety, and the suspend/resume state machine for
// operations whose values the host must supply (spec §4.3).
package interp

import (
	"sync"

	"go.uber.org/zap"

	"github.com/hassan/astinterp/internal/ast"
	"github.com/hassan/astinterp/internal/command"
)

// ResponseHandler supplies a value for an external-data request inline,
// used by synchronous mode (spec §4.3.4's "mock handler supplies the value
// inline during emission"). operation is the builtin name ("analogRead",
// "digitalRead", "millis", "micros", or "object.method" for a library
// call); it returns the value to use for the suspended expression.
type ResponseHandler func(operation string, payload interface{}) Value

// Options configures a new Interpreter (spec §6.3's create() options).
type Options struct {
	MaxLoopIterations int // top-level loop() driver cap; default 3 per §4.3.2
	InnerLoopCap      int // per-inner-loop cap; default matches MaxLoopIterations
	Verbose           bool
	Synchronous       bool
	ResponseHandler   ResponseHandler
}

func (o Options) withDefaults() Options {
	if o.MaxLoopIterations <= 0 {
		o.MaxLoopIterations = 3
	}
	if o.InnerLoopCap <= 0 {
		o.InnerLoopCap = o.MaxLoopIterations
	}
	return o
}

// Interpreter is a single run of a program-rooted AST. It is not safe for
// concurrent use by more than one goroutine issuing API calls at a time
// (spec §5) — internally it runs its evaluation loop on one dedicated
// worker goroutine so Start can return promptly to the host while
// WAITING_FOR_RESPONSE suspension is implemented as that worker blocking
// on a channel receive, rather than as manual continuation-passing state
// threaded through every eval method. Exactly one goroutine ever evaluates
// AST nodes for a given instance, which is what "single-threaded
// cooperative" (§5) is protecting against: concurrent evaluation, not the
// mere existence of a goroutine.
type Interpreter struct {
	opts Options
	log  *zap.Logger

	program  *ast.ProgramNode
	global   *Scope
	curScope *Scope
	funcs    map[string]*FuncRecord
	structs  map[string][]paramSpec
	typedefs map[string]string

	emitter *command.Emitter

	mu    sync.Mutex
	state State

	requests   map[string]*Request
	reqSeq     uint64
	pauseCh    chan struct{}
	resumeCh   chan struct{}
	stopCh     chan struct{}
	stopOnce   sync.Once
	doneCh     chan struct{}
	stopReason string
}

// New constructs an Interpreter over an already-parsed program (in-memory
// AST or CompactAST-decoded — this package never parses source text,
// spec §1's "CORE consumes already-parsed ASTs").
func New(program *ast.ProgramNode, listener command.Listener, opts Options) *Interpreter {
	opts = opts.withDefaults()
	global := NewScope(ScopeGlobal, nil)
	i := &Interpreter{
		opts:     opts,
		log:      newLogger(opts.Verbose),
		program:  program,
		global:   global,
		curScope: global,
		funcs:    make(map[string]*FuncRecord),
		structs:  make(map[string][]paramSpec),
		typedefs: make(map[string]string),
		emitter:  command.NewEmitter(listener),
		state:    StateIdle,
		requests: make(map[string]*Request),
		pauseCh:  make(chan struct{}, 1),
		resumeCh: make(chan struct{}, 1),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	return i
}

// SetCommandListener replaces the command listener (spec §6.3).
func (i *Interpreter) SetCommandListener(l command.Listener) { i.emitter.SetListener(l) }

// SetResponseHandler installs or replaces the synchronous-mode response
// handler (spec §6.3's setResponseHandler). Only meaningful together with
// Options.Synchronous; a handler set here takes effect on the next
// external-data request, including one already in flight if called before
// the worker reaches awaitResponse for it.
func (i *Interpreter) SetResponseHandler(h ResponseHandler) {
	i.mu.Lock()
	i.opts.ResponseHandler = h
	i.mu.Unlock()
}

// History returns every command emitted so far.
func (i *Interpreter) History() []command.Command { return i.emitter.History() }

func (i *Interpreter) getState() State {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.state
}

func (i *Interpreter) setState(s State) {
	i.mu.Lock()
	prev := i.state
	i.state = s
	i.mu.Unlock()
	if prev != s {
		i.log.Debug("state transition", zap.Stringer("from", prev), zap.Stringer("to", s))
	}
}

// GetState reports the interpreter's current lifecycle state (spec §6.3).
func (i *Interpreter) GetState() State { return i.getState() }

// Wait blocks until the worker goroutine's run loop returns, i.e. the
// interpreter reached COMPLETE, ERROR, or STOPPED. It does not return
// early for PAUSED, since the worker is still alive waiting to be resumed
// or stopped. Safe to call before Start (it then blocks until Start is
// eventually called and finishes) or after the interpreter already
// finished (doneCh is already closed, so it returns immediately).
func (i *Interpreter) Wait() { <-i.doneCh }

// IsRunning reports whether the worker is actively evaluating or waiting
// on a response (i.e. not idle, paused, or terminal).
func (i *Interpreter) IsRunning() bool {
	switch i.getState() {
	case StateRunning, StateWaitingForResponse:
		return true
	default:
		return false
	}
}

// Start begins execution: the program prelude, then setup(), then the
// loop() driver, running on the dedicated worker goroutine until the
// program completes, errors, is stopped, or suspends on an external-data
// request (spec §4.3.1, §4.3.2). Returns false if the interpreter has
// already been started.
func (i *Interpreter) Start() bool {
	if i.getState() != StateIdle {
		return false
	}
	i.setState(StateRunning)
	go i.run()
	return true
}

func (i *Interpreter) run() {
	defer close(i.doneCh)
	if err := i.prelude(); err != nil {
		i.failOrStop(err)
		return
	}
	i.loopDriver()
}

// failOrStop distinguishes a genuine evaluation error (which becomes an
// ERROR command and StateError) from errStopped, which means Stop() fired
// while the worker was blocked awaiting a response — that path ends in
// StateStopped with no command emitted at all, since the host already
// knows it asked to stop.
func (i *Interpreter) failOrStop(err error) {
	if err == errStopped {
		i.setState(StateStopped)
		return
	}
	i.fail(err)
}

// Stop is idempotent: it transitions to an absorbing stopped state,
// discards pending requests, and emits no further commands except nothing
// at all — the host already knows it asked to stop (spec §5). The worker
// acts on it while awaiting a response, while paused, or at the next loop()
// iteration boundary. Calling it after the program already reached a
// terminal state is a harmless no-op. Calling it before Start leaves the
// state at StateIdle; a later Start still emits PROGRAM_START and runs
// setup(), and the run ends in StateStopped at the first of those points.
func (i *Interpreter) Stop() {
	i.stopOnce.Do(func() {
		close(i.stopCh)
	})
}

// ResumeWithValue supplies the value for a previously emitted *_REQUEST
// command, unblocking the worker goroutine (spec §4.3.4). Returns false if
// requestId doesn't match the single outstanding request — a mismatch is
// reported as a no-op, not silently accepted (spec §9).
func (i *Interpreter) ResumeWithValue(requestID string, value Value) bool {
	i.mu.Lock()
	req, ok := i.requests[requestID]
	i.mu.Unlock()
	if !ok {
		return false
	}
	select {
	case req.resp <- value:
		return true
	default:
		// resp has capacity 1 and is only ever sent to once; a second
		// send for the same ID means the caller already resumed it.
		return false
	}
}

// awaitResponse registers a new outstanding request, emits its *_REQUEST
// command, and blocks the worker goroutine until ResumeWithValue supplies
// a value, Stop is called, or (in synchronous mode) the configured
// ResponseHandler answers inline without ever touching the channel.
func (i *Interpreter) awaitResponse(operation string, emit func(requestID string) command.Command) (Value, bool) {
	if i.opts.Synchronous && i.opts.ResponseHandler != nil {
		cmd := emit("")
		payload := cmd.Payload
		return i.opts.ResponseHandler(operation, payload), true
	}

	req := newRequest(operation)
	i.mu.Lock()
	i.requests[req.ID] = req
	i.mu.Unlock()
	emit(req.ID)

	i.setState(StateWaitingForResponse)
	defer func() {
		i.mu.Lock()
		delete(i.requests, req.ID)
		i.mu.Unlock()
	}()

	select {
	case v := <-req.resp:
		i.setState(StateRunning)
		return v, true
	case <-i.stopCh:
		return Value{}, false
	}
}

// Pause requests a pause at the next loop-iteration boundary. Resume
// restarts the worker from where it paused. Both are best-effort relative
// to a worker currently blocked in WAITING_FOR_RESPONSE — pausing only
// takes effect once the worker reaches RUNNING again.
func (i *Interpreter) Pause() {
	select {
	case i.pauseCh <- struct{}{}:
	default:
	}
}

func (i *Interpreter) Resume() {
	if i.getState() != StatePaused {
		return
	}
	i.setState(StateRunning)
	select {
	case i.resumeCh <- struct{}{}:
	default:
	}
}

// Tick advances execution by one bounded step and returns (spec §6.3): from
// StateIdle it starts the worker and lets the prelude and setup() run, then
// pauses it at the first loop-iteration boundary; from StatePaused it lets
// exactly one more loop() iteration run before pausing again. Like Pause
// itself, the re-pause after a running Tick is best-effort — queued before
// Resume so it's already pending by the time the worker rechecks
// checkPause, but not a hard guarantee against an iteration that suspends
// on an external-data request instead of returning. Returns false if called
// from any other state (already running un-ticked, or a terminal state).
func (i *Interpreter) Tick() bool {
	switch i.getState() {
	case StateIdle:
		i.Pause()
		return i.Start()
	case StatePaused:
		i.Pause()
		i.Resume()
		return true
	default:
		return false
	}
}

// checkPause blocks the worker if a pause was requested, and returns true
// if a stop arrived while paused or waiting.
func (i *Interpreter) checkPause() (stopped bool) {
	select {
	case <-i.pauseCh:
	default:
		return false
	}
	i.setState(StatePaused)
	select {
	case <-i.resumeCh:
		return false
	case <-i.stopCh:
		return true
	}
}

// stopped reports whether Stop has been called, without blocking.
func (i *Interpreter) stopped() bool {
	select {
	case <-i.stopCh:
		return true
	default:
		return false
	}
}

// fail emits the ERROR command and transitions to StateError (spec
// §4.3.6). It is the sole path by which an EvalError reaches the command
// stream.
func (i *Interpreter) fail(err error) {
	if i.emitter.Terminal() {
		return
	}
	kind := InternalError
	if ee, ok := err.(*EvalError); ok {
		kind = ee.Kind
	}
	i.emitter.Emit(command.Error, command.ErrorPayload{Message: err.Error(), Subcode: string(kind)})
	i.setState(StateError)
}
