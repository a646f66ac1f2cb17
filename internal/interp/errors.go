package interp

import "fmt"

// ErrorKind is the error taxonomy from spec §7. These are kinds, not Go
// error types with distinct shapes — every one of them carries the same
// (kind, message) pair, the same way the teacher compiler's semantic
// analyzer collected plain fmt.Errorf values rather than a hierarchy of
// error structs. The kind becomes the ERROR command's subcode.
type ErrorKind string

const (
	// Semantic errors.
	UnknownIdentifier      ErrorKind = "UnknownIdentifier"
	TypeMismatch           ErrorKind = "TypeMismatch"
	DivisionByZero         ErrorKind = "DivisionByZero"
	ArrayIndexOutOfBounds  ErrorKind = "ArrayIndexOutOfBounds"
	UnknownMember          ErrorKind = "UnknownMember"
	WrongArity             ErrorKind = "WrongArity"
	ReturnOutsideFunction  ErrorKind = "ReturnOutsideFunction"
	BreakContinueOutsideLoop ErrorKind = "BreakContinueOutsideLoop"

	// Execution errors.
	LoopIterationCapExceeded ErrorKind = "LoopIterationCapExceeded"
	ResponseTimeout          ErrorKind = "ResponseTimeout"
	ResumeWithUnknownRequest ErrorKind = "ResumeWithUnknownRequest"

	// InternalError covers decode/construction failures that don't map to
	// one of the spec's named kinds (e.g. a malformed AST handed to the
	// interpreter directly rather than via CompactAST).
	InternalError ErrorKind = "InternalError"
)

// EvalError is the error type every evaluator method returns for a
// semantic or execution failure. Its Kind is what Interpreter.fail turns
// into an ERROR command's subcode (spec §4.3.6).
type EvalError struct {
	Kind    ErrorKind
	Message string
}

func (e *EvalError) Error() string { return fmt.Sprintf("%s: %s", e.Kind, e.Message) }

func newError(kind ErrorKind, format string, args ...interface{}) *EvalError {
	return &EvalError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// errStopped unwinds an in-flight evaluation when Stop() fires while the
// worker goroutine is blocked awaiting a response. It is not a program
// error — run() recognizes it and transitions to StateStopped instead of
// emitting an ERROR command, keeping Stop()'s absorbing state distinct
// from a program that actually failed.
type stoppedError struct{}

func (stoppedError) Error() string { return "interpreter stopped" }

var errStopped error = stoppedError{}
