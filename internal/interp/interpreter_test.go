package interp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hassan/astinterp/internal/ast"
	"github.com/hassan/astinterp/internal/command"
)

// streamListener is a test Listener that appends every emitted command,
// mirroring command.Emitter's own History() but independent of it so tests
// exercise the listener path rather than only the retained history.
type streamListener struct {
	commands []command.Command
}

func (s *streamListener) OnCommand(c command.Command) {
	s.commands = append(s.commands, c)
}

func (s *streamListener) types() []command.Type {
	out := make([]command.Type, len(s.commands))
	for i, c := range s.commands {
		out[i] = c.Type
	}
	return out
}

func voidFunc(name string, body *ast.CompoundNode) *ast.FuncDefNode {
	return ast.NewFuncDef(ast.NewIdentifier(name), ast.NewType("void"), nil, body)
}

func call(name string, args ...ast.Node) *ast.ExpressionStmtNode {
	return ast.NewExpressionStmt(ast.NewFuncCall(ast.NewIdentifier(name), args))
}

func num(v int64) *ast.NumberNode { return ast.NewNumber(ast.UintValue(uint64(v))) }

func runToCompletion(t *testing.T, program *ast.ProgramNode, opts Options) (*Interpreter, *streamListener) {
	t.Helper()
	l := &streamListener{}
	it := New(program, l, opts)
	require.True(t, it.Start())
	it.Wait()
	return it, l
}

// TestScenario_BareMinimum grounds spec §8 scenario 1: an empty setup/loop
// sketch with maxLoopIterations=1 emits exactly PROGRAM_START,
// FUNCTION_CALL(setup), LOOP_ITERATION, FUNCTION_CALL(loop),
// LOOP_LIMIT_REACHED, PROGRAM_END.
func TestScenario_BareMinimum(t *testing.T) {
	program := ast.NewProgram([]ast.Node{
		voidFunc("setup", ast.NewCompound(nil)),
		voidFunc("loop", ast.NewCompound(nil)),
	})

	it, l := runToCompletion(t, program, Options{MaxLoopIterations: 1})

	assert.Equal(t, StateComplete, it.GetState())
	assert.Equal(t, []command.Type{
		command.ProgramStart,
		command.FunctionCall,
		command.LoopIteration,
		command.FunctionCall,
		command.LoopLimitReached,
		command.ProgramEnd,
	}, l.types())
}

// TestScenario_DigitalBlink grounds spec §8 scenario 2.
func TestScenario_DigitalBlink(t *testing.T) {
	setup := ast.NewCompound([]ast.Node{
		call("pinMode", num(13), ast.NewConstant("OUTPUT")),
	})
	loop := ast.NewCompound([]ast.Node{
		call("digitalWrite", num(13), ast.NewConstant("HIGH")),
		call("delay", num(1000)),
		call("digitalWrite", num(13), ast.NewConstant("LOW")),
		call("delay", num(1000)),
	})
	program := ast.NewProgram([]ast.Node{voidFunc("setup", setup), voidFunc("loop", loop)})

	it, l := runToCompletion(t, program, Options{MaxLoopIterations: 1})

	assert.Equal(t, StateComplete, it.GetState())
	history := it.History()

	byType := func(t command.Type) []command.Command {
		var out []command.Command
		for _, c := range history {
			if c.Type == t {
				out = append(out, c)
			}
		}
		return out
	}

	pinModes := byType(command.PinMode)
	require.Len(t, pinModes, 1)
	assert.Equal(t, command.PinModePayload{Pin: 13, Mode: "OUTPUT"}, pinModes[0].Payload)

	writes := byType(command.DigitalWrite)
	require.Len(t, writes, 2)
	assert.Equal(t, command.DigitalWritePayload{Pin: 13, Value: 1}, writes[0].Payload)
	assert.Equal(t, command.DigitalWritePayload{Pin: 13, Value: 0}, writes[1].Payload)

	delays := byType(command.Delay)
	require.Len(t, delays, 2)
	assert.Equal(t, command.DelayPayload{Duration: 1000}, delays[0].Payload)

	assert.Equal(t, command.LoopLimitReached, history[len(history)-2].Type)
	assert.Equal(t, command.ProgramEnd, history[len(history)-1].Type)
}

// TestScenario_AnalogReadRequestResponse grounds spec §8 scenario 3: the
// worker suspends on ANALOG_READ_REQUEST and resumes with a host-supplied
// value once ResumeWithValue answers it.
func TestScenario_AnalogReadRequestResponse(t *testing.T) {
	setup := ast.NewCompound([]ast.Node{
		call("Serial.begin", num(9600)),
	})
	// Rebuild the Serial.begin call's callee as a MemberAccess, since the
	// call() helper above only builds bare-identifier calls.
	setup.Stmts[0] = ast.NewExpressionStmt(ast.NewFuncCall(
		ast.NewMemberAccess(ast.NewIdentifier("Serial"), "begin", false),
		[]ast.Node{num(9600)},
	))

	loop := ast.NewCompound([]ast.Node{
		ast.NewVarDecl(ast.NewType("int"), []*ast.DeclaratorNode{
			ast.NewDeclarator("v", ast.NewFuncCall(ast.NewIdentifier("analogRead"), []ast.Node{ast.NewConstant("A0")})),
		}),
		ast.NewExpressionStmt(ast.NewFuncCall(
			ast.NewMemberAccess(ast.NewIdentifier("Serial"), "println", false),
			[]ast.Node{ast.NewIdentifier("v")},
		)),
	})
	program := ast.NewProgram([]ast.Node{voidFunc("setup", setup), voidFunc("loop", loop)})

	l := &streamListener{}
	it := New(program, l, Options{MaxLoopIterations: 1})
	require.True(t, it.Start())

	require.Eventually(t, func() bool {
		return it.GetState() == StateWaitingForResponse
	}, time.Second, time.Millisecond)

	history := it.History()
	require.NotEmpty(t, history)
	last := history[len(history)-1]
	require.Equal(t, command.AnalogReadRequest, last.Type)
	payload := last.Payload.(command.AnalogReadRequestPayload)
	assert.Equal(t, 14, payload.Pin) // A0
	assert.NotEmpty(t, payload.RequestID)

	require.True(t, it.ResumeWithValue(payload.RequestID, Int32Value(512)))
	it.Wait()

	assert.Equal(t, StateComplete, it.GetState())

	var varSet, println command.Command
	for _, c := range it.History() {
		switch c.Type {
		case command.VarSet:
			varSet = c
		case command.SerialPrintln:
			println = c
		}
	}
	require.Equal(t, command.VarSetPayload{Variable: "v", Value: int64(512), VarType: "int"}, varSet.Payload)
	require.Equal(t, command.SerialPrintlnPayload{Data: "512"}, println.Payload)
}

// TestScenario_TernaryInitializer grounds spec §8 scenario 4.
func TestScenario_TernaryInitializer(t *testing.T) {
	setup := ast.NewCompound([]ast.Node{
		ast.NewVarDecl(ast.NewType("int"), []*ast.DeclaratorNode{
			ast.NewDeclarator("condition", num(1)),
		}),
		ast.NewVarDecl(ast.NewType("int"), []*ast.DeclaratorNode{
			ast.NewDeclarator("x", ast.NewTernary(ast.NewIdentifier("condition"), num(10), num(20))),
		}),
	})
	program := ast.NewProgram([]ast.Node{voidFunc("setup", setup), voidFunc("loop", ast.NewCompound(nil))})

	_, l := runToCompletion(t, program, Options{MaxLoopIterations: 1})

	var varSets []command.VarSetPayload
	for _, c := range l.commands {
		if c.Type == command.VarSet {
			varSets = append(varSets, c.Payload.(command.VarSetPayload))
		}
	}
	require.Len(t, varSets, 2)
	assert.Equal(t, "condition", varSets[0].Variable)
	assert.Equal(t, "x", varSets[1].Variable)
	assert.EqualValues(t, 10, varSets[1].Value)
}

// TestScenario_BreakInFor grounds spec §8 scenario 5: a for(i=0;i<5;i++)
// that breaks at i==2 runs its body for i in {0,1,2} only.
func TestScenario_BreakInFor(t *testing.T) {
	body := ast.NewCompound([]ast.Node{
		call("digitalWrite", ast.NewIdentifier("i"), ast.NewConstant("HIGH")),
		ast.NewIf(
			ast.NewBinaryOp("==", ast.NewIdentifier("i"), num(2)),
			ast.NewBreak(),
			nil,
		),
	})
	forStmt := ast.NewFor(
		ast.NewVarDecl(ast.NewType("int"), []*ast.DeclaratorNode{ast.NewDeclarator("i", num(0))}),
		ast.NewBinaryOp("<", ast.NewIdentifier("i"), num(5)),
		ast.NewPostfix("++", ast.NewIdentifier("i")),
		body,
	)
	setup := ast.NewCompound([]ast.Node{forStmt})
	program := ast.NewProgram([]ast.Node{voidFunc("setup", setup), voidFunc("loop", ast.NewCompound(nil))})

	// InnerLoopCap defaults to MaxLoopIterations; raise it so the for loop
	// is bounded by its own condition and break, not by the cap.
	_, l := runToCompletion(t, program, Options{MaxLoopIterations: 1, InnerLoopCap: 5})

	var writes []command.DigitalWritePayload
	for _, c := range l.commands {
		if c.Type == command.DigitalWrite {
			writes = append(writes, c.Payload.(command.DigitalWritePayload))
		}
	}
	require.Len(t, writes, 3)
	assert.Equal(t, 0, writes[0].Pin)
	assert.Equal(t, 1, writes[1].Pin)
	assert.Equal(t, 2, writes[2].Pin)
}

// TestDivisionByZero_IntegerEmitsError grounds spec §8's integer/float
// division-by-zero split: integer division by zero is an ERROR, float isn't.
func TestDivisionByZero_IntegerEmitsError(t *testing.T) {
	setup := ast.NewCompound([]ast.Node{
		ast.NewExpressionStmt(ast.NewBinaryOp("/", num(1), num(0))),
	})
	program := ast.NewProgram([]ast.Node{voidFunc("setup", setup)})

	it, l := runToCompletion(t, program, Options{MaxLoopIterations: 1})

	assert.Equal(t, StateError, it.GetState())
	// PROGRAM_START and FUNCTION_CALL(setup) precede the ERROR.
	require.Len(t, l.commands, 3)
	assert.Equal(t, command.Error, l.commands[2].Type)
	errPayload := l.commands[2].Payload.(command.ErrorPayload)
	assert.Equal(t, string(DivisionByZero), errPayload.Subcode)
}

func TestDivisionByZero_FloatYieldsInfNotError(t *testing.T) {
	setup := ast.NewCompound([]ast.Node{
		ast.NewVarDecl(ast.NewType("float"), []*ast.DeclaratorNode{
			ast.NewDeclarator("x", ast.NewBinaryOp("/", ast.NewNumber(ast.FloatValue(1.0)), ast.NewNumber(ast.FloatValue(0.0)))),
		}),
	})
	program := ast.NewProgram([]ast.Node{voidFunc("setup", setup)})

	it, _ := runToCompletion(t, program, Options{MaxLoopIterations: 1})
	assert.Equal(t, StateComplete, it.GetState())
}

func TestEmptyLoop_EmitsExactlyMaxLoopIterationsPlusTerminalPair(t *testing.T) {
	program := ast.NewProgram([]ast.Node{
		voidFunc("setup", ast.NewCompound(nil)),
		voidFunc("loop", ast.NewCompound(nil)),
	})
	_, l := runToCompletion(t, program, Options{MaxLoopIterations: 3})

	count := 0
	for _, c := range l.commands {
		if c.Type == command.LoopIteration {
			count++
		}
	}
	assert.Equal(t, 3, count)
	assert.Equal(t, command.LoopLimitReached, l.commands[len(l.commands)-2].Type)
	assert.Equal(t, command.ProgramEnd, l.commands[len(l.commands)-1].Type)
}

func TestStop_IsIdempotentAndProducesNoCommandAfter(t *testing.T) {
	setup := ast.NewCompound([]ast.Node{
		ast.NewVarDecl(ast.NewType("int"), []*ast.DeclaratorNode{
			ast.NewDeclarator("v", ast.NewFuncCall(ast.NewIdentifier("analogRead"), []ast.Node{num(0)})),
		}),
	})
	program := ast.NewProgram([]ast.Node{voidFunc("setup", setup)})

	it := New(program, nil, Options{MaxLoopIterations: 1})
	require.True(t, it.Start())
	require.Eventually(t, func() bool { return it.GetState() == StateWaitingForResponse }, time.Second, time.Millisecond)

	before := len(it.History())
	it.Stop()
	it.Stop() // idempotent
	it.Wait()

	assert.Equal(t, StateStopped, it.GetState())
	assert.Equal(t, before, len(it.History()), "no command is emitted for a deliberate Stop")
}

func TestResumeWithValue_UnknownRequestIDIsNoOp(t *testing.T) {
	program := ast.NewProgram([]ast.Node{voidFunc("setup", ast.NewCompound(nil))})
	it := New(program, nil, Options{MaxLoopIterations: 1})
	assert.False(t, it.ResumeWithValue("not-a-real-id", Int32Value(1)))
}

func TestSynchronousMode_AnswersInlineWithoutSuspending(t *testing.T) {
	setup := ast.NewCompound([]ast.Node{
		ast.NewVarDecl(ast.NewType("int"), []*ast.DeclaratorNode{
			ast.NewDeclarator("v", ast.NewFuncCall(ast.NewIdentifier("digitalRead"), []ast.Node{num(2)})),
		}),
	})
	program := ast.NewProgram([]ast.Node{voidFunc("setup", setup)})

	it, l := runToCompletion(t, program, Options{
		MaxLoopIterations: 1,
		Synchronous:       true,
		ResponseHandler: func(operation string, payload interface{}) Value {
			assert.Equal(t, "digitalRead", operation)
			return Int32Value(1)
		},
	})

	// Synchronous mode still emits the *_REQUEST command (the host sees it
	// happened) but never blocks the worker in WAITING_FOR_RESPONSE for it.
	assert.Equal(t, StateComplete, it.GetState())
	found := false
	for _, c := range l.commands {
		if c.Type == command.DigitalReadRequest {
			found = true
		}
	}
	assert.True(t, found, "the request command is still emitted in synchronous mode")
}

func TestNoEmissionAfterTerminal_ErrorThenNothingFollows(t *testing.T) {
	setup := ast.NewCompound([]ast.Node{
		ast.NewExpressionStmt(ast.NewIdentifier("undeclaredName")),
	})
	program := ast.NewProgram([]ast.Node{voidFunc("setup", setup), voidFunc("loop", ast.NewCompound(nil))})

	it, l := runToCompletion(t, program, Options{MaxLoopIterations: 5})
	assert.Equal(t, StateError, it.GetState())
	require.NotEmpty(t, l.commands)
	assert.Equal(t, command.Error, l.commands[len(l.commands)-1].Type)
}

func TestTick_FromIdleRunsPreludeAndSetupThenPauses(t *testing.T) {
	program := ast.NewProgram([]ast.Node{
		voidFunc("setup", ast.NewCompound(nil)),
		voidFunc("loop", ast.NewCompound(nil)),
	})
	it := New(program, nil, Options{MaxLoopIterations: 5})

	assert.True(t, it.Tick())
	require.Eventually(t, func() bool { return it.GetState() == StatePaused }, time.Second, time.Millisecond)

	assert.True(t, it.Tick())
	require.Eventually(t, func() bool { return it.GetState() == StatePaused }, time.Second, time.Millisecond)

	it.Stop()
	it.Wait()
}

func TestTick_FromTerminalStateIsNoOp(t *testing.T) {
	program := ast.NewProgram([]ast.Node{voidFunc("setup", ast.NewCompound(nil))})
	it, _ := runToCompletion(t, program, Options{MaxLoopIterations: 1})
	assert.False(t, it.Tick())
}

func TestPauseAndResume_StopsAtIterationBoundary(t *testing.T) {
	program := ast.NewProgram([]ast.Node{
		voidFunc("setup", ast.NewCompound(nil)),
		voidFunc("loop", ast.NewCompound([]ast.Node{call("delay", num(1))})),
	})
	it := New(program, nil, Options{MaxLoopIterations: 5})
	it.Pause()
	require.True(t, it.Start())

	require.Eventually(t, func() bool { return it.GetState() == StatePaused }, time.Second, time.Millisecond)
	it.Resume()
	it.Wait()
	assert.Equal(t, StateComplete, it.GetState())
}
