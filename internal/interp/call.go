package interp

import (
	"github.com/hassan/astinterp/internal/command"
	"go.uber.org/zap"
)

// callFunction invokes a user-defined function record: a fresh function
// scope chained to its defining scope (global — Arduino sketches have no
// nested function definitions, spec §3.2), parameters bound from args
// (missing trailing args default to their declared type's zero value),
// body executed, and a ControlReturn consumed into its Value. Falling off
// the end of Body without an explicit return yields the return type's
// zero value, same as a C function with no return statement happening to
// produce garbage — Arduino sketches don't rely on it, so a defined zero
// beats undefined behavior.
func (i *Interpreter) callFunction(rec *FuncRecord, args []Value) (Value, error) {
	scope := NewScope(ScopeFunction, rec.DefiningScope)
	scope.Function = rec
	for idx, p := range rec.Params {
		v := i.zeroValueFor(p.TypeName)
		if idx < len(args) {
			v = args[idx]
		}
		if err := scope.Define(&Variable{Name: p.Name, TypeName: p.TypeName, Value: v}); err != nil {
			return Value{}, newError(InternalError, "%s", err)
		}
	}

	if rec.Body == nil {
		return Value{}, newError(WrongArity, "function %q was declared but never defined", rec.Name)
	}

	prev := i.curScope
	i.curScope = scope
	ctrl, err := i.execStmts(rec.Body.Stmts)
	i.curScope = prev
	if err != nil {
		return Value{}, err
	}
	switch ctrl.Kind {
	case ControlReturn:
		return ctrl.Value, nil
	case ControlBreak, ControlContinue:
		return Value{}, newError(BreakContinueOutsideLoop, "%s used outside a loop or switch in function %q", ctrl.Kind, rec.Name)
	default:
		return i.zeroValueFor(rec.ReturnType), nil
	}
}

// callByName resolves a bare identifier call: a builtin first, then a
// user-defined function (spec §4.3.3's resolution order — builtins are
// effectively reserved words a sketch can't shadow).
func (i *Interpreter) callByName(name string, args []Value) (Value, error) {
	if fn, ok := builtins[name]; ok {
		i.log.Debug("dispatching builtin", zap.String("name", name), zap.Int("argc", len(args)))
		return fn(i, args)
	}
	if rec, ok := i.funcs[name]; ok {
		return i.callFunction(rec, args)
	}
	return Value{}, newError(UnknownIdentifier, "call to undeclared function %q", name)
}

// callLibraryMethod handles `object.method(args...)` calls against a
// library object (Serial, or a user Servo()/LiquidCrystal() instance):
// Serial's own methods are implemented as immediate commands (spec §4.4);
// every other object.method combination is forwarded to the host as a
// LIBRARY_METHOD_REQUEST and suspends until resumeWithValue answers it
// (spec §4.3.4).
func (i *Interpreter) callLibraryMethod(objName string, obj Value, method string, args []Value) (Value, error) {
	i.log.Debug("dispatching library method", zap.String("object", objName), zap.String("method", method))
	if objName == "Serial" {
		if fn, ok := serialMethods[method]; ok {
			return fn(i, args)
		}
	}

	wireArgs := make([]interface{}, len(args))
	for idx, a := range args {
		wireArgs[idx] = a.Wire()
	}
	if objName == "" && obj.Kind == KindStruct {
		objName = obj.Struct.TypeName
	}

	v, ok := i.awaitResponse(objName+"."+method, func(requestID string) command.Command {
		return i.emitter.Emit(command.LibraryMethodRequest, command.LibraryMethodRequestPayload{
			Object: objName, Method: method, Args: wireArgs, RequestID: requestID,
		})
	})
	if !ok {
		return Value{}, errStopped
	}
	return v, nil
}
