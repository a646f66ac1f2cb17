package interp

import (
	"fmt"

	"github.com/hassan/astinterp/internal/ast"
	"github.com/hassan/astinterp/internal/command"
)

// evalExpr evaluates n as an expression, dispatching through its Accept
// method (spec §4.1's visitor/dispatch mechanism) and asserting the result
// back to a Value. Every expression Visit* method returns a Value this way.
func (i *Interpreter) evalExpr(n ast.Node) (Value, error) {
	res, err := n.Accept(i)
	if err != nil {
		return Value{}, err
	}
	v, ok := res.(Value)
	if !ok {
		return Value{}, newError(InternalError, "node %s did not evaluate to a value", n.Type())
	}
	return v, nil
}

// execStmt evaluates n as a statement, asserting the result back to a
// Control signal (spec §4.3.3's control-intent state machine standing in
// for host exceptions).
func (i *Interpreter) execStmt(n ast.Node) (Control, error) {
	res, err := n.Accept(i)
	if err != nil {
		return Control{}, err
	}
	c, ok := res.(Control)
	if !ok {
		return Control{}, newError(InternalError, "node %s did not evaluate to a control signal", n.Type())
	}
	return c, nil
}

// execStmts runs a statement list in the interpreter's current scope,
// short-circuiting at the first non-None control signal.
func (i *Interpreter) execStmts(stmts []ast.Node) (Control, error) {
	for _, s := range stmts {
		ctrl, err := i.execStmt(s)
		if err != nil {
			return Control{}, err
		}
		if !ctrl.IsNone() {
			return ctrl, nil
		}
	}
	return noControl, nil
}

// innerLoopCapExceeded reports whether a non-top-level loop (one nested
// inside setup()/loop(), as opposed to the loop() driver itself) has run
// past its configured safety cap, emitting a warning-class command the
// first time it trips. This is distinct from LOOP_LIMIT_REACHED, which
// covers only the top-level sketch loop() driver (spec Open Question (i)).
func (i *Interpreter) innerLoopCapExceeded(iter int) bool {
	if iter < i.opts.InnerLoopCap {
		return false
	}
	i.emitter.Emit(command.InnerLoopLimit, command.LoopLimitPayload{
		Message: fmt.Sprintf("loop body exceeded the configured inner-loop limit of %d iterations", i.opts.InnerLoopCap),
	})
	return true
}

// literalToValue converts a parsed ast.LiteralValue (Number/String/Char
// leaf payload) into the interpreter's runtime Value representation. The
// two packages intentionally keep separate tagged-union types (ast's is
// the wire/parse-time shape, this one the runtime shape) so neither
// package depends on the other's evolution.
func literalToValue(lv *ast.LiteralValue) Value {
	if lv == nil {
		return VoidValue()
	}
	switch lv.Type {
	case ast.VBool:
		return BoolValue(lv.Bool)
	case ast.VInt8, ast.VInt16, ast.VInt32:
		return Int32Value(int32(lv.Int))
	case ast.VInt64:
		return Int64Value(lv.Int)
	case ast.VUint8, ast.VUint16, ast.VUint32:
		return Uint32Value(uint32(lv.Uint))
	case ast.VUint64:
		return Uint64Value(lv.Uint)
	case ast.VFloat32, ast.VFloat64:
		return DoubleValue(lv.Float)
	case ast.VString:
		return StringValue(lv.Str)
	default:
		return VoidValue()
	}
}

// zeroValueFor resolves typedefs and struct field layouts before falling
// back to the package-level ZeroValue for primitive type spellings, so a
// struct-typed declaration gets a fully-populated StructRef rather than a
// bare Int32Value(0) (spec §3.2's struct value category).
func (i *Interpreter) zeroValueFor(typeName string) Value {
	if underlying, ok := i.typedefs[typeName]; ok {
		return i.zeroValueFor(underlying)
	}
	if fields, ok := i.structs[typeName]; ok {
		sv := &StructRef{TypeName: typeName, Fields: make(map[string]Value, len(fields))}
		for _, f := range fields {
			sv.Fields[f.Name] = i.zeroValueFor(f.TypeName)
		}
		return Value{Kind: KindStruct, Struct: sv}
	}
	return ZeroValue(typeName)
}
