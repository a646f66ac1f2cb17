package interp

import (
	"strings"

	"github.com/hassan/astinterp/internal/ast"
)

// VisitBinaryOp handles && and || with short-circuit evaluation directly
// (the right operand must not be evaluated at all when short-circuited,
// so it can't go through the generic applyBinaryOp which takes both
// operands already evaluated), and delegates every other operator to
// applyBinaryOp's C-style numeric promotion (spec §4.3.3).
func (i *Interpreter) VisitBinaryOp(n *ast.BinaryOpNode) (interface{}, error) {
	switch n.Operator {
	case "&&":
		l, err := i.evalExpr(n.Left)
		if err != nil {
			return Value{}, err
		}
		if !l.IsTruthy() {
			return BoolValue(false), nil
		}
		r, err := i.evalExpr(n.Right)
		if err != nil {
			return Value{}, err
		}
		return BoolValue(r.IsTruthy()), nil
	case "||":
		l, err := i.evalExpr(n.Left)
		if err != nil {
			return Value{}, err
		}
		if l.IsTruthy() {
			return BoolValue(true), nil
		}
		r, err := i.evalExpr(n.Right)
		if err != nil {
			return Value{}, err
		}
		return BoolValue(r.IsTruthy()), nil
	}

	l, err := i.evalExpr(n.Left)
	if err != nil {
		return Value{}, err
	}
	r, err := i.evalExpr(n.Right)
	if err != nil {
		return Value{}, err
	}
	return i.applyBinaryOp(n.Operator, l, r)
}

func (i *Interpreter) VisitUnaryOp(n *ast.UnaryOpNode) (interface{}, error) {
	if n.Operator == "++" || n.Operator == "--" {
		lv, err := i.resolveLValue(n.Operand)
		if err != nil {
			return Value{}, err
		}
		cur, err := lv.get()
		if err != nil {
			return Value{}, err
		}
		delta := int64(1)
		if n.Operator == "--" {
			delta = -1
		}
		nv, err := i.applyBinaryOp("+", cur, deltaLike(cur, delta))
		if err != nil {
			return Value{}, err
		}
		if err := lv.set(nv); err != nil {
			return Value{}, err
		}
		return nv, nil
	}

	v, err := i.evalExpr(n.Operand)
	if err != nil {
		return Value{}, err
	}
	return i.applyUnaryOp(n.Operator, v)
}

func (i *Interpreter) VisitAssignment(n *ast.AssignmentNode) (interface{}, error) {
	lv, err := i.resolveLValue(n.Target)
	if err != nil {
		return Value{}, err
	}
	rhs, err := i.evalExpr(n.RHS)
	if err != nil {
		return Value{}, err
	}
	result := rhs
	// `a op= b` is `a = a op b`, with `a` evaluated exactly once — lv
	// already captured the target's address above, so get() here reads
	// the same slot set() will write (spec §4.3.3).
	if n.Operator != "=" {
		cur, err := lv.get()
		if err != nil {
			return Value{}, err
		}
		op := strings.TrimSuffix(n.Operator, "=")
		result, err = i.applyBinaryOp(op, cur, rhs)
		if err != nil {
			return Value{}, err
		}
	}
	if err := lv.set(result); err != nil {
		return Value{}, err
	}
	return result, nil
}

// VisitFuncCallExpr resolves a call to a builtin, a library method (the
// callee is a MemberAccess), or a user-defined function, in that order
// (spec §4.3.3's function-call resolution).
func (i *Interpreter) VisitFuncCallExpr(n *ast.FuncCallNode) (interface{}, error) {
	args := make([]Value, 0, len(n.Args))
	for _, a := range n.Args {
		v, err := i.evalExpr(a)
		if err != nil {
			return Value{}, err
		}
		args = append(args, v)
	}

	switch callee := n.Callee.(type) {
	case *ast.IdentifierNode:
		return i.callByName(callee.Name, args)
	case *ast.MemberAccessNode:
		name := objectName(callee.Object)
		if name == "Serial" && i.curScope.Lookup(name) == nil {
			// Serial is a built-in object with no binding in any scope.
			return i.callLibraryMethod(name, VoidValue(), callee.Property, args)
		}
		obj, err := i.evalExpr(callee.Object)
		if err != nil {
			return Value{}, err
		}
		return i.callLibraryMethod(name, obj, callee.Property, args)
	default:
		return Value{}, newError(TypeMismatch, "expression is not callable")
	}
}

// VisitConstructorCall builds either a user-defined struct instance (its
// fields populated positionally from Args, defaulting to zero values) or
// an opaque library-object handle (Servo, LiquidCrystal, ...) that the
// evaluator never inspects directly — only method calls on it ever leave
// the interpreter as LIBRARY_METHOD_REQUEST commands.
func (i *Interpreter) VisitConstructorCall(n *ast.ConstructorCallNode) (interface{}, error) {
	args := make([]Value, 0, len(n.Args))
	for _, a := range n.Args {
		v, err := i.evalExpr(a)
		if err != nil {
			return Value{}, err
		}
		args = append(args, v)
	}

	if fields, ok := i.structs[n.TypeName]; ok {
		sv := &StructRef{TypeName: n.TypeName, Fields: make(map[string]Value, len(fields))}
		for idx, f := range fields {
			if idx < len(args) {
				sv.Fields[f.Name] = args[idx]
			} else {
				sv.Fields[f.Name] = i.zeroValueFor(f.TypeName)
			}
		}
		return Value{Kind: KindStruct, Struct: sv}, nil
	}
	return Value{Kind: KindStruct, Struct: &StructRef{TypeName: n.TypeName, Fields: map[string]Value{}}}, nil
}

func (i *Interpreter) VisitMemberAccess(n *ast.MemberAccessNode) (interface{}, error) {
	obj, err := i.evalExpr(n.Object)
	if err != nil {
		return Value{}, err
	}
	if obj.Kind != KindStruct {
		return Value{}, newError(TypeMismatch, "member access %q on non-struct value of kind %s", n.Property, obj.Kind)
	}
	fv, ok := obj.Struct.Fields[n.Property]
	if !ok {
		return Value{}, newError(UnknownMember, "struct %q has no member %q", obj.Struct.TypeName, n.Property)
	}
	return fv, nil
}

func (i *Interpreter) VisitArrayAccess(n *ast.ArrayAccessNode) (interface{}, error) {
	arr, err := i.evalExpr(n.Array)
	if err != nil {
		return Value{}, err
	}
	if arr.Kind != KindArray {
		return Value{}, newError(TypeMismatch, "cannot index non-array value of kind %s", arr.Kind)
	}
	idx, err := i.evalExpr(n.Index)
	if err != nil {
		return Value{}, err
	}
	ix := int(idx.AsInt())
	if ix < 0 || ix >= len(arr.Array.Elements) {
		return Value{}, newError(ArrayIndexOutOfBounds, "index %d out of bounds for array of length %d", ix, len(arr.Array.Elements))
	}
	return arr.Array.Elements[ix], nil
}

func (i *Interpreter) VisitTernary(n *ast.TernaryNode) (interface{}, error) {
	cond, err := i.evalExpr(n.Condition)
	if err != nil {
		return Value{}, err
	}
	if cond.IsTruthy() {
		return i.evalExpr(n.Then)
	}
	return i.evalExpr(n.Else)
}

// VisitPostfix yields the pre-increment/decrement value, distinct from
// prefix ++/-- handled in VisitUnaryOp.
func (i *Interpreter) VisitPostfix(n *ast.PostfixNode) (interface{}, error) {
	lv, err := i.resolveLValue(n.Operand)
	if err != nil {
		return Value{}, err
	}
	old, err := lv.get()
	if err != nil {
		return Value{}, err
	}
	delta := int64(1)
	if n.Operator == "--" {
		delta = -1
	}
	nv, err := i.applyBinaryOp("+", old, deltaLike(old, delta))
	if err != nil {
		return Value{}, err
	}
	if err := lv.set(nv); err != nil {
		return Value{}, err
	}
	return old, nil
}

func (i *Interpreter) VisitComma(n *ast.CommaNode) (interface{}, error) {
	var last Value
	for _, e := range n.Exprs {
		v, err := i.evalExpr(e)
		if err != nil {
			return Value{}, err
		}
		last = v
	}
	return last, nil
}

func (i *Interpreter) VisitNumber(n *ast.NumberNode) (interface{}, error) {
	return literalToValue(n.Value()), nil
}

func (i *Interpreter) VisitString(n *ast.StringNode) (interface{}, error) {
	return StringValue(n.Value().Str), nil
}

func (i *Interpreter) VisitChar(n *ast.CharNode) (interface{}, error) {
	return Int32Value(int32(n.Value().Uint)), nil
}

func (i *Interpreter) VisitIdentifier(n *ast.IdentifierNode) (interface{}, error) {
	v := i.curScope.Lookup(n.Name)
	if v == nil {
		return Value{}, newError(UnknownIdentifier, "undeclared identifier %q", n.Name)
	}
	return v.Value, nil
}

func (i *Interpreter) VisitConstant(n *ast.ConstantNode) (interface{}, error) {
	v, ok := arduinoConstants[n.Name]
	if !ok {
		return Value{}, newError(UnknownIdentifier, "unknown constant %q", n.Name)
	}
	return v, nil
}

func (i *Interpreter) VisitArrayInit(n *ast.ArrayInitNode) (interface{}, error) {
	elems := make([]Value, 0, len(n.Elements))
	elemKind := KindInt32
	for idx, e := range n.Elements {
		v, err := i.evalExpr(e)
		if err != nil {
			return Value{}, err
		}
		if idx == 0 {
			elemKind = v.Kind
		}
		elems = append(elems, v)
	}
	return Value{Kind: KindArray, Array: &ArrayRef{ElementKind: elemKind, Elements: elems}}, nil
}

// The remaining Visit* methods cover pure type/declarator meta-nodes.
// They're never reached through Accept — VarDecl, FuncDef/FuncDecl,
// StructDecl and friends read TypeNode/ParamNode/DeclaratorNode fields
// directly rather than dispatching into them — but every node type must
// satisfy ast.Visitor.
func (i *Interpreter) VisitType(n *ast.TypeNode) (interface{}, error)           { return nil, nil }
func (i *Interpreter) VisitDeclarator(n *ast.DeclaratorNode) (interface{}, error) {
	return nil, nil
}
func (i *Interpreter) VisitParam(n *ast.ParamNode) (interface{}, error) { return nil, nil }
func (i *Interpreter) VisitStructType(n *ast.StructTypeNode) (interface{}, error) {
	return nil, nil
}
func (i *Interpreter) VisitFunctionPointerDeclarator(n *ast.FunctionPointerDeclaratorNode) (interface{}, error) {
	return nil, nil
}
func (i *Interpreter) VisitArrayDeclarator(n *ast.ArrayDeclaratorNode) (interface{}, error) {
	return nil, nil
}
func (i *Interpreter) VisitPointerDeclarator(n *ast.PointerDeclaratorNode) (interface{}, error) {
	return nil, nil
}

// objectName extracts the bare identifier name of a member-access
// receiver for LIBRARY_METHOD_REQUEST's "object" field (e.g. "Serial" in
// Serial.println(...)). Non-identifier receivers (a struct field holding
// a library object) yield ""; callLibraryMethod then reports the
// receiver's struct type name instead.
func objectName(obj ast.Node) string {
	switch o := obj.(type) {
	case *ast.IdentifierNode:
		return o.Name
	default:
		return ""
	}
}

// deltaLike builds the Value ++/-- adds, matching v's numeric family so
// applyBinaryOp's promotion picks the right result kind (an int delta
// added to a double still promotes to double).
func deltaLike(v Value, delta int64) Value {
	if v.Kind == KindDouble {
		return DoubleValue(float64(delta))
	}
	return Int32Value(int32(delta))
}
