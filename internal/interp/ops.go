package interp

import "github.com/hassan/astinterp/internal/ast"

// lvalue abstracts an assignable storage location — a variable slot, an
// array element, or a struct field — behind get/set closures, so
// VisitAssignment/VisitPostfix/VisitUnaryOp's `++`/`--` paths share one
// once-only-evaluation rule regardless of what kind of target they're
// writing to (spec §4.3.3).
type lvalue struct {
	get func() (Value, error)
	set func(Value) error
}

func (i *Interpreter) resolveLValue(target ast.Node) (*lvalue, error) {
	switch t := target.(type) {
	case *ast.IdentifierNode:
		v := i.curScope.Lookup(t.Name)
		if v == nil {
			return nil, newError(UnknownIdentifier, "undeclared identifier %q", t.Name)
		}
		return &lvalue{
			get: func() (Value, error) { return v.Value, nil },
			set: func(nv Value) error {
				if v.Constant {
					return newError(TypeMismatch, "cannot assign to const %q", t.Name)
				}
				v.Value = nv
				return nil
			},
		}, nil

	case *ast.ArrayAccessNode:
		arr, err := i.evalExpr(t.Array)
		if err != nil {
			return nil, err
		}
		if arr.Kind != KindArray {
			return nil, newError(TypeMismatch, "cannot index non-array value of kind %s", arr.Kind)
		}
		idxV, err := i.evalExpr(t.Index)
		if err != nil {
			return nil, err
		}
		idx := int(idxV.AsInt())
		return &lvalue{
			get: func() (Value, error) {
				if idx < 0 || idx >= len(arr.Array.Elements) {
					return Value{}, newError(ArrayIndexOutOfBounds, "index %d out of bounds for array of length %d", idx, len(arr.Array.Elements))
				}
				return arr.Array.Elements[idx], nil
			},
			set: func(nv Value) error {
				if idx < 0 || idx >= len(arr.Array.Elements) {
					return newError(ArrayIndexOutOfBounds, "index %d out of bounds for array of length %d", idx, len(arr.Array.Elements))
				}
				arr.Array.Elements[idx] = nv
				return nil
			},
		}, nil

	case *ast.MemberAccessNode:
		obj, err := i.evalExpr(t.Object)
		if err != nil {
			return nil, err
		}
		if obj.Kind != KindStruct {
			return nil, newError(TypeMismatch, "member access %q on non-struct value of kind %s", t.Property, obj.Kind)
		}
		field := t.Property
		return &lvalue{
			get: func() (Value, error) {
				fv, ok := obj.Struct.Fields[field]
				if !ok {
					return Value{}, newError(UnknownMember, "struct %q has no member %q", obj.Struct.TypeName, field)
				}
				return fv, nil
			},
			set: func(nv Value) error {
				obj.Struct.Fields[field] = nv
				return nil
			},
		}, nil

	default:
		return nil, newError(TypeMismatch, "expression is not assignable")
	}
}

// promote picks the result Kind of a binary arithmetic/bitwise operation
// under C's usual arithmetic conversions, simplified to the kinds this
// interpreter's Value actually carries: float beats any integer width,
// wider beats narrower, unsigned beats signed at the same width.
func promote(l, r Value) Kind {
	if l.Kind == KindDouble || r.Kind == KindDouble {
		return KindDouble
	}
	if l.Kind == KindUint64 || r.Kind == KindUint64 {
		return KindUint64
	}
	if l.Kind == KindInt64 || r.Kind == KindInt64 {
		return KindInt64
	}
	if l.Kind == KindUint32 || r.Kind == KindUint32 {
		return KindUint32
	}
	return KindInt32
}

func wrapInt(kind Kind, v int64) Value {
	if kind == KindInt64 {
		return Int64Value(v)
	}
	return Int32Value(int32(v)) // narrowing conversion wraps via two's complement, spec §8
}

func wrapUint(kind Kind, v uint64) Value {
	if kind == KindUint64 {
		return Uint64Value(v)
	}
	return Uint32Value(uint32(v))
}

// applyBinaryOp dispatches a binary operator over two already-evaluated
// operands. && and || never reach here — they short-circuit in
// VisitBinaryOp before the right operand is even evaluated.
func (i *Interpreter) applyBinaryOp(op string, l, r Value) (Value, error) {
	if op == "+" && (l.Kind == KindString || r.Kind == KindString) {
		return StringValue(l.GoString() + r.GoString()), nil
	}
	switch op {
	case "==", "!=", "<", "<=", ">", ">=":
		return compareValues(op, l, r)
	case "+", "-", "*", "/", "%":
		return arith(op, promote(l, r), l, r)
	case "&", "|", "^", "<<", ">>":
		return bitwiseOp(op, promote(l, r), l, r)
	default:
		return Value{}, newError(InternalError, "unsupported binary operator %q", op)
	}
}

func compareValues(op string, l, r Value) (Value, error) {
	var lt, eq bool
	if l.Kind == KindString && r.Kind == KindString {
		lt, eq = l.Str < r.Str, l.Str == r.Str
	} else {
		lf, rf := l.AsFloat(), r.AsFloat()
		lt, eq = lf < rf, lf == rf
	}
	switch op {
	case "==":
		return BoolValue(eq), nil
	case "!=":
		return BoolValue(!eq), nil
	case "<":
		return BoolValue(lt), nil
	case "<=":
		return BoolValue(lt || eq), nil
	case ">":
		return BoolValue(!lt && !eq), nil
	case ">=":
		return BoolValue(!lt), nil
	default:
		return Value{}, newError(InternalError, "unsupported comparison operator %q", op)
	}
}

// valuesEqual is the equality test switch's Discriminant-to-Match
// comparisons use (spec §4.3.3); it's the "==" half of compareValues
// surfaced as a plain bool for callers that aren't building a Value.
func valuesEqual(l, r Value) bool {
	eq, _ := compareValues("==", l, r)
	return eq.Bool
}

func arith(op string, kind Kind, l, r Value) (Value, error) {
	if kind == KindDouble {
		lf, rf := l.AsFloat(), r.AsFloat()
		switch op {
		case "+":
			return DoubleValue(lf + rf), nil
		case "-":
			return DoubleValue(lf - rf), nil
		case "*":
			return DoubleValue(lf * rf), nil
		case "/":
			// IEEE-754 semantics: division by 0.0 yields +Inf/-Inf/NaN,
			// not an error (spec §4.3.3, §8).
			return DoubleValue(lf / rf), nil
		default:
			return Value{}, newError(TypeMismatch, "operator %q is not defined for floating point operands", op)
		}
	}
	if kind == KindUint32 || kind == KindUint64 {
		lu, ru := l.AsUint(), r.AsUint()
		switch op {
		case "+":
			return wrapUint(kind, lu+ru), nil
		case "-":
			return wrapUint(kind, lu-ru), nil
		case "*":
			return wrapUint(kind, lu*ru), nil
		case "/":
			if ru == 0 {
				return Value{}, newError(DivisionByZero, "division by zero")
			}
			return wrapUint(kind, lu/ru), nil
		case "%":
			if ru == 0 {
				return Value{}, newError(DivisionByZero, "division by zero")
			}
			return wrapUint(kind, lu%ru), nil
		}
	}
	li, ri := l.AsInt(), r.AsInt()
	switch op {
	case "+":
		return wrapInt(kind, li+ri), nil
	case "-":
		return wrapInt(kind, li-ri), nil
	case "*":
		return wrapInt(kind, li*ri), nil
	case "/":
		if ri == 0 {
			return Value{}, newError(DivisionByZero, "division by zero")
		}
		return wrapInt(kind, li/ri), nil
	case "%":
		if ri == 0 {
			return Value{}, newError(DivisionByZero, "division by zero")
		}
		return wrapInt(kind, li%ri), nil
	default:
		return Value{}, newError(InternalError, "unsupported arithmetic operator %q", op)
	}
}

func bitwiseOp(op string, kind Kind, l, r Value) (Value, error) {
	if kind == KindUint32 || kind == KindUint64 {
		lu, ru := l.AsUint(), r.AsUint()
		switch op {
		case "&":
			return wrapUint(kind, lu&ru), nil
		case "|":
			return wrapUint(kind, lu|ru), nil
		case "^":
			return wrapUint(kind, lu^ru), nil
		case "<<":
			return wrapUint(kind, lu<<ru), nil
		case ">>":
			return wrapUint(kind, lu>>ru), nil
		}
	}
	li, ri := l.AsInt(), r.AsInt()
	switch op {
	case "&":
		return wrapInt(kind, li&ri), nil
	case "|":
		return wrapInt(kind, li|ri), nil
	case "^":
		return wrapInt(kind, li^ri), nil
	case "<<":
		return wrapInt(kind, li<<uint(ri)), nil
	case ">>":
		return wrapInt(kind, li>>uint(ri)), nil
	default:
		return Value{}, newError(InternalError, "unsupported bitwise operator %q", op)
	}
}

func widenSigned(k Kind) Kind {
	if k == KindInt64 || k == KindUint64 {
		return KindInt64
	}
	return KindInt32
}

func (i *Interpreter) applyUnaryOp(op string, v Value) (Value, error) {
	switch op {
	case "-":
		if v.Kind == KindDouble {
			return DoubleValue(-v.Double), nil
		}
		return wrapInt(widenSigned(v.Kind), -v.AsInt()), nil
	case "+":
		return v, nil
	case "!":
		return BoolValue(!v.IsTruthy()), nil
	case "~":
		return wrapInt(widenSigned(v.Kind), ^v.AsInt()), nil
	default:
		return Value{}, newError(InternalError, "unsupported unary operator %q", op)
	}
}
