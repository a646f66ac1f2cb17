package interp

import "fmt"

// Kind is the tag of the runtime Value tagged union (spec §3.2).
type Kind int

const (
	KindVoid Kind = iota
	KindBool
	KindInt32
	KindUint32
	KindInt64
	KindUint64
	KindDouble
	KindString
	KindArray
	KindStruct
	KindPointer
	KindFunction
)

func (k Kind) String() string {
	switch k {
	case KindVoid:
		return "void"
	case KindBool:
		return "bool"
	case KindInt32:
		return "int32"
	case KindUint32:
		return "uint32"
	case KindInt64:
		return "int64"
	case KindUint64:
		return "uint64"
	case KindDouble:
		return "double"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindStruct:
		return "struct"
	case KindPointer:
		return "pointer"
	case KindFunction:
		return "function"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Value is the evaluator's runtime tagged union. Every evaluation of an
// expression node produces exactly one Value; statements produce a Control
// signal instead (see control.go).
//
// DESIGN CHOICE: one struct with a discriminant, the same shape as
// ast.LiteralValue, rather than an interface{} + type switch per caller.
// Numeric promotion (§4.3.3) needs to inspect and widen a Value's kind
// uniformly; a closed struct makes that a field read instead of a type
// assertion at every call site.
type Value struct {
	Kind Kind

	Bool   bool
	Int    int64   // widened storage for Int32/Int64
	Uint   uint64  // widened storage for Uint32/Uint64
	Double float64
	Str    string

	Array  *ArrayRef
	Struct *StructRef
	Ptr    *PointerRef
	Func   *FuncRef
}

// ArrayRef is a reference to a fixed- or dynamically-sized array. Arrays
// are reference types: assigning or passing one copies the reference, not
// the backing slice (mirrors Arduino/C array-decays-to-pointer semantics).
type ArrayRef struct {
	ElementKind Kind
	Elements    []Value
}

// StructRef is a reference to a struct instance's field values.
type StructRef struct {
	TypeName string
	Fields   map[string]Value
}

// PointerRef is a reference to an addressable storage location: a variable
// slot in some Scope, or an element slot inside an ArrayRef.
type PointerRef struct {
	Scope    *Scope
	Name     string
	Array    *ArrayRef
	Index    int
	IsArrayElem bool
}

// FuncRef is a reference to a callable: a user-defined function record or
// a built-in name the evaluator dispatches on directly.
type FuncRef struct {
	Name    string
	Builtin bool
	Record  *FuncRecord
}

func VoidValue() Value                 { return Value{Kind: KindVoid} }
func BoolValue(b bool) Value           { return Value{Kind: KindBool, Bool: b} }
func Int32Value(v int32) Value         { return Value{Kind: KindInt32, Int: int64(v)} }
func Uint32Value(v uint32) Value       { return Value{Kind: KindUint32, Uint: uint64(v)} }
func Int64Value(v int64) Value         { return Value{Kind: KindInt64, Int: v} }
func Uint64Value(v uint64) Value       { return Value{Kind: KindUint64, Uint: v} }
func DoubleValue(v float64) Value      { return Value{Kind: KindDouble, Double: v} }
func StringValue(s string) Value       { return Value{Kind: KindString, Str: s} }

// IsTruthy implements the integer/float/string/bool-to-bool conversion
// spec §4.3.3 requires for conditions: 0/0.0/"" is false, everything else
// (including a non-nil array/struct/pointer/function reference) is true.
func (v Value) IsTruthy() bool {
	switch v.Kind {
	case KindVoid:
		return false
	case KindBool:
		return v.Bool
	case KindInt32, KindInt64:
		return v.Int != 0
	case KindUint32, KindUint64:
		return v.Uint != 0
	case KindDouble:
		return v.Double != 0
	case KindString:
		return v.Str != ""
	default:
		return true
	}
}

// IsNumeric reports whether this value participates in C-style numeric
// promotion (spec §4.3.3).
func (v Value) IsNumeric() bool {
	switch v.Kind {
	case KindInt32, KindUint32, KindInt64, KindUint64, KindDouble, KindBool:
		return true
	default:
		return false
	}
}

// AsFloat widens any numeric kind to float64, for mixed int/float
// arithmetic and comparisons.
func (v Value) AsFloat() float64 {
	switch v.Kind {
	case KindBool:
		if v.Bool {
			return 1
		}
		return 0
	case KindInt32, KindInt64:
		return float64(v.Int)
	case KindUint32, KindUint64:
		return float64(v.Uint)
	case KindDouble:
		return v.Double
	default:
		return 0
	}
}

// AsInt widens any integer-ish kind to int64, truncating floats per C
// conversion rules (spec §4.3.3 "integer<->float (rounding)" — truncation
// toward zero is what every C-family cast does).
func (v Value) AsInt() int64 {
	switch v.Kind {
	case KindBool:
		if v.Bool {
			return 1
		}
		return 0
	case KindInt32, KindInt64:
		return v.Int
	case KindUint32, KindUint64:
		return int64(v.Uint)
	case KindDouble:
		return int64(v.Double)
	default:
		return 0
	}
}

// AsUint widens any numeric kind to uint64, for bitwise and unsigned
// arithmetic ops that need to operate on the raw bit pattern.
func (v Value) AsUint() uint64 {
	switch v.Kind {
	case KindBool:
		if v.Bool {
			return 1
		}
		return 0
	case KindUint32, KindUint64:
		return v.Uint
	case KindInt32, KindInt64:
		return uint64(v.Int)
	case KindDouble:
		return uint64(v.Double)
	default:
		return 0
	}
}

// Wire renders a Value as the interface{} a VAR_SET/FUNCTION_CALL command
// payload carries over the wire — a plain Go scalar, not this package's
// tagged struct, so JSON encoding of the command stream doesn't need to
// know about Value at all.
func (v Value) Wire() interface{} {
	switch v.Kind {
	case KindBool:
		return v.Bool
	case KindInt32, KindInt64:
		return v.Int
	case KindUint32, KindUint64:
		return v.Uint
	case KindDouble:
		return v.Double
	case KindString:
		return v.Str
	default:
		return v.GoString()
	}
}

// GoString renders a Value the way SERIAL_PRINT/SERIAL_PRINTLN commands
// render it on the wire (VAR_SET uses Wire, which falls back to this only
// for non-scalar kinds): Arduino's Serial.print formats integers
// in decimal and floats with a fixed two-decimal default.
func (v Value) GoString() string {
	switch v.Kind {
	case KindVoid:
		return ""
	case KindBool:
		if v.Bool {
			return "1"
		}
		return "0"
	case KindInt32, KindInt64:
		return fmt.Sprintf("%d", v.Int)
	case KindUint32, KindUint64:
		return fmt.Sprintf("%d", v.Uint)
	case KindDouble:
		return fmt.Sprintf("%.2f", v.Double)
	case KindString:
		return v.Str
	default:
		return fmt.Sprintf("<%s>", v.Kind)
	}
}

// ZeroValue returns the default value for a declared type name, used both
// for uninitialized declarations and for a non-void function falling off
// its body without a return (spec §4.3.3).
func ZeroValue(typeName string) Value {
	switch typeName {
	case "bool", "boolean":
		return BoolValue(false)
	case "float", "double":
		return DoubleValue(0)
	case "String", "string", "char*":
		return StringValue("")
	case "unsigned int", "unsigned long", "uint32_t", "size_t":
		return Uint32Value(0)
	case "long", "int64_t":
		return Int64Value(0)
	case "uint64_t":
		return Uint64Value(0)
	case "void":
		return VoidValue()
	default:
		return Int32Value(0)
	}
}
