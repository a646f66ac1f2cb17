package ast

import "fmt"

// ValueType is the tagged-value discriminant from spec §6.1. These are the
// only types a literal AST node (Number, String, Char, Identifier,
// Constant) may carry, and the same tags are what CompactAST writes on the
// wire immediately before a value's payload.
type ValueType uint8

const (
	VVoid    ValueType = 0x00
	VBool    ValueType = 0x01
	VInt8    ValueType = 0x02
	VUint8   ValueType = 0x03
	VInt16   ValueType = 0x04
	VUint16  ValueType = 0x05
	VInt32   ValueType = 0x06
	VUint32  ValueType = 0x07
	VInt64   ValueType = 0x08
	VUint64  ValueType = 0x09
	VFloat32 ValueType = 0x0A
	VFloat64 ValueType = 0x0B
	VString  ValueType = 0x0C
	VNull    ValueType = 0x0D
)

func (t ValueType) String() string {
	switch t {
	case VVoid:
		return "void"
	case VBool:
		return "bool"
	case VInt8:
		return "int8"
	case VUint8:
		return "uint8"
	case VInt16:
		return "int16"
	case VUint16:
		return "uint16"
	case VInt32:
		return "int32"
	case VUint32:
		return "uint32"
	case VInt64:
		return "int64"
	case VUint64:
		return "uint64"
	case VFloat32:
		return "float32"
	case VFloat64:
		return "float64"
	case VString:
		return "string"
	case VNull:
		return "null"
	default:
		return fmt.Sprintf("ValueType(0x%02X)", uint8(t))
	}
}

// IsSigned reports whether this tag denotes a signed integer type.
func (t ValueType) IsSigned() bool {
	switch t {
	case VInt8, VInt16, VInt32, VInt64:
		return true
	default:
		return false
	}
}

// IsUnsigned reports whether this tag denotes an unsigned integer type.
func (t ValueType) IsUnsigned() bool {
	switch t {
	case VUint8, VUint16, VUint32, VUint64:
		return true
	default:
		return false
	}
}

// IsFloat reports whether this tag denotes a floating point type.
func (t ValueType) IsFloat() bool {
	return t == VFloat32 || t == VFloat64
}

// LiteralValue is the payload a Number, String, Char, Identifier, or
// Constant node carries. It is a plain value type (not an interface) so
// the CompactAST codec and the AST package can share it without either
// depending on the interpreter's runtime Value representation.
//
// DESIGN CHOICE: store every numeric kind in one struct with a
// discriminant rather than interface{} + type assertions. The codec needs
// to pick the *smallest* representation that fits (spec §4.2.1 step 6),
// which is naturally a field-by-field decision, not a boxed value.
type LiteralValue struct {
	Type ValueType

	Bool  bool
	Int   int64   // valid when Type is a signed integer kind
	Uint  uint64  // valid when Type is an unsigned integer kind
	Float float64 // valid when Type is VFloat32 or VFloat64 (always stored widened)
	Str   string  // valid when Type == VString
}

func BoolValue(b bool) *LiteralValue { return &LiteralValue{Type: VBool, Bool: b} }
func StringValue(s string) *LiteralValue { return &LiteralValue{Type: VString, Str: s} }
func NullValue() *LiteralValue { return &LiteralValue{Type: VNull} }

// IntValue picks the smallest signed representation that fits v, per
// spec §4.2.1 step 6 / §8 boundary behaviors.
func IntValue(v int64) *LiteralValue {
	t := VInt64
	switch {
	case v >= -128 && v <= 127:
		t = VInt8
	case v >= -32768 && v <= 32767:
		t = VInt16
	case v >= -2147483648 && v <= 2147483647:
		t = VInt32
	}
	return &LiteralValue{Type: t, Int: v}
}

// UintValue picks the smallest unsigned representation that fits v.
func UintValue(v uint64) *LiteralValue {
	t := VUint64
	switch {
	case v <= 255:
		t = VUint8
	case v <= 65535:
		t = VUint16
	case v <= 4294967295:
		t = VUint32
	}
	return &LiteralValue{Type: t, Uint: v}
}

// FloatValue picks FLOAT32 iff the round trip through 32 bits is exact,
// else FLOAT64 (spec §4.2.1 step 6 / §8 boundary behaviors).
func FloatValue(v float64) *LiteralValue {
	if float64(float32(v)) == v {
		return &LiteralValue{Type: VFloat32, Float: v}
	}
	return &LiteralValue{Type: VFloat64, Float: v}
}
