// Package compactast implements the CompactAST wire format: a portable,
// endian-defined, string-deduplicated binary serialization of an AST,
// specified so a host encoder and an embedded decoder produce and consume
// byte-identical trees (spec §4.2, §6.1).
//
// DESIGN CHOICE: this package only knows about the generic Node shape
// (type tag, flags, optional value, ordered children) from package ast —
// it never imports the interpreter. The codec is a pure function of the
// tree; it has no execution semantics of its own.
//
// Nothing here reaches for a third-party binary-serialization library
// (protobuf, msgpack, flatbuffers, ...). The wire format is fully
// specified byte-for-byte by §6.1 — picking a general-purpose codec would
// fight the spec's own framing (fixed header, explicit string table,
// smallest-fitting integer widths, 4-byte alignment) rather than implement
// it. `encoding/binary` is the idiomatic standard-library tool for
// exactly this kind of fixed, hand-specified layout, and is what every
// comparable byte-exact wire format in the Go ecosystem reaches for.
package compactast

import "github.com/hassan/astinterp/internal/ast"

// Magic is the CompactAST file magic. Encoded little-endian, its on-disk
// bytes are 0x50 0x54 0x53 0x41; its numeric value spells the ASCII
// "ASTP" when the value's bytes are read most-significant first (spec
// §4.2.1 step 7, §6.1).
const Magic uint32 = 0x41535450

// Version is the wire format version this package reads and writes.
const Version uint16 = 0x0100

// HeaderSize is the fixed 16-byte header size (spec §6.1).
const HeaderSize = 16

// Flags bit positions within a node block's flags byte.
const (
	FlagHasChildren = ast.Flags(1 << 0)
	FlagHasValue    = ast.Flags(1 << 1)
)

// structuralParents are the node types the decoder assigns children into
// canonical named slots for, rather than leaving them as an undifferentiated
// generic list (spec §4.2.2 "Linking").
var structuralParents = map[ast.NodeType]bool{
	ast.Program: true, ast.FuncDef: true, ast.FuncDecl: true, ast.VarDecl: true,
	ast.ExpressionStmt: true, ast.FuncCall: true, ast.Ternary: true,
	ast.MemberAccess: true, ast.IfStmt: true, ast.WhileStmt: true,
	ast.DoWhileStmt: true, ast.ForStmt: true, ast.RangeForStmt: true,
	ast.SwitchStmt: true, ast.CaseStmt: true, ast.CompoundStmt: true,
	ast.ReturnStmt: true, ast.BinaryOp: true, ast.UnaryOp: true,
	ast.Assignment: true, ast.ArrayAccess: true, ast.ConstructorCall: true,
	ast.PostfixOp: true, ast.Comma: true, ast.ArrayInit: true,
	ast.StructDecl: true, ast.TypedefDecl: true, ast.DeclaratorTag: true, ast.ParamTag: true,
	ast.FunctionPointerDeclaratorTag: true, ast.ArrayDeclaratorTag: true,
	ast.PointerDeclaratorTag: true,
}

func align4(n int) int { return (n + 3) &^ 3 }
