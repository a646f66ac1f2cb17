// Package ast defines the Abstract Syntax Tree node family evaluated by the
// interpreter and serialized by the CompactAST codec.
//
// DESIGN PHILOSOPHY:
// The AST is a closed family of node variants sharing one traversal
// interface. It:
// 1. Is a strict tree — every non-root node has exactly one parent, and a
//    node's children are never shared with another node.
// 2. Exposes both a generic, ordered child list (what the CompactAST codec
//    walks) and type-specific named slots that are projections over that
//    same list (what the interpreter's evaluator reads).
// 3. Supports the visitor pattern for operations, so new passes over the
//    tree (evaluation, pretty-printing, validation) don't require editing
//    every node type.
//
// KEY DESIGN CHOICES (carried over from the compiler this package is
// descended from):
// - Use interfaces for polymorphism, not deep inheritance.
// - Use the visitor pattern for operations (avoids type switches scattered
//   across callers).
// - Construction is by typed factory. Attach checks the single-parent
//   invariant (§3.1) for nodes run through it; the factories themselves do
//   not call Attach, so passing one node to two factories is not detected.
package ast

import "fmt"

// Node is the base interface every AST node variant implements.
//
// DESIGN CHOICE: Node exposes the *generic* shape the wire format cares
// about (type tag, flags, optional literal value, ordered children) even
// though most callers interact with a node's named slots instead. This is
// what lets the CompactAST encoder walk any node without knowing its
// concrete Go type, and what the decoder reconstructs before it knows
// which typed slots to populate.
type Node interface {
	// Type returns this node's tag from the closed node-type enumeration.
	Type() NodeType

	// Flags returns the HAS_CHILDREN / HAS_VALUE bitset for this node.
	Flags() Flags

	// Value returns the node's literal value, or nil if it has none.
	Value() *LiteralValue

	// Children returns this node's children in canonical order. Named
	// slots (e.g. IfNode.Condition) are aliases into this same list, not
	// separate owners.
	Children() []Node

	// Accept implements double dispatch for the visitor pattern.
	Accept(v Visitor) (interface{}, error)
}

// NodeType is the closed, stable numeric tag set from spec §6.1. Values are
// part of the wire format and must never be renumbered.
type NodeType uint8

const (
	Program NodeType = 0x01
	Error   NodeType = 0x02
	Comment NodeType = 0x03

	CompoundStmt NodeType = 0x10
	ExpressionStmt NodeType = 0x11
	IfStmt       NodeType = 0x12
	WhileStmt    NodeType = 0x13
	DoWhileStmt  NodeType = 0x14
	ForStmt      NodeType = 0x15
	RangeForStmt NodeType = 0x16
	SwitchStmt   NodeType = 0x17
	CaseStmt     NodeType = 0x18
	ReturnStmt   NodeType = 0x19
	BreakStmt    NodeType = 0x1A
	ContinueStmt NodeType = 0x1B
	EmptyStmt    NodeType = 0x1C

	VarDecl      NodeType = 0x20
	FuncDef      NodeType = 0x21
	FuncDecl     NodeType = 0x22
	StructDecl   NodeType = 0x23
	TypedefDecl  NodeType = 0x27

	BinaryOp        NodeType = 0x30
	UnaryOp         NodeType = 0x31
	Assignment      NodeType = 0x32
	FuncCall        NodeType = 0x33
	MemberAccess    NodeType = 0x34
	ArrayAccess     NodeType = 0x35
	ConstructorCall NodeType = 0x36
	PostfixOp       NodeType = 0x37
	Ternary         NodeType = 0x38
	Comma           NodeType = 0x39

	Number     NodeType = 0x40
	StringLit  NodeType = 0x41
	CharLit    NodeType = 0x42
	Identifier NodeType = 0x43
	Constant   NodeType = 0x44
	ArrayInit  NodeType = 0x45

	TypeTag                     NodeType = 0x50
	DeclaratorTag               NodeType = 0x51
	ParamTag                    NodeType = 0x52
	StructTypeTag               NodeType = 0x53
	FunctionPointerDeclaratorTag NodeType = 0x54
	ArrayDeclaratorTag          NodeType = 0x55
	PointerDeclaratorTag        NodeType = 0x56
)

// String renders the node type for diagnostics and the decoder's
// "unknown node type" error path.
func (t NodeType) String() string {
	if s, ok := nodeTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("NodeType(0x%02X)", uint8(t))
}

var nodeTypeNames = map[NodeType]string{
	Program: "Program", Error: "Error", Comment: "Comment",
	CompoundStmt: "CompoundStmt", ExpressionStmt: "ExpressionStmt", IfStmt: "IfStmt",
	WhileStmt: "WhileStmt", DoWhileStmt: "DoWhileStmt", ForStmt: "ForStmt",
	RangeForStmt: "RangeForStmt", SwitchStmt: "SwitchStmt", CaseStmt: "CaseStmt",
	ReturnStmt: "ReturnStmt", BreakStmt: "BreakStmt", ContinueStmt: "ContinueStmt",
	EmptyStmt: "EmptyStmt",
	VarDecl: "VarDecl", FuncDef: "FuncDef", FuncDecl: "FuncDecl",
	StructDecl: "StructDecl", TypedefDecl: "TypedefDecl",
	BinaryOp: "BinaryOp", UnaryOp: "UnaryOp", Assignment: "Assignment",
	FuncCall: "FuncCall", MemberAccess: "MemberAccess", ArrayAccess: "ArrayAccess",
	ConstructorCall: "ConstructorCall", PostfixOp: "PostfixOp", Ternary: "Ternary", Comma: "Comma",
	Number: "Number", StringLit: "StringLit", CharLit: "CharLit",
	Identifier: "Identifier", Constant: "Constant", ArrayInit: "ArrayInit",
	TypeTag: "Type", DeclaratorTag: "Declarator", ParamTag: "Param",
	StructTypeTag: "StructType", FunctionPointerDeclaratorTag: "FunctionPointerDeclarator",
	ArrayDeclaratorTag: "ArrayDeclarator", PointerDeclaratorTag: "PointerDeclarator",
}

// Decl marks the node variants that introduce a top-level name (spec
// §3.1's "Declarations" category): VarDecl, FuncDef, FuncDecl, StructDecl,
// TypedefDecl. The interpreter's prelude pass (§4.3.2) type-switches on
// this narrower set rather than walking every ProgramNode child generically.
type Decl interface {
	Node
	declNode()
}

// Flags is the per-node bitset from spec §6.1.
type Flags uint8

const (
	HasChildren Flags = 1 << 0
	HasValue    Flags = 1 << 1

	// ExtraFlag is a reserved bit (§6.1 "other bits reserved") this
	// package repurposes per node type for a single extra boolean that
	// doesn't fit the one-LiteralValue-per-node shape: MemberAccessNode
	// uses it for Arrow (`->` vs `.`), CommentNode for IsBlock. Its
	// meaning is always looked up by NodeType, never shared across types.
	ExtraFlag Flags = 1 << 2
)

// BaseNode provides the bookkeeping every concrete node embeds: its type
// tag, flags, and optional literal value. Concrete node types still
// implement Children() and Accept() themselves, since those are
// shape-specific.
//
// DESIGN CHOICE: embedding rather than requiring every node to restate
// Type()/Flags()/Value() keeps the 40-odd node variants from each
// hand-rolling identical accessors.
type BaseNode struct {
	NType NodeType
	NFlag Flags
	NVal  *LiteralValue
}

func (b *BaseNode) Type() NodeType        { return b.NType }
func (b *BaseNode) Flags() Flags          { return b.NFlag }
func (b *BaseNode) Value() *LiteralValue  { return b.NVal }

func newBase(t NodeType, val *LiteralValue, hasChildren bool) BaseNode {
	var f Flags
	if hasChildren {
		f |= HasChildren
	}
	if val != nil {
		f |= HasValue
	}
	return BaseNode{NType: t, NFlag: f, NVal: val}
}

// Attach validates the single-parent invariant (§3.1, §4.1) before a node
// is accepted as a child. It does not mutate ownership itself — callers
// attach by storing the child in a named field or child slice — and it is
// the one place that invariant is checked. The New* factories in this
// package do not call it; only callers that run a child through Attach get
// the check.
//
// A node that has already been passed to Attach (tracked via the attached
// flag) is rejected on a second call: reusing a subtree would violate the
// tree invariant and make the owner ambiguous.
func Attach(child Node) error {
	if child == nil {
		return nil
	}
	if a, ok := child.(interface{ attached() bool }); ok && a.attached() {
		return fmt.Errorf("ast: node %s already has a parent", child.Type())
	}
	if m, ok := child.(interface{ markAttached() }); ok {
		m.markAttached()
	}
	return nil
}

// ownership is embedded by every node type in this package, leaf literal
// nodes (Number, Identifier, ...) included, so Attach can track whether a
// node has already been handed to a parent.
type ownership struct{ isAttached bool }

func (o *ownership) attached() bool  { return o.isAttached }
func (o *ownership) markAttached()   { o.isAttached = true }
