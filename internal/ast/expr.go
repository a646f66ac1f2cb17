package ast

// BinaryOpNode covers arithmetic, relational, logical, and bitwise
// infix operators. Operator is the source spelling ("+", "==", "&&", ...);
// the interpreter's evaluator is what gives it C-promotion semantics
// (spec §4.3.3).
type BinaryOpNode struct {
	BaseNode
	ownership
	Operator string
	Left     Node
	Right    Node
}

func NewBinaryOp(op string, left, right Node) *BinaryOpNode {
	return &BinaryOpNode{BaseNode: newBase(BinaryOp, StringValue(op), true), Operator: op, Left: left, Right: right}
}

func (n *BinaryOpNode) Children() []Node                      { return compactChildren(n.Left, n.Right) }
func (n *BinaryOpNode) Accept(v Visitor) (interface{}, error) { return v.VisitBinaryOp(n) }

// UnaryOpNode covers prefix unary operators (-x, !x, ~x, ++x, --x).
type UnaryOpNode struct {
	BaseNode
	ownership
	Operator string
	Operand  Node
}

func NewUnaryOp(op string, operand Node) *UnaryOpNode {
	return &UnaryOpNode{BaseNode: newBase(UnaryOp, StringValue(op), true), Operator: op, Operand: operand}
}

func (n *UnaryOpNode) Children() []Node                      { return compactChildren(n.Operand) }
func (n *UnaryOpNode) Accept(v Visitor) (interface{}, error) { return v.VisitUnaryOp(n) }

// AssignmentNode covers `=` and the compound forms (`+=`, `-=`, ...). Spec
// §4.3.3: `a op= b` is `a = a op b` with `a` evaluated once for address
// purposes — the evaluator, not this node, is responsible for that
// once-only-lvalue-evaluation rule.
type AssignmentNode struct {
	BaseNode
	ownership
	Operator string // "=", "+=", "-=", ...
	Target   Node   // identifier, array access, or member access (an lvalue)
	RHS      Node
}

func NewAssignment(op string, target, value Node) *AssignmentNode {
	return &AssignmentNode{BaseNode: newBase(Assignment, StringValue(op), true), Operator: op, Target: target, RHS: value}
}

func (n *AssignmentNode) Children() []Node { return compactChildren(n.Target, n.RHS) }
func (n *AssignmentNode) Accept(v Visitor) (interface{}, error) { return v.VisitAssignment(n) }

// FuncCallNode: named-slot order is callee followed by arguments (§3.1).
type FuncCallNode struct {
	BaseNode
	ownership
	Callee Node
	Args   []Node
}

func NewFuncCall(callee Node, args []Node) *FuncCallNode {
	return &FuncCallNode{BaseNode: newBase(FuncCall, nil, true), Callee: callee, Args: args}
}

func (n *FuncCallNode) Children() []Node {
	children := make([]Node, 0, 1+len(n.Args))
	if n.Callee != nil {
		children = append(children, n.Callee)
	}
	children = append(children, n.Args...)
	return children
}
func (n *FuncCallNode) Accept(v Visitor) (interface{}, error) { return v.VisitFuncCallExpr(n) }

// ConstructorCallNode represents `TypeName(args...)` construction of a
// struct or library object (e.g. `Servo()`).
type ConstructorCallNode struct {
	BaseNode
	ownership
	TypeName string
	Args     []Node
}

func NewConstructorCall(typeName string, args []Node) *ConstructorCallNode {
	return &ConstructorCallNode{BaseNode: newBase(ConstructorCall, StringValue(typeName), len(args) > 0), TypeName: typeName, Args: args}
}

func (n *ConstructorCallNode) Children() []Node { return n.Args }
func (n *ConstructorCallNode) Accept(v Visitor) (interface{}, error) {
	return v.VisitConstructorCall(n)
}

// MemberAccessNode: named-slot order is object, property (§3.1), covering
// both `.` and `->` in the source language.
type MemberAccessNode struct {
	BaseNode
	ownership
	Object   Node
	Property string
	Arrow    bool // true for `->`, false for `.`
}

func NewMemberAccess(object Node, property string, arrow bool) *MemberAccessNode {
	base := newBase(MemberAccess, StringValue(property), true)
	if arrow {
		base.NFlag |= ExtraFlag
	}
	return &MemberAccessNode{BaseNode: base, Object: object, Property: property, Arrow: arrow}
}

func (n *MemberAccessNode) Children() []Node { return compactChildren(n.Object) }
func (n *MemberAccessNode) Accept(v Visitor) (interface{}, error) {
	return v.VisitMemberAccess(n)
}

// ArrayAccessNode represents `array[index]`.
type ArrayAccessNode struct {
	BaseNode
	ownership
	Array Node
	Index Node
}

func NewArrayAccess(array, index Node) *ArrayAccessNode {
	return &ArrayAccessNode{BaseNode: newBase(ArrayAccess, nil, true), Array: array, Index: index}
}

func (n *ArrayAccessNode) Children() []Node { return compactChildren(n.Array, n.Index) }
func (n *ArrayAccessNode) Accept(v Visitor) (interface{}, error) {
	return v.VisitArrayAccess(n)
}

// TernaryNode: named-slot order is condition, true-expr, false-expr (§3.1).
type TernaryNode struct {
	BaseNode
	ownership
	Condition Node
	Then      Node
	Else      Node
}

func NewTernary(cond, then, els Node) *TernaryNode {
	return &TernaryNode{BaseNode: newBase(Ternary, nil, true), Condition: cond, Then: then, Else: els}
}

func (n *TernaryNode) Children() []Node { return compactChildren(n.Condition, n.Then, n.Else) }
func (n *TernaryNode) Accept(v Visitor) (interface{}, error) { return v.VisitTernary(n) }

// PostfixNode covers `x++` / `x--`, distinct from UnaryOpNode's prefix
// forms because the value produced differs (the pre-increment value).
type PostfixNode struct {
	BaseNode
	ownership
	Operator string
	Operand  Node
}

func NewPostfix(op string, operand Node) *PostfixNode {
	return &PostfixNode{BaseNode: newBase(PostfixOp, StringValue(op), true), Operator: op, Operand: operand}
}

func (n *PostfixNode) Children() []Node                      { return compactChildren(n.Operand) }
func (n *PostfixNode) Accept(v Visitor) (interface{}, error) { return v.VisitPostfix(n) }

// CommaNode is the C comma operator: evaluate every expression, yield the
// last one's value.
type CommaNode struct {
	BaseNode
	ownership
	Exprs []Node
}

func NewComma(exprs []Node) *CommaNode {
	return &CommaNode{BaseNode: newBase(Comma, nil, len(exprs) > 0), Exprs: exprs}
}

func (n *CommaNode) Children() []Node                      { return n.Exprs }
func (n *CommaNode) Accept(v Visitor) (interface{}, error) { return v.VisitComma(n) }
