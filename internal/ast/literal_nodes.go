package ast

// NumberNode, StringNode, CharNode, IdentifierNode, and ConstantNode are
// the leaf literal variants that require a value (§3.1: "Number/String/
// Char/Identifier/Constant require a value").

type NumberNode struct {
	BaseNode
	ownership
}

func NewNumber(v *LiteralValue) *NumberNode {
	return &NumberNode{BaseNode: newBase(Number, v, false)}
}

func (n *NumberNode) Children() []Node                      { return nil }
func (n *NumberNode) Accept(v Visitor) (interface{}, error) { return v.VisitNumber(n) }

type StringNode struct {
	BaseNode
	ownership
}

func NewStringNode(s string) *StringNode {
	return &StringNode{BaseNode: newBase(StringLit, StringValue(s), false)}
}

func (n *StringNode) Children() []Node                      { return nil }
func (n *StringNode) Accept(v Visitor) (interface{}, error) { return v.VisitString(n) }

type CharNode struct {
	BaseNode
	ownership
}

func NewChar(c byte) *CharNode {
	return &CharNode{BaseNode: newBase(CharLit, &LiteralValue{Type: VUint8, Uint: uint64(c)}, false)}
}

func (n *CharNode) Children() []Node                      { return nil }
func (n *CharNode) Accept(v Visitor) (interface{}, error) { return v.VisitChar(n) }

// IdentifierNode names a variable, function, or type. Its LiteralValue
// stores the name as a VString so the codec interns it like any other
// string, rather than every node type needing a bespoke "Name" wire field.
type IdentifierNode struct {
	BaseNode
	ownership
	Name string
}

func NewIdentifier(name string) *IdentifierNode {
	return &IdentifierNode{BaseNode: newBase(Identifier, StringValue(name), false), Name: name}
}

func (n *IdentifierNode) Children() []Node                      { return nil }
func (n *IdentifierNode) Accept(v Visitor) (interface{}, error) { return v.VisitIdentifier(n) }

// ConstantNode names a built-in symbolic constant (HIGH, LOW, INPUT,
// OUTPUT, A0, ...) that resolves to a fixed value the interpreter knows
// without a scope lookup.
type ConstantNode struct {
	BaseNode
	ownership
	Name string
}

func NewConstant(name string) *ConstantNode {
	return &ConstantNode{BaseNode: newBase(Constant, StringValue(name), false), Name: name}
}

func (n *ConstantNode) Children() []Node                      { return nil }
func (n *ConstantNode) Accept(v Visitor) (interface{}, error) { return v.VisitConstant(n) }

// ArrayInitNode is an `{a, b, c}` array initializer.
type ArrayInitNode struct {
	BaseNode
	ownership
	Elements []Node
}

func NewArrayInit(elements []Node) *ArrayInitNode {
	return &ArrayInitNode{BaseNode: newBase(ArrayInit, nil, len(elements) > 0), Elements: elements}
}

func (n *ArrayInitNode) Children() []Node                      { return n.Elements }
func (n *ArrayInitNode) Accept(v Visitor) (interface{}, error) { return v.VisitArrayInit(n) }
