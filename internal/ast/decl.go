package ast

// VarDeclNode groups one type node with one or more declarators (§3.1).
//
// WIRE NOTE: the CompactAST encoder flattens this grouping (spec §4.2.1
// step 1): it emits VarType, then each Declarator, then lets each
// declarator own its initializer as its own last child. The "Declarators"
// slice here is purely an in-memory convenience; Children() below
// reproduces the flattened wire order directly so the encoder doesn't
// need a VarDecl special case beyond what Children() already gives it.
type VarDeclNode struct {
	BaseNode
	ownership
	VarType     *TypeNode
	Declarators []*DeclaratorNode
}

func NewVarDecl(varType *TypeNode, declarators []*DeclaratorNode) *VarDeclNode {
	return &VarDeclNode{BaseNode: newBase(VarDecl, nil, true), VarType: varType, Declarators: declarators}
}

func (n *VarDeclNode) Children() []Node {
	children := make([]Node, 0, 1+len(n.Declarators))
	if n.VarType != nil {
		children = append(children, n.VarType)
	}
	for _, d := range n.Declarators {
		children = append(children, d)
	}
	return children
}
func (n *VarDeclNode) Accept(v Visitor) (interface{}, error) { return v.VisitVarDecl(n) }
func (n *VarDeclNode) declNode()                             {}

// DeclaratorNode is one `name` or `name = initializer` entry of a
// VarDeclNode. Initializer, when present, is the declarator's last (and
// only) child.
type DeclaratorNode struct {
	BaseNode
	ownership
	Name        string
	Initializer Node
}

func NewDeclarator(name string, init Node) *DeclaratorNode {
	return &DeclaratorNode{BaseNode: newBase(DeclaratorTag, StringValue(name), init != nil), Name: name, Initializer: init}
}

func (n *DeclaratorNode) Children() []Node                      { return compactChildren(n.Initializer) }
func (n *DeclaratorNode) Accept(v Visitor) (interface{}, error) { return v.VisitDeclarator(n) }

// FuncDefNode is a function definition with a body. Arduino programs are
// flat (no closures beyond the single global defining scope, §3.2), so
// Body always runs in a fresh function scope chained directly to global.
type FuncDefNode struct {
	BaseNode
	ownership
	Name       *IdentifierNode
	ReturnType *TypeNode
	Params     []*ParamNode
	Body       *CompoundNode
}

func NewFuncDef(name *IdentifierNode, returnType *TypeNode, params []*ParamNode, body *CompoundNode) *FuncDefNode {
	return &FuncDefNode{BaseNode: newBase(FuncDef, nil, true), Name: name, ReturnType: returnType, Params: params, Body: body}
}

func (n *FuncDefNode) Children() []Node {
	children := make([]Node, 0, 2+len(n.Params))
	if n.Name != nil {
		children = append(children, n.Name)
	}
	if n.ReturnType != nil {
		children = append(children, n.ReturnType)
	}
	for _, p := range n.Params {
		children = append(children, p)
	}
	if n.Body != nil {
		children = append(children, n.Body)
	}
	return children
}
func (n *FuncDefNode) Accept(v Visitor) (interface{}, error) { return v.VisitFuncDef(n) }
func (n *FuncDefNode) declNode()                             {}

// FuncDeclNode is a forward declaration / prototype: a signature without a
// body. The prelude (spec §4.3.2) registers these the same as FuncDef but
// there is nothing to invoke until a matching FuncDef is also registered.
type FuncDeclNode struct {
	BaseNode
	ownership
	Name       *IdentifierNode
	ReturnType *TypeNode
	Params     []*ParamNode
}

func NewFuncDecl(name *IdentifierNode, returnType *TypeNode, params []*ParamNode) *FuncDeclNode {
	return &FuncDeclNode{BaseNode: newBase(FuncDecl, nil, true), Name: name, ReturnType: returnType, Params: params}
}

func (n *FuncDeclNode) Children() []Node {
	children := make([]Node, 0, 2+len(n.Params))
	if n.Name != nil {
		children = append(children, n.Name)
	}
	if n.ReturnType != nil {
		children = append(children, n.ReturnType)
	}
	for _, p := range n.Params {
		children = append(children, p)
	}
	return children
}
func (n *FuncDeclNode) Accept(v Visitor) (interface{}, error) { return v.VisitFuncDecl(n) }
func (n *FuncDeclNode) declNode()                             {}

// StructDeclNode declares a named struct type with its fields.
type StructDeclNode struct {
	BaseNode
	ownership
	Name   *IdentifierNode
	Fields []*ParamNode // field name + declared type, reusing ParamNode's shape
}

func NewStructDecl(name *IdentifierNode, fields []*ParamNode) *StructDeclNode {
	return &StructDeclNode{BaseNode: newBase(StructDecl, nil, true), Name: name, Fields: fields}
}

func (n *StructDeclNode) Children() []Node {
	children := make([]Node, 0, 1+len(n.Fields))
	if n.Name != nil {
		children = append(children, n.Name)
	}
	for _, f := range n.Fields {
		children = append(children, f)
	}
	return children
}
func (n *StructDeclNode) Accept(v Visitor) (interface{}, error) { return v.VisitStructDecl(n) }
func (n *StructDeclNode) declNode()                              {}

// TypedefDeclNode aliases a name to an existing type.
type TypedefDeclNode struct {
	BaseNode
	ownership
	Name       *IdentifierNode
	Underlying *TypeNode
}

func NewTypedefDecl(name *IdentifierNode, underlying *TypeNode) *TypedefDeclNode {
	return &TypedefDeclNode{BaseNode: newBase(TypedefDecl, nil, true), Name: name, Underlying: underlying}
}

func (n *TypedefDeclNode) Children() []Node {
	children := make([]Node, 0, 2)
	if n.Name != nil {
		children = append(children, n.Name)
	}
	if n.Underlying != nil {
		children = append(children, n.Underlying)
	}
	return children
}
func (n *TypedefDeclNode) Accept(v Visitor) (interface{}, error) { return v.VisitTypedefDecl(n) }
func (n *TypedefDeclNode) declNode()                              {}
