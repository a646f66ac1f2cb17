package ast

// TypeNode names a type by its source spelling ("int", "float", "String",
// a struct name, ...). Array/pointer qualification is expressed by
// wrapping in ArrayDeclaratorNode / PointerDeclaratorNode rather than by
// fields here, keeping this node a pure leaf.
type TypeNode struct {
	BaseNode
	ownership
	Name string
}

func NewType(name string) *TypeNode {
	return &TypeNode{BaseNode: newBase(TypeTag, StringValue(name), false), Name: name}
}

func (n *TypeNode) Children() []Node                      { return nil }
func (n *TypeNode) Accept(v Visitor) (interface{}, error) { return v.VisitType(n) }

// ParamNode is a function parameter or struct field: a name paired with a
// declared type.
type ParamNode struct {
	BaseNode
	ownership
	Name     string
	ParamType *TypeNode
}

func NewParam(name string, paramType *TypeNode) *ParamNode {
	return &ParamNode{BaseNode: newBase(ParamTag, StringValue(name), paramType != nil), Name: name, ParamType: paramType}
}

func (n *ParamNode) Children() []Node {
	if n.ParamType == nil {
		return nil
	}
	return []Node{n.ParamType}
}
func (n *ParamNode) Accept(v Visitor) (interface{}, error) { return v.VisitParam(n) }

// StructTypeNode references a struct type by name at a use site (as
// opposed to StructDeclNode, which introduces the name).
type StructTypeNode struct {
	BaseNode
	ownership
	Name string
}

func NewStructType(name string) *StructTypeNode {
	return &StructTypeNode{BaseNode: newBase(StructTypeTag, StringValue(name), false), Name: name}
}

func (n *StructTypeNode) Children() []Node                      { return nil }
func (n *StructTypeNode) Accept(v Visitor) (interface{}, error) { return v.VisitStructType(n) }

// FunctionPointerDeclaratorNode declares a variable of function-pointer
// type: `ReturnType (*Name)(ParamTypes...)`.
type FunctionPointerDeclaratorNode struct {
	BaseNode
	ownership
	Name       string
	ReturnType *TypeNode
	ParamTypes []*TypeNode
}

func NewFunctionPointerDeclarator(name string, returnType *TypeNode, paramTypes []*TypeNode) *FunctionPointerDeclaratorNode {
	return &FunctionPointerDeclaratorNode{
		BaseNode:   newBase(FunctionPointerDeclaratorTag, StringValue(name), true),
		Name:       name,
		ReturnType: returnType,
		ParamTypes: paramTypes,
	}
}

func (n *FunctionPointerDeclaratorNode) Children() []Node {
	children := make([]Node, 0, 1+len(n.ParamTypes))
	if n.ReturnType != nil {
		children = append(children, n.ReturnType)
	}
	for _, p := range n.ParamTypes {
		children = append(children, p)
	}
	return children
}
func (n *FunctionPointerDeclaratorNode) Accept(v Visitor) (interface{}, error) {
	return v.VisitFunctionPointerDeclarator(n)
}

// ArrayDeclaratorNode declares a fixed- or unbound-size array: `Type
// name[Size]`. Size is nil for an unbound array (`int xs[]`).
type ArrayDeclaratorNode struct {
	BaseNode
	ownership
	Name        string
	ElementType *TypeNode
	Size        Node
}

func NewArrayDeclarator(name string, elementType *TypeNode, size Node) *ArrayDeclaratorNode {
	return &ArrayDeclaratorNode{
		BaseNode:    newBase(ArrayDeclaratorTag, StringValue(name), true),
		Name:        name,
		ElementType: elementType,
		Size:        size,
	}
}

func (n *ArrayDeclaratorNode) Children() []Node {
	children := make([]Node, 0, 2)
	if n.ElementType != nil {
		children = append(children, n.ElementType)
	}
	return compactChildren(append(children, n.Size)...)
}
func (n *ArrayDeclaratorNode) Accept(v Visitor) (interface{}, error) {
	return v.VisitArrayDeclarator(n)
}

// PointerDeclaratorNode declares a pointer: `Type *name`.
type PointerDeclaratorNode struct {
	BaseNode
	ownership
	Name        string
	PointeeType *TypeNode
}

func NewPointerDeclarator(name string, pointeeType *TypeNode) *PointerDeclaratorNode {
	return &PointerDeclaratorNode{BaseNode: newBase(PointerDeclaratorTag, StringValue(name), pointeeType != nil), Name: name, PointeeType: pointeeType}
}

func (n *PointerDeclaratorNode) Children() []Node {
	if n.PointeeType == nil {
		return nil
	}
	return []Node{n.PointeeType}
}
func (n *PointerDeclaratorNode) Accept(v Visitor) (interface{}, error) {
	return v.VisitPointerDeclarator(n)
}
