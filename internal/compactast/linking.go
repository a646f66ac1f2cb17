package compactast

import (
	"fmt"

	"github.com/hassan/astinterp/internal/ast"
)

// link reconstructs typed nodes from the generic node table, one node at a
// time, in descending index order with the root (index 0) built last.
// collectNodes's pre-order walk guarantees every child index is strictly
// greater than its parent's, so by the time a parent at index i is linked,
// everything it references by child index has already been built (spec
// §4.2.2's "highest index first, root last" requirement).
func link(nodes []rawNode) (ast.Node, error) {
	if len(nodes) == 0 {
		return nil, ErrTruncatedBuffer
	}
	resolved := make(map[uint16]ast.Node, len(nodes))

	build := func(i uint16) error {
		raw := nodes[i]
		children, err := resolveChildren(raw.children, resolved, uint16(len(nodes)))
		if err != nil {
			return err
		}
		n, err := linkOne(raw, children)
		if err != nil {
			return err
		}
		resolved[i] = n
		return nil
	}

	for i := len(nodes) - 1; i >= 1; i-- {
		if err := build(uint16(i)); err != nil {
			return nil, err
		}
	}
	if err := build(0); err != nil {
		return nil, err
	}
	return resolved[0], nil
}

func resolveChildren(indices []uint16, resolved map[uint16]ast.Node, count uint16) ([]ast.Node, error) {
	if len(indices) == 0 {
		return nil, nil
	}
	out := make([]ast.Node, 0, len(indices))
	for _, idx := range indices {
		if idx == 0 {
			return nil, ErrRootUsedAsChild
		}
		if idx >= count {
			return nil, ErrChildIndexOutOfRange
		}
		child, ok := resolved[idx]
		if !ok {
			return nil, ErrChildIndexOutOfRange
		}
		out = append(out, child)
	}
	return out, nil
}

// slotOrNil is the decode-side inverse of the ast package's slotOrEmpty: an
// EmptyNode placeholder found in one of ForNode's three optional slots, or
// in CaseNode's match slot, folds back to a true nil rather than surviving
// as a literal empty statement — otherwise CaseNode.IsDefault() would never
// see a decoded default case as default.
func slotOrNil(n ast.Node) ast.Node {
	if n == nil {
		return nil
	}
	if _, ok := n.(*ast.EmptyNode); ok {
		return nil
	}
	return n
}

func valueStr(v *ast.LiteralValue) string {
	if v == nil {
		return ""
	}
	return v.Str
}

// linkOne reconstructs one typed node from its raw wire shape. Every
// non-leaf node type here is in structuralParents (format.go); the slot
// reconstruction is type-directed wherever possible — e.g. FuncDef's name,
// return type, and parameters are each a distinct concrete Go type, so
// there's no positional ambiguity to resolve — falling back to fixed
// child counts where the slots are themselves arbitrary expressions.
func linkOne(raw rawNode, children []ast.Node) (ast.Node, error) {
	switch raw.typ {
	case ast.Program:
		return ast.NewProgram(children), nil
	case ast.Error:
		return ast.NewError(valueStr(raw.value)), nil
	case ast.Comment:
		return ast.NewComment(valueStr(raw.value), raw.flags&ast.ExtraFlag != 0), nil

	case ast.CompoundStmt:
		return ast.NewCompound(children), nil
	case ast.ExpressionStmt:
		var expr ast.Node
		if len(children) > 0 {
			expr = children[0]
		}
		return ast.NewExpressionStmt(expr), nil
	case ast.IfStmt:
		var cond, cons, alt ast.Node
		switch len(children) {
		case 3:
			cond, cons, alt = children[0], children[1], children[2]
		case 2:
			cond, cons = children[0], children[1]
		default:
			return nil, fmt.Errorf("compactast: IfStmt expects 2 or 3 children, got %d", len(children))
		}
		return ast.NewIf(cond, cons, alt), nil
	case ast.WhileStmt:
		if len(children) != 2 {
			return nil, fmt.Errorf("compactast: WhileStmt expects 2 children, got %d", len(children))
		}
		return ast.NewWhile(children[0], children[1]), nil
	case ast.DoWhileStmt:
		if len(children) != 2 {
			return nil, fmt.Errorf("compactast: DoWhileStmt expects 2 children, got %d", len(children))
		}
		return ast.NewDoWhile(children[0], children[1]), nil
	case ast.ForStmt:
		if len(children) != 4 {
			return nil, fmt.Errorf("compactast: ForStmt expects 4 children, got %d", len(children))
		}
		return ast.NewFor(slotOrNil(children[0]), slotOrNil(children[1]), slotOrNil(children[2]), children[3]), nil
	case ast.RangeForStmt:
		var varName *ast.IdentifierNode
		var iterable, body ast.Node
		switch len(children) {
		case 3:
			id, ok := children[0].(*ast.IdentifierNode)
			if !ok {
				return nil, fmt.Errorf("compactast: RangeForStmt's variable slot is not an identifier")
			}
			varName, iterable, body = id, children[1], children[2]
		case 2:
			iterable, body = children[0], children[1]
		default:
			return nil, fmt.Errorf("compactast: RangeForStmt expects 2 or 3 children, got %d", len(children))
		}
		return ast.NewRangeFor(varName, iterable, body), nil
	case ast.SwitchStmt:
		var disc ast.Node
		rest := children
		if len(rest) > 0 {
			if _, ok := rest[0].(*ast.CaseNode); !ok {
				disc, rest = rest[0], rest[1:]
			}
		}
		cases := make([]*ast.CaseNode, 0, len(rest))
		for _, c := range rest {
			cn, ok := c.(*ast.CaseNode)
			if !ok {
				return nil, fmt.Errorf("compactast: SwitchStmt expects CaseStmt children after the discriminant")
			}
			cases = append(cases, cn)
		}
		return ast.NewSwitch(disc, cases), nil
	case ast.CaseStmt:
		if len(children) == 0 {
			return nil, fmt.Errorf("compactast: CaseStmt expects at least a match/placeholder child")
		}
		return ast.NewCase(slotOrNil(children[0]), children[1:]), nil
	case ast.ReturnStmt:
		var result ast.Node
		if len(children) > 0 {
			result = children[0]
		}
		return ast.NewReturn(result), nil
	case ast.BreakStmt:
		return ast.NewBreak(), nil
	case ast.ContinueStmt:
		return ast.NewContinue(), nil
	case ast.EmptyStmt:
		return ast.NewEmpty(), nil

	case ast.VarDecl:
		if len(children) == 0 {
			return nil, fmt.Errorf("compactast: VarDecl expects at least a type child")
		}
		varType, ok := children[0].(*ast.TypeNode)
		if !ok {
			return nil, fmt.Errorf("compactast: VarDecl's first child must be a type")
		}
		declarators := make([]*ast.DeclaratorNode, 0, len(children)-1)
		for _, c := range children[1:] {
			d, ok := c.(*ast.DeclaratorNode)
			if !ok {
				return nil, fmt.Errorf("compactast: VarDecl's remaining children must be declarators")
			}
			declarators = append(declarators, d)
		}
		return ast.NewVarDecl(varType, declarators), nil
	case ast.FuncDef:
		name, returnType, params, rest := splitFuncShape(children)
		var body *ast.CompoundNode
		if len(rest) > 0 {
			b, ok := rest[0].(*ast.CompoundNode)
			if !ok {
				return nil, fmt.Errorf("compactast: FuncDef's body slot is not a compound statement")
			}
			body = b
		}
		return ast.NewFuncDef(name, returnType, params, body), nil
	case ast.FuncDecl:
		name, returnType, params, _ := splitFuncShape(children)
		return ast.NewFuncDecl(name, returnType, params), nil
	case ast.StructDecl:
		var name *ast.IdentifierNode
		rest := children
		if len(rest) > 0 {
			if id, ok := rest[0].(*ast.IdentifierNode); ok {
				name, rest = id, rest[1:]
			}
		}
		fields := make([]*ast.ParamNode, 0, len(rest))
		for _, c := range rest {
			p, ok := c.(*ast.ParamNode)
			if !ok {
				return nil, fmt.Errorf("compactast: StructDecl expects Param children for its fields")
			}
			fields = append(fields, p)
		}
		return ast.NewStructDecl(name, fields), nil
	case ast.TypedefDecl:
		var name *ast.IdentifierNode
		var underlying *ast.TypeNode
		for _, c := range children {
			switch v := c.(type) {
			case *ast.IdentifierNode:
				name = v
			case *ast.TypeNode:
				underlying = v
			}
		}
		return ast.NewTypedefDecl(name, underlying), nil

	case ast.BinaryOp:
		if len(children) != 2 {
			return nil, fmt.Errorf("compactast: BinaryOp expects 2 children, got %d", len(children))
		}
		return ast.NewBinaryOp(valueStr(raw.value), children[0], children[1]), nil
	case ast.UnaryOp:
		if len(children) != 1 {
			return nil, fmt.Errorf("compactast: UnaryOp expects 1 child, got %d", len(children))
		}
		return ast.NewUnaryOp(valueStr(raw.value), children[0]), nil
	case ast.Assignment:
		if len(children) != 2 {
			return nil, fmt.Errorf("compactast: Assignment expects 2 children, got %d", len(children))
		}
		return ast.NewAssignment(valueStr(raw.value), children[0], children[1]), nil
	case ast.FuncCall:
		if len(children) == 0 {
			return nil, fmt.Errorf("compactast: FuncCall expects a callee child")
		}
		return ast.NewFuncCall(children[0], children[1:]), nil
	case ast.ConstructorCall:
		return ast.NewConstructorCall(valueStr(raw.value), children), nil
	case ast.MemberAccess:
		var object ast.Node
		if len(children) > 0 {
			object = children[0]
		}
		return ast.NewMemberAccess(object, valueStr(raw.value), raw.flags&ast.ExtraFlag != 0), nil
	case ast.ArrayAccess:
		if len(children) != 2 {
			return nil, fmt.Errorf("compactast: ArrayAccess expects 2 children, got %d", len(children))
		}
		return ast.NewArrayAccess(children[0], children[1]), nil
	case ast.Ternary:
		if len(children) != 3 {
			return nil, fmt.Errorf("compactast: Ternary expects 3 children, got %d", len(children))
		}
		return ast.NewTernary(children[0], children[1], children[2]), nil
	case ast.PostfixOp:
		if len(children) != 1 {
			return nil, fmt.Errorf("compactast: PostfixOp expects 1 child, got %d", len(children))
		}
		return ast.NewPostfix(valueStr(raw.value), children[0]), nil
	case ast.Comma:
		return ast.NewComma(children), nil

	case ast.Number:
		return ast.NewNumber(raw.value), nil
	case ast.StringLit:
		return ast.NewStringNode(valueStr(raw.value)), nil
	case ast.CharLit:
		if raw.value == nil {
			return nil, fmt.Errorf("compactast: CharLit is missing its value")
		}
		return ast.NewChar(byte(raw.value.Uint)), nil
	case ast.Identifier:
		return ast.NewIdentifier(valueStr(raw.value)), nil
	case ast.Constant:
		return ast.NewConstant(valueStr(raw.value)), nil
	case ast.ArrayInit:
		return ast.NewArrayInit(children), nil

	case ast.TypeTag:
		return ast.NewType(valueStr(raw.value)), nil
	case ast.DeclaratorTag:
		var init ast.Node
		if len(children) > 0 {
			init = children[0]
		}
		return ast.NewDeclarator(valueStr(raw.value), init), nil
	case ast.ParamTag:
		var paramType *ast.TypeNode
		if len(children) > 0 {
			pt, ok := children[0].(*ast.TypeNode)
			if !ok {
				return nil, fmt.Errorf("compactast: Param's type slot is not a type")
			}
			paramType = pt
		}
		return ast.NewParam(valueStr(raw.value), paramType), nil
	case ast.StructTypeTag:
		return ast.NewStructType(valueStr(raw.value)), nil
	case ast.FunctionPointerDeclaratorTag:
		var returnType *ast.TypeNode
		rest := children
		if len(rest) > 0 {
			if rt, ok := rest[0].(*ast.TypeNode); ok {
				returnType, rest = rt, rest[1:]
			}
		}
		paramTypes := make([]*ast.TypeNode, 0, len(rest))
		for _, c := range rest {
			pt, ok := c.(*ast.TypeNode)
			if !ok {
				return nil, fmt.Errorf("compactast: FunctionPointerDeclarator expects Type children for its parameter types")
			}
			paramTypes = append(paramTypes, pt)
		}
		return ast.NewFunctionPointerDeclarator(valueStr(raw.value), returnType, paramTypes), nil
	case ast.ArrayDeclaratorTag:
		var elementType *ast.TypeNode
		var size ast.Node
		switch len(children) {
		case 2:
			et, ok := children[0].(*ast.TypeNode)
			if !ok {
				return nil, fmt.Errorf("compactast: ArrayDeclarator's first child must be a type when two children are present")
			}
			elementType, size = et, children[1]
		case 1:
			if et, ok := children[0].(*ast.TypeNode); ok {
				elementType = et
			} else {
				size = children[0]
			}
		case 0:
			// bare declarator, both slots empty
		default:
			return nil, fmt.Errorf("compactast: ArrayDeclarator expects 0, 1, or 2 children, got %d", len(children))
		}
		return ast.NewArrayDeclarator(valueStr(raw.value), elementType, size), nil
	case ast.PointerDeclaratorTag:
		var pointeeType *ast.TypeNode
		if len(children) > 0 {
			pt, ok := children[0].(*ast.TypeNode)
			if !ok {
				return nil, fmt.Errorf("compactast: PointerDeclarator's child must be a type")
			}
			pointeeType = pt
		}
		return ast.NewPointerDeclarator(valueStr(raw.value), pointeeType), nil

	default:
		return nil, ErrInvalidNodeType
	}
}

// splitFuncShape extracts FuncDef/FuncDecl's shared prefix shape — an
// optional name, an optional return type, then zero or more parameters —
// by concrete node type rather than position: Identifier, Type, and Param
// nodes are never confusable with one another, so there is no ambiguity
// to resolve even when the name or return type is absent.
func splitFuncShape(children []ast.Node) (name *ast.IdentifierNode, returnType *ast.TypeNode, params []*ast.ParamNode, rest []ast.Node) {
	i := 0
	if i < len(children) {
		if id, ok := children[i].(*ast.IdentifierNode); ok {
			name = id
			i++
		}
	}
	if i < len(children) {
		if rt, ok := children[i].(*ast.TypeNode); ok {
			returnType = rt
			i++
		}
	}
	for i < len(children) {
		p, ok := children[i].(*ast.ParamNode)
		if !ok {
			break
		}
		params = append(params, p)
		i++
	}
	return name, returnType, params, children[i:]
}
