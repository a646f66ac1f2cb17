package ast

// Visitor is the interface for AST traversal (§4.1's "visitor/dispatch
// mechanism routes by type tag to a type-specific handler").
//
// THE VISITOR PATTERN:
// Instead of giving every node an Evaluate()/Optimize()/Print() method, we
// have one Accept() per node that takes a Visitor. Different visitors
// implement different operations (the interpreter's evaluator is one;
// a debug printer or the CompactAST encoder's child-enumeration walk are
// others, though those only need Children()/Type()/Value() and don't
// implement this interface at all).
//
// DESIGN CHOICE: every method returns (interface{}, error) uniformly,
// including for statements, rather than splitting into an Expr-returning
// and a Stmt-returning family. Spec §4.3.3 says "evaluating a node returns
// a Value (void for statements)" — so statements really do produce a
// value (the void value) in this model, and a uniform signature lets the
// interpreter treat control-flow signals (§4.3.3's control intent) as
// just another shape of that returned value without a second dispatch
// table.
type Visitor interface {
	VisitProgram(n *ProgramNode) (interface{}, error)
	VisitError(n *ErrorNode) (interface{}, error)
	VisitComment(n *CommentNode) (interface{}, error)

	VisitCompound(n *CompoundNode) (interface{}, error)
	VisitExpressionStmt(n *ExpressionStmtNode) (interface{}, error)
	VisitIf(n *IfNode) (interface{}, error)
	VisitWhile(n *WhileNode) (interface{}, error)
	VisitDoWhile(n *DoWhileNode) (interface{}, error)
	VisitFor(n *ForNode) (interface{}, error)
	VisitRangeFor(n *RangeForNode) (interface{}, error)
	VisitSwitch(n *SwitchNode) (interface{}, error)
	VisitCase(n *CaseNode) (interface{}, error)
	VisitReturn(n *ReturnNode) (interface{}, error)
	VisitBreak(n *BreakNode) (interface{}, error)
	VisitContinue(n *ContinueNode) (interface{}, error)
	VisitEmpty(n *EmptyNode) (interface{}, error)

	VisitVarDecl(n *VarDeclNode) (interface{}, error)
	VisitFuncDef(n *FuncDefNode) (interface{}, error)
	VisitFuncDecl(n *FuncDeclNode) (interface{}, error)
	VisitStructDecl(n *StructDeclNode) (interface{}, error)
	VisitTypedefDecl(n *TypedefDeclNode) (interface{}, error)

	VisitBinaryOp(n *BinaryOpNode) (interface{}, error)
	VisitUnaryOp(n *UnaryOpNode) (interface{}, error)
	VisitAssignment(n *AssignmentNode) (interface{}, error)
	VisitFuncCallExpr(n *FuncCallNode) (interface{}, error)
	VisitConstructorCall(n *ConstructorCallNode) (interface{}, error)
	VisitMemberAccess(n *MemberAccessNode) (interface{}, error)
	VisitArrayAccess(n *ArrayAccessNode) (interface{}, error)
	VisitTernary(n *TernaryNode) (interface{}, error)
	VisitPostfix(n *PostfixNode) (interface{}, error)
	VisitComma(n *CommaNode) (interface{}, error)

	VisitNumber(n *NumberNode) (interface{}, error)
	VisitString(n *StringNode) (interface{}, error)
	VisitChar(n *CharNode) (interface{}, error)
	VisitIdentifier(n *IdentifierNode) (interface{}, error)
	VisitConstant(n *ConstantNode) (interface{}, error)
	VisitArrayInit(n *ArrayInitNode) (interface{}, error)

	VisitType(n *TypeNode) (interface{}, error)
	VisitDeclarator(n *DeclaratorNode) (interface{}, error)
	VisitParam(n *ParamNode) (interface{}, error)
	VisitStructType(n *StructTypeNode) (interface{}, error)
	VisitFunctionPointerDeclarator(n *FunctionPointerDeclaratorNode) (interface{}, error)
	VisitArrayDeclarator(n *ArrayDeclaratorNode) (interface{}, error)
	VisitPointerDeclarator(n *PointerDeclaratorNode) (interface{}, error)
}

// compactChildren filters out unset optional slots (e.g. an If with no
// Alternate) so Children() never returns a nil entry into the ordered
// list the codec and generic walkers rely on. Optional slots are declared
// with the Node interface type (not a concrete pointer type), so an unset
// slot is a true interface nil rather than a typed-nil pitfall.
func compactChildren(nodes ...Node) []Node {
	out := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		if n == nil {
			continue
		}
		out = append(out, n)
	}
	return out
}
