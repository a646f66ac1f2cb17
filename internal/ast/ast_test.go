package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttach_SameNodeTwiceIsRejected(t *testing.T) {
	id := NewIdentifier("x")
	require.NoError(t, Attach(id))
	err := Attach(id)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already has a parent")
}

func TestAttach_NilIsANoOp(t *testing.T) {
	assert.NoError(t, Attach(nil))
}

func TestAttach_DistinctLeafInstancesEachSucceed(t *testing.T) {
	// NumberNode embeds ownership too, but distinct instances never collide.
	assert.NoError(t, Attach(NewNumber(IntValue(1))))
	assert.NoError(t, Attach(NewNumber(IntValue(1))))
}

func TestNodeType_StringRendersKnownAndUnknownTags(t *testing.T) {
	assert.Equal(t, "Program", Program.String())
	assert.Equal(t, "FuncDef", FuncDef.String())
	assert.Equal(t, "NodeType(0xFF)", NodeType(0xFF).String())
}

func TestNewCompound_FlagsReflectEmptyVsNonEmpty(t *testing.T) {
	empty := NewCompound(nil)
	assert.Zero(t, empty.Flags()&HasChildren)

	nonEmpty := NewCompound([]Node{NewBreak()})
	assert.NotZero(t, nonEmpty.Flags()&HasChildren)
}

func TestIfNode_ChildrenOmitsNilAlternate(t *testing.T) {
	n := NewIf(NewIdentifier("cond"), NewBreak(), nil)
	children := n.Children()
	require.Len(t, children, 2)
	assert.Equal(t, Identifier, children[0].Type())
	assert.Equal(t, BreakStmt, children[1].Type())
}

func TestIfNode_ChildrenIncludesAlternateWhenPresent(t *testing.T) {
	n := NewIf(NewIdentifier("cond"), NewBreak(), NewContinue())
	children := n.Children()
	require.Len(t, children, 3)
	assert.Equal(t, ContinueStmt, children[2].Type())
}

// TestForNode_ChildrenAlwaysHasFourSlots grounds the documented wire-shape
// invariant: a missing Init/Condition/Increment becomes an EmptyNode
// placeholder rather than being omitted, since the decoder needs a fixed
// positional shape to tell the three apart from Body.
func TestForNode_ChildrenAlwaysHasFourSlots(t *testing.T) {
	n := NewFor(nil, nil, nil, NewCompound(nil))
	children := n.Children()
	require.Len(t, children, 4)
	assert.Equal(t, EmptyStmt, children[0].Type())
	assert.Equal(t, EmptyStmt, children[1].Type())
	assert.Equal(t, EmptyStmt, children[2].Type())
	assert.Equal(t, CompoundStmt, children[3].Type())
}

func TestForNode_ChildrenPreservesProvidedSlots(t *testing.T) {
	init := NewVarDecl(NewType("int"), []*DeclaratorNode{NewDeclarator("i", NewNumber(IntValue(0)))})
	cond := NewBinaryOp("<", NewIdentifier("i"), NewNumber(IntValue(5)))
	incr := NewPostfix("++", NewIdentifier("i"))
	body := NewCompound(nil)
	n := NewFor(init, cond, incr, body)
	children := n.Children()
	require.Len(t, children, 4)
	assert.Equal(t, VarDecl, children[0].Type())
	assert.Equal(t, BinaryOp, children[1].Type())
	assert.Equal(t, PostfixOp, children[2].Type())
	assert.Equal(t, CompoundStmt, children[3].Type())
}

func TestCaseNode_DefaultUsesEmptyPlaceholderForMatch(t *testing.T) {
	def := NewCase(nil, []Node{NewBreak()})
	assert.True(t, def.IsDefault())
	children := def.Children()
	require.Len(t, children, 2)
	assert.Equal(t, EmptyStmt, children[0].Type())

	withMatch := NewCase(NewNumber(IntValue(1)), []Node{NewBreak()})
	assert.False(t, withMatch.IsDefault())
	assert.Equal(t, Number, withMatch.Children()[0].Type())
}

// TestVarDeclNode_ChildrenFlattensTypeAndDeclarators grounds the documented
// wire-flattening note: VarDecl's Children() puts VarType first, then each
// Declarator, reproducing the wire order without a codec-side special case.
func TestVarDeclNode_ChildrenFlattensTypeAndDeclarators(t *testing.T) {
	n := NewVarDecl(NewType("int"), []*DeclaratorNode{
		NewDeclarator("a", nil),
		NewDeclarator("b", NewNumber(IntValue(2))),
	})
	children := n.Children()
	require.Len(t, children, 3)
	assert.Equal(t, TypeTag, children[0].Type())
	assert.Equal(t, DeclaratorTag, children[1].Type())
	assert.Equal(t, DeclaratorTag, children[2].Type())
}

func TestDeclaratorNode_ChildrenOmitsNilInitializer(t *testing.T) {
	bare := NewDeclarator("a", nil)
	assert.Empty(t, bare.Children())

	withInit := NewDeclarator("b", NewNumber(IntValue(1)))
	require.Len(t, withInit.Children(), 1)
}

func TestFuncDefNode_ChildrenOrderIsNameReturnTypeParamsBody(t *testing.T) {
	n := NewFuncDef(
		NewIdentifier("add"),
		NewType("int"),
		[]*ParamNode{NewParam("a", NewType("int")), NewParam("b", NewType("int"))},
		NewCompound(nil),
	)
	children := n.Children()
	require.Len(t, children, 5)
	assert.Equal(t, Identifier, children[0].Type())
	assert.Equal(t, TypeTag, children[1].Type())
	assert.Equal(t, ParamTag, children[2].Type())
	assert.Equal(t, ParamTag, children[3].Type())
	assert.Equal(t, CompoundStmt, children[4].Type())
}

func TestLeafNodes_NeverHaveChildren(t *testing.T) {
	leaves := []Node{
		NewNumber(IntValue(1)),
		NewStringNode("hi"),
		NewChar('a'),
		NewIdentifier("x"),
		NewConstant("HIGH"),
		NewBreak(),
		NewContinue(),
		NewEmpty(),
	}
	for _, l := range leaves {
		assert.Empty(t, l.Children(), "%s should have no children", l.Type())
	}
}

func TestArrayInitNode_ChildrenAreTheElements(t *testing.T) {
	n := NewArrayInit([]Node{NewNumber(IntValue(1)), NewNumber(IntValue(2))})
	require.Len(t, n.Children(), 2)
}

func TestConstantAndIdentifier_CarryNameAsStringValue(t *testing.T) {
	id := NewIdentifier("pin")
	require.NotNil(t, id.Value())
	assert.Equal(t, VString, id.Value().Type)
	assert.Equal(t, "pin", id.Value().Str)

	c := NewConstant("HIGH")
	require.NotNil(t, c.Value())
	assert.Equal(t, "HIGH", c.Value().Str)
}

func TestBinaryOpAndTernary_ChildrenOrder(t *testing.T) {
	bin := NewBinaryOp("+", NewIdentifier("a"), NewIdentifier("b"))
	require.Len(t, bin.Children(), 2)

	tern := NewTernary(NewIdentifier("cond"), NewNumber(IntValue(1)), NewNumber(IntValue(2)))
	require.Len(t, tern.Children(), 3)
}

func TestMemberAccessNode_ArrowFlagDistinguishesAccessKind(t *testing.T) {
	dot := NewMemberAccess(NewIdentifier("obj"), "field", false)
	arrow := NewMemberAccess(NewIdentifier("ptr"), "field", true)
	assert.Zero(t, dot.Flags()&ExtraFlag)
	assert.NotZero(t, arrow.Flags()&ExtraFlag)
}

func TestComment_IsBlockUsesExtraFlag(t *testing.T) {
	line := NewComment("x", false)
	block := NewComment("x", true)
	assert.Zero(t, line.Flags()&ExtraFlag)
	assert.NotZero(t, block.Flags()&ExtraFlag)
}

func TestProgram_ChildrenAreDeclsInOrder(t *testing.T) {
	setup := NewFuncDef(NewIdentifier("setup"), NewType("void"), nil, NewCompound(nil))
	loop := NewFuncDef(NewIdentifier("loop"), NewType("void"), nil, NewCompound(nil))
	p := NewProgram([]Node{setup, loop})
	require.Len(t, p.Children(), 2)
	assert.Equal(t, FuncDef, p.Children()[0].Type())
}

func TestErrorNode_CarriesMessageAndType(t *testing.T) {
	e := NewError("unexpected token")
	assert.Equal(t, Error, e.Type())
	assert.Equal(t, "unexpected token", e.Message)
}

// TestAccept_DispatchesToMatchingVisitorMethod exercises the visitor
// double-dispatch for a representative sample of node families, the same
// mechanism the interpreter's Visit* methods rely on via Accept.
func TestAccept_DispatchesToMatchingVisitorMethod(t *testing.T) {
	v := &recordingVisitor{}
	nodes := []Node{
		NewIdentifier("x"),
		NewBreak(),
		NewIf(NewIdentifier("c"), NewBreak(), nil),
		NewCompound(nil),
	}
	for _, n := range nodes {
		_, err := n.Accept(v)
		require.NoError(t, err)
	}
	// VisitIf below also dispatches into the consequent, so the If records
	// itself and then its Break.
	assert.Equal(t, []NodeType{Identifier, BreakStmt, IfStmt, BreakStmt, CompoundStmt}, v.visited)
}

// noopVisitor implements every Visitor method as a no-op, so a test-only
// visitor can embed it and override just the handful of methods it cares
// about instead of restating all 44.
type noopVisitor struct{}

func (noopVisitor) VisitProgram(n *ProgramNode) (interface{}, error)     { return nil, nil }
func (noopVisitor) VisitError(n *ErrorNode) (interface{}, error)         { return nil, nil }
func (noopVisitor) VisitComment(n *CommentNode) (interface{}, error)     { return nil, nil }
func (noopVisitor) VisitCompound(n *CompoundNode) (interface{}, error)   { return nil, nil }
func (noopVisitor) VisitExpressionStmt(n *ExpressionStmtNode) (interface{}, error) {
	return nil, nil
}
func (noopVisitor) VisitIf(n *IfNode) (interface{}, error)             { return nil, nil }
func (noopVisitor) VisitWhile(n *WhileNode) (interface{}, error)       { return nil, nil }
func (noopVisitor) VisitDoWhile(n *DoWhileNode) (interface{}, error)   { return nil, nil }
func (noopVisitor) VisitFor(n *ForNode) (interface{}, error)           { return nil, nil }
func (noopVisitor) VisitRangeFor(n *RangeForNode) (interface{}, error) { return nil, nil }
func (noopVisitor) VisitSwitch(n *SwitchNode) (interface{}, error)     { return nil, nil }
func (noopVisitor) VisitCase(n *CaseNode) (interface{}, error)         { return nil, nil }
func (noopVisitor) VisitReturn(n *ReturnNode) (interface{}, error)     { return nil, nil }
func (noopVisitor) VisitBreak(n *BreakNode) (interface{}, error)       { return nil, nil }
func (noopVisitor) VisitContinue(n *ContinueNode) (interface{}, error) { return nil, nil }
func (noopVisitor) VisitEmpty(n *EmptyNode) (interface{}, error)       { return nil, nil }
func (noopVisitor) VisitVarDecl(n *VarDeclNode) (interface{}, error)   { return nil, nil }
func (noopVisitor) VisitFuncDef(n *FuncDefNode) (interface{}, error)   { return nil, nil }
func (noopVisitor) VisitFuncDecl(n *FuncDeclNode) (interface{}, error) { return nil, nil }
func (noopVisitor) VisitStructDecl(n *StructDeclNode) (interface{}, error) {
	return nil, nil
}
func (noopVisitor) VisitTypedefDecl(n *TypedefDeclNode) (interface{}, error) {
	return nil, nil
}
func (noopVisitor) VisitBinaryOp(n *BinaryOpNode) (interface{}, error)     { return nil, nil }
func (noopVisitor) VisitUnaryOp(n *UnaryOpNode) (interface{}, error)       { return nil, nil }
func (noopVisitor) VisitAssignment(n *AssignmentNode) (interface{}, error) { return nil, nil }
func (noopVisitor) VisitFuncCallExpr(n *FuncCallNode) (interface{}, error) { return nil, nil }
func (noopVisitor) VisitConstructorCall(n *ConstructorCallNode) (interface{}, error) {
	return nil, nil
}
func (noopVisitor) VisitMemberAccess(n *MemberAccessNode) (interface{}, error) {
	return nil, nil
}
func (noopVisitor) VisitArrayAccess(n *ArrayAccessNode) (interface{}, error) {
	return nil, nil
}
func (noopVisitor) VisitTernary(n *TernaryNode) (interface{}, error) { return nil, nil }
func (noopVisitor) VisitPostfix(n *PostfixNode) (interface{}, error) { return nil, nil }
func (noopVisitor) VisitComma(n *CommaNode) (interface{}, error)     { return nil, nil }
func (noopVisitor) VisitNumber(n *NumberNode) (interface{}, error)   { return nil, nil }
func (noopVisitor) VisitString(n *StringNode) (interface{}, error)   { return nil, nil }
func (noopVisitor) VisitChar(n *CharNode) (interface{}, error)       { return nil, nil }
func (noopVisitor) VisitIdentifier(n *IdentifierNode) (interface{}, error) {
	return nil, nil
}
func (noopVisitor) VisitConstant(n *ConstantNode) (interface{}, error) { return nil, nil }
func (noopVisitor) VisitArrayInit(n *ArrayInitNode) (interface{}, error) {
	return nil, nil
}
func (noopVisitor) VisitType(n *TypeNode) (interface{}, error)             { return nil, nil }
func (noopVisitor) VisitDeclarator(n *DeclaratorNode) (interface{}, error) { return nil, nil }
func (noopVisitor) VisitParam(n *ParamNode) (interface{}, error)           { return nil, nil }
func (noopVisitor) VisitStructType(n *StructTypeNode) (interface{}, error) {
	return nil, nil
}
func (noopVisitor) VisitFunctionPointerDeclarator(n *FunctionPointerDeclaratorNode) (interface{}, error) {
	return nil, nil
}
func (noopVisitor) VisitArrayDeclarator(n *ArrayDeclaratorNode) (interface{}, error) {
	return nil, nil
}
func (noopVisitor) VisitPointerDeclarator(n *PointerDeclaratorNode) (interface{}, error) {
	return nil, nil
}

// recordingVisitor implements ast.Visitor by recording which node type each
// Visit* call received, returning zero values everywhere else.
type recordingVisitor struct {
	noopVisitor
	visited []NodeType
}

func (r *recordingVisitor) VisitIdentifier(n *IdentifierNode) (interface{}, error) {
	r.visited = append(r.visited, n.Type())
	return nil, nil
}
func (r *recordingVisitor) VisitBreak(n *BreakNode) (interface{}, error) {
	r.visited = append(r.visited, n.Type())
	return nil, nil
}
func (r *recordingVisitor) VisitIf(n *IfNode) (interface{}, error) {
	r.visited = append(r.visited, n.Type())
	_, _ = n.Consequent.Accept(r)
	return nil, nil
}
func (r *recordingVisitor) VisitCompound(n *CompoundNode) (interface{}, error) {
	r.visited = append(r.visited, n.Type())
	return nil, nil
}
