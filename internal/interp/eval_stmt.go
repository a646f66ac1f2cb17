package interp

import (
	"github.com/hassan/astinterp/internal/ast"
	"github.com/hassan/astinterp/internal/command"
)

// VisitProgram is never reached through Accept — the prelude (spec
// §4.3.2) walks ProgramNode.Decls directly so it can register every
// function before evaluating any global initializer, a two-pass order
// Accept's single dispatch can't express.
func (i *Interpreter) VisitProgram(n *ast.ProgramNode) (interface{}, error) {
	return Control{}, newError(InternalError, "Program must be evaluated via the interpreter prelude")
}

func (i *Interpreter) VisitError(n *ast.ErrorNode) (interface{}, error) {
	return Control{}, newError(InternalError, "encountered a parse-error node: %s", n.Message)
}

// VisitComment does nothing: comments are preserved for round-trip
// fidelity but carry no executable meaning (spec §3.1). A comment inside a
// block is dispatched here like any other statement.
func (i *Interpreter) VisitComment(n *ast.CommentNode) (interface{}, error) {
	return noControl, nil
}

func (i *Interpreter) VisitCompound(n *ast.CompoundNode) (interface{}, error) {
	prev := i.curScope
	i.curScope = NewScope(ScopeBlock, prev)
	ctrl, err := i.execStmts(n.Stmts)
	i.curScope = prev
	return ctrl, err
}

func (i *Interpreter) VisitExpressionStmt(n *ast.ExpressionStmtNode) (interface{}, error) {
	if n.Expr == nil {
		return noControl, nil
	}
	if _, err := i.evalExpr(n.Expr); err != nil {
		return Control{}, err
	}
	return noControl, nil
}

func (i *Interpreter) VisitIf(n *ast.IfNode) (interface{}, error) {
	cond, err := i.evalExpr(n.Condition)
	if err != nil {
		return Control{}, err
	}
	if cond.IsTruthy() {
		return i.execStmt(n.Consequent)
	}
	if n.Alternate != nil {
		return i.execStmt(n.Alternate)
	}
	return noControl, nil
}

func (i *Interpreter) VisitWhile(n *ast.WhileNode) (interface{}, error) {
	prev := i.curScope
	i.curScope = NewScope(ScopeLoop, prev)
	defer func() { i.curScope = prev }()

	for iter := 0; ; iter++ {
		cond, err := i.evalExpr(n.Condition)
		if err != nil {
			return Control{}, err
		}
		if !cond.IsTruthy() {
			break
		}
		if i.innerLoopCapExceeded(iter) {
			break
		}
		ctrl, err := i.execStmt(n.Body)
		if err != nil {
			return Control{}, err
		}
		switch ctrl.Kind {
		case ControlBreak:
			return noControl, nil
		case ControlReturn:
			return ctrl, nil
		}
	}
	return noControl, nil
}

func (i *Interpreter) VisitDoWhile(n *ast.DoWhileNode) (interface{}, error) {
	prev := i.curScope
	i.curScope = NewScope(ScopeLoop, prev)
	defer func() { i.curScope = prev }()

	for iter := 0; ; iter++ {
		if i.innerLoopCapExceeded(iter) {
			break
		}
		ctrl, err := i.execStmt(n.Body)
		if err != nil {
			return Control{}, err
		}
		switch ctrl.Kind {
		case ControlBreak:
			return noControl, nil
		case ControlReturn:
			return ctrl, nil
		}
		cond, err := i.evalExpr(n.Condition)
		if err != nil {
			return Control{}, err
		}
		if !cond.IsTruthy() {
			break
		}
	}
	return noControl, nil
}

func (i *Interpreter) VisitFor(n *ast.ForNode) (interface{}, error) {
	prev := i.curScope
	i.curScope = NewScope(ScopeLoop, prev)
	defer func() { i.curScope = prev }()

	if n.Init != nil {
		if vd, ok := n.Init.(*ast.VarDeclNode); ok {
			if _, err := i.VisitVarDecl(vd); err != nil {
				return Control{}, err
			}
		} else if _, err := i.evalExpr(n.Init); err != nil {
			return Control{}, err
		}
	}

	for iter := 0; ; iter++ {
		if n.Condition != nil {
			cond, err := i.evalExpr(n.Condition)
			if err != nil {
				return Control{}, err
			}
			if !cond.IsTruthy() {
				break
			}
		}
		if i.innerLoopCapExceeded(iter) {
			break
		}
		ctrl, err := i.execStmt(n.Body)
		if err != nil {
			return Control{}, err
		}
		if ctrl.Kind == ControlBreak {
			break
		}
		if ctrl.Kind == ControlReturn {
			return ctrl, nil
		}
		if n.Increment != nil {
			if _, err := i.evalExpr(n.Increment); err != nil {
				return Control{}, err
			}
		}
	}
	return noControl, nil
}

// VisitRangeFor implements iteration over strings (char by char, per spec
// §4.3.3), integers (indices 0..n-1), and array references (elements in
// source order).
func (i *Interpreter) VisitRangeFor(n *ast.RangeForNode) (interface{}, error) {
	iterable, err := i.evalExpr(n.Iterable)
	if err != nil {
		return Control{}, err
	}

	prev := i.curScope
	i.curScope = NewScope(ScopeLoop, prev)
	defer func() { i.curScope = prev }()

	varName := ""
	if n.VarName != nil {
		varName = n.VarName.Name
	}
	bind := func(v Value, typeName string) error {
		if varName == "" {
			return nil
		}
		if existing := i.curScope.LookupLocal(varName); existing != nil {
			existing.Value = v
			return nil
		}
		return i.curScope.Define(&Variable{Name: varName, TypeName: typeName, Value: v})
	}

	// runOne returns (control, stop). stop is true on a tripped inner-loop
	// cap, a break, or a propagating return (the caller re-checks Kind to
	// tell a break-stop from a return-stop).
	runOne := func(iter int) (Control, bool, error) {
		if i.innerLoopCapExceeded(iter) {
			return noControl, true, nil
		}
		ctrl, err := i.execStmt(n.Body)
		if err != nil {
			return Control{}, true, err
		}
		return ctrl, ctrl.Kind == ControlBreak || ctrl.Kind == ControlReturn, nil
	}

	switch iterable.Kind {
	case KindString:
		for idx, ch := range []byte(iterable.Str) {
			if err := bind(Int32Value(int32(ch)), "char"); err != nil {
				return Control{}, newError(InternalError, "%s", err)
			}
			ctrl, stop, err := runOne(idx)
			if err != nil {
				return Control{}, err
			}
			if ctrl.Kind == ControlReturn {
				return ctrl, nil
			}
			if stop {
				break
			}
		}
	case KindInt32, KindInt64, KindUint32, KindUint64:
		bound := iterable.AsInt()
		for idx := int64(0); idx < bound; idx++ {
			if err := bind(Int64Value(idx), "long"); err != nil {
				return Control{}, newError(InternalError, "%s", err)
			}
			ctrl, stop, err := runOne(int(idx))
			if err != nil {
				return Control{}, err
			}
			if ctrl.Kind == ControlReturn {
				return ctrl, nil
			}
			if stop {
				break
			}
		}
	case KindArray:
		elemType := ""
		if iterable.Array != nil {
			elemType = iterable.Array.ElementKind.String()
		}
		for idx, el := range iterable.Array.Elements {
			if err := bind(el, elemType); err != nil {
				return Control{}, newError(InternalError, "%s", err)
			}
			ctrl, stop, err := runOne(idx)
			if err != nil {
				return Control{}, err
			}
			if ctrl.Kind == ControlReturn {
				return ctrl, nil
			}
			if stop {
				break
			}
		}
	default:
		return Control{}, newError(TypeMismatch, "cannot range over value of kind %s", iterable.Kind)
	}
	return noControl, nil
}

// VisitSwitch implements C fall-through: once a case matches (or no case
// matches and a default exists), every following case body runs in order
// until a break or the switch ends (spec §4.3.3).
func (i *Interpreter) VisitSwitch(n *ast.SwitchNode) (interface{}, error) {
	disc, err := i.evalExpr(n.Discriminant)
	if err != nil {
		return Control{}, err
	}

	start := -1
	defaultIdx := -1
	for idx, c := range n.Cases {
		if c.IsDefault() {
			defaultIdx = idx
			continue
		}
		mv, err := i.evalExpr(c.Match)
		if err != nil {
			return Control{}, err
		}
		if valuesEqual(disc, mv) {
			start = idx
			break
		}
	}
	if start == -1 {
		start = defaultIdx
	}
	if start == -1 {
		return noControl, nil
	}

	prev := i.curScope
	i.curScope = NewScope(ScopeSwitch, prev)
	defer func() { i.curScope = prev }()

	for idx := start; idx < len(n.Cases); idx++ {
		ctrl, err := i.execStmts(n.Cases[idx].Body)
		if err != nil {
			return Control{}, err
		}
		if ctrl.Kind == ControlBreak {
			return noControl, nil
		}
		if !ctrl.IsNone() {
			return ctrl, nil
		}
	}
	return noControl, nil
}

// VisitCase only runs directly if a CaseNode is ever reached outside the
// switch-driven traversal above; VisitSwitch normally iterates Cases and
// their Body lists itself so it can implement fall-through across case
// boundaries.
func (i *Interpreter) VisitCase(n *ast.CaseNode) (interface{}, error) {
	return i.execStmts(n.Body)
}

func (i *Interpreter) VisitReturn(n *ast.ReturnNode) (interface{}, error) {
	if n.Result == nil {
		return returnControl(VoidValue()), nil
	}
	v, err := i.evalExpr(n.Result)
	if err != nil {
		return Control{}, err
	}
	return returnControl(v), nil
}

func (i *Interpreter) VisitBreak(n *ast.BreakNode) (interface{}, error) {
	return breakControl(), nil
}

func (i *Interpreter) VisitContinue(n *ast.ContinueNode) (interface{}, error) {
	return continueControl(), nil
}

func (i *Interpreter) VisitEmpty(n *ast.EmptyNode) (interface{}, error) {
	return noControl, nil
}

// VisitVarDecl handles both local declarations (reached via Accept from a
// CompoundNode/ForNode init) and, through the prelude, global ones. Every
// declarator's resulting binding is announced with a VAR_SET command
// (spec §4.4), giving the host visibility into variable state changes
// without needing to poll.
func (i *Interpreter) VisitVarDecl(n *ast.VarDeclNode) (interface{}, error) {
	typeName := ""
	if n.VarType != nil {
		typeName = n.VarType.Name
	}
	for _, d := range n.Declarators {
		val := i.zeroValueFor(typeName)
		if d.Initializer != nil {
			v, err := i.evalExpr(d.Initializer)
			if err != nil {
				return Control{}, err
			}
			val = v
		}
		if err := i.curScope.Define(&Variable{Name: d.Name, TypeName: typeName, Value: val}); err != nil {
			return Control{}, newError(InternalError, "%s", err)
		}
		i.emitter.Emit(command.VarSet, command.VarSetPayload{Variable: d.Name, Value: val.Wire(), VarType: typeName})
	}
	return noControl, nil
}

// VisitFuncDef/VisitFuncDecl/VisitStructDecl/VisitTypedefDecl are never
// reached through Accept: the prelude registers every declaration in a
// dedicated pass before executing any statement (spec §4.3.2).
func (i *Interpreter) VisitFuncDef(n *ast.FuncDefNode) (interface{}, error)   { return noControl, nil }
func (i *Interpreter) VisitFuncDecl(n *ast.FuncDeclNode) (interface{}, error) { return noControl, nil }
func (i *Interpreter) VisitStructDecl(n *ast.StructDeclNode) (interface{}, error) {
	return noControl, nil
}
func (i *Interpreter) VisitTypedefDecl(n *ast.TypedefDeclNode) (interface{}, error) {
	return noControl, nil
}
