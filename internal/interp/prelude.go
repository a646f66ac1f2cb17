package interp

import (
	"fmt"

	"github.com/hassan/astinterp/internal/ast"
	"github.com/hassan/astinterp/internal/command"
)

// prelude is the interpreter's single setup pass over the top-level
// declarations before anything runs (spec §4.3.2): register every
// function, struct, and typedef first (so a function can reference one
// declared later in source order, and a global initializer can construct
// a struct declared after it), then evaluate global variable initializers
// in source order.
func (i *Interpreter) prelude() error {
	for _, decl := range i.program.Decls {
		switch d := decl.(type) {
		case *ast.FuncDefNode:
			i.registerFuncDef(d)
		case *ast.FuncDeclNode:
			i.registerFuncDecl(d)
		case *ast.StructDeclNode:
			i.registerStructDecl(d)
		case *ast.TypedefDeclNode:
			i.registerTypedefDecl(d)
		}
	}
	for _, decl := range i.program.Decls {
		vd, ok := decl.(*ast.VarDeclNode)
		if !ok {
			continue
		}
		if _, err := i.VisitVarDecl(vd); err != nil {
			return err
		}
	}
	return nil
}

func declName(n *ast.IdentifierNode) string {
	if n == nil {
		return ""
	}
	return n.Name
}

func declTypeName(n *ast.TypeNode) string {
	if n == nil {
		return ""
	}
	return n.Name
}

func (i *Interpreter) registerFuncDef(d *ast.FuncDefNode) {
	name := declName(d.Name)
	i.funcs[name] = &FuncRecord{
		Name:          name,
		ReturnType:    declTypeName(d.ReturnType),
		Params:        paramSpecs(d.Params),
		Body:          d.Body,
		DefiningScope: i.global,
	}
}

// registerFuncDecl registers a prototype without overwriting an
// already-registered definition — declaration order between a FuncDecl
// and its matching FuncDef is not guaranteed (spec §4.3.3 resolution
// step 3).
func (i *Interpreter) registerFuncDecl(d *ast.FuncDeclNode) {
	name := declName(d.Name)
	if existing, ok := i.funcs[name]; ok && existing.Body != nil {
		return
	}
	i.funcs[name] = &FuncRecord{
		Name:          name,
		ReturnType:    declTypeName(d.ReturnType),
		Params:        paramSpecs(d.Params),
		DefiningScope: i.global,
	}
}

func (i *Interpreter) registerStructDecl(d *ast.StructDeclNode) {
	name := declName(d.Name)
	fields := make([]paramSpec, 0, len(d.Fields))
	for _, f := range d.Fields {
		typeName := ""
		if f.ParamType != nil {
			typeName = f.ParamType.Name
		}
		fields = append(fields, paramSpec{Name: f.Name, TypeName: typeName})
	}
	i.structs[name] = fields
}

func (i *Interpreter) registerTypedefDecl(d *ast.TypedefDeclNode) {
	i.typedefs[declName(d.Name)] = declTypeName(d.Underlying)
}

// loopDriver runs PROGRAM_START, setup() once, then loop() repeatedly up
// to the configured iteration cap, emitting LOOP_LIMIT_REACHED and
// PROGRAM_END to close the stream (spec §4.3.1, §4.3.2). A sketch with no
// loop() function runs setup() once and ends immediately — a valid, if
// unusual, Arduino program shape.
func (i *Interpreter) loopDriver() {
	i.emitter.Emit(command.ProgramStart, nil)

	if setup, ok := i.funcs["setup"]; ok && setup.Body != nil {
		i.emitter.Emit(command.FunctionCall, command.FunctionCallPayload{Function: "setup"})
		if _, err := i.callFunction(setup, nil); err != nil {
			i.failOrStop(err)
			return
		}
	}

	loop, hasLoop := i.funcs["loop"]
	if !hasLoop || loop.Body == nil {
		i.emitter.Emit(command.ProgramEnd, nil)
		i.setState(StateComplete)
		return
	}

	for n := 0; n < i.opts.MaxLoopIterations; n++ {
		if i.stopped() {
			i.setState(StateStopped)
			return
		}
		if i.checkPause() {
			i.setState(StateStopped)
			return
		}
		i.emitter.Emit(command.LoopIteration, command.LoopIterationPayload{N: n})
		i.emitter.Emit(command.FunctionCall, command.FunctionCallPayload{Function: "loop"})
		if _, err := i.callFunction(loop, nil); err != nil {
			i.failOrStop(err)
			return
		}
	}

	i.emitter.Emit(command.LoopLimitReached, command.LoopLimitPayload{
		Message: fmt.Sprintf("loop() reached the configured limit of %d iterations", i.opts.MaxLoopIterations),
	})
	i.emitter.Emit(command.ProgramEnd, nil)
	i.setState(StateComplete)
}
