package interp

import "github.com/hassan/astinterp/internal/ast"

// FuncRecord is the runtime representation of a user-defined function:
// return type, parameter list, body, and defining scope (spec §3.2).
// Records are created once during the program prelude (§4.3.2) and persist
// for the life of the interpreter; FuncDecl-only prototypes are registered
// the same way but never gain a Body until a matching FuncDef is also
// registered (§4.3.3's function-call resolution step 3).
type FuncRecord struct {
	Name          string
	ReturnType    string
	Params        []paramSpec
	Body          *ast.CompoundNode
	DefiningScope *Scope
}

type paramSpec struct {
	Name     string
	TypeName string
}

func paramSpecs(params []*ast.ParamNode) []paramSpec {
	out := make([]paramSpec, 0, len(params))
	for _, p := range params {
		typeName := ""
		if p.ParamType != nil {
			typeName = p.ParamType.Name
		}
		out = append(out, paramSpec{Name: p.Name, TypeName: typeName})
	}
	return out
}
