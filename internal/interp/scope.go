package interp

import "fmt"

// ScopeKind distinguishes why a scope exists, the same way symtab.ScopeKind
// did for the compiler this package is descended from — different kinds
// allow different things (break/continue only resolve through a loop or
// switch scope) and produce clearer errors.
type ScopeKind int

const (
	ScopeGlobal ScopeKind = iota
	ScopeFunction
	ScopeBlock
	ScopeLoop
	ScopeSwitch
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeGlobal:
		return "global"
	case ScopeFunction:
		return "function"
	case ScopeBlock:
		return "block"
	case ScopeLoop:
		return "loop"
	case ScopeSwitch:
		return "switch"
	default:
		return "unknown"
	}
}

// Variable is one binding in a Scope: a name, its declared type spelling,
// its current Value, and whether it's a constant. Unlike the compiler's
// Symbol, there is no separate types.Type — the interpreter only ever
// needs the type name for zero-value construction and VAR_SET's optional
// type field (spec §4.4), never a structural type-compatibility check.
type Variable struct {
	Name     string
	TypeName string
	Value    Value
	Constant bool
}

// Scope is a lexically-bound mapping from identifier to Variable, chained
// to a parent scope (spec §3.2). Scopes are created on entry to a block,
// function call, or for-loop header and discarded on exit — Go's garbage
// collector handles that "destruction" once nothing holds a reference to
// the Scope anymore, matching the "destroyed on all exit paths including
// exceptional ones" requirement from §3.3 without explicit cleanup code.
type Scope struct {
	Kind     ScopeKind
	Parent   *Scope
	Vars     map[string]*Variable
	Function *FuncRecord
	Depth    int
}

func NewScope(kind ScopeKind, parent *Scope) *Scope {
	depth := 0
	var fn *FuncRecord
	if parent != nil {
		depth = parent.Depth + 1
		if kind != ScopeFunction {
			fn = parent.Function
		}
	}
	return &Scope{Kind: kind, Parent: parent, Vars: make(map[string]*Variable), Depth: depth, Function: fn}
}

// Define introduces a new binding in this scope. Redeclaration in the same
// scope is a programmer error the caller surfaces as a semantic error;
// shadowing an outer scope's binding is allowed, same as symtab.Scope.
func (s *Scope) Define(v *Variable) error {
	if _, ok := s.Vars[v.Name]; ok {
		return fmt.Errorf("variable %q already declared in this scope", v.Name)
	}
	s.Vars[v.Name] = v
	return nil
}

// Lookup resolves a name through this scope and its ancestors (lexical
// scoping). Returns nil if the name is never declared.
func (s *Scope) Lookup(name string) *Variable {
	if v, ok := s.Vars[name]; ok {
		return v
	}
	if s.Parent != nil {
		return s.Parent.Lookup(name)
	}
	return nil
}

// LookupLocal resolves a name only in this scope, ignoring ancestors.
func (s *Scope) LookupLocal(name string) *Variable {
	return s.Vars[name]
}

func (s *Scope) IsLoop() bool   { return s.Kind == ScopeLoop }
func (s *Scope) IsSwitch() bool { return s.Kind == ScopeSwitch }

// FindEnclosingLoopOrSwitch walks up to the nearest loop or switch scope,
// the set of constructs a Break is valid inside (spec §4.3.3).
func (s *Scope) FindEnclosingLoopOrSwitch() *Scope {
	if s.IsLoop() || s.IsSwitch() {
		return s
	}
	if s.Parent != nil {
		return s.Parent.FindEnclosingLoopOrSwitch()
	}
	return nil
}

// FindEnclosingLoop walks up to the nearest loop scope, the set of
// constructs a Continue is valid inside.
func (s *Scope) FindEnclosingLoop() *Scope {
	if s.IsLoop() {
		return s
	}
	if s.Parent != nil {
		return s.Parent.FindEnclosingLoop()
	}
	return nil
}
