// Package resolve implements spec §4.3: lowering AST type/expression
// syntax to typed Type values and asg.Expr nodes, enforcing conformance,
// unification, literal defaulting, and polymorph matching/baking.
//
// It depends on internal/modgraph for name lookup and internal/recipe for
// polymorph substitution, but never on internal/exec: a lookup that would
// need to suspend (module not yet populated, pending search) is reported
// back to the caller as (zero, false) rather than this package reaching
// into the executor itself, the same layering the teacher keeps between
// compile/internal/typecheck (pure) and compile/internal/noder (the part
// that actually drives package loading order).
package resolve

import (
	"adeptc/internal/arena"
	"adeptc/internal/asg"
	"adeptc/internal/diag"
	"adeptc/internal/modgraph"
	"adeptc/internal/target"
	"adeptc/internal/types"
)

// FieldDef is one member of a resolved struct, per §3's DeclHead model
// extended with the field-level privacy §4.3.5's member-access rule
// checks ("obey field privacy").
type FieldDef struct {
	Name    string
	Type    *types.Type
	Privacy modgraph.Privacy
}

// StructDef is what a types.StructRef resolves to: an ordered field list.
type StructDef struct {
	Name   string
	Fields []FieldDef
}

// Field returns the field named name, if any.
func (d *StructDef) Field(name string) (FieldDef, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldDef{}, false
}

// StructTable is the arena backing every types.StructRef in a session,
// append-only per spec §5's arena discipline.
type StructTable struct{ arena *arena.Arena[*StructDef] }

func NewStructTable() *StructTable { return &StructTable{arena: arena.New[*StructDef]()} }

func (t *StructTable) Define(d *StructDef) types.StructRef {
	return types.StructRef(t.arena.Append(d))
}

func (t *StructTable) Get(ref types.StructRef) *StructDef {
	return t.arena.At(arena.Index(ref))
}

// AliasTable is the arena backing every types.AliasRef, holding the
// `becomes` type unalias (resolve_type.go) substitutes into.
type AliasTable struct{ arena *arena.Arena[*types.AliasDef] }

func NewAliasTable() *AliasTable { return &AliasTable{arena: arena.New[*types.AliasDef]()} }

func (t *AliasTable) Define(d *types.AliasDef) types.AliasRef {
	return types.AliasRef(t.arena.Append(d))
}

func (t *AliasTable) Get(ref types.AliasRef) *types.AliasDef {
	return t.arena.At(arena.Index(ref))
}

// GlobalDef is a resolved global variable, referenced from asg.Expr via
// asg.GlobalRef.
type GlobalDef struct {
	Name string
	Type *types.Type
}

// GlobalTable is the arena backing asg.GlobalRef. Per SPEC_FULL.md's
// supplemented "global variable resolution ordering" feature, a global is
// inserted into the owning module's symbol table the same way a function
// is (ValueLike, modgraph.AddSymbol), so it resolves lazily through the
// same pending/suspend mechanism as any other name rather than some
// separate eager pre-pass.
type GlobalTable struct{ arena *arena.Arena[*GlobalDef] }

func NewGlobalTable() *GlobalTable { return &GlobalTable{arena: arena.New[*GlobalDef]()} }

func (t *GlobalTable) Define(d *GlobalDef) asg.GlobalRef {
	return asg.GlobalRef(t.arena.Append(d))
}

func (t *GlobalTable) Get(ref asg.GlobalRef) *GlobalDef {
	return t.arena.At(arena.Index(ref))
}

// Scope is the resolver's view of one module-part plus the type/variable
// tables a whole session shares, per §3's VariableHaystack/VariableStorage
// and the module-graph lookups of §4.2.
type Scope struct {
	Graph  *modgraph.Graph
	Module modgraph.ModuleRef
	Part   modgraph.PartRef

	Structs *StructTable
	Aliases *AliasTable
	Globals *GlobalTable

	Layout target.Layout
	Sink   *diag.Sink

	Vars    *asg.VariableHaystack
	Storage *asg.VariableStorage
}

// NewFunctionScope returns a scope for resolving one function body,
// sharing the module-wide tables of parent but with its own fresh
// variable storage/haystack, per §3's "A function body maintains a
// VariableStorage" (each function gets its own).
func NewFunctionScope(parent *Scope) *Scope {
	child := *parent
	child.Vars = asg.NewVariableHaystack()
	child.Storage = asg.NewVariableStorage()
	return &child
}

// lookupTypeHead resolves name with the given arity through the module
// graph's three-channel + wildcard-closure search (§4.2). The caller
// decides how to report NotFound vs. Ambiguous; this just exposes the
// raw result set.
func (s *Scope) lookupTypeHead(name string, arity int) modgraph.DeclHeadSet {
	return s.Graph.Lookup(s.Module, s.Part, name, modgraph.LookupConstraint{
		Kind:      modgraph.TypeLikeDecl,
		TypeArity: arity,
	})
}
