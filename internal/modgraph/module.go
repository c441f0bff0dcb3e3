package modgraph

import (
	"sync"

	"adeptc/internal/arena"
	"adeptc/internal/types"
)

// ModuleRef and PartRef are stable arena indices into a Graph's module and
// part arenas — edges in the module graph store these, never direct
// pointers, so "cyclic graphs (module imports, mutual recursion)" (spec §9
// Design Notes) are represented the same way the teacher represents
// modules in cmd_local/go/internal/modload: opaque keys into a table, safe
// to hold on both sides of a cycle.
type ModuleRef arena.Index
type PartRef arena.Index

// Part is one source file's contribution to a Module: its own private
// symbol table, per §3 "Module part — holds private symbols."
type Part struct {
	Module ModuleRef
	File   string

	mu      sync.RWMutex
	private map[string][]DeclHead

	// WildcardPrivate lists modules this part private-wildcard-imports,
	// the starting edges of the closure BFS in wildcard.go.
	WildcardPrivate []WildcardImport
}

// WildcardImport is one edge of the wildcard-import graph: "a
// bi-directional mapping maintains: for each part, a list of
// wildcard-imported modules with optional transforms" (§4.2). Transform is
// left as an opaque string->string renaming table; this module's resolver
// does not need to interpret it, only propagate it unchanged to whatever
// consumes a wildcard-resolved name.
type WildcardImport struct {
	Target    ModuleRef
	Transform map[string]string
}

func newPart(mod ModuleRef, file string) *Part {
	return &Part{Module: mod, File: file, private: make(map[string][]DeclHead)}
}

func (p *Part) addPrivate(name string, d DeclHead) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.private[name] = append(p.private[name], d)
}

func (p *Part) lookupPrivate(name string) []DeclHead {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]DeclHead(nil), p.private[name]...)
}

// Module owns the three independent symbol channels spec §3/§4.2
// describe (public, protected, and each part's private table) and an
// arena of Parts, one per contributing source file.
type Module struct {
	Name string

	parts *arena.Arena[*Part]

	mu        sync.RWMutex
	public    map[string][]DeclHead
	protected map[string][]DeclHead

	// WildcardProtected/WildcardPublic list modules reachable from this
	// module via its own protected/public wildcard imports — the second
	// and third hops of the closure BFS (§4.2: "private wildcards from
	// part P transitively pull protected wildcards of target M, which
	// pull public wildcards further").
	WildcardProtected []WildcardImport
	WildcardPublic    []WildcardImport
}

func newModule(name string) *Module {
	return &Module{
		Name:      name,
		parts:     arena.New[*Part](),
		public:    make(map[string][]DeclHead),
		protected: make(map[string][]DeclHead),
	}
}

// NewPart allocates a new part of m for the given source file and returns
// a stable reference to it.
func (g *Graph) NewPart(mod ModuleRef, file string) PartRef {
	m := g.modules.At(arena.Index(mod))
	p := newPart(mod, file)
	idx := m.parts.Append(p)
	return PartRef(idx)
}

func (g *Graph) part(mod ModuleRef, ref PartRef) *Part {
	m := g.modules.At(arena.Index(mod))
	return m.parts.At(arena.Index(ref))
}

// AddSymbol routes decl to the channel privacy indicates, per §4.2's
// add_symbol(part, privacy, name, decl_head) contract. It also fires any
// pending searches waiting on (module, name) — see pending.go.
func (g *Graph) AddSymbol(mod ModuleRef, part PartRef, privacy Privacy, name string, decl DeclHead) {
	decl.Privacy = privacy
	decl.Part = part

	m := g.modules.At(arena.Index(mod))
	switch privacy {
	case Public:
		m.mu.Lock()
		m.public[name] = append(m.public[name], decl)
		m.mu.Unlock()
	case Protected:
		m.mu.Lock()
		m.protected[name] = append(m.protected[name], decl)
		m.mu.Unlock()
	case Private:
		g.part(mod, part).addPrivate(name, decl)
	}

	g.wake(mod, name)
}

// LookupConstraint narrows a symbol search to only the kinds of DeclHead
// that could possibly satisfy the caller, per §4.2.
type LookupConstraint struct {
	Kind DeclKind

	// TypeArity is meaningful when Kind == TypeLikeDecl.
	TypeArity int

	// FuncArgTypes is meaningful when Kind == FuncLikeDecl: the
	// unaliased argument types at the call site, used to filter by
	// required-parameter arity (permitting C-style varargs when the head
	// declares them).
	FuncArgTypes []*types.Type
}

func (c LookupConstraint) accepts(d DeclHead) bool {
	if d.Kind != c.Kind {
		return false
	}
	switch c.Kind {
	case TypeLikeDecl:
		return d.Type.Arity == c.TypeArity
	case FuncLikeDecl:
		required := d.Func.RequiredArity()
		if d.Func.CVariadic || d.Func.Variadic {
			return len(c.FuncArgTypes) >= required
		}
		return len(c.FuncArgTypes) == required
	default:
		return true
	}
}
