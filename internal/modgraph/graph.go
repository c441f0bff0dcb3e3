package modgraph

import (
	"fmt"
	"sync"

	"golang.org/x/mod/module"

	"adeptc/internal/arena"
)

// Graph owns every Module in a compilation session's module arena, plus
// the wake registry pending searches subscribe to. Per spec §9 Design
// Notes ("Global mutable state: None; every mutable collection is
// parameterized on a compilation session"), a Graph is always owned by
// exactly one session and never shared across sessions.
type Graph struct {
	modules *arena.Arena[*Module]

	byName   sync.Map // string -> ModuleRef, for resolving import paths to refs
	wakeMu   sync.Mutex
	waiters  map[wakeKey][]func()
}

// NewGraph returns an empty module graph.
func NewGraph() *Graph {
	return &Graph{
		modules: arena.New[*Module](),
		waiters: make(map[wakeKey][]func()),
	}
}

// NewModule allocates a new, empty module named name and returns a stable
// reference to it. It does not check that name is unused: calling
// NewModule twice with the same name allocates two distinct modules, and
// the name then maps to the later one.
func (g *Graph) NewModule(name string) ModuleRef {
	ref := ModuleRef(g.modules.Append(newModule(name)))
	g.byName.Store(name, ref)
	return ref
}

// ValidateModuleName checks that name is syntactically usable as a
// module's declared name, the same path-element rules the teacher
// applies to Go import paths (golang.org/x/mod/module.CheckImportPath:
// non-empty slash-separated elements of letters/digits/-._~, no leading
// or trailing slash, no doubled dots). A workspace loader is expected to
// call this before NewModule; NewModule itself stays unchecked since
// synthetic/internal module names (cache keys, test fixtures) need not
// satisfy this.
func ValidateModuleName(name string) error {
	if err := module.CheckImportPath(name); err != nil {
		return fmt.Errorf("invalid module name %q: %w", name, err)
	}
	return nil
}

// NewValidatedModule validates name with ValidateModuleName before
// allocating it the same way NewModule does, returning the validation
// error instead of a ModuleRef on failure. A workspace loader (or,
// short of one, a session registering its own entry-point module) is
// expected to call through here rather than NewModule directly, so a
// malformed declared name is caught as a diagnosable error at
// registration time instead of silently creating an unlookupable
// module.
func (g *Graph) NewValidatedModule(name string) (ModuleRef, error) {
	if err := ValidateModuleName(name); err != nil {
		return 0, err
	}
	return g.NewModule(name), nil
}

// ModuleByName looks up a module by its declared name.
func (g *Graph) ModuleByName(name string) (ModuleRef, bool) {
	v, ok := g.byName.Load(name)
	if !ok {
		return 0, false
	}
	return v.(ModuleRef), true
}

func (g *Graph) module(ref ModuleRef) *Module {
	return g.modules.At(arena.Index(ref))
}

// Name returns a module's declared name.
func (g *Graph) Name(ref ModuleRef) string { return g.module(ref).Name }
