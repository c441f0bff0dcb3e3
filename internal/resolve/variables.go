package resolve

import (
	"adeptc/internal/arena"
	"adeptc/internal/asg"
	"adeptc/internal/modgraph"
)

// DefineGlobal implements the supplemented "global variable resolution
// ordering" feature (SPEC_FULL.md): a global is inserted into the module
// graph's symbol table exactly the way a function would be (ValueLike),
// so that a reference to it resolves lazily through the same pending/
// suspend mechanism as any other name — there is no separate eager
// pre-pass over globals before functions resolve.
func (s *Scope) DefineGlobal(name string, def *GlobalDef, privacy modgraph.Privacy) asg.GlobalRef {
	ref := s.Globals.Define(def)
	s.Graph.AddSymbol(s.Module, s.Part, privacy, name, modgraph.ValueLike(name, arena.Index(ref), privacy, s.Part))
	return ref
}

// lookupGlobal searches the module graph for a ValueLike declaration
// named name, per §4.3.5's "then GlobalVariable table" step of variable
// reference resolution.
func (s *Scope) lookupGlobal(name string) (*GlobalDef, asg.GlobalRef, bool) {
	result := s.Graph.Lookup(s.Module, s.Part, name, modgraph.LookupConstraint{Kind: modgraph.ValueLikeDecl})
	if !result.Found() {
		return nil, 0, false
	}
	ref := asg.GlobalRef(result[0].ValueOf)
	return s.Globals.Get(ref), ref, true
}
