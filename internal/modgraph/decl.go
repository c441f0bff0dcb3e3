// Package modgraph implements spec §4.2: modules, module-parts, the three
// visibility channels (public/protected/private), wildcard-import
// closure, and symbol lookup with suspension on not-yet-defined names.
//
// The shape here is grounded on the teacher's own module/requirement
// graph package, cmd_local/go/internal/mvs: a Reqs-like interface
// (Required/Max) drives a parallel BFS worklist over a graph whose nodes
// are opaque path-keyed vertices (module.Version there, ModuleRef here).
// internal/modgraph's wildcard closure (wildcard.go) is the same BFS
// shape with modules standing in for mvs's module versions.
package modgraph

import (
	"adeptc/internal/arena"
	"adeptc/internal/source"
	"adeptc/internal/types"
)

// Privacy is the visibility a declaration was inserted with, per §4.2.
type Privacy uint8

const (
	Public Privacy = iota
	Protected
	Private
)

func (p Privacy) String() string {
	switch p {
	case Public:
		return "public"
	case Protected:
		return "protected"
	case Private:
		return "private"
	default:
		return "?"
	}
}

// DeclKind discriminates the DeclHead union of spec §3.
type DeclKind uint8

const (
	TypeLikeDecl DeclKind = iota
	FuncLikeDecl
	ValueLikeDecl
)

// TypeHead carries what a type-like declaration's name resolves to before
// its body is resolved: just enough to answer arity/kind questions during
// lookup, per §3's "A TypeHead carries name, arity, and origin."
type TypeHead struct {
	Name   string
	Arity  int
	Origin source.Span
	// Ref is the arena index of the not-yet-or-already-resolved struct,
	// enum, or alias this head stands for; which arena it indexes into is
	// determined by Category.
	Ref      arena.Index
	Category TypeHeadCategory
}

type TypeHeadCategory uint8

const (
	StructHead TypeHeadCategory = iota
	EnumHead
	AliasHead
	TraitHead
)

// FuncHead carries a function declaration's signature, per §3: "A
// FuncHead carries parameters and return type."
type FuncHead struct {
	Name       string
	Params     []*types.Type
	Variadic   bool
	CVariadic  bool // C-style `...` tail, distinct from a typed variadic tail
	Return     *types.Type
	Origin     source.Span
	Ref        arena.Index
	TypeParams []string // names of polymorphs this function is generic over
}

// RequiredArity reports the number of parameters a call must supply at
// minimum — every Params entry, since this model has no default
// arguments; C-style variadics permit (but do not require) more.
func (h FuncHead) RequiredArity() int { return len(h.Params) }

// DeclHead is the union spec §3 defines: "one of TypeLike(TypeHead),
// FuncLike(FuncHead), ValueLike(ref)."
type DeclHead struct {
	Kind    DeclKind
	Type    TypeHead
	Func    FuncHead
	ValueOf arena.Index // meaningful when Kind == ValueLikeDecl
	Name    string
	Privacy Privacy
	// Part is the module part that inserted this declaration, needed to
	// enforce invariant 5 of spec §8: lookup from part P never returns a
	// private symbol belonging to a different part.
	Part PartRef
}

func TypeLike(head TypeHead, privacy Privacy, part PartRef) DeclHead {
	return DeclHead{Kind: TypeLikeDecl, Type: head, Name: head.Name, Privacy: privacy, Part: part}
}

func FuncLike(head FuncHead, privacy Privacy, part PartRef) DeclHead {
	return DeclHead{Kind: FuncLikeDecl, Func: head, Name: head.Name, Privacy: privacy, Part: part}
}

func ValueLike(name string, ref arena.Index, privacy Privacy, part PartRef) DeclHead {
	return DeclHead{Kind: ValueLikeDecl, Name: name, ValueOf: ref, Privacy: privacy, Part: part}
}

// DeclHeadSet is the ordered result of a symbol search: spec §4.2 requires
// "the union of matches ... preserving insertion order within each
// channel." It is a plain slice; channel order (private, protected,
// public, wildcard) is enforced by the order Lookup (symtab.go) appends
// each channel's matches in.
type DeclHeadSet []DeclHead

// Ambiguous reports whether this result set contains more than one
// candidate, the condition that makes a lookup return an Ambiguous
// diagnostic per §7.
func (s DeclHeadSet) Ambiguous() bool { return len(s) > 1 }

// Found reports whether the search found anything at all.
func (s DeclHeadSet) Found() bool { return len(s) > 0 }
