// Package recipe implements spec §3/§4.3.6's polymorph substitution
// machinery: a PolyCatalog that accumulates name -> value bindings while
// matching a call site against a polymorphic signature, and the frozen
// PolyRecipe produced once matching succeeds, which unalias and
// monomorphization (internal/ir) both consume.
package recipe

import (
	"fmt"
	"sort"

	"adeptc/internal/types"
)

// Value is one binding a polymorph name can resolve to. Spec §4.3.6 allows
// a recipe entry to be "a type, an expression, or an impl"; expressions
// and impls are represented opaquely here (as an `interface{}` payload
// produced by the resolver) since this package has no need to interpret
// them — it only needs to carry and compare them for consistency during
// matching.
type Value struct {
	Type  *types.Type
	Other interface{}
}

func typeValue(t *types.Type) Value { return Value{Type: t} }

func (v Value) equal(other Value) bool {
	if v.Type != nil || other.Type != nil {
		return types.Equal(v.Type, other.Type)
	}
	return v.Other == other.Other
}

// A PolyCatalog accumulates name -> Value bindings as they become known
// while matching a concrete type/argument list against a pattern
// containing Polymorph placeholders. It is not safe for concurrent use;
// each match attempt owns its own catalog.
type PolyCatalog struct {
	bindings map[string]Value
	order    []string
}

// NewCatalog returns an empty catalog.
func NewCatalog() *PolyCatalog {
	return &PolyCatalog{bindings: make(map[string]Value)}
}

// Bind records name -> value. If name was already bound to a different
// value, Bind reports a mismatch rather than overwriting it — per §4.3.6,
// "Inconsistent bindings = match failure."
func (c *PolyCatalog) Bind(name string, value Value) (ok bool) {
	if existing, seen := c.bindings[name]; seen {
		return existing.equal(value)
	}
	c.bindings[name] = value
	c.order = append(c.order, name)
	return true
}

// BindType is a convenience wrapper for the common case of binding a
// polymorph directly to a concrete Type.
func (c *PolyCatalog) BindType(name string, t *types.Type) bool {
	return c.Bind(name, typeValue(t))
}

// Lookup returns the value bound to name, if any.
func (c *PolyCatalog) Lookup(name string) (Value, bool) {
	v, ok := c.bindings[name]
	return v, ok
}

// MatchType recurses structurally over pattern, binding every Polymorph it
// finds against the corresponding position of concrete, per §4.3.6:
// "recurse structurally; each $T in the pattern either (a) unifies with a
// prior binding or (b) is added to the catalog." Returns false on any
// structural mismatch or inconsistent binding.
func (c *PolyCatalog) MatchType(pattern, concrete *types.Type) bool {
	if pattern == nil || concrete == nil {
		return pattern == concrete
	}
	if pattern.Kind.Tag == types.KPolymorph {
		return c.BindType(pattern.Kind.Name, concrete)
	}
	if pattern.Kind.Tag != concrete.Kind.Tag {
		return false
	}
	switch pattern.Kind.Tag {
	case types.KPointer:
		return c.MatchType(pattern.Kind.Elem, concrete.Kind.Elem)
	case types.KFixedArray:
		return pattern.Kind.Len == concrete.Kind.Len && c.MatchType(pattern.Kind.Elem, concrete.Kind.Elem)
	case types.KFuncPtr:
		if pattern.Kind.Variadic != concrete.Kind.Variadic || len(pattern.Kind.Params) != len(concrete.Kind.Params) {
			return false
		}
		for i := range pattern.Kind.Params {
			if !c.MatchType(pattern.Kind.Params[i], concrete.Kind.Params[i]) {
				return false
			}
		}
		return c.MatchType(pattern.Kind.Return, concrete.Kind.Return)
	case types.KStructure, types.KTypeAlias:
		if pattern.Kind.Name != concrete.Kind.Name || len(pattern.Kind.TypeArgs) != len(concrete.Kind.TypeArgs) {
			return false
		}
		for i := range pattern.Kind.TypeArgs {
			if !c.MatchType(pattern.Kind.TypeArgs[i], concrete.Kind.TypeArgs[i]) {
				return false
			}
		}
		return true
	default:
		return types.Equal(pattern, concrete)
	}
}

// ConstraintChecker validates that the value bound to a polymorph
// satisfies the trait constraints its declaration carried. It is supplied
// by the resolver (which owns trait/impl lookup) — recipe itself has no
// notion of what a trait is, only that bake-time checking is an optional
// hook, per SPEC_FULL.md's supplemented polymorph-constraint behavior.
type ConstraintChecker func(name string, value Value, constraints []string) error

// Bake freezes c into a PolyRecipe, optionally validating every binding
// against its declared constraints via check (pass nil to skip
// validation, matching callers — such as a bare structural match with no
// constraints declared — that have nothing to check).
func (c *PolyCatalog) Bake(constraintsByName map[string][]string, check ConstraintChecker) (*PolyRecipe, error) {
	if check != nil {
		for _, name := range c.order {
			if err := check(name, c.bindings[name], constraintsByName[name]); err != nil {
				return nil, err
			}
		}
	}
	frozen := make(map[string]Value, len(c.bindings))
	for k, v := range c.bindings {
		frozen[k] = v
	}
	return &PolyRecipe{bindings: frozen}, nil
}

// A PolyRecipe is the frozen, immutable mapping name -> value produced by
// PolyCatalog.Bake. It is consumed by unalias (internal/resolve) to
// substitute polymorphs appearing in an alias's `becomes` type, and by
// monomorphization (internal/ir) to key the cache of already-lowered
// generic instances.
type PolyRecipe struct {
	bindings map[string]Value
}

// Empty is the recipe with no bindings, used for non-generic entities.
var Empty = &PolyRecipe{}

// Lookup returns the value bound to name.
func (r *PolyRecipe) Lookup(name string) (Value, bool) {
	if r == nil {
		return Value{}, false
	}
	v, ok := r.bindings[name]
	return v, ok
}

// Substitute walks t, replacing every Polymorph(name) with the type bound
// to name in r. It panics if a polymorph has no binding — callers must
// only substitute with a recipe that was matched/baked against the exact
// declaration the type came from, which the resolver guarantees by
// construction (see internal/resolve's unalias and the lowerer's
// monomorphization entry points).
func (r *PolyRecipe) Substitute(t *types.Type) *types.Type {
	if t == nil {
		return nil
	}
	k := t.Kind
	switch k.Tag {
	case types.KPolymorph:
		v, ok := r.Lookup(k.Name)
		if !ok || v.Type == nil {
			panic(fmt.Sprintf("recipe: no binding for polymorph %q", k.Name))
		}
		return v.Type
	case types.KPointer:
		return types.Pointer(r.Substitute(k.Elem), t.Span)
	case types.KFixedArray:
		return types.FixedArray(k.Len, r.Substitute(k.Elem), t.Span)
	case types.KFuncPtr:
		params := make([]*types.Type, len(k.Params))
		for i, p := range k.Params {
			params[i] = r.Substitute(p)
		}
		return types.FuncPtr(params, r.Substitute(k.Return), k.Variadic, t.Span)
	case types.KStructure:
		args := substituteArgs(r, k.TypeArgs)
		return types.Structure(k.Name, k.Struct, args, t.Span)
	case types.KTypeAlias:
		args := substituteArgs(r, k.TypeArgs)
		return types.TypeAlias(k.Name, k.Alias, args, t.Span)
	default:
		return t
	}
}

func substituteArgs(r *PolyRecipe, args []*types.Type) []*types.Type {
	if len(args) == 0 {
		return args
	}
	out := make([]*types.Type, len(args))
	for i, a := range args {
		out[i] = r.Substitute(a)
	}
	return out
}

// Key returns a stable, comparable string identifying this recipe's exact
// set of bindings, used as the map key for monomorphization's
// (generic_ref, recipe) -> IR-entity cache (spec §8 invariant 7 requires
// this mapping produce exactly one IR entity per distinct pair).
func (r *PolyRecipe) Key() string {
	if r == nil || len(r.bindings) == 0 {
		return ""
	}
	names := make([]string, 0, len(r.bindings))
	for n := range r.bindings {
		names = append(names, n)
	}
	sort.Strings(names)
	key := ""
	for _, n := range names {
		v := r.bindings[n]
		part := n + "="
		if v.Type != nil {
			part += types.Render(v.Type)
		} else {
			part += fmt.Sprintf("%v", v.Other)
		}
		key += part + ";"
	}
	return key
}
