package ir

import "adeptc/internal/recipe"

// monoKey identifies one monomorphization: a generic declaration plus
// the concrete bindings substituted into it. Two requests for the same
// generic with recipes that stringify identically (PolyRecipe.Key(),
// §4.3.6) must produce the same IR definition exactly once.
type monoKey struct {
	generic int
	recipe  string
}

// StructCache memoizes Structs::translate: translating the same generic
// struct under the same PolyRecipe always returns the same StructRef, so
// a function instantiated twice with the same type arguments shares one
// struct layout instead of duplicating it.
type StructCache struct {
	byKey   map[monoKey]StructRef
	structs []*Struct
}

func NewStructCache() *StructCache {
	return &StructCache{byKey: make(map[monoKey]StructRef)}
}

// Translate returns the cached Struct for (genericRef, r), building it
// via build only on first request. genericRef identifies the ASG struct
// definition being monomorphized (an arena index from the generic
// definition table); build receives no arguments because by the time
// Translate is called, the caller already has everything (the generic
// definition plus the baked recipe) in scope to construct the Struct.
func (c *StructCache) Translate(genericRef int, r *recipe.PolyRecipe, build func() *Struct) *Struct {
	key := monoKey{generic: genericRef, recipe: recipeKey(r)}
	if ref, ok := c.byKey[key]; ok {
		return c.structs[ref]
	}
	s := build()
	ref := StructRef(len(c.structs))
	s.Ref = ref
	c.structs = append(c.structs, s)
	c.byKey[key] = ref
	return s
}

func (c *StructCache) Get(ref StructRef) *Struct { return c.structs[ref] }

// FuncCache is the Function-side twin of StructCache, keyed the same
// way: one monomorphized Function per distinct (generic function,
// PolyRecipe) pair.
type FuncCache struct {
	byKey map[monoKey]FuncRef
	funcs []*Function
}

func NewFuncCache() *FuncCache {
	return &FuncCache{byKey: make(map[monoKey]FuncRef)}
}

func (c *FuncCache) Translate(genericRef int, r *recipe.PolyRecipe, build func() *Function) *Function {
	key := monoKey{generic: genericRef, recipe: recipeKey(r)}
	if ref, ok := c.byKey[key]; ok {
		return c.funcs[ref]
	}
	f := build()
	ref := FuncRef(len(c.funcs))
	f.Ref = ref
	c.funcs = append(c.funcs, f)
	c.byKey[key] = ref
	return f
}

func (c *FuncCache) Get(ref FuncRef) *Function { return c.funcs[ref] }

func recipeKey(r *recipe.PolyRecipe) string {
	if r == nil {
		return ""
	}
	return r.Key()
}
