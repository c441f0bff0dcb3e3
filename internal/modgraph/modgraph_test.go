package modgraph

import (
	"testing"

	"adeptc/internal/source"
	"adeptc/internal/types"
)

func typeDecl(name string, arity int) DeclHead {
	return TypeLike(TypeHead{Name: name, Arity: arity, Origin: source.Synthetic}, Public, 0)
}

func TestLookupFindsPrivateOnlyInOwningPart(t *testing.T) {
	g := NewGraph()
	mod := g.NewModule("m")
	partA := g.NewPart(mod, "a.adept")
	partB := g.NewPart(mod, "b.adept")

	g.AddSymbol(mod, partA, Private, "Secret", typeDecl("Secret", 0))

	constraint := LookupConstraint{Kind: TypeLikeDecl, TypeArity: 0}
	if !g.Lookup(mod, partA, "Secret", constraint).Found() {
		t.Fatalf("owning part should see its own private symbol")
	}
	if g.Lookup(mod, partB, "Secret", constraint).Found() {
		t.Fatalf("a different part must never see another part's private symbol")
	}
}

func TestLookupChannelPrecedenceOrder(t *testing.T) {
	g := NewGraph()
	mod := g.NewModule("m")
	part := g.NewPart(mod, "a.adept")

	constraint := LookupConstraint{Kind: TypeLikeDecl, TypeArity: 0}

	g.AddSymbol(mod, part, Public, "T", typeDecl("T", 0))
	g.AddSymbol(mod, part, Protected, "T", typeDecl("T", 0))
	g.AddSymbol(mod, part, Private, "T", typeDecl("T", 0))

	result := g.Lookup(mod, part, "T", constraint)
	if len(result) != 3 {
		t.Fatalf("expected 3 candidates across channels, got %d", len(result))
	}
	if result[0].Privacy != Private || result[1].Privacy != Protected || result[2].Privacy != Public {
		t.Fatalf("channel order should be private, protected, public; got %v, %v, %v",
			result[0].Privacy, result[1].Privacy, result[2].Privacy)
	}
}

func TestAmbiguousLookupAcrossWildcardImports(t *testing.T) {
	g := NewGraph()
	modM := g.NewModule("M")
	modN := g.NewModule("N")
	modP := g.NewModule("P")
	partM := g.NewPart(modM, "m.adept")
	partN := g.NewPart(modN, "n.adept")
	partP := g.NewPart(modP, "p.adept")

	constraint := LookupConstraint{Kind: TypeLikeDecl, TypeArity: 0}

	g.AddSymbol(modM, partM, Public, "T", typeDecl("T", 0))
	g.AddSymbol(modN, partN, Public, "T", typeDecl("T", 0))

	// Part of P wildcard-imports both M and N.
	g.AddPrivateWildcard(modP, partP, modM, nil)
	g.AddPrivateWildcard(modP, partP, modN, nil)

	result := g.Lookup(modP, partP, "T", constraint)
	if !result.Ambiguous() {
		t.Fatalf("importing two modules that both export public T should be ambiguous, got %d candidates", len(result))
	}
}

func TestWildcardClosureTransitivity(t *testing.T) {
	g := NewGraph()
	a := g.NewModule("A")
	b := g.NewModule("B")
	c := g.NewModule("C")
	partA := g.NewPart(a, "a.adept")

	// A privately wildcard-imports B; B publicly wildcard-imports C.
	g.AddPrivateWildcard(a, partA, b, nil)
	g.AddPublicWildcard(b, c, nil)

	closure := g.WildcardClosure(a, partA)
	found := map[ModuleRef]bool{}
	for _, m := range closure {
		found[m] = true
	}
	if !found[b] {
		t.Fatalf("closure should include directly wildcard-imported module B")
	}
	if !found[c] {
		t.Fatalf("closure should transitively include C via B's public wildcard")
	}
}

func TestWildcardClosureDoesNotFollowPrivateOfReachedModule(t *testing.T) {
	g := NewGraph()
	a := g.NewModule("A")
	b := g.NewModule("B")
	c := g.NewModule("C")
	partA := g.NewPart(a, "a.adept")
	partB := g.NewPart(b, "b.adept")

	g.AddPrivateWildcard(a, partA, b, nil)
	// B's part-private wildcard to C should NOT be visible to A's closure;
	// only B's own protected/public wildcards propagate outward.
	g.AddPrivateWildcard(b, partB, c, nil)

	closure := g.WildcardClosure(a, partA)
	for _, m := range closure {
		if m == c {
			t.Fatalf("closure must not follow a reached module's private wildcard imports")
		}
	}
}

func TestPendingSearchWakesOnInsertion(t *testing.T) {
	g := NewGraph()
	mod := g.NewModule("m")
	part := g.NewPart(mod, "a.adept")

	woken := make(chan struct{}, 1)
	register := g.AwaitSymbol(mod, "Later")
	register(func() { woken <- struct{}{} })

	select {
	case <-woken:
		t.Fatalf("wake fired before symbol was ever inserted")
	default:
	}

	g.AddSymbol(mod, part, Public, "Later", typeDecl("Later", 0))

	select {
	case <-woken:
	default:
		t.Fatalf("wake should fire once the symbol is inserted")
	}
}

func TestFuncLikeConstraintAdmitsVarargs(t *testing.T) {
	g := NewGraph()
	mod := g.NewModule("m")
	part := g.NewPart(mod, "a.adept")

	head := FuncHead{
		Name:      "printf",
		Params:    []*types.Type{types.Pointer(types.CInteger(0, true, true, source.Synthetic), source.Synthetic)},
		CVariadic: true,
	}
	g.AddSymbol(mod, part, Public, "printf", FuncLike(head, Public, part))

	constraint := LookupConstraint{
		Kind: FuncLikeDecl,
		FuncArgTypes: []*types.Type{
			types.Pointer(types.CInteger(0, true, true, source.Synthetic), source.Synthetic),
			types.Integer(32, true, source.Synthetic),
			types.Integer(32, true, source.Synthetic),
		},
	}
	if !g.Lookup(mod, part, "printf", constraint).Found() {
		t.Fatalf("a C-variadic head should admit more arguments than its required arity")
	}
}

func TestValidateModuleName(t *testing.T) {
	if err := ValidateModuleName("std.io"); err != nil {
		t.Fatalf("unexpected error for a valid dotted module name: %v", err)
	}
	if err := ValidateModuleName("/leading/slash"); err == nil {
		t.Fatalf("expected an error for a module name with a leading slash")
	}
	if err := ValidateModuleName(""); err == nil {
		t.Fatalf("expected an error for an empty module name")
	}
}
