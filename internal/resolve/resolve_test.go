package resolve

import (
	"testing"

	"adeptc/internal/arena"
	"adeptc/internal/asg"
	"adeptc/internal/bigint"
	"adeptc/internal/diag"
	"adeptc/internal/modgraph"
	"adeptc/internal/source"
	"adeptc/internal/target"
	"adeptc/internal/types"
)

func newTestScope(t *testing.T) *Scope {
	t.Helper()
	g := modgraph.NewGraph()
	mod := g.NewModule("main")
	part := g.NewPart(mod, "main.adept")
	return &Scope{
		Graph:   g,
		Module:  mod,
		Part:    part,
		Structs: NewStructTable(),
		Aliases: NewAliasTable(),
		Globals: NewGlobalTable(),
		Layout:  target.Lookup(target.Triple{OS: target.Linux, Arch: target.X86_64}),
		Sink:    diag.NewSink(),
		Vars:    asg.NewVariableHaystack(),
		Storage: asg.NewVariableStorage(),
	}
}

func intLitExpr(v int64, span source.Span) *asg.Expr {
	bi := bigint.FromInt64(v)
	t := types.IntegerLiteral(bi, span)
	return &asg.Expr{Kind: asg.EIntegerLiteral, Type: t, Span: span, IntValue: bi}
}

func TestResolveTypeBuiltins(t *testing.T) {
	s := newTestScope(t)
	ty, ok := ResolveType(s, ASTType{Name: "i32"})
	if !ok || ty.Kind.Tag != types.KInteger || ty.Kind.Bits != 32 || !ty.Kind.Signed {
		t.Fatalf("ResolveType(i32) = (%v, %v)", ty, ok)
	}
	if _, ok := ResolveType(s, ASTType{Name: "nope"}); ok {
		t.Fatalf("expected NotFound for an undeclared type name")
	}
	if !s.Sink.HasErrors() {
		t.Fatalf("expected a NotFound diagnostic to be reported")
	}
}

func TestResolveTypeStructWithArgs(t *testing.T) {
	s := newTestScope(t)
	structRef := s.Structs.Define(&StructDef{Name: "Box"})
	head := modgraph.TypeHead{Name: "Box", Arity: 1, Ref: arena.Index(structRef), Category: modgraph.StructHead}
	s.Graph.AddSymbol(s.Module, s.Part, modgraph.Public, "Box", modgraph.TypeLike(head, modgraph.Public, s.Part))

	ty, ok := ResolveType(s, ASTType{Name: "Box", Args: []ASTType{{Name: "i32"}}})
	if !ok {
		t.Fatalf("ResolveType(Box<i32>) failed")
	}
	if ty.Kind.Tag != types.KStructure || len(ty.Kind.TypeArgs) != 1 || ty.Kind.TypeArgs[0].Kind.Tag != types.KInteger {
		t.Fatalf("unexpected resolved type: %#v", ty)
	}
}

func TestUnaliasSubstitutesTypeParams(t *testing.T) {
	s := newTestScope(t)
	becomes := types.Pointer(types.Polymorph("T", nil, source.Synthetic), source.Synthetic)
	ref := s.Aliases.Define(&types.AliasDef{Name: "Box", TypeParams: []string{"T"}, Becomes: becomes})

	alias := types.TypeAlias("Box", ref, []*types.Type{types.Integer(32, true, source.Synthetic)}, source.Synthetic)
	result, ok := Unalias(s, alias)
	if !ok {
		t.Fatalf("Unalias failed")
	}
	if result.Kind.Tag != types.KPointer || result.Kind.Elem.Kind.Tag != types.KInteger {
		t.Fatalf("expected Pointer(i32), got %s", result)
	}
}

func TestUnaliasArityMismatch(t *testing.T) {
	s := newTestScope(t)
	ref := s.Aliases.Define(&types.AliasDef{Name: "Box", TypeParams: []string{"T"}, Becomes: types.Void(source.Synthetic)})
	alias := types.TypeAlias("Box", ref, nil, source.Synthetic)

	if _, ok := Unalias(s, alias); ok {
		t.Fatalf("expected arity mismatch to fail")
	}
	if !s.Sink.HasErrors() {
		t.Fatalf("expected IncorrectNumberOfTypeArgs diagnostic")
	}
}

func TestConformIntegerLiteralFit(t *testing.T) {
	s := newTestScope(t)
	lit := intLitExpr(200, source.Synthetic)

	if _, ok := s.Conform(lit, lit.Type, types.Integer(8, true, source.Synthetic), Normal, Report); ok {
		t.Fatalf("200 should not fit in a signed 8-bit integer")
	}
	if _, ok := s.Conform(lit, lit.Type, types.Integer(8, false, source.Synthetic), Normal, Report); !ok {
		t.Fatalf("200 should fit in an unsigned 8-bit integer")
	}
	if _, ok := s.Conform(lit, lit.Type, types.Integer(8, true, source.Synthetic), ExplicitCast, Report); !ok {
		t.Fatalf("ExplicitCast should always succeed (truncating)")
	}
}

func TestConformIntegerWidening(t *testing.T) {
	s := newTestScope(t)
	i32 := types.Integer(32, true, source.Synthetic)
	i64 := types.Integer(64, true, source.Synthetic)
	e := &asg.Expr{Kind: asg.EVariableRef, Type: i32, Span: source.Synthetic}

	if _, ok := s.Conform(e, i32, i64, Normal, Report); !ok {
		t.Fatalf("i32 -> i64 should widen under Normal")
	}
	if _, ok := s.Conform(e, i64, i32, Normal, Report); ok {
		t.Fatalf("i64 -> i32 should not narrow under Normal")
	}
	if _, ok := s.Conform(e, i64, i32, ExplicitCast, Report); !ok {
		t.Fatalf("i64 -> i32 should narrow under ExplicitCast")
	}
}

func TestConformFloatRules(t *testing.T) {
	s := newTestScope(t)
	f32 := types.Floating(types.Bits32, source.Synthetic)
	f64 := types.Floating(types.Bits64, source.Synthetic)
	e := &asg.Expr{Kind: asg.EVariableRef, Type: f32, Span: source.Synthetic}

	if _, ok := s.Conform(e, f32, f64, Normal, Report); !ok {
		t.Fatalf("f32 -> f64 should succeed under Normal")
	}
	e64 := &asg.Expr{Kind: asg.EVariableRef, Type: f64, Span: source.Synthetic}
	if _, ok := s.Conform(e64, f64, f32, Normal, Report); ok {
		t.Fatalf("f64 -> f32 should fail under Normal")
	}
	if _, ok := s.Conform(e64, f64, f32, LossyFloat, Report); !ok {
		t.Fatalf("f64 -> f32 should succeed under LossyFloat")
	}
}

func TestConformPointerRules(t *testing.T) {
	s := newTestScope(t)
	i32 := types.Integer(32, true, source.Synthetic)
	voidT := types.Void(source.Synthetic)
	pI32 := types.Pointer(i32, source.Synthetic)
	pVoid := types.Pointer(voidT, source.Synthetic)
	e := &asg.Expr{Kind: asg.EVariableRef, Type: pI32, Span: source.Synthetic}

	if _, ok := s.Conform(e, pI32, pVoid, Normal, Report); !ok {
		t.Fatalf("Pointer(T) -> Pointer(Void) should succeed under Normal")
	}
	eVoid := &asg.Expr{Kind: asg.EVariableRef, Type: pVoid, Span: source.Synthetic}
	if _, ok := s.Conform(eVoid, pVoid, pI32, Normal, Report); ok {
		t.Fatalf("Pointer(Void) -> Pointer(T) should fail under Normal")
	}
	if _, ok := s.Conform(eVoid, pVoid, pI32, ExplicitCast, Report); !ok {
		t.Fatalf("Pointer(Void) -> Pointer(T) should succeed under ExplicitCast")
	}
}

func TestDefaultTypeLadder(t *testing.T) {
	s := newTestScope(t)
	small := types.IntegerLiteral(bigint.FromInt64(5), source.Synthetic)
	ty, ok := DefaultType(s, small)
	if !ok || ty.Kind.Tag != types.KInteger || ty.Kind.Bits != 32 || !ty.Kind.Signed {
		t.Fatalf("small literal should default to i32, got %v", ty)
	}

	huge := types.IntegerLiteral(bigint.FromUint64(1<<63), source.Synthetic)
	ty, ok = DefaultType(s, huge)
	if !ok || ty.Kind.Bits != 64 || ty.Kind.Signed {
		t.Fatalf("2^63 should default to u64, got %v", ty)
	}

	f := types.FloatLiteral(1.5, source.Synthetic)
	ty, ok = DefaultType(s, f)
	if !ok || ty.Kind.Tag != types.KFloating || ty.Kind.FloatBits != types.Bits64 {
		t.Fatalf("float literal should default to f64, got %v", ty)
	}
}

func TestUnifyIntegerJoin(t *testing.T) {
	s := newTestScope(t)
	i32 := types.Integer(32, true, source.Synthetic)
	i64 := types.Integer(64, true, source.Synthetic)
	a := &asg.Expr{Kind: asg.EVariableRef, Type: i32, Span: source.Synthetic}
	b := &asg.Expr{Kind: asg.EVariableRef, Type: i64, Span: source.Synthetic}

	joined, conformed, ok := s.Unify(nil, []*asg.Expr{a, b}, Report)
	if !ok || joined.Kind.Bits != 64 {
		t.Fatalf("expected join to widen to i64, got %v", joined)
	}
	if len(conformed) != 2 {
		t.Fatalf("expected both expressions conformed")
	}
}

func TestUnifyPreferredFastPath(t *testing.T) {
	s := newTestScope(t)
	i64 := types.Integer(64, true, source.Synthetic)
	lit := intLitExpr(5, source.Synthetic)

	joined, _, ok := s.Unify(i64, []*asg.Expr{lit}, Report)
	if !ok || !types.Equal(joined, i64) {
		t.Fatalf("preferred type should win when the literal conforms, got %v", joined)
	}
}

func TestResolveDeclareAssign(t *testing.T) {
	s := newTestScope(t)
	lit := intLitExpr(5, source.Synthetic)

	decl, ok := s.ResolveDeclareAssign("x", lit)
	if !ok {
		t.Fatalf("ResolveDeclareAssign failed")
	}
	if decl.Type.Kind.Tag != types.KInteger || decl.Type.Kind.Bits != 32 {
		t.Fatalf("expected x to default to i32, got %v", decl.Type)
	}

	ref, ok := s.ResolveVariableRef("x", Require, source.Synthetic)
	if !ok {
		t.Fatalf("x should be visible and initialized after declare-assign")
	}
	if !types.Equal(ref.Type, decl.Type) {
		t.Fatalf("variable ref type mismatch: %v vs %v", ref.Type, decl.Type)
	}
}

func TestResolveArrayAccess(t *testing.T) {
	s := newTestScope(t)
	elem := types.Integer(32, true, source.Synthetic)
	arr := &asg.Expr{Kind: asg.EVariableRef, Type: types.Pointer(elem, source.Synthetic), Span: source.Synthetic}
	idx := intLitExpr(0, source.Synthetic)

	access, ok := s.ResolveArrayAccess(arr, idx)
	if !ok {
		t.Fatalf("ResolveArrayAccess failed")
	}
	if access.Type.Kind.Tag != types.KInteger {
		t.Fatalf("expected element type i32, got %v", access.Type)
	}
}

func TestResolveArrayAccessRejectsNonPointer(t *testing.T) {
	s := newTestScope(t)
	notPointer := &asg.Expr{Kind: asg.EVariableRef, Type: types.Integer(32, true, source.Synthetic), Span: source.Synthetic}
	idx := intLitExpr(0, source.Synthetic)
	if _, ok := s.ResolveArrayAccess(notPointer, idx); ok {
		t.Fatalf("array access on a non-pointer should fail")
	}
}

func TestResolveMemberAccess(t *testing.T) {
	s := newTestScope(t)
	ref := s.Structs.Define(&StructDef{Name: "Point", Fields: []FieldDef{
		{Name: "x", Type: types.Integer(32, true, source.Synthetic), Privacy: modgraph.Public},
	}})
	structT := types.Structure("Point", ref, nil, source.Synthetic)
	base := &asg.Expr{Kind: asg.EVariableRef, Type: structT, Span: source.Synthetic}

	access, ok := s.ResolveMemberAccess(base, "x")
	if !ok || access.Type.Kind.Tag != types.KInteger {
		t.Fatalf("ResolveMemberAccess(x) = (%v, %v)", access, ok)
	}

	if _, ok := s.ResolveMemberAccess(base, "y"); ok {
		t.Fatalf("expected NotFound for a nonexistent field")
	}
}

func TestResolveShortCircuit(t *testing.T) {
	s := newTestScope(t)
	boolT := types.Boolean(source.Synthetic)
	left := &asg.Expr{Kind: asg.EBooleanLiteral, Type: boolT, Span: source.Synthetic, BoolValue: true}

	result, ok := s.ResolveShortCircuit(asg.LogicalAnd, left, func(inner *Scope) (*asg.Expr, bool) {
		return &asg.Expr{Kind: asg.EBooleanLiteral, Type: boolT, Span: source.Synthetic, BoolValue: false}, true
	})
	if !ok || result.Type.Kind.Tag != types.KBoolean {
		t.Fatalf("ResolveShortCircuit failed: %v, %v", result, ok)
	}
}

func TestMatchAndBakePolymorph(t *testing.T) {
	s := newTestScope(t)
	traits := NewTraitTable()
	traits.Declare("Comparable")

	pattern := types.Pointer(types.Polymorph("T", []string{"Comparable"}, source.Synthetic), source.Synthetic)
	concrete := types.Pointer(types.Integer(32, true, source.Synthetic), source.Synthetic)

	r, ok := s.MatchAndBake(traits, pattern, concrete, map[string][]string{"T": {"Comparable"}}, source.Synthetic)
	if !ok {
		t.Fatalf("MatchAndBake should succeed when the constraint is declared")
	}
	v, found := r.Lookup("T")
	if !found || !types.Equal(v.Type, types.Integer(32, true, source.Synthetic)) {
		t.Fatalf("expected T bound to i32, got %v", v)
	}
}

func TestMatchAndBakeRejectsUnsatisfiedConstraint(t *testing.T) {
	s := newTestScope(t)
	traits := NewTraitTable() // "Comparable" never declared

	pattern := types.Polymorph("T", []string{"Comparable"}, source.Synthetic)
	concrete := types.Integer(32, true, source.Synthetic)

	if _, ok := s.MatchAndBake(traits, pattern, concrete, map[string][]string{"T": {"Comparable"}}, source.Synthetic); ok {
		t.Fatalf("expected bake to fail for an undeclared constraint")
	}
	if !s.Sink.HasErrors() {
		t.Fatalf("expected a PolyConstraintUnsatisfied diagnostic")
	}
}
