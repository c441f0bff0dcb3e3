package ir

import (
	"math/big"
	"testing"

	"adeptc/internal/recipe"
	"adeptc/internal/source"
	"adeptc/internal/target"
	"adeptc/internal/types"
)

func TestNewIntegerImmediateFits(t *testing.T) {
	imm, ok := NewIntegerImmediate(big.NewInt(127), 8, true)
	if !ok {
		t.Fatalf("expected 127 to fit in i8")
	}
	if imm.Bits != 8 || !imm.Signed {
		t.Fatalf("unexpected immediate: %+v", imm)
	}
}

func TestNewIntegerImmediateOverflow(t *testing.T) {
	if _, ok := NewIntegerImmediate(big.NewInt(128), 8, true); ok {
		t.Fatalf("expected 128 to overflow i8")
	}
	if _, ok := NewIntegerImmediate(big.NewInt(-1), 8, false); ok {
		t.Fatalf("expected -1 to overflow u8")
	}
	if _, ok := NewIntegerImmediate(big.NewInt(255), 8, false); !ok {
		t.Fatalf("expected 255 to fit in u8")
	}
}

func TestBuilderPushReferencesOwnPosition(t *testing.T) {
	i32 := types.Integer(32, true, source.Synthetic)
	b := NewBuilder("main", nil, i32)

	imm, ok := NewIntegerImmediate(big.NewInt(1), 32, true)
	if !ok {
		t.Fatalf("expected 1 to fit")
	}
	lhs := Lit(LInteger, i32)
	lhs.Int = imm
	v := b.Push(Instr{Kind: IAdd, ResultType: i32, Operands: []Value{lhs, lhs}})

	if v.Kind != VReference || v.Block != 0 || v.Instr != 0 {
		t.Fatalf("expected reference to (0,0), got %+v", v)
	}

	b.Push(Instr{Kind: IReturn, Operands: []Value{v}})
	fn := b.Finish(false, Owned, false, target.Triple{OS: target.Linux, Arch: target.X86_64})
	if len(fn.Blocks[0].Instrs) != 2 {
		t.Fatalf("expected 2 instructions in entry block, got %d", len(fn.Blocks[0].Instrs))
	}
	if !fn.Blocks[0].terminated() {
		t.Fatalf("expected entry block to be terminated by IReturn")
	}
	if fn.CallConv != 0 || fn.ArgRegisters != nil {
		t.Fatalf("expected no ABI metadata on a non-abide_abi function, got %+v / %v", fn.CallConv, fn.ArgRegisters)
	}
}

func TestFinishAttachesABIMetadataWhenAbideABI(t *testing.T) {
	i32 := types.Integer(32, true, source.Synthetic)
	b := NewBuilder("c_entry", []Param{{Name: "a", Type: i32}, {Name: "b", Type: i32}}, i32)
	b.Push(Instr{Kind: IReturn, Operands: []Value{Lit(LInteger, i32)}})

	fn := b.Finish(false, Owned, true, target.Triple{OS: target.Linux, Arch: target.X86_64})
	if fn.CallConv != target.SysVAMD64 {
		t.Fatalf("expected SysVAMD64 on linux/x86_64, got %s", fn.CallConv)
	}
	if len(fn.ArgRegisters) == 0 {
		t.Fatalf("expected non-empty ArgRegisters for an abide_abi function")
	}

	winFn := NewBuilder("win_entry", nil, i32).Finish(false, Owned, true, target.Triple{OS: target.Windows, Arch: target.X86_64})
	if winFn.CallConv != target.Win64 {
		t.Fatalf("expected Win64 on windows/x86_64, got %s", winFn.CallConv)
	}

	armFn := NewBuilder("arm_entry", nil, i32).Finish(false, Owned, true, target.Triple{OS: target.MacOS, Arch: target.AArch64})
	if armFn.CallConv != target.AAPCS64 {
		t.Fatalf("expected AAPCS64 on macos/aarch64, got %s", armFn.CallConv)
	}
	if armFn.ArgRegisters != nil {
		t.Fatalf("expected nil ArgRegisters for AAPCS64 (not part of x86asm's register set), got %v", armFn.ArgRegisters)
	}
}

func TestLowerShortCircuitAnd(t *testing.T) {
	boolT := types.Boolean(source.Synthetic)
	i32 := types.Integer(32, true, source.Synthetic)
	b := NewBuilder("f", nil, boolT)

	left := Lit(LBool, boolT)
	left.Bool = true

	phi := b.LowerShortCircuit(true, left, func(b *Builder) Value {
		// pretend to evaluate some right-hand comparison
		return b.Push(Instr{Kind: IEq, ResultType: boolT, Operands: []Value{Lit(LInteger, i32), Lit(LInteger, i32)}})
	}, boolT)

	if phi.Kind != VReference {
		t.Fatalf("expected phi to be a reference, got %+v", phi)
	}
	// entry, right, merge
	if len(b.fn.Blocks) != 3 {
		t.Fatalf("expected 3 blocks (entry/right/merge), got %d", len(b.fn.Blocks))
	}
	entry := b.fn.Blocks[0]
	if entry.Instrs[len(entry.Instrs)-1].Kind != IConditionalBreak {
		t.Fatalf("expected entry block to end in a conditional break")
	}
	mergeInstrs := b.fn.Blocks[2].Instrs
	if mergeInstrs[len(mergeInstrs)-1].Kind != IPhi {
		t.Fatalf("expected merge block to end in a phi")
	}
}

func TestStructCacheTranslatesOncePerRecipe(t *testing.T) {
	cache := NewStructCache()
	builds := 0
	build := func() *Struct {
		builds++
		return &Struct{Name: "Box"}
	}

	s1 := cache.Translate(7, recipe.Empty, build)
	s2 := cache.Translate(7, recipe.Empty, build)
	if s1 != s2 {
		t.Fatalf("expected same cached struct for identical (generic, recipe) pair")
	}
	if builds != 1 {
		t.Fatalf("expected build to run exactly once, ran %d times", builds)
	}

	catalog := recipe.NewCatalog()
	i32 := types.Integer(32, true, source.Synthetic)
	if !catalog.MatchType(types.Polymorph("T", nil, source.Synthetic), i32) {
		t.Fatalf("expected polymorph T to match i32")
	}
	r, err := catalog.Bake(nil, nil)
	if err != nil {
		t.Fatalf("unexpected bake error: %v", err)
	}

	s3 := cache.Translate(7, r, build)
	if s3 == s1 {
		t.Fatalf("expected a distinct struct for a different recipe")
	}
	if builds != 2 {
		t.Fatalf("expected build to run again for the new recipe, ran %d times", builds)
	}
}

func TestFuncCacheTranslatesOncePerRecipe(t *testing.T) {
	cache := NewFuncCache()
	builds := 0
	build := func() *Function {
		builds++
		return &Function{MangledName: "identity"}
	}

	f1 := cache.Translate(3, recipe.Empty, build)
	f2 := cache.Translate(3, recipe.Empty, build)
	if f1 != f2 || builds != 1 {
		t.Fatalf("expected a single cached function, got %d builds", builds)
	}
}

func TestOwnershipFromForeignAndExposed(t *testing.T) {
	cases := []struct {
		foreign, exposed bool
		want             Ownership
	}{
		{false, false, Owned},
		{false, true, Exposed},
		{true, false, Reference},
		{true, true, Reference},
	}
	for _, c := range cases {
		if got := NewOwnership(c.foreign, c.exposed); got != c.want {
			t.Errorf("NewOwnership(%v, %v) = %v, want %v", c.foreign, c.exposed, got, c.want)
		}
	}
}
