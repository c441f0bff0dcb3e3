package recipe

import (
	"errors"
	"testing"

	"adeptc/internal/source"
	"adeptc/internal/types"
)

func TestMatchTypeBindsPolymorph(t *testing.T) {
	c := NewCatalog()
	pattern := types.Polymorph("T", nil, source.Synthetic)
	concrete := types.Integer(32, true, source.Synthetic)

	if !c.MatchType(pattern, concrete) {
		t.Fatalf("MatchType should succeed binding $T to i32")
	}
	v, ok := c.Lookup("T")
	if !ok || !types.Equal(v.Type, concrete) {
		t.Fatalf("Lookup(T) = %+v, ok=%v", v, ok)
	}
}

func TestMatchTypeInconsistentBindingFails(t *testing.T) {
	c := NewCatalog()
	pattern := types.FuncPtr(
		[]*types.Type{types.Polymorph("T", nil, source.Synthetic), types.Polymorph("T", nil, source.Synthetic)},
		types.Void(source.Synthetic), false, source.Synthetic)
	concrete := types.FuncPtr(
		[]*types.Type{types.Integer(32, true, source.Synthetic), types.Integer(64, true, source.Synthetic)},
		types.Void(source.Synthetic), false, source.Synthetic)

	if c.MatchType(pattern, concrete) {
		t.Fatalf("two occurrences of $T bound to different concrete types should fail to match")
	}
}

func TestMatchTypeStructurallyRecursesPointer(t *testing.T) {
	c := NewCatalog()
	pattern := types.Pointer(types.Polymorph("T", nil, source.Synthetic), source.Synthetic)
	concrete := types.Pointer(types.Integer(8, false, source.Synthetic), source.Synthetic)

	if !c.MatchType(pattern, concrete) {
		t.Fatalf("pointer-to-polymorph should match pointer-to-concrete")
	}
	v, _ := c.Lookup("T")
	if !types.Equal(v.Type, types.Integer(8, false, source.Synthetic)) {
		t.Fatalf("T bound to %v, want u8", v.Type)
	}
}

func TestBakeRunsConstraintChecker(t *testing.T) {
	c := NewCatalog()
	c.BindType("T", types.Boolean(source.Synthetic))

	calls := 0
	check := func(name string, value Value, constraints []string) error {
		calls++
		if name == "T" && len(constraints) > 0 && constraints[0] == "Numeric" {
			return errors.New("bool does not satisfy Numeric")
		}
		return nil
	}

	_, err := c.Bake(map[string][]string{"T": {"Numeric"}}, check)
	if err == nil {
		t.Fatalf("expected constraint violation error")
	}
	if calls != 1 {
		t.Fatalf("constraint checker called %d times, want 1", calls)
	}
}

func TestSubstituteReplacesPolymorphsRecursively(t *testing.T) {
	c := NewCatalog()
	c.BindType("T", types.Integer(64, true, source.Synthetic))
	r, err := c.Bake(nil, nil)
	if err != nil {
		t.Fatalf("Bake: %v", err)
	}

	pattern := types.Pointer(types.FixedArray(4, types.Polymorph("T", nil, source.Synthetic), source.Synthetic), source.Synthetic)
	got := r.Substitute(pattern)

	want := types.Pointer(types.FixedArray(4, types.Integer(64, true, source.Synthetic), source.Synthetic), source.Synthetic)
	if !types.Equal(got, want) {
		t.Fatalf("Substitute = %v, want %v", got, want)
	}
}

func TestRecipeKeyIsOrderIndependent(t *testing.T) {
	c1 := NewCatalog()
	c1.BindType("T", types.Integer(32, true, source.Synthetic))
	c1.BindType("U", types.Boolean(source.Synthetic))
	r1, _ := c1.Bake(nil, nil)

	c2 := NewCatalog()
	c2.BindType("U", types.Boolean(source.Synthetic))
	c2.BindType("T", types.Integer(32, true, source.Synthetic))
	r2, _ := c2.Bake(nil, nil)

	if r1.Key() != r2.Key() {
		t.Fatalf("Key() should not depend on bind order: %q vs %q", r1.Key(), r2.Key())
	}
}

func TestEmptyRecipeKeyIsEmptyString(t *testing.T) {
	if Empty.Key() != "" {
		t.Fatalf("Empty.Key() = %q, want empty", Empty.Key())
	}
}
