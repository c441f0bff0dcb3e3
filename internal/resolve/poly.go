package resolve

import (
	"adeptc/internal/diag"
	"adeptc/internal/recipe"
	"adeptc/internal/source"
	"adeptc/internal/types"
)

// TraitTable is the arena-free registry of declared trait names a
// PolyConstraint check consults; traits are name-only here since this
// module's scope stops at "does a name resolve to a declared trait", not
// at verifying a concrete impl exists for it — full impl-selection is an
// Open Question left for the comptime/impl-resolution work SPEC_FULL.md
// stubs (see DESIGN.md).
type TraitTable struct {
	declared map[string]bool
}

func NewTraitTable() *TraitTable { return &TraitTable{declared: make(map[string]bool)} }

func (t *TraitTable) Declare(name string) { t.declared[name] = true }

func (t *TraitTable) Has(name string) bool { return t.declared[name] }

// MatchAndBake implements §4.3.6's matching + baking in one call: recurse
// structurally over pattern against concrete, accumulating a PolyCatalog,
// then bake it into a frozen PolyRecipe, validating every binding against
// its declared constraints (the supplemented "polymorph constraint
// checking" feature from original_source's polymorph/mod.rs).
func (s *Scope) MatchAndBake(traits *TraitTable, pattern, concrete *types.Type, constraintsByName map[string][]string, span source.Span) (*recipe.PolyRecipe, bool) {
	catalog := recipe.NewCatalog()
	if !catalog.MatchType(pattern, concrete) {
		s.Sink.Errorf(diag.Mismatch, span, "cannot match %s against pattern %s", concrete, pattern)
		return nil, false
	}

	check := func(name string, value recipe.Value, constraints []string) error {
		return s.checkConstraints(traits, name, value, constraints)
	}
	r, err := catalog.Bake(constraintsByName, check)
	if err != nil {
		s.Sink.Errorf(diag.PolyConstraintUnsatisfied, span, "%s", err)
		return nil, false
	}
	return r, true
}

func (s *Scope) checkConstraints(traits *TraitTable, name string, value recipe.Value, constraints []string) error {
	for _, c := range constraints {
		if !traits.Has(c) {
			return polyConstraintError{poly: name, trait: c}
		}
	}
	return nil
}

type polyConstraintError struct {
	poly, trait string
}

func (e polyConstraintError) Error() string {
	return "$" + e.poly + " does not satisfy constraint " + e.trait
}
