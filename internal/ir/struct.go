package ir

import "adeptc/internal/types"

// Ownership classifies how a function or global's symbol links, derived
// from the `foreign`/`exposed` annotation pair on the originating
// declaration (§6's consumed-from-upstream annotation set): a plain
// definition is Owned (internal linkage), one marked `exposed` is
// Exposed (external linkage, callable from other translation units or
// the final C link step), and one marked `foreign` has no body here at
// all and is a Reference to an externally-defined symbol.
type Ownership uint8

const (
	Owned Ownership = iota
	Exposed
	Reference
)

// NewOwnership mirrors SymbolOwnership::from_foreign_and_exposed: a
// foreign declaration is always a Reference regardless of exposed,
// since there is no local body to expose.
func NewOwnership(isForeign, isExposed bool) Ownership {
	switch {
	case isForeign:
		return Reference
	case isExposed:
		return Exposed
	default:
		return Owned
	}
}

// FieldProperties carries the per-field annotation bits relevant to
// layout and ABI, independent of the field's type.
type FieldProperties struct {
	IsThreadLocal bool
}

// Field is one struct field, per §6: "fields: [(type, properties, source)]".
type Field struct {
	Name       string
	Type       *types.Type
	Properties FieldProperties
}

// StructRef indexes the monomorphization cache's deduplicated structs.
type StructRef int

// Struct is a monomorphized IR struct, per §6: "(name, fields, is_packed)".
type Struct struct {
	Ref      StructRef
	Name     string
	Fields   []Field
	IsPacked bool
}

func (s *Struct) FieldIndex(name string) (int, bool) {
	for i, f := range s.Fields {
		if f.Name == name {
			return i, true
		}
	}
	return 0, false
}
