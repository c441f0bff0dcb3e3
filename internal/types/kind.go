// Package types defines the Type/TypeKind data model of spec §3 and the
// operations (unalias, conform-table lookups) that stay close to the type
// representation itself. Everything that needs a Session (symbol lookup,
// task scheduling) lives in internal/resolve instead, to keep this package
// usable from the lowerer and the arena-indexed struct/enum tables without
// a dependency cycle back onto the resolver.
//
// The pattern — a tagged union Kind plus a thin wrapper carrying a source
// location, with String()/Format() delegating to a pluggable formatter —
// mirrors cmd_local/compile/internal/types.Type in the teacher, which is
// also "(kind data, *src.PosBase)" dressed up with a Format method rather
// than a hand-rolled switch at every print site.
package types

import (
	"fmt"

	"adeptc/internal/arena"
	"adeptc/internal/source"
	"adeptc/internal/target"
)

// KindTag discriminates the TypeKind union.
type KindTag uint8

const (
	KBoolean KindTag = iota
	KInteger
	KCInteger
	KSizeInteger
	KFloating
	KPointer
	KFixedArray
	KFuncPtr
	KVoid
	KNever
	KStructure
	KEnum
	KTypeAlias
	KPolymorph
	KIntegerLiteral
	KFloatLiteral
)

func (k KindTag) String() string {
	switch k {
	case KBoolean:
		return "bool"
	case KInteger:
		return "Integer"
	case KCInteger:
		return "CInteger"
	case KSizeInteger:
		return "SizeInteger"
	case KFloating:
		return "Floating"
	case KPointer:
		return "Pointer"
	case KFixedArray:
		return "FixedArray"
	case KFuncPtr:
		return "FuncPtr"
	case KVoid:
		return "void"
	case KNever:
		return "never"
	case KStructure:
		return "Structure"
	case KEnum:
		return "Enum"
	case KTypeAlias:
		return "TypeAlias"
	case KPolymorph:
		return "Polymorph"
	case KIntegerLiteral:
		return "IntegerLiteral"
	case KFloatLiteral:
		return "FloatLiteral"
	default:
		return "?"
	}
}

// FloatBits distinguishes the two floating kinds spec §3 allows.
type FloatBits uint8

const (
	Bits32 FloatBits = 32
	Bits64 FloatBits = 64
)

// StructRef, EnumRef, and AliasRef are stable arena indices into the
// tables the resolver and module graph own (internal/modgraph), kept as
// distinct named types so a Type can never be built by accidentally
// passing one arena's index where another's belongs.
type StructRef arena.Index
type EnumRef arena.Index
type AliasRef arena.Index

// TypeKind is the tagged union spec §3 defines. Exactly one of the
// payload fields is meaningful, selected by Tag; this mirrors how the
// teacher's types.Type keeps every kind's extra data behind a single
// *Extra pointer rather than one struct field per kind; we use named
// fields instead for clarity given Go's lack of real sum types, but only
// ever populate the one the constructors below use.
type TypeKind struct {
	Tag KindTag

	// KInteger / KCInteger
	Bits   int // for KInteger: 8/16/32/64. Unused for KCInteger (layout-dependent, see CRank).
	Rank   target.CRank
	Signed bool
	HasSign bool // for CInteger: whether a signedness was specified at all

	// KFloating
	FloatBits FloatBits

	// KPointer / KFixedArray
	Elem *Type

	// KFixedArray
	Len int64

	// KFuncPtr
	Params   []*Type
	Return   *Type
	Variadic bool

	// KStructure / KEnum / KTypeAlias
	Name     string
	Struct   StructRef
	Enum     EnumRef
	Alias    AliasRef
	TypeArgs []*Type

	// KPolymorph
	Constraints []string

	// KIntegerLiteral
	IntValue IntValue

	// KFloatLiteral
	FloatValue float64
}

// IntValue is the payload of an IntegerLiteral: an arbitrary-precision
// value that has not yet been defaulted or conformed to a concrete width.
// It is defined with a narrow interface rather than importing
// internal/bigint's *big.Int type directly into every switch, so code
// that only compares kinds (not literal values) does not need to reason
// about big.Int aliasing.
type IntValue interface {
	Sign() int
	String() string
}

// Type pairs a TypeKind with the source location it was written at (or
// the zero Span for a synthetic type), per spec §3: "A Type is the pair
// (kind, source-location)."
type Type struct {
	Kind TypeKind
	Span source.Span
}

func newType(k TypeKind, span source.Span) *Type {
	return &Type{Kind: k, Span: span}
}

// Constructors. Each returns a *Type at the given span; pass
// source.Synthetic for compiler-introduced types (defaulted literals,
// implicit casts, monomorphization instances).

func Boolean(span source.Span) *Type { return newType(TypeKind{Tag: KBoolean}, span) }

func Integer(bits int, signed bool, span source.Span) *Type {
	return newType(TypeKind{Tag: KInteger, Bits: bits, Signed: signed}, span)
}

// CInteger builds a C-compatible loose integer kind. hasSign is false for
// a bare `char`-family rank with no explicit signed/unsigned qualifier,
// whose effective signedness is resolved per-target via Layout.CharIsUnsigned.
func CInteger(rank target.CRank, signed bool, hasSign bool, span source.Span) *Type {
	return newType(TypeKind{Tag: KCInteger, Rank: rank, Signed: signed, HasSign: hasSign}, span)
}

func SizeInteger(signed bool, span source.Span) *Type {
	return newType(TypeKind{Tag: KSizeInteger, Signed: signed}, span)
}

func Floating(bits FloatBits, span source.Span) *Type {
	return newType(TypeKind{Tag: KFloating, FloatBits: bits}, span)
}

func Pointer(elem *Type, span source.Span) *Type {
	return newType(TypeKind{Tag: KPointer, Elem: elem}, span)
}

func FixedArray(length int64, elem *Type, span source.Span) *Type {
	return newType(TypeKind{Tag: KFixedArray, Len: length, Elem: elem}, span)
}

func FuncPtr(params []*Type, ret *Type, variadic bool, span source.Span) *Type {
	return newType(TypeKind{Tag: KFuncPtr, Params: params, Return: ret, Variadic: variadic}, span)
}

func Void(span source.Span) *Type { return newType(TypeKind{Tag: KVoid}, span) }
func Never(span source.Span) *Type { return newType(TypeKind{Tag: KNever}, span) }

func Structure(name string, ref StructRef, args []*Type, span source.Span) *Type {
	return newType(TypeKind{Tag: KStructure, Name: name, Struct: ref, TypeArgs: args}, span)
}

func Enum(name string, ref EnumRef, span source.Span) *Type {
	return newType(TypeKind{Tag: KEnum, Name: name, Enum: ref}, span)
}

func TypeAlias(name string, ref AliasRef, args []*Type, span source.Span) *Type {
	return newType(TypeKind{Tag: KTypeAlias, Name: name, Alias: ref, TypeArgs: args}, span)
}

func Polymorph(name string, constraints []string, span source.Span) *Type {
	return newType(TypeKind{Tag: KPolymorph, Name: name, Constraints: constraints}, span)
}

func IntegerLiteral(v IntValue, span source.Span) *Type {
	return newType(TypeKind{Tag: KIntegerLiteral, IntValue: v}, span)
}

func FloatLiteral(v float64, span source.Span) *Type {
	return newType(TypeKind{Tag: KFloatLiteral, FloatValue: v}, span)
}

// IsLiteral reports whether t is one of the two "unspecialized" literal
// kinds spec §3 says must never reach the lowerer (invariant 2 of §8).
func (t *Type) IsLiteral() bool {
	return t.Kind.Tag == KIntegerLiteral || t.Kind.Tag == KFloatLiteral
}

// Equal reports structural equality of two types, ignoring source spans —
// used by the unifier's "same type" fast path and by monomorphization
// cache keys (see internal/ir).
func Equal(a, b *Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind.Tag != b.Kind.Tag {
		return false
	}
	ak, bk := a.Kind, b.Kind
	switch ak.Tag {
	case KBoolean, KVoid, KNever:
		return true
	case KInteger:
		return ak.Bits == bk.Bits && ak.Signed == bk.Signed
	case KCInteger:
		return ak.Rank == bk.Rank && ak.HasSign == bk.HasSign && (!ak.HasSign || ak.Signed == bk.Signed)
	case KSizeInteger:
		return ak.Signed == bk.Signed
	case KFloating:
		return ak.FloatBits == bk.FloatBits
	case KPointer:
		return Equal(ak.Elem, bk.Elem)
	case KFixedArray:
		return ak.Len == bk.Len && Equal(ak.Elem, bk.Elem)
	case KFuncPtr:
		if ak.Variadic != bk.Variadic || len(ak.Params) != len(bk.Params) || !Equal(ak.Return, bk.Return) {
			return false
		}
		for i := range ak.Params {
			if !Equal(ak.Params[i], bk.Params[i]) {
				return false
			}
		}
		return true
	case KStructure:
		return ak.Struct == bk.Struct && equalArgs(ak.TypeArgs, bk.TypeArgs)
	case KEnum:
		return ak.Enum == bk.Enum
	case KTypeAlias:
		return ak.Alias == bk.Alias && equalArgs(ak.TypeArgs, bk.TypeArgs)
	case KPolymorph:
		return ak.Name == bk.Name
	default:
		return false
	}
}

func equalArgs(a, b []*Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

func (t *Type) String() string {
	return Render(t)
}

// Format implements fmt.Formatter, delegating to Render the same way
// types.Type.Format delegates to tconv in the teacher: one rendering path
// shared by %v, %s, and error messages.
func (t *Type) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v', 's':
		fmt.Fprint(s, Render(t))
	default:
		fmt.Fprintf(s, "%%!%c(types.Type)", verb)
	}
}
