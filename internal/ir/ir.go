// Package ir implements spec §4.4's Lowerer output: an SSA-like
// intermediate representation of monomorphized functions and structs,
// each function a sequence of basic blocks, each block a sequence of
// instructions referring to earlier instructions by (block_id, instr_id).
//
// The shape — a flat per-function slice of blocks, each a flat slice of
// instructions, values referenced by a (block, instr) pair rather than a
// pointer — follows the teacher's own append-and-return-handle idiom for
// building an instruction list (cmd_local/compile/internal/riscv64/ggen.go's
// use of gc.Progs.Appendpp), generalized from appending *obj.Prog nodes to
// a linked list to appending Instr values to a slice and handing back a
// small integer-indexed handle instead of a pointer — which is what makes
// monomorphization's translate-and-cache step (mono.go) cheap to key and
// compare.
package ir

import (
	"math/big"

	"adeptc/internal/types"
)

// BlockID indexes a Function's Blocks slice.
type BlockID int

// InstrID indexes one BasicBlock's Instrs slice.
type InstrID int

// ValueKind discriminates the two forms an IR value can take, per §4.4:
// "Each IR value is Literal(constant) | Reference(block, instr)."
type ValueKind uint8

const (
	VLiteral ValueKind = iota
	VReference
)

// LiteralKind discriminates the constant forms §4.4 lists: "boolean,
// bit-sized signed/unsigned integer immediates, floats, Zeroed(type), and
// C-strings."
type LiteralKind uint8

const (
	LBool LiteralKind = iota
	LInteger
	LFloat
	LZeroed
	LCString
)

// IntegerImmediate is a bit-sized, signed or unsigned integer constant
// already known to fit, per §4.4: "The integer-fit check
// IntegerImmediate::new(value, bits) returns None if the constant does
// not fit; the caller reports a diagnostic."
type IntegerImmediate struct {
	Value  *big.Int
	Bits   int
	Signed bool
}

// NewIntegerImmediate implements IntegerImmediate::new: it returns
// (imm, true) if value fits in bits/signed, else (zero, false) so the
// caller can report a diagnostic rather than silently truncating.
func NewIntegerImmediate(value *big.Int, bits int, signed bool) (IntegerImmediate, bool) {
	if !fits(value, bits, signed) {
		return IntegerImmediate{}, false
	}
	return IntegerImmediate{Value: value, Bits: bits, Signed: signed}, true
}

func fits(v *big.Int, bits int, signed bool) bool {
	if signed {
		half := new(big.Int).Lsh(big.NewInt(1), uint(bits-1))
		min := new(big.Int).Neg(half)
		max := new(big.Int).Sub(half, big.NewInt(1))
		return v.Cmp(min) >= 0 && v.Cmp(max) <= 0
	}
	if v.Sign() < 0 {
		return false
	}
	max := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(bits)), big.NewInt(1))
	return v.Cmp(max) <= 0
}

// Value is one SSA value: either an immediate constant or a reference to
// a previously pushed instruction's result.
type Value struct {
	Kind ValueKind

	// VLiteral
	Literal LiteralKind
	Bool    bool
	Int     IntegerImmediate
	Float   float64
	ZeroedT *types.Type
	CString string

	// VReference
	Block BlockID
	Instr InstrID

	// Type is the static type this value carries. Per §4.4's "Integer
	// rank model": an operation between two mismatched-width values is
	// illegal, so every consumer is expected to check this against its
	// operand requirements rather than trust a bare bit count.
	Type *types.Type
}

// Lit builds a Value from a LiteralKind payload already known to be
// valid (the Integer case should go through NewIntegerImmediate first).
func Lit(kind LiteralKind, t *types.Type) Value {
	return Value{Kind: VLiteral, Literal: kind, Type: t}
}

// Ref builds a Value referencing block/instr's result.
func Ref(block BlockID, instr InstrID, t *types.Type) Value {
	return Value{Kind: VReference, Block: block, Instr: instr, Type: t}
}
