package ir

import (
	"adeptc/internal/asg"
	"adeptc/internal/types"
)

// InstrKind enumerates the instruction set a BasicBlock carries. Per
// §4.4's "Produced for downstream (IR)" shape, a basic block's
// instruction set covers arithmetic, casts, loads/stores, calls,
// conditional breaks, phi, and return.
type InstrKind uint8

const (
	// Arithmetic / comparison, binary: Operands[0] op Operands[1].
	IAdd InstrKind = iota
	ISub
	IMul
	IDiv
	IMod
	IBitAnd
	IBitOr
	IBitXor
	IShl
	IShr
	IEq
	INeq
	ILess
	ILessEq
	IGreater
	IGreaterEq
	INot
	INegate

	// Casts, unary: Operands[0] reinterpreted/converted to ResultType per CastKind.
	ICast

	// Memory.
	ILoad  // Operands[0] is the pointer to load through.
	IStore // Operands[0] is the pointer, Operands[1] is the value.
	IAlloca
	IMember // Operands[0] is the struct pointer, FieldIndex selects the field.
	IIndex  // Operands[0] is the array/pointer, Operands[1] is the index.

	// Calls.
	ICall // Callee names a Function by mangled name, Operands are args.

	// Control flow. A block's last instruction must be one of these.
	IBreak           // unconditional jump to Targets[0]
	IConditionalBreak // Operands[0] selects Targets[0] (true) or Targets[1] (false)
	IReturn          // Operands[0] is the return value, or absent for void
	IUnreachable

	// SSA merge.
	IPhi // one value per incoming block, paired in Targets/Operands by index
)

// Instr is one SSA instruction. Its own (block, instr) position is how
// other instructions reference its result as a Value.
type Instr struct {
	Kind InstrKind

	// ResultType is the type of value this instruction produces; zero for
	// instructions with no result (IStore, IBreak, IConditionalBreak,
	// IReturn, IUnreachable).
	ResultType *types.Type

	Operands []Value
	Targets  []BlockID

	Cast       asg.CastKind
	FieldIndex int
	Callee     string
}

// ResultValue builds the Value other instructions use to reference this
// instruction's result, per (block, instr).
func ResultValue(block BlockID, instr InstrID, t *types.Type) Value {
	return Ref(block, instr, t)
}
