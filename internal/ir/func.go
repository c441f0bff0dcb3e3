package ir

import (
	"golang.org/x/arch/x86/x86asm"

	"adeptc/internal/target"
	"adeptc/internal/types"
)

// FuncRef indexes the monomorphization cache's deduplicated functions.
type FuncRef int

// Param is one function parameter's name and type, carried through for
// diagnostic messages and debug info; the ABI only cares about Type.
type Param struct {
	Name string
	Type *types.Type
}

// Function is a monomorphized IR function, per §6: "(mangled_name,
// params, return_type, basicblocks, is_variadic, ownership, abide_abi)".
type Function struct {
	Ref        FuncRef
	MangledName string
	Params     []Param
	ReturnType *types.Type
	Blocks     []BasicBlock
	IsVariadic bool
	Ownership  Ownership

	// AbideABI marks a function whose calling convention must exactly
	// match the platform C ABI (struct passing, varargs promotion, the
	// works), per the `abide_abi` annotation. Functions without it are
	// free to use whatever the backend finds easiest.
	AbideABI bool

	// CallConv and ArgRegisters are populated only when AbideABI is set:
	// the platform's calling convention for this Triple and the ordered
	// integer/pointer argument registers it passes the first parameters
	// in, so the external native backend does not need to re-derive ABI
	// facts this module already resolved from the Triple alone.
	CallConv    target.CallConv
	ArgRegisters []x86asm.Reg
}

// Global is a monomorphized IR global variable, per §6: "(mangled_name,
// type, is_thread_local, ownership)".
type Global struct {
	MangledName   string
	Type          *types.Type
	IsThreadLocal bool
	Ownership     Ownership
}

// Builder accumulates basic blocks and instructions for one Function
// under construction, implementing §4.4's `push`/`use_block` pair: push
// appends an instruction to the current block and returns the SSA value
// referencing its result; use_block switches which block subsequent
// pushes append to.
type Builder struct {
	fn      *Function
	current BlockID
}

// NewBuilder starts a function with a single empty entry block and
// positions the builder there.
func NewBuilder(mangledName string, params []Param, returnType *types.Type) *Builder {
	fn := &Function{
		MangledName: mangledName,
		Params:      params,
		ReturnType:  returnType,
		Blocks:      []BasicBlock{{ID: 0}},
	}
	return &Builder{fn: fn, current: 0}
}

// NewBlock appends a fresh, empty basic block and returns its ID without
// switching the builder's current block.
func (b *Builder) NewBlock() BlockID {
	id := BlockID(len(b.fn.Blocks))
	b.fn.Blocks = append(b.fn.Blocks, BasicBlock{ID: id})
	return id
}

// UseBlock switches which block subsequent Push calls append to.
func (b *Builder) UseBlock(id BlockID) {
	b.current = id
}

// CurrentBlock reports which block Push currently appends to.
func (b *Builder) CurrentBlock() BlockID {
	return b.current
}

// Terminated reports whether the current block already ends in a
// control-flow instruction, so callers can avoid appending unreachable
// instructions after a return/break.
func (b *Builder) Terminated() bool {
	return b.fn.Blocks[b.current].terminated()
}

// Push appends instr to the current block and returns the Value other
// instructions use to reference its result.
func (b *Builder) Push(instr Instr) Value {
	block := &b.fn.Blocks[b.current]
	id := InstrID(len(block.Instrs))
	block.Instrs = append(block.Instrs, instr)
	return ResultValue(b.current, id, instr.ResultType)
}

// Finish returns the built Function. triple is only consulted when
// abideABI is set, to resolve the platform calling convention and its
// integer argument registers (§6's `abide_abi` annotation); a function
// that does not abide the platform ABI carries the zero CallConv and no
// ArgRegisters, since the backend is free to pick its own convention for
// it. The builder must not be used afterward.
func (b *Builder) Finish(isVariadic bool, ownership Ownership, abideABI bool, triple target.Triple) *Function {
	b.fn.IsVariadic = isVariadic
	b.fn.Ownership = ownership
	b.fn.AbideABI = abideABI
	if abideABI {
		b.fn.CallConv = target.DefaultCallConv(triple)
		b.fn.ArgRegisters = target.IntegerArgRegisters(b.fn.CallConv)
	}
	return b.fn
}

// LowerShortCircuit implements §4.4's short-circuit -> phi lowering:
// evaluate left, conditionally break to either a merge block (carrying
// left's value, short-circuiting) or a block that evaluates right and
// falls through to the same merge, then join with a phi over the two
// incoming edges.
//
// isAnd selects AND (short-circuits on false) vs OR (short-circuits on
// true); evalRight is invoked with the builder already positioned in the
// "evaluate right" block and must leave it on the block that should flow
// into the merge (the shape recursive short-circuit chains need).
func (b *Builder) LowerShortCircuit(isAnd bool, left Value, evalRight func(*Builder) Value, boolType *types.Type) Value {
	leftDone := b.current
	rightBlock := b.NewBlock()
	mergeBlock := b.NewBlock()

	shortCircuitValue := Lit(LBool, boolType)
	shortCircuitValue.Bool = !isAnd // AND short-circuits to false, OR to true

	if isAnd {
		b.Push(Instr{Kind: IConditionalBreak, Operands: []Value{left}, Targets: []BlockID{rightBlock, mergeBlock}})
	} else {
		b.Push(Instr{Kind: IConditionalBreak, Operands: []Value{left}, Targets: []BlockID{mergeBlock, rightBlock}})
	}

	b.UseBlock(rightBlock)
	rightValue := evalRight(b)
	rightDone := b.current
	b.Push(Instr{Kind: IBreak, Targets: []BlockID{mergeBlock}})

	b.UseBlock(mergeBlock)
	phi := b.Push(Instr{
		Kind:       IPhi,
		ResultType: boolType,
		Operands:   []Value{shortCircuitValue, rightValue},
		Targets:    []BlockID{leftDone, rightDone},
	})
	return phi
}
