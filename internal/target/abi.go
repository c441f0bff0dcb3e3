package target

import "golang.org/x/arch/x86/x86asm"

// CallConv names a C calling convention. `ir.Builder.Finish` attaches one
// of these (plus IntegerArgRegisters below) to every Function built for a
// `foreign`/`abide_abi` declaration (spec §6 annotations), since the IR
// consumer (the native backend, external to this module) needs it to
// generate the correct prologue.
type CallConv uint8

const (
	CDecl CallConv = iota
	Win64
	SysVAMD64
	AAPCS64
)

func (c CallConv) String() string {
	switch c {
	case CDecl:
		return "cdecl"
	case Win64:
		return "win64"
	case SysVAMD64:
		return "sysv-amd64"
	case AAPCS64:
		return "aapcs64"
	default:
		return "?"
	}
}

// DefaultCallConv returns the platform's default C calling convention for
// a plain (non-variadic-tail) function pointer.
func DefaultCallConv(t Triple) CallConv {
	switch {
	case t.Arch == AArch64:
		return AAPCS64
	case t.OS == Windows:
		return Win64
	default:
		return SysVAMD64
	}
}

// IntegerArgRegisters returns the ordered list of general-purpose registers
// a CallConv passes the first integer/pointer arguments in, used only by
// ir.Builder.Finish to annotate an abide_abi Function with enough ABI
// metadata for the external backend to avoid re-deriving it. x86_64 register identities
// come from golang.org/x/arch/x86/x86asm's instruction-operand register
// set — the same vocabulary the teacher's own dependency pulls in for
// disassembly — reused here purely as a canonical register enum rather
// than for decoding any instruction stream.
func IntegerArgRegisters(c CallConv) []x86asm.Reg {
	switch c {
	case SysVAMD64:
		return []x86asm.Reg{x86asm.RDI, x86asm.RSI, x86asm.RDX, x86asm.RCX, x86asm.R8, x86asm.R9}
	case Win64:
		return []x86asm.Reg{x86asm.RCX, x86asm.RDX, x86asm.R8, x86asm.R9}
	default:
		// AAPCS64 argument registers are not part of x86asm's register
		// set; the external backend resolves them from CallConv alone.
		return nil
	}
}
