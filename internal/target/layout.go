// Package target models the per-OS/per-architecture layout facts spec §6
// and §3 need to give C-compatible integer kinds (CInteger, SizeInteger)
// concrete widths: "Target is specified by OS (windows|macos|linux|
// freebsd) and architecture (x86_64|aarch64); layout tables are fixed per
// OS/arch (e.g. long is 4 bytes on Windows, 8 on Unix-like)."
package target

import (
	"fmt"
	"strings"
)

// OS identifies a target operating system.
type OS uint8

const (
	Windows OS = iota
	MacOS
	Linux
	FreeBSD
)

func (o OS) String() string {
	switch o {
	case Windows:
		return "windows"
	case MacOS:
		return "macos"
	case Linux:
		return "linux"
	case FreeBSD:
		return "freebsd"
	default:
		return "unknown-os"
	}
}

// Arch identifies a target instruction set architecture.
type Arch uint8

const (
	X86_64 Arch = iota
	AArch64
)

func (a Arch) String() string {
	switch a {
	case X86_64:
		return "x86_64"
	case AArch64:
		return "aarch64"
	default:
		return "unknown-arch"
	}
}

// CRank is one of the five standard C integer ranks, from narrowest to
// widest, used both as a layout-table key and — per §3's Integer
// promotion rules — as the ordering unify() compares two CInteger values
// by (see internal/types/rank.go).
type CRank uint8

const (
	CChar CRank = iota
	CShort
	CInt
	CLong
	CLongLong
)

func (r CRank) String() string {
	switch r {
	case CChar:
		return "char"
	case CShort:
		return "short"
	case CInt:
		return "int"
	case CLong:
		return "long"
	case CLongLong:
		return "long long"
	default:
		return "?"
	}
}

// Triple names a compilation target, the unit every layout lookup is
// parameterized on.
type Triple struct {
	OS   OS
	Arch Arch
}

func (t Triple) String() string { return fmt.Sprintf("%s-%s", t.Arch, t.OS) }

// Layout is the fully resolved set of width facts for one Triple: C
// integer rank widths in bytes, pointer width, and whether `char` defaults
// to signed or unsigned (a genuine platform difference in C, and one
// CInteger(Char, nil) must resolve per-target exactly like a real C
// compiler does).
type Layout struct {
	Triple Triple

	// RankBits[r] is the bit width of CRank r on this target.
	RankBits [CLongLong + 1]int

	// PointerBits is the width of a pointer and of SizeInteger.
	PointerBits int

	// CharIsUnsigned reports whether a plain (unqualified) `char` is
	// unsigned on this target. x86_64/aarch64 Linux and Windows default
	// to signed char; this field exists so a future target with the
	// opposite default does not require touching unify/conform call sites.
	CharIsUnsigned bool
}

// Bits returns the width of CInteger rank r on this layout.
func (l Layout) Bits(r CRank) int { return l.RankBits[r] }

// layouts holds the fixed per-OS/arch tables spec §8 pins down as a
// boundary behavior: "CInteger(Int) on Windows has 4-byte width; on macOS
// has 4-byte width; Long has 4-byte width on Windows, 8-byte on Unix."
var layouts = map[Triple]Layout{
	{Windows, X86_64}: {
		Triple:      Triple{Windows, X86_64},
		RankBits:    [5]int{8, 16, 32, 32, 64}, // char,short,int,long,longlong
		PointerBits: 64,
	},
	{Windows, AArch64}: {
		Triple:      Triple{Windows, AArch64},
		RankBits:    [5]int{8, 16, 32, 32, 64},
		PointerBits: 64,
	},
	{MacOS, X86_64}: {
		Triple:      Triple{MacOS, X86_64},
		RankBits:    [5]int{8, 16, 32, 64, 64},
		PointerBits: 64,
	},
	{MacOS, AArch64}: {
		Triple:      Triple{MacOS, AArch64},
		RankBits:    [5]int{8, 16, 32, 64, 64},
		PointerBits: 64,
	},
	{Linux, X86_64}: {
		Triple:      Triple{Linux, X86_64},
		RankBits:    [5]int{8, 16, 32, 64, 64},
		PointerBits: 64,
	},
	{Linux, AArch64}: {
		Triple:      Triple{Linux, AArch64},
		RankBits:    [5]int{8, 16, 32, 64, 64},
		PointerBits: 64,
	},
	{FreeBSD, X86_64}: {
		Triple:      Triple{FreeBSD, X86_64},
		RankBits:    [5]int{8, 16, 32, 64, 64},
		PointerBits: 64,
	},
	{FreeBSD, AArch64}: {
		Triple:      Triple{FreeBSD, AArch64},
		RankBits:    [5]int{8, 16, 32, 64, 64},
		PointerBits: 64,
	},
}

// Lookup returns the fixed Layout for t. It panics for a Triple outside
// the closed OS/Arch enums above — an implementer adding a target updates
// this table, it is never synthesized at runtime.
func Lookup(t Triple) Layout {
	l, ok := layouts[t]
	if !ok {
		panic(fmt.Sprintf("target: no layout registered for %s", t))
	}
	return l
}

var osNames = map[string]OS{
	"windows": Windows,
	"macos":   MacOS,
	"linux":   Linux,
	"freebsd": FreeBSD,
}

var archNames = map[string]Arch{
	"x86_64":  X86_64,
	"aarch64": AArch64,
}

// ParseTriple parses a "os/arch" string (e.g. "linux/x86_64") into a
// Triple, returning an error naming the unrecognized half rather than
// panicking — callers on the command-line boundary get a reportable
// error instead of a crash; Lookup remains the place an already-known-
// good Triple panics on programmer error.
func ParseTriple(s string) (Triple, error) {
	osPart, archPart, ok := strings.Cut(s, "/")
	if !ok {
		return Triple{}, fmt.Errorf("target: %q is not of the form os/arch", s)
	}
	o, ok := osNames[osPart]
	if !ok {
		return Triple{}, fmt.Errorf("target: unknown OS %q", osPart)
	}
	a, ok := archNames[archPart]
	if !ok {
		return Triple{}, fmt.Errorf("target: unknown architecture %q", archPart)
	}
	return Triple{OS: o, Arch: a}, nil
}
