package target

import "testing"

func TestLongWidthDiffersWindowsVsUnix(t *testing.T) {
	win := Lookup(Triple{Windows, X86_64})
	unix := Lookup(Triple{Linux, X86_64})

	if got, want := win.Bits(CLong), 32; got != want {
		t.Fatalf("windows long = %d bits, want %d", got, want)
	}
	if got, want := unix.Bits(CLong), 64; got != want {
		t.Fatalf("linux long = %d bits, want %d", got, want)
	}
}

func TestIntWidthIsFourBytesEverywhere(t *testing.T) {
	for _, triple := range []Triple{
		{Windows, X86_64}, {MacOS, X86_64}, {Linux, X86_64}, {Linux, AArch64},
	} {
		l := Lookup(triple)
		if got, want := l.Bits(CInt), 32; got != want {
			t.Fatalf("%s: int = %d bits, want %d", triple, got, want)
		}
	}
}

func TestLookupUnknownTriplePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for unregistered triple")
		}
	}()
	Lookup(Triple{OS: 99, Arch: 99})
}

func TestParseTriple(t *testing.T) {
	cases := []struct {
		in   string
		want Triple
	}{
		{"linux/x86_64", Triple{Linux, X86_64}},
		{"macos/aarch64", Triple{MacOS, AArch64}},
		{"windows/x86_64", Triple{Windows, X86_64}},
	}
	for _, c := range cases {
		got, err := ParseTriple(c.in)
		if err != nil {
			t.Fatalf("ParseTriple(%q): unexpected error %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("ParseTriple(%q) = %s, want %s", c.in, got, c.want)
		}
	}
}

func TestParseTripleErrors(t *testing.T) {
	for _, in := range []string{"linux", "linux/riscv64", "plan9/x86_64", ""} {
		if _, err := ParseTriple(in); err == nil {
			t.Fatalf("ParseTriple(%q): expected error, got nil", in)
		}
	}
}

func TestDefaultCallConv(t *testing.T) {
	cases := []struct {
		triple Triple
		want   CallConv
	}{
		{Triple{Linux, X86_64}, SysVAMD64},
		{Triple{Windows, X86_64}, Win64},
		{Triple{MacOS, AArch64}, AAPCS64},
	}
	for _, c := range cases {
		if got := DefaultCallConv(c.triple); got != c.want {
			t.Fatalf("DefaultCallConv(%s) = %s, want %s", c.triple, got, c.want)
		}
	}
}
