package target

import (
	"runtime"

	"golang.org/x/sys/cpu"
)

// HostTriple reports the Triple of the machine adeptc itself is running
// on, for use as a default when a project file (see internal/buildfile)
// does not pin a target explicitly. This is the Go-native equivalent of
// the teacher's cpu.Name — it adapts internal_local/cpu's build-tag-keyed
// "what CPU is this" probe into "what target triple is this", using
// golang.org/x/sys/cpu for the feature-detection legwork instead of raw
// CPUID/sysctl calls, since the host only ever needs architecture family,
// not full feature bits.
func HostTriple() Triple {
	var a Arch
	switch runtime.GOARCH {
	case "arm64":
		a = AArch64
	default:
		a = X86_64
	}

	var o OS
	switch runtime.GOOS {
	case "windows":
		o = Windows
	case "darwin":
		o = MacOS
	case "freebsd":
		o = FreeBSD
	default:
		o = Linux
	}
	return Triple{OS: o, Arch: a}
}

// HostDescription returns a short human-readable string describing the
// host's CPU family, used only for diagnostic banners (e.g. a `--version`
// style report from the eventual CLI). Unlike the teacher's cpu.Name,
// which returns "" when it cannot positively identify vendor silicon, this
// never fails: it falls back to the GOARCH name, because adeptc only needs
// this for logging, never for ABI decisions (those go through Layout).
func HostDescription() string {
	switch {
	case cpu.X86.HasAVX2:
		return "x86_64 (avx2)"
	case cpu.X86.HasSSE42:
		return "x86_64 (sse4.2)"
	case cpu.ARM64.HasASIMD:
		return "aarch64 (asimd)"
	default:
		return runtime.GOARCH
	}
}
