// Package diag defines the error taxonomy of spec §7 and a sink that
// collects, deduplicates, and orders diagnostics the way a session's
// consumers (a CLI, a language server, a test) expect to read them.
//
// The sink itself is modeled on cmd_local/go/internal/base's accumulate-
// then-report style (base.Errorf/base.SetExitStatus/base.ExitIfErrors):
// library code never terminates the process, it only raises a tally that
// the caller inspects after a session closes.
package diag

import (
	"fmt"
	"sort"
	"sync"

	"adeptc/internal/source"
)

// Kind identifies one of the error categories spec §7 enumerates. New kinds
// are added here; callers switch exhaustively rather than testing substrings
// of Message.
type Kind uint8

const (
	_ Kind = iota

	// Unresolved name.
	NotFound
	Ambiguous

	// Type error.
	Mismatch
	CannotConform
	CannotFit
	SelfReferentialAlias
	IncorrectNumberOfTypeArgs

	// Visibility.
	FieldIsPrivate
	CannotMutate

	// Initialization.
	UndeclaredVariable
	UseBeforeInit

	// Cycle.
	CyclicDependency

	// I/O.
	FailedToOpenFile
	FailedToCanonicalize

	// Polymorphism (supplemented, see SPEC_FULL.md).
	PolyConstraintUnsatisfied

	// Compile-time evaluation (supplemented, see SPEC_FULL.md); reported
	// by internal/comptime's stub evaluator for every request it sees,
	// since the interpreter itself is a spec non-goal.
	ComptimeNotImplemented
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "NotFound"
	case Ambiguous:
		return "Ambiguous"
	case Mismatch:
		return "Mismatch"
	case CannotConform:
		return "CannotConform"
	case CannotFit:
		return "CannotFit"
	case SelfReferentialAlias:
		return "SelfReferentialAlias"
	case IncorrectNumberOfTypeArgs:
		return "IncorrectNumberOfTypeArgs"
	case FieldIsPrivate:
		return "FieldIsPrivate"
	case CannotMutate:
		return "CannotMutate"
	case UndeclaredVariable:
		return "UndeclaredVariable"
	case UseBeforeInit:
		return "UseBeforeInit"
	case CyclicDependency:
		return "CyclicDependency"
	case FailedToOpenFile:
		return "FailedToOpenFile"
	case FailedToCanonicalize:
		return "FailedToCanonicalize"
	case PolyConstraintUnsatisfied:
		return "PolyConstraintUnsatisfied"
	case ComptimeNotImplemented:
		return "ComptimeNotImplemented"
	default:
		return "Unknown"
	}
}

// Severity ranks how a diagnostic should be presented; it does not affect
// whether resolution continues (§7 Recovery always substitutes Never and
// keeps going regardless of severity).
type Severity uint8

const (
	Error Severity = iota
	Warning
	Note
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Note:
		return "note"
	default:
		return "?"
	}
}

// A Diagnostic is the user-visible unit of §7: a kind, a severity, spans,
// and a rendered message. Secondary spans point at related locations (the
// other candidate of an Ambiguous lookup, the prior declaration shadowed by
// a redeclaration).
type Diagnostic struct {
	Kind           Kind
	Severity       Severity
	PrimarySpan    source.Span
	SecondarySpans []source.Span
	Message        string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s", d.PrimarySpan, d.Severity, d.Message)
}

// Format implements fmt.Formatter the way compile/internal/types.Type and
// types.Sym do in the teacher: verb-dispatching rather than a bespoke
// pretty-printer, so %v, %s and %+v all do something sensible without a
// second rendering path.
func (d Diagnostic) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			fmt.Fprintf(s, "%s [%s] %s: %s", d.PrimarySpan, d.Kind, d.Severity, d.Message)
			for _, sp := range d.SecondarySpans {
				fmt.Fprintf(s, "\n\talso: %s", sp)
			}
			return
		}
		fmt.Fprint(s, d.String())
	case 's':
		fmt.Fprint(s, d.String())
	default:
		fmt.Fprintf(s, "%%!%c(diag.Diagnostic)", verb)
	}
}

// dedupeKey identifies diagnostics the sink treats as the same complaint:
// same originating position and same kind, per §7 "deduplicates by
// (source, kind)".
type dedupeKey struct {
	pos  source.Pos
	kind Kind
}

// A Sink accumulates diagnostics from many tasks running concurrently across
// the executor's worker pool. It is safe for concurrent use; every write
// takes a short critical section, matching the "fine-grained locking
// permitted" guidance of spec §5 for shared non-arena state.
type Sink struct {
	mu      sync.Mutex
	seen    map[dedupeKey]bool
	entries []Diagnostic
	errors  int
}

// NewSink returns an empty diagnostic sink.
func NewSink() *Sink {
	return &Sink{seen: make(map[dedupeKey]bool)}
}

// Report records d, ignoring an exact (position, kind) duplicate that has
// already been reported. Returns true if it was newly recorded.
func (s *Sink) Report(d Diagnostic) bool {
	key := dedupeKey{pos: d.PrimarySpan.Start, kind: d.Kind}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seen[key] {
		return false
	}
	s.seen[key] = true
	s.entries = append(s.entries, d)
	if d.Severity == Error {
		s.errors++
	}
	return true
}

// Errorf is a convenience wrapper that builds and reports a Diagnostic at
// Error severity with no secondary spans.
func (s *Sink) Errorf(kind Kind, span source.Span, format string, args ...interface{}) {
	s.Report(Diagnostic{
		Kind:        kind,
		Severity:    Error,
		PrimarySpan: span,
		Message:     fmt.Sprintf(format, args...),
	})
}

// HasErrors reports whether any Error-severity diagnostic has been recorded.
func (s *Sink) HasErrors() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errors > 0
}

// Count returns the number of distinct diagnostics recorded so far.
func (s *Sink) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Sorted returns all recorded diagnostics ordered by source position, per
// §7 "surfaces them sorted by source position". Diagnostics with no source
// position (synthetic) sort last, in report order among themselves.
func (s *Sink) Sorted() []Diagnostic {
	s.mu.Lock()
	out := make([]Diagnostic, len(s.entries))
	copy(out, s.entries)
	s.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := out[i].PrimarySpan.Start, out[j].PrimarySpan.Start
		if !pi.IsValid() || !pj.IsValid() {
			return pi.IsValid() && !pj.IsValid()
		}
		if pi.File != pj.File {
			return pi.File < pj.File
		}
		if pi.Line != pj.Line {
			return pi.Line < pj.Line
		}
		return pi.Column < pj.Column
	})
	return out
}
