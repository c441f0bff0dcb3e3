// Package comptime is the narrow interface resolution calls through to
// evaluate a `comptime`-annotated expression, per spec §9 Open Questions:
// "the source has partial support for comptime tasks that run the
// lowered IR in an interpreter; the interface between resolution and the
// interpreter is narrow but not fully finalized — an implementer should
// keep this interface stubbed until the interpreter is specified."
//
// The original implementation stubs this exact seam too
// (execution/semantic/evaluate_comptime.rs's Execute body is itself a
// `todo!()` past spawning the comptime module's load) — this package
// keeps it stubbed the same way, as a task.Task that always reports
// ComptimeNotImplemented and completes with a zero Value rather than
// failing the request outright, so a build containing a comptime
// annotation degrades to a diagnostic instead of aborting resolution.
package comptime

import (
	"adeptc/internal/diag"
	"adeptc/internal/modgraph"
	"adeptc/internal/source"
	"adeptc/internal/task"
)

// Value is the placeholder result type a finished interpreter would
// replace with a real compile-time-evaluated constant; it carries
// nothing today because no evaluator exists to populate it.
type Value struct{}

// Request describes one comptime evaluation resolution wants run: the
// module the expression lives in and its source span, for diagnostic
// reporting. The expression itself is intentionally not represented —
// there is no AST type in this repo for the stub to hold, since AST
// construction is a spec non-goal; a real interpreter would add a typed
// expression reference here.
type Request struct {
	Module modgraph.ModuleRef
	Span   source.Span
}

// Key implements task.Key: two requests at the same span in the same
// module are the same comptime evaluation.
type Key struct {
	Module modgraph.ModuleRef
	Pos    source.Pos
}

// Evaluator is the seam resolution depends on; swapping Stub for a real
// interpreter-backed implementation is the only change a finished
// comptime evaluator needs to make.
type Evaluator interface {
	Evaluate(Request) (Value, error)
}

// Stub is the only Evaluator this repo implements. It never succeeds at
// evaluating anything; every call reports ComptimeNotImplemented to sink
// and returns a zero Value with a nil error, so callers that only need a
// placeholder result (rather than a hard failure) can keep going.
type Stub struct {
	Sink *diag.Sink
}

func NewStub(sink *diag.Sink) *Stub { return &Stub{Sink: sink} }

func (s *Stub) Evaluate(req Request) (Value, error) {
	s.Sink.Report(diag.Diagnostic{
		Kind:        diag.ComptimeNotImplemented,
		Severity:    diag.Warning,
		PrimarySpan: req.Span,
		Message:     "compile-time evaluation is not implemented; treating as unevaluated",
	})
	return Value{}, nil
}

// EvaluateTask adapts a Request into a task.Task so resolution can
// request it through the executor like any other query, matching the
// original's shape of running comptime evaluation as a graph task rather
// than a direct function call.
type EvaluateTask struct {
	Req  Request
	Eval Evaluator
}

func (t EvaluateTask) Key() task.Key {
	return Key{Module: t.Req.Module, Pos: t.Req.Span.Start}
}

func (t EvaluateTask) Execute() (interface{}, *task.Continuation, error) {
	v, err := t.Eval.Evaluate(t.Req)
	if err != nil {
		return nil, nil, err
	}
	return v, nil, nil
}

// Pure is false: a real interpreter could have side effects visible to
// the rest of resolution (it runs arbitrary lowered IR), so its result
// is never safe to reuse across a changed input without re-running it.
func (t EvaluateTask) Pure() bool { return false }

// Persist is false: an unimplemented evaluation's placeholder result
// must never be cached as if it were a real answer once a real
// interpreter lands.
func (t EvaluateTask) Persist() bool { return false }
