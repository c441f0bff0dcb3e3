// Package task defines the unit of work internal/exec schedules: the
// State machine of spec §4.1 ("NotStarted -> Ready -> {Completed |
// Running(n) | Restarting(n)} -> ..."), the Continuation a task's
// Execute returns when it cannot finish in one step, and the structural
// key the executor deduplicates requests by.
//
// The state names and transition shape are grounded on the CUE
// evaluator's scheduler (internal/core/adt/sched.go, taskState/
// schedState): READY/RUNNING/WAITING/SUCCESS/FAILED there becomes
// Ready/Running(n)/Completed/Failed here, generalized from "waiting on
// a scheduler's completion conditions" to "waiting on n dependency
// counters", which is what spec §4.1 actually specifies.
package task

import "fmt"

// State is a task's position in the spec §4.1 state machine.
type State uint8

const (
	NotStarted State = iota
	Ready
	Running
	Restarting
	Completed
	Failed
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "NotStarted"
	case Ready:
		return "Ready"
	case Running:
		return "Running"
	case Restarting:
		return "Restarting"
	case Completed:
		return "Completed"
	case Failed:
		return "Failed"
	default:
		return "?"
	}
}

// Key is the structural dedup key spec §4.1 requires: "identical tasks
// (by structural key) are deduplicated; the existing reference is
// returned." Any comparable value works (a struct of plain fields, or a
// string built by the caller); the executor stores Keys in a map, so
// Key must be valid as a map key.
type Key interface{}

// ContinuationKind discriminates the three reasons a task's Execute can
// fail to finish in one step, per spec §4.1's Task execution contract.
type ContinuationKind uint8

const (
	Suspend ContinuationKind = iota
	RequestIo
	PendingIo
)

// Continuation is the Err(Continuation) half of a task step's result.
// Exactly one of DependsOn (Suspend) or IoRequest (RequestIo/PendingIo)
// is meaningful, selected by Kind.
type Continuation struct {
	Kind ContinuationKind

	// DependsOn lists the request keys this task must wait on before it
	// can be resumed, meaningful when Kind == Suspend.
	DependsOn []Key

	// IoRequest is the opaque I/O descriptor to register with the
	// executor's request_io, meaningful when Kind == RequestIo. For
	// Kind == PendingIo the task is already registered and is merely
	// re-parked awaiting the handle it was given earlier.
	IoRequest interface{}

	// IoHandle is the handle previously returned by request_io, carried
	// through PendingIo so a resumed task can find its own result.
	IoHandle interface{}
}

func (c Continuation) String() string {
	switch c.Kind {
	case Suspend:
		return fmt.Sprintf("Suspend(%d deps)", len(c.DependsOn))
	case RequestIo:
		return fmt.Sprintf("RequestIo(%v)", c.IoRequest)
	case PendingIo:
		return fmt.Sprintf("PendingIo(%v)", c.IoHandle)
	default:
		return "Continuation(?)"
	}
}

// Task is the interface internal/exec schedules. T is supplied by
// wrapping each concrete task kind (resolve-a-symbol, lower-a-function,
// ...) in a small adapter that implements Execute in terms of its own
// typed state; internal/exec only ever sees the interface{} result.
type Task interface {
	// Key returns this task's structural dedup key.
	Key() Key

	// Execute advances the task by one scheduling step. On success it
	// returns (output, nil, nil). On failure to finish it returns
	// (nil, continuation, nil). A non-nil error is a hard failure: the
	// task is marked Failed and never retried.
	Execute() (output interface{}, cont *Continuation, err error)

	// Pure reports whether this task's result may be persisted to the
	// on-disk cache across invocations; spec §4.1: "impure requests
	// (marked impure) are never cached across invocations."
	Pure() bool

	// Persist reports whether this task's result should be written to
	// the persisted cache at all; spec §4.1: "persistence is opt-out
	// per request type (marked never persist)."
	Persist() bool
}

// Pending is the typed handle request() returns, spec §4.1:
// "request(task) -> Pending<T>". It carries the task's Key so the
// executor's internal maps can be consulted generically while callers
// still get a typed Demand.
type Pending[T any] struct {
	key Key
}

// NewPending wraps a key as a typed handle. Only internal/exec
// constructs these; it is exported so the type is nameable by callers
// holding onto a Pending[T] returned from a request.
func NewPending[T any](key Key) Pending[T] { return Pending[T]{key: key} }

func (p Pending[T]) Key() Key { return p.key }
