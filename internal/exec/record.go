package exec

import (
	"sync"

	"adeptc/internal/task"
)

// record is the executor's bookkeeping for one requested task: its
// current task.State, the keys it is suspended on, and the
// dependency-counting fields spec §4.1 describes ("a counter
// left_waiting_on = n is stored; each dependency records this task as
// a dependent; when a dependency completes it decrements all its
// dependents' counters; a counter reaching zero places the task back on
// the ready queue").
type record struct {
	key task.Key
	t   task.Task

	mu    sync.Mutex
	state task.State

	output interface{}
	err    error

	// leftWaitingOn is the number of not-yet-complete dependencies this
	// task is suspended on. Guarded by mu.
	leftWaitingOn int

	// dependents lists records to notify (decrement + maybe requeue)
	// when this record completes. Guarded by mu.
	dependents []*record

	// waitingOn lists the keys this record is currently suspended on,
	// kept only for cycle-path reconstruction (cycle.go); it is not
	// consulted on the hot path.
	waitingOn []task.Key

	// io is set while state == Running and the last Continuation was
	// RequestIo/PendingIo; it records the handle so a resumed Execute
	// can retrieve its result.
	io *ioTicket

	// fingerprint is the cache key's input fingerprint, computed once
	// at request time (cache.go).
	fingerprint []byte
}

func newRecord(t task.Task) *record {
	return &record{key: t.Key(), t: t, state: task.NotStarted}
}

// addDependent registers dep to be notified when r completes, unless r
// has already completed — in which case the caller must instead
// requeue dep immediately (handled by the caller, since only it knows
// whether the caller is itself in the middle of suspending).
func (r *record) addDependent(dep *record) (alreadyDone bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == task.Completed || r.state == task.Failed {
		return true
	}
	r.dependents = append(r.dependents, dep)
	return false
}
