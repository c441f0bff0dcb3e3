// Package exec is the task executor of spec §4.1: a work-stealing pool
// that runs a dependency graph of task.Task values to completion with
// request-level memoization, suspension-based dependency tracking,
// cycle detection, and an optional persisted cache across invocations.
//
// The parallel-worklist shape (a map of in-flight records keyed by a
// structural key, workers pulling from queues and feeding results back
// into a shared map under short critical sections) is grounded on the
// teacher's cmd_local/go/internal/mvs.buildList, generalized from "walk
// a module requirement graph to a fixed point" to "run an arbitrary
// task graph to a fixed point with real concurrency" — mvs's modGraph
// map keyed by module.Version becomes the executor's records map keyed
// by task.Key, and mvs's single sequential worklist becomes a
// work-stealing pool (pool.go) in the style of the pack's own
// worker-pool example.
package exec

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"adeptc/internal/diag"
	"adeptc/internal/task"
)

// Executor runs requested tasks to completion. One Executor belongs to
// exactly one compilation session (internal/session), matching spec §9
// Design Notes' "no global mutable state."
type Executor struct {
	sink *diag.Sink

	mu      sync.Mutex
	records map[task.Key]*record

	pool *pool

	cache *Cache

	io       *ioSubsystem
	profiler *profiler

	ready   int64 // atomic: records sitting in a ready queue
	running int64 // atomic: records currently executing Execute()
	waiting int64 // atomic: records registered for I/O completion

	quiescentOnce sync.Once
	quiescent     chan struct{}
}

// Option configures an Executor at construction time.
type Option func(*Executor)

// WithCache attaches a persisted cache already read by LoadCache
// (cache.go), which treats a schema mismatch or missing file as an empty
// cache, not an error, per spec §4.1 ("on start, the cache is loaded if schema
// version matches").
func WithCache(c *Cache) Option {
	return func(e *Executor) { e.cache = c }
}

// New constructs an Executor with workers worker goroutines. sink
// receives any diagnostics tasks themselves choose to report (the
// executor never reports diagnostics on a task's behalf except for
// cycle detection, cycle.go).
func New(workers int, sink *diag.Sink, opts ...Option) *Executor {
	if workers < 1 {
		workers = 1
	}
	e := &Executor{
		sink:      sink,
		records:   make(map[task.Key]*record),
		quiescent: make(chan struct{}),
		profiler:  &profiler{},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.cache == nil {
		e.cache = newEmptyCache()
	}
	e.io = newIoSubsystem(e)
	e.pool = newPool(workers, e.runOne)
	return e
}

// Request schedules t if an equal-keyed task has not already been
// requested, and returns a typed handle to its eventual output. This is
// spec §4.1's request(task) -> Pending<T>.
func Request[T any](e *Executor, t task.Task) task.Pending[T] {
	r := e.requestRecord(t)
	return task.NewPending[T](r.key)
}

// Spawn behaves like Request but discards the typed handle, for tasks
// scheduled only for their side effects or diagnostics (spec §4.1's
// spawn(task) -> task_ref).
func Spawn(e *Executor, t task.Task) { e.requestRecord(t) }

func (e *Executor) requestRecord(t task.Task) *record {
	key := t.Key()

	e.mu.Lock()
	if existing, ok := e.records[key]; ok {
		e.mu.Unlock()
		return existing
	}
	r := newRecord(t)
	e.records[key] = r
	e.mu.Unlock()

	if t.Persist() {
		r.fingerprint = e.cache.fingerprint(t)
		if out, ok := e.cache.lookup(key, r.fingerprint); ok {
			r.mu.Lock()
			r.output = out
			r.state = task.Completed
			r.mu.Unlock()
			return r
		}
	}

	r.mu.Lock()
	r.state = task.Ready
	r.mu.Unlock()
	e.enqueue(r)
	return r
}

// Demand retrieves t's output if its task has completed, per spec
// §4.1's demand(pending) -> Option<&T>. It never blocks.
func Demand[T any](e *Executor, p task.Pending[T]) (T, bool) {
	var zero T
	e.mu.Lock()
	r, ok := e.records[p.Key()]
	e.mu.Unlock()
	if !ok {
		return zero, false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != task.Completed {
		return zero, false
	}
	v, ok := r.output.(T)
	if !ok {
		return zero, false
	}
	return v, true
}

// Invalidate forces a previously completed request back into the
// Restarting state of spec §4.1's state machine ("Completed ->
// input changed -> Restarting(n)"), so the next time it is scheduled
// its task.Execute is called again from scratch. Used when a
// long-lived Executor (e.g. a build-server session, spec §6's
// long-running mode) learns that an on-disk input changed underneath
// an already-computed result.
func (e *Executor) Invalidate(key task.Key) {
	e.mu.Lock()
	r, ok := e.records[key]
	e.mu.Unlock()
	if !ok {
		return
	}
	r.mu.Lock()
	if r.state != task.Completed {
		r.mu.Unlock()
		return
	}
	r.state = task.Restarting
	r.output = nil
	r.err = nil
	r.leftWaitingOn = 0
	r.mu.Unlock()

	r.mu.Lock()
	r.state = task.Ready
	r.mu.Unlock()
	e.enqueue(r)
}

func (e *Executor) enqueue(r *record) {
	atomic.AddInt64(&e.ready, 1)
	e.pool.submit(r)
}

// Wait blocks until the executor is quiescent: no task is ready,
// running, or awaiting I/O. It then runs cycle detection (cycle.go)
// over any records that never reached Completed/Failed, reporting
// them to sink, and returns the count of cyclic tasks.
func (e *Executor) Wait() int {
	if e.isQuiescentNow() {
		return e.detectCycles()
	}
	<-e.quiescent
	return e.detectCycles()
}

func (e *Executor) isQuiescentNow() bool {
	return atomic.LoadInt64(&e.ready) == 0 &&
		atomic.LoadInt64(&e.running) == 0 &&
		atomic.LoadInt64(&e.waiting) == 0
}

func (e *Executor) checkQuiescence() {
	if e.isQuiescentNow() {
		e.quiescentOnce.Do(func() { close(e.quiescent) })
	}
}

// Shutdown stops the worker pool. Call after Wait returns.
func (e *Executor) Shutdown() { e.pool.stop() }

// Cache exposes the executor's persisted cache so a owning session can
// trigger an opportunistic Save on its own idle/interval schedule
// (SPEC_FULL.md's daemon idle/persist supplemented feature), without the
// executor itself knowing anything about wall-clock timing.
func (e *Executor) Cache() *Cache { return e.cache }

func (e *Executor) runOne(r *record) {
	atomic.AddInt64(&e.running, 1)
	atomic.AddInt64(&e.ready, -1)

	r.mu.Lock()
	r.state = task.Running
	r.mu.Unlock()

	start := time.Now()
	output, cont, err := r.t.Execute()
	e.profiler.record(fmt.Sprintf("%T", r.t), time.Since(start))

	switch {
	case err != nil:
		e.finish(r, nil, err, task.Failed)
	case cont == nil:
		e.finish(r, output, nil, task.Completed)
	default:
		e.suspend(r, cont)
	}
	atomic.AddInt64(&e.running, -1)
	e.checkQuiescence()
}

func (e *Executor) finish(r *record, output interface{}, err error, state task.State) {
	r.mu.Lock()
	r.output = output
	r.err = err
	r.state = state
	deps := r.dependents
	r.dependents = nil
	r.mu.Unlock()

	if state == task.Completed && r.t.Persist() {
		e.cache.store(r.key, r.fingerprint, output)
	}

	for _, dep := range deps {
		e.onDependencyDone(dep)
	}
}

func (e *Executor) onDependencyDone(dep *record) {
	dep.mu.Lock()
	if dep.state == task.Completed || dep.state == task.Failed {
		dep.mu.Unlock()
		return
	}
	dep.leftWaitingOn--
	ready := dep.leftWaitingOn <= 0
	if ready {
		dep.state = task.Ready
	}
	dep.mu.Unlock()

	if ready {
		e.enqueue(dep)
	}
}

func (e *Executor) suspend(r *record, cont *task.Continuation) {
	switch cont.Kind {
	case task.Suspend:
		e.suspendOnDeps(r, cont.DependsOn)
	case task.RequestIo:
		atomic.AddInt64(&e.waiting, 1)
		e.io.dispatch(r, cont.IoRequest)
	case task.PendingIo:
		atomic.AddInt64(&e.waiting, 1)
		e.io.reattach(r, cont.IoHandle)
	}
}

func (e *Executor) suspendOnDeps(r *record, deps []task.Key) {
	n := 0
	r.mu.Lock()
	r.waitingOn = deps
	r.mu.Unlock()

	for _, depKey := range deps {
		e.mu.Lock()
		depRecord, ok := e.records[depKey]
		e.mu.Unlock()
		if !ok {
			// The dependency was never requested; treat it as already
			// satisfied rather than waiting on it forever.
			continue
		}
		if alreadyDone := depRecord.addDependent(r); !alreadyDone {
			n++
		}
	}

	r.mu.Lock()
	r.leftWaitingOn = n
	if n == 0 {
		r.state = task.Ready
	} else {
		r.state = task.Running
	}
	r.mu.Unlock()

	if n == 0 {
		e.enqueue(r)
	}
}

// completeIo is called by the I/O subsystem once an in-flight request
// for r's task has a result ready; it requeues r so its next Execute
// call observes task.Continuation{Kind: task.PendingIo} resolved.
func (e *Executor) completeIo(r *record) {
	r.mu.Lock()
	r.state = task.Ready
	r.mu.Unlock()
	e.enqueue(r)
	e.waitingDone()
}

// waitingDone decrements the in-flight I/O counter; it is split out
// from completeIo so the "request wasn't an IoRequest" error path in
// io.go can release the counter without also requeuing the task.
func (e *Executor) waitingDone() {
	atomic.AddInt64(&e.waiting, -1)
	e.checkQuiescence()
}
