package exec

import (
	"sync"

	"adeptc/internal/task"
)

// IoRequest is the contract a task's Continuation.IoRequest payload
// must satisfy for the executor to service it: "request_io(io_request,
// self_task) -> io_handle ... the task is re-scheduled when the I/O
// completes" (spec §4.1). Perform runs on its own goroutine, off any
// worker's deque, so a slow read never blocks compute-bound tasks.
type IoRequest interface {
	Perform() (interface{}, error)
}

type ioTicket struct {
	mu      sync.Mutex
	done    bool
	result  interface{}
	err     error
	waiters []*record
}

// ioSubsystem dispatches IoRequests and reschedules the records waiting
// on them once complete. Unlike the compute pool, I/O requests are
// fire-and-forget goroutines rather than queued deque entries: they are
// expected to be far less numerous than compute tasks, and blocking a
// worker's deque slot on disk or network latency would defeat the
// point of work-stealing.
type ioSubsystem struct {
	exec *Executor

	mu      sync.Mutex
	tickets map[int64]*ioTicket
	next    int64
}

func newIoSubsystem(e *Executor) *ioSubsystem {
	return &ioSubsystem{exec: e, tickets: make(map[int64]*ioTicket)}
}

// dispatch starts req in its own goroutine and records r as its first
// waiter, returning nothing: the handle is threaded back into r's next
// Execute call through completeIo + IoResult.
func (s *ioSubsystem) dispatch(r *record, req interface{}) {
	ioReq, ok := req.(IoRequest)
	if !ok {
		s.exec.finish(r, nil, errNotIoRequest{req}, task.Failed)
		s.exec.waitingDone()
		return
	}

	s.mu.Lock()
	s.next++
	handle := s.next
	ticket := &ioTicket{waiters: []*record{r}}
	s.tickets[handle] = ticket
	s.mu.Unlock()

	r.mu.Lock()
	r.io = ticket
	r.mu.Unlock()

	go func() {
		result, err := ioReq.Perform()
		ticket.mu.Lock()
		ticket.done = true
		ticket.result = result
		ticket.err = err
		waiters := ticket.waiters
		ticket.mu.Unlock()

		for _, w := range waiters {
			s.exec.completeIo(w)
		}
	}()
}

// reattach handles a PendingIo continuation: the task already has a
// ticket (r.io) from a prior RequestIo and is merely re-parking. If the
// ticket already completed (a race between the worker finishing Execute
// and the I/O goroutine finishing), reschedule immediately; otherwise
// register r as an additional waiter so it is notified exactly once.
func (s *ioSubsystem) reattach(r *record, handle interface{}) {
	r.mu.Lock()
	ticket := r.io
	r.mu.Unlock()
	if ticket == nil {
		s.exec.completeIo(r)
		return
	}

	ticket.mu.Lock()
	done := ticket.done
	if !done {
		ticket.waiters = append(ticket.waiters, r)
	}
	ticket.mu.Unlock()

	if done {
		s.exec.completeIo(r)
	}
}

// IoResult retrieves the completed result of key's in-flight I/O
// ticket, for a task's Execute to call after being resumed on a
// PendingIo or post-RequestIo wakeup. A task identifies its own ticket
// by its own task.Key, which doubles as the io_handle of spec §4.1
// (a task has at most one outstanding I/O request at a time).
func (e *Executor) IoResult(key task.Key) (interface{}, error, bool) {
	e.mu.Lock()
	rec, ok := e.records[key]
	e.mu.Unlock()
	if !ok {
		return nil, nil, false
	}

	rec.mu.Lock()
	ticket := rec.io
	rec.mu.Unlock()
	if ticket == nil {
		return nil, nil, false
	}
	ticket.mu.Lock()
	defer ticket.mu.Unlock()
	if !ticket.done {
		return nil, nil, false
	}
	return ticket.result, ticket.err, true
}

type errNotIoRequest struct{ req interface{} }

func (e errNotIoRequest) Error() string {
	return "exec: RequestIo payload does not implement exec.IoRequest"
}
