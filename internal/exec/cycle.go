package exec

import (
	"fmt"
	"strings"

	"adeptc/internal/diag"
	"adeptc/internal/source"
	"adeptc/internal/task"
)

// detectCycles runs at quiescence (spec §4.1: "at quiescence, if any
// scheduled tasks remain incomplete, they form a cycle"). It walks the
// waiting-on edges of every unresolved record to find and report the
// cycle each belongs to, then returns the total number of unresolved
// records (spec: "the executor reports the count").
//
// The path-reconstruction technique — track a stack of in-progress
// nodes, and on revisiting a node still on the stack, slice the stack
// from that node onward as the cycle — is the same shape as the
// teacher's mvs.buildList error-path reconstruction (its neededBy map
// plus a BFS-then-reverse walk from the error node back to target);
// here the walk is DFS over waiting edges instead of BFS over
// requirement edges, since a cycle (not a shortest path to one root)
// is what's being extracted.
func (e *Executor) detectCycles() int {
	e.mu.Lock()
	var unresolved []*record
	for _, r := range e.records {
		r.mu.Lock()
		st := r.state
		r.mu.Unlock()
		if st != task.Completed && st != task.Failed {
			unresolved = append(unresolved, r)
		}
	}
	e.mu.Unlock()

	if len(unresolved) == 0 {
		return 0
	}

	reported := make(map[task.Key]bool)
	for _, r := range unresolved {
		if reported[r.key] {
			continue
		}
		path := e.findCyclePath(r)
		if len(path) == 0 {
			continue
		}
		for _, k := range path {
			reported[k] = true
		}
		e.reportCycle(path)
	}

	return len(unresolved)
}

// findCyclePath performs a DFS from start over each record's waitingOn
// edges, returning the keys of a cycle reachable from start, or nil if
// start's suspension chain dead-ends without looping (e.g. it is
// genuinely waiting on a dependency that was simply never requested,
// a caller bug rather than a true cycle).
func (e *Executor) findCyclePath(start *record) []task.Key {
	const (
		unvisited = 0
		onStack   = 1
		done      = 2
	)
	status := make(map[task.Key]int)
	var stack []task.Key
	var found []task.Key

	var visit func(r *record) bool
	visit = func(r *record) bool {
		r.mu.Lock()
		key := r.key
		deps := append([]task.Key(nil), r.waitingOn...)
		r.mu.Unlock()

		status[key] = onStack
		stack = append(stack, key)

		for _, depKey := range deps {
			switch status[depKey] {
			case onStack:
				idx := indexOfKey(stack, depKey)
				found = append([]task.Key(nil), stack[idx:]...)
				return true
			case unvisited:
				e.mu.Lock()
				dep, ok := e.records[depKey]
				e.mu.Unlock()
				if ok && visit(dep) {
					return true
				}
			}
		}

		stack = stack[:len(stack)-1]
		status[key] = done
		return false
	}

	visit(start)
	return found
}

func indexOfKey(keys []task.Key, k task.Key) int {
	for i, v := range keys {
		if v == k {
			return i
		}
	}
	return -1
}

func (e *Executor) reportCycle(path []task.Key) {
	parts := make([]string, len(path)+1)
	for i, k := range path {
		parts[i] = fmt.Sprintf("%v", k)
	}
	parts[len(path)] = parts[0]

	e.sink.Errorf(diag.CyclicDependency, source.Synthetic,
		"cyclic dependency: %s", strings.Join(parts, " -> "))
}
