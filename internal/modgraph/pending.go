package modgraph

// wakeKey identifies a pending search's subscription, per §4.2: "register
// a wake-entry keyed by (module, name)."
type wakeKey struct {
	mod  ModuleRef
	name string
}

// AwaitSymbol registers wake to be called the next time any symbol named
// name is inserted anywhere that could make it visible from mod (i.e. into
// mod itself, via AddSymbol on mod). This is the module graph's half of
// spec §4.2's "Pending search"; the other half — actually suspending a
// task and re-enqueuing it — is the executor's (internal/exec), which
// passes its own resumption closure as wake. A lookup may need to await
// more than one module if it also depends on the wildcard closure; callers
// are expected to call AwaitSymbol once per module reachable from the
// searching part.
func (g *Graph) AwaitSymbol(mod ModuleRef, name string) (register func(wake func())) {
	key := wakeKey{mod: mod, name: name}
	return func(wake func()) {
		g.wakeMu.Lock()
		defer g.wakeMu.Unlock()
		g.waiters[key] = append(g.waiters[key], wake)
	}
}

// wake fires and clears every waiter registered for (mod, name). It is
// called by AddSymbol after a declaration is actually inserted, so a
// resumed task is guaranteed to observe the new symbol without a further
// retry loop.
func (g *Graph) wake(mod ModuleRef, name string) {
	key := wakeKey{mod: mod, name: name}

	g.wakeMu.Lock()
	fns := g.waiters[key]
	delete(g.waiters, key)
	g.wakeMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
