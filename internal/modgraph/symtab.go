package modgraph

// Lookup implements §4.2's symbol search: "For a name search from part P
// of module M, iterate in order: 1. Private symbols of P. 2. Protected
// symbols of M. 3. Public symbols of M. 4. Public symbols of every module
// reachable via wildcard-import closure from P." The constraint narrows
// which DeclHeads count as a match at every channel.
//
// Invariant 5 of spec §8 ("Symbol lookup from part P of module M never
// returns a private symbol from a different part") holds structurally
// here: private symbols are only ever read from p itself (channel 1), and
// channels 2-4 only ever read protected/public maps, which private
// symbols are never inserted into (see AddSymbol).
func (g *Graph) Lookup(mod ModuleRef, part PartRef, name string, constraint LookupConstraint) DeclHeadSet {
	var result DeclHeadSet

	appendMatching := func(decls []DeclHead) {
		for _, d := range decls {
			if constraint.accepts(d) {
				result = append(result, d)
			}
		}
	}

	// 1. Private symbols of P.
	appendMatching(g.part(mod, part).lookupPrivate(name))

	// 2 & 3. Protected and public symbols of M.
	m := g.module(mod)
	m.mu.RLock()
	protected := append([]DeclHead(nil), m.protected[name]...)
	public := append([]DeclHead(nil), m.public[name]...)
	m.mu.RUnlock()
	appendMatching(protected)
	appendMatching(public)

	// 4. Public symbols of every module reachable via wildcard closure.
	for _, reached := range g.WildcardClosure(mod, part) {
		rm := g.module(reached)
		rm.mu.RLock()
		wpublic := append([]DeclHead(nil), rm.public[name]...)
		rm.mu.RUnlock()
		appendMatching(wpublic)
	}

	return result
}

// LookupOrAwait behaves like Lookup, but if the search finds nothing it
// also registers a wake-up for every module the search consulted (M and
// its wildcard closure), so a caller — typically internal/exec suspending
// the requesting task — can resume once any of those modules gains a
// matching symbol. It returns the registered modules so the caller can
// subscribe its own wake closure to each with AwaitSymbol.
func (g *Graph) LookupOrAwait(mod ModuleRef, part PartRef, name string, constraint LookupConstraint) (result DeclHeadSet, awaitModules []ModuleRef) {
	result = g.Lookup(mod, part, name, constraint)
	if result.Found() {
		return result, nil
	}
	awaitModules = append(awaitModules, mod)
	awaitModules = append(awaitModules, g.WildcardClosure(mod, part)...)
	return result, awaitModules
}
