package types

// MaxUnaliasDepth bounds transitive alias resolution per spec §3: "A
// TypeAlias may be aliased transitively up to a fixed depth (1024);
// exceeding this is a self-reference error." The actual unalias walk
// lives in internal/resolve (it needs the live alias-definition table,
// which is resolver/module-graph state, not part of the bare type model),
// but the depth limit is a property of the type system itself, so the
// constant is defined here.
const MaxUnaliasDepth = 1024

// AliasDef is what an AliasRef resolves to: the type parameter names the
// alias was declared with, and the type it expands to (which may itself
// mention those parameters as Polymorph types, substituted via a recipe
// at unalias time).
type AliasDef struct {
	Name       string
	TypeParams []string
	Becomes    *Type
}
