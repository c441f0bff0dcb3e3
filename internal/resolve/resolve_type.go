package resolve

import (
	"adeptc/internal/diag"
	"adeptc/internal/modgraph"
	"adeptc/internal/recipe"
	"adeptc/internal/source"
	"adeptc/internal/types"
)

// ASTType is the minimal shape resolve_type needs from the upstream
// AST's type syntax (lexing/parsing/AST construction are this module's
// own Non-goals, per spec §1): a name plus a recursively-resolved
// argument list, e.g. `Pair<i32, Pointer<Foo>>` is Name: "Pair", Args:
// [{Name:"i32"}, {Name:"Pointer", Args: [{Name:"Foo"}]}].
type ASTType struct {
	Name string
	Args []ASTType
	Span source.Span
}

// builtinType resolves one of the fixed primitive names every scope sees
// regardless of module, mirroring how the teacher's types package seeds
// universe-scope predeclared identifiers before any user lookup runs.
func builtinType(name string, span source.Span) (*types.Type, bool) {
	switch name {
	case "bool":
		return types.Boolean(span), true
	case "void":
		return types.Void(span), true
	case "never":
		return types.Never(span), true
	case "f32":
		return types.Floating(types.Bits32, span), true
	case "f64":
		return types.Floating(types.Bits64, span), true
	case "usize":
		return types.SizeInteger(false, span), true
	case "isize":
		return types.SizeInteger(true, span), true
	case "i8":
		return types.Integer(8, true, span), true
	case "i16":
		return types.Integer(16, true, span), true
	case "i32":
		return types.Integer(32, true, span), true
	case "i64":
		return types.Integer(64, true, span), true
	case "u8":
		return types.Integer(8, false, span), true
	case "u16":
		return types.Integer(16, false, span), true
	case "u32":
		return types.Integer(32, false, span), true
	case "u64":
		return types.Integer(64, false, span), true
	default:
		return nil, false
	}
}

// ResolveType implements §4.3.1's resolve_type(scope, ast_type) -> Type:
// walk the AST type syntactically, recursively resolving components; for
// a named type, look the name up with arity = number of type arguments,
// reporting NotFound/Ambiguous and otherwise resolving each argument
// before recursing into the declaration's own Type constructor.
func ResolveType(s *Scope, ast ASTType) (*types.Type, bool) {
	if len(ast.Args) == 0 {
		if t, ok := builtinType(ast.Name, ast.Span); ok {
			return t, true
		}
	}

	result := s.lookupTypeHead(ast.Name, len(ast.Args))
	if !result.Found() {
		s.Sink.Errorf(diag.NotFound, ast.Span, "type %q not found (arity %d)", ast.Name, len(ast.Args))
		return nil, false
	}
	if result.Ambiguous() {
		s.Sink.Errorf(diag.Ambiguous, ast.Span, "type %q is ambiguous", ast.Name)
		return nil, false
	}

	head := result[0].Type
	args := make([]*types.Type, len(ast.Args))
	for i, a := range ast.Args {
		resolved, ok := ResolveType(s, a)
		if !ok {
			return nil, false
		}
		args[i] = resolved
	}

	switch head.Category {
	case modgraph.StructHead:
		return types.Structure(head.Name, types.StructRef(head.Ref), args, ast.Span), true
	case modgraph.EnumHead:
		return types.Enum(head.Name, types.EnumRef(head.Ref), ast.Span), true
	case modgraph.AliasHead:
		return types.TypeAlias(head.Name, types.AliasRef(head.Ref), args, ast.Span), true
	default:
		s.Sink.Errorf(diag.NotFound, ast.Span, "%q does not name a type", ast.Name)
		return nil, false
	}
}

// Unalias implements §4.3.1's unalias(type): if type is TypeAlias(_, ref,
// args), fetch the alias's `becomes` field, substitute args into any
// polymorphs via a recipe, and recurse. Fails (returns ok=false, having
// reported a diagnostic) if depth exceeds MaxUnaliasDepth (self-reference)
// or arity mismatches.
func Unalias(s *Scope, t *types.Type) (*types.Type, bool) {
	for depth := 0; ; depth++ {
		if t.Kind.Tag != types.KTypeAlias {
			return t, true
		}
		if depth >= types.MaxUnaliasDepth {
			s.Sink.Errorf(diag.SelfReferentialAlias, t.Span, "alias %q exceeds max unalias depth (%d)", t.Kind.Name, types.MaxUnaliasDepth)
			return nil, false
		}

		def := s.Aliases.Get(t.Kind.Alias)
		if len(def.TypeParams) != len(t.Kind.TypeArgs) {
			s.Sink.Errorf(diag.IncorrectNumberOfTypeArgs, t.Span,
				"alias %q expects %d type argument(s), got %d", def.Name, len(def.TypeParams), len(t.Kind.TypeArgs))
			return nil, false
		}

		catalog := recipe.NewCatalog()
		for i, param := range def.TypeParams {
			catalog.BindType(param, t.Kind.TypeArgs[i])
		}
		r, err := catalog.Bake(nil, nil)
		if err != nil {
			return nil, false
		}
		t = r.Substitute(def.Becomes)
	}
}
