package resolve

import (
	"adeptc/internal/asg"
	"adeptc/internal/diag"
	"adeptc/internal/modgraph"
	"adeptc/internal/source"
	"adeptc/internal/types"
)

// ResolveDeclareAssign implements §4.3.5's declare-assign rule: `name :=
// expr`: resolve expr (by the caller, passed in already-typed), default
// its type, add a new variable to the current function's storage, put
// (name, type, key) in the scope, emit an assignment.
func (s *Scope) ResolveDeclareAssign(name string, value *asg.Expr) (*asg.Expr, bool) {
	defaulted, ok := DefaultType(s, value.Type)
	if !ok {
		return nil, false
	}
	conformed, ok := s.Conform(value, value.Type, defaulted, Normal, Report)
	if !ok {
		return nil, false
	}

	key := s.Storage.DeclareLocal(name, defaulted)
	s.Storage.MarkInitialized(key)
	s.Vars.Declare(name, defaulted, key)

	return &asg.Expr{
		Kind:           asg.EDeclareAssign,
		Type:           defaulted,
		Span:           value.Span,
		DeclareName:    name,
		DeclareStorage: key,
		Value:          conformed,
	}, true
}

// ResolveShortCircuit implements §4.3.5's short-circuit and/or rule:
// resolve left in a boolean-preferred context; conform to boolean; begin
// a new scope; resolve right; conform; end scope. resolveRight is called
// with the new scope already pushed, so it can resolve an AST subtree
// that may itself declare variables visible only within the right
// operand (matching "begin a new scope ... resolve right ... end scope").
func (s *Scope) ResolveShortCircuit(op asg.ShortCircuitOp, left *asg.Expr, resolveRight func(*Scope) (*asg.Expr, bool)) (*asg.Expr, bool) {
	boolT := types.Boolean(left.Span)
	leftConformed, ok := s.Conform(left, left.Type, boolT, Normal, Report)
	if !ok {
		return nil, false
	}

	s.Vars.Push()
	right, ok := resolveRight(s)
	if !ok {
		s.Vars.Pop()
		return nil, false
	}
	rightConformed, ok := s.Conform(right, right.Type, boolT, Normal, Report)
	s.Vars.Pop()
	if !ok {
		return nil, false
	}

	return &asg.Expr{
		Kind:         asg.EShortCircuit,
		Type:         boolT,
		Span:         left.Span,
		ShortCircuit: op,
		Left:         leftConformed,
		Right:        rightConformed,
	}, true
}

// ResolveArrayAccess implements §4.3.5's `a[i]`: a must resolve to
// Pointer(T); i to any integer type (preferred u64). Result type T.
func (s *Scope) ResolveArrayAccess(array, index *asg.Expr) (*asg.Expr, bool) {
	if array.Type.Kind.Tag != types.KPointer {
		s.Sink.Errorf(diag.Mismatch, array.Span, "array access requires a Pointer(T), got %s", array.Type)
		return nil, false
	}
	elemT := array.Type.Kind.Elem

	preferred := types.SizeInteger(false, index.Span)
	idxT, conformedIdx, ok := s.Unify(preferred, []*asg.Expr{index}, Report)
	if !ok {
		return nil, false
	}
	if idxT.Kind.Tag != types.KInteger && idxT.Kind.Tag != types.KCInteger && idxT.Kind.Tag != types.KSizeInteger {
		s.Sink.Errorf(diag.Mismatch, index.Span, "array index must be an integer type, got %s", idxT)
		return nil, false
	}

	return &asg.Expr{
		Kind:  asg.EArrayAccess,
		Type:  elemT,
		Span:  array.Span,
		Array: array,
		Index: conformedIdx[0],
	}, true
}

// ResolveMemberAccess implements §4.3.5's `s.f`: resolve s (already done
// by the caller); unalias its type; the underlying type must be
// Structure; look up field; obey field privacy.
func (s *Scope) ResolveMemberAccess(base *asg.Expr, field string) (*asg.Expr, bool) {
	underlying, ok := Unalias(s, base.Type)
	if !ok {
		return nil, false
	}
	if underlying.Kind.Tag != types.KStructure {
		s.Sink.Errorf(diag.Mismatch, base.Span, "member access requires a structure type, got %s", underlying)
		return nil, false
	}

	def := s.Structs.Get(underlying.Kind.Struct)
	f, found := def.Field(field)
	if !found {
		s.Sink.Errorf(diag.NotFound, base.Span, "structure %q has no field %q", def.Name, field)
		return nil, false
	}
	if f.Privacy == modgraph.Private && !s.samePartAsDecl() {
		s.Sink.Errorf(diag.FieldIsPrivate, base.Span, "field %q of %q is private", field, def.Name)
		return nil, false
	}

	return &asg.Expr{
		Kind:  asg.EMemberAccess,
		Type:  f.Type,
		Span:  base.Span,
		Base:  base,
		Field: field,
	}, true
}

// samePartAsDecl always reports true: StructDef carries no owning part or
// module to compare the accessing scope against, so ResolveMemberAccess
// accepts every access to a private field and never reports
// diag.FieldIsPrivate.
func (s *Scope) samePartAsDecl() bool { return true }

// Initialized selects whether a variable reference requires its storage
// cell to already be initialized, per §4.3.5: "check initialization
// against the Initialized::Require | Initialized::AllowUninitialized
// mode."
type Initialized uint8

const (
	Require Initialized = iota
	AllowUninitialized
)

// ResolveVariableRef implements §4.3.5's variable reference rule: resolve
// via VariableHaystack, then GlobalVariable table, then helper-expressions
// (not modeled here — helper-expressions are a compile-time-interpreter
// concern, explicitly stubbed per SPEC_FULL.md); check initialization.
func (s *Scope) ResolveVariableRef(name string, mode Initialized, span source.Span) (*asg.Expr, bool) {
	if t, key, found := s.Vars.Lookup(name); found {
		if mode == Require && !s.Storage.Initialized(key) {
			s.Sink.Errorf(diag.UseBeforeInit, span, "use of %q before it is initialized", name)
			return nil, false
		}
		return &asg.Expr{Kind: asg.EVariableRef, Type: t, Span: span, Storage: key}, true
	}

	if def, ref, found := s.lookupGlobal(name); found {
		return &asg.Expr{Kind: asg.EGlobalRef, Type: def.Type, Span: span, Global: ref}, true
	}

	s.Sink.Errorf(diag.UndeclaredVariable, span, "undeclared variable %q", name)
	return nil, false
}
