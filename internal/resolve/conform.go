package resolve

import (
	"adeptc/internal/asg"
	"adeptc/internal/bigint"
	"adeptc/internal/diag"
	"adeptc/internal/types"
)

// ConformMode selects which row of §4.3.2's coercion table is permitted.
type ConformMode uint8

const (
	Normal ConformMode = iota
	ExplicitCast
	LossyFloat
)

// Behavior controls whether a failed Conform reports a diagnostic. Unify's
// preferred-type fast path (§4.3.4 step 1) needs a silent "would this
// conform" probe before committing to preferred, so failure there must not
// itself produce user-visible noise.
type Behavior struct {
	Report bool
}

// Report is the default behavior: a failed conform is a real error.
var Report = Behavior{Report: true}

// Silent probes a conformance without reporting on failure, for
// speculative checks like Unify's preferred-type fast path.
var Silent = Behavior{Report: false}

func (s *Scope) fail(b Behavior, kind diag.Kind, e *asg.Expr, format string, args ...interface{}) (*asg.Expr, bool) {
	if b.Report {
		s.Sink.Errorf(kind, e.Span, format, args...)
	}
	return nil, false
}

func wrap(kind asg.CastKind, to *types.Type, operand *asg.Expr) *asg.Expr {
	if kind == asg.CastIdentity {
		clone := *operand
		clone.Type = to
		return &clone
	}
	return &asg.Expr{Kind: asg.ECast, Type: to, Span: operand.Span, Cast: kind, Operand: operand}
}

// Conform implements §4.3.2's conform(expr, from_type, to_type, mode,
// behavior) -> Option<TypedExpr>: attempts to coerce expr (already typed
// `from`) into `to`, returning the wrapped expression (possibly a Cast
// node) on success.
func (s *Scope) Conform(expr *asg.Expr, from, to *types.Type, mode ConformMode, behavior Behavior) (*asg.Expr, bool) {
	if types.Equal(from, to) {
		return wrap(asg.CastIdentity, to, expr), true
	}

	switch from.Kind.Tag {
	case types.KIntegerLiteral:
		return s.conformIntegerLiteral(expr, from, to, mode, behavior)
	case types.KFloatLiteral:
		// A FloatLiteral conforms to either float width unconditionally
		// (it has no fixed representation yet to overflow); §4.3.3
		// handles defaulting when no target type is available at all.
		if to.Kind.Tag == types.KFloating {
			return wrap(asg.CastIdentity, to, expr), true
		}
	case types.KInteger:
		if to.Kind.Tag == types.KInteger {
			return s.conformIntegerToInteger(expr, from, to, mode, behavior)
		}
	case types.KFloating:
		if to.Kind.Tag == types.KFloating {
			return s.conformFloatToFloat(expr, from, to, mode, behavior)
		}
	case types.KPointer:
		if to.Kind.Tag == types.KPointer {
			return s.conformPointerToPointer(expr, from, to, mode, behavior)
		}
	}

	return s.fail(behavior, diag.CannotConform, expr, "cannot conform %s to %s", from, to)
}

func (s *Scope) conformIntegerLiteral(expr *asg.Expr, from, to *types.Type, mode ConformMode, behavior Behavior) (*asg.Expr, bool) {
	v, ok := from.Kind.IntValue.(*bigint.Int)
	if !ok {
		return s.fail(behavior, diag.CannotConform, expr, "integer literal has no value to check fit")
	}

	switch to.Kind.Tag {
	case types.KInteger:
		if mode == ExplicitCast || bigint.Fits(v, to.Kind.Bits, to.Kind.Signed) {
			return wrap(asg.CastIdentity, to, expr), true
		}
		return s.fail(behavior, diag.CannotFit, expr, "literal %s does not fit in %s", v, to)
	case types.KCInteger:
		bits := types.CIntegerBitsComparable(to.Kind, s.Layout)
		signed := types.CIntegerEffectiveSigned(to.Kind, s.Layout)
		if mode == ExplicitCast || bigint.Fits(v, bits, signed) {
			return wrap(asg.CastIdentity, to, expr), true
		}
		return s.fail(behavior, diag.CannotFit, expr, "literal %s does not fit in %s on this target", v, to)
	case types.KSizeInteger:
		if mode == ExplicitCast || bigint.Fits(v, s.Layout.PointerBits, to.Kind.Signed) {
			return wrap(asg.CastIdentity, to, expr), true
		}
		return s.fail(behavior, diag.CannotFit, expr, "literal %s does not fit in %s on this target", v, to)
	}
	return s.fail(behavior, diag.CannotConform, expr, "cannot conform integer literal to %s", to)
}

func (s *Scope) conformIntegerToInteger(expr *asg.Expr, from, to *types.Type, mode ConformMode, behavior Behavior) (*asg.Expr, bool) {
	widen := from.Kind.Bits <= to.Kind.Bits && (from.Kind.Signed == to.Kind.Signed || (to.Kind.Signed && from.Kind.Bits < to.Kind.Bits))
	switch {
	case mode == ExplicitCast:
		if from.Kind.Bits == to.Kind.Bits {
			return wrap(asg.CastIdentity, to, expr), true
		}
		if from.Kind.Bits < to.Kind.Bits {
			return wrap(asg.CastIntegerExtend, to, expr), true
		}
		return wrap(asg.CastIntegerTruncate, to, expr), true
	case widen:
		if from.Kind.Bits == to.Kind.Bits {
			return wrap(asg.CastIdentity, to, expr), true
		}
		return wrap(asg.CastIntegerExtend, to, expr), true
	default:
		return s.fail(behavior, diag.CannotConform, expr, "cannot widen %s to %s in Normal mode", from, to)
	}
}

func (s *Scope) conformFloatToFloat(expr *asg.Expr, from, to *types.Type, mode ConformMode, behavior Behavior) (*asg.Expr, bool) {
	switch {
	case from.Kind.FloatBits == to.Kind.FloatBits:
		return wrap(asg.CastIdentity, to, expr), true
	case from.Kind.FloatBits == types.Bits32 && to.Kind.FloatBits == types.Bits64:
		// yes under Normal and ExplicitCast.
		return wrap(asg.CastFloatExtend, to, expr), true
	case from.Kind.FloatBits == types.Bits64 && to.Kind.FloatBits == types.Bits32:
		if mode == ExplicitCast || mode == LossyFloat {
			return wrap(asg.CastFloatTruncate, to, expr), true
		}
		return s.fail(behavior, diag.CannotConform, expr, "narrowing f64 to f32 requires ExplicitCast or LossyFloat")
	}
	return s.fail(behavior, diag.CannotConform, expr, "cannot conform %s to %s", from, to)
}

func (s *Scope) conformPointerToPointer(expr *asg.Expr, from, to *types.Type, mode ConformMode, behavior Behavior) (*asg.Expr, bool) {
	fromVoid := from.Kind.Elem.Kind.Tag == types.KVoid
	toVoid := to.Kind.Elem.Kind.Tag == types.KVoid

	switch {
	case toVoid:
		// Pointer(T) -> Pointer(Void): yes under Normal and ExplicitCast.
		return wrap(asg.CastPointerCast, to, expr), true
	case fromVoid && mode == ExplicitCast:
		// Pointer(Void) -> Pointer(T): ExplicitCast only (supplemented
		// from original_source's caster.rs, see SPEC_FULL.md).
		return wrap(asg.CastPointerCast, to, expr), true
	default:
		return s.fail(behavior, diag.CannotConform, expr, "cannot conform %s to %s", from, to)
	}
}
