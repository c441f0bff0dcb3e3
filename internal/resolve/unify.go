package resolve

import (
	"adeptc/internal/asg"
	"adeptc/internal/bigint"
	"adeptc/internal/diag"
	"adeptc/internal/types"
)

// Unify implements §4.3.4's unify(preferred, [exprs], behavior) -> Option<Type>
// plus the "conform every expression to the result" step it specifies: a
// common type is computed for a group of expressions at one position
// (e.g. both arms of a conditional), and every expression is conformed to
// it, returning the conformed expressions alongside the chosen type.
func (s *Scope) Unify(preferred *types.Type, exprs []*asg.Expr, behavior Behavior) (*types.Type, []*asg.Expr, bool) {
	if len(exprs) == 0 {
		return preferred, nil, preferred != nil
	}

	if preferred != nil && s.everyConforms(exprs, preferred) {
		return s.conformAll(exprs, preferred, behavior)
	}

	joined := exprs[0].Type
	for _, e := range exprs[1:] {
		next, ok := s.join(joined, e.Type)
		if !ok {
			if behavior.Report {
				s.Sink.Errorf(diag.Mismatch, e.Span, "cannot unify %s with %s", joined, e.Type)
			}
			return nil, nil, false
		}
		joined = next
	}

	return s.conformAll(exprs, joined, behavior)
}

// everyConforms probes (without reporting) whether every expr conforms to
// target in Normal mode, per step 1 of §4.3.4.
func (s *Scope) everyConforms(exprs []*asg.Expr, target *types.Type) bool {
	for _, e := range exprs {
		if _, ok := s.Conform(e, e.Type, target, Normal, Silent); !ok {
			return false
		}
	}
	return true
}

func (s *Scope) conformAll(exprs []*asg.Expr, target *types.Type, behavior Behavior) (*types.Type, []*asg.Expr, bool) {
	out := make([]*asg.Expr, len(exprs))
	for i, e := range exprs {
		conformed, ok := s.Conform(e, e.Type, target, Normal, behavior)
		if !ok {
			return nil, nil, false
		}
		out[i] = conformed
	}
	return target, out, true
}

// join computes the pairwise join of two expression types per §4.3.4
// step 2's rules: same type, mutual integer-literal widening, Integer x
// Integer, CInteger x CInteger (usual arithmetic conversions), Integer x
// CInteger (bit-comparable widths from target layout), and Float x Float
// (wider float wins). Anything else fails to join.
func (s *Scope) join(a, b *types.Type) (*types.Type, bool) {
	if types.Equal(a, b) {
		return a, true
	}

	switch {
	case a.Kind.Tag == types.KIntegerLiteral && b.Kind.Tag == types.KIntegerLiteral:
		return s.joinIntegerLiterals(a, b)
	case a.Kind.Tag == types.KIntegerLiteral:
		return b, true
	case b.Kind.Tag == types.KIntegerLiteral:
		return a, true

	case a.Kind.Tag == types.KInteger && b.Kind.Tag == types.KInteger:
		if a.Kind.Signed != b.Kind.Signed {
			return nil, false
		}
		k := types.JoinInteger(a.Kind, b.Kind)
		return &types.Type{Kind: k, Span: a.Span}, true

	case a.Kind.Tag == types.KCInteger && b.Kind.Tag == types.KCInteger:
		k := types.JoinCInteger(a.Kind, b.Kind)
		return &types.Type{Kind: k, Span: a.Span}, true

	case a.Kind.Tag == types.KInteger && b.Kind.Tag == types.KCInteger:
		return s.joinIntegerWithCInteger(a, b)
	case a.Kind.Tag == types.KCInteger && b.Kind.Tag == types.KInteger:
		return s.joinIntegerWithCInteger(b, a)

	case a.Kind.Tag == types.KFloating && b.Kind.Tag == types.KFloating:
		if a.Kind.FloatBits >= b.Kind.FloatBits {
			return a, true
		}
		return b, true

	default:
		return nil, false
	}
}

// joinIntegerLiterals finds the narrowest fixed type holding both still-
// unspecialized literals: the first entry of §4.3.3's ladder (i32, u32,
// i64, u64) that both values fit in, no narrower than either literal's
// own default. It fails when no entry holds both.
func (s *Scope) joinIntegerLiterals(a, b *types.Type) (*types.Type, bool) {
	da, ok := defaultInt(a)
	if !ok {
		return nil, false
	}
	db, ok := defaultInt(b)
	if !ok {
		return nil, false
	}
	va := a.Kind.IntValue.(*bigint.Int)
	vb := b.Kind.IntValue.(*bigint.Int)
	for _, cand := range defaultIntegerLadder {
		if cand.bits >= da.Kind.Bits && cand.bits >= db.Kind.Bits &&
			bigint.Fits(va, cand.bits, cand.signed) && bigint.Fits(vb, cand.bits, cand.signed) {
			return types.Integer(cand.bits, cand.signed, a.Span), true
		}
	}
	return nil, false
}

func defaultInt(t *types.Type) (*types.Type, bool) {
	v, ok := t.Kind.IntValue.(*bigint.Int)
	if !ok {
		return nil, false
	}
	for _, cand := range defaultIntegerLadder {
		if bigint.Fits(v, cand.bits, cand.signed) {
			return types.Integer(cand.bits, cand.signed, t.Span), true
		}
	}
	return nil, false
}

func (s *Scope) joinIntegerWithCInteger(integer, cinteger *types.Type) (*types.Type, bool) {
	cBits := types.CIntegerBitsComparable(cinteger.Kind, s.Layout)
	cSigned := types.CIntegerEffectiveSigned(cinteger.Kind, s.Layout)
	if integer.Kind.Bits >= cBits {
		return integer, true
	}
	return &types.Type{Kind: types.TypeKind{Tag: types.KCInteger, Rank: cinteger.Kind.Rank, Signed: cSigned, HasSign: true}, Span: cinteger.Span}, true
}
