package resolve

import (
	"adeptc/internal/bigint"
	"adeptc/internal/diag"
	"adeptc/internal/types"
)

// defaultIntegerLadder is the fixed order §4.3.3 specifies: "try i32, u32,
// i64, u64 in order; first that fits wins."
var defaultIntegerLadder = []struct {
	bits   int
	signed bool
}{
	{32, true},
	{32, false},
	{64, true},
	{64, false},
}

// DefaultType implements §4.3.3: an unspecialized literal reaching a
// position with no preferred type is defaulted. IntegerLiteral tries
// i32/u32/i64/u64 in order; FloatLiteral always defaults to f64.
func DefaultType(s *Scope, t *types.Type) (*types.Type, bool) {
	switch t.Kind.Tag {
	case types.KIntegerLiteral:
		v, ok := t.Kind.IntValue.(*bigint.Int)
		if !ok {
			s.Sink.Errorf(diag.CannotFit, t.Span, "integer literal has no value to default")
			return nil, false
		}
		for _, cand := range defaultIntegerLadder {
			if bigint.Fits(v, cand.bits, cand.signed) {
				return types.Integer(cand.bits, cand.signed, t.Span), true
			}
		}
		s.Sink.Errorf(diag.CannotFit, t.Span, "literal %s does not fit in any default integer type", v)
		return nil, false
	case types.KFloatLiteral:
		return types.Floating(types.Bits64, t.Span), true
	default:
		return t, true
	}
}
