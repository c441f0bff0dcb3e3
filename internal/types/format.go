package types

import (
	"fmt"
	"strconv"
	"strings"
)

// Render produces the canonical textual form of a type, used for
// diagnostics and for mangled-name components. It is factored out of
// Type.String/Type.Format the way the teacher keeps a standalone tconv
// rather than inlining formatting logic into the Stringer method itself.
func Render(t *Type) string {
	if t == nil {
		return "<nil type>"
	}
	k := t.Kind
	switch k.Tag {
	case KBoolean:
		return "bool"
	case KVoid:
		return "void"
	case KNever:
		return "never"
	case KInteger:
		sign := "i"
		if !k.Signed {
			sign = "u"
		}
		return fmt.Sprintf("%s%d", sign, k.Bits)
	case KCInteger:
		name := k.Rank.String()
		if !k.HasSign {
			return name
		}
		if k.Signed {
			return "signed " + name
		}
		return "unsigned " + name
	case KSizeInteger:
		if k.Signed {
			return "isize"
		}
		return "usize"
	case KFloating:
		return fmt.Sprintf("f%d", int(k.FloatBits))
	case KPointer:
		return "*" + Render(k.Elem)
	case KFixedArray:
		return fmt.Sprintf("[%d]%s", k.Len, Render(k.Elem))
	case KFuncPtr:
		var b strings.Builder
		b.WriteString("func(")
		for i, p := range k.Params {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(Render(p))
		}
		if k.Variadic {
			if len(k.Params) > 0 {
				b.WriteString(", ")
			}
			b.WriteString("...")
		}
		b.WriteString(") ")
		b.WriteString(Render(k.Return))
		return b.String()
	case KStructure, KTypeAlias:
		return withArgs(k.Name, k.TypeArgs)
	case KEnum:
		return k.Name
	case KPolymorph:
		return "$" + k.Name
	case KIntegerLiteral:
		return "<integer " + k.IntValue.String() + ">"
	case KFloatLiteral:
		return "<float " + strconv.FormatFloat(k.FloatValue, 'g', -1, 64) + ">"
	default:
		return "<invalid type>"
	}
}

func withArgs(name string, args []*Type) string {
	if len(args) == 0 {
		return name
	}
	var b strings.Builder
	b.WriteString(name)
	b.WriteByte('<')
	for i, a := range args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(Render(a))
	}
	b.WriteByte('>')
	return b.String()
}
