package value

import (
	"strconv"
	"strings"
)

// NormalizeLegacy stringifies scalars for the legacy API, which expects string typed fields.
// null becomes "", booleans "1"/"0", numbers their decimal form. Objects are walked
// recursively; arrays and strings are left untouched.
func NormalizeLegacy(v Value) Value {
	switch v.kind {
	case KindNull:
		return String("")
	case KindBool:
		if v.b {
			return String("1")
		}
		return String("0")
	case KindNumber:
		return String(decimalString(v.s))
	case KindObject:
		out := Value{kind: KindObject, obj: make([]Pair, len(v.obj))}
		for i, p := range v.obj {
			out.obj[i] = Pair{Key: p.Key, Value: NormalizeLegacy(p.Value)}
		}
		return out
	default:
		return v
	}
}

// decimalString renders a number literal the way a JavaScript String(n) would for
// the values the API deals with: integers verbatim, everything else in shortest form.
func decimalString(lit string) string {
	if integerLiteral.MatchString(lit) {
		if lit == "-0" {
			return "0"
		}
		return lit
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return lit
	}
	if f == 0 {
		return "0"
	}
	abs := f
	if abs < 0 {
		abs = -abs
	}
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		mant, exp, ok := strings.Cut(s, "e")
		if !ok {
			return s
		}
		sign := exp[:1]
		digits := strings.TrimLeft(exp[1:], "0")
		if digits == "" {
			digits = "0"
		}
		return mant + "e" + sign + digits
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
