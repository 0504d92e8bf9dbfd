package grid

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ISOTimeLayout is the layout used whenever a time value is rendered as text
const ISOTimeLayout = "2006-01-02T15:04:05.000Z"

// IsNull reports whether v is an absent value
func IsNull(v any) bool {
	return v == nil
}

// IsNumber reports whether v holds one of Go's numeric kinds.
// Numeric-looking strings are not numbers.
func IsNumber(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	}
	return false
}

// ToNumber coerces v to a float64. Values without a numeric reading yield NaN.
func ToNumber(v any) float64 {
	switch n := v.(type) {
	case nil:
		return math.NaN()
	case int:
		return float64(n)
	case int8:
		return float64(n)
	case int16:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case uint:
		return float64(n)
	case uint8:
		return float64(n)
	case uint16:
		return float64(n)
	case uint32:
		return float64(n)
	case uint64:
		return float64(n)
	case float32:
		return float64(n)
	case float64:
		return n
	case bool:
		if n {
			return 1
		}
		return 0
	case time.Time:
		return float64(n.UnixMilli())
	case []byte:
		return parseNumber(string(n))
	case string:
		return parseNumber(n)
	}
	return parseNumber(fmt.Sprint(v))
}

func parseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

// ToString renders v the way it is shown in a cell. nil renders as "".
func ToString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case []byte:
		return string(s)
	case bool:
		return strconv.FormatBool(s)
	case float32:
		return strconv.FormatFloat(float64(s), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case time.Time:
		return s.UTC().Format(ISOTimeLayout)
	case fmt.Stringer:
		return s.String()
	}
	return fmt.Sprint(v)
}

// LooseEqual compares two cell values leniently: nil only equals nil, two
// strings compare exactly, and any pairing with a number or bool compares
// numerically.
func LooseEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	_, aStr := a.(string)
	_, bStr := b.(string)
	if aStr && bStr {
		return a.(string) == b.(string)
	}
	if isNumeric(a) || isNumeric(b) {
		return ToNumber(a) == ToNumber(b)
	}
	return ToString(a) == ToString(b)
}

func isNumeric(v any) bool {
	if _, ok := v.(bool); ok {
		return true
	}
	return IsNumber(v)
}

// StrictEqual reports whether a and b hold the same kind and value. Numbers
// of any Go width compare by numeric value, so int32(5) equals int64(5).
func StrictEqual(a, b any) bool {
	if IsNumber(a) && IsNumber(b) {
		return numberEqual(a, b)
	}
	switch av := a.(type) {
	case nil:
		return b == nil
	case []byte:
		bv, ok := b.([]byte)
		return ok && bytes.Equal(av, bv)
	case time.Time:
		bv, ok := b.(time.Time)
		return ok && av.Equal(bv)
	}
	if !isBasic(a) || !isBasic(b) {
		return fmt.Sprintf("%T", a) == fmt.Sprintf("%T", b) && ToString(a) == ToString(b)
	}
	return a == b
}

func isBasic(v any) bool {
	switch v.(type) {
	case nil, bool, string,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	}
	return false
}

// numberEqual compares two numeric values without routing integers through
// float64, which would merge distinct large values.
func numberEqual(a, b any) bool {
	ai, aSigned, aUnsigned, af := numberParts(a)
	bi, bSigned, bUnsigned, bf := numberParts(b)
	switch {
	case aSigned && bSigned:
		return ai == bi
	case aUnsigned && bUnsigned:
		return uint64(ai) == uint64(bi)
	case aSigned && bUnsigned:
		return ai >= 0 && uint64(ai) == uint64(bi)
	case aUnsigned && bSigned:
		return bi >= 0 && uint64(ai) == uint64(bi)
	case !aSigned && !aUnsigned && !bSigned && !bUnsigned:
		return af == bf
	case bSigned || bUnsigned:
		return floatEqualsInteger(af, bi, bUnsigned)
	default:
		return floatEqualsInteger(bf, ai, aUnsigned)
	}
}

// numberParts splits v into its integer bits (signed or unsigned) or its
// float value.
func numberParts(v any) (bits int64, signed, unsigned bool, f float64) {
	switch n := v.(type) {
	case int:
		return int64(n), true, false, 0
	case int8:
		return int64(n), true, false, 0
	case int16:
		return int64(n), true, false, 0
	case int32:
		return int64(n), true, false, 0
	case int64:
		return n, true, false, 0
	case uint:
		return int64(n), false, true, 0
	case uint8:
		return int64(n), false, true, 0
	case uint16:
		return int64(n), false, true, 0
	case uint32:
		return int64(n), false, true, 0
	case uint64:
		return int64(n), false, true, 0
	case float32:
		return 0, false, false, float64(n)
	case float64:
		return 0, false, false, n
	}
	return 0, false, false, math.NaN()
}

func floatEqualsInteger(f float64, bits int64, unsigned bool) bool {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return false
	}
	if unsigned {
		u := uint64(bits)
		if f < 0 || f >= 1<<64 {
			return false
		}
		return uint64(f) == u && float64(u) == f
	}
	if f < -(1<<63) || f >= 1<<63 {
		return false
	}
	return int64(f) == bits && float64(bits) == f
}
