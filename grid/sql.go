package grid

import (
	"encoding/hex"
	"math"
	"strconv"
	"strings"
	"time"
)

// QuoteIdentifier brackets a column or table name, doubling any closing bracket
func QuoteIdentifier(name string) string {
	return "[" + strings.ReplaceAll(name, "]", "]]") + "]"
}

// QuoteTable brackets every dot-separated part of a table name
func QuoteTable(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = QuoteIdentifier(strings.Trim(p, "[]"))
	}
	return strings.Join(parts, ".")
}

// IsUnicodeType reports whether a declared column type belongs to the
// nchar/nvarchar/ntext family
func IsUnicodeType(declaredType string) bool {
	return strings.HasPrefix(strings.ToLower(declaredType), "n")
}

// Literal renders v as a SQL literal for a column of the given declared type
func Literal(v any, declaredType string) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case bool:
		if x {
			return "1"
		}
		return "0"
	case int:
		return strconv.Itoa(x)
	case int8, int16, int32, int64:
		return strconv.FormatInt(toInt64(x), 10)
	case uint, uint8, uint16, uint32, uint64:
		return strconv.FormatUint(toUint64(x), 10)
	case float32:
		return formatFloat(float64(x))
	case float64:
		return formatFloat(x)
	case time.Time:
		return "'" + x.UTC().Format(ISOTimeLayout) + "'"
	case []byte:
		return "0x" + strings.ToUpper(hex.EncodeToString(x))
	}
	return StringLiteral(ToString(v), declaredType)
}

// StringLiteral quotes s, doubling embedded single quotes. Unicode column
// types get the N prefix.
func StringLiteral(s, declaredType string) string {
	quoted := "'" + strings.ReplaceAll(s, "'", "''") + "'"
	if IsUnicodeType(declaredType) {
		return "N" + quoted
	}
	return quoted
}

func formatFloat(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "NULL"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func toInt64(v any) int64 {
	switch n := v.(type) {
	case int8:
		return int64(n)
	case int16:
		return int64(n)
	case int32:
		return int64(n)
	case int64:
		return n
	}
	return 0
}

func toUint64(v any) uint64 {
	switch n := v.(type) {
	case uint:
		return uint64(n)
	case uint8:
		return uint64(n)
	case uint16:
		return uint64(n)
	case uint32:
		return uint64(n)
	case uint64:
		return n
	}
	return 0
}
