package pipeline

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyFilter   = errors.New("empty filter")
	ErrUnknownColumn = errors.New("unknown column")
	ErrMissingValue  = errors.New("missing filter value")
)

var symbolOperators = map[string]Operator{
	"=":  OpEquals,
	"==": OpEquals,
	"!=": OpNotEquals,
	"<>": OpNotEquals,
	">":  OpGreaterThan,
	"<":  OpLessThan,
	"~":  OpContains,
	"^":  OpStartsWith,
	"$":  OpEndsWith,
}

var namedOperators = map[string]Operator{
	"isnull":      OpIsNull,
	"isnotnull":   OpIsNotNull,
	"equals":      OpEquals,
	"notequals":   OpNotEquals,
	"contains":    OpContains,
	"like":        OpContains,
	"startswith":  OpStartsWith,
	"endswith":    OpEndsWith,
	"greaterthan": OpGreaterThan,
	"lessthan":    OpLessThan,
	"between":     OpBetween,
}

const symbolChars = "=!<>~^$"

// ParseFilter reads the filter bar syntax:
//
//	column op value
//	column value            (equals)
//	column between a and b
//	column is null | column is not null
//
// Column names match case-insensitively against columnNames.
func ParseFilter(text string, columnNames []string) (string, Filter, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", Filter{}, ErrEmptyFilter
	}

	end := strings.IndexFunc(text, func(r rune) bool {
		return r == ' ' || r == '\t' || strings.ContainsRune(symbolChars, r)
	})
	if end < 0 {
		end = len(text)
	}
	column, ok := matchColumn(text[:end], columnNames)
	if !ok {
		return "", Filter{}, fmt.Errorf("%w: %s", ErrUnknownColumn, text[:end])
	}
	rest := strings.TrimSpace(text[end:])
	if rest == "" {
		return "", Filter{}, ErrMissingValue
	}

	// symbolic operator
	if strings.ContainsRune(symbolChars, rune(rest[0])) {
		n := strings.IndexFunc(rest, func(r rune) bool { return !strings.ContainsRune(symbolChars, r) })
		if n < 0 {
			n = len(rest)
		}
		op, ok := symbolOperators[rest[:n]]
		if !ok {
			return "", Filter{}, fmt.Errorf("unknown operator %q", rest[:n])
		}
		value := strings.TrimSpace(rest[n:])
		if value == "" {
			return "", Filter{}, ErrMissingValue
		}
		return column, Filter{Operator: op, Value: unquote(value)}, nil
	}

	lowered := strings.ToLower(rest)
	switch {
	case lowered == "is null":
		return column, Filter{Operator: OpIsNull}, nil
	case lowered == "is not null":
		return column, Filter{Operator: OpIsNotNull}, nil
	}

	word, value, _ := strings.Cut(rest, " ")
	value = strings.TrimSpace(value)
	op, named := namedOperators[strings.ToLower(word)]
	if !named {
		return column, Filter{Operator: OpEquals, Value: unquote(rest)}, nil
	}

	switch op {
	case OpIsNull, OpIsNotNull:
		return column, Filter{Operator: op}, nil
	case OpBetween:
		from, to, found := cutFold(value, " and ")
		if !found || strings.TrimSpace(from) == "" || strings.TrimSpace(to) == "" {
			return "", Filter{}, fmt.Errorf("%w: between needs two values", ErrMissingValue)
		}
		return column, Filter{
			Operator: OpBetween,
			Value:    unquote(strings.TrimSpace(from)),
			ValueTo:  unquote(strings.TrimSpace(to)),
		}, nil
	}

	if value == "" {
		return "", Filter{}, ErrMissingValue
	}
	return column, Filter{Operator: op, Value: unquote(value)}, nil
}

// Describe renders a filter back into the filter bar syntax
func Describe(column string, f Filter) string {
	switch f.Operator {
	case OpIsNull:
		return column + " is null"
	case OpIsNotNull:
		return column + " is not null"
	case OpBetween:
		return fmt.Sprintf("%s between %v and %v", column, f.Value, f.ValueTo)
	}
	for sym, op := range map[string]Operator{"=": OpEquals, "!=": OpNotEquals, ">": OpGreaterThan, "<": OpLessThan} {
		if op == f.Operator {
			return fmt.Sprintf("%s %s %v", column, sym, f.Value)
		}
	}
	return fmt.Sprintf("%s %s %v", column, f.Operator, f.Value)
}

func matchColumn(name string, columnNames []string) (string, bool) {
	name = unquote(strings.TrimSpace(name))
	for _, c := range columnNames {
		if strings.EqualFold(c, name) {
			return c, true
		}
	}
	return "", false
}

func unquote(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '\'' || first == '"' || first == '`') && first == last {
			return s[1 : len(s)-1]
		}
	}
	return s
}

func cutFold(s, sep string) (before, after string, found bool) {
	i := strings.Index(strings.ToLower(s), sep)
	if i < 0 {
		return s, "", false
	}
	return s[:i], s[i+len(sep):], true
}
