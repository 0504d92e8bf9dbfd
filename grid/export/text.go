package export

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"

	"github.com/sheenazien8/sqgrid/grid"
)

func delimited(rows []grid.Row, columns []grid.Column, headers bool, sep byte, field func(any) string) string {
	lines := make([]string, 0, len(rows)+1)
	var b strings.Builder

	if headers {
		for i, col := range columns {
			if i > 0 {
				b.WriteByte(sep)
			}
			b.WriteString(field(col.Name))
		}
		lines = append(lines, b.String())
	}
	for _, row := range rows {
		b.Reset()
		for i := range columns {
			if i > 0 {
				b.WriteByte(sep)
			}
			b.WriteString(field(row.Cell(i)))
		}
		lines = append(lines, b.String())
	}
	return strings.Join(lines, "\n")
}

// csvField quotes a value only when it holds a comma, a quote or a line break
func csvField(v any) string {
	s := grid.ToString(v)
	if strings.ContainsAny(s, ",\"\n\r") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}

var tsvReplacer = strings.NewReplacer("\t", " ", "\r\n", " ", "\n", " ", "\r", " ")

func tsvField(v any) string {
	return tsvReplacer.Replace(grid.ToString(v))
}

func toJSON(rows []grid.Row, columns []grid.Column) string {
	if len(rows) == 0 {
		return "[]"
	}

	var b bytes.Buffer
	b.WriteString("[\n")
	for r, row := range rows {
		b.WriteString("  {\n")
		for i, col := range columns {
			b.WriteString("    ")
			b.Write(jsonValue(col.Name))
			b.WriteString(": ")
			b.Write(jsonValue(row.Cell(i)))
			if i < len(columns)-1 {
				b.WriteByte(',')
			}
			b.WriteByte('\n')
		}
		b.WriteString("  }")
		if r < len(rows)-1 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}
	b.WriteString("]")
	return b.String()
}

func jsonValue(v any) []byte {
	switch x := v.(type) {
	case nil:
		return []byte("null")
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return []byte("null")
		}
	case float32:
		if math.IsNaN(float64(x)) || math.IsInf(float64(x), 0) {
			return []byte("null")
		}
	case bool, string,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
	default:
		v = grid.ToString(x)
	}

	var b bytes.Buffer
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return []byte("null")
	}
	return bytes.TrimRight(b.Bytes(), "\n")
}

func toSQL(rows []grid.Row, columns []grid.Column, table string) string {
	names := make([]string, len(columns))
	for i, col := range columns {
		names[i] = grid.QuoteIdentifier(col.Name)
	}
	prefix := "INSERT INTO " + grid.QuoteTable(table) + " (" + strings.Join(names, ", ") + ") VALUES ("

	statements := make([]string, len(rows))
	values := make([]string, len(columns))
	for r, row := range rows {
		for i, col := range columns {
			values[i] = grid.Literal(row.Cell(i), col.DeclaredType)
		}
		statements[r] = prefix + strings.Join(values, ", ") + ");"
	}
	return strings.Join(statements, "\n")
}

var markdownReplacer = strings.NewReplacer("|", `\|`, "\r\n", "<br>", "\n", "<br>", "\r", "<br>")

func toMarkdown(rows []grid.Row, columns []grid.Column, headers bool) string {
	lines := make([]string, 0, len(rows)+2)
	cells := make([]string, len(columns))

	if headers {
		for i, col := range columns {
			cells[i] = markdownReplacer.Replace(col.Name)
		}
		lines = append(lines, "| "+strings.Join(cells, " | ")+" |")
		for i := range cells {
			cells[i] = "---"
		}
		lines = append(lines, "| "+strings.Join(cells, " | ")+" |")
	}
	for _, row := range rows {
		for i := range columns {
			cells[i] = markdownReplacer.Replace(grid.ToString(row.Cell(i)))
		}
		lines = append(lines, "| "+strings.Join(cells, " | ")+" |")
	}
	return strings.Join(lines, "\n")
}
