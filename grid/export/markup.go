package export

import (
	"strings"
	"unicode"

	"github.com/sheenazien8/sqgrid/grid"
)

var (
	xmlReplacer  = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;", "'", "&apos;")
	htmlReplacer = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;", "'", "&#39;")
)

func toXML(rows []grid.Row, columns []grid.Column) string {
	names := make([]string, len(columns))
	for i, col := range columns {
		names[i] = xmlName(col.Name)
	}

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString("<results>\n")
	for _, row := range rows {
		b.WriteString("  <row>\n")
		for i, name := range names {
			v := row.Cell(i)
			if v == nil {
				b.WriteString("    <" + name + "/>\n")
				continue
			}
			b.WriteString("    <" + name + ">" + xmlReplacer.Replace(grid.ToString(v)) + "</" + name + ">\n")
		}
		b.WriteString("  </row>\n")
	}
	b.WriteString("</results>")
	return b.String()
}

// xmlName turns a column name into a valid element name
func xmlName(name string) string {
	if name == "" {
		return "column"
	}
	var b strings.Builder
	for i, r := range name {
		switch {
		case unicode.IsLetter(r), r == '_':
		case unicode.IsDigit(r), r == '-', r == '.':
			if i == 0 {
				b.WriteByte('_')
			}
		default:
			r = '_'
		}
		b.WriteRune(r)
	}
	return b.String()
}

const htmlStyle = `body { font-family: -apple-system, "Segoe UI", Helvetica, Arial, sans-serif; margin: 20px; }
table { border-collapse: collapse; font-size: 13px; }
th, td { border: 1px solid #d0d7de; padding: 4px 8px; text-align: left; vertical-align: top; }
th { background: #f6f8fa; font-weight: 600; }
tr:nth-child(even) td { background: #fafbfc; }
td.null { color: #8c959f; font-style: italic; }`

func toHTML(rows []grid.Row, columns []grid.Column, headers bool) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	b.WriteString(`<meta charset="UTF-8">` + "\n")
	b.WriteString("<title>Exported Data</title>\n")
	b.WriteString("<style>\n" + htmlStyle + "\n</style>\n")
	b.WriteString("</head>\n<body>\n<table>\n")

	if headers {
		b.WriteString("<thead>\n<tr>")
		for _, col := range columns {
			b.WriteString("<th>" + htmlReplacer.Replace(col.Name) + "</th>")
		}
		b.WriteString("</tr>\n</thead>\n")
	}

	b.WriteString("<tbody>\n")
	for _, row := range rows {
		b.WriteString("<tr>")
		for i := range columns {
			v := row.Cell(i)
			if v == nil {
				b.WriteString(`<td class="null">NULL</td>`)
				continue
			}
			b.WriteString("<td>" + htmlReplacer.Replace(grid.ToString(v)) + "</td>")
		}
		b.WriteString("</tr>\n")
	}
	b.WriteString("</tbody>\n</table>\n</body>\n</html>")
	return b.String()
}
