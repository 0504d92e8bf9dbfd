// Package export serializes rows of a result set into text formats for the
// clipboard or a file, and into XLSX workbooks.
package export

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/sheenazien8/sqgrid/grid"
)

// Format names an export format
type Format string

const (
	FormatCSV       Format = "csv"
	FormatTSV       Format = "tsv"
	FormatJSON      Format = "json"
	FormatSQL       Format = "sql"
	FormatMarkdown  Format = "markdown"
	FormatXML       Format = "xml"
	FormatHTML      Format = "html"
	FormatClipboard Format = "clipboard"
	FormatXLSX      Format = "xlsx"
)

// DefaultTableName is used by SQL exports when no table is given
const DefaultTableName = "ExportedData"

// ErrUnsupportedFormat is returned for unknown formats, and by Export for
// binary formats.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// Formats lists every format in menu order
func Formats() []Format {
	return []Format{
		FormatCSV, FormatTSV, FormatJSON, FormatSQL, FormatMarkdown,
		FormatXML, FormatHTML, FormatClipboard, FormatXLSX,
	}
}

// ParseFormat resolves a format name, ignoring case. "md" is accepted for
// markdown.
func ParseFormat(name string) (Format, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "md" {
		return FormatMarkdown, nil
	}
	f := Format(name)
	if !slices.Contains(Formats(), f) {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
	return f, nil
}

// Binary reports whether the format produces bytes rather than text
func (f Format) Binary() bool {
	return f == FormatXLSX
}

// Info is the file naming metadata of a format
type Info struct {
	Extension string
	MimeType  string
}

// FormatInfo returns the extension and MIME type for a format. Unknown formats
// are described as plain text.
func FormatInfo(f Format) Info {
	switch f {
	case FormatCSV:
		return Info{Extension: ".csv", MimeType: "text/csv"}
	case FormatTSV:
		return Info{Extension: ".tsv", MimeType: "text/tab-separated-values"}
	case FormatJSON:
		return Info{Extension: ".json", MimeType: "application/json"}
	case FormatSQL:
		return Info{Extension: ".sql", MimeType: "application/sql"}
	case FormatMarkdown:
		return Info{Extension: ".md", MimeType: "text/markdown"}
	case FormatXML:
		return Info{Extension: ".xml", MimeType: "application/xml"}
	case FormatHTML:
		return Info{Extension: ".html", MimeType: "text/html"}
	case FormatXLSX:
		return Info{Extension: ".xlsx", MimeType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"}
	}
	return Info{Extension: ".txt", MimeType: "text/plain"}
}

// Options controls an export
type Options struct {
	Format         Format
	IncludeHeaders bool
	// TableName is the target of SQL INSERT statements and the XLSX sheet name
	TableName string
}

func (o Options) table() string {
	if o.TableName == "" {
		return DefaultTableName
	}
	return o.TableName
}

// Export serializes rows as text. Cells are matched to columns by position:
// row[i] belongs to columns[i].
func Export(rows []grid.Row, columns []grid.Column, opts Options) (string, error) {
	switch opts.Format {
	case FormatCSV:
		return delimited(rows, columns, opts.IncludeHeaders, ',', csvField), nil
	case FormatTSV, FormatClipboard:
		return delimited(rows, columns, opts.IncludeHeaders, '\t', tsvField), nil
	case FormatJSON:
		return toJSON(rows, columns), nil
	case FormatSQL:
		return toSQL(rows, columns, opts.table()), nil
	case FormatMarkdown:
		return toMarkdown(rows, columns, opts.IncludeHeaders), nil
	case FormatXML:
		return toXML(rows, columns), nil
	case FormatHTML:
		return toHTML(rows, columns, opts.IncludeHeaders), nil
	case FormatXLSX:
		return "", fmt.Errorf("%w: %s is a binary format", ErrUnsupportedFormat, opts.Format)
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, opts.Format)
}

// ExportBinary serializes rows for writing to a file. Text formats are
// returned as their UTF-8 bytes.
func ExportBinary(rows []grid.Row, columns []grid.Column, opts Options) ([]byte, error) {
	if opts.Format == FormatXLSX {
		return toXLSX(rows, columns, opts)
	}
	text, err := Export(rows, columns, opts)
	if err != nil {
		return nil, err
	}
	return []byte(text), nil
}

// ExtractSelectedData projects rows and columns onto the given indices.
// Indices are sorted and deduplicated so source order is preserved, and
// indices out of range are dropped.
func ExtractSelectedData(rows []grid.Row, columns []grid.Column, rowIndices, columnIndices []int) ([]grid.Row, []grid.Column) {
	rowIdx := normalize(rowIndices, len(rows))
	colIdx := normalize(columnIndices, len(columns))

	outCols := make([]grid.Column, len(colIdx))
	for i, c := range colIdx {
		outCols[i] = columns[c]
	}

	outRows := make([]grid.Row, len(rowIdx))
	for i, r := range rowIdx {
		row := make(grid.Row, len(colIdx))
		for j, c := range colIdx {
			row[j] = rows[r].Cell(c)
		}
		outRows[i] = row
	}
	return outRows, outCols
}

func normalize(indices []int, n int) []int {
	out := slices.Clone(indices)
	slices.Sort(out)
	out = slices.Compact(out)
	return slices.DeleteFunc(out, func(i int) bool { return i < 0 || i >= n })
}
