package modalsqlpreview

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/charmbracelet/lipgloss"
	"github.com/sheenazien8/sqgrid/ui/theme"
)

// generated statements use bracketed identifiers and N'' literals
var lexer = func() chroma.Lexer {
	if l := lexers.Get("tsql"); l != nil {
		return chroma.Coalesce(l)
	}
	if l := lexers.Get("sql"); l != nil {
		return chroma.Coalesce(l)
	}
	return nil
}()

// Highlight colors SQL with the current theme. Text that cannot be tokenised
// is returned as is.
func Highlight(sql string) string {
	if lexer == nil || sql == "" {
		return sql
	}
	iterator, err := lexer.Tokenise(nil, sql)
	if err != nil {
		return sql
	}

	styles := tokenStyles()
	var b strings.Builder
	for token := iterator(); token != chroma.EOF; token = iterator() {
		style, ok := styles[token.Type]
		if !ok {
			style, ok = styles[token.Type.SubCategory()]
		}
		if !ok {
			style, ok = styles[token.Type.Category()]
		}
		if !ok {
			b.WriteString(token.Value)
			continue
		}
		// render line by line so styles do not swallow newlines
		lines := strings.Split(token.Value, "\n")
		for i, line := range lines {
			if i > 0 {
				b.WriteByte('\n')
			}
			if line != "" {
				b.WriteString(style.Render(line))
			}
		}
	}
	out := b.String()
	if !strings.HasSuffix(sql, "\n") {
		// some lexers ensure a trailing newline
		out = strings.TrimSuffix(out, "\n")
	}
	return out
}

func tokenStyles() map[chroma.TokenType]lipgloss.Style {
	p := theme.Current.Palette
	return map[chroma.TokenType]lipgloss.Style{
		chroma.Keyword:       lipgloss.NewStyle().Foreground(p.Primary).Bold(true),
		chroma.KeywordType:   lipgloss.NewStyle().Foreground(p.Primary),
		chroma.LiteralString: lipgloss.NewStyle().Foreground(p.Success),
		chroma.LiteralNumber: lipgloss.NewStyle().Foreground(p.Warning),
		chroma.Comment:       lipgloss.NewStyle().Foreground(p.Dim).Italic(true),
		chroma.Name:          lipgloss.NewStyle().Foreground(p.Foreground),
		chroma.NameBuiltin:   lipgloss.NewStyle().Foreground(p.Accent),
		chroma.Operator:      lipgloss.NewStyle().Foreground(p.Warning),
		chroma.Punctuation:   lipgloss.NewStyle().Foreground(p.Dim),
	}
}
