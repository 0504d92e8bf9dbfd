// Package theme holds the color palettes and prebuilt lipgloss styles of the
// result viewer.
package theme

import (
	"slices"

	"github.com/charmbracelet/lipgloss"
)

// Palette is the set of colors a theme is built from
type Palette struct {
	Foreground lipgloss.Color
	Dim        lipgloss.Color
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Border     lipgloss.Color
	CursorBg   lipgloss.Color
	SelectBg   lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color
}

type Theme struct {
	Name    string
	Palette Palette

	Header    lipgloss.Style
	Footer    lipgloss.Style
	StatusBar lipgloss.Style
	Border    lipgloss.Style
	Modal     lipgloss.Style
	Title     lipgloss.Style
	Muted     lipgloss.Style

	ColumnHeader lipgloss.Style
	PinnedHeader lipgloss.Style
	SortMarker   lipgloss.Style
	Cell         lipgloss.Style
	NullCell     lipgloss.Style
	Cursor       lipgloss.Style
	Selected     lipgloss.Style
	Modified     lipgloss.Style
	DeletedRow   lipgloss.Style
	Separator    lipgloss.Style

	TabActive   lipgloss.Style
	TabInactive lipgloss.Style
	Badge       lipgloss.Style

	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
}

// DefaultName is the theme used when none is configured
const DefaultName = "default"

var palettes = map[string]Palette{
	DefaultName: {
		Foreground: "#FAFAFA", Dim: "#888888", Primary: "#7D56F4", Accent: "#9D7BFF",
		Border: "#3C3C3C", CursorBg: "#7D56F4", SelectBg: "#3B3363",
		Success: "#50FA7B", Warning: "#FFB86C", Error: "#FF5555",
	},
	"dracula": {
		Foreground: "#f8f8f2", Dim: "#6272a4", Primary: "#bd93f9", Accent: "#8be9fd",
		Border: "#44475a", CursorBg: "#bd93f9", SelectBg: "#44475a",
		Success: "#50fa7b", Warning: "#ffb86c", Error: "#ff5555",
	},
	"nord": {
		Foreground: "#eceff4", Dim: "#4c566a", Primary: "#5e81ac", Accent: "#88c0d0",
		Border: "#3b4252", CursorBg: "#5e81ac", SelectBg: "#434c5e",
		Success: "#a3be8c", Warning: "#ebcb8b", Error: "#bf616a",
	},
	"gruvbox": {
		Foreground: "#ebdbb2", Dim: "#928374", Primary: "#fe8019", Accent: "#8ec07c",
		Border: "#3c3836", CursorBg: "#d65d0e", SelectBg: "#504945",
		Success: "#b8bb26", Warning: "#fabd2f", Error: "#fb4934",
	},
	"tokyo-night": {
		Foreground: "#c0caf5", Dim: "#565f89", Primary: "#7aa2f7", Accent: "#7dcfff",
		Border: "#3b4261", CursorBg: "#7aa2f7", SelectBg: "#33467c",
		Success: "#9ece6a", Warning: "#e0af68", Error: "#f7768e",
	},
	"catppuccin": {
		Foreground: "#cdd6f4", Dim: "#6c7086", Primary: "#cba6f7", Accent: "#89dceb",
		Border: "#313244", CursorBg: "#cba6f7", SelectBg: "#45475a",
		Success: "#a6e3a1", Warning: "#f9e2af", Error: "#f38ba8",
	},
	"monokai": {
		Foreground: "#f8f8f2", Dim: "#75715e", Primary: "#f92672", Accent: "#a6e22e",
		Border: "#49483e", CursorBg: "#f92672", SelectBg: "#49483e",
		Success: "#a6e22e", Warning: "#e6db74", Error: "#f92672",
	},
}

// Current holds the active theme
var Current = build(DefaultName, palettes[DefaultName])

// Names returns the available theme names, sorted
func Names() []string {
	names := make([]string, 0, len(palettes))
	for name := range palettes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ByName builds the named theme. Unknown names return the default theme and false.
func ByName(name string) (*Theme, bool) {
	p, ok := palettes[name]
	if !ok {
		return build(DefaultName, palettes[DefaultName]), false
	}
	return build(name, p), true
}

// Set makes the named theme current and reports whether it exists
func Set(name string) bool {
	t, ok := ByName(name)
	Current = t
	return ok
}

// Next returns the name of the theme after the current one
func Next() string {
	names := Names()
	i := slices.Index(names, Current.Name)
	return names[(i+1)%len(names)]
}

func build(name string, p Palette) *Theme {
	bar := lipgloss.NewStyle().Foreground(p.Foreground).Background(p.Primary)

	return &Theme{
		Name:    name,
		Palette: p,

		Header:    bar.Copy().Bold(true).Padding(0, 2),
		Footer:    bar.Copy().Padding(0, 2),
		StatusBar: lipgloss.NewStyle().Foreground(p.Dim),
		Border:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.Border),
		Modal: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Primary).
			Padding(1, 2),
		Title: lipgloss.NewStyle().Foreground(p.Primary).Bold(true),
		Muted: lipgloss.NewStyle().Foreground(p.Dim),

		ColumnHeader: lipgloss.NewStyle().Foreground(p.Foreground).Bold(true),
		PinnedHeader: lipgloss.NewStyle().Foreground(p.Accent).Bold(true),
		SortMarker:   lipgloss.NewStyle().Foreground(p.Accent),
		Cell:         lipgloss.NewStyle().Foreground(p.Foreground),
		NullCell:     lipgloss.NewStyle().Foreground(p.Dim).Italic(true),
		Cursor:       lipgloss.NewStyle().Foreground(p.Foreground).Background(p.CursorBg).Bold(true),
		Selected:     lipgloss.NewStyle().Foreground(p.Foreground).Background(p.SelectBg),
		Modified:     lipgloss.NewStyle().Foreground(p.Warning).Bold(true),
		DeletedRow:   lipgloss.NewStyle().Foreground(p.Error).Strikethrough(true),
		Separator:    lipgloss.NewStyle().Foreground(p.Border),

		TabActive:   bar.Copy().Bold(true).Padding(0, 1),
		TabInactive: lipgloss.NewStyle().Foreground(p.Dim).Padding(0, 1),
		Badge:       lipgloss.NewStyle().Foreground(p.Warning),

		Success: lipgloss.NewStyle().Foreground(p.Success),
		Warning: lipgloss.NewStyle().Foreground(p.Warning),
		Error:   lipgloss.NewStyle().Foreground(p.Error),
	}
}
