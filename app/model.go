package app

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sheenazien8/sqgrid/config"
	"github.com/sheenazien8/sqgrid/grid"
	"github.com/sheenazien8/sqgrid/grid/engine"
	"github.com/sheenazien8/sqgrid/logger"
	"github.com/sheenazien8/sqgrid/source"
	"github.com/sheenazien8/sqgrid/storage"
	"github.com/sheenazien8/sqgrid/ui/filter"
	"github.com/sheenazien8/sqgrid/ui/modal-cell-preview"
	"github.com/sheenazien8/sqgrid/ui/modal-column-visibility"
	"github.com/sheenazien8/sqgrid/ui/modal-edit-cell"
	"github.com/sheenazien8/sqgrid/ui/modal-exit"
	"github.com/sheenazien8/sqgrid/ui/modal-export"
	"github.com/sheenazien8/sqgrid/ui/modal-help"
	"github.com/sheenazien8/sqgrid/ui/modal-sql-preview"
	"github.com/sheenazien8/sqgrid/ui/tab"
	"github.com/sheenazien8/sqgrid/ui/toast"
)

// Focus represents which part of the screen receives input
type Focus int

const (
	FocusTable Focus = iota
	FocusFilter
	FocusEditCellModal
	FocusCellPreviewModal
	FocusColumnsModal
	FocusExportModal
	FocusSQLPreviewModal
	FocusHelpModal
	FocusExitModal
)

// DefaultLoadTimeout bounds the initial query
const DefaultLoadTimeout = 30 * time.Second

// Layout heights in terminal lines
const (
	headerHeight    = 1
	filterBarHeight = 3
	footerHeight    = 1
)

// LoadedMsg carries the result sets read from the database
type LoadedMsg struct {
	Sets []grid.ResultSet
}

// LoadFailedMsg reports a failed load
type LoadFailedMsg struct {
	Err error
}

// Options configure the application
type Options struct {
	Request     source.Request
	Config      *config.Config
	LoadTimeout time.Duration
	// History records loads and applied scripts when set
	History *storage.Store
}

type Model struct {
	Grid             *engine.Grid
	Tabs             tab.Model
	Filter           filter.Model
	Toast            toast.Model
	EditCellModal    modaleditcell.Model
	CellPreviewModal modalcellpreview.Model
	ColumnsModal     modalcolumnvisibility.Model
	ExportModal      modalexport.Model
	SQLPreviewModal  modalsqlpreview.Model
	HelpModal        modalhelp.Model
	ExitModal        modalexit.Model
	Focus            Focus

	request     source.Request
	loadTimeout time.Duration
	history     *storage.Store
	loading     bool
	loadErr     error

	TerminalWidth  int
	TerminalHeight int
	ContentHeight  int

	HeaderStyle string
	FooterStyle string

	config    *config.Config
	clipboard func(string) error
	now       func() time.Time
}

func New(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	timeout := opts.LoadTimeout
	if timeout <= 0 {
		timeout = DefaultLoadTimeout
	}

	g := engine.New(gridOptions(cfg))
	return Model{
		Grid:             g,
		Tabs:             tab.New(g),
		Filter:           filter.New(nil),
		Toast:            toast.New(),
		EditCellModal:    modaleditcell.New(),
		CellPreviewModal: modalcellpreview.New(),
		ColumnsModal:     modalcolumnvisibility.New(),
		ExportModal:      modalexport.New(),
		SQLPreviewModal:  modalsqlpreview.New(),
		HelpModal:        modalhelp.New(),
		ExitModal:        modalexit.New(),
		Focus:            FocusTable,
		request:          opts.Request,
		loadTimeout:      timeout,
		history:          opts.History,
		loading:          opts.Request.URL != "",
		config:           cfg,
		clipboard:        clipboard.WriteAll,
		now:              time.Now,
	}
}

func gridOptions(cfg *config.Config) engine.Options {
	return engine.Options{Overscan: cfg.Overscan, RowHeight: cfg.RowHeight}
}

// Init starts loading the result sets
func (m Model) Init() tea.Cmd {
	if !m.loading {
		return nil
	}
	return load(m.request, m.loadTimeout, m.history)
}

func load(req source.Request, timeout time.Duration, history *storage.Store) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		started := time.Now()
		sets, err := source.Load(ctx, req)

		entry := storage.QueryHistory{
			URL:        req.URL,
			Query:      req.Query,
			ExecutedAt: started,
			Duration:   time.Since(started),
		}
		for _, set := range sets {
			entry.Rows += int64(len(set.Rows))
		}
		if err != nil {
			entry.Error = err.Error()
		}
		record(history, entry)

		if err != nil {
			return LoadFailedMsg{Err: err}
		}
		logger.Info("Result sets loaded", map[string]any{
			"sets":     len(sets),
			"rows":     entry.Rows,
			"duration": entry.Duration.String(),
		})
		return LoadedMsg{Sets: sets}
	}
}

func record(history *storage.Store, entry storage.QueryHistory) {
	if history == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := history.AddQueryHistory(ctx, entry); err != nil {
		logger.Warn("Failed to record query history", map[string]any{"error": err.Error()})
	}
}

// ready reports whether there is a result set to show
func (m Model) ready() bool {
	return m.Grid != nil && m.Grid.Len() > 0
}
