package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sheenazien8/sqgrid/grid"
	"github.com/sheenazien8/sqgrid/grid/export"
)

// writeExport saves rows to a new file in the configured export directory
// and returns its path
func (m Model) writeExport(rows []grid.Row, columns []grid.Column, opts export.Options) (string, error) {
	data, err := export.ExportBinary(rows, columns, opts)
	if err != nil {
		return "", err
	}

	dir := m.config.ExportDir
	if dir == "" {
		if dir, err = os.Getwd(); err != nil {
			return "", fmt.Errorf("failed to resolve export dir: %w", err)
		}
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export dir: %w", err)
	}

	path := filepath.Join(dir, exportFileName(opts.TableName, opts.Format, m.now().Format("20060102_150405")))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export: %w", err)
	}
	return path, nil
}

func exportFileName(table string, format export.Format, stamp string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}
		return r
	}, table)
	if name == "" {
		name = "export"
	}
	return name + "_" + stamp + export.FormatInfo(format).Extension
}
