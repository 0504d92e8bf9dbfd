package export

import (
	"fmt"
	"math"
	"time"

	"github.com/sheenazien8/sqgrid/grid"
	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

func toXLSX(rows []grid.Row, columns []grid.Column, opts Options) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetName(opts.TableName)
	if sheet != defaultSheet {
		if err := f.SetSheetName(defaultSheet, sheet); err != nil {
			return nil, fmt.Errorf("rename sheet: %w", err)
		}
	}

	rowNum := 1
	if opts.IncludeHeaders && len(columns) > 0 {
		for i, col := range columns {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			if err := f.SetCellValue(sheet, cell, col.Name); err != nil {
				return nil, fmt.Errorf("write header: %w", err)
			}
		}
		bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		if err != nil {
			return nil, fmt.Errorf("header style: %w", err)
		}
		last, _ := excelize.CoordinatesToCellName(len(columns), 1)
		if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
			return nil, fmt.Errorf("header style: %w", err)
		}
		rowNum++
	}

	for _, row := range rows {
		for i := range columns {
			v, ok := xlsxValue(row.Cell(i))
			if !ok {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(i+1, rowNum)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("write cell %s: %w", cell, err)
			}
		}
		rowNum++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// xlsxValue keeps numbers, bools and times typed; nil cells stay empty
func xlsxValue(v any) (any, bool) {
	switch x := v.(type) {
	case nil:
		return nil, false
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil, false
		}
		return x, true
	case bool, string, time.Time,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, float32:
		return x, true
	}
	return grid.ToString(v), true
}

// sheetName drops the characters Excel rejects and caps the length at 31
func sheetName(table string) string {
	if table == "" {
		return defaultSheet
	}
	var out []rune
	for _, r := range table {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			continue
		}
		out = append(out, r)
	}
	if len(out) > 31 {
		out = out[:31]
	}
	if len(out) == 0 {
		return defaultSheet
	}
	return string(out)
}
