package source

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strconv"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	"github.com/sheenazien8/sqgrid/grid"
	"github.com/sheenazien8/sqgrid/logger"
	"github.com/xo/dburl"
	_ "modernc.org/sqlite"
)

func loadSQL(ctx context.Context, req Request) ([]grid.ResultSet, error) {
	db, driver, err := open(req.URL)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return nil, wrap("failed to connect", err)
	}

	query, table := statement(req, driver)
	logger.Info("Executing query", map[string]any{"driver": driver, "query": query})

	return Query(ctx, db, query, table, req.Limit)
}

// open resolves a database url to one of the registered drivers
func open(urlstr string) (*sql.DB, string, error) {
	u, err := dburl.Parse(urlstr)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrUnsupportedScheme, err)
	}

	var driver, dsn string
	switch {
	case u.Driver == "mysql":
		driver, dsn = DriverMySQL, u.DSN
	case u.Driver == "postgres":
		driver, dsn = DriverPostgreSQL, u.DSN
	case u.Driver == "sqlite3" || u.Driver == "moderncsqlite" || u.UnaliasedDriver == "sqlite3":
		driver, dsn = DriverSQLite, u.DSN
	default:
		return nil, "", fmt.Errorf("%w: %s", ErrUnsupportedScheme, u.Driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, "", wrap("failed to open database", err)
	}
	return db, driver, nil
}

// statement expands a bare table name into a select of the whole table
func statement(req Request, driver string) (query, table string) {
	query, table = req.Query, req.Table
	if !isIdentifier(query) {
		return query, table
	}
	if table == "" {
		table = query
	}

	parts := strings.Split(query, ".")
	for i, p := range parts {
		if driver == DriverMySQL {
			parts[i] = "`" + p + "`"
		} else {
			parts[i] = `"` + p + `"`
		}
	}
	return "SELECT * FROM " + strings.Join(parts, "."), table
}

// Query runs query on db and reads every result set it returns. Each set
// is tagged with table for SQL generation.
func Query(ctx context.Context, db *sql.DB, query, table string, limit int) ([]grid.ResultSet, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, wrap("query failed", err)
	}
	defer rows.Close()

	var sets []grid.ResultSet
	for {
		set, err := readResultSet(rows, limit)
		if err != nil {
			return nil, err
		}
		set.Index = len(sets)
		set.Table = table
		sets = append(sets, set)

		if !rows.NextResultSet() {
			break
		}
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("query failed", err)
	}
	return sets, nil
}

func readResultSet(rows *sql.Rows, limit int) (grid.ResultSet, error) {
	types, err := rows.ColumnTypes()
	if err != nil {
		return grid.ResultSet{}, wrap("failed to read columns", err)
	}

	names := make([]string, len(types))
	for i, ct := range types {
		names[i] = ct.Name()
	}
	columns := grid.NewColumns(names...)
	for i, ct := range types {
		columns[i].DeclaredType = ct.DatabaseTypeName()
	}

	var data []grid.Row
	for rows.Next() {
		if limit > 0 && len(data) >= limit {
			logger.Warn("Result set truncated", map[string]any{"limit": limit})
			break
		}

		values := make([]any, len(columns))
		valuePtrs := make([]any, len(columns))
		for i := range columns {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			return grid.ResultSet{}, wrap("failed to scan row", err)
		}

		row := make(grid.Row, len(columns))
		for i, val := range values {
			row[i] = normalize(val, columns[i].DeclaredType)
		}
		data = append(data, row)
	}
	if err := rows.Err(); err != nil {
		return grid.ResultSet{}, wrap("failed to read rows", err)
	}

	for i := range columns {
		columns[i].DisplayWidth = displayWidth(columns[i], data, i)
	}
	return grid.ResultSet{Columns: columns, Rows: data}, nil
}

// normalize turns driver values into grid cell values. Text that some
// drivers return as bytes becomes a string unless the column is binary.
// Exact numeric columns come back as text from mysql and lib/pq and are read
// as float64 when that keeps every digit.
func normalize(val any, declaredType string) any {
	var text string
	switch v := val.(type) {
	case []byte:
		if isBinaryType(declaredType) {
			return append([]byte(nil), v...)
		}
		text = string(v)
	case string:
		text = v
	default:
		return val
	}
	if isDecimalType(declaredType) {
		if f, ok := parseDecimal(text); ok {
			return f
		}
	}
	return text
}

func isDecimalType(declaredType string) bool {
	t := strings.ToUpper(strings.TrimSpace(declaredType))
	if i := strings.IndexByte(t, '('); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	t = strings.TrimSuffix(t, " UNSIGNED")
	switch t {
	case "DECIMAL", "DEC", "NUMERIC", "NUMBER", "FIXED", "MONEY", "SMALLMONEY":
		return true
	}
	return false
}

// maxExactDigits is the number of significant decimal digits a float64 holds
const maxExactDigits = 15

func parseDecimal(text string) (float64, bool) {
	text = strings.TrimSpace(text)
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	digits := strings.TrimLeft(text, "+-")
	if strings.Contains(digits, ".") {
		digits = strings.TrimRight(digits, "0")
		digits = strings.Replace(digits, ".", "", 1)
	}
	if len(strings.TrimLeft(digits, "0")) > maxExactDigits {
		return 0, false
	}
	return f, true
}

func isBinaryType(declaredType string) bool {
	t := strings.ToUpper(declaredType)
	return strings.Contains(t, "BLOB") || strings.Contains(t, "BINARY") || t == "BYTEA"
}

const maxDisplayWidth = 40

func displayWidth(col grid.Column, rows []grid.Row, i int) int {
	width := col.DisplayWidth
	for _, row := range rows {
		width = max(width, len(grid.ToString(row.Cell(i)))+2)
		if width >= maxDisplayWidth {
			return maxDisplayWidth
		}
	}
	return width
}
