// Package source loads result sets from a database for the grid.
package source

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/sheenazien8/sqgrid/grid"
	"github.com/sheenazien8/sqgrid/logger"
)

var (
	ErrUnsupportedScheme = errors.New("unsupported database url scheme")
	ErrEmptyQuery        = errors.New("query is empty")
)

const (
	DriverMySQL      = "mysql"
	DriverPostgreSQL = "postgres"
	DriverSQLite     = "sqlite"
	DriverMongoDB    = "mongodb"
)

// Request describes what to load
type Request struct {
	// URL is a database url such as postgres://user@host/db, mysql://...,
	// sqlite:/path/to/file.db or mongodb://host/db
	URL string
	// Query is the SQL to run. A bare table name selects the whole table.
	// For MongoDB it is the collection name.
	Query string
	// Table is the table generated SQL targets. Defaults to the bare table
	// name or collection given as Query.
	Table string
	// PrimaryKeys names the columns that identify a row
	PrimaryKeys []string
	// Limit caps the rows read per result set; zero reads everything
	Limit int
}

// Load runs the request and returns its result sets
func Load(ctx context.Context, req Request) ([]grid.ResultSet, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	req.Query = query

	scheme := ""
	if u, err := url.Parse(req.URL); err == nil {
		scheme = strings.ToLower(u.Scheme)
	}

	logger.Debug("Loading result sets", map[string]any{
		"scheme": scheme,
		"query":  query,
		"limit":  req.Limit,
	})

	var (
		sets []grid.ResultSet
		err  error
	)
	switch scheme {
	case "mongodb", "mongodb+srv", "mongo":
		sets, err = loadMongo(ctx, req)
	default:
		sets, err = loadSQL(ctx, req)
	}
	if err != nil {
		logger.Error("Failed to load result sets", map[string]any{"error": err})
		return nil, err
	}

	for i := range sets {
		sets[i].Index = i
		markPrimaryKeys(&sets[i], req.PrimaryKeys)
	}
	return sets, nil
}

// markPrimaryKeys flags the named columns, matching names case-insensitively
func markPrimaryKeys(set *grid.ResultSet, keys []string) {
	for _, key := range keys {
		found := false
		for i := range set.Columns {
			if strings.EqualFold(set.Columns[i].Name, key) {
				set.Columns[i].IsPrimaryKey = true
				found = true
				break
			}
		}
		if !found {
			logger.Warn("Primary key column not in result set", map[string]any{
				"column":    key,
				"resultSet": set.Index,
			})
		}
	}
}

// isIdentifier reports whether s is a plain, optionally schema-qualified,
// table name rather than a statement
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '.':
		default:
			return false
		}
	}
	return !strings.HasPrefix(s, ".") && !strings.HasSuffix(s, ".")
}

// ParsePrimaryKeys splits a comma separated column list
func ParsePrimaryKeys(s string) []string {
	var keys []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			keys = append(keys, part)
		}
	}
	return keys
}

func wrap(what string, err error) error {
	return fmt.Errorf("%s: %w", what, err)
}
