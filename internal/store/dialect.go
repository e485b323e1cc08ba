package store

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnknownDialect is returned by ParseDialect for unsupported backends.
var ErrUnknownDialect = errors.New("unknown sql dialect")

// Dialect selects the placeholder style and generated-key strategy used by
// the stores.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectMySQL    Dialect = "mysql"
	DialectPostgres Dialect = "postgres"
)

func ParseDialect(name string) (Dialect, error) {
	switch d := Dialect(strings.ToLower(strings.TrimSpace(name))); d {
	case DialectSQLite, DialectMySQL, DialectPostgres:
		return d, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDialect, name)
	}
}

// bind returns the placeholder for the n-th (1-based) statement argument.
func (d Dialect) bind(n int) string {
	if d == DialectPostgres {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

// binds returns a comma separated list of placeholders for arguments
// from..from+count-1.
func (d Dialect) binds(from, count int) string {
	parts := make([]string, count)
	for i := range parts {
		parts[i] = d.bind(from + i)
	}
	return strings.Join(parts, ", ")
}

// returningID reports whether inserts must use RETURNING to read the
// generated key; lib/pq does not implement Result.LastInsertId.
func (d Dialect) returningID() bool {
	return d == DialectPostgres
}
