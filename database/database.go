// Package database defines the connection capability the query layer runs
// against, with adapters for pgx connections and database/sql handles.
package database

import "context"

// Client is one logical database connection. A Client must not be used by two
// in-flight queries at once.
type Client interface {
	// Key identifies the underlying connection. Prepared forms are cached
	// per key.
	Key() any
	Prepare(ctx context.Context, name, sql string) (Prepared, error)
	Query(ctx context.Context, stmt Prepared, args ...any) (Rows, error)
	// Exec runs a statement that returns no rows and reports the number of
	// rows affected.
	Exec(ctx context.Context, stmt Prepared, args ...any) (int64, error)
	// Deallocate releases the server-side prepared form.
	Deallocate(ctx context.Context, stmt Prepared) error
}

// Prepared is the server-side parsed and planned form of a statement.
type Prepared interface {
	Name() string
	SQL() string
}

// Row is the current result row. Values are read by position.
type Row interface {
	Scan(dest ...any) error
}

type Rows interface {
	Row
	Next() bool
	Err() error
	Close() error
}
