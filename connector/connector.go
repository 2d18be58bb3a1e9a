// Package connector opens database connections and hands them to the query
// layer as database.Client values.
package connector

import (
	"context"

	"github.com/Konsultn-Engineering/typedq/database"
	"github.com/Konsultn-Engineering/typedq/dialect"
)

// Session is a database.Client reserved for the caller until Release.
type Session interface {
	database.Client
	Release()
}

// Connection is an open pool of database connections.
type Connection interface {
	// Acquire reserves a session. Statements cached against a session are
	// reused the next time the same underlying connection is acquired.
	Acquire(ctx context.Context) (Session, error)
	Dialect() dialect.Dialect
	Health(ctx context.Context) error
	Stats() ConnectionStats
	Close() error
}

// WithSession acquires a session, runs fn with it and releases it.
func WithSession(ctx context.Context, conn Connection, fn func(database.Client) error) error {
	s, err := conn.Acquire(ctx)
	if err != nil {
		return err
	}
	defer s.Release()
	return fn(s)
}
