package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PgxConn is the subset of *pgx.Conn the adapter needs. Use tx.Conn() to run
// statements inside a pgx.Tx and (*pgxpool.Conn).Conn() for pooled
// connections.
type PgxConn interface {
	Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error)
	Deallocate(ctx context.Context, name string) error
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PgxClient implements Client for a single pgx connection. Statements are
// prepared under their name and executed by name.
type PgxClient struct {
	conn PgxConn
}

// NewPgxClient creates a new PgxClient.
func NewPgxClient(conn PgxConn) *PgxClient {
	return &PgxClient{conn: conn}
}

// Key returns the wrapped connection.
func (p *PgxClient) Key() any { return p.conn }

// Prepare parses and plans sql on the server under name.
func (p *PgxClient) Prepare(ctx context.Context, name, sql string) (Prepared, error) {
	sd, err := p.conn.Prepare(ctx, name, sql)
	if err != nil {
		return nil, err
	}
	return &PgxPrepared{desc: sd}, nil
}

// Query executes a prepared statement that returns rows.
func (p *PgxClient) Query(ctx context.Context, stmt Prepared, args ...any) (Rows, error) {
	rows, err := p.conn.Query(ctx, stmt.Name(), args...)
	if err != nil {
		return nil, err
	}
	return &PgxRows{rows: rows}, nil
}

// Exec executes a prepared statement without returning rows.
func (p *PgxClient) Exec(ctx context.Context, stmt Prepared, args ...any) (int64, error) {
	tag, err := p.conn.Exec(ctx, stmt.Name(), args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// Deallocate drops the prepared statement from the connection.
func (p *PgxClient) Deallocate(ctx context.Context, stmt Prepared) error {
	return p.conn.Deallocate(ctx, stmt.Name())
}

// PgxPrepared wraps the statement description returned by the server.
type PgxPrepared struct {
	desc *pgconn.StatementDescription
}

func (s *PgxPrepared) Name() string { return s.desc.Name }
func (s *PgxPrepared) SQL() string  { return s.desc.SQL }

// Fields returns the result columns the server reported at prepare time.
func (s *PgxPrepared) Fields() []pgconn.FieldDescription { return s.desc.Fields }

// PgxRows implements Rows for pgx.Rows.
type PgxRows struct {
	rows pgx.Rows
}

// Next prepares the next result row for reading.
func (p *PgxRows) Next() bool { return p.rows.Next() }

// Scan copies the columns from the current row into the provided destinations.
func (p *PgxRows) Scan(dest ...any) error { return p.rows.Scan(dest...) }

// Err returns the error, if any, that was encountered during iteration.
func (p *PgxRows) Err() error { return p.rows.Err() }

// Close closes the rows iterator. It reads and discards any remaining rows so
// the connection can be reused.
func (p *PgxRows) Close() error {
	p.rows.Close()
	return p.rows.Err()
}

var _ Client = (*PgxClient)(nil)
