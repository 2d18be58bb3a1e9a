package database

import (
	"context"
	"database/sql"
)

// SQLConn is satisfied by *sql.DB, *sql.Conn, *sql.Tx and *sqlx.DB.
type SQLConn interface {
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

// SqlClient implements Client for a database/sql handle.
type SqlClient struct {
	conn SQLConn
}

// NewSQLClient creates a new SqlClient.
func NewSQLClient(conn SQLConn) *SqlClient {
	return &SqlClient{conn: conn}
}

// Key returns the wrapped handle.
func (s *SqlClient) Key() any { return s.conn }

// Prepare creates a prepared statement. database/sql has no statement names,
// so name is only kept for reporting.
func (s *SqlClient) Prepare(ctx context.Context, name, query string) (Prepared, error) {
	stmt, err := s.conn.PrepareContext(ctx, query)
	if err != nil {
		return nil, err
	}
	return &SqlPrepared{name: name, sql: query, stmt: stmt}, nil
}

// Query executes a prepared statement that returns rows.
func (s *SqlClient) Query(ctx context.Context, stmt Prepared, args ...any) (Rows, error) {
	rows, err := sqlStmt(stmt).QueryContext(ctx, args...)
	if err != nil {
		return nil, err
	}
	return &SqlRows{rows: rows}, nil
}

// Exec executes a prepared statement without returning rows.
func (s *SqlClient) Exec(ctx context.Context, stmt Prepared, args ...any) (int64, error) {
	res, err := sqlStmt(stmt).ExecContext(ctx, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Deallocate closes the prepared statement.
func (s *SqlClient) Deallocate(_ context.Context, stmt Prepared) error {
	return sqlStmt(stmt).Close()
}

func sqlStmt(p Prepared) *sql.Stmt {
	return p.(*SqlPrepared).stmt
}

// SqlPrepared wraps a *sql.Stmt.
type SqlPrepared struct {
	name string
	sql  string
	stmt *sql.Stmt
}

func (s *SqlPrepared) Name() string { return s.name }
func (s *SqlPrepared) SQL() string  { return s.sql }

// Close closes the underlying statement.
func (s *SqlPrepared) Close() error { return s.stmt.Close() }

// SqlRows implements Rows for *sql.Rows.
type SqlRows struct {
	rows *sql.Rows
}

// Next prepares the next result row for reading.
func (s *SqlRows) Next() bool { return s.rows.Next() }

// Scan copies the columns from the current row into the provided destinations.
func (s *SqlRows) Scan(dest ...any) error { return s.rows.Scan(dest...) }

// Err returns the error, if any, that was encountered during iteration.
func (s *SqlRows) Err() error { return s.rows.Err() }

// Close closes the rows iterator.
func (s *SqlRows) Close() error { return s.rows.Close() }

var _ Client = (*SqlClient)(nil)
