package query

import (
	"context"

	"github.com/Konsultn-Engineering/typedq/database"
)

// Query is a statement bound to a connection and parameter values, not yet
// executed. It must be consumed by exactly one terminal operation.
type Query[V, T any] struct {
	stmt   *Statement[V, T]
	client database.Client
	params []any
	err    error
	mapper Mapper[V, T]
}

// Map replaces the mapping of q, projecting a different record from the same
// row view without redeclaring the SQL.
func Map[V, T, R any](q *Query[V, T], mapper Mapper[V, R]) *Query[V, R] {
	return &Query[V, R]{
		stmt:   &Statement[V, R]{Handle: q.stmt.Handle, extract: q.stmt.extract, mapper: mapper},
		client: q.client,
		params: q.params,
		err:    q.err,
		mapper: mapper,
	}
}

// Params returns the bound parameter values in placeholder order.
func (q *Query[V, T]) Params() []any {
	return q.params
}

// ExecQuery is a bound statement that returns no rows.
type ExecQuery struct {
	stmt   *ExecStatement
	client database.Client
	params []any
	err    error
}

// Exec prepares the statement if needed, runs it, and returns the number of
// rows affected.
func (q *ExecQuery) Exec(ctx context.Context) (int64, error) {
	if q.err != nil {
		return 0, q.err
	}
	p, err := q.stmt.Prepare(ctx, q.client)
	if err != nil {
		return 0, err
	}
	n, err := q.client.Exec(ctx, p, q.params...)
	if err != nil {
		return 0, newError(KindExecution, q.stmt.name, err)
	}
	return n, nil
}

func (q *ExecQuery) Params() []any {
	return q.params
}
