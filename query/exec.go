package query

import (
	"context"
	"database/sql"

	"github.com/Konsultn-Engineering/typedq/database"
)

// One returns the single row of the result. Zero rows or more than one row
// is a KindCardinality error.
func (q *Query[V, T]) One(ctx context.Context) (T, error) {
	rec, found, err := q.single(ctx)
	if err != nil {
		return rec, err
	}
	if !found {
		return rec, newError(KindCardinality, q.stmt.name, sql.ErrNoRows)
	}
	return rec, nil
}

// Opt returns nil when the result is empty and the record when it has one
// row. More than one row is a KindCardinality error.
func (q *Query[V, T]) Opt(ctx context.Context) (*T, error) {
	rec, found, err := q.single(ctx)
	if err != nil || !found {
		return nil, err
	}
	return &rec, nil
}

// All drains the result into a slice, in result order. An empty result is
// an empty, non-nil slice.
func (q *Query[V, T]) All(ctx context.Context) ([]T, error) {
	s, err := q.Iter(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]T, 0)
	for s.Next() {
		out = append(out, s.Record())
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Iter executes the query and returns a stream that pulls and maps one row
// at a time. The caller must Close the stream if it stops early.
func (q *Query[V, T]) Iter(ctx context.Context) (*Stream[T], error) {
	rows, err := q.open(ctx)
	if err != nil {
		return nil, err
	}
	return &Stream[T]{
		rows: rows,
		next: q.record,
		wrap: q.execErr,
	}, nil
}

func (q *Query[V, T]) open(ctx context.Context) (database.Rows, error) {
	if q.err != nil {
		return nil, q.err
	}
	p, err := q.stmt.Prepare(ctx, q.client)
	if err != nil {
		return nil, err
	}
	rows, err := q.client.Query(ctx, p, q.params...)
	if err != nil {
		return nil, q.execErr(err)
	}
	return rows, nil
}

// record extracts and maps the current row. The row view does not outlive
// this call.
func (q *Query[V, T]) record(row database.Row) (T, error) {
	v, err := q.stmt.extract(row)
	if err != nil {
		var zero T
		return zero, q.execErr(err)
	}
	return q.mapper(v), nil
}

func (q *Query[V, T]) execErr(err error) error {
	return newError(KindExecution, q.stmt.name, err)
}

func (q *Query[V, T]) single(ctx context.Context) (T, bool, error) {
	var zero T

	rows, err := q.open(ctx)
	if err != nil {
		return zero, false, err
	}

	if !rows.Next() {
		return zero, false, q.closeRows(rows)
	}
	rec, err := q.record(rows)
	if err != nil {
		_ = rows.Close()
		return zero, false, err
	}
	if rows.Next() {
		_ = rows.Close()
		return zero, false, newError(KindCardinality, q.stmt.name, ErrTooManyRows)
	}
	if err := q.closeRows(rows); err != nil {
		return zero, false, err
	}
	return rec, true, nil
}

func (q *Query[V, T]) closeRows(rows database.Rows) error {
	err := rows.Err()
	if cerr := rows.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return q.execErr(err)
	}
	return nil
}
