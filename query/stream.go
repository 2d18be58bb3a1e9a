package query

import (
	"iter"

	"github.com/Konsultn-Engineering/typedq/database"
)

// Stream is a lazy, single-pass sequence of records. Once exhausted or closed
// it yields nothing more.
type Stream[T any] struct {
	rows database.Rows
	next func(database.Row) (T, error)
	wrap func(error) error
	rec  T
	err  error
	done bool
}

// Next fetches and maps the next row. It returns false at the end of the
// result or on the first error, after which the stream is closed.
func (s *Stream[T]) Next() bool {
	if s.done {
		return false
	}
	if !s.rows.Next() {
		if err := s.rows.Err(); err != nil {
			s.err = s.wrap(err)
		}
		s.finish()
		return false
	}

	rec, err := s.next(s.rows)
	if err != nil {
		s.err = err
		s.finish()
		return false
	}
	s.rec = rec
	return true
}

// Record returns the record produced by the last successful Next.
func (s *Stream[T]) Record() T {
	return s.rec
}

// Err returns the error that ended the stream, if any.
func (s *Stream[T]) Err() error {
	return s.err
}

// Close releases the underlying cursor. Closing an abandoned stream lets the
// driver discard the unread rows so the connection stays usable.
func (s *Stream[T]) Close() error {
	if s.done {
		return nil
	}
	s.finish()
	return s.err
}

func (s *Stream[T]) finish() {
	s.done = true
	var zero T
	s.rec = zero
	if err := s.rows.Close(); err != nil && s.err == nil {
		s.err = s.wrap(err)
	}
}

// Seq adapts the stream to a range-over-func sequence. Breaking out of the
// loop closes the stream. A failure is yielded as the last pair.
func (s *Stream[T]) Seq() iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		defer s.Close()
		for s.Next() {
			if !yield(s.rec, nil) {
				return
			}
		}
		if s.err != nil {
			var zero T
			yield(zero, s.err)
		}
	}
}
