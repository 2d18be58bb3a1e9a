package query

import "github.com/Konsultn-Engineering/typedq/database"

// Extractor reads the current row into a row view. It scans columns by
// position and fails when a column is missing or has an incompatible type.
//
// The row is only valid during the call. An extractor must copy what it
// needs and never keep row.
type Extractor[V any] func(row database.Row) (V, error)

// Mapper turns a row view into the record returned to the caller.
type Mapper[V, T any] func(V) T

// Identity is the mapper for statements whose row view is already the record.
func Identity[V any]() Mapper[V, V] {
	return func(v V) V { return v }
}

// StringSQL is the capability shared by string-like parameter types.
type StringSQL interface {
	~string | ~[]byte
}

// Text converts any string-like value to the string bound as a parameter.
func Text[S StringSQL](v S) string {
	return string(v)
}
