package query

import (
	"errors"
	"fmt"
)

// Kind classifies where a query failed.
type Kind uint8

const (
	// KindPrepare: the connection rejected the SQL or was unavailable while
	// preparing it.
	KindPrepare Kind = iota + 1
	// KindBind: the bound parameters do not match the statement's arity.
	KindBind
	// KindExecution: network, connection or decode failure while executing
	// or reading rows.
	KindExecution
	// KindCardinality: One or Opt saw the wrong number of rows.
	KindCardinality
)

func (k Kind) String() string {
	switch k {
	case KindPrepare:
		return "prepare"
	case KindBind:
		return "bind"
	case KindExecution:
		return "execution"
	case KindCardinality:
		return "cardinality"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

var (
	// ErrTooManyRows is wrapped by the cardinality error of One and Opt when
	// more than one row comes back. Zero rows wrap sql.ErrNoRows.
	ErrTooManyRows = errors.New("more than one row in result set")
	// ErrArity is wrapped by bind errors.
	ErrArity = errors.New("wrong number of parameters")
)

// Error is returned by every terminal operation.
type Error struct {
	Kind      Kind
	Statement string
	Err       error
}

func (e *Error) Error() string {
	return fmt.Sprintf("query %s: %s: %v", e.Statement, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, statement string, err error) *Error {
	return &Error{Kind: kind, Statement: statement, Err: err}
}

// KindOf returns the Kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var qe *Error
	if errors.As(err, &qe) {
		return qe.Kind
	}
	return 0
}

func IsPrepare(err error) bool     { return KindOf(err) == KindPrepare }
func IsBind(err error) bool        { return KindOf(err) == KindBind }
func IsExecution(err error) bool   { return KindOf(err) == KindExecution }
func IsCardinality(err error) bool { return KindOf(err) == KindCardinality }
