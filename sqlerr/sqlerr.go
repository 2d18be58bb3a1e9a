// Package sqlerr classifies errors returned by the Postgres drivers.
//
// Server errors from pgx (*pgconn.PgError) and lib/pq (*pq.Error) are
// converted into a single Error carrying an application Code, so callers can
// branch on "unique violation" without knowing which driver produced it.
package sqlerr

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

type Code int

const (
	Other Code = iota
	NotNullViolation
	ForeignKeyViolation
	UniqueViolation
	CheckViolation
	ExclusionViolation
	InvalidTextRepresentation
	NumericValueOutOfRange
	StringDataRightTruncation
	UndefinedTable
	UndefinedColumn
	SyntaxError
	InvalidPreparedStatement
	SerializationFailure
	DeadlockDetected
	ConnectionFailure
	QueryCanceled
)

var codeNames = map[Code]string{
	Other:                     "other",
	NotNullViolation:          "not_null_violation",
	ForeignKeyViolation:       "foreign_key_violation",
	UniqueViolation:           "unique_violation",
	CheckViolation:            "check_violation",
	ExclusionViolation:        "exclusion_violation",
	InvalidTextRepresentation: "invalid_text_representation",
	NumericValueOutOfRange:    "numeric_value_out_of_range",
	StringDataRightTruncation: "string_data_right_truncation",
	UndefinedTable:            "undefined_table",
	UndefinedColumn:           "undefined_column",
	SyntaxError:               "syntax_error",
	InvalidPreparedStatement:  "invalid_sql_statement_name",
	SerializationFailure:      "serialization_failure",
	DeadlockDetected:          "deadlock_detected",
	ConnectionFailure:         "connection_failure",
	QueryCanceled:             "query_canceled",
}

func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("code(%d)", int(c))
}

// MapCode maps a SQLSTATE to a Code.
func MapCode(sqlstate string) Code {
	switch sqlstate {
	case "23502":
		return NotNullViolation
	case "23503":
		return ForeignKeyViolation
	case "23505":
		return UniqueViolation
	case "23514":
		return CheckViolation
	case "23P01":
		return ExclusionViolation
	case "22P02":
		return InvalidTextRepresentation
	case "22003":
		return NumericValueOutOfRange
	case "22001":
		return StringDataRightTruncation
	case "42P01":
		return UndefinedTable
	case "42703":
		return UndefinedColumn
	case "42601":
		return SyntaxError
	case "26000":
		return InvalidPreparedStatement
	case "40001":
		return SerializationFailure
	case "40P01":
		return DeadlockDetected
	case "57014":
		return QueryCanceled
	}
	if len(sqlstate) == 5 && sqlstate[:2] == "08" {
		return ConnectionFailure
	}
	return Other
}

type Severity int

const (
	SeverityError Severity = iota
	SeverityFatal
	SeverityPanic
	SeverityWarning
	SeverityNotice
)

func MapSeverity(s string) Severity {
	switch s {
	case "FATAL":
		return SeverityFatal
	case "PANIC":
		return SeverityPanic
	case "WARNING":
		return SeverityWarning
	case "NOTICE", "DEBUG", "INFO", "LOG":
		return SeverityNotice
	default:
		return SeverityError
	}
}

// Error is a classified server error.
type Error struct {
	Code           Code
	Severity       Severity
	DatabaseCode   string
	Message        string
	Detail         string
	SchemaName     string
	TableName      string
	ColumnName     string
	DataTypeName   string
	ConstraintName string
	driverErr      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (SQLSTATE %s): %s", e.Code, e.DatabaseCode, e.Message)
}

func (e *Error) Unwrap() error {
	return e.driverErr
}

// ConvertPgError converts a pgx server error.
func ConvertPgError(src *pgconn.PgError) *Error {
	return &Error{
		Code:           MapCode(src.Code),
		Severity:       MapSeverity(src.Severity),
		DatabaseCode:   src.Code,
		Message:        src.Message,
		Detail:         src.Detail,
		SchemaName:     src.SchemaName,
		TableName:      src.TableName,
		ColumnName:     src.ColumnName,
		DataTypeName:   src.DataTypeName,
		ConstraintName: src.ConstraintName,
		driverErr:      src,
	}
}

// ConvertPqError converts a lib/pq server error.
func ConvertPqError(src *pq.Error) *Error {
	return &Error{
		Code:           MapCode(string(src.Code)),
		Severity:       MapSeverity(src.Severity),
		DatabaseCode:   string(src.Code),
		Message:        src.Message,
		Detail:         src.Detail,
		SchemaName:     src.Schema,
		TableName:      src.Table,
		ColumnName:     src.Column,
		DataTypeName:   src.DataTypeName,
		ConstraintName: src.Constraint,
		driverErr:      src,
	}
}

// Convert finds a server error in err's chain and classifies it. It returns
// nil when err holds no server error.
func Convert(err error) *Error {
	var sqlErr *Error
	if errors.As(err, &sqlErr) {
		return sqlErr
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return ConvertPgError(pgErr)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return ConvertPqError(pqErr)
	}
	return nil
}

// ErrCode returns the Code of the server error in err's chain, or Other.
func ErrCode(err error) Code {
	if e := Convert(err); e != nil {
		return e.Code
	}
	return Other
}

// IsNotFound reports whether err means a query returned no rows.
func IsNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows)
}
