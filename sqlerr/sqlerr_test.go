package sqlerr

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapCode(t *testing.T) {
	tests := map[string]Code{
		"23505": UniqueViolation,
		"23502": NotNullViolation,
		"23503": ForeignKeyViolation,
		"26000": InvalidPreparedStatement,
		"42601": SyntaxError,
		"08006": ConnectionFailure,
		"XX000": Other,
	}
	for sqlstate, want := range tests {
		assert.Equal(t, want, MapCode(sqlstate), sqlstate)
	}
	assert.Equal(t, "unique_violation", UniqueViolation.String())
}

func TestErrCode(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", Severity: "ERROR", TableName: "users"}
	wrapped := fmt.Errorf("query create_user: execution: %w", pgErr)
	assert.Equal(t, UniqueViolation, ErrCode(wrapped))

	pqErr := &pq.Error{Code: "23502", Severity: "ERROR", Column: "email"}
	assert.Equal(t, NotNullViolation, ErrCode(fmt.Errorf("insert: %w", pqErr)))

	assert.Equal(t, Other, ErrCode(errors.New("boom")))
	assert.Nil(t, Convert(errors.New("boom")))

	converted := Convert(wrapped)
	require.NotNil(t, converted)
	assert.Equal(t, SeverityError, converted.Severity)
	assert.ErrorIs(t, converted, pgErr)
	assert.Same(t, converted, Convert(fmt.Errorf("again: %w", converted)))
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Description
	}{
		{
			name: "unique username",
			err: &pgconn.PgError{
				Code:           "23505",
				TableName:      "users",
				ConstraintName: "users_username_key",
			},
			want: Description{
				Code:    "USER_ALREADY_EXISTS",
				Message: "A User with this Username already exists",
				Field:   "username",
			},
		},
		{
			name: "unique multi word column",
			err: &pgconn.PgError{
				Code:           "23505",
				TableName:      "users",
				ConstraintName: "users_first_name_key",
			},
			want: Description{
				Code:    "USER_ALREADY_EXISTS",
				Message: "A User with this First Name already exists",
				Field:   "first_name",
			},
		},
		{
			name: "unique with named constraint",
			err: &pq.Error{
				Code:       "23505",
				Table:      "users",
				Constraint: "unique_users_email",
			},
			want: Description{
				Code:    "USER_ALREADY_EXISTS",
				Message: "A User with this Email already exists",
				Field:   "email",
			},
		},
		{
			name: "not null from lib/pq",
			err:  &pq.Error{Code: "23502", Table: "users", Column: "first_name"},
			want: Description{
				Code:    "USER_REQUIRED",
				Message: "The First Name is required",
				Field:   "first_name",
			},
		},
		{
			name: "foreign key",
			err:  &pgconn.PgError{Code: "23503", TableName: "sessions", ColumnName: "user_id"},
			want: Description{
				Code:    "SESSION_NOT_FOUND",
				Message: "The referenced User does not exist",
			},
		},
		{
			name: "check without table",
			err:  &pgconn.PgError{Code: "23514"},
			want: Description{
				Code:    "RECORD_INVALID",
				Message: "One or more values do not meet required conditions",
			},
		},
		{
			name: "no rows",
			err:  fmt.Errorf("fetch: %w", pgx.ErrNoRows),
			want: Description{Code: "RECORD_NOT_FOUND", Message: "Resource not found"},
		},
		{
			name: "not a server error",
			err:  errors.New("connection reset"),
			want: Description{Code: "INTERNAL_ERROR", Message: "An error occurred while processing your request"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Describe(tt.err))
		})
	}
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(sql.ErrNoRows))
	assert.True(t, IsNotFound(fmt.Errorf("wrapped: %w", pgx.ErrNoRows)))
	assert.False(t, IsNotFound(errors.New("other")))
}
