package dialect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPostgresCountPlaceholders(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want int
	}{
		{"none", "SELECT username, email FROM users", 0},
		{"casts", "SELECT created_at::text FROM users", 0},
		{"ordered", "INSERT INTO users (a, b, c) VALUES ($1, $2, $3)", 3},
		{"reused", "SELECT * FROM users WHERE a = $1 OR b = $1", 1},
		{"gap", "SELECT $3", 3},
		{"literal", "SELECT '$1', $2", 2},
		{"escaped literal", "SELECT 'it''s $4', $1", 1},
		{"identifier", `SELECT "$9" FROM t WHERE x = $1`, 1},
		{"line comment", "SELECT 1 -- $5\nWHERE a = $2", 2},
		{"block comment", "SELECT /* $7 */ $1", 1},
		{"escape string", `SELECT id FROM users WHERE bio = E'it\'s' AND username = $1`, 1},
		{"escape string backslash", `SELECT e'\\', $2`, 2},
		{"plain backslash", "SELECT 'a\\' , $1 FROM t WHERE name='x' AND note=$2", 2},
		{"dollar quoted", "SELECT $$ $4 $$, $tag$ $8 $tag$, $2", 2},
		{"seven params", "INSERT INTO users (username, pass, salt, email, first_name, last_name, avatar)\nVALUES ($1, $2, $3, $4, $5, $6, $7)", 7},
	}

	d := NewPostgresDialect()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, d.CountPlaceholders(tt.sql))
		})
	}
}

func TestMySQLCountPlaceholders(t *testing.T) {
	d := NewMySQLDialect()
	assert.Equal(t, 0, d.CountPlaceholders("SELECT 1"))
	assert.Equal(t, 2, d.CountPlaceholders("SELECT ? , ?"))
	assert.Equal(t, 1, d.CountPlaceholders("SELECT '?', ? -- ?"))
	assert.Equal(t, 1, d.CountPlaceholders("SELECT `a?` FROM t WHERE b = ?"))
}

func TestName(t *testing.T) {
	assert.Equal(t, "postgres", NewPostgresDialect().Name())
	assert.Equal(t, "mysql", NewMySQLDialect().Name())
}
