package connector

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Konsultn-Engineering/typedq/database"
	"github.com/Konsultn-Engineering/typedq/dialect"
	"github.com/Konsultn-Engineering/typedq/query"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var countTags = query.New("count_tags", "SELECT count(*) FROM tags WHERE name <> ?",
	func(row database.Row) (int64, error) {
		var n int64
		return n, row.Scan(&n)
	}, query.Identity[int64](), query.WithDialect(dialect.NewMySQLDialect()))

func TestOpenSQL(t *testing.T) {
	ctx := context.Background()
	cfg := Config{URL: filepath.Join(t.TempDir(), "tags.db"), Pool: PoolConfig{MaxOpen: 2}}

	conn, err := OpenSQL(ctx, "sqlite3", cfg, dialect.NewMySQLDialect())
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	_, err = conn.DB().ExecContext(ctx, "CREATE TABLE tags (name TEXT)")
	require.NoError(t, err)
	_, err = conn.DB().ExecContext(ctx, "INSERT INTO tags (name) VALUES ('go'), ('sql'), ('')")
	require.NoError(t, err)

	require.NoError(t, conn.Health(ctx))
	assert.Equal(t, "mysql", conn.Dialect().Name())

	var n int64
	err = WithSession(ctx, conn, func(client database.Client) error {
		n, err = countTags.Bind(client, "").One(ctx)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	// sessions share the pool, so the statement is prepared once
	s1, err := conn.Acquire(ctx)
	require.NoError(t, err)
	s2, err := conn.Acquire(ctx)
	require.NoError(t, err)
	assert.Equal(t, s1.Key(), s2.Key())
	s1.Release()
	s2.Release()

	assert.GreaterOrEqual(t, conn.Stats().OpenConnections, 1)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), Config{Driver: "oracle", URL: "x"})
	assert.ErrorContains(t, err, "provider oracle not registered")
	assert.Contains(t, Drivers(), "pgx")
}
