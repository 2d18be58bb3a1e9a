package users_test

import (
	"context"
	"os"
	"testing"

	"github.com/Konsultn-Engineering/typedq/database"
	"github.com/Konsultn-Engineering/typedq/queries/users"
	"github.com/Konsultn-Engineering/typedq/query"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const createTemp = `CREATE TEMP TABLE users (
	id         serial PRIMARY KEY,
	username   text UNIQUE NOT NULL,
	pass       text NOT NULL,
	salt       text NOT NULL,
	email      text NOT NULL,
	first_name text,
	last_name  text,
	avatar     text,
	created_at timestamptz NOT NULL DEFAULT now(),
	updated_at timestamptz NOT NULL DEFAULT now()
)`

// connect returns a client whose users table is a temporary table private to
// the connection.
func connect(t *testing.T) database.Client {
	t.Helper()
	url := os.Getenv("TYPEDQ_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TYPEDQ_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close(ctx) })

	_, err = conn.Exec(ctx, createTemp)
	require.NoError(t, err)
	return database.NewPgxClient(conn)
}

func TestUsersAgainstPostgres(t *testing.T) {
	ctx := context.Background()
	client := connect(t)

	all, err := users.FetchUsers().Bind(client).All(ctx)
	require.NoError(t, err)
	assert.Equal(t, []users.User{}, all)

	require.NoError(t, users.Register(ctx, client, users.NewUser{
		Username:  "asleepace",
		Password:  "!Purple123",
		Email:     "colin_teahan@yahoo.com",
		FirstName: "Colin",
		LastName:  "Teahan",
		Avatar:    "https://asleepace.com/about-me.jpeg",
	}))

	all, err = users.FetchUsers().Bind(client).All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "asleepace", all[0].Username)
	assert.Equal(t, "colin_teahan@yahoo.com", all[0].Email)
	assert.Equal(t, "https://asleepace.com/about-me.jpeg", all[0].Avatar)
	assert.NotEmpty(t, all[0].CreatedAt)

	one, err := users.FetchUserByUsername().Bind(client, "asleepace").One(ctx)
	require.NoError(t, err)
	assert.Equal(t, all[0], one)

	id, err := users.Authenticate(ctx, client, "asleepace", "!Purple123")
	require.NoError(t, err)
	assert.Equal(t, all[0].ID, id)

	_, err = users.Authenticate(ctx, client, "asleepace", "!Purple124")
	assert.ErrorIs(t, err, users.ErrInvalidCredentials)

	err = users.Register(ctx, client, users.NewUser{Username: "asleepace", Password: "again", Email: "x@example.com"})
	assert.True(t, query.IsExecution(err))
}

func TestAbandonedStreamKeepsConnectionUsable(t *testing.T) {
	ctx := context.Background()
	client := connect(t)

	for _, name := range []string{"a", "b", "c", "d"} {
		n, err := users.CreateUser().Bind(client, name, "p", "s", name+"@example.com", "", "", "").Exec(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	}

	stream, err := users.FetchUsers().Bind(client).Iter(ctx)
	require.NoError(t, err)
	require.True(t, stream.Next())
	require.NoError(t, stream.Close())

	all, err := users.FetchUsers().Bind(client).All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}
