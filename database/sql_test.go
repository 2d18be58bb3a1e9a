package database_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/Konsultn-Engineering/typedq/database"
	"github.com/Konsultn-Engineering/typedq/query"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type note struct {
	ID    int32
	Title string
	Body  sql.NullString
}

func scanNote(row database.Row) (note, error) {
	var n note
	err := row.Scan(&n.ID, &n.Title, &n.Body)
	return n, err
}

var (
	listNotes   = query.New("list_notes", "SELECT id, title, body FROM notes ORDER BY id", scanNote, query.Identity[note]())
	noteByTitle = query.New("note_by_title", "SELECT id, title, body FROM notes WHERE title = $1", scanNote, query.Identity[note]())
	insertNote  = query.NewExec("insert_note", "INSERT INTO notes (title, body) VALUES ($1, $2)")
)

func openSQLite(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "notes.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE notes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL UNIQUE,
		body TEXT
	)`)
	require.NoError(t, err)
	return db
}

func TestSQLClientRoundTrip(t *testing.T) {
	ctx := context.Background()
	client := database.NewSQLClient(openSQLite(t))

	notes, err := listNotes.Bind(client).All(ctx)
	require.NoError(t, err)
	assert.Equal(t, []note{}, notes)

	for _, title := range []string{"first", "second", "third"} {
		n, err := insertNote.Bind(client, title, nil).Exec(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	}

	notes, err = listNotes.Bind(client).All(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 3)
	assert.Equal(t, "first", notes[0].Title)
	assert.False(t, notes[0].Body.Valid)

	got, err := noteByTitle.Bind(client, "second").One(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(2), got.ID)

	missing, err := noteByTitle.Bind(client, "fourth").Opt(ctx)
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = listNotes.Bind(client).One(ctx)
	assert.ErrorIs(t, err, query.ErrTooManyRows)
}

func TestSQLClientExecErrors(t *testing.T) {
	ctx := context.Background()
	client := database.NewSQLClient(openSQLite(t))

	_, err := insertNote.Bind(client, "dup", "a").Exec(ctx)
	require.NoError(t, err)
	_, err = insertNote.Bind(client, "dup", "b").Exec(ctx)
	require.Error(t, err)
	assert.True(t, query.IsExecution(err))

	broken := query.New("broken", "SELECT id FROM nowhere", func(row database.Row) (int32, error) {
		var id int32
		return id, row.Scan(&id)
	}, query.Identity[int32]())
	_, err = broken.Bind(client).All(ctx)
	assert.True(t, query.IsPrepare(err))
}

func TestSQLClientAbandonedStream(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)
	client := database.NewSQLClient(db)

	for _, title := range []string{"a", "b", "c", "d", "e"} {
		_, err := insertNote.Bind(client, title, "x").Exec(ctx)
		require.NoError(t, err)
	}

	stream, err := listNotes.Bind(client).Iter(ctx)
	require.NoError(t, err)
	require.True(t, stream.Next())
	require.True(t, stream.Next())
	assert.Equal(t, "b", stream.Record().Title)
	require.NoError(t, stream.Close())

	conn, err := db.Conn(ctx)
	require.NoError(t, err)
	defer conn.Close()

	notes, err := listNotes.Bind(database.NewSQLClient(conn)).All(ctx)
	require.NoError(t, err)
	assert.Len(t, notes, 5)
}

func TestSQLClientInvalidateClosesStatement(t *testing.T) {
	ctx := context.Background()
	client := database.NewSQLClient(openSQLite(t))

	_, err := listNotes.Bind(client).All(ctx)
	require.NoError(t, err)
	require.NoError(t, listNotes.Invalidate(ctx, client))

	notes, err := listNotes.Bind(client).All(ctx)
	require.NoError(t, err)
	assert.Empty(t, notes)
}
