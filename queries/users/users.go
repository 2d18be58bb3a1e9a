// Package users holds the statements of the users table.
//
//	CREATE TABLE users (
//	    id         serial PRIMARY KEY,
//	    username   text UNIQUE NOT NULL,
//	    pass       text NOT NULL,
//	    salt       text NOT NULL,
//	    email      text NOT NULL,
//	    first_name text,
//	    last_name  text,
//	    avatar     text,
//	    created_at timestamptz NOT NULL DEFAULT now(),
//	    updated_at timestamptz NOT NULL DEFAULT now()
//	);
package users

import (
	"database/sql"
	"fmt"

	"github.com/Konsultn-Engineering/typedq/database"
	"github.com/Konsultn-Engineering/typedq/dialect"
	"github.com/Konsultn-Engineering/typedq/query"
)

// Dialect is the placeholder syntax the statements of this package use.
var Dialect = dialect.NewPostgresDialect()

// CheckDialect fails when a connection speaking d cannot run these statements.
func CheckDialect(d dialect.Dialect) error {
	if d.Name() != Dialect.Name() {
		return fmt.Errorf("users: statements are written for %s, connection uses %s", Dialect.Name(), d.Name())
	}
	return nil
}

const selectUsers = "SELECT username, email, avatar, id, created_at::text, updated_at::text FROM users"

// User is the public projection of a users row.
type User struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Avatar    string `json:"avatar"`
	ID        int32  `json:"id"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// UserRow is the row view of selectUsers.
type UserRow struct {
	Username  string
	Email     string
	Avatar    sql.NullString
	ID        int32
	CreatedAt string
	UpdatedAt string
}

func scanUser(row database.Row) (UserRow, error) {
	var r UserRow
	err := row.Scan(&r.Username, &r.Email, &r.Avatar, &r.ID, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}

// NewUserFromRow copies a row view into a User. A NULL avatar is empty.
func NewUserFromRow(r UserRow) User {
	return User{
		Username:  r.Username,
		Email:     r.Email,
		Avatar:    r.Avatar.String,
		ID:        r.ID,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

var (
	fetchUsers = FetchUsersStmt{
		query.New("fetch_users", selectUsers, scanUser, NewUserFromRow, query.WithDialect(Dialect)),
	}
	fetchUserByUsername = FetchUserByUsernameStmt{
		query.New("fetch_user_by_username", selectUsers+" WHERE username = $1", scanUser, NewUserFromRow,
			query.WithDialect(Dialect)),
	}
)

type FetchUsersStmt struct {
	*query.Statement[UserRow, User]
}

// FetchUsers selects every user.
func FetchUsers() FetchUsersStmt {
	return fetchUsers
}

func (s FetchUsersStmt) Bind(client database.Client) *query.Query[UserRow, User] {
	return s.Statement.Bind(client)
}

type FetchUserByUsernameStmt struct {
	*query.Statement[UserRow, User]
}

// FetchUserByUsername selects the user with the given username. Use Opt.
func FetchUserByUsername() FetchUserByUsernameStmt {
	return fetchUserByUsername
}

func (s FetchUserByUsernameStmt) Bind(client database.Client, username string) *query.Query[UserRow, User] {
	return s.Statement.Bind(client, username)
}
