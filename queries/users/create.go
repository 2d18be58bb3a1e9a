package users

import (
	"github.com/Konsultn-Engineering/typedq/database"
	"github.com/Konsultn-Engineering/typedq/query"
)

var createUser = CreateUserStmt{query.NewExec("create_user",
	`INSERT INTO users (username, pass, salt, email, first_name, last_name, avatar)
VALUES ($1, $2, $3, $4, $5, $6, $7)`,
	query.WithDialect(Dialect))}

// CreateUserParams are the values of one CreateUser insert.
type CreateUserParams struct {
	Username  string
	Pass      string
	Salt      string
	Email     string
	FirstName string
	LastName  string
	Avatar    string
}

// NewCreateUserParams builds params from any mix of string-like values.
func NewCreateUserParams[T1, T2, T3, T4, T5, T6, T7 query.StringSQL](
	username T1, pass T2, salt T3, email T4, firstName T5, lastName T6, avatar T7,
) CreateUserParams {
	return CreateUserParams{
		Username:  query.Text(username),
		Pass:      query.Text(pass),
		Salt:      query.Text(salt),
		Email:     query.Text(email),
		FirstName: query.Text(firstName),
		LastName:  query.Text(lastName),
		Avatar:    query.Text(avatar),
	}
}

type CreateUserStmt struct {
	*query.ExecStatement
}

// CreateUser inserts one user. Exec reports the rows affected.
func CreateUser() CreateUserStmt {
	return createUser
}

func (s CreateUserStmt) Bind(client database.Client, username, pass, salt, email, firstName, lastName, avatar string) *query.ExecQuery {
	return s.ExecStatement.Bind(client, username, pass, salt, email, firstName, lastName, avatar)
}

func (s CreateUserStmt) Params(client database.Client, p CreateUserParams) *query.ExecQuery {
	return s.Bind(client, p.Username, p.Pass, p.Salt, p.Email, p.FirstName, p.LastName, p.Avatar)
}
