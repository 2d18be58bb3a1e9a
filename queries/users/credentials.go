package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/Konsultn-Engineering/typedq/auth"
	"github.com/Konsultn-Engineering/typedq/database"
	"github.com/Konsultn-Engineering/typedq/query"
	"github.com/rs/zerolog"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

// Credentials is what is needed to check a password.
type Credentials struct {
	ID   int32
	Pass string
	Salt string
}

var fetchCredentials = FetchCredentialsStmt{query.New("fetch_credentials",
	"SELECT id, pass, salt FROM users WHERE username = $1",
	func(row database.Row) (Credentials, error) {
		var c Credentials
		err := row.Scan(&c.ID, &c.Pass, &c.Salt)
		return c, err
	},
	query.Identity[Credentials](),
	query.WithDialect(Dialect),
)}

type FetchCredentialsStmt struct {
	*query.Statement[Credentials, Credentials]
}

func FetchCredentials() FetchCredentialsStmt {
	return fetchCredentials
}

func (s FetchCredentialsStmt) Bind(client database.Client, username string) *query.Query[Credentials, Credentials] {
	return s.Statement.Bind(client, username)
}

// NewUser is a user to register. Password is the plain text password.
type NewUser struct {
	Username  string
	Password  string
	Email     string
	FirstName string
	LastName  string
	Avatar    string
}

// Register salts and hashes the password and inserts the user.
func Register(ctx context.Context, client database.Client, u NewUser) error {
	salt, err := auth.GenerateSalt()
	if err != nil {
		return err
	}
	hash, err := auth.HashPassword(u.Password, salt)
	if err != nil {
		return err
	}

	params := NewCreateUserParams(u.Username, hash, salt, u.Email, u.FirstName, u.LastName, u.Avatar)
	if _, err := CreateUser().Params(client, params).Exec(ctx); err != nil {
		return fmt.Errorf("register %s: %w", u.Username, err)
	}

	zerolog.Ctx(ctx).Info().Str("username", u.Username).Msg("user registered")
	return nil
}

// Authenticate checks password against the stored hash and returns the
// user's id. Unknown users and wrong passwords both give
// ErrInvalidCredentials.
func Authenticate(ctx context.Context, client database.Client, username, password string) (int32, error) {
	creds, err := FetchCredentials().Bind(client, username).Opt(ctx)
	if err != nil {
		return 0, err
	}
	if creds == nil {
		return 0, ErrInvalidCredentials
	}

	if err := auth.VerifyPassword(creds.Pass, password, creds.Salt); err != nil {
		if errors.Is(err, auth.ErrMismatch) {
			return 0, ErrInvalidCredentials
		}
		return 0, err
	}
	return creds.ID, nil
}
