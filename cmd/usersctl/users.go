package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Konsultn-Engineering/typedq/connector"
	"github.com/Konsultn-Engineering/typedq/database"
	"github.com/Konsultn-Engineering/typedq/queries/users"
	"github.com/spf13/cobra"
)

var errUserNotFound = errors.New("user not found")

func newUsersCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Work with the users table",
	}
	cmd.AddCommand(newUsersListCommand(a))
	cmd.AddCommand(newUsersGetCommand(a))
	cmd.AddCommand(newUsersCreateCommand(a))
	cmd.AddCommand(newUsersLoginCommand(a))
	return cmd
}

// withUsers runs fn on a session once the connection is known to speak the
// placeholder syntax of the users statements.
func (a *app) withUsers(ctx context.Context, fn func(database.Client) error) error {
	if err := users.CheckDialect(a.conn.Dialect()); err != nil {
		return err
	}
	return connector.WithSession(ctx, a.conn, fn)
}

func newUsersListCommand(a *app) *cobra.Command {
	var stream bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print every user as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return a.withUsers(ctx, func(client database.Client) error {
				if !stream {
					all, err := users.FetchUsers().Bind(client).All(ctx)
					if err != nil {
						return err
					}
					return writeJSON(cmd.OutOrStdout(), all)
				}

				s, err := users.FetchUsers().Bind(client).Iter(ctx)
				if err != nil {
					return err
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				for u, err := range s.Seq() {
					if err != nil {
						return err
					}
					if err := enc.Encode(u); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&stream, "stream", false, "Print one JSON object per line as rows arrive")
	return cmd
}

func newUsersGetCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <username>",
		Short: "Print one user as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return a.withUsers(ctx, func(client database.Client) error {
				u, err := users.FetchUserByUsername().Bind(client, args[0]).Opt(ctx)
				if err != nil {
					return err
				}
				if u == nil {
					return fmt.Errorf("%w: %s", errUserNotFound, args[0])
				}
				return writeJSON(cmd.OutOrStdout(), u)
			})
		},
	}
}

func newUsersCreateCommand(a *app) *cobra.Command {
	var u users.NewUser

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			err := a.withUsers(ctx, func(client database.Client) error {
				return users.Register(ctx, client, u)
			})
			if err != nil {
				return describe(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", u.Username)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&u.Username, "username", "", "unique username")
	f.StringVar(&u.Password, "password", "", "plain text password, hashed before it is stored")
	f.StringVar(&u.Email, "email", "", "email address")
	f.StringVar(&u.FirstName, "first-name", "", "first name")
	f.StringVar(&u.LastName, "last-name", "", "last name")
	f.StringVar(&u.Avatar, "avatar", "", "avatar URL")
	for _, name := range []string{"username", "password", "email"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func newUsersLoginCommand(a *app) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login <username>",
		Short: "Check a password and print the user id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var id int32
			err := a.withUsers(ctx, func(client database.Client) error {
				var err error
				id, err = users.Authenticate(ctx, client, args[0], password)
				return err
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "password to check")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
