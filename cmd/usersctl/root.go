package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/Konsultn-Engineering/typedq/config"
	"github.com/Konsultn-Engineering/typedq/connector"
	"github.com/Konsultn-Engineering/typedq/logger"
	"github.com/Konsultn-Engineering/typedq/sqlerr"
	"github.com/spf13/cobra"
)

type openFunc func(ctx context.Context, cfg connector.Config) (connector.Connection, error)

// app is shared by every command. conn is opened before a command runs and
// closed by execute.
type app struct {
	open openFunc
	cfg  *config.Config
	conn connector.Connection
}

// execute runs the command line in args. The connection opened for the
// command is closed whether or not the command succeeds.
func execute(open openFunc, args []string, stdout, stderr io.Writer) (err error) {
	a := &app{open: open}
	root := newRootCommand(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	defer func() {
		if cerr := a.close(); err == nil {
			err = cerr
		}
	}()
	return root.Execute()
}

func newRootCommand(a *app) *cobra.Command {
	var driver string

	root := &cobra.Command{
		Use:           "usersctl",
		Short:         "Manage users through typed queries",
		Version:       fmt.Sprintf("%s (commit: %s)", Version, Commit),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if driver != "" {
				cfg.Database.Driver = driver
			}
			a.cfg = cfg

			log := logger.NewWithWriter(cfg.Log, cmd.ErrOrStderr())
			ctx := log.WithContext(cmd.Context())
			cmd.SetContext(ctx)

			a.conn, err = a.open(ctx, cfg.Database)
			return err
		},
	}
	root.PersistentFlags().StringVar(&driver, "driver", "", fmt.Sprintf("database driver %v", connector.Drivers()))

	root.AddCommand(newUsersCommand(a))
	root.AddCommand(newStatsCommand(a))
	return root
}

func (a *app) close() error {
	if a.conn == nil {
		return nil
	}
	err := a.conn.Close()
	a.conn = nil
	return err
}

func newStatsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print connection pool statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.conn.Health(cmd.Context()); err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), a.conn.Stats())
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// describe turns server errors into their user facing form.
func describe(err error) error {
	if err == nil || sqlerr.Convert(err) == nil {
		return err
	}
	d := sqlerr.Describe(err)
	return fmt.Errorf("%s: %s", d.Code, d.Message)
}
