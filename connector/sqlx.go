package connector

import (
	"context"
	"fmt"

	"github.com/Konsultn-Engineering/typedq/database"
	"github.com/Konsultn-Engineering/typedq/dialect"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
)

// SQL is a database/sql pool opened through sqlx. database/sql re-prepares a
// statement on whichever pooled connection runs it, so every session shares
// the pool itself as its client.
type SQL struct {
	db      *sqlx.DB
	dialect dialect.Dialect
}

func NewSQL(db *sqlx.DB, d dialect.Dialect) *SQL {
	return &SQL{db: db, dialect: d}
}

// OpenSQL opens a pool with the named database/sql driver and pings it,
// retrying as configured.
func OpenSQL(ctx context.Context, driverName string, cfg Config, d dialect.Dialect) (*SQL, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid database config: %w", err)
	}

	db, err := Retry(ctx, cfg.Retry, func(ctx context.Context) (*sqlx.DB, error) {
		pingCtx, cancel := connectContext(ctx, cfg)
		defer cancel()
		return sqlx.ConnectContext(pingCtx, driverName, cfg.DSN())
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect with %s: %w", driverName, err)
	}

	if cfg.Pool.MaxOpen > 0 {
		db.SetMaxOpenConns(cfg.Pool.MaxOpen)
	}
	if cfg.Pool.MaxIdle > 0 {
		db.SetMaxIdleConns(cfg.Pool.MaxIdle)
	}
	db.SetConnMaxLifetime(cfg.Pool.MaxLifetime)
	db.SetConnMaxIdleTime(cfg.Pool.MaxIdleTime)

	zerolog.Ctx(ctx).Info().Str("driver", driverName).Msg("connected to the database")
	return NewSQL(db, d), nil
}

// DB returns the sqlx handle.
func (s *SQL) DB() *sqlx.DB {
	return s.db
}

func (s *SQL) Acquire(ctx context.Context) (Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return sqlSession{SqlClient: database.NewSQLClient(s.db)}, nil
}

func (s *SQL) Dialect() dialect.Dialect {
	return s.dialect
}

func (s *SQL) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQL) Stats() ConnectionStats {
	return sqlStats(s.db.Stats())
}

func (s *SQL) Close() error {
	return s.db.Close()
}

type sqlSession struct {
	*database.SqlClient
}

func (sqlSession) Release() {}

var _ Connection = (*SQL)(nil)
