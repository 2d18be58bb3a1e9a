package connector

import (
	"context"
	"fmt"

	"github.com/Konsultn-Engineering/typedq/database"
	"github.com/Konsultn-Engineering/typedq/dialect"
	"github.com/Konsultn-Engineering/typedq/logger"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Postgres is a pgx connection pool.
type Postgres struct {
	config  Config
	pool    *pgxpool.Pool
	dialect dialect.Dialect
}

// NewPostgres creates the pool and pings the server, retrying as configured.
// With cfg.Trace set, statements are logged through the logger carried by ctx.
func NewPostgres(ctx context.Context, cfg Config) (*Postgres, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid database config: %w", err)
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse pgx pool config: %w", err)
	}
	if cfg.Pool.MaxOpen > 0 {
		poolCfg.MaxConns = int32(cfg.Pool.MaxOpen)
	}
	poolCfg.MinConns = int32(min(cfg.Pool.MaxIdle, int(poolCfg.MaxConns)))
	if cfg.Pool.MaxLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.Pool.MaxLifetime
	}
	if cfg.Pool.MaxIdleTime > 0 {
		poolCfg.MaxConnIdleTime = cfg.Pool.MaxIdleTime
	}
	if cfg.Pool.HealthCheckFreq > 0 {
		poolCfg.HealthCheckPeriod = cfg.Pool.HealthCheckFreq
	}

	log := zerolog.Ctx(ctx)
	if cfg.Trace {
		poolCfg.ConnConfig.Tracer = logger.NewPgxTracer(*log)
	}

	pool, err := Retry(ctx, cfg.Retry, func(ctx context.Context) (*pgxpool.Pool, error) {
		pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err != nil {
			return nil, err
		}

		pingCtx, cancel := connectContext(ctx, cfg)
		defer cancel()
		if err := pool.Ping(pingCtx); err != nil {
			pool.Close()
			return nil, err
		}
		return pool, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	log.Info().
		Str("host", poolCfg.ConnConfig.Host).
		Str("database", poolCfg.ConnConfig.Database).
		Int32("max_conns", poolCfg.MaxConns).
		Msg("connected to the database")

	return &Postgres{
		config:  cfg,
		pool:    pool,
		dialect: dialect.NewPostgresDialect(),
	}, nil
}

// Pool returns the underlying pgx pool.
func (p *Postgres) Pool() *pgxpool.Pool {
	return p.pool
}

// Acquire reserves a pooled connection. The session must be released.
func (p *Postgres) Acquire(ctx context.Context) (Session, error) {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}
	return &pgxSession{PgxClient: database.NewPgxClient(conn.Conn()), conn: conn}, nil
}

func (p *Postgres) Dialect() dialect.Dialect {
	return p.dialect
}

func (p *Postgres) Health(ctx context.Context) error {
	if p.pool == nil {
		return fmt.Errorf("not connected")
	}
	return p.pool.Ping(ctx)
}

func (p *Postgres) Stats() ConnectionStats {
	if p.pool == nil {
		return ConnectionStats{}
	}
	return pgxStats(p.pool.Stat())
}

// Close closes the connection pool.
func (p *Postgres) Close() error {
	if p.pool != nil {
		p.pool.Close()
		p.pool = nil
	}
	return nil
}

type pgxSession struct {
	*database.PgxClient
	conn *pgxpool.Conn
}

func (s *pgxSession) Release() {
	s.conn.Release()
}

func connectContext(ctx context.Context, cfg Config) (context.Context, context.CancelFunc) {
	if cfg.ConnectTimeout > 0 {
		return context.WithTimeout(ctx, cfg.ConnectTimeout)
	}
	return context.WithCancel(ctx)
}

var _ Connection = (*Postgres)(nil)
