// Package postgres registers the "postgres" driver with connector: a
// database/sql pool backed by lib/pq. Import it for its side effect.
package postgres

import (
	"context"

	"github.com/Konsultn-Engineering/typedq/connector"
	"github.com/Konsultn-Engineering/typedq/dialect"
	_ "github.com/lib/pq"
)

type Provider struct{}

func init() {
	connector.Register("postgres", &Provider{})
}

func (p *Provider) Connect(ctx context.Context, cfg connector.Config) (connector.Connection, error) {
	return connector.OpenSQL(ctx, "postgres", p.config(cfg), p.Dialect())
}

func (p *Provider) Dialect() dialect.Dialect {
	return dialect.NewPostgresDialect()
}

// config adapts cfg to what lib/pq accepts. lib/pq has no "prefer" or
// "allow" SSL modes; both become "require".
func (p *Provider) config(cfg connector.Config) connector.Config {
	switch cfg.SSLMode {
	case "prefer", "allow":
		cfg.SSLMode = "require"
	}
	return cfg
}
