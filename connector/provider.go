package connector

import (
	"context"

	"github.com/Konsultn-Engineering/typedq/dialect"
)

// Provider opens connections for one driver.
type Provider interface {
	Connect(ctx context.Context, config Config) (Connection, error)
	Dialect() dialect.Dialect
}

// ProviderFunc adapts a function to Provider for Postgres-dialect drivers.
type ProviderFunc func(ctx context.Context, config Config) (Connection, error)

func (f ProviderFunc) Connect(ctx context.Context, config Config) (Connection, error) {
	return f(ctx, config)
}

func (f ProviderFunc) Dialect() dialect.Dialect {
	return dialect.NewPostgresDialect()
}
