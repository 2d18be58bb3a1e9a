package connector

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

var globalManager = &Manager{
	providers: map[string]Provider{
		"pgx": ProviderFunc(func(ctx context.Context, cfg Config) (Connection, error) {
			return NewPostgres(ctx, cfg)
		}),
	},
}

// Manager maps driver names to providers. The pgx provider is always
// registered; others register themselves from init.
type Manager struct {
	providers map[string]Provider
	mu        sync.RWMutex
}

func Register(name string, provider Provider) {
	globalManager.mu.Lock()
	defer globalManager.mu.Unlock()
	globalManager.providers[name] = provider
}

// Drivers lists the registered driver names.
func Drivers() []string {
	globalManager.mu.RLock()
	defer globalManager.mu.RUnlock()
	names := make([]string, 0, len(globalManager.providers))
	for name := range globalManager.providers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Open connects with the provider registered for cfg.Driver, pgx when empty.
func Open(ctx context.Context, cfg Config) (Connection, error) {
	name := cfg.Driver
	if name == "" {
		name = "pgx"
	}

	globalManager.mu.RLock()
	provider, ok := globalManager.providers[name]
	globalManager.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("provider %s not registered", name)
	}
	return provider.Connect(ctx, cfg)
}
