package postgres

import (
	"testing"

	"github.com/Konsultn-Engineering/typedq/connector"
	"github.com/stretchr/testify/assert"
)

func TestRegistered(t *testing.T) {
	assert.Contains(t, connector.Drivers(), "postgres")
}

func TestConfigSSLMode(t *testing.T) {
	p := &Provider{}
	for mode, want := range map[string]string{
		"prefer":  "require",
		"allow":   "require",
		"disable": "disable",
		"":        "",
	} {
		cfg := connector.DefaultConfig()
		cfg.SSLMode = mode
		assert.Equal(t, want, p.config(cfg).SSLMode, mode)
	}
	assert.Equal(t, "postgres", p.Dialect().Name())
}
