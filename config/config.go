// Package config loads the process configuration from the environment.
//
// Variables are read with the TYPEDQ_ prefix; a double underscore separates
// nested keys, so TYPEDQ_DATABASE__HOST sets Database.Host. A .env file in the
// working directory is loaded first. DATABASE_URL, when set, supplies
// Database.URL.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/Konsultn-Engineering/typedq/connector"
	"github.com/Konsultn-Engineering/typedq/logger"
	"github.com/go-playground/validator/v10"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

const (
	Prefix = "TYPEDQ_"
	// DatabaseURLEnv is read in addition to the prefixed variables.
	DatabaseURLEnv = "DATABASE_URL"
)

type Config struct {
	Env      string           `koanf:"env" validate:"required,oneof=local development production test"`
	Log      logger.Config    `koanf:"log"`
	Database connector.Config `koanf:"database"`
}

func Default() *Config {
	return &Config{
		Env:      "local",
		Log:      logger.Config{Level: "info"},
		Database: connector.DefaultConfig(),
	}
}

// Load reads the environment over the defaults and validates the result.
func Load() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.Provider(Prefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, Prefix)), "__", ".")
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("could not unmarshal config: %w", err)
	}

	if url := os.Getenv(DatabaseURLEnv); url != "" && !k.Exists("database.url") {
		cfg.Database.URL = url
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}
