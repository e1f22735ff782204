package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Env holds overrides read from QUIVER_* environment variables.
type Env struct {
	User   string `env:"USER"`
	DBPath string `env:"DB"`
	Config string `env:"CONFIG"`
}

// LoadEnv parses the QUIVER_* environment variables.
func LoadEnv() (Env, error) {
	cfg, err := env.ParseAsWithOptions[Env](env.Options{Prefix: "QUIVER_"})
	if err != nil {
		return Env{}, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}

// ConfigPath returns the config file to read, honouring QUIVER_CONFIG.
func (e Env) ConfigPath() string {
	if e.Config != "" {
		return e.Config
	}
	return DefaultConfigPath()
}

// DatabasePath returns the database to open, honouring QUIVER_DB.
func (e Env) DatabasePath() string {
	if e.DBPath != "" {
		return e.DBPath
	}
	return DefaultDBPath()
}
