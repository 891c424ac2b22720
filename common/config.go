package common

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config carries environment-sourced defaults for the CLI and any embedding
// service. Flags override these values; WALLETCORE_PASSWORD in particular
// lets scripts avoid putting the password on the command line.
type Config struct {
	StorageURIs []string `envconfig:"STORAGE_URIS" default:"file://./walletcore-data"`
	Level       string   `envconfig:"LEVEL" default:"maximum"`
	Password    string   `envconfig:"PASSWORD"`
	LogJSON     bool     `envconfig:"LOG_JSON" default:"false"`
	LogDebug    bool     `envconfig:"LOG_DEBUG" default:"false"`
}

// LoadConfig reads configuration from WALLETCORE_-prefixed environment
// variables.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process("walletcore", cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	return cfg, nil
}
