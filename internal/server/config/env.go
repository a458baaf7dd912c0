package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// parseEnv overlays EMPVAULT_* environment variables. Unset variables keep
// the value already in config. A malformed value panics, like a malformed
// config file does.
func parseEnv(config *Config) {
	if err := env.Parse(config); err != nil {
		panic(fmt.Errorf("parse env: %w", err))
	}
}
