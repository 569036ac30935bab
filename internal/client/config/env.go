package config

import (
	"os"
	"time"
)

const (
	EnvServerURL = "PHONEAUTH_SERVER_URL"
	EnvTokenFile = "PHONEAUTH_TOKEN_FILE"
	EnvTimeout   = "PHONEAUTH_CLIENT_TIMEOUT"
)

// parseEnv overlays cfg with any PHONEAUTH_* variables that are set.
// A malformed timeout panics, like the server's config loader.
func parseEnv(cfg *Config) {
	if v, ok := os.LookupEnv(EnvServerURL); ok && v != "" {
		cfg.ServerURL = v
	}
	if v, ok := os.LookupEnv(EnvTokenFile); ok && v != "" {
		cfg.TokenFile = v
	}
	if v, ok := os.LookupEnv(EnvTimeout); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(err)
		}
		cfg.Timeout = d
	}
}
