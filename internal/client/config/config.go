package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds runtime settings for the PhoneAuth CLI.
type Config struct {
	ServerURL string
	TokenFile string
	Timeout   time.Duration
}

// LoadDefaults populates c with sensible defaults. The token lives under the
// user's home directory, or the working directory when there is none.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://localhost:8080"
	c.TokenFile = defaultTokenFile()
	c.Timeout = 10 * time.Second
}

func defaultTokenFile() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".phoneauth", "token")
	}
	return filepath.Join(home, ".phoneauth", "token")
}

// LoadConfig applies defaults and then environment variables. Command-line
// flags are bound on top of the result by the CLI.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	return cfg
}
