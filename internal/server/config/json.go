package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/phoneauth/internal/flagx"
	"github.com/dmitrijs2005/phoneauth/internal/timex"
)

// ConfigFileEnv names the environment variable consulted when neither -c nor
// -config is given.
const ConfigFileEnv = "PHONEAUTH_CONFIG"

// JsonConfig is the on-disk shape of the configuration file. Durations accept
// "15m"-style strings or integer nanoseconds. Absent keys leave the current
// value untouched.
type JsonConfig struct {
	EndpointAddrHTTP   string          `json:"endpoint_addr_http"`
	EndpointAddrGRPC   string          `json:"endpoint_addr_grpc"`
	DatabaseDSN        string          `json:"database_dsn"`
	SecretKey          string          `json:"secret_key"`
	TokenTTL           *timex.Duration `json:"token_ttl"`
	BcryptCost         int             `json:"bcrypt_cost"`
	RevocationBackend  string          `json:"revocation_backend"`
	RedisAddr          string          `json:"redis_addr"`
	RedisPassword      string          `json:"redis_password"`
	RedisDB            *int            `json:"redis_db"`
	JanitorInterval    *timex.Duration `json:"janitor_interval"`
	CORSAllowedOrigins []string        `json:"cors_allowed_origins"`
	LogLevel           string          `json:"log_level"`
}

// parseJson overlays values from the JSON file named by -c/-config (or
// PHONEAUTH_CONFIG). No file means no changes. An unreadable file or invalid
// JSON panics, matching how bad flags are treated.
func parseJson(config *Config) {
	path := flagx.ConfigFilePath(ConfigFileEnv)
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.RevocationBackend, c.RevocationBackend)
	setString(&config.RedisAddr, c.RedisAddr)
	setString(&config.RedisPassword, c.RedisPassword)
	setString(&config.LogLevel, c.LogLevel)

	if c.TokenTTL != nil {
		config.TokenTTL = c.TokenTTL.Duration
	}
	if c.JanitorInterval != nil {
		config.JanitorInterval = c.JanitorInterval.Duration
	}
	if c.BcryptCost != 0 {
		config.BcryptCost = c.BcryptCost
	}
	if c.RedisDB != nil {
		config.RedisDB = *c.RedisDB
	}
	if c.CORSAllowedOrigins != nil {
		config.CORSAllowedOrigins = c.CORSAllowedOrigins
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
