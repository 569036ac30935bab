package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// parseEnv overlays PHONEAUTH_* environment variables. Numeric variables that
// do not parse panic, the same way malformed flags do.
//
//	PHONEAUTH_HTTP_ADDR            PHONEAUTH_GRPC_ADDR
//	PHONEAUTH_DATABASE_DSN         PHONEAUTH_SECRET_KEY
//	PHONEAUTH_TOKEN_TTL_MINUTES    PHONEAUTH_BCRYPT_COST
//	PHONEAUTH_REVOCATION_BACKEND   PHONEAUTH_REDIS_ADDR
//	PHONEAUTH_REDIS_PASSWORD       PHONEAUTH_REDIS_DB
//	PHONEAUTH_JANITOR_INTERVAL     PHONEAUTH_CORS_ORIGINS (comma separated)
//	PHONEAUTH_LOG_LEVEL
func parseEnv(config *Config) {
	setString(&config.EndpointAddrHTTP, os.Getenv("PHONEAUTH_HTTP_ADDR"))
	setString(&config.EndpointAddrGRPC, os.Getenv("PHONEAUTH_GRPC_ADDR"))
	setString(&config.DatabaseDSN, os.Getenv("PHONEAUTH_DATABASE_DSN"))
	setString(&config.SecretKey, os.Getenv("PHONEAUTH_SECRET_KEY"))
	setString(&config.RevocationBackend, os.Getenv("PHONEAUTH_REVOCATION_BACKEND"))
	setString(&config.RedisAddr, os.Getenv("PHONEAUTH_REDIS_ADDR"))
	setString(&config.RedisPassword, os.Getenv("PHONEAUTH_REDIS_PASSWORD"))
	setString(&config.LogLevel, os.Getenv("PHONEAUTH_LOG_LEVEL"))

	if v, ok := envInt("PHONEAUTH_TOKEN_TTL_MINUTES"); ok {
		config.TokenTTL = time.Duration(v) * time.Minute
	}
	if v, ok := envInt("PHONEAUTH_BCRYPT_COST"); ok {
		config.BcryptCost = v
	}
	if v, ok := envInt("PHONEAUTH_REDIS_DB"); ok {
		config.RedisDB = v
	}
	if v := os.Getenv("PHONEAUTH_JANITOR_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(fmt.Errorf("PHONEAUTH_JANITOR_INTERVAL: %w", err))
		}
		config.JanitorInterval = d
	}
	if v := os.Getenv("PHONEAUTH_CORS_ORIGINS"); v != "" {
		origins := make([]string, 0)
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		config.CORSAllowedOrigins = origins
	}
}

func envInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		panic(fmt.Errorf("%s: %w", key, err))
	}
	return n, true
}
