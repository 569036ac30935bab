package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/phoneauth/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-g string   gRPC health bind address (e.g., ":50051")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      token ttl, minutes
//	-b int      bcrypt cost
//	-r string   revocation backend: postgres or redis
//	-R string   redis address
//	-j int      janitor interval, minutes
//	-l string   log level
//
// os.Args is filtered with flagx.FilterArgs first so flags owned by other
// components (-c/-config) do not break parsing.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-g", "-d", "-s", "-t", "-b", "-r", "-R", "-j", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "HTTP address and port to run server")
	fs.StringVar(&config.EndpointAddrGRPC, "g", config.EndpointAddrGRPC, "gRPC health address and port")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	tokenTTL := fs.Int("t", config.TTLMinutes(), "token ttl (in minutes)")
	fs.IntVar(&config.BcryptCost, "b", config.BcryptCost, "bcrypt cost")

	fs.StringVar(&config.RevocationBackend, "r", config.RevocationBackend, "revocation backend (postgres|redis)")
	fs.StringVar(&config.RedisAddr, "R", config.RedisAddr, "redis address")

	janitorInterval := fs.Int("j", int(config.JanitorInterval.Minutes()), "janitor interval (in minutes)")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// minute-granular flags only override when given, so sub-minute values
	// from JSON survive
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			config.TokenTTL = time.Duration(*tokenTTL) * time.Minute
		case "j":
			config.JanitorInterval = time.Duration(*janitorInterval) * time.Minute
		}
	})
}
