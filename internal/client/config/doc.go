// Package config loads runtime configuration for the PhoneAuth CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables PHONEAUTH_SERVER_URL, PHONEAUTH_TOKEN_FILE and
//     PHONEAUTH_CLIENT_TIMEOUT (a Go duration such as "5s").
//  3. Command-line flags --server, --token-file and --timeout, bound by the
//     cli package.
package config
