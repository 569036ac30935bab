package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", "/home/alice")

	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://localhost:8080", c.ServerURL)
	assert.Equal(t, filepath.Join("/home/alice", ".phoneauth", "token"), c.TokenFile)
	assert.Equal(t, 10*time.Second, c.Timeout)
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv(EnvServerURL, "https://auth.example.com")
	t.Setenv(EnvTokenFile, "/tmp/tok")
	t.Setenv(EnvTimeout, "3s")

	c := LoadConfig()

	assert.Equal(t, "https://auth.example.com", c.ServerURL)
	assert.Equal(t, "/tmp/tok", c.TokenFile)
	assert.Equal(t, 3*time.Second, c.Timeout)
}

func TestLoadConfig_EmptyEnvKeepsDefaults(t *testing.T) {
	t.Setenv(EnvServerURL, "")
	t.Setenv(EnvTimeout, "")

	c := LoadConfig()

	assert.Equal(t, "http://localhost:8080", c.ServerURL)
	assert.Equal(t, 10*time.Second, c.Timeout)
}

func TestLoadConfig_BadTimeoutPanics(t *testing.T) {
	t.Setenv(EnvTimeout, "soon")

	assert.Panics(t, func() { LoadConfig() })
}
