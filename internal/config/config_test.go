package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
api:
  environment: production
  port: "9090"
postgres:
  host: db
  user: raffle
  password: secret
  db: raffles
draw:
  interval: 30s
  max_concurrent_raffles: 2
  lookup_timeout: 2s
`)

	conf, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "production", conf.API.Environment)
	assert.Equal(t, "9090", conf.API.Port)
	assert.Equal(t, 30*time.Second, conf.Draw.Interval)
	assert.Equal(t, 2, conf.Draw.MaxConcurrentRaffles)
	assert.Equal(t, 8, conf.Draw.LookupConcurrency)
	assert.Equal(t, 2*time.Second, conf.Draw.LookupTimeout)
	assert.True(t, conf.Feed.Enabled)
	assert.Equal(t, "host=db port=5432 user=raffle password=secret dbname=raffles sslmode=disable", conf.Postgres.DSN())
}

func TestLoad_EnvOverride(t *testing.T) {
	path := writeConfig(t, "api:\n  port: \"9090\"\n")
	t.Setenv("APP_API_PORT", "7070")

	conf, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "7070", conf.API.Port)
}

func TestLoad_InvalidInterval(t *testing.T) {
	path := writeConfig(t, "draw:\n  interval: -1s\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "draw.interval")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
}

func TestWatch(t *testing.T) {
	path := writeConfig(t, "draw:\n  interval: 1m\n")

	changed := make(chan time.Duration, 16)
	errs := make(chan error, 16)
	require.NoError(t, Watch(path,
		func(c *AppConfig) { changed <- c.Draw.Interval },
		func(err error) { errs <- err },
	))

	require.NoError(t, os.WriteFile(path, []byte("draw:\n  interval: 15s\n"), 0o600))

	// Truncate and write may arrive as separate events, wait for the final content.
	timeout := time.After(5 * time.Second)
	for {
		select {
		case d := <-changed:
			if d == 15*time.Second {
				return
			}
		case <-errs:
		case <-timeout:
			t.Fatal("config change not observed")
		}
	}
}

func TestWatch_MissingFile(t *testing.T) {
	err := Watch(filepath.Join(t.TempDir(), "nope.yml"), func(*AppConfig) {}, func(error) {})
	require.Error(t, err)
}
