package config_test

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/niksmo/cloudshop/config"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("shop", pflag.ContinueOnError)
	config.RegisterFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "shop.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		t.Setenv("SHOP_CONFIG_FILE", "")

		cfg, err := config.Load(newFlags(t))
		require.NoError(t, err)
		assert.Equal(t, slog.LevelWarn, cfg.LogLevel)
		assert.Equal(t, "http://localhost:8080", cfg.API.BaseURL)
		assert.Equal(t, 10*time.Second, cfg.API.Timeout)
		assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
		assert.Equal(t, "cloudshop-client-events", cfg.Events.Topic)
		assert.NotEmpty(t, cfg.Session.File)
		assert.False(t, cfg.CacheEnabled())
		assert.False(t, cfg.EventsEnabled())
	})

	t.Run("FileEnvAndFlags", func(t *testing.T) {
		path := writeFile(t, `
log_level: info
api:
  base_url: http://file:8080
  timeout: 3s
cache:
  redis_addr: localhost:6379
  ttl: 1m
events:
  seed_brokers: [localhost:9092]
  schema_registry_urls: [http://localhost:8081]
`)
		t.Setenv("SHOP_CONFIG_FILE", "")
		t.Setenv("SHOP_API_TIMEOUT", "5s")
		t.Setenv("SHOP_SESSION_FILE", "/tmp/session.yaml")

		cfg, err := config.Load(newFlags(t,
			"--config", path, "--api-url", "http://flag:8080", "--log-level", "debug",
		))
		require.NoError(t, err)
		assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
		assert.Equal(t, "http://flag:8080", cfg.API.BaseURL)
		assert.Equal(t, 5*time.Second, cfg.API.Timeout)
		assert.Equal(t, "/tmp/session.yaml", cfg.Session.File)
		assert.Equal(t, time.Minute, cfg.Cache.TTL)
		assert.Equal(t, []string{"localhost:9092"}, cfg.Events.SeedBrokers)
		assert.True(t, cfg.CacheEnabled())
		assert.True(t, cfg.EventsEnabled())
	})

	t.Run("ConfigFileFromEnv", func(t *testing.T) {
		path := writeFile(t, "api:\n  placeholder_image: https://cdn/none.png\n")
		t.Setenv("SHOP_CONFIG_FILE", path)

		cfg, err := config.Load(newFlags(t))
		require.NoError(t, err)
		assert.Equal(t, "https://cdn/none.png", cfg.API.PlaceholderImage)
	})

	t.Run("EnvSlice", func(t *testing.T) {
		t.Setenv("SHOP_CONFIG_FILE", "")
		t.Setenv("SHOP_EVENTS_SEED_BROKERS", "k1:9092,k2:9092")

		cfg, err := config.Load(nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Events.SeedBrokers)
	})

	t.Run("UnknownKey", func(t *testing.T) {
		path := writeFile(t, "api:\n  base_ulr: http://typo\n")
		t.Setenv("SHOP_CONFIG_FILE", "")

		_, err := config.Load(newFlags(t, "--config", path))
		require.Error(t, err)
	})

	t.Run("MissingFile", func(t *testing.T) {
		t.Setenv("SHOP_CONFIG_FILE", "")
		missing := filepath.Join(t.TempDir(), "absent.yaml")

		_, err := config.Load(newFlags(t, "--config", missing))
		require.Error(t, err)
	})

	t.Run("InvalidTimeout", func(t *testing.T) {
		t.Setenv("SHOP_CONFIG_FILE", "")
		t.Setenv("SHOP_API_TIMEOUT", "0s")

		_, err := config.Load(nil)
		require.Error(t, err)
	})

	t.Run("InvalidLogLevel", func(t *testing.T) {
		t.Setenv("SHOP_CONFIG_FILE", "")

		_, err := config.Load(newFlags(t, "--log-level", "loud"))
		require.Error(t, err)
	})
}

func TestPrint(t *testing.T) {
	cfg := config.Config{
		LogLevel: slog.LevelInfo,
		API:      config.API{BaseURL: "http://shop", Timeout: time.Second},
		Cache:    config.Cache{RedisPassword: "hunter2"},
	}

	var buf bytes.Buffer
	require.NoError(t, cfg.Print(&buf))

	out := buf.String()
	assert.Contains(t, out, "api.base_url")
	assert.Contains(t, out, "http://shop")
	assert.Contains(t, out, "INFO")
	assert.NotContains(t, out, "hunter2")
}
