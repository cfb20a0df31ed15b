package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestInit_DefaultsWithoutConfigFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Init("")
	require.NoError(t, err)
	require.Equal(t, "8080", cfg.HTTPServer.Port)
	require.Equal(t, time.Hour, cfg.Rates.FreshnessWindow())
	require.Equal(t, 24*time.Hour, cfg.Rates.FallbackWindow())
	require.Equal(t, SnapshotDriverBolt, cfg.Snapshot.Driver)
	require.Equal(t, "exchangeRates", cfg.Snapshot.Key)
	require.Contains(t, cfg.Rates.SupportedCurrencies, "USD")
}

func TestInit_ReadsYAMLAndEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http_server:
  port: "9090"
rates:
  freshness_sec: 60
  fallback_factor: 2
  supported_currencies: [" usd", "eur "]
snapshot:
  driver: postgres
`), 0o600))
	t.Setenv("EXCHANGE_RATE_API_KEY", "secret")
	t.Setenv("HTTP_PORT", "7070")

	cfg, err := Init(path)
	require.NoError(t, err)
	require.Equal(t, "7070", cfg.HTTPServer.Port)
	require.Equal(t, "secret", cfg.ExchangeRateAPI.APIKey)
	require.Equal(t, time.Minute, cfg.Rates.FreshnessWindow())
	require.Equal(t, 2*time.Minute, cfg.Rates.FallbackWindow())
	require.Equal(t, []string{"USD", "EUR"}, cfg.Rates.SupportedCurrencies)
	require.Equal(t, SnapshotDriverPostgres, cfg.Snapshot.Driver)
}

func TestInit_RejectsUnknownDriver(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("SNAPSHOT_DRIVER", "redis")

	_, err := Init("")
	require.ErrorContains(t, err, "unknown snapshot driver")
}

func TestDbServer_GetConnectionStr(t *testing.T) {
	cfg := DbServer{Host: "localhost", Port: "5432", User: "u", Pass: "p", Name: "fx"}
	require.Equal(t, "user=u password=p host=localhost port=5432 dbname=fx sslmode=disable", cfg.GetConnectionStr())
}
