package server

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileName), []byte(body), 0o644))
	return dir
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Cleanup(viper.Reset)

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 60.0, cfg.SimHz)
	assert.Equal(t, 20.0, cfg.UpdateHz)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "none", cfg.Storage.Type)
	assert.Equal(t, "arena", cfg.LevelName)
	assert.False(t, cfg.InfluxOn)
	assert.False(t, cfg.OtelOn)
}

func TestLoadConfigFromFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := writeConfig(t, `{
		"addr": ":9090",
		"logLevel": "debug",
		"logsDir": "/var/log/tankduel",
		"sim": {"hz": 30, "updateHz": 10},
		"storage": {"type": "sqlite", "sqlite": {"path": "/tmp/results.db"}},
		"influx": {"enabled": true, "bucket": "duels"}
	}`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "/var/log/tankduel", cfg.Logging.Dir)
	assert.Equal(t, 30.0, cfg.SimHz)
	assert.Equal(t, 10.0, cfg.UpdateHz)
	assert.Equal(t, "sqlite", cfg.Storage.Type)
	assert.Equal(t, "/tmp/results.db", cfg.Storage.SqlitePath)
	assert.True(t, cfg.InfluxOn)
	assert.Equal(t, "duels", cfg.Influx.Bucket)
	assert.Equal(t, "tankduel", cfg.Influx.Org)
}

func TestLoadConfigRejectsUnknownStorage(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := writeConfig(t, `{"storage": {"type": "mongo"}}`)
	_, err := LoadConfig(dir)
	assert.ErrorContains(t, err, "unknown storage type")
}

func TestLoadConfigRejectsBadRates(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := writeConfig(t, `{"sim": {"hz": 0}}`)
	_, err := LoadConfig(dir)
	assert.Error(t, err)
}

func TestLoadConfigMalformedFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := writeConfig(t, `{"addr": `)
	_, err := LoadConfig(dir)
	assert.ErrorContains(t, err, "error reading config file")
}

func TestResolveConfigOverrides(t *testing.T) {
	t.Cleanup(viper.Reset)

	addr := "127.0.0.1:7000"
	level := "warn"
	cfg, err := ResolveConfig(t.TempDir(), AppOverrides{Addr: &addr, LogLevel: &level})
	require.NoError(t, err)
	assert.Equal(t, addr, cfg.Addr)
	assert.Equal(t, "warn", cfg.Logging.Level)
}
