package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, ":8080", cfg.Addr)
	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, 5*time.Second, cfg.Cache.Expiration)
	require.Equal(t, time.Second, cfg.Cache.SweepInterval)
	require.Equal(t, 6.0, cfg.Layout.EdgePadding)
	require.Equal(t, 100, cfg.Layout.BaseZIndex)
	require.Equal(t, "BTCUSDT", cfg.Feed.Pair)
	require.Equal(t, []string{"15m", "1h", "4h", "1d"}, cfg.Ranges)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load("/nowhere/chartoverlay.yaml")
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.Addr)
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chartoverlay.yaml")
	content := []byte(`
addr: ":9090"
cache:
  expiration: 10s
layout:
  edge_padding: 12
feed:
  pair: ETHUSDT
`)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, ":9090", cfg.Addr)
	require.Equal(t, 10*time.Second, cfg.Cache.Expiration)
	require.Equal(t, 12.0, cfg.Layout.EdgePadding)
	require.Equal(t, "ETHUSDT", cfg.Feed.Pair)

	// Untouched keys keep their defaults.
	require.Equal(t, time.Second, cfg.Cache.SweepInterval)
	require.Equal(t, 6.0, cfg.Layout.WidgetGap)
}

func TestLoad_InvalidDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chartoverlay.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cache:\n  expiration: often\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}
