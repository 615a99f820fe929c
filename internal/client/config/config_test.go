package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	require.Equal(t, "ws://127.0.0.1:8087/ws", cfg.ServerURL)
	require.Equal(t, 15*time.Second, cfg.RequestTimeout)
	require.Less(t, cfg.ReconnectMinDelay, cfg.ReconnectMaxDelay)
}

func TestParseJson_Overlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"server_url": "wss://station.example/ws",
		"request_timeout": "5s"
	}`), 0o600))

	oldArgs := os.Args
	os.Args = []string{"client", "-c", path}
	defer func() { os.Args = oldArgs }()

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	require.Equal(t, "wss://station.example/ws", cfg.ServerURL)
	require.Equal(t, 5*time.Second, cfg.RequestTimeout)
	// untouched fields keep their defaults
	require.Equal(t, 30*time.Second, cfg.ReconnectMaxDelay)
}

func TestParseFlags_Overrides(t *testing.T) {
	oldArgs := os.Args
	os.Args = []string{"client", "-a", "ws://10.0.0.2:8087/ws", "-t", "20"}
	defer func() { os.Args = oldArgs }()

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	require.Equal(t, "ws://10.0.0.2:8087/ws", cfg.ServerURL)
	require.Equal(t, 20*time.Second, cfg.RequestTimeout)
}
