package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	t.Parallel()

	cfg := Default()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, 5*time.Second, cfg.DialTimeout())
	assert.Equal(t, time.Second, cfg.ReconnectDelay())
	assert.Equal(t, 5*time.Second, cfg.ReconnectDelayMax())
	assert.Equal(t, time.Second, cfg.StaleAfter())
	assert.Equal(t, 3*time.Second, cfg.FetchTimeout())
	assert.Equal(t, 10, cfg.Feed.MaxReconnects)
}

func TestValidateErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"missing url", func(c *Config) { c.Feed.URL = "" }, "feed.url is required"},
		{"http url", func(c *Config) { c.Feed.URL = "https://feed.example.com" }, "ws://"},
		{"bad duration", func(c *Config) { c.Cache.StaleAfter = "fast" }, "cache.stale_after"},
		{"negative reconnects", func(c *Config) { c.Feed.MaxReconnects = -1 }, "max_reconnects"},
		{"missing history db", func(c *Config) { c.Store.HistoryDB = "" }, "store.history_db"},
		{"missing subs db", func(c *Config) { c.Store.SubsDB = "" }, "store.subs_db"},
		{"unknown watch code", func(c *Config) { c.Watch = []string{"DOGE"} }, "watch list"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFromFileYAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "goldwatch.yaml")
	body := `
feed:
  url: wss://feed.example.com/socket
  max_reconnects: 5
  reconnect_delay: 500ms
cache:
  stale_after: 2s
store:
  history_db: /tmp/history.db
  subs_db: /tmp/subs.db
watch:
  - ALTIN
  - ONS
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "wss://feed.example.com/socket", cfg.Feed.URL)
	assert.Equal(t, 5, cfg.Feed.MaxReconnects)
	assert.Equal(t, 500*time.Millisecond, cfg.ReconnectDelay())
	assert.Equal(t, 2*time.Second, cfg.StaleAfter())
	assert.Equal(t, time.Duration(0), cfg.FetchTimeout(), "unset durations stay zero for downstream defaults")
	assert.Equal(t, []string{"ALTIN", "ONS"}, cfg.Watch)
}

func TestLoadFromFileInvalid(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("feed:\n  url: \"\"\n"), 0644))

	_, err := LoadFromFile(path)
	assert.ErrorContains(t, err, "invalid config")
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "roundtrip.yaml")
	cfg := Default()
	cfg.Watch = []string{"ALTIN"}
	require.NoError(t, cfg.SaveToFile(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
