package engine

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigWatcherReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "colorpass.toml")
	require.NoError(t, os.WriteFile(path, []byte(`log_level = "info"`), 0o644))

	reloaded := make(chan *ApplicationConfig, 8)
	w, err := NewConfigWatcher(path, func(c *ApplicationConfig) {
		reloaded <- c
	})
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Close()

	// Changes to other files in the directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.toml"), []byte(`log_level = "error"`), 0o644))
	require.NoError(t, os.WriteFile(path, []byte(`log_level = "debug"`), 0o644))

	// Truncation and write may arrive as separate events.
	timeout := time.After(5 * time.Second)
	for {
		select {
		case c := <-reloaded:
			if c.LogLevel == "debug" {
				return
			}
			assert.Equal(t, DefaultLogLevel, c.LogLevel)
		case <-timeout:
			t.Fatal("configuration was not reloaded")
		}
	}
}

func TestConfigWatcherCloseTwice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "colorpass.toml")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	w, err := NewConfigWatcher(path, nil)
	require.NoError(t, err)
	require.NoError(t, w.Start())
	require.NoError(t, w.Close())
	assert.NoError(t, w.Close())
	assert.Error(t, w.Start())
}
