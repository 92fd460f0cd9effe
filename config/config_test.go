package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "data/silo.db", cfg.StorePath)
	assert.Equal(t, 12*time.Second, cfg.Timeouts.Fetch)
	assert.Equal(t, 5, cfg.Search.PageSize)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Defaults().AI.ChatModel, cfg.AI.ChatModel)
}

func TestLoadFileOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "silo.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
store_path: /var/lib/silo/silo.db
ai:
  chat_model: llama3.1:8b
search:
  page_size: 10
timeouts:
  fetch: 5s
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/silo/silo.db", cfg.StorePath)
	assert.Equal(t, "llama3.1:8b", cfg.AI.ChatModel)
	assert.Equal(t, 10, cfg.Search.PageSize)
	assert.Equal(t, 5*time.Second, cfg.Timeouts.Fetch)
	// Untouched fields keep their defaults.
	assert.Equal(t, "embeddinggemma", cfg.AI.EmbeddingModel)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "silo.yaml")
	require.NoError(t, os.WriteFile(path, []byte("search:\n  page_size: 0\n"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Defaults()
	cfg.StorePath = ""
	assert.Error(t, cfg.Validate())

	cfg = Defaults()
	cfg.Timeouts.AI = 0
	assert.Error(t, cfg.Validate())
}
