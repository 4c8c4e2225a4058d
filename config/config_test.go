package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("missing file returns defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.NoError(t, err)
		assert.Equal(t, "studyrag.db", cfg.Storage.Path)
		assert.Equal(t, "http://localhost:11434/v1", cfg.AI.EmbeddingHost)
		assert.Equal(t, 8080, cfg.Server.Port)
		assert.Equal(t, 1200, cfg.Chunking.Size)
		assert.Equal(t, 200, cfg.Chunking.Overlap)
	})

	t.Run("partial file keeps defaults for the rest", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		content := `
storage:
  path: /var/lib/studyrag
server:
  port: 9090
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "/var/lib/studyrag", cfg.Storage.Path)
		assert.Equal(t, 9090, cfg.Server.Port)
		assert.Equal(t, "embeddinggemma", cfg.AI.EmbeddingModel)
		assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	})

	t.Run("full file overrides everything", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		content := `
storage:
  path: data.db
ai:
  embedding_host: http://embed:8000/v1
  generation_host: http://gen:8000/v1
  embedding_model: nomic-embed-text
  generation_model: llama3
server:
  host: 127.0.0.1
  port: 3000
chunking:
  size: 800
  overlap: 100
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "http://embed:8000/v1", cfg.AI.EmbeddingHost)
		assert.Equal(t, "nomic-embed-text", cfg.AI.EmbeddingModel)
		assert.Equal(t, "llama3", cfg.AI.GenerationModel)
		assert.Equal(t, "127.0.0.1", cfg.Server.Host)
		assert.Equal(t, 800, cfg.Chunking.Size)
		assert.Equal(t, 100, cfg.Chunking.Overlap)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("storage: [not a map"), 0o644))

		_, err := Load(path)
		assert.Error(t, err)
	})
}
