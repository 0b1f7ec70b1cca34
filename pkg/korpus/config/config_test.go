package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/korpus/pkg/korpus/internalerr"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 7, cfg.Concordance.Window)
	assert.Equal(t, "rule", cfg.Ingest.Annotator)
	assert.Equal(t, "memory", cfg.Store.Type)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "korpus.yaml", `concordance:
  window: 3
ingest:
  annotator: prose
store:
  type: sqlite
  path: /tmp/korpus.db
logging:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Concordance.Window)
	assert.Equal(t, "prose", cfg.Ingest.Annotator)
	assert.Equal(t, "sqlite", cfg.Store.Type)
	assert.Equal(t, "/tmp/korpus.db", cfg.Store.Path)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// untouched sections keep their defaults
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "Text", cfg.Ingest.TextPrefix)
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "korpus.toml", `[concordance]
window = 0

[store]
type = "badger"
path = "/var/lib/korpus"

[server]
addr = "127.0.0.1:9000"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Concordance.Window)
	assert.Equal(t, "badger", cfg.Store.Type)
	assert.Equal(t, "/var/lib/korpus", cfg.Store.Path)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, "rule", cfg.Ingest.Annotator)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"negative window", "a.yaml", "concordance:\n  window: -1\n"},
		{"huge window", "b.yaml", "concordance:\n  window: 500\n"},
		{"unknown annotator", "c.yaml", "ingest:\n  annotator: neural\n"},
		{"unknown store", "d.yaml", "store:\n  type: postgres\n  path: x\n"},
		{"sqlite without path", "e.yaml", "store:\n  type: sqlite\n"},
		{"bad level", "f.yaml", "logging:\n  level: loud\n"},
		{"malformed yaml", "g.yaml", "concordance: [\n"},
		{"malformed toml", "h.toml", "[concordance\nwindow = 1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.file, tt.content))
			require.Error(t, err)
			assert.ErrorIs(t, err, internalerr.ErrInvalidConfig)
		})
	}
}
