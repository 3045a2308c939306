package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/redline/internal/core/highlight"
	"github.com/colonyops/redline/internal/core/ingest"
	"github.com/colonyops/redline/internal/core/styles"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	dataDir := t.TempDir()

	cfg, err := Load("", dataDir)
	require.NoError(t, err)

	assert.Equal(t, dataDir, cfg.DataDir)
	assert.Equal(t, FormatANSI, cfg.Render.Format)
	assert.True(t, cfg.Render.ShowLegal)
	assert.False(t, cfg.Render.ShowSuggestions)
	assert.Equal(t, styles.DefaultTheme, cfg.Theme)
	assert.Equal(t, StoreJSON, cfg.Store)
	assert.Equal(t, filepath.Join(dataDir, "decisions"), cfg.DecisionsDir)
	assert.Equal(t, filepath.Join(dataDir, "redline.db"), cfg.DatabasePath)
	assert.Equal(t, ingest.DefaultOptions(), cfg.IngestOptions())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, FormatANSI, cfg.Render.Format)
}

func TestLoad_Overrides(t *testing.T) {
	path := writeConfig(t, `
theme: gruvbox
store: sqlite
decisions_dir: /var/lib/redline
database_path: /var/lib/redline/reviews.db
render:
  format: html
  show_suggestions: true
  show_legal: false
  type_priority:
    legal: 2
ingest:
  title_max_len: 40
  min_legal_score: 0.3
`)

	cfg, err := Load(path, t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "gruvbox", cfg.Theme)
	assert.Equal(t, "/var/lib/redline", cfg.DecisionsDir)
	assert.Equal(t, StoreSQLite, cfg.Store)
	assert.Equal(t, "/var/lib/redline/reviews.db", cfg.DatabasePath)
	assert.Equal(t, FormatHTML, cfg.Render.Format)

	opts := cfg.EngineOptions()
	assert.True(t, opts.ShowSuggestions)
	assert.False(t, opts.ShowLegal)
	assert.Equal(t, map[highlight.Type]int{highlight.TypeLegal: 2}, opts.Priorities)

	ing := cfg.IngestOptions()
	assert.Equal(t, 40, ing.TitleMaxLen)
	assert.Equal(t, 100, ing.OriginalMaxLen, "unset values keep defaults")
	assert.InDelta(t, 0.3, ing.MinLegalScore, 1e-9)

	p, _ := styles.GetPalette("gruvbox")
	assert.Equal(t, p, cfg.Palette())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{name: "bad yaml", content: "render: [", wantErr: "parse config file"},
		{name: "bad format", content: "render:\n  format: pdf\n", wantErr: "render.format"},
		{name: "bad theme", content: "theme: neon\n", wantErr: "unknown theme"},
		{name: "bad type", content: "render:\n  type_priority:\n    comment: 1\n", wantErr: "type_priority"},
		{name: "bad store", content: "store: postgres\n", wantErr: "unsupported store"},
		{name: "bad score", content: "ingest:\n  min_legal_score: 1.5\n", wantErr: "min_legal_score"},
		{name: "negative length", content: "ingest:\n  title_max_len: -1\n", wantErr: "title_max_len"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content), t.TempDir())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_RequiresDataDir(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "data directory")
}

func TestFormatIsValid(t *testing.T) {
	for _, f := range []Format{FormatANSI, FormatHTML, FormatJSON, FormatPlain} {
		assert.True(t, f.IsValid(), f)
	}
	assert.False(t, Format("").IsValid())
	assert.False(t, Format("ANSI").IsValid())
}

func TestStoreBackendIsValid(t *testing.T) {
	assert.True(t, StoreJSON.IsValid())
	assert.True(t, StoreSQLite.IsValid())
	assert.False(t, StoreBackend("").IsValid())
	assert.False(t, StoreBackend("postgres").IsValid())
}
