// Package config handles configuration loading and validation for redline.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/colonyops/redline/internal/core/engine"
	"github.com/colonyops/redline/internal/core/highlight"
	"github.com/colonyops/redline/internal/core/ingest"
	"github.com/colonyops/redline/internal/core/styles"
)

// Format selects how spans are written by the render command.
type Format string

// Supported output formats.
const (
	FormatANSI  Format = "ansi"
	FormatHTML  Format = "html"
	FormatJSON  Format = "json"
	FormatPlain Format = "plain"
)

// IsValid reports whether f is a supported format.
func (f Format) IsValid() bool {
	switch f {
	case FormatANSI, FormatHTML, FormatJSON, FormatPlain:
		return true
	default:
		return false
	}
}

// StoreBackend selects where review decisions are persisted.
type StoreBackend string

// Supported decision stores.
const (
	StoreJSON   StoreBackend = "json"
	StoreSQLite StoreBackend = "sqlite"
)

// IsValid reports whether b is a supported backend.
func (b StoreBackend) IsValid() bool {
	return b == StoreJSON || b == StoreSQLite
}

// Config holds the application configuration.
type Config struct {
	Render       RenderConfig `yaml:"render"`
	Ingest       IngestConfig `yaml:"ingest"`
	Theme        string       `yaml:"theme"`
	Store        StoreBackend `yaml:"store"`
	DecisionsDir string       `yaml:"decisions_dir,omitempty"` // json store; defaults to <data dir>/decisions
	DatabasePath string       `yaml:"database_path,omitempty"` // sqlite store; defaults to <data dir>/redline.db
	DataDir      string       `yaml:"-"`                       // set by caller, not from config file
}

// RenderConfig controls which highlights are composed and how they print.
type RenderConfig struct {
	Format          Format         `yaml:"format"`
	ShowSuggestions bool           `yaml:"show_suggestions"`
	ShowLegal       bool           `yaml:"show_legal"`
	TypePriority    map[string]int `yaml:"type_priority,omitempty"` // highlight type -> priority, higher wins ties
}

// IngestConfig controls how analyzer text is abbreviated.
type IngestConfig struct {
	TitleMaxLen      int     `yaml:"title_max_len"`
	OriginalMaxLen   int     `yaml:"original_max_len"`
	IssueFallbackLen int     `yaml:"issue_fallback_len"`
	MinLegalScore    float64 `yaml:"min_legal_score"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	ing := ingest.DefaultOptions()
	return Config{
		Render: RenderConfig{
			Format:    FormatANSI,
			ShowLegal: true,
		},
		Ingest: IngestConfig{
			TitleMaxLen:      ing.TitleMaxLen,
			OriginalMaxLen:   ing.OriginalMaxLen,
			IssueFallbackLen: ing.IssueFallbackLen,
			MinLegalScore:    ing.MinLegalScore,
		},
		Theme: styles.DefaultTheme,
		Store: StoreJSON,
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Render.Format == "" {
		c.Render.Format = defaults.Render.Format
	}
	if c.Theme == "" {
		c.Theme = defaults.Theme
	}
	if c.Store == "" {
		c.Store = defaults.Store
	}
	if c.Ingest.TitleMaxLen == 0 {
		c.Ingest.TitleMaxLen = defaults.Ingest.TitleMaxLen
	}
	if c.Ingest.OriginalMaxLen == 0 {
		c.Ingest.OriginalMaxLen = defaults.Ingest.OriginalMaxLen
	}
	if c.Ingest.IssueFallbackLen == 0 {
		c.Ingest.IssueFallbackLen = defaults.Ingest.IssueFallbackLen
	}
	if c.DecisionsDir == "" && c.DataDir != "" {
		c.DecisionsDir = filepath.Join(c.DataDir, "decisions")
	}
	if c.DatabasePath == "" && c.DataDir != "" {
		c.DatabasePath = filepath.Join(c.DataDir, "redline.db")
	}
}

// EngineOptions converts the render section into engine options.
func (c *Config) EngineOptions() engine.Options {
	opts := engine.Options{
		ShowSuggestions: c.Render.ShowSuggestions,
		ShowLegal:       c.Render.ShowLegal,
	}
	if len(c.Render.TypePriority) > 0 {
		opts.Priorities = make(map[highlight.Type]int, len(c.Render.TypePriority))
		for typ, p := range c.Render.TypePriority {
			opts.Priorities[highlight.Type(typ)] = p
		}
	}
	return opts
}

// IngestOptions converts the ingest section into transformer options.
func (c *Config) IngestOptions() ingest.Options {
	return ingest.Options{
		TitleMaxLen:      c.Ingest.TitleMaxLen,
		OriginalMaxLen:   c.Ingest.OriginalMaxLen,
		IssueFallbackLen: c.Ingest.IssueFallbackLen,
		MinLegalScore:    c.Ingest.MinLegalScore,
	}
}

// Palette returns the configured theme palette.
func (c *Config) Palette() styles.Palette {
	if p, ok := styles.GetPalette(c.Theme); ok {
		return p
	}
	p, _ := styles.GetPalette(styles.DefaultTheme)
	return p
}
