package config

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/hay-kot/criterio"

	"github.com/colonyops/redline/internal/core/highlight"
	"github.com/colonyops/redline/internal/core/styles"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

var highlightTypes = []highlight.Type{
	highlight.TypeRisk,
	highlight.TypeLegal,
	highlight.TypeSuggestion,
	highlight.TypeEdit,
}

// Validate checks that the configuration is structurally valid.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return errors.New("data directory cannot be empty")
	}

	var errs criterio.FieldErrorsBuilder

	if !c.Render.Format.IsValid() {
		errs = errs.Append("render.format", fmt.Errorf("unsupported format %q (want ansi, html, json or plain)", c.Render.Format))
	}

	for _, typ := range slices.Sorted(maps.Keys(c.Render.TypePriority)) {
		if !isHighlightType(typ) {
			errs = errs.Append(fmt.Sprintf("render.type_priority[%q]", typ), fmt.Errorf("unknown highlight type"))
		}
	}

	if !c.Store.IsValid() {
		errs = errs.Append("store", fmt.Errorf("unsupported store %q (want json or sqlite)", c.Store))
	}

	if _, ok := styles.GetPalette(c.Theme); !ok {
		errs = errs.Append("theme", fmt.Errorf("unknown theme %q (available: %s)", c.Theme, strings.Join(styles.ThemeNames(), ", ")))
	}

	lengths := []struct {
		field string
		n     int
	}{
		{"ingest.title_max_len", c.Ingest.TitleMaxLen},
		{"ingest.original_max_len", c.Ingest.OriginalMaxLen},
		{"ingest.issue_fallback_len", c.Ingest.IssueFallbackLen},
	}
	for _, l := range lengths {
		if l.n < 1 {
			errs = errs.Append(l.field, fmt.Errorf("must be at least 1"))
		}
	}

	if c.Ingest.MinLegalScore < 0 || c.Ingest.MinLegalScore > 1 {
		errs = errs.Append("ingest.min_legal_score", fmt.Errorf("must be between 0 and 1"))
	}

	return errs.ToError()
}

// ValidateDeep performs Validate plus file system checks. The configPath
// argument specifies the config file location to validate (empty string
// skips the config file check).
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	storeCheck := criterio.Run("decisions_dir", c.DecisionsDir, isDirectoryOrNotExist)
	if c.Store == StoreSQLite {
		storeCheck = criterio.Run("database_path", filepath.Dir(c.DatabasePath), isDirectoryOrNotExist)
	}

	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
		storeCheck,
	)
}

// Warnings returns non-fatal configuration issues.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	if !c.Render.ShowLegal && !c.Render.ShowSuggestions {
		warnings = append(warnings, ValidationWarning{
			Category: "Render",
			Message:  "only risk highlights will be shown",
		})
	}

	if c.Render.TypePriority[string(highlight.TypeEdit)] != 0 {
		warnings = append(warnings, ValidationWarning{
			Category: "Render",
			Item:     "type_priority.edit",
			Message:  "edits always render first; this priority has no effect",
		})
	}

	if c.Ingest.MinLegalScore >= 1 {
		warnings = append(warnings, ValidationWarning{
			Category: "Ingest",
			Item:     "min_legal_score",
			Message:  "only citations with a perfect score will be kept",
		})
	}

	return warnings
}

func isHighlightType(s string) bool {
	for _, t := range highlightTypes {
		if string(t) == s {
			return true
		}
	}
	return false
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

// isDirectoryOrNotExist validates that a path is a directory or doesn't exist.
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("exists but is not a directory")
	}
	return nil
}
