// Package initcmd writes a first configuration file for redline.
package initcmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"gopkg.in/yaml.v3"

	"github.com/colonyops/redline/internal/core/config"
	"github.com/colonyops/redline/internal/core/styles"
	"github.com/colonyops/redline/internal/printer"
)

// WizardOptions configures the init wizard.
type WizardOptions struct {
	ConfigPath string
	Yes        bool // accept defaults without prompting
	Force      bool // overwrite an existing config
}

// Wizard collects settings and writes the config file.
type Wizard struct {
	opts WizardOptions
}

// NewWizard creates a new Wizard.
func NewWizard(opts WizardOptions) *Wizard {
	return &Wizard{opts: opts}
}

// Run executes the wizard.
func (w *Wizard) Run(ctx context.Context) error {
	p := printer.Ctx(ctx)

	if ConfigExists(w.opts.ConfigPath) && !w.opts.Force {
		if w.opts.Yes {
			return fmt.Errorf("config exists at %s; use --force to overwrite", w.opts.ConfigPath)
		}

		var overwrite bool
		err := huh.NewConfirm().
			Title("Config file already exists").
			Description(w.opts.ConfigPath + "\nOverwrite? (a backup will be created)").
			Value(&overwrite).
			Run()
		if err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return err
		}
		if !overwrite {
			p.Infof("Init cancelled")
			return nil
		}
	}

	cfg := config.DefaultConfig()
	if !w.opts.Yes {
		if err := w.prompt(&cfg); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return fmt.Errorf("form: %w", err)
		}
	}

	backup, err := BackupConfig(w.opts.ConfigPath)
	if err != nil {
		return err
	}
	if backup != "" {
		p.Infof("Backed up existing config to %s", backup)
	}

	if err := Write(w.opts.ConfigPath, cfg); err != nil {
		return err
	}

	p.Successf("Wrote %s", w.opts.ConfigPath)
	p.Printf("")
	p.Printf("  Next: redline review <analysis.json>")
	return nil
}

func (w *Wizard) prompt(cfg *config.Config) error {
	themes := make([]huh.Option[string], 0, len(styles.ThemeNames()))
	for _, name := range styles.ThemeNames() {
		themes = append(themes, huh.NewOption(name, name))
	}

	format := string(cfg.Render.Format)
	store := string(cfg.Store)
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Theme").
				Options(themes...).
				Value(&cfg.Theme),
			huh.NewSelect[string]().
				Title("Default render format").
				Options(
					huh.NewOption("Terminal colors", string(config.FormatANSI)),
					huh.NewOption("HTML", string(config.FormatHTML)),
					huh.NewOption("JSON", string(config.FormatJSON)),
					huh.NewOption("Plain text", string(config.FormatPlain)),
				).
				Value(&format),
			huh.NewSelect[string]().
				Title("Decision storage").
				Options(
					huh.NewOption("JSON file per document", string(config.StoreJSON)),
					huh.NewOption("SQLite database", string(config.StoreSQLite)),
				).
				Value(&store),
			huh.NewConfirm().
				Title("Highlight legal citations?").
				Value(&cfg.Render.ShowLegal),
			huh.NewConfirm().
				Title("Highlight undecided suggestions?").
				Description("Suggestions are always reachable through their risk").
				Value(&cfg.Render.ShowSuggestions),
		),
	)

	if err := form.Run(); err != nil {
		return err
	}
	cfg.Render.Format = config.Format(format)
	cfg.Store = config.StoreBackend(store)
	return nil
}

// Write encodes cfg as YAML at path, creating parent directories.
func Write(path string, cfg config.Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
