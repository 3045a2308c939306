package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/redline/internal/commands"
	"github.com/colonyops/redline/internal/core/config"
	"github.com/colonyops/redline/internal/core/styles"
	"github.com/colonyops/redline/internal/printer"
	"github.com/colonyops/redline/internal/redline"
	"github.com/colonyops/redline/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, init() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	// When installed via `go install module@version`, ldflags aren't set
	// so version remains "dev". Fall back to runtime/debug.BuildInfo which
	// Go populates automatically with the module version and VCS metadata.
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

func main() {
	ctx := context.Background()

	var (
		logCloser   func()
		storeCloser func() error
		redlineApp  = &redline.App{}
	)

	flags := &commands.Flags{}

	app := commands.NewRootCmd(flags, redlineApp, build())
	app.Before = func(ctx context.Context, c *cli.Command) (context.Context, error) {
		// Always log to a file so TUI output is never interleaved with logs.
		logFile := flags.LogFile
		if logFile == "" {
			logFile = filepath.Join(flags.DataDir, "redline.log")
		}

		logger, closer, err := logutils.New(flags.LogLevel, logFile)
		if err != nil {
			return ctx, fmt.Errorf("setup logger: %w", err)
		}
		log.Logger = logger
		logCloser = closer

		cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
		if err != nil {
			return ctx, fmt.Errorf("load config: %w", err)
		}
		flags.Config = cfg

		// Apply configured theme (validation ensures name is valid)
		styles.SetTheme(cfg.Palette())

		store, closeStore, err := redline.OpenStore(ctx, cfg)
		if err != nil {
			return ctx, err
		}
		storeCloser = closeStore

		// Populate the pre-allocated App struct (commands already hold a pointer to it)
		*redlineApp = *redline.NewApp(cfg, store, log.Logger)

		ctx = printer.NewContext(ctx, printer.New(c.Root().Writer, c.Root().ErrWriter))
		return ctx, nil
	}
	app.After = func(ctx context.Context, c *cli.Command) error {
		if storeCloser != nil {
			if err := storeCloser(); err != nil {
				log.Error().Err(err).Msg("failed to close decision store")
			}
		}
		if logCloser != nil {
			logCloser()
		}
		return nil
	}

	exitCode := 0
	runErr := app.Run(ctx, os.Args)
	if runErr != nil {
		fmt.Println()
		fmt.Println(runErr.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}
