package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/redline/internal/printer"
	"github.com/colonyops/redline/internal/profiler"
	"github.com/colonyops/redline/internal/redline"
	"github.com/colonyops/redline/internal/store/jsonfile"
	"github.com/colonyops/redline/internal/tui"
)

type ReviewCmd struct {
	flags *Flags
	app   *redline.App
	src   sourceFlags
	watch bool

	debugAddr string
}

// NewReviewCmd creates a new review command.
func NewReviewCmd(flags *Flags, app *redline.App) *ReviewCmd {
	return &ReviewCmd{flags: flags, app: app}
}

// Register adds the review command to the application.
func (cmd *ReviewCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "review",
		Usage:     "Review an analyzed contract interactively",
		UsageText: "redline review [options] <analysis.json>",
		Description: `Review opens a TUI listing every detected risk next to the highlighted document.

Accept or reject suggested rewrites and the edited text is recomputed from the
base text immediately. Decisions are saved as they are made and restored the
next time the same document is opened.

With --watch, the analysis (and --text file) are reloaded when they change on disk.
With --debug-addr, pprof and the engine metrics are served over HTTP until the
TUI exits.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "watch",
				Aliases:     []string{"w"},
				Usage:       "reload when the analysis file changes",
				Destination: &cmd.watch,
			},
			textFlag(&cmd.src),
			&cli.StringFlag{
				Name:        "debug-addr",
				Usage:       "serve pprof and metrics on this address while the TUI runs (e.g. localhost:6060)",
				Sources:     cli.EnvVars("REDLINE_DEBUG_ADDR"),
				Destination: &cmd.debugAddr,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ReviewCmd) run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("expected <analysis.json>")
	}

	src := cmd.src.source(c.Args().First())
	doc, err := cmd.app.Reviews.Load(ctx, src)
	if err != nil {
		return err
	}

	// The alternate screen hides anything printed while the TUI runs.
	deferred := &printer.Deferred{}
	defer func() { _ = deferred.Flush(c.Root().Writer, c.Root().ErrWriter) }()

	p := deferred.Printer()
	for _, r := range doc.Rejected {
		p.Warnf("%s: risk record %d skipped: %s", src.AnalysisPath, r.Index, r.Reason)
	}
	if doc.Reset {
		p.Warnf("%s changed since decisions were saved; decisions were reset", src.AnalysisPath)
	}

	if cmd.debugAddr != "" {
		server := profiler.New(cmd.debugAddr, cmd.app.Registry)
		if err := server.Start(ctx); err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(shutdownCtx)
		}()
	}

	opts := tui.ReviewOnlyOptions{
		Service:  cmd.app.Reviews,
		Document: doc,
	}

	if cmd.watch {
		watcher, changes, err := watchSource(ctx, src)
		if err != nil {
			return err
		}
		defer func() { _ = watcher.Close() }()
		opts.Changes = changes
	}

	program := tea.NewProgram(tui.NewReviewOnly(ctx, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run review TUI: %w", err)
	}

	return nil
}

// watchSource subscribes to changes of the analysis file and, when set, the
// base text file. Events from both arrive on one channel.
func watchSource(ctx context.Context, src redline.Source) (*jsonfile.FileWatcher, <-chan jsonfile.FileEvent, error) {
	files := []string{src.AnalysisPath}
	if src.TextPath != "" {
		files = append(files, src.TextPath)
	}

	dirs := make([]string, 0, len(files))
	seen := map[string]bool{}
	for i, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return nil, nil, fmt.Errorf("resolve %s: %w", f, err)
		}
		files[i] = abs
		if dir := filepath.Dir(abs); !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}

	watcher, err := jsonfile.NewFileWatcher(dirs...)
	if err != nil {
		return nil, nil, err
	}

	merged := make(chan jsonfile.FileEvent, len(files))
	for _, f := range files {
		ch, err := watcher.WatchFile(ctx, f)
		if err != nil {
			_ = watcher.Close()
			return nil, nil, err
		}
		go func() {
			for ev := range ch {
				log.Debug().Str("path", ev.Path).Msg("review: source changed")
				select {
				case merged <- ev:
				default:
				}
			}
		}()
	}

	return watcher, merged, nil
}
