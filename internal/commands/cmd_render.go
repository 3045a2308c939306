package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/redline/internal/core/config"
	"github.com/colonyops/redline/internal/core/highlight"
	"github.com/colonyops/redline/internal/core/ingest"
	"github.com/colonyops/redline/internal/core/metrics"
	"github.com/colonyops/redline/internal/core/styles"
	"github.com/colonyops/redline/internal/printer"
	"github.com/colonyops/redline/internal/redline"
	"github.com/colonyops/redline/internal/render"
	"github.com/colonyops/redline/pkg/iojson"
)

type RenderCmd struct {
	flags   *Flags
	app     *redline.App
	src     sourceFlags
	format  string
	base    bool
	active  string
	metrics bool
}

// NewRenderCmd creates a new render command.
func NewRenderCmd(flags *Flags, app *redline.App) *RenderCmd {
	return &RenderCmd{flags: flags, app: app}
}

// Register adds the render command to the application.
func (cmd *RenderCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "render",
		Usage:     "Render analyzed documents with highlights",
		UsageText: "redline render [options] <analysis.json|glob>...",
		Description: `Render prints each analyzed document with its risk, legal, and edit
highlights. Saved decisions are applied, so accepted suggestions show up as
edits in the output.

Arguments may be doublestar globs:
  redline render 'reviews/**/*.json'
  redline render --format html contract.json > contract.html`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "format",
				Usage:       "output format (ansi, html, json, plain); defaults to render.format",
				Destination: &cmd.format,
			},
			&cli.BoolFlag{
				Name:        "base",
				Usage:       "render the base text even when suggestions are accepted",
				Destination: &cmd.base,
			},
			&cli.StringFlag{
				Name:        "active",
				Usage:       "highlight id to emphasize",
				Destination: &cmd.active,
			},
			&cli.BoolFlag{
				Name:        "metrics",
				Usage:       "print recompute metrics to stderr when done",
				Destination: &cmd.metrics,
			},
			textFlag(&cmd.src),
		},
		Action: cmd.run,
	})

	return app
}

func textFlag(src *sourceFlags) cli.Flag {
	return &cli.StringFlag{
		Name:        "text",
		Usage:       "base text file to use instead of the analysis raw_content",
		Destination: &src.textPath,
	}
}

type renderedDocument struct {
	Path       string                `json:"path"`
	DocumentID string                `json:"document_id"`
	EditedText *string               `json:"edited_text"`
	Spans      []highlight.Span      `json:"spans"`
	SkippedIDs []string              `json:"skipped_ids,omitempty"`
	DroppedIDs []string              `json:"dropped_ids,omitempty"`
	Rejected   []ingest.RejectedRisk `json:"rejected,omitempty"`
}

func (cmd *RenderCmd) run(ctx context.Context, c *cli.Command) error {
	format := config.Format(cmd.format)
	if format == "" {
		format = cmd.app.Config.Render.Format
	}
	if !format.IsValid() {
		return fmt.Errorf("unsupported format %q", format)
	}

	paths, err := expandPatterns(c.Args().Slice())
	if err != nil {
		return err
	}

	p := printer.Ctx(ctx)
	w := c.Root().Writer

	var docs []renderedDocument
	for _, path := range paths {
		doc, err := cmd.app.Reviews.Load(ctx, cmd.src.source(path))
		if err != nil {
			return err
		}

		st := cmd.app.Reviews.Recompute(doc)
		if msg := st.SkippedWarning(); msg != "" {
			p.Warnf("%s: %s", path, msg)
		}
		for _, r := range doc.Rejected {
			p.Warnf("%s: risk record %d skipped: %s", path, r.Index, r.Reason)
		}

		spans := st.Spans
		var edited *string
		if cmd.base {
			spans = st.BaseSpans
		} else {
			edited = st.EditedText
		}

		if format == config.FormatJSON {
			docs = append(docs, renderedDocument{
				Path:       path,
				DocumentID: doc.Analysis.DocumentID,
				EditedText: edited,
				Spans:      spans,
				SkippedIDs: st.SkippedIDs,
				DroppedIDs: st.DroppedIDs,
				Rejected:   doc.Rejected,
			})
			continue
		}

		if len(paths) > 1 {
			_, _ = fmt.Fprintln(w, styles.HeaderStyle.Render("==> "+path+" <=="))
		}
		if err := cmd.write(w, format, spans); err != nil {
			return err
		}
	}

	if format == config.FormatJSON {
		if err := iojson.WriteWith(w, c.Root().ErrWriter, docs); err != nil {
			return err
		}
	}

	if cmd.metrics {
		return metrics.WriteText(c.Root().ErrWriter, cmd.app.Registry)
	}
	return nil
}

func (cmd *RenderCmd) write(w io.Writer, format config.Format, spans []highlight.Span) error {
	var out string
	switch format {
	case config.FormatHTML:
		out = render.HTML(spans, cmd.active)
	case config.FormatPlain:
		out = render.Plain(spans)
	default:
		out = render.ANSI(spans, cmd.active)
	}

	_, err := fmt.Fprintln(w, out)
	return err
}

// expandPatterns resolves doublestar globs. A pattern without matches is
// passed through so the caller reports the missing file.
func expandPatterns(patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		return nil, fmt.Errorf("at least one analysis file is required")
	}

	var (
		paths []string
		seen  = map[string]bool{}
	)
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("expand %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			if _, err := os.Stat(pattern); err != nil {
				return nil, fmt.Errorf("no analysis files match %q", pattern)
			}
			matches = []string{pattern}
		}
		for _, m := range matches {
			m = filepath.Clean(m)
			if seen[m] {
				continue
			}
			seen[m] = true
			paths = append(paths, m)
		}
	}
	return paths, nil
}
