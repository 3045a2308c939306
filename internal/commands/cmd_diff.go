package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/redline/internal/core/doctext"
	"github.com/colonyops/redline/internal/printer"
	"github.com/colonyops/redline/internal/redline"
	"github.com/colonyops/redline/internal/render"
)

type DiffCmd struct {
	flags *Flags
	app   *redline.App
	src   sourceFlags
}

// NewDiffCmd creates a new diff command.
func NewDiffCmd(flags *Flags, app *redline.App) *DiffCmd {
	return &DiffCmd{flags: flags, app: app}
}

// Register adds the diff command to the application.
func (cmd *DiffCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "diff",
		Usage:       "Print accepted suggestions as a unified diff",
		UsageText:   "redline diff [options] <analysis.json>",
		Description: "Diff prints the base text against the edited text as a unified diff with no context lines.",
		Flags:       []cli.Flag{textFlag(&cmd.src)},
		Action:      cmd.run,
	})

	return app
}

func (cmd *DiffCmd) run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("expected <analysis.json>")
	}

	doc, err := cmd.app.Reviews.Load(ctx, cmd.src.source(c.Args().First()))
	if err != nil {
		return err
	}

	p := printer.Ctx(ctx)
	st := cmd.app.Reviews.Recompute(doc)
	if msg := st.SkippedWarning(); msg != "" {
		p.Warnf("%s", msg)
	}
	if !st.Edited() {
		p.Infof("No accepted suggestions")
		return nil
	}

	name := doc.Analysis.DocumentID
	if doc.Source.TextPath != "" {
		name = filepath.Base(doc.Source.TextPath)
	}

	out, err := render.UnifiedDiff(
		doctext.New(doc.Analysis.BaseText),
		doctext.New(*st.EditedText),
		st.Segments,
		"a/"+name,
		"b/"+name,
	)
	if err != nil {
		return fmt.Errorf("print diff: %w", err)
	}

	_, err = c.Root().Writer.Write(out)
	return err
}
