package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/redline/internal/printer"
	"github.com/colonyops/redline/internal/redline"
)

type DiscardCmd struct {
	flags *Flags
	app   *redline.App
	src   sourceFlags
	yes   bool
}

// NewDiscardCmd creates a new discard command.
func NewDiscardCmd(flags *Flags, app *redline.App) *DiscardCmd {
	return &DiscardCmd{flags: flags, app: app}
}

// Register adds the discard command to the application.
func (cmd *DiscardCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "discard",
		Usage:     "Discard every decision recorded for a document",
		UsageText: "redline discard [options] <analysis.json>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "yes",
				Aliases:     []string{"y"},
				Usage:       "skip the confirmation prompt",
				Destination: &cmd.yes,
			},
			textFlag(&cmd.src),
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *DiscardCmd) run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("expected <analysis.json>")
	}

	doc, err := cmd.app.Reviews.Load(ctx, cmd.src.source(c.Args().First()))
	if err != nil {
		return err
	}

	p := printer.Ctx(ctx)
	snapshot := doc.Decisions.Snapshot()
	if len(snapshot) == 0 && doc.SessionID() == "" {
		p.Infof("No decisions recorded for %s", doc.Analysis.DocumentID)
		return nil
	}

	if !cmd.yes {
		confirmed := false
		err := huh.NewConfirm().
			Title("Discard all decisions?").
			Description(fmt.Sprintf("%s\n%d accepted, %d rejected", doc.Analysis.DocumentID, len(snapshot.Accepted()), len(snapshot.Rejected()))).
			Value(&confirmed).
			Run()
		if err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return fmt.Errorf("confirm: %w", err)
		}
		if !confirmed {
			p.Infof("Discard cancelled")
			return nil
		}
	}

	if err := cmd.app.Reviews.Discard(ctx, doc); err != nil {
		return err
	}
	p.Successf("Discarded decisions for %s", doc.Analysis.DocumentID)
	return nil
}
