package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/redline/internal/core/decision"
	"github.com/colonyops/redline/internal/printer"
	"github.com/colonyops/redline/internal/redline"
)

type DecideCmd struct {
	flags  *Flags
	app    *redline.App
	src    sourceFlags
	toggle bool
}

// NewDecideCmd creates a new decide command.
func NewDecideCmd(flags *Flags, app *redline.App) *DecideCmd {
	return &DecideCmd{flags: flags, app: app}
}

// Register adds the decide command to the application.
func (cmd *DecideCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "decide",
		Usage:     "Accept, reject, or clear a suggested rewrite",
		UsageText: "redline decide [options] <analysis.json> <id> <accept|reject|clear>",
		Description: `Decide records a verdict for one suggestion and saves it to the decision store.
The id may name the suggestion (sug-1), its risk (risk-1), or its edit (edit-sug-1).

With --toggle, selecting the current verdict again clears it.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "toggle",
				Usage:       "clear the decision if it already has this verdict",
				Destination: &cmd.toggle,
			},
			textFlag(&cmd.src),
		},
		ShellComplete: SuggestionIDCompleter(cmd.app, &cmd.src),
		Action:        cmd.run,
	})

	return app
}

func (cmd *DecideCmd) run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 3 {
		return fmt.Errorf("expected <analysis.json> <id> <accept|reject|clear>, got %d argument(s)", c.Args().Len())
	}

	target, err := decision.Parse(c.Args().Get(2))
	if err != nil {
		return err
	}

	doc, err := cmd.app.Reviews.Load(ctx, cmd.src.source(c.Args().Get(0)))
	if err != nil {
		return err
	}

	id := c.Args().Get(1)
	var change decision.Change
	if cmd.toggle {
		change, err = cmd.app.Reviews.Toggle(ctx, doc, id, target)
	} else {
		change, err = cmd.app.Reviews.Decide(ctx, doc, id, target)
	}
	if err != nil {
		return err
	}

	p := printer.Ctx(ctx)
	if !change.Changed {
		p.Infof("%s is already %s", change.ID, change.To)
		return nil
	}
	p.Successf("%s: %s -> %s", change.ID, change.From, change.To)

	if change.Project {
		st := cmd.app.Reviews.Recompute(doc)
		if msg := st.SkippedWarning(); msg != "" {
			p.Warnf("%s", msg)
		}
	}
	return nil
}
