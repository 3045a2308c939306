package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/colonyops/redline/internal/redline"
	"github.com/colonyops/redline/internal/render"
)

type ExplainCmd struct {
	flags *Flags
	app   *redline.App
	src   sourceFlags
	raw   bool
	width int
}

// NewExplainCmd creates a new explain command.
func NewExplainCmd(flags *Flags, app *redline.App) *ExplainCmd {
	return &ExplainCmd{flags: flags, app: app}
}

// Register adds the explain command to the application.
func (cmd *ExplainCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "explain",
		Usage:     "Show the detail of the risk behind a highlight",
		UsageText: "redline explain [options] <analysis.json> <id>",
		Description: `Explain resolves any highlight id (risk-*, sug-*, edit-*, legal-*) to its
risk and prints the issue, advice, suggested rewrite, and legal basis.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "raw",
				Usage:       "print markdown without terminal styling",
				Destination: &cmd.raw,
			},
			&cli.IntFlag{
				Name:        "width",
				Usage:       "wrap width (defaults to the terminal width)",
				Destination: &cmd.width,
			},
			textFlag(&cmd.src),
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ExplainCmd) run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 2 {
		return fmt.Errorf("expected <analysis.json> <id>")
	}

	doc, err := cmd.app.Reviews.Load(ctx, cmd.src.source(c.Args().Get(0)))
	if err != nil {
		return err
	}

	id := c.Args().Get(1)
	risk, ok := doc.Analysis.ResolveRisk(id)
	if !ok {
		return fmt.Errorf("no risk found for %q", id)
	}

	md := render.RiskMarkdown(doc.Analysis, risk, doc.Decisions.Get(risk.SuggestionID()))
	if cmd.raw {
		_, err := fmt.Fprint(c.Root().Writer, md)
		return err
	}

	out, err := render.Markdown(md, cmd.wrapWidth())
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(c.Root().Writer, out)
	return err
}

func (cmd *ExplainCmd) wrapWidth() int {
	if cmd.width > 0 {
		return cmd.width
	}
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}
