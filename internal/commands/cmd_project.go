package commands

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/redline/internal/core/decision"
	"github.com/colonyops/redline/internal/core/engine"
	"github.com/colonyops/redline/internal/core/ingest"
	"github.com/colonyops/redline/internal/redline"
	"github.com/colonyops/redline/pkg/iojson"
)

// ProjectInput is the stdin payload of the project command.
type ProjectInput struct {
	Analysis  ingest.Response `json:"analysis"`
	Decisions decision.Set    `json:"decisions"`

	// EditedText switches to manual mode: the text was edited by hand and
	// only the changed region is highlighted.
	EditedText *string `json:"edited_text,omitempty"`

	// BaseText overrides the analysis raw_content.
	BaseText string `json:"base_text,omitempty"`
}

// ProjectOutput is the derived state plus records rejected during ingest.
type ProjectOutput struct {
	engine.DerivedState
	Rejected []ingest.RejectedRisk `json:"rejected,omitempty"`
	Warning  string                `json:"warning,omitempty"`
}

type ProjectCmd struct {
	flags  *Flags
	app    *redline.App
	reader iojson.FileReader[ProjectInput]
}

// NewProjectCmd creates a new project command.
func NewProjectCmd(flags *Flags, app *redline.App) *ProjectCmd {
	return &ProjectCmd{flags: flags, app: app}
}

// Register adds the project command to the application.
func (cmd *ProjectCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "project",
		Usage:     "Compute the edited text and highlights for a set of decisions",
		UsageText: "redline project [-f input.json]",
		Description: `Project reads {"analysis": <analyzer response>, "decisions": {"sug-1": "accepted"}}
and prints the derived state as JSON: edited_text (null when nothing is
accepted), segments, skipped_ids, dropped_ids, base_spans, and spans.

Nothing is read from or written to the decision store.`,
		Flags:  []cli.Flag{cmd.reader.Flag()},
		Action: cmd.run,
	})

	return app
}

func (cmd *ProjectCmd) run(ctx context.Context, c *cli.Command) error {
	in, err := cmd.reader.Read()
	if err != nil {
		return err
	}

	analysis, rejected, err := cmd.app.Reviews.Convert(in.Analysis, in.BaseText)
	if err != nil {
		return err
	}

	doc := redline.Detached(analysis, in.Decisions)

	var st engine.DerivedState
	if in.EditedText != nil {
		st = cmd.app.Reviews.RecomputeManual(doc, *in.EditedText)
	} else {
		st = cmd.app.Reviews.Recompute(doc)
	}

	return iojson.WriteWith(c.Root().Writer, c.Root().ErrWriter, ProjectOutput{
		DerivedState: st,
		Rejected:     rejected,
		Warning:      st.SkippedWarning(),
	})
}
