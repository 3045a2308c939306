package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/redline/internal/redline"
)

// SuggestionIDCompleter returns a ShellCompleteFunc that suggests the
// suggestion ids of the analysis file named by the first argument.
//
// When the user's last typed argument starts with "-", it falls back to the
// default flag completion behavior.
func SuggestionIDCompleter(app *redline.App, src *sourceFlags) cli.ShellCompleteFunc {
	return func(ctx context.Context, cmd *cli.Command) {
		args := cmd.Args()
		if args.Present() {
			last := args.Slice()[args.Len()-1]
			if len(last) > 0 && last[0] == '-' {
				cli.DefaultCompleteWithFlags(ctx, cmd)
				return
			}
		}

		if args.Len() != 1 || app.Reviews == nil {
			return
		}

		analysis, _, err := app.Reviews.Analyze(src.source(args.First()))
		if err != nil {
			return
		}

		w := cmd.Root().Writer
		for _, s := range analysis.Suggestions {
			_, _ = fmt.Fprintln(w, s.ID)
		}
	}
}
