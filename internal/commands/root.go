package commands

import (
	"github.com/urfave/cli/v3"

	"github.com/colonyops/redline/internal/redline"
)

// NewRootCmd builds the redline command tree. Global flags write into flags;
// subcommands read app, which the caller populates in a Before hook.
func NewRootCmd(flags *Flags, app *redline.App, version string) *cli.Command {
	root := &cli.Command{
		Name:      "redline",
		Usage:     "Review contract analyses and apply suggested rewrites",
		UsageText: "redline [global options] command [command options]",
		Description: `Redline shows the risks an analyzer found in a contract, lets you accept or
reject each suggested rewrite, and keeps every highlight aligned with the
edited text.

Run 'redline review <analysis.json>' to open the interactive reviewer.
Run 'redline render <analysis.json>' to print the highlighted document.`,
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("REDLINE_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file",
				Sources:     cli.EnvVars("REDLINE_LOG_FILE"),
				Value:       DefaultLogFile(),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("REDLINE_CONFIG"),
				Value:       DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("REDLINE_DATA_DIR"),
				Value:       DefaultDataDir(),
				Destination: &flags.DataDir,
			},
		},
	}

	root = NewRenderCmd(flags, app).Register(root)
	root = NewProjectCmd(flags, app).Register(root)
	root = NewDecideCmd(flags, app).Register(root)
	root = NewDiscardCmd(flags, app).Register(root)
	root = NewDiffCmd(flags, app).Register(root)
	root = NewExplainCmd(flags, app).Register(root)
	root = NewReviewCmd(flags, app).Register(root)
	root = NewInitCmd(flags).Register(root)
	root = NewConfigValidateCmd(flags).Register(root)

	return root
}
