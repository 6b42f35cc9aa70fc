package root

import (
	"github.com/moorts/bird/internal/commands/batch"
	"github.com/moorts/bird/internal/commands/eval"
	"github.com/moorts/bird/internal/commands/tokens"
	"github.com/moorts/bird/internal/commands/tree"
	cli "github.com/urfave/cli/v2"
)

func NewCommand() *cli.App {
	return &cli.App{
		Name:  "bird",
		Usage: "Parses and evaluates integer arithmetic expressions.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (trace, debug, info, warn, error). Overrides BIRD_LOG_LEVEL.",
			},
			&cli.BoolFlag{
				Name:  "otel",
				Usage: "Export traces over OTLP. Also enabled by BIRD_OTEL_ENABLED.",
			},
		},
		Commands: []*cli.Command{
			eval.NewCommand(),
			tree.NewCommand(),
			tokens.NewCommand(),
			batch.NewCommand(),
		},
		// without a command, print the tree of the demo expression
		Action: tree.Run,
	}
}
