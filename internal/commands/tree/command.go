package tree

import (
	"encoding/json"
	"fmt"

	"github.com/kr/pretty"
	"github.com/moorts/bird/internal/arith/ast"
	"github.com/moorts/bird/internal/commandinit"
	"github.com/moorts/bird/internal/config"
	"github.com/moorts/bird/internal/defaults"
	cli "github.com/urfave/cli/v2"
)

func NewCommand() *cli.Command {
	return &cli.Command{
		Name:      "tree",
		Usage:     "Prints the expression tree built from an expression.",
		ArgsUsage: "[expression]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "expr",
				Usage: "Expression to parse. Positional arguments take precedence.",
				Value: defaults.Expression,
			},
			&cli.BoolFlag{
				Name:  "pow",
				Usage: "Enable the '^' power operator.",
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "Output format: text, debug or json.",
				Value: string(config.FormatText),
			},
		},
		Action: Run,
	}
}

// Run is also the default action of the root command.
func Run(cliCtx *cli.Context) error {
	ctx, rt, err := commandinit.Init(cliCtx, "tree")
	if err != nil {
		return err
	}
	defer rt.Shutdown(ctx)

	result, err := rt.Calculator.Parse(ctx, rt.Config.Expression)
	if err != nil {
		commandinit.LogError(rt.Logger, err, "parse expression")
		return commandinit.ErrCommandFailed
	}

	w := cliCtx.App.Writer

	switch rt.Config.Format {
	case config.FormatJSON:
		data, err := json.MarshalIndent(result.Tree, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal tree: %w", err)
		}

		fmt.Fprintln(w, string(data))

	case config.FormatDebug:
		fmt.Fprintln(w, pretty.Sprint(result.Tree))

	default:
		fmt.Fprintln(w, ast.String(result.Tree))
	}

	return nil
}
