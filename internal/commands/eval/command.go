package eval

import (
	"encoding/json"
	"fmt"

	"github.com/kr/pretty"
	"github.com/moorts/bird/internal/commandinit"
	"github.com/moorts/bird/internal/config"
	"github.com/moorts/bird/internal/defaults"
	cli "github.com/urfave/cli/v2"
)

func NewCommand() *cli.Command {
	return &cli.Command{
		Name:      "eval",
		Usage:     "Evaluates an arithmetic expression.",
		ArgsUsage: "[expression]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "expr",
				Usage: "Expression to evaluate. Positional arguments take precedence.",
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
		Action: run,
	}
}

type output struct {
	Expression string `json:"expression"`
	Value      int64  `json:"value"`
}

func run(cliCtx *cli.Context) error {
	ctx, rt, err := commandinit.Init(cliCtx, "eval")
	if err != nil {
		return err
	}
	defer rt.Shutdown(ctx)

	result, err := rt.Calculator.Evaluate(ctx, rt.Config.Expression)
	if err != nil {
		commandinit.LogError(rt.Logger, err, "evaluate expression")
		return commandinit.ErrCommandFailed
	}

	w := cliCtx.App.Writer

	switch rt.Config.Format {
	case config.FormatJSON:
		data, err := json.Marshal(output{Expression: result.Expression, Value: result.Value})
		if err != nil {
			return fmt.Errorf("marshal result: %w", err)
		}

		fmt.Fprintln(w, string(data))

	case config.FormatDebug:
		fmt.Fprintln(w, pretty.Sprint(result))

	default:
		fmt.Fprintln(w, result.Value)
	}

	return nil
}
