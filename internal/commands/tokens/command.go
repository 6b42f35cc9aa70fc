package tokens

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/kr/pretty"
	"github.com/moorts/bird/internal/arith/lexer"
	"github.com/moorts/bird/internal/commandinit"
	"github.com/moorts/bird/internal/config"
	"github.com/moorts/bird/internal/defaults"
	cli "github.com/urfave/cli/v2"
)

func NewCommand() *cli.Command {
	return &cli.Command{
		Name:      "tokens",
		Usage:     "Prints the tokens of an expression.",
		ArgsUsage: "[expression]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "expr",
				Usage: "Expression to tokenize. Positional arguments take precedence.",
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

func run(cliCtx *cli.Context) error {
	ctx, rt, err := commandinit.Init(cliCtx, "tokens")
	if err != nil {
		return err
	}
	defer rt.Shutdown(ctx)

	result, err := rt.Calculator.Tokenize(ctx, rt.Config.Expression)
	if err != nil {
		commandinit.LogError(rt.Logger, err, "tokenize expression")
		return commandinit.ErrCommandFailed
	}

	w := cliCtx.App.Writer

	switch rt.Config.Format {
	case config.FormatJSON:
		data, err := json.MarshalIndent(result.Tokens, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal tokens: %w", err)
		}

		fmt.Fprintln(w, string(data))

	case config.FormatDebug:
		fmt.Fprintln(w, pretty.Sprint(result.Tokens))

	default:
		printTokens(w, result.Tokens)
	}

	return nil
}

func printTokens(w io.Writer, tokens []*lexer.Token) {
	for _, token := range tokens {
		fmt.Fprintf(w, "%-11s %-3s [%d,%d)\n", token.Type, token.RawValue, token.Position.Start, token.Position.End)
	}
}
