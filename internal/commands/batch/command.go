package batch

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/moorts/bird/internal/arith/calculator"
	"github.com/moorts/bird/internal/commandinit"
	"github.com/moorts/bird/internal/config"
	cli "github.com/urfave/cli/v2"
)

func NewCommand() *cli.Command {
	return &cli.Command{
		Name:  "batch",
		Usage: "Evaluates one expression per line of the input.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "input",
				Usage: "File with expressions, '-' reads stdin.",
				Value: "-",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Number of expressions evaluated concurrently. Defaults to the number of CPUs.",
			},
			&cli.BoolFlag{
				Name:  "pow",
				Usage: "Enable the '^' power operator.",
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "Output format: text or json.",
				Value: string(config.FormatText),
			},
		},
		Action: run,
	}
}

type output struct {
	Expression string `json:"expression"`
	Value      *int64 `json:"value,omitempty"`
	Error      string `json:"error,omitempty"`
}

func run(cliCtx *cli.Context) error {
	ctx, rt, err := commandinit.Init(cliCtx, "batch")
	if err != nil {
		return err
	}
	defer rt.Shutdown(ctx)

	logger := rt.Logger

	input := cliCtx.App.Reader
	if rt.Config.InputPath != "-" {
		file, err := os.Open(rt.Config.InputPath)
		if err != nil {
			logger.Error().Err(err).Str("input", rt.Config.InputPath).Msg("open input file")
			return commandinit.ErrCommandFailed
		}
		defer file.Close()

		input = file
	}

	exprs, err := ReadExpressions(input)
	if err != nil {
		logger.Error().Err(err).Msg("read expressions")
		return commandinit.ErrCommandFailed
	}

	outcomes, err := rt.Calculator.EvaluateAll(ctx, exprs, rt.Config.Workers)
	if err != nil {
		logger.Error().Err(err).Msg("evaluate expressions")
		return commandinit.ErrCommandFailed
	}

	if err := write(cliCtx.App.Writer, rt.Config.Format, outcomes); err != nil {
		return err
	}

	failed := 0
	for _, outcome := range outcomes {
		if outcome.Err != nil {
			commandinit.LogError(logger, outcome.Err, "evaluate "+outcome.Expression)
			failed++
		}
	}

	if failed > 0 {
		logger.Warn().Int("failed", failed).Int("total", len(outcomes)).Msg("some expressions failed")
		return commandinit.ErrCommandFailed
	}

	return nil
}

// ReadExpressions returns the non-empty lines of r, skipping lines starting
// with '#'.
func ReadExpressions(r io.Reader) ([]string, error) {
	exprs := make([]string, 0)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		exprs = append(exprs, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan input: %w", err)
	}

	return exprs, nil
}

func write(w io.Writer, format config.Format, outcomes []calculator.Outcome) error {
	if format == config.FormatJSON {
		outputs := make([]output, 0, len(outcomes))
		for _, outcome := range outcomes {
			item := output{Expression: outcome.Expression}

			if outcome.Err != nil {
				item.Error = outcome.Err.Error()
			} else {
				item.Value = &outcome.Result.Value
			}

			outputs = append(outputs, item)
		}

		data, err := json.MarshalIndent(outputs, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal outcomes: %w", err)
		}

		fmt.Fprintln(w, string(data))

		return nil
	}

	for _, outcome := range outcomes {
		if outcome.Err != nil {
			fmt.Fprintf(w, "%s: %v\n", outcome.Expression, outcome.Err)
			continue
		}

		fmt.Fprintf(w, "%s = %d\n", outcome.Expression, outcome.Result.Value)
	}

	return nil
}
