package commandinit

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/moorts/bird/internal/arith/calculator"
	"github.com/moorts/bird/internal/arith/exprerr"
	"github.com/moorts/bird/internal/config"
	"github.com/moorts/bird/internal/log/semconv"
	"github.com/rs/zerolog"
	cli "github.com/urfave/cli/v2"
)

const serviceName = "bird"

var ErrCommandFailed = errors.New("command failed")

// Runtime is what every command needs after flags are parsed.
type Runtime struct {
	Config     *config.Config
	Logger     zerolog.Logger
	Calculator *calculator.Calculator
	shutdown   ShutdownFunc
}

// Init reads the config, builds the logger and tracer provider and returns a
// context carrying the logger.
func Init(cliCtx *cli.Context, command string) (context.Context, *Runtime, error) {
	ctx := cliCtx.Context

	cfg, err := config.Read(cliCtx, cliCtx.Args().Slice(), os.Getenv)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}

	logger, err := NewLogger(cliCtx.App.ErrWriter, cfg.LogLevel, command)
	if err != nil {
		return nil, nil, fmt.Errorf("create logger: %w", err)
	}

	config.Print(logger, cfg)

	tracerProvider, tpShutdown, err := NewOpenTelemetry(ctx, serviceName, cfg.OtelEnabled)
	if err != nil {
		return nil, nil, fmt.Errorf("create OTEL provider: %w", err)
	}

	options := []func(*calculator.Calculator){
		calculator.WithTracerProvider(tracerProvider),
	}

	if cfg.Power {
		options = append(options, calculator.WithPowerOperator())
	}

	runtime := Runtime{
		Config:     cfg,
		Logger:     logger,
		Calculator: calculator.New(options...),
		shutdown:   tpShutdown,
	}

	return logger.WithContext(ctx), &runtime, nil
}

func (r *Runtime) Shutdown(ctx context.Context) {
	if err := r.shutdown(ctx); err != nil {
		r.Logger.Warn().Err(err).Msg("shutdown OTEL provider")
	}
}

// LogError logs err with its class and position when it is an expression
// error.
func LogError(logger zerolog.Logger, err error, msg string) {
	event := logger.Error().Err(err)

	var exprErr *exprerr.Error
	if errors.As(err, &exprErr) {
		event = event.Str(semconv.ErrorKind, string(exprErr.Kind))

		if exprErr.Offset >= 0 {
			event = event.Int(semconv.ErrorOffset, exprErr.Offset)
		}
	}

	event.Msg(msg)
}
