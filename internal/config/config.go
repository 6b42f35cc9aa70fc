package config

import (
	"fmt"
	"runtime"
	"slices"
	"strconv"
	"strings"

	"github.com/moorts/bird/internal/defaults"
	"github.com/rs/zerolog"
)

type Format string

const (
	FormatText  Format = "text"
	FormatDebug Format = "debug"
	FormatJSON  Format = "json"
)

const defaultLogLevel = "warn"

type Flagger interface {
	String(name string) string
	Int(name string) int
	Bool(name string) bool
}

type Config struct {
	Expression  string
	Format      Format
	InputPath   string
	LogLevel    string
	OtelEnabled bool
	Power       bool
	Workers     int
}

// Read builds the config from command flags, positional args and env vars.
// Flags win over env vars; positional args win over --expr.
func Read(flags Flagger, args []string, getEnv func(string) string) (*Config, error) {
	// log level
	logLevel := flags.String("log-level")
	if logLevel == "" {
		logLevel = getEnv("BIRD_LOG_LEVEL")
	}
	if logLevel == "" {
		logLevel = defaultLogLevel
	}

	if _, err := zerolog.ParseLevel(logLevel); err != nil {
		return nil, fmt.Errorf("invalid log level %q", logLevel)
	}

	// tracing
	otelEnabled := flags.Bool("otel")
	if !otelEnabled {
		if raw := getEnv("BIRD_OTEL_ENABLED"); raw != "" {
			enabled, err := strconv.ParseBool(raw)
			if err != nil {
				return nil, fmt.Errorf("env var BIRD_OTEL_ENABLED must be a boolean: %w", err)
			}

			otelEnabled = enabled
		}
	}

	// expression
	// given positional args are used even when blank so that an empty
	// expression can be evaluated
	var expression string
	if len(args) > 0 {
		expression = strings.Join(args, " ")
	} else {
		expression = flags.String("expr")
		if expression == "" {
			expression = defaults.Expression
		}
	}

	// output
	format := Format(flags.String("format"))
	if format == "" {
		format = FormatText
	}

	if !slices.Contains([]Format{FormatText, FormatDebug, FormatJSON}, format) {
		return nil, fmt.Errorf("flag --format must be one of text, debug, json")
	}

	// batch
	workers := flags.Int("workers")
	if workers < 0 {
		return nil, fmt.Errorf("flag --workers may not be negative")
	}
	if workers == 0 {
		workers = runtime.NumCPU()
	}

	inputPath := flags.String("input")
	if inputPath == "" {
		inputPath = "-"
	}

	cfg := Config{
		Expression:  expression,
		Format:      format,
		InputPath:   inputPath,
		LogLevel:    logLevel,
		OtelEnabled: otelEnabled,
		Power:       flags.Bool("pow"),
		Workers:     workers,
	}

	return &cfg, nil
}

func Print(logger zerolog.Logger, cfg *Config) {
	logger.Debug().
		Str("expression", cfg.Expression).
		Str("format", string(cfg.Format)).
		Str("input", cfg.InputPath).
		Str("log_level", cfg.LogLevel).
		Bool("otel", cfg.OtelEnabled).
		Bool("pow", cfg.Power).
		Int("workers", cfg.Workers).
		Msg("running with config")
}
