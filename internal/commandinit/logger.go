package commandinit

import (
	"fmt"
	"io"

	"github.com/moorts/bird/internal/log/semconv"
	"github.com/rs/zerolog"
)

// NewLogger builds the console logger used by every command.
func NewLogger(w io.Writer, level string, command string) (zerolog.Logger, error) {
	logLevel, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("parse log level: %w", err)
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: w}).
		Level(logLevel).
		With().
		Timestamp().
		Str(semconv.Command, command).
		Logger()

	return logger, nil
}
