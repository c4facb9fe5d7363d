package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Setup builds the service logger.
//   - level: trace, debug, info, warn, error (info when unparsable)
//   - format: "pretty" for console output, anything else for JSON
func Setup(level, format string) zerolog.Logger {
	return New(os.Stderr, level, format)
}

// New is Setup with an explicit writer.
func New(out io.Writer, level, format string) zerolog.Logger {
	writer := out
	if format == "pretty" {
		writer = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	return zerolog.New(writer).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}
