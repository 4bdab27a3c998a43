package logging

import (
	"io"
	"time"

	"github.com/rs/zerolog"

	"kvcache/internal/config"
)

// NewLogger creates the application logger writing to out. The text format renders
// human readable lines, everything else is JSON.
func NewLogger(conf config.LogConfig, out io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(conf.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	if conf.Format == config.LogTextFormat {
		return zerolog.New(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
			w.Out = out
			w.TimeFormat = time.RFC3339
		})).Level(level).With().Timestamp().Logger()
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
