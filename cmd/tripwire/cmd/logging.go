package cmd

import (
	"io"
	"log/slog"
	"time"

	"github.com/casualjim/tripwire/internal/config"
	"github.com/lmittmann/tint"
	"github.com/phsym/zeroslog"
	"github.com/rs/zerolog"
)

// newLogger builds the slog logger for the configured format and installs it
// as the default.
func newLogger(cfg config.LoggingConfig, w io.Writer) *slog.Logger {
	level := cfg.SlogLevel()

	var handler slog.Handler
	switch cfg.Format {
	case "tint":
		handler = tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	case "json":
		zl := zerolog.New(w).With().Timestamp().Logger()
		handler = zeroslog.NewHandler(zl, &zeroslog.HandlerOptions{Level: level})
	default:
		output := zerolog.ConsoleWriter{Out: w, TimeFormat: time.Stamp}
		zl := zerolog.New(output).With().Timestamp().Logger()
		handler = zeroslog.NewHandler(zl, &zeroslog.HandlerOptions{Level: level})
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
