// Package logging configures the global zerolog logger and carries request
// scoped loggers through a context.
//
//	logging.Init(logging.Config{Level: "debug", Format: "console"})
//	log.Info().Msg("Server starting")
//
//	ctx = logging.WithDeliveryID(ctx, id)
//	logging.Ctx(ctx).Warn().Err(err).Msg("passenger reconcile failed")
package logging

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds logging configuration.
type Config struct {
	// Level is the minimum log level: trace, debug, info, warn, error, fatal, panic, disabled.
	Level string
	// Format is json or console.
	Format string
	// Caller adds file:line to every entry.
	Caller bool
	// Output defaults to os.Stderr.
	Output io.Writer
}

// Init replaces the global zerolog logger. Safe to call more than once.
func Init(cfg Config) {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}

	zerolog.SetGlobalLevel(ParseLevel(cfg.Level))
	zerolog.TimeFieldFormat = time.RFC3339

	output := cfg.Output
	if strings.EqualFold(cfg.Format, "console") {
		output = zerolog.ConsoleWriter{Out: cfg.Output, TimeFormat: "15:04:05"}
	}

	logger := zerolog.New(output).With().Timestamp().Logger()
	if cfg.Caller {
		logger = logger.With().Caller().Logger()
	}
	log.Logger = logger
	zerolog.DefaultContextLogger = &log.Logger
}

// ParseLevel converts a level name to a zerolog.Level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "panic":
		return zerolog.PanicLevel
	case "disabled":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// NewID returns a fresh id for a delivery or request.
func NewID() string {
	return uuid.New().String()
}

// WithField returns a context whose logger carries key=value.
func WithField(ctx context.Context, key, value string) context.Context {
	logger := Ctx(ctx).With().Str(key, value).Logger()
	return logger.WithContext(ctx)
}

// WithDeliveryID tags every log line written through Ctx(ctx) with the webhook delivery id.
func WithDeliveryID(ctx context.Context, id string) context.Context {
	return WithField(ctx, "delivery_id", id)
}

// Ctx returns the logger stored in ctx, or the global logger.
func Ctx(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l != nil && l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &log.Logger
}
