package logging

import (
	"log/slog"
	"os"
	"strings"

	"github.com/google/wire"

	"github.com/nellarium/tokenfarm/internal/domain/config"
)

var LoggingSet = wire.NewSet(
	NewLogger,
)

// NewLogger creates a new logger based on runtime configuration
func NewLogger(cfg *config.RuntimeConfig) *slog.Logger {
	level := ParseLevel(os.Getenv("TOKENFARM_LOG_LEVEL"))

	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			if a.Key == slog.SourceKey {
				if source, ok := a.Value.Any().(*slog.Source); ok {
					source.File = shortPath(source.File)
				}
			}
			return a
		},
	}

	if cfg != nil && cfg.Debug {
		opts.Level = slog.LevelDebug
		opts.AddSource = true
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
	if cfg != nil && cfg.Network != nil {
		logger = logger.With(slog.String("network", cfg.Network.Name))
	}
	return logger
}

// ParseLevel maps a level name to a slog level, defaulting to info
func ParseLevel(val string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// shortPath trims a source path to the part below internal/
func shortPath(file string) string {
	if idx := strings.Index(file, "internal/"); idx != -1 {
		return file[idx:]
	}
	if idx := strings.LastIndex(file, "/"); idx != -1 {
		return file[idx+1:]
	}
	return file
}
