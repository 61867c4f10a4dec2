// Package logging builds the slog logger of the timelane demo application.
package logging

import (
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/AntonStoeckl/timelane-go/internal/config"
)

var ErrUnknownLevel = errors.New("unknown log level")

// New creates a logger writing to w in the configured format at the configured level.
func New(w io.Writer, cfg config.LogConfig) (*slog.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	options := &slog.HandlerOptions{Level: level}

	if cfg.Format == config.FormatJSON {
		return slog.New(slog.NewJSONHandler(w, options)), nil
	}

	return slog.New(slog.NewTextHandler(w, options)), nil
}

// ParseLevel maps debug, info, warn and error to slog levels, case-insensitively.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, errors.Join(ErrUnknownLevel, errors.New(level))
	}
}
