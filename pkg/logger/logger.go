// Package logger configures the process-wide slog logger for rightkit binaries.
package logger

import (
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
)

// EnvVarLogLevel overrides the configured log level when set.
const EnvVarLogLevel = "LOG_LEVEL"

// NewStructuredLogger returns a JSON logger on stderr tagged with module and
// version. Source locations are recorded at debug level only.
func NewStructuredLogger(module, version, level string) *slog.Logger {
	return NewStructuredLoggerTo(os.Stderr, module, version, level)
}

// NewStructuredLoggerTo is NewStructuredLogger writing to w.
func NewStructuredLoggerTo(w io.Writer, module, version, level string) *slog.Logger {
	lev := ParseLogLevel(level)
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     lev,
		AddSource: lev <= slog.LevelDebug,
	})
	return slog.New(h).With(
		slog.String("module", module),
		slog.String("version", version),
	)
}

// NewLogLogger adapts slog for APIs that only take a *log.Logger, such as
// http.Server.ErrorLog. Records are written as text to stderr at level.
func NewLogLogger(level slog.Level, withSource bool) *log.Logger {
	return slog.NewLogLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:     level,
		AddSource: withSource,
	}), level)
}

// SetDefaultLogger installs the structured logger as the slog default.
// A non-empty LOG_LEVEL takes precedence over level.
func SetDefaultLogger(module, version, level string) {
	if env, ok := os.LookupEnv(EnvVarLogLevel); ok && env != "" {
		level = env
	}
	slog.SetDefault(NewStructuredLogger(module, version, level))
}

// ParseLogLevel maps debug, info, warn (or warning) and error to their slog
// levels. Anything else is info.
func ParseLogLevel(level string) slog.Level {
	s := strings.ToLower(strings.TrimSpace(level))
	if s == "warning" {
		s = "warn"
	}
	var lev slog.Level
	if err := lev.UnmarshalText([]byte(s)); err != nil || s == "" {
		return slog.LevelInfo
	}
	return lev
}
