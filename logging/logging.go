// Package logging configures the zerolog logger shared by the commands.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Setup sets the global level from level (debug, info, warn, error; default
// info) and returns a logger writing to stderr, human-readable when pretty.
func Setup(level string, pretty bool) zerolog.Logger {
	return New(os.Stderr, level, pretty)
}

// New is Setup with an explicit writer.
func New(w io.Writer, level string, pretty bool) zerolog.Logger {
	zerolog.SetGlobalLevel(ParseLevel(level))
	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}
	return zerolog.New(w).With().Timestamp().Str("app", "reinforcebot").Logger()
}

// ParseLevel maps a level name to a zerolog level.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
