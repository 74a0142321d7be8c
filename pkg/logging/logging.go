// Package logging builds the zerolog logger shared by the server and CLI.
// Logs always go to a writer other than stdout because stdout carries the
// stdio MCP transport.
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
)

// DefaultLevel is used when no level is configured.
const DefaultLevel = "info"

// Output formats.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// ParseLevel maps a level name to a zerolog level. Empty means DefaultLevel.
func ParseLevel(level string) (zerolog.Level, error) {
	if level == "" {
		level = DefaultLevel
	}

	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("logging: unknown level %q", level)
	}

	return lvl, nil
}

// New returns a timestamped JSON logger writing to w at level.
func New(level string, w io.Writer) (zerolog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), err
	}

	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}

// Console is like New but renders human-readable lines.
func Console(level string, w io.Writer) (zerolog.Logger, error) {
	return New(level, zerolog.ConsoleWriter{Out: w, NoColor: true})
}

// ValidateFormat reports an error for anything but FormatJSON, FormatConsole,
// or empty (JSON).
func ValidateFormat(format string) error {
	switch format {
	case "", FormatJSON, FormatConsole:
		return nil
	default:
		return fmt.Errorf("logging: unknown format %q", format)
	}
}

// Open builds the logger for format: Console for FormatConsole, New otherwise.
func Open(format, level string, w io.Writer) (zerolog.Logger, error) {
	if err := ValidateFormat(format); err != nil {
		return zerolog.Nop(), err
	}

	if format == FormatConsole {
		return Console(level, w)
	}

	return New(level, w)
}
