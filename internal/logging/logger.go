// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"io"
	"os"
	"strings"

	"github.com/pterm/pterm"
)

// VerboseEnv enables debug logging regardless of the configured level.
const VerboseEnv = "ADTBRIDGE_VERBOSE"

// Verbose reports whether debug output was requested through the environment.
func Verbose() bool { return os.Getenv(VerboseEnv) == "1" }

// ParseLevel maps a config level name to a pterm log level. Unknown names yield info.
func ParseLevel(name string) pterm.LogLevel {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "trace":
		return pterm.LogLevelTrace
	case "debug":
		return pterm.LogLevelDebug
	case "warn", "warning":
		return pterm.LogLevelWarn
	case "error":
		return pterm.LogLevelError
	case "off", "disabled", "none":
		return pterm.LogLevelDisabled
	default:
		return pterm.LogLevelInfo
	}
}

// New builds the structured logger used by every component. Output goes to stderr so
// query results on stdout stay machine-readable.
func New(level string, json bool) *pterm.Logger {
	return NewWithWriter(os.Stderr, level, json)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(w io.Writer, level string, json bool) *pterm.Logger {
	lvl := ParseLevel(level)
	if Verbose() {
		lvl = pterm.LogLevelDebug
	}
	l := pterm.DefaultLogger.WithWriter(w).WithLevel(lvl)
	if json {
		l = l.WithFormatter(pterm.LogFormatterJSON)
	}
	return l
}

// Nop returns a logger that writes nowhere.
func Nop() *pterm.Logger {
	return pterm.DefaultLogger.WithWriter(io.Discard).WithLevel(pterm.LogLevelDisabled)
}

// OrNop returns l, or a discarding logger when l is nil.
func OrNop(l *pterm.Logger) *pterm.Logger {
	if l == nil {
		return Nop()
	}
	return l
}
