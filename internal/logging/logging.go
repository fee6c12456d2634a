// Package logging builds the zerolog loggers used by the CLI and scenario
// runner.
package logging

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type Options struct {
	Out io.Writer
	// File, when set, receives an uncoloured copy of every entry.
	File   io.Writer
	Level  string
	Pretty bool
}

func ParseLevel(name string) zerolog.Level {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "TRACE":
		return zerolog.TraceLevel
	case "DEBUG":
		return zerolog.DebugLevel
	case "INFO":
		return zerolog.InfoLevel
	case "WARN", "WARNING":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	case "DISABLED", "OFF":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

func New(opts Options) zerolog.Logger {
	var out io.Writer = opts.Out
	if out == nil {
		out = io.Discard
	}
	if opts.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	if opts.File != nil {
		var file io.Writer = opts.File
		if opts.Pretty {
			file = zerolog.ConsoleWriter{Out: opts.File, TimeFormat: time.RFC3339, NoColor: true}
		}
		out = zerolog.MultiLevelWriter(out, file)
	}

	return zerolog.New(out).Level(ParseLevel(opts.Level)).With().Timestamp().Logger()
}

// Nop discards everything.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
