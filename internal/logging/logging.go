// Package logging builds the phuslu loggers shared by the korpus binaries.
package logging

import (
	"io"
	"strings"

	"github.com/phuslu/log"
)

// New returns a console logger writing to w at the named level
// (debug, info, warn, error). Unknown names select info.
func New(level string, w io.Writer) *log.Logger {
	return &log.Logger{
		Level: parseLevel(level),
		Writer: &log.ConsoleWriter{
			Writer:         w,
			EndWithMessage: true,
		},
	}
}

// Discard returns a logger that drops every event.
func Discard() *log.Logger {
	return &log.Logger{
		Level:  log.FatalLevel,
		Writer: log.IOWriter{Writer: io.Discard},
	}
}

func parseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	}
	return log.InfoLevel
}
