// Package logger builds the structured loggers used across cortexdash.
package logger

import (
	"io"
	"os"

	"github.com/phuslu/log"
)

// NewConsole logs to stderr. Used by one-shot commands.
func NewConsole(level string) *log.Logger {
	return &log.Logger{
		Level:      log.ParseLevel(level),
		TimeFormat: "15:04:05",
		Writer: &log.ConsoleWriter{
			ColorOutput:    log.IsTerminal(os.Stderr.Fd()),
			EndWithMessage: true,
			Writer:         os.Stderr,
		},
	}
}

// NewFile logs to path. The dashboard owns the terminal, so it logs here.
func NewFile(level, path string) *log.Logger {
	return &log.Logger{
		Level: log.ParseLevel(level),
		Writer: &log.FileWriter{
			Filename:     path,
			EnsureFolder: true,
			MaxBackups:   3,
			MaxSize:      10 * 1024 * 1024,
		},
	}
}

// New logs JSON lines to w.
func New(level string, w io.Writer) *log.Logger {
	return &log.Logger{
		Level:  log.ParseLevel(level),
		Writer: &log.IOWriter{Writer: w},
	}
}

// Nop discards everything.
func Nop() *log.Logger {
	return New("error", io.Discard)
}
