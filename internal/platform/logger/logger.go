package logger

import (
	"log/slog"
	"os"
)

// New returns the process logger. Text output on stdout keeps local runs
// readable; services receive it via constructor options.
func New() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
