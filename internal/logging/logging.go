// Package logging builds the process slog logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"go.uber.org/multierr"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Params selects where and how logs are written.
type Params struct {
	Level      string
	Format     string // "text" or "json"
	File       string
	ToStdout   bool
	MaxSizeMB  int
	MaxBackups int
	// Console replaces stdout as the console destination when set.
	Console io.Writer
}

// Setup returns a logger for params and a function that closes any log
// file it opened. With no file configured, logs go to stdout.
func Setup(params Params) (*slog.Logger, func() error) {
	console := params.Console
	if console == nil {
		console = os.Stdout
	}
	return setup(params, console)
}

func setup(params Params, stdout io.Writer) (*slog.Logger, func() error) {
	out, closeFn := output(params, stdout)
	opts := &slog.HandlerOptions{Level: ParseLevel(params.Level)}

	var h slog.Handler
	if strings.EqualFold(params.Format, "json") {
		h = slog.NewJSONHandler(out, opts)
	} else {
		h = slog.NewTextHandler(out, opts)
	}
	return slog.New(h), closeFn
}

func output(params Params, stdout io.Writer) (io.Writer, func() error) {
	noop := func() error { return nil }
	if params.File == "" {
		return stdout, noop
	}

	file := &lumberjack.Logger{
		Filename:   params.File,
		MaxSize:    params.MaxSizeMB,
		MaxBackups: params.MaxBackups,
		Compress:   true,
	}
	if params.ToStdout {
		return NewCombinedWriter(stdout, file), file.Close
	}
	return file, file.Close
}

// ParseLevel maps debug, info, warn and error to slog levels. Anything
// else is info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

// CombinedWriter copies every write to all of its writers.
type CombinedWriter struct {
	Writers []io.Writer
}

func NewCombinedWriter(writers ...io.Writer) *CombinedWriter {
	return &CombinedWriter{Writers: writers}
}

// Write writes p to every writer, even after one fails, and returns the
// failures merged into one error.
func (cw *CombinedWriter) Write(p []byte) (int, error) {
	var err error
	for _, w := range cw.Writers {
		if _, werr := w.Write(p); werr != nil {
			err = multierr.Append(err, werr)
		}
	}
	if err != nil {
		return 0, err
	}
	return len(p), nil
}
