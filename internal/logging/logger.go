// Package logging owns the process-wide log sink and the Sink capability
// handed to command handlers.
package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/diode"
	"github.com/rs/zerolog/log"
)

// Target names accepted in the [log] targets list.
const (
	TargetStdout  = "stdout"
	TargetLogDir  = "logdir"
	TargetWebview = "webview"
)

// Options configures the root logger.
type Options struct {
	Level Level
	// Stdout enables the human readable console writer.
	Stdout bool
	// Dir enables the JSON lines file target when non-empty.
	Dir      string
	FileName string
	// Out overrides os.Stdout for the console writer (tests).
	Out io.Writer
}

// New builds the root logger and makes it the global zerolog logger.
// The returned func flushes the diode buffer and closes the log file.
func New(opts Options) (zerolog.Logger, func(), error) {
	zerolog.SetGlobalLevel(opts.Level.Zerolog())

	var (
		writers []io.Writer
		closers []func()
	)

	if opts.Stdout {
		out := opts.Out
		if out == nil {
			out = os.Stdout
		}
		// Non-blocking so a slow terminal never stalls a bound method. The
		// wrapper hides Close so flushing never closes os.Stdout.
		wr := diode.NewWriter(struct{ io.Writer }{out}, 1000, 10*time.Millisecond, func(missed int) {
			fmt.Fprintf(os.Stderr, "logger dropped %d messages\n", missed)
		})
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        wr,
			TimeFormat: time.DateTime,
			NoColor:    opts.Out != nil,
		})
		closers = append(closers, func() { wr.Close() })
	}

	if opts.Dir != "" {
		name := opts.FileName
		if name == "" {
			name = "app.log"
		}
		if err := os.MkdirAll(opts.Dir, 0o700); err != nil {
			return zerolog.Nop(), func() {}, fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(filepath.Join(opts.Dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return zerolog.Nop(), func() {}, fmt.Errorf("open log file: %w", err)
		}
		writers = append(writers, f)
		closers = append(closers, func() { f.Close() })
	}

	var logger zerolog.Logger
	if len(writers) == 0 {
		logger = zerolog.Nop()
	} else {
		logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp().Logger()
	}
	log.Logger = logger
	zerolog.DefaultContextLogger = &log.Logger

	return logger, func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}, nil
}

// WithLogger stores logger in ctx.
func WithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return logger.WithContext(ctx)
}

// FromCtx returns the logger stored in ctx, or the global logger.
func FromCtx(ctx context.Context) *zerolog.Logger {
	return log.Ctx(ctx)
}
