// Package logger builds the process-wide zerolog logger.
//
// Call Init once at startup; Get returns the same instance afterwards.
package logger

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Options controls how the logger is built.
type Options struct {
	// Level is the minimum level to emit (trace, debug, info, warn,
	// error). Unrecognised values fall back to info.
	Level string
	// Pretty switches to the coloured console writer for local
	// development. Production deployments log JSON.
	Pretty bool
	// Output defaults to os.Stdout.
	Output io.Writer
}

var (
	once     sync.Once
	instance zerolog.Logger
)

// Init builds the singleton logger. Subsequent calls return the logger
// built by the first one.
func Init(opts Options) zerolog.Logger {
	once.Do(func() {
		zerolog.TimeFieldFormat = time.RFC3339Nano

		out := opts.Output
		if out == nil {
			out = os.Stdout
		}
		if opts.Pretty {
			out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
		}

		lvl, err := zerolog.ParseLevel(opts.Level)
		if err != nil || lvl == zerolog.NoLevel {
			lvl = zerolog.InfoLevel
		}
		zerolog.SetGlobalLevel(lvl)

		instance = zerolog.New(out).
			Level(lvl).
			With().
			Timestamp().
			Caller().
			Logger()
	})
	return instance
}

// Get returns the logger built by Init, or a disabled logger when Init
// has not run. Handlers receive their logger by injection; Get exists
// for code with no access to the wired instance.
func Get() zerolog.Logger {
	return instance
}
