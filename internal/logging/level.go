package logging

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// Level is the severity of a log event. The numeric values match the ones
// the frontend log bindings send over the bridge.
type Level int

const (
	Trace Level = iota + 1
	Debug
	Info
	Warn
	Error
)

func (l Level) String() string {
	switch l {
	case Trace:
		return "trace"
	case Debug:
		return "debug"
	case Info:
		return "info"
	case Warn:
		return "warn"
	case Error:
		return "error"
	default:
		return "level(" + strconv.Itoa(int(l)) + ")"
	}
}

// Valid reports whether l is one of the known levels.
func (l Level) Valid() bool {
	return l >= Trace && l <= Error
}

// ParseLevel accepts either a level name ("info", "WARNING") or its number ("3").
func ParseLevel(s string) (Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "trace":
		return Trace, nil
	case "debug":
		return Debug, nil
	case "info", "":
		return Info, nil
	case "warn", "warning":
		return Warn, nil
	case "error":
		return Error, nil
	}
	if n, err := strconv.Atoi(s); err == nil && Level(n).Valid() {
		return Level(n), nil
	}
	return Info, fmt.Errorf("unknown log level %q", s)
}

// Zerolog maps l onto the zerolog level.
func (l Level) Zerolog() zerolog.Level {
	switch l {
	case Trace:
		return zerolog.TraceLevel
	case Debug:
		return zerolog.DebugLevel
	case Warn:
		return zerolog.WarnLevel
	case Error:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
