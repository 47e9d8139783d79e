// Package logbridge lets the UI append records to the backend log.
package logbridge

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/logue/drop-compress-image/internal/logging"
)

// Log is the "log" plugin.
type Log struct {
	logger zerolog.Logger
}

// New tags every record with source=webview.
func New(logger zerolog.Logger) *Log {
	return &Log{logger: logger.With().Str("source", "webview").Logger()}
}

func (l *Log) Name() string { return "log" }

// Log writes one record. Unknown levels are logged at info. location is
// the caller as reported by the UI and may be empty.
func (l *Log) Log(level int, message, location string, keyValues map[string]string) {
	lvl := logging.Level(level)
	if !lvl.Valid() {
		lvl = logging.Info
	}

	ev := l.logger.WithLevel(lvl.Zerolog())
	if location != "" {
		ev = ev.Str("location", location)
	}
	keys := make([]string, 0, len(keyValues))
	for k := range keyValues {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		ev = ev.Str(k, keyValues[k])
	}
	ev.Msg(message)
}
