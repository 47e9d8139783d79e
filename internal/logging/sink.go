package logging

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// Sink is the logging capability passed to command handlers. Handlers only
// append to it; configuring and closing the underlying writers is the
// owner's job.
type Sink interface {
	Log(level Level, message string)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(level Level, message string)

func (f SinkFunc) Log(level Level, message string) { f(level, message) }

// Discard drops every event.
var Discard Sink = SinkFunc(func(Level, string) {})

type zerologSink struct {
	logger zerolog.Logger
}

// NewZerologSink writes events to logger.
func NewZerologSink(logger zerolog.Logger) Sink {
	return &zerologSink{logger: logger}
}

func (s *zerologSink) Log(level Level, message string) {
	s.logger.WithLevel(level.Zerolog()).Msg(message)
}

// EventLog is the event name log records are forwarded to the webview on.
const EventLog = "log://log"

// Record is the payload of an EventLog event.
type Record struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Emitter publishes an event to the UI. runtime.EventsEmit satisfies it.
type Emitter func(ctx context.Context, name string, data ...interface{})

type webviewSink struct {
	ctx  context.Context
	emit Emitter
	min  Level
}

// NewWebviewSink forwards events at or above min to the UI.
func NewWebviewSink(ctx context.Context, emit Emitter, min Level) Sink {
	return &webviewSink{ctx: ctx, emit: emit, min: min}
}

func (s *webviewSink) Log(level Level, message string) {
	if s.ctx == nil || s.emit == nil || level < s.min {
		return
	}
	s.emit(s.ctx, EventLog, Record{Level: level, Message: message})
}

type tee struct {
	mu    sync.Mutex
	sinks []Sink
}

// Tee fans each event out to all sinks. Events from one goroutine keep
// their order on every sink.
func Tee(sinks ...Sink) Sink {
	filtered := make([]Sink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			filtered = append(filtered, s)
		}
	}
	if len(filtered) == 1 {
		return filtered[0]
	}
	return &tee{sinks: filtered}
}

func (t *tee) Log(level Level, message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, s := range t.sinks {
		s.Log(level, message)
	}
}
