// Package logtest provides a recording logging.Sink for tests.
package logtest

import (
	"sync"

	"github.com/logue/drop-compress-image/internal/logging"
)

// Recorder keeps every event it receives, in arrival order.
type Recorder struct {
	mu      sync.Mutex
	records []logging.Record
}

var _ logging.Sink = (*Recorder)(nil)

func (r *Recorder) Log(level logging.Level, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, logging.Record{Level: level, Message: message})
}

// Records returns a copy of the recorded events.
func (r *Recorder) Records() []logging.Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]logging.Record, len(r.records))
	copy(out, r.records)
	return out
}

// Messages returns the recorded messages only.
func (r *Recorder) Messages() []string {
	records := r.Records()
	out := make([]string, len(records))
	for i, rec := range records {
		out[i] = rec.Message
	}
	return out
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = nil
}
