package command

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/google/uuid"

	"github.com/logue/drop-compress-image/internal/logging"
)

// Middleware wraps the handler registered under name.
type Middleware func(name string, next Handler) Handler

func chain(name string, h Handler, mw []Middleware) Handler {
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](name, h)
	}
	return h
}

// Recover turns a handler panic into an error so the caller still gets a
// response.
func Recover(name string, next Handler) Handler {
	return func(ctx context.Context, sink logging.Sink, payload json.RawMessage) (result string, err error) {
		defer func() {
			if p := recover(); p != nil {
				logging.FromCtx(ctx).Error().
					Str("command", name).
					Bytes("stack", debug.Stack()).
					Msgf("command panicked: %v", p)
				result, err = "", fmt.Errorf("command %s failed: %v", name, p)
			}
		}()
		return next(ctx, sink, payload)
	}
}

// Trace logs each invocation to the backend logger at debug level. It does
// not write to the handler's sink.
func Trace(name string, next Handler) Handler {
	return func(ctx context.Context, sink logging.Sink, payload json.RawMessage) (string, error) {
		id := uuid.NewString()
		start := time.Now()
		logger := logging.FromCtx(ctx).With().Str("command", name).Str("invocation", id).Logger()

		logger.Debug().Int("payload_bytes", len(payload)).Msg("invoke")
		result, err := next(logger.WithContext(ctx), sink, payload)
		if err != nil {
			logger.Debug().Dur("took", time.Since(start)).Err(err).Msg("invoke failed")
			return result, err
		}
		logger.Debug().Dur("took", time.Since(start)).Msg("invoke done")
		return result, nil
	}
}

// Defaults is the middleware stack the application uses.
func Defaults() []Middleware {
	return []Middleware{Recover, Trace}
}
