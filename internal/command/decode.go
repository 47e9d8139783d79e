package command

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/logue/drop-compress-image/internal/logging"
)

// validator is implemented by argument structs with required fields.
type validator interface {
	validate() error
}

// Typed decodes the payload into A before calling fn. A missing or null
// payload decodes as an empty object.
func Typed[A any](fn func(ctx context.Context, sink logging.Sink, args A) (string, error)) Handler {
	return func(ctx context.Context, sink logging.Sink, payload json.RawMessage) (string, error) {
		var args A
		trimmed := bytes.TrimSpace(payload)
		if len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) {
			if err := json.Unmarshal(trimmed, &args); err != nil {
				return "", fmt.Errorf("%w: %v", ErrInvalidPayload, err)
			}
		}
		if v, ok := any(&args).(validator); ok {
			if err := v.validate(); err != nil {
				return "", fmt.Errorf("%w: %v", ErrInvalidPayload, err)
			}
		}
		return fn(ctx, sink, args)
	}
}

func missingField(name string) error {
	return fmt.Errorf("missing field `%s`", name)
}
