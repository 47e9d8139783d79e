// Package command holds the fixed set of UI-invocable commands and the
// registry the host dispatches them through.
package command

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"

	"github.com/logue/drop-compress-image/internal/logging"
)

var (
	ErrCommandNotFound  = errors.New("command not found")
	ErrDuplicateCommand = errors.New("command already registered")
	ErrInvalidName      = errors.New("invalid command name")
	ErrInvalidPayload   = errors.New("invalid payload")

	nameRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
)

// Handler answers one invocation. payload is the raw JSON argument object;
// the string result or the error message is what the UI receives.
type Handler func(ctx context.Context, sink logging.Sink, payload json.RawMessage) (string, error)

// Entry binds a command name to its handler.
type Entry struct {
	Name    string
	Handler Handler
}

type registryOption func(o *Registry)

// RegistryOption configures a Registry at construction.
type RegistryOption interface {
	apply(r *Registry)
}

func (f registryOption) apply(r *Registry) { f(r) }

// WithMiddleware wraps every handler. The first middleware is outermost.
func WithMiddleware(mw ...Middleware) RegistryOption {
	return registryOption(func(r *Registry) {
		r.middleware = append(r.middleware, mw...)
	})
}

// Registry is populated once by NewRegistry and never changes afterwards,
// so lookups need no locking.
type Registry struct {
	handlers   map[string]Handler
	names      []string
	middleware []Middleware
}

// NewRegistry validates and registers entries. Names must be unique
// snake_case identifiers.
func NewRegistry(entries []Entry, opts ...RegistryOption) (*Registry, error) {
	r := &Registry{handlers: make(map[string]Handler, len(entries))}
	for _, o := range opts {
		o.apply(r)
	}

	for _, e := range entries {
		if !nameRegex.MatchString(e.Name) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidName, e.Name)
		}
		if e.Handler == nil {
			return nil, fmt.Errorf("%w: %q has no handler", ErrInvalidName, e.Name)
		}
		if _, ok := r.handlers[e.Name]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateCommand, e.Name)
		}
		r.handlers[e.Name] = chain(e.Name, e.Handler, r.middleware)
		r.names = append(r.names, e.Name)
	}
	sort.Strings(r.names)

	return r, nil
}

// Names returns the registered command names in sorted order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.handlers[name]
	return ok
}

// Invoke dispatches payload to the handler registered under name.
func (r *Registry) Invoke(ctx context.Context, name string, sink logging.Sink, payload json.RawMessage) (string, error) {
	h, ok := r.handlers[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrCommandNotFound, name)
	}
	if sink == nil {
		sink = logging.Discard
	}
	return h(ctx, sink, payload)
}
