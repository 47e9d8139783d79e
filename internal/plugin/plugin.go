// Package plugin composes the native capabilities bound to the UI next to
// the command registry. Plugins are registered once, started in order and
// shut down in reverse.
package plugin

import (
	"context"
	"errors"
	"fmt"

	"github.com/logue/drop-compress-image/internal/logging"
)

var ErrDuplicatePlugin = errors.New("plugin already registered")

// Plugin is a named object whose exported methods are bound to the UI.
type Plugin interface {
	Name() string
}

// Starter is implemented by plugins that need the runtime context.
type Starter interface {
	OnStartup(ctx context.Context) error
}

// Stopper is implemented by plugins holding resources.
type Stopper interface {
	OnShutdown(ctx context.Context)
}

// Host owns the registered plugins.
type Host struct {
	plugins []Plugin
	started []Plugin
}

// NewHost registers plugins in the given order.
func NewHost(plugins ...Plugin) (*Host, error) {
	seen := make(map[string]bool, len(plugins))
	for _, p := range plugins {
		if seen[p.Name()] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicatePlugin, p.Name())
		}
		seen[p.Name()] = true
	}
	return &Host{plugins: plugins}, nil
}

// Names lists plugin names in registration order.
func (h *Host) Names() []string {
	out := make([]string, len(h.plugins))
	for i, p := range h.plugins {
		out[i] = p.Name()
	}
	return out
}

// Bindings returns the objects to hand to the Wails Bind option.
func (h *Host) Bindings() []interface{} {
	out := make([]interface{}, len(h.plugins))
	for i, p := range h.plugins {
		out[i] = p
	}
	return out
}

// Startup starts plugins in order. On failure the plugins already started
// are shut down and the error is returned.
func (h *Host) Startup(ctx context.Context) error {
	logger := logging.FromCtx(ctx)
	for _, p := range h.plugins {
		if s, ok := p.(Starter); ok {
			if err := s.OnStartup(ctx); err != nil {
				h.Shutdown(ctx)
				return fmt.Errorf("start plugin %s: %w", p.Name(), err)
			}
		}
		h.started = append(h.started, p)
		logger.Debug().Str("plugin", p.Name()).Msg("plugin started")
	}
	return nil
}

// Shutdown stops started plugins in reverse order.
func (h *Host) Shutdown(ctx context.Context) {
	for i := len(h.started) - 1; i >= 0; i-- {
		if s, ok := h.started[i].(Stopper); ok {
			s.OnShutdown(ctx)
		}
	}
	h.started = nil
}
