package desktop

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/wailsapp/wails/v2/pkg/options"
	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"
)

// Package-level hooks for testing. In production, these use the Wails runtime.
var (
	windowGetSize     = wailsRuntime.WindowGetSize
	windowGetPosition = wailsRuntime.WindowGetPosition
	windowIsMaximised = wailsRuntime.WindowIsMaximised
	windowSetPosition = wailsRuntime.WindowSetPosition
	now               = time.Now
)

// WindowState is the window geometry saved between launches.
type WindowState struct {
	X         int       `json:"x"`
	Y         int       `json:"y"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	Maximised bool      `json:"maximised"`
	SavedAt   time.Time `json:"savedAt"`
}

func (s *WindowState) valid(minWidth, minHeight int) bool {
	return s.Width >= minWidth && s.Height >= minHeight && s.Width > 0 && s.Height > 0
}

// withStateLock executes fn while holding an exclusive lock on the state
// file. The state is written back unless fn fails.
func withStateLock(path string, fn func(state *WindowState) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open window state: %w", err)
	}
	defer f.Close()

	unlock, err := lockFile(f)
	if err != nil {
		return fmt.Errorf("failed to lock window state: %w", err)
	}
	defer unlock()

	state := &WindowState{}
	if err := json.NewDecoder(f).Decode(state); err != nil && err != io.EOF {
		// A corrupt file is replaced on the next write.
		*state = WindowState{}
	}

	if err := fn(state); err != nil {
		return err
	}

	if err := f.Truncate(0); err != nil {
		return fmt.Errorf("failed to truncate window state: %w", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("failed to seek window state: %w", err)
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(state)
}

// loadWindowState returns the saved geometry, or nil when there is none.
func loadWindowState(path string) (*WindowState, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var state WindowState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("parse window state: %w", err)
	}
	return &state, nil
}

// saveWindowState records the current window geometry.
func saveWindowState(ctx context.Context, path string) error {
	return withStateLock(path, func(state *WindowState) error {
		// A maximised window keeps the last restored geometry.
		state.Maximised = windowIsMaximised(ctx)
		if !state.Maximised {
			state.Width, state.Height = windowGetSize(ctx)
			state.X, state.Y = windowGetPosition(ctx)
		}
		state.SavedAt = now()
		return nil
	})
}

// applyWindowState overrides the configured size with the saved one.
// It reports whether a saved position should be restored once the window
// exists.
func applyWindowState(opts *options.App, state *WindowState) bool {
	if state == nil || !state.valid(opts.MinWidth, opts.MinHeight) {
		return false
	}
	opts.Width = state.Width
	opts.Height = state.Height
	if state.Maximised {
		opts.WindowStartState = options.Maximised
	}
	return true
}

// domReady moves the window to its saved position. Wails only honours
// the position once the window is shown.
func (a *App) domReady(ctx context.Context) {
	a.mu.RLock()
	state := a.savedWindow
	a.mu.RUnlock()
	if state == nil || state.Maximised {
		return
	}
	windowSetPosition(ctx, state.X, state.Y)
}

// beforeClose saves the window geometry. It never prevents closing.
func (a *App) beforeClose(ctx context.Context) bool {
	if !a.cfg.Window.RememberState {
		return false
	}
	log := a.logger.With().Str("path", a.cfg.WindowStatePath()).Logger()
	if err := saveWindowState(ctx, a.cfg.WindowStatePath()); err != nil {
		log.Warn().Err(err).Msg("failed to save window state")
		return false
	}
	log.Debug().Msg("window state saved")
	return false
}
