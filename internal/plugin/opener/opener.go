// Package opener opens URLs and files with the system's default handlers.
package opener

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"
)

var (
	ErrUnsupportedScheme = errors.New("unsupported url scheme")
	ErrNotStarted        = errors.New("opener: runtime not started")
)

// Package-level hooks for testing.
var (
	browserOpenURL = wailsRuntime.BrowserOpenURL
	startCommand   = func(name string, args ...string) error {
		return exec.Command(name, args...).Start()
	}
	goos = runtime.GOOS
)

var allowedSchemes = map[string]bool{
	"http":   true,
	"https":  true,
	"mailto": true,
	"tel":    true,
}

// PathChecker limits the local paths the opener may hand to other
// programs. *filesystem.Scope satisfies it.
type PathChecker interface {
	Check(path string) (string, error)
}

// Opener is the "opener" plugin.
type Opener struct {
	scope PathChecker

	mu  sync.RWMutex
	ctx context.Context
}

// New returns an Opener that opens only paths scope allows.
func New(scope PathChecker) *Opener { return &Opener{scope: scope} }

func (o *Opener) Name() string { return "opener" }

func (o *Opener) OnStartup(ctx context.Context) error {
	o.mu.Lock()
	o.ctx = ctx
	o.mu.Unlock()
	return nil
}

// OpenURL opens an http(s), mailto or tel URL in the default handler.
func (o *Opener) OpenURL(rawURL string) error {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return fmt.Errorf("parse url: %w", err)
	}
	if !allowedSchemes[strings.ToLower(u.Scheme)] {
		return fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}

	o.mu.RLock()
	ctx := o.ctx
	o.mu.RUnlock()
	if ctx == nil {
		return ErrNotStarted
	}
	browserOpenURL(ctx, u.String())
	return nil
}

// OpenPath opens a file or directory with its default application.
func (o *Opener) OpenPath(path string) error {
	p, err := o.existingPath(path)
	if err != nil {
		return err
	}
	name, args := openCommand(goos, p)
	return startCommand(name, args...)
}

// RevealItemInDir shows path selected in the platform file manager.
func (o *Opener) RevealItemInDir(path string) error {
	p, err := o.existingPath(path)
	if err != nil {
		return err
	}
	name, args := revealCommand(goos, p)
	return startCommand(name, args...)
}

func (o *Opener) existingPath(path string) (string, error) {
	if !filepath.IsAbs(path) {
		return "", fmt.Errorf("path must be absolute: %s", path)
	}
	p, err := o.scope.Check(path)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(p); err != nil {
		return "", err
	}
	return p, nil
}

func openCommand(goos, path string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{path}
	case "windows":
		return "explorer", []string{path}
	default:
		return "xdg-open", []string{path}
	}
}

func revealCommand(goos, path string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{"-R", path}
	case "windows":
		return "explorer", []string{"/select," + path}
	default:
		// xdg-open cannot select a file; open the containing directory.
		return "xdg-open", []string{filepath.Dir(path)}
	}
}
