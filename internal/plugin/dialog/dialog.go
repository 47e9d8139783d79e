// Package dialog exposes native file and message dialogs to the UI.
package dialog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"
)

// Package-level hooks for testing. In production, these use the Wails runtime.
var (
	openFileDialog          = wailsRuntime.OpenFileDialog
	openMultipleFilesDialog = wailsRuntime.OpenMultipleFilesDialog
	openDirectoryDialog     = wailsRuntime.OpenDirectoryDialog
	saveFileDialog          = wailsRuntime.SaveFileDialog
	messageDialog           = wailsRuntime.MessageDialog
)

var ErrNotStarted = errors.New("dialog: runtime not started")

// Filter restricts selectable files, e.g. {Name: "Images", Extensions: ["png", "webp"]}.
type Filter struct {
	Name       string   `json:"name"`
	Extensions []string `json:"extensions"`
}

// OpenOptions configures Open.
type OpenOptions struct {
	Title       string   `json:"title,omitempty"`
	DefaultPath string   `json:"defaultPath,omitempty"`
	Filters     []Filter `json:"filters,omitempty"`
	Multiple    bool     `json:"multiple,omitempty"`
	Directory   bool     `json:"directory,omitempty"`
}

// SaveOptions configures Save.
type SaveOptions struct {
	Title       string   `json:"title,omitempty"`
	DefaultPath string   `json:"defaultPath,omitempty"`
	Filters     []Filter `json:"filters,omitempty"`
}

// Kind is the icon/severity of a message dialog.
type Kind string

const (
	KindInfo    Kind = "info"
	KindWarning Kind = "warning"
	KindError   Kind = "error"
)

// Dialog is the "dialog" plugin.
type Dialog struct {
	mu  sync.RWMutex
	ctx context.Context
}

func New() *Dialog { return &Dialog{} }

func (d *Dialog) Name() string { return "dialog" }

func (d *Dialog) OnStartup(ctx context.Context) error {
	d.mu.Lock()
	d.ctx = ctx
	d.mu.Unlock()
	return nil
}

func (d *Dialog) runtimeCtx() (context.Context, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.ctx == nil {
		return nil, ErrNotStarted
	}
	return d.ctx, nil
}

// Open shows a file or directory picker. It returns the selection, or an
// empty slice when the user cancels.
func (d *Dialog) Open(opts OpenOptions) ([]string, error) {
	ctx, err := d.runtimeCtx()
	if err != nil {
		return nil, err
	}

	dir, file := splitDefaultPath(opts.DefaultPath)
	wopts := wailsRuntime.OpenDialogOptions{
		Title:                opts.Title,
		DefaultDirectory:     dir,
		DefaultFilename:      file,
		Filters:              toWailsFilters(opts.Filters),
		CanCreateDirectories: opts.Directory,
	}

	switch {
	case opts.Directory:
		path, err := openDirectoryDialog(ctx, wopts)
		return nonEmpty(path), err
	case opts.Multiple:
		paths, err := openMultipleFilesDialog(ctx, wopts)
		if paths == nil {
			paths = []string{}
		}
		return paths, err
	default:
		path, err := openFileDialog(ctx, wopts)
		return nonEmpty(path), err
	}
}

// Save shows a save-as dialog. An empty string means cancelled.
func (d *Dialog) Save(opts SaveOptions) (string, error) {
	ctx, err := d.runtimeCtx()
	if err != nil {
		return "", err
	}
	dir, file := splitDefaultPath(opts.DefaultPath)
	return saveFileDialog(ctx, wailsRuntime.SaveDialogOptions{
		Title:                opts.Title,
		DefaultDirectory:     dir,
		DefaultFilename:      file,
		Filters:              toWailsFilters(opts.Filters),
		CanCreateDirectories: true,
	})
}

// Message shows an informational dialog with a single OK button.
func (d *Dialog) Message(title, message string, kind Kind) error {
	ctx, err := d.runtimeCtx()
	if err != nil {
		return err
	}
	_, err = messageDialog(ctx, wailsRuntime.MessageDialogOptions{
		Type:    toWailsType(kind, wailsRuntime.InfoDialog),
		Title:   title,
		Message: message,
		Buttons: []string{"OK"},
	})
	return err
}

// Ask shows a Yes/No question and reports whether Yes was chosen.
func (d *Dialog) Ask(title, message string, kind Kind) (bool, error) {
	return d.choose(title, message, kind, "Yes", "No")
}

// Confirm shows an Ok/Cancel question and reports whether Ok was chosen.
func (d *Dialog) Confirm(title, message string, kind Kind) (bool, error) {
	return d.choose(title, message, kind, "Ok", "Cancel")
}

func (d *Dialog) choose(title, message string, kind Kind, yes, no string) (bool, error) {
	ctx, err := d.runtimeCtx()
	if err != nil {
		return false, err
	}
	answer, err := messageDialog(ctx, wailsRuntime.MessageDialogOptions{
		Type:          toWailsType(kind, wailsRuntime.QuestionDialog),
		Title:         title,
		Message:       message,
		Buttons:       []string{yes, no},
		DefaultButton: yes,
		CancelButton:  no,
	})
	if err != nil {
		return false, err
	}
	return strings.EqualFold(answer, yes), nil
}

func toWailsType(kind Kind, fallback wailsRuntime.DialogType) wailsRuntime.DialogType {
	switch Kind(strings.ToLower(string(kind))) {
	case KindInfo:
		return wailsRuntime.InfoDialog
	case KindWarning:
		return wailsRuntime.WarningDialog
	case KindError:
		return wailsRuntime.ErrorDialog
	default:
		return fallback
	}
}

// toWailsFilters turns {Images, [png, webp]} into {Images, "*.png;*.webp"}.
func toWailsFilters(filters []Filter) []wailsRuntime.FileFilter {
	out := make([]wailsRuntime.FileFilter, 0, len(filters))
	for _, f := range filters {
		patterns := make([]string, 0, len(f.Extensions))
		for _, ext := range f.Extensions {
			ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
			if ext == "" {
				continue
			}
			if ext == "*" {
				patterns = append(patterns, "*")
				continue
			}
			patterns = append(patterns, "*."+ext)
		}
		if len(patterns) == 0 {
			continue
		}
		out = append(out, wailsRuntime.FileFilter{
			DisplayName: f.Name,
			Pattern:     strings.Join(patterns, ";"),
		})
	}
	return out
}

// splitDefaultPath separates an existing directory from a suggested file name.
func splitDefaultPath(p string) (dir, file string) {
	if p == "" {
		return "", ""
	}
	if info, err := os.Stat(p); err == nil && info.IsDir() {
		return p, ""
	}
	return filepath.Dir(p), filepath.Base(p)
}

func nonEmpty(path string) []string {
	if path == "" {
		return []string{}
	}
	return []string{path}
}
