package filesystem

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"
)

// EventWatch is emitted for every change under a watched path.
const EventWatch = "fs://watch"

// Package-level hook for testing.
var eventsEmit = wailsRuntime.EventsEmit

// WatchEvent is the payload of EventWatch.
type WatchEvent struct {
	ID   string `json:"id"`
	Op   string `json:"op"`
	Path string `json:"path"`
}

type watch struct {
	watcher *fsnotify.Watcher
	done    chan struct{}
}

func (w *watch) close() {
	w.watcher.Close()
	<-w.done
}

// Watch starts watching paths and returns the watch id. With recursive set,
// directories below each path are watched as well, including ones created
// later.
func (f *FS) Watch(paths []string, recursive bool) (string, error) {
	if len(paths) == 0 {
		return "", fmt.Errorf("watch: no paths")
	}

	cleaned := make([]string, 0, len(paths))
	for _, path := range paths {
		p, err := f.scope.Check(path)
		if err != nil {
			return "", err
		}
		cleaned = append(cleaned, p)
	}

	f.mu.Lock()
	ctx := f.ctx
	f.mu.Unlock()
	if ctx == nil {
		return "", fmt.Errorf("watch: runtime not started")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return "", fmt.Errorf("watch: %w", err)
	}
	for _, p := range cleaned {
		if err := addWatch(watcher, p, recursive); err != nil {
			watcher.Close()
			return "", err
		}
	}

	id := uuid.NewString()
	w := &watch{watcher: watcher, done: make(chan struct{})}

	go func() {
		defer close(w.done)
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if recursive && ev.Has(fsnotify.Create) {
					if info, err := os.Stat(ev.Name); err == nil && info.IsDir() && f.scope.Allowed(ev.Name) {
						_ = addWatch(watcher, ev.Name, true)
					}
				}
				eventsEmit(ctx, EventWatch, WatchEvent{ID: id, Op: eventOp(ev.Op), Path: ev.Name})
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				eventsEmit(ctx, EventWatch, WatchEvent{ID: id, Op: "error", Path: err.Error()})
			}
		}
	}()

	f.mu.Lock()
	f.watches[id] = w
	f.mu.Unlock()
	return id, nil
}

// Unwatch stops the watch with the given id.
func (f *FS) Unwatch(id string) error {
	f.mu.Lock()
	w, ok := f.watches[id]
	delete(f.watches, id)
	f.mu.Unlock()

	if !ok {
		return fmt.Errorf("watch %s not found", id)
	}
	w.close()
	return nil
}

func addWatch(watcher *fsnotify.Watcher, root string, recursive bool) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("watch %s: %w", root, err)
	}
	if !recursive || !info.IsDir() {
		if err := watcher.Add(root); err != nil {
			return fmt.Errorf("watch %s: %w", root, err)
		}
		return nil
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

func eventOp(op fsnotify.Op) string {
	var kinds []string
	if op.Has(fsnotify.Create) {
		kinds = append(kinds, "create")
	}
	if op.Has(fsnotify.Write) {
		kinds = append(kinds, "modify")
	}
	if op.Has(fsnotify.Remove) {
		kinds = append(kinds, "remove")
	}
	if op.Has(fsnotify.Rename) {
		kinds = append(kinds, "rename")
	}
	if op.Has(fsnotify.Chmod) {
		kinds = append(kinds, "chmod")
	}
	if len(kinds) == 0 {
		return "any"
	}
	return strings.Join(kinds, "|")
}
