// Package filesystem gives the UI scoped access to local files.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"time"
)

// DirEntry is one ReadDir result.
type DirEntry struct {
	Name        string `json:"name"`
	IsDirectory bool   `json:"isDirectory"`
	IsFile      bool   `json:"isFile"`
	IsSymlink   bool   `json:"isSymlink"`
}

// FileInfo is the Stat result.
type FileInfo struct {
	Name        string    `json:"name"`
	Size        int64     `json:"size"`
	IsDirectory bool      `json:"isDirectory"`
	IsFile      bool      `json:"isFile"`
	IsSymlink   bool      `json:"isSymlink"`
	Mode        uint32    `json:"mode"`
	ModTime     time.Time `json:"mtime"`
}

// WriteOptions controls WriteTextFile and WriteFile.
type WriteOptions struct {
	Append bool `json:"append,omitempty"`
	// CreateOnly fails when the file already exists.
	CreateOnly bool `json:"createNew,omitempty"`
}

// FS is the "fs" plugin.
type FS struct {
	scope *Scope

	mu      sync.Mutex
	ctx     context.Context
	watches map[string]*watch
}

// New returns an FS limited to scope.
func New(scope *Scope) *FS {
	return &FS{scope: scope, watches: make(map[string]*watch)}
}

func (f *FS) Name() string { return "fs" }

func (f *FS) OnStartup(ctx context.Context) error {
	f.mu.Lock()
	f.ctx = ctx
	f.mu.Unlock()
	return nil
}

// OnShutdown closes every active watch.
func (f *FS) OnShutdown(context.Context) {
	f.mu.Lock()
	watches := f.watches
	f.watches = make(map[string]*watch)
	f.mu.Unlock()

	for _, w := range watches {
		w.close()
	}
}

// ReadTextFile returns the file contents as a string.
func (f *FS) ReadTextFile(path string) (string, error) {
	data, err := f.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ReadFile returns the raw file contents.
func (f *FS) ReadFile(path string) ([]byte, error) {
	p, err := f.scope.Check(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", p, err)
	}
	return data, nil
}

// WriteTextFile writes contents to path.
func (f *FS) WriteTextFile(path, contents string, opts WriteOptions) error {
	return f.WriteFile(path, []byte(contents), opts)
}

// WriteFile writes data to path, creating it with mode 0644 when needed.
func (f *FS) WriteFile(path string, data []byte, opts WriteOptions) error {
	p, err := f.scope.Check(path)
	if err != nil {
		return err
	}

	flags := os.O_WRONLY | os.O_CREATE
	switch {
	case opts.CreateOnly:
		flags |= os.O_EXCL
	case opts.Append:
		flags |= os.O_APPEND
	default:
		flags |= os.O_TRUNC
	}

	file, err := os.OpenFile(p, flags, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", p, err)
	}
	if _, err := file.Write(data); err != nil {
		file.Close()
		return fmt.Errorf("write %s: %w", p, err)
	}
	return file.Close()
}

// ReadDir lists the entries of a directory.
func (f *FS) ReadDir(path string) ([]DirEntry, error) {
	p, err := f.scope.Check(path)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(p)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", p, err)
	}

	out := make([]DirEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, DirEntry{
			Name:        e.Name(),
			IsDirectory: e.IsDir(),
			IsFile:      e.Type().IsRegular(),
			IsSymlink:   e.Type()&fs.ModeSymlink != 0,
		})
	}
	return out, nil
}

// Mkdir creates a directory, and its parents when recursive is set.
func (f *FS) Mkdir(path string, recursive bool) error {
	p, err := f.scope.Check(path)
	if err != nil {
		return err
	}
	if recursive {
		return os.MkdirAll(p, 0o755)
	}
	return os.Mkdir(p, 0o755)
}

// Remove deletes a file or empty directory, or a whole tree when recursive.
// Scope roots themselves cannot be removed.
func (f *FS) Remove(path string, recursive bool) error {
	p, err := f.scope.Check(path)
	if err != nil {
		return err
	}
	if f.scope.IsRoot(p) {
		return fmt.Errorf("%w: refusing to remove scope root %s", ErrForbiddenPath, p)
	}
	if recursive {
		return os.RemoveAll(p)
	}
	return os.Remove(p)
}

// Rename moves oldPath to newPath. Both must be in scope and oldPath may
// not be a scope root.
func (f *FS) Rename(oldPath, newPath string) error {
	from, err := f.scope.Check(oldPath)
	if err != nil {
		return err
	}
	if f.scope.IsRoot(from) {
		return fmt.Errorf("%w: refusing to move scope root %s", ErrForbiddenPath, from)
	}
	to, err := f.scope.Check(newPath)
	if err != nil {
		return err
	}
	return os.Rename(from, to)
}

// Exists reports whether path exists.
func (f *FS) Exists(path string) (bool, error) {
	p, err := f.scope.Check(path)
	if err != nil {
		return false, err
	}
	_, err = os.Lstat(p)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}

// Stat describes path without following a final symlink.
func (f *FS) Stat(path string) (FileInfo, error) {
	p, err := f.scope.Check(path)
	if err != nil {
		return FileInfo{}, err
	}
	info, err := os.Lstat(p)
	if err != nil {
		return FileInfo{}, err
	}
	return FileInfo{
		Name:        info.Name(),
		Size:        info.Size(),
		IsDirectory: info.IsDir(),
		IsFile:      info.Mode().IsRegular(),
		IsSymlink:   info.Mode()&fs.ModeSymlink != 0,
		Mode:        uint32(info.Mode().Perm()),
		ModTime:     info.ModTime(),
	}, nil
}
