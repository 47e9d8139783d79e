package filesystem

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFS(t *testing.T) (*FS, string) {
	t.Helper()
	dir := t.TempDir()
	f := New(NewScope([]string{dir}, nil))
	require.NoError(t, f.OnStartup(context.Background()))
	t.Cleanup(func() { f.OnShutdown(context.Background()) })
	return f, dir
}

func TestWriteAndReadTextFile(t *testing.T) {
	f, dir := newTestFS(t)
	p := filepath.Join(dir, "note.txt")

	require.NoError(t, f.WriteTextFile(p, "hello", WriteOptions{}))
	require.NoError(t, f.WriteTextFile(p, " world", WriteOptions{Append: true}))

	got, err := f.ReadTextFile(p)
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)

	require.NoError(t, f.WriteTextFile(p, "reset", WriteOptions{}))
	got, err = f.ReadTextFile(p)
	require.NoError(t, err)
	assert.Equal(t, "reset", got)

	err = f.WriteTextFile(p, "again", WriteOptions{CreateOnly: true})
	assert.Error(t, err)
}

func TestOutsideScopeIsForbidden(t *testing.T) {
	f, dir := newTestFS(t)
	outside := filepath.Join(filepath.Dir(dir), "outside.txt")

	_, err := f.ReadTextFile(outside)
	assert.ErrorIs(t, err, ErrForbiddenPath)

	err = f.WriteFile(outside, []byte("x"), WriteOptions{})
	assert.ErrorIs(t, err, ErrForbiddenPath)
	_, statErr := os.Stat(outside)
	assert.True(t, os.IsNotExist(statErr))

	err = f.Rename(filepath.Join(dir, "a"), outside)
	assert.ErrorIs(t, err, ErrForbiddenPath)

	_, err = f.Exists("relative.txt")
	assert.ErrorIs(t, err, ErrForbiddenPath)
}

func TestDirectoryOperations(t *testing.T) {
	f, dir := newTestFS(t)
	nested := filepath.Join(dir, "a", "b")

	assert.Error(t, f.Mkdir(nested, false))
	require.NoError(t, f.Mkdir(nested, true))
	require.NoError(t, f.WriteFile(filepath.Join(dir, "a", "img.png"), []byte{0x89, 'P', 'N', 'G'}, WriteOptions{}))

	entries, err := f.ReadDir(filepath.Join(dir, "a"))
	require.NoError(t, err)
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	assert.Equal(t, []DirEntry{
		{Name: "b", IsDirectory: true},
		{Name: "img.png", IsFile: true},
	}, entries)

	info, err := f.Stat(filepath.Join(dir, "a", "img.png"))
	require.NoError(t, err)
	assert.Equal(t, int64(4), info.Size)
	assert.True(t, info.IsFile)

	require.NoError(t, f.Rename(filepath.Join(dir, "a", "img.png"), filepath.Join(dir, "img.png")))
	ok, err := f.Exists(filepath.Join(dir, "img.png"))
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Error(t, f.Remove(filepath.Join(dir, "a"), false), "non-empty dir")
	require.NoError(t, f.Remove(filepath.Join(dir, "a"), true))
	ok, err = f.Exists(filepath.Join(dir, "a"))
	require.NoError(t, err)
	assert.False(t, ok)

	assert.ErrorIs(t, f.Remove(dir, true), ErrForbiddenPath)
}

func TestWatchEmitsEvents(t *testing.T) {
	var mu sync.Mutex
	var events []WatchEvent
	orig := eventsEmit
	t.Cleanup(func() { eventsEmit = orig })
	eventsEmit = func(_ context.Context, name string, data ...interface{}) {
		if name != EventWatch {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		events = append(events, data[0].(WatchEvent))
	}

	f, dir := newTestFS(t)
	id, err := f.Watch([]string{dir}, false)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "new.webp"), []byte("x"), 0o644))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		for _, ev := range events {
			if ev.ID == id && ev.Path == filepath.Join(dir, "new.webp") {
				return true
			}
		}
		return false
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, f.Unwatch(id))
	assert.Error(t, f.Unwatch(id))
}

func TestWatchRejectsOutOfScope(t *testing.T) {
	f, dir := newTestFS(t)
	_, err := f.Watch([]string{filepath.Dir(dir)}, true)
	assert.ErrorIs(t, err, ErrForbiddenPath)

	_, err = f.Watch(nil, false)
	assert.Error(t, err)
}

func TestSymlinkOutOfScopeIsForbidden(t *testing.T) {
	f, dir := newTestFS(t)
	outside := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(outside, "secret.txt"), []byte("top secret"), 0o600))
	link := filepath.Join(dir, "link")
	require.NoError(t, os.Symlink(outside, link))

	_, err := f.ReadTextFile(filepath.Join(link, "secret.txt"))
	assert.ErrorIs(t, err, ErrForbiddenPath)

	err = f.WriteTextFile(filepath.Join(link, "planted.txt"), "x", WriteOptions{})
	assert.ErrorIs(t, err, ErrForbiddenPath)
	_, err = os.Stat(filepath.Join(outside, "planted.txt"))
	assert.True(t, os.IsNotExist(err), "nothing may be written outside the scope")

	_, err = f.ReadDir(link)
	assert.ErrorIs(t, err, ErrForbiddenPath)
	assert.ErrorIs(t, f.Rename(filepath.Join(link, "secret.txt"), filepath.Join(dir, "stolen.txt")), ErrForbiddenPath)
	assert.ErrorIs(t, f.Remove(link, true), ErrForbiddenPath)
	assert.FileExists(t, filepath.Join(outside, "secret.txt"))
}

func TestDanglingSymlinkIsForbidden(t *testing.T) {
	f, dir := newTestFS(t)
	target := filepath.Join(t.TempDir(), "created-through-link.txt")
	link := filepath.Join(dir, "dangling")
	require.NoError(t, os.Symlink(target, link))

	assert.ErrorIs(t, f.WriteTextFile(link, "x", WriteOptions{}), ErrForbiddenPath)
	assert.NoFileExists(t, target)
}

func TestSymlinkWithinScopeIsAllowed(t *testing.T) {
	f, dir := newTestFS(t)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "real"), 0o755))
	require.NoError(t, os.Symlink(filepath.Join(dir, "real"), filepath.Join(dir, "alias")))

	require.NoError(t, f.WriteTextFile(filepath.Join(dir, "alias", "a.txt"), "hi", WriteOptions{}))
	got, err := f.ReadTextFile(filepath.Join(dir, "real", "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hi", got)
}

func TestRenameScopeRootIsForbidden(t *testing.T) {
	a, b := t.TempDir(), t.TempDir()
	f := New(NewScope([]string{a, b}, nil))

	assert.ErrorIs(t, f.Remove(a, true), ErrForbiddenPath)
	assert.ErrorIs(t, f.Rename(a, filepath.Join(b, "moved")), ErrForbiddenPath)
	assert.DirExists(t, a)
	assert.NoDirExists(t, filepath.Join(b, "moved"))

	require.NoError(t, os.Mkdir(filepath.Join(a, "sub"), 0o755))
	require.NoError(t, f.Rename(filepath.Join(a, "sub"), filepath.Join(b, "sub")))
	assert.DirExists(t, filepath.Join(b, "sub"))
}

func TestWatchEventPayload(t *testing.T) {
	data, err := json.Marshal(WatchEvent{ID: "w1", Op: eventOp(fsnotify.Create | fsnotify.Write), Path: "/p"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"w1","op":"create|modify","path":"/p"}`, string(data))
	assert.Equal(t, "any", eventOp(0))
}
