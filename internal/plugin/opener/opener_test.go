package opener

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logue/drop-compress-image/internal/plugin/filesystem"
)

func TestOpenURLSchemes(t *testing.T) {
	orig := browserOpenURL
	t.Cleanup(func() { browserOpenURL = orig })
	var opened []string
	browserOpenURL = func(_ context.Context, u string) { opened = append(opened, u) }

	o := New(filesystem.NewScope(nil, nil))
	assert.ErrorIs(t, o.OpenURL("https://example.com"), ErrNotStarted)
	require.NoError(t, o.OnStartup(context.Background()))

	for _, u := range []string{"https://github.com/logue/DropWebP", "HTTP://example.com", "mailto:a@b.c"} {
		require.NoError(t, o.OpenURL(u), u)
	}
	for _, u := range []string{"file:///etc/passwd", "javascript:alert(1)", "/local/path"} {
		assert.ErrorIs(t, o.OpenURL(u), ErrUnsupportedScheme, u)
	}
	assert.Len(t, opened, 3)
}

func TestCommandsPerPlatform(t *testing.T) {
	name, args := openCommand("darwin", "/a/b.png")
	assert.Equal(t, "open", name)
	assert.Equal(t, []string{"/a/b.png"}, args)

	name, args = openCommand("linux", "/a/b.png")
	assert.Equal(t, "xdg-open", name)
	assert.Equal(t, []string{"/a/b.png"}, args)

	name, args = revealCommand("darwin", "/a/b.png")
	assert.Equal(t, "open", name)
	assert.Equal(t, []string{"-R", "/a/b.png"}, args)

	name, args = revealCommand("windows", `C:\a\b.png`)
	assert.Equal(t, "explorer", name)
	assert.Equal(t, []string{`/select,C:\a\b.png`}, args)

	_, args = revealCommand("freebsd", "/a/b.png")
	assert.Equal(t, []string{"/a"}, args)
}

func TestOpenPath(t *testing.T) {
	origStart, origOS := startCommand, goos
	t.Cleanup(func() { startCommand, goos = origStart, origOS })

	var ran []string
	startCommand = func(name string, args ...string) error {
		ran = append([]string{name}, args...)
		return nil
	}
	goos = "linux"

	dir := t.TempDir()
	file := filepath.Join(dir, "out.webp")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	o := New(filesystem.NewScope([]string{dir}, nil))
	require.NoError(t, o.OpenPath(file))
	assert.Equal(t, []string{"xdg-open", file}, ran)

	require.NoError(t, o.RevealItemInDir(file))
	assert.Equal(t, []string{"xdg-open", dir}, ran)

	assert.Error(t, o.OpenPath(filepath.Join(dir, "missing.png")))
	assert.Error(t, o.OpenPath("relative.png"))
}

func TestOpenPathOutsideScope(t *testing.T) {
	origStart := startCommand
	t.Cleanup(func() { startCommand = origStart })
	ran := false
	startCommand = func(string, ...string) error {
		ran = true
		return nil
	}

	allowed, outside := t.TempDir(), t.TempDir()
	file := filepath.Join(outside, "private.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))

	o := New(filesystem.NewScope([]string{allowed}, nil))
	assert.ErrorIs(t, o.OpenPath(file), filesystem.ErrForbiddenPath)
	assert.ErrorIs(t, o.RevealItemInDir(file), filesystem.ErrForbiddenPath)
	assert.False(t, ran)
}
