package filesystem

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var ErrForbiddenPath = errors.New("forbidden path")

// Scope decides which paths the UI may touch.
//
// Each entry is one of:
//   - a directory: the directory and everything below it
//   - a pattern ending in "/**": same as the directory before it
//   - a glob: paths matching it (filepath.Match)
//
// Entries may start with a variable such as $HOME or $PICTURE.
type Scope struct {
	roots    []string
	patterns []string
}

// Vars resolves scope variables for the given config and log directories.
func Vars(configDir, logDir string) map[string]string {
	home, _ := os.UserHomeDir()
	vars := map[string]string{
		"$APPCONFIG": configDir,
		"$APPLOG":    logDir,
		"$TEMP":      os.TempDir(),
	}
	if home != "" {
		vars["$HOME"] = home
		vars["$DOCUMENT"] = userDir("XDG_DOCUMENTS_DIR", home, "Documents")
		vars["$DOWNLOAD"] = userDir("XDG_DOWNLOAD_DIR", home, "Downloads")
		vars["$PICTURE"] = userDir("XDG_PICTURES_DIR", home, "Pictures")
		vars["$DESKTOP"] = userDir("XDG_DESKTOP_DIR", home, "Desktop")
	}
	return vars
}

func userDir(envKey, home, fallback string) string {
	if v := os.Getenv(envKey); v != "" {
		return strings.ReplaceAll(v, "$HOME", home)
	}
	return filepath.Join(home, fallback)
}

// NewScope expands entries with vars. Entries referencing an unknown or
// empty variable are skipped.
func NewScope(entries []string, vars map[string]string) *Scope {
	s := &Scope{}

	// Longest variable names first so $APPCONFIG is not read as $APP...
	names := make([]string, 0, len(vars))
	for k := range vars {
		names = append(names, k)
	}
	sort.Slice(names, func(i, j int) bool { return len(names[i]) > len(names[j]) })

	for _, entry := range entries {
		expanded, ok := expand(strings.TrimSpace(entry), names, vars)
		if !ok || expanded == "" {
			continue
		}
		expanded = filepath.Clean(expanded)
		if !filepath.IsAbs(expanded) {
			continue
		}
		switch {
		case strings.HasSuffix(expanded, string(filepath.Separator)+"**"):
			s.roots = append(s.roots, strings.TrimSuffix(expanded, string(filepath.Separator)+"**"))
		case strings.ContainsAny(expanded, "*?["):
			s.patterns = append(s.patterns, expanded)
		default:
			s.roots = append(s.roots, expanded)
		}
	}
	return s
}

func expand(entry string, names []string, vars map[string]string) (string, bool) {
	if !strings.HasPrefix(entry, "$") {
		return entry, true
	}
	for _, name := range names {
		if strings.HasPrefix(entry, name) {
			rest := entry[len(name):]
			if rest != "" && rest[0] != '/' && rest[0] != filepath.Separator {
				continue
			}
			if vars[name] == "" {
				return "", false
			}
			return vars[name] + rest, true
		}
	}
	return "", false
}

// Roots returns the directory roots of the scope.
func (s *Scope) Roots() []string {
	out := make([]string, len(s.roots))
	copy(out, s.roots)
	return out
}

// Allowed reports whether path is inside the scope. Symlinks are resolved
// on both the path and the scope entries, so a link inside a root cannot
// reach a target outside it.
func (s *Scope) Allowed(path string) bool {
	if !filepath.IsAbs(path) {
		return false
	}
	real, err := resolve(filepath.Clean(path))
	if err != nil {
		return false
	}
	for _, root := range s.roots {
		if within(real, resolveOrKeep(root)) {
			return true
		}
	}
	for _, p := range s.patterns {
		if ok, _ := filepath.Match(resolvePattern(p), real); ok {
			return true
		}
	}
	return false
}

// IsRoot reports whether path is one of the scope roots.
func (s *Scope) IsRoot(path string) bool {
	real, err := resolve(filepath.Clean(path))
	if err != nil {
		return false
	}
	for _, root := range s.roots {
		if real == resolveOrKeep(root) {
			return true
		}
	}
	return false
}

// Check returns the cleaned path, or ErrForbiddenPath.
func (s *Scope) Check(path string) (string, error) {
	if !s.Allowed(path) {
		return "", fmt.Errorf("%w: %s", ErrForbiddenPath, path)
	}
	return filepath.Clean(path), nil
}

func within(path, root string) bool {
	if path == root || strings.HasPrefix(path, root+string(filepath.Separator)) {
		return true
	}
	// Clean keeps a trailing separator only for the filesystem root.
	return strings.HasSuffix(root, string(filepath.Separator)) && strings.HasPrefix(path, root)
}

// resolve evaluates symlinks in the longest existing prefix of path and
// appends the components that do not exist yet. A dangling or looping
// link is an error, since writing through it would create its target.
func resolve(path string) (string, error) {
	var rest []string
	cur := path
	for {
		if _, err := os.Lstat(cur); err == nil {
			real, err := filepath.EvalSymlinks(cur)
			if err != nil {
				return "", err
			}
			return filepath.Join(append([]string{real}, rest...)...), nil
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return path, nil
		}
		rest = append([]string{filepath.Base(cur)}, rest...)
		cur = parent
	}
}

func resolveOrKeep(path string) string {
	if real, err := resolve(path); err == nil {
		return real
	}
	return path
}

// resolvePattern resolves the literal directories in front of the first
// glob component.
func resolvePattern(pattern string) string {
	parts := strings.Split(pattern, string(filepath.Separator))
	for i, part := range parts {
		if strings.ContainsAny(part, "*?[") {
			prefix := strings.Join(parts[:i], string(filepath.Separator))
			if prefix == "" {
				return pattern
			}
			return resolveOrKeep(prefix) + string(filepath.Separator) + strings.Join(parts[i:], string(filepath.Separator))
		}
	}
	return resolveOrKeep(pattern)
}
