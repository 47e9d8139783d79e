// Package osinfo reports facts about the host operating system to the UI.
package osinfo

import (
	"os"
	"os/exec"
	"runtime"
	"strings"

	"golang.org/x/text/language"
)

// Package-level hooks for testing.
var (
	goos     = runtime.GOOS
	goarch   = runtime.GOARCH
	getenv   = os.Getenv
	hostname = os.Hostname
	runCmd   = func(name string, args ...string) (string, error) {
		out, err := exec.Command(name, args...).Output()
		return strings.TrimSpace(string(out)), err
	}
)

const fallbackLocale = "en-US"

// Info aggregates every value the plugin reports.
type Info struct {
	Platform     string `json:"platform"`
	Family       string `json:"family"`
	Arch         string `json:"arch"`
	Type         string `json:"type"`
	Version      string `json:"version"`
	Hostname     string `json:"hostname"`
	Locale       string `json:"locale"`
	EOL          string `json:"eol"`
	ExeExtension string `json:"exeExtension"`
}

// OS is the "os" plugin.
type OS struct{}

func New() *OS { return &OS{} }

func (o *OS) Name() string { return "os" }

// Platform is "linux", "macos", "windows", "freebsd", ...
func (o *OS) Platform() string {
	if goos == "darwin" {
		return "macos"
	}
	return goos
}

// Type is the OS kind: "linux", "macos" or "windows".
func (o *OS) Type() string {
	return o.Platform()
}

// Family is "windows" or "unix".
func (o *OS) Family() string {
	if goos == "windows" {
		return "windows"
	}
	return "unix"
}

// Arch uses the kernel's naming: x86_64, aarch64, x86, arm, ...
func (o *OS) Arch() string {
	switch goarch {
	case "amd64":
		return "x86_64"
	case "arm64":
		return "aarch64"
	case "386":
		return "x86"
	default:
		return goarch
	}
}

// Version is the OS release, or "unknown".
func (o *OS) Version() string {
	var (
		out string
		err error
	)
	switch goos {
	case "darwin":
		out, err = runCmd("sw_vers", "-productVersion")
	case "windows":
		out, err = runCmd("cmd", "/c", "ver")
	default:
		out, err = runCmd("uname", "-r")
	}
	if err != nil || out == "" {
		return "unknown"
	}
	return out
}

// Hostname is the machine name, or empty when it cannot be read.
func (o *OS) Hostname() string {
	h, err := hostname()
	if err != nil {
		return ""
	}
	return h
}

// Locale is the user's BCP 47 language tag, e.g. "ja-JP".
func (o *OS) Locale() string {
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG", "LANGUAGE"} {
		if tag, ok := ParseLocale(getenv(key)); ok {
			return tag
		}
	}
	return fallbackLocale
}

// EOL is the line ending of the platform.
func (o *OS) EOL() string {
	if goos == "windows" {
		return "\r\n"
	}
	return "\n"
}

// ExeExtension is "exe" on Windows and empty elsewhere.
func (o *OS) ExeExtension() string {
	if goos == "windows" {
		return "exe"
	}
	return ""
}

// Info returns all values at once.
func (o *OS) Info() Info {
	return Info{
		Platform:     o.Platform(),
		Family:       o.Family(),
		Arch:         o.Arch(),
		Type:         o.Type(),
		Version:      o.Version(),
		Hostname:     o.Hostname(),
		Locale:       o.Locale(),
		EOL:          o.EOL(),
		ExeExtension: o.ExeExtension(),
	}
}

// ParseLocale turns POSIX locale strings ("ja_JP.UTF-8", "de_DE@euro") into
// BCP 47 tags. "C" and "POSIX" are not locales.
func ParseLocale(s string) (string, bool) {
	s = strings.TrimSpace(s)
	// LANGUAGE may hold a priority list.
	if i := strings.IndexByte(s, ':'); i >= 0 {
		s = s[:i]
	}
	if i := strings.IndexAny(s, ".@"); i >= 0 {
		s = s[:i]
	}
	if s == "" || s == "C" || s == "POSIX" {
		return "", false
	}
	tag, err := language.Parse(strings.ReplaceAll(s, "_", "-"))
	if err != nil {
		return "", false
	}
	return tag.String(), true
}
