// Package config loads application settings: built-in defaults, then
// config.toml in the config directory, then DCI_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"

	"github.com/logue/drop-compress-image/internal/logging"
)

const (
	AppName        = "drop-compress-image"
	configFileName = "config.toml"
)

// WindowConfig represents the [window] section.
type WindowConfig struct {
	Title     string `toml:"title"`
	Width     int    `toml:"width"`
	Height    int    `toml:"height"`
	MinWidth  int    `toml:"min_width"`
	MinHeight int    `toml:"min_height"`

	// RememberState restores the last size and position on launch.
	RememberState bool `toml:"remember_state"`
}

// LogConfig represents the [log] section.
type LogConfig struct {
	Level   string   `toml:"level" env:"DCI_LOG_LEVEL"`
	Targets []string `toml:"targets" env:"DCI_LOG_TARGETS" envSeparator:","`
	Dir     string   `toml:"dir" env:"DCI_LOG_DIR"`
}

// FSConfig represents the [fs] section.
type FSConfig struct {
	// Scope lists the roots the UI may touch. Entries may use $HOME,
	// $APPCONFIG, $APPLOG, $DOCUMENT, $DOWNLOAD, $PICTURE, $DESKTOP, $TEMP
	// and glob patterns.
	Scope []string `toml:"scope"`
}

// NotificationConfig represents the [notification] section.
type NotificationConfig struct {
	// Permission is "granted", "denied" or "default".
	Permission string `toml:"permission"`
}

// Config is the resolved application configuration.
type Config struct {
	Dir      string `toml:"-" env:"DCI_CONFIG_DIR"`
	Debug    bool   `toml:"debug" env:"DCI_DEBUG"`
	DevTools bool   `toml:"devtools" env:"DCI_DEVTOOLS"`

	Window       WindowConfig       `toml:"window"`
	Log          LogConfig          `toml:"log"`
	FS           FSConfig           `toml:"fs"`
	Notification NotificationConfig `toml:"notification"`
}

// DefaultDir is ~/.drop-compress-image.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "."+AppName)
	}
	return filepath.Join(home, "."+AppName)
}

// Defaults returns the configuration used when nothing is set.
func Defaults(dir string) *Config {
	return &Config{
		Dir: dir,
		Window: WindowConfig{
			Title:     "Drop Compress Image",
			Width:     1024,
			Height:    768,
			MinWidth:  640,
			MinHeight: 480,

			RememberState: true,
		},
		Log: LogConfig{
			Level:   "info",
			Targets: []string{logging.TargetStdout, logging.TargetLogDir, logging.TargetWebview},
		},
		FS: FSConfig{
			Scope: []string{"$APPCONFIG", "$APPLOG", "$PICTURE", "$DOWNLOAD", "$DOCUMENT", "$DESKTOP", "$TEMP"},
		},
		Notification: NotificationConfig{Permission: PermissionDefault},
	}
}

// WindowStatePath is where the last window geometry is kept.
func (c *Config) WindowStatePath() string {
	return filepath.Join(c.Dir, "window-state.json")
}

// Load resolves the configuration. dir overrides DCI_CONFIG_DIR and the
// default location when non-empty.
func Load(dir string) (*Config, error) {
	if dir == "" {
		dir = os.Getenv("DCI_CONFIG_DIR")
	}
	if dir == "" {
		dir = DefaultDir()
	}
	cfg := Defaults(dir)

	data, err := os.ReadFile(cfg.Path())
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", cfg.Path(), err)
		}
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.Dir = dir

	cfg.normalize()
	return cfg, nil
}

func (c *Config) normalize() {
	def := Defaults(c.Dir)
	if c.Window.Title == "" {
		c.Window.Title = def.Window.Title
	}
	if c.Window.Width <= 0 {
		c.Window.Width = def.Window.Width
	}
	if c.Window.Height <= 0 {
		c.Window.Height = def.Window.Height
	}
	if c.Window.MinWidth < 0 {
		c.Window.MinWidth = 0
	}
	if c.Window.MinHeight < 0 {
		c.Window.MinHeight = 0
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		c.Log.Level = def.Log.Level
	}
	if c.Debug {
		c.Log.Level = logging.Debug.String()
	}
	c.Notification.Permission = normalizePermission(c.Notification.Permission)
}

// Path is the location of config.toml.
func (c *Config) Path() string {
	return filepath.Join(c.Dir, configFileName)
}

// LogDir is [log] dir or <config dir>/logs.
func (c *Config) LogDir() string {
	if c.Log.Dir != "" {
		return c.Log.Dir
	}
	return filepath.Join(c.Dir, "logs")
}

// LogLevel is the parsed [log] level.
func (c *Config) LogLevel() logging.Level {
	l, _ := logging.ParseLevel(c.Log.Level)
	return l
}

// HasLogTarget reports whether target is enabled.
func (c *Config) HasLogTarget(target string) bool {
	for _, t := range c.Log.Targets {
		if strings.EqualFold(strings.TrimSpace(t), target) {
			return true
		}
	}
	return false
}

// LoggingOptions translates the [log] section for logging.New.
func (c *Config) LoggingOptions() logging.Options {
	opts := logging.Options{
		Level:  c.LogLevel(),
		Stdout: c.HasLogTarget(logging.TargetStdout),
	}
	if c.HasLogTarget(logging.TargetLogDir) {
		opts.Dir = c.LogDir()
		opts.FileName = AppName + ".log"
	}
	return opts
}
