package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
)

// Notification permission states.
const (
	PermissionGranted = "granted"
	PermissionDenied  = "denied"
	PermissionDefault = "default"
)

func normalizePermission(p string) string {
	switch p = strings.ToLower(strings.TrimSpace(p)); p {
	case PermissionGranted, PermissionDenied:
		return p
	default:
		return PermissionDefault
	}
}

// Settings persists values the app changes at runtime into config.toml,
// leaving every other section of the file untouched.
type Settings struct {
	mu         sync.Mutex
	configPath string
}

// NewSettings manages the config.toml of cfg.
func NewSettings(cfg *Config) *Settings {
	return &Settings{configPath: cfg.Path()}
}

func (s *Settings) load() (map[string]interface{}, bool, error) {
	data, err := os.ReadFile(s.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]interface{}), false, nil
		}
		return nil, false, err
	}

	existing := make(map[string]interface{})
	if len(data) > 0 {
		if err := toml.Unmarshal(data, &existing); err != nil {
			// Unparseable file: start over rather than refuse to save.
			return make(map[string]interface{}), true, nil
		}
	}
	return existing, len(data) > 0, nil
}

func (s *Settings) save(existing map[string]interface{}, hadContent bool) error {
	if err := os.MkdirAll(filepath.Dir(s.configPath), 0o700); err != nil {
		return err
	}

	var buf bytes.Buffer
	if !hadContent {
		buf.WriteString("# Drop Compress Image configuration\n\n")
	}
	if err := toml.NewEncoder(&buf).Encode(existing); err != nil {
		return err
	}
	return os.WriteFile(s.configPath, buf.Bytes(), 0o600)
}

// setKey writes section.key = value.
func (s *Settings) setKey(section, key string, value interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, hadContent, err := s.load()
	if err != nil {
		return err
	}

	sec, ok := existing[section].(map[string]interface{})
	if !ok {
		sec = make(map[string]interface{})
	}
	sec[key] = value
	existing[section] = sec

	return s.save(existing, hadContent)
}

func (s *Settings) getKey(section, key string) (interface{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, _, err := s.load()
	if err != nil {
		return nil, err
	}
	sec, ok := existing[section].(map[string]interface{})
	if !ok {
		return nil, nil
	}
	return sec[key], nil
}

// NotificationPermission returns the stored permission, "default" when unset.
func (s *Settings) NotificationPermission() (string, error) {
	v, err := s.getKey("notification", "permission")
	if err != nil {
		return PermissionDefault, err
	}
	str, _ := v.(string)
	return normalizePermission(str), nil
}

// SetNotificationPermission stores the permission.
func (s *Settings) SetNotificationPermission(permission string) error {
	return s.setKey("notification", "permission", normalizePermission(permission))
}
