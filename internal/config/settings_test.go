package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsNotificationPermissionDefault(t *testing.T) {
	s := NewSettings(Defaults(t.TempDir()))

	p, err := s.NotificationPermission()
	require.NoError(t, err)
	assert.Equal(t, PermissionDefault, p)
}

func TestSettingsNotificationPermissionPersistence(t *testing.T) {
	dir := t.TempDir()
	cfg := Defaults(dir)

	require.NoError(t, NewSettings(cfg).SetNotificationPermission("granted"))

	// A fresh instance reads the saved value back.
	p, err := NewSettings(cfg).NotificationPermission()
	require.NoError(t, err)
	assert.Equal(t, PermissionGranted, p)

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, PermissionGranted, loaded.Notification.Permission)

	data, err := os.ReadFile(filepath.Join(dir, "config.toml"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# Drop Compress Image configuration"))
}

func TestSettingsInvalidPermissionIsDefault(t *testing.T) {
	s := NewSettings(Defaults(t.TempDir()))
	require.NoError(t, s.SetNotificationPermission("maybe"))

	p, err := s.NotificationPermission()
	require.NoError(t, err)
	assert.Equal(t, PermissionDefault, p)
}

func TestSettingsPreservesOtherSections(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
[window]
title = "Mine"
width = 900

[log]
level = "debug"
`)

	s := NewSettings(Defaults(dir))
	require.NoError(t, s.SetNotificationPermission(PermissionDenied))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "Mine", cfg.Window.Title)
	assert.Equal(t, 900, cfg.Window.Width)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, PermissionDenied, cfg.Notification.Permission)

	data, err := os.ReadFile(filepath.Join(dir, "config.toml"))
	require.NoError(t, err)
	assert.False(t, strings.HasPrefix(string(data), "#"), "header only written for new files")
}

func TestSettingsCorruptFileIsReplaced(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "not = [valid")

	s := NewSettings(Defaults(dir))
	require.NoError(t, s.SetNotificationPermission(PermissionGranted))

	p, err := s.NotificationPermission()
	require.NoError(t, err)
	assert.Equal(t, PermissionGranted, p)
}
