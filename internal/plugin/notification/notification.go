// Package notification sends native desktop notifications.
package notification

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gen2brain/beeep"

	"github.com/logue/drop-compress-image/internal/config"
)

var (
	ErrPermissionDenied = errors.New("notification permission not granted")
	ErrMissingTitle     = errors.New("notification title is required")
)

// Package-level hook for testing.
var notify = func(title, body, icon string) error {
	return beeep.Notify(title, body, icon)
}

// PermissionStore persists the user's decision. *config.Settings satisfies it.
type PermissionStore interface {
	NotificationPermission() (string, error)
	SetNotificationPermission(permission string) error
}

// Options is the SendNotification payload.
type Options struct {
	Title string `json:"title"`
	Body  string `json:"body,omitempty"`
	Icon  string `json:"icon,omitempty"`
}

// Notification is the "notification" plugin.
type Notification struct {
	store PermissionStore
}

func New(store PermissionStore) *Notification {
	return &Notification{store: store}
}

func (n *Notification) Name() string { return "notification" }

// IsPermissionGranted reports whether notifications may be sent.
func (n *Notification) IsPermissionGranted() (bool, error) {
	p, err := n.store.NotificationPermission()
	if err != nil {
		return false, err
	}
	return p == config.PermissionGranted, nil
}

// RequestPermission grants permission unless the user denied it earlier.
// Desktop platforms have no runtime prompt, so "default" becomes "granted".
func (n *Notification) RequestPermission() (string, error) {
	p, err := n.store.NotificationPermission()
	if err != nil {
		return config.PermissionDefault, err
	}
	if p != config.PermissionDefault {
		return p, nil
	}
	if err := n.store.SetNotificationPermission(config.PermissionGranted); err != nil {
		return config.PermissionDefault, fmt.Errorf("save notification permission: %w", err)
	}
	return config.PermissionGranted, nil
}

// SendNotification shows a notification.
func (n *Notification) SendNotification(opts Options) error {
	title := strings.TrimSpace(opts.Title)
	if title == "" {
		return ErrMissingTitle
	}
	granted, err := n.IsPermissionGranted()
	if err != nil {
		return err
	}
	if !granted {
		return ErrPermissionDenied
	}
	if err := notify(title, opts.Body, opts.Icon); err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	return nil
}
