package desktop

import (
	"github.com/rs/zerolog"

	"github.com/logue/drop-compress-image/internal/config"
	"github.com/logue/drop-compress-image/internal/plugin"
	"github.com/logue/drop-compress-image/internal/plugin/dialog"
	"github.com/logue/drop-compress-image/internal/plugin/filesystem"
	"github.com/logue/drop-compress-image/internal/plugin/logbridge"
	"github.com/logue/drop-compress-image/internal/plugin/notification"
	"github.com/logue/drop-compress-image/internal/plugin/opener"
	"github.com/logue/drop-compress-image/internal/plugin/osinfo"
)

// Plugins registers the native capabilities available to the UI.
func Plugins(cfg *config.Config, logger zerolog.Logger) (*plugin.Host, error) {
	scope := filesystem.NewScope(cfg.FS.Scope, filesystem.Vars(cfg.Dir, cfg.LogDir()))
	return plugin.NewHost(
		dialog.New(),
		filesystem.New(scope),
		notification.New(config.NewSettings(cfg)),
		opener.New(scope),
		osinfo.New(),
		logbridge.New(logger),
	)
}
