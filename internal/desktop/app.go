// Package desktop provides the native desktop app for Drop Compress Image:
// the object bound to the UI, its lifecycle and the Wails options.
package desktop

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"sync"

	"github.com/rs/zerolog"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"github.com/logue/drop-compress-image/internal/command"
	"github.com/logue/drop-compress-image/internal/config"
	"github.com/logue/drop-compress-image/internal/logging"
	"github.com/logue/drop-compress-image/internal/plugin"
)

// Version is set at build time via ldflags.
var Version = "0.1.0-dev"

// Package-level hook for testing.
var eventsEmit logging.Emitter = wailsRuntime.EventsEmit

// App struct holds the application state.
type App struct {
	cfg      *config.Config
	logger   zerolog.Logger
	registry *command.Registry
	plugins  *plugin.Host

	mu          sync.RWMutex
	ctx         context.Context
	sink        logging.Sink
	savedWindow *WindowState
}

// NewApp creates a new App application struct.
func NewApp(cfg *config.Config, logger zerolog.Logger, plugins *plugin.Host) (*App, error) {
	registry, err := command.New(Version)
	if err != nil {
		return nil, err
	}
	if plugins == nil {
		if plugins, err = plugin.NewHost(); err != nil {
			return nil, err
		}
	}
	return &App{
		cfg:      cfg,
		logger:   logger,
		registry: registry,
		plugins:  plugins,
		ctx:      logging.WithLogger(context.Background(), logger),
		sink:     logging.NewZerologSink(logger),
	}, nil
}

// startup is called when the app starts. The context is saved
// so we can call the runtime methods.
func (a *App) startup(ctx context.Context) {
	ctx = logging.WithLogger(ctx, a.logger)

	sinks := []logging.Sink{logging.NewZerologSink(a.logger)}
	if a.cfg.HasLogTarget(logging.TargetWebview) {
		sinks = append(sinks, logging.NewWebviewSink(ctx, eventsEmit, a.cfg.LogLevel()))
	}

	a.mu.Lock()
	a.ctx = ctx
	a.sink = logging.Tee(sinks...)
	a.mu.Unlock()

	if err := a.plugins.Startup(ctx); err != nil {
		a.logger.Error().Err(err).Msg("plugin startup failed")
		return
	}
	a.logger.Info().
		Str("version", Version).
		Strs("commands", a.registry.Names()).
		Strs("plugins", a.plugins.Names()).
		Msg("application started")
}

// shutdown is called when the app is closing.
func (a *App) shutdown(ctx context.Context) {
	a.plugins.Shutdown(ctx)
	a.logger.Info().Msg("application stopped")
}

func (a *App) state() (context.Context, logging.Sink) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.ctx, a.sink
}

// Invoke dispatches a named command with a JSON argument object.
func (a *App) Invoke(name string, payload json.RawMessage) (string, error) {
	ctx, sink := a.state()
	return a.registry.Invoke(ctx, name, sink, payload)
}

func (a *App) invokeArgs(name string, args any) (string, error) {
	payload, err := json.Marshal(args)
	if err != nil {
		return "", fmt.Errorf("%w: %v", command.ErrInvalidPayload, err)
	}
	return a.Invoke(name, payload)
}

// EchoMessage returns the message prefixed with "Echo: ".
func (a *App) EchoMessage(message string) (string, error) {
	return a.invokeArgs(command.EchoMessageName, map[string]any{"message": message})
}

// GetAppVersion returns the application version.
func (a *App) GetAppVersion() (string, error) {
	return a.invokeArgs(command.GetAppVersionName, struct{}{})
}

// ProcessData summarises data together with the given options. A null
// options value means the defaults.
func (a *App) ProcessData(data string, options command.Options) (string, error) {
	return a.invokeArgs(command.ProcessDataName, map[string]any{"data": data, "options": options})
}

// Commands lists the names Invoke accepts.
func (a *App) Commands() []string {
	return a.registry.Names()
}

// NewOptions builds the Wails application options with the app and all
// plugins bound.
func NewOptions(a *App, assets fs.FS) *options.App {
	bind := append([]interface{}{a}, a.plugins.Bindings()...)
	level := logging.WailsLevel(a.cfg.LogLevel())

	opts := &options.App{
		Title:     a.cfg.Window.Title,
		Width:     a.cfg.Window.Width,
		Height:    a.cfg.Window.Height,
		MinWidth:  a.cfg.Window.MinWidth,
		MinHeight: a.cfg.Window.MinHeight,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		BackgroundColour:   &options.RGBA{R: 27, G: 38, B: 54, A: 1},
		OnStartup:          a.startup,
		OnShutdown:         a.shutdown,
		OnDomReady:         a.domReady,
		OnBeforeClose:      a.beforeClose,
		Bind:               bind,
		Logger:             logging.NewWailsLogger(a.logger),
		LogLevel:           level,
		LogLevelProduction: level,
		Debug: options.Debug{
			OpenInspectorOnStartup: a.cfg.DevTools,
		},
	}

	if a.cfg.Window.RememberState {
		state, err := loadWindowState(a.cfg.WindowStatePath())
		if err != nil {
			a.logger.Warn().Err(err).Msg("ignoring saved window state")
		}
		if applyWindowState(opts, state) {
			a.mu.Lock()
			a.savedWindow = state
			a.mu.Unlock()
		}
	}
	return opts
}
