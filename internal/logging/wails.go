package logging

import (
	"github.com/rs/zerolog"
	wailsLogger "github.com/wailsapp/wails/v2/pkg/logger"
)

// WailsLogger routes the framework's own log output into zerolog.
type WailsLogger struct {
	logger zerolog.Logger
}

var _ wailsLogger.Logger = (*WailsLogger)(nil)

// NewWailsLogger tags every record with component=wails.
func NewWailsLogger(logger zerolog.Logger) *WailsLogger {
	return &WailsLogger{logger: logger.With().Str("component", "wails").Logger()}
}

func (w *WailsLogger) Print(message string)   { w.logger.Log().Msg(message) }
func (w *WailsLogger) Trace(message string)   { w.logger.Trace().Msg(message) }
func (w *WailsLogger) Debug(message string)   { w.logger.Debug().Msg(message) }
func (w *WailsLogger) Info(message string)    { w.logger.Info().Msg(message) }
func (w *WailsLogger) Warning(message string) { w.logger.Warn().Msg(message) }
func (w *WailsLogger) Error(message string)   { w.logger.Error().Msg(message) }

// Fatal records at fatal level without exiting; the framework decides
// whether to stop.
func (w *WailsLogger) Fatal(message string) { w.logger.WithLevel(zerolog.FatalLevel).Msg(message) }

// WailsLevel maps a Level onto the framework's log level.
func WailsLevel(l Level) wailsLogger.LogLevel {
	switch l {
	case Trace:
		return wailsLogger.TRACE
	case Debug:
		return wailsLogger.DEBUG
	case Warn:
		return wailsLogger.WARNING
	case Error:
		return wailsLogger.ERROR
	default:
		return wailsLogger.INFO
	}
}
