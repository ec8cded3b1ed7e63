package sentry

import (
	"github.com/rs/zerolog"
)

// ZerologHook forwards error-level log events to Sentry so failures
// logged deep in the storage or import paths still get reported
type ZerologHook struct {
	client   *Client
	minLevel zerolog.Level
}

// NewZerologHook creates a hook reporting events at or above minLevel.
// Levels below error are never forwarded regardless of minLevel.
func NewZerologHook(client *Client, minLevel zerolog.Level) *ZerologHook {
	if minLevel < zerolog.ErrorLevel {
		minLevel = zerolog.ErrorLevel
	}
	return &ZerologHook{
		client:   client,
		minLevel: minLevel,
	}
}

// Run is called by zerolog for each log event
func (h *ZerologHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	if h.client == nil || !h.client.IsEnabled() || level < h.minLevel {
		return
	}

	switch level {
	case zerolog.ErrorLevel:
		h.client.CaptureMessage(msg, "error", "log")
	case zerolog.FatalLevel, zerolog.PanicLevel:
		h.client.CaptureMessage(msg, "fatal", "log")
	}
}
