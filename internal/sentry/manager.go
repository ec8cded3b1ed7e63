package sentry

import (
	"sync"
	"time"

	"github.com/shamilbi/bookmarks-curses/internal/config"
)

// Global client access for the few places that report errors without
// carrying a client around.
var (
	globalClient *Client
	globalOnce   sync.Once
	globalMu     sync.RWMutex
)

// Initialize sets up the global Sentry client. Safe to call when
// monitoring is disabled; every later call through the package becomes
// a no-op in that case.
func Initialize(cfg *config.Config, version, commit, buildDate string) error {
	var initErr error

	globalOnce.Do(func() {
		client, err := NewClient(cfg, version, commit, buildDate)
		if err != nil {
			initErr = err
			return
		}

		globalMu.Lock()
		globalClient = client
		globalMu.Unlock()
	})

	return initErr
}

// Get returns the global client, or nil before Initialize
func Get() *Client {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalClient
}

// CaptureError reports through the global client when one exists
func CaptureError(err error, component, operation string) {
	if client := Get(); client != nil {
		client.CaptureError(err, component, operation)
	}
}

// IsEnabled reports whether the global client is active
func IsEnabled() bool {
	client := Get()
	return client != nil && client.IsEnabled()
}

// Flush waits for pending events on the global client
func Flush(timeout time.Duration) bool {
	if client := Get(); client != nil {
		return client.Flush(timeout)
	}
	return true
}

// Close shuts the global client down
func Close() {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalClient != nil {
		globalClient.Close()
		globalClient = nil
	}
}
