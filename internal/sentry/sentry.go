// Package sentry wraps the Sentry SDK for optional error monitoring.
// Disabled unless a DSN is configured. Bookmark content never leaves
// the machine: URLs, titles, and notes are redacted from every event.
package sentry

import (
	"fmt"
	"regexp"
	"runtime"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/shamilbi/bookmarks-curses/internal/config"
	"github.com/shamilbi/bookmarks-curses/internal/logger"
)

// Client wraps the Sentry hub with application-specific setup
type Client struct {
	hub         *sentry.Hub
	config      *config.SentryConfig
	logger      *logger.Logger
	initialized bool
	version     string
	commit      string
	buildDate   string
}

var urlPattern = regexp.MustCompile(`\bhttps?://\S+`)

// NewClient creates a Sentry client. With monitoring disabled or no DSN
// configured the client is inert and every method is a no-op.
func NewClient(cfg *config.Config, version, commit, buildDate string) (*Client, error) {
	client := &Client{
		config:    &cfg.Sentry,
		logger:    logger.GetLogger().WithComponent("sentry"),
		version:   version,
		commit:    commit,
		buildDate: buildDate,
	}

	if err := client.initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize Sentry client: %w", err)
	}

	return client, nil
}

func (c *Client) initialize() error {
	if !c.config.Enabled {
		c.logger.Debug().Msg("Sentry monitoring disabled")
		return nil
	}

	if c.config.DSN == "" {
		c.logger.Warn().Msg("Sentry DSN not configured, monitoring disabled")
		return nil
	}

	release := c.version
	if c.commit != "" {
		release = fmt.Sprintf("%s-%s", c.version, c.commit)
	}
	if c.config.Release != "" {
		release = c.config.Release
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              c.config.DSN,
		Environment:      c.config.Environment,
		Release:          release,
		SampleRate:       c.config.SampleRate,
		Debug:            c.config.Debug,
		AttachStacktrace: true,
		BeforeSend: func(event *sentry.Event, hint *sentry.EventHint) *sentry.Event {
			return c.sanitizeEvent(event)
		},
	})
	if err != nil {
		return fmt.Errorf("failed to initialize Sentry SDK: %w", err)
	}

	c.hub = sentry.CurrentHub().Clone()
	c.configureContext()
	c.initialized = true

	c.logger.Info().
		Str("environment", c.config.Environment).
		Str("release", release).
		Float64("sample_rate", c.config.SampleRate).
		Msg("Sentry monitoring initialized")

	return nil
}

// configureContext sets safe default tags for all events
func (c *Client) configureContext() {
	c.hub.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTag("app.name", "bookmarks-curses")
		scope.SetTag("app.version", c.version)
		scope.SetTag("app.commit", c.commit)
		scope.SetTag("app.build_date", c.buildDate)

		scope.SetTag("os", runtime.GOOS)
		scope.SetTag("arch", runtime.GOARCH)
		scope.SetTag("go_version", runtime.Version())

		scope.SetContext("runtime", map[string]interface{}{
			"go_version": runtime.Version(),
			"go_os":      runtime.GOOS,
			"go_arch":    runtime.GOARCH,
		})
	})
}

// sanitizeEvent strips bookmark content from an outgoing event
func (c *Client) sanitizeEvent(event *sentry.Event) *sentry.Event {
	if event == nil {
		return nil
	}

	event.Message = sanitizeValue(event.Message)
	for i := range event.Exception {
		event.Exception[i].Value = sanitizeValue(event.Exception[i].Value)
	}
	for i := range event.Breadcrumbs {
		event.Breadcrumbs[i].Message = sanitizeValue(event.Breadcrumbs[i].Message)
		event.Breadcrumbs[i].Data = nil
	}

	// User data has no place in a single-user tool's reports
	event.User = sentry.User{}
	event.ServerName = ""

	return event
}

// sanitizeValue redacts anything that looks like a URL
func sanitizeValue(s string) string {
	return urlPattern.ReplaceAllString(s, "[url]")
}

// CaptureError reports an error tagged with component and operation
func (c *Client) CaptureError(err error, component, operation string) {
	if !c.initialized || err == nil {
		return
	}

	c.hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("component", component)
		scope.SetTag("operation", operation)
		c.hub.CaptureException(err)
	})

	c.logger.Debug().
		Str("component", component).
		Str("operation", operation).
		Err(err).
		Msg("Error captured by Sentry")
}

// CaptureMessage reports a message at the given level
func (c *Client) CaptureMessage(message, level, component string) {
	if !c.initialized {
		return
	}

	sentryLevel := sentry.LevelInfo
	switch level {
	case "debug":
		sentryLevel = sentry.LevelDebug
	case "warn", "warning":
		sentryLevel = sentry.LevelWarning
	case "error":
		sentryLevel = sentry.LevelError
	case "fatal":
		sentryLevel = sentry.LevelFatal
	}

	c.hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("component", component)
		scope.SetLevel(sentryLevel)
		c.hub.CaptureMessage(sanitizeValue(message))
	})
}

// Flush waits for pending events to be sent
func (c *Client) Flush(timeout time.Duration) bool {
	if !c.initialized {
		return true
	}
	return sentry.Flush(timeout)
}

// Close flushes and shuts the client down
func (c *Client) Close() {
	if c.initialized {
		c.Flush(2 * time.Second)
		c.initialized = false
		c.logger.Debug().Msg("Sentry client closed")
	}
}

// IsEnabled returns whether monitoring is active
func (c *Client) IsEnabled() bool {
	return c.initialized
}
