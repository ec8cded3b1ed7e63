package output

import (
	"os"
	"strings"
)

// ColorFormatter handles colored output based on configuration
type ColorFormatter struct {
	config  *OutputSettings
	enabled bool
	isTTY   bool
}

// OutputSettings mirrors the output section of the configuration
type OutputSettings struct {
	ColorsEnabled bool
	AutoDetectTTY bool
}

// StatusType represents different types of CLI output status
type StatusType string

const (
	StatusSuccess StatusType = "success"
	StatusError   StatusType = "error"
	StatusWarning StatusType = "warning"
	StatusInfo    StatusType = "info"
	StatusTip     StatusType = "tip"
	StatusDone    StatusType = "done"
)

// ANSI escape sequences
const (
	ansiReset = "\033[0m"
	ansiBold  = "\033[1m"
)

var statusColors = map[StatusType]string{
	StatusSuccess: "\033[32m", // Green
	StatusError:   "\033[31m", // Red
	StatusWarning: "\033[33m", // Yellow
	StatusInfo:    "\033[34m", // Blue
	StatusTip:     "\033[36m", // Cyan
	StatusDone:    "\033[32m", // Green
}

// NewColorFormatter creates a new color formatter with the given settings
func NewColorFormatter(settings *OutputSettings) *ColorFormatter {
	cf := &ColorFormatter{
		config: settings,
		isTTY:  isTerminal(),
	}

	cf.enabled = settings.ColorsEnabled && (!settings.AutoDetectTTY || cf.isTTY)

	// NO_COLOR convention wins over configuration
	if os.Getenv("NO_COLOR") != "" {
		cf.enabled = false
	}

	return cf
}

// SetNoColor disables color output (for --no-color flag)
func (cf *ColorFormatter) SetNoColor(noColor bool) {
	cf.enabled = cf.config.ColorsEnabled && !noColor && (!cf.config.AutoDetectTTY || cf.isTTY)
	if os.Getenv("NO_COLOR") != "" {
		cf.enabled = false
	}
}

func (cf *ColorFormatter) Success(message string) string {
	return cf.formatStatus("[OK]", message, StatusSuccess)
}

func (cf *ColorFormatter) Error(message string) string {
	return cf.formatStatus("[FAIL]", message, StatusError)
}

func (cf *ColorFormatter) Warning(message string) string {
	return cf.formatStatus("[WARN]", message, StatusWarning)
}

func (cf *ColorFormatter) Info(message string) string {
	return cf.formatStatus("[INFO]", message, StatusInfo)
}

func (cf *ColorFormatter) Tip(message string) string {
	return cf.formatStatus("[TIP]", message, StatusTip)
}

func (cf *ColorFormatter) Done(message string) string {
	return cf.formatStatus("[DONE]", message, StatusDone)
}

// formatStatus formats a status message with a colored indicator
func (cf *ColorFormatter) formatStatus(indicator, message string, statusType StatusType) string {
	if !cf.enabled {
		return indicator + " " + message
	}

	colorCode := statusColors[statusType]
	if colorCode == "" {
		return indicator + " " + message
	}

	return colorCode + indicator + ansiReset + " " + message
}

// Colorize applies color to text based on status type
func (cf *ColorFormatter) Colorize(text string, statusType StatusType) string {
	if !cf.enabled {
		return text
	}

	colorCode := statusColors[statusType]
	if colorCode == "" {
		return text
	}

	return colorCode + text + ansiReset
}

// Bold makes text bold when colors are enabled
func (cf *ColorFormatter) Bold(text string) string {
	if !cf.enabled {
		return text
	}
	return ansiBold + text + ansiReset
}

// Section creates a section header with separator
func (cf *ColorFormatter) Section(title string) string {
	return cf.Bold(title) + "\n" + strings.Repeat("=", len(title))
}

// IsEnabled returns whether colors are currently enabled
func (cf *ColorFormatter) IsEnabled() bool {
	return cf.enabled
}

// isTerminal checks if stdout is a terminal
func isTerminal() bool {
	fileInfo, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}
