// Package output formats CLI messages for the maintenance subcommands.
// The interactive interface renders through lipgloss instead; this
// package covers everything printed outside of it.
package output

import (
	"fmt"
	"os"

	"github.com/shamilbi/bookmarks-curses/internal/config"
)

// Formatter provides a high-level interface for CLI output formatting
type Formatter struct {
	colorFormatter *ColorFormatter
	verboseMode    bool
	quietMode      bool
}

// NewFormatter creates a new formatter instance from config
func NewFormatter(cfg *config.Config) *Formatter {
	return &Formatter{
		colorFormatter: NewColorFormatter(&OutputSettings{
			ColorsEnabled: cfg.Output.ColorsEnabled,
			AutoDetectTTY: cfg.Output.AutoDetectTTY,
		}),
	}
}

// SetFlags configures the formatter based on command line flags
func (f *Formatter) SetFlags(verbose, quiet, noColor bool) {
	f.verboseMode = verbose
	f.quietMode = quiet
	f.colorFormatter.SetNoColor(noColor)
}

// Success prints a success message (always shown unless quiet)
func (f *Formatter) Success(format string, args ...interface{}) {
	if !f.quietMode {
		fmt.Println(f.colorFormatter.Success(fmt.Sprintf(format, args...)))
	}
}

// Error prints an error message (always shown)
func (f *Formatter) Error(format string, args ...interface{}) {
	fmt.Fprintln(os.Stderr, f.colorFormatter.Error(fmt.Sprintf(format, args...)))
}

// Warning prints a warning message (always shown unless quiet)
func (f *Formatter) Warning(format string, args ...interface{}) {
	if !f.quietMode {
		fmt.Println(f.colorFormatter.Warning(fmt.Sprintf(format, args...)))
	}
}

// Info prints an info message
func (f *Formatter) Info(format string, args ...interface{}) {
	if !f.quietMode {
		fmt.Println(f.colorFormatter.Info(fmt.Sprintf(format, args...)))
	}
}

// Verbose prints a message only in verbose mode
func (f *Formatter) Verbose(format string, args ...interface{}) {
	if f.verboseMode && !f.quietMode {
		fmt.Println(f.colorFormatter.Info(fmt.Sprintf(format, args...)))
	}
}

// Tip prints a tip message (shown unless quiet)
func (f *Formatter) Tip(format string, args ...interface{}) {
	if !f.quietMode {
		fmt.Println(f.colorFormatter.Tip(fmt.Sprintf(format, args...)))
	}
}

// Done prints a completion message
func (f *Formatter) Done(format string, args ...interface{}) {
	if !f.quietMode {
		fmt.Println(f.colorFormatter.Done(fmt.Sprintf(format, args...)))
	}
}

// Print prints a plain message without status indicators
func (f *Formatter) Print(format string, args ...interface{}) {
	if !f.quietMode {
		fmt.Printf(format, args...)
	}
}

// Println prints a plain message with newline
func (f *Formatter) Println(format string, args ...interface{}) {
	if !f.quietMode {
		fmt.Printf(format+"\n", args...)
	}
}

// Header prints a formatted section header
func (f *Formatter) Header(title string) {
	if !f.quietMode {
		fmt.Println(f.colorFormatter.Section(title))
		fmt.Println()
	}
}

// Bold formats text as bold
func (f *Formatter) Bold(text string) string {
	return f.colorFormatter.Bold(text)
}

// Colorize applies color to text
func (f *Formatter) Colorize(text string, statusType StatusType) string {
	return f.colorFormatter.Colorize(text, statusType)
}

// IsColorsEnabled returns whether colors are enabled
func (f *Formatter) IsColorsEnabled() bool {
	return f.colorFormatter.IsEnabled()
}

// IsVerbose returns whether verbose mode is active
func (f *Formatter) IsVerbose() bool {
	return f.verboseMode
}

// IsQuiet returns whether quiet mode is active
func (f *Formatter) IsQuiet() bool {
	return f.quietMode
}
