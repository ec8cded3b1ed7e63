// Package tools wraps the external programs the interface delegates to:
// the system clipboard, the URL launcher, and the QR code renderer.
package tools

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/shamilbi/bookmarks-curses/internal/logger"
)

// ToolError describes a failed or missing external program
type ToolError struct {
	Tool string
	Err  error
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("%s: %v", e.Tool, e.Err)
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

func newToolError(tool string, err error) *ToolError {
	return &ToolError{Tool: tool, Err: err}
}

// CopyToClipboard puts text on the system clipboard
func CopyToClipboard(text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return newToolError("clipboard", err)
	}
	logger.GetLogger().WithComponent("tools").Debug().Int("length", len(text)).Msg("Copied to clipboard")
	return nil
}

// launcherCommand returns the platform's URL opener
func launcherCommand() string {
	if runtime.GOOS == "darwin" {
		return "open"
	}
	return "xdg-open"
}

// OpenURL hands the URL to the platform launcher and waits for it
func OpenURL(url string) error {
	launcher := launcherCommand()

	if _, err := exec.LookPath(launcher); err != nil {
		return newToolError(launcher, err)
	}

	cmd := exec.Command(launcher, url)
	if err := cmd.Run(); err != nil {
		return newToolError(launcher, err)
	}

	logger.GetLogger().WithComponent("tools").Debug().Str("url", url).Msg("URL launched")
	return nil
}

// QRCommand builds the command that renders a URL as a QR code in the
// terminal. The URL is fed on stdin so it never appears in the process
// list; the shell tail keeps the code on screen until enter is pressed.
// The caller runs the command through the TUI's exec facility.
func QRCommand(url string) (*exec.Cmd, error) {
	if _, err := exec.LookPath("qrencode"); err != nil {
		return nil, newToolError("qrencode", err)
	}

	cmd := exec.Command("sh", "-c", `qrencode -t ansiutf8 && printf '\npress enter...' && read dummy`)
	cmd.Stdin = strings.NewReader(url)
	return cmd, nil
}
