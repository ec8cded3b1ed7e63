package tools

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToolError(t *testing.T) {
	inner := errors.New("executable file not found in $PATH")
	err := newToolError("qrencode", inner)

	assert.Contains(t, err.Error(), "qrencode")
	assert.ErrorIs(t, err, inner)

	var toolErr *ToolError
	assert.ErrorAs(t, error(err), &toolErr)
	assert.Equal(t, "qrencode", toolErr.Tool)
}

func TestLauncherCommand(t *testing.T) {
	// Platform-dependent but always one of the two
	cmd := launcherCommand()
	assert.Contains(t, []string{"xdg-open", "open"}, cmd)
}
