package commandrunner

import (
	"os/exec"

	"github.com/sa6mwa/streamrun/port"
)

// DefaultRunner spawns commands using os/exec directly.
type DefaultRunner struct{}

var _ port.CommandRunner = DefaultRunner{}

// Start starts cmd without waiting for it to complete.
func (DefaultRunner) Start(cmd *exec.Cmd) error {
	return cmd.Start()
}

// Wait waits for cmd to exit and for its stdout and stderr copy loops to
// finish.
func (DefaultRunner) Wait(cmd *exec.Cmd) error {
	return cmd.Wait()
}

// Default is a shared instance of DefaultRunner.
var Default port.CommandRunner = DefaultRunner{}
