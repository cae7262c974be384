package port

import (
	"os/exec"
)

// CommandRunner abstracts process spawning so runners can be plugged in across
// packages without depending on a specific adapter implementation. Start must
// return as soon as the process is running; Wait blocks until it has exited
// and its output streams are drained.
type CommandRunner interface {
	Start(cmd *exec.Cmd) error
	Wait(cmd *exec.Cmd) error
}
