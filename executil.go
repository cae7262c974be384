package streamrun

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/sa6mwa/streamrun/port"
)

// StartCommand starts cmd using the supplied runner with both output streams
// forwarded chunk by chunk to sink. It returns once the process is running. A
// start failure is returned as a *SpawnError and cmd's streams are reset.
func StartCommand(runner port.CommandRunner, cmd *exec.Cmd, sink port.Sink) error {
	if runner == nil {
		return ERR_NIL_RUNNER
	}
	if sink == nil {
		return ERR_NIL_SINK
	}
	if cmd == nil {
		return fmt.Errorf("nil command")
	}
	if cmd.Stdout != nil || cmd.Stderr != nil {
		return fmt.Errorf("streamed output requested with configured stdout or stderr")
	}
	cmd.Stdout = &chunkWriter{stream: port.Stdout, sink: sink}
	cmd.Stderr = &chunkWriter{stream: port.Stderr, sink: sink}
	if err := runner.Start(cmd); err != nil {
		cmd.Stdout = nil
		cmd.Stderr = nil
		return newSpawnError(cmd.Path, err)
	}
	return nil
}

// WaitCommand waits for cmd to exit and returns a Result capturing the exit
// code. Exiting with a non-zero status is not an error.
func WaitCommand(runner port.CommandRunner, cmd *exec.Cmd) Result {
	if runner == nil {
		return Result{ExitCode: -1, Error: ERR_NIL_RUNNER}
	}
	err := runner.Wait(cmd)
	res := Result{ExitCode: exitCodeFrom(err, cmd.ProcessState)}
	var exitErr *exec.ExitError
	if err != nil && !(errors.As(err, &exitErr) && exitErr.Exited()) {
		res.Error = err
	}
	return res
}

func exitCodeFrom(waitErr error, state *os.ProcessState) int {
	if state != nil {
		return state.ExitCode()
	}
	if waitErr == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) && exitErr.ProcessState != nil {
		return exitErr.ProcessState.ExitCode()
	}
	return -1
}
