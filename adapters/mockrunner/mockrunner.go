package mockrunner

import (
	"errors"
	"os/exec"
	"slices"
	"sync"

	"github.com/sa6mwa/streamrun/port"
)

// Behavior represents a single scripted child. It runs synchronously inside
// Start, typically writing to cmd.Stdout and cmd.Stderr, and its return value
// is what the following Wait reports.
type Behavior func(cmd *exec.Cmd) error

type startFailure struct{ err error }

func (s startFailure) Error() string { return s.err.Error() }

// FailStart returns a Behavior that makes Start itself fail with err, the way
// a missing or non-executable path does.
func FailStart(err error) Behavior {
	return func(*exec.Cmd) error {
		return startFailure{err: err}
	}
}

// Exit returns a Behavior that writes stdout and stderr and then reports the
// given wait error.
func Exit(stdout, stderr string, waitErr error) Behavior {
	return func(cmd *exec.Cmd) error {
		if stdout != "" && cmd.Stdout != nil {
			if _, err := cmd.Stdout.Write([]byte(stdout)); err != nil {
				return err
			}
		}
		if stderr != "" && cmd.Stderr != nil {
			if _, err := cmd.Stderr.Write([]byte(stderr)); err != nil {
				return err
			}
		}
		return waitErr
	}
}

// Runner is a thread-safe mock implementation of port.CommandRunner.
type Runner struct {
	mu        sync.Mutex
	behaviors []Behavior
	pending   map[*exec.Cmd]error
	Calls     int
	Waits     int
	Paths     []string
	Args      [][]string
}

var _ port.CommandRunner = (*Runner)(nil)

// New constructs a Runner that will invoke behaviors sequentially for each
// Start call.
func New(behaviors ...Behavior) *Runner {
	return &Runner{
		behaviors: slices.Clone(behaviors),
		pending:   make(map[*exec.Cmd]error),
	}
}

// Start records the call metadata and dispatches to the next behavior.
func (r *Runner) Start(cmd *exec.Cmd) error {
	r.mu.Lock()
	r.Calls++
	r.Paths = append(r.Paths, cmd.Path)
	r.Args = append(r.Args, slices.Clone(cmd.Args))
	var behavior Behavior
	if len(r.behaviors) > 0 {
		behavior = r.behaviors[0]
		r.behaviors = r.behaviors[1:]
	}
	r.mu.Unlock()

	var waitErr error
	if behavior != nil {
		waitErr = behavior(cmd)
	}
	var sf startFailure
	if errors.As(waitErr, &sf) {
		return sf.err
	}
	r.mu.Lock()
	r.pending[cmd] = waitErr
	r.mu.Unlock()
	return nil
}

// Wait returns the error produced by the behavior that started cmd.
func (r *Runner) Wait(cmd *exec.Cmd) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Waits++
	err, ok := r.pending[cmd]
	if !ok {
		return errors.New("mockrunner: not started")
	}
	delete(r.pending, cmd)
	return err
}

// Remaining returns the number of queued behaviors that have not yet been consumed.
func (r *Runner) Remaining() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.behaviors)
}
