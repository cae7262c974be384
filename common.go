package streamrun

import "context"

// Child is the handle of one spawned process. Args is a snapshot taken at
// spawn and is not shared with the caller's slice.
type Child struct {
	ID   string
	Path string
	Args []string
	PID  int
	// Done receives exactly one Result once the process has exited and both
	// output streams are drained. It is buffered; nobody has to read it.
	Done <-chan Result

	finished chan struct{}
	result   Result
}

// Wait blocks until the child has exited and its output has been forwarded.
// It can be called any number of times, also after Done has been read.
func (c *Child) Wait() Result {
	if c == nil {
		return Result{}
	}
	return c.WaitWithContext(context.Background())
}

// WaitWithContext blocks until the child completes or ctx is cancelled.
// Cancellation returns a Result whose Error is ctx.Err(); the child itself
// keeps running.
func (c *Child) WaitWithContext(ctx context.Context) Result {
	if c == nil || c.finished == nil {
		return Result{}
	}
	if ctx == nil {
		ctx = context.Background()
	}
	select {
	case <-c.finished:
		return c.result
	case <-ctx.Done():
		return Result{Error: ctx.Err()}
	}
}

// Result describes how a child ended. A non-zero exit status is reported in
// ExitCode only; Error is reserved for waits that produced no exit status,
// such as termination by a signal.
type Result struct {
	ExitCode int
	Error    error
}
