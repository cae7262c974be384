// Package streamrun starts child processes and forwards their stdout and
// stderr, chunk by chunk, to a sink as the data arrives. Callers are not
// blocked: Run returns as soon as the process is running and completion is
// reported on the Child handle.
//
//	child, err := streamrun.Run(ctx, "./env/bin/python3", "main.py", "bikeshare", "--gsheetid", id)
//	if err != nil {
//		return err // *streamrun.SpawnError
//	}
//	res := child.Wait()
//
// The child cannot be cancelled through streamrun; ctx only carries the
// logger (see WithLogger).
package streamrun

import (
	"context"
	"log/slog"
	"os/exec"
	"slices"

	"github.com/google/uuid"

	"github.com/sa6mwa/streamrun/adapters/commandrunner"
	"github.com/sa6mwa/streamrun/adapters/consolesink"
	"github.com/sa6mwa/streamrun/internal/observability"
	"github.com/sa6mwa/streamrun/port"
)

// WithLogger returns a derived context whose logger streamrun uses for its
// own lifecycle records (start, start failure, exit).
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return observability.WithLogger(ctx, logger)
}

// Run starts path with args and prints child output to os.Stdout and
// os.Stderr prefixed "stdout: " and "stderr: ". Neither path nor args are
// validated; an empty args list is fine.
func Run(ctx context.Context, path string, args ...string) (*Child, error) {
	return RunWith(ctx, commandrunner.Default, consolesink.Default(), path, args...)
}

// RunSink is like Run but forwards output chunks to sink.
func RunSink(ctx context.Context, sink Sink, path string, args ...string) (*Child, error) {
	return RunWith(ctx, commandrunner.Default, sink, path, args...)
}

// RunWith starts path through runner and forwards output to sink. If the
// process cannot be started, the *SpawnError is logged and returned and no
// Child is created.
func RunWith(ctx context.Context, runner port.CommandRunner, sink Sink, path string, args ...string) (*Child, error) {
	if runner == nil {
		return nil, ERR_NIL_RUNNER
	}
	if sink == nil {
		return nil, ERR_NIL_SINK
	}
	argv := slices.Clone(args)
	id := uuid.NewString()
	logger := observability.FromContext(ctx).With(
		slog.String("run.id", id),
		slog.String("path", path),
	)

	cmd := exec.Command(path, argv...)
	logger.Debug("starting child", slog.Any("args", argv))
	if err := StartCommand(runner, cmd, sink); err != nil {
		logger.Error("unable to start child", slog.String("error", err.Error()))
		return nil, err
	}

	pid := 0
	if cmd.Process != nil {
		pid = cmd.Process.Pid
	}
	done := make(chan Result, 1)
	child := &Child{
		ID:       id,
		Path:     path,
		Args:     slices.Clone(argv),
		PID:      pid,
		Done:     done,
		finished: make(chan struct{}),
	}
	logger.Debug("child started", slog.Int("pid", pid))

	go func() {
		res := WaitCommand(runner, cmd)
		child.result = res
		close(child.finished)
		done <- res
		close(done)
		if res.Error != nil {
			logger.Warn("child ended without exit status",
				slog.Int("pid", pid),
				slog.String("error", res.Error.Error()),
			)
			return
		}
		logger.Debug("child exited", slog.Int("pid", pid), slog.Int("exit_code", res.ExitCode))
	}()

	return child, nil
}
