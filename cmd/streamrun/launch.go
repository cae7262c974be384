package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sa6mwa/streamrun"
	"github.com/sa6mwa/streamrun/adapters/chunkcapture"
	"github.com/sa6mwa/streamrun/adapters/consolesink"
	"github.com/sa6mwa/streamrun/adapters/logsink"
	"github.com/sa6mwa/streamrun/internal/config"
	clierrors "github.com/sa6mwa/streamrun/internal/errors"
)

type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	cleanup func() error
	noColor bool
}

func (a *app) close() {
	if a.cleanup != nil {
		_ = a.cleanup()
		a.cleanup = nil
	}
}

// launch starts the child and waits for its output to drain. Without
// --propagate-exit the child's exit status does not affect ours.
func (a *app) launch(cmd *cobra.Command, path string, args []string) error {
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()

	sink, err := a.sink(out, errOut)
	if err != nil {
		return err
	}
	var rec *chunkcapture.Recorder
	if a.cfg.Capture() {
		rec = chunkcapture.New()
		sink = streamrun.Tee(sink, rec)
	}

	child, err := streamrun.RunSink(cmd.Context(), sink, path, args...)
	if err != nil {
		return clierrors.Spawn(err)
	}
	res := child.Wait()

	if rec != nil {
		fmt.Fprintf(errOut, "captured stdout=%dB/%d chunks stderr=%dB/%d chunks exit=%d\n",
			len(rec.Stdout()), rec.Count(streamrun.Stdout),
			len(rec.Stderr()), rec.Count(streamrun.Stderr),
			res.ExitCode)
	}

	if a.cfg.PropagateExit() && res.ExitCode != 0 {
		code := res.ExitCode
		if code < 0 {
			code = clierrors.ExitGeneral
		}
		return clierrors.ChildExit(code)
	}
	return nil
}

func (a *app) sink(out, errOut io.Writer) (streamrun.Sink, error) {
	switch name := a.cfg.Sink(); name {
	case "", "console":
		c := consolesink.New(out, errOut)
		c.SetColor(a.colorEnabled(out))
		return c, nil
	case "log":
		return logsink.New(a.logger), nil
	default:
		return nil, clierrors.New(clierrors.ExitUsage, fmt.Sprintf("Unknown sink %q", name)).
			WithHint("Use --sink console or --sink log")
	}
}

func (a *app) colorEnabled(w io.Writer) bool {
	if a.noColor || color.NoColor {
		return false
	}
	f, ok := w.(*os.File)
	return ok && f == os.Stdout
}
