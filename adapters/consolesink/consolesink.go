// Package consolesink prints child output to the console, every chunk
// prefixed with its stream label ("stdout: " or "stderr: ").
package consolesink

import (
	"io"
	"os"
	"sync"

	"github.com/fatih/color"

	"github.com/sa6mwa/streamrun/port"
)

// Console writes stdout chunks to Out and stderr chunks to Err. A label and
// its chunk always go out in a single Write; nothing is appended after the
// chunk.
type Console struct {
	mu     sync.Mutex
	out    io.Writer
	err    io.Writer
	colors map[port.Stream]*color.Color
}

var _ port.Sink = (*Console)(nil)

// New returns a Console with colour disabled.
func New(out, err io.Writer) *Console {
	if out == nil {
		out = io.Discard
	}
	if err == nil {
		err = io.Discard
	}
	c := &Console{
		out: out,
		err: err,
		colors: map[port.Stream]*color.Color{
			port.Stdout: color.New(color.FgCyan),
			port.Stderr: color.New(color.FgYellow),
		},
	}
	c.SetColor(false)
	return c
}

// Default returns a Console on os.Stdout and os.Stderr, coloured unless
// color.NoColor says the terminal cannot take it.
func Default() *Console {
	c := New(os.Stdout, os.Stderr)
	c.SetColor(!color.NoColor)
	return c
}

// SetColor forces label colouring on or off.
func (c *Console) SetColor(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, col := range c.colors {
		if enabled {
			col.EnableColor()
		} else {
			col.DisableColor()
		}
	}
}

func (c *Console) Chunk(stream port.Stream, p []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	w := c.out
	if stream == port.Stderr {
		w = c.err
	}
	label := stream.Label()
	if col, ok := c.colors[stream]; ok {
		label = col.Sprint(label)
	}
	line := make([]byte, 0, len(label)+len(p))
	line = append(line, label...)
	line = append(line, p...)
	_, _ = w.Write(line)
}
