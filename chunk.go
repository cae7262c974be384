package streamrun

import "github.com/sa6mwa/streamrun/port"

// chunkWriter is installed as cmd.Stdout or cmd.Stderr. os/exec copies the
// pipe into it, so every Write is one chunk as delivered by the OS.
type chunkWriter struct {
	stream port.Stream
	sink   port.Sink
}

func (w *chunkWriter) Write(p []byte) (int, error) {
	if len(p) > 0 {
		w.sink.Chunk(w.stream, p)
	}
	return len(p), nil
}

type tee []port.Sink

func (t tee) Chunk(stream port.Stream, p []byte) {
	for _, s := range t {
		s.Chunk(stream, p)
	}
}

// Tee returns a Sink that hands every chunk to each of sinks, in order. Nil
// entries are skipped.
func Tee(sinks ...Sink) Sink {
	t := make(tee, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			t = append(t, s)
		}
	}
	return t
}

// SinkDiscard drops every chunk.
var SinkDiscard Sink = port.SinkFunc(func(port.Stream, []byte) {})
