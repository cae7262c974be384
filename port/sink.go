package port

import "strconv"

// Stream identifies which output channel of a child a chunk came from.
type Stream int

const (
	Stdout Stream = iota
	Stderr
)

func (s Stream) String() string {
	switch s {
	case Stdout:
		return "stdout"
	case Stderr:
		return "stderr"
	default:
		return "stream(" + strconv.Itoa(int(s)) + ")"
	}
}

// Label is the console prefix printed in front of every chunk.
func (s Stream) Label() string {
	return s.String() + ": "
}

// Sink receives output chunks as they arrive from a child process. Chunk may
// be called concurrently for different streams. Implementations must not
// retain p after returning.
type Sink interface {
	Chunk(stream Stream, p []byte)
}

// SinkFunc adapts a plain function to Sink.
type SinkFunc func(stream Stream, p []byte)

func (f SinkFunc) Chunk(stream Stream, p []byte) {
	f(stream, p)
}
