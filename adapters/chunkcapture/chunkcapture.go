package chunkcapture

import (
	"bytes"
	"slices"
	"sync"

	"github.com/sa6mwa/streamrun/port"
)

// Chunk is one recorded arrival.
type Chunk struct {
	Stream port.Stream
	Data   []byte
}

// Recorder implements port.Sink by keeping every chunk in arrival order.
type Recorder struct {
	mu     sync.Mutex
	chunks []Chunk
}

var _ port.Sink = (*Recorder)(nil)

// New constructs an empty Recorder.
func New() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Chunk(stream port.Stream, p []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.chunks = append(r.chunks, Chunk{Stream: stream, Data: slices.Clone(p)})
}

// Chunks returns a copy of everything recorded so far.
func (r *Recorder) Chunks() []Chunk {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Chunk, len(r.chunks))
	for i, c := range r.chunks {
		out[i] = Chunk{Stream: c.Stream, Data: slices.Clone(c.Data)}
	}
	return out
}

// Stdout returns the concatenated stdout chunks.
func (r *Recorder) Stdout() []byte {
	return r.concat(port.Stdout)
}

// Stderr returns the concatenated stderr chunks.
func (r *Recorder) Stderr() []byte {
	return r.concat(port.Stderr)
}

// Count returns how many chunks arrived on stream.
func (r *Recorder) Count(stream port.Stream) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.chunks {
		if c.Stream == stream {
			n++
		}
	}
	return n
}

func (r *Recorder) concat(stream port.Stream) []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	var buf bytes.Buffer
	for _, c := range r.chunks {
		if c.Stream == stream {
			buf.Write(c.Data)
		}
	}
	return buf.Bytes()
}
