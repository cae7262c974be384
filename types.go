package streamrun

import (
	"errors"
	"fmt"

	"github.com/sa6mwa/streamrun/port"
)

type Stream = port.Stream
type Sink = port.Sink

const (
	Stdout = port.Stdout
	Stderr = port.Stderr
)

var (
	ERR_NIL_RUNNER error = errors.New("nil command runner")
	ERR_NIL_SINK   error = errors.New("nil output sink")
)

// ErrSpawn matches every *SpawnError via errors.Is.
var ErrSpawn = errors.New("streamrun: unable to start child process")

// SpawnKind classifies why a child could not be started.
type SpawnKind int

const (
	SpawnOther SpawnKind = iota
	SpawnNotFound
	SpawnPermission
	SpawnNotExecutable
)

func (k SpawnKind) String() string {
	switch k {
	case SpawnNotFound:
		return "not found"
	case SpawnPermission:
		return "permission denied"
	case SpawnNotExecutable:
		return "not executable"
	default:
		return "start failed"
	}
}

// SpawnError reports that the operating system refused to start Path.
type SpawnError struct {
	Path string
	Kind SpawnKind
	Err  error
}

func (e *SpawnError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("streamrun: start %s: %s: %v", e.Path, e.Kind, e.Err)
}

func (e *SpawnError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func (e *SpawnError) Is(target error) bool {
	return target == ErrSpawn
}

func newSpawnError(path string, err error) *SpawnError {
	return &SpawnError{Path: path, Kind: classifySpawnErr(err), Err: err}
}
