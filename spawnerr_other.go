//go:build !unix

package streamrun

import (
	"errors"
	"io/fs"
	"os/exec"
)

func classifySpawnErr(err error) SpawnKind {
	switch {
	case errors.Is(err, exec.ErrNotFound), errors.Is(err, fs.ErrNotExist):
		return SpawnNotFound
	case errors.Is(err, fs.ErrPermission):
		return SpawnPermission
	default:
		return SpawnOther
	}
}
