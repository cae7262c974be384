//go:build unix

package streamrun

import (
	"errors"
	"io/fs"
	"os"
	"os/exec"

	"golang.org/x/sys/unix"
)

func classifySpawnErr(err error) SpawnKind {
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) || errors.Is(err, unix.ENOENT) {
		return SpawnNotFound
	}
	if isPermissionErr(err) {
		return SpawnPermission
	}
	if errors.Is(err, unix.ENOEXEC) {
		return SpawnNotExecutable
	}
	return SpawnOther
}

func isPermissionErr(runErr error) bool {
	if errors.Is(runErr, os.ErrPermission) {
		return true
	}
	var pathErr *os.PathError
	if errors.As(runErr, &pathErr) {
		return errors.Is(pathErr.Err, os.ErrPermission) || errors.Is(pathErr.Err, unix.EACCES) || errors.Is(pathErr.Err, unix.EPERM)
	}
	var execErr *exec.Error
	if errors.As(runErr, &execErr) {
		return errors.Is(execErr.Err, os.ErrPermission) || errors.Is(execErr.Err, unix.EACCES) || errors.Is(execErr.Err, unix.EPERM)
	}
	return errors.Is(runErr, unix.EACCES) || errors.Is(runErr, unix.EPERM)
}
