// Package errors provides structured CLI error types for streamrun.
//
// CLIError wraps errors with user-facing messages, hints, and exit codes so
// every command reports failures the same way.
package errors

import (
	"errors"
	"fmt"

	"github.com/sa6mwa/streamrun"
)

// Exit codes for CLI errors.
const (
	ExitSuccess   = 0  // Successful execution
	ExitGeneral   = 1  // General error
	ExitConfig    = 4  // Configuration error
	ExitExecution = 6  // Child process could not be started
	ExitUsage     = 64 // Command line usage error (BSD convention)
)

// CLIError represents a user-facing CLI error with actionable guidance.
type CLIError struct {
	// Message is the primary error message shown to the user.
	Message string

	// Hint provides actionable guidance on how to fix the error.
	Hint string

	// Cause is the underlying error, if any.
	Cause error

	// Code is the exit code for the CLI.
	Code int
}

// Error implements the error interface.
func (e *CLIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}

	return e.Message
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *CLIError) Unwrap() error {
	return e.Cause
}

// New creates a new CLIError with the given message and exit code.
func New(code int, message string) *CLIError {
	return &CLIError{
		Message: message,
		Code:    code,
	}
}

// Wrap wraps an existing error with a CLIError.
func Wrap(code int, message string, cause error) *CLIError {
	return &CLIError{
		Message: message,
		Cause:   cause,
		Code:    code,
	}
}

// WithHint adds a hint to the error.
func (e *CLIError) WithHint(hint string) *CLIError {
	e.Hint = hint
	return e
}

// As is a convenience function for errors.As with CLIError.
func As(err error, target **CLIError) bool {
	return errors.As(err, target)
}

// Spawn converts a failure to start the child into a CLIError with a hint
// matching the reason the OS gave.
func Spawn(err error) *CLIError {
	var spawnErr *streamrun.SpawnError
	if !errors.As(err, &spawnErr) {
		return Wrap(ExitExecution, "Failed to start child process", err)
	}

	cliErr := &CLIError{
		Message: fmt.Sprintf("Cannot start %s (%s)", spawnErr.Path, spawnErr.Kind),
		Cause:   spawnErr.Err,
		Code:    ExitExecution,
	}

	switch spawnErr.Kind {
	case streamrun.SpawnNotFound:
		cliErr.Hint = "Check the executable path; relative paths resolve against the current directory"
	case streamrun.SpawnPermission:
		cliErr.Hint = fmt.Sprintf("Make it executable: chmod +x %s", spawnErr.Path)
	case streamrun.SpawnNotExecutable:
		cliErr.Hint = "The file is not a binary or a script with a shebang line"
	}

	return cliErr
}

// ChildExit reports a non-zero child exit status as the launcher's own.
func ChildExit(code int) *CLIError {
	return New(code, fmt.Sprintf("Child process exited with status %d", code))
}
