// Package errors defines the CLI error type and the exit codes localesync
// returns to the shell.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Exit codes for localesync
const (
	ExitSuccess      = 0
	ExitGeneralError = 1
	ExitConfigError  = 2
	ExitNoSelection  = 3
	ExitSyncFailures = 4
	ExitInterrupted  = 130
)

// Error carries an exit code alongside the message shown to the operator.
type Error struct {
	Code    int
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// ExitCode returns the exit code for this error
func (e *Error) ExitCode() int {
	return e.Code
}

// New creates a new Error
func New(code int, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap wraps an existing error with an Error
func Wrap(code int, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// ConfigError returns an error for unreadable or invalid configuration.
func ConfigError(message string, cause error) *Error {
	return Wrap(ExitConfigError, message, cause)
}

// NoSelection returns the error used when no project survives selection.
func NoSelection(message string) *Error {
	return New(ExitNoSelection, message)
}

// UnknownProjects returns an error naming projects that are not configured.
func UnknownProjects(names []string) *Error {
	return New(ExitNoSelection, fmt.Sprintf("unknown projects: %v", names))
}

// SyncFailures reports a run that completed but where the named projects
// were skipped on error or had failed file operations.
func SyncFailures(projects []string) *Error {
	return New(ExitSyncFailures, fmt.Sprintf("run finished with failures in: %s", strings.Join(projects, ", ")))
}

// Interrupted returns the error used when the operator interrupts the run.
func Interrupted(cause error) *Error {
	return Wrap(ExitInterrupted, "interrupted", cause)
}

// GetExitCode extracts the exit code from an error
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var cliErr *Error
	if errors.As(err, &cliErr) {
		return cliErr.ExitCode()
	}
	return ExitGeneralError
}

// Is checks if an error is of a specific type
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target any) bool {
	return errors.As(err, target)
}
