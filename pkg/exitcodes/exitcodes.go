// Package exitcodes provides exit code definitions and error handling for koparse.
//
// koparse is a one-shot CI check, so the process contract is binary:
//
//	0: Success
//	1: Any failure (usage, I/O, image format, image mismatch)
//
// The failure kinds are still distinguished inside the program so that the
// command can pick the right diagnostic message.
package exitcodes

import (
	"errors"
	"fmt"
)

// Exit code constants
const (
	ExitSuccess = 0
	ExitFailure = 1
)

// ExitCodeError wraps an error with an exit code so the code can travel
// up the call stack to main.
type ExitCodeError struct {
	Code int   // Exit code to return
	Err  error // Underlying error
}

func (e *ExitCodeError) Error() string {
	return fmt.Sprintf("exit code %d: %v", e.Code, e.Err)
}

func (e *ExitCodeError) Unwrap() error {
	return e.Err
}

// Wrap returns err wrapped in an ExitCodeError with ExitFailure, or nil if err is nil.
func Wrap(err error) error {
	if err == nil {
		return nil
	}
	return &ExitCodeError{Code: ExitFailure, Err: err}
}

// IsExitCodeError checks if an error is an ExitCodeError and returns its code.
// Returns false and 0 if the error is not an ExitCodeError.
func IsExitCodeError(err error) (int, bool) {
	var exitErr *ExitCodeError
	if errors.As(err, &exitErr) {
		return exitErr.Code, true
	}
	return 0, false
}

// CodeFor maps any error to the process exit code.
func CodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if code, ok := IsExitCodeError(err); ok {
		return code
	}
	return ExitFailure
}

// CodeDescriptions maps exit codes to their human-readable descriptions
var CodeDescriptions = map[int]string{
	ExitSuccess: "Success",
	ExitFailure: "Release image audit failed",
}
