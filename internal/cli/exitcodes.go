package cli

import (
	"errors"
	"strconv"

	"github.com/yaklabco/tagtok/pkg/runner"
)

// Exit codes for tagtok.
const (
	// ExitSuccess indicates every input was tokenized.
	ExitSuccess = 0

	// ExitFileErrors indicates at least one input could not be read or tokenized.
	ExitFileErrors = 1

	// ExitEmptyDocuments indicates a document produced no terms or tags (with --strict).
	ExitEmptyDocuments = 2

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

// ExitError carries a process exit code alongside the error that caused it.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return "exit status " + strconv.Itoa(e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ErrFilesFailed is returned when some inputs failed to tokenize.
var ErrFilesFailed = errors.New("some files could not be tokenized")

// ErrEmptyDocuments is returned in strict mode when a document came out empty.
var ErrEmptyDocuments = errors.New("some documents produced no terms or tags")

// ExitCodeFromResult determines the exit code based on result and strict mode.
func ExitCodeFromResult(result *runner.Result, strict bool) int {
	if result == nil {
		return ExitSuccess
	}

	if result.HasErrors() {
		return ExitFileErrors
	}

	if strict && result.HasEmpty() {
		return ExitEmptyDocuments
	}

	return ExitSuccess
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitInternalError
}
