package cli

import (
	"errors"
	"fmt"

	"github.com/sprite-ai/commitlint-core/internal/model"
)

// Process exit codes.
const (
	ExitPass   = 0
	ExitWarn   = 1
	ExitFail   = 2
	ExitParse  = 3
	ExitConfig = 4
)

// ExitCoder is implemented by errors that choose the process exit code.
type ExitCoder interface {
	error
	ExitCode() int
}

// ExitError is an error that carries an explicit process exit code.
// It supports wrapping via Unwrap so errors.Is/As work as expected.
type ExitError struct {
	code   int
	msg    string
	cause  error
	silent bool
}

func (e *ExitError) Error() string {
	if e.cause == nil {
		return e.msg
	}
	return fmt.Sprintf("%s: %v", e.msg, e.cause)
}

func (e *ExitError) ExitCode() int { return e.code }

// Unwrap enables errors.Is/As to traverse the underlying cause.
func (e *ExitError) Unwrap() error { return e.cause }

// Silent reports whether the error only carries an exit code and has
// already been reported to the user.
func (e *ExitError) Silent() bool { return e.silent }

func exitErr(code int, msg string) error {
	return &ExitError{code: normalize(code), msg: msg}
}

func wrapExit(code int, msg string, cause error) error {
	if cause == nil {
		return exitErr(code, msg)
	}
	return &ExitError{code: normalize(code), msg: msg, cause: cause}
}

func usageErr(format string, args ...any) error {
	return exitErr(ExitConfig, fmt.Sprintf(format, args...))
}

// statusExit maps a report status onto the process exit code.
// A pass needs no error at all.
func statusExit(s model.Status) error {
	switch s {
	case model.StatusFail:
		return &ExitError{code: ExitFail, msg: "validation failed", silent: true}
	case model.StatusWarn:
		return &ExitError{code: ExitWarn, msg: "validation produced warnings", silent: true}
	default:
		return nil
	}
}

// ExitCodeOf extracts an exit code from any error. Errors without one are
// treated as usage or configuration errors.
func ExitCodeOf(err error) int {
	if err == nil {
		return ExitPass
	}
	var ec ExitCoder
	if errors.As(err, &ec) {
		return ec.ExitCode()
	}
	return ExitConfig
}

// IsSilent reports whether err should not be printed.
func IsSilent(err error) bool {
	var ee *ExitError
	return errors.As(err, &ee) && ee.Silent()
}

func normalize(code int) int {
	// Exit code 0 means success; errors should never be 0.
	if code <= 0 {
		return ExitConfig
	}
	return code
}
