// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidExitCode is the sentinel error wrapped by InvalidExitCodeError.
var ErrInvalidExitCode = errors.New("invalid exit code")

// maxExitCode is the POSIX upper bound for a process exit status.
const maxExitCode = 255

type (
	// ExitCode is a process exit status. Entry programs report through it
	// unchanged: whatever gps_test.py or gps_capture.py exits with is what
	// the launcher exits with. Zero means success.
	ExitCode int

	// InvalidExitCodeError reports a value outside the POSIX range.
	InvalidExitCodeError struct {
		Value ExitCode
	}
)

func (e *InvalidExitCodeError) Error() string {
	return fmt.Sprintf("invalid exit code %d (must be in range 0-%d)", e.Value, maxExitCode)
}

// Unwrap returns ErrInvalidExitCode for errors.Is checks.
func (e *InvalidExitCodeError) Unwrap() error { return ErrInvalidExitCode }

// Validate reports values outside 0-255.
func (c ExitCode) Validate() error {
	if c < 0 || c > maxExitCode {
		return &InvalidExitCodeError{Value: c}
	}
	return nil
}

// IsSuccess reports whether the code signals success.
func (c ExitCode) IsSuccess() bool { return c == 0 }

// String returns the decimal form.
func (c ExitCode) String() string { return strconv.Itoa(int(c)) }
