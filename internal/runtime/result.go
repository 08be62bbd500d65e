// SPDX-License-Identifier: MPL-2.0

package runtime

import "github.com/gpskit/gpskit/pkg/types"

// NewErrorResult builds a Result for an execution that failed before or
// outside normal process termination.
func NewErrorResult(code types.ExitCode, err error) *Result {
	return &Result{ExitCode: code, Error: err}
}

// NewSuccessResult builds a zero-exit Result.
func NewSuccessResult() *Result {
	return &Result{}
}

// NewExitCodeResult builds a Result for a process that ran to completion
// and exited non-zero. No Error is attached; the code is the outcome.
func NewExitCodeResult(code types.ExitCode) *Result {
	return &Result{ExitCode: code}
}
