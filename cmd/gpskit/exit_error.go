// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/gpskit/gpskit/pkg/types"
)

// ExitError carries the process exit status through a RunE return instead of
// calling os.Exit mid-command. Execute unwraps it at the top level, so
// deferred cleanup in the command handlers still runs. The dispatch contract
// depends on this: an entry program's status must survive to the caller.
type ExitError struct {
	Code types.ExitCode
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}
