// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidListenPort is the sentinel error wrapped by InvalidListenPortError.
var ErrInvalidListenPort = errors.New("invalid listen port")

type (
	// ListenPort is a TCP port the serve command binds to. Zero is valid
	// and asks the kernel to pick a free port; anything else must fit in
	// 1-65535.
	ListenPort int

	// InvalidListenPortError reports a port outside the valid range.
	InvalidListenPortError struct {
		Value ListenPort
	}
)

// String returns the port in decimal, as net.JoinHostPort expects.
func (p ListenPort) String() string { return strconv.Itoa(int(p)) }

// Validate returns an error when the port is outside 0-65535.
func (p ListenPort) Validate() error {
	if p < 0 || p > 65535 {
		return &InvalidListenPortError{Value: p}
	}
	return nil
}

// Error implements the error interface for InvalidListenPortError.
func (e *InvalidListenPortError) Error() string {
	return fmt.Sprintf("invalid listen port %d: must be 0 (auto-select) or 1-65535", e.Value)
}

// Unwrap returns ErrInvalidListenPort for errors.Is() compatibility.
func (e *InvalidListenPortError) Unwrap() error { return ErrInvalidListenPort }
