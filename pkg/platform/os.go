// SPDX-License-Identifier: MPL-2.0

package platform

// The runtime.GOOS values gpskit branches on. Every per-OS decision, from
// the venv layout to the serial port globs, compares against these rather
// than repeating the literals.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
)
