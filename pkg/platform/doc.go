// SPDX-License-Identifier: MPL-2.0

// Package platform provides cross-platform compatibility helpers.
//
// It centralizes the runtime.GOOS string literals used when picking the
// virtual environment layout (bin vs Scripts), the per-OS configuration
// directory, and the serial port patterns for device discovery.
package platform
