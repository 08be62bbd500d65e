// SPDX-License-Identifier: MPL-2.0

//go:build windows

package device

// watchDirs returns nil on Windows: COM ports have no watchable filesystem
// namespace, so WaitForPort reports ErrWatchUnsupported.
func watchDirs() []string { return nil }

func isFatalWatchError(error) bool { return false }
