// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package device

import (
	"errors"
	goruntime "runtime"
	"syscall"

	"github.com/gpskit/gpskit/pkg/platform"
)

// watchDirs returns the directories whose changes can surface a new port.
func watchDirs() []string {
	if goruntime.GOOS == platform.Darwin {
		return []string{"/dev"}
	}
	return []string{"/dev", "/dev/serial", "/dev/serial/by-id"}
}

// isFatalWatchError classifies fsnotify errors that indicate the watcher is
// fundamentally broken and cannot recover:
//   - ENOSPC: inotify watch limit exceeded (fs.inotify.max_user_watches)
//   - EMFILE: per-process file descriptor limit exceeded
//   - ENFILE: system-wide file descriptor limit exceeded
func isFatalWatchError(err error) bool {
	return errors.Is(err, syscall.ENOSPC) ||
		errors.Is(err, syscall.EMFILE) ||
		errors.Is(err, syscall.ENFILE)
}
