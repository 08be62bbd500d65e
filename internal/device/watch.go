// SPDX-License-Identifier: MPL-2.0

package device

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// ErrWatchUnsupported is returned by WaitForPort on platforms without an
// observable port namespace.
var ErrWatchUnsupported = errors.New("waiting for ports is not supported on this platform")

// WaitForPort blocks until a candidate port is discovered or ctx is done.
// It scans once up front, then re-scans whenever the device namespace
// changes, returning the first candidate found.
func WaitForPort(ctx context.Context) (Candidate, error) {
	dirs := watchDirs()
	if len(dirs) == 0 {
		return Candidate{}, ErrWatchUnsupported
	}
	return waitForPort(ctx, dirs, firstCandidate)
}

func waitForPort(ctx context.Context, dirs []string, scan func() (Candidate, bool, error)) (Candidate, error) {
	if c, found, err := scan(); err != nil || found {
		return c, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return Candidate{}, fmt.Errorf("create device watcher: %w", err)
	}
	defer fsw.Close() //nolint:errcheck // best-effort cleanup

	// /dev/serial and its by-id child exist only while a serial device is
	// attached; absent directories are added lazily as they appear.
	for _, dir := range dirs {
		if _, statErr := os.Stat(dir); statErr != nil {
			continue
		}
		if addErr := fsw.Add(dir); addErr != nil {
			return Candidate{}, fmt.Errorf("watch %s: %w", dir, addErr)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return Candidate{}, ctx.Err()

		case evt, ok := <-fsw.Events:
			if !ok {
				return Candidate{}, errors.New("device watcher event channel closed unexpectedly")
			}
			// udev creates the node and then chmods it into the dialout
			// group, so both event kinds can complete a usable port.
			if !evt.Has(fsnotify.Create) && !evt.Has(fsnotify.Chmod) {
				continue
			}
			if evt.Has(fsnotify.Create) {
				maybeWatchDir(fsw, evt.Name, dirs)
			}
			if c, found, err := scan(); err != nil || found {
				return c, err
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return Candidate{}, errors.New("device watcher error channel closed unexpectedly")
			}
			if isFatalWatchError(err) {
				return Candidate{}, fmt.Errorf("device watcher: %w", err)
			}
		}
	}
}

func firstCandidate() (Candidate, bool, error) {
	candidates, err := Discover()
	if err != nil {
		return Candidate{}, false, err
	}
	if len(candidates) == 0 {
		return Candidate{}, false, nil
	}
	return candidates[0], true, nil
}

// maybeWatchDir extends the watch to a just-created directory when it is one
// of the configured watch roots.
func maybeWatchDir(fsw *fsnotify.Watcher, path string, dirs []string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	clean := filepath.Clean(path)
	for _, dir := range dirs {
		if clean == dir {
			_ = fsw.Add(path)
			return
		}
	}
}
