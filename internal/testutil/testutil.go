// SPDX-License-Identifier: EPL-2.0

package testutil

import (
	"io"
	"os"
	"testing"
)

// Stopper matches server types with a Stop method.
type Stopper interface {
	Stop() error
}

// MustChdir switches the working directory to dir and returns a function
// restoring the previous one. Callers must not run in parallel while the
// directory is switched.
func MustChdir(t testing.TB, dir string) func() {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get current directory: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("failed to change directory to %s: %v", dir, err)
	}
	return func() {
		if err := os.Chdir(prev); err != nil {
			t.Errorf("failed to restore directory to %s: %v", prev, err)
		}
	}
}

// restoreEnv returns a function that puts key back to its captured state.
func restoreEnv(t testing.TB, key, value string, existed bool) func() {
	return func() {
		var err error
		if existed {
			err = os.Setenv(key, value)
		} else {
			err = os.Unsetenv(key)
		}
		if err != nil {
			t.Errorf("failed to restore env %s: %v", key, err)
		}
	}
}

// MustSetenv sets key to value and returns a function restoring the
// original state, whether that was a different value or absence.
func MustSetenv(t testing.TB, key, value string) func() {
	t.Helper()
	prev, existed := os.LookupEnv(key)
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("failed to set env %s: %v", key, err)
	}
	return restoreEnv(t, key, prev, existed)
}

// MustUnsetenv clears key and returns a function restoring the original
// value if there was one.
func MustUnsetenv(t testing.TB, key string) func() {
	t.Helper()
	prev, existed := os.LookupEnv(key)
	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("failed to unset env %s: %v", key, err)
	}
	return restoreEnv(t, key, prev, existed)
}

// MustMkdirAll creates path with any missing parents, failing the test on
// error.
func MustMkdirAll(t testing.TB, path string, perm os.FileMode) {
	t.Helper()
	if err := os.MkdirAll(path, perm); err != nil {
		t.Fatalf("failed to create directory %s: %v", path, err)
	}
}

// MustStop stops s, logging rather than failing on error since shutdown
// problems during cleanup should not mask the test result.
func MustStop(t testing.TB, s Stopper) {
	t.Helper()
	if err := s.Stop(); err != nil {
		t.Logf("warning: stop returned error: %v", err)
	}
}

// DeferClose returns a cleanup function closing c, logging any error.
func DeferClose(t testing.TB, c io.Closer) func() {
	t.Helper()
	return func() {
		t.Helper()
		if err := c.Close(); err != nil {
			t.Logf("warning: close returned error: %v", err)
		}
	}
}
