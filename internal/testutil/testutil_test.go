// SPDX-License-Identifier: EPL-2.0

package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// Env helpers mutate process state, so these tests stay sequential.

func TestMustSetenv_RestoresPreviousValue(t *testing.T) {
	const key = "GPSKIT_TESTUTIL_SET"

	t.Cleanup(func() { os.Unsetenv(key) })
	if err := os.Setenv(key, "before"); err != nil {
		t.Fatalf("seed env: %v", err)
	}

	restore := MustSetenv(t, key, "during")
	if got := os.Getenv(key); got != "during" {
		t.Fatalf("env = %q, want %q", got, "during")
	}

	restore()
	if got := os.Getenv(key); got != "before" {
		t.Errorf("after restore, env = %q, want %q", got, "before")
	}
}

func TestMustSetenv_RestoresAbsence(t *testing.T) {
	const key = "GPSKIT_TESTUTIL_ABSENT"

	os.Unsetenv(key)
	restore := MustSetenv(t, key, "temporary")
	restore()

	if _, exists := os.LookupEnv(key); exists {
		t.Error("variable should be absent again after restore")
	}
}

func TestMustUnsetenv_RestoresValue(t *testing.T) {
	const key = "GPSKIT_TESTUTIL_UNSET"

	t.Cleanup(func() { os.Unsetenv(key) })
	if err := os.Setenv(key, "keep-me"); err != nil {
		t.Fatalf("seed env: %v", err)
	}

	restore := MustUnsetenv(t, key)
	if _, exists := os.LookupEnv(key); exists {
		t.Fatal("variable should be unset")
	}

	restore()
	if got := os.Getenv(key); got != "keep-me" {
		t.Errorf("after restore, env = %q, want %q", got, "keep-me")
	}
}

func TestMustChdir_RoundTrip(t *testing.T) {
	start, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}

	target := t.TempDir()
	restore := MustChdir(t, target)

	got, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	// Resolve symlinks: macOS TempDir lives under /var -> /private/var.
	wantResolved, _ := filepath.EvalSymlinks(target)
	gotResolved, _ := filepath.EvalSymlinks(got)
	if gotResolved != wantResolved {
		t.Errorf("wd = %q, want %q", gotResolved, wantResolved)
	}

	restore()
	back, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if back != start {
		t.Errorf("restored wd = %q, want %q", back, start)
	}
}

func TestMustMkdirAll_CreatesNestedPath(t *testing.T) {
	t.Parallel()

	nested := filepath.Join(t.TempDir(), "a", "b", "c")
	MustMkdirAll(t, nested, 0o755)

	info, err := os.Stat(nested)
	if err != nil {
		t.Fatalf("stat created path: %v", err)
	}
	if !info.IsDir() {
		t.Error("created path is not a directory")
	}
}
