// SPDX-License-Identifier: MPL-2.0

package venv

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"reflect"
	goruntime "runtime"
	"strings"
	"testing"

	"github.com/gpskit/gpskit/internal/runtime"
	"github.com/gpskit/gpskit/pkg/platform"
)

// fakeExecutor records execution contexts and returns a scripted result.
type fakeExecutor struct {
	contexts []*runtime.ExecutionContext
	result   *runtime.Result
}

func (f *fakeExecutor) Execute(ctx *runtime.ExecutionContext) *runtime.Result {
	f.contexts = append(f.contexts, ctx)
	if f.result != nil {
		return f.result
	}
	return runtime.NewSuccessResult()
}

func TestEnv_Ensure_CreatesWhenMissing(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "venv")
	executor := &fakeExecutor{}
	env := New(dir, "/usr/bin/python3", executor)

	created, err := env.Ensure(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("Ensure() error = %v", err)
	}
	if !created {
		t.Error("Ensure() created = false, want true")
	}

	if len(executor.contexts) != 1 {
		t.Fatalf("executor invoked %d times, want 1", len(executor.contexts))
	}
	wantArgv := []string{"/usr/bin/python3", "-m", "venv", dir}
	if !reflect.DeepEqual(executor.contexts[0].Argv, wantArgv) {
		t.Errorf("Argv = %v, want %v", executor.contexts[0].Argv, wantArgv)
	}
}

func TestEnv_Ensure_IdempotentWhenPresent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	executor := &fakeExecutor{}
	env := New(dir, "/usr/bin/python3", executor)

	created, err := env.Ensure(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("Ensure() error = %v", err)
	}
	if created {
		t.Error("Ensure() created = true for existing directory, want false")
	}
	if len(executor.contexts) != 0 {
		t.Errorf("executor invoked %d times for an existing directory, want 0", len(executor.contexts))
	}
}

func TestEnv_Ensure_PathIsFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "venv")
	if err := os.WriteFile(path, []byte("not a directory"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	env := New(path, "/usr/bin/python3", &fakeExecutor{})

	_, err := env.Ensure(context.Background(), nil, nil)
	if err == nil {
		t.Fatal("Ensure() expected error for file at environment path")
	}
	if !strings.Contains(err.Error(), "not a directory") {
		t.Errorf("Ensure() error = %q, want to mention the path is not a directory", err)
	}
}

func TestEnv_Ensure_CreationFails(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		result *runtime.Result
	}{
		{name: "non-zero exit", result: runtime.NewExitCodeResult(1)},
		{name: "infrastructure error", result: runtime.NewErrorResult(1, errors.New("interpreter vanished"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := filepath.Join(t.TempDir(), "venv")
			env := New(dir, "/usr/bin/python3", &fakeExecutor{result: tt.result})

			created, err := env.Ensure(context.Background(), nil, nil)
			if err == nil {
				t.Fatal("Ensure() expected error when creation fails")
			}
			if created {
				t.Error("Ensure() created = true on failure, want false")
			}
			if !strings.Contains(err.Error(), "failed to create virtual environment") {
				t.Errorf("Ensure() error = %q, want creation failure message", err)
			}
		})
	}
}

func TestEnv_BinDir(t *testing.T) {
	t.Parallel()

	env := New(filepath.Join("workspace", "venv"), "python3", nil)

	want := filepath.Join("workspace", "venv", "bin")
	if goruntime.GOOS == platform.Windows {
		want = filepath.Join("workspace", "venv", "Scripts")
	}
	if got := env.BinDir(); got != want {
		t.Errorf("BinDir() = %q, want %q", got, want)
	}
}

func TestEnv_Python(t *testing.T) {
	t.Parallel()

	env := New(filepath.Join("workspace", "venv"), "python3", nil)

	want := filepath.Join("workspace", "venv", "bin", "python")
	if goruntime.GOOS == platform.Windows {
		want = filepath.Join("workspace", "venv", "Scripts", "python.exe")
	}
	if got := env.Python(); got != want {
		t.Errorf("Python() = %q, want %q", got, want)
	}
}

func TestEnv_Environ(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(string(filepath.Separator)+"home", "user", "gps", "venv")
	env := New(dir, "python3", nil)

	base := "/usr/local/bin" + string(os.PathListSeparator) + "/usr/bin"
	got := env.Environ(base)

	if got["VIRTUAL_ENV"] != dir {
		t.Errorf("Environ() VIRTUAL_ENV = %q, want %q", got["VIRTUAL_ENV"], dir)
	}
	wantPath := env.BinDir() + string(os.PathListSeparator) + base
	if got["PATH"] != wantPath {
		t.Errorf("Environ() PATH = %q, want %q", got["PATH"], wantPath)
	}
	if len(got) != 2 {
		t.Errorf("Environ() has %d entries, want 2", len(got))
	}
}

func TestEnv_Environ_EmptyBasePath(t *testing.T) {
	t.Parallel()

	env := New("venv", "python3", nil)

	got := env.Environ("")
	if got["PATH"] != env.BinDir() {
		t.Errorf(`Environ("") PATH = %q, want %q`, got["PATH"], env.BinDir())
	}
}

func TestEnv_Ensure_RealInterpreter(t *testing.T) {
	t.Parallel()

	if testing.Short() {
		t.Skip("skipping venv creation in short mode")
	}
	python, err := exec.LookPath("python3")
	if err != nil {
		t.Skip("python3 not installed")
	}

	dir := filepath.Join(t.TempDir(), "venv")
	env := New(dir, python, &runtime.NativeRuntime{})

	created, err := env.Ensure(context.Background(), os.Stderr, os.Stderr)
	if err != nil {
		t.Fatalf("Ensure() error = %v", err)
	}
	if !created {
		t.Error("Ensure() created = false on first run, want true")
	}
	if !env.Exists() {
		t.Error("Exists() = false after creation")
	}
	if _, err := os.Stat(env.Python()); err != nil {
		t.Errorf("environment interpreter missing: %v", err)
	}

	created, err = env.Ensure(context.Background(), os.Stderr, os.Stderr)
	if err != nil {
		t.Fatalf("second Ensure() error = %v", err)
	}
	if created {
		t.Error("second Ensure() created = true, want false")
	}
}
