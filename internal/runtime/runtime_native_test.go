// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"bytes"
	"context"
	"os/exec"
	goruntime "runtime"
	"strings"
	"testing"

	"github.com/gpskit/gpskit/pkg/types"
)

func requirePosixShell(t *testing.T) {
	t.Helper()
	if goruntime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not found on PATH")
	}
}

func TestNativeRuntime_Validate(t *testing.T) {
	t.Parallel()

	rt := NewNativeRuntime()

	tests := []struct {
		name    string
		argv    []string
		wantErr bool
	}{
		{"empty argv", nil, true},
		{"empty program name", []string{""}, true},
		{"program only", []string{"python3"}, false},
		{"program with args", []string{"python3", "-m", "venv", "venv"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := rt.Validate(&ExecutionContext{Argv: tt.argv})
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNativeRuntime_Execute(t *testing.T) {
	requirePosixShell(t)

	rt := NewNativeRuntime()

	var stdout bytes.Buffer
	result := rt.Execute(&ExecutionContext{
		Context: context.Background(),
		Argv:    []string{"sh", "-c", "echo hello from native"},
		Stdout:  &stdout,
		Stderr:  &bytes.Buffer{},
	})

	if result.ExitCode != 0 {
		t.Errorf("Execute() exit code = %d, want 0, error: %v", result.ExitCode, result.Error)
	}
	if got := strings.TrimSpace(stdout.String()); got != "hello from native" {
		t.Errorf("Execute() output = %q, want %q", got, "hello from native")
	}
}

func TestNativeRuntime_ExitCodes(t *testing.T) {
	requirePosixShell(t)

	tests := []struct {
		name   string
		script string
		want   types.ExitCode
	}{
		{"exit zero", "exit 0", 0},
		{"exit one", "exit 1", 1},
		{"exit forty-two", "exit 42", 42},
	}

	rt := NewNativeRuntime()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := rt.Execute(&ExecutionContext{
				Context: context.Background(),
				Argv:    []string{"sh", "-c", tt.script},
			})

			if result.ExitCode != tt.want {
				t.Errorf("Execute() exit code = %d, want %d", result.ExitCode, tt.want)
			}
			if result.Error != nil {
				t.Errorf("Execute() error = %v, want nil for a normal exit", result.Error)
			}
		})
	}
}

func TestNativeRuntime_ProgramNotFound(t *testing.T) {
	t.Parallel()

	rt := NewNativeRuntime()
	result := rt.Execute(&ExecutionContext{
		Context: context.Background(),
		Argv:    []string{"gpskit-definitely-not-a-real-program"},
	})

	if result.Error == nil {
		t.Fatal("Execute() should report an error when the program does not exist")
	}
	if result.ExitCode != 1 {
		t.Errorf("Execute() exit code = %d, want 1", result.ExitCode)
	}
}

func TestNativeRuntime_EnvOverlay(t *testing.T) {
	requirePosixShell(t)

	rt := NewNativeRuntime()

	var stdout bytes.Buffer
	result := rt.Execute(&ExecutionContext{
		Context: context.Background(),
		Argv:    []string{"sh", "-c", `printf '%s:%s' "$GPS_PORT" "$GPS_BAUD"`},
		Env: map[string]string{
			"GPS_PORT": "/dev/ttyUSB0",
			"GPS_BAUD": "4800",
		},
		Stdout: &stdout,
	})

	if result.ExitCode != 0 {
		t.Fatalf("Execute() exit code = %d, want 0, error: %v", result.ExitCode, result.Error)
	}
	if got := stdout.String(); got != "/dev/ttyUSB0:4800" {
		t.Errorf("Execute() output = %q, want %q", got, "/dev/ttyUSB0:4800")
	}
}

func TestNativeRuntime_ExecuteCapture(t *testing.T) {
	requirePosixShell(t)

	rt := NewNativeRuntime()
	result := rt.ExecuteCapture(&ExecutionContext{
		Context: context.Background(),
		Argv:    []string{"sh", "-c", "echo out; echo err >&2; exit 3"},
	})

	if result.ExitCode != 3 {
		t.Errorf("ExecuteCapture() exit code = %d, want 3", result.ExitCode)
	}
	if got := strings.TrimSpace(result.Output); got != "out" {
		t.Errorf("ExecuteCapture() stdout = %q, want %q", got, "out")
	}
	if got := strings.TrimSpace(result.ErrOutput); got != "err" {
		t.Errorf("ExecuteCapture() stderr = %q, want %q", got, "err")
	}
}

func TestNativeRuntime_PrepareInteractive(t *testing.T) {
	requirePosixShell(t)

	rt := NewNativeRuntime()
	prepared, err := rt.PrepareInteractive(&ExecutionContext{
		Context: context.Background(),
		Argv:    []string{"sh", "-c", "true"},
	})
	if err != nil {
		t.Fatalf("PrepareInteractive() error = %v", err)
	}
	defer prepared.Cleanup()

	if prepared.Cmd == nil {
		t.Fatal("PrepareInteractive() returned a nil command")
	}
	if prepared.Cmd.Process != nil {
		t.Error("PrepareInteractive() must not start the command")
	}

	if err := prepared.Cmd.Run(); err != nil {
		t.Errorf("prepared command failed to run: %v", err)
	}
}

func TestNativeRuntime_PrepareInteractiveRejectsEmptyArgv(t *testing.T) {
	t.Parallel()

	rt := NewNativeRuntime()
	if _, err := rt.PrepareInteractive(&ExecutionContext{}); err == nil {
		t.Error("PrepareInteractive() should reject an empty argv")
	}
}
