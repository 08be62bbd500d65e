// SPDX-License-Identifier: MPL-2.0

package python

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"testing"
)

// fakeExecCommand returns an ExecCommandFunc that re-invokes the test binary
// so interpreter output can be scripted without a real Python install.
func fakeExecCommand(stdout string, exitCode int) ExecCommandFunc {
	return func(ctx context.Context, name string, arg ...string) *exec.Cmd {
		cs := []string{"-test.run=TestHelperProcess", "--", name}
		cs = append(cs, arg...)
		cmd := exec.CommandContext(ctx, os.Args[0], cs...)
		cmd.Env = append(os.Environ(),
			"GO_WANT_HELPER_PROCESS=1",
			"GO_HELPER_STDOUT="+stdout,
			"GO_HELPER_EXIT_CODE="+strconv.Itoa(exitCode),
		)
		return cmd
	}
}

// TestHelperProcess is not a real test; it is the child process spawned by
// fakeExecCommand.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	if out := os.Getenv("GO_HELPER_STDOUT"); out != "" {
		_, _ = os.Stdout.WriteString(out)
	}
	code := 0
	if v := os.Getenv("GO_HELPER_EXIT_CODE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			code = n
		}
	}
	os.Exit(code)
}

func TestLocator_Find(t *testing.T) {
	t.Parallel()

	loc := NewLocator(
		WithLookPath(func(file string) (string, error) {
			if file != "python3" {
				t.Errorf("lookPath called with %q, want %q", file, "python3")
			}
			return "/usr/bin/python3", nil
		}),
		WithExecCommand(fakeExecCommand("Python 3.12.4\n", 0)),
	)

	interp, err := loc.Find(context.Background(), "python3")
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if interp.Command != "python3" {
		t.Errorf("Command = %q, want %q", interp.Command, "python3")
	}
	if interp.Path != "/usr/bin/python3" {
		t.Errorf("Path = %q, want %q", interp.Path, "/usr/bin/python3")
	}
	if interp.Version != "Python 3.12.4" {
		t.Errorf("Version = %q, want %q", interp.Version, "Python 3.12.4")
	}
}

func TestLocator_Find_DefaultsCommand(t *testing.T) {
	t.Parallel()

	var looked string
	loc := NewLocator(
		WithLookPath(func(file string) (string, error) {
			looked = file
			return "/usr/local/bin/python3", nil
		}),
		WithExecCommand(fakeExecCommand("Python 3.11.9", 0)),
	)

	if _, err := loc.Find(context.Background(), ""); err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if looked != DefaultCommand {
		t.Errorf("lookPath called with %q, want %q", looked, DefaultCommand)
	}
}

func TestLocator_Find_NotFound(t *testing.T) {
	t.Parallel()

	loc := NewLocator(
		WithLookPath(func(file string) (string, error) {
			return "", exec.ErrNotFound
		}),
	)

	_, err := loc.Find(context.Background(), "python3")
	if err == nil {
		t.Fatal("Find() expected error, got nil")
	}
	if !errors.Is(err, ErrInterpreterNotFound) {
		t.Errorf("Find() error = %v, want ErrInterpreterNotFound", err)
	}

	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("Find() error = %T, want *NotFoundError", err)
	}
	if notFound.Command != "python3" {
		t.Errorf("NotFoundError.Command = %q, want %q", notFound.Command, "python3")
	}
}

func TestLocator_Find_VersionQueryFails(t *testing.T) {
	t.Parallel()

	loc := NewLocator(
		WithLookPath(func(file string) (string, error) {
			return "/usr/bin/python3", nil
		}),
		WithExecCommand(fakeExecCommand("", 1)),
	)

	_, err := loc.Find(context.Background(), "python3")
	if err == nil {
		t.Fatal("Find() expected error, got nil")
	}
	if errors.Is(err, ErrInterpreterNotFound) {
		t.Errorf("Find() error = %v, want a query failure, not ErrInterpreterNotFound", err)
	}
	if !strings.Contains(err.Error(), "failed to query") {
		t.Errorf("Find() error = %q, want to mention the version query", err)
	}
}

func TestLocator_Find_RealInterpreter(t *testing.T) {
	t.Parallel()

	if _, err := exec.LookPath("python3"); err != nil {
		t.Skip("python3 not installed")
	}

	interp, err := NewLocator().Find(context.Background(), "python3")
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if interp.Path == "" {
		t.Error("Find() returned empty Path")
	}
	if _, err := ParseVersion(interp.Version); err != nil {
		t.Errorf("ParseVersion(%q) error = %v", interp.Version, err)
	}
}

func TestParseVersion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "full triple", raw: "Python 3.12.4", want: "v3.12.4"},
		{name: "major minor only", raw: "Python 3.8", want: "v3.8"},
		{name: "release candidate suffix", raw: "Python 3.13.0rc1", want: "v3.13.0"},
		{name: "bare version", raw: "3.10.0", want: "v3.10.0"},
		{name: "python 2 line", raw: "Python 2.7.18", want: "v2.7.18"},
		{name: "trailing newline", raw: "Python 3.11.9\n", want: "v3.11.9"},
		{name: "no digits", raw: "Python", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseVersion(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseVersion(%q) expected error, got %q", tt.raw, got)
				}
				if !errors.Is(err, ErrInvalidVersion) {
					t.Errorf("ParseVersion(%q) error = %v, want ErrInvalidVersion", tt.raw, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseVersion(%q) error = %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("ParseVersion(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestMeetsMinimum(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		version string
		minimum string
		want    bool
		wantErr bool
	}{
		{name: "well above", version: "Python 3.12.4", minimum: "3.8", want: true},
		{name: "exactly at", version: "Python 3.8.0", minimum: "3.8", want: true},
		{name: "just below", version: "Python 3.7.9", minimum: "3.8", want: false},
		{name: "python 2", version: "Python 2.7.18", minimum: "3.8", want: false},
		{name: "bad version", version: "no version here", minimum: "3.8", wantErr: true},
		{name: "bad minimum", version: "Python 3.12.4", minimum: "latest", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := MeetsMinimum(tt.version, tt.minimum)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("MeetsMinimum(%q, %q) expected error", tt.version, tt.minimum)
				}
				return
			}
			if err != nil {
				t.Fatalf("MeetsMinimum(%q, %q) error = %v", tt.version, tt.minimum, err)
			}
			if got != tt.want {
				t.Errorf("MeetsMinimum(%q, %q) = %v, want %v", tt.version, tt.minimum, got, tt.want)
			}
		})
	}
}

func TestInterpreter_MeetsMinimum(t *testing.T) {
	t.Parallel()

	interp := &Interpreter{Command: "python3", Path: "/usr/bin/python3", Version: "Python 3.12.4"}

	ok, err := interp.MeetsMinimum(MinimumVersion)
	if err != nil {
		t.Fatalf("MeetsMinimum() error = %v", err)
	}
	if !ok {
		t.Errorf("MeetsMinimum(%q) = false for %q, want true", MinimumVersion, interp.Version)
	}
}
