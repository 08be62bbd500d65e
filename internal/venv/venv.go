// SPDX-License-Identifier: MPL-2.0

// Package venv creates and describes the Python virtual environment the GPS
// entry programs run in. Activation is modeled as an explicit environment
// map rather than mutated process state, so callers decide exactly which
// invocations see the environment.
package venv

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	goruntime "runtime"

	"github.com/gpskit/gpskit/internal/runtime"
	"github.com/gpskit/gpskit/pkg/platform"
)

// DefaultDir is the environment directory used when none is configured.
const DefaultDir = "venv"

type (
	// Executor runs the creation command. Any runtime implementation
	// satisfies it, so in container mode the environment is created inside
	// the container where the interpreter actually lives.
	Executor interface {
		Execute(ctx *runtime.ExecutionContext) *runtime.Result
	}

	// Env is a Python virtual environment rooted at Dir. Dir should be
	// absolute so the activation map it produces is position-independent.
	Env struct {
		// Dir is the environment directory.
		Dir string
		// Interpreter is the interpreter used to create the environment,
		// e.g. "/usr/bin/python3".
		Interpreter string

		exec Executor
	}
)

// New describes the virtual environment at dir, created (when missing) with
// interpreter through exec.
func New(dir, interpreter string, exec Executor) *Env {
	return &Env{
		Dir:         dir,
		Interpreter: interpreter,
		exec:        exec,
	}
}

// Exists reports whether the environment directory is present.
func (e *Env) Exists() bool {
	info, err := os.Stat(e.Dir)
	return err == nil && info.IsDir()
}

// Ensure creates the environment via `<interpreter> -m venv <dir>` when the
// directory is missing. An existing directory is left untouched and reported
// with created=false; the environment is never recreated or destroyed.
// Creation output is streamed to the given writers.
func (e *Env) Ensure(ctx context.Context, stdout, stderr io.Writer) (created bool, err error) {
	info, statErr := os.Stat(e.Dir)
	if statErr == nil {
		if !info.IsDir() {
			return false, fmt.Errorf("environment path %s exists but is not a directory", e.Dir)
		}
		return false, nil
	}
	if !os.IsNotExist(statErr) {
		return false, fmt.Errorf("failed to stat environment directory: %w", statErr)
	}

	res := e.exec.Execute(&runtime.ExecutionContext{
		Context: ctx,
		Argv:    []string{e.Interpreter, "-m", "venv", e.Dir},
		Stdout:  stdout,
		Stderr:  stderr,
	})
	if res.Error != nil {
		return false, fmt.Errorf("failed to create virtual environment at %s: %w", e.Dir, res.Error)
	}
	if res.ExitCode != 0 {
		return false, fmt.Errorf("failed to create virtual environment at %s: exit status %d", e.Dir, res.ExitCode)
	}
	return true, nil
}

// BinDir returns the environment's executables directory: bin on Unix,
// Scripts on Windows.
func (e *Env) BinDir() string {
	if goruntime.GOOS == platform.Windows {
		return filepath.Join(e.Dir, "Scripts")
	}
	return filepath.Join(e.Dir, "bin")
}

// Python returns the path of the environment's own interpreter.
func (e *Env) Python() string {
	name := "python"
	if goruntime.GOOS == platform.Windows {
		name = "python.exe"
	}
	return filepath.Join(e.BinDir(), name)
}

// Environ builds the explicit activation map: VIRTUAL_ENV pointing at the
// environment and PATH with the environment's bin directory prepended to
// basePath (normally the caller's current PATH value). Building the map
// never fails; whether an invocation sees it is the caller's decision.
func (e *Env) Environ(basePath string) map[string]string {
	path := e.BinDir()
	if basePath != "" {
		path += string(os.PathListSeparator) + basePath
	}
	return map[string]string{
		"VIRTUAL_ENV": e.Dir,
		"PATH":        path,
	}
}
