// SPDX-License-Identifier: MPL-2.0

// Package python locates the CPython interpreter the GPS workflow runs on
// and parses its version for diagnostic gates.
package python

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	"golang.org/x/mod/semver"
)

const (
	// DefaultCommand is the interpreter looked up when none is configured.
	DefaultCommand = "python3"

	// MinimumVersion is the oldest interpreter line the bundled entry
	// programs support.
	MinimumVersion = "3.8"
)

var (
	// ErrInterpreterNotFound is the sentinel error wrapped by NotFoundError.
	ErrInterpreterNotFound = errors.New("python interpreter not found")

	// ErrInvalidVersion indicates a version string that could not be parsed.
	ErrInvalidVersion = errors.New("invalid python version")
)

// versionPattern extracts the numeric component from interpreter version
// output such as "Python 3.12.4". Pre-release suffixes like "rc1" are
// ignored; the release gate only cares about the numeric line.
var versionPattern = regexp.MustCompile(`\d+\.\d+(?:\.\d+)?`)

type (
	// ExecCommandFunc is the function signature for creating exec.Cmd.
	// This allows injection of mock implementations for testing.
	ExecCommandFunc func(ctx context.Context, name string, arg ...string) *exec.Cmd

	// LookPathFunc is exec.LookPath's signature, injectable for testing.
	LookPathFunc func(file string) (string, error)

	// Interpreter is a resolved Python interpreter.
	Interpreter struct {
		// Command is the name the interpreter was looked up by, e.g. "python3".
		Command string
		// Path is the absolute path of the resolved binary.
		Path string
		// Version is the raw version line, e.g. "Python 3.12.4".
		Version string
	}

	// NotFoundError reports that a named interpreter is absent from PATH.
	NotFoundError struct {
		Command string
	}

	// Locator resolves interpreters on PATH and queries their version.
	Locator struct {
		lookPath    LookPathFunc
		execCommand ExecCommandFunc
	}

	// LocatorOption configures a Locator.
	LocatorOption func(*Locator)
)

// WithLookPath sets a custom path lookup function for testing.
func WithLookPath(fn LookPathFunc) LocatorOption {
	return func(l *Locator) {
		l.lookPath = fn
	}
}

// WithExecCommand sets a custom exec command function for testing.
func WithExecCommand(fn ExecCommandFunc) LocatorOption {
	return func(l *Locator) {
		l.execCommand = fn
	}
}

// NewLocator creates a locator backed by the real PATH lookup.
func NewLocator(opts ...LocatorOption) *Locator {
	l := &Locator{
		lookPath:    exec.LookPath,
		execCommand: exec.CommandContext,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("python interpreter %q not found on PATH", e.Command)
}

// Unwrap returns ErrInterpreterNotFound so callers can use errors.Is.
func (e *NotFoundError) Unwrap() error { return ErrInterpreterNotFound }

// Find resolves command on PATH and captures its version line. An empty
// command falls back to DefaultCommand. Version output is read from both
// streams since some interpreter builds print it on stderr.
func (l *Locator) Find(ctx context.Context, command string) (*Interpreter, error) {
	if command == "" {
		command = DefaultCommand
	}

	path, err := l.lookPath(command)
	if err != nil {
		return nil, &NotFoundError{Command: command}
	}

	out, err := l.execCommand(ctx, path, "--version").CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("failed to query %s version: %w", command, err)
	}

	return &Interpreter{
		Command: command,
		Path:    path,
		Version: strings.TrimSpace(string(out)),
	}, nil
}

// ParseVersion extracts the numeric version from raw interpreter output and
// normalizes it with a "v" prefix as required by the semver package. Returns
// ErrInvalidVersion if no usable version is present.
func ParseVersion(raw string) (string, error) {
	match := versionPattern.FindString(raw)
	if match == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidVersion, raw)
	}
	norm := "v" + match
	if !semver.IsValid(norm) {
		return "", fmt.Errorf("%w: %q", ErrInvalidVersion, raw)
	}
	return norm, nil
}

// MeetsMinimum reports whether version is at least minimum. Both arguments
// accept raw interpreter output ("Python 3.12.4") or bare versions ("3.8").
func MeetsMinimum(version, minimum string) (bool, error) {
	v, err := ParseVersion(version)
	if err != nil {
		return false, err
	}
	m, err := ParseVersion(minimum)
	if err != nil {
		return false, err
	}
	return semver.Compare(v, m) >= 0, nil
}

// MeetsMinimum reports whether the interpreter version is at least minimum.
func (i *Interpreter) MeetsMinimum(minimum string) (bool, error) {
	return MeetsMinimum(i.Version, minimum)
}
