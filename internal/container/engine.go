// SPDX-License-Identifier: EPL-2.0

// Package container abstracts the CLI container engines (docker, podman)
// used to run the GPS workflow in an isolated image. The engine surface is
// deliberately small: pull an image, run a one-shot container with the
// workspace mounted and the serial device passed through, and build the
// equivalent argument list for PTY attachment.
package container

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/gpskit/gpskit/pkg/types"
)

const (
	// EngineTypeDocker selects the Docker CLI.
	EngineTypeDocker EngineType = "docker"
	// EngineTypePodman selects the Podman CLI.
	EngineTypePodman EngineType = "podman"
	// EngineTypeAuto probes for docker first, then podman.
	EngineTypeAuto EngineType = ""
)

var (
	// ErrInvalidEngineType is the sentinel error wrapped by InvalidEngineTypeError.
	ErrInvalidEngineType = errors.New("invalid container engine type")

	// ErrInvalidDeviceMapping is the sentinel error wrapped by InvalidDeviceMappingError.
	ErrInvalidDeviceMapping = errors.New("invalid device mapping")
)

type (
	// EngineType identifies a container engine by CLI name. The zero value
	// means auto-detect.
	EngineType string

	// InvalidEngineTypeError is returned when an EngineType value is not
	// one of the supported engines.
	InvalidEngineTypeError struct {
		Value EngineType
	}

	// Engine is the interface both CLI engines implement.
	Engine interface {
		// Name returns the engine name (docker or podman).
		Name() string
		// BinaryPath returns the resolved engine binary path, or "" if the
		// binary was not found on PATH.
		BinaryPath() string
		// Available reports whether the engine binary exists and its daemon
		// (or rootless backend) responds.
		Available() bool
		// Version returns the engine version string.
		Version(ctx context.Context) (string, error)
		// ImageExists reports whether the image is present locally.
		ImageExists(ctx context.Context, image string) (bool, error)
		// Pull fetches an image, retrying transient failures.
		Pull(ctx context.Context, image string, stdout, stderr io.Writer) error
		// Run executes a one-shot container and blocks until it exits.
		Run(ctx context.Context, opts RunOptions) (*RunResult, error)
		// Command builds the engine invocation for opts without starting it,
		// for callers that attach a PTY.
		Command(ctx context.Context, opts RunOptions) *exec.Cmd
	}

	// RunOptions describes one container run.
	RunOptions struct {
		// Image is the image to run.
		Image string
		// Command is the command and arguments executed inside.
		Command []string
		// WorkDir is the working directory inside the container.
		WorkDir string
		// Env contains environment variables set inside the container.
		Env map[string]string
		// Volumes are bind mounts in "host:container" format.
		Volumes []string
		// Devices are host device nodes passed through, in "host" or
		// "host:container" format.
		Devices []string
		// GroupAdd lists supplementary groups for the container user.
		GroupAdd []string
		// Remove removes the container after exit.
		Remove bool
		// Interactive keeps stdin open (-i).
		Interactive bool
		// TTY allocates a pseudo-terminal (-t).
		TTY bool
		// I/O streams. Nil streams are left unwired.
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
	}

	// RunResult is the outcome of a container run.
	RunResult struct {
		// ExitCode is the container's exit status.
		ExitCode types.ExitCode
		// Error is an infrastructure failure, not a non-zero exit.
		Error error
	}

	// DeviceMapping is a host device node optionally mapped to a different
	// path inside the container.
	DeviceMapping struct {
		Host      string
		Container string
	}

	// InvalidDeviceMappingError is returned when a DeviceMapping has no
	// host path.
	InvalidDeviceMappingError struct {
		Value DeviceMapping
	}

	// ErrEngineNotAvailable is returned when no usable container engine is found.
	ErrEngineNotAvailable struct {
		Engine string
		Reason string
	}
)

// String returns the string representation of the EngineType.
func (t EngineType) String() string { return string(t) }

// Validate returns nil if the EngineType is one of the supported engines.
// The zero value is valid and means auto-detect.
func (t EngineType) Validate() error {
	switch t {
	case EngineTypeDocker, EngineTypePodman, EngineTypeAuto:
		return nil
	default:
		return &InvalidEngineTypeError{Value: t}
	}
}

// Error implements the error interface.
func (e *InvalidEngineTypeError) Error() string {
	return fmt.Sprintf("invalid container engine type %q (valid: docker, podman, or empty for auto)", e.Value)
}

// Unwrap returns ErrInvalidEngineType so callers can use errors.Is for programmatic detection.
func (e *InvalidEngineTypeError) Unwrap() error { return ErrInvalidEngineType }

// Validate returns an error if the DeviceMapping has no host path.
func (d DeviceMapping) Validate() error {
	if strings.TrimSpace(d.Host) == "" {
		return &InvalidDeviceMappingError{Value: d}
	}
	return nil
}

// String returns the mapping in the form the --device flag expects:
// "host" when both sides match, "host:container" otherwise.
func (d DeviceMapping) String() string {
	if d.Container == "" || d.Container == d.Host {
		return d.Host
	}
	return d.Host + ":" + d.Container
}

// Error implements the error interface for InvalidDeviceMappingError.
func (e *InvalidDeviceMappingError) Error() string {
	return fmt.Sprintf("invalid device mapping %q: host device path must be non-empty", e.Value.String())
}

// Unwrap returns ErrInvalidDeviceMapping for errors.Is() compatibility.
func (e *InvalidDeviceMappingError) Unwrap() error { return ErrInvalidDeviceMapping }

// ParseDeviceMapping parses a "host[:container]" device spec.
func ParseDeviceMapping(spec string) (DeviceMapping, error) {
	var d DeviceMapping
	parts := strings.SplitN(spec, ":", 2)
	d.Host = parts[0]
	if len(parts) == 2 {
		d.Container = parts[1]
	}
	if err := d.Validate(); err != nil {
		return d, err
	}
	return d, nil
}

// Error implements the error interface.
func (e *ErrEngineNotAvailable) Error() string {
	return fmt.Sprintf("container engine '%s' is not available: %s", e.Engine, e.Reason)
}

// NewEngine creates a container engine based on preference. A named engine
// that is unavailable falls back to the other one; EngineTypeAuto probes
// docker first, then podman.
func NewEngine(preferred EngineType) (Engine, error) {
	switch preferred {
	case EngineTypeDocker:
		if engine := NewDockerEngine(); engine.Available() {
			return engine, nil
		}
		if engine := NewPodmanEngine(); engine.Available() {
			return engine, nil
		}
		return nil, &ErrEngineNotAvailable{
			Engine: "docker",
			Reason: "docker is not installed or not accessible, and podman fallback is also not available",
		}

	case EngineTypePodman:
		if engine := NewPodmanEngine(); engine.Available() {
			return engine, nil
		}
		if engine := NewDockerEngine(); engine.Available() {
			return engine, nil
		}
		return nil, &ErrEngineNotAvailable{
			Engine: "podman",
			Reason: "podman is not installed or not accessible, and docker fallback is also not available",
		}

	case EngineTypeAuto:
		if engine := NewDockerEngine(); engine.Available() {
			return engine, nil
		}
		if engine := NewPodmanEngine(); engine.Available() {
			return engine, nil
		}
		return nil, &ErrEngineNotAvailable{
			Engine: "any",
			Reason: "no container engine (docker or podman) is available on this system",
		}

	default:
		return nil, &InvalidEngineTypeError{Value: preferred}
	}
}
