// SPDX-License-Identifier: MPL-2.0

// Package runtime abstracts how entry programs and hook scripts execute:
// directly on the host, through the embedded shell interpreter, or inside a
// container with the workspace bind-mounted and the serial device passed
// through. A Registry maps runtime types to implementations so callers pick
// by configuration rather than by concrete type.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sort"
	"sync"

	"github.com/gpskit/gpskit/pkg/types"
)

// Runtime type constants.
const (
	// RuntimeTypeNative executes programs directly as host processes.
	RuntimeTypeNative RuntimeType = "native"
	// RuntimeTypeVirtual executes shell snippets with the built-in interpreter.
	RuntimeTypeVirtual RuntimeType = "virtual"
	// RuntimeTypeContainer executes programs inside a container.
	RuntimeTypeContainer RuntimeType = "container"
)

var (
	// ErrInvalidRuntimeType is the sentinel error wrapped by InvalidRuntimeTypeError.
	ErrInvalidRuntimeType = errors.New("invalid runtime type")
	// ErrRuntimeNotRegistered is returned when a runtime type has no registration.
	ErrRuntimeNotRegistered = errors.New("runtime not registered")
	// ErrRuntimeNotAvailable is returned when a registered runtime cannot run on this system.
	ErrRuntimeNotAvailable = errors.New("runtime not available")
	// ErrNotInteractive is returned when a runtime cannot prepare a command for
	// terminal attachment.
	ErrNotInteractive = errors.New("runtime does not support interactive preparation")
)

type (
	// RuntimeType identifies one of the execution strategies.
	RuntimeType string

	// InvalidRuntimeTypeError is returned when a RuntimeType value is not
	// one of the defined runtime types.
	InvalidRuntimeTypeError struct {
		Value RuntimeType
	}

	// ExecutionContext carries everything a runtime needs to run one unit of
	// work: a program invocation (Argv) or a shell snippet (Script), the
	// working directory, an environment overlay, and the I/O streams.
	ExecutionContext struct {
		// Context is used for cancellation. Nil means context.Background().
		Context context.Context

		// Argv is the program and its arguments for process-based runtimes.
		// Argv[0] is resolved against PATH unless it contains a separator.
		Argv []string

		// Script is a shell snippet for the virtual runtime. Runtimes that
		// execute Argv ignore it and vice versa.
		Script string

		// Dir is the working directory. Empty means the current directory.
		Dir string

		// Env is an environment overlay appended to the inherited process
		// environment. Later entries win, so overlay values take precedence.
		Env map[string]string

		// I/O streams. Nil streams are left unwired.
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer

		// Verbose enables diagnostic output from the runtime itself.
		Verbose bool
	}

	// Result is the outcome of one execution.
	Result struct {
		// ExitCode is the process exit status. Meaningful even when Error is
		// set, if the process ran at all.
		ExitCode types.ExitCode

		// Error is an infrastructure failure: the program could not be
		// started, not a non-zero exit.
		Error error

		// Output and ErrOutput hold captured streams when the runtime was
		// asked to capture. Empty when streams were wired through.
		Output    string
		ErrOutput string
	}

	// Runtime executes work described by an ExecutionContext.
	Runtime interface {
		// Type returns the runtime's type key.
		Type() RuntimeType

		// Execute runs the work and blocks until it finishes.
		Execute(ctx *ExecutionContext) *Result

		// Available reports whether the runtime can run on this system.
		Available() bool

		// Validate checks the ExecutionContext before execution.
		Validate(ctx *ExecutionContext) error
	}

	// InteractiveRuntime is implemented by runtimes that can hand the caller
	// a prepared command for terminal attachment (PTY) instead of running it
	// themselves.
	InteractiveRuntime interface {
		Runtime

		// PrepareInteractive builds the command without starting it. The
		// caller owns starting, waiting, and invoking Cleanup.
		PrepareInteractive(ctx *ExecutionContext) (*PreparedCommand, error)
	}

	// PreparedCommand is an unstarted command plus any cleanup the
	// preparation requires.
	PreparedCommand struct {
		Cmd     *exec.Cmd
		Cleanup func()
	}

	// Registry maps runtime types to implementations.
	Registry struct {
		mu       sync.RWMutex
		runtimes map[RuntimeType]Runtime
	}
)

// String returns the string representation of the RuntimeType.
func (t RuntimeType) String() string { return string(t) }

// Validate returns nil if the RuntimeType is one of the defined types,
// or an error wrapping ErrInvalidRuntimeType if it is not.
func (t RuntimeType) Validate() error {
	switch t {
	case RuntimeTypeNative, RuntimeTypeVirtual, RuntimeTypeContainer:
		return nil
	default:
		return &InvalidRuntimeTypeError{Value: t}
	}
}

// Error implements the error interface for InvalidRuntimeTypeError.
func (e *InvalidRuntimeTypeError) Error() string {
	return fmt.Sprintf("invalid runtime type %q (valid: native, virtual, container)", e.Value)
}

// Unwrap returns ErrInvalidRuntimeType for errors.Is() compatibility.
func (e *InvalidRuntimeTypeError) Unwrap() error { return ErrInvalidRuntimeType }

// Success returns true if the execution finished with exit code 0 and no
// infrastructure error.
func (r *Result) Success() bool {
	return r.Error == nil && r.ExitCode.IsSuccess()
}

// EffectiveContext returns the cancellation context, defaulting to
// context.Background() when unset.
func (c *ExecutionContext) EffectiveContext() context.Context {
	if c.Context != nil {
		return c.Context
	}
	return context.Background()
}

// NewRegistry creates an empty runtime registry.
func NewRegistry() *Registry {
	return &Registry{runtimes: make(map[RuntimeType]Runtime)}
}

// Register adds a runtime under the given type, replacing any previous
// registration.
func (r *Registry) Register(typ RuntimeType, rt Runtime) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runtimes[typ] = rt
}

// Get returns the runtime registered for the given type.
func (r *Registry) Get(typ RuntimeType) (Runtime, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rt, ok := r.runtimes[typ]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRuntimeNotRegistered, typ)
	}
	return rt, nil
}

// Available returns the types of all registered runtimes that report
// themselves available, in stable order.
func (r *Registry) Available() []RuntimeType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var avail []RuntimeType
	for typ, rt := range r.runtimes {
		if rt.Available() {
			avail = append(avail, typ)
		}
	}
	sort.Slice(avail, func(i, j int) bool { return avail[i] < avail[j] })
	return avail
}

// Execute looks up the runtime for typ, checks availability, validates the
// context, and runs it. Infrastructure failures come back as Result.Error
// with exit code 1 so callers have a single path to inspect.
func (r *Registry) Execute(typ RuntimeType, ctx *ExecutionContext) *Result {
	rt, err := r.Get(typ)
	if err != nil {
		return NewErrorResult(1, err)
	}

	if !rt.Available() {
		return NewErrorResult(1, fmt.Errorf("%w: %s", ErrRuntimeNotAvailable, typ))
	}

	if err := rt.Validate(ctx); err != nil {
		return NewErrorResult(1, fmt.Errorf("validation failed for %s runtime: %w", typ, err))
	}

	return rt.Execute(ctx)
}

// EnvToSlice converts an environment map to KEY=VALUE form in stable order.
func EnvToSlice(env map[string]string) []string {
	if len(env) == 0 {
		return nil
	}

	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]string, 0, len(env))
	for _, k := range keys {
		out = append(out, k+"="+env[k])
	}
	return out
}
