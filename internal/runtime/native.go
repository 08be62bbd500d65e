package runtime

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/gpskit/gpskit/pkg/types"
)

// NativeRuntime executes programs directly as host processes. Argv[0] is
// resolved against PATH by os/exec, and the overlay environment is appended
// to the inherited one so overlay values win for duplicate keys.
type NativeRuntime struct{}

// NewNativeRuntime creates a new native runtime.
func NewNativeRuntime() *NativeRuntime {
	return &NativeRuntime{}
}

// Type returns the runtime type key.
func (r *NativeRuntime) Type() RuntimeType {
	return RuntimeTypeNative
}

// Available always returns true: running host processes needs nothing beyond
// the operating system itself.
func (r *NativeRuntime) Available() bool {
	return true
}

// Validate checks that the context names a program to run.
func (r *NativeRuntime) Validate(ctx *ExecutionContext) error {
	if len(ctx.Argv) == 0 {
		return fmt.Errorf("no program to execute")
	}
	if ctx.Argv[0] == "" {
		return fmt.Errorf("program name is empty")
	}
	return nil
}

// Execute runs the program and blocks until it exits, wiring the context's
// streams straight through.
func (r *NativeRuntime) Execute(ctx *ExecutionContext) *Result {
	cmd := r.buildCmd(ctx)

	cmd.Stdin = ctx.Stdin
	cmd.Stdout = ctx.Stdout
	cmd.Stderr = ctx.Stderr

	return runAndClassify(cmd)
}

// ExecuteCapture runs the program with stdout and stderr captured into the
// Result instead of wired through.
func (r *NativeRuntime) ExecuteCapture(ctx *ExecutionContext) *Result {
	cmd := r.buildCmd(ctx)

	var stdout, stderr bytes.Buffer
	cmd.Stdin = ctx.Stdin
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	result := runAndClassify(cmd)
	result.Output = stdout.String()
	result.ErrOutput = stderr.String()
	return result
}

// PrepareInteractive builds the command without starting it so the caller can
// attach a PTY. No cleanup is needed for host processes.
func (r *NativeRuntime) PrepareInteractive(ctx *ExecutionContext) (*PreparedCommand, error) {
	if err := r.Validate(ctx); err != nil {
		return nil, err
	}
	return &PreparedCommand{Cmd: r.buildCmd(ctx), Cleanup: func() {}}, nil
}

func (r *NativeRuntime) buildCmd(ctx *ExecutionContext) *exec.Cmd {
	cmd := exec.CommandContext(ctx.EffectiveContext(), ctx.Argv[0], ctx.Argv[1:]...)
	cmd.Dir = ctx.Dir
	cmd.Env = append(os.Environ(), EnvToSlice(ctx.Env)...)
	return cmd
}

// runAndClassify separates a non-zero exit (normal termination, no Error)
// from an infrastructure failure such as the program not being found.
func runAndClassify(cmd *exec.Cmd) *Result {
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return NewExitCodeResult(types.ExitCode(exitErr.ExitCode()))
		}
		return NewErrorResult(1, fmt.Errorf("failed to execute %s: %w", cmd.Path, err))
	}
	return NewSuccessResult()
}
