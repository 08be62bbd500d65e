// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"

	"github.com/gpskit/gpskit/pkg/types"
)

// VirtualRuntime executes shell snippets with the embedded mvdan/sh
// interpreter. It needs no shell on the host, which keeps hook scripts
// portable across platforms.
type VirtualRuntime struct{}

// NewVirtualRuntime creates a new virtual runtime.
func NewVirtualRuntime() *VirtualRuntime {
	return &VirtualRuntime{}
}

// Type returns the runtime type key.
func (r *VirtualRuntime) Type() RuntimeType {
	return RuntimeTypeVirtual
}

// Available always returns true: the interpreter is compiled in.
func (r *VirtualRuntime) Available() bool {
	return true
}

// Validate checks that the context carries a script and that it parses.
func (r *VirtualRuntime) Validate(ctx *ExecutionContext) error {
	if ctx.Script == "" {
		return fmt.Errorf("no script to execute")
	}
	if _, err := syntax.NewParser().Parse(strings.NewReader(ctx.Script), "script"); err != nil {
		return fmt.Errorf("script syntax error: %w", err)
	}
	return nil
}

// Execute parses and runs the script in-process. External commands invoked
// by the script still resolve against PATH, so the overlay environment is
// visible to them as well.
func (r *VirtualRuntime) Execute(ctx *ExecutionContext) *Result {
	prog, err := syntax.NewParser().Parse(strings.NewReader(ctx.Script), "script")
	if err != nil {
		return NewErrorResult(1, fmt.Errorf("failed to parse script: %w", err))
	}

	envList := append(os.Environ(), EnvToSlice(ctx.Env)...)

	runner, err := interp.New(
		interp.Dir(ctx.Dir),
		interp.Env(expand.ListEnviron(envList...)),
		interp.StdIO(ctx.Stdin, ctx.Stdout, ctx.Stderr),
	)
	if err != nil {
		return NewErrorResult(1, fmt.Errorf("failed to create interpreter: %w", err))
	}

	if err := runner.Run(ctx.EffectiveContext(), prog); err != nil {
		var exitStatus interp.ExitStatus
		if errors.As(err, &exitStatus) {
			return NewExitCodeResult(types.ExitCode(exitStatus))
		}
		return NewErrorResult(1, fmt.Errorf("script execution failed: %w", err))
	}

	return NewSuccessResult()
}
