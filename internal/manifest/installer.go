// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"context"
	"fmt"
	"io"

	"github.com/gpskit/gpskit/internal/runtime"
)

type (
	// Executor runs the pip invocation. Any runtime implementation satisfies
	// it, so in container mode the install happens inside the container.
	Executor interface {
		Execute(ctx *runtime.ExecutionContext) *runtime.Result
	}

	// Installer installs a requirements manifest with pip.
	Installer struct {
		// Python is the interpreter pip runs under, normally the virtual
		// environment's own.
		Python string
		// Path is the requirements manifest path.
		Path string

		exec Executor
	}
)

// NewInstaller creates an installer that runs pip under python through exec.
func NewInstaller(python, path string, exec Executor) *Installer {
	return &Installer{
		Python: python,
		Path:   path,
		exec:   exec,
	}
}

// Install runs `<python> -m pip install -r <path>` with the activation
// environment applied and pip's output streamed to the given writers. A
// missing manifest is not special-cased: pip reports it and the non-zero
// exit surfaces like any other install failure.
func (i *Installer) Install(ctx context.Context, env map[string]string, stdout, stderr io.Writer) error {
	res := i.exec.Execute(&runtime.ExecutionContext{
		Context: ctx,
		Argv:    []string{i.Python, "-m", "pip", "install", "-r", i.Path},
		Env:     env,
		Stdout:  stdout,
		Stderr:  stderr,
	})
	if res.Error != nil {
		return fmt.Errorf("failed to install dependencies from %s: %w", i.Path, res.Error)
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("failed to install dependencies from %s: exit status %d", i.Path, res.ExitCode)
	}
	return nil
}
