// SPDX-License-Identifier: EPL-2.0

package runtime

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gpskit/gpskit/internal/container"
)

// containerWorkspace is where the host workspace is mounted inside the
// container. The virtual environment and requirements manifest live under it,
// so host paths below the workspace map 1:1 onto container paths.
const containerWorkspace = "/workspace"

// ContainerOptions shape every container invocation made by the runtime.
type ContainerOptions struct {
	// Image is the image to run, e.g. "python:3.12-slim".
	Image string

	// Workspace is the host directory bind-mounted at /workspace. Paths in
	// Argv, Dir, and Env values that fall under it are re-homed to the
	// container mount before execution.
	Workspace string

	// Devices are host device nodes passed through, e.g. "/dev/ttyUSB0".
	Devices []string

	// GroupAdd lists supplementary groups for the container user, e.g.
	// "dialout" so the passed-through serial device is readable.
	GroupAdd []string
}

// ContainerRuntime executes programs inside a container via a CLI engine
// (docker or podman). The workspace is bind-mounted so the virtual
// environment created on the host is visible inside.
type ContainerRuntime struct {
	engine container.Engine
	opts   ContainerOptions
}

// NewContainerRuntime creates a container runtime on top of the given engine.
func NewContainerRuntime(engine container.Engine, opts ContainerOptions) *ContainerRuntime {
	return &ContainerRuntime{engine: engine, opts: opts}
}

// Type returns the runtime type key.
func (r *ContainerRuntime) Type() RuntimeType {
	return RuntimeTypeContainer
}

// Available reports whether the underlying engine binary exists and responds.
func (r *ContainerRuntime) Available() bool {
	return r.engine != nil && r.engine.Available()
}

// EngineName returns the name of the underlying container engine.
func (r *ContainerRuntime) EngineName() string {
	if r.engine == nil {
		return "none"
	}
	return r.engine.Name()
}

// Validate checks that the context names a program and that the runtime has
// an image and a workspace to mount.
func (r *ContainerRuntime) Validate(ctx *ExecutionContext) error {
	if len(ctx.Argv) == 0 {
		return fmt.Errorf("no program to execute")
	}
	if r.opts.Image == "" {
		return fmt.Errorf("container image is not configured")
	}
	if r.opts.Workspace == "" {
		return fmt.Errorf("container workspace is not configured")
	}
	return nil
}

// Execute runs the program inside a fresh container and blocks until it
// exits. The container is always removed afterwards.
func (r *ContainerRuntime) Execute(ctx *ExecutionContext) *Result {
	runOpts := r.buildRunOptions(ctx)
	runOpts.Stdin = ctx.Stdin
	runOpts.Stdout = ctx.Stdout
	runOpts.Stderr = ctx.Stderr
	runOpts.Interactive = ctx.Stdin != nil

	res, err := r.engine.Run(ctx.EffectiveContext(), runOpts)
	if err != nil {
		return NewErrorResult(1, fmt.Errorf("failed to run container: %w", err))
	}
	return NewExitCodeResult(res.ExitCode)
}

// PrepareInteractive builds the engine invocation without starting it so the
// caller can attach a PTY. TTY and interactive flags are forced on.
func (r *ContainerRuntime) PrepareInteractive(ctx *ExecutionContext) (*PreparedCommand, error) {
	if err := r.Validate(ctx); err != nil {
		return nil, err
	}

	runOpts := r.buildRunOptions(ctx)
	runOpts.Interactive = true
	runOpts.TTY = true

	cmd := r.engine.Command(ctx.EffectiveContext(), runOpts)
	return &PreparedCommand{Cmd: cmd, Cleanup: func() {}}, nil
}

func (r *ContainerRuntime) buildRunOptions(ctx *ExecutionContext) container.RunOptions {
	argv := make([]string, len(ctx.Argv))
	for i, a := range ctx.Argv {
		argv[i] = r.rehomePath(a)
	}

	env := make(map[string]string, len(ctx.Env))
	for k, v := range ctx.Env {
		if k == "PATH" {
			env[k] = r.rehomePathList(v)
			continue
		}
		env[k] = r.rehomePath(v)
	}

	workDir := containerWorkspace
	if ctx.Dir != "" {
		workDir = r.rehomePath(ctx.Dir)
	}

	return container.RunOptions{
		Image:    r.opts.Image,
		Command:  argv,
		WorkDir:  workDir,
		Env:      env,
		Volumes:  []string{r.opts.Workspace + ":" + containerWorkspace},
		Devices:  append([]string(nil), r.opts.Devices...),
		GroupAdd: append([]string(nil), r.opts.GroupAdd...),
		Remove:   true,
	}
}

// rehomePath maps a host path under the workspace onto the container mount.
// Values that are not paths under the workspace pass through unchanged.
func (r *ContainerRuntime) rehomePath(p string) string {
	if p == "" || !filepath.IsAbs(p) {
		return p
	}
	rel, err := filepath.Rel(r.opts.Workspace, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return p
	}
	if rel == "." {
		return containerWorkspace
	}
	return containerWorkspace + "/" + filepath.ToSlash(rel)
}

// rehomePathList applies rehomePath to each element of a PATH-style list.
// The container side always joins with ':' since the image is Linux.
func (r *ContainerRuntime) rehomePathList(v string) string {
	parts := strings.Split(v, string(os.PathListSeparator))
	for i, p := range parts {
		parts[i] = r.rehomePath(p)
	}
	return strings.Join(parts, ":")
}

var _ InteractiveRuntime = (*ContainerRuntime)(nil)
