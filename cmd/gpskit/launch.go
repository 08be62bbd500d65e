// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/gpskit/gpskit/internal/config"
	"github.com/gpskit/gpskit/internal/container"
	"github.com/gpskit/gpskit/internal/device"
	"github.com/gpskit/gpskit/internal/issue"
	"github.com/gpskit/gpskit/internal/journal"
	"github.com/gpskit/gpskit/internal/launcher"
	"github.com/gpskit/gpskit/internal/manifest"
	"github.com/gpskit/gpskit/internal/python"
	"github.com/gpskit/gpskit/internal/runtime"
	"github.com/gpskit/gpskit/internal/tui"
	"github.com/gpskit/gpskit/internal/venv"
	"github.com/gpskit/gpskit/pkg/types"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

type (
	// launchOptions shapes buildLauncher for the local commands and the
	// serve session handler.
	launchOptions struct {
		// Stdin, Stdout and Stderr replace the process streams. Serve
		// sessions pass the SSH channel ends here.
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer

		// Interactive replaces the plain menu read with the selector UI.
		// Only local runs set it; the selector draws on the process TTY.
		Interactive bool

		// Exec, when set, takes over launching prepared entry programs.
		// Serve sessions pass the session's PTY-attaching exec here.
		Exec func(cmd *exec.Cmd) (types.ExitCode, error)
	}

	// wiredLauncher bundles a launcher with the resources to release when
	// the run finishes.
	wiredLauncher struct {
		launcher *launcher.Launcher
		journal  *journal.Store
	}
)

// Close releases the launcher's resources.
func (w *wiredLauncher) Close() {
	if w.journal != nil {
		_ = w.journal.Close()
	}
}

// buildLauncher wires the workflow collaborators from the configuration:
// interpreter locator, virtual environment, pip installer, entry program
// runners, post-setup hooks, journal and menu UI.
func buildLauncher(cfg *config.Config, opts launchOptions) (*wiredLauncher, error) {
	cfg, err := overrideRuntime(cfg)
	if err != nil {
		return nil, err
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve working directory: %w", err)
	}

	// The runtimes wire streams through verbatim, so nil here would hand
	// the entry programs /dev/null.
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	rt, err := executionRuntime(cfg, workDir, opts.Stderr)
	if err != nil {
		return nil, err
	}

	env := venv.New(resolvePath(workDir, string(cfg.Env.Dir), venv.DefaultDir), string(cfg.Interpreter), rt)
	installer := manifest.NewInstaller(env.Python(), resolvePath(workDir, string(cfg.Manifest), manifest.DefaultPath), rt)

	extra := deviceEnv(cfg)
	runEnv := env.Environ(os.Getenv("PATH"))
	for k, v := range extra {
		runEnv[k] = v
	}

	lcfg := launcher.Config{
		InterpreterCommand: string(cfg.Interpreter),
		Checker:            python.NewLocator(),
		Env:                env,
		Installer:          installer,
		TestProgram:        newProgramRunner(rt, env, string(cfg.Programs.Test), workDir, runEnv, opts),
		CaptureProgram:     newProgramRunner(rt, env, string(cfg.Programs.Capture), workDir, runEnv, opts),
		TestProgramName:    string(cfg.Programs.Test),
		CaptureProgramName: string(cfg.Programs.Capture),
		ExtraEnv:           extra,
		Stdin:              opts.Stdin,
		Stdout:             opts.Stdout,
		Stderr:             opts.Stderr,
	}

	if len(cfg.Hooks.PostSetup) > 0 {
		lcfg.Hooks = &hookRunner{
			snippets: cfg.Hooks.PostSetup,
			dir:      workDir,
			rt:       runtime.NewVirtualRuntime(),
		}
	}
	if opts.Interactive {
		lcfg.Chooser = tui.NewMenuChooser(tui.DefaultConfig(string(cfg.UI.ColorScheme)))
	}
	if verbose {
		lcfg.Logger = log.NewWithOptions(opts.Stderr, log.Options{
			Prefix: "gpskit",
			Level:  log.DebugLevel,
		})
	}

	wired := &wiredLauncher{}
	if cfg.Journal.Enabled {
		store, journalErr := openJournal(cfg)
		if journalErr != nil {
			// The journal never blocks a session; note the failure and
			// run without it.
			renderIssue(opts.Stderr, issue.JournalOpenFailedId)
			fmt.Fprintln(opts.Stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(journalErr, verbose))
		} else {
			wired.journal = store
			lcfg.Recorder = store
		}
	}

	l, err := launcher.New(lcfg)
	if err != nil {
		wired.Close()
		return nil, err
	}
	wired.launcher = l
	return wired, nil
}

// overrideRuntime applies the --runtime flag over the configured runtime
// mode. The loaded configuration is shared and cached, so the override goes
// onto a copy.
func overrideRuntime(cfg *config.Config) (*config.Config, error) {
	if runtimeOverride == "" {
		return cfg, nil
	}
	mode := config.RuntimeMode(runtimeOverride)
	if ok, errs := mode.IsValid(); !ok {
		return nil, fmt.Errorf("invalid --runtime value: %w", errors.Join(errs...))
	}
	c := *cfg
	c.Runtime = mode
	return &c, nil
}

// executionRuntime returns the runtime the bootstrap and entry programs
// execute through. Native is the default; the engine probe only runs when
// the container runtime is configured, so native runs never pay for a
// docker round-trip.
func executionRuntime(cfg *config.Config, workDir string, stderr io.Writer) (runtime.Runtime, error) {
	if cfg.Runtime != config.RuntimeContainer {
		return runtime.NewNativeRuntime(), nil
	}

	devices := containerDevices(cfg)
	build := runtime.BuildRegistry(runtime.BuildRegistryOptions{
		Engine: container.EngineType(cfg.Container.Engine),
		Container: runtime.ContainerOptions{
			Image:     string(cfg.Container.Image),
			Workspace: workDir,
			Devices:   devices,
			GroupAdd:  containerGroups(devices),
		},
	})
	if build.ContainerInitErr != nil {
		renderIssue(stderr, issue.ContainerEngineNotFoundId)
		return nil, build.ContainerInitErr
	}
	return build.Registry.Get(runtime.RuntimeTypeContainer)
}

// containerDevices lists host device nodes passed through to the container:
// the configured port, or the first discovered candidate when none is set.
func containerDevices(cfg *config.Config) []string {
	if cfg.Device.Port != "" {
		return []string{string(cfg.Device.Port)}
	}
	cands, err := device.Discover()
	if err != nil || len(cands) == 0 {
		return nil
	}
	return []string{cands[0].Path}
}

// containerGroups returns supplementary groups for the container user so a
// passed-through serial device stays readable inside.
func containerGroups(devices []string) []string {
	if len(devices) == 0 {
		return nil
	}
	return []string{"dialout"}
}

// deviceEnv builds the receiver overrides exported to the entry programs.
func deviceEnv(cfg *config.Config) map[string]string {
	env := map[string]string{}
	if cfg.Device.Port != "" {
		env["GPS_PORT"] = string(cfg.Device.Port)
	}
	if cfg.Device.Baud != 0 {
		env["GPS_BAUD"] = strconv.Itoa(int(cfg.Device.Baud))
	}
	if len(env) == 0 {
		return nil
	}
	return env
}

// resolvePath anchors a configured path at the working directory, falling
// back to def when the configuration left it empty.
func resolvePath(workDir, configured, def string) string {
	p := configured
	if p == "" {
		p = def
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(workDir, p)
}

// openJournal opens the session store at the configured or default path.
func openJournal(cfg *config.Config) (*journal.Store, error) {
	path := string(cfg.Journal.Path)
	if path == "" {
		if err := config.EnsureDataDir(); err != nil {
			return nil, err
		}
		dataDir, err := config.DataDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dataDir, journal.DefaultFilename)
	}
	return journal.Open(path)
}

// programRunner runs one entry program through the selected runtime. It
// satisfies launcher.Runnable for both direct and SSH-attached execution.
type programRunner struct {
	rt   runtime.Runtime
	argv []string
	dir  string
	env  map[string]string

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	// execFn, when set, takes over launching the prepared command. Serve
	// sessions use it to attach the program to the client PTY.
	execFn func(cmd *exec.Cmd) (types.ExitCode, error)
}

func newProgramRunner(rt runtime.Runtime, env *venv.Env, program, workDir string, runEnv map[string]string, opts launchOptions) *programRunner {
	return &programRunner{
		rt: rt,
		// The program path stays as configured: relative paths resolve
		// against the working directory in every runtime, including the
		// container workspace mount.
		argv:   []string{env.Python(), program},
		dir:    workDir,
		env:    runEnv,
		stdin:  opts.Stdin,
		stdout: opts.Stdout,
		stderr: opts.Stderr,
		execFn: opts.Exec,
	}
}

// Run executes the program and reports its exit status.
func (p *programRunner) Run(ctx context.Context) (types.ExitCode, error) {
	ectx := &runtime.ExecutionContext{
		Context: ctx,
		Argv:    p.argv,
		Dir:     p.dir,
		Env:     p.env,
		Stdin:   p.stdin,
		Stdout:  p.stdout,
		Stderr:  p.stderr,
		Verbose: verbose,
	}

	if p.execFn != nil {
		if ir, ok := p.rt.(runtime.InteractiveRuntime); ok {
			prepared, err := ir.PrepareInteractive(ectx)
			if err != nil {
				return types.ExitCode(1), err
			}
			if prepared.Cleanup != nil {
				defer prepared.Cleanup()
			}
			return p.execFn(prepared.Cmd)
		}
	}

	res := p.rt.Execute(ectx)
	return res.ExitCode, res.Error
}

// hookRunner executes the configured post-setup snippets in the embedded
// shell interpreter with the activation environment applied.
type hookRunner struct {
	snippets []string
	dir      string
	rt       *runtime.VirtualRuntime
}

// RunHooks runs the snippets in order and stops at the first failure.
func (h *hookRunner) RunHooks(ctx context.Context, env map[string]string, stdout, stderr io.Writer) error {
	for i, snippet := range h.snippets {
		res := h.rt.Execute(&runtime.ExecutionContext{
			Context: ctx,
			Script:  snippet,
			Dir:     h.dir,
			Env:     env,
			Stdout:  stdout,
			Stderr:  stderr,
		})
		if res.Error != nil {
			return fmt.Errorf("post-setup hook %d failed: %w", i+1, res.Error)
		}
		if res.ExitCode != 0 {
			return fmt.Errorf("post-setup hook %d failed: exit status %d", i+1, res.ExitCode)
		}
	}
	return nil
}

// renderIssue writes one troubleshooting card. Rendering problems are
// swallowed; the card is a courtesy on top of the real error.
func renderIssue(w io.Writer, id issue.Id) {
	rendered, err := issue.Get(id).Render(issueStyle())
	if err != nil {
		return
	}
	fmt.Fprint(w, rendered)
}

// issueStyle maps the configured color scheme to a glamour style path.
func issueStyle() string {
	cfg, err := config.Load()
	if err == nil && cfg.UI.ColorScheme == config.ColorSchemeLight {
		return "light"
	}
	return "dark"
}

// issueFor maps a failed workflow step to its troubleshooting card.
func issueFor(err error) (issue.Id, bool) {
	switch {
	case errors.Is(err, launcher.ErrInterpreterMissing):
		return issue.InterpreterNotFoundId, true
	case errors.Is(err, launcher.ErrEnvCreateFailed):
		return issue.VenvCreateFailedId, true
	case errors.Is(err, launcher.ErrInstallFailed):
		return issue.DependencyInstallFailedId, true
	case errors.Is(err, launcher.ErrInvalidChoice):
		return issue.InvalidMenuChoiceId, true
	}
	return 0, false
}

// reportRunError renders the matching troubleshooting card and the
// formatted error for a failed workflow run.
func reportRunError(w io.Writer, err error) {
	if id, ok := issueFor(err); ok {
		renderIssue(w, id)
	}
	fmt.Fprintln(w, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, verbose))
}

// currentConfig returns the loaded configuration, falling back to the
// defaults when loading failed. initRootConfig already warned about the
// failure.
func currentConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		return config.DefaultConfig()
	}
	return cfg
}

// exitSilently converts a non-zero workflow status into an ExitError
// without letting cobra print usage or repeat the error.
func exitSilently(cmd *cobra.Command, code types.ExitCode) error {
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	return &ExitError{Code: code}
}

// runWorkflow is the bare invocation: bootstrap, menu, one dispatch.
func runWorkflow(cmd *cobra.Command) error {
	cfg := currentConfig()
	wired, err := buildLauncher(cfg, launchOptions{Interactive: interactive})
	if err != nil {
		return err
	}
	defer wired.Close()

	code, runErr := wired.launcher.Run(cmd.Context())
	if runErr != nil {
		reportRunError(os.Stderr, runErr)
	}
	if code != 0 {
		return exitSilently(cmd, code)
	}
	return nil
}

// runEntry bootstraps and dispatches one entry program directly, without
// the menu or the trailing pause. The program's exit code becomes the
// process status.
func runEntry(cmd *cobra.Command, choice string) error {
	cfg := currentConfig()
	wired, err := buildLauncher(cfg, launchOptions{})
	if err != nil {
		return err
	}
	defer wired.Close()

	code, runErr := wired.launcher.RunChoice(cmd.Context(), choice)
	if runErr != nil {
		reportRunError(os.Stderr, runErr)
	}
	if code != 0 {
		return exitSilently(cmd, code)
	}
	return nil
}
