// SPDX-License-Identifier: MPL-2.0

// Package launcher implements the interactive GPS workflow: interpreter
// check, virtual environment bootstrap, dependency installation, and the
// three-option menu dispatching to the entry programs.
//
// The flow is strictly linear and blocking. All user-facing text goes
// through the configured writers and all side effects through the
// configured collaborators, so tests drive the full interaction with
// buffers and fakes.
package launcher

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/gpskit/gpskit/internal/issue"
	"github.com/gpskit/gpskit/internal/journal"
	"github.com/gpskit/gpskit/internal/python"
	"github.com/gpskit/gpskit/pkg/types"
)

// Menu and prompt literals. The prompt and pause strings are a
// compatibility contract with the original workflow; field operators have
// them in muscle memory and wrapper scripts match on them.
const (
	menuText    = "1) Test GPS connection\n2) Capture GPS data\n3) Exit\n"
	menuPrompt  = "Enter your choice (1-3): "
	pausePrompt = "Press Enter to continue..."
	goodbyeMsg  = "Goodbye!"
	invalidMsg  = "Invalid choice. Exiting."
)

// Journal choice labels.
const (
	ChoiceTest    = "test"
	ChoiceCapture = "capture"
)

// Sentinel errors identifying which workflow step failed. They are wrapped
// into the returned actionable error so the command layer can pick the
// matching troubleshooting card with errors.Is.
var (
	ErrInterpreterMissing = errors.New("interpreter missing")
	ErrEnvCreateFailed    = errors.New("environment creation failed")
	ErrInstallFailed      = errors.New("dependency installation failed")
	ErrHookFailed         = errors.New("post-setup hook failed")
	ErrInvalidChoice      = errors.New("invalid menu choice")
)

type (
	// InterpreterChecker resolves the configured interpreter on PATH.
	InterpreterChecker interface {
		Find(ctx context.Context, command string) (*python.Interpreter, error)
	}

	// Environment is the virtual environment the entry programs run in.
	Environment interface {
		Exists() bool
		Ensure(ctx context.Context, stdout, stderr io.Writer) (created bool, err error)
		Environ(basePath string) map[string]string
	}

	// Installer installs the requirements manifest into the environment.
	Installer interface {
		Install(ctx context.Context, env map[string]string, stdout, stderr io.Writer) error
	}

	// Runnable is a launchable entry program. The launcher never sees the
	// concrete implementation; native and container execution both satisfy
	// it.
	Runnable interface {
		Run(ctx context.Context) (types.ExitCode, error)
	}

	// HookRunner runs the configured post-setup snippets with the
	// activation environment applied.
	HookRunner interface {
		RunHooks(ctx context.Context, env map[string]string, stdout, stderr io.Writer) error
	}

	// Recorder journals one dispatched session. Recording failures are
	// logged and otherwise ignored; the journal never blocks a session.
	Recorder interface {
		Record(ctx context.Context, sess journal.Session) error
	}

	// Chooser replaces the plain menu read when interactive mode is on. It
	// renders its own menu and returns the literal choice string.
	Chooser interface {
		Choose(ctx context.Context) (string, error)
	}

	// Config holds the launcher's collaborators and streams.
	Config struct {
		// InterpreterCommand is the interpreter resolved in step 1. Empty
		// falls back to the checker's default.
		InterpreterCommand string

		// Checker, Env and Installer perform the bootstrap steps.
		Checker   InterpreterChecker
		Env       Environment
		Installer Installer

		// TestProgram and CaptureProgram are the two menu entry points.
		TestProgram    Runnable
		CaptureProgram Runnable

		// TestProgramName and CaptureProgramName are the configured program
		// names, used for journaling and logging only.
		TestProgramName    string
		CaptureProgramName string

		// Hooks runs post-setup snippets after a successful install. Nil
		// means none are configured.
		Hooks HookRunner

		// Recorder journals dispatched sessions. Nil disables journaling.
		Recorder Recorder

		// Chooser replaces the plain menu read when set.
		Chooser Chooser

		// BasePath is the PATH value the activation map extends. Empty
		// means the current process PATH.
		BasePath string

		// ExtraEnv is merged over the activation map. The device overrides
		// (GPS_PORT, GPS_BAUD) arrive here.
		ExtraEnv map[string]string

		// Stdin, Stdout and Stderr default to the process streams.
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer

		// Logger receives verbose diagnostics. Nil disables them.
		Logger *log.Logger

		// Now is the clock used for session timing. Nil means time.Now.
		Now func() time.Time
	}

	// Launcher runs the workflow.
	Launcher struct {
		cfg    Config
		stdin  io.Reader
		stdout io.Writer
		stderr io.Writer
		now    func() time.Time
	}
)

// New creates a Launcher from the given Config. The checker, environment,
// installer and both entry programs are required.
func New(cfg Config) (*Launcher, error) {
	if cfg.Checker == nil {
		return nil, errors.New("launcher: interpreter checker is required")
	}
	if cfg.Env == nil {
		return nil, errors.New("launcher: environment is required")
	}
	if cfg.Installer == nil {
		return nil, errors.New("launcher: installer is required")
	}
	if cfg.TestProgram == nil || cfg.CaptureProgram == nil {
		return nil, errors.New("launcher: both entry programs are required")
	}

	l := &Launcher{
		cfg:    cfg,
		stdin:  cfg.Stdin,
		stdout: cfg.Stdout,
		stderr: cfg.Stderr,
		now:    cfg.Now,
	}
	if l.stdin == nil {
		l.stdin = os.Stdin
	}
	if l.stdout == nil {
		l.stdout = os.Stdout
	}
	if l.stderr == nil {
		l.stderr = os.Stderr
	}
	if l.now == nil {
		l.now = time.Now
	}
	return l, nil
}

// Run executes the full workflow: bootstrap, menu, dispatch, trailing
// pause. The returned exit code is the process status the run should end
// with; a non-nil error carries the actionable context for the step that
// failed.
func (l *Launcher) Run(ctx context.Context) (types.ExitCode, error) {
	// One buffered reader serves both the menu and the trailing pause, so
	// type-ahead is not lost between the two reads.
	reader := bufio.NewReader(l.stdin)

	if _, err := l.setup(ctx); err != nil {
		return types.ExitCode(1), err
	}

	choice, err := l.choose(ctx, reader)
	if err != nil {
		return types.ExitCode(1), issue.NewErrorContext().
			WithOperation("read menu choice").
			Wrap(err).
			BuildError()
	}

	switch choice {
	case "1":
		return l.dispatch(ctx, reader, ChoiceTest, l.cfg.TestProgramName, l.cfg.TestProgram)
	case "2":
		return l.dispatch(ctx, reader, ChoiceCapture, l.cfg.CaptureProgramName, l.cfg.CaptureProgram)
	case "3":
		fmt.Fprintln(l.stdout, goodbyeMsg)
		return types.ExitCode(0), nil
	default:
		fmt.Fprintln(l.stdout, invalidMsg)
		return types.ExitCode(1), issue.NewErrorContext().
			WithOperation("read menu choice").
			WithSuggestion(`Enter "1", "2" or "3" and press Enter`).
			Wrap(fmt.Errorf("%w: %q", ErrInvalidChoice, choice)).
			BuildError()
	}
}

// Setup runs the bootstrap without showing the menu: interpreter check,
// environment ensure, dependency install and post-setup hooks. It returns
// the activation environment the entry programs should run with.
func (l *Launcher) Setup(ctx context.Context) (map[string]string, error) {
	return l.setup(ctx)
}

// RunChoice performs the bootstrap and dispatches a single choice
// (ChoiceTest or ChoiceCapture) without the menu or the trailing pause.
// Unlike the menu path, the program's exit code is propagated, so a direct
// invocation can fail a shell pipeline. The session is journaled the same
// way a menu-driven run is.
func (l *Launcher) RunChoice(ctx context.Context, choice string) (types.ExitCode, error) {
	var program string
	var prog Runnable
	switch choice {
	case ChoiceTest:
		program, prog = l.cfg.TestProgramName, l.cfg.TestProgram
	case ChoiceCapture:
		program, prog = l.cfg.CaptureProgramName, l.cfg.CaptureProgram
	default:
		return types.ExitCode(1), fmt.Errorf("unknown choice %q", choice)
	}

	if _, err := l.setup(ctx); err != nil {
		return types.ExitCode(1), err
	}

	started := l.now()
	code, runErr := prog.Run(ctx)
	duration := l.now().Sub(started)

	if l.cfg.Logger != nil {
		l.cfg.Logger.Debug("entry program finished",
			"choice", choice, "program", program,
			"exit_code", int(code), "duration", duration)
	}

	l.record(ctx, journal.Session{
		StartedAt: started,
		Choice:    choice,
		Program:   program,
		ExitCode:  code,
		Duration:  duration,
	})

	if runErr != nil {
		if code == 0 {
			code = types.ExitCode(1)
		}
		return code, issue.NewErrorContext().
			WithOperation("run entry program").
			WithResource(program).
			Wrap(runErr).
			BuildError()
	}
	return code, nil
}

func (l *Launcher) setup(ctx context.Context) (map[string]string, error) {
	command := l.cfg.InterpreterCommand
	if command == "" {
		command = python.DefaultCommand
	}

	interp, err := l.cfg.Checker.Find(ctx, command)
	if err != nil {
		fmt.Fprintf(l.stderr, "%s is required but was not found on PATH.\n", command)
		return nil, issue.NewErrorContext().
			WithOperation("locate python interpreter").
			WithResource(command).
			WithSuggestion("Install Python 3 and ensure it is on PATH").
			Wrap(fmt.Errorf("%w: %w", ErrInterpreterMissing, err)).
			BuildError()
	}
	fmt.Fprintln(l.stdout, interp.Version)
	if l.cfg.Logger != nil {
		l.cfg.Logger.Debug("resolved interpreter", "command", interp.Command, "path", interp.Path)
	}

	if !l.cfg.Env.Exists() {
		fmt.Fprintln(l.stdout, "Creating virtual environment...")
	}
	created, err := l.cfg.Env.Ensure(ctx, l.stdout, l.stderr)
	if err != nil {
		fmt.Fprintln(l.stderr, "Failed to create virtual environment.")
		return nil, issue.NewErrorContext().
			WithOperation("create virtual environment").
			WithSuggestion("Check that the venv module is installed (python3 -m venv)").
			WithSuggestion("Check write permission in the working directory").
			Wrap(fmt.Errorf("%w: %w", ErrEnvCreateFailed, err)).
			BuildError()
	}
	if created && l.cfg.Logger != nil {
		l.cfg.Logger.Debug("virtual environment created")
	}

	basePath := l.cfg.BasePath
	if basePath == "" {
		basePath = os.Getenv("PATH")
	}
	env := l.cfg.Env.Environ(basePath)
	for k, v := range l.cfg.ExtraEnv {
		env[k] = v
	}

	fmt.Fprintln(l.stdout, "Installing dependencies...")
	if err := l.cfg.Installer.Install(ctx, env, l.stdout, l.stderr); err != nil {
		fmt.Fprintln(l.stderr, "Failed to install dependencies.")
		return nil, issue.NewErrorContext().
			WithOperation("install dependencies").
			WithSuggestion("Re-run the install to see pip's full output").
			Wrap(fmt.Errorf("%w: %w", ErrInstallFailed, err)).
			BuildError()
	}

	if l.cfg.Hooks != nil {
		if err := l.cfg.Hooks.RunHooks(ctx, env, l.stdout, l.stderr); err != nil {
			fmt.Fprintln(l.stderr, "Post-setup hook failed.")
			return nil, issue.NewErrorContext().
				WithOperation("run post-setup hooks").
				WithSuggestion("Check the hooks.post_setup snippets in the configuration").
				Wrap(fmt.Errorf("%w: %w", ErrHookFailed, err)).
				BuildError()
		}
	}

	return env, nil
}

func (l *Launcher) choose(ctx context.Context, reader *bufio.Reader) (string, error) {
	if l.cfg.Chooser != nil {
		return l.cfg.Chooser.Choose(ctx)
	}
	fmt.Fprint(l.stdout, menuText)
	fmt.Fprint(l.stdout, menuPrompt)
	return readLine(reader), nil
}

// dispatch runs one entry program, journals the session and shows the
// trailing pause. The program's exit status is deliberately not inspected;
// paths 1 and 2 always end with the pause and status 0. The journal
// captures the status out-of-band.
func (l *Launcher) dispatch(ctx context.Context, reader *bufio.Reader, choice, program string, prog Runnable) (types.ExitCode, error) {
	started := l.now()
	code, runErr := prog.Run(ctx)
	duration := l.now().Sub(started)

	if runErr != nil {
		// The program could not be launched at all. Surface the reason,
		// then finish the path as the contract demands.
		fmt.Fprintf(l.stderr, "%v\n", runErr)
	}
	if l.cfg.Logger != nil {
		l.cfg.Logger.Debug("entry program finished",
			"choice", choice, "program", program,
			"exit_code", int(code), "duration", duration)
	}

	l.record(ctx, journal.Session{
		StartedAt: started,
		Choice:    choice,
		Program:   program,
		ExitCode:  code,
		Duration:  duration,
	})

	l.pause(reader)
	return types.ExitCode(0), nil
}

func (l *Launcher) record(ctx context.Context, sess journal.Session) {
	if l.cfg.Recorder == nil {
		return
	}
	if err := l.cfg.Recorder.Record(ctx, sess); err != nil && l.cfg.Logger != nil {
		l.cfg.Logger.Warn("journal write failed", "error", err)
	}
}

func (l *Launcher) pause(reader *bufio.Reader) {
	fmt.Fprint(l.stdout, pausePrompt)
	_, _ = reader.ReadString('\n') // discard; EOF proceeds
}

// readLine reads one line and strips only the trailing newline (plus a
// carriage return before it). Surrounding whitespace is preserved, so
// " 1" is not a valid choice. EOF yields whatever was read; a closed
// stdin flows into the invalid-choice path rather than erroring.
func readLine(reader *bufio.Reader) string {
	line, _ := reader.ReadString('\n')
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r")
}
