// SPDX-License-Identifier: MPL-2.0

package launcher

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/gpskit/gpskit/internal/journal"
	"github.com/gpskit/gpskit/internal/python"
	"github.com/gpskit/gpskit/pkg/types"
)

var sessionStart = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

// stepClock returns a clock that advances by step on every reading.
func stepClock(start time.Time, step time.Duration) func() time.Time {
	current := start
	return func() time.Time {
		t := current
		current = current.Add(step)
		return t
	}
}

type fakeChecker struct {
	interp     *python.Interpreter
	err        error
	gotCommand string
	calls      int
}

func (f *fakeChecker) Find(_ context.Context, command string) (*python.Interpreter, error) {
	f.calls++
	f.gotCommand = command
	if f.err != nil {
		return nil, f.err
	}
	return f.interp, nil
}

type fakeEnv struct {
	exists      bool
	ensureErr   error
	ensureCalls int
	creations   int
}

func (f *fakeEnv) Exists() bool { return f.exists }

func (f *fakeEnv) Ensure(_ context.Context, _, _ io.Writer) (bool, error) {
	f.ensureCalls++
	if f.ensureErr != nil {
		return false, f.ensureErr
	}
	if f.exists {
		return false, nil
	}
	f.exists = true
	f.creations++
	return true, nil
}

func (f *fakeEnv) Environ(basePath string) map[string]string {
	return map[string]string{
		"VIRTUAL_ENV": "/fake/venv",
		"PATH":        "/fake/venv/bin:" + basePath,
	}
}

type fakeInstaller struct {
	err    error
	calls  int
	gotEnv map[string]string
}

func (f *fakeInstaller) Install(_ context.Context, env map[string]string, _, _ io.Writer) error {
	f.calls++
	f.gotEnv = env
	return f.err
}

type fakeProgram struct {
	code  types.ExitCode
	err   error
	calls int
}

func (f *fakeProgram) Run(context.Context) (types.ExitCode, error) {
	f.calls++
	return f.code, f.err
}

type fakeHooks struct {
	err    error
	calls  int
	gotEnv map[string]string
}

func (f *fakeHooks) RunHooks(_ context.Context, env map[string]string, _, _ io.Writer) error {
	f.calls++
	f.gotEnv = env
	return f.err
}

type fakeRecorder struct {
	err      error
	sessions []journal.Session
}

func (f *fakeRecorder) Record(_ context.Context, sess journal.Session) error {
	f.sessions = append(f.sessions, sess)
	return f.err
}

type fakeChooser struct {
	choice string
	err    error
}

func (f *fakeChooser) Choose(context.Context) (string, error) {
	return f.choice, f.err
}

// failingStdin fails the test on any read. It proves a path never touches
// stdin.
type failingStdin struct{ t *testing.T }

func (f *failingStdin) Read([]byte) (int, error) {
	f.t.Error("stdin was read; this path must not consume input")
	return 0, io.EOF
}

type fixture struct {
	checker   *fakeChecker
	env       *fakeEnv
	installer *fakeInstaller
	test      *fakeProgram
	capture   *fakeProgram
	hooks     *fakeHooks
	recorder  *fakeRecorder
	chooser   *fakeChooser
	extraEnv  map[string]string
	stdout    bytes.Buffer
	stderr    bytes.Buffer
}

func newFixture() *fixture {
	return &fixture{
		checker: &fakeChecker{
			interp: &python.Interpreter{
				Command: "python3",
				Path:    "/usr/bin/python3",
				Version: "Python 3.12.4",
			},
		},
		env:       &fakeEnv{},
		installer: &fakeInstaller{},
		test:      &fakeProgram{},
		capture:   &fakeProgram{},
	}
}

func (f *fixture) launcher(t *testing.T, stdin io.Reader) *Launcher {
	t.Helper()

	cfg := Config{
		Checker:            f.checker,
		Env:                f.env,
		Installer:          f.installer,
		TestProgram:        f.test,
		CaptureProgram:     f.capture,
		TestProgramName:    "gps_test.py",
		CaptureProgramName: "gps_capture.py",
		BasePath:           "/usr/bin",
		ExtraEnv:           f.extraEnv,
		Stdin:              stdin,
		Stdout:             &f.stdout,
		Stderr:             &f.stderr,
		Now:                stepClock(sessionStart, time.Second),
	}
	// Assign optional collaborators only when present; a typed nil pointer
	// in the interface field would read as configured.
	if f.hooks != nil {
		cfg.Hooks = f.hooks
	}
	if f.recorder != nil {
		cfg.Recorder = f.recorder
	}
	if f.chooser != nil {
		cfg.Chooser = f.chooser
	}

	l, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return l
}

func TestNew_RequiresCollaborators(t *testing.T) {
	t.Parallel()

	f := newFixture()
	tests := []struct {
		name string
		cfg  Config
	}{
		{"missing checker", Config{Env: f.env, Installer: f.installer, TestProgram: f.test, CaptureProgram: f.capture}},
		{"missing env", Config{Checker: f.checker, Installer: f.installer, TestProgram: f.test, CaptureProgram: f.capture}},
		{"missing installer", Config{Checker: f.checker, Env: f.env, TestProgram: f.test, CaptureProgram: f.capture}},
		{"missing test program", Config{Checker: f.checker, Env: f.env, Installer: f.installer, CaptureProgram: f.capture}},
		{"missing capture program", Config{Checker: f.checker, Env: f.env, Installer: f.installer, TestProgram: f.test}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.cfg); err == nil {
				t.Error("New() expected error, got nil")
			}
		})
	}
}

func TestRun_InterpreterAbsent(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.checker.err = &python.NotFoundError{Command: "python3"}
	l := f.launcher(t, &failingStdin{t})

	code, err := l.Run(context.Background())

	if code != types.ExitCode(1) {
		t.Errorf("Run() code = %d, want 1", code)
	}
	if !errors.Is(err, ErrInterpreterMissing) {
		t.Errorf("Run() error = %v, want ErrInterpreterMissing", err)
	}
	if !strings.Contains(f.stderr.String(), "python3 is required but was not found on PATH.") {
		t.Errorf("stderr = %q, want interpreter-missing message", f.stderr.String())
	}
	if strings.Contains(f.stdout.String(), menuPrompt) {
		t.Error("menu prompt shown despite missing interpreter")
	}
	if f.env.ensureCalls != 0 {
		t.Errorf("environment touched %d times, want 0", f.env.ensureCalls)
	}
	if f.test.calls+f.capture.calls != 0 {
		t.Error("an entry program ran despite missing interpreter")
	}
}

func TestRun_DefaultsInterpreterCommand(t *testing.T) {
	t.Parallel()

	f := newFixture()
	l := f.launcher(t, strings.NewReader("3\n"))

	if _, err := l.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if f.checker.gotCommand != python.DefaultCommand {
		t.Errorf("checker received command %q, want %q", f.checker.gotCommand, python.DefaultCommand)
	}
}

func TestRun_ExistingEnvNeverRecreated(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.env.exists = true
	l := f.launcher(t, strings.NewReader("3\n"))

	code, err := l.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if code != types.ExitCode(0) {
		t.Errorf("Run() code = %d, want 0", code)
	}
	if f.env.creations != 0 {
		t.Errorf("environment created %d times, want 0", f.env.creations)
	}
	if strings.Contains(f.stdout.String(), "Creating virtual environment...") {
		t.Error("creation message shown for existing environment")
	}
}

func TestRun_EnvCreateFailure(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.env.ensureErr = errors.New("mkdir: permission denied")
	l := f.launcher(t, &failingStdin{t})

	code, err := l.Run(context.Background())

	if code != types.ExitCode(1) {
		t.Errorf("Run() code = %d, want 1", code)
	}
	if !errors.Is(err, ErrEnvCreateFailed) {
		t.Errorf("Run() error = %v, want ErrEnvCreateFailed", err)
	}
	if !strings.Contains(f.stderr.String(), "Failed to create virtual environment.") {
		t.Errorf("stderr = %q, want creation-failure message", f.stderr.String())
	}
	if f.installer.calls != 0 {
		t.Error("installer ran despite environment failure")
	}
}

func TestRun_InstallFailure_MenuNeverPresented(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.installer.err = errors.New("pip exited with status 1")
	l := f.launcher(t, &failingStdin{t})

	code, err := l.Run(context.Background())

	if code != types.ExitCode(1) {
		t.Errorf("Run() code = %d, want 1", code)
	}
	if !errors.Is(err, ErrInstallFailed) {
		t.Errorf("Run() error = %v, want ErrInstallFailed", err)
	}
	if !strings.Contains(f.stderr.String(), "Failed to install dependencies.") {
		t.Errorf("stderr = %q, want install-failure message", f.stderr.String())
	}
	if strings.Contains(f.stdout.String(), menuPrompt) {
		t.Error("menu prompt shown despite install failure")
	}
	if f.test.calls+f.capture.calls != 0 {
		t.Error("an entry program ran despite install failure")
	}
}

func TestRun_ChoiceExit(t *testing.T) {
	t.Parallel()

	f := newFixture()
	l := f.launcher(t, strings.NewReader("3\n"))

	code, err := l.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if code != types.ExitCode(0) {
		t.Errorf("Run() code = %d, want 0", code)
	}
	if !strings.Contains(f.stdout.String(), goodbyeMsg) {
		t.Errorf("stdout = %q, want goodbye message", f.stdout.String())
	}
	if strings.Contains(f.stdout.String(), pausePrompt) {
		t.Error("pause shown on the exit path")
	}
	if f.test.calls+f.capture.calls != 0 {
		t.Error("an entry program ran on the exit path")
	}
}

func TestRun_Choice1_RunsTestProgramOnce(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.test.code = types.ExitCode(7) // status must not influence the flow
	f.recorder = &fakeRecorder{}
	l := f.launcher(t, strings.NewReader("1\n\n"))

	code, err := l.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if code != types.ExitCode(0) {
		t.Errorf("Run() code = %d, want 0", code)
	}
	if f.test.calls != 1 {
		t.Errorf("test program ran %d times, want 1", f.test.calls)
	}
	if f.capture.calls != 0 {
		t.Errorf("capture program ran %d times, want 0", f.capture.calls)
	}
	if !strings.Contains(f.stdout.String(), pausePrompt) {
		t.Error("pause not shown after dispatch")
	}

	if len(f.recorder.sessions) != 1 {
		t.Fatalf("recorded %d sessions, want 1", len(f.recorder.sessions))
	}
	sess := f.recorder.sessions[0]
	if sess.Choice != ChoiceTest {
		t.Errorf("session choice = %q, want %q", sess.Choice, ChoiceTest)
	}
	if sess.Program != "gps_test.py" {
		t.Errorf("session program = %q, want gps_test.py", sess.Program)
	}
	if sess.ExitCode != types.ExitCode(7) {
		t.Errorf("session exit code = %d, want 7", sess.ExitCode)
	}
	if !sess.StartedAt.Equal(sessionStart) {
		t.Errorf("session started at %v, want %v", sess.StartedAt, sessionStart)
	}
	if sess.Duration != time.Second {
		t.Errorf("session duration = %v, want %v", sess.Duration, time.Second)
	}
}

func TestRun_Choice2_RunsCaptureProgramOnce(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.recorder = &fakeRecorder{}
	l := f.launcher(t, strings.NewReader("2\n\n"))

	code, err := l.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if code != types.ExitCode(0) {
		t.Errorf("Run() code = %d, want 0", code)
	}
	if f.capture.calls != 1 {
		t.Errorf("capture program ran %d times, want 1", f.capture.calls)
	}
	if f.test.calls != 0 {
		t.Errorf("test program ran %d times, want 0", f.test.calls)
	}
	if len(f.recorder.sessions) != 1 || f.recorder.sessions[0].Choice != ChoiceCapture {
		t.Errorf("recorded sessions = %+v, want one capture session", f.recorder.sessions)
	}
}

func TestRun_InvalidChoices(t *testing.T) {
	t.Parallel()

	for _, choice := range []string{"4", "", "abc", " 1", "1 ", "11"} {
		t.Run("choice "+choice, func(t *testing.T) {
			t.Parallel()

			f := newFixture()
			l := f.launcher(t, strings.NewReader(choice+"\n"))

			code, err := l.Run(context.Background())

			if code != types.ExitCode(1) {
				t.Errorf("Run() code = %d, want 1", code)
			}
			if !errors.Is(err, ErrInvalidChoice) {
				t.Errorf("Run() error = %v, want ErrInvalidChoice", err)
			}
			if !strings.Contains(f.stdout.String(), invalidMsg) {
				t.Errorf("stdout = %q, want invalid-choice message", f.stdout.String())
			}
			if strings.Contains(f.stdout.String(), pausePrompt) {
				t.Error("pause shown on the invalid-choice path")
			}
			if f.test.calls+f.capture.calls != 0 {
				t.Error("an entry program ran on the invalid-choice path")
			}
		})
	}
}

func TestRun_MenuEOFIsInvalidChoice(t *testing.T) {
	t.Parallel()

	f := newFixture()
	l := f.launcher(t, strings.NewReader(""))

	code, err := l.Run(context.Background())

	if code != types.ExitCode(1) {
		t.Errorf("Run() code = %d, want 1", code)
	}
	if !errors.Is(err, ErrInvalidChoice) {
		t.Errorf("Run() error = %v, want ErrInvalidChoice", err)
	}
}

func TestRun_PauseEOFProceeds(t *testing.T) {
	t.Parallel()

	f := newFixture()
	l := f.launcher(t, strings.NewReader("1\n")) // nothing left for the pause

	code, err := l.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if code != types.ExitCode(0) {
		t.Errorf("Run() code = %d, want 0", code)
	}
	if !strings.Contains(f.stdout.String(), pausePrompt) {
		t.Error("pause not shown")
	}
}

func TestRun_ProgramLaunchFailureStillPauses(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.test.err = errors.New("fork/exec: no such file or directory")
	f.test.code = types.ExitCode(126)
	f.recorder = &fakeRecorder{}
	l := f.launcher(t, strings.NewReader("1\n\n"))

	code, err := l.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if code != types.ExitCode(0) {
		t.Errorf("Run() code = %d, want 0", code)
	}
	if !strings.Contains(f.stdout.String(), pausePrompt) {
		t.Error("pause not shown after launch failure")
	}
	if !strings.Contains(f.stderr.String(), "fork/exec") {
		t.Errorf("stderr = %q, want the launch failure surfaced", f.stderr.String())
	}
	if len(f.recorder.sessions) != 1 {
		t.Errorf("recorded %d sessions, want 1", len(f.recorder.sessions))
	}
}

func TestRun_HappyPath(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.recorder = &fakeRecorder{}
	f.extraEnv = map[string]string{"GPS_PORT": "/dev/ttyUSB0"}
	l := f.launcher(t, strings.NewReader("1\n\n"))

	code, err := l.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if code != types.ExitCode(0) {
		t.Errorf("Run() code = %d, want 0", code)
	}

	out := f.stdout.String()
	for _, want := range []string{
		"Python 3.12.4",
		"Creating virtual environment...",
		"Installing dependencies...",
		menuText + menuPrompt,
		pausePrompt,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("stdout missing %q:\n%s", want, out)
		}
	}

	// Version precedes creation, creation precedes the menu.
	if strings.Index(out, "Python 3.12.4") > strings.Index(out, "Creating virtual environment...") {
		t.Error("version printed after environment creation")
	}
	if strings.Index(out, "Installing dependencies...") > strings.Index(out, menuPrompt) {
		t.Error("menu shown before dependency install")
	}

	if f.env.creations != 1 {
		t.Errorf("environment created %d times, want 1", f.env.creations)
	}
	if f.installer.calls != 1 {
		t.Errorf("installer ran %d times, want 1", f.installer.calls)
	}
	if f.test.calls != 1 {
		t.Errorf("test program ran %d times, want 1", f.test.calls)
	}

	if got := f.installer.gotEnv["VIRTUAL_ENV"]; got != "/fake/venv" {
		t.Errorf("install env VIRTUAL_ENV = %q, want /fake/venv", got)
	}
	if got := f.installer.gotEnv["PATH"]; !strings.HasPrefix(got, "/fake/venv/bin:") {
		t.Errorf("install env PATH = %q, want venv bin prepended", got)
	}
	if got := f.installer.gotEnv["GPS_PORT"]; got != "/dev/ttyUSB0" {
		t.Errorf("install env GPS_PORT = %q, want /dev/ttyUSB0", got)
	}
}

func TestRun_HooksRunAfterInstall(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.hooks = &fakeHooks{}
	l := f.launcher(t, strings.NewReader("3\n"))

	if _, err := l.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if f.hooks.calls != 1 {
		t.Errorf("hooks ran %d times, want 1", f.hooks.calls)
	}
	if f.hooks.gotEnv["VIRTUAL_ENV"] != "/fake/venv" {
		t.Errorf("hook env VIRTUAL_ENV = %q, want /fake/venv", f.hooks.gotEnv["VIRTUAL_ENV"])
	}
}

func TestRun_HookFailureAbortsBeforeMenu(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.hooks = &fakeHooks{err: errors.New("hook exited with status 1")}
	l := f.launcher(t, &failingStdin{t})

	code, err := l.Run(context.Background())

	if code != types.ExitCode(1) {
		t.Errorf("Run() code = %d, want 1", code)
	}
	if !errors.Is(err, ErrHookFailed) {
		t.Errorf("Run() error = %v, want ErrHookFailed", err)
	}
	if f.test.calls+f.capture.calls != 0 {
		t.Error("an entry program ran despite hook failure")
	}
}

func TestRun_RecorderFailureDoesNotFailRun(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.recorder = &fakeRecorder{err: errors.New("database is locked")}
	l := f.launcher(t, strings.NewReader("1\n\n"))

	code, err := l.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if code != types.ExitCode(0) {
		t.Errorf("Run() code = %d, want 0", code)
	}
}

func TestRun_ChooserReplacesPlainMenu(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.chooser = &fakeChooser{choice: "2"}
	l := f.launcher(t, strings.NewReader("\n"))

	code, err := l.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if code != types.ExitCode(0) {
		t.Errorf("Run() code = %d, want 0", code)
	}
	if f.capture.calls != 1 {
		t.Errorf("capture program ran %d times, want 1", f.capture.calls)
	}
	if strings.Contains(f.stdout.String(), menuPrompt) {
		t.Error("plain menu prompt shown in interactive mode")
	}
}

func TestRun_ChooserError(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.chooser = &fakeChooser{err: errors.New("selection aborted")}
	l := f.launcher(t, strings.NewReader(""))

	code, err := l.Run(context.Background())
	if code != types.ExitCode(1) {
		t.Errorf("Run() code = %d, want 1", code)
	}
	if err == nil {
		t.Error("Run() expected error, got nil")
	}
	if f.test.calls+f.capture.calls != 0 {
		t.Error("an entry program ran after chooser failure")
	}
}

func TestSetup_ReturnsActivationEnv(t *testing.T) {
	t.Parallel()

	f := newFixture()
	l := f.launcher(t, &failingStdin{t})

	env, err := l.Setup(context.Background())
	if err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	if env["VIRTUAL_ENV"] != "/fake/venv" {
		t.Errorf("Setup() env VIRTUAL_ENV = %q, want /fake/venv", env["VIRTUAL_ENV"])
	}
	if strings.Contains(f.stdout.String(), menuPrompt) {
		t.Error("menu shown during setup-only run")
	}
	if f.test.calls+f.capture.calls != 0 {
		t.Error("an entry program ran during setup-only run")
	}
}

func TestRunChoice_PropagatesExitCode(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.recorder = &fakeRecorder{}
	f.capture.code = types.ExitCode(7)
	l := f.launcher(t, &failingStdin{t})

	code, err := l.RunChoice(context.Background(), ChoiceCapture)
	if err != nil {
		t.Fatalf("RunChoice() error = %v", err)
	}
	if code != types.ExitCode(7) {
		t.Errorf("RunChoice() code = %d, want 7", code)
	}
	if f.capture.calls != 1 {
		t.Errorf("capture program ran %d times, want 1", f.capture.calls)
	}
	if f.test.calls != 0 {
		t.Error("test program ran on the capture choice")
	}
	if strings.Contains(f.stdout.String(), menuPrompt) {
		t.Error("menu shown during direct dispatch")
	}
	if strings.Contains(f.stdout.String(), pausePrompt) {
		t.Error("pause shown during direct dispatch")
	}
	if len(f.recorder.sessions) != 1 {
		t.Fatalf("recorded %d sessions, want 1", len(f.recorder.sessions))
	}
	sess := f.recorder.sessions[0]
	if sess.Choice != ChoiceCapture {
		t.Errorf("session choice = %q, want %q", sess.Choice, ChoiceCapture)
	}
	if sess.ExitCode != types.ExitCode(7) {
		t.Errorf("session exit code = %d, want 7", sess.ExitCode)
	}
}

func TestRunChoice_SetupFailureSkipsProgram(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.installer.err = errors.New("pip exploded")
	l := f.launcher(t, &failingStdin{t})

	code, err := l.RunChoice(context.Background(), ChoiceTest)
	if code != types.ExitCode(1) {
		t.Errorf("RunChoice() code = %d, want 1", code)
	}
	if !errors.Is(err, ErrInstallFailed) {
		t.Errorf("RunChoice() error = %v, want ErrInstallFailed", err)
	}
	if f.test.calls != 0 {
		t.Error("entry program ran after setup failure")
	}
}

func TestRunChoice_LaunchFailure(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.test.err = errors.New("no such file")
	l := f.launcher(t, &failingStdin{t})

	code, err := l.RunChoice(context.Background(), ChoiceTest)
	if code == 0 {
		t.Error("RunChoice() code = 0 after launch failure")
	}
	if err == nil {
		t.Error("RunChoice() error = nil after launch failure")
	}
}

func TestRunChoice_UnknownChoice(t *testing.T) {
	t.Parallel()

	f := newFixture()
	l := f.launcher(t, &failingStdin{t})

	code, err := l.RunChoice(context.Background(), "repair")
	if code != types.ExitCode(1) || err == nil {
		t.Errorf("RunChoice() = (%d, %v), want (1, error)", code, err)
	}
	if f.checker.calls != 0 {
		t.Error("setup ran for an unknown choice")
	}
}

func TestReadLine_StripsOnlyTrailingNewline(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"1\n", "1"},
		{"1\r\n", "1"},
		{" 1\n", " 1"},
		{"1 \n", "1 "},
		{"1", "1"},
		{"", ""},
	}
	for _, tt := range tests {
		reader := bufio.NewReader(strings.NewReader(tt.in))
		if got := readLine(reader); got != tt.want {
			t.Errorf("readLine(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
