// SPDX-License-Identifier: MPL-2.0

package sshserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/gpskit/gpskit/pkg/types"

	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
)

// errPtyUnsupported is returned by startPty on platforms without PTY
// support; Exec falls back to wiring the session streams directly.
var errPtyUnsupported = errors.New("pty is not supported on this platform")

type (
	// SessionIO carries the per-session wiring the server hands to the
	// handler. Stdin, Stdout and Stderr are backed by the SSH channel, so
	// everything the workflow prints reaches the remote operator unchanged.
	SessionIO struct {
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer

		// Command is the remote command line (`ssh host <args>`).
		// Empty for interactive sessions.
		Command []string

		// Interactive reports whether the client allocated a PTY.
		Interactive bool

		// Term is the client terminal type; empty when Interactive is false.
		Term string

		// Label is the label of the token the session authenticated with.
		Label string

		// Exec runs a command attached to the session. When the client
		// allocated a PTY the child runs under a local PTY, so programs
		// that probe their terminal behave as on a direct console;
		// otherwise the child's streams are wired straight to the channel.
		// Exec sets the command's streams; pass a command with none set.
		Exec func(cmd *exec.Cmd) (types.ExitCode, error)
	}

	// SessionHandler runs the operator workflow for one authenticated
	// session. Implementations must be safe for concurrent sessions.
	// The returned code becomes the SSH exit status.
	SessionHandler interface {
		HandleSession(ctx context.Context, sio SessionIO) (types.ExitCode, error)
	}
)

// sessionMiddleware is the terminal wish middleware: every authenticated
// session is handed to the configured handler.
func (s *Server) sessionMiddleware() wish.Middleware {
	return func(next ssh.Handler) ssh.Handler {
		return func(sess ssh.Session) {
			s.handleSession(sess)
		}
	}
}

func (s *Server) handleSession(sess ssh.Session) {
	if s.cfg.Handler == nil {
		_, _ = fmt.Fprintln(sess.Stderr(), "no workflow is configured on this server")
		_ = sess.Exit(1) //nolint:errcheck // Terminal operation; error non-critical
		return
	}

	ptyReq, _, isPty := sess.Pty()
	label, _ := sess.Context().Value("label").(string)
	started := s.clock.Now()
	s.logger.Info("session opened",
		"user", sess.User(), "label", label,
		"remote", sess.RemoteAddr().String(), "pty", isPty)

	sio := SessionIO{
		Stdin:       sess,
		Stdout:      sess,
		Stderr:      sess.Stderr(),
		Command:     sess.Command(),
		Interactive: isPty,
		Term:        ptyReq.Term,
		Label:       label,
		Exec:        s.sessionExec(sess),
	}

	code, err := s.cfg.Handler.HandleSession(sess.Context(), sio)
	if err != nil {
		s.logger.Warn("session workflow failed", "label", label, "error", err)
	}
	s.logger.Info("session closed",
		"user", sess.User(), "status", int(code),
		"duration", s.clock.Now().Sub(started))
	_ = sess.Exit(int(code)) //nolint:errcheck // Terminal operation; error non-critical
}

// sessionExec builds the Exec implementation for one session.
func (s *Server) sessionExec(sess ssh.Session) func(*exec.Cmd) (types.ExitCode, error) {
	return func(cmd *exec.Cmd) (types.ExitCode, error) {
		ptyReq, winCh, isPty := sess.Pty()
		if !isPty {
			return runPlain(cmd, sess)
		}

		// Exec never clears the environment; an empty Env would otherwise
		// strip the child down to just TERM.
		if cmd.Env == nil {
			cmd.Env = os.Environ()
		}
		cmd.Env = append(cmd.Env, "TERM="+ptyReq.Term)

		f, err := startPty(cmd)
		if err != nil {
			if errors.Is(err, errPtyUnsupported) {
				return runPlain(cmd, sess)
			}
			return 1, fmt.Errorf("start pty: %w", err)
		}
		defer func() { _ = f.Close() }() // PTY cleanup; error non-critical

		setWinsize(f, ptyReq.Window.Width, ptyReq.Window.Height)
		go func() {
			for win := range winCh {
				setWinsize(f, win.Width, win.Height)
			}
		}()

		go func() {
			_, _ = copyBuffer(f, sess) //nolint:errcheck // I/O copy; errors are non-recoverable
		}()
		_, _ = copyBuffer(sess, f) //nolint:errcheck // I/O copy; errors are non-recoverable

		return exitStatus(cmd.Wait())
	}
}

// runPlain wires the command's streams straight to the session and runs it.
func runPlain(cmd *exec.Cmd, sess ssh.Session) (types.ExitCode, error) {
	cmd.Stdin = sess
	cmd.Stdout = sess
	cmd.Stderr = sess.Stderr()
	return exitStatus(cmd.Run())
}

// exitStatus maps a Run/Wait error to the exit code the session reports.
// A child that ran and exited non-zero is not an error here; failing to
// launch at all is.
func exitStatus(err error) (types.ExitCode, error) {
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return types.ExitCode(exitErr.ExitCode()), nil
	}
	return 1, err
}
