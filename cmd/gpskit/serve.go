// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/gpskit/gpskit/internal/config"
	"github.com/gpskit/gpskit/internal/issue"
	"github.com/gpskit/gpskit/internal/sshserver"
	"github.com/gpskit/gpskit/pkg/types"

	"github.com/spf13/cobra"
)

// serveTokenLabel tags the token issued for the serve command's lifetime.
const serveTokenLabel = "serve"

// serveCmd shares the launcher workflow over SSH.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Share the workflow over SSH",
	Long: `Share the launcher workflow over SSH.

Starts an SSH server and prints a one-time access token; the token is
the password. Each authenticated session runs the full workflow wired
to the session's streams, so a remote operator sees the same menu a
local run shows. A remote command is treated as the typed menu choice:

  ssh -p 2222 gpskit@host 2

runs the capture path directly. The server keeps running until
interrupted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func runServe(cmd *cobra.Command) error {
	cfg := currentConfig()
	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()

	srvCfg := sshserver.DefaultConfig()
	if cfg.Serve.Host != "" {
		srvCfg.Host = sshserver.HostAddress(cfg.Serve.Host)
	}
	srvCfg.Port = cfg.Serve.Port
	srvCfg.Handler = &serveHandler{cfg: cfg}

	// A persisted host key keeps reconnecting clients from seeing a key
	// change on every restart.
	if dir, err := config.ConfigDir(); err == nil {
		if err := config.EnsureConfigDir(); err == nil {
			srvCfg.HostKeyPath = filepath.Join(dir, "ssh_host_key")
		}
	}

	srv := sshserver.New(srvCfg)
	if err := srv.Start(cmd.Context()); err != nil {
		renderIssue(stderr, issue.ServeStartFailedId)
		return err
	}

	info, err := srv.GetConnectionInfo(serveTokenLabel)
	if err != nil {
		_ = srv.Stop()
		return fmt.Errorf("failed to issue access token: %w", err)
	}
	printConnectionInfo(stdout, info)

	waitCh := make(chan error, 1)
	go func() { waitCh <- srv.Wait() }()

	select {
	case <-cmd.Context().Done():
		fmt.Fprintln(stdout)
		fmt.Fprintf(stdout, "%s Shutting down\n", SubtitleStyle.Render("•"))
		_ = srv.Stop()
		<-waitCh
		return nil
	case waitErr := <-waitCh:
		if waitErr != nil {
			renderIssue(stderr, issue.ServeStartFailedId)
			return waitErr
		}
		return nil
	}
}

// printConnectionInfo shows how to reach the served workflow.
func printConnectionInfo(w io.Writer, info *sshserver.ConnectionInfo) {
	fmt.Fprintln(w, TitleStyle.Render("GPS Workflow over SSH"))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s: %s:%d\n", CmdStyle.Render("Address"), info.Host, info.Port)
	fmt.Fprintf(w, "%s: %s\n", CmdStyle.Render("User"), info.User)
	fmt.Fprintf(w, "%s: %s\n", CmdStyle.Render("Token"), info.Token)
	fmt.Fprintf(w, "%s: %s\n", CmdStyle.Render("Expires"), info.ExpireAt.Local().Format(time.RFC1123))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Connect with:\n  %s\n", CmdStyle.Render(fmt.Sprintf("ssh -p %d %s@%s", info.Port, info.User, info.Host)))
	fmt.Fprintln(w, "The token is the password. Press Ctrl+C to stop serving.")
}

// serveHandler runs one launcher workflow per SSH session, wired to the
// session's streams.
type serveHandler struct {
	cfg *config.Config
}

// HandleSession implements sshserver.SessionHandler.
func (h *serveHandler) HandleSession(ctx context.Context, sio sshserver.SessionIO) (types.ExitCode, error) {
	opts := launchOptions{
		Stdin:  remoteInput(sio.Command, sio.Stdin),
		Stdout: sio.Stdout,
		Stderr: sio.Stderr,
	}
	if sio.Interactive {
		// Attach entry programs to the client PTY so they behave as on a
		// direct console.
		opts.Exec = sio.Exec
	}

	wired, err := buildLauncher(h.cfg, opts)
	if err != nil {
		fmt.Fprintln(sio.Stderr, formatErrorForDisplay(err, false))
		return types.ExitCode(1), err
	}
	defer wired.Close()

	code, runErr := wired.launcher.Run(ctx)
	if runErr != nil {
		fmt.Fprintln(sio.Stderr, formatErrorForDisplay(runErr, false))
	}
	return code, runErr
}

// remoteInput returns the session input: a remote command is replayed as
// the typed menu choice, so `ssh host 2` dispatches capture and the
// trailing pause reads EOF and proceeds.
func remoteInput(command []string, stdin io.Reader) io.Reader {
	if len(command) == 0 {
		return stdin
	}
	return strings.NewReader(strings.Join(command, " ") + "\n")
}
