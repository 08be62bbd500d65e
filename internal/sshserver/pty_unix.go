//go:build !windows

package sshserver

import (
	"io"
	"os"
	"os/exec"

	"github.com/creack/pty"
)

// startPty starts cmd attached to a freshly allocated pseudo-terminal and
// returns the master end.
func startPty(cmd *exec.Cmd) (*os.File, error) {
	return pty.Start(cmd)
}

// setWinsize propagates the client's window size to the PTY.
func setWinsize(f *os.File, width, height int) {
	ws := &pty.Winsize{Rows: uint16(height), Cols: uint16(width)}
	_ = pty.Setsize(f, ws) //nolint:errcheck // Resize is best-effort
}

// copyBuffer copies from src to dst.
func copyBuffer(dst io.Writer, src io.Reader) (int64, error) {
	return io.Copy(dst, src)
}
