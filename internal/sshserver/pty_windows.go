// SPDX-License-Identifier: EPL-2.0

//go:build windows

package sshserver

import (
	"io"
	"os"
	"os/exec"
)

// startPty reports PTY allocation as unsupported. Sessions fall back to
// wiring the child's streams directly to the SSH channel, which loses
// terminal semantics but keeps remote execution working.
func startPty(_ *exec.Cmd) (*os.File, error) {
	return nil, errPtyUnsupported
}

// setWinsize is a no-op without a PTY.
func setWinsize(_ *os.File, _, _ int) {}

// copyBuffer copies from src to dst.
func copyBuffer(dst io.Writer, src io.Reader) (int64, error) {
	return io.Copy(dst, src)
}
