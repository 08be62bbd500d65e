// SPDX-License-Identifier: MPL-2.0

// Package sshserver exposes the interactive GPS workflow to remote
// operators over SSH, using the Wish library.
//
// Field units usually run headless; this server gives an operator the same
// menu a local console would show, over a plain ssh client. Access is
// granted through short-lived tokens used as SSH passwords, so the unit
// needs no account or key management.
package sshserver
