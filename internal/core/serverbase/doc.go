// SPDX-License-Identifier: MPL-2.0

// Package serverbase provides a reusable lifecycle state machine for
// long-running server components.
//
// It covers the parts every server needs and every server gets subtly
// wrong: atomic state reads, race-free transitions, goroutine tracking for
// clean shutdown, and an error channel for fatal failures after startup.
// The SSH access server builds on it.
package serverbase
