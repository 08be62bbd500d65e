// SPDX-License-Identifier: MPL-2.0

// Package testutil holds shared test helpers: fail-fast wrappers for
// environment and filesystem setup (MustSetenv, MustChdir, MustMkdirAll),
// cleanup helpers that log instead of failing (MustStop, DeferClose), a
// manually driven FakeClock, home-directory redirection for config tests,
// and the semaphore capping concurrent container tests.
package testutil
