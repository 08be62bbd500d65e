// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"sync"
	"time"
)

// FakeClock is a manually driven clock for tests that check time-dependent
// behavior such as token expiry. It satisfies any consumer-side interface
// of the form { Now() time.Time } structurally, so packages under test can
// declare their own Clock port without importing this package.
type FakeClock struct {
	mu      sync.Mutex
	current time.Time
}

// NewFakeClock returns a FakeClock starting at initial. A zero initial is
// replaced with a fixed reference instant so tests stay reproducible
// without every caller inventing one.
func NewFakeClock(initial time.Time) *FakeClock {
	if initial.IsZero() {
		initial = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	return &FakeClock{current: initial}
}

// Now returns the current fake time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Advance moves the fake time by d. Negative d moves it backward, which
// tests use to model wall-clock corrections.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Add(d)
}
