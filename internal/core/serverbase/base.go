// SPDX-License-Identifier: MPL-2.0

package serverbase

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
)

// Base provides the lifecycle state machine and shutdown bookkeeping for
// long-running server components. Concrete servers embed a *Base and drive
// it through the Transition* helpers.
//
// A server instance is single-use: once stopped or failed, create a new one.
type Base struct {
	// State management (atomic for lock-free reads)
	state atomic.Int32

	// Guards lastErr and state transitions that are not a single CAS.
	stateMu sync.Mutex

	// Lifecycle management
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	startedCh chan struct{}
	errCh     chan error
	lastErr   error
}

// NewBase creates a Base in the Created state.
func NewBase() *Base {
	b := &Base{
		startedCh: make(chan struct{}),
		errCh:     make(chan error, 1), // Buffered so goroutines don't block
	}
	b.state.Store(int32(StateCreated))
	return b
}

// State returns the current server state (atomic, lock-free read).
func (b *Base) State() State {
	return State(b.state.Load())
}

// IsRunning returns true if the server is in the Running state.
func (b *Base) IsRunning() bool {
	return b.State() == StateRunning
}

// Err returns a channel for receiving async errors.
// The channel is closed when the server stops.
func (b *Base) Err() <-chan error {
	return b.errCh
}

// LastError returns the error that caused the Failed state, or nil.
func (b *Base) LastError() error {
	b.stateMu.Lock()
	defer b.stateMu.Unlock()
	return b.lastErr
}

// --- Lifecycle helpers for concrete implementations ---

// TransitionToStarting attempts the Created -> Starting transition.
// Returns an error if the current state is not Created or if the context
// is already cancelled. Must be called at the beginning of Start().
func (b *Base) TransitionToStarting(ctx context.Context) error {
	// Check for an already-cancelled context BEFORE any setup.
	// Otherwise the serve goroutine could reach StateRunning before the
	// cancellation is noticed.
	select {
	case <-ctx.Done():
		b.TransitionToFailed(fmt.Errorf("context cancelled before start: %w", ctx.Err()))
		return b.LastError()
	default:
	}

	if !b.state.CompareAndSwap(int32(StateCreated), int32(StateStarting)) {
		return fmt.Errorf("cannot start server in state %s", State(b.state.Load()))
	}

	// Internal context outlives the Start() caller's context; shutdown is
	// driven by Stop(), not by the caller going away.
	b.ctx, b.cancel = context.WithCancel(context.Background())

	return nil
}

// TransitionToRunning marks the server as running and closes the started
// channel to signal readiness. Safe to call at most once per instance.
func (b *Base) TransitionToRunning() {
	if b.state.CompareAndSwap(int32(StateStarting), int32(StateRunning)) {
		close(b.startedCh)
	}
}

// TransitionToFailed marks the server as failed with the given error.
// Valid from any non-terminal state; also cancels the internal context.
func (b *Base) TransitionToFailed(err error) {
	b.stateMu.Lock()
	b.lastErr = err
	b.stateMu.Unlock()

	b.state.Store(int32(StateFailed))

	if b.cancel != nil {
		b.cancel()
	}

	b.SendError(err)
}

// TransitionToStopping attempts to move into the Stopping state.
// Returns true if this call won the transition and the caller should run
// the shutdown sequence; false if the server is already stopped, stopping,
// failed, or was never started (Created collapses straight to Stopped).
func (b *Base) TransitionToStopping() bool {
	for {
		currentState := State(b.state.Load())
		switch currentState {
		case StateStopped, StateFailed:
			return false
		case StateCreated:
			if b.state.CompareAndSwap(int32(StateCreated), int32(StateStopped)) {
				return false
			}
			continue // State changed, retry
		case StateStopping:
			return false
		case StateStarting, StateRunning:
			if !b.state.CompareAndSwap(int32(currentState), int32(StateStopping)) {
				continue // State changed, retry
			}
			if b.cancel != nil {
				b.cancel()
			}
			return true
		default:
			return false
		}
	}
}

// TransitionToStopped marks the server as fully stopped.
// Must be called after all goroutines have exited.
func (b *Base) TransitionToStopped() {
	b.state.Store(int32(StateStopped))
}

// WaitForShutdown blocks until all tracked goroutines have completed.
func (b *Base) WaitForShutdown() {
	b.wg.Wait()
}

// Context returns the server's internal context for use in goroutines.
// Returns nil before TransitionToStarting has succeeded.
func (b *Base) Context() context.Context {
	return b.ctx
}

// AddGoroutine registers a goroutine with the shutdown tracker.
// Must be called before the goroutine starts.
func (b *Base) AddGoroutine() {
	b.wg.Add(1)
}

// DoneGoroutine marks a tracked goroutine as finished.
// Must be deferred at the top of each tracked goroutine.
func (b *Base) DoneGoroutine() {
	b.wg.Done()
}

// SendError delivers an error to the Err() channel without blocking.
// If the channel is full the error is dropped.
func (b *Base) SendError(err error) {
	select {
	case b.errCh <- err:
	default:
	}
}

// CloseErrChannel closes the error channel to signal consumers.
// Call only once, after the server is fully stopped.
func (b *Base) CloseErrChannel() {
	close(b.errCh)
}

// StartedChannel returns the readiness channel.
// The channel is closed when the server transitions to Running.
func (b *Base) StartedChannel() <-chan struct{} {
	return b.startedCh
}
