// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"sync"
	"testing"
	"time"
)

func TestFakeClock_NowReturnsInitial(t *testing.T) {
	t.Parallel()

	initial := time.Date(2026, 3, 9, 8, 30, 0, 0, time.UTC)
	clock := NewFakeClock(initial)

	if got := clock.Now(); !got.Equal(initial) {
		t.Errorf("Now() = %v, want %v", got, initial)
	}
}

func TestFakeClock_ZeroInitialGetsReference(t *testing.T) {
	t.Parallel()

	clock := NewFakeClock(time.Time{})

	if clock.Now().IsZero() {
		t.Error("zero initial should be replaced with a fixed reference time")
	}
}

func TestFakeClock_Advance(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		steps []time.Duration
		want  time.Duration
	}{
		{name: "forward once", steps: []time.Duration{time.Hour}, want: time.Hour},
		{name: "accumulates", steps: []time.Duration{time.Minute, 30 * time.Second}, want: 90 * time.Second},
		{name: "backward", steps: []time.Duration{time.Hour, -2 * time.Hour}, want: -time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			start := time.Date(2026, 3, 9, 8, 30, 0, 0, time.UTC)
			clock := NewFakeClock(start)
			for _, d := range tt.steps {
				clock.Advance(d)
			}

			if got := clock.Now().Sub(start); got != tt.want {
				t.Errorf("net advance = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFakeClock_ConcurrentUse(t *testing.T) {
	t.Parallel()

	clock := NewFakeClock(time.Time{})
	start := clock.Now()

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				clock.Advance(time.Millisecond)
				_ = clock.Now()
			}
		}()
	}
	wg.Wait()

	if got := clock.Now().Sub(start); got != time.Second {
		t.Errorf("total advance = %v, want 1s", got)
	}
}
