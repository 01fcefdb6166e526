package services

import (
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu      sync.Mutex
	now     time.Time
	ticks   chan time.Time
	tickers int
	stopped int
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now, ticks: make(chan time.Time)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Set(now time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = now
}

func (f *fakeClock) NewTicker(time.Duration) Ticker {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tickers++
	return fakeTicker{clock: f}
}

// Advance moves the clock and delivers one tick to the running ticker.
func (f *fakeClock) Advance(t *testing.T, d time.Duration) {
	t.Helper()

	f.mu.Lock()
	f.now = f.now.Add(d)
	now := f.now
	f.mu.Unlock()

	select {
	case f.ticks <- now:
	case <-time.After(time.Second):
		t.Fatalf("no ticker received the tick")
	}
}

type fakeTicker struct {
	clock *fakeClock
}

func (t fakeTicker) C() <-chan time.Time {
	return t.clock.ticks
}

func (t fakeTicker) Stop() {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	t.clock.stopped++
}

func eventually(t *testing.T, condition func() bool) {
	t.Helper()

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met within a second")
}
