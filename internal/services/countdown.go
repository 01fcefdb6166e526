package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mdayat/nur-ramadan/internal/derive"
	"github.com/mdayat/nur-ramadan/internal/dtos"
)

const CountdownInterval = time.Minute

// CountdownTicker recomputes the iftar countdown for one prayer-times
// snapshot at a time. Starting it again replaces the previous task.
type CountdownTicker struct {
	clock Clock

	// lifecycle is held through a whole Start or Stop, so a replaced task is
	// always cancelled before the next one is installed.
	lifecycle sync.Mutex

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	current *derive.Countdown
}

func NewCountdownTicker(clock Clock) *CountdownTicker {
	return &CountdownTicker{clock: clock}
}

// Start computes the countdown immediately and then on every interval until
// Stop or the next Start. A snapshot without an iftar time stops the ticker.
func (c *CountdownTicker) Start(times dtos.PrayerTimes) error {
	c.lifecycle.Lock()
	defer c.lifecycle.Unlock()

	c.stop()

	if times.IftarTime == "" {
		return nil
	}

	iftar, err := derive.ParseTimeOfDay(times.IftarTime)
	if err != nil {
		return fmt.Errorf("failed to parse iftar time: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	ticker := c.clock.NewTicker(CountdownInterval)

	c.mu.Lock()
	c.cancel = cancel
	c.done = done
	countdown := derive.IftarCountdown(iftar, c.clock.Now())
	c.current = &countdown
	c.mu.Unlock()

	go func() {
		defer close(done)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C():
				c.mu.Lock()
				if ctx.Err() == nil {
					countdown := derive.IftarCountdown(iftar, c.clock.Now())
					c.current = &countdown
				}
				c.mu.Unlock()
			}
		}
	}()

	return nil
}

// Stop cancels the running task, waits for it to exit and clears the
// countdown.
func (c *CountdownTicker) Stop() {
	c.lifecycle.Lock()
	defer c.lifecycle.Unlock()

	c.stop()
}

func (c *CountdownTicker) stop() {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.cancel, c.done = nil, nil
	c.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}

	c.mu.Lock()
	c.current = nil
	c.mu.Unlock()
}

func (c *CountdownTicker) Current() (derive.Countdown, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		return derive.Countdown{}, false
	}
	return *c.current, true
}

func (c *CountdownTicker) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.cancel != nil
}
