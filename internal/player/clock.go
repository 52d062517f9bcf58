package player

import (
	"sync"
	"time"
)

// Clock tracks the playback position of the current song. It starts
// paused at zero.
type Clock struct {
	mu      sync.Mutex
	now     func() time.Time
	started time.Time     // when the clock was last resumed
	base    time.Duration // position accumulated before that
	running bool
}

// NewClock returns a paused clock. now defaults to time.Now.
func NewClock(now func() time.Time) *Clock {
	if now == nil {
		now = time.Now
	}
	return &Clock{now: now}
}

// Position returns the time played so far.
func (c *Clock) Position() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position()
}

func (c *Clock) position() time.Duration {
	if !c.running {
		return c.base
	}
	return c.base + c.now().Sub(c.started)
}

// Play resumes the clock.
func (c *Clock) Play() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		c.started = c.now()
		c.running = true
	}
}

// Pause stops the clock, keeping the position.
func (c *Clock) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		c.base = c.position()
		c.running = false
	}
}

// Toggle flips between playing and paused and reports whether the clock
// is now playing.
func (c *Clock) Toggle() bool {
	c.mu.Lock()
	running := c.running
	c.mu.Unlock()
	if running {
		c.Pause()
		return false
	}
	c.Play()
	return true
}

// IsPlaying reports whether the clock is running.
func (c *Clock) IsPlaying() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Restart rewinds to zero without changing the play state.
func (c *Clock) Restart() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.base = 0
	c.started = c.now()
}
