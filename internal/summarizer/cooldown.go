package summarizer

import (
	"sync"
	"time"
)

// DefaultCooldownInterval is the minimum gap between generation requests
// from the same client.
const DefaultCooldownInterval = 5 * time.Second

// Cooldown enforces a minimum interval between summary generations per
// originating client. State lives in process memory only and resets on
// restart; that is deliberate, the limit protects the upstream API from
// interactive hammering, not from determined abuse.
type Cooldown struct {
	mu       sync.Mutex
	last     map[string]time.Time
	interval time.Duration
	now      func() time.Time
}

// NewCooldown creates a cooldown with the given minimum interval. A zero or
// negative interval falls back to the default.
func NewCooldown(interval time.Duration) *Cooldown {
	if interval <= 0 {
		interval = DefaultCooldownInterval
	}
	return &Cooldown{
		last:     make(map[string]time.Time),
		interval: interval,
		now:      time.Now,
	}
}

// Allow reports whether the client identified by key may generate a summary
// now. When allowed, the attempt is recorded immediately; when denied, the
// remaining wait time is returned.
func (c *Cooldown) Allow(key string) (bool, time.Duration) {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if last, ok := c.last[key]; ok {
		if elapsed := now.Sub(last); elapsed < c.interval {
			return false, c.interval - elapsed
		}
	}

	c.last[key] = now
	return true, 0
}
