package auth

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimiter tracks failed login attempts per IP+email combination using a
// sliding window, locking the pair out after too many failures. Expired
// records are pruned lazily on access; the map only ever holds recently
// active pairs.
type RateLimiter struct {
	mu              sync.Mutex
	attempts        map[string]*attemptRecord
	maxAttempts     int
	windowDuration  time.Duration
	lockoutDuration time.Duration
	now             func() time.Time
}

type attemptRecord struct {
	count        int
	firstAttempt time.Time
	lockedUntil  time.Time
}

// NewRateLimiter creates a rate limiter; non-positive settings fall back to
// 5 attempts per 15 minutes with a 30 minute lockout.
func NewRateLimiter(maxAttempts int, window, lockout time.Duration) *RateLimiter {
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	if window <= 0 {
		window = 15 * time.Minute
	}
	if lockout <= 0 {
		lockout = 30 * time.Minute
	}

	return &RateLimiter{
		attempts:        make(map[string]*attemptRecord),
		maxAttempts:     maxAttempts,
		windowDuration:  window,
		lockoutDuration: lockout,
		now:             time.Now,
	}
}

func (rl *RateLimiter) key(ip, email string) string {
	return ip + ":" + email
}

// Allow reports whether a login attempt may proceed. When denied, the
// returned duration says when the lockout expires.
func (rl *RateLimiter) Allow(ip, email string) (bool, time.Duration) {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	record, exists := rl.attempts[rl.key(ip, email)]
	if !exists {
		return true, 0
	}

	if !record.lockedUntil.IsZero() && now.Before(record.lockedUntil) {
		return false, record.lockedUntil.Sub(now)
	}

	if now.Sub(record.firstAttempt) > rl.windowDuration {
		delete(rl.attempts, rl.key(ip, email))
		return true, 0
	}

	if record.count < rl.maxAttempts {
		return true, 0
	}

	return false, rl.lockoutDuration
}

// RecordFailure records a failed login attempt and reports whether the pair
// is now locked out.
func (rl *RateLimiter) RecordFailure(ip, email string) (bool, time.Duration) {
	now := rl.now()
	key := rl.key(ip, email)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	record, exists := rl.attempts[key]
	if !exists || now.Sub(record.firstAttempt) > rl.windowDuration {
		record = &attemptRecord{firstAttempt: now}
		rl.attempts[key] = record
	}

	record.count++

	if record.count >= rl.maxAttempts {
		record.lockedUntil = now.Add(rl.lockoutDuration)
		return true, rl.lockoutDuration
	}

	return false, 0
}

// RecordSuccess clears the failure record after a successful login.
func (rl *RateLimiter) RecordSuccess(ip, email string) {
	rl.mu.Lock()
	delete(rl.attempts, rl.key(ip, email))
	rl.mu.Unlock()
}

// Middleware rejects login attempts from locked-out IP+email pairs before
// they reach the handler. Apply to the login route only.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		email := c.PostForm("email")
		if email == "" {
			c.Next()
			return
		}

		allowed, retryAfter := rl.Allow(c.ClientIP(), email)
		if !allowed {
			c.Header("Retry-After", retryAfter.String())
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "too many login attempts",
				"retry_after": retryAfter.String(),
			})
			return
		}

		c.Next()
	}
}
