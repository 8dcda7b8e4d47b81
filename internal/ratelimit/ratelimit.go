// Package ratelimit caps how many oracle requests a day may spend.
package ratelimit

import (
	"fmt"
	"sync"
	"time"

	"github.com/TidalHarley/Morning-Tide/internal/logger"
)

// Limiter counts oracle calls against a daily budget. A zero budget means
// unlimited. The counter resets 24 hours after the first use of a window.
type Limiter struct {
	mu        sync.Mutex
	count     int
	max       int
	resetTime time.Time
}

func New(maxDaily int) *Limiter {
	return &Limiter{
		max:       maxDaily,
		resetTime: time.Now().Add(24 * time.Hour),
	}
}

// Allow consumes one call from the budget, or reports why it cannot.
func (rl *Limiter) Allow() error {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.checkReset()

	if rl.max > 0 && rl.count >= rl.max {
		return fmt.Errorf("oracle daily budget exceeded (%d/%d)", rl.count, rl.max)
	}
	rl.count++
	return nil
}

// Remaining reports how many calls are left in the window. A negative value
// means the budget is unlimited.
func (rl *Limiter) Remaining() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.checkReset()
	if rl.max <= 0 {
		return -1
	}
	return rl.max - rl.count
}

func (rl *Limiter) GetStats() map[string]interface{} {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	return map[string]interface{}{
		"used":       rl.count,
		"limit":      rl.max,
		"reset_time": rl.resetTime,
	}
}

func (rl *Limiter) checkReset() {
	if time.Now().After(rl.resetTime) {
		logger.Info("resetting oracle call budget", "used", rl.count, "limit", rl.max)
		rl.count = 0
		rl.resetTime = time.Now().Add(24 * time.Hour)
	}
}
