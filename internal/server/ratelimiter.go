package server

import (
	"sync"
	"time"
)

const rateWindow = time.Minute

// RateLimiter is a per-client sliding window limiter
type RateLimiter struct {
	mu              sync.Mutex
	requests        map[string][]time.Time
	maxPerWindow    int
	cleanupInterval time.Duration
	stopCleanup     chan struct{}
	stopOnce        sync.Once
	now             func() time.Time
}

// NewRateLimiter creates a limiter allowing maxRequestsPerMinute per client
func NewRateLimiter(maxRequestsPerMinute int) *RateLimiter {
	rl := &RateLimiter{
		requests:        make(map[string][]time.Time),
		maxPerWindow:    maxRequestsPerMinute,
		cleanupInterval: 5 * time.Minute,
		stopCleanup:     make(chan struct{}),
		now:             time.Now,
	}

	go rl.runCleanup()

	return rl
}

// CheckLimit records a request from client and reports whether it is allowed
func (rl *RateLimiter) CheckLimit(client string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	recent := prune(rl.requests[client], now)
	if len(recent) >= rl.maxPerWindow {
		rl.requests[client] = recent
		return false
	}

	rl.requests[client] = append(recent, now)
	return true
}

// GetRetryAfter returns seconds until client may send again
func (rl *RateLimiter) GetRetryAfter(client string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	recent := rl.requests[client]
	if len(recent) == 0 {
		return 0
	}

	wait := rateWindow - rl.now().Sub(recent[0])
	if wait <= 0 {
		return 0
	}
	return int((wait + time.Second - 1) / time.Second)
}

func (rl *RateLimiter) runCleanup() {
	ticker := time.NewTicker(rl.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopCleanup:
			return
		}
	}
}

func (rl *RateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for client, times := range rl.requests {
		recent := prune(times, now)
		if len(recent) == 0 {
			delete(rl.requests, client)
		} else {
			rl.requests[client] = recent
		}
	}
}

// Stop stops the cleanup goroutine
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCleanup) })
}

// prune drops timestamps outside the window; times is sorted ascending
func prune(times []time.Time, now time.Time) []time.Time {
	i := 0
	for i < len(times) && now.Sub(times[i]) >= rateWindow {
		i++
	}
	return times[i:]
}
