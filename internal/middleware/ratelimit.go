// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Two per-IP caps cover the whole surface: a tight one on credential
// endpoints against brute force, and a loose one on the authenticated
// editor API to absorb runaway dashboard clients.
const (
	authRequestsPerMinute = 10
	apiRequestsPerMinute  = 300
)

// NewAuthLimiter builds the limiter for login and 2FA verification.
func NewAuthLimiter() *RateLimiter {
	return NewRateLimiter(authRequestsPerMinute, time.Minute)
}

// NewAPILimiter builds the limiter for the authenticated merchant API.
func NewAPILimiter() *RateLimiter {
	return NewRateLimiter(apiRequestsPerMinute, time.Minute)
}

// RateLimiter enforces a sliding-window request cap per client IP.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string][]time.Time
	limit    int
	window   time.Duration
	stopCh   chan struct{}
}

// NewRateLimiter creates a limiter allowing limit requests per window and
// starts a background goroutine that evicts idle clients.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
		stopCh:   make(chan struct{}),
	}
	go rl.evictLoop()
	return rl
}

// Stop terminates the background eviction goroutine.
func (rl *RateLimiter) Stop() {
	close(rl.stopCh)
}

func (rl *RateLimiter) evictLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			rl.evictIdle()
		case <-rl.stopCh:
			return
		}
	}
}

// allow records a request for the key and reports whether it fits the
// window. Timestamps older than the window are dropped on each call.
func (rl *RateLimiter) allow(key string) bool {
	now := time.Now()
	cutoff := now.Add(-rl.window)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	recent := rl.visitors[key][:0]
	for _, ts := range rl.visitors[key] {
		if ts.After(cutoff) {
			recent = append(recent, ts)
		}
	}
	if len(recent) >= rl.limit {
		rl.visitors[key] = recent
		return false
	}
	rl.visitors[key] = append(recent, now)
	return true
}

// evictIdle drops clients whose every timestamp has left the window.
func (rl *RateLimiter) evictIdle() {
	cutoff := time.Now().Add(-rl.window)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for key, stamps := range rl.visitors {
		live := false
		for _, ts := range stamps {
			if ts.After(cutoff) {
				live = true
				break
			}
		}
		if !live {
			delete(rl.visitors, key)
		}
	}
}

// Middleware rejects over-limit requests with a JSON 429 and a
// Retry-After hint matching the window.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.allow(clientIP(r)) {
			w.Header().Set("Retry-After", strconv.Itoa(int(rl.window.Seconds())))
			writeJSONError(w, http.StatusTooManyRequests, "too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP extracts the client's IP address, checking X-Forwarded-For
// and X-Real-IP headers for proxied requests.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// Take the first (leftmost) IP, the original client.
		if idx := strings.IndexByte(xff, ','); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
